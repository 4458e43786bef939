package mirror

import (
	"reflect"
	"testing"
)

type rec struct {
	ID   string
	Name string
}

func (r rec) Key() string { return r.ID }

func seed() Store[rec] {
	return New([]rec{{"1", "a"}, {"2", "b"}, {"3", "c"}})
}

func TestReplaceKeepsResponseOrder(t *testing.T) {
	resp := []rec{{"9", "z"}, {"1", "a"}, {"5", "m"}}
	s := seed().Replace(resp)
	if !reflect.DeepEqual(s.Items(), resp) {
		t.Fatalf("Items() = %v, want %v", s.Items(), resp)
	}
}

func TestReplaceDropsDuplicatesAndMissingIDs(t *testing.T) {
	s := New([]rec{{"1", "a"}, {"", "anon"}, {"1", "again"}, {"2", "b"}})
	want := []rec{{"1", "a"}, {"2", "b"}}
	if !reflect.DeepEqual(s.Items(), want) {
		t.Fatalf("Items() = %v, want %v", s.Items(), want)
	}
}

func TestAppendGrowsByOne(t *testing.T) {
	before := seed()
	after, ok := before.Append(rec{"4", "d"})
	if !ok {
		t.Fatal("Append reported false")
	}
	if after.Len() != before.Len()+1 {
		t.Fatalf("Len() = %d, want %d", after.Len(), before.Len()+1)
	}
	if last := after.Items()[after.Len()-1]; last.ID != "4" {
		t.Errorf("last item = %v, want id 4", last)
	}
	if before.Len() != 3 {
		t.Error("Append mutated the receiver")
	}
}

func TestPrependPutsItemFirst(t *testing.T) {
	after, ok := seed().Prepend(rec{"0", "new"})
	if !ok || after.Items()[0].ID != "0" {
		t.Fatalf("Prepend = %v, %v", after.Items(), ok)
	}
}

func TestAppendRejectsMissingOrDuplicateID(t *testing.T) {
	s := seed()
	if _, ok := s.Append(rec{"", "x"}); ok {
		t.Error("Append accepted an entity without id")
	}
	if _, ok := s.Append(rec{"2", "dup"}); ok {
		t.Error("Append accepted a duplicate id")
	}
}

func TestReplaceByIDOnlyTouchesTarget(t *testing.T) {
	before := seed()
	after, ok := before.ReplaceByID(rec{"2", "updated"})
	if !ok {
		t.Fatal("ReplaceByID reported false")
	}
	want := []rec{{"1", "a"}, {"2", "updated"}, {"3", "c"}}
	if !reflect.DeepEqual(after.Items(), want) {
		t.Fatalf("Items() = %v, want %v", after.Items(), want)
	}
	if got, _ := before.Get("2"); got.Name != "b" {
		t.Error("ReplaceByID mutated the receiver")
	}
}

func TestReplaceByIDUnknownIsNoop(t *testing.T) {
	before := seed()
	after, ok := before.ReplaceByID(rec{"42", "ghost"})
	if ok || !reflect.DeepEqual(after.Items(), before.Items()) {
		t.Fatalf("ReplaceByID of unknown id changed store: %v", after.Items())
	}
}

func TestRemoveByID(t *testing.T) {
	after, ok := seed().RemoveByID("2")
	if !ok || after.Len() != 2 {
		t.Fatalf("RemoveByID = %v, %v", after.Items(), ok)
	}
	if _, found := after.Get("2"); found {
		t.Error("removed id still present")
	}

	again, ok := after.RemoveByID("2")
	if ok || again.Len() != 2 {
		t.Error("second RemoveByID should be a no-op")
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	s := seed()
	items := s.Items()
	items[0].Name = "changed"
	if got, _ := s.Get("1"); got.Name != "a" {
		t.Error("Items() exposed internal slice")
	}
}
