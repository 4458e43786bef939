package screen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/unan-salud/salud-al-paso/internal/form"
	"github.com/unan-salud/salud-al-paso/internal/records"
	"github.com/unan-salud/salud-al-paso/internal/remote"
)

// fakeAppointments behaves like the backend: ids are issued on create and
// unknown ids are reported as 404.
type fakeAppointments struct {
	mu      sync.Mutex
	items   []records.Appointment
	next    int
	calls   int
	err     error
	reply   func(records.Appointment) records.Appointment
	started chan struct{}
	release chan struct{}
}

func (f *fakeAppointments) List(ctx context.Context) ([]records.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]records.Appointment(nil), f.items...), nil
}

func (f *fakeAppointments) Create(ctx context.Context, d records.AppointmentDraft) (records.Appointment, error) {
	if f.started != nil {
		f.started <- struct{}{}
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return records.Appointment{}, f.err
	}
	f.next++
	a := fromDraft(fmt.Sprintf("apt-%d", f.next), d)
	f.items = append(f.items, a)
	return a, nil
}

func (f *fakeAppointments) Update(ctx context.Context, id string, d records.AppointmentDraft) (records.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return records.Appointment{}, f.err
	}
	for i := range f.items {
		if f.items[i].ID == id {
			a := fromDraft(id, d)
			a.Status = f.items[i].Status
			f.items[i] = a
			if f.reply != nil {
				a = f.reply(a)
			}
			return a, nil
		}
	}
	return records.Appointment{}, &remote.StatusError{Method: http.MethodPut, Code: http.StatusNotFound, Detail: "Appointment not found"}
}

func (f *fakeAppointments) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return &remote.StatusError{Method: http.MethodDelete, Code: http.StatusNotFound, Detail: "Appointment not found"}
}

func (f *fakeAppointments) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func fromDraft(id string, d records.AppointmentDraft) records.Appointment {
	return records.Appointment{
		ID:              id,
		PatientName:     d.PatientName,
		PatientPhone:    d.PatientPhone,
		DoctorName:      d.DoctorName,
		Specialty:       d.Specialty,
		AppointmentDate: d.AppointmentDate,
		AppointmentTime: d.AppointmentTime,
		Reason:          d.Reason,
	}
}

func anaPerez() records.AppointmentDraft {
	return records.AppointmentDraft{
		PatientName:     "Ana Pérez",
		PatientPhone:    "88887777",
		DoctorName:      "Dr. López",
		Specialty:       "Cardiología",
		AppointmentDate: "2025-06-01",
		AppointmentTime: "09:00",
		Reason:          "Chequeo",
	}
}

func fill(d records.AppointmentDraft) func(*records.AppointmentDraft) {
	return func(p *records.AppointmentDraft) { *p = d }
}

func ids(items []records.Appointment) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func seeded(n int) *fakeAppointments {
	f := &fakeAppointments{}
	for i := 0; i < n; i++ {
		f.next++
		f.items = append(f.items, records.Appointment{
			ID:          fmt.Sprintf("apt-%d", f.next),
			PatientName: fmt.Sprintf("Paciente %d", f.next),
			Status:      records.AppointmentConfirmed,
		})
	}
	return f
}

func TestLoadMirrorsResponse(t *testing.T) {
	f := seeded(3)
	s := NewAppointments(context.Background(), f)
	defer s.Close()

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	st := s.State()
	if st.Loading {
		t.Error("still loading")
	}
	got := ids(st.Store.Items())
	want := []string{"apt-1", "apt-2", "apt-3"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("store = %v, want %v", got, want)
	}
}

func TestLoadFailureLeavesEmptyStore(t *testing.T) {
	f := seeded(2)
	s := NewAppointments(context.Background(), f)
	defer s.Close()
	_ = s.Load(context.Background())

	f.err = &remote.NetworkError{Method: http.MethodGet, Err: errors.New("connection refused")}
	if err := s.Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	st := s.State()
	if st.Store.Len() != 0 || st.Loading {
		t.Errorf("state after failed load: len=%d loading=%v", st.Store.Len(), st.Loading)
	}
	if !st.Notice.Empty() {
		t.Errorf("failed load should not raise a notice, got %+v", st.Notice)
	}
}

func TestCreateAnaPerez(t *testing.T) {
	f := &fakeAppointments{}
	s := NewAppointments(context.Background(), f)
	defer s.Close()
	_ = s.Load(context.Background())

	s.OpenCreate()
	s.Edit(fill(anaPerez()))
	if err := s.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	st := s.State()
	if st.Store.Len() != 1 {
		t.Fatalf("store len = %d, want 1", st.Store.Len())
	}
	a := st.Store.Items()[0]
	if a.ID == "" || a.PatientName != "Ana Pérez" {
		t.Errorf("created = %+v", a)
	}
	if a.DisplayStatus() != records.AppointmentScheduled {
		t.Errorf("DisplayStatus() = %q, want scheduled", a.DisplayStatus())
	}
	if st.ModalVisible || st.Pending {
		t.Errorf("modal=%v pending=%v after success", st.ModalVisible, st.Pending)
	}
	if st.Form.Draft() != (records.AppointmentDraft{}) || st.Form.Mode() != form.ModeCreate {
		t.Errorf("form not reset: %+v", st.Form.Draft())
	}
	if st.Notice != (Notice{Title: TitleSuccess, Message: "Cita médica creada exitosamente."}) {
		t.Errorf("Notice = %+v", st.Notice)
	}
}

func TestCreateWithoutPatientNameMakesNoCall(t *testing.T) {
	f := seeded(1)
	s := NewAppointments(context.Background(), f)
	defer s.Close()
	_ = s.Load(context.Background())
	before := f.callCount()

	d := anaPerez()
	d.PatientName = ""
	s.OpenCreate()
	s.Edit(fill(d))

	err := s.Submit(context.Background())
	var ve *form.ValidationError
	if !errors.As(err, &ve) || ve.Fields() != "patient_name" {
		t.Fatalf("Submit() error = %v", err)
	}
	if f.callCount() != before {
		t.Error("validation failure reached the backend")
	}
	st := s.State()
	if st.Store.Len() != 1 {
		t.Errorf("store len = %d, want 1", st.Store.Len())
	}
	if st.Notice != (Notice{Title: TitleError, Message: form.MsgIncomplete}) {
		t.Errorf("Notice = %+v", st.Notice)
	}
	if !st.ModalVisible || st.Form.Draft().Reason != "Chequeo" {
		t.Error("form should stay open with the typed values")
	}
}

func TestDuplicateDraftsCreateTwoEntities(t *testing.T) {
	s := NewAppointments(context.Background(), &fakeAppointments{})
	defer s.Close()

	for i := 0; i < 2; i++ {
		s.OpenCreate()
		s.Edit(fill(anaPerez()))
		if err := s.Submit(context.Background()); err != nil {
			t.Fatalf("Submit() #%d error: %v", i, err)
		}
	}

	items := s.State().Store.Items()
	if len(items) != 2 || items[0].ID == items[1].ID {
		t.Fatalf("store = %v", ids(items))
	}
}

func TestUpdateReplacesOnlyTarget(t *testing.T) {
	f := seeded(3)
	s := NewAppointments(context.Background(), f)
	defer s.Close()
	_ = s.Load(context.Background())
	before := s.State().Store.Items()

	if err := s.OpenEdit("apt-2"); err != nil {
		t.Fatalf("OpenEdit() error: %v", err)
	}
	if st := s.State(); st.Form.Mode() != form.ModeEdit || st.Form.Draft().PatientName != "Paciente 2" {
		t.Fatalf("edit form = %+v", st.Form.Draft())
	}
	s.Edit(fill(anaPerez()))
	if err := s.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	st := s.State()
	after := st.Store.Items()
	if len(after) != len(before) {
		t.Fatalf("len = %d, want %d", len(after), len(before))
	}
	if after[1].ID != "apt-2" || after[1].PatientName != "Ana Pérez" || after[1].Status != records.AppointmentConfirmed {
		t.Errorf("updated = %+v", after[1])
	}
	if after[0] != before[0] || after[2] != before[2] {
		t.Error("update touched other entities")
	}
	if st.Notice.Message != "Cita médica actualizada exitosamente." {
		t.Errorf("Notice = %+v", st.Notice)
	}
}

func TestFailedUpdateKeepsStoreAndForm(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"status", &remote.StatusError{Method: http.MethodPut, Code: http.StatusInternalServerError}, "No se pudo actualizar la cita médica."},
		{"network", &remote.NetworkError{Method: http.MethodPut, Err: errors.New("connection refused")}, MsgConnection},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := seeded(3)
			s := NewAppointments(context.Background(), f)
			defer s.Close()
			_ = s.Load(context.Background())
			before := s.State().Store.Items()

			if err := s.OpenEdit("apt-2"); err != nil {
				t.Fatalf("OpenEdit() error: %v", err)
			}
			s.Edit(fill(anaPerez()))

			f.err = tc.err
			if err := s.Submit(context.Background()); !errors.Is(err, tc.err) {
				t.Fatalf("Submit() error = %v", err)
			}

			st := s.State()
			if fmt.Sprint(st.Store.Items()) != fmt.Sprint(before) {
				t.Errorf("store = %+v, want %+v", st.Store.Items(), before)
			}
			if st.Form.Mode() != form.ModeEdit || st.Form.Target() != "apt-2" || st.Form.Draft() != anaPerez() {
				t.Errorf("form = %v %q %+v", st.Form.Mode(), st.Form.Target(), st.Form.Draft())
			}
			if !st.ModalVisible || st.Pending {
				t.Errorf("modal=%v pending=%v", st.ModalVisible, st.Pending)
			}
			if st.Notice != (Notice{Title: TitleError, Message: tc.want}) {
				t.Errorf("Notice = %+v", st.Notice)
			}
		})
	}
}

func TestUpdateResultMustMatchEditedID(t *testing.T) {
	cases := map[string]func(records.Appointment) records.Appointment{
		"no id": func(a records.Appointment) records.Appointment {
			a.ID = ""
			return a
		},
		"other id": func(a records.Appointment) records.Appointment {
			a.ID = "apt-1"
			return a
		},
	}

	for name, reply := range cases {
		t.Run(name, func(t *testing.T) {
			f := seeded(3)
			f.reply = reply
			s := NewAppointments(context.Background(), f)
			defer s.Close()
			_ = s.Load(context.Background())
			before := s.State().Store.Items()

			if err := s.OpenEdit("apt-2"); err != nil {
				t.Fatalf("OpenEdit() error: %v", err)
			}
			s.Edit(fill(anaPerez()))
			if err := s.Submit(context.Background()); !errors.Is(err, ErrUnmatched) {
				t.Fatalf("Submit() error = %v, want ErrUnmatched", err)
			}

			st := s.State()
			if fmt.Sprint(st.Store.Items()) != fmt.Sprint(before) {
				t.Errorf("store changed: %+v", st.Store.Items())
			}
			if st.Notice != (Notice{Title: TitleError, Message: "No se pudo actualizar la cita médica."}) {
				t.Errorf("Notice = %+v", st.Notice)
			}
			if !st.ModalVisible || st.Pending || st.Form.Draft() != anaPerez() {
				t.Error("form must stay open with the draft")
			}
		})
	}
}

func TestReduceRejectsUnpatchableResults(t *testing.T) {
	s := NewState[records.Appointment, records.AppointmentDraft](PlaceEnd, AppointmentMessages, form.MsgIncomplete)
	s = Reduce(s, Loaded[records.Appointment]{Items: []records.Appointment{{ID: "a"}, {ID: "b"}}})
	s = Reduce(s, Submitted{})

	dup := Reduce(s, Created[records.Appointment]{Item: records.Appointment{ID: "a", PatientName: "x"}})
	if dup.Store.Len() != 2 || dup.Notice.Message != AppointmentMessages.CreateFailed || dup.Pending {
		t.Errorf("duplicate create: len=%d notice=%+v", dup.Store.Len(), dup.Notice)
	}

	gone := Reduce(s, Updated[records.Appointment]{ID: "c", Item: records.Appointment{ID: "c"}})
	if gone.Store.Len() != 2 || gone.Notice.Message != AppointmentMessages.UpdateFailed {
		t.Errorf("update of unlisted id: len=%d notice=%+v", gone.Store.Len(), gone.Notice)
	}

	ok := Reduce(s, Updated[records.Appointment]{ID: "b", Item: records.Appointment{ID: "b", PatientName: "Ana"}})
	if got, _ := ok.Store.Get("b"); got.PatientName != "Ana" || ok.Notice.Title != TitleSuccess {
		t.Errorf("update = %+v notice=%+v", got, ok.Notice)
	}
}

func TestDeleteRemovesOne(t *testing.T) {
	f := seeded(3)
	s := NewAppointments(context.Background(), f)
	defer s.Close()
	_ = s.Load(context.Background())

	if err := s.Delete(context.Background(), "apt-1"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	st := s.State()
	if got := ids(st.Store.Items()); fmt.Sprint(got) != "[apt-2 apt-3]" {
		t.Errorf("store = %v", got)
	}
	if st.Notice.Message != "Cita médica eliminada exitosamente." {
		t.Errorf("Notice = %+v", st.Notice)
	}
}

func TestDeleteAbsentIDIsNoop(t *testing.T) {
	f := seeded(2)
	s := NewAppointments(context.Background(), f)
	defer s.Close()
	_ = s.Load(context.Background())

	if err := s.Delete(context.Background(), "apt-1"); err != nil {
		t.Fatalf("first Delete() error: %v", err)
	}
	if err := s.Delete(context.Background(), "apt-1"); err != nil {
		t.Fatalf("second Delete() error: %v", err)
	}
	if err := s.Delete(context.Background(), "nope"); err != nil {
		t.Fatalf("Delete(nope) error: %v", err)
	}
	st := s.State()
	if got := ids(st.Store.Items()); fmt.Sprint(got) != "[apt-2]" {
		t.Errorf("store = %v", got)
	}
	if st.Pending {
		t.Error("pending flag left set")
	}
}

func TestFailureMessages(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"network", &remote.NetworkError{Method: http.MethodPost, Err: errors.New("dial tcp")}, MsgConnection},
		{"status", &remote.StatusError{Method: http.MethodPost, Code: http.StatusInternalServerError}, "No se pudo crear la cita médica."},
		{"detail", &remote.StatusError{Method: http.MethodPost, Code: http.StatusUnprocessableEntity, Detail: "appointment_date: invalid"}, "appointment_date: invalid"},
		{"decode", fmt.Errorf("%w: unexpected EOF", remote.ErrDecode), "No se pudo crear la cita médica."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := &fakeAppointments{err: tc.err}
			s := NewAppointments(context.Background(), f)
			defer s.Close()

			s.OpenCreate()
			s.Edit(fill(anaPerez()))
			if err := s.Submit(context.Background()); !errors.Is(err, tc.err) {
				t.Fatalf("Submit() error = %v", err)
			}
			st := s.State()
			if st.Notice != (Notice{Title: TitleError, Message: tc.want}) {
				t.Errorf("Notice = %+v", st.Notice)
			}
			if st.Store.Len() != 0 || !st.ModalVisible || st.Form.Draft() != anaPerez() || st.Pending {
				t.Error("failed create must leave the store and the form untouched")
			}
		})
	}
}

func TestFailedDeleteKeepsEntity(t *testing.T) {
	f := seeded(2)
	s := NewAppointments(context.Background(), f)
	defer s.Close()
	_ = s.Load(context.Background())

	f.err = &remote.StatusError{Method: http.MethodDelete, Code: http.StatusInternalServerError}
	if err := s.Delete(context.Background(), "apt-1"); err == nil {
		t.Fatal("expected error")
	}
	st := s.State()
	if st.Store.Len() != 2 {
		t.Errorf("store len = %d, want 2", st.Store.Len())
	}
	if st.Notice.Message != "No se pudo eliminar la cita médica." {
		t.Errorf("Notice = %+v", st.Notice)
	}
}

func TestCloseDropsLateResult(t *testing.T) {
	f := &fakeAppointments{started: make(chan struct{}), release: make(chan struct{})}
	s := NewAppointments(context.Background(), f)

	s.OpenCreate()
	s.Edit(fill(anaPerez()))
	task := s.Go(s.Submit)

	<-f.started
	s.Close()
	close(f.release)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := task.Wait(ctx); err != nil {
		t.Fatalf("task error: %v", err)
	}
	if s.State().Store.Len() != 0 {
		t.Error("late create was applied to a closed screen")
	}
	if !s.Closed() {
		t.Error("Closed() = false")
	}
	if err := s.Load(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Load() after Close = %v, want ErrClosed", err)
	}
}

func TestGoAfterCloseFailsFast(t *testing.T) {
	s := NewAppointments(context.Background(), &fakeAppointments{})
	s.Close()

	task := s.Go(func(ctx context.Context) error {
		t.Error("task ran after close")
		return nil
	})
	if err := task.Wait(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Wait() = %v, want ErrClosed", err)
	}
}

func TestDismissResetsForm(t *testing.T) {
	s := NewAppointments(context.Background(), seeded(1))
	defer s.Close()
	_ = s.Load(context.Background())

	if err := s.OpenEdit("apt-1"); err != nil {
		t.Fatal(err)
	}
	s.Dismiss()
	st := s.State()
	if st.ModalVisible || st.Form.Mode() != form.ModeCreate || st.Form.Target() != "" {
		t.Errorf("state after Dismiss = %+v", st)
	}
	if err := s.OpenEdit("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("OpenEdit(missing) = %v", err)
	}
}

func TestReduceLeavesInputUntouched(t *testing.T) {
	s := NewState[records.Appointment, records.AppointmentDraft](PlaceEnd, AppointmentMessages, form.MsgIncomplete)
	s = Reduce(s, Loaded[records.Appointment]{Items: []records.Appointment{{ID: "a"}}})

	next := Reduce(s, Created[records.Appointment]{Item: records.Appointment{ID: "b"}})
	if s.Store.Len() != 1 || next.Store.Len() != 2 {
		t.Fatalf("len before=%d after=%d", s.Store.Len(), next.Store.Len())
	}

	// Events for another entity type are ignored.
	other := Reduce(s, Loaded[records.Consultation]{Items: []records.Consultation{{ID: "c"}}})
	if other.Store.Len() != 1 {
		t.Error("foreign event changed the store")
	}
}
