// Package mirror keeps an ordered in-memory copy of one remote collection.
//
// A Store is a value: every patch returns a new Store and leaves the receiver
// untouched, so callers can hold it inside reducer state without copying.
// Patches are applied from the response of the mutating call; there is no
// re-fetch, so the copy can drift if another client changes the collection.
package mirror

// Keyed is implemented by entities that carry a server-issued id.
type Keyed interface {
	Key() string
}

type Store[T Keyed] struct {
	items []T
}

// New builds a store from a list response, see Replace.
func New[T Keyed](items []T) Store[T] {
	return Store[T]{}.Replace(items)
}

// Replace returns a store holding exactly items, in order. Entries without an
// id and repeated ids after the first occurrence are dropped.
func (s Store[T]) Replace(items []T) Store[T] {
	out := make([]T, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		k := it.Key()
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return Store[T]{items: out}
}

// Append adds item at the end. It reports false, and returns s unchanged, when
// the item has no id or the id is already present.
func (s Store[T]) Append(item T) (Store[T], bool) {
	if !s.insertable(item) {
		return s, false
	}
	out := make([]T, 0, len(s.items)+1)
	out = append(out, s.items...)
	out = append(out, item)
	return Store[T]{items: out}, true
}

// Prepend is Append at the front.
func (s Store[T]) Prepend(item T) (Store[T], bool) {
	if !s.insertable(item) {
		return s, false
	}
	out := make([]T, 0, len(s.items)+1)
	out = append(out, item)
	out = append(out, s.items...)
	return Store[T]{items: out}, true
}

// ReplaceByID swaps the element sharing item's id, keeping its position.
func (s Store[T]) ReplaceByID(item T) (Store[T], bool) {
	idx := s.index(item.Key())
	if idx < 0 {
		return s, false
	}
	out := make([]T, len(s.items))
	copy(out, s.items)
	out[idx] = item
	return Store[T]{items: out}, true
}

// RemoveByID drops the element with id. Removing an absent id is a no-op.
func (s Store[T]) RemoveByID(id string) (Store[T], bool) {
	idx := s.index(id)
	if idx < 0 {
		return s, false
	}
	out := make([]T, 0, len(s.items)-1)
	out = append(out, s.items[:idx]...)
	out = append(out, s.items[idx+1:]...)
	return Store[T]{items: out}, true
}

func (s Store[T]) Get(id string) (T, bool) {
	idx := s.index(id)
	if idx < 0 {
		var zero T
		return zero, false
	}
	return s.items[idx], true
}

// Items returns a copy of the entries in order.
func (s Store[T]) Items() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

func (s Store[T]) Len() int { return len(s.items) }

func (s Store[T]) insertable(item T) bool {
	k := item.Key()
	return k != "" && s.index(k) < 0
}

func (s Store[T]) index(id string) int {
	if id == "" {
		return -1
	}
	for i, it := range s.items {
		if it.Key() == id {
			return i
		}
	}
	return -1
}
