package screen

import (
	"context"
	"errors"
	"log"

	"github.com/unan-salud/salud-al-paso/internal/form"
	"github.com/unan-salud/salud-al-paso/internal/mirror"
	"github.com/unan-salud/salud-al-paso/internal/remote"
)

var (
	ErrNotEditable  = errors.New("entity cannot be edited from this screen")
	ErrNotDeletable = errors.New("entity cannot be deleted from this screen")
	ErrNotFound     = errors.New("entity not in list")
)

// Collection is the remote side of a screen. *remote.Collection implements it.
type Collection[T any, D any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, draft D) (T, error)
	Update(ctx context.Context, id string, draft D) (T, error)
	Delete(ctx context.Context, id string) error
}

type Options[T mirror.Keyed, D form.Draft] struct {
	Name       string
	Placement  Placement
	Messages   Messages
	Incomplete string
	// Seed turns an entity into an edit draft. Nil makes the screen create only.
	Seed      func(T) D
	Deletable bool
}

// Session is one open list screen.
type Session[T mirror.Keyed, D form.Draft] struct {
	guard
	coll  Collection[T, D]
	opts  Options[T, D]
	state State[T, D]
}

// NewSession opens a screen. Closing parent closes the session.
func NewSession[T mirror.Keyed, D form.Draft](parent context.Context, coll Collection[T, D], opts Options[T, D]) *Session[T, D] {
	return &Session[T, D]{
		guard: guard{life: newLifetime(parent)},
		coll:  coll,
		opts:  opts,
		state: NewState[T, D](opts.Placement, opts.Messages, opts.Incomplete),
	}
}

func (s *Session[T, D]) Name() string { return s.opts.Name }

// State returns a snapshot of the screen state.
func (s *Session[T, D]) State() State[T, D] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session[T, D]) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.life.closed()
}

// Close cancels every in-flight call. Results arriving afterwards are dropped.
func (s *Session[T, D]) Close() {
	s.close()
}

// dispatch applies ev unless the session is closed.
func (s *Session[T, D]) dispatch(ev Event) bool {
	ok := s.apply(func() { s.state = Reduce(s.state, ev) })
	if !ok {
		log.Printf("screen=%s dropped late event %T", s.opts.Name, ev)
	}
	return ok
}

// Go runs fn in the background, bound to the session lifetime.
func (s *Session[T, D]) Go(fn func(ctx context.Context) error) *Task {
	return s.life.spawn(fn)
}

// Load fetches the collection into the store. On failure the store is left
// empty and the error is returned for logging only.
func (s *Session[T, D]) Load(ctx context.Context) error {
	if !s.dispatch(LoadStarted{}) {
		return ErrClosed
	}
	ctx, cancel := s.life.bind(ctx)
	defer cancel()

	items, err := s.coll.List(ctx)
	if err != nil {
		if canceled(err) {
			s.dispatch(Aborted{})
			return err
		}
		s.dispatch(LoadFailed{Err: err})
		return err
	}
	s.dispatch(Loaded[T]{Items: items})
	return nil
}

func (s *Session[T, D]) OpenCreate() {
	s.dispatch(OpenCreate{})
}

// OpenEdit seeds the form from the stored entity with id.
func (s *Session[T, D]) OpenEdit(id string) error {
	if s.opts.Seed == nil {
		return ErrNotEditable
	}
	var err error
	ok := s.apply(func() {
		item, found := s.state.Store.Get(id)
		if !found {
			err = ErrNotFound
			return
		}
		s.state = Reduce(s.state, OpenEdit[D]{ID: id, Draft: s.opts.Seed(item)})
	})
	if !ok {
		return ErrClosed
	}
	return err
}

// Edit changes the draft in place.
func (s *Session[T, D]) Edit(fn func(*D)) {
	s.apply(func() {
		s.state = Reduce(s.state, Edited[D]{Draft: s.state.Form.Update(fn).Draft()})
	})
}

func (s *Session[T, D]) Dismiss()     { s.dispatch(Dismiss{}) }
func (s *Session[T, D]) Acknowledge() { s.dispatch(Acknowledge{}) }

// Submit validates the form and sends it as a create or an update depending
// on the form mode. A validation failure makes no remote call.
func (s *Session[T, D]) Submit(ctx context.Context) error {
	var (
		buf form.Buffer[D]
		ve  *form.ValidationError
	)
	ok := s.apply(func() {
		buf = s.state.Form
		if err := buf.Validate(); errors.As(err, &ve) {
			s.state = Reduce(s.state, Rejected{Err: ve})
			return
		}
		s.state = Reduce(s.state, Submitted{})
	})
	if !ok {
		return ErrClosed
	}
	if ve != nil {
		log.Printf("screen=%s rejected submit missing=%s", s.opts.Name, ve.Fields())
		return ve
	}

	ctx, cancel := s.life.bind(ctx)
	defer cancel()

	if buf.Mode() == form.ModeEdit {
		item, err := s.coll.Update(ctx, buf.Target(), buf.Draft())
		if err != nil {
			return s.failed(OpUpdate, err)
		}
		return s.patch(Updated[T]{ID: buf.Target(), Item: item})
	}

	item, err := s.coll.Create(ctx, buf.Draft())
	if err != nil {
		return s.failed(OpCreate, err)
	}
	return s.patch(Created[T]{Item: item})
}

// patch applies a create or update result. A result the store cannot take
// leaves the form open with a failure notice and returns ErrUnmatched.
func (s *Session[T, D]) patch(ev Event) error {
	var err error
	ok := s.apply(func() {
		if !s.state.accepts(ev) {
			err = ErrUnmatched
		}
		s.state = Reduce(s.state, ev)
	})
	if !ok {
		log.Printf("screen=%s dropped late event %T", s.opts.Name, ev)
		return nil
	}
	if err != nil {
		log.Printf("screen=%s could not apply %T: %v", s.opts.Name, ev, err)
	}
	return err
}

// Delete removes id remotely, then locally. A not-found answer means the
// entity is already gone, so it is removed locally as well.
func (s *Session[T, D]) Delete(ctx context.Context, id string) error {
	if !s.opts.Deletable {
		return ErrNotDeletable
	}
	if !s.dispatch(Submitted{}) {
		return ErrClosed
	}
	ctx, cancel := s.life.bind(ctx)
	defer cancel()

	if err := s.coll.Delete(ctx, id); err != nil {
		if !remote.IsNotFound(err) {
			return s.failed(OpDelete, err)
		}
		log.Printf("screen=%s delete id=%s already gone", s.opts.Name, id)
	}
	s.dispatch(Deleted{ID: id})
	return nil
}

func (s *Session[T, D]) failed(op Op, err error) error {
	if canceled(err) {
		s.dispatch(Aborted{})
		return err
	}
	s.dispatch(Failed{Op: op, Err: err})
	return err
}
