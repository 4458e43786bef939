// Package screen couples a remote collection, its mirror and a form buffer
// into the state behind one list screen.
//
// State is a plain value and Reduce is a pure function over it. Session owns
// one State for as long as the screen is open and applies the events produced
// by remote calls; once closed it drops whatever arrives late.
package screen

import (
	"errors"
	"fmt"

	"github.com/unan-salud/salud-al-paso/internal/form"
	"github.com/unan-salud/salud-al-paso/internal/mirror"
	"github.com/unan-salud/salud-al-paso/internal/remote"
)

const (
	TitleSuccess = "Éxito"
	TitleError   = "Error"

	MsgConnection = "Error de conexión. Intenta nuevamente."
)

// ErrUnmatched is reported when a create or update response cannot be
// patched into the list: a created id already listed, or an updated entity
// whose id is not the one being edited.
var ErrUnmatched = fmt.Errorf("%w: response does not match the list", remote.ErrDecode)

// Placement decides where a newly created entity lands in the store.
type Placement int

const (
	PlaceEnd Placement = iota
	PlaceFront
)

// Messages are the notice texts of one screen.
type Messages struct {
	Created      string
	Updated      string
	Deleted      string
	CreateFailed string
	UpdateFailed string
	DeleteFailed string
}

// Notice is the alert shown after an action. The zero Notice shows nothing.
type Notice struct {
	Title   string
	Message string
}

func (n Notice) Empty() bool   { return n.Title == "" && n.Message == "" }
func (n Notice) IsError() bool { return n.Title == TitleError }

type State[T mirror.Keyed, D form.Draft] struct {
	Store        mirror.Store[T]
	Form         form.Buffer[D]
	Loading      bool
	ModalVisible bool
	Pending      bool
	Notice       Notice

	Placement Placement
	Messages  Messages
}

// NewState returns an empty screen state. incomplete is the text shown when a
// submission has blank required fields.
func NewState[T mirror.Keyed, D form.Draft](p Placement, msgs Messages, incomplete string) State[T, D] {
	return State[T, D]{
		Form:      form.NewCreate[D]().WithMessage(incomplete),
		Placement: p,
		Messages:  msgs,
	}
}

// Op names the mutating call an event refers to.
type Op int

const (
	OpCreate Op = iota
	OpUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	return "unknown"
}

type Event interface {
	isEvent()
}

type LoadStarted struct{}

type Loaded[T any] struct {
	Items []T
}

type LoadFailed struct {
	Err error
}

type OpenCreate struct{}

type OpenEdit[D any] struct {
	ID    string
	Draft D
}

type Edited[D any] struct {
	Draft D
}

type Dismiss struct{}

type Submitted struct{}

type Created[T any] struct {
	Item T
}

// Updated carries the response to an edit of the entity with ID.
type Updated[T any] struct {
	ID   string
	Item T
}

type Deleted struct {
	ID string
}

type Rejected struct {
	Err *form.ValidationError
}

type Failed struct {
	Op  Op
	Err error
}

// Aborted ends a load or action whose context was canceled. No notice is
// shown.
type Aborted struct{}

type Acknowledge struct{}

func (LoadStarted) isEvent() {}
func (Loaded[T]) isEvent()   {}
func (LoadFailed) isEvent()  {}
func (OpenCreate) isEvent()  {}
func (OpenEdit[D]) isEvent() {}
func (Edited[D]) isEvent()   {}
func (Dismiss) isEvent()     {}
func (Submitted) isEvent()   {}
func (Created[T]) isEvent()  {}
func (Updated[T]) isEvent()  {}
func (Deleted) isEvent()     {}
func (Rejected) isEvent()    {}
func (Failed) isEvent()      {}
func (Aborted) isEvent()     {}
func (Acknowledge) isEvent() {}

// Reduce returns the state after ev. Events typed for another entity or
// draft are ignored.
func Reduce[T mirror.Keyed, D form.Draft](s State[T, D], ev Event) State[T, D] {
	switch e := ev.(type) {
	case LoadStarted:
		s.Loading = true
	case Loaded[T]:
		s.Store = s.Store.Replace(e.Items)
		s.Loading = false
	case LoadFailed:
		// A failed fetch shows an empty list; the failure is only logged.
		s.Store = mirror.Store[T]{}
		s.Loading = false
	case OpenCreate:
		s.Form = s.Form.Reset()
		s.ModalVisible = true
	case OpenEdit[D]:
		s.Form = s.Form.Edit(e.ID, e.Draft)
		s.ModalVisible = true
	case Edited[D]:
		s.Form = s.Form.Set(e.Draft)
	case Dismiss:
		s.Form = s.Form.Reset()
		s.ModalVisible = false
	case Submitted:
		s.Pending = true
	case Created[T]:
		if !s.accepts(e) {
			return Reduce(s, Failed{Op: OpCreate, Err: ErrUnmatched})
		}
		if s.Placement == PlaceFront {
			s.Store, _ = s.Store.Prepend(e.Item)
		} else {
			s.Store, _ = s.Store.Append(e.Item)
		}
		s = s.succeeded(s.Messages.Created)
	case Updated[T]:
		if !s.accepts(e) {
			return Reduce(s, Failed{Op: OpUpdate, Err: ErrUnmatched})
		}
		s.Store, _ = s.Store.ReplaceByID(e.Item)
		s = s.succeeded(s.Messages.Updated)
	case Deleted:
		s.Store, _ = s.Store.RemoveByID(e.ID)
		s.Pending = false
		s.Notice = Notice{Title: TitleSuccess, Message: s.Messages.Deleted}
	case Rejected:
		s.Notice = Notice{Title: TitleError, Message: e.Err.Error()}
	case Failed:
		s.Pending = false
		s.Notice = Notice{Title: TitleError, Message: FailureMessage(s.Messages.failed(e.Op), e.Err)}
	case Aborted:
		s.Loading = false
		s.Pending = false
	case Acknowledge:
		s.Notice = Notice{}
	}
	return s
}

// accepts reports whether a mutation result can be patched into the store.
// An update must come back with the id that was edited, and that id must
// still be listed.
func (s State[T, D]) accepts(ev Event) bool {
	switch e := ev.(type) {
	case Created[T]:
		_, ok := s.Store.Append(e.Item)
		return ok
	case Updated[T]:
		if e.Item.Key() != e.ID {
			return false
		}
		_, ok := s.Store.Get(e.ID)
		return ok
	}
	return true
}

func (s State[T, D]) succeeded(msg string) State[T, D] {
	s.Pending = false
	s.Form = s.Form.Reset()
	s.ModalVisible = false
	s.Notice = Notice{Title: TitleSuccess, Message: msg}
	return s
}

func (m Messages) failed(op Op) string {
	switch op {
	case OpCreate:
		return m.CreateFailed
	case OpUpdate:
		return m.UpdateFailed
	case OpDelete:
		return m.DeleteFailed
	}
	return MsgConnection
}

// FailureMessage picks the text for a failed remote call: the server's own
// detail when it sent one, fallback for any other rejection, and the generic
// connection message when no response arrived.
func FailureMessage(fallback string, err error) string {
	if d := remote.ServerDetail(err); d != "" {
		return d
	}
	var se *remote.StatusError
	if errors.As(err, &se) || errors.Is(err, remote.ErrDecode) {
		if fallback != "" {
			return fallback
		}
	}
	return MsgConnection
}
