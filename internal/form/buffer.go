// Package form holds the editable draft behind a create or edit form.
package form

import (
	"strings"
)

const (
	MsgIncomplete         = "Por favor completa todos los campos."
	MsgIncompleteRequired = "Por favor completa todos los campos obligatorios."
)

// Draft is a record whose required fields can be checked for blanks.
// Only presence is checked; dates and phone numbers are forwarded as typed.
type Draft interface {
	Missing() []string
}

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// ValidationError lists the required fields left blank.
type ValidationError struct {
	Missing []string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return MsgIncomplete
}

// Fields is a comma separated list of the missing field names, for logs.
func (e *ValidationError) Fields() string {
	return strings.Join(e.Missing, ",")
}

// Buffer is a value type like mirror.Store; mutators return the new buffer.
type Buffer[D Draft] struct {
	draft   D
	mode    Mode
	target  string
	message string
}

// NewCreate seeds an empty draft.
func NewCreate[D Draft]() Buffer[D] {
	return Buffer[D]{mode: ModeCreate}
}

// NewEdit seeds the draft from an existing entity with id.
func NewEdit[D Draft](id string, d D) Buffer[D] {
	return Buffer[D]{draft: d, mode: ModeEdit, target: id}
}

// WithMessage sets the text reported when validation fails.
func (b Buffer[D]) WithMessage(msg string) Buffer[D] {
	b.message = msg
	return b
}

func (b Buffer[D]) Draft() D       { return b.draft }
func (b Buffer[D]) Mode() Mode     { return b.mode }
func (b Buffer[D]) Target() string { return b.target }

func (b Buffer[D]) Set(d D) Buffer[D] {
	b.draft = d
	return b
}

// Update applies fn to a copy of the draft.
func (b Buffer[D]) Update(fn func(*D)) Buffer[D] {
	d := b.draft
	fn(&d)
	b.draft = d
	return b
}

// Edit switches to edit mode for id, keeping the validation message.
func (b Buffer[D]) Edit(id string, d D) Buffer[D] {
	return Buffer[D]{draft: d, mode: ModeEdit, target: id, message: b.message}
}

// Reset returns to the empty create seed, keeping the validation message.
func (b Buffer[D]) Reset() Buffer[D] {
	return Buffer[D]{mode: ModeCreate, message: b.message}
}

func (b Buffer[D]) Validate() error {
	missing := b.draft.Missing()
	if len(missing) == 0 {
		return nil
	}
	msg := b.message
	if msg == "" {
		msg = MsgIncomplete
	}
	return &ValidationError{Missing: missing, Message: msg}
}
