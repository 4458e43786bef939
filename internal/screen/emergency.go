package screen

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/unan-salud/salud-al-paso/internal/form"
	"github.com/unan-salud/salud-al-paso/internal/location"
	"github.com/unan-salud/salud-al-paso/internal/records"
	"github.com/unan-salud/salud-al-paso/internal/remote"
)

const (
	TitleLocationPermission = "Permisos de Ubicación"
	TitleEmergencySent      = "🚨 Emergencia Reportada"

	MsgEmergencyFailed = "No se pudo enviar la emergencia. Intenta nuevamente."
)

// ErrLocationUnavailable blocks an emergency submission until the location
// has been resolved.
var ErrLocationUnavailable = errors.New("location unavailable")

// Sender posts an emergency report. *remote.Collection implements it.
type Sender interface {
	Send(ctx context.Context, req records.EmergencyRequest) error
}

// Locator resolves the device location.
type Locator interface {
	Acquire(ctx context.Context) location.Snapshot
	Snapshot() location.Snapshot
}

type EmergencyState struct {
	Form     form.Buffer[records.EmergencyDraft]
	Location location.Snapshot
	Pending  bool
	Sent     bool
	Notice   Notice
}

// Emergency is the emergency report screen.
type Emergency struct {
	guard
	sender  Sender
	locator Locator
	state   EmergencyState
}

func NewEmergency(parent context.Context, sender Sender, locator Locator) *Emergency {
	return &Emergency{
		guard:   guard{life: newLifetime(parent)},
		sender:  sender,
		locator: locator,
		state: EmergencyState{
			Form:     form.NewCreate[records.EmergencyDraft]().WithMessage(form.MsgIncompleteRequired),
			Location: locator.Snapshot(),
		},
	}
}

func (e *Emergency) State() EmergencyState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Locate runs one location round. Denied and failed rounds leave a notice;
// only a later Locate call retries.
func (e *Emergency) Locate(ctx context.Context) location.Snapshot {
	ctx, cancel := e.life.bind(ctx)
	defer cancel()

	snap := e.locator.Acquire(ctx)
	e.apply(func() {
		e.state.Location = snap
		switch snap.State {
		case location.Denied:
			e.state.Notice = Notice{Title: TitleLocationPermission, Message: snap.Message()}
		case location.Failed:
			if !canceled(snap.Err) {
				e.state.Notice = Notice{Title: TitleError, Message: snap.Message()}
			}
		case location.Resolved, location.Unrequested, location.PermissionPending:
		}
	})
	return snap
}

func (e *Emergency) Edit(fn func(*records.EmergencyDraft)) {
	e.apply(func() { e.state.Form = e.state.Form.Update(fn) })
}

func (e *Emergency) Acknowledge() {
	e.apply(func() { e.state.Notice = Notice{} })
}

// Submit sends the report with the resolved location attached. Blank required
// fields and a missing location are both rejected before any remote call.
func (e *Emergency) Submit(ctx context.Context) error {
	var (
		req records.EmergencyRequest
		err error
	)
	ok := e.apply(func() {
		if err = e.state.Form.Validate(); err != nil {
			e.state.Notice = Notice{Title: TitleError, Message: err.Error()}
			return
		}
		snap := e.state.Location
		if !snap.Ready() {
			err = ErrLocationUnavailable
			if snap.Err != nil {
				err = fmt.Errorf("%w: %w", ErrLocationUnavailable, snap.Err)
			}
			e.state.Notice = Notice{Title: TitleError, Message: location.MsgNotReady}
			return
		}
		req = records.NewEmergencyRequest(e.state.Form.Draft(), snap.Location)
		e.state.Pending = true
	})
	if !ok {
		return ErrClosed
	}
	if err != nil {
		return err
	}

	ctx, cancel := e.life.bind(ctx)
	defer cancel()

	err = e.sender.Send(ctx, req)
	applied := e.apply(func() {
		e.state.Pending = false
		switch {
		case err == nil:
			e.state.Sent = true
			e.state.Form = e.state.Form.Reset()
			e.state.Notice = Notice{Title: TitleEmergencySent, Message: Confirmation(req)}
		case canceled(err):
		default:
			msg := MsgEmergencyFailed
			if d := remote.ServerDetail(err); d != "" {
				msg = d
			}
			e.state.Notice = Notice{Title: TitleError, Message: msg}
		}
	})
	if !applied {
		log.Printf("screen=emergency dropped late result err=%v", err)
	}
	return err
}

// Confirmation is the text shown once a report has been accepted.
func Confirmation(req records.EmergencyRequest) string {
	return fmt.Sprintf(
		"Se ha enviado la alerta de emergencia.\n\nPaciente: %s\nTipo: %s\nUbicación: %s\n\nLos servicios de emergencia han sido notificados.",
		req.PatientName, req.EmergencyType, req.Location.Address,
	)
}

func (e *Emergency) Close() { e.close() }
