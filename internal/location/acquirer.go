// Package location resolves the device position and a readable address for
// the emergency report.
package location

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/unan-salud/salud-al-paso/internal/records"
)

var (
	ErrPermissionDenied = errors.New("location permission denied")
	ErrNoPosition       = errors.New("position unavailable")
)

const (
	MsgPermissionDenied = "Se necesitan permisos de ubicación para enviar la emergencia."
	MsgFailed           = "No se pudo obtener la ubicación actual."
	MsgNotReady         = "No se pudo obtener la ubicación. Intenta nuevamente."
)

type State int

const (
	Unrequested State = iota
	PermissionPending
	Resolved
	Denied
	Failed
)

func (s State) String() string {
	switch s {
	case Unrequested:
		return "unrequested"
	case PermissionPending:
		return "permission-pending"
	case Resolved:
		return "resolved"
	case Denied:
		return "denied"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Place is one reverse geocoding match.
type Place struct {
	Street string
	City   string
}

// Provider is the platform location service.
type Provider interface {
	RequestPermission(ctx context.Context) (bool, error)
	CurrentPosition(ctx context.Context) (Coordinates, error)
	ReverseGeocode(ctx context.Context, c Coordinates) ([]Place, error)
}

// Snapshot is the acquirer state at one point in time.
type Snapshot struct {
	State    State
	Location records.Location
	Err      error
}

// Ready reports whether an emergency can be submitted with this snapshot.
func (s Snapshot) Ready() bool { return s.State == Resolved }

// Message is the user-visible explanation for a state that blocks submission.
func (s Snapshot) Message() string {
	switch s.State {
	case Resolved:
		return ""
	case Denied:
		return MsgPermissionDenied
	case Failed:
		return MsgFailed
	case Unrequested, PermissionPending:
		return MsgNotReady
	}
	return MsgNotReady
}

// Acquirer runs one permission, position and geocode round per Acquire call.
// Nothing is retried on its own; Refresh starts a new round.
type Acquirer struct {
	provider Provider

	mu   sync.Mutex
	snap Snapshot
	gen  int
}

func NewAcquirer(p Provider) *Acquirer {
	return &Acquirer{provider: p}
}

func (a *Acquirer) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snap
}

// Acquire resolves the location. A round started after this one wins: its
// result is the one kept even if this call returns later.
func (a *Acquirer) Acquire(ctx context.Context) Snapshot {
	a.mu.Lock()
	a.gen++
	gen := a.gen
	a.snap = Snapshot{State: PermissionPending}
	a.mu.Unlock()

	result := a.resolve(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	if gen == a.gen {
		a.snap = result
	}
	return result
}

// Refresh is the manual "Actualizar" trigger.
func (a *Acquirer) Refresh(ctx context.Context) Snapshot {
	return a.Acquire(ctx)
}

func (a *Acquirer) resolve(ctx context.Context) Snapshot {
	granted, err := a.provider.RequestPermission(ctx)
	if err != nil {
		log.Printf("location permission request failed: %v", err)
		return Snapshot{State: Failed, Err: err}
	}
	if !granted {
		return Snapshot{State: Denied, Err: ErrPermissionDenied}
	}

	pos, err := a.provider.CurrentPosition(ctx)
	if err != nil {
		log.Printf("location position lookup failed: %v", err)
		return Snapshot{State: Failed, Err: err}
	}

	places, err := a.provider.ReverseGeocode(ctx, pos)
	if err != nil {
		log.Printf("reverse geocode failed lat=%f lon=%f: %v", pos.Latitude, pos.Longitude, err)
		return Snapshot{State: Failed, Err: err}
	}

	return Snapshot{
		State: Resolved,
		Location: records.Location{
			Latitude:  pos.Latitude,
			Longitude: pos.Longitude,
			Address:   FormatAddress(places),
		},
	}
}

// FormatAddress renders the first match as "street city".
func FormatAddress(places []Place) string {
	if len(places) == 0 {
		return records.UnknownAddress
	}
	return strings.TrimSpace(places[0].Street + " " + places[0].City)
}
