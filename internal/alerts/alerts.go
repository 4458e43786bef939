// Package alerts announces emergency reports to whoever is on call.
package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/unan-salud/salud-al-paso/internal/records"
)

const EventEmergencyReported = "emergency_reported"

// Event is the wire envelope on both the Redis channel and the Kafka topic.
type Event struct {
	Event string                  `json:"event"`
	Data  records.EmergencyReport `json:"data"`
}

func Encode(r records.EmergencyReport) ([]byte, error) {
	b, err := json.Marshal(Event{Event: EventEmergencyReported, Data: r})
	if err != nil {
		return nil, fmt.Errorf("encode alert: %w", err)
	}
	return b, nil
}

func Decode(payload []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return Event{}, fmt.Errorf("decode alert: %w", err)
	}
	if ev.Event == "" {
		return Event{}, errors.New("decode alert: missing event name")
	}
	return ev, nil
}

// Summary is the one line form used in logs.
func Summary(r records.EmergencyReport) string {
	return fmt.Sprintf("EMERGENCY ALERT: %s reported by %s at %q (%.5f, %.5f)",
		r.EmergencyType, r.PatientName, r.Location.Address, r.Location.Latitude, r.Location.Longitude)
}

// Notifier announces a stored emergency report.
type Notifier interface {
	Notify(ctx context.Context, r records.EmergencyReport) error
}

// LogNotifier only writes the alert to the process log.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, r records.EmergencyReport) error {
	log.Print(Summary(r))
	return nil
}

// Fanout notifies every notifier in order and joins their errors.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, r records.EmergencyReport) error {
	var errs []error
	for _, n := range f {
		if err := n.Notify(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
