package backend

import (
	"context"
	"errors"
	"time"

	"github.com/unan-salud/salud-al-paso/internal/records"
)

var (
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrConsultationNotFound = errors.New("consultation not found")
	ErrEmergencyNotFound    = errors.New("emergency not found")
)

// Repository contains all storage interactions needed by the service.
type Repository interface {
	ListAppointments(ctx context.Context) ([]records.Appointment, error)
	GetAppointment(ctx context.Context, id string) (records.Appointment, error)
	InsertAppointment(ctx context.Context, a records.Appointment) error
	SaveAppointment(ctx context.Context, a records.Appointment) error
	DeleteAppointment(ctx context.Context, id string) error

	ListConsultations(ctx context.Context) ([]records.Consultation, error)
	GetConsultation(ctx context.Context, id string) (records.Consultation, error)
	InsertConsultation(ctx context.Context, c records.Consultation) error

	ListEmergencies(ctx context.Context) ([]records.EmergencyReport, error)
	InsertEmergency(ctx context.Context, r records.EmergencyReport) error
	UpdateEmergencyStatus(ctx context.Context, id string, status records.EmergencyStatus) error

	InsertEvent(ctx context.Context, ev EventLog) error
	Ping(ctx context.Context) error
}

type EventLog struct {
	ID        int64
	EventType string
	EntityID  string
	Payload   []byte
	CreatedAt time.Time
}
