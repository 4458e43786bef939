package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unan-salud/salud-al-paso/internal/alerts"
	"github.com/unan-salud/salud-al-paso/internal/monitoring"
	"github.com/unan-salud/salud-al-paso/internal/records"
	redisclient "github.com/unan-salud/salud-al-paso/internal/redis"
)

const (
	EventAppointmentCreated  = "APPOINTMENT_CREATED"
	EventAppointmentUpdated  = "APPOINTMENT_UPDATED"
	EventAppointmentDeleted  = "APPOINTMENT_DELETED"
	EventConsultationCreated = "CONSULTATION_CREATED"
	EventEmergencyReported   = "EMERGENCY_REPORTED"
	EventEmergencyStatusSet  = "EMERGENCY_STATUS_UPDATED"
)

// StampLayout is the fixed width UTC layout of every server timestamp, so
// that string order matches time order.
const StampLayout = "2006-01-02T15:04:05.000000Z"

const dateLayout = "2006-01-02"

var (
	ErrBeingModified = errors.New("record is being modified, please retry")
	ErrInvalidStatus = errors.New("invalid status")
)

// FieldError describes one rejected request field.
type FieldError struct {
	Field string
	Msg   string
}

// InvalidError is returned when a request body fails validation.
type InvalidError struct {
	Fields []FieldError
}

func (e *InvalidError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Msg
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

// AppointmentUpdate carries the fields of a PUT. Nil and empty fields are left
// as they are.
type AppointmentUpdate struct {
	PatientName     *string `json:"patient_name"`
	PatientPhone    *string `json:"patient_phone"`
	DoctorName      *string `json:"doctor_name"`
	Specialty       *string `json:"specialty"`
	AppointmentDate *string `json:"appointment_date"`
	AppointmentTime *string `json:"appointment_time"`
	Reason          *string `json:"reason"`
	Status          *string `json:"status"`
	Notes           *string `json:"notes"`
}

type Service struct {
	repo     Repository
	locker   redisclient.Locker
	notifier alerts.Notifier
	now      func() time.Time
}

func NewService(repo Repository, locker redisclient.Locker, notifier alerts.Notifier) *Service {
	if notifier == nil {
		notifier = alerts.LogNotifier{}
	}
	return &Service{
		repo:     repo,
		locker:   locker,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *Service) stamp() string {
	return s.now().UTC().Format(StampLayout)
}

func (s *Service) ListAppointments(ctx context.Context) ([]records.Appointment, error) {
	return s.repo.ListAppointments(ctx)
}

func (s *Service) GetAppointment(ctx context.Context, id string) (records.Appointment, error) {
	return s.repo.GetAppointment(ctx, id)
}

func (s *Service) CreateAppointment(ctx context.Context, d records.AppointmentDraft) (records.Appointment, error) {
	if err := validate(d.Missing(), field{"appointment_date", d.AppointmentDate, true}); err != nil {
		return records.Appointment{}, err
	}

	a := records.Appointment{
		ID:              uuid.NewString(),
		PatientName:     d.PatientName,
		PatientPhone:    d.PatientPhone,
		DoctorName:      d.DoctorName,
		Specialty:       d.Specialty,
		AppointmentDate: d.AppointmentDate,
		AppointmentTime: d.AppointmentTime,
		Reason:          d.Reason,
		Status:          records.AppointmentScheduled,
		CreatedAt:       s.stamp(),
	}
	if err := s.repo.InsertAppointment(ctx, a); err != nil {
		return records.Appointment{}, fmt.Errorf("create appointment: %w", err)
	}

	s.logEvent(ctx, a.ID, EventAppointmentCreated, map[string]any{
		"specialty":        a.Specialty,
		"appointment_date": a.AppointmentDate,
	})
	return a, nil
}

// UpdateAppointment applies the non-empty fields of u. Concurrent updates and
// deletes of the same appointment are serialised through the locker; the
// loser gets ErrBeingModified.
func (s *Service) UpdateAppointment(ctx context.Context, id string, u AppointmentUpdate) (records.Appointment, error) {
	var dateField []field
	if u.AppointmentDate != nil && *u.AppointmentDate != "" {
		dateField = append(dateField, field{"appointment_date", *u.AppointmentDate, true})
	}
	if err := validate(nil, dateField...); err != nil {
		return records.Appointment{}, err
	}
	if u.Status != nil && *u.Status != "" && records.AppointmentStatus(*u.Status).Kind() == records.AppointmentUnknown {
		return records.Appointment{}, &InvalidError{Fields: []FieldError{{Field: "status", Msg: "unknown status"}}}
	}

	var updated records.Appointment
	err := s.withLock(ctx, "appointment:"+id, func(ctx context.Context) error {
		a, err := s.repo.GetAppointment(ctx, id)
		if err != nil {
			return err
		}

		apply(&a.PatientName, u.PatientName)
		apply(&a.PatientPhone, u.PatientPhone)
		apply(&a.DoctorName, u.DoctorName)
		apply(&a.Specialty, u.Specialty)
		apply(&a.AppointmentDate, u.AppointmentDate)
		apply(&a.AppointmentTime, u.AppointmentTime)
		apply(&a.Reason, u.Reason)
		apply(&a.Notes, u.Notes)
		if u.Status != nil && *u.Status != "" {
			a.Status = records.AppointmentStatus(*u.Status)
		}

		if err := s.repo.SaveAppointment(ctx, a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		return records.Appointment{}, err
	}

	s.logEvent(ctx, id, EventAppointmentUpdated, map[string]any{"status": updated.Status})
	return updated, nil
}

func (s *Service) DeleteAppointment(ctx context.Context, id string) error {
	err := s.withLock(ctx, "appointment:"+id, func(ctx context.Context) error {
		return s.repo.DeleteAppointment(ctx, id)
	})
	if err != nil {
		return err
	}
	s.logEvent(ctx, id, EventAppointmentDeleted, map[string]any{})
	return nil
}

func (s *Service) ListConsultations(ctx context.Context) ([]records.Consultation, error) {
	return s.repo.ListConsultations(ctx)
}

func (s *Service) GetConsultation(ctx context.Context, id string) (records.Consultation, error) {
	return s.repo.GetConsultation(ctx, id)
}

func (s *Service) CreateConsultation(ctx context.Context, d records.ConsultationDraft) (records.Consultation, error) {
	if err := validate(d.Missing()); err != nil {
		return records.Consultation{}, err
	}

	c := records.Consultation{
		ID:               uuid.NewString(),
		PatientName:      d.PatientName,
		PatientPhone:     d.PatientPhone,
		DoctorName:       d.DoctorName,
		ConsultationType: d.ConsultationType,
		Symptoms:         d.Symptoms,
		ConsultationDate: s.stamp(),
		Status:           records.ConsultationPending,
	}
	if err := s.repo.InsertConsultation(ctx, c); err != nil {
		return records.Consultation{}, fmt.Errorf("create consultation: %w", err)
	}

	s.logEvent(ctx, c.ID, EventConsultationCreated, map[string]any{"consultation_type": c.ConsultationType})
	return c, nil
}

func (s *Service) ListEmergencies(ctx context.Context) ([]records.EmergencyReport, error) {
	return s.repo.ListEmergencies(ctx)
}

// ReportEmergency stores the report and announces it. A failed announcement
// is logged and captured; the report itself is still accepted.
func (s *Service) ReportEmergency(ctx context.Context, req records.EmergencyRequest) (records.EmergencyReport, error) {
	draft := records.EmergencyDraft{
		PatientName:   req.PatientName,
		Phone:         req.Phone,
		EmergencyType: req.EmergencyType,
		Description:   req.Description,
	}
	if err := validate(draft.Missing()); err != nil {
		return records.EmergencyReport{}, err
	}

	r := records.EmergencyReport{
		ID:            uuid.NewString(),
		PatientName:   req.PatientName,
		Phone:         req.Phone,
		Location:      req.Location,
		EmergencyType: req.EmergencyType,
		Description:   req.Description,
		Timestamp:     s.stamp(),
		Status:        records.EmergencyPending,
	}
	if err := s.repo.InsertEmergency(ctx, r); err != nil {
		return records.EmergencyReport{}, fmt.Errorf("create emergency: %w", err)
	}

	s.logEvent(ctx, r.ID, EventEmergencyReported, map[string]any{
		"emergency_type": r.EmergencyType,
		"address":        r.Location.Address,
	})
	monitoring.EmergencyAlertsTotal.Inc()
	if err := s.notifier.Notify(ctx, r); err != nil {
		log.Printf("emergency notify failed id=%s: %v", r.ID, err)
		monitoring.CaptureError(err, map[string]interface{}{"emergency_id": r.ID})
	}
	return r, nil
}

func (s *Service) UpdateEmergencyStatus(ctx context.Context, id string, status records.EmergencyStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	err := s.withLock(ctx, "emergency:"+id, func(ctx context.Context) error {
		return s.repo.UpdateEmergencyStatus(ctx, id, status)
	})
	if err != nil {
		return err
	}
	s.logEvent(ctx, id, EventEmergencyStatusSet, map[string]any{"status": status})
	return nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *Service) withLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	err := s.locker.WithLock(ctx, key, fn)
	if errors.Is(err, redisclient.ErrLockNotAcquired) {
		return ErrBeingModified
	}
	return err
}

func (s *Service) logEvent(ctx context.Context, entityID, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to marshal event payload for %s: %v", eventType, err)
		data = nil
	}

	ev := EventLog{
		EventType: eventType,
		EntityID:  entityID,
		Payload:   data,
		CreatedAt: s.now(),
	}

	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		log.Printf("failed to insert event log %s for %s: %v", eventType, entityID, err)
	}
}

type field struct {
	name   string
	value  string
	isDate bool
}

// validate turns missing required fields and malformed dates into an
// InvalidError.
func validate(missing []string, fields ...field) error {
	var errs []FieldError
	for _, name := range missing {
		errs = append(errs, FieldError{Field: name, Msg: "field required"})
	}
	for _, f := range fields {
		if !f.isDate || strings.TrimSpace(f.value) == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, f.value); err != nil {
			errs = append(errs, FieldError{Field: f.name, Msg: "invalid date format, expected YYYY-MM-DD"})
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &InvalidError{Fields: errs}
}

func apply(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}
