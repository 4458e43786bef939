package backend

import (
	"context"
	"sort"
	"sync"

	"github.com/unan-salud/salud-al-paso/internal/records"
)

// MemoryRepository keeps everything in process. It is the default store of
// the development server and the one used by tests.
type MemoryRepository struct {
	mu            sync.RWMutex
	appointments  []records.Appointment
	consultations []records.Consultation
	emergencies   []records.EmergencyReport
	events        []EventLog
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) ListAppointments(ctx context.Context) ([]records.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]records.Appointment{}, r.appointments...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AppointmentDate < out[j].AppointmentDate
	})
	return out, nil
}

func (r *MemoryRepository) GetAppointment(ctx context.Context, id string) (records.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.appointments {
		if a.ID == id {
			return a, nil
		}
	}
	return records.Appointment{}, ErrAppointmentNotFound
}

func (r *MemoryRepository) InsertAppointment(ctx context.Context, a records.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appointments = append(r.appointments, a)
	return nil
}

func (r *MemoryRepository) SaveAppointment(ctx context.Context, a records.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.appointments {
		if r.appointments[i].ID == a.ID {
			r.appointments[i] = a
			return nil
		}
	}
	return ErrAppointmentNotFound
}

func (r *MemoryRepository) DeleteAppointment(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.appointments {
		if r.appointments[i].ID == id {
			r.appointments = append(r.appointments[:i], r.appointments[i+1:]...)
			return nil
		}
	}
	return ErrAppointmentNotFound
}

func (r *MemoryRepository) ListConsultations(ctx context.Context) ([]records.Consultation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]records.Consultation{}, r.consultations...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ConsultationDate > out[j].ConsultationDate
	})
	return out, nil
}

func (r *MemoryRepository) GetConsultation(ctx context.Context, id string) (records.Consultation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.consultations {
		if c.ID == id {
			return c, nil
		}
	}
	return records.Consultation{}, ErrConsultationNotFound
}

func (r *MemoryRepository) InsertConsultation(ctx context.Context, c records.Consultation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.consultations = append(r.consultations, c)
	return nil
}

func (r *MemoryRepository) ListEmergencies(ctx context.Context) ([]records.EmergencyReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]records.EmergencyReport{}, r.emergencies...), nil
}

func (r *MemoryRepository) InsertEmergency(ctx context.Context, e records.EmergencyReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emergencies = append(r.emergencies, e)
	return nil
}

func (r *MemoryRepository) UpdateEmergencyStatus(ctx context.Context, id string, status records.EmergencyStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.emergencies {
		if r.emergencies[i].ID == id {
			r.emergencies[i].Status = status
			return nil
		}
	}
	return ErrEmergencyNotFound
}

func (r *MemoryRepository) InsertEvent(ctx context.Context, ev EventLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev.ID = int64(len(r.events) + 1)
	r.events = append(r.events, ev)
	return nil
}

// Events returns the event log in insertion order.
func (r *MemoryRepository) Events() []EventLog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]EventLog{}, r.events...)
}

func (r *MemoryRepository) Ping(ctx context.Context) error { return nil }
