package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/unan-salud/salud-al-paso/internal/records"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS appointments (
	id               TEXT PRIMARY KEY,
	patient_name     TEXT NOT NULL,
	patient_phone    TEXT NOT NULL,
	doctor_name      TEXT NOT NULL,
	specialty        TEXT NOT NULL,
	appointment_date DATE NOT NULL,
	appointment_time TEXT NOT NULL,
	reason           TEXT NOT NULL,
	status           TEXT NOT NULL DEFAULT 'scheduled',
	notes            TEXT NOT NULL DEFAULT '',
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS consultations (
	id                TEXT PRIMARY KEY,
	patient_name      TEXT NOT NULL,
	patient_phone     TEXT NOT NULL,
	doctor_name       TEXT NOT NULL,
	consultation_type TEXT NOT NULL,
	symptoms          TEXT NOT NULL,
	consultation_date TIMESTAMPTZ NOT NULL DEFAULT now(),
	status            TEXT NOT NULL DEFAULT 'pending',
	diagnosis         TEXT NOT NULL DEFAULT '',
	treatment         TEXT NOT NULL DEFAULT '',
	follow_up_date    DATE
);

CREATE TABLE IF NOT EXISTS emergencies (
	id             TEXT PRIMARY KEY,
	patient_name   TEXT NOT NULL,
	phone          TEXT NOT NULL,
	latitude       DOUBLE PRECISION NOT NULL,
	longitude      DOUBLE PRECISION NOT NULL,
	address        TEXT NOT NULL,
	emergency_type TEXT NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	reported_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	status         TEXT NOT NULL DEFAULT 'pending'
);

CREATE TABLE IF NOT EXISTS event_logs (
	id         BIGSERIAL PRIMARY KEY,
	event_type TEXT NOT NULL,
	entity_id  TEXT NOT NULL,
	payload    JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// EnsureSchema creates the tables when they do not exist yet.
func (r *PgRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Timestamps are rendered in the same fixed layout the service uses.
const (
	pgStamp = `'YYYY-MM-DD"T"HH24:MI:SS.US"Z"'`
	pgDate  = `'YYYY-MM-DD'`
)

var (
	appointmentColumns = `id, patient_name, patient_phone, doctor_name, specialty,
		to_char(appointment_date, ` + pgDate + `), appointment_time, reason, status, notes,
		to_char(created_at AT TIME ZONE 'UTC', ` + pgStamp + `)`

	consultationColumns = `id, patient_name, patient_phone, doctor_name, consultation_type, symptoms,
		to_char(consultation_date AT TIME ZONE 'UTC', ` + pgStamp + `), status, diagnosis, treatment,
		COALESCE(to_char(follow_up_date, ` + pgDate + `), '')`

	emergencyColumns = `id, patient_name, phone, latitude, longitude, address, emergency_type, description,
		to_char(reported_at AT TIME ZONE 'UTC', ` + pgStamp + `), status`
)

// Helpers

func scanAppointment(row pgx.Row) (records.Appointment, error) {
	var a records.Appointment

	err := row.Scan(
		&a.ID,
		&a.PatientName,
		&a.PatientPhone,
		&a.DoctorName,
		&a.Specialty,
		&a.AppointmentDate,
		&a.AppointmentTime,
		&a.Reason,
		&a.Status,
		&a.Notes,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return records.Appointment{}, ErrAppointmentNotFound
		}
		return records.Appointment{}, err
	}

	return a, nil
}

func scanConsultation(row pgx.Row) (records.Consultation, error) {
	var c records.Consultation

	err := row.Scan(
		&c.ID,
		&c.PatientName,
		&c.PatientPhone,
		&c.DoctorName,
		&c.ConsultationType,
		&c.Symptoms,
		&c.ConsultationDate,
		&c.Status,
		&c.Diagnosis,
		&c.Treatment,
		&c.FollowUpDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return records.Consultation{}, ErrConsultationNotFound
		}
		return records.Consultation{}, err
	}

	return c, nil
}

func scanEmergency(row pgx.Row) (records.EmergencyReport, error) {
	var e records.EmergencyReport

	err := row.Scan(
		&e.ID,
		&e.PatientName,
		&e.Phone,
		&e.Location.Latitude,
		&e.Location.Longitude,
		&e.Location.Address,
		&e.EmergencyType,
		&e.Description,
		&e.Timestamp,
		&e.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return records.EmergencyReport{}, ErrEmergencyNotFound
		}
		return records.EmergencyReport{}, err
	}

	return e, nil
}

func collect[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	defer rows.Close()

	result := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// Interface methods

func (r *PgRepository) ListAppointments(ctx context.Context) ([]records.Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		ORDER BY appointment_date ASC, created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return collect(rows, scanAppointment)
}

func (r *PgRepository) GetAppointment(ctx context.Context, id string) (records.Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) InsertAppointment(ctx context.Context, a records.Appointment) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointments (id, patient_name, patient_phone, doctor_name, specialty,
			appointment_date, appointment_time, reason, status, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::text::date, $7, $8, $9, $10, $11::text::timestamptz)
	`, a.ID, a.PatientName, a.PatientPhone, a.DoctorName, a.Specialty,
		a.AppointmentDate, a.AppointmentTime, a.Reason, string(a.Status), a.Notes, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (r *PgRepository) SaveAppointment(ctx context.Context, a records.Appointment) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments
		SET patient_name = $2,
		    patient_phone = $3,
		    doctor_name = $4,
		    specialty = $5,
		    appointment_date = $6::text::date,
		    appointment_time = $7,
		    reason = $8,
		    status = $9,
		    notes = $10
		WHERE id = $1
	`, a.ID, a.PatientName, a.PatientPhone, a.DoctorName, a.Specialty,
		a.AppointmentDate, a.AppointmentTime, a.Reason, string(a.Status), a.Notes)
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func (r *PgRepository) DeleteAppointment(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func (r *PgRepository) ListConsultations(ctx context.Context) ([]records.Consultation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+consultationColumns+`
		FROM consultations
		ORDER BY consultation_date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list consultations: %w", err)
	}
	return collect(rows, scanConsultation)
}

func (r *PgRepository) GetConsultation(ctx context.Context, id string) (records.Consultation, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+consultationColumns+`
		FROM consultations
		WHERE id = $1
	`, id)
	return scanConsultation(row)
}

func (r *PgRepository) InsertConsultation(ctx context.Context, c records.Consultation) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO consultations (id, patient_name, patient_phone, doctor_name, consultation_type,
			symptoms, consultation_date, status, diagnosis, treatment)
		VALUES ($1, $2, $3, $4, $5, $6, $7::text::timestamptz, $8, $9, $10)
	`, c.ID, c.PatientName, c.PatientPhone, c.DoctorName, c.ConsultationType,
		c.Symptoms, c.ConsultationDate, string(c.Status), c.Diagnosis, c.Treatment)
	if err != nil {
		return fmt.Errorf("insert consultation: %w", err)
	}
	return nil
}

func (r *PgRepository) ListEmergencies(ctx context.Context) ([]records.EmergencyReport, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+emergencyColumns+`
		FROM emergencies
		ORDER BY reported_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list emergencies: %w", err)
	}
	return collect(rows, scanEmergency)
}

func (r *PgRepository) InsertEmergency(ctx context.Context, e records.EmergencyReport) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO emergencies (id, patient_name, phone, latitude, longitude, address,
			emergency_type, description, reported_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::text::timestamptz, $10)
	`, e.ID, e.PatientName, e.Phone, e.Location.Latitude, e.Location.Longitude, e.Location.Address,
		e.EmergencyType, e.Description, e.Timestamp, string(e.Status))
	if err != nil {
		return fmt.Errorf("insert emergency: %w", err)
	}
	return nil
}

func (r *PgRepository) UpdateEmergencyStatus(ctx context.Context, id string, status records.EmergencyStatus) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE emergencies
		SET status = $2
		WHERE id = $1
	`, id, string(status))
	if err != nil {
		return fmt.Errorf("update emergency status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEmergencyNotFound
	}
	return nil
}

func (r *PgRepository) InsertEvent(ctx context.Context, ev EventLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO event_logs (event_type, entity_id, payload, created_at)
		VALUES ($1, $2, $3, COALESCE($4, now()))
	`, ev.EventType, ev.EntityID, ev.Payload, nullableTime(ev.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert event log: %w", err)
	}

	return nil
}

func (r *PgRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
