package screen

import (
	"context"

	"github.com/unan-salud/salud-al-paso/internal/form"
	"github.com/unan-salud/salud-al-paso/internal/records"
)

type (
	AppointmentSession  = Session[records.Appointment, records.AppointmentDraft]
	ConsultationSession = Session[records.Consultation, records.ConsultationDraft]
)

var AppointmentMessages = Messages{
	Created:      "Cita médica creada exitosamente.",
	Updated:      "Cita médica actualizada exitosamente.",
	Deleted:      "Cita médica eliminada exitosamente.",
	CreateFailed: "No se pudo crear la cita médica.",
	UpdateFailed: "No se pudo actualizar la cita médica.",
	DeleteFailed: "No se pudo eliminar la cita médica.",
}

var ConsultationMessages = Messages{
	Created:      "Consulta médica solicitada exitosamente.",
	CreateFailed: "No se pudo crear la consulta médica.",
}

// NewAppointments opens the appointments screen: new entries go last and
// entries can be edited and deleted.
func NewAppointments(parent context.Context, coll Collection[records.Appointment, records.AppointmentDraft]) *AppointmentSession {
	return NewSession(parent, coll, Options[records.Appointment, records.AppointmentDraft]{
		Name:       "appointments",
		Placement:  PlaceEnd,
		Messages:   AppointmentMessages,
		Incomplete: form.MsgIncomplete,
		Seed:       records.Appointment.Draft,
		Deletable:  true,
	})
}

// NewConsultations opens the consultations screen. Requests are create only
// and the newest is shown first.
func NewConsultations(parent context.Context, coll Collection[records.Consultation, records.ConsultationDraft]) *ConsultationSession {
	return NewSession(parent, coll, Options[records.Consultation, records.ConsultationDraft]{
		Name:       "consultations",
		Placement:  PlaceFront,
		Messages:   ConsultationMessages,
		Incomplete: form.MsgIncomplete,
	})
}
