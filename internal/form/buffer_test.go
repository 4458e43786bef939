package form

import (
	"errors"
	"testing"

	"github.com/unan-salud/salud-al-paso/internal/records"
)

func TestCreateBufferStartsEmpty(t *testing.T) {
	b := NewCreate[records.AppointmentDraft]()
	if b.Mode() != ModeCreate || b.Target() != "" {
		t.Fatalf("mode=%s target=%q", b.Mode(), b.Target())
	}
	if b.Draft() != (records.AppointmentDraft{}) {
		t.Errorf("Draft() = %+v, want zero", b.Draft())
	}
}

func TestValidateReportsMissingFields(t *testing.T) {
	b := NewCreate[records.ConsultationDraft]().Update(func(d *records.ConsultationDraft) {
		d.PatientName = "Ana Pérez"
		d.PatientPhone = "88887777"
	})

	err := b.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate() = %v, want *ValidationError", err)
	}
	if verr.Fields() != "doctor_name,consultation_type,symptoms" {
		t.Errorf("Fields() = %q", verr.Fields())
	}
	if verr.Error() != MsgIncomplete {
		t.Errorf("Error() = %q", verr.Error())
	}
}

func TestValidateUsesCustomMessage(t *testing.T) {
	b := NewCreate[records.EmergencyDraft]().WithMessage(MsgIncompleteRequired)
	err := b.Validate()
	if err == nil || err.Error() != MsgIncompleteRequired {
		t.Fatalf("Validate() = %v", err)
	}
}

func TestValidateAcceptsFreeText(t *testing.T) {
	b := NewCreate[records.AppointmentDraft]().Set(records.AppointmentDraft{
		PatientName:     "Ana Pérez",
		PatientPhone:    "not a phone",
		DoctorName:      "Dr. López",
		Specialty:       "Cardiología",
		AppointmentDate: "next tuesday",
		AppointmentTime: "morning",
		Reason:          "Chequeo",
	})
	if err := b.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestEditSeedAndReset(t *testing.T) {
	a := records.Appointment{ID: "a1", PatientName: "Ana", Reason: "Chequeo"}
	b := NewEdit("a1", a.Draft())
	if b.Mode() != ModeEdit || b.Target() != "a1" || b.Draft().PatientName != "Ana" {
		t.Fatalf("edit buffer = %+v", b)
	}

	reset := b.Reset()
	if reset.Mode() != ModeCreate || reset.Target() != "" || reset.Draft() != (records.AppointmentDraft{}) {
		t.Errorf("Reset() = %+v", reset)
	}
	if b.Draft().PatientName != "Ana" {
		t.Error("Reset mutated the receiver")
	}
}

func TestEditKeepsMessage(t *testing.T) {
	b := NewCreate[records.AppointmentDraft]().WithMessage(MsgIncompleteRequired)
	b = b.Edit("a1", records.AppointmentDraft{})
	if b.Mode() != ModeEdit || b.Target() != "a1" {
		t.Fatalf("Edit() = %+v", b)
	}
	if err := b.Validate(); err == nil || err.Error() != MsgIncompleteRequired {
		t.Errorf("Validate() = %v", err)
	}
}
