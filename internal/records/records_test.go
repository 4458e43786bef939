package records

import (
	"reflect"
	"testing"
)

func TestAppointmentStatusFallsBackToScheduled(t *testing.T) {
	cases := []struct {
		status AppointmentStatus
		label  string
		color  string
	}{
		{AppointmentScheduled, "Programada", "#FF9800"},
		{AppointmentConfirmed, "Confirmada", "#4CAF50"},
		{AppointmentCompleted, "Completada", "#2196F3"},
		{AppointmentCancelled, "Cancelada", "#F44336"},
		{"rescheduled", "Programada", "#FF9800"},
		{"", "Programada", "#FF9800"},
	}

	for _, tc := range cases {
		if got := tc.status.Label(); got != tc.label {
			t.Errorf("%q.Label() = %q, want %q", tc.status, got, tc.label)
		}
		if got := tc.status.Color(); got != tc.color {
			t.Errorf("%q.Color() = %q, want %q", tc.status, got, tc.color)
		}
	}

	if AppointmentStatus("rescheduled").Kind() != AppointmentUnknown {
		t.Error("expected unrecognised status to fold into AppointmentUnknown")
	}
}

func TestConsultationStatusFallsBackToPending(t *testing.T) {
	if got := ConsultationStatus("archived").Label(); got != "Pendiente" {
		t.Errorf("Label() = %q, want Pendiente", got)
	}
	if got := ConsultationInProgress.Label(); got != "En Proceso" {
		t.Errorf("Label() = %q, want En Proceso", got)
	}
}

func TestAppointmentDraftMissing(t *testing.T) {
	d := AppointmentDraft{
		PatientName:     "  ",
		PatientPhone:    "88887777",
		DoctorName:      "Dr. López",
		Specialty:       "Cardiología",
		AppointmentDate: "2025-06-01",
		AppointmentTime: "09:00",
	}

	got := d.Missing()
	want := []string{"patient_name", "reason"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Missing() = %v, want %v", got, want)
	}
}

func TestEmergencyDescriptionIsOptional(t *testing.T) {
	d := EmergencyDraft{PatientName: "Ana", Phone: "8888", EmergencyType: "Otro"}
	if m := d.Missing(); len(m) != 0 {
		t.Fatalf("Missing() = %v, want none", m)
	}
}

func TestFilterTips(t *testing.T) {
	tips := []HealthTip{
		{ID: "1", Category: CategoryNutrition},
		{ID: "2", Category: CategoryExercise},
		{ID: "3", Category: CategoryNutrition},
	}

	if got := FilterTips(tips, CategoryAll); len(got) != 3 {
		t.Errorf("Todos returned %d tips, want 3", len(got))
	}

	got := FilterTips(tips, CategoryNutrition)
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Errorf("Nutrición filter = %+v", got)
	}

	if TipCategory("Yoga").Color() != CategoryAll.Color() {
		t.Error("unknown category should use the Todos colour")
	}
}

func TestAppointmentDraftFromEntity(t *testing.T) {
	a := Appointment{ID: "a1", PatientName: "Ana", Reason: "Chequeo", Status: AppointmentConfirmed}
	d := a.Draft()
	if d.PatientName != "Ana" || d.Reason != "Chequeo" {
		t.Fatalf("Draft() = %+v", d)
	}
	if (Appointment{}).DisplayStatus() != AppointmentScheduled {
		t.Error("empty status should display as scheduled")
	}
}
