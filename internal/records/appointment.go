package records

// AppointmentStatus is the lifecycle state the backend reports for an appointment.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"

	// AppointmentUnknown stands for any value outside the enumeration.
	AppointmentUnknown AppointmentStatus = "unknown"
)

// Kind folds unrecognised values into AppointmentUnknown.
func (s AppointmentStatus) Kind() AppointmentStatus {
	switch s {
	case AppointmentScheduled, AppointmentConfirmed, AppointmentCompleted, AppointmentCancelled:
		return s
	default:
		return AppointmentUnknown
	}
}

// Label is the display text. Unknown values display as scheduled.
func (s AppointmentStatus) Label() string {
	switch s.Kind() {
	case AppointmentConfirmed:
		return "Confirmada"
	case AppointmentCompleted:
		return "Completada"
	case AppointmentCancelled:
		return "Cancelada"
	case AppointmentScheduled, AppointmentUnknown:
		return "Programada"
	}
	return "Programada"
}

func (s AppointmentStatus) Color() string {
	switch s.Kind() {
	case AppointmentConfirmed:
		return "#4CAF50"
	case AppointmentCompleted:
		return "#2196F3"
	case AppointmentCancelled:
		return "#F44336"
	case AppointmentScheduled, AppointmentUnknown:
		return "#FF9800"
	}
	return "#FF9800"
}

type Appointment struct {
	ID              string            `json:"id"`
	PatientName     string            `json:"patient_name"`
	PatientPhone    string            `json:"patient_phone"`
	DoctorName      string            `json:"doctor_name"`
	Specialty       string            `json:"specialty"`
	AppointmentDate string            `json:"appointment_date"`
	AppointmentTime string            `json:"appointment_time"`
	Reason          string            `json:"reason"`
	Status          AppointmentStatus `json:"status"`
	Notes           string            `json:"notes,omitempty"`
	CreatedAt       string            `json:"created_at,omitempty"`
}

func (a Appointment) Key() string { return a.ID }

// DisplayStatus returns the status to show, scheduled when the server sent none.
func (a Appointment) DisplayStatus() AppointmentStatus {
	if a.Status == "" {
		return AppointmentScheduled
	}
	return a.Status
}

// Draft copies the editable fields, used to seed an edit form.
func (a Appointment) Draft() AppointmentDraft {
	return AppointmentDraft{
		PatientName:     a.PatientName,
		PatientPhone:    a.PatientPhone,
		DoctorName:      a.DoctorName,
		Specialty:       a.Specialty,
		AppointmentDate: a.AppointmentDate,
		AppointmentTime: a.AppointmentTime,
		Reason:          a.Reason,
	}
}

// AppointmentDraft is the request body for both create and update.
type AppointmentDraft struct {
	PatientName     string `json:"patient_name"`
	PatientPhone    string `json:"patient_phone"`
	DoctorName      string `json:"doctor_name"`
	Specialty       string `json:"specialty"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
	Reason          string `json:"reason"`
}

func (d AppointmentDraft) Missing() []string {
	return missing(
		field{"patient_name", d.PatientName},
		field{"patient_phone", d.PatientPhone},
		field{"doctor_name", d.DoctorName},
		field{"specialty", d.Specialty},
		field{"appointment_date", d.AppointmentDate},
		field{"appointment_time", d.AppointmentTime},
		field{"reason", d.Reason},
	)
}
