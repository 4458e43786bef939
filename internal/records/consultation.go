package records

type ConsultationStatus string

const (
	ConsultationPending    ConsultationStatus = "pending"
	ConsultationInProgress ConsultationStatus = "in_progress"
	ConsultationCompleted  ConsultationStatus = "completed"

	ConsultationUnknown ConsultationStatus = "unknown"
)

func (s ConsultationStatus) Kind() ConsultationStatus {
	switch s {
	case ConsultationPending, ConsultationInProgress, ConsultationCompleted:
		return s
	default:
		return ConsultationUnknown
	}
}

// Label is the display text. Unknown values display as pending.
func (s ConsultationStatus) Label() string {
	switch s.Kind() {
	case ConsultationInProgress:
		return "En Proceso"
	case ConsultationCompleted:
		return "Completada"
	case ConsultationPending, ConsultationUnknown:
		return "Pendiente"
	}
	return "Pendiente"
}

func (s ConsultationStatus) Color() string {
	switch s.Kind() {
	case ConsultationInProgress:
		return "#2196F3"
	case ConsultationCompleted:
		return "#4CAF50"
	case ConsultationPending, ConsultationUnknown:
		return "#FF9800"
	}
	return "#FF9800"
}

type Consultation struct {
	ID               string             `json:"id"`
	PatientName      string             `json:"patient_name"`
	PatientPhone     string             `json:"patient_phone"`
	DoctorName       string             `json:"doctor_name"`
	ConsultationType string             `json:"consultation_type"`
	Symptoms         string             `json:"symptoms"`
	ConsultationDate string             `json:"consultation_date,omitempty"`
	Status           ConsultationStatus `json:"status"`
	Diagnosis        string             `json:"diagnosis,omitempty"`
	Treatment        string             `json:"treatment,omitempty"`
	FollowUpDate     string             `json:"follow_up_date,omitempty"`
}

func (c Consultation) Key() string { return c.ID }

// Virtual reports whether the consultation happens by video call.
func (c Consultation) Virtual() bool {
	return c.ConsultationType == ConsultationVirtual
}

type ConsultationDraft struct {
	PatientName      string `json:"patient_name"`
	PatientPhone     string `json:"patient_phone"`
	DoctorName       string `json:"doctor_name"`
	ConsultationType string `json:"consultation_type"`
	Symptoms         string `json:"symptoms"`
}

func (d ConsultationDraft) Missing() []string {
	return missing(
		field{"patient_name", d.PatientName},
		field{"patient_phone", d.PatientPhone},
		field{"doctor_name", d.DoctorName},
		field{"consultation_type", d.ConsultationType},
		field{"symptoms", d.Symptoms},
	)
}
