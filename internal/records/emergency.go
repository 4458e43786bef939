package records

// UnknownAddress is shown when reverse geocoding yields nothing.
const UnknownAddress = "Ubicación no disponible"

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

// EmergencyDraft holds what the user types; the location is attached on submit.
type EmergencyDraft struct {
	PatientName   string `json:"patient_name"`
	Phone         string `json:"phone"`
	EmergencyType string `json:"emergency_type"`
	Description   string `json:"description"`
}

// Description is optional.
func (d EmergencyDraft) Missing() []string {
	return missing(
		field{"patient_name", d.PatientName},
		field{"phone", d.Phone},
		field{"emergency_type", d.EmergencyType},
	)
}

// EmergencyRequest is the POST /api/emergencies body.
type EmergencyRequest struct {
	PatientName   string   `json:"patient_name"`
	Phone         string   `json:"phone"`
	Location      Location `json:"location"`
	EmergencyType string   `json:"emergency_type"`
	Description   string   `json:"description"`
}

func NewEmergencyRequest(d EmergencyDraft, loc Location) EmergencyRequest {
	return EmergencyRequest{
		PatientName:   d.PatientName,
		Phone:         d.Phone,
		Location:      loc,
		EmergencyType: d.EmergencyType,
		Description:   d.Description,
	}
}

type EmergencyStatus string

const (
	EmergencyPending    EmergencyStatus = "pending"
	EmergencyInProgress EmergencyStatus = "in_progress"
	EmergencyResolved   EmergencyStatus = "resolved"
)

func (s EmergencyStatus) Valid() bool {
	switch s {
	case EmergencyPending, EmergencyInProgress, EmergencyResolved:
		return true
	}
	return false
}

// EmergencyReport is the stored form kept by the backend.
type EmergencyReport struct {
	ID            string          `json:"id"`
	PatientName   string          `json:"patient_name"`
	Phone         string          `json:"phone"`
	Location      Location        `json:"location"`
	EmergencyType string          `json:"emergency_type"`
	Description   string          `json:"description"`
	Timestamp     string          `json:"timestamp"`
	Status        EmergencyStatus `json:"status"`
}

func (r EmergencyReport) Key() string { return r.ID }
