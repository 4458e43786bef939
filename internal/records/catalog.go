package records

import "strings"

var Specialties = []string{
	"Medicina General",
	"Cardiología",
	"Dermatología",
	"Ginecología",
	"Pediatría",
	"Neurología",
	"Ortopedia",
	"Psiquiatría",
	"Oftalmología",
	"Otorrinolaringología",
}

var TimeSlots = []string{
	"08:00", "08:30", "09:00", "09:30", "10:00", "10:30",
	"11:00", "11:30", "14:00", "14:30", "15:00", "15:30",
	"16:00", "16:30", "17:00", "17:30",
}

const (
	ConsultationVirtual    = "Virtual"
	ConsultationPresencial = "Presencial"
)

var ConsultationTypes = []string{ConsultationVirtual, ConsultationPresencial}

var ConsultationDoctors = []string{
	"Dr. María González - Medicina General",
	"Dr. Carlos López - Cardiología",
	"Dra. Ana Martínez - Dermatología",
	"Dr. José Hernández - Pediatría",
	"Dra. Laura Rodríguez - Ginecología",
	"Dr. Roberto Silva - Neurología",
	"Dra. Carmen Díaz - Psiquiatría",
	"Dr. Fernando Torres - Ortopedia",
}

var EmergencyTypes = []string{
	"Accidente de Tránsito",
	"Paro Cardíaco",
	"Accidente Laboral",
	"Caída o Fractura",
	"Intoxicación",
	"Quemadura",
	"Dificultad Respiratoria",
	"Otro",
}

type field struct {
	name  string
	value string
}

// missing returns the names of fields that are blank after trimming.
func missing(fields ...field) []string {
	var out []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			out = append(out, f.name)
		}
	}
	return out
}
