package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/unan-salud/salud-al-paso/internal/config"
	"github.com/unan-salud/salud-al-paso/internal/records"
	"github.com/unan-salud/salud-al-paso/internal/remote"
)

var reasons = []string{
	"Control de rutina",
	"Dolor de cabeza persistente",
	"Revisión de exámenes",
	"Dolor en el pecho",
	"Seguimiento de tratamiento",
	"Chequeo anual",
}

var symptoms = []string{
	"Fiebre y dolor de garganta",
	"Tos seca desde hace una semana",
	"Mareos frecuentes",
	"Dolor lumbar",
	"Erupción en la piel",
}

func main() {
	appointments := flag.Int("appointments", 20, "number of appointments to create")
	consultations := flag.Int("consultations", 10, "number of consultations to create")
	emergencies := flag.Int("emergencies", 0, "number of emergency reports to create")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	gofakeit.Seed(0)
	client := remote.NewClient(cfg.BackendOrigin, 10*time.Second)

	if err := seedAppointments(ctx, client, *appointments); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}
	if err := seedConsultations(ctx, client, *consultations); err != nil {
		log.Fatalf("seed consultations: %v", err)
	}
	if err := seedEmergencies(ctx, client, *emergencies); err != nil {
		log.Fatalf("seed emergencies: %v", err)
	}

	log.Println("seed complete")
}

func seedAppointments(ctx context.Context, client *remote.Client, count int) error {
	log.Printf("seeding %d appointments against %s", count, client.Origin())
	coll := remote.NewCollection[records.Appointment, records.AppointmentDraft](client, "appointments")

	start := time.Now()
	for i := 0; i < count; i++ {
		day := start.AddDate(0, 0, gofakeit.Number(1, 60))
		_, err := coll.Create(ctx, records.AppointmentDraft{
			PatientName:     gofakeit.Name(),
			PatientPhone:    gofakeit.Phone(),
			DoctorName:      "Dr. " + gofakeit.LastName(),
			Specialty:       gofakeit.RandomString(records.Specialties),
			AppointmentDate: day.Format("2006-01-02"),
			AppointmentTime: gofakeit.RandomString(records.TimeSlots),
			Reason:          gofakeit.RandomString(reasons),
		})
		if err != nil {
			return err
		}
	}

	log.Println("appointments seeded")
	return nil
}

func seedConsultations(ctx context.Context, client *remote.Client, count int) error {
	log.Printf("seeding %d consultations", count)
	coll := remote.NewCollection[records.Consultation, records.ConsultationDraft](client, "consultations")

	for i := 0; i < count; i++ {
		_, err := coll.Create(ctx, records.ConsultationDraft{
			PatientName:      gofakeit.Name(),
			PatientPhone:     gofakeit.Phone(),
			DoctorName:       gofakeit.RandomString(records.ConsultationDoctors),
			ConsultationType: gofakeit.RandomString(records.ConsultationTypes),
			Symptoms:         gofakeit.RandomString(symptoms),
		})
		if err != nil {
			return err
		}
	}

	log.Println("consultations seeded")
	return nil
}

// seedEmergencies places reports around Managua.
func seedEmergencies(ctx context.Context, client *remote.Client, count int) error {
	if count == 0 {
		return nil
	}
	log.Printf("seeding %d emergencies", count)
	coll := remote.NewCollection[records.EmergencyReport, records.EmergencyRequest](client, "emergencies")

	for i := 0; i < count; i++ {
		err := coll.Send(ctx, records.EmergencyRequest{
			PatientName: gofakeit.Name(),
			Phone:       gofakeit.Phone(),
			Location: records.Location{
				Latitude:  gofakeit.Float64Range(12.08, 12.18),
				Longitude: gofakeit.Float64Range(-86.32, -86.20),
				Address:   gofakeit.Street() + " Managua",
			},
			EmergencyType: gofakeit.RandomString(records.EmergencyTypes),
			Description:   "Reporte generado por seed",
		})
		if err != nil {
			return err
		}
	}

	log.Println("emergencies seeded")
	return nil
}
