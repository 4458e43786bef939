// Command salud is a terminal front end for the Salud al Paso backend. Each
// subcommand opens one screen, runs a single action and prints the result.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/unan-salud/salud-al-paso/internal/config"
	"github.com/unan-salud/salud-al-paso/internal/location"
	"github.com/unan-salud/salud-al-paso/internal/monitoring"
	"github.com/unan-salud/salud-al-paso/internal/records"
	"github.com/unan-salud/salud-al-paso/internal/remote"
)

const usage = `usage: salud <command> [flags]

commands:
  home                               show the main menu
  appointments list|create|edit|delete
  consultations list|create
  tips [-category NAME] [-refresh]
  emergency [flags]
`

type app struct {
	cfg           config.Config
	appointments  *remote.Collection[records.Appointment, records.AppointmentDraft]
	consultations *remote.Collection[records.Consultation, records.ConsultationDraft]
	tips          *remote.Collection[records.HealthTip, struct{}]
	emergencies   *remote.Collection[records.EmergencyReport, records.EmergencyRequest]
	locator       *location.Acquirer
}

func newApp(cfg config.Config) *app {
	client := remote.NewClient(cfg.BackendOrigin, cfg.RequestTimeout)

	provider := location.StaticProvider{Granted: cfg.Location.Permission != "denied"}
	if cfg.Location.HasPosition {
		provider.Position = &location.Coordinates{
			Latitude:  cfg.Location.Latitude,
			Longitude: cfg.Location.Longitude,
		}
	}
	if cfg.Location.GeocoderURL != "" {
		provider.Geocoder = location.NewNominatimGeocoder(cfg.Location.GeocoderURL, http.DefaultClient)
	}

	return &app{
		cfg:           cfg,
		appointments:  remote.NewCollection[records.Appointment, records.AppointmentDraft](client, "appointments"),
		consultations: remote.NewCollection[records.Consultation, records.ConsultationDraft](client, "consultations"),
		tips:          remote.NewCollection[records.HealthTip, struct{}](client, "health-tips"),
		emergencies:   remote.NewCollection[records.EmergencyReport, records.EmergencyRequest](client, "emergencies"),
		locator:       location.NewAcquirer(provider),
	}
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	flush, err := monitoring.InitSentry(cfg.SentryDSN, cfg.Env, "1.0.0")
	if err != nil {
		log.Printf("sentry init error: %v", err)
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := newApp(cfg)
	cmd, args := os.Args[1], os.Args[2:]

	switch cmd {
	case "home":
		err = a.home(os.Stdout)
	case "appointments":
		err = a.runAppointments(ctx, args)
	case "consultations":
		err = a.runConsultations(ctx, args)
	case "tips":
		err = a.runTips(ctx, args)
	case "emergency":
		err = a.runEmergency(ctx, args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}

	if err != nil {
		stop()
		flush()
		os.Exit(1)
	}
}
