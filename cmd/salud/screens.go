package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/unan-salud/salud-al-paso/internal/records"
	"github.com/unan-salud/salud-al-paso/internal/screen"
)

var errUsage = errors.New("usage")

func (a *app) home(w io.Writer) error {
	fmt.Fprintln(w, "Salud al Paso - UNAN")
	fmt.Fprintln(w, "Tu salud, nuestra prioridad")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  appointments   Citas Médicas        Agenda y gestiona tus citas")
	fmt.Fprintln(w, "  consultations  Consultas Médicas    Solicita consultas virtuales o presenciales")
	fmt.Fprintln(w, "  emergency      Emergencias          Reporta una emergencia con tu ubicación")
	fmt.Fprintln(w, "  tips           Consejos de Salud    Recomendaciones para tu bienestar")
	fmt.Fprintf(w, "\nbackend: %s\n", a.cfg.BackendOrigin)
	return nil
}

// printNotice writes the pending notice of a screen. Error notices go to stderr.
func printNotice(n screen.Notice) {
	if n.Empty() {
		return
	}
	w := os.Stdout
	if n.IsError() {
		w = os.Stderr
	}
	fmt.Fprintf(w, "%s: %s\n", n.Title, n.Message)
}

func appointmentFlags(fs *flag.FlagSet, d *records.AppointmentDraft) {
	fs.StringVar(&d.PatientName, "patient", d.PatientName, "patient name")
	fs.StringVar(&d.PatientPhone, "phone", d.PatientPhone, "patient phone")
	fs.StringVar(&d.DoctorName, "doctor", d.DoctorName, "doctor name")
	fs.StringVar(&d.Specialty, "specialty", d.Specialty, "specialty")
	fs.StringVar(&d.AppointmentDate, "date", d.AppointmentDate, "date, YYYY-MM-DD")
	fs.StringVar(&d.AppointmentTime, "time", d.AppointmentTime, "time, HH:MM")
	fs.StringVar(&d.Reason, "reason", d.Reason, "reason for the visit")
}

func (a *app) runAppointments(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: salud appointments list|create|edit|delete")
		return errUsage
	}

	s := screen.NewAppointments(ctx, a.appointments)
	defer s.Close()

	if err := s.Load(ctx); err != nil {
		log.Printf("appointments load failed, showing an empty list: %v", err)
	}

	sub, args := args[0], args[1:]
	fs := flag.NewFlagSet("appointments "+sub, flag.ContinueOnError)
	id := fs.String("id", "", "appointment id")

	var err error
	switch sub {
	case "list":
		if err = fs.Parse(args); err != nil {
			return err
		}
	case "create":
		var d records.AppointmentDraft
		appointmentFlags(fs, &d)
		if err = fs.Parse(args); err != nil {
			return err
		}
		s.OpenCreate()
		s.Edit(func(dst *records.AppointmentDraft) { *dst = d })
		err = s.Submit(ctx)
	case "edit":
		var d records.AppointmentDraft
		appointmentFlags(fs, &d)
		if err = parseWithID(fs, args, id); err != nil {
			return err
		}
		if err = s.OpenEdit(*id); err != nil {
			fmt.Fprintf(os.Stderr, "no appointment with id %q\n", *id)
			return err
		}
		s.Edit(func(dst *records.AppointmentDraft) { overlay(dst, d) })
		err = s.Submit(ctx)
	case "delete":
		if err = parseWithID(fs, args, id); err != nil {
			return err
		}
		err = s.Delete(ctx, *id)
	default:
		fmt.Fprintf(os.Stderr, "unknown appointments action %q\n", sub)
		return errUsage
	}

	st := s.State()
	printNotice(st.Notice)
	printAppointments(os.Stdout, st.Store.Items())
	return err
}

// parseWithID parses args and requires -id to be set.
func parseWithID(fs *flag.FlagSet, args []string, id *string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*id) == "" {
		fmt.Fprintf(os.Stderr, "%s: -id is required\n", fs.Name())
		return errUsage
	}
	return nil
}

// overlay copies the flags that were given onto the seeded draft.
func overlay(dst *records.AppointmentDraft, src records.AppointmentDraft) {
	set := func(p *string, v string) {
		if v != "" {
			*p = v
		}
	}
	set(&dst.PatientName, src.PatientName)
	set(&dst.PatientPhone, src.PatientPhone)
	set(&dst.DoctorName, src.DoctorName)
	set(&dst.Specialty, src.Specialty)
	set(&dst.AppointmentDate, src.AppointmentDate)
	set(&dst.AppointmentTime, src.AppointmentTime)
	set(&dst.Reason, src.Reason)
}

func printAppointments(w io.Writer, items []records.Appointment) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No tienes citas programadas")
		return
	}
	for _, a := range items {
		fmt.Fprintf(w, "%s  %s %s  %-12s %s - %s (%s)\n",
			a.ID, a.AppointmentDate, a.AppointmentTime, a.DisplayStatus().Label(),
			a.PatientName, a.DoctorName, a.Specialty)
	}
}

func (a *app) runConsultations(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: salud consultations list|create")
		return errUsage
	}

	s := screen.NewConsultations(ctx, a.consultations)
	defer s.Close()

	if err := s.Load(ctx); err != nil {
		log.Printf("consultations load failed, showing an empty list: %v", err)
	}

	sub, args := args[0], args[1:]
	fs := flag.NewFlagSet("consultations "+sub, flag.ContinueOnError)

	var err error
	switch sub {
	case "list":
		err = fs.Parse(args)
	case "create":
		d := records.ConsultationDraft{ConsultationType: records.ConsultationVirtual}
		fs.StringVar(&d.PatientName, "patient", "", "patient name")
		fs.StringVar(&d.PatientPhone, "phone", "", "patient phone")
		fs.StringVar(&d.DoctorName, "doctor", "", "doctor name")
		fs.StringVar(&d.ConsultationType, "type", d.ConsultationType, "Virtual or Presencial")
		fs.StringVar(&d.Symptoms, "symptoms", "", "symptoms")
		if err = fs.Parse(args); err != nil {
			return err
		}
		s.OpenCreate()
		s.Edit(func(dst *records.ConsultationDraft) { *dst = d })
		err = s.Submit(ctx)
	default:
		fmt.Fprintf(os.Stderr, "unknown consultations action %q\n", sub)
		return errUsage
	}

	st := s.State()
	printNotice(st.Notice)
	if len(st.Store.Items()) == 0 {
		fmt.Println("No tienes consultas registradas")
	}
	for _, c := range st.Store.Items() {
		fmt.Printf("%s  %-10s %-12s %s - %s\n", c.ID, c.ConsultationType, c.Status.Label(), c.PatientName, c.DoctorName)
	}
	return err
}

func (a *app) runTips(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tips", flag.ContinueOnError)
	category := fs.String("category", string(records.CategoryAll), "category filter")
	refresh := fs.Bool("refresh", false, "fetch the tips a second time")
	if err := fs.Parse(args); err != nil {
		return err
	}

	h := screen.NewHealthTips(ctx, a.tips)
	defer h.Close()

	err := h.Load(ctx)
	if err == nil && *refresh {
		err = h.Refresh(ctx)
	}
	if err != nil {
		log.Printf("tips load failed, showing an empty list: %v", err)
	}

	h.Select(records.TipCategory(*category))
	tips := h.Visible()
	fmt.Printf("Categoría: %s %s\n\n", h.Category().Icon(), h.Category())
	if len(tips) == 0 {
		fmt.Println("No hay consejos disponibles")
	}
	for _, t := range tips {
		fmt.Printf("%s %s [%s]\n  %s\n\n", t.Category.Icon(), t.Title, t.Category, t.Content)
	}
	return nil
}

func (a *app) runEmergency(ctx context.Context, args []string) error {
	var d records.EmergencyDraft
	fs := flag.NewFlagSet("emergency", flag.ContinueOnError)
	fs.StringVar(&d.PatientName, "patient", "", "patient name")
	fs.StringVar(&d.Phone, "phone", "", "contact phone")
	fs.StringVar(&d.EmergencyType, "type", "", "emergency type")
	fs.StringVar(&d.Description, "description", "", "optional description")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e := screen.NewEmergency(ctx, a.emergencies, a.locator)
	defer e.Close()

	snap := e.Locate(ctx)
	if snap.Ready() {
		fmt.Printf("Ubicación: %s (%.5f, %.5f)\n", snap.Location.Address, snap.Location.Latitude, snap.Location.Longitude)
	} else {
		printNotice(e.State().Notice)
		e.Acknowledge()
	}

	e.Edit(func(dst *records.EmergencyDraft) { *dst = d })
	err := e.Submit(ctx)
	printNotice(e.State().Notice)
	return err
}
