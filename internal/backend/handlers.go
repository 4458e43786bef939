package backend

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/unan-salud/salud-al-paso/internal/monitoring"
	"github.com/unan-salud/salud-al-paso/internal/records"
)

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse JSON body")
		return false
	}
	return true
}

func listAppointmentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListAppointments(r.Context())
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func createAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req records.AppointmentDraft
		if !decodeBody(w, r, &req) {
			return
		}

		appt, err := svc.CreateAppointment(r.Context(), req)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, appt)
	}
}

func getAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appt, err := svc.GetAppointment(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, appt)
	}
}

func updateAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AppointmentUpdate
		if !decodeBody(w, r, &req) {
			return
		}

		appt, err := svc.UpdateAppointment(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, appt)
	}
}

func deleteAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteAppointment(r.Context(), chi.URLParam(r, "id")); err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Appointment deleted successfully"})
	}
}

func listConsultationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListConsultations(r.Context())
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func createConsultationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req records.ConsultationDraft
		if !decodeBody(w, r, &req) {
			return
		}

		c, err := svc.CreateConsultation(r.Context(), req)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func getConsultationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.GetConsultation(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

func listEmergenciesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListEmergencies(r.Context())
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func createEmergencyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req records.EmergencyRequest
		if !decodeBody(w, r, &req) {
			return
		}

		rep, err := svc.ReportEmergency(r.Context(), req)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, rep)
	}
}

func updateEmergencyStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := records.EmergencyStatus(r.URL.Query().Get("status"))
		if err := svc.UpdateEmergencyStatus(r.Context(), chi.URLParam(r, "id"), status); err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "Emergency status updated"})
	}
}

func healthTipsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthTips())
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "Salud al Paso API - UNAN", Version: "1.0.0"})
}

func handleError(w http.ResponseWriter, r *http.Request, err error) {
	var invalid *InvalidError
	switch {
	case errors.As(err, &invalid):
		writeInvalid(w, invalid)
	case errors.Is(err, ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "Appointment not found")
	case errors.Is(err, ErrConsultationNotFound):
		writeError(w, http.StatusNotFound, "Consultation not found")
	case errors.Is(err, ErrEmergencyNotFound):
		writeError(w, http.StatusNotFound, "Emergency not found")
	case errors.Is(err, ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrBeingModified):
		writeError(w, http.StatusConflict, err.Error())
	default:
		monitoring.CaptureError(err, map[string]interface{}{
			"method":     r.Method,
			"path":       r.URL.Path,
			"request_id": GetRequestID(r.Context()),
		})
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
