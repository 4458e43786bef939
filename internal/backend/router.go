// Package backend is a development implementation of the Salud al Paso REST
// API. The client talks to it locally and in contract tests.
package backend

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/unan-salud/salud-al-paso/internal/monitoring"
)

type RouterConfig struct {
	Service *Service
	Redis   *redis.Client
	Env     string
	Version string
}

func NewRouter(cfg RouterConfig) http.Handler {
	monitoring.Init()

	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(middleware.Recoverer)

	health := NewHealthHandler(cfg.Service, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)
	r.Method(http.MethodGet, "/metrics", monitoring.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/", rootHandler)
		r.Get("/health", health.Check)
		r.Get("/health-tips", healthTipsHandler)

		r.Get("/appointments", listAppointmentsHandler(cfg.Service))
		r.Post("/appointments", createAppointmentHandler(cfg.Service))
		r.Get("/appointments/{id}", getAppointmentHandler(cfg.Service))
		r.Put("/appointments/{id}", updateAppointmentHandler(cfg.Service))
		r.Delete("/appointments/{id}", deleteAppointmentHandler(cfg.Service))

		r.Get("/consultations", listConsultationsHandler(cfg.Service))
		r.Post("/consultations", createConsultationHandler(cfg.Service))
		r.Get("/consultations/{id}", getConsultationHandler(cfg.Service))

		r.Get("/emergencies", listEmergenciesHandler(cfg.Service))
		r.Post("/emergencies", createEmergencyHandler(cfg.Service))
		r.Put("/emergencies/{id}", updateEmergencyStatusHandler(cfg.Service))
	})

	return r
}
