package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/unan-salud/salud-al-paso/internal/config"
)

// listDownBackend fails every list call and accepts creates.
func listDownBackend(t *testing.T) (*httptest.Server, func() []string) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		mu.Lock()
		calls = append(calls, r.Method+" "+r.URL.Path)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"detail":"database unavailable"}`)
		case http.MethodPost:
			_, _ = io.WriteString(w, `{"id":"apt-1","patient_name":"Ana Pérez","status":"scheduled"}`)
		default:
			w.WriteHeader(http.StatusOK)
			_, _ = io.WriteString(w, `{}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), calls...)
	}
}

func TestCreateRunsAfterFailedLoad(t *testing.T) {
	srv, calls := listDownBackend(t)
	a := newApp(config.Config{BackendOrigin: srv.URL})

	err := a.runAppointments(context.Background(), []string{
		"create",
		"-patient", "Ana Pérez",
		"-phone", "88887777",
		"-doctor", "Dr. López",
		"-specialty", "Cardiología",
		"-date", "2025-06-01",
		"-time", "09:00",
		"-reason", "Chequeo",
	})
	if err != nil {
		t.Fatalf("runAppointments(create) error: %v", err)
	}

	got := calls()
	if len(got) != 2 || got[0] != "GET /api/appointments" || got[1] != "POST /api/appointments" {
		t.Errorf("calls = %v", got)
	}
}

func TestEditAndDeleteRequireID(t *testing.T) {
	for _, action := range []string{"edit", "delete"} {
		t.Run(action, func(t *testing.T) {
			srv, calls := listDownBackend(t)
			a := newApp(config.Config{BackendOrigin: srv.URL})

			err := a.runAppointments(context.Background(), []string{action})
			if !errors.Is(err, errUsage) {
				t.Fatalf("runAppointments(%s) error = %v, want errUsage", action, err)
			}
			for _, c := range calls() {
				if c != "GET /api/appointments" {
					t.Errorf("unexpected call %q", c)
				}
			}
		})
	}
}
