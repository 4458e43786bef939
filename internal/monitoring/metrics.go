package monitoring

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ClientRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salud_client_requests_total",
			Help: "Requests issued by the remote collection client",
		},
		[]string{"resource", "method", "outcome"},
	)

	ClientRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "salud_client_request_duration_seconds",
			Help:    "Round trip time of remote collection requests",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2.5, 5},
		},
		[]string{"resource", "method"},
	)
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salud_http_requests_total",
			Help: "Requests served by the development backend",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "salud_http_request_duration_seconds",
			Help:    "Latency of requests served by the development backend",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"method", "route"},
	)

	EmergencyAlertsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "salud_emergency_alerts_total",
			Help: "Emergency reports accepted by the development backend",
		},
	)
)

// Outcome labels for ClientRequestsTotal.
const (
	OutcomeOK       = "ok"
	OutcomeStatus   = "status_error"
	OutcomeNetwork  = "network_error"
	OutcomeDecode   = "decode_error"
	OutcomeCanceled = "canceled"
)

var registerOnce sync.Once

// Init registers every collector with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ClientRequestsTotal)
		prometheus.MustRegister(ClientRequestDuration)
		prometheus.MustRegister(HTTPRequestsTotal)
		prometheus.MustRegister(HTTPRequestDuration)
		prometheus.MustRegister(EmergencyAlertsTotal)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
