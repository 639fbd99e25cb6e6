// Package metrics holds the Prometheus collectors shared by the client
// gateway and the reference backend server.
package metrics

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess        = "success"
	OutcomeTransportError = "transport_error"
	OutcomeCanceled       = "canceled"
)

type Metrics struct {
	GatewayRequests *prometheus.CounterVec
	GatewayDuration *prometheus.HistogramVec
	ServerRequests  *prometheus.CounterVec
}

// New registers all collectors on reg. Pass prometheus.NewRegistry() in tests
// to keep them isolated.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		GatewayRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "circuitech_gateway_requests_total",
				Help: "Total number of backend calls made by the client",
			},
			[]string{"operation", "outcome"},
		),
		GatewayDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "circuitech_gateway_request_duration_seconds",
				Help:    "Duration of backend calls made by the client",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"operation"},
		),
		ServerRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "circuitech_server_requests_total",
				Help: "Total number of requests handled by the backend server",
			},
			[]string{"route", "status"},
		),
	}
}

// ObserveGateway records one settled backend call.
func (m *Metrics) ObserveGateway(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		outcome = OutcomeCanceled
	default:
		outcome = OutcomeTransportError
	}
	m.GatewayRequests.WithLabelValues(operation, outcome).Inc()
	m.GatewayDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) ObserveServer(route string, status int) {
	if m == nil {
		return
	}
	m.ServerRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
