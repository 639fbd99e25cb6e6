package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveGateway(t *testing.T) {
	m := New(prometheus.NewRegistry())
	start := time.Now()

	m.ObserveGateway("converse", start, nil)
	m.ObserveGateway("converse", start, errors.New("boom"))
	m.ObserveGateway("converse", start, fmt.Errorf("wrapped: %w", context.Canceled))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.GatewayRequests.WithLabelValues("converse", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GatewayRequests.WithLabelValues("converse", OutcomeTransportError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GatewayRequests.WithLabelValues("converse", OutcomeCanceled)))
}

func TestObserveServer(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveServer("/api/chat/", 200)
	m.ObserveServer("/api/chat/", 200)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ServerRequests.WithLabelValues("/api/chat/", "200")))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveGateway("converse", time.Now(), nil)
		m.ObserveServer("/", 200)
	})
}

func TestNew_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	require.Panics(t, func() { New(reg) })
}
