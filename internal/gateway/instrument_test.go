package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/CircuiTech/internal/metrics"
	"github.com/Rorical/CircuiTech/internal/models"
)

type stubGateway struct {
	err error
}

func (s stubGateway) Converse(context.Context, string, []models.ChatMessage) (*ConverseResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &ConverseResult{Reply: "ok"}, nil
}

func (s stubGateway) DerivePinMap(context.Context, []models.BomItem) ([]models.Connection, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []models.Connection{}, nil
}

func TestInstrument_CountsOutcomes(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	ok := Instrument(stubGateway{}, m)
	_, err := ok.Converse(context.Background(), "hi", nil)
	require.NoError(t, err)
	_, err = ok.DerivePinMap(context.Background(), nil)
	require.NoError(t, err)

	failing := Instrument(stubGateway{err: transportErr(OpConverse, 502, errors.New("bad gateway"))}, m)
	_, err = failing.Converse(context.Background(), "hi", nil)
	assert.True(t, IsTransportError(err))

	canceled := Instrument(stubGateway{err: transportErr(OpDerivePinMap, 0, context.Canceled)}, m)
	_, err = canceled.DerivePinMap(context.Background(), nil)
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.GatewayRequests.WithLabelValues(OpConverse, metrics.OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GatewayRequests.WithLabelValues(OpConverse, metrics.OutcomeTransportError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GatewayRequests.WithLabelValues(OpDerivePinMap, metrics.OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GatewayRequests.WithLabelValues(OpDerivePinMap, metrics.OutcomeCanceled)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.GatewayDuration))
}

func TestInstrument_NilMetrics(t *testing.T) {
	g := Instrument(stubGateway{}, nil)
	result, err := g.Converse(context.Background(), "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Reply)
}
