package gateway

import (
	"context"
	"time"

	"github.com/Rorical/CircuiTech/internal/metrics"
	"github.com/Rorical/CircuiTech/internal/models"
)

type instrumented struct {
	next    Gateway
	metrics *metrics.Metrics
}

// Instrument records the outcome and latency of every call made through g.
func Instrument(g Gateway, m *metrics.Metrics) Gateway {
	return &instrumented{next: g, metrics: m}
}

func (i *instrumented) Converse(ctx context.Context, message string, history []models.ChatMessage) (*ConverseResult, error) {
	start := time.Now()
	result, err := i.next.Converse(ctx, message, history)
	i.metrics.ObserveGateway(OpConverse, start, err)
	return result, err
}

func (i *instrumented) DerivePinMap(ctx context.Context, items []models.BomItem) ([]models.Connection, error) {
	start := time.Now()
	conns, err := i.next.DerivePinMap(ctx, items)
	i.metrics.ObserveGateway(OpDerivePinMap, start, err)
	return conns, err
}
