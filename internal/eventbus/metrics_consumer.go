package eventbus

import (
	"context"

	"github.com/matthewbaird/admingen/internal/event"
	"github.com/matthewbaird/admingen/internal/metrics"
)

// MetricsConsumer feeds generation events into Prometheus collectors.
type MetricsConsumer struct {
	m *metrics.Metrics
}

func NewMetricsConsumer(m *metrics.Metrics) *MetricsConsumer {
	return &MetricsConsumer{m: m}
}

func (c *MetricsConsumer) HandleEvent(_ context.Context, evt event.Generation) error {
	c.m.RecordGeneration(evt.Kinds, evt.Bytes, evt.Duration, evt.Err)
	return nil
}
