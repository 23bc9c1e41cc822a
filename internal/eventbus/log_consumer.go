package eventbus

import (
	"context"

	"github.com/dustin/go-humanize"

	"github.com/matthewbaird/admingen/internal/event"
	"github.com/matthewbaird/admingen/internal/logger"
)

// LogConsumer logs every generation event.
type LogConsumer struct{}

func NewLogConsumer() *LogConsumer { return &LogConsumer{} }

func (c *LogConsumer) HandleEvent(_ context.Context, evt event.Generation) error {
	log := logger.Get().With("id", evt.ID, "source", evt.Source, "entity", evt.Entity)
	if evt.Failed() {
		log.Warnw("generation failed", "error", evt.Err, "duration", evt.Duration)
		return nil
	}
	log.Infow("generation",
		"kinds", len(evt.Kinds),
		"size", humanize.Bytes(uint64(evt.Bytes)),
		"cached", evt.Cached,
		"duration", evt.Duration,
	)
	return nil
}
