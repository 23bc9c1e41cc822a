// Package event defines the events emitted when artifacts are generated.
package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Source says which surface triggered a generation.
type Source string

const (
	SourceCLI     Source = "cli"
	SourceHTTP    Source = "http"
	SourcePreview Source = "preview"
)

// Generation is published once per generation run, successful or not.
type Generation struct {
	ID           uuid.UUID
	OccurredAt   time.Time
	Source       Source
	UID          string
	TemplateName string
	Entity       string
	Kinds        []string
	Bytes        int64
	Duration     time.Duration
	Cached       bool
	Err          error
}

// Failed reports whether the run produced no artifacts.
func (g Generation) Failed() bool { return g.Err != nil }

// NewGeneration builds the event for a run that began at start and has just
// finished.
func NewGeneration(src Source, start time.Time) Generation {
	return Generation{
		ID:         uuid.New(),
		OccurredAt: start.UTC(),
		Source:     src,
		Duration:   time.Since(start),
	}
}

// Publisher sends generation events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, evt Generation)
}

// PublisherFunc adapts a plain function to Publisher.
type PublisherFunc func(ctx context.Context, evt Generation)

func (f PublisherFunc) Publish(ctx context.Context, evt Generation) { f(ctx, evt) }

// Discard drops every event.
var Discard Publisher = PublisherFunc(func(context.Context, Generation) {})
