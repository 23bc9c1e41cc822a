// Package eventbus provides an in-process pub/sub bus for generation events.
// Publishers never block; subscribers run on a single consumer goroutine.
package eventbus

import (
	"context"
	"sync"

	"github.com/matthewbaird/admingen/internal/event"
	"github.com/matthewbaird/admingen/internal/logger"
)

// Handler processes a generation event. Implementations must be safe for
// concurrent calls from different goroutines.
type Handler interface {
	HandleEvent(ctx context.Context, evt event.Generation) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, evt event.Generation) error

func (f HandlerFunc) HandleEvent(ctx context.Context, evt event.Generation) error {
	return f(ctx, evt)
}

// Bus dispatches events to every subscriber in publish order. Processing is
// serialised, which keeps SQLite writes from the history consumer single file.
type Bus struct {
	mu          sync.RWMutex
	subscribers []namedHandler
	events      chan event.Generation
	done        chan struct{}
	started     bool
	stopped     bool
}

type namedHandler struct {
	name    string
	handler Handler
}

// New creates a Bus with the given channel buffer size.
func New(bufSize int) *Bus {
	if bufSize < 1 {
		bufSize = 256
	}
	return &Bus{
		events: make(chan event.Generation, bufSize),
		done:   make(chan struct{}),
	}
}

// Subscribe registers a named handler. Must be called before Start.
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, namedHandler{name: name, handler: h})
}

// Publish queues an event. If the buffer is full or the bus is stopped the
// event is dropped with a warning.
func (b *Bus) Publish(_ context.Context, evt event.Generation) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.stopped {
		logger.Get().Warnw("eventbus: stopped, dropping event", "id", evt.ID)
		return
	}
	select {
	case b.events <- evt:
	default:
		logger.Get().Warnw("eventbus: buffer full, dropping event", "id", evt.ID, "entity", evt.Entity)
	}
}

// Start runs the consumer goroutine until Stop is called. Events still
// queued at that point are delivered before Stop returns.
func (b *Bus) Start(ctx context.Context) {
	b.mu.Lock()
	if b.started {
		b.mu.Unlock()
		return
	}
	b.started = true
	b.mu.Unlock()

	go func() {
		defer close(b.done)
		for evt := range b.events {
			b.dispatch(ctx, evt)
		}
	}()
}

// Stop closes the bus and waits for queued events to drain.
func (b *Bus) Stop() {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return
	}
	b.stopped = true
	close(b.events)
	started := b.started
	b.mu.Unlock()

	if started {
		<-b.done
	}
}

func (b *Bus) dispatch(ctx context.Context, evt event.Generation) {
	b.mu.RLock()
	subs := b.subscribers
	b.mu.RUnlock()

	for _, s := range subs {
		if err := s.handler.HandleEvent(ctx, evt); err != nil {
			logger.Get().Errorw("eventbus: handler error", "handler", s.name, "id", evt.ID, "error", err)
		}
	}
}
