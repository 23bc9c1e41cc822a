// Package generate runs one generation request end to end: decode the
// config, consult the cache, assemble the artifacts and publish the outcome.
package generate

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matthewbaird/admingen/internal/artifact"
	"github.com/matthewbaird/admingen/internal/cache"
	"github.com/matthewbaird/admingen/internal/event"
	"github.com/matthewbaird/admingen/internal/history"
	"github.com/matthewbaird/admingen/internal/logger"
	"github.com/matthewbaird/admingen/internal/metrics"
	"github.com/matthewbaird/admingen/internal/output"
	"github.com/matthewbaird/admingen/internal/schema"
)

// Request is one generation request.
type Request struct {
	// Config is the raw configuration document.
	Config []byte
	// Name is the config file name; a .cue suffix selects CUE decoding.
	Name string
	// Kinds to assemble; empty means all.
	Kinds  []artifact.Kind
	Source event.Source
}

// Result is a successful generation.
type Result struct {
	ID     uuid.UUID
	Config *schema.Config
	Files  []artifact.File
	Cached bool
}

// Service assembles artifacts. The zero value is not usable; call New.
type Service struct {
	gen     *artifact.Generator
	cache   cache.Cache
	bus     event.Publisher
	history history.Store
	metrics *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithCache stores assembled artifacts keyed by config and kinds.
func WithCache(c cache.Cache) Option { return func(s *Service) { s.cache = c } }

// WithPublisher sends a generation event after every run.
func WithPublisher(p event.Publisher) Option { return func(s *Service) { s.bus = p } }

// WithHistory records every successful run before Generate returns, so the
// returned ID can be looked up straight away.
func WithHistory(store history.Store) Option { return func(s *Service) { s.history = store } }

// WithMetrics counts cache lookups.
func WithMetrics(m *metrics.Metrics) Option { return func(s *Service) { s.metrics = m } }

// New creates a Service over gen.
func New(gen *artifact.Generator, opts ...Option) *Service {
	s := &Service{gen: gen, cache: cache.Nop{}, bus: event.Discard}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Generate runs req. Either every requested artifact is returned or none.
func (s *Service) Generate(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	res, err := s.generate(ctx, req)

	evt := event.NewGeneration(req.Source, start)
	evt.Err = err
	evt.Cached = res.Cached
	if res.Config != nil {
		evt.UID = res.Config.UID
		evt.TemplateName = res.Config.TemplateName
		evt.Entity = res.Config.Naming.SingularPascal
	}
	for _, f := range res.Files {
		evt.Kinds = append(evt.Kinds, string(f.Kind))
	}
	evt.Bytes = output.Size(res.Files)
	if err == nil {
		s.record(ctx, evt)
	}
	s.bus.Publish(ctx, evt)

	if err != nil {
		return Result{}, err
	}
	res.ID = evt.ID
	return res, nil
}

func (s *Service) generate(ctx context.Context, req Request) (Result, error) {
	cfg, err := schema.DecodeNamed(req.Name, req.Config)
	if err != nil {
		return Result{}, err
	}
	warnUnknownTags(cfg)

	kinds := req.Kinds
	if len(kinds) == 0 {
		kinds = artifact.Kinds()
	}
	res := Result{Config: cfg}

	key := cache.Key(req.Config, kinds)
	files, hit, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		// a broken cache never fails a generation
		logger.Get().Warnw("artifact cache lookup failed", "error", err)
		s.countLookup("error")
	case hit:
		s.countLookup("hit")
		res.Files = files
		res.Cached = true
		return res, nil
	default:
		s.countLookup("miss")
	}

	files, err = s.gen.AssembleKinds(cfg, kinds)
	if err != nil {
		return Result{Config: cfg}, err
	}
	if err := s.cache.Set(ctx, key, files); err != nil {
		logger.Get().Warnw("artifact cache store failed", "error", err)
	}
	res.Files = files
	return res, nil
}

// record keeps a history entry for a successful run. A store failure is
// logged; the artifacts are still returned.
func (s *Service) record(ctx context.Context, evt event.Generation) {
	if s.history == nil {
		return
	}
	err := s.history.Record(ctx, history.Generation{
		ID:           evt.ID,
		UID:          evt.UID,
		TemplateName: evt.TemplateName,
		Entity:       evt.Entity,
		Kinds:        evt.Kinds,
		Bytes:        evt.Bytes,
		CreatedAt:    evt.OccurredAt,
	})
	if err != nil {
		logger.Get().Warnw("recording generation failed", "id", evt.ID, "error", err)
	}
}

// warnUnknownTags logs leaves whose tag fell back to STRING.
func warnUnknownTags(cfg *schema.Config) {
	for _, ref := range schema.Leaves(cfg.Schema) {
		if !ref.Leaf.Known() {
			logger.Get().Warnw("unknown type tag, treating as STRING",
				"field", strings.Join(ref.Path, "."),
				"tag", ref.Leaf.Tag,
			)
		}
	}
}

func (s *Service) countLookup(result string) {
	if s.metrics != nil {
		s.metrics.CacheLookups.WithLabelValues(result).Inc()
	}
}
