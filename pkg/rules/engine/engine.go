package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"zephyr-hq/zephyr/pkg/rules"
	"zephyr-hq/zephyr/pkg/telemetry/metrics"
	"zephyr-hq/zephyr/pkg/telemetry/tracing"
)

// CatalogSource provides rule catalogs to the engine.
type CatalogSource interface {
	// Load loads the catalog from the source.
	Load(ctx context.Context) (*rules.Catalog, error)

	// Watch watches for catalog changes and sends events on the returned
	// channel. The channel is closed when the context is cancelled.
	Watch(ctx context.Context) (<-chan Event, error)
}

// Event represents a catalog change event.
type Event struct {
	// Type is the event type ("created", "modified", "deleted").
	Type EventType

	// Path is the file path that changed, when the source is file-backed.
	Path string

	// Err is any error that occurred while processing the event.
	Err error
}

// EventType represents the type of catalog change event.
type EventType string

const (
	EventCreated  EventType = "created"
	EventModified EventType = "modified"
	EventDeleted  EventType = "deleted"
)

// Engine wraps the pure Resolve function with a reloadable catalog source,
// evaluation IDs, metrics, and tracing. It is safe for concurrent use.
type Engine struct {
	// catalog is the current catalog, swapped atomically on reload
	catalog *rules.Catalog

	// catalogMu protects the catalog for concurrent access
	catalogMu sync.RWMutex

	// source provides catalogs
	source CatalogSource

	// logger for structured logging
	logger *slog.Logger

	// metrics records decision metrics, nil when disabled
	metrics *metrics.DecisionMetrics

	// tracer emits evaluation spans, nil when disabled
	tracer *tracing.Tracer

	// stopCh signals shutdown
	stopCh chan struct{}

	// wg tracks background goroutines
	wg sync.WaitGroup

	closeOnce sync.Once
}

// Option configures an Engine.
type Option func(*Engine)

// WithMetrics attaches decision metrics to the engine.
func WithMetrics(m *metrics.DecisionMetrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithTracer attaches a tracer to the engine.
func WithTracer(t *tracing.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// New creates an engine, loads and validates the initial catalog, and
// starts watching the source for changes.
func New(source CatalogSource, logger *slog.Logger, opts ...Option) (*Engine, error) {
	if source == nil {
		return nil, ErrNilSource
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		source: source,
		logger: logger,
		stopCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.Reload(context.Background()); err != nil {
		return nil, err
	}

	e.startWatching()

	return e, nil
}

// Evaluate resolves the fact snapshot against the current catalog. It is
// total: the returned decision always carries a well-formed action, falling
// back to the default action when no rule matches. A nil facts map behaves
// like an empty snapshot.
func (e *Engine) Evaluate(ctx context.Context, facts rules.Facts) *Decision {
	span := tracing.NoopSpan
	if e.tracer != nil {
		_, span = e.tracer.Start(ctx, "rules.evaluate")
	}
	defer span.End()

	start := time.Now()

	e.catalogMu.RLock()
	catalog := e.catalog
	e.catalogMu.RUnlock()

	decision := Resolve(facts, catalog)
	decision.EvaluationID = uuid.New().String()
	decision.EvaluatedAt = start
	decision.EvaluationTime = time.Since(start)

	span.SetAttributes(
		attribute.String("zephyr.evaluation_id", decision.EvaluationID),
		attribute.String("zephyr.mode", string(decision.Action.Mode)),
		attribute.Bool("zephyr.fallback", decision.Fallback),
		attribute.Int("zephyr.matched_rules", len(decision.MatchedRules)),
	)

	e.record(catalog, decision)

	e.logger.Debug("evaluation complete",
		"evaluation_id", decision.EvaluationID,
		"mode", decision.Action.Mode,
		"fallback", decision.Fallback,
		"matched", len(decision.MatchedRules),
		"duration", decision.EvaluationTime,
	)

	return decision
}

// record updates metrics and the active span for a completed evaluation.
func (e *Engine) record(catalog *rules.Catalog, decision *Decision) {
	if e.metrics == nil {
		return
	}

	e.metrics.RecordEvaluation(string(decision.Action.Mode), decision.Fallback, decision.EvaluationTime)

	matched := make(map[string]bool, len(decision.MatchedRules))
	for _, rule := range decision.MatchedRules {
		matched[rule.Name] = true
		e.metrics.RecordRuleHit(rule.Name)
	}
	if catalog == nil {
		return
	}
	for _, rule := range catalog.Rules {
		if rule != nil && !matched[rule.Name] {
			e.metrics.RecordRuleMiss(rule.Name)
		}
	}
}

// Reload loads the catalog from the source, validates it, and atomically
// swaps it in. On failure the previous catalog stays in effect.
func (e *Engine) Reload(ctx context.Context) error {
	span := tracing.NoopSpan
	if e.tracer != nil {
		ctx, span = e.tracer.Start(ctx, "rules.reload")
	}
	defer span.End()

	catalog, err := e.source.Load(ctx)
	if err != nil {
		span.RecordError(err)
		if e.metrics != nil {
			e.metrics.RecordReload("failure")
		}
		return &ReloadError{Cause: err}
	}

	if err := catalog.Validate(); err != nil {
		span.RecordError(err)
		if e.metrics != nil {
			e.metrics.RecordReload("failure")
		}
		return &ReloadError{Cause: err}
	}

	e.catalogMu.Lock()
	e.catalog = catalog
	e.catalogMu.Unlock()

	if e.metrics != nil {
		e.metrics.RecordReload("success")
		e.metrics.SetCatalogRules(len(catalog.Rules))
	}

	span.SetAttributes(attribute.Int("zephyr.catalog.rules", len(catalog.Rules)))

	e.logger.Info("catalog loaded",
		"catalog", catalog.Name,
		"rule_count", len(catalog.Rules),
	)

	return nil
}

// Catalog returns the currently loaded catalog. The returned catalog shares
// rule pointers with the engine and must be treated as read-only.
func (e *Engine) Catalog() *rules.Catalog {
	e.catalogMu.RLock()
	defer e.catalogMu.RUnlock()

	snapshot := &rules.Catalog{Name: e.catalog.Name}
	snapshot.Rules = make([]*rules.Rule, len(e.catalog.Rules))
	copy(snapshot.Rules, e.catalog.Rules)
	return snapshot
}

// startWatching subscribes to source change events and reloads on each one.
func (e *Engine) startWatching() {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		eventCh, err := e.source.Watch(ctx)
		if err != nil {
			e.logger.Error("failed to start catalog watcher", "error", err)
			return
		}

		for {
			select {
			case <-e.stopCh:
				return
			case event, ok := <-eventCh:
				if !ok {
					return
				}
				e.handleEvent(event)
			}
		}
	}()
}

func (e *Engine) handleEvent(event Event) {
	if event.Err != nil {
		e.logger.Error("catalog watch error", "error", event.Err)
		return
	}

	e.logger.Info("catalog changed",
		"type", event.Type,
		"path", event.Path,
	)

	if err := e.Reload(context.Background()); err != nil {
		e.logger.Error("failed to reload catalog after change",
			"error", err,
			"path", event.Path,
		)
	}
}

// Close shuts down the engine and releases resources.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		close(e.stopCh)
	})
	e.wg.Wait()
	return nil
}
