package services

import (
	"context"
	"time"

	"receitas/models"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Store is the backend contract every store in this package satisfies.
type Store interface {
	ListRecipes(ctx context.Context) ([]models.Recipe, error)
	SetFavorite(ctx context.Context, id string, favorite bool) error
}

// InstrumentedStore wraps a Store with spans and counters.
type InstrumentedStore struct {
	next    Store
	backend string
	tracer  trace.Tracer

	lists    metric.Int64Counter
	toggles  metric.Int64Counter
	failures metric.Int64Counter
	latency  metric.Float64Histogram
}

func NewInstrumentedStore(next Store, backend string, tracer trace.Tracer, meter metric.Meter) *InstrumentedStore {
	s := &InstrumentedStore{next: next, backend: backend, tracer: tracer}
	s.lists, _ = meter.Int64Counter("recipes_list_total",
		metric.WithDescription("Total number of recipe list requests sent to the backend"))
	s.toggles, _ = meter.Int64Counter("favorite_toggles_total",
		metric.WithDescription("Total number of favorite updates sent to the backend"))
	s.failures, _ = meter.Int64Counter("backend_errors_total",
		metric.WithDescription("Total number of backend calls that failed"))
	s.latency, _ = meter.Float64Histogram("backend_call_duration_seconds",
		metric.WithDescription("Duration of backend calls in seconds"))
	return s
}

func (s *InstrumentedStore) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	ctx, span := s.tracer.Start(ctx, "RecipeStore.ListRecipes",
		trace.WithAttributes(attribute.String("backend", s.backend)))
	defer span.End()

	start := time.Now()
	recipes, err := s.next.ListRecipes(ctx)
	s.observe(ctx, "list", start, err)
	s.lists.Add(ctx, 1, metric.WithAttributes(attribute.String("backend", s.backend)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("recipes.count", len(recipes)))
	return recipes, nil
}

func (s *InstrumentedStore) SetFavorite(ctx context.Context, id string, favorite bool) error {
	ctx, span := s.tracer.Start(ctx, "RecipeStore.SetFavorite",
		trace.WithAttributes(
			attribute.String("backend", s.backend),
			attribute.String("recipe.id", id),
			attribute.Bool("recipe.is_favorite", favorite),
		))
	defer span.End()

	start := time.Now()
	err := s.next.SetFavorite(ctx, id, favorite)
	s.observe(ctx, "set_favorite", start, err)
	s.toggles.Add(ctx, 1, metric.WithAttributes(attribute.Bool("favorite", favorite)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (s *InstrumentedStore) observe(ctx context.Context, op string, start time.Time, err error) {
	attrs := metric.WithAttributes(attribute.String("backend", s.backend), attribute.String("op", op))
	s.latency.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		s.failures.Add(ctx, 1, attrs)
	}
}
