// Package otel implements dux.Observability using OpenTelemetry.
package otel

import (
	"context"
	"time"

	dux "github.com/jilio/dux"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "github.com/jilio/dux"
)

// Observability implements dux.Observability using OpenTelemetry
type Observability struct {
	tracer trace.Tracer
	meter  metric.Meter

	// Metrics
	dispatchCounter  metric.Int64Counter
	dispatchDuration metric.Float64Histogram
	dispatchErrors   metric.Int64Counter
	notifyCounter    metric.Int64Counter
	notifyDuration   metric.Float64Histogram
}

// Option configures the Observability
type Option func(*Observability)

// WithTracerProvider sets a custom tracer provider
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(o *Observability) {
		o.tracer = provider.Tracer(instrumentationName)
	}
}

// WithMeterProvider sets a custom meter provider
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(o *Observability) {
		o.meter = provider.Meter(instrumentationName)
	}
}

// New creates a new OpenTelemetry observability implementation
func New(opts ...Option) (*Observability, error) {
	obs := &Observability{
		tracer: otel.Tracer(instrumentationName),
		meter:  otel.Meter(instrumentationName),
	}

	// Apply options
	for _, opt := range opts {
		opt(obs)
	}

	// Initialize metrics
	var err error

	obs.dispatchCounter, err = obs.meter.Int64Counter(
		"dux.dispatch.count",
		metric.WithDescription("Number of actions dispatched"),
		metric.WithUnit("{action}"),
	)
	if err != nil {
		return nil, err
	}

	obs.dispatchDuration, err = obs.meter.Float64Histogram(
		"dux.dispatch.duration",
		metric.WithDescription("Dispatch duration, reducer through fan-out"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	obs.dispatchErrors, err = obs.meter.Int64Counter(
		"dux.dispatch.errors",
		metric.WithDescription("Number of failed dispatches"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	obs.notifyCounter, err = obs.meter.Int64Counter(
		"dux.notify.count",
		metric.WithDescription("Number of subscriber callbacks invoked"),
		metric.WithUnit("{callback}"),
	)
	if err != nil {
		return nil, err
	}

	obs.notifyDuration, err = obs.meter.Float64Histogram(
		"dux.notify.duration",
		metric.WithDescription("Subscriber fan-out duration"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return obs, nil
}

// OnDispatchStart is called when a dispatch enters the store
func (o *Observability) OnDispatchStart(ctx context.Context, actionType string) context.Context {
	// Start a span for the dispatch operation
	ctx, _ = o.tracer.Start(ctx, "dux.dispatch: "+actionType,
		trace.WithAttributes(
			attribute.String("action.type", actionType),
		),
	)

	// Increment dispatch counter
	o.dispatchCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("action.type", actionType),
		),
	)

	return ctx
}

// OnDispatchComplete is called when the dispatch finishes
func (o *Observability) OnDispatchComplete(ctx context.Context, duration time.Duration, err error) {
	span := trace.SpanFromContext(ctx)

	// Record duration
	durationMs := float64(duration.Microseconds()) / 1000.0
	o.dispatchDuration.Record(ctx, durationMs)

	// Handle errors
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		o.dispatchErrors.Add(ctx, 1)
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.End()
}

// OnNotifyStart is called before subscriber fan-out begins
func (o *Observability) OnNotifyStart(ctx context.Context, actionType string, subscribers int) context.Context {
	// Start a span for the fan-out
	ctx, _ = o.tracer.Start(ctx, "dux.notify: "+actionType,
		trace.WithAttributes(
			attribute.String("action.type", actionType),
			attribute.Int("subscribers", subscribers),
		),
	)

	// Count the callbacks that will run
	o.notifyCounter.Add(ctx, int64(subscribers),
		metric.WithAttributes(
			attribute.String("action.type", actionType),
		),
	)

	return ctx
}

// OnNotifyComplete is called after all subscribers have run
func (o *Observability) OnNotifyComplete(ctx context.Context, duration time.Duration) {
	span := trace.SpanFromContext(ctx)

	// Record duration
	durationMs := float64(duration.Microseconds()) / 1000.0
	o.notifyDuration.Record(ctx, durationMs)

	span.End()
}

// Ensure Observability implements dux.Observability
var _ dux.Observability = (*Observability)(nil)
