package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/zatekoja/Medicarecoveragechecker"

// Metrics holds all application metrics
type Metrics struct {
	LookupCount     metric.Int64Counter
	LookupDuration  metric.Float64Histogram
	SourceHitCount  metric.Int64Counter
	SourceMissCount metric.Int64Counter
}

// Setup initializes OpenTelemetry
func Setup(ctx context.Context, serviceName, serviceVersion, endpoint string) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	// Set up trace exporter
	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	// Set up trace provider
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	// Shutdown function
	shutdown := func(ctx context.Context) error {
		return tracerProvider.Shutdown(ctx)
	}

	return shutdown, nil
}

// InitMetrics initializes application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	lookupCount, err := meter.Int64Counter(
		"lookup.count",
		metric.WithDescription("Number of code lookups"),
	)
	if err != nil {
		return nil, err
	}

	lookupDuration, err := meter.Float64Histogram(
		"lookup.duration",
		metric.WithDescription("Code lookup duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	sourceHitCount, err := meter.Int64Counter(
		"lookup.source.hit.count",
		metric.WithDescription("Number of lookups resolved per data source"),
	)
	if err != nil {
		return nil, err
	}

	sourceMissCount, err := meter.Int64Counter(
		"lookup.source.miss.count",
		metric.WithDescription("Number of data source attempts without usable data"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		LookupCount:     lookupCount,
		LookupDuration:  lookupDuration,
		SourceHitCount:  sourceHitCount,
		SourceMissCount: sourceMissCount,
	}, nil
}

// StartSpan starts a new trace span
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	tracer := otel.Tracer(instrumentationName)
	return tracer.Start(ctx, spanName)
}

// RecordError records an error in the current span
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
}

// SetSpanAttributes sets attributes on a span
func SetSpanAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
}

// RecordLookupMetric records the outcome and duration of one lookup
func RecordLookupMetric(ctx context.Context, metrics *Metrics, outcome string, duration time.Duration) {
	if metrics == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("lookup.outcome", outcome),
	}
	metrics.LookupCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	metrics.LookupDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordSourceHit records a data source that resolved a lookup
func RecordSourceHit(ctx context.Context, metrics *Metrics, source string) {
	if metrics == nil {
		return
	}
	metrics.SourceHitCount.Add(ctx, 1, metric.WithAttributes(attribute.String("lookup.source", source)))
}

// RecordSourceMiss records a data source attempt that produced no data
func RecordSourceMiss(ctx context.Context, metrics *Metrics, source string) {
	if metrics == nil {
		return
	}
	metrics.SourceMissCount.Add(ctx, 1, metric.WithAttributes(attribute.String("lookup.source", source)))
}
