// internal/common/observability/observability.go
package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Observability carries the OTel meter and tracer. All methods are safe on a
// nil receiver so handlers can run without it in tests.
type Observability struct {
	meterProvider   *metric.MeterProvider
	tracer          trace.Tracer
	jobCounter      otelmetric.Int64Counter
	jobDuration     otelmetric.Float64Histogram
	recommendations otelmetric.Int64Counter
	resultSize      otelmetric.Int64Histogram
}

func New(serviceName string, opts ...prometheus.Option) *Observability {
	exporter, err := prometheus.New(opts...)
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{tracer: otel.Tracer(serviceName)}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	jobCounter, _ := meter.Int64Counter(
		"jobs_processed",
		otelmetric.WithDescription("Number of jobs processed"),
	)

	jobDuration, _ := meter.Float64Histogram(
		"jobs_duration",
		otelmetric.WithDescription("Job processing duration"),
		otelmetric.WithUnit("ms"),
	)

	recommendations, _ := meter.Int64Counter(
		"recommendations_served",
		otelmetric.WithDescription("Recommendations returned to seekers"),
	)

	resultSize, _ := meter.Int64Histogram(
		"recommendations_result_size",
		otelmetric.WithDescription("Recommendations returned per request"),
	)

	return &Observability{
		meterProvider:   provider,
		tracer:          otel.Tracer(serviceName),
		jobCounter:      jobCounter,
		jobDuration:     jobDuration,
		recommendations: recommendations,
		resultSize:      resultSize,
	}
}

// StartSpan opens a span under ctx. The caller ends it.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if o == nil || o.tracer == nil {
		return noop.NewTracerProvider().Tracer("").Start(ctx, name)
	}
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (o *Observability) RecordJobProcessed(ctx context.Context, taskType, status string) {
	if o == nil || o.jobCounter == nil {
		return
	}
	o.jobCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
		attribute.String("status", status),
	))
}

func (o *Observability) RecordJobDuration(ctx context.Context, taskType string, duration time.Duration, status string) {
	if o == nil || o.jobDuration == nil {
		return
	}
	o.jobDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
		attribute.String("status", status),
	))
}

// RecordRecommendation records the size of one served result list.
func (o *Observability) RecordRecommendation(ctx context.Context, returned int, cached bool) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(attribute.Bool("cached", cached))
	if o.recommendations != nil {
		o.recommendations.Add(ctx, int64(returned), attrs)
	}
	if o.resultSize != nil {
		o.resultSize.Record(ctx, int64(returned), attrs)
	}
}

func (o *Observability) Shutdown() {
	if o == nil || o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	o.meterProvider.Shutdown(ctx)
}
