package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	ServiceName    = "la-ghg-pipeline"
	ServiceVersion = "0.1.0"
	MeterName      = "ghgcli"
)

// OTelProviders holds the OpenTelemetry metric provider and the Prometheus
// scrape handler backed by it.
type OTelProviders struct {
	MeterProvider  *sdkmetric.MeterProvider
	Meter          metric.Meter
	PrometheusHTTP http.Handler
	Metrics        *PipelineMetrics
}

// PipelineMetrics are the engine-level counters exported on /metrics.
type PipelineMetrics struct {
	FilesAnalysed    metric.Int64Counter
	RowsClassified   metric.Int64Counter
	ValidationIssues metric.Int64Counter
	Recommendations  metric.Int64Counter
}

// InitializeOTel wires the OTel meter provider to a Prometheus registry and
// registers the pipeline counters.
func InitializeOTel(logger *slog.Logger) (*OTelProviders, error) {
	if logger == nil {
		logger = slog.Default()
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(ServiceVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(MeterName)
	metrics, err := newPipelineMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	logger.Info("OpenTelemetry metrics initialized",
		slog.String("service", ServiceName),
		slog.String("version", ServiceVersion))

	return &OTelProviders{
		MeterProvider:  provider,
		Meter:          meter,
		PrometheusHTTP: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Metrics:        metrics,
	}, nil
}

func newPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	m := &PipelineMetrics{}
	var err error

	if m.FilesAnalysed, err = meter.Int64Counter("ghg_files_analysed_total",
		metric.WithDescription("Raw source files passed through structural inference")); err != nil {
		return nil, err
	}
	if m.RowsClassified, err = meter.Int64Counter("ghg_rows_classified_total",
		metric.WithDescription("Harmonised rows assigned a record type")); err != nil {
		return nil, err
	}
	if m.ValidationIssues, err = meter.Int64Counter("ghg_validation_issues_total",
		metric.WithDescription("Issues detected by the validation stage")); err != nil {
		return nil, err
	}
	if m.Recommendations, err = meter.Int64Counter("ghg_recommendations_total",
		metric.WithDescription("Diagnostic recommendations emitted")); err != nil {
		return nil, err
	}
	return m, nil
}

// CountClassified records one classified row under its label.
func (m *PipelineMetrics) CountClassified(ctx context.Context, label string) {
	if m == nil {
		return
	}
	m.RowsClassified.Add(ctx, 1, metric.WithAttributes(attribute.String("record_type", label)))
}

// Shutdown flushes and stops the meter provider.
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	if p == nil || p.MeterProvider == nil {
		return nil
	}
	return p.MeterProvider.Shutdown(ctx)
}
