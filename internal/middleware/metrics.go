package middleware

import (
	"fmt"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"ghgcli/internal/infrastructure"
)

// RequestMetrics records per-request counters and latency through the OTel
// meter so they surface on /metrics alongside the pipeline counters.
type RequestMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

// NewRequestMetrics registers the HTTP instruments on the shared meter.
func NewRequestMetrics(providers *infrastructure.OTelProviders) (*RequestMetrics, error) {
	requests, err := providers.Meter.Int64Counter("http_requests_total",
		metric.WithDescription("Total HTTP requests"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create request counter: %w", err)
	}

	duration, err := providers.Meter.Float64Histogram("http_request_duration_seconds",
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &RequestMetrics{requests: requests, duration: duration}, nil
}

// Handler instruments each request with method, path and status attributes.
func (m *RequestMetrics) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		attrs := metric.WithAttributes(
			attribute.String("method", r.Method),
			attribute.String("path", r.URL.Path),
			attribute.Int("status", ww.Status()),
		)
		m.requests.Add(r.Context(), 1, attrs)
		m.duration.Record(r.Context(), time.Since(start).Seconds(), attrs)
	})
}
