package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"ghgcli/internal/config"
	"ghgcli/internal/inference"
	"ghgcli/internal/infrastructure"
	"ghgcli/internal/lineage"
	"ghgcli/internal/middleware"
)

// RouterDeps are the collaborators the API surface needs.
type RouterDeps struct {
	Config    *config.Config
	Logger    *slog.Logger
	Providers *infrastructure.OTelProviders
	Analyzer  *inference.Analyzer
	Lineage   *lineage.Store
}

// NewRouter assembles the chi router with the full middleware chain and all
// API routes.
func NewRouter(deps RouterDeps) (chi.Router, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))

	if deps.Providers != nil {
		metrics, err := middleware.NewRequestMetrics(deps.Providers)
		if err != nil {
			return nil, err
		}
		r.Use(metrics.Handler)
	}

	if deps.Config != nil && deps.Config.RateLimit.Enabled {
		rl := middleware.NewRateLimiter(deps.Config.RateLimit.RPS, deps.Config.RateLimit.Burst, logger)
		r.Use(rl.Handler)
	}

	var pipelineMetrics *infrastructure.PipelineMetrics
	if deps.Providers != nil {
		pipelineMetrics = deps.Providers.Metrics
	}

	health := NewHealthHandler()
	analysis := NewAnalysisHandler(deps.Analyzer, pipelineMetrics, logger)
	classifyH := NewClassifyHandler(pipelineMetrics, logger)
	diagnostics := NewDiagnosticsHandler(deps.Lineage, pipelineMetrics, logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/health", health.HealthCheck)
		r.Get("/version", health.Version)
		r.Post("/analyze", analysis.Analyze)
		r.Post("/classify", classifyH.Classify)
		r.Get("/diagnostics", diagnostics.Diagnostics)
	})

	if deps.Providers != nil && deps.Providers.PrometheusHTTP != nil {
		r.Method(http.MethodGet, "/metrics", deps.Providers.PrometheusHTTP)
	}

	return r, nil
}
