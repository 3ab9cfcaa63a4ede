package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"ghgcli/internal/diagnose"
	apierrors "ghgcli/internal/errors"
	"ghgcli/internal/infrastructure"
	"ghgcli/internal/lineage"
	"ghgcli/internal/validation"
)

// DiagnosticsHandler replays the latest validation run from the lineage log
// and turns it into recommended actions.
type DiagnosticsHandler struct {
	store   *lineage.Store
	metrics *infrastructure.PipelineMetrics
	logger  *slog.Logger
}

// NewDiagnosticsHandler creates a diagnostics handler. metrics may be nil.
func NewDiagnosticsHandler(store *lineage.Store, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *DiagnosticsHandler {
	return &DiagnosticsHandler{
		store:   store,
		metrics: metrics,
		logger:  logger.With(slog.String("handler", "diagnostics")),
	}
}

// Diagnostics handles GET /api/diagnostics.
func (h *DiagnosticsHandler) Diagnostics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	event, err := h.store.LatestValidation()
	if err != nil {
		h.logger.WarnContext(ctx, "no validation run recorded", slog.String("error", err.Error()))
		render.Render(w, r, apierrors.ToAPIError(err))
		return
	}

	issues, err := validation.IssuesFromEvent(event)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to decode validation event", slog.String("error", err.Error()))
		render.Render(w, r, apierrors.ToAPIError(err))
		return
	}

	report, err := diagnose.BuildReport(ctx, h.logger, issues)
	if err != nil {
		render.Render(w, r, apierrors.ToAPIError(err))
		return
	}

	if h.metrics != nil {
		h.metrics.Recommendations.Add(ctx, int64(len(report.RecommendedActions)))
	}
	render.JSON(w, r, report)
}
