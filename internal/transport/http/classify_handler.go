package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"ghgcli/internal/classify"
	apierrors "ghgcli/internal/errors"
	"ghgcli/internal/infrastructure"
)

// ClassifyHandler labels harmonised rows by semantic granularity.
type ClassifyHandler struct {
	metrics *infrastructure.PipelineMetrics
	logger  *slog.Logger
}

// NewClassifyHandler creates a classify handler. metrics may be nil.
func NewClassifyHandler(metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *ClassifyHandler {
	return &ClassifyHandler{
		metrics: metrics,
		logger:  logger.With(slog.String("handler", "classify")),
	}
}

// Classify handles POST /api/classify.
func (h *ClassifyHandler) Classify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := &ClassifyRequest{}
	if err := render.Bind(r, req); err != nil {
		h.logger.WarnContext(ctx, "invalid classify request", slog.String("error", err.Error()))
		render.Render(w, r, apierrors.ErrInvalidRequest)
		return
	}

	counts := classify.ClassifyAll(ctx, h.logger, req.Rows)

	if h.metrics != nil {
		for _, row := range req.Rows {
			h.metrics.CountClassified(ctx, string(row.RecordType))
		}
	}

	render.JSON(w, r, ClassifyResponse{Rows: req.Rows, Counts: counts})
}
