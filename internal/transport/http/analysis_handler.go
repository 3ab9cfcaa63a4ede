package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	apierrors "ghgcli/internal/errors"
	"ghgcli/internal/inference"
	"ghgcli/internal/infrastructure"
)

// AnalysisHandler exposes structural inference over local files.
type AnalysisHandler struct {
	analyzer *inference.Analyzer
	metrics  *infrastructure.PipelineMetrics
	logger   *slog.Logger
}

// NewAnalysisHandler creates an analysis handler. metrics may be nil.
func NewAnalysisHandler(analyzer *inference.Analyzer, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer: analyzer,
		metrics:  metrics,
		logger:   logger.With(slog.String("handler", "analysis")),
	}
}

// Analyze handles POST /api/analyze.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := &AnalyzeRequest{}
	if err := render.Bind(r, req); err != nil {
		h.logger.WarnContext(ctx, "invalid analyze request", slog.String("error", err.Error()))
		render.Render(w, r, apierrors.ErrInvalidRequest)
		return
	}

	analysis, err := h.analyzer.LocateStructure(ctx, req.FilePath, req.SheetHint)
	if err != nil {
		h.logger.ErrorContext(ctx, "structural analysis failed",
			slog.String("file_path", req.FilePath),
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.ToAPIError(err))
		return
	}

	if h.metrics != nil {
		h.metrics.FilesAnalysed.Add(ctx, 1)
	}
	render.JSON(w, r, analysis)
}
