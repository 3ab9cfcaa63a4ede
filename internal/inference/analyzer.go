package inference

import (
	"context"
	"fmt"
	"log/slog"

	"ghgcli/internal/config"
	"ghgcli/internal/files"
	"ghgcli/pkg/contracts/domain"
)

// Analyzer runs structural inference over raw sources: sheet and header
// location followed by column role detection. It never raises on malformed
// content; ambiguity is reported as issues and a reduced confidence. Only
// outer I/O failures (missing path, unsupported extension, unreadable
// workbook) surface as errors.
type Analyzer struct {
	cfg    config.InferenceConfig
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer with the given inference bounds.
func NewAnalyzer(cfg config.InferenceConfig, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{cfg: cfg, logger: logger.With(slog.String("component", "analyzer"))}
}

// LocateStructure analyses one raw file and returns routing hints for the
// harmonisation stage. hint is optional free text; a hint mentioning "la"
// biases sheet selection toward authority-level detail tables.
func (a *Analyzer) LocateStructure(ctx context.Context, path, hint string) (*domain.FileAnalysis, error) {
	src, err := files.Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	var analysis *domain.FileAnalysis
	switch src.Type() {
	case domain.FileTypeExcel:
		analysis, err = a.analyseExcel(ctx, src, path, hint)
	default:
		analysis, err = a.analyseCSV(src, path)
	}
	if err != nil {
		return nil, err
	}

	if hint != "" {
		analysis.Notes = append(analysis.Notes, fmt.Sprintf("Hint provided: %s", hint))
	}

	a.logger.InfoContext(ctx, "structural inference complete",
		slog.String("file", path),
		slog.String("file_type", string(analysis.FileType)),
		slog.String("sheet", analysis.Structure.Sheet),
		slog.Int("header_row", analysis.Structure.HeaderRow),
		slog.Float64("confidence", analysis.Confidence),
		slog.Int("issues", len(analysis.Issues)))

	return analysis, nil
}

func (a *Analyzer) analyseExcel(ctx context.Context, src files.Source, path, hint string) (*domain.FileAnalysis, error) {
	names := src.SheetNames()
	candidates := make([]Candidate, 0, len(names))
	for _, name := range names {
		rows, err := src.Rows(name, a.cfg.SheetPrefixRows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, Candidate{Name: name, Rows: rows})
	}

	guess, notes, issues := SelectBestSheet(ctx, candidates, hint, a.cfg.SheetHeaderScan)

	rows, err := src.Rows(guess.Sheet, 0)
	if err != nil {
		return nil, err
	}
	headers, records := splitAtHeader(rows, guess.HeaderRow)

	roles := DetectColumnRoles(headers, records, a.roleOptions())
	issues = append(issues, roleIssues(roles)...)

	return &domain.FileAnalysis{
		FilePath:   path,
		FileType:   domain.FileTypeExcel,
		Structure:  guess,
		Columns:    roles,
		Confidence: DeriveConfidence(roles),
		Issues:     issues,
		Notes:      notes,
	}, nil
}

func (a *Analyzer) analyseCSV(src files.Source, path string) (*domain.FileAnalysis, error) {
	rows, err := src.Rows("", a.cfg.CSVSampleRows)
	if err != nil {
		return nil, err
	}
	headers, records := splitAtHeader(rows, 0)

	roles := DetectColumnRoles(headers, records, a.roleOptions())

	return &domain.FileAnalysis{
		FilePath:   path,
		FileType:   domain.FileTypeCSV,
		Structure:  domain.StructuralGuess{HeaderRow: 0},
		Columns:    roles,
		Confidence: DeriveConfidence(roles),
		Issues:     roleIssues(roles),
	}, nil
}

func (a *Analyzer) roleOptions() RoleOptions {
	opts := RoleOptions{SampleSize: a.cfg.CodeSampleSize, MatchThreshold: a.cfg.CodeMatchThreshold}
	if opts.SampleSize <= 0 {
		opts = DefaultRoleOptions()
	}
	return opts
}

func splitAtHeader(rows [][]string, headerRow int) (headers []string, records [][]string) {
	if headerRow >= len(rows) {
		return nil, nil
	}
	return rows[headerRow], rows[headerRow+1:]
}

func roleIssues(roles domain.ColumnRoleMap) []string {
	var issues []string
	if !roles.HasCode() {
		issues = append(issues, "Could not detect a Local Authority code column.")
	}
	if !roles.HasName() {
		issues = append(issues, "Could not detect a Local Authority name column.")
	}
	return issues
}
