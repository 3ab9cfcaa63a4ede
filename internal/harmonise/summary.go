package harmonise

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	apperrors "ghgcli/internal/errors"
	"ghgcli/internal/files"
	"ghgcli/pkg/contracts/domain"
)

// Expected columns of the DESNZ summary workbook's authority-level table.
const (
	summaryCodeCol  = "Local Authority Code"
	summaryNameCol  = "Local Authority"
	summaryYearCol  = "Calendar Year"
	summaryTotalCol = "Grand Total"
)

// HarmoniseSummary cleans the authority-level territorial totals out of the
// DESNZ summary workbook, using the sheet and header row the structural
// analysis selected. Rows outside the configured summary year or without a
// parseable total are dropped. Returns SchemaMismatch when the expected
// columns are absent after role detection.
func (h *Harmoniser) HarmoniseSummary(ctx context.Context, path string, analysis *domain.FileAnalysis) ([]domain.EmissionsTotal, error) {
	sheet := ""
	headerRow := 0
	if analysis != nil {
		sheet = analysis.Structure.Sheet
		headerRow = analysis.Structure.HeaderRow
	}

	src, err := files.Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	rows, err := src.Rows(sheet, 0)
	if err != nil {
		return nil, err
	}
	if headerRow >= len(rows) {
		return nil, apperrors.NewSchemaMismatchError([]string{summaryCodeCol, summaryNameCol, summaryYearCol, summaryTotalCol})
	}

	headers := rows[headerRow]
	idx := make(map[string]int)
	for i, hname := range headers {
		idx[strings.TrimSpace(hname)] = i
	}

	var missing []string
	for _, col := range []string{summaryCodeCol, summaryNameCol, summaryYearCol, summaryTotalCol} {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		h.logEvent("harmonisation", "clean_emissions_summary", map[string]interface{}{
			"input": path, "status": "failed", "missing_columns": missing,
		})
		return nil, apperrors.NewSchemaMismatchError(missing)
	}

	cell := func(row []string, col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var totals []domain.EmissionsTotal
	for _, row := range rows[headerRow+1:] {
		year, err := strconv.Atoi(cell(row, summaryYearCol))
		if err != nil || year != h.ds.SummaryYear {
			continue
		}
		total, ok := parseFloat(cell(row, summaryTotalCol))
		if !ok {
			continue
		}
		totals = append(totals, domain.EmissionsTotal{
			Code:         strings.ToUpper(cell(row, summaryCodeCol)),
			Name:         cell(row, summaryNameCol),
			CalendarYear: year,
			KtCO2e:       total,
		})
	}

	h.logEvent("harmonisation", "clean_emissions_summary", map[string]interface{}{
		"input":      path,
		"sheet":      sheet,
		"header_row": headerRow,
		"rows":       len(totals),
	})

	h.logger.InfoContext(ctx, "summary workbook harmonised",
		slog.String("input", path),
		slog.String("sheet", sheet),
		slog.Int("header_row", headerRow),
		slog.Int("year", h.ds.SummaryYear),
		slog.Int("rows", len(totals)))

	return totals, nil
}

// WriteSummary persists harmonised totals as a canonical four-column CSV.
func (h *Harmoniser) WriteSummary(outputName string, totals []domain.EmissionsTotal) error {
	if h.writer == nil {
		return nil
	}
	records := make([][]string, len(totals))
	for i, t := range totals {
		records[i] = []string{
			t.Code,
			t.Name,
			strconv.FormatFloat(t.KtCO2e, 'f', -1, 64),
			strconv.Itoa(t.CalendarYear),
		}
	}
	return h.writer.WriteSimpleCSV(outputName,
		[]string{ColLocalAuthorityCode, ColLocalAuthority, "emissions_kt_co2e", ColCalendarYear},
		records)
}
