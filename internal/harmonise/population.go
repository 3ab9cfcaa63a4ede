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

// Expected columns of the ONS mid-year population estimates table.
const (
	populationCodeCol  = "Code"
	populationNameCol  = "Name"
	populationValueCol = "All ages"
)

// Defaults for the ONS mid-year estimates workbook when no structural
// analysis is supplied: the persons table with its header on row 8.
const (
	DefaultPopulationSheet     = "MYE2 - Persons"
	DefaultPopulationHeaderRow = 7
)

// HarmonisePopulation cleans the ONS mid-year population estimates into the
// canonical schema. Blank-code and summary rows are dropped. The year is
// fixed by configuration since the workbook carries it only in prose.
func (h *Harmoniser) HarmonisePopulation(ctx context.Context, path, sheet string, headerRow int) ([]domain.PopulationRecord, error) {
	if sheet == "" {
		sheet = DefaultPopulationSheet
	}
	if headerRow <= 0 {
		headerRow = DefaultPopulationHeaderRow
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
		return nil, apperrors.NewSchemaMismatchError([]string{populationCodeCol, populationNameCol, populationValueCol})
	}

	idx := make(map[string]int)
	for i, name := range rows[headerRow] {
		idx[strings.TrimSpace(name)] = i
	}
	var missing []string
	for _, col := range []string{populationCodeCol, populationNameCol, populationValueCol} {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		h.logEvent("harmonisation_population", "clean_population", map[string]interface{}{
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

	var records []domain.PopulationRecord
	for _, row := range rows[headerRow+1:] {
		code := strings.ToUpper(cell(row, populationCodeCol))
		pop, ok := parseFloat(cell(row, populationValueCol))
		if code == "" || !ok {
			continue
		}
		records = append(records, domain.PopulationRecord{
			Code:         code,
			Name:         cell(row, populationNameCol),
			CalendarYear: h.ds.PopulationYear,
			Population:   pop,
		})
	}

	h.logEvent("harmonisation_population", "clean_population", map[string]interface{}{
		"input": path,
		"sheet": sheet,
		"rows":  len(records),
	})

	h.logger.InfoContext(ctx, "population workbook harmonised",
		slog.String("input", path),
		slog.String("sheet", sheet),
		slog.Int("rows", len(records)))

	return records, nil
}

// WritePopulation persists harmonised population records as CSV.
func (h *Harmoniser) WritePopulation(outputName string, records []domain.PopulationRecord) error {
	if h.writer == nil {
		return nil
	}
	out := make([][]string, len(records))
	for i, r := range records {
		out[i] = []string{
			r.Code,
			r.Name,
			strconv.FormatFloat(r.Population, 'f', -1, 64),
			strconv.Itoa(r.CalendarYear),
		}
	}
	return h.writer.WriteSimpleCSV(outputName,
		[]string{ColLocalAuthorityCode, ColLocalAuthority, "population", ColCalendarYear},
		out)
}
