// Package indicators derives analytical indicators from harmonised
// emissions and population datasets.
package indicators

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"ghgcli/internal/errors"
	"ghgcli/internal/exporter"
	"ghgcli/internal/lineage"
	"ghgcli/pkg/contracts/domain"
)

// PerCapitaHeaders are the columns of the per-capita indicator CSV.
var PerCapitaHeaders = []string{
	"local_authority_code",
	"local_authority",
	"population",
	"emissions_kt_co2e",
	"per_capita_tonnes",
}

// Calculator joins authority emissions totals with population estimates to
// produce per-capita emissions.
type Calculator struct {
	logger *slog.Logger
	store  *lineage.Store
	writer *exporter.CSVWriter
}

// New creates a calculator. store and writer may be nil when lineage
// logging or CSV persistence are not wanted.
func New(logger *slog.Logger, store *lineage.Store, writer *exporter.CSVWriter) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{logger: logger.With(slog.String("component", "indicators")), store: store, writer: writer}
}

// PerCapita inner-joins emissions totals with population records on their
// trimmed authority codes and computes tonnes of CO2e per person. Totals
// without a matching population record are dropped, which naturally
// restricts the result to the geographies the population file covers. The
// authority name comes from the emissions side; totals joined against a
// non-positive population are skipped.
func (c *Calculator) PerCapita(ctx context.Context, totals []domain.EmissionsTotal, population []domain.PopulationRecord) ([]domain.PerCapitaRecord, error) {
	if len(totals) == 0 {
		return nil, errors.NewMissingInputError("no emissions totals to join")
	}
	if len(population) == 0 {
		return nil, errors.NewMissingInputError("no population records to join")
	}

	popByCode := make(map[string]domain.PopulationRecord, len(population))
	for _, p := range population {
		code := strings.TrimSpace(p.Code)
		if code == "" {
			continue
		}
		if _, seen := popByCode[code]; !seen {
			popByCode[code] = p
		}
	}

	out := make([]domain.PerCapitaRecord, 0, len(totals))
	skipped := 0
	for _, t := range totals {
		code := strings.TrimSpace(t.Code)
		pop, ok := popByCode[code]
		if !ok {
			continue
		}
		if pop.Population <= 0 {
			skipped++
			continue
		}
		out = append(out, domain.PerCapitaRecord{
			Code:            code,
			Name:            t.Name,
			Population:      pop.Population,
			KtCO2e:          t.KtCO2e,
			PerCapitaTonnes: t.KtCO2e * 1000.0 / pop.Population,
		})
	}

	c.logger.InfoContext(ctx, "per-capita indicator computed",
		slog.Int("totals", len(totals)),
		slog.Int("population_records", len(population)),
		slog.Int("joined", len(out)),
		slog.Int("skipped_zero_population", skipped))

	return out, nil
}

// WritePerCapita persists per-capita records to a CSV under the writer's
// base directory and records the run in the lineage log.
func (c *Calculator) WritePerCapita(ctx context.Context, fileName string, records []domain.PerCapitaRecord) error {
	if c.writer == nil {
		return errors.NewStorageError("no CSV writer configured", nil)
	}

	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{
			r.Code,
			r.Name,
			strconv.FormatFloat(r.Population, 'f', -1, 64),
			strconv.FormatFloat(r.KtCO2e, 'f', -1, 64),
			strconv.FormatFloat(r.PerCapitaTonnes, 'f', -1, 64),
		}
	}
	if err := c.writer.WriteSimpleCSV(fileName, PerCapitaHeaders, rows); err != nil {
		return err
	}

	if c.store != nil {
		if err := c.store.AddEvent("indicators", "compute_per_capita", map[string]interface{}{
			"output":  fileName,
			"rows":    len(rows),
			"columns": len(PerCapitaHeaders),
		}); err != nil {
			c.logger.Warn("failed to record lineage event", slog.String("error", err.Error()))
		}
	}
	return nil
}
