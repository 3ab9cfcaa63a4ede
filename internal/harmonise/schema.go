// Package harmonise maps raw tabular exports into the canonical emissions
// schema: normalised column names, upper-cased authority codes and coerced
// numeric measures.
package harmonise

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"ghgcli/internal/config"
	"ghgcli/internal/exporter"
	"ghgcli/internal/lineage"
	"ghgcli/pkg/contracts/domain"
)

// Canonical column names of the cleaned full dataset.
const (
	ColCountry              = "country"
	ColCountryCode          = "country_code"
	ColRegion               = "region"
	ColRegionCode           = "region_code"
	ColLocalAuthority       = "local_authority"
	ColLocalAuthorityCode   = "local_authority_code"
	ColCalendarYear         = "calendar_year"
	ColSector               = "la_ghg_sector"
	ColSubsector            = "la_ghg_sub_sector"
	ColGas                  = "greenhouse_gas"
	ColTerritorialEmissions = "territorial_emissions_kt_co2e"
	ColInfluenceEmissions   = "co2_emissions_within_the_scope_of_influence_of_las_kt_co2"
	ColPopulation           = "mid_year_population_thousands"
	ColArea                 = "area_km2"
)

// NumericColumns are the measure columns coerced to numbers during
// harmonisation; anything unparseable becomes an explicit null.
var NumericColumns = []string{
	ColTerritorialEmissions,
	ColInfluenceEmissions,
	ColPopulation,
	ColArea,
}

// Harmoniser cleans raw frames into the canonical schema and records each
// run in the lineage log.
type Harmoniser struct {
	logger *slog.Logger
	store  *lineage.Store
	writer *exporter.CSVWriter
	ds     config.DatasetConfig
}

// New creates a harmoniser. store and writer may be nil when lineage
// logging or CSV persistence are not wanted.
func New(logger *slog.Logger, store *lineage.Store, writer *exporter.CSVWriter, ds config.DatasetConfig) *Harmoniser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Harmoniser{logger: logger.With(slog.String("component", "harmoniser")), store: store, writer: writer, ds: ds}
}

// NormalizeColumn normalises a raw column name: lowercase, parentheses
// stripped, "/" to "_per_", spaces and hyphens to underscores.
func NormalizeColumn(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "(", "")
	name = strings.ReplaceAll(name, ")", "")
	name = strings.ReplaceAll(name, "/", "_per_")
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")
	return name
}

// NormalizeHeaders normalises every header in place-order.
func NormalizeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = NormalizeColumn(h)
	}
	return out
}

// Dataset is a cleaned frame: normalised headers, cleaned string records
// and the typed canonical rows parsed from them.
type Dataset struct {
	Headers []string
	Records [][]string
	Rows    []domain.HarmonisedRow
}

// CleanSchema normalises headers, upper-cases authority codes and coerces
// the known numeric measure columns; unparseable measures become empty
// cells. Returns the cleaned frame with typed rows.
func (h *Harmoniser) CleanSchema(ctx context.Context, headers []string, records [][]string) *Dataset {
	norm := NormalizeHeaders(headers)
	idx := columnIndex(norm)

	numeric := make(map[int]bool)
	for _, col := range NumericColumns {
		if i, ok := idx[col]; ok {
			numeric[i] = true
		}
	}
	codeIdx, hasCode := idx[ColLocalAuthorityCode]

	cleaned := make([][]string, len(records))
	for r, record := range records {
		row := make([]string, len(norm))
		for c := range norm {
			v := ""
			if c < len(record) {
				v = strings.TrimSpace(record[c])
			}
			switch {
			case hasCode && c == codeIdx:
				v = strings.ToUpper(v)
			case numeric[c]:
				if f, ok := parseFloat(v); ok {
					v = strconv.FormatFloat(f, 'f', -1, 64)
				} else {
					v = ""
				}
			}
			row[c] = v
		}
		cleaned[r] = row
	}

	ds := &Dataset{Headers: norm, Records: cleaned}
	ds.Rows = parseRows(norm, cleaned)

	h.logger.InfoContext(ctx, "schema harmonised",
		slog.Int("columns", len(norm)),
		slog.Int("rows", len(cleaned)))

	return ds
}

// logEvent appends a lineage event when a store is attached.
func (h *Harmoniser) logEvent(stage, action string, details map[string]interface{}) {
	if h.store == nil {
		return
	}
	if err := h.store.AddEvent(stage, action, details); err != nil {
		h.logger.Warn("failed to record lineage event",
			slog.String("action", action), slog.String("error", err.Error()))
	}
}

func columnIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, seen := idx[h]; !seen {
			idx[h] = i
		}
	}
	return idx
}

func parseRows(headers []string, records [][]string) []domain.HarmonisedRow {
	idx := columnIndex(headers)
	get := func(record []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	rows := make([]domain.HarmonisedRow, len(records))
	for r, record := range records {
		row := domain.HarmonisedRow{
			Country:            get(record, ColCountry),
			CountryCode:        get(record, ColCountryCode),
			Region:             get(record, ColRegion),
			RegionCode:         get(record, ColRegionCode),
			LocalAuthority:     get(record, ColLocalAuthority),
			LocalAuthorityCode: get(record, ColLocalAuthorityCode),
			Sector:             get(record, ColSector),
			Subsector:          get(record, ColSubsector),
			Gas:                get(record, ColGas),
		}
		if year, err := strconv.Atoi(strings.TrimSpace(get(record, ColCalendarYear))); err == nil {
			row.CalendarYear = year
		}
		row.TerritorialEmissions = floatPtr(get(record, ColTerritorialEmissions))
		row.InfluenceEmissions = floatPtr(get(record, ColInfluenceEmissions))
		row.Population = floatPtr(get(record, ColPopulation))
		row.AreaKm2 = floatPtr(get(record, ColArea))
		rows[r] = row
	}
	return rows
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func floatPtr(s string) *float64 {
	if f, ok := parseFloat(s); ok {
		return &f
	}
	return nil
}
