package harmonise

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ghgcli/internal/config"
	apperrors "ghgcli/internal/errors"
	"ghgcli/pkg/contracts/domain"
)

func newTestHarmoniser(t *testing.T) *Harmoniser {
	t.Helper()
	return New(nil, nil, nil, config.Default().Dataset)
}

func TestNormalizeColumn(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Local Authority Code", "local_authority_code"},
		{"Territorial emissions (kt CO2e)", "territorial_emissions_kt_co2e"},
		{"Mid-year Population (thousands)", "mid_year_population_thousands"},
		{"Emissions / capita", "emissions_per_capita"},
		{"Area (km2)", "area_km2"},
		{"  Region  ", "region"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeColumn(tt.in), tt.in)
	}
}

func TestCleanSchema(t *testing.T) {
	h := newTestHarmoniser(t)

	headers := []string{"Country", "Region", "Local Authority", "Local Authority Code",
		"Calendar Year", "LA GHG Sector", "Territorial emissions (kt CO2e)", "Area (km2)"}
	records := [][]string{
		{"England", "North East", "Hartlepool", "e06000001", "2021", "Transport", "512.4", "93.6"},
		{"England", "North East", "Hartlepool", "E06000001", "2021", "Transport", "not a number", ""},
	}

	ds := h.CleanSchema(context.Background(), headers, records)

	assert.Equal(t, "local_authority_code", ds.Headers[3])
	assert.Equal(t, "E06000001", ds.Records[0][3], "codes are upper-cased")
	assert.Equal(t, "512.4", ds.Records[0][6])
	assert.Equal(t, "", ds.Records[1][6], "unparseable measures become explicit nulls")

	require.Len(t, ds.Rows, 2)
	row := ds.Rows[0]
	assert.Equal(t, "England", row.Country)
	assert.Equal(t, "E06000001", row.LocalAuthorityCode)
	assert.Equal(t, 2021, row.CalendarYear)
	assert.Equal(t, "Transport", row.Sector)
	require.NotNil(t, row.TerritorialEmissions)
	assert.InDelta(t, 512.4, *row.TerritorialEmissions, 1e-9)
	require.NotNil(t, row.AreaKm2)
	assert.Nil(t, ds.Rows[1].TerritorialEmissions)
}

func TestCleanSchemaShortRows(t *testing.T) {
	h := newTestHarmoniser(t)
	ds := h.CleanSchema(context.Background(), []string{"Country", "Region"}, [][]string{{"England"}})
	assert.Equal(t, []string{"England", ""}, ds.Records[0])
}

func TestRecordsWithTypes(t *testing.T) {
	h := newTestHarmoniser(t)
	ds := h.CleanSchema(context.Background(),
		[]string{"Local Authority Code"}, [][]string{{"E06000001"}})
	ds.Rows[0].RecordType = domain.RecordLocalAuthority

	headers, records := ds.RecordsWithTypes()
	assert.Equal(t, []string{"local_authority_code", "record_type"}, headers)
	assert.Equal(t, []string{"E06000001", "local_authority"}, records[0])
}

func writeSummaryWorkbook(t *testing.T, includeTotal bool) string {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "2_1"))

	headers := []interface{}{"Local Authority Code", "Local Authority", "Calendar Year"}
	if includeTotal {
		headers = append(headers, "Grand Total")
	}
	require.NoError(t, f.SetSheetRow("2_1", "A3", &headers))

	data := [][]interface{}{
		{"E06000001", "Hartlepool", 2021, 512.4},
		{"E06000001", "Hartlepool", 2020, 498.0},
		{"E06000002", "Middlesbrough", 2021, "x"},
		{"E06000003", "Redcar and Cleveland", 2021, 640.1},
	}
	for i, row := range data {
		require.NoError(t, f.SetSheetRow("2_1", fmt.Sprintf("A%d", 4+i), &row))
	}

	path := filepath.Join(t.TempDir(), "summary.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestHarmoniseSummary(t *testing.T) {
	path := writeSummaryWorkbook(t, true)
	h := newTestHarmoniser(t)

	analysis := &domain.FileAnalysis{Structure: domain.StructuralGuess{Sheet: "2_1", HeaderRow: 2}}
	totals, err := h.HarmoniseSummary(context.Background(), path, analysis)
	require.NoError(t, err)

	// 2020 row filtered by year, unparseable total dropped.
	require.Len(t, totals, 2)
	assert.Equal(t, "E06000001", totals[0].Code)
	assert.Equal(t, 2021, totals[0].CalendarYear)
	assert.InDelta(t, 512.4, totals[0].KtCO2e, 1e-9)
	assert.Equal(t, "E06000003", totals[1].Code)
}

func TestHarmoniseSummarySchemaMismatch(t *testing.T) {
	path := writeSummaryWorkbook(t, false)
	h := newTestHarmoniser(t)

	analysis := &domain.FileAnalysis{Structure: domain.StructuralGuess{Sheet: "2_1", HeaderRow: 2}}
	_, err := h.HarmoniseSummary(context.Background(), path, analysis)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSchemaMismatch))
}

func TestHarmonisePopulation(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", DefaultPopulationSheet))
	require.NoError(t, f.SetSheetRow(DefaultPopulationSheet, "A8",
		&[]interface{}{"Code", "Name", "Geography", "All ages"}))
	require.NoError(t, f.SetSheetRow(DefaultPopulationSheet, "A9",
		&[]interface{}{"E06000001", "Hartlepool", "Unitary Authority", 92300}))
	require.NoError(t, f.SetSheetRow(DefaultPopulationSheet, "A10",
		&[]interface{}{"", "England total", "", 56500000}))
	require.NoError(t, f.SetSheetRow(DefaultPopulationSheet, "A11",
		&[]interface{}{"w06000002", "Gwynedd", "Unitary Authority", 117400}))

	path := filepath.Join(t.TempDir(), "population.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	h := newTestHarmoniser(t)
	records, err := h.HarmonisePopulation(context.Background(), path, "", 0)
	require.NoError(t, err)

	require.Len(t, records, 2, "blank-code summary rows are dropped")
	assert.Equal(t, "E06000001", records[0].Code)
	assert.Equal(t, 2022, records[0].CalendarYear)
	assert.InDelta(t, 92300, records[0].Population, 1e-9)
	assert.Equal(t, "W06000002", records[1].Code, "codes are upper-cased")
}

func TestHarmoniseSummaryMissingFile(t *testing.T) {
	h := newTestHarmoniser(t)
	_, err := h.HarmoniseSummary(context.Background(), filepath.Join(t.TempDir(), "gone.xlsx"), nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestCleanDatasetFile(t *testing.T) {
	csv := "Local Authority Code,Local Authority,Calendar Year,Territorial emissions (kt CO2e)\n" +
		"e06000001,Hartlepool,2021,512.4\n"
	path := filepath.Join(t.TempDir(), "raw.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0644))

	h := newTestHarmoniser(t)
	ds, err := h.CleanDatasetFile(context.Background(), path, "")
	require.NoError(t, err)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, "E06000001", ds.Rows[0].LocalAuthorityCode)
}
