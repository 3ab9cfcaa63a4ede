package validation

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghgcli/internal/config"
	apperrors "ghgcli/internal/errors"
	"ghgcli/internal/harmonise"
	"ghgcli/internal/lineage"
	"ghgcli/pkg/contracts/domain"
)

func newTestValidator(t *testing.T, store *lineage.Store) *Validator {
	t.Helper()
	return New(nil, store, config.Default().Dataset)
}

func cleanFrame(t *testing.T, headers []string, records [][]string) *harmonise.Dataset {
	t.Helper()
	h := harmonise.New(nil, nil, nil, config.Default().Dataset)
	return h.CleanSchema(context.Background(), headers, records)
}

var fullHeaders = []string{
	"Country", "Country Code", "Region", "Region Code", "Local Authority",
	"Local Authority Code", "Calendar Year", "LA GHG Sector", "LA GHG Sub-sector",
	"Greenhouse gas", "Territorial emissions (kt CO2e)", "Area (km2)",
}

func fullRecord(code, year, emissions, area string) []string {
	return []string{"England", "E92000001", "North East", "E12000001", "Hartlepool",
		code, year, "Transport", "Road", "CO2", emissions, area}
}

func TestValidateDatasetCleanData(t *testing.T) {
	ds := cleanFrame(t, fullHeaders, [][]string{
		fullRecord("E06000001", "2021", "512.4", "93.6"),
		fullRecord("E06000002", "2019", "640.1", "53.9"),
	})

	v := newTestValidator(t, nil)
	issues := v.ValidateDataset(context.Background(), ds)

	assert.Equal(t, 2, issues.RowCount)
	assert.Empty(t, issues.MissingColumns)
	assert.Equal(t, 0, issues.InvalidLACodes)
	assert.Equal(t, 0, issues.OutOfRangeYears)
	assert.Equal(t, 0, issues.TotalMissing())
	assert.Equal(t, 0, issues.NumericNullCounts[harmonise.ColTerritorialEmissions])
}

func TestValidateDatasetFindsIssues(t *testing.T) {
	ds := cleanFrame(t, fullHeaders, [][]string{
		fullRecord("E06000001", "2021", "512.4", "93.6"),
		fullRecord("bad-code", "2001", "n/a", ""),
		fullRecord("", "2030", "7.5", "12"),
	})

	v := newTestValidator(t, nil)
	issues := v.ValidateDataset(context.Background(), ds)

	assert.Equal(t, 2, issues.InvalidLACodes)
	assert.Equal(t, 2, issues.OutOfRangeYears)
	// "n/a" and "" were coerced to empty during harmonisation.
	assert.Equal(t, 1, issues.NumericNullCounts[harmonise.ColTerritorialEmissions])
	assert.Equal(t, 1, issues.NumericNullCounts[harmonise.ColArea])
	assert.Greater(t, issues.TotalMissing(), 0)
}

func TestValidateDatasetMissingRequiredColumns(t *testing.T) {
	ds := cleanFrame(t, []string{"Local Authority Code", "Calendar Year"}, [][]string{
		{"E06000001", "2021"},
	})

	v := newTestValidator(t, nil)
	issues := v.ValidateDataset(context.Background(), ds)

	assert.Contains(t, issues.MissingColumns, harmonise.ColCountry)
	assert.Contains(t, issues.MissingColumns, harmonise.ColTerritorialEmissions)
	assert.NotContains(t, issues.MissingColumns, harmonise.ColLocalAuthorityCode)
}

func TestValidateDatasetRecordsLineageEvent(t *testing.T) {
	store, err := lineage.Open(filepath.Join(t.TempDir(), "metadata.json"))
	require.NoError(t, err)

	ds := cleanFrame(t, fullHeaders, [][]string{fullRecord("E06000001", "2021", "1", "2")})
	v := newTestValidator(t, store)
	v.ValidateDataset(context.Background(), ds)

	ev, err := store.LatestValidation()
	require.NoError(t, err)
	assert.Equal(t, "validate_dataset", ev.Action)

	issues, err := IssuesFromEvent(ev)
	require.NoError(t, err)
	assert.Equal(t, 1, issues.RowCount)
}

func TestIssuesFromEventRoundTripsThroughDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.json")
	store, err := lineage.Open(path)
	require.NoError(t, err)

	ds := cleanFrame(t, fullHeaders, [][]string{fullRecord("nope", "1999", "", "")})
	newTestValidator(t, store).ValidateDataset(context.Background(), ds)

	reopened, err := lineage.Open(path)
	require.NoError(t, err)
	ev, err := reopened.LatestValidation()
	require.NoError(t, err)

	issues, err := IssuesFromEvent(ev)
	require.NoError(t, err)
	assert.Equal(t, 1, issues.InvalidLACodes)
	assert.Equal(t, 1, issues.OutOfRangeYears)
}

func TestIssuesFromEventMissingPayload(t *testing.T) {
	_, err := IssuesFromEvent(nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingInput))

	_, err = IssuesFromEvent(&lineage.Event{Details: map[string]interface{}{}})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingInput))
}

func TestValidateSummary(t *testing.T) {
	v := newTestValidator(t, nil)
	issues := v.ValidateSummary(context.Background(), []domain.EmissionsTotal{
		{Code: "E06000001", Name: "Hartlepool", KtCO2e: 512.4},
		{Code: "E06000001", Name: "Hartlepool", KtCO2e: 511.0},
		{Code: "", Name: "", KtCO2e: -3},
	})

	assert.Equal(t, 3, issues.RowCount)
	assert.Equal(t, 1, issues.MissingCodes)
	assert.Equal(t, 1, issues.MissingNames)
	assert.Equal(t, 1, issues.NegativeEmissions)
	assert.Equal(t, 1, issues.DuplicateCodes)
}

func TestValidatePopulation(t *testing.T) {
	v := newTestValidator(t, nil)
	issues := v.ValidatePopulation(context.Background(), []domain.PopulationRecord{
		{Code: "E06000001", Population: 92300, CalendarYear: 2022},
		{Code: "S12000033", Population: 230000, CalendarYear: 2022}, // Scotland: outside E/W
		{Code: "E0600", Population: -1, CalendarYear: 2021},
	})

	assert.Equal(t, 3, issues.RowCount)
	assert.Equal(t, 2, issues.InvalidLACodes)
	assert.Equal(t, 1, issues.InvalidPopulation)
	assert.True(t, issues.YearMismatch)
}
