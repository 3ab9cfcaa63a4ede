package http

import (
	"context"
	"testing"

	"ghgcli/internal/config"
	"ghgcli/internal/harmonise"
)

// cleanDatasetFixture builds a small harmonised frame with one out-of-range
// year, matching what the pipeline hands to the validator.
func cleanDatasetFixture(t *testing.T) *harmonise.Dataset {
	t.Helper()

	headers := []string{
		"Country", "Country Code", "Region", "Region Code", "Local Authority",
		"Local Authority Code", "Calendar Year", "LA GHG Sector", "LA GHG Sub-sector",
		"Greenhouse gas", "Territorial emissions (kt CO2e)",
	}
	records := [][]string{
		{"England", "E92000001", "North East", "E12000001", "Hartlepool",
			"E06000001", "2021", "Transport", "Road", "CO2", "512.4"},
		{"England", "E92000001", "North East", "E12000001", "Middlesbrough",
			"E06000002", "1999", "Transport", "Road", "CO2", "640.1"},
	}

	h := harmonise.New(nil, nil, nil, config.Default().Dataset)
	return h.CleanSchema(context.Background(), headers, records)
}
