package inference

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ghgcli/internal/config"
	apperrors "ghgcli/internal/errors"
	"ghgcli/pkg/contracts/domain"
)

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	return NewAnalyzer(config.Default().Inference, nil)
}

func writeEmissionsCSV(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("Local Authority Code,Local Authority,Calendar Year,Territorial emissions (kt CO2e)\n")
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, "E0600%04d,Authority %d,2021,%d.5\n", i, i, 100+i)
	}
	path := filepath.Join(t.TempDir(), "emissions.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))
	return path
}

func writeSummaryWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()

	require.NoError(t, f.SetSheetName("Sheet1", "Cover"))
	require.NoError(t, f.SetSheetRow("Cover", "A1", &[]interface{}{"UK local authority emissions 2005-2021"}))

	sheets := []string{"1_Overview", "2_1"}
	for _, name := range sheets {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(name, "A1", &[]interface{}{"Table"}))
		require.NoError(t, f.SetSheetRow(name, "A5", &[]interface{}{
			"Local Authority Code", "Local Authority", "Calendar Year", "Territorial emissions (kt CO2e)",
		}))
		for i := 0; i < 8; i++ {
			cell := fmt.Sprintf("A%d", 6+i)
			require.NoError(t, f.SetSheetRow(name, cell, &[]interface{}{
				fmt.Sprintf("E0600%04d", i), fmt.Sprintf("Authority %d", i), 2021, 100.5 + float64(i),
			}))
		}
	}

	path := filepath.Join(t.TempDir(), "summary.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestLocateStructureMissingFile(t *testing.T) {
	a := newTestAnalyzer(t)
	_, err := a.LocateStructure(context.Background(), filepath.Join(t.TempDir(), "nope.xlsx"), "")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestLocateStructureUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

	a := newTestAnalyzer(t)
	_, err := a.LocateStructure(context.Background(), path, "")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeUnsupportedFormat))
}

func TestLocateStructureCSV(t *testing.T) {
	path := writeEmissionsCSV(t)
	a := newTestAnalyzer(t)

	analysis, err := a.LocateStructure(context.Background(), path, "")
	require.NoError(t, err)

	assert.Equal(t, domain.FileTypeCSV, analysis.FileType)
	assert.Equal(t, "", analysis.Structure.Sheet)
	assert.Equal(t, 0, analysis.Structure.HeaderRow)
	assert.Equal(t, "Local Authority Code", analysis.Columns.Code)
	assert.Equal(t, "Local Authority", analysis.Columns.Name)
	assert.Equal(t, []string{"Territorial emissions (kt CO2e)"}, analysis.Columns.Values)
	assert.Equal(t, 0.9, analysis.Confidence)
	assert.Empty(t, analysis.Issues)
}

func TestLocateStructureExcel(t *testing.T) {
	path := writeSummaryWorkbook(t)
	a := newTestAnalyzer(t)

	analysis, err := a.LocateStructure(context.Background(), path, "la_territorial_summary")
	require.NoError(t, err)

	assert.Equal(t, domain.FileTypeExcel, analysis.FileType)
	assert.Equal(t, "2_1", analysis.Structure.Sheet)
	assert.Equal(t, 4, analysis.Structure.HeaderRow)
	assert.Equal(t, "Local Authority Code", analysis.Columns.Code)
	assert.Equal(t, "Local Authority", analysis.Columns.Name)
	assert.Equal(t, 0.9, analysis.Confidence)
	assert.Contains(t, analysis.Notes[0], "Selected sheet '2_1'")
	assert.Contains(t, analysis.Notes, "Hint provided: la_territorial_summary")
}

func TestLocateStructureIdempotent(t *testing.T) {
	path := writeSummaryWorkbook(t)
	a := newTestAnalyzer(t)

	first, err := a.LocateStructure(context.Background(), path, "la")
	require.NoError(t, err)
	second, err := a.LocateStructure(context.Background(), path, "la")
	require.NoError(t, err)

	assert.Equal(t, first.Structure, second.Structure)
	assert.Equal(t, first.Columns, second.Columns)
	assert.Equal(t, first.Confidence, second.Confidence)
}

func TestLocateStructureLowConfidenceWithoutValueColumns(t *testing.T) {
	content := "Area,Contact\nHartlepool,x\nStockton,y\n"
	path := filepath.Join(t.TempDir(), "contacts.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	a := newTestAnalyzer(t)
	analysis, err := a.LocateStructure(context.Background(), path, "")
	require.NoError(t, err)

	assert.Equal(t, 0.5, analysis.Confidence)
	assert.Contains(t, analysis.Issues, "Could not detect a Local Authority code column.")
	assert.Contains(t, analysis.Issues, "Could not detect a Local Authority name column.")
}
