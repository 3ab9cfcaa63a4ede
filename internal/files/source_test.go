package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "ghgcli/internal/errors"
	"ghgcli/pkg/contracts/domain"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func writeTempWorkbook(t *testing.T, sheets map[string][][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestOpenUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.parquet")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	_, err := Open(path)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeUnsupportedFormat))
}

func TestCSVSourceBoundedRows(t *testing.T) {
	path := writeTempCSV(t, "a,b\n1,2\n3,4\n5,6\n")
	src, err := Open(path)
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, domain.FileTypeCSV, src.Type())
	assert.Equal(t, []string{""}, src.SheetNames())

	rows, err := src.Rows("", 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	all, err := src.Rows("", 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestCSVSourceRaggedRows(t *testing.T) {
	path := writeTempCSV(t, "a,b,c\n1\n2,3\n")
	src, err := Open(path)
	require.NoError(t, err)
	defer src.Close()

	rows, err := src.Rows("", 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Len(t, rows[1], 1)
}

func TestExcelSourceSheetsAndRows(t *testing.T) {
	path := writeTempWorkbook(t, map[string][][]interface{}{
		"Data": {
			{"Local Authority Code", "Local Authority", "2021"},
			{"E06000001", "Hartlepool", 512.4},
		},
	})

	src, err := Open(path)
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, domain.FileTypeExcel, src.Type())
	assert.Contains(t, src.SheetNames(), "Data")

	rows, err := src.Rows("Data", 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "E06000001", rows[1][0])
}

func TestReadCSVSplitsHeader(t *testing.T) {
	path := writeTempCSV(t, "code,name\nE1,One\nE2,Two\n")
	headers, records, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"code", "name"}, headers)
	assert.Len(t, records, 2)
}
