// Package files reads raw tabular sources (xlsx workbooks and CSV exports)
// as bounded row windows for the inference and harmonisation stages.
package files

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "ghgcli/internal/errors"
	"ghgcli/pkg/contracts/domain"
)

// Source is a raw tabular source. Cells are untyped text; empty cells come
// through as empty strings. Rows never fails on ragged or short sheets.
type Source interface {
	Type() domain.FileType
	// SheetNames lists the sheets in source order. Single-table sources
	// report exactly one empty-named sheet.
	SheetNames() []string
	// Rows returns up to limit rows of the named sheet (all rows when
	// limit <= 0). For single-table sources the sheet name is ignored.
	Rows(sheet string, limit int) ([][]string, error)
	Close() error
}

// Open opens path as a Source, dispatching on the file extension.
// Returns NOT_FOUND when the path does not exist and UNSUPPORTED_FORMAT for
// extensions outside {.csv, .xlsx, .xls}.
func Open(path string) (Source, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError(path, err)
		}
		return nil, apperrors.NewStorageError("failed to stat source", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return openExcel(path)
	case ".csv":
		return openCSV(path)
	default:
		return nil, apperrors.NewUnsupportedFormatError(filepath.Ext(path))
	}
}

type excelSource struct {
	file *excelize.File
}

func openExcel(path string) (Source, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err)
	}
	return &excelSource{file: f}, nil
}

func (s *excelSource) Type() domain.FileType { return domain.FileTypeExcel }

func (s *excelSource) SheetNames() []string {
	return s.file.GetSheetList()
}

func (s *excelSource) Rows(sheet string, limit int) ([][]string, error) {
	rows, err := s.file.Rows(sheet)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read sheet "+sheet, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		if limit > 0 && len(out) >= limit {
			break
		}
		cells, err := rows.Columns()
		if err != nil {
			return nil, apperrors.NewParsingError("failed to read row", err)
		}
		out = append(out, cells)
	}
	return out, nil
}

func (s *excelSource) Close() error { return s.file.Close() }

type csvSource struct {
	path string
}

func openCSV(path string) (Source, error) {
	return &csvSource{path: path}, nil
}

func (s *csvSource) Type() domain.FileType { return domain.FileTypeCSV }

func (s *csvSource) SheetNames() []string { return []string{""} }

func (s *csvSource) Rows(_ string, limit int) ([][]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, apperrors.NewNotFoundError(s.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // exports are frequently ragged

	var out [][]string
	for {
		if limit > 0 && len(out) >= limit {
			break
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError("failed to read csv row", err)
		}
		out = append(out, record)
	}
	return out, nil
}

func (s *csvSource) Close() error { return nil }

// ReadCSV reads a whole CSV file and splits it into a header and records.
func ReadCSV(path string) (headers []string, records [][]string, err error) {
	src, err := openCSV(path)
	if err != nil {
		return nil, nil, err
	}
	rows, err := src.Rows("", 0)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}
	return rows[0], rows[1:], nil
}
