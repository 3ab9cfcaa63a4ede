package domain

// FileType identifies the raw source format accepted by the structural analyzer.
type FileType string

const (
	FileTypeExcel FileType = "excel"
	FileTypeCSV   FileType = "csv"
)

// StructuralGuess is the header/sheet locator's decision for one raw source.
// Sheet is empty for single-table sources such as CSV files. HeaderRow is a
// 0-based index into the rows that were scanned and is always valid.
type StructuralGuess struct {
	Sheet     string `json:"recommended_sheet,omitempty"`
	HeaderRow int    `json:"recommended_header_row"`
	Score     int    `json:"score"`
}

// ColumnRoleMap assigns semantic roles to source columns. Code and Name hold
// at most one column each; Years and Values may hold several. An empty entry
// means the role could not be resolved, never that detection failed.
type ColumnRoleMap struct {
	Code   string   `json:"probable_la_code_column,omitempty"`
	Name   string   `json:"probable_la_name_column,omitempty"`
	Years  []string `json:"probable_year_columns"`
	Values []string `json:"probable_value_columns"`
}

// HasCode reports whether a code column was resolved.
func (m ColumnRoleMap) HasCode() bool { return m.Code != "" }

// HasName reports whether a name column was resolved.
func (m ColumnRoleMap) HasName() bool { return m.Name != "" }

// FileAnalysis is the full result of structural inference over one raw file:
// routing hints for the harmonisation stage plus an explainable confidence.
//
// Confidence is a coarse three-tier signal (0.5 / 0.7 / 0.9), not a
// calibrated probability: 0.9 when both code and name columns resolved,
// 0.5 when no value columns were found, 0.7 otherwise.
type FileAnalysis struct {
	FilePath   string        `json:"file_path"`
	FileType   FileType      `json:"file_type"`
	Structure  StructuralGuess `json:"structure"`
	Columns    ColumnRoleMap `json:"columns"`
	Confidence float64       `json:"confidence"`
	Issues     []string      `json:"issues_detected"`
	Notes      []string      `json:"notes"`
}
