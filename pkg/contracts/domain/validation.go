package domain

import "time"

// ValidationIssues is the structured summary produced by the validation stage
// and consumed read-only by the diagnostic recommender.
type ValidationIssues struct {
	RowCount          int            `json:"row_count"`
	MissingColumns    []string       `json:"missing_required_columns,omitempty"`
	MissingValues     map[string]int `json:"missing_values"`
	InvalidLACodes    int            `json:"invalid_la_code_count"`
	OutOfRangeYears   int            `json:"out_of_range_years"`
	NumericNullCounts map[string]int `json:"numeric_null_counts"`
}

// TotalMissing sums the per-column missing-value counts.
func (v ValidationIssues) TotalMissing() int {
	total := 0
	for _, n := range v.MissingValues {
		total += n
	}
	return total
}

// IssueSummary is the condensed header of a diagnostic report.
type IssueSummary struct {
	TotalMissing    int `json:"total_missing"`
	InvalidLACodes  int `json:"invalid_la_codes"`
	OutOfRangeYears int `json:"out_of_range_years"`
}

// DiagnosticReport is the recommender's write-once output: the issue summary
// plus an ordered list of advisory remediation texts.
type DiagnosticReport struct {
	GeneratedAt        time.Time      `json:"generated_at"`
	Summary            IssueSummary   `json:"summary"`
	MissingValues      map[string]int `json:"missing_values"`
	NumericNullCounts  map[string]int `json:"numeric_nulls"`
	RecommendedActions []string       `json:"recommended_actions"`
}
