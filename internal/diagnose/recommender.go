// Package diagnose turns a validation-issue summary into an ordered list of
// remediation recommendations. The mapping is pure and order-preserving:
// every applicable rule contributes its text, and a clean summary yields a
// single all-clear entry.
package diagnose

import (
	"context"
	"log/slog"
	"time"

	apperrors "ghgcli/internal/errors"
	"ghgcli/pkg/contracts/domain"
)

const (
	adviceInvalidCodes = "Check rows with invalid LA codes. These often correspond to sector-level entries rather than LA summaries."
	adviceMissing      = "Investigate missing values in population and area fields — often structural for non-LA geo entries."
	adviceYearRange    = "Remove or correct rows with year values outside 2005–2022."
	adviceAllClear     = "No major issues detected. Data appears structurally sound."
)

// recommendations are evaluated in fixed order; unlike the record-type
// cascade, every matching rule fires.
var recommendations = []struct {
	applies func(domain.ValidationIssues) bool
	text    string
}{
	{func(v domain.ValidationIssues) bool { return v.InvalidLACodes > 0 }, adviceInvalidCodes},
	{func(v domain.ValidationIssues) bool { return v.TotalMissing() > 0 }, adviceMissing},
	{func(v domain.ValidationIssues) bool { return v.OutOfRangeYears > 0 }, adviceYearRange},
}

// RecommendActions maps issue counts to advisory texts. A nil summary means
// no validation stage has run yet, which is a MissingInput error rather
// than an empty recommendation list.
func RecommendActions(issues *domain.ValidationIssues) ([]string, error) {
	if issues == nil {
		return nil, apperrors.NewMissingInputError("no validation result available; run the validation stage first")
	}

	var actions []string
	for _, rec := range recommendations {
		if rec.applies(*issues) {
			actions = append(actions, rec.text)
		}
	}
	if len(actions) == 0 {
		actions = append(actions, adviceAllClear)
	}
	return actions, nil
}

// BuildReport assembles the write-once diagnostic report for a validation
// summary.
func BuildReport(ctx context.Context, logger *slog.Logger, issues *domain.ValidationIssues) (*domain.DiagnosticReport, error) {
	if logger == nil {
		logger = slog.Default()
	}

	actions, err := RecommendActions(issues)
	if err != nil {
		return nil, err
	}

	report := &domain.DiagnosticReport{
		GeneratedAt: time.Now().UTC(),
		Summary: domain.IssueSummary{
			TotalMissing:    issues.TotalMissing(),
			InvalidLACodes:  issues.InvalidLACodes,
			OutOfRangeYears: issues.OutOfRangeYears,
		},
		MissingValues:      issues.MissingValues,
		NumericNullCounts:  issues.NumericNullCounts,
		RecommendedActions: actions,
	}

	logger.InfoContext(ctx, "diagnostic report generated",
		slog.Int("total_missing", report.Summary.TotalMissing),
		slog.Int("invalid_la_codes", report.Summary.InvalidLACodes),
		slog.Int("out_of_range_years", report.Summary.OutOfRangeYears),
		slog.Int("recommendations", len(actions)))

	return report, nil
}
