// Package validation checks harmonised datasets for quality and
// consistency and produces the issue summaries consumed by the diagnostic
// recommender. Findings are reported as data, never as errors; every run is
// recorded in the lineage log so diagnostics can be replayed later.
package validation

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"ghgcli/internal/config"
	"ghgcli/internal/harmonise"
	"ghgcli/internal/lineage"
	"ghgcli/pkg/contracts/domain"
)

// laCodePattern is deliberately looser than the GSS nine-character form:
// the full dataset contains legacy and pseudo codes of 6 to 9 characters.
var laCodePattern = regexp.MustCompile(`^[A-Z][A-Z0-9]{5,8}$`)

// RequiredColumns are the canonical columns the cleaned full dataset must
// carry.
var RequiredColumns = []string{
	harmonise.ColCountry,
	harmonise.ColCountryCode,
	harmonise.ColRegion,
	harmonise.ColRegionCode,
	harmonise.ColLocalAuthority,
	harmonise.ColLocalAuthorityCode,
	harmonise.ColCalendarYear,
	harmonise.ColSector,
	harmonise.ColSubsector,
	harmonise.ColGas,
	harmonise.ColTerritorialEmissions,
}

// Validator runs dataset quality checks against configured bounds.
type Validator struct {
	logger *slog.Logger
	store  *lineage.Store
	ds     config.DatasetConfig
}

// New creates a validator. store may be nil to skip lineage logging.
func New(logger *slog.Logger, store *lineage.Store, ds config.DatasetConfig) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{logger: logger.With(slog.String("component", "validator")), store: store, ds: ds}
}

// ValidateDataset checks a cleaned frame: required canonical columns,
// per-column missing values, authority-code format, calendar-year range and
// numeric nulls in the measure columns.
func (v *Validator) ValidateDataset(ctx context.Context, ds *harmonise.Dataset) *domain.ValidationIssues {
	issues := &domain.ValidationIssues{
		RowCount:          len(ds.Records),
		MissingValues:     make(map[string]int),
		NumericNullCounts: make(map[string]int),
	}

	idx := make(map[string]int, len(ds.Headers))
	for i, h := range ds.Headers {
		if _, seen := idx[h]; !seen {
			idx[h] = i
		}
	}

	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			issues.MissingColumns = append(issues.MissingColumns, col)
		}
	}

	for _, h := range ds.Headers {
		issues.MissingValues[h] = 0
	}
	for _, record := range ds.Records {
		for i, h := range ds.Headers {
			if i >= len(record) || strings.TrimSpace(record[i]) == "" {
				issues.MissingValues[h]++
			}
		}
	}

	if codeIdx, ok := idx[harmonise.ColLocalAuthorityCode]; ok {
		for _, record := range ds.Records {
			code := ""
			if codeIdx < len(record) {
				code = strings.TrimSpace(record[codeIdx])
			}
			if !laCodePattern.MatchString(code) {
				issues.InvalidLACodes++
			}
		}
	}

	if yearIdx, ok := idx[harmonise.ColCalendarYear]; ok {
		for _, record := range ds.Records {
			raw := ""
			if yearIdx < len(record) {
				raw = strings.TrimSpace(record[yearIdx])
			}
			year, err := strconv.Atoi(raw)
			if err != nil || year < v.ds.MinYear || year > v.ds.MaxYear {
				issues.OutOfRangeYears++
			}
		}
	}

	for _, col := range harmonise.NumericColumns {
		i, ok := idx[col]
		if !ok {
			continue
		}
		nulls := 0
		for _, record := range ds.Records {
			if i >= len(record) || strings.TrimSpace(record[i]) == "" {
				nulls++
			}
		}
		issues.NumericNullCounts[col] = nulls
	}

	v.logIssues(ctx, "validate_dataset", issues)
	return issues
}

// logIssues records the validation run in the lineage log under the
// "validation" stage, which is what the diagnostics endpoint replays.
func (v *Validator) logIssues(ctx context.Context, action string, issues *domain.ValidationIssues) {
	v.logger.InfoContext(ctx, "validation complete",
		slog.String("action", action),
		slog.Int("rows", issues.RowCount),
		slog.Int("invalid_la_codes", issues.InvalidLACodes),
		slog.Int("out_of_range_years", issues.OutOfRangeYears),
		slog.Int("total_missing", issues.TotalMissing()))

	if v.store == nil {
		return
	}
	if err := v.store.AddEvent("validation", action, map[string]interface{}{
		"rows":   issues.RowCount,
		"issues": issues,
	}); err != nil {
		v.logger.Warn("failed to record validation event", slog.String("error", err.Error()))
	}
}
