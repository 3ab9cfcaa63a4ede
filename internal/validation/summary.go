package validation

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	apperrors "ghgcli/internal/errors"
	"ghgcli/internal/lineage"
	"ghgcli/pkg/contracts/domain"
)

// SummaryIssues are the checks specific to the harmonised authority-level
// totals: completeness, non-negative emissions and duplicate codes.
type SummaryIssues struct {
	RowCount          int `json:"row_count"`
	MissingCodes      int `json:"missing_codes"`
	MissingNames      int `json:"missing_names"`
	NegativeEmissions int `json:"negative_emissions"`
	DuplicateCodes    int `json:"duplicate_codes_count"`
}

// ValidateSummary checks harmonised emissions totals.
func (v *Validator) ValidateSummary(ctx context.Context, totals []domain.EmissionsTotal) *SummaryIssues {
	issues := &SummaryIssues{RowCount: len(totals)}

	seen := make(map[string]int)
	for _, t := range totals {
		if strings.TrimSpace(t.Code) == "" {
			issues.MissingCodes++
		} else {
			seen[t.Code]++
		}
		if strings.TrimSpace(t.Name) == "" {
			issues.MissingNames++
		}
		if t.KtCO2e < 0 {
			issues.NegativeEmissions++
		}
	}
	for _, n := range seen {
		if n > 1 {
			issues.DuplicateCodes++
		}
	}

	v.logger.InfoContext(ctx, "summary validation complete",
		slog.Int("rows", issues.RowCount),
		slog.Int("duplicate_codes", issues.DuplicateCodes),
		slog.Int("negative_emissions", issues.NegativeEmissions))

	if v.store != nil {
		if err := v.store.AddEvent("validation", "validate_emissions_summary", map[string]interface{}{
			"rows":   issues.RowCount,
			"issues": issues,
		}); err != nil {
			v.logger.Warn("failed to record validation event", slog.String("error", err.Error()))
		}
	}
	return issues
}

// PopulationIssues are the checks specific to harmonised population records.
type PopulationIssues struct {
	RowCount          int  `json:"row_count"`
	InvalidLACodes    int  `json:"invalid_la_code_count"`
	InvalidPopulation int  `json:"invalid_population_count"`
	YearMismatch      bool `json:"year_mismatch"`
}

// ValidatePopulation checks harmonised population records: nine-character
// England/Wales codes, positive counts, expected year.
func (v *Validator) ValidatePopulation(ctx context.Context, records []domain.PopulationRecord) *PopulationIssues {
	issues := &PopulationIssues{RowCount: len(records)}

	for _, r := range records {
		code := strings.TrimSpace(r.Code)
		if len(code) != 9 || (code[0] != 'E' && code[0] != 'W') {
			issues.InvalidLACodes++
		}
		if r.Population <= 0 {
			issues.InvalidPopulation++
		}
		if r.CalendarYear != v.ds.PopulationYear {
			issues.YearMismatch = true
		}
	}

	v.logger.InfoContext(ctx, "population validation complete",
		slog.Int("rows", issues.RowCount),
		slog.Int("invalid_codes", issues.InvalidLACodes),
		slog.Int("invalid_population", issues.InvalidPopulation))

	if v.store != nil {
		if err := v.store.AddEvent("validation_population", "validate_population", map[string]interface{}{
			"rows":   issues.RowCount,
			"issues": issues,
		}); err != nil {
			v.logger.Warn("failed to record validation event", slog.String("error", err.Error()))
		}
	}
	return issues
}

// IssuesFromEvent decodes the ValidationIssues payload out of a lineage
// validation event, round-tripping through JSON since event details are
// schemaless maps.
func IssuesFromEvent(ev *lineage.Event) (*domain.ValidationIssues, error) {
	if ev == nil {
		return nil, apperrors.NewMissingInputError("no validation event to decode")
	}
	raw, ok := ev.Details["issues"]
	if !ok {
		return nil, apperrors.NewMissingInputError("validation event carries no issue summary")
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to encode validation issues", err)
	}
	var issues domain.ValidationIssues
	if err := json.Unmarshal(data, &issues); err != nil {
		return nil, apperrors.NewParsingError("failed to decode validation issues", err)
	}
	return &issues, nil
}
