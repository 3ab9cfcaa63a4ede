// Package classify assigns a semantic record type to every harmonised row
// via an ordered rule cascade. Classification is a total, pure function:
// each row gets exactly one label and re-running changes nothing.
package classify

import (
	"context"
	"log/slog"
	"strings"

	"ghgcli/pkg/contracts/domain"
)

// rule pairs a predicate with the label it assigns. The cascade is
// evaluated in order and stops at the first match, which keeps rule
// precedence explicit and each rule testable in isolation.
type rule struct {
	label domain.RecordType
	match func(domain.HarmonisedRow) bool
}

var cascade = []rule{
	{domain.RecordLocalAuthority, func(r domain.HarmonisedRow) bool {
		return codePresent(r.LocalAuthorityCode) && r.Population != nil && r.AreaKm2 != nil
	}},
	{domain.RecordSubsector, func(r domain.HarmonisedRow) bool {
		return r.Subsector != "" && codeAbsent(r.LocalAuthorityCode)
	}},
	{domain.RecordSector, func(r domain.HarmonisedRow) bool {
		return r.Sector != "" && codeAbsent(r.LocalAuthorityCode)
	}},
	{domain.RecordRegionalAggregate, func(r domain.HarmonisedRow) bool {
		return r.Region != "" && codeAbsent(r.LocalAuthorityCode)
	}},
	{domain.RecordNationalAggregate, func(r domain.HarmonisedRow) bool {
		return r.Country == domain.NationalLabel && r.Region == ""
	}},
}

// codePresent reports a usable entity code: non-empty and not the "nan"
// null marker some exports carry as literal text.
func codePresent(code string) bool {
	code = strings.TrimSpace(code)
	return code != "" && !strings.EqualFold(code, "nan")
}

// codeAbsent reports a genuinely missing code field. A literal "nan" is a
// populated cell: it blocks both the authority rule and the aggregate
// rules, matching how the upstream exports behave.
func codeAbsent(code string) bool {
	return strings.TrimSpace(code) == ""
}

// ClassifyRecord assigns one record type to a harmonised row. Rows matching
// no rule default to unknown; the function never fails.
func ClassifyRecord(row domain.HarmonisedRow) domain.RecordType {
	for _, r := range cascade {
		if r.match(row) {
			return r.label
		}
	}
	return domain.RecordUnknown
}

// ClassifyAll labels every row and returns per-label counts. Rows are
// independent, so the order of the input never affects any label.
func ClassifyAll(ctx context.Context, logger *slog.Logger, rows []domain.HarmonisedRow) map[domain.RecordType]int {
	if logger == nil {
		logger = slog.Default()
	}

	counts := make(map[domain.RecordType]int)
	for i := range rows {
		label := ClassifyRecord(rows[i])
		rows[i].RecordType = label
		counts[label]++
	}

	logger.InfoContext(ctx, "record classification complete",
		slog.Int("rows", len(rows)),
		slog.Int("local_authority", counts[domain.RecordLocalAuthority]),
		slog.Int("sector", counts[domain.RecordSector]),
		slog.Int("subsector", counts[domain.RecordSubsector]),
		slog.Int("regional", counts[domain.RecordRegionalAggregate]),
		slog.Int("national", counts[domain.RecordNationalAggregate]),
		slog.Int("unknown", counts[domain.RecordUnknown]))

	return counts
}
