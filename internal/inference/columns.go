package inference

import (
	"regexp"
	"strconv"
	"strings"

	"ghgcli/pkg/contracts/domain"
)

// laCodeRegex matches GSS local-authority codes: a country letter followed
// by exactly eight letters or digits.
var laCodeRegex = regexp.MustCompile(`^[EWNS][0-9A-Z]{8}$`)

var yearRegex = regexp.MustCompile(`^\d{4}$`)

// valueTokens mark measured-value columns by name.
var valueTokens = []string{"emissions", "co2", "kt", "tonnes"}

// RoleOptions bound the value-pattern sampling of code-column detection.
type RoleOptions struct {
	// SampleSize caps how many non-empty values per column are tested
	// against the code pattern. A robustness bound, not a precision one.
	SampleSize int
	// MatchThreshold is the minimum number of pattern matches for a
	// column to be accepted as the code column.
	MatchThreshold int
}

// DefaultRoleOptions returns the engine's operating sampling bounds.
func DefaultRoleOptions() RoleOptions {
	return RoleOptions{SampleSize: 50, MatchThreshold: 5}
}

// DetectColumnRoles assigns semantic roles to the columns of a table whose
// header row is already resolved. Headers identify columns; records are the
// data rows below the header. Unresolved roles stay empty, never guessed.
//
// Code-column detection runs the value-pattern fallback only when no header
// matches by name. A column with an ambiguous header that happens to match
// the name heuristic therefore shadows a better value-pattern candidate; a
// deliberate precision/recall tradeoff.
func DetectColumnRoles(headers []string, records [][]string, opts RoleOptions) domain.ColumnRoleMap {
	if opts.SampleSize <= 0 {
		opts = DefaultRoleOptions()
	}

	norm := make([]string, len(headers))
	for i, h := range headers {
		norm[i] = normaliseCell(h)
	}

	roles := domain.ColumnRoleMap{}

	// Code column, name-based pass first.
	for i, n := range norm {
		if strings.Contains(n, "local authority code") ||
			n == "la code" ||
			(strings.Contains(n, "code") && strings.Contains(n, "authority")) {
			roles.Code = headers[i]
			break
		}
	}

	// Value-based fallback: sample cell values against the code pattern.
	if roles.Code == "" {
		for col := range headers {
			matches := 0
			sampled := 0
			for row := 0; row < len(records) && sampled < opts.SampleSize; row++ {
				v := strings.TrimSpace(cellAt(records, row, col))
				if v == "" {
					continue
				}
				sampled++
				if laCodeRegex.MatchString(v) {
					matches++
				}
			}
			if matches >= opts.MatchThreshold {
				roles.Code = headers[col]
				break
			}
		}
	}

	// Name column.
	for i, n := range norm {
		if strings.Contains(n, "local authority") && !strings.Contains(n, "code") {
			roles.Name = headers[i]
			break
		}
	}

	// Year and value columns. A four-digit header is always a year column
	// and is never considered for the value role.
	for i, n := range norm {
		if yearRegex.MatchString(n) {
			roles.Years = append(roles.Years, headers[i])
			continue
		}
		for _, token := range valueTokens {
			if strings.Contains(n, token) {
				roles.Values = append(roles.Values, headers[i])
				break
			}
		}
	}

	// Fallback when no value column matched by name: majority-numeric
	// columns are treated as measured values.
	if len(roles.Values) == 0 {
		for col := range headers {
			numeric := 0
			for row := range records {
				if _, ok := parseNumeric(cellAt(records, row, col)); ok {
					numeric++
				}
			}
			if float64(numeric) > 0.5*float64(len(records)) {
				roles.Values = append(roles.Values, headers[col])
			}
		}
	}

	return roles
}

// DeriveConfidence maps resolved roles onto the coarse three-tier signal.
func DeriveConfidence(roles domain.ColumnRoleMap) float64 {
	if roles.HasCode() && roles.HasName() {
		return 0.9
	}
	if len(roles.Values) == 0 {
		return 0.5
	}
	return 0.7
}

func cellAt(records [][]string, row, col int) string {
	if row >= len(records) || col >= len(records[row]) {
		return ""
	}
	return records[row][col]
}

func parseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
