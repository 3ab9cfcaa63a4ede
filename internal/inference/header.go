package inference

import "strings"

// headerTokens is the fixed vocabulary of terms expected in a header row of
// a local-authority emissions table. Each token contributes at most one
// point to a row's header score.
var headerTokens = []string{
	"local authority",
	"la code",
	"local authority code",
	"code",
	"name",
	"co2",
	"emissions",
	"territorial",
	"kt",
}

// normaliseCell lowers and trims a cell; non-text content arrives already
// stringified by the source reader.
func normaliseCell(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ScoreHeaderCandidate scores how header-like a row is: one point per
// vocabulary token found as a substring of any cell, plus one when at least
// three cells are non-empty. Range is [0, len(headerTokens)+1].
func ScoreHeaderCandidate(cells []string) int {
	norm := make([]string, len(cells))
	nonEmpty := 0
	for i, c := range cells {
		norm[i] = normaliseCell(c)
		if norm[i] != "" {
			nonEmpty++
		}
	}

	score := 0
	for _, token := range headerTokens {
		for _, c := range norm {
			if c != "" && strings.Contains(c, token) {
				score++
				break
			}
		}
	}

	if nonEmpty >= 3 {
		score++
	}
	return score
}

// DetectHeaderRow scans rows 0..min(maxScan, len(rows))-1 and returns the
// index of the best-scoring candidate. Replacement requires a strictly
// greater score, so ties keep the earliest plausible header. Always returns
// a valid index; an empty table yields 0.
func DetectHeaderRow(rows [][]string, maxScan int) int {
	bestRow := 0
	bestScore := -1

	limit := maxScan
	if len(rows) < limit {
		limit = len(rows)
	}

	for idx := 0; idx < limit; idx++ {
		if score := ScoreHeaderCandidate(rows[idx]); score > bestScore {
			bestScore = score
			bestRow = idx
		}
	}
	return bestRow
}
