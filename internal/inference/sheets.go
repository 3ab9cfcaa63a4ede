package inference

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"ghgcli/pkg/contracts/domain"
)

// sheetStoplist holds normalised names of sheets that never carry data in
// the publisher's workbooks.
var sheetStoplist = map[string]struct{}{
	"cover":    {},
	"contents": {},
	"notes":    {},
}

// Candidate is one table-like region of a multi-sheet source: its name and
// a bounded prefix of its raw rows.
type Candidate struct {
	Name string
	Rows [][]string
}

type scoredCandidate struct {
	headerRow int
	score     int
}

// SelectBestSheet scores every candidate sheet and returns the structural
// guess for the winner plus notes and issues explaining the decision.
//
// Candidates are scored independently (concurrently when several sheets are
// present) and reduced by a fold in source order: a later sheet replaces the
// running best only with a strictly greater score, so ties resolve to the
// lowest source index regardless of scoring order.
func SelectBestSheet(ctx context.Context, candidates []Candidate, hint string, headerScan int) (domain.StructuralGuess, []string, []string) {
	var notes, issues []string

	kept := make([]int, 0, len(candidates))
	for i, c := range candidates {
		if _, skip := sheetStoplist[normaliseCell(c.Name)]; !skip {
			kept = append(kept, i)
		}
	}
	if len(kept) == 0 {
		for i := range candidates {
			kept = append(kept, i)
		}
		issues = append(issues, "No obvious data sheets; using all sheets.")
	}
	if len(kept) == 0 {
		return domain.StructuralGuess{}, notes, issues
	}

	scores := make([]scoredCandidate, len(kept))
	g, _ := errgroup.WithContext(ctx)
	for si, ci := range kept {
		g.Go(func() error {
			scores[si] = scoreSheet(candidates[ci], hint, headerScan)
			return nil
		})
	}
	g.Wait() // scoring is pure, no error path

	best := scores[0]
	bestName := candidates[kept[0]].Name
	for si, ci := range kept[1:] {
		if scores[si+1].score > best.score {
			best = scores[si+1]
			bestName = candidates[ci].Name
		}
	}

	// Candidates compete on raw scores, which the "1_" penalty can push
	// below zero; the reported score floors at 0.
	reported := best.score
	if reported < 0 {
		reported = 0
	}

	notes = append(notes, fmt.Sprintf(
		"Selected sheet '%s' with header row %d (score=%d).", bestName, best.headerRow, reported))

	return domain.StructuralGuess{
		Sheet:     bestName,
		HeaderRow: best.headerRow,
		Score:     reported,
	}, notes, issues
}

// scoreSheet evaluates one candidate: header detection over the prefix, a
// base score of header score plus non-empty header cells, then the additive
// naming-convention and hint adjustments.
func scoreSheet(c Candidate, hint string, headerScan int) scoredCandidate {
	headerRow := DetectHeaderRow(c.Rows, headerScan)

	var header []string
	if headerRow < len(c.Rows) {
		header = c.Rows[headerRow]
	}

	score := ScoreHeaderCandidate(header)
	for _, cell := range header {
		if strings.TrimSpace(cell) != "" {
			score++
		}
	}

	// The publisher names authority-level detail tables "2_*" and
	// summary/overview tables "1_*".
	if strings.HasPrefix(c.Name, "2_") {
		score += 10
	}
	if strings.HasPrefix(c.Name, "1_") {
		score -= 6
	}

	if hint != "" && strings.Contains(strings.ToLower(hint), "la") {
		if strings.HasPrefix(c.Name, "2_") {
			score += 4
		}
		if strings.HasPrefix(c.Name, "1_") {
			score -= 4
		}
	}

	var hasAuthority, hasCode, hasCalendarYear bool
	for _, cell := range header {
		norm := normaliseCell(cell)
		if norm == "" {
			continue
		}
		hasAuthority = hasAuthority || strings.Contains(norm, "authority")
		hasCode = hasCode || strings.Contains(norm, "code")
		hasCalendarYear = hasCalendarYear || strings.Contains(norm, "calendar year")
	}
	if hasAuthority {
		score += 3
	}
	if hasCode {
		score += 2
	}
	if hasCalendarYear {
		score += 2
	}

	return scoredCandidate{headerRow: headerRow, score: score}
}
