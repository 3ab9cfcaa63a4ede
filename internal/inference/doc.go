// Package inference implements heuristic structural inference over raw
// spreadsheet and CSV exports of regional emissions statistics: locating the
// most plausible data sheet and header row inside an arbitrarily laid-out
// workbook, and assigning semantic roles (code, name, year, value) to its
// columns.
//
// The scoring functions guarantee a deterministic, explainable best guess
// with a coarse confidence tier, not correctness; downstream consumers must
// treat low-confidence results as advisory.
package inference
