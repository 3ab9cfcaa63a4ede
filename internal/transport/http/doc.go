// Package http provides the HTTP API for the analysis engine: structural
// inference of uploaded spreadsheet paths, record classification and
// diagnostic recommendations replayed from the lineage log.
package http
