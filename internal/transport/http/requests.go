package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"ghgcli/pkg/contracts/domain"
)

var validate = validator.New()

// AnalyzeRequest asks for structural inference over a file on disk.
type AnalyzeRequest struct {
	FilePath  string `json:"file_path" validate:"required"`
	SheetHint string `json:"sheet_hint"`
}

// Bind implements render.Binder.
func (req *AnalyzeRequest) Bind(r *http.Request) error {
	return validate.Struct(req)
}

// ClassifyRequest carries harmonised rows to label.
type ClassifyRequest struct {
	Rows []domain.HarmonisedRow `json:"rows" validate:"required,min=1"`
}

// Bind implements render.Binder.
func (req *ClassifyRequest) Bind(r *http.Request) error {
	return validate.Struct(req)
}

// ClassifyResponse returns the labelled rows with per-label counts.
type ClassifyResponse struct {
	Rows   []domain.HarmonisedRow    `json:"rows"`
	Counts map[domain.RecordType]int `json:"counts"`
}
