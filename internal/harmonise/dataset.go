package harmonise

import (
	"context"
	"log/slog"

	"ghgcli/internal/files"
)

// CleanDatasetFile reads the full raw emissions CSV, harmonises it and,
// when an output name and writer are configured, persists the cleaned
// frame.
func (h *Harmoniser) CleanDatasetFile(ctx context.Context, inputPath, outputName string) (*Dataset, error) {
	headers, records, err := files.ReadCSV(inputPath)
	if err != nil {
		h.logEvent("harmonisation", "clean_schema", map[string]interface{}{
			"input": inputPath, "status": "failed", "error": err.Error(),
		})
		return nil, err
	}

	ds := h.CleanSchema(ctx, headers, records)

	if outputName != "" && h.writer != nil {
		if err := h.writer.WriteSimpleCSV(outputName, ds.Headers, ds.Records); err != nil {
			return nil, err
		}
	}

	h.logEvent("harmonisation", "clean_schema", map[string]interface{}{
		"input":           inputPath,
		"output":          outputName,
		"columns_cleaned": len(ds.Headers),
		"rows":            len(ds.Records),
	})

	h.logger.InfoContext(ctx, "dataset cleaned",
		slog.String("input", inputPath),
		slog.Int("rows", len(ds.Records)))

	return ds, nil
}

// RecordsWithTypes renders the typed rows back into CSV records with the
// record_type column appended. Headers gain the extra column.
func (ds *Dataset) RecordsWithTypes() ([]string, [][]string) {
	headers := append(append([]string{}, ds.Headers...), "record_type")
	out := make([][]string, len(ds.Records))
	for i, record := range ds.Records {
		out[i] = append(append([]string{}, record...), string(ds.Rows[i].RecordType))
	}
	return headers, out
}
