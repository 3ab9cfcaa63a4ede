package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDirs creates the raw, processed and logs directories if absent.
func (p PathsConfig) EnsureDirs() error {
	for _, dir := range []string{p.DataDir, p.RawDir, p.ProcessedDir, p.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// RawFile returns the path of a file under the raw data directory.
func (p PathsConfig) RawFile(name string) string {
	return filepath.Join(p.RawDir, name)
}

// ProcessedFile returns the path of a file under the processed directory.
func (p PathsConfig) ProcessedFile(name string) string {
	return filepath.Join(p.ProcessedDir, name)
}
