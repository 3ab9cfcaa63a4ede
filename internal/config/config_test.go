package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "data/raw", cfg.Paths.RawDir)
	assert.Equal(t, 20, cfg.Inference.HeaderScanRows)
	assert.Equal(t, 15, cfg.Inference.SheetHeaderScan)
	assert.Equal(t, 50, cfg.Inference.CodeSampleSize)
	assert.Equal(t, 5, cfg.Inference.CodeMatchThreshold)
	assert.Equal(t, 2005, cfg.Dataset.MinYear)
	assert.Equal(t, 2022, cfg.Dataset.MaxYear)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 9191\nlogging:\n  level: debug\n")
	require.NoError(t, os.WriteFile(file, content, 0644))

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched values keep their defaults.
	assert.Equal(t, 200, cfg.Inference.CSVSampleRows)
}

func TestFileValuesSurviveEnvDefaults(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	content := []byte("paths:\n  raw_dir: /srv/ghg/raw\n  lineage_file: /srv/ghg/meta.json\nrate_limit:\n  enabled: false\n")
	require.NoError(t, os.WriteFile(file, content, 0644))

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "/srv/ghg/raw", cfg.Paths.RawDir)
	assert.Equal(t, "/srv/ghg/meta.json", cfg.Paths.LineageFile)
	assert.False(t, cfg.RateLimit.Enabled)
	// Untouched siblings keep their defaults.
	assert.Equal(t, "data/processed", cfg.Paths.ProcessedDir)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("server:\n  port: 9191\n"), 0644))

	t.Setenv("GHG_SERVER_PORT", "7070")
	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"scan rows", func(c *Config) { c.Inference.HeaderScanRows = 0 }},
		{"sample below threshold", func(c *Config) { c.Inference.CodeSampleSize = 2 }},
		{"inverted years", func(c *Config) { c.Dataset.MinYear = 2030 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.validate())
		})
	}
}

func TestPathsHelpers(t *testing.T) {
	p := PathsConfig{
		DataDir:      filepath.Join(t.TempDir(), "data"),
		RawDir:       filepath.Join(t.TempDir(), "data", "raw"),
		ProcessedDir: filepath.Join(t.TempDir(), "data", "processed"),
	}
	require.NoError(t, p.EnsureDirs())

	assert.DirExists(t, p.RawDir)
	assert.DirExists(t, p.ProcessedDir)
	assert.Equal(t, filepath.Join(p.RawDir, "a.csv"), p.RawFile("a.csv"))
	assert.Equal(t, filepath.Join(p.ProcessedDir, "b.csv"), p.ProcessedFile("b.csv"))
}
