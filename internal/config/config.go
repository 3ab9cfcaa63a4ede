package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Inference InferenceConfig `yaml:"inference" envconfig:"INFERENCE"`
	Dataset   DatasetConfig   `yaml:"dataset" envconfig:"DATASET"`
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir      string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	RawDir       string `yaml:"raw_dir" envconfig:"RAW_DIR" default:"data/raw"`
	ProcessedDir string `yaml:"processed_dir" envconfig:"PROCESSED_DIR" default:"data/processed"`
	LineageFile  string `yaml:"lineage_file" envconfig:"LINEAGE_FILE" default:"data/processed/metadata.json"`
	LogsDir      string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// InferenceConfig tunes the structural-inference heuristics. The defaults
// are the operating constants of the scoring engine; they are exposed here
// so the sampling bounds stay visible rather than buried in code.
type InferenceConfig struct {
	HeaderScanRows     int `yaml:"header_scan_rows" envconfig:"HEADER_SCAN_ROWS" default:"20"`
	SheetHeaderScan    int `yaml:"sheet_header_scan" envconfig:"SHEET_HEADER_SCAN" default:"15"`
	SheetPrefixRows    int `yaml:"sheet_prefix_rows" envconfig:"SHEET_PREFIX_ROWS" default:"25"`
	CSVSampleRows      int `yaml:"csv_sample_rows" envconfig:"CSV_SAMPLE_ROWS" default:"200"`
	CodeSampleSize     int `yaml:"code_sample_size" envconfig:"CODE_SAMPLE_SIZE" default:"50"`
	CodeMatchThreshold int `yaml:"code_match_threshold" envconfig:"CODE_MATCH_THRESHOLD" default:"5"`
}

// DatasetConfig carries the canonical-schema bounds used by validation and
// the year filters used by harmonisation.
type DatasetConfig struct {
	MinYear        int `yaml:"min_year" envconfig:"MIN_YEAR" default:"2005"`
	MaxYear        int `yaml:"max_year" envconfig:"MAX_YEAR" default:"2022"`
	SummaryYear    int `yaml:"summary_year" envconfig:"SUMMARY_YEAR" default:"2021"`
	PopulationYear int `yaml:"population_year" envconfig:"POPULATION_YEAR" default:"2022"`
}

// RateLimitConfig contains rate limiting configuration for the HTTP surface
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// Load loads configuration from environment variables and an optional YAML
// file. File values fill in anything the environment left at its default.
func Load(configFile string) (*Config, error) {
	var cfg Config

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			data, err := os.ReadFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Environment variables and struct defaults take precedence for any
	// field the file did not set.
	if err := envconfig.Process("GHG", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	applyFileFallbacks(&cfg, configFile)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Default returns the built-in configuration with no file or env overrides.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		// Struct defaults alone always validate.
		panic(err)
	}
	return cfg
}

// applyFileFallbacks re-applies explicit YAML values over the envconfig
// result. envconfig.Process rewrites every field from its env var or
// default tag, so file values survive only for fields whose GHG_* variable
// is unset.
func applyFileFallbacks(cfg *Config, configFile string) {
	if configFile == "" {
		return
	}
	data, err := os.ReadFile(configFile)
	if err != nil {
		return
	}
	var f Config
	if yaml.Unmarshal(data, &f) != nil {
		return
	}

	overlayInt(&cfg.Server.Port, f.Server.Port, "GHG_SERVER_PORT")
	overlayDuration(&cfg.Server.ReadTimeout, f.Server.ReadTimeout, "GHG_SERVER_READ_TIMEOUT")
	overlayDuration(&cfg.Server.WriteTimeout, f.Server.WriteTimeout, "GHG_SERVER_WRITE_TIMEOUT")
	overlayDuration(&cfg.Server.IdleTimeout, f.Server.IdleTimeout, "GHG_SERVER_IDLE_TIMEOUT")
	overlayDuration(&cfg.Server.ShutdownTimeout, f.Server.ShutdownTimeout, "GHG_SERVER_SHUTDOWN_TIMEOUT")

	overlayString(&cfg.Logging.Level, f.Logging.Level, "GHG_LOGGING_LEVEL")
	overlayString(&cfg.Logging.Format, f.Logging.Format, "GHG_LOGGING_FORMAT")
	overlayString(&cfg.Logging.Output, f.Logging.Output, "GHG_LOGGING_OUTPUT")
	overlayString(&cfg.Logging.FilePath, f.Logging.FilePath, "GHG_LOGGING_FILE_PATH")

	overlayString(&cfg.Paths.DataDir, f.Paths.DataDir, "GHG_PATHS_DATA_DIR")
	overlayString(&cfg.Paths.RawDir, f.Paths.RawDir, "GHG_PATHS_RAW_DIR")
	overlayString(&cfg.Paths.ProcessedDir, f.Paths.ProcessedDir, "GHG_PATHS_PROCESSED_DIR")
	overlayString(&cfg.Paths.LineageFile, f.Paths.LineageFile, "GHG_PATHS_LINEAGE_FILE")
	overlayString(&cfg.Paths.LogsDir, f.Paths.LogsDir, "GHG_PATHS_LOGS_DIR")

	overlayInt(&cfg.Inference.HeaderScanRows, f.Inference.HeaderScanRows, "GHG_INFERENCE_HEADER_SCAN_ROWS")
	overlayInt(&cfg.Inference.SheetHeaderScan, f.Inference.SheetHeaderScan, "GHG_INFERENCE_SHEET_HEADER_SCAN")
	overlayInt(&cfg.Inference.SheetPrefixRows, f.Inference.SheetPrefixRows, "GHG_INFERENCE_SHEET_PREFIX_ROWS")
	overlayInt(&cfg.Inference.CSVSampleRows, f.Inference.CSVSampleRows, "GHG_INFERENCE_CSV_SAMPLE_ROWS")
	overlayInt(&cfg.Inference.CodeSampleSize, f.Inference.CodeSampleSize, "GHG_INFERENCE_CODE_SAMPLE_SIZE")
	overlayInt(&cfg.Inference.CodeMatchThreshold, f.Inference.CodeMatchThreshold, "GHG_INFERENCE_CODE_MATCH_THRESHOLD")

	overlayInt(&cfg.Dataset.MinYear, f.Dataset.MinYear, "GHG_DATASET_MIN_YEAR")
	overlayInt(&cfg.Dataset.MaxYear, f.Dataset.MaxYear, "GHG_DATASET_MAX_YEAR")
	overlayInt(&cfg.Dataset.SummaryYear, f.Dataset.SummaryYear, "GHG_DATASET_SUMMARY_YEAR")
	overlayInt(&cfg.Dataset.PopulationYear, f.Dataset.PopulationYear, "GHG_DATASET_POPULATION_YEAR")

	overlayFloat(&cfg.RateLimit.RPS, f.RateLimit.RPS, "GHG_RATE_LIMIT_RPS")
	overlayInt(&cfg.RateLimit.Burst, f.RateLimit.Burst, "GHG_RATE_LIMIT_BURST")

	// The enabled flag needs presence detection since false is a valid
	// explicit value.
	var flags struct {
		RateLimit struct {
			Enabled *bool `yaml:"enabled"`
		} `yaml:"rate_limit"`
	}
	if yaml.Unmarshal(data, &flags) == nil && flags.RateLimit.Enabled != nil {
		if _, set := os.LookupEnv("GHG_RATE_LIMIT_ENABLED"); !set {
			cfg.RateLimit.Enabled = *flags.RateLimit.Enabled
		}
	}
}

func overlayString(dst *string, fileVal, envKey string) {
	if fileVal == "" {
		return
	}
	if _, set := os.LookupEnv(envKey); set {
		return
	}
	*dst = fileVal
}

func overlayInt(dst *int, fileVal int, envKey string) {
	if fileVal == 0 {
		return
	}
	if _, set := os.LookupEnv(envKey); set {
		return
	}
	*dst = fileVal
}

func overlayFloat(dst *float64, fileVal float64, envKey string) {
	if fileVal == 0 {
		return
	}
	if _, set := os.LookupEnv(envKey); set {
		return
	}
	*dst = fileVal
}

func overlayDuration(dst *time.Duration, fileVal time.Duration, envKey string) {
	if fileVal == 0 {
		return
	}
	if _, set := os.LookupEnv(envKey); set {
		return
	}
	*dst = fileVal
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Inference.HeaderScanRows < 1 {
		return fmt.Errorf("header_scan_rows must be positive")
	}
	if c.Inference.CodeSampleSize < c.Inference.CodeMatchThreshold {
		return fmt.Errorf("code_sample_size %d below code_match_threshold %d",
			c.Inference.CodeSampleSize, c.Inference.CodeMatchThreshold)
	}
	if c.Dataset.MinYear > c.Dataset.MaxYear {
		return fmt.Errorf("min_year %d after max_year %d", c.Dataset.MinYear, c.Dataset.MaxYear)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	return nil
}
