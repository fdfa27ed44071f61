package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/carlosaherrerap/Evidencias/internal/model"
)

// Config holds all Evidencias configuration.
type Config struct {
	Schema SchemaConfig `yaml:"schema"`
	Log    LogConfig    `yaml:"log"`
	Output OutputConfig `yaml:"output"`
}

// SchemaConfig points at an optional synonym table.
type SchemaConfig struct {
	File string `yaml:"file"` // YAML synonym groups; empty = built-in table
}

// LogConfig holds process and audit logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`   // "debug", "info", "warn", "error"
	Format string `yaml:"format"`  // "text", "json"
	RunLog string `yaml:"run_log"` // zap audit file; empty = disabled
}

// OutputConfig holds progress output settings.
type OutputConfig struct {
	Format          string `yaml:"format"`            // "text", "json"
	Pretty          bool   `yaml:"pretty"`            // indent JSON progress
	MinLevel        string `yaml:"min_level"`         // lowest event level shown on stdout
	Progress        string `yaml:"progress"`          // NDJSON progress file; empty = disabled
	ProgressMaxSize int64  `yaml:"progress_max_size"` // bytes before the progress file rotates; 0 = never
	ProgressBackups int    `yaml:"progress_backups"`  // rotated progress files kept
	BufferSize      int    `yaml:"buffer_size"`       // async buffer between the run and slow sinks
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	cfg := Config{
		Schema: SchemaConfig{
			File: os.Getenv("EVIDENCIAS_SCHEMA"),
		},
		Log: LogConfig{
			Level:  getenv("EVIDENCIAS_LOG_LEVEL", "info"),
			Format: getenv("EVIDENCIAS_LOG_FORMAT", "text"),
			RunLog: os.Getenv("EVIDENCIAS_RUN_LOG"),
		},
		Output: OutputConfig{
			Format:          getenv("EVIDENCIAS_OUTPUT", "text"),
			Pretty:          getenvBool("EVIDENCIAS_OUTPUT_PRETTY", false),
			MinLevel:        getenv("EVIDENCIAS_MIN_LEVEL", "info"),
			Progress:        os.Getenv("EVIDENCIAS_PROGRESS_FILE"),
			ProgressMaxSize: getenvInt64("EVIDENCIAS_PROGRESS_MAX_SIZE", 0),
			ProgressBackups: getenvInt("EVIDENCIAS_PROGRESS_BACKUPS", 3),
			BufferSize:      getenvInt("EVIDENCIAS_BUFFER_SIZE", 256),
		},
	}
	cfg.Normalize()
	return cfg
}

// LoadFile returns Load() overlaid with the keys set in a YAML file.
func LoadFile(path string) (Config, error) {
	cfg := Load()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Normalize lowercases and trims the enumerated settings so later
// comparisons can be exact. Call it again after overriding fields.
func (c *Config) Normalize() {
	for _, v := range []*string{&c.Log.Level, &c.Log.Format, &c.Output.Format, &c.Output.MinLevel} {
		*v = strings.ToLower(strings.TrimSpace(*v))
	}
}

// Validate checks all config values and returns every problem found.
func (c Config) Validate() error {
	var errs []error

	if _, ok := model.ParseLevel(c.Log.Level); !ok {
		errs = append(errs, fmt.Errorf("log level %q: must be debug, info, warn or error", c.Log.Level))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log format %q: must be text or json", c.Log.Format))
	}
	if c.Output.Format != "text" && c.Output.Format != "json" {
		errs = append(errs, fmt.Errorf("output format %q: must be text or json", c.Output.Format))
	}
	if _, ok := model.ParseLevel(c.Output.MinLevel); !ok {
		errs = append(errs, fmt.Errorf("output min level %q: must be debug, info, warn or error", c.Output.MinLevel))
	}
	if c.Output.ProgressMaxSize < 0 {
		errs = append(errs, fmt.Errorf("progress max size %d: must not be negative", c.Output.ProgressMaxSize))
	}
	if c.Output.ProgressBackups < 0 {
		errs = append(errs, fmt.Errorf("progress backups %d: must not be negative", c.Output.ProgressBackups))
	}
	if c.Output.BufferSize < 0 {
		errs = append(errs, fmt.Errorf("output buffer size %d: must not be negative", c.Output.BufferSize))
	}
	if c.Schema.File != "" {
		if _, err := os.Stat(c.Schema.File); err != nil {
			errs = append(errs, fmt.Errorf("schema file: %w", err))
		}
	}

	return errors.Join(errs...)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
