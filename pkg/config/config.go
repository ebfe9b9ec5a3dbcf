package config

import (
	"github.com/sdejongh/replicasync/pkg/logging"
	"github.com/sdejongh/replicasync/pkg/models"
	"github.com/sdejongh/replicasync/pkg/ratelimit"
	"github.com/sdejongh/replicasync/pkg/schedule"
)

// Config represents the application configuration
type Config struct {
	Sync        SyncConfig        `yaml:"sync" mapstructure:"sync"`
	Performance PerformanceConfig `yaml:"performance" mapstructure:"performance"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
}

// SyncConfig holds sync-related settings
type SyncConfig struct {
	Source   string   `yaml:"source" mapstructure:"source"`
	Replica  string   `yaml:"replica" mapstructure:"replica"`
	Interval string   `yaml:"interval" mapstructure:"interval"` // e.g. "30s", "10m"; empty = run once
	Exclude  []string `yaml:"exclude" mapstructure:"exclude"`   // gitignore-style patterns
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	BufferSize     int    `yaml:"buffer_size" mapstructure:"buffer_size"`
	BandwidthLimit string `yaml:"bandwidth_limit" mapstructure:"bandwidth_limit"` // e.g. "10M"; empty = unlimited
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format" mapstructure:"format"`     // "human" or "json"
	Progress bool   `yaml:"progress" mapstructure:"progress"` // Show a live counter
	Quiet    bool   `yaml:"quiet" mapstructure:"quiet"`       // Suppress non-error output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Format     string `yaml:"format" mapstructure:"format"`           // "json" or "text"
	Level      string `yaml:"level" mapstructure:"level"`             // "debug", "info", "warn", "error"
	File       string `yaml:"file" mapstructure:"file"`               // Log file path (empty = console only)
	MaxSize    int64  `yaml:"max_size" mapstructure:"max_size"`       // Bytes before rotation (0 = never)
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"` // Rotated files kept
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Sync: SyncConfig{
			Exclude: []string{},
		},
		Performance: PerformanceConfig{
			BufferSize: 65536,
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: false,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Format:     "text",
			Level:      "info",
			MaxSize:    10 * 1024 * 1024,
			MaxBackups: 3,
		},
	}
}

// Validate checks if the configuration is valid.
// Source and replica may be empty here; they are required only to run.
func (c *Config) Validate() error {
	if _, err := schedule.ParseInterval(c.Sync.Interval); err != nil {
		return &models.ValidationError{
			Field:   "sync.interval",
			Message: err.Error(),
		}
	}

	if c.Performance.BufferSize < 1024 {
		return &models.ValidationError{
			Field:   "performance.buffer_size",
			Message: "must be at least 1024 bytes",
		}
	}

	if _, err := ratelimit.ParseRate(c.Performance.BandwidthLimit); err != nil {
		return &models.ValidationError{
			Field:   "performance.bandwidth_limit",
			Message: "must be a byte size such as '10M' or '512KiB'",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[string]bool{string(logging.FormatJSON): true, string(logging.FormatText): true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	if !logging.ValidLevel(c.Logging.Level) {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	if c.Logging.MaxSize < 0 || c.Logging.MaxBackups < 0 {
		return &models.ValidationError{
			Field:   "logging.max_size",
			Message: "rotation limits must not be negative",
		}
	}

	return nil
}
