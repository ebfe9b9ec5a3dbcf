package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sdejongh/replicasync/pkg/config"
)

// envPrefix prefixes every environment override, e.g. REPLICASYNC_SYNC_SOURCE
const envPrefix = "REPLICASYNC"

// flagKeys maps command-line flags to configuration keys
var flagKeys = map[string]string{
	"source":      "sync.source",
	"replica":     "sync.replica",
	"interval":    "sync.interval",
	"exclude":     "sync.exclude",
	"buffer-size": "performance.buffer_size",
	"bandwidth":   "performance.bandwidth_limit",
	"output":      "output.format",
	"progress":    "output.progress",
	"quiet":       "output.quiet",
	"log-file":    "logging.file",
	"log-format":  "logging.format",
	"log-level":   "logging.level",
}

// loadConfig merges, from highest to lowest precedence: flags set on cmd,
// environment variables, the config file, then defaults
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := viper.New()
	setDefaults(v, config.Default())

	flags := GetGlobalFlags()
	path := flags.ConfigFile
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			return nil, err
		}
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound)
		if explicit || !missing {
			return nil, fmt.Errorf("config read '%s': %w", path, err)
		}
	}

	// Set up environment variables
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind flags to viper
	for name, key := range flagKeys {
		if flag := cmd.Flag(name); flag != nil {
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	cfg := &config.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if cfg.Sync.Exclude == nil {
		cfg.Sync.Exclude = []string{}
	}

	if flags.Verbose {
		cfg.Logging.Level = "debug"
	}
	if cfg.Output.Quiet {
		cfg.Output.Progress = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults registers every key so environment variables are picked up
// by Unmarshal even when no config file mentions them
func setDefaults(v *viper.Viper, cfg *config.Config) {
	v.SetDefault("sync.source", cfg.Sync.Source)
	v.SetDefault("sync.replica", cfg.Sync.Replica)
	v.SetDefault("sync.interval", cfg.Sync.Interval)
	v.SetDefault("sync.exclude", cfg.Sync.Exclude)
	v.SetDefault("performance.buffer_size", cfg.Performance.BufferSize)
	v.SetDefault("performance.bandwidth_limit", cfg.Performance.BandwidthLimit)
	v.SetDefault("output.format", cfg.Output.Format)
	v.SetDefault("output.progress", cfg.Output.Progress)
	v.SetDefault("output.quiet", cfg.Output.Quiet)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.max_size", cfg.Logging.MaxSize)
	v.SetDefault("logging.max_backups", cfg.Logging.MaxBackups)
}
