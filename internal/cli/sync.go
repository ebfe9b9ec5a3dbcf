package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sdejongh/replicasync/internal/runlock"
	"github.com/sdejongh/replicasync/pkg/config"
	"github.com/sdejongh/replicasync/pkg/logging"
	"github.com/sdejongh/replicasync/pkg/models"
	"github.com/sdejongh/replicasync/pkg/output"
	"github.com/sdejongh/replicasync/pkg/ratelimit"
	"github.com/sdejongh/replicasync/pkg/schedule"
	"github.com/sdejongh/replicasync/pkg/sync"
)

// SyncFlags holds sync command flags
type SyncFlags struct {
	Source     string
	Replica    string
	Interval   string
	Exclude    []string
	BufferSize int
	Bandwidth  string
	Output     string
	Progress   bool
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

var syncFlags SyncFlags

// NewSyncCommand creates the sync command
func NewSyncCommand() *cobra.Command {
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Mirror a source directory into a replica directory",
		Long: `Make the replica directory identical to the source directory.
Missing directories and files are created, files whose size, modification
time, permission bits or owners differ are updated, and replica entries that
no longer exist in the source are removed.

With --interval the synchronization repeats until interrupted. The interval
is a number followed by a unit: 5s, 10m, 4h or 2d.`,
		Example: `  replicasync sync -s ./data -r /mnt/backup/data
  replicasync sync -s ./data -r /mnt/backup/data -t 10m -l sync.log`,
		RunE: runSync,
	}

	cmd.Flags().StringVarP(&syncFlags.Source, "source", "s", "", "source directory path")
	cmd.Flags().StringVarP(&syncFlags.Replica, "replica", "r", "", "replica directory path")
	cmd.Flags().StringVarP(&syncFlags.Interval, "interval", "t", "", "repeat every interval, e.g. 30s, 10m, 4h, 2d (default: run once)")
	cmd.Flags().StringSliceVar(&syncFlags.Exclude, "exclude", nil, "gitignore-style patterns to leave out of the mirror")
	cmd.Flags().IntVar(&syncFlags.BufferSize, "buffer-size", defaults.Performance.BufferSize, "copy buffer size in bytes")
	cmd.Flags().StringVarP(&syncFlags.Bandwidth, "bandwidth", "b", "", "bandwidth limit (e.g., \"10M\", \"1GiB\")")
	cmd.Flags().StringVarP(&syncFlags.Output, "output", "o", defaults.Output.Format, "output format: human, json")
	cmd.Flags().BoolVar(&syncFlags.Progress, "progress", defaults.Output.Progress, "show a live action counter (human output)")

	// Logging flags
	cmd.Flags().StringVarP(&syncFlags.LogFile, "log-file", "l", "", "also write logs to this file")
	cmd.Flags().StringVar(&syncFlags.LogFormat, "log-format", defaults.Logging.Format, "log file format: text, json")
	cmd.Flags().StringVar(&syncFlags.LogLevel, "log-level", defaults.Logging.Level, "log level: debug, info, warn, error")

	return cmd
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Load configuration
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Validate flags
	if err := validatePaths(cfg.Sync.Source, cfg.Sync.Replica); err != nil {
		return err
	}

	interval, err := schedule.ParseInterval(cfg.Sync.Interval)
	if err != nil {
		return err
	}
	bandwidth, err := ratelimit.ParseRate(cfg.Performance.BandwidthLimit)
	if err != nil {
		return err
	}

	// Create logger
	logger, err := createLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()
	slog.SetDefault(logger.Slog())

	// Create output formatter
	formatter, err := output.New(cfg.Output.Format, cfg.Output.Progress)
	if err != nil {
		return err
	}
	var out io.Writer = cmd.OutOrStdout()
	if cfg.Output.Quiet {
		out = io.Discard
	}

	lock, err := runlock.Acquire(cfg.Sync.Replica)
	if err != nil {
		return fmt.Errorf("cannot synchronize into %s: %w", cfg.Sync.Replica, err)
	}
	defer lock.Release()

	synchronizer := sync.NewSynchronizer(nil, formatter, logger, sync.Options{
		Exclude:        cfg.Sync.Exclude,
		BandwidthLimit: bandwidth,
		BufferSize:     cfg.Performance.BufferSize,
		Output:         out,
	})

	var last *models.SyncReport
	runner := &schedule.Runner{
		Interval: interval,
		Spec:     cfg.Sync.Interval,
		Logger:   logger,
		Job: func(ctx context.Context) error {
			report, err := synchronizer.Synchronize(ctx, cfg.Sync.Source, cfg.Sync.Replica)
			last = report
			return err
		},
	}

	err = runner.Run(ctx)
	if interval > 0 {
		logger.Info(ctx, "Synchronization finished", nil)
	}
	if err != nil {
		code := models.StatusFailed.ExitCode()
		if last != nil {
			code = last.Status.ExitCode()
		}
		return &ExitError{Code: code, Err: fmt.Errorf("sync failed: %w", err)}
	}

	return nil
}

// createLogger builds the console logger and the optional log file
func createLogger(cfg *config.Config, console io.Writer) (*logging.SlogLogger, error) {
	level := logging.ParseLevel(cfg.Logging.Level)
	consoleLevel := level
	if cfg.Output.Quiet {
		consoleLevel = slog.LevelError
	}

	return logging.New(logging.Options{
		Level:        level,
		Console:      console,
		ConsoleLevel: consoleLevel,
		FilePath:     cfg.Logging.File,
		FileFormat:   logging.Format(cfg.Logging.Format),
		MaxSize:      cfg.Logging.MaxSize,
		MaxBackups:   cfg.Logging.MaxBackups,
	})
}
