package sync

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/sdejongh/replicasync/pkg/compare"
	"github.com/sdejongh/replicasync/pkg/logging"
	"github.com/sdejongh/replicasync/pkg/models"
	"github.com/sdejongh/replicasync/pkg/output"
	"github.com/sdejongh/replicasync/pkg/ratelimit"
	"github.com/sdejongh/replicasync/pkg/storage"
)

// Options tunes a run
type Options struct {
	// Exclude holds gitignore-style patterns; excluded paths are neither
	// mirrored nor deleted
	Exclude []string

	// BandwidthLimit caps content copies in bytes per second (0 = unlimited)
	BandwidthLimit int64

	// BufferSize is the copy buffer size (0 = storage default)
	BufferSize int

	// Output receives formatter output (nil = standard output)
	Output io.Writer
}

// Engine runs the forward pass then the cleanup pass over two backends.
// It is single-use: create one Engine per run.
type Engine struct {
	source     storage.Backend
	replica    storage.Backend
	comparator compare.Comparator
	formatter  output.Formatter
	logger     logging.Logger
	options    Options

	excluder *Excluder
	limiter  *ratelimit.Limiter

	runID       string
	sourcePath  string
	replicaPath string
	report      *models.SyncReport
}

// NewEngine creates a new sync engine. A nil comparator compares
// ownership only where the platform supports it; a nil formatter
// disables run output and a nil logger discards logs.
func NewEngine(
	source, replica storage.Backend,
	comparator compare.Comparator,
	formatter output.Formatter,
	logger logging.Logger,
	options Options,
) *Engine {
	if comparator == nil {
		comparator = compare.NewMetadataComparator(!storage.OwnershipSupported())
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}

	return &Engine{
		source:      source,
		replica:     replica,
		comparator:  comparator,
		formatter:   formatter,
		logger:      logger,
		options:     options,
		excluder:    NewExcluder(options.Exclude),
		limiter:     ratelimit.NewLimiter(options.BandwidthLimit),
		runID:       uuid.NewString(),
		sourcePath:  source.Root(),
		replicaPath: replica.Root(),
	}
}

// Run executes both passes. The report is returned even when the run
// fails; the first failure aborts the remainder of the run.
func (e *Engine) Run(ctx context.Context) (*models.SyncReport, error) {
	e.report = &models.SyncReport{
		RunID:       e.runID,
		SourcePath:  e.sourcePath,
		ReplicaPath: e.replicaPath,
		StartTime:   time.Now(),
		Status:      models.StatusRunning,
	}

	if e.formatter != nil {
		if err := e.formatter.Start(e.options.Output, e.sourcePath, e.replicaPath); err != nil {
			e.logger.Warn(ctx, "Failed to start output", logging.Fields{"error": err.Error()})
		}
	}

	err := e.forwardPass(ctx)
	if err == nil {
		err = e.cleanupPass(ctx)
	}

	return e.finish(ctx, err)
}

// skip leaves excluded entries out of both walks
func (e *Engine) skip(entry models.Entry) bool {
	if e.excluder.Match(entry) {
		e.report.Stats.EntriesSkipped++
		return true
	}
	return false
}

func (e *Engine) finish(ctx context.Context, err error) (*models.SyncReport, error) {
	report := e.report
	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)

	switch {
	case err == nil:
		report.Status = models.StatusSuccess
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		report.Status = models.StatusCancelled
		report.Error = err.Error()
	default:
		report.Status = models.StatusFailed
		report.Error = err.Error()
	}

	fields := logging.Fields{
		"status":       string(report.Status),
		"actions":      report.Stats.TotalActions(),
		"bytes_copied": report.Stats.BytesCopied,
		"duration":     report.Duration.String(),
	}
	if err != nil {
		e.logger.Error(ctx, "Synchronization run aborted", err, fields)
	} else {
		e.logger.Debug(ctx, "Synchronization run completed", fields)
	}

	if e.formatter != nil {
		if err != nil {
			e.formatter.Error(err)
		}
		e.formatter.Complete(report)
	}

	return report, err
}
