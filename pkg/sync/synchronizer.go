package sync

import (
	"context"

	"github.com/google/uuid"

	"github.com/sdejongh/replicasync/pkg/compare"
	"github.com/sdejongh/replicasync/pkg/logging"
	"github.com/sdejongh/replicasync/pkg/models"
	"github.com/sdejongh/replicasync/pkg/output"
	"github.com/sdejongh/replicasync/pkg/storage"
)

// Synchronizer mirrors a source directory onto a replica directory on the
// same machine. Runs must not overlap on the same replica.
type Synchronizer struct {
	comparator compare.Comparator
	formatter  output.Formatter
	logger     logging.Logger
	options    Options
}

// NewSynchronizer creates a synchronizer. Nil collaborators get the same
// defaults as NewEngine.
func NewSynchronizer(
	comparator compare.Comparator,
	formatter output.Formatter,
	logger logging.Logger,
	options Options,
) *Synchronizer {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Synchronizer{
		comparator: comparator,
		formatter:  formatter,
		logger:     logger,
		options:    options,
	}
}

// Synchronize makes replica mirror source. Both roots are checked before
// any walk begins; a missing or non-directory root fails with an
// *InvalidDirectoryError and no report.
func (s *Synchronizer) Synchronize(ctx context.Context, source, replica string) (*models.SyncReport, error) {
	runID := uuid.NewString()
	logger := s.logger.WithFields(logging.Fields{"run_id": runID})

	logger.Info(ctx, models.StartMessage(source, replica), logging.Fields{
		"source":  source,
		"replica": replica,
	})

	sourceBackend, err := openRoot("source", source)
	if err != nil {
		logger.Error(ctx, "Synchronization rejected", err, nil)
		return nil, err
	}
	defer sourceBackend.Close()

	replicaBackend, err := openRoot("replica", replica)
	if err != nil {
		logger.Error(ctx, "Synchronization rejected", err, nil)
		return nil, err
	}
	defer replicaBackend.Close()

	if s.options.BufferSize > 0 {
		replicaBackend.SetBufferSize(s.options.BufferSize)
	}

	engine := NewEngine(sourceBackend, replicaBackend, s.comparator, s.formatter, logger, s.options)
	engine.runID = runID
	engine.sourcePath = source
	engine.replicaPath = replica

	return engine.Run(ctx)
}

// Synchronize runs one synchronization with default settings and no output
func Synchronize(ctx context.Context, source, replica string) error {
	_, err := NewSynchronizer(nil, nil, nil, Options{}).Synchronize(ctx, source, replica)
	return err
}

func openRoot(role, path string) (*storage.Local, error) {
	backend, err := storage.NewLocal(path)
	if err != nil {
		return nil, &InvalidDirectoryError{Role: role, Path: path, Err: err}
	}
	return backend, nil
}
