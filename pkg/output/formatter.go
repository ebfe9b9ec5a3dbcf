package output

import (
	"fmt"
	"io"

	"github.com/sdejongh/replicasync/pkg/models"
)

// Formatter defines the interface for run output
// Implementations include human-readable, JSON and progress formatters
type Formatter interface {
	// Start initializes the formatter for a new run.
	// A nil writer means standard output.
	Start(writer io.Writer, source, replica string) error

	// Action reports a change applied to the replica
	Action(action models.SyncAction) error

	// Complete finalizes output and displays summary
	Complete(report *models.SyncReport) error

	// Error reports an error that aborted the run
	Error(err error) error

	// Name returns the formatter name
	Name() string
}

// New returns the formatter for a configured output format. With progress
// set, human output gets a live counter.
func New(format string, progress bool) (Formatter, error) {
	switch format {
	case "human", "":
		if progress {
			return NewProgressFormatter(), nil
		}
		return NewHumanFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}
