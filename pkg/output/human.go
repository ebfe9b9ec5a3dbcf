package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/sdejongh/replicasync/pkg/models"
)

// HumanFormatter formats output in human-readable format
type HumanFormatter struct {
	writer    io.Writer
	startTime time.Time
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

// Start initializes the formatter
func (f *HumanFormatter) Start(writer io.Writer, source, replica string) error {
	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer
	f.startTime = time.Now()

	_, err := fmt.Fprintf(writer, "Synchronizing %s -> %s\n", source, replica)
	return err
}

// Action is silent; every action is already logged
func (f *HumanFormatter) Action(action models.SyncAction) error {
	return nil
}

// Complete finalizes output and displays summary
func (f *HumanFormatter) Complete(report *models.SyncReport) error {
	if f.writer == nil {
		f.writer = io.Discard
	}
	writeSummary(f.writer, report)
	return nil
}

// Error reports an error
func (f *HumanFormatter) Error(err error) error {
	if f.writer != nil {
		fmt.Fprintf(f.writer, "Error: %v\n", err)
	}
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

// writeSummary prints the end-of-run statistics
func writeSummary(w io.Writer, report *models.SyncReport) {
	stats := report.Stats

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Sync completed in %s\n", report.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Summary:\n")
	fmt.Fprintf(w, "  Entries scanned:      %d\n", stats.EntriesScanned)
	fmt.Fprintf(w, "  Entries skipped:      %d\n", stats.EntriesSkipped)
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Operations:\n")
	fmt.Fprintf(w, "    Dirs created:       %d\n", stats.DirsCreated)
	fmt.Fprintf(w, "    Files copied:       %d\n", stats.FilesCreated)
	fmt.Fprintf(w, "    Content updated:    %d\n", stats.ContentUpdated)
	fmt.Fprintf(w, "    Mode updated:       %d\n", stats.ModeUpdated)
	fmt.Fprintf(w, "    Owners updated:     %d\n", stats.OwnershipUpdated)
	fmt.Fprintf(w, "    Dirs deleted:       %d\n", stats.DirsDeleted)
	fmt.Fprintf(w, "    Files deleted:      %d\n", stats.FilesDeleted)
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Transfer:\n")
	fmt.Fprintf(w, "    Data:               %s\n", humanize.IBytes(uint64(stats.BytesCopied)))

	if speed := averageSpeed(report); speed > 0 {
		fmt.Fprintf(w, "    Average speed:      %s/s\n", humanize.IBytes(uint64(speed)))
	}

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Status: %s\n", report.Status)

	if report.Error != "" {
		fmt.Fprintf(w, "Error:  %s\n", report.Error)
	}
}

// averageSpeed returns bytes per second over the whole run
func averageSpeed(report *models.SyncReport) int64 {
	if report.Duration.Seconds() <= 0 {
		return 0
	}
	return int64(float64(report.Stats.BytesCopied) / report.Duration.Seconds())
}
