package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"

	"github.com/sdejongh/replicasync/pkg/models"
)

const (
	// progressTemplate shows a running action count and the last path touched
	progressTemplate pb.ProgressBarTemplate = `{{string . "prefix"}}{{counters . }} actions {{etime . }} {{string . "path"}}`

	refreshRate = 200 * time.Millisecond
)

// ProgressFormatter shows a live action counter and finishes with the
// human-readable summary
type ProgressFormatter struct {
	writer io.Writer

	mu  sync.Mutex
	bar *pb.ProgressBar
}

// NewProgressFormatter creates a new progress formatter
func NewProgressFormatter() *ProgressFormatter {
	return &ProgressFormatter{}
}

// Start initializes the formatter
func (f *ProgressFormatter) Start(writer io.Writer, source, replica string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer

	// The total is unknown since the tree is walked lazily
	f.bar = progressTemplate.New(0).
		SetWriter(writer).
		SetRefreshRate(refreshRate).
		Set("prefix", fmt.Sprintf("%s -> %s: ", source, replica))
	if width := terminalWidth(writer); width > 0 {
		f.bar.SetWidth(width)
	}
	f.bar.Start()

	return nil
}

// Action advances the counter
func (f *ProgressFormatter) Action(action models.SyncAction) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bar == nil {
		return nil
	}
	f.bar.Set("path", action.RelativePath)
	f.bar.Increment()
	return nil
}

// Complete stops the counter and displays the summary
func (f *ProgressFormatter) Complete(report *models.SyncReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.finish()
	if f.writer == nil {
		f.writer = io.Discard
	}
	writeSummary(f.writer, report)
	return nil
}

// Error stops the counter and reports the error
func (f *ProgressFormatter) Error(err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.finish()
	if f.writer != nil {
		fmt.Fprintf(f.writer, "Error: %v\n", err)
	}
	return nil
}

// Name returns the formatter name
func (f *ProgressFormatter) Name() string {
	return "progress"
}

func (f *ProgressFormatter) finish() {
	if f.bar != nil {
		f.bar.Finish()
		f.bar = nil
	}
}

// terminalWidth returns the column count of a terminal writer, or 0
func terminalWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok {
		return 0
	}
	if width, _, err := term.GetSize(int(file.Fd())); err == nil && width > 0 {
		return width
	}
	return 0
}
