package output

import (
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"

	"github.com/sdejongh/replicasync/pkg/models"
)

// JSONFormatter writes one JSON event per line for automation and scripting
type JSONFormatter struct {
	encoder *json.Encoder
}

// JSONEvent represents a single event in the JSON output stream
type JSONEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Data      any       `json:"data,omitempty"`
}

// JSONStartData represents the data for a start event
type JSONStartData struct {
	Source  string `json:"source"`
	Replica string `json:"replica"`
}

// JSONActionData represents a replica change
type JSONActionData struct {
	Action  string `json:"action"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

// JSONReportData represents the final report data
type JSONReportData struct {
	RunID      string        `json:"run_id"`
	Status     string        `json:"status"`
	Duration   string        `json:"duration"`
	DurationMs int64         `json:"duration_ms"`
	Stats      JSONStatsData `json:"stats"`
	Error      string        `json:"error,omitempty"`
}

// JSONStatsData represents statistics in JSON format
type JSONStatsData struct {
	EntriesScanned   int    `json:"entries_scanned"`
	EntriesSkipped   int    `json:"entries_skipped"`
	DirsCreated      int    `json:"dirs_created"`
	FilesCreated     int    `json:"files_created"`
	ContentUpdated   int    `json:"content_updated"`
	ModeUpdated      int    `json:"mode_updated"`
	OwnershipUpdated int    `json:"ownership_updated"`
	DirsDeleted      int    `json:"dirs_deleted"`
	FilesDeleted     int    `json:"files_deleted"`
	BytesCopied      int64  `json:"bytes_copied"`
	AverageSpeed     int64  `json:"average_speed_bytes_per_sec,omitempty"`
	AverageSpeedStr  string `json:"average_speed,omitempty"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Start initializes the formatter
func (f *JSONFormatter) Start(writer io.Writer, source, replica string) error {
	if writer == nil {
		writer = os.Stdout
	}
	f.encoder = json.NewEncoder(writer)

	return f.emit("start", JSONStartData{Source: source, Replica: replica})
}

// Action emits an action event
func (f *JSONFormatter) Action(action models.SyncAction) error {
	return f.emit("action", JSONActionData{
		Action:  string(action.Kind),
		Path:    action.Path,
		Message: action.Message(),
	})
}

// Complete emits the final report
func (f *JSONFormatter) Complete(report *models.SyncReport) error {
	stats := report.Stats
	data := JSONReportData{
		RunID:      report.RunID,
		Status:     string(report.Status),
		Duration:   report.Duration.Round(time.Millisecond).String(),
		DurationMs: report.Duration.Milliseconds(),
		Stats: JSONStatsData{
			EntriesScanned:   stats.EntriesScanned,
			EntriesSkipped:   stats.EntriesSkipped,
			DirsCreated:      stats.DirsCreated,
			FilesCreated:     stats.FilesCreated,
			ContentUpdated:   stats.ContentUpdated,
			ModeUpdated:      stats.ModeUpdated,
			OwnershipUpdated: stats.OwnershipUpdated,
			DirsDeleted:      stats.DirsDeleted,
			FilesDeleted:     stats.FilesDeleted,
			BytesCopied:      stats.BytesCopied,
		},
		Error: report.Error,
	}
	if speed := averageSpeed(report); speed > 0 {
		data.Stats.AverageSpeed = speed
		data.Stats.AverageSpeedStr = humanize.IBytes(uint64(speed)) + "/s"
	}

	return f.emit("complete", data)
}

// Error emits an error event
func (f *JSONFormatter) Error(err error) error {
	return f.emit("error", map[string]string{
		"error": err.Error(),
	})
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

func (f *JSONFormatter) emit(eventType string, data any) error {
	if f.encoder == nil {
		f.encoder = json.NewEncoder(io.Discard)
	}
	return f.encoder.Encode(JSONEvent{
		Timestamp: time.Now().UTC(),
		Type:      eventType,
		Data:      data,
	})
}
