package models

import (
	"time"
)

// SyncReport represents the results of one synchronization run
type SyncReport struct {
	// RunID identifies the run in logs and reports
	RunID       string
	SourcePath  string
	ReplicaPath string

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Actions applied, in the order they were decided
	Actions []SyncAction

	// Statistics
	Stats Statistics

	// Overall status
	Status SyncStatus

	// Error holds the message of the error that aborted the run
	Error string
}

// Statistics holds per-run counters
type Statistics struct {
	EntriesScanned int // Entries visited across both passes

	DirsCreated       int
	FilesCreated      int
	ContentUpdated    int
	ModeUpdated       int
	OwnershipUpdated  int
	DirsDeleted       int
	FilesDeleted      int
	EntriesSkipped    int // Excluded or non-regular source entries

	BytesCopied int64
}

// Record adds an applied action to the report
func (r *SyncReport) Record(action SyncAction, bytesCopied int64) {
	r.Actions = append(r.Actions, action)
	r.Stats.BytesCopied += bytesCopied

	switch action.Kind {
	case ActionCreateDirectory:
		r.Stats.DirsCreated++
	case ActionCreateFile:
		r.Stats.FilesCreated++
	case ActionUpdateContent:
		r.Stats.ContentUpdated++
	case ActionUpdateMode:
		r.Stats.ModeUpdated++
	case ActionUpdateOwnership:
		r.Stats.OwnershipUpdated++
	case ActionDeleteDirectory:
		r.Stats.DirsDeleted++
	case ActionDeleteFile:
		r.Stats.FilesDeleted++
	}
}

// TotalActions returns the number of actions applied
func (s Statistics) TotalActions() int {
	return s.DirsCreated + s.FilesCreated + s.ContentUpdated + s.ModeUpdated +
		s.OwnershipUpdated + s.DirsDeleted + s.FilesDeleted
}

// SyncStatus represents the overall result
type SyncStatus string

const (
	// StatusRunning indicates the run has not finished yet
	StatusRunning SyncStatus = "running"
	// StatusSuccess indicates both passes completed
	StatusSuccess SyncStatus = "success"
	// StatusFailed indicates a filesystem operation aborted the run
	StatusFailed SyncStatus = "failed"
	// StatusCancelled indicates the run was cancelled
	StatusCancelled SyncStatus = "cancelled"
)

// ExitCode returns the appropriate exit code for the sync status
func (s SyncStatus) ExitCode() int {
	switch s {
	case StatusSuccess:
		return 0
	case StatusFailed:
		return 2
	case StatusCancelled:
		return 3
	default:
		return 2
	}
}
