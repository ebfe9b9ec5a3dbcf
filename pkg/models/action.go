package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ActionKind is the kind of filesystem change applied to the replica
type ActionKind string

const (
	// ActionCreateDirectory creates a directory missing from the replica
	ActionCreateDirectory ActionKind = "create_directory"
	// ActionCreateFile copies a file missing from the replica
	ActionCreateFile ActionKind = "create_file"
	// ActionUpdateContent re-copies a file whose size or mtime changed
	ActionUpdateContent ActionKind = "update_content"
	// ActionUpdateMode applies the source permission bits
	ActionUpdateMode ActionKind = "update_mode"
	// ActionUpdateOwnership applies the source owner and group
	ActionUpdateOwnership ActionKind = "update_ownership"
	// ActionDeleteDirectory removes a directory tree absent from source
	ActionDeleteDirectory ActionKind = "delete_directory"
	// ActionDeleteFile removes a file absent from source
	ActionDeleteFile ActionKind = "delete_file"
)

// SyncAction is one observable side effect on the replica.
// Actions are applied as soon as they are decided, never batched.
type SyncAction struct {
	Kind ActionKind

	// Path is the replica path the action targets
	Path string

	// RelativePath is Path relative to the replica root
	RelativePath string

	// Source and Replica hold the metadata snapshots that triggered an
	// update. Both are nil for create and delete actions.
	Source  *Metadata
	Replica *Metadata
}

// StartMessage is the log line emitted when a run begins
func StartMessage(source, replica string) string {
	return fmt.Sprintf("Started with synchronization of %s to %s", source, replica)
}

// Message renders the log line for the action. The formats are consumed
// by downstream log tooling and must not change.
func (a SyncAction) Message() string {
	switch a.Kind {
	case ActionCreateDirectory:
		return fmt.Sprintf("Creating new directory '%s' in replica", a.Path)
	case ActionCreateFile:
		return fmt.Sprintf("Copying missing file '%s' to replica", a.Path)
	case ActionUpdateContent:
		return fmt.Sprintf("Updating file with changed metadata '%s': original -> %s, replica -> %s",
			a.Path, statsInfo(a.Source), statsInfo(a.Replica))
	case ActionUpdateMode:
		return fmt.Sprintf("Updating file mode '%s': original -> %d, replica -> %d",
			a.Path, modeOf(a.Source), modeOf(a.Replica))
	case ActionUpdateOwnership:
		return fmt.Sprintf("Updating file owners of '%s': original -> %s, replica -> %s",
			a.Path, ownersInfo(a.Source), ownersInfo(a.Replica))
	case ActionDeleteDirectory:
		return fmt.Sprintf("Removing no longer existing directory '%s' from replica", a.Path)
	case ActionDeleteFile:
		return fmt.Sprintf("Removing no longer existing file '%s' from replica", a.Path)
	default:
		return fmt.Sprintf("Unknown action %q on '%s'", a.Kind, a.Path)
	}
}

// IsUpdate reports whether the action modifies an existing replica file
func (a SyncAction) IsUpdate() bool {
	switch a.Kind {
	case ActionUpdateContent, ActionUpdateMode, ActionUpdateOwnership:
		return true
	}
	return false
}

func statsInfo(m *Metadata) string {
	if m == nil {
		return "{}"
	}
	return fmt.Sprintf("{'size': %d, 'modified': %s}", m.Size, unixSeconds(m))
}

func ownersInfo(m *Metadata) string {
	if m == nil {
		return "{}"
	}
	return fmt.Sprintf("{'owner': %d, 'group': %d}", m.UID, m.GID)
}

func modeOf(m *Metadata) uint32 {
	if m == nil {
		return 0
	}
	return m.Mode
}

// unixSeconds formats the mtime as fractional seconds since the epoch.
// Whole seconds keep a ".0" suffix so every value reads as a float.
func unixSeconds(m *Metadata) string {
	if m.ModTime.IsZero() {
		return "0.0"
	}
	secs := float64(m.ModTime.Unix()) + float64(m.ModTime.Nanosecond())/1e9
	formatted := strconv.FormatFloat(secs, 'f', -1, 64)
	if !strings.ContainsAny(formatted, ".en") {
		formatted += ".0"
	}
	return formatted
}
