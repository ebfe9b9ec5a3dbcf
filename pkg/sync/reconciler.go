package sync

import (
	"context"

	"github.com/sdejongh/replicasync/pkg/logging"
	"github.com/sdejongh/replicasync/pkg/models"
	"github.com/sdejongh/replicasync/pkg/ratelimit"
)

// forwardPass walks source and creates or updates every replica entry
func (e *Engine) forwardPass(ctx context.Context) error {
	e.logger.Debug(ctx, "Starting forward pass", nil)

	for entry, err := range e.source.Walk(ctx, e.skip) {
		if err != nil {
			return e.walkError(ctx, e.source.Root(), err)
		}
		e.report.Stats.EntriesScanned++

		e.logger.Debug(ctx, "Processing item: "+entry.RelativePath, nil)

		switch entry.Kind {
		case models.KindDirectory:
			err = e.syncDirectory(ctx, entry)
		case models.KindFile:
			err = e.syncFile(ctx, entry)
		default:
			e.report.Stats.EntriesSkipped++
			e.logger.Debug(ctx, "Skipping non-regular entry", logging.Fields{
				"path": entry.AbsolutePath,
			})
		}
		if err != nil {
			return err
		}
	}

	return nil
}

// cleanupPass walks replica and deletes every entry whose source path is gone
func (e *Engine) cleanupPass(ctx context.Context) error {
	e.logger.Debug(ctx, "Starting cleanup pass", nil)

	for entry, err := range e.replica.Walk(ctx, e.skip) {
		if err != nil {
			return e.walkError(ctx, e.replica.Root(), err)
		}
		e.report.Stats.EntriesScanned++

		_, exists, err := e.source.Lookup(ctx, entry.RelativePath)
		if err != nil {
			return &OperationError{Op: "stat", Path: e.source.Path(entry.RelativePath), Err: err}
		}
		if exists {
			continue
		}

		// A removed directory is not descended into by the walker
		if err := e.deleteReplica(ctx, entry.RelativePath, entry.Kind); err != nil {
			return err
		}
	}

	return nil
}

// syncDirectory creates a missing replica directory. A non-directory in
// its place is removed first.
func (e *Engine) syncDirectory(ctx context.Context, entry models.Entry) error {
	kind, exists, err := e.replica.Lookup(ctx, entry.RelativePath)
	if err != nil {
		return &OperationError{Op: "stat", Path: e.replica.Path(entry.RelativePath), Err: err}
	}

	if exists && kind == models.KindDirectory {
		return nil
	}
	if exists {
		if err := e.deleteReplica(ctx, entry.RelativePath, kind); err != nil {
			return err
		}
	}

	action := e.newAction(models.ActionCreateDirectory, entry.RelativePath)
	e.announce(ctx, action)

	if err := e.replica.Mkdir(ctx, entry.RelativePath); err != nil {
		return &OperationError{Op: "mkdir", Path: action.Path, Err: err}
	}

	e.report.Record(action, 0)
	return nil
}

// syncFile copies a missing file or brings an existing one up to date
func (e *Engine) syncFile(ctx context.Context, entry models.Entry) error {
	kind, exists, err := e.replica.Lookup(ctx, entry.RelativePath)
	if err != nil {
		return &OperationError{Op: "stat", Path: e.replica.Path(entry.RelativePath), Err: err}
	}

	if exists && kind != models.KindFile {
		if err := e.deleteReplica(ctx, entry.RelativePath, kind); err != nil {
			return err
		}
		exists = false
	}

	sourceMeta, err := e.source.Stat(ctx, entry.RelativePath)
	if err != nil {
		return &OperationError{Op: "stat", Path: entry.AbsolutePath, Err: err}
	}

	if !exists {
		action := e.newAction(models.ActionCreateFile, entry.RelativePath)
		return e.copyFile(ctx, action, entry, sourceMeta)
	}

	replicaMeta, err := e.replica.Stat(ctx, entry.RelativePath)
	if err != nil {
		return &OperationError{Op: "stat", Path: e.replica.Path(entry.RelativePath), Err: err}
	}

	// All three checks use the snapshots taken before any change, so a
	// single visit may emit up to three updates
	staleness := e.comparator.NeedsUpdate(sourceMeta, replicaMeta)

	if staleness.Content {
		action := e.newUpdate(models.ActionUpdateContent, entry.RelativePath, sourceMeta, replicaMeta)
		if err := e.copyFile(ctx, action, entry, sourceMeta); err != nil {
			return err
		}
	}

	if staleness.Mode {
		action := e.newUpdate(models.ActionUpdateMode, entry.RelativePath, sourceMeta, replicaMeta)
		e.announce(ctx, action)
		if err := e.replica.Chmod(ctx, entry.RelativePath, sourceMeta.Mode); err != nil {
			return &OperationError{Op: "chmod", Path: action.Path, Err: err}
		}
		e.report.Record(action, 0)
	}

	if staleness.Owner {
		action := e.newUpdate(models.ActionUpdateOwnership, entry.RelativePath, sourceMeta, replicaMeta)
		e.announce(ctx, action)
		if err := e.replica.Chown(ctx, entry.RelativePath, sourceMeta.UID, sourceMeta.GID); err != nil {
			return &OperationError{Op: "chown", Path: action.Path, Err: err}
		}
		// chown clears setuid and setgid on regular files
		if sourceMeta.Perm()&0o6000 != 0 {
			if err := e.replica.Chmod(ctx, entry.RelativePath, sourceMeta.Mode); err != nil {
				return &OperationError{Op: "chmod", Path: action.Path, Err: err}
			}
		}
		e.report.Record(action, 0)
	}

	return nil
}

// copyFile replaces the replica file with source content and metadata
func (e *Engine) copyFile(ctx context.Context, action models.SyncAction, entry models.Entry, meta *models.Metadata) error {
	e.announce(ctx, action)

	reader, err := e.source.Open(ctx, entry.RelativePath)
	if err != nil {
		return &OperationError{Op: "open", Path: entry.AbsolutePath, Err: err}
	}
	defer reader.Close()

	written, err := e.replica.WriteFile(ctx, entry.RelativePath, ratelimit.NewReader(ctx, reader, e.limiter), meta)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &OperationError{Op: "copy", Path: action.Path, Err: err}
	}

	e.report.Record(action, written)
	return nil
}

// deleteReplica removes a replica object of the given kind
func (e *Engine) deleteReplica(ctx context.Context, rel string, kind models.EntryKind) error {
	if kind == models.KindDirectory {
		action := e.newAction(models.ActionDeleteDirectory, rel)
		e.announce(ctx, action)
		if err := e.replica.RemoveAll(ctx, rel); err != nil {
			return &OperationError{Op: "remove", Path: action.Path, Err: err}
		}
		e.report.Record(action, 0)
		return nil
	}

	action := e.newAction(models.ActionDeleteFile, rel)
	e.announce(ctx, action)
	if err := e.replica.Remove(ctx, rel); err != nil {
		return &OperationError{Op: "remove", Path: action.Path, Err: err}
	}
	e.report.Record(action, 0)
	return nil
}

func (e *Engine) newAction(kind models.ActionKind, rel string) models.SyncAction {
	return models.SyncAction{
		Kind:         kind,
		Path:         e.replica.Path(rel),
		RelativePath: rel,
	}
}

func (e *Engine) newUpdate(kind models.ActionKind, rel string, source, replica *models.Metadata) models.SyncAction {
	action := e.newAction(kind, rel)
	action.Source = source
	action.Replica = replica
	return action
}

// announce logs an action before it is applied
func (e *Engine) announce(ctx context.Context, action models.SyncAction) {
	e.logger.Info(ctx, action.Message(), logging.Fields{
		"action": string(action.Kind),
		"path":   action.Path,
	})
	if e.formatter != nil {
		e.formatter.Action(action)
	}
}

// walkError separates cancellation from real walk failures
func (e *Engine) walkError(ctx context.Context, root string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return &OperationError{Op: "walk", Path: root, Err: err}
}
