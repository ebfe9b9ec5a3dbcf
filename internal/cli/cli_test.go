package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/replicasync/pkg/config"
)

// isolate points the default config path at an empty home directory
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer

	root := NewRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestValidatePaths(t *testing.T) {
	base := t.TempDir()

	tests := []struct {
		name    string
		source  string
		replica string
		wantErr string
	}{
		{"valid", filepath.Join(base, "src"), filepath.Join(base, "dst"), ""},
		{"missing source", "", filepath.Join(base, "dst"), "source directory is required"},
		{"missing replica", filepath.Join(base, "src"), "", "replica directory is required"},
		{"same", filepath.Join(base, "src"), filepath.Join(base, "src", "."), "cannot be the same"},
		{"replica inside source", filepath.Join(base, "src"), filepath.Join(base, "src", "copy"), "replica cannot be inside"},
		{"source inside replica", filepath.Join(base, "dst", "src"), filepath.Join(base, "dst"), "source cannot be inside"},
		{"sibling prefix", filepath.Join(base, "src"), filepath.Join(base, "src2"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePaths(tt.source, tt.replica)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("boom")))

	exitErr := &ExitError{Code: 3, Err: context.Canceled}
	assert.Equal(t, 3, ExitCode(exitErr))
	assert.ErrorIs(t, exitErr, context.Canceled)
	assert.Equal(t, "context canceled", exitErr.Error())
}

// newLoadCommand builds a root with the sync command and parses args
// without running it
func newLoadCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	root := NewRootCommand()
	cmd, rest, err := root.Find(append([]string{"sync"}, args...))
	require.NoError(t, err)
	require.NoError(t, cmd.ParseFlags(rest))
	return cmd
}

func TestLoadConfigPrecedence(t *testing.T) {
	home := isolate(t)

	cfg := config.Default()
	cfg.Sync.Source = "/from/file"
	cfg.Sync.Replica = "/replica/file"
	cfg.Sync.Interval = "1h"
	cfg.Logging.Level = "warn"
	cfg.Performance.BufferSize = 4096
	path := filepath.Join(home, ".config", "replicasync", "config.yaml")
	require.NoError(t, config.SaveToFile(cfg, path))

	t.Run("defaults and file", func(t *testing.T) {
		got, err := loadConfig(newLoadCommand(t))
		require.NoError(t, err)
		assert.Equal(t, "/from/file", got.Sync.Source)
		assert.Equal(t, "1h", got.Sync.Interval)
		assert.Equal(t, "warn", got.Logging.Level)
		assert.Equal(t, 4096, got.Performance.BufferSize)
		assert.Equal(t, "human", got.Output.Format)
		assert.Equal(t, []string{}, got.Sync.Exclude)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("REPLICASYNC_SYNC_SOURCE", "/from/env")
		t.Setenv("REPLICASYNC_LOGGING_LEVEL", "error")

		got, err := loadConfig(newLoadCommand(t))
		require.NoError(t, err)
		assert.Equal(t, "/from/env", got.Sync.Source)
		assert.Equal(t, "error", got.Logging.Level)
		assert.Equal(t, "/replica/file", got.Sync.Replica)
	})

	t.Run("flags override environment", func(t *testing.T) {
		t.Setenv("REPLICASYNC_SYNC_SOURCE", "/from/env")

		got, err := loadConfig(newLoadCommand(t, "-s", "/from/flag", "--exclude", "*.tmp,.git/", "-v"))
		require.NoError(t, err)
		assert.Equal(t, "/from/flag", got.Sync.Source)
		assert.Equal(t, []string{"*.tmp", ".git/"}, got.Sync.Exclude)
		assert.Equal(t, "debug", got.Logging.Level)
	})

	t.Run("quiet disables progress", func(t *testing.T) {
		got, err := loadConfig(newLoadCommand(t, "--progress", "-q"))
		require.NoError(t, err)
		assert.True(t, got.Output.Quiet)
		assert.False(t, got.Output.Progress)
	})

	t.Run("invalid value", func(t *testing.T) {
		_, err := loadConfig(newLoadCommand(t, "-t", "10x"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown time unit was used: 'x'")
	})
}

func TestLoadConfigExplicitFileMissing(t *testing.T) {
	isolate(t)

	_, err := loadConfig(newLoadCommand(t, "--config", filepath.Join(t.TempDir(), "absent.yaml")))
	assert.Error(t, err)
}

func TestSyncCommand(t *testing.T) {
	isolate(t)
	base := t.TempDir()
	source := filepath.Join(base, "source")
	replica := filepath.Join(base, "replica")
	logFile := filepath.Join(base, "logs", "sync.log")

	writeFile(t, filepath.Join(source, "a.txt"), "alpha")
	writeFile(t, filepath.Join(source, "sub", "b.txt"), "bravo")
	writeFile(t, filepath.Join(source, "skip.tmp"), "skip")
	writeFile(t, filepath.Join(replica, "orphan.txt"), "orphan")

	stdout, stderr, err := execute(t, "sync",
		"-s", source, "-r", replica,
		"-l", logFile,
		"-o", "json",
		"--exclude", "*.tmp",
	)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(replica, "sub", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "bravo", string(data))
	assert.NoFileExists(t, filepath.Join(replica, "orphan.txt"))
	assert.NoFileExists(t, filepath.Join(replica, "skip.tmp"))

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], `"type":"start"`)
	assert.Contains(t, lines[len(lines)-1], `"type":"complete"`)
	assert.Contains(t, lines[len(lines)-1], `"status":"success"`)

	assert.Contains(t, stderr, "Synchronization execution started")
	assert.Contains(t, stderr, "Started with synchronization of "+source+" to "+replica)
	assert.Contains(t, stderr, "Removing no longer existing file '"+filepath.Join(replica, "orphan.txt")+"' from replica")

	logged, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(logged), "Copying missing file '"+filepath.Join(replica, "a.txt")+"' to replica")
}

func TestSyncCommandQuiet(t *testing.T) {
	isolate(t)
	base := t.TempDir()
	source := filepath.Join(base, "source")
	replica := filepath.Join(base, "replica")
	writeFile(t, filepath.Join(source, "a.txt"), "alpha")
	require.NoError(t, os.Mkdir(replica, 0755))

	stdout, stderr, err := execute(t, "sync", "-s", source, "-r", replica, "-q")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Empty(t, stderr)
	assert.FileExists(t, filepath.Join(replica, "a.txt"))
}

func TestSyncCommandInvalidDirectory(t *testing.T) {
	isolate(t)
	base := t.TempDir()
	replica := filepath.Join(base, "replica")
	require.NoError(t, os.Mkdir(replica, 0755))

	_, stderr, err := execute(t, "sync", "-s", filepath.Join(base, "missing"), "-r", replica)
	require.Error(t, err)
	assert.Equal(t, 2, ExitCode(err))
	assert.Contains(t, err.Error(), "wrong source directory was provided")
	assert.Contains(t, stderr, "Synchronization rejected")
}

func TestSyncCommandRequiresPaths(t *testing.T) {
	isolate(t)

	_, _, err := execute(t, "sync", "-r", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
	assert.Contains(t, err.Error(), "source directory is required")
}

func TestConfigInitAndShow(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "replicasync.yaml")

	stdout, _, err := execute(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, path)
	assert.FileExists(t, path)

	_, _, err = execute(t, "config", "init", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = execute(t, "config", "init", "--config", path, "--force")
	require.NoError(t, err)

	t.Setenv("REPLICASYNC_SYNC_INTERVAL", "5m")
	stdout, _, err = execute(t, "config", "show", "--config", path)
	require.NoError(t, err)

	shown, err := config.Parse([]byte(stdout))
	require.NoError(t, err)
	assert.Equal(t, "5m", shown.Sync.Interval)
	assert.Equal(t, config.Default().Performance.BufferSize, shown.Performance.BufferSize)
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", stdout)
}
