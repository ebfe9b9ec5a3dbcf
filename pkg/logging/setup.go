package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// consoleTimeFormat is used by the console handler
const consoleTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Options configures New
type Options struct {
	// Level is the minimum level written to the log file
	Level slog.Level

	// Console receives human-readable records; nil disables console output
	Console io.Writer
	// ConsoleLevel is the minimum level shown on the console
	ConsoleLevel slog.Level

	// FilePath enables a log file when set
	FilePath string
	// FileFormat is text or json
	FileFormat Format
	// MaxSize is the maximum size in bytes before rotation (0 = no rotation)
	MaxSize int64
	// MaxBackups is the maximum number of backup files to keep
	MaxBackups int
}

// New builds a logger with a tint console handler and an optional
// rotating file handler
func New(opts Options) (*SlogLogger, error) {
	var handlers []slog.Handler
	var closers []io.Closer

	if opts.Console != nil {
		handlers = append(handlers, tint.NewHandler(opts.Console, &tint.Options{
			Level:      opts.ConsoleLevel,
			TimeFormat: consoleTimeFormat,
			NoColor:    !isTerminal(opts.Console),
		}))
	}

	if opts.FilePath != "" {
		writer, err := NewRotatingWriter(opts.FilePath, opts.MaxSize, opts.MaxBackups)
		if err != nil {
			return nil, err
		}
		closers = append(closers, writer)

		handlerOpts := &slog.HandlerOptions{Level: opts.Level}
		switch opts.FileFormat {
		case FormatJSON:
			handlers = append(handlers, slog.NewJSONHandler(writer, handlerOpts))
		case FormatText, "":
			handlers = append(handlers, slog.NewTextHandler(writer, handlerOpts))
		default:
			writer.Close()
			return nil, fmt.Errorf("unknown log format: %s", opts.FileFormat)
		}
	}

	var handler slog.Handler
	switch len(handlers) {
	case 0:
		handler = slog.NewTextHandler(io.Discard, nil)
	case 1:
		handler = handlers[0]
	default:
		handler = NewMultiHandler(handlers...)
	}

	return NewSlogLogger(slog.New(handler), closers...), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
