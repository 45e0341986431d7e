package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	slogctx "github.com/veqryn/slog-context"
)

// New builds a logger writing tinted records to w. Attributes stored on a
// context with slogctx.With are added to every record logged with it.
func New(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    !isTerminal(w),
	})
	return slog.New(slogctx.NewHandler(handler, nil))
}

// Setup installs a stderr logger as the slog default and returns a context
// carrying it.
func Setup(ctx context.Context, debug bool) context.Context {
	logger := New(os.Stderr, debug)
	slog.SetDefault(logger)
	return slogctx.NewCtx(ctx, logger)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
