package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	slogctx "github.com/veqryn/slog-context"
)

func TestNew_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)

	logger.Debug("hidden")
	logger.Info("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.NotContains(t, out, "\x1b[", "non-terminal writers get no colour codes")
}

func TestNew_DebugEnabled(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true).Debug("visible", "root", "User")

	assert.Contains(t, buf.String(), "visible")
	assert.Contains(t, buf.String(), "root=User")
}

func TestNew_ContextAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)

	ctx := slogctx.NewCtx(context.Background(), logger)
	ctx = slogctx.With(ctx, "input", "sample.json")
	slogctx.Info(ctx, "regenerated")

	assert.Contains(t, buf.String(), "regenerated")
	assert.Contains(t, buf.String(), "input=sample.json")
}
