package formatter

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/mcncl/dartyper/internal/errors"
	slogctx "github.com/veqryn/slog-context"
)

// DefaultCommand is the Dart SDK entry point providing `format`.
const DefaultCommand = "dart"

// Formatter runs generated Dart code through `<command> format`.
type Formatter struct {
	command string
}

// NewFormatterWithCommand creates a Formatter using command, either a name
// resolved through PATH or a path to an executable.
func NewFormatterWithCommand(command string) *Formatter {
	if command == "" {
		command = DefaultCommand
	}
	return &Formatter{command: command}
}

// Available reports whether the formatter command can be found
func (f *Formatter) Available() bool {
	_, err := exec.LookPath(f.command)
	return err == nil
}

// Format returns code as rewritten by the Dart formatter. Error markers pass
// through untouched, and so does everything else when the command is missing.
func (f *Formatter) Format(ctx context.Context, code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", nil
	}
	if strings.HasPrefix(code, errors.MarkerPrefix) {
		return code, nil
	}

	path, err := exec.LookPath(f.command)
	if err != nil {
		slogctx.Debug(ctx, "formatter not found, leaving output unformatted", "command", f.command)
		return code, nil
	}

	tmp, err := os.CreateTemp("", "dartyper-*.dart")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.WriteString(code); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write temporary file: %w", err)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, "format", tmp.Name())
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s format failed: %w: %s", f.command, err, strings.TrimSpace(stderr.String()))
	}
	slogctx.Debug(ctx, "formatted output", "command", path)

	formatted, err := os.ReadFile(tmp.Name())
	if err != nil {
		return "", fmt.Errorf("failed to read formatted output: %w", err)
	}
	return string(formatted), nil
}
