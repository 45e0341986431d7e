package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/mcncl/dartyper/internal/cache"
	"github.com/mcncl/dartyper/internal/config"
	"github.com/mcncl/dartyper/internal/converter"
	"github.com/mcncl/dartyper/internal/errors"
	"github.com/mcncl/dartyper/internal/formatter"
	"github.com/mcncl/dartyper/internal/logging"
	"github.com/mcncl/dartyper/internal/parser"
	"github.com/mcncl/dartyper/internal/watcher"
	slogctx "github.com/veqryn/slog-context"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Output      string `help:"Path to output Dart file. If not specified, writes to stdout." short:"o" type:"path"`
	RootName    string `help:"Name for the root class (default User)." short:"r"`
	Config      string `help:"Path to a config file. Defaults to the nearest .dartyper.yml." short:"c" type:"path"`
	Format      bool   `help:"Run the output through 'dart format' when available." short:"f"`
	CamelCase   bool   `help:"Declare fields in lowerCamelCase; @JsonKey keeps the original key." name:"camel-case"`
	Watch       bool   `help:"Regenerate the output file whenever the input file changes. Requires -i and -o." short:"w"`
	Debug       bool   `help:"Enable debug logging." short:"d"`
	Version     bool   `help:"Show version information." short:"v"`
	Interactive bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	cli := kong.Must(&CLI,
		kong.Name("dartyper"),
		kong.Description("A tool to convert JSON to json_serializable Dart classes"),
		kong.UsageOnError(),
	)

	// No arguments at all means interactive mode
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	if _, err := cli.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("dartyper version %s\n", Version)
		return
	}

	cfg, err := config.Load(CLI.Config, config.Overrides{
		RootName:  CLI.RootName,
		Format:    CLI.Format,
		CamelCase: CLI.CamelCase,
		Debug:     CLI.Debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(errors.NewConfigError(err.Error(), err)))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.Setup(ctx, cfg.Dev.Debug)

	runCtx := &Context{Debug: cfg.Dev.Debug, Config: cfg}
	if CLI.Watch {
		err = watch(ctx, runCtx)
	} else {
		err = run(ctx, runCtx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: dartyper --help\n")
		os.Exit(1)
	}
}

// run executes a single conversion
func run(ctx context.Context, rc *Context) error {
	ctx = slogctx.With(ctx, "root", rc.Config.RootName)

	// 1. Read JSON input
	jsonText, err := readInput()
	if err != nil {
		return err
	}

	// 2. Convert
	code, err := converter.New(rc.Config).Generate(rc.Config.RootName, jsonText)
	if err != nil {
		return err
	}
	slogctx.Debug(ctx, "generated classes", "bytes", len(code))

	// 3. Format the code if requested
	if rc.Config.Formatting.Enabled {
		f := formatter.NewFormatterWithCommand(rc.Config.Formatting.Command)
		warnIfUnavailable(ctx, f, rc.Config.Formatting.Command)
		code, err = f.Format(ctx, code)
		if err != nil {
			return errors.NewFormatError("failed to format Dart code", err)
		}
	}

	// 4. Output the result
	return writeOutput(code)
}

// watch converts the input file once and again after every change. Failures
// are written to the output file as error markers instead of stopping.
func watch(ctx context.Context, rc *Context) error {
	if CLI.Input == "" || CLI.Output == "" {
		return errors.NewInputError("watch mode needs both --input and --output", errors.ErrNoInput)
	}
	ctx = slogctx.With(ctx, "input", CLI.Input, "output", CLI.Output)

	outputs, err := cache.New(rc.Config.Cache.Size)
	if err != nil {
		return errors.NewWatchError("failed to set up output cache", err)
	}
	regen := newRegenerator(rc.Config, CLI.Input, CLI.Output, outputs)
	if rc.Config.Formatting.Enabled {
		warnIfUnavailable(ctx, regen.formatter, rc.Config.Formatting.Command)
	}

	if err := regen.regenerate(ctx); err != nil {
		return err
	}

	w, err := watcher.New(CLI.Input, rc.Config.Watch.Debounce, regen.regenerate)
	if err != nil {
		return errors.NewWatchError(fmt.Sprintf("failed to watch '%s'", CLI.Input), err)
	}
	defer func() { _ = w.Close() }()

	slogctx.Info(ctx, "watching for changes, press Ctrl+C to stop")
	if err := w.Watch(ctx); err != nil {
		return errors.NewWatchError("watcher stopped", err)
	}
	return nil
}

// regenerator rewrites the output file from the input file, skipping the
// write when the cached output for identical input is unchanged.
type regenerator struct {
	cfg        *config.Config
	converter  *converter.Converter
	formatter  *formatter.Formatter
	outputs    *cache.OutputCache
	inputPath  string
	outputPath string
}

func newRegenerator(cfg *config.Config, inputPath, outputPath string, outputs *cache.OutputCache) *regenerator {
	return &regenerator{
		cfg:        cfg,
		converter:  converter.New(cfg),
		formatter:  formatter.NewFormatterWithCommand(cfg.Formatting.Command),
		outputs:    outputs,
		inputPath:  inputPath,
		outputPath: outputPath,
	}
}

func (r *regenerator) regenerate(ctx context.Context) error {
	data, err := os.ReadFile(r.inputPath)
	if err != nil {
		return errors.NewInputError(fmt.Sprintf("failed to read '%s'", r.inputPath), err)
	}
	jsonText := string(data)

	key := cache.Key(r.cfg.RootName, jsonText, r.cfg.Fingerprint())
	code, hit := r.outputs.Get(key)
	if hit {
		if current, err := os.ReadFile(r.outputPath); err == nil && string(current) == code {
			slogctx.Debug(ctx, "input unchanged, skipping write")
			return nil
		}
	} else {
		var final bool
		code, final = r.render(ctx, jsonText)
		if final {
			r.outputs.Add(key, code)
		}
	}

	if err := os.WriteFile(r.outputPath, []byte(code), 0o644); err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", r.outputPath), err)
	}
	if strings.HasPrefix(code, errors.MarkerPrefix) {
		slogctx.Warn(ctx, "conversion failed", "marker", code)
	} else {
		slogctx.Info(ctx, "regenerated", "bytes", len(code), "cached", r.outputs.Len())
	}
	return nil
}

// render converts jsonText and formats the result when enabled. final is
// false when formatting failed, so the unformatted code is written but the
// next regeneration tries the formatter again.
func (r *regenerator) render(ctx context.Context, jsonText string) (code string, final bool) {
	code = r.converter.Convert(r.cfg.RootName, jsonText)
	if !r.cfg.Formatting.Enabled {
		return code, true
	}

	formatted, err := r.formatter.Format(ctx, code)
	if err != nil {
		slogctx.Warn(ctx, "formatting failed, writing unformatted output", "error", err)
		return code, false
	}
	return formatted, true
}

// warnIfUnavailable reports a requested formatter that is not installed.
// Output is still produced, just unformatted.
func warnIfUnavailable(ctx context.Context, f *formatter.Formatter, command string) {
	if !f.Available() {
		slogctx.Warn(ctx, "formatter not found, output will not be formatted", "command", command)
	}
}

// readInput reads JSON text from file or stdin
func readInput() (string, error) {
	if CLI.Input != "" {
		return parser.ReadFile(CLI.Input)
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return "", errors.NewInputError("failed to access stdin", err)
	}

	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped)
		if CLI.Interactive {
			return readInteractiveInput()
		}
		return "", errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	jsonData, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", errors.NewInputError("failed to read from stdin", err)
	}
	if len(jsonData) == 0 {
		return "", errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return string(jsonData), nil
}

// writeOutput writes code to file or stdout
func writeOutput(code string) error {
	if CLI.Output != "" {
		if err := os.WriteFile(CLI.Output, []byte(code), 0o644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(os.Stderr, "Generated Dart code written to %s\n", CLI.Output)
		return nil
	}

	if _, err := fmt.Println(strings.TrimSpace(code)); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput lets users paste JSON and signal completion with Ctrl+D (EOF)
func readInteractiveInput() (string, error) {
	fmt.Fprintln(os.Stderr, "dartyper Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(os.Stdin)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		jsonBuilder.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.NewInputError("error reading input", err)
		}
	}

	jsonData := jsonBuilder.String()
	if strings.TrimSpace(jsonData) == "" {
		return "", errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing JSON...")
	return jsonData, nil
}
