// Package converter turns a JSON sample into json_serializable Dart classes.
//
// Nested classes are emitted before the classes that reference them and each
// class name is generated at most once per conversion. Lists of objects are
// typed from their first element only; differently shaped later elements are
// ignored rather than merged.
package converter

import (
	"github.com/mcncl/dartyper/internal/analyzer"
	"github.com/mcncl/dartyper/internal/config"
	"github.com/mcncl/dartyper/internal/errors"
	"github.com/mcncl/dartyper/internal/generator"
	"github.com/mcncl/dartyper/internal/models"
	"github.com/mcncl/dartyper/internal/parser"
)

// Converter runs conversions with a fixed configuration. It holds no state
// between calls, so one Converter may be reused and shared.
type Converter struct {
	config *config.Config
}

// New creates a Converter. A nil cfg means defaults.
func New(cfg *config.Config) *Converter {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Converter{config: cfg}
}

// Convert parses jsonText and returns the generated source, or a single-line
// "// Error: ..." marker when the input cannot be converted.
func (c *Converter) Convert(rootClassName, jsonText string) string {
	code, err := c.Generate(rootClassName, jsonText)
	if err != nil {
		return errors.Marker(err)
	}
	return code
}

// Generate is Convert with failures kept as typed errors: a parsing AppError
// for malformed JSON and a structure AppError for an unusable root.
func (c *Converter) Generate(rootClassName, jsonText string) (string, error) {
	ir, err := parser.ParseString(jsonText)
	if err != nil {
		return "", err
	}
	return c.GenerateFrom(rootClassName, ir)
}

// GenerateFrom converts an already parsed document.
func (c *Converter) GenerateFrom(rootClassName string, ir models.IntermediateRepresentation) (string, error) {
	if rootClassName == "" {
		rootClassName = c.config.RootName
	}

	result, err := analyzer.NewAnalyzerWithConfig(c.config).Analyze(ir, rootClassName)
	if err != nil {
		return "", err
	}

	gen := generator.NewGeneratorWithOptions(generator.Options{
		FileHeader: c.config.Output.FileHeader,
		ListHelper: c.config.Output.ListHelper,
	})
	code, err := gen.GenerateClasses(result)
	if err != nil {
		return "", errors.NewGenerateError("failed to generate Dart classes", err)
	}
	return code, nil
}

// Convert runs a conversion with the default configuration.
func Convert(rootClassName, jsonText string) string {
	return New(nil).Convert(rootClassName, jsonText)
}
