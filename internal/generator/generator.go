package generator

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mcncl/dartyper/internal/models"
)

const annotationImport = "import 'package:json_annotation/json_annotation.dart';"

// Options controls the text surrounding the generated classes.
type Options struct {
	// FileHeader is written verbatim above the import, if set.
	FileHeader string
	// ListHelper adds a get<Name>List function when the JSON root is an array.
	ListHelper bool
}

// Generator is responsible for generating Dart class definitions from analysis results
type Generator struct {
	options Options
}

// NewGenerator creates a new Generator instance
func NewGenerator() *Generator {
	return &Generator{options: Options{ListHelper: true}}
}

// NewGeneratorWithOptions creates a Generator with explicit options
func NewGeneratorWithOptions(options Options) *Generator {
	return &Generator{options: options}
}

// GenerateClasses assembles the complete source file: header, part directive,
// optional list helper, then every class in result order.
func (g *Generator) GenerateClasses(result models.AnalysisResult) (string, error) {
	if len(result.Classes) == 0 {
		return "", fmt.Errorf("no classes to generate")
	}

	var buf bytes.Buffer

	if header := strings.TrimRight(g.options.FileHeader, "\n"); header != "" {
		buf.WriteString(header + "\n\n")
	}
	buf.WriteString(annotationImport + "\n\n")
	buf.WriteString(fmt.Sprintf("part '%s.g.dart';\n\n", result.FileName))

	if result.RootIsArray && g.options.ListHelper {
		buf.WriteString(renderListHelper(result.RootName))
	}

	for _, class := range result.Classes {
		buf.WriteString(RenderClass(class))
	}

	return buf.String(), nil
}

// RenderClass renders one json_serializable class. Every field is declared
// nullable and every constructor parameter is optional.
func RenderClass(spec models.ClassSpec) string {
	var buf bytes.Buffer
	name := spec.Name

	buf.WriteString("@JsonSerializable()\n")
	buf.WriteString(fmt.Sprintf("class %s {\n", name))

	for _, field := range spec.Fields {
		buf.WriteString(fmt.Sprintf("  @JsonKey(name: '%s')\n", escapeDartString(field.Key)))
		buf.WriteString(fmt.Sprintf("  %s %s;\n\n", declarationType(field.Type), fieldName(field)))
	}

	buf.WriteString(fmt.Sprintf("  %s({\n", name))
	for _, field := range spec.Fields {
		buf.WriteString(fmt.Sprintf("    this.%s,\n", fieldName(field)))
	}
	buf.WriteString("  });\n\n")

	buf.WriteString(fmt.Sprintf("  factory %s.fromJson(Map<String, dynamic> json) =>\n", name))
	buf.WriteString(fmt.Sprintf("      _$%sFromJson(json);\n\n", name))
	buf.WriteString(fmt.Sprintf("  Map<String, dynamic> toJson() => _$%sToJson(this);\n", name))
	buf.WriteString("}\n\n")

	return buf.String()
}

func renderListHelper(name string) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("/// Convert a JSON array to a list of %s objects\n", name))
	buf.WriteString(fmt.Sprintf("List<%s> get%sList(List<dynamic> jsonList) {\n", name, name))
	buf.WriteString(fmt.Sprintf("  return List<%s>.from(\n", name))
	buf.WriteString(fmt.Sprintf("    jsonList.map((json) => %s.fromJson(json as Map<String, dynamic>)),\n", name))
	buf.WriteString("  );\n")
	buf.WriteString("}\n\n")
	return buf.String()
}

func fieldName(field models.FieldSpec) string {
	if field.Name != "" {
		return field.Name
	}
	return field.Key
}

// declarationType renders the type of a field declaration, which is always nullable.
func declarationType(t models.TypeDescriptor) string {
	s := TypeString(t)
	if strings.HasSuffix(s, "?") {
		return s
	}
	return s + "?"
}

// TypeString converts a TypeDescriptor to its Dart spelling
func TypeString(t models.TypeDescriptor) string {
	var s string

	switch t.Kind {
	case models.ListType:
		s = "List<" + elemString(t.Elem) + ">"
	case models.MapType:
		s = "Map<String, " + elemString(t.Elem) + ">"
	default:
		s = t.Name
	}

	if t.Nullable {
		return s + "?"
	}
	return s
}

func elemString(elem *models.TypeDescriptor) string {
	if elem == nil {
		return models.DartDynamic
	}
	return TypeString(*elem)
}

// escapeDartString makes s safe inside a single-quoted Dart string literal.
func escapeDartString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, `$`, `\$`, "\n", `\n`, "\r", `\r`)
	return r.Replace(s)
}
