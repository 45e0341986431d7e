package analyzer

import (
	"github.com/mcncl/dartyper/internal/config"
	"github.com/mcncl/dartyper/internal/errors"
	"github.com/mcncl/dartyper/internal/models"
)

// DefaultRootName is the default name for the root class if not specified.
const DefaultRootName = config.DefaultRootName

// rootWrapperField holds the root object when its keys cannot become fields.
const rootWrapperField = "data"

// Analyzer walks one JSON document and collects the classes it needs.
// An Analyzer is good for a single Analyze call; its registry is what keeps a
// class name from being generated twice.
type Analyzer struct {
	// registry tracks class names already generated in this conversion
	registry *GeneratedClassSet
	// classes holds discovered classes, nested ones before their parents
	classes []models.ClassSpec
	// config holds configuration settings for analysis
	config *config.Config
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithConfig(config.NewConfig())
}

// NewAnalyzerWithConfig creates a new Analyzer instance with custom configuration.
func NewAnalyzerWithConfig(cfg *config.Config) *Analyzer {
	return &Analyzer{
		registry: NewGeneratedClassSet(),
		classes:  make([]models.ClassSpec, 0),
		config:   cfg,
	}
}

// Analyze derives the class set for ir. An array root is typed from its first
// element only. The root class is always last in the result.
func (a *Analyzer) Analyze(ir models.IntermediateRepresentation, rootClassName string) (models.AnalysisResult, error) {
	if rootClassName == "" {
		rootClassName = DefaultRootName
	}

	obj := ir.Root
	if ir.RootIsArray {
		if len(ir.Root.Array) == 0 {
			return models.AnalysisResult{}, errors.NewStructureError()
		}
		obj = ir.Root.Array[0]
	}
	if obj.Kind != models.Object {
		return models.AnalysisResult{}, errors.NewStructureError()
	}

	name := Capitalize(rootClassName)
	a.registry.Claim(name)

	var fields []models.FieldSpec
	if CanBeClass(obj.Members) {
		fields = a.fieldsOf(obj.Members)
	} else {
		// Keys that cannot be fields: wrap the whole object in a single map field.
		fields = []models.FieldSpec{{
			Key:  rootWrapperField,
			Name: rootWrapperField,
			Type: a.InferType(obj, rootWrapperField),
		}}
	}
	a.classes = append(a.classes, models.ClassSpec{Name: name, Fields: fields})

	return models.AnalysisResult{
		Classes:     a.classes,
		RootName:    name,
		FileName:    SnakeCase(rootClassName),
		RootIsArray: ir.RootIsArray,
	}, nil
}

// InferType returns the Dart type for value found under fieldName. Objects
// that qualify as classes are generated on first sight and referenced by name
// afterwards.
func (a *Analyzer) InferType(value models.JSONValue, fieldName string) models.TypeDescriptor {
	switch value.Kind {
	case models.Null:
		t := models.Primitive(models.DartString)
		t.Nullable = true
		return t
	case models.Bool:
		return models.Primitive(models.DartBool)
	case models.String:
		return models.Primitive(models.DartString)
	case models.Number:
		if value.IsIntegral() {
			return models.Primitive(models.DartInt)
		}
		return models.Primitive(models.DartDouble)
	case models.Array:
		return a.inferArray(value.Array, fieldName)
	case models.Object:
		return a.inferObject(value.Members, fieldName)
	default:
		return models.Primitive(models.DartDynamic)
	}
}

// inferArray types a list from its first element. Later elements are never
// inspected, so differently shaped objects further along are ignored.
func (a *Analyzer) inferArray(items []models.JSONValue, fieldName string) models.TypeDescriptor {
	if len(items) == 0 {
		return models.ListOf(models.Primitive(models.DartDynamic))
	}

	first := items[0]
	if first.Kind == models.Object && len(first.Members) > 0 && CanBeClass(first.Members) {
		// The first element is an object here, so this only holds for inputs
		// no parser produces. Kept to match the established output.
		if allStrings(items) {
			return models.MapOf(models.Primitive(models.DartDynamic))
		}
		name := a.singularize(fieldName)
		a.generateClass(name, first.Members)
		return models.ListOf(models.ClassRef(name))
	}

	return models.ListOf(a.InferType(first, fieldName))
}

func (a *Analyzer) inferObject(members []models.Member, fieldName string) models.TypeDescriptor {
	if len(members) == 0 {
		return models.MapOf(models.Primitive(models.DartDynamic))
	}
	if !CanBeClass(members) {
		return models.MapOf(a.InferType(members[0].Value, fieldName))
	}

	name := Capitalize(fieldName)
	a.generateClass(name, members)
	return models.ClassRef(name)
}

// generateClass records a class for members under name unless a class of
// that name already exists. Nested classes are appended before this one.
func (a *Analyzer) generateClass(name string, members []models.Member) {
	if !a.registry.Claim(name) {
		return
	}
	fields := a.fieldsOf(members)
	a.classes = append(a.classes, models.ClassSpec{Name: name, Fields: fields})
}

func (a *Analyzer) fieldsOf(members []models.Member) []models.FieldSpec {
	namer := newFieldNamer(a.config, members)
	fields := make([]models.FieldSpec, 0, len(members))
	for _, m := range members {
		fields = append(fields, models.FieldSpec{
			Key:  m.Key,
			Name: namer.name(m.Key),
			Type: a.InferType(m.Value, m.Key),
		})
	}
	return fields
}

func (a *Analyzer) singularize(fieldName string) string {
	if a.config.Naming.SmartSingularize {
		return SmartSingularize(fieldName)
	}
	return Singularize(fieldName)
}

func allStrings(items []models.JSONValue) bool {
	for _, item := range items {
		if item.Kind != models.String {
			return false
		}
	}
	return true
}
