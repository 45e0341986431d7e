package models

import (
	"encoding/json"
	"math"
)

// Kind identifies which variant a JSONValue holds.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

// String returns a readable name for the kind
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// JSONValue is a parsed JSON value. Exactly one of the payload fields is
// meaningful, selected by Kind. Object members keep document order.
type JSONValue struct {
	Kind    Kind
	Bool    bool
	Number  json.Number
	String  string
	Array   []JSONValue
	Members []Member
}

// Member is a single key/value entry of a JSON object.
type Member struct {
	Key   string
	Value JSONValue
}

// NullValue returns the JSON null value.
func NullValue() JSONValue { return JSONValue{Kind: Null} }

// BoolValue wraps a boolean.
func BoolValue(b bool) JSONValue { return JSONValue{Kind: Bool, Bool: b} }

// NumberValue wraps a number literal.
func NumberValue(n json.Number) JSONValue { return JSONValue{Kind: Number, Number: n} }

// StringValue wraps a string.
func StringValue(s string) JSONValue { return JSONValue{Kind: String, String: s} }

// ArrayValue wraps a sequence of values.
func ArrayValue(items ...JSONValue) JSONValue {
	if items == nil {
		items = []JSONValue{}
	}
	return JSONValue{Kind: Array, Array: items}
}

// ObjectValue wraps an ordered list of members.
func ObjectValue(members ...Member) JSONValue {
	if members == nil {
		members = []Member{}
	}
	return JSONValue{Kind: Object, Members: members}
}

// IsIntegral reports whether a number value has no fractional part.
// 1.0 and 1e3 count as integral, matching how JavaScript classifies numbers.
func (v JSONValue) IsIntegral() bool {
	if v.Kind != Number {
		return false
	}
	if _, err := v.Number.Int64(); err == nil {
		return true
	}
	f, err := v.Number.Float64()
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return false
	}
	return f == math.Trunc(f)
}

// IntermediateRepresentation holds the parsed JSON document handed to the analyzer.
type IntermediateRepresentation struct {
	Root        JSONValue
	RootIsArray bool // True if the root of the JSON is an array vs an object
}

// TypeKind identifies which variant a TypeDescriptor holds.
type TypeKind int

const (
	PrimitiveType TypeKind = iota
	ListType
	MapType
	ClassType
)

// Dart primitive type names.
const (
	DartString  = "String"
	DartInt     = "int"
	DartDouble  = "double"
	DartBool    = "bool"
	DartDynamic = "dynamic"
)

// TypeDescriptor describes the Dart type of a field.
//
//   - PrimitiveType: Name is one of the Dart primitive names
//   - ListType: Elem is the element type
//   - MapType: Elem is the value type, keys are always String
//   - ClassType: Name is the referenced class
type TypeDescriptor struct {
	Kind     TypeKind
	Name     string
	Elem     *TypeDescriptor
	Nullable bool
}

// Primitive builds a primitive descriptor.
func Primitive(name string) TypeDescriptor {
	return TypeDescriptor{Kind: PrimitiveType, Name: name}
}

// ListOf builds a list descriptor.
func ListOf(elem TypeDescriptor) TypeDescriptor {
	return TypeDescriptor{Kind: ListType, Elem: &elem}
}

// MapOf builds a String-keyed map descriptor.
func MapOf(value TypeDescriptor) TypeDescriptor {
	return TypeDescriptor{Kind: MapType, Elem: &value}
}

// ClassRef builds a reference to a generated class.
func ClassRef(name string) TypeDescriptor {
	return TypeDescriptor{Kind: ClassType, Name: name}
}

// FieldSpec is one class field. Key is the original JSON key, Name the Dart
// identifier it is declared as (equal to Key unless renaming is configured).
type FieldSpec struct {
	Key  string
	Name string
	Type TypeDescriptor
}

// ClassSpec describes a single class to render.
type ClassSpec struct {
	Name   string
	Fields []FieldSpec
}

// AnalysisResult is the outcome of walking one JSON document.
type AnalysisResult struct {
	// Classes in emission order: nested classes first, root class last.
	Classes     []ClassSpec
	RootName    string
	FileName    string
	RootIsArray bool
}
