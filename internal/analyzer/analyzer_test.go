package analyzer

import (
	"testing"

	"github.com/mcncl/dartyper/internal/config"
	"github.com/mcncl/dartyper/internal/errors"
	"github.com/mcncl/dartyper/internal/models"
	"github.com/mcncl/dartyper/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyze(t *testing.T, jsonInput, rootName string) models.AnalysisResult {
	t.Helper()
	ir, err := parser.ParseString(jsonInput)
	require.NoError(t, err)

	result, err := NewAnalyzer().Analyze(ir, rootName)
	require.NoError(t, err)
	return result
}

func classNames(result models.AnalysisResult) []string {
	names := make([]string, 0, len(result.Classes))
	for _, c := range result.Classes {
		names = append(names, c.Name)
	}
	return names
}

func nullable(t models.TypeDescriptor) models.TypeDescriptor {
	t.Nullable = true
	return t
}

func TestAnalyze_SimpleObject(t *testing.T) {
	result := analyze(t, `{"name": "John Doe", "age": 30, "is_student": false, "score": 99.5, "nickname": null}`, "Person")

	require.Len(t, result.Classes, 1, "Should generate one class")
	person := result.Classes[0]
	assert.Equal(t, "Person", person.Name)
	assert.Equal(t, "Person", result.RootName)
	assert.Equal(t, "person", result.FileName)
	assert.False(t, result.RootIsArray)

	expectedFields := []models.FieldSpec{
		{Key: "name", Name: "name", Type: models.Primitive(models.DartString)},
		{Key: "age", Name: "age", Type: models.Primitive(models.DartInt)},
		{Key: "is_student", Name: "is_student", Type: models.Primitive(models.DartBool)},
		{Key: "score", Name: "score", Type: models.Primitive(models.DartDouble)},
		{Key: "nickname", Name: "nickname", Type: nullable(models.Primitive(models.DartString))},
	}
	assert.Equal(t, expectedFields, person.Fields, "fields keep document order")
}

func TestAnalyze_NestedObjectsComeFirst(t *testing.T) {
	result := analyze(t, `{
		"user_id": 123,
		"profile": {
			"email": "john.doe@example.com",
			"address": {"street": "123 Main St", "city": "Anytown"}
		},
		"username": "johndoe"
	}`, "User")

	assert.Equal(t, []string{"Address", "Profile", "User"}, classNames(result))

	user := result.Classes[2]
	require.Len(t, user.Fields, 3)
	assert.Equal(t, models.ClassRef("Profile"), user.Fields[1].Type)

	profile := result.Classes[1]
	assert.Equal(t, models.ClassRef("Address"), profile.Fields[1].Type)
}

func TestAnalyze_ArrayOfObjects(t *testing.T) {
	result := analyze(t, `{"items": [{"id": 1}, {"id": 2, "extra": true}]}`, "Root")

	assert.Equal(t, []string{"Item", "Root"}, classNames(result))

	item := result.Classes[0]
	require.Len(t, item.Fields, 1, "element class is taken from the first element only")
	assert.Equal(t, models.Primitive(models.DartInt), item.Fields[0].Type)

	root := result.Classes[1]
	assert.Equal(t, models.ListOf(models.ClassRef("Item")), root.Fields[0].Type)
}

func TestAnalyze_RootArrayUsesFirstElement(t *testing.T) {
	result := analyze(t, `[{"item_id": 1, "item_name": "Apple"}, {"other": 2}]`, "inventoryItem")

	require.Len(t, result.Classes, 1)
	assert.True(t, result.RootIsArray)
	assert.Equal(t, "InventoryItem", result.RootName)
	assert.Equal(t, "inventory_item", result.FileName)

	item := result.Classes[0]
	require.Len(t, item.Fields, 2)
	assert.Equal(t, "item_id", item.Fields[0].Key)
	assert.Equal(t, "item_name", item.Fields[1].Key)
}

func TestAnalyze_InvalidStructure(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty array", `[]`},
		{"array of numbers", `[1, 2]`},
		{"array starting with null", `[null, {"a": 1}]`},
		{"string root", `"hello"`},
		{"number root", `42`},
		{"null root", `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ir, err := parser.ParseString(tt.input)
			require.NoError(t, err)

			_, err = NewAnalyzer().Analyze(ir, "Root")
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrInvalidStructure)
			assert.Equal(t, "// Error: Invalid JSON structure. Expected an object or array of objects.", errors.Marker(err))
		})
	}
}

func TestAnalyze_RootWithNumericKeysIsWrapped(t *testing.T) {
	result := analyze(t, `{"1": "a", "2": "b"}`, "Lookup")

	require.Len(t, result.Classes, 1)
	lookup := result.Classes[0]
	require.Len(t, lookup.Fields, 1)
	assert.Equal(t, "data", lookup.Fields[0].Key)
	assert.Equal(t, models.MapOf(models.Primitive(models.DartString)), lookup.Fields[0].Type)
}

func TestAnalyze_EmptyRootObject(t *testing.T) {
	result := analyze(t, `{}`, "Empty")

	require.Len(t, result.Classes, 1)
	assert.Empty(t, result.Classes[0].Fields)
}

func TestAnalyze_DefaultRootName(t *testing.T) {
	result := analyze(t, `{"a": 1}`, "")
	assert.Equal(t, DefaultRootName, result.RootName)
}

func TestAnalyze_DuplicateClassNamesKeepFirst(t *testing.T) {
	result := analyze(t, `{
		"home": {"address": {"street": "Main St"}},
		"work": {"address": {"zip": "12345", "city": "Springfield"}}
	}`, "Contact")

	assert.Equal(t, []string{"Address", "Home", "Work", "Contact"}, classNames(result))

	address := result.Classes[0]
	require.Len(t, address.Fields, 1, "the first Address seen in depth-first order wins")
	assert.Equal(t, "street", address.Fields[0].Key)

	work := result.Classes[2]
	assert.Equal(t, models.ClassRef("Address"), work.Fields[0].Type)
}

func TestAnalyze_FieldNamedLikeRootReusesRoot(t *testing.T) {
	result := analyze(t, `{"user": {"id": 1}}`, "User")

	assert.Equal(t, []string{"User"}, classNames(result))
	assert.Equal(t, models.ClassRef("User"), result.Classes[0].Fields[0].Type)
}

func TestInferType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		field    string
		expected models.TypeDescriptor
		classes  []string
	}{
		{"null", `null`, "x", nullable(models.Primitive(models.DartString)), nil},
		{"string", `"s"`, "x", models.Primitive(models.DartString), nil},
		{"bool", `true`, "x", models.Primitive(models.DartBool), nil},
		{"integer", `3`, "x", models.Primitive(models.DartInt), nil},
		{"integral float", `3.0`, "x", models.Primitive(models.DartInt), nil},
		{"exponent", `1e3`, "x", models.Primitive(models.DartInt), nil},
		{"fraction", `3.25`, "x", models.Primitive(models.DartDouble), nil},
		{"negative fraction", `-0.5`, "x", models.Primitive(models.DartDouble), nil},
		{"empty list", `[]`, "tags", models.ListOf(models.Primitive(models.DartDynamic)), nil},
		{"list of strings", `["a", 1]`, "tags", models.ListOf(models.Primitive(models.DartString)), nil},
		{"list of nulls", `[null]`, "tags", models.ListOf(nullable(models.Primitive(models.DartString))), nil},
		{"nested lists", `[[1, 2]]`, "grid", models.ListOf(models.ListOf(models.Primitive(models.DartInt))), nil},
		{"list of lists of objects", `[[{"x": 1}]]`, "cells", models.ListOf(models.ListOf(models.ClassRef("Cell"))), []string{"Cell"}},
		{"list of objects", `[{"id": 1}]`, "items", models.ListOf(models.ClassRef("Item")), []string{"Item"}},
		{"list of empty objects", `[{}]`, "items", models.ListOf(models.MapOf(models.Primitive(models.DartDynamic))), nil},
		{"list of numeric-key objects", `[{"1": 2}]`, "items", models.ListOf(models.MapOf(models.Primitive(models.DartInt))), nil},
		{"empty object", `{}`, "meta", models.MapOf(models.Primitive(models.DartDynamic)), nil},
		{"numeric keys", `{"1": "a", "2": "b"}`, "lookup", models.MapOf(models.Primitive(models.DartString)), nil},
		{"invalid identifier keys", `{"first-name": 1.5}`, "names", models.MapOf(models.Primitive(models.DartDouble)), nil},
		{"map of objects", `{"1": {"a": 1}}`, "scores", models.MapOf(models.ClassRef("Scores")), []string{"Scores"}},
		{"object", `{"a": 1, "b": 2}`, "point", models.ClassRef("Point"), []string{"Point"}},
		{"singular name kept", `[{"a": 1}]`, "data", models.ListOf(models.ClassRef("Data")), []string{"Data"}},
		{"literal singularization", `[{"a": 1}]`, "addresses", models.ListOf(models.ClassRef("Addresse")), []string{"Addresse"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ir, err := parser.ParseString(tt.input)
			require.NoError(t, err)

			a := NewAnalyzer()
			got := a.InferType(ir.Root, tt.field)
			assert.Equal(t, tt.expected, got)

			var names []string
			for _, c := range a.classes {
				names = append(names, c.Name)
			}
			assert.Equal(t, tt.classes, names)
		})
	}
}

func TestInferType_AllStringsGuardNeverFiresForParsedInput(t *testing.T) {
	a := NewAnalyzer()
	value := models.ArrayValue(
		models.ObjectValue(models.Member{Key: "id", Value: models.StringValue("x")}),
		models.StringValue("y"),
	)

	got := a.InferType(value, "entries")
	assert.Equal(t, models.ListOf(models.ClassRef("Entrie")), got)
}

func TestAnalyze_SmartSingularize(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Naming.SmartSingularize = true

	ir, err := parser.ParseString(`{"categories": [{"id": 1}], "addresses": [{"line": "x"}], "status": [{"ok": true}]}`)
	require.NoError(t, err)

	result, err := NewAnalyzerWithConfig(cfg).Analyze(ir, "Shop")
	require.NoError(t, err)
	assert.Equal(t, []string{"Category", "Address", "Status", "Shop"}, classNames(result))
}

func TestAnalyze_CamelCaseFields(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Naming.CamelCaseFields = true
	cfg.Naming.FieldMappings["id"] = "identifier"

	ir, err := parser.ParseString(`{"id": 1, "first_name": "Ada", "last-login": "x", "user_id": 2, "userId": 3}`)
	require.NoError(t, err)

	// "last-login" cannot be a field, so the object is wrapped.
	result, err := NewAnalyzerWithConfig(cfg).Analyze(ir, "Account")
	require.NoError(t, err)
	require.Len(t, result.Classes[0].Fields, 1)
	assert.Equal(t, "data", result.Classes[0].Fields[0].Name)

	ir, err = parser.ParseString(`{"id": 1, "first_name": "Ada", "user_id": 2, "userId": 3}`)
	require.NoError(t, err)

	result, err = NewAnalyzerWithConfig(cfg).Analyze(ir, "Account")
	require.NoError(t, err)
	fields := result.Classes[0].Fields
	require.Len(t, fields, 4)

	assert.Equal(t, "identifier", fields[0].Name)
	assert.Equal(t, "firstName", fields[1].Name)
	assert.Equal(t, "first_name", fields[1].Key)
	assert.Equal(t, "user_id", fields[2].Name, "renaming onto another key falls back to the raw key")
	assert.Equal(t, "userId", fields[3].Name)
}
