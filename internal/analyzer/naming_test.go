package analyzer

import (
	"testing"

	"github.com/mcncl/dartyper/internal/models"
	"github.com/stretchr/testify/assert"
)

func members(keys ...string) []models.Member {
	out := make([]models.Member, 0, len(keys))
	for _, k := range keys {
		out = append(out, models.Member{Key: k, Value: models.NullValue()})
	}
	return out
}

func TestCanBeClass(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want bool
	}{
		{"no keys", nil, true},
		{"identifiers", []string{"id", "first_name", "_private", "$ref", "camelCase2"}, true},
		{"integer key", []string{"id", "1"}, false},
		{"decimal key", []string{"2.5"}, false},
		{"exponent key", []string{"1e3"}, false},
		{"signed infinity", []string{"-Infinity"}, false},
		{"NaN is a name", []string{"NaN"}, true},
		{"inf is a name", []string{"inf"}, true},
		{"dash", []string{"first-name"}, false},
		{"space", []string{"first name"}, false},
		{"leading digit", []string{"1st"}, false},
		{"empty key", []string{""}, false},
		{"non-ascii", []string{"café"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanBeClass(members(tt.keys...)))
		})
	}
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "User", Capitalize("user"))
	assert.Equal(t, "UserProfile", Capitalize("userProfile"))
	assert.Equal(t, "User_profile", Capitalize("user_profile"))
	assert.Equal(t, "Ünit", Capitalize("ünit"))
	assert.Equal(t, "", Capitalize(""))
}

func TestSnakeCase(t *testing.T) {
	tests := map[string]string{
		"User":        "user",
		"UserProfile": "user_profile",
		"userProfile": "user_profile",
		"HTTPServer":  "h_t_t_p_server",
		"user":        "user",
		"order_item":  "order_item",
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, SnakeCase(in))
		})
	}
}

func TestSingularize(t *testing.T) {
	tests := map[string]string{
		"items":     "Item",
		"users":     "User",
		"data":      "Data",
		"addresses": "Addresse",
		"status":    "Statu",
		"s":         "",
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, Singularize(in))
		})
	}
}

func TestSmartSingularize(t *testing.T) {
	tests := map[string]string{
		"items":      "Item",
		"categories": "Category",
		"addresses":  "Address",
		"people":     "Person",
		"children":   "Child",
		"status":     "Status",
		"classes":    "Classe",
		"class":      "Class",
		"bus":        "Bus",
		"axis":       "Axis",
		"data":       "Data",
		"user":       "User",
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, SmartSingularize(in))
		})
	}
}

func TestGeneratedClassSet(t *testing.T) {
	set := NewGeneratedClassSet()

	assert.True(t, set.Claim("User"))
	assert.True(t, set.Claim("Address"))
	assert.False(t, set.Claim("User"), "a name is claimed once")
	assert.False(t, set.Claim("Address"))
	assert.True(t, set.Claim("user"), "names are case sensitive")
}
