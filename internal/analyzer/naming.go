package analyzer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
	"github.com/mcncl/dartyper/internal/config"
	"github.com/mcncl/dartyper/internal/models"
)

// Capitalize upper-cases the first character and leaves the rest untouched.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// SnakeCase derives the part-file base name from a class name: an underscore
// goes before every upper-case ASCII letter, the result is lower-cased and a
// single leading underscore is dropped. "UserProfile" becomes "user_profile".
func SnakeCase(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.TrimPrefix(strings.ToLower(b.String()), "_")
}

// Singularize names the element class of a list field: one trailing "s" is
// removed and the first letter capitalized ("items" -> "Item").
func Singularize(fieldName string) string {
	return Capitalize(strings.TrimSuffix(fieldName, "s"))
}

var knownSingulars = map[string]string{
	"series":    "series",
	"status":    "status",
	"analysis":  "analysis",
	"species":   "species",
	"news":      "news",
	"goods":     "goods",
	"children":  "child",
	"people":    "person",
	"men":       "man",
	"women":     "woman",
	"teeth":     "tooth",
	"feet":      "foot",
	"mice":      "mouse",
	"geese":     "goose",
	"data":      "data",
	"media":     "media",
	"addresses": "address",
}

// SmartSingularize is the opt-in alternative to Singularize. It knows a few
// irregular plurals and leaves words like "status" and "class" alone.
func SmartSingularize(fieldName string) string {
	lower := strings.ToLower(fieldName)
	if singular, ok := knownSingulars[lower]; ok {
		return Capitalize(singular)
	}

	switch {
	case strings.HasSuffix(lower, "ies") && len(lower) > 3:
		return Capitalize(fieldName[:len(fieldName)-3] + "y")
	case strings.HasSuffix(lower, "ss"),
		strings.HasSuffix(lower, "us"),
		strings.HasSuffix(lower, "is"):
		return Capitalize(fieldName)
	case strings.HasSuffix(lower, "s") && len(lower) > 1:
		return Capitalize(fieldName[:len(fieldName)-1])
	}
	return Capitalize(fieldName)
}

// fieldNamer picks the Dart identifier a key is declared as within one class.
type fieldNamer struct {
	cfg  *config.Config
	keys map[string]struct{}
	used map[string]struct{}
}

func newFieldNamer(cfg *config.Config, members []models.Member) *fieldNamer {
	keys := make(map[string]struct{}, len(members))
	for _, m := range members {
		keys[m.Key] = struct{}{}
	}
	return &fieldNamer{cfg: cfg, keys: keys, used: make(map[string]struct{})}
}

// name returns the identifier for key. Mapped or camel-cased names that are
// not valid identifiers, or that collide with another key of the same object
// or an earlier field, fall back to the raw key.
func (n *fieldNamer) name(key string) string {
	candidate := key
	if mapped, ok := n.cfg.Naming.FieldMappings[key]; ok && mapped != "" {
		candidate = mapped
	} else if n.cfg.Naming.CamelCaseFields {
		candidate = strcase.ToLowerCamel(key)
	}

	if candidate != key {
		_, taken := n.used[candidate]
		_, isKey := n.keys[candidate]
		if taken || isKey || !identifierRegex.MatchString(candidate) {
			candidate = key
		}
	}
	n.used[candidate] = struct{}{}
	return candidate
}
