package analyzer

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/mcncl/dartyper/internal/models"
)

// identifierRegex matches keys usable as Dart field identifiers.
var identifierRegex = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// CanBeClass reports whether every key of an object can become a field of a
// named class. A single numeric or non-identifier key sends the whole object
// to the Map<String, ...> fallback. Objects without members pass; callers
// decide separately what an empty object becomes.
func CanBeClass(members []models.Member) bool {
	for _, m := range members {
		if isNumericKey(m.Key) || !identifierRegex.MatchString(m.Key) {
			return false
		}
	}
	return true
}

// isNumericKey reports whether key reads as a number ("1", "2.5", "1e3").
// Of the spelled-out forms only "Infinity" counts; "NaN" and "inf" are names.
func isNumericKey(key string) bool {
	f, err := strconv.ParseFloat(key, 64)
	if err != nil || math.IsNaN(f) {
		return false
	}
	if math.IsInf(f, 0) {
		return strings.TrimLeft(key, "+-") == "Infinity"
	}
	return true
}
