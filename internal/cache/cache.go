// Package cache memoizes conversion output so watch mode can tell when a
// regenerated file would be identical to the last one written.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize is used when a non-positive size is requested.
const DefaultSize = 64

// OutputCache maps a digest of (root name, JSON text, settings) to generated output.
type OutputCache struct {
	entries *lru.Cache[string, string]
}

// New creates an OutputCache holding at most size entries.
func New(size int) (*OutputCache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create output cache: %w", err)
	}
	return &OutputCache{entries: entries}, nil
}

// Key digests the inputs of one conversion.
func Key(rootName, jsonText, fingerprint string) string {
	h := sha256.New()
	for _, part := range []string{rootName, jsonText, fingerprint} {
		// Length prefixes keep ("ab","c") and ("a","bc") apart.
		fmt.Fprintf(h, "%d:%s;", len(part), part)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the output stored for key.
func (c *OutputCache) Get(key string) (string, bool) {
	return c.entries.Get(key)
}

// Add stores output under key. Only final output belongs here: a hit is
// written out as is.
func (c *OutputCache) Add(key, output string) {
	c.entries.Add(key, output)
}

// Len returns the number of cached entries.
func (c *OutputCache) Len() int {
	return c.entries.Len()
}
