package analyzer

// GeneratedClassSet records the class names already emitted during one
// conversion. It is created per conversion and never shared.
type GeneratedClassSet struct {
	names map[string]struct{}
}

// NewGeneratedClassSet returns an empty set.
func NewGeneratedClassSet() *GeneratedClassSet {
	return &GeneratedClassSet{names: make(map[string]struct{})}
}

// Claim adds name and reports whether it was not present before. A false
// result means the class was already generated and must be skipped.
func (s *GeneratedClassSet) Claim(name string) bool {
	if _, ok := s.names[name]; ok {
		return false
	}
	s.names[name] = struct{}{}
	return true
}
