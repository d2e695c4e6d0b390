package enums

import (
	"fmt"
	"strings"
)

// Source is the provenance tag stamped on every catalog record.
type Source string

const (
	SourceManual        Source = "manual"
	SourceOpenFoodFacts Source = "openfoodfacts"
)

var validSources = []Source{
	SourceManual,
	SourceOpenFoodFacts,
}

// Sources returns every known provenance tag in declaration order.
func Sources() []Source {
	out := make([]Source, len(validSources))
	copy(out, validSources)
	return out
}

// String implements fmt.Stringer.
func (s Source) String() string {
	return string(s)
}

// IsValid reports whether the value is a known Source.
func (s Source) IsValid() bool {
	for _, candidate := range validSources {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSource converts raw input into a Source.
func ParseSource(value string) (Source, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validSources {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid source %q", value)
}
