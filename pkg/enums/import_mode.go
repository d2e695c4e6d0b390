package enums

import (
	"fmt"
	"strings"
)

// ImportMode is the operator-selected policy for a provenance tag that already has records.
type ImportMode string

const (
	ImportModeUnset        ImportMode = ""
	ImportModeForce        ImportMode = "force"
	ImportModeSkipIfExists ImportMode = "skip-if-exists"
)

var validImportModes = []ImportMode{
	ImportModeForce,
	ImportModeSkipIfExists,
}

// String implements fmt.Stringer.
func (m ImportMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a selectable ImportMode.
func (m ImportMode) IsValid() bool {
	for _, candidate := range validImportModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseImportMode converts raw input into an ImportMode.
func ParseImportMode(value string) (ImportMode, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validImportModes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return ImportModeUnset, fmt.Errorf("invalid import mode %q (expected force or skip-if-exists)", value)
}
