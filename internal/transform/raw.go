package transform

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RawRecord is one product as decoded from an external feed. Fields are read
// only through the accessors below; nothing assumes a particular shape.
type RawRecord map[string]any

// String returns the value at key when it is textual, otherwise def.
func (r RawRecord) String(key, def string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return def
	}
}

// Float returns the numeric value at key. Numeric strings are accepted; NaN
// and infinities are treated as absent.
func (r RawRecord) Float(key string) (float64, bool) {
	var (
		f  float64
		ok bool
	)
	switch v := r[key].(type) {
	case float64:
		f, ok = v, true
	case float32:
		f, ok = float64(v), true
	case int:
		f, ok = float64(v), true
	case int64:
		f, ok = float64(v), true
	case int32:
		f, ok = float64(v), true
	case json.Number:
		parsed, err := v.Float64()
		f, ok = parsed, err == nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		f, ok = parsed, err == nil
	}
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FloatOr returns Float(key) or def when absent.
func (r RawRecord) FloatOr(key string, def float64) float64 {
	if f, ok := r.Float(key); ok {
		return f
	}
	return def
}

// Nested returns the object at key, or an empty record when absent or not an object.
func (r RawRecord) Nested(key string) RawRecord {
	switch v := r[key].(type) {
	case RawRecord:
		return v
	case map[string]any:
		return RawRecord(v)
	default:
		return RawRecord{}
	}
}

// Has reports whether key carries a usable number.
func (r RawRecord) Has(key string) bool {
	_, ok := r.Float(key)
	return ok
}
