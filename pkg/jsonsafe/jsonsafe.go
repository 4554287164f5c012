// Package jsonsafe replaces values encoding/json cannot represent.
package jsonsafe

import "math"

// Float returns nil for NaN and ±Inf, otherwise a pointer to f
func Float(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// Value returns nil for NaN and ±Inf, otherwise f
func Value(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

// Deref reads a nullable float, treating nil as zero
func Deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// Sanitize walks decoded JSON-like data and replaces non-finite floats with nil.
// Maps and slices are copied; other values are returned unchanged.
func Sanitize(v any) any {
	switch t := v.(type) {
	case float64:
		return Value(t)
	case float32:
		return Value(float64(t))
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Sanitize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Sanitize(val)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Sanitize(val)
		}
		return out
	default:
		return v
	}
}
