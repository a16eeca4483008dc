package args

import (
	"fmt"
	"reflect"
)

// AllEquals reports whether merged holds every key of equals with an identical value.
// An empty equals map always passes.
func AllEquals(merged, equals map[string]any) bool {
	if len(merged) < len(equals) {
		return false
	}
	for k, want := range equals {
		got, ok := merged[k]
		if !ok {
			return false
		}
		if !valuesEqual(got, want) {
			return false
		}
	}
	return true
}

// HasAll reports whether every key of has is present in merged. Values are not compared.
func HasAll(merged, has map[string]any) bool {
	for k := range has {
		if _, ok := merged[k]; !ok {
			return false
		}
	}
	return true
}

// valuesEqual compares two value trees. Numbers compare by value regardless of
// their Go type, since config files and payloads decode them differently.
func valuesEqual(a, b any) bool {
	return reflect.DeepEqual(normalize(a), normalize(b))
}

func normalize(v any) any {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int8:
		return float64(t)
	case int16:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case uint:
		return float64(t)
	case uint8:
		return float64(t)
	case uint16:
		return float64(t)
	case uint32:
		return float64(t)
	case uint64:
		return float64(t)
	case float32:
		return float64(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = val
		}
		return out
	default:
		return v
	}
}
