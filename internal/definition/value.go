package definition

import (
	"fmt"
	"sort"
	"strconv"
)

// asText accepts scalar values and renders them as text.
func asText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(t), true
	case float32, float64:
		return fmt.Sprint(t), true
	default:
		return "", false
	}
}

func asTable(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func asList(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

// references accepts a single name or a non-empty list of names.
func references(v any) ([]string, error) {
	if s, ok := v.(string); ok {
		return []string{s}, nil
	}
	list, ok := asList(v)
	if !ok || len(list) == 0 {
		return nil, fmt.Errorf("%w: expected a name or a non-empty list of names", ErrInvalidValue)
	}
	names := make([]string, 0, len(list))
	for _, item := range list {
		name, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: reference %v is not text", ErrInvalidValue, item)
		}
		names = append(names, name)
	}
	return names, nil
}

// lookup returns the first present key among aliases.
func lookup(table map[string]any, aliases ...string) (any, bool) {
	for _, k := range aliases {
		if v, ok := table[k]; ok {
			return v, true
		}
	}
	return nil, false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
