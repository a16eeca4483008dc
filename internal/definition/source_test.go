package definition_test

import (
	"strings"
)

// mapSource resolves dotted keys against a nested map.
type mapSource map[string]any

func (m mapSource) Get(key string) (any, bool) {
	var cur any = map[string]any(m)
	for _, part := range strings.Split(key, ".") {
		table, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = table[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
