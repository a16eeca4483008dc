package definition

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// parseUpdates reads the update section: a table of key/value pairs, or a list
// of such tables when the same key is needed more than once.
func parseUpdates(path string, raw any, tags *tagResolver) ([]UpdateKind, error) {
	var entries []map[string]any
	if table, ok := asTable(raw); ok {
		entries = append(entries, table)
	} else if list, ok := asList(raw); ok {
		for i, item := range list {
			table, ok := asTable(item)
			if !ok {
				return nil, pathError(fmt.Sprintf("%s[%d]", path, i), fmt.Errorf("%w: expected a table", ErrInvalidValue))
			}
			entries = append(entries, table)
		}
	} else {
		return nil, pathError(path, fmt.Errorf("%w: expected a table or a list of tables", ErrInvalidValue))
	}

	var (
		updates []UpdateKind
		errs    error
	)
	for _, table := range entries {
		for _, key := range sortedKeys(table) {
			parsed, err := parseUpdate(path+"."+key, key, table[key], tags)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			updates = append(updates, parsed...)
		}
	}
	if errs != nil {
		return nil, errs
	}

	SortUpdates(updates)
	return updates, nil
}

func parseUpdate(path, key string, value any, tags *tagResolver) ([]UpdateKind, error) {
	switch strings.ToLower(key) {
	case "status", "state":
		text, ok := asText(value)
		if !ok {
			return nil, pathError(path, fmt.Errorf("%w: status must be text", ErrInvalidValue))
		}
		return []UpdateKind{Status(text)}, nil

	case "title":
		text, ok := asText(value)
		if !ok {
			return nil, pathError(path, fmt.Errorf("%w: title must be text", ErrInvalidValue))
		}
		return []UpdateKind{Title(text)}, nil

	case "add-tag", "add_tag":
		names, err := references(value)
		if err != nil {
			return nil, pathError(path, err)
		}
		updates := make([]UpdateKind, 0, len(names))
		for _, name := range names {
			tag, err := tags.resolve(name)
			if err != nil {
				return nil, pathError(path, err)
			}
			updates = append(updates, AddTag(tag))
		}
		return updates, nil

	default:
		return nil, pathError(path, fmt.Errorf("%w: supported update keys are status, add-tag, title", ErrUnknownKey))
	}
}
