package definition

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// parseFilters reads the filter section: a table, or a list of tables to repeat a key.
func parseFilters(path string, raw any, tags *tagResolver) ([]Filter, error) {
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
		filters []Filter
		errs    error
	)
	for _, table := range entries {
		for _, key := range sortedKeys(table) {
			f, err := parseFilter(path+"."+key, key, table[key], tags)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			filters = append(filters, f)
		}
	}
	if errs != nil {
		return nil, errs
	}

	SortFilters(filters)
	return filters, nil
}

func parseFilter(path, key string, value any, tags *tagResolver) (Filter, error) {
	text, ok := asText(value)
	if !ok {
		return Filter{}, pathError(path, fmt.Errorf("%w: filter value must be text", ErrInvalidValue))
	}

	switch strings.ToLower(key) {
	case "id":
		return Filter{Type: FilterID, Value: text}, nil
	case "state":
		return Filter{Type: FilterState, Value: text}, nil
	case "project_name", "project-name", "project":
		return Filter{Type: FilterProjectName, Value: text}, nil
	case "tag":
		tag, err := tags.resolve(text)
		if err != nil {
			return Filter{}, pathError(path, err)
		}
		return Filter{Type: FilterTag, Value: tag.Title, Tag: tag}, nil
	default:
		return Filter{}, pathError(path, fmt.Errorf("%w: supported filter keys are id, state, project_name, tag", ErrUnknownKey))
	}
}
