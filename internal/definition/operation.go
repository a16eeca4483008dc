package definition

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"gitlab-youtrack-automation/internal/args"
)

const operationsRoot = "operations"

var operationKeys = map[string]bool{
	"type":        true,
	"name":        true,
	"description": true,
	"custom-args": true,
	"custom_args": true,
	"update":      true,
	"filter":      true,
	"filter-args": true,
	"filter_args": true,
}

// Loader parses operation definitions out of a Source. Operations and tags are
// parsed once per Loader and shared by every reference to them.
type Loader struct {
	src        Source
	tags       *tagResolver
	operations map[string]Operation
	failed     map[string]error
}

func NewLoader(src Source) *Loader {
	return &Loader{
		src:        src,
		tags:       newTagResolver(src),
		operations: map[string]Operation{},
		failed:     map[string]error{},
	}
}

// Operation resolves operations.<name>, parsing it on first use. A definition
// that failed to parse keeps failing with the same error.
func (l *Loader) Operation(name string) (Operation, error) {
	op, _, err := l.resolve(name)
	return op, err
}

// resolve is Operation that also reports whether err was produced by this
// call rather than replayed from an earlier one.
func (l *Loader) resolve(name string) (op Operation, fresh bool, err error) {
	if op, ok := l.operations[name]; ok {
		return op, false, nil
	}
	if err, ok := l.failed[name]; ok {
		return nil, false, err
	}

	path := operationsRoot + "." + name
	raw, ok := l.src.Get(path)
	if !ok {
		err = pathError(path, ErrUnresolvedReference)
	} else {
		op, err = l.load(path, name, raw)
	}
	if err != nil {
		l.failed[name] = err
		return nil, true, err
	}
	l.operations[name] = op
	return op, true, nil
}

// LoadOperation parses a single operation table. Tag references are resolved
// against src.
func LoadOperation(src Source, defaultName string, raw any) (Operation, error) {
	return NewLoader(src).load(defaultName, defaultName, raw)
}

func (l *Loader) load(path, defaultName string, raw any) (Operation, error) {
	table, ok := asTable(raw)
	if !ok {
		return nil, pathError(path, fmt.Errorf("%w: operation must be a table", ErrInvalidValue))
	}

	rawType, ok := table["type"]
	if !ok {
		return nil, pathError(path+".type", ErrMissingType)
	}
	opType, ok := rawType.(string)
	if !ok {
		return nil, pathError(path+".type", fmt.Errorf("%w: type must be text", ErrInvalidValue))
	}
	if OperationType(opType) != TypeChangeTasks {
		return nil, &UnsupportedTypeError{Type: opType}
	}

	return l.loadChangeTasks(path, defaultName, table)
}

func (l *Loader) loadChangeTasks(path, defaultName string, table map[string]any) (*ChangeTasks, error) {
	op := &ChangeTasks{OpName: defaultName}
	var errs error

	for _, key := range sortedKeys(table) {
		if !operationKeys[strings.ToLower(key)] {
			errs = multierr.Append(errs, pathError(path+"."+key, ErrUnknownKey))
		}
	}

	if raw, ok := table["name"]; ok {
		name, ok := asText(raw)
		if !ok {
			errs = multierr.Append(errs, pathError(path+".name", fmt.Errorf("%w: name must be text", ErrInvalidValue)))
		} else {
			op.OpName = name
		}
	}

	custom := map[string]any{}
	if raw, ok := lookup(table, "custom-args", "custom_args"); ok && raw != nil {
		t, ok := asTable(raw)
		if !ok {
			errs = multierr.Append(errs, pathError(path+".custom-args", fmt.Errorf("%w: expected a table", ErrInvalidValue)))
		} else {
			custom = t
		}
	}
	op.CustomArgs = args.Custom(custom)

	if raw, ok := table["update"]; ok && raw != nil {
		updates, err := parseUpdates(path+".update", raw, l.tags)
		errs = multierr.Append(errs, err)
		op.Update = updates
	}

	if raw, ok := table["filter"]; ok && raw != nil {
		filters, err := parseFilters(path+".filter", raw, l.tags)
		errs = multierr.Append(errs, err)
		op.Filter = filters
	}

	filterArgs, err := parseFilterArgs(path+".filter-args", table)
	errs = multierr.Append(errs, err)
	op.FilterArgs = filterArgs

	if errs != nil {
		return nil, errs
	}
	return op, nil
}

func parseFilterArgs(path string, table map[string]any) (FilterArgs, error) {
	fa := FilterArgs{Equals: map[string]any{}, Has: map[string]any{}}

	raw, ok := lookup(table, "filter-args", "filter_args")
	if !ok || raw == nil {
		return fa, nil
	}
	section, ok := asTable(raw)
	if !ok {
		return fa, pathError(path, fmt.Errorf("%w: expected a table", ErrInvalidValue))
	}

	var errs error
	for _, key := range sortedKeys(section) {
		value := section[key]
		switch key {
		case "equals", "has":
		default:
			errs = multierr.Append(errs, pathError(path+"."+key, ErrUnknownKey))
			continue
		}
		if value == nil {
			continue
		}
		m, ok := asTable(value)
		if !ok {
			errs = multierr.Append(errs, pathError(path+"."+key, fmt.Errorf("%w: expected a table", ErrInvalidValue)))
			continue
		}
		if key == "equals" {
			fa.Equals = m
		} else {
			fa.Has = m
		}
	}
	return fa, errs
}
