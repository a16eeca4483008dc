package definition_test

import (
	"errors"
	"slices"
	"testing"

	"gitlab-youtrack-automation/internal/definition"
)

func closeStaleSource() mapSource {
	return mapSource{
		"operations": map[string]any{
			"close-stale": map[string]any{
				"type":        "ChangeTasks",
				"name":        "Close stale",
				"custom-args": map[string]any{"team": "core"},
				"update":      map[string]any{"title": "Done", "add-tag": "star", "status": "Fixed"},
				"filter":      map[string]any{"state": "Open", "project_name": "Server", "tag": "star", "id": "PMS-1"},
				"filter-args": map[string]any{
					"equals": map[string]any{"object_kind": "merge_request"},
					"has":    map[string]any{"user": nil},
				},
			},
		},
		"tags": map[string]any{
			"star":   "Star",
			"review": map[string]any{"title": "Review", "style": 5},
		},
	}
}

func TestLoaderOperation(t *testing.T) {
	loader := definition.NewLoader(closeStaleSource())

	op, err := loader.Operation("close-stale")
	if err != nil {
		t.Fatalf("Operation() error: %v", err)
	}
	if op.Type() != definition.TypeChangeTasks {
		t.Fatalf("Type() = %s", op.Type())
	}
	ct := op.(*definition.ChangeTasks)

	if ct.Name() != "Close stale" {
		t.Errorf("Name() = %q, want %q", ct.Name(), "Close stale")
	}

	star := definition.TagDefinition{Name: "star", Title: "Star", Style: 13}
	wantUpdates := []definition.UpdateKind{definition.Status("Fixed"), definition.AddTag(star), definition.Title("Done")}
	if !slices.Equal(ct.Update, wantUpdates) {
		t.Errorf("Update = %v, want %v", ct.Update, wantUpdates)
	}

	wantFilters := []definition.Filter{
		{Type: definition.FilterID, Value: "PMS-1"},
		{Type: definition.FilterState, Value: "Open"},
		{Type: definition.FilterProjectName, Value: "Server"},
		{Type: definition.FilterTag, Value: "Star", Tag: star},
	}
	if !slices.Equal(ct.Filter, wantFilters) {
		t.Errorf("Filter = %v, want %v", ct.Filter, wantFilters)
	}

	custom, err := ct.CustomArgs.ToConfig()
	if err != nil {
		t.Fatalf("CustomArgs.ToConfig() error: %v", err)
	}
	if custom["team"] != "core" {
		t.Errorf("CustomArgs = %v", custom)
	}
	if ct.FilterArgs.Equals["object_kind"] != "merge_request" {
		t.Errorf("FilterArgs.Equals = %v", ct.FilterArgs.Equals)
	}
	if _, ok := ct.FilterArgs.Has["user"]; !ok {
		t.Errorf("FilterArgs.Has = %v", ct.FilterArgs.Has)
	}

	again, err := loader.Operation("close-stale")
	if err != nil {
		t.Fatalf("Operation() second call error: %v", err)
	}
	if again != op {
		t.Error("Operation() parsed the same definition twice")
	}
}

func TestLoadOperationDefaults(t *testing.T) {
	op, err := definition.LoadOperation(mapSource{}, "bare", map[string]any{"type": "ChangeTasks"})
	if err != nil {
		t.Fatalf("LoadOperation() error: %v", err)
	}
	ct := op.(*definition.ChangeTasks)
	if ct.Name() != "bare" {
		t.Errorf("Name() = %q, want bare", ct.Name())
	}
	if len(ct.Update) != 0 || len(ct.Filter) != 0 {
		t.Errorf("expected no updates or filters, got %v %v", ct.Update, ct.Filter)
	}
	if ct.FilterArgs.Equals == nil || ct.FilterArgs.Has == nil {
		t.Error("FilterArgs maps must default to empty, not nil")
	}
	custom, _ := ct.CustomArgs.ToConfig()
	if len(custom) != 0 {
		t.Errorf("CustomArgs = %v, want empty", custom)
	}
}

func TestLoadOperationAliases(t *testing.T) {
	src := mapSource{"tags": map[string]any{"a": "A", "b": "B"}}
	op, err := definition.LoadOperation(src, "op", map[string]any{
		"type":        "ChangeTasks",
		"custom_args": map[string]any{"k": 1},
		"update": []any{
			map[string]any{"add-tag": "b"},
			map[string]any{"add-tag": "a"},
			map[string]any{"status": "Open"},
		},
		"filter_args": map[string]any{"equals": map[string]any{"k": 1}},
	})
	if err != nil {
		t.Fatalf("LoadOperation() error: %v", err)
	}
	ct := op.(*definition.ChangeTasks)
	if len(ct.Update) != 3 || ct.Update[0] != definition.Status("Open") || ct.Update[1].Tag.Title != "A" {
		t.Errorf("Update = %v", ct.Update)
	}
	if ct.FilterArgs.Equals["k"] != 1 {
		t.Errorf("FilterArgs.Equals = %v", ct.FilterArgs.Equals)
	}
}

func TestLoadOperationErrors(t *testing.T) {
	src := mapSource{"tags": map[string]any{"star": "Star"}}

	tests := []struct {
		name    string
		raw     any
		wantErr error
	}{
		{name: "not a table", raw: "ChangeTasks", wantErr: definition.ErrInvalidValue},
		{name: "missing type", raw: map[string]any{"name": "x"}, wantErr: definition.ErrMissingType},
		{name: "type not text", raw: map[string]any{"type": 3}, wantErr: definition.ErrInvalidValue},
		{name: "unknown update key", raw: map[string]any{"type": "ChangeTasks", "update": map[string]any{"priority": "High"}}, wantErr: definition.ErrUnknownKey},
		{name: "unknown filter key", raw: map[string]any{"type": "ChangeTasks", "filter": map[string]any{"assignee": "me"}}, wantErr: definition.ErrUnknownKey},
		{name: "unknown operation key", raw: map[string]any{"type": "ChangeTasks", "updates": map[string]any{}}, wantErr: definition.ErrUnknownKey},
		{name: "unknown tag", raw: map[string]any{"type": "ChangeTasks", "update": map[string]any{"add-tag": "moon"}}, wantErr: definition.ErrUnknownTag},
		{name: "filter value not text", raw: map[string]any{"type": "ChangeTasks", "filter": map[string]any{"state": []any{"a"}}}, wantErr: definition.ErrInvalidValue},
		{name: "filter-args not a table", raw: map[string]any{"type": "ChangeTasks", "filter-args": "x"}, wantErr: definition.ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := definition.LoadOperation(src, "op", tt.raw)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("LoadOperation() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadOperationUnsupportedType(t *testing.T) {
	_, err := definition.LoadOperation(mapSource{}, "op", map[string]any{"type": "Unknown"})

	var unsupported *definition.UnsupportedTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("LoadOperation() error = %v, want UnsupportedTypeError", err)
	}
	if unsupported.Type != "Unknown" {
		t.Errorf("UnsupportedTypeError.Type = %q, want Unknown", unsupported.Type)
	}
}

func TestLoadOperationAccumulatesErrors(t *testing.T) {
	_, err := definition.LoadOperation(mapSource{}, "op", map[string]any{
		"type":   "ChangeTasks",
		"update": map[string]any{"priority": "High", "add-tag": "moon"},
		"filter": map[string]any{"assignee": "me"},
	})
	if !errors.Is(err, definition.ErrUnknownKey) || !errors.Is(err, definition.ErrUnknownTag) {
		t.Fatalf("expected both unknown key and unknown tag errors, got %v", err)
	}
}
