package definition_test

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"gitlab-youtrack-automation/config"
	"gitlab-youtrack-automation/internal/definition"
	"gitlab-youtrack-automation/internal/model"
)

func names(ops []definition.Operation) []string {
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = op.Name()
	}
	return out
}

func TestLoadTable(t *testing.T) {
	src := closeStaleSource()
	ops := src["operations"].(map[string]any)
	ops["op-a"] = map[string]any{"type": "ChangeTasks"}
	ops["op-b"] = map[string]any{"type": "ChangeTasks"}
	src["gitlab"] = map[string]any{
		"on-comment":       []any{"op-a"},
		"on-pipeline":      map[string]any{"started": []any{"op-b", "op-a"}, "failed": "op-b"},
		"on-merge-request": []any{"close-stale"},
	}

	table, err := definition.Load(src)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	tests := []struct {
		kind   model.EventKind
		bucket model.Bucket
		want   []string
	}{
		{model.KindComment, model.BucketComment, []string{"op-a"}},
		{model.KindPipeline, model.BucketStarted, []string{"op-b", "op-a"}},
		{model.KindPipeline, model.BucketFailed, []string{"op-b"}},
		{model.KindPipeline, model.BucketSuccess, []string{}},
		{model.KindMergeRequest, model.BucketMerged, []string{"Close stale"}},
		{model.KindMergeRequest, model.BucketCreated, []string{}},
	}
	for _, tt := range tests {
		got := names(table.Route(tt.kind, tt.bucket))
		if !slices.Equal(got, tt.want) {
			t.Errorf("Route(%s, %s) = %v, want %v", tt.kind, tt.bucket, got, tt.want)
		}
	}

	started := table.Route(model.KindPipeline, model.BucketStarted)
	failed := table.Route(model.KindPipeline, model.BucketFailed)
	if started[0] != failed[0] {
		t.Error("operation referenced twice was parsed twice")
	}

	if table.Len() != 5 {
		t.Errorf("Len() = %d, want 5", table.Len())
	}
	if got := table.Summary()[model.KindMergeRequest][model.BucketMerged]; !slices.Equal(got, []string{"Close stale"}) {
		t.Errorf("Summary() merged = %v", got)
	}
}

func TestLoadTableErrors(t *testing.T) {
	base := func(gitlab map[string]any) mapSource {
		return mapSource{
			"gitlab": gitlab,
			"operations": map[string]any{
				"ok": map[string]any{"type": "ChangeTasks"},
			},
		}
	}

	tests := []struct {
		name    string
		src     mapSource
		wantErr error
	}{
		{name: "missing gitlab section", src: mapSource{}, wantErr: definition.ErrMissingSection},
		{name: "unknown event kind", src: base(map[string]any{"on-push": []any{"ok"}}), wantErr: definition.ErrUnknownEvent},
		{name: "unknown bucket", src: base(map[string]any{"on-pipeline": map[string]any{"canceled": "ok"}}), wantErr: definition.ErrUnknownBucket},
		{name: "bucket of another kind", src: base(map[string]any{"on-pipeline": map[string]any{"merged": "ok"}}), wantErr: definition.ErrUnknownBucket},
		{name: "neither list nor table", src: base(map[string]any{"on-comment": 12}), wantErr: definition.ErrInvalidBucket},
		{name: "empty list", src: base(map[string]any{"on-comment": []any{}}), wantErr: definition.ErrInvalidBucket},
		{name: "unresolved reference", src: base(map[string]any{"on-comment": "missing"}), wantErr: definition.ErrUnresolvedReference},
		{name: "bucket value not a reference", src: base(map[string]any{"on-pipeline": map[string]any{"failed": 3}}), wantErr: definition.ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := definition.Load(tt.src)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Load() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadTableValidatesUnreferencedOperations(t *testing.T) {
	src := mapSource{
		"gitlab": map[string]any{"on-comment": "ok"},
		"operations": map[string]any{
			"ok":     map[string]any{"type": "ChangeTasks"},
			"broken": map[string]any{"type": "Unknown"},
		},
	}

	_, err := definition.Load(src)
	var unsupported *definition.UnsupportedTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("Load() error = %v, want UnsupportedTypeError", err)
	}
}

func TestLoadTableReportsBrokenOperationOnce(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		ops     map[string]any
		wantErr error
		wantMsg string
	}{
		{
			name:    "invalid definition",
			ref:     "broken",
			ops:     map[string]any{"broken": map[string]any{"type": "ChangeTasks", "update": map[string]any{"priority": "High"}}},
			wantErr: definition.ErrUnknownKey,
			wantMsg: "operations.broken.update.priority",
		},
		{
			name:    "missing definition",
			ref:     "missing",
			ops:     map[string]any{},
			wantErr: definition.ErrUnresolvedReference,
			wantMsg: "operations.missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := mapSource{
				"gitlab": map[string]any{
					"on-comment":       tt.ref,
					"on-pipeline":      map[string]any{"started": tt.ref, "failed": []any{tt.ref}},
					"on-merge-request": []any{tt.ref},
				},
				"operations": tt.ops,
			}

			_, err := definition.Load(src)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Load() error = %v, want %v", err, tt.wantErr)
			}
			if got := strings.Count(err.Error(), tt.wantMsg+":"); got != 1 {
				t.Errorf("error mentions %s %d times, want 1: %v", tt.wantMsg, got, err)
			}
		})
	}
}

func TestLoadTableFromRulesDocument(t *testing.T) {
	doc := `
gitlab:
  on-comment: [op-a]
  on-pipeline:
    started: [op-a]
    failed: close-stale
  on-merge-request: close-stale
operations:
  op-a:
    type: ChangeTasks
    filter:
      id: PMS-7
    update:
      add-tag: review
  close-stale:
    type: ChangeTasks
    name: Close stale
    update:
      status: Fixed
      add-tag: star
    filter:
      state: Open
tags:
  star: Star
  review:
    title: Review
    style: 5
`
	rules, err := config.ReadRules("yaml", strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ReadRules() error: %v", err)
	}

	table, err := definition.Load(rules)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	merged := table.Route(model.KindMergeRequest, model.BucketMerged)
	if len(merged) != 1 {
		t.Fatalf("Route(merge-request, merged) = %v", names(merged))
	}
	ct := merged[0].(*definition.ChangeTasks)
	want := []definition.UpdateKind{
		definition.Status("Fixed"),
		definition.AddTag(definition.TagDefinition{Name: "star", Title: "Star", Style: 13}),
	}
	if !slices.Equal(ct.Update, want) {
		t.Errorf("Update = %v, want %v", ct.Update, want)
	}

	opA := table.Route(model.KindComment, model.BucketComment)[0].(*definition.ChangeTasks)
	if opA.Update[0].Tag.Style != 5 {
		t.Errorf("review tag style = %d, want 5", opA.Update[0].Tag.Style)
	}
}

func TestExampleRulesDocument(t *testing.T) {
	rules, err := config.LoadRules("../../config/rules.example.yaml")
	if err != nil {
		t.Fatalf("LoadRules() error: %v", err)
	}
	table, err := definition.Load(rules)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	flag := table.Route(model.KindPipeline, model.BucketFailed)
	if len(flag) != 1 {
		t.Fatalf("Route(pipeline, failed) = %v", names(flag))
	}
	ct := flag[0].(*definition.ChangeTasks)
	if len(ct.Update) != 2 || ct.Update[0].Tag.Title != "Broken build" || ct.Update[0].Tag.Style != 2 {
		t.Errorf("flag-broken updates = %v", ct.Update)
	}
}
