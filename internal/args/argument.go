// Package args normalizes event payloads and per-operation custom data into a
// single string-keyed mapping and evaluates operation gates over it.
package args

import (
	"fmt"
	"maps"

	"gopkg.in/yaml.v3"

	"gitlab-youtrack-automation/internal/model"
)

// Kind tags the variant held by an Argument.
type Kind int

const (
	KindNoteHook Kind = iota + 1
	KindPipelineHook
	KindMergeRequestHook
	KindCustom
	KindMerged
)

var kindNames = [...]string{"", "note-hook", "pipeline-hook", "merge-request-hook", "custom", "merged"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Argument is either a structured GitLab payload or a generic mapping.
type Argument struct {
	kind   Kind
	hook   any
	values map[string]any
}

func FromNoteHook(h *model.NoteHook) Argument {
	return Argument{kind: KindNoteHook, hook: h}
}

func FromPipelineHook(h *model.PipelineHook) Argument {
	return Argument{kind: KindPipelineHook, hook: h}
}

func FromMergeRequestHook(h *model.MergeRequestHook) Argument {
	return Argument{kind: KindMergeRequestHook, hook: h}
}

// Custom wraps an operation's custom-args table. A nil map is treated as empty.
func Custom(values map[string]any) Argument {
	return Argument{kind: KindCustom, values: copyMap(values)}
}

// Merged wraps an already merged mapping.
func Merged(values map[string]any) Argument {
	return Argument{kind: KindMerged, values: copyMap(values)}
}

// FromEvent picks the payload carried by event.
func FromEvent(event model.WebhookEvent) (Argument, error) {
	switch {
	case event.Note != nil:
		return FromNoteHook(event.Note), nil
	case event.Pipeline != nil:
		return FromPipelineHook(event.Pipeline), nil
	case event.MergeRequest != nil:
		return FromMergeRequestHook(event.MergeRequest), nil
	default:
		return Argument{}, ErrNoPayload
	}
}

func (a Argument) Kind() Kind {
	return a.kind
}

// ToConfig normalizes the argument into a generic mapping. Structured payloads
// are serialized to YAML and parsed back; mappings are returned as a copy.
func (a Argument) ToConfig() (map[string]any, error) {
	switch a.kind {
	case KindCustom, KindMerged:
		return copyMap(a.values), nil
	case KindNoteHook, KindPipelineHook, KindMergeRequestHook:
		raw, err := yaml.Marshal(a.hook)
		if err != nil {
			return nil, fmt.Errorf("%w: marshal %s: %v", ErrNormalize, a.kind, err)
		}
		out := map[string]any{}
		if err := yaml.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("%w: unmarshal %s: %v", ErrNormalize, a.kind, err)
		}
		return out, nil
	default:
		return map[string]any{}, nil
	}
}

// Merge overlays b on a: every key of both, b wins on conflicts.
// The result is always a KindMerged argument.
func Merge(a, b Argument) (Argument, error) {
	left, err := a.ToConfig()
	if err != nil {
		return Argument{}, err
	}
	right, err := b.ToConfig()
	if err != nil {
		return Argument{}, err
	}
	maps.Copy(left, right)
	return Argument{kind: KindMerged, values: left}, nil
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	maps.Copy(out, m)
	return out
}
