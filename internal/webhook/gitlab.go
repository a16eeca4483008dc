package webhook

import (
	"encoding/json"
	"fmt"
	"strings"

	"gitlab-youtrack-automation/internal/model"
)

// GitLabWebhookParser parses GitLab webhook payloads into routed events.
type GitLabWebhookParser struct{}

func NewGitLabParser() *GitLabWebhookParser {
	return &GitLabWebhookParser{}
}

// ParseNoteEvent parses a "Note Hook" payload. Comments have a single bucket.
func (p *GitLabWebhookParser) ParseNoteEvent(payload []byte) (*model.WebhookEvent, error) {
	var hook model.NoteHook
	if err := json.Unmarshal(payload, &hook); err != nil {
		return nil, fmt.Errorf("%w: note event: %v", ErrInvalidPayload, err)
	}

	return &model.WebhookEvent{
		Source:     model.SourceGitLab,
		Kind:       model.KindComment,
		Bucket:     model.BucketComment,
		Repository: hook.Project.PathWithNamespace,
		Note:       &hook,
	}, nil
}

// ParsePipelineEvent parses a "Pipeline Hook" payload. Statuses outside the
// started, success and failed buckets return ErrIgnored.
func (p *GitLabWebhookParser) ParsePipelineEvent(payload []byte) (*model.WebhookEvent, error) {
	var hook model.PipelineHook
	if err := json.Unmarshal(payload, &hook); err != nil {
		return nil, fmt.Errorf("%w: pipeline event: %v", ErrInvalidPayload, err)
	}

	bucket, ok := PipelineBucket(hook.ObjectAttributes.Status)
	if !ok {
		return nil, fmt.Errorf("%w: pipeline status %q", ErrIgnored, hook.ObjectAttributes.Status)
	}

	return &model.WebhookEvent{
		Source:     model.SourceGitLab,
		Kind:       model.KindPipeline,
		Bucket:     bucket,
		Repository: hook.Project.PathWithNamespace,
		Pipeline:   &hook,
	}, nil
}

// ParseMergeRequestEvent parses a "Merge Request Hook" payload. Actions
// outside the created, updated, conflict and merged buckets return ErrIgnored.
func (p *GitLabWebhookParser) ParseMergeRequestEvent(payload []byte) (*model.WebhookEvent, error) {
	var hook model.MergeRequestHook
	if err := json.Unmarshal(payload, &hook); err != nil {
		return nil, fmt.Errorf("%w: merge request event: %v", ErrInvalidPayload, err)
	}

	bucket, ok := MergeRequestBucket(hook.ObjectAttributes)
	if !ok {
		return nil, fmt.Errorf("%w: merge request action %q", ErrIgnored, hook.ObjectAttributes.Action)
	}

	return &model.WebhookEvent{
		Source:       model.SourceGitLab,
		Kind:         model.KindMergeRequest,
		Bucket:       bucket,
		Repository:   hook.Project.PathWithNamespace,
		MergeRequest: &hook,
	}, nil
}

// Parse dispatches on the X-Gitlab-Event header value.
func (p *GitLabWebhookParser) Parse(eventType string, payload []byte) (*model.WebhookEvent, error) {
	switch eventType {
	case eventNote:
		return p.ParseNoteEvent(payload)
	case eventPipeline:
		return p.ParsePipelineEvent(payload)
	case eventMergeRequest:
		return p.ParseMergeRequestEvent(payload)
	default:
		return nil, fmt.Errorf("%w: unsupported event type %q", ErrIgnored, eventType)
	}
}

// PipelineBucket maps a pipeline status to its bucket.
func PipelineBucket(status string) (model.Bucket, bool) {
	switch status {
	case "created", "waiting_for_resource", "preparing", "pending", "running":
		return model.BucketStarted, true
	case "success":
		return model.BucketSuccess, true
	case "failed":
		return model.BucketFailed, true
	default:
		return "", false
	}
}

// MergeRequestBucket maps a merge request action to its bucket. An update
// that leaves the merge request unmergeable goes to conflict.
func MergeRequestBucket(attrs model.MergeRequestAttributes) (model.Bucket, bool) {
	switch attrs.Action {
	case "open", "reopen":
		return model.BucketCreated, true
	case "update":
		if hasConflict(attrs) {
			return model.BucketConflict, true
		}
		return model.BucketUpdated, true
	case "merge":
		return model.BucketMerged, true
	default:
		return "", false
	}
}

func hasConflict(attrs model.MergeRequestAttributes) bool {
	return attrs.MergeStatus == "cannot_be_merged" ||
		strings.Contains(attrs.DetailedMergeStatus, "conflict")
}
