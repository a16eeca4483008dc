package model

import "time"

// WebhookSource represents the source platform
type WebhookSource string

const (
	SourceGitLab WebhookSource = "gitlab"
	SourceManual WebhookSource = "manual"
)

// EventKind is the first level of the event taxonomy.
type EventKind string

const (
	KindComment      EventKind = "on-comment"
	KindPipeline     EventKind = "on-pipeline"
	KindMergeRequest EventKind = "on-merge-request"
)

// Bucket is the sub-state of an event kind.
type Bucket string

const (
	// BucketComment is the only bucket of KindComment.
	BucketComment Bucket = "comment"

	BucketStarted Bucket = "started"
	BucketSuccess Bucket = "success"
	BucketFailed  Bucket = "failed"

	BucketCreated  Bucket = "created"
	BucketUpdated  Bucket = "updated"
	BucketConflict Bucket = "conflict"
	BucketMerged   Bucket = "merged"
)

// WebhookEvent is a parsed source-control event. Exactly one of the hook
// pointers is set, matching Kind.
type WebhookEvent struct {
	ID           string        // Delivery id (X-Gitlab-Event-UUID or body fingerprint)
	Source       WebhookSource // Platform source
	Kind         EventKind
	Bucket       Bucket
	Repository   string // path_with_namespace
	Note         *NoteHook
	Pipeline     *PipelineHook
	MergeRequest *MergeRequestHook
	ReceivedAt   time.Time
}
