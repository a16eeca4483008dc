package model

// GitLab webhook payloads. Fields carry both json tags (wire) and yaml tags
// (argument normalization), so the normalized mapping uses GitLab's key names.

type User struct {
	ID       int64  `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Username string `json:"username" yaml:"username"`
	Email    string `json:"email,omitempty" yaml:"email,omitempty"`
}

type Project struct {
	ID                int64  `json:"id" yaml:"id"`
	Name              string `json:"name" yaml:"name"`
	Namespace         string `json:"namespace" yaml:"namespace"`
	PathWithNamespace string `json:"path_with_namespace" yaml:"path_with_namespace"`
	WebURL            string `json:"web_url" yaml:"web_url"`
	DefaultBranch     string `json:"default_branch" yaml:"default_branch"`
}

type Commit struct {
	ID      string `json:"id" yaml:"id"`
	Message string `json:"message" yaml:"message"`
	Title   string `json:"title" yaml:"title"`
	URL     string `json:"url" yaml:"url"`
}

type MergeRequestAttributes struct {
	ID                  int64  `json:"id" yaml:"id"`
	IID                 int64  `json:"iid" yaml:"iid"`
	Title               string `json:"title" yaml:"title"`
	Description         string `json:"description" yaml:"description"`
	State               string `json:"state" yaml:"state"`
	Action              string `json:"action,omitempty" yaml:"action,omitempty"`
	MergeStatus         string `json:"merge_status" yaml:"merge_status"`
	DetailedMergeStatus string `json:"detailed_merge_status,omitempty" yaml:"detailed_merge_status,omitempty"`
	SourceBranch        string `json:"source_branch" yaml:"source_branch"`
	TargetBranch        string `json:"target_branch" yaml:"target_branch"`
	WorkInProgress      bool   `json:"work_in_progress" yaml:"work_in_progress"`
	URL                 string `json:"url" yaml:"url"`
	LastCommit          Commit `json:"last_commit" yaml:"last_commit"`
}

type NoteAttributes struct {
	ID           int64  `json:"id" yaml:"id"`
	Note         string `json:"note" yaml:"note"`
	NoteableType string `json:"noteable_type" yaml:"noteable_type"`
	System       bool   `json:"system" yaml:"system"`
	URL          string `json:"url" yaml:"url"`
}

type PipelineAttributes struct {
	ID       int64    `json:"id" yaml:"id"`
	IID      int64    `json:"iid,omitempty" yaml:"iid,omitempty"`
	Ref      string   `json:"ref" yaml:"ref"`
	Tag      bool     `json:"tag" yaml:"tag"`
	SHA      string   `json:"sha" yaml:"sha"`
	Source   string   `json:"source" yaml:"source"`
	Status   string   `json:"status" yaml:"status"`
	Stages   []string `json:"stages" yaml:"stages"`
	Duration int64    `json:"duration,omitempty" yaml:"duration,omitempty"`
	URL      string   `json:"url,omitempty" yaml:"url,omitempty"`
}

// PipelineMergeRequest is the trimmed merge request attached to a pipeline hook.
type PipelineMergeRequest struct {
	ID           int64  `json:"id" yaml:"id"`
	IID          int64  `json:"iid" yaml:"iid"`
	Title        string `json:"title" yaml:"title"`
	SourceBranch string `json:"source_branch" yaml:"source_branch"`
	TargetBranch string `json:"target_branch" yaml:"target_branch"`
	State        string `json:"state" yaml:"state"`
	URL          string `json:"url" yaml:"url"`
}

// NoteHook is the "Note Hook" payload.
type NoteHook struct {
	ObjectKind       string                  `json:"object_kind" yaml:"object_kind"`
	User             User                    `json:"user" yaml:"user"`
	ProjectID        int64                   `json:"project_id" yaml:"project_id"`
	Project          Project                 `json:"project" yaml:"project"`
	ObjectAttributes NoteAttributes          `json:"object_attributes" yaml:"object_attributes"`
	MergeRequest     *MergeRequestAttributes `json:"merge_request,omitempty" yaml:"merge_request,omitempty"`
}

// PipelineHook is the "Pipeline Hook" payload.
type PipelineHook struct {
	ObjectKind       string                `json:"object_kind" yaml:"object_kind"`
	User             User                  `json:"user" yaml:"user"`
	Project          Project               `json:"project" yaml:"project"`
	ObjectAttributes PipelineAttributes    `json:"object_attributes" yaml:"object_attributes"`
	MergeRequest     *PipelineMergeRequest `json:"merge_request,omitempty" yaml:"merge_request,omitempty"`
	Commit           Commit                `json:"commit" yaml:"commit"`
}

// MergeRequestHook is the "Merge Request Hook" payload.
type MergeRequestHook struct {
	ObjectKind       string                 `json:"object_kind" yaml:"object_kind"`
	EventType        string                 `json:"event_type" yaml:"event_type"`
	User             User                   `json:"user" yaml:"user"`
	Project          Project                `json:"project" yaml:"project"`
	ObjectAttributes MergeRequestAttributes `json:"object_attributes" yaml:"object_attributes"`
	Labels           []Label                `json:"labels,omitempty" yaml:"labels,omitempty"`
}

type Label struct {
	ID    int64  `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}
