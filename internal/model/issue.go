package model

// Issue is the in-memory view of a tracker issue owned by one operation invocation.
type Issue struct {
	ID          string   // Internal id, e.g. "2-42"
	IDReadable  string   // Human id, e.g. "PMS-2750"
	ProjectID   string
	ProjectName string
	Summary     string
	Description string
	State       string
	Tags        []string // Tag titles
}

// Tag is a tracker tag to attach to an issue.
type Tag struct {
	Title string
	Style uint8
}
