package webhook

import "time"

// SecurityConfig holds webhook security settings
type SecurityConfig struct {
	Secret          string   // Shared secret sent by GitLab as X-Gitlab-Token
	AllowedIPs      []string // IP whitelist (optional)
	RateLimitPerMin int      // Max requests per minute per source
}

// Config configures the webhook handler.
type Config struct {
	Security     SecurityConfig
	DedupTTL     time.Duration // How long a delivery id is remembered
	EventTimeout time.Duration // Deadline of background processing per event
}

const (
	headerEvent = "X-Gitlab-Event"
	headerToken = "X-Gitlab-Token"
	headerUUID  = "X-Gitlab-Event-UUID"

	eventNote         = "Note Hook"
	eventPipeline     = "Pipeline Hook"
	eventMergeRequest = "Merge Request Hook"

	sourceGitLab = "gitlab"
)
