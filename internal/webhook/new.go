package webhook

import (
	"sync"
	"time"

	"gitlab-youtrack-automation/internal/automation"
	pkgLog "gitlab-youtrack-automation/pkg/log"
)

const defaultEventTimeout = 2 * time.Minute

type Handler struct {
	automationUC automation.UseCase
	security     *SecurityValidator
	gitlabParser *GitLabWebhookParser
	deliveries   *deliveryCache
	eventTimeout time.Duration
	wg           sync.WaitGroup
	l            pkgLog.Logger
}

func NewHandler(
	automationUC automation.UseCase,
	cfg Config,
	l pkgLog.Logger,
) *Handler {
	timeout := cfg.EventTimeout
	if timeout <= 0 {
		timeout = defaultEventTimeout
	}
	return &Handler{
		automationUC: automationUC,
		security:     NewSecurityValidator(cfg.Security),
		gitlabParser: NewGitLabParser(),
		deliveries:   newDeliveryCache(cfg.DedupTTL),
		eventTimeout: timeout,
		l:            l,
	}
}

// Wait blocks until every accepted event finished processing.
func (h *Handler) Wait() {
	h.wg.Wait()
}
