package webhook

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gitlab-youtrack-automation/internal/automation"
	"gitlab-youtrack-automation/internal/model"
	pkgLog "gitlab-youtrack-automation/pkg/log"
	pkgResponse "gitlab-youtrack-automation/pkg/response"
)

const maxBodyBytes = 25 << 20

// HandleGitLabWebhook processes GitLab webhook events
// @Summary GitLab webhook
// @Description Receives Note, Pipeline and Merge Request hooks and runs the routed operations in the background.
// @Tags webhook
// @Accept json
// @Produce json
// @Param X-Gitlab-Event header string true "GitLab event type"
// @Param X-Gitlab-Token header string true "Shared secret"
// @Success 200 {object} response.Resp
// @Success 202 {object} response.Resp
// @Failure 400 {object} response.Resp
// @Failure 401 {object} response.Resp
// @Failure 429 {object} response.Resp
// @Router /webhook/gitlab [post]
func (h *Handler) HandleGitLabWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.security.ValidateIPAddress(c.Request); err != nil {
		h.l.Warnf(ctx, "GitLab webhook rejected: %v", err)
		pkgResponse.Forbidden(c)
		return
	}

	// Verify token
	if err := h.security.ValidateGitLabToken(c.GetHeader(headerToken)); err != nil {
		h.l.Errorf(ctx, "GitLab token verification failed: %v", err)
		pkgResponse.Unauthorized(c)
		return
	}

	// Check rate limit
	if err := h.security.CheckRateLimit(sourceGitLab + ":" + extractIP(c.Request)); err != nil {
		h.l.Warnf(ctx, "Rate limit exceeded: %v", err)
		pkgResponse.TooManyRequests(c)
		return
	}

	// Read body
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		h.l.Errorf(ctx, "Failed to read webhook body: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	eventType := c.GetHeader(headerEvent)
	event, err := h.gitlabParser.Parse(eventType, body)
	switch {
	case errors.Is(err, ErrIgnored):
		h.l.Infof(ctx, "GitLab event ignored: %v", err)
		pkgResponse.Ignored(c, pkgResponse.DeliveryIgnored, err.Error())
		return
	case err != nil:
		h.l.Errorf(ctx, "Failed to parse GitLab event: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	event.ID = deliveryID(c.GetHeader(headerUUID), eventType, body)
	event.ReceivedAt = time.Now()
	if !h.deliveries.firstSeen(event.ID) {
		h.l.Infof(ctx, "GitLab delivery %s already processed", event.ID)
		pkgResponse.Ignored(c, pkgResponse.DeliveryDuplicate, "delivery already received")
		return
	}

	// Process in background
	h.wg.Add(1)
	go h.processWebhookAsync(*event)

	pkgResponse.Accepted(c, event.ID)
}

// processWebhookAsync processes webhook in background
func (h *Handler) processWebhookAsync(event model.WebhookEvent) {
	defer h.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), h.eventTimeout)
	defer cancel()
	ctx = pkgLog.WithTraceID(ctx, uuid.NewString())

	defer func() {
		if r := recover(); r != nil {
			h.deliveries.forget(event.ID)
			h.l.Errorf(ctx, "Webhook processing panicked for %s: %v", event.ID, r)
		}
	}()

	h.l.Infof(ctx, "Processing webhook async: %s/%s delivery %s from %s", event.Kind, event.Bucket, event.ID, event.Repository)

	output, err := h.automationUC.ProcessEvent(ctx, automation.ProcessEventInput{Event: event})
	if err != nil {
		h.deliveries.forget(event.ID)
		h.l.Errorf(ctx, "Webhook processing failed, delivery %s may be redelivered: %v", event.ID, err)
		return
	}

	h.l.Infof(ctx, "Webhook processed: %d operation(s), %d issue(s) updated", len(output.Operations), output.IssuesUpdated())
}
