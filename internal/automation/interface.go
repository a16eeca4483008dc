package automation

import (
	"context"

	"gitlab-youtrack-automation/internal/model"
)

type UseCase interface {
	// ProcessEvent runs every operation routed to the event's kind and bucket.
	ProcessEvent(ctx context.Context, input ProcessEventInput) (ProcessEventOutput, error)

	// Rules lists the configured operation names per event kind and bucket.
	Rules() map[model.EventKind]map[model.Bucket][]string
}
