package automation

import (
	"context"

	"gitlab-youtrack-automation/internal/definition"
	"gitlab-youtrack-automation/internal/tracker"
	pkgLog "gitlab-youtrack-automation/pkg/log"
)

// Runner gives a job exclusive access to the tracker. *tracker.Worker is the
// production implementation.
type Runner interface {
	Do(ctx context.Context, job tracker.Job) error
}

func New(table *definition.Table, runner Runner, l pkgLog.Logger) UseCase {
	return &usecase{
		table:    table,
		executor: NewExecutor(runner, l),
		l:        l,
	}
}
