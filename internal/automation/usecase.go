package automation

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"gitlab-youtrack-automation/internal/args"
	"gitlab-youtrack-automation/internal/definition"
	"gitlab-youtrack-automation/internal/model"
	pkgLog "gitlab-youtrack-automation/pkg/log"
)

type usecase struct {
	table    *definition.Table
	executor *Executor
	l        pkgLog.Logger
}

// ProcessEvent runs the routed operations one after another. A failing
// operation does not stop the ones after it; all failures are returned together.
func (uc *usecase) ProcessEvent(ctx context.Context, input ProcessEventInput) (ProcessEventOutput, error) {
	event := input.Event
	ops := uc.table.Route(event.Kind, event.Bucket)

	uc.l.Infof(ctx, "Processing %s/%s event from %s: %d operation(s)", event.Kind, event.Bucket, event.Repository, len(ops))
	if len(ops) == 0 {
		return ProcessEventOutput{}, nil
	}

	runtime, err := args.FromEvent(event)
	if err != nil {
		return ProcessEventOutput{}, fmt.Errorf("event %s: %w", event.ID, err)
	}

	out := ProcessEventOutput{Operations: make([]OperationResult, 0, len(ops))}
	var errs error
	for _, op := range ops {
		res := uc.executor.Execute(ctx, op, runtime)
		out.Operations = append(out.Operations, res)

		switch {
		case res.Err != nil:
			uc.l.Errorf(ctx, "Operation %q failed at %s: %v", res.Operation, res.State, res.Err)
			errs = multierr.Append(errs, fmt.Errorf("operation %q: %w", res.Operation, res.Err))
		case !res.Passed:
			uc.l.Infof(ctx, "Operation %q skipped: arguments did not pass its filter", res.Operation)
		default:
			for _, issue := range res.Issues {
				if issue.Err != nil {
					errs = multierr.Append(errs, fmt.Errorf("operation %q on %s: %w", res.Operation, issue.Issue, issue.Err))
				}
			}
			uc.l.Infof(ctx, "Operation %q done: %d issue(s)", res.Operation, len(res.Issues))
		}
	}

	return out, errs
}

func (uc *usecase) Rules() map[model.EventKind]map[model.Bucket][]string {
	return uc.table.Summary()
}
