package automation

import (
	"context"
	"fmt"

	"gitlab-youtrack-automation/internal/args"
	"gitlab-youtrack-automation/internal/definition"
	"gitlab-youtrack-automation/internal/model"
	"gitlab-youtrack-automation/internal/tracker"
	pkgLog "gitlab-youtrack-automation/pkg/log"
)

// Executor runs one operation against the tracker.
type Executor struct {
	runner Runner
	l      pkgLog.Logger
}

func NewExecutor(runner Runner, l pkgLog.Logger) *Executor {
	return &Executor{runner: runner, l: l}
}

// Execute merges the operation's custom arguments with runtime, evaluates its
// gate and, when it passes, applies the updates to every issue the filters
// select. Issues are independent; the first failing update of an issue skips
// the rest of that issue's updates.
func (e *Executor) Execute(ctx context.Context, op definition.Operation, runtime args.Argument) OperationResult {
	res := OperationResult{Operation: op.Name(), State: StateIdle}

	ct, ok := op.(*definition.ChangeTasks)
	if !ok {
		res.Err = &definition.UnsupportedTypeError{Type: string(op.Type())}
		return res
	}

	merged, err := args.Merge(ct.CustomArgs, runtime)
	if err != nil {
		res.Err = fmt.Errorf("merge arguments: %w", err)
		return res
	}
	values, err := merged.ToConfig()
	if err != nil {
		res.Err = fmt.Errorf("merge arguments: %w", err)
		return res
	}
	res.State = StateArgsMerged

	hasAll := args.HasAll(values, ct.FilterArgs.Has)
	allEquals := args.AllEquals(values, ct.FilterArgs.Equals)
	res.State = StateGated
	res.Passed = hasAll && allEquals
	e.l.Debugf(ctx, "automation.Execute: operation=%q has_all=%t all_equals=%t", ct.Name(), hasAll, allEquals)
	if !res.Passed {
		res.State = StateDone
		return res
	}

	if len(ct.Filter) == 0 {
		e.l.Warnf(ctx, "automation.Execute: operation %q has no filter, no issues selected", ct.Name())
		res.State = StateDone
		return res
	}

	// The job owns its progress until it hands it over through outcome.
	outcome := make(chan jobOutcome, 1)
	err = e.runner.Do(ctx, func(ctx context.Context, t tracker.Tracker) error {
		var out jobOutcome
		defer func() {
			select {
			case outcome <- out:
			default:
			}
		}()

		issues, err := t.FindIssues(ctx, Predicates(ct.Filter))
		if err != nil {
			return fmt.Errorf("find issues: %w", err)
		}
		out.state = StateIssuesResolved
		e.l.Infof(ctx, "automation.Execute: operation=%q matched %d issue(s)", ct.Name(), len(issues))

		out.state = StateMutating
		for _, issue := range issues {
			out.issues = append(out.issues, e.apply(ctx, t, issue, ct.Update))
		}
		return nil
	})
	select {
	case out := <-outcome:
		res.Issues = out.issues
		if out.state > res.State {
			res.State = out.state
		}
	default:
	}
	if err != nil {
		res.Err = err
		return res
	}

	res.State = StateDone
	return res
}

// jobOutcome is what a tracker job reached before it returned.
type jobOutcome struct {
	state  State
	issues []IssueResult
}

func (e *Executor) apply(ctx context.Context, t tracker.Tracker, issue model.Issue, updates []definition.UpdateKind) IssueResult {
	res := IssueResult{Issue: issue.IDReadable}
	for _, u := range updates {
		var err error
		switch u.Type {
		case definition.UpdateStatus:
			err = t.SetState(ctx, issue, u.Text)
			if err == nil {
				issue.State = u.Text
			}
		case definition.UpdateAddTag:
			err = t.AddTag(ctx, issue, model.Tag{Title: u.Tag.Title, Style: u.Tag.Style})
			if err == nil {
				issue.Tags = append(issue.Tags, u.Tag.Title)
			}
		case definition.UpdateTitle:
			err = t.SetDescription(ctx, issue, u.Text)
			if err == nil {
				issue.Description = u.Text
			}
		}
		if err != nil {
			e.l.Errorf(ctx, "automation.apply: %s on %s failed: %v", u, issue.IDReadable, err)
			res.Err = fmt.Errorf("%s: %w", u, err)
			return res
		}
		res.Applied = append(res.Applied, u)
	}
	return res
}
