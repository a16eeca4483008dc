package tracker

import (
	"context"

	"gitlab-youtrack-automation/internal/model"
	pkgLog "gitlab-youtrack-automation/pkg/log"
)

// DryRun searches through the wrapped tracker but only logs mutations.
type DryRun struct {
	next Tracker
	l    pkgLog.Logger
}

func NewDryRun(next Tracker, l pkgLog.Logger) *DryRun {
	return &DryRun{next: next, l: l}
}

func (d *DryRun) FindIssues(ctx context.Context, predicates []Predicate) ([]model.Issue, error) {
	return d.next.FindIssues(ctx, predicates)
}

func (d *DryRun) SetState(ctx context.Context, issue model.Issue, state string) error {
	d.l.Infof(ctx, "dry-run: would set state of %s to %q", issue.IDReadable, state)
	return nil
}

func (d *DryRun) AddTag(ctx context.Context, issue model.Issue, tag model.Tag) error {
	d.l.Infof(ctx, "dry-run: would add tag %q (style %d) to %s", tag.Title, tag.Style, issue.IDReadable)
	return nil
}

func (d *DryRun) SetDescription(ctx context.Context, issue model.Issue, description string) error {
	d.l.Infof(ctx, "dry-run: would set description of %s to %q", issue.IDReadable, description)
	return nil
}
