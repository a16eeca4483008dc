package automation

import (
	"gitlab-youtrack-automation/internal/definition"
	"gitlab-youtrack-automation/internal/tracker"
)

// Predicates translates filters one to one into tracker search predicates.
func Predicates(filters []definition.Filter) []tracker.Predicate {
	preds := make([]tracker.Predicate, 0, len(filters))
	for _, f := range filters {
		switch f.Type {
		case definition.FilterID:
			preds = append(preds, tracker.IssueID(f.Value))
		case definition.FilterState:
			preds = append(preds, tracker.State(f.Value))
		case definition.FilterProjectName:
			preds = append(preds, tracker.Project(f.Value))
		case definition.FilterTag:
			preds = append(preds, tracker.TagTitle(f.Tag.Title))
		}
	}
	return preds
}
