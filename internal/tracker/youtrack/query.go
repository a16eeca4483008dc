package youtrack

import (
	"strings"

	"gitlab-youtrack-automation/internal/tracker"
)

// Query renders predicates in the YouTrack search language. Values are braced
// so that names containing spaces stay one term.
func Query(predicates []tracker.Predicate) string {
	terms := make([]string, 0, len(predicates))
	for _, p := range predicates {
		switch p.Kind {
		case tracker.PredicateIssueID:
			terms = append(terms, "issue id: "+brace(p.Value))
		case tracker.PredicateState:
			terms = append(terms, "State: "+brace(p.Value))
		case tracker.PredicateProject:
			terms = append(terms, "project: "+brace(p.Value))
		case tracker.PredicateTag:
			terms = append(terms, "tag: "+brace(p.Value))
		}
	}
	return strings.Join(terms, " ")
}

func brace(v string) string {
	return "{" + strings.NewReplacer("{", "", "}", "").Replace(v) + "}"
}
