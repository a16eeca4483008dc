// Package tracker defines the issue tracker contract the automation engine
// drives, and the worker that serializes access to it.
package tracker

import (
	"context"

	"gitlab-youtrack-automation/internal/model"
)

// PredicateKind is the field a search predicate constrains.
type PredicateKind int

const (
	PredicateIssueID PredicateKind = iota
	PredicateState
	PredicateProject
	PredicateTag
)

var predicateNames = [...]string{"issue id", "state", "project", "tag"}

func (k PredicateKind) String() string {
	return predicateNames[k]
}

// Predicate is one conjunct of an issue search.
type Predicate struct {
	Kind  PredicateKind
	Value string
}

func IssueID(id string) Predicate     { return Predicate{Kind: PredicateIssueID, Value: id} }
func State(state string) Predicate    { return Predicate{Kind: PredicateState, Value: state} }
func Project(name string) Predicate   { return Predicate{Kind: PredicateProject, Value: name} }
func TagTitle(title string) Predicate { return Predicate{Kind: PredicateTag, Value: title} }

func (p Predicate) String() string {
	return p.Kind.String() + "=" + p.Value
}

// Tracker searches and mutates issues of a remote tracker.
type Tracker interface {
	// FindIssues returns every issue matching all predicates.
	FindIssues(ctx context.Context, predicates []Predicate) ([]model.Issue, error)
	// SetState moves the issue to the named state.
	SetState(ctx context.Context, issue model.Issue, state string) error
	// AddTag attaches the tag, creating it first when the tracker lacks it.
	AddTag(ctx context.Context, issue model.Issue, tag model.Tag) error
	// SetDescription replaces the issue description.
	SetDescription(ctx context.Context, issue model.Issue, description string) error
}
