package automation

import (
	"gitlab-youtrack-automation/internal/definition"
	"gitlab-youtrack-automation/internal/model"
)

// ProcessEventInput is input for event processing
type ProcessEventInput struct {
	Event model.WebhookEvent
}

// ProcessEventOutput holds one result per routed operation, in routing order.
type ProcessEventOutput struct {
	Operations []OperationResult
}

// IssuesUpdated counts issues that received every update of their operation.
func (o ProcessEventOutput) IssuesUpdated() int {
	n := 0
	for _, op := range o.Operations {
		for _, issue := range op.Issues {
			if issue.Err == nil {
				n++
			}
		}
	}
	return n
}

// State is the stage an operation invocation reached.
type State int

const (
	StateIdle State = iota
	StateArgsMerged
	StateGated
	StateIssuesResolved
	StateMutating
	StateDone
)

var stateNames = [...]string{"idle", "args-merged", "gated", "issues-resolved", "mutating", "done"}

func (s State) String() string {
	return stateNames[s]
}

// OperationResult is the outcome of one operation invocation.
type OperationResult struct {
	Operation string
	State     State
	// Passed is false when the gate rejected the merged arguments.
	Passed bool
	Issues []IssueResult
	Err    error
}

// IssueResult lists the updates applied to one issue. Err is the update that
// stopped the sequence, if any.
type IssueResult struct {
	Issue   string
	Applied []definition.UpdateKind
	Err     error
}
