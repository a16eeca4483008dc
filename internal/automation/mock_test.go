package automation_test

import (
	"context"
	"errors"
	"fmt"

	"gitlab-youtrack-automation/internal/model"
	"gitlab-youtrack-automation/internal/tracker"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Info(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Error(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, args ...any)                 {}
func (m *mockLogger) DPanicf(ctx context.Context, format string, args ...any) {}
func (m *mockLogger) Panic(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Panicf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...any)  {}

var errTracker = errors.New("tracker unavailable")

type mockTracker struct {
	issues    []model.Issue
	findErr   error
	failState map[string]bool // issue id -> SetState fails
	searches  [][]tracker.Predicate
	calls     []string
}

func (m *mockTracker) FindIssues(ctx context.Context, predicates []tracker.Predicate) ([]model.Issue, error) {
	m.searches = append(m.searches, predicates)
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.issues, nil
}

func (m *mockTracker) SetState(ctx context.Context, issue model.Issue, state string) error {
	if m.failState[issue.IDReadable] {
		return errTracker
	}
	m.calls = append(m.calls, fmt.Sprintf("%s state %s", issue.IDReadable, state))
	return nil
}

func (m *mockTracker) AddTag(ctx context.Context, issue model.Issue, tag model.Tag) error {
	m.calls = append(m.calls, fmt.Sprintf("%s tag %s/%d", issue.IDReadable, tag.Title, tag.Style))
	return nil
}

func (m *mockTracker) SetDescription(ctx context.Context, issue model.Issue, description string) error {
	m.calls = append(m.calls, fmt.Sprintf("%s description %s", issue.IDReadable, description))
	return nil
}

// directRunner runs jobs inline on the caller's goroutine.
type directRunner struct {
	t    tracker.Tracker
	jobs int
}

func (r *directRunner) Do(ctx context.Context, job tracker.Job) error {
	r.jobs++
	return job(ctx, r.t)
}

// slowTracker ends the caller's context from inside a search, waits for it,
// then returns n issues.
type slowTracker struct {
	mockTracker
	n      int
	cancel context.CancelFunc
}

func (s *slowTracker) FindIssues(ctx context.Context, predicates []tracker.Predicate) ([]model.Issue, error) {
	s.cancel()
	<-ctx.Done()
	issues := make([]model.Issue, s.n)
	for i := range issues {
		issues[i] = model.Issue{IDReadable: fmt.Sprintf("PMS-%d", i+1)}
	}
	return issues, nil
}
