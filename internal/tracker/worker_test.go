package tracker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gitlab-youtrack-automation/internal/model"
	pkgLog "gitlab-youtrack-automation/pkg/log"
)

type recordingTracker struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingTracker) record(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recordingTracker) FindIssues(ctx context.Context, predicates []Predicate) ([]model.Issue, error) {
	r.record("find")
	return []model.Issue{{ID: "2-1", IDReadable: "PMS-1"}}, nil
}

func (r *recordingTracker) SetState(ctx context.Context, issue model.Issue, state string) error {
	r.record("state:" + state)
	return nil
}

func (r *recordingTracker) AddTag(ctx context.Context, issue model.Issue, tag model.Tag) error {
	r.record("tag:" + tag.Title)
	return nil
}

func (r *recordingTracker) SetDescription(ctx context.Context, issue model.Issue, description string) error {
	r.record("description:" + description)
	return nil
}

func TestWorkerDo(t *testing.T) {
	rt := &recordingTracker{}
	w := NewWorker(rt, 4, pkgLog.NewNop())
	w.Start()
	defer w.Stop()

	err := w.Do(context.Background(), func(ctx context.Context, tr Tracker) error {
		issues, err := tr.FindIssues(ctx, []Predicate{State("Open")})
		if err != nil {
			return err
		}
		return tr.SetState(ctx, issues[0], "Fixed")
	})
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if len(rt.calls) != 2 || rt.calls[1] != "state:Fixed" {
		t.Errorf("calls = %v", rt.calls)
	}
}

func TestWorkerSerializesJobs(t *testing.T) {
	w := NewWorker(&recordingTracker{}, 0, pkgLog.NewNop())
	w.Start()
	defer w.Stop()

	var running, overlap atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = w.Do(context.Background(), func(ctx context.Context, tr Tracker) error {
				if running.Add(1) > 1 {
					overlap.Add(1)
				}
				time.Sleep(time.Millisecond)
				running.Add(-1)
				return nil
			})
		}()
	}
	wg.Wait()

	if overlap.Load() != 0 {
		t.Errorf("jobs overlapped %d times", overlap.Load())
	}
}

func TestWorkerJobErrorAndPanic(t *testing.T) {
	w := NewWorker(&recordingTracker{}, 1, pkgLog.NewNop())
	w.Start()
	defer w.Stop()

	errBoom := errors.New("boom")
	if err := w.Do(context.Background(), func(context.Context, Tracker) error { return errBoom }); !errors.Is(err, errBoom) {
		t.Errorf("Do() error = %v, want boom", err)
	}

	err := w.Do(context.Background(), func(context.Context, Tracker) error { panic("bad job") })
	if !errors.Is(err, ErrJobPanicked) {
		t.Errorf("Do() error = %v, want ErrJobPanicked", err)
	}

	if err := w.Do(context.Background(), func(context.Context, Tracker) error { return nil }); err != nil {
		t.Errorf("worker unusable after panic: %v", err)
	}
}

func TestWorkerStopped(t *testing.T) {
	w := NewWorker(&recordingTracker{}, 1, pkgLog.NewNop())
	w.Start()
	w.Stop()
	w.Stop()

	err := w.Do(context.Background(), func(context.Context, Tracker) error { return nil })
	if !errors.Is(err, ErrWorkerStopped) {
		t.Errorf("Do() error = %v, want ErrWorkerStopped", err)
	}
}

func TestWorkerContextCancelled(t *testing.T) {
	w := NewWorker(&recordingTracker{}, 0, pkgLog.NewNop())
	w.Start()
	defer w.Stop()

	started := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = w.Do(context.Background(), func(context.Context, Tracker) error {
			close(started)
			<-release
			return nil
		})
	}()
	defer close(release)
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := w.Do(ctx, func(context.Context, Tracker) error { return nil })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Do() error = %v, want deadline exceeded", err)
	}
}

func TestDryRun(t *testing.T) {
	rt := &recordingTracker{}
	d := NewDryRun(rt, pkgLog.NewNop())
	ctx := context.Background()

	issues, err := d.FindIssues(ctx, []Predicate{IssueID("PMS-1")})
	if err != nil || len(issues) != 1 {
		t.Fatalf("FindIssues() = %v, %v", issues, err)
	}
	_ = d.SetState(ctx, issues[0], "Fixed")
	_ = d.AddTag(ctx, issues[0], model.Tag{Title: "Star", Style: 13})
	_ = d.SetDescription(ctx, issues[0], "Done")

	if len(rt.calls) != 1 || rt.calls[0] != "find" {
		t.Errorf("dry run reached the tracker: %v", rt.calls)
	}
}

func TestPredicateString(t *testing.T) {
	if got := State("Open").String(); got != "state=Open" {
		t.Errorf("String() = %q", got)
	}
}

func TestWorkerWaitsForStartedJob(t *testing.T) {
	w := NewWorker(&recordingTracker{}, 1, pkgLog.NewNop())
	w.Start()
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var finished atomic.Bool
	err := w.Do(ctx, func(ctx context.Context, _ Tracker) error {
		cancel()
		<-ctx.Done()
		time.Sleep(10 * time.Millisecond)
		finished.Store(true)
		return ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Do() error = %v, want context canceled", err)
	}
	if !finished.Load() {
		t.Error("Do() returned while its job was still running")
	}
}

func TestWorkerSkipsAbandonedJob(t *testing.T) {
	w := NewWorker(&recordingTracker{}, 1, pkgLog.NewNop())
	w.Start()
	defer w.Stop()

	started := make(chan struct{})
	release := make(chan struct{})
	firstDone := make(chan error, 1)
	go func() {
		firstDone <- w.Do(context.Background(), func(context.Context, Tracker) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	var ran atomic.Bool
	err := w.Do(ctx, func(context.Context, Tracker) error {
		ran.Store(true)
		return nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Do() error = %v, want deadline exceeded", err)
	}

	close(release)
	if err := <-firstDone; err != nil {
		t.Fatalf("first job error: %v", err)
	}
	// A later job runs after the abandoned one was dequeued.
	if err := w.Do(context.Background(), func(context.Context, Tracker) error { return nil }); err != nil {
		t.Fatalf("Do() after abandoned job: %v", err)
	}
	if ran.Load() {
		t.Error("abandoned job ran")
	}
}
