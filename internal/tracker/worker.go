package tracker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	pkgLog "gitlab-youtrack-automation/pkg/log"
)

// Job is a unit of work run with exclusive access to the tracker.
type Job func(ctx context.Context, t Tracker) error

// Job states. A request moves from pending to running on the worker, or to
// abandoned when its caller gives up first; never both.
const (
	jobPending int32 = iota
	jobRunning
	jobAbandoned
)

type request struct {
	ctx   context.Context
	job   Job
	reply chan error
	state atomic.Int32
}

// Worker owns a Tracker. Jobs submitted through Do run one at a time on the
// worker goroutine, so no two jobs ever interleave their tracker calls.
type Worker struct {
	t     Tracker
	l     pkgLog.Logger
	jobs  chan *request
	quit  chan struct{}
	done  chan struct{}
	start sync.Once
	stop  sync.Once
}

// NewWorker creates a worker with a queue of queueSize pending jobs.
func NewWorker(t Tracker, queueSize int, l pkgLog.Logger) *Worker {
	return &Worker{
		t:    t,
		l:    l,
		jobs: make(chan *request, max(queueSize, 0)),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Start launches the worker goroutine. Calling it more than once is a no-op.
func (w *Worker) Start() {
	w.start.Do(func() {
		go w.loop()
	})
}

// Stop lets the running job finish and stops the worker. Queued jobs fail with
// ErrWorkerStopped.
func (w *Worker) Stop() {
	w.stop.Do(func() {
		close(w.quit)
	})
	w.start.Do(func() { close(w.done) })
	<-w.done
}

// Do queues job and waits for its result. When ctx ends before the worker
// picks the job up, the job never runs. Once it runs, Do waits for it to
// return; the job gets ctx and is expected to stop promptly.
func (w *Worker) Do(ctx context.Context, job Job) error {
	req := &request{ctx: ctx, job: job, reply: make(chan error, 1)}

	select {
	case w.jobs <- req:
	case <-ctx.Done():
		return ctx.Err()
	case <-w.quit:
		return ErrWorkerStopped
	}

	select {
	case err := <-req.reply:
		return err
	case <-ctx.Done():
		if req.state.CompareAndSwap(jobPending, jobAbandoned) {
			return ctx.Err()
		}
		return w.wait(req)
	case <-w.done:
		return w.wait(req)
	}
}

// wait collects the reply of a job the worker picked up, or reports the
// worker stopped when it exited first.
func (w *Worker) wait(req *request) error {
	select {
	case err := <-req.reply:
		return err
	case <-w.done:
		select {
		case err := <-req.reply:
			return err
		default:
			return ErrWorkerStopped
		}
	}
}

func (w *Worker) loop() {
	defer close(w.done)
	for {
		select {
		case <-w.quit:
			return
		case req := <-w.jobs:
			req.reply <- w.run(req)
		}
	}
}

func (w *Worker) run(req *request) (err error) {
	if !req.state.CompareAndSwap(jobPending, jobRunning) {
		return req.ctx.Err()
	}
	if err := req.ctx.Err(); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			w.l.Errorf(req.ctx, "tracker.Worker.run: job panicked: %v", r)
			err = fmt.Errorf("%w: %v", ErrJobPanicked, r)
		}
	}()
	return req.job(req.ctx, w.t)
}
