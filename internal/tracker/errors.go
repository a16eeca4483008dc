package tracker

import "errors"

var (
	ErrWorkerStopped = errors.New("tracker worker stopped")
	ErrJobPanicked   = errors.New("tracker job panicked")
)
