package worker

import "errors"

// Worker domain errors
var (
	ErrWorkerNotFound = errors.New("worker not found")
	ErrWorkerInactive = errors.New("worker is inactive")
	ErrEmailExists    = errors.New("email already registered")
)
