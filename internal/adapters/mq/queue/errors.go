package queue

import "errors"

var (
	// ErrFull marks a mutation rejected for backpressure.
	ErrFull = errors.New("queue: full")
	// ErrStopped is replied to mutations still queued when the reader stops.
	ErrStopped = errors.New("queue: writer stopped")
)
