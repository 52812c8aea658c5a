package action

import "errors"

var (
	// ErrNotInitialized is returned by a controller whose queue or executor
	// could not be created. Callers degrade instead of crashing.
	ErrNotInitialized = errors.New("action: executor not initialized")

	// ErrQueueFull is returned when a request cannot be enqueued in time.
	ErrQueueFull = errors.New("action: queue full")

	// ErrQueueClosed is returned after the queue has been closed.
	ErrQueueClosed = errors.New("action: queue closed")

	// ErrPollTimeout is returned by Dequeue when nothing arrived in time.
	ErrPollTimeout = errors.New("action: no request")

	// ErrUnknownKind is returned for an action kind with no primitive.
	ErrUnknownKind = errors.New("action: unknown kind")

	// ErrInvalidParam is returned for a request with out-of-range parameters.
	ErrInvalidParam = errors.New("action: invalid parameter")
)
