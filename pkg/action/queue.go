package action

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Policy decides what Enqueue does when the queue is full.
type Policy string

// Queue-full policies.
const (
	// PolicyBlock waits for room up to the enqueue timeout.
	PolicyBlock Policy = "block"
	// PolicyDrop rejects the request immediately.
	PolicyDrop Policy = "drop"
)

// DefaultCapacity is the queue depth used when none is configured.
const DefaultCapacity = 10

// QueueConfig configures a Queue.
type QueueConfig struct {
	Capacity int
	Policy   Policy
	// Timeout bounds a blocked Enqueue. Zero waits until the context ends.
	Timeout time.Duration
}

// Queue is a bounded FIFO of requests.
//
// Any number of producers may Enqueue; a single consumer Dequeues. Reset
// discards every pending request atomically with respect to the consumer.
type Queue struct {
	mu     sync.Mutex
	items  []Request
	closed bool

	epoch   uint64 // bumped by Reset
	claimed uint64 // epoch at the last successful Dequeue

	capacity int
	policy   Policy
	timeout  time.Duration

	notEmpty chan struct{}
	notFull  chan struct{}
	done     chan struct{}
}

// NewQueue creates a queue.
func NewQueue(cfg QueueConfig) *Queue {
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.Policy == "" {
		cfg.Policy = PolicyBlock
	}
	return &Queue{
		items:    make([]Request, 0, cfg.Capacity),
		capacity: cfg.Capacity,
		policy:   cfg.Policy,
		timeout:  cfg.Timeout,
		notEmpty: make(chan struct{}, 1),
		notFull:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// signal wakes one waiter without blocking.
func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// Enqueue appends r. On a full queue it follows the queue's policy and
// returns ErrQueueFull when the request could not be accepted.
func (q *Queue) Enqueue(ctx context.Context, r Request) error {
	var timeout <-chan time.Time
	if q.policy == PolicyBlock && q.timeout > 0 {
		timer := time.NewTimer(q.timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return ErrQueueClosed
		}
		if len(q.items) < q.capacity {
			q.items = append(q.items, r)
			room := len(q.items) < q.capacity
			q.mu.Unlock()

			signal(q.notEmpty)
			if room {
				signal(q.notFull)
			}
			return nil
		}
		q.mu.Unlock()

		if q.policy == PolicyDrop {
			return fmt.Errorf("%w: %s dropped", ErrQueueFull, r.Kind)
		}

		select {
		case <-q.notFull:
		case <-timeout:
			return fmt.Errorf("%w: %s timed out after %v", ErrQueueFull, r.Kind, q.timeout)
		case <-ctx.Done():
			return ctx.Err()
		case <-q.done:
			return ErrQueueClosed
		}
	}
}

// Dequeue removes the oldest request, waiting up to timeout for one.
// It returns ErrPollTimeout when nothing arrived in time.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (Request, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			r := q.items[0]
			q.items[0] = Request{}
			q.items = q.items[1:]
			q.claimed = q.epoch
			more := len(q.items) > 0
			q.mu.Unlock()

			signal(q.notFull)
			if more {
				signal(q.notEmpty)
			}
			return r, nil
		}
		closed := q.closed
		q.mu.Unlock()

		if closed {
			return Request{}, ErrQueueClosed
		}

		select {
		case <-q.notEmpty:
		case <-timer.C:
			return Request{}, ErrPollTimeout
		case <-ctx.Done():
			return Request{}, ctx.Err()
		case <-q.done:
		}
	}
}

// Reset discards every pending request and returns how many were dropped.
func (q *Queue) Reset() int {
	q.mu.Lock()
	n := len(q.items)
	q.items = make([]Request, 0, q.capacity)
	q.epoch++
	q.mu.Unlock()

	signal(q.notFull)
	return n
}

// Stale reports whether Reset ran after the last Dequeue handed out a
// request. The consumer checks it before acting on that request.
func (q *Queue) Stale() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.claimed != q.epoch
}

// Pending returns a copy of the queued requests, oldest first.
func (q *Queue) Pending() []Request {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Request, len(q.items))
	copy(out, q.items)
	return out
}

// Len returns the number of queued requests.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Cap returns the queue capacity.
func (q *Queue) Cap() int {
	return q.capacity
}

// Policy returns the queue-full policy.
func (q *Queue) Policy() Policy {
	return q.policy
}

// Close rejects further requests. Pending requests can still be dequeued.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.done)
}
