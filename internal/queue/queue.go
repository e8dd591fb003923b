// Package queue decouples detection cadence from processing cadence with a
// bounded, FIFO buffer between the poller and the orchestrator.
package queue

import (
	"context"
	"time"

	"mrsummarizer/pkg/metrics"
	"mrsummarizer/pkg/models"
)

type Queue struct {
	events chan models.AssignmentEvent
}

func New(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{
		events: make(chan models.AssignmentEvent, capacity),
	}
}

// Enqueue blocks until the event is buffered or the context is canceled.
// Incomplete events are rejected at this boundary rather than surfacing as a
// failed pipeline run downstream.
func (q *Queue) Enqueue(ctx context.Context, ev models.AssignmentEvent) error {
	if err := models.ValidateAssignmentEvent(&ev); err != nil {
		return err
	}

	select {
	case q.events <- ev:
		metrics.SetQueueDepth(len(q.events))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dequeue waits up to timeout for the next event. ok is false on timeout or
// cancellation; a timeout is not an error, it just lets the consumer loop
// re-check liveness. A canceled context never yields an event, even when the
// buffer is non-empty, so no new work starts after shutdown is requested.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (models.AssignmentEvent, bool) {
	if ctx.Err() != nil {
		return models.AssignmentEvent{}, false
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ev := <-q.events:
		metrics.SetQueueDepth(len(q.events))
		return ev, true
	case <-timer.C:
		return models.AssignmentEvent{}, false
	case <-ctx.Done():
		return models.AssignmentEvent{}, false
	}
}

func (q *Queue) Len() int {
	return len(q.events)
}
