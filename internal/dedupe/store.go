// Package dedupe tracks which mailbox messages have already been evaluated,
// so a notification produces at most one assignment event across poll cycles
// and restarts.
package dedupe

import "context"

// Store is the dedupe contract. Once Add returns, Contains observes true for
// the lifetime of the store; durable backends extend that across restarts.
type Store interface {
	Add(ctx context.Context, id string) error
	Contains(ctx context.Context, id string) (bool, error)
	All(ctx context.Context) ([]string, error)
	// Count reports the set size without materializing it; backends answer
	// with a cardinality query or a length, never a full scan.
	Count(ctx context.Context) (int, error)
	// Persist flushes pending state. Write-through backends implement it as
	// a no-op.
	Persist(ctx context.Context) error
}
