// Package cursor persists collection progress: per-task watermarks, the
// round-robin pointer, and monthly counters.
package cursor

import "context"

// Store is the cursor persistence contract.
//
// Reads fail soft: a missing key and an unreachable store both report
// "absent", so a task with no readable state runs as if it were fresh.
// Record persistence is idempotent by id, so the worst case is re-fetching
// already-stored tweets. Writes must be durable on success; callers only
// advance their notion of progress after Put returns nil.
type Store interface {
	// Get returns the value for key, or ("", false) when absent.
	Get(ctx context.Context, key string) (string, bool)

	// Put durably stores value under key.
	Put(ctx context.Context, key, value string) error

	// GetInt reads a counter, or (0, false) when absent.
	GetInt(ctx context.Context, key string) (int64, bool)

	// Increment atomically adds delta to the counter under key, creating
	// it at delta when absent, and returns the new total. Implementations
	// must use an atomic add, not read-modify-write: overlapping
	// invocations incrementing the same counter must not lose updates.
	Increment(ctx context.Context, key string, delta int64) (int64, error)
}
