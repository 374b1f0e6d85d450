package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// timeFormat is the canonical timestamp encoding for event rows.
const timeFormat = time.RFC3339Nano

// sequenceCounter hands out the global monotonic sequence number shared by
// every event type. Attempt events and LLM events live in separate tables,
// so per-table auto-increment IDs cannot establish cross-type ordering; the
// shared counter can ("did the grade land before or after the estimate?").
//
// The backing global_sequence row is created by migrate. The mutex
// serializes within the process; the RETURNING clause makes the increment
// atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}
