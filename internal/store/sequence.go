package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// The run sequence numbers every run completion. ULIDs only order by
// millisecond; the sequence orders completions that share a timestamp.
// The UPDATE ... RETURNING increment is atomic in the database, so it is
// safe across connections and inside a transaction.

// seedSequence creates the counter row if it doesn't exist.
func seedSequence(ctx context.Context, c conn) error {
	query, args := entsql.Dialect(c.Dialect()).
		Insert(tableRunSequence).
		Columns("id", "next_val").
		Values(1, 1).
		OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing()).
		Query()
	if err := c.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("seed sequence: %w", err)
	}
	return nil
}

// nextSequence returns the next sequence number and increments the counter.
func nextSequence(ctx context.Context, c conn) (int64, error) {
	var rows entsql.Rows
	err := c.Query(ctx,
		`UPDATE run_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
		[]any{}, &rows)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	defer rows.Close()

	seq, err := entsql.ScanInt64(&rows)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}
