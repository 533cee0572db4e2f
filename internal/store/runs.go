package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/mindquest/coach/internal/content"
	"github.com/mindquest/coach/internal/progress"
	"github.com/mindquest/coach/internal/session"
)

// HasRunCompleted reports whether the user has completed runID.
func (s *Store) HasRunCompleted(ctx context.Context, userID, runID string) (bool, error) {
	b := entsql.Dialect(s.conn.Dialect())
	t := b.Table(tableRunCompletions)
	query, args := b.Select(entsql.Count("*")).
		From(t).
		Where(entsql.And(
			entsql.EQ(t.C("user_id"), userID),
			entsql.EQ(t.C("run_id"), runID),
		)).
		Query()

	var rows entsql.Rows
	if err := s.conn.Query(ctx, query, args, &rows); err != nil {
		return false, fmt.Errorf("query run %s: %w", runID, err)
	}
	defer rows.Close()

	n, err := entsql.ScanInt(&rows)
	if err != nil {
		return false, fmt.Errorf("scan run %s: %w", runID, err)
	}
	return n > 0, nil
}

// MarkRunCompleted records runID as completed. Marking a run twice keeps
// the first record.
func (s *Store) MarkRunCompleted(ctx context.Context, userID, runID string) error {
	now := s.now().UTC()
	id, err := s.newID(now)
	if err != nil {
		return fmt.Errorf("generate run completion id: %w", err)
	}
	seq, err := nextSequence(ctx, s.conn)
	if err != nil {
		return err
	}
	var module content.ModuleID
	if _, m, err := session.ParseRunID(runID); err == nil {
		module = m
	}

	query, args := entsql.Dialect(s.conn.Dialect()).
		Insert(tableRunCompletions).
		Columns("id", "sequence", "user_id", "run_id", "module_id", "completed_at").
		Values(id, seq, userID, runID, string(module), now).
		OnConflict(entsql.ConflictColumns("user_id", "run_id"), entsql.DoNothing()).
		Query()
	if err := s.conn.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("insert run completion: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit completed runs, most recent first.
// A non-positive limit returns every run.
func (s *Store) RecentRuns(ctx context.Context, userID string, limit int) ([]progress.RunRecord, error) {
	b := entsql.Dialect(s.conn.Dialect())
	t := b.Table(tableRunCompletions)
	sel := b.Select(t.C("id"), t.C("sequence"), t.C("run_id"), t.C("module_id"), t.C("completed_at")).
		From(t).
		Where(entsql.EQ(t.C("user_id"), userID)).
		OrderBy(entsql.Desc(t.C("sequence")))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	var rows entsql.Rows
	if err := s.conn.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	defer rows.Close()

	var out []progress.RunRecord
	for rows.Next() {
		var (
			rec    progress.RunRecord
			module string
			at     time.Time
		)
		if err := rows.Scan(&rec.ID, &rec.Sequence, &rec.RunID, &module, &at); err != nil {
			return nil, fmt.Errorf("scan recent run: %w", err)
		}
		rec.ModuleID = content.ModuleID(module)
		rec.CompletedAt = at.UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}
