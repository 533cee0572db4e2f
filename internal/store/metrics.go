package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/mindquest/coach/internal/calendar"
	"github.com/mindquest/coach/internal/progress"
)

// GetMetrics returns the user's counters, or zero Metrics if none are stored.
func (s *Store) GetMetrics(ctx context.Context, userID string) (progress.Metrics, error) {
	b := entsql.Dialect(s.conn.Dialect())
	t := b.Table(tableUserMetrics)
	query, args := b.Select(t.C("streak_days"), t.C("longest_streak_days"), t.C("last_completed_date"), t.C("total_xp")).
		From(t).
		Where(entsql.EQ(t.C("user_id"), userID)).
		Query()

	var rows entsql.Rows
	if err := s.conn.Query(ctx, query, args, &rows); err != nil {
		return progress.Metrics{}, fmt.Errorf("query metrics: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return progress.Metrics{}, rows.Err()
	}
	var (
		m    progress.Metrics
		last string
	)
	if err := rows.Scan(&m.StreakDays, &m.LongestStreakDays, &last, &m.TotalXP); err != nil {
		return progress.Metrics{}, fmt.Errorf("scan metrics: %w", err)
	}
	day, err := calendar.ParseDay(last)
	if err != nil {
		return progress.Metrics{}, fmt.Errorf("stored metrics for %s: %w", userID, err)
	}
	m.LastCompletedDate = day
	return m, nil
}

// SetMetrics replaces the user's counters.
func (s *Store) SetMetrics(ctx context.Context, userID string, m progress.Metrics) error {
	query, args := entsql.Dialect(s.conn.Dialect()).
		Insert(tableUserMetrics).
		Columns("user_id", "streak_days", "longest_streak_days", "last_completed_date", "total_xp", "updated_at").
		Values(userID, m.StreakDays, m.LongestStreakDays, m.LastCompletedDate.String(), m.TotalXP, s.now().UTC()).
		OnConflict(entsql.ConflictColumns("user_id"), entsql.ResolveWithNewValues()).
		Query()
	if err := s.conn.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("upsert metrics: %w", err)
	}
	return nil
}
