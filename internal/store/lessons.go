package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/mindquest/coach/internal/content"
)

// MarkLessonsCompleted adds lessonIDs to the user's completed set for moduleID.
// Lessons already in the set keep their original completion time.
func (s *Store) MarkLessonsCompleted(ctx context.Context, userID string, moduleID content.ModuleID, lessonIDs []content.LessonID) error {
	if len(lessonIDs) == 0 {
		return nil
	}
	now := s.now().UTC()
	ins := entsql.Dialect(s.conn.Dialect()).
		Insert(tableCompletedLessons).
		Columns("user_id", "module_id", "lesson_id", "completed_at")
	for _, id := range lessonIDs {
		ins.Values(userID, string(moduleID), string(id), now)
	}
	query, args := ins.
		OnConflict(entsql.ConflictColumns("user_id", "module_id", "lesson_id"), entsql.DoNothing()).
		Query()
	if err := s.conn.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("insert completed lessons: %w", err)
	}
	return nil
}

// CompletedLessons returns the user's completed set for moduleID in completion
// order; lessons completed together are ordered by ID.
func (s *Store) CompletedLessons(ctx context.Context, userID string, moduleID content.ModuleID) ([]content.LessonID, error) {
	b := entsql.Dialect(s.conn.Dialect())
	t := b.Table(tableCompletedLessons)
	query, args := b.Select(t.C("lesson_id")).
		From(t).
		Where(entsql.And(
			entsql.EQ(t.C("user_id"), userID),
			entsql.EQ(t.C("module_id"), string(moduleID)),
		)).
		OrderBy(t.C("completed_at"), t.C("lesson_id")).
		Query()

	var rows entsql.Rows
	if err := s.conn.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query completed lessons: %w", err)
	}
	defer rows.Close()

	var ids []string
	if err := entsql.ScanSlice(&rows, &ids); err != nil {
		return nil, fmt.Errorf("scan completed lessons: %w", err)
	}
	out := make([]content.LessonID, len(ids))
	for i, id := range ids {
		out[i] = content.LessonID(id)
	}
	return out, nil
}

// ResetModule clears the user's completed set for moduleID.
func (s *Store) ResetModule(ctx context.Context, userID string, moduleID content.ModuleID) error {
	query, args := entsql.Dialect(s.conn.Dialect()).
		Delete(tableCompletedLessons).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.EQ("module_id", string(moduleID)),
		)).
		Query()
	if err := s.conn.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("reset module %s: %w", moduleID, err)
	}
	return nil
}
