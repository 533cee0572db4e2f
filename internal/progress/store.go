// Package progress records what a learner has completed and applies run
// completions exactly once, advancing streak and XP metrics.
package progress

import (
	"context"
	"time"

	"github.com/mindquest/coach/internal/calendar"
	"github.com/mindquest/coach/internal/content"
)

// LessonStore persists the per-user, per-module completed-lesson sets.
// Sets only grow; ResetModule is the one way to shrink one.
type LessonStore interface {
	MarkLessonsCompleted(ctx context.Context, userID string, moduleID content.ModuleID, lessonIDs []content.LessonID) error
	CompletedLessons(ctx context.Context, userID string, moduleID content.ModuleID) ([]content.LessonID, error)
	ResetModule(ctx context.Context, userID string, moduleID content.ModuleID) error
}

// RunStore persists which runs a user has completed.
type RunStore interface {
	HasRunCompleted(ctx context.Context, userID, runID string) (bool, error)
	MarkRunCompleted(ctx context.Context, userID, runID string) error
}

// MetricsStore persists streak and XP counters.
// GetMetrics returns the zero Metrics for a user with no record.
type MetricsStore interface {
	GetMetrics(ctx context.Context, userID string) (Metrics, error)
	SetMetrics(ctx context.Context, userID string, m Metrics) error
}

// RunHistory lists completed runs, most recent first.
type RunHistory interface {
	RecentRuns(ctx context.Context, userID string, limit int) ([]RunRecord, error)
}

// Stores groups the stores one completion writes through.
type Stores struct {
	Lessons LessonStore
	Runs    RunStore
	Metrics MetricsStore
}

// Atomic is implemented by stores that can commit several writes as one
// unit. InTx runs fn against stores bound to a single transaction and
// commits only if fn returns nil. fn must not call InTx.
type Atomic interface {
	InTx(ctx context.Context, fn func(Stores) error) error
}

// Metrics are a user's streak and XP counters.
type Metrics struct {
	StreakDays        int          `json:"streak_days"`
	LongestStreakDays int          `json:"longest_streak_days"`
	LastCompletedDate calendar.Day `json:"last_completed_date"`
	TotalXP           int          `json:"total_xp"`
}

// RunRecord is one completed run.
type RunRecord struct {
	ID          string           `json:"id"`
	Sequence    int64            `json:"sequence"`
	RunID       string           `json:"run_id"`
	ModuleID    content.ModuleID `json:"module_id,omitempty"`
	CompletedAt time.Time        `json:"completed_at"`
}
