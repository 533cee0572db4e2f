package progress

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/mindquest/coach/internal/calendar"
	"github.com/mindquest/coach/internal/content"
	"github.com/mindquest/coach/internal/session"
)

// SkipReason explains a completion that was tolerated but not persisted.
type SkipReason string

const (
	SkipMalformedPlan SkipReason = "malformed_plan"
	SkipAnonymous     SkipReason = "anonymous"
)

// Result is the outcome of a completion attempt.
type Result struct {
	Applied          bool         `json:"applied"`
	AlreadyCompleted bool         `json:"already_completed,omitempty"`
	Skipped          SkipReason   `json:"skipped,omitempty"`
	XPAwarded        int          `json:"xp_awarded,omitempty"`
	Streak           StreakChange `json:"streak,omitempty"`
	Milestone        int          `json:"milestone,omitempty"` // streak length reached, 0 if none
	Metrics          *Metrics     `json:"metrics,omitempty"`   // nil unless a MetricsStore is configured
}

// Tracker applies run completions exactly once per (user, run).
type Tracker struct {
	lessons  LessonStore
	runs     RunStore
	metrics  MetricsStore
	registry *content.Registry
	now      func() time.Time
	loc      *time.Location
	xp       XPConfig
	logger   *zap.Logger

	group singleflight.Group
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithMetrics enables streak and XP updates.
func WithMetrics(m MetricsStore) Option {
	return func(t *Tracker) { t.metrics = m }
}

// WithRegistry drops plan lesson IDs the registry does not know.
func WithRegistry(reg *content.Registry) Option {
	return func(t *Tracker) { t.registry = reg }
}

// WithClock sets the time source used to date completions.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithLocation sets the location whose calendar days streaks count in.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) { t.loc = loc }
}

// WithXP overrides the XP values.
func WithXP(xp XPConfig) Option {
	return func(t *Tracker) { t.xp = xp }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// NewTracker creates a tracker writing through the given stores.
func NewTracker(lessons LessonStore, runs RunStore, opts ...Option) *Tracker {
	t := &Tracker{
		lessons: lessons,
		runs:    runs,
		now:     time.Now,
		loc:     time.UTC,
		xp:      DefaultXP(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// CompleteRun marks plan complete for userID. Malformed plans and anonymous
// users are reported in Result.Skipped, not as errors. A run that is already
// complete reports AlreadyCompleted and writes nothing.
func (t *Tracker) CompleteRun(ctx context.Context, plan *session.Plan, userID string) (Result, error) {
	if plan == nil || plan.RunID == "" || plan.ModuleID == "" || len(plan.Lessons) == 0 {
		t.logger.Debug("completion skipped", zap.String("reason", string(SkipMalformedPlan)))
		return Result{Skipped: SkipMalformedPlan}, nil
	}
	if userID == "" {
		t.logger.Debug("completion skipped",
			zap.String("reason", string(SkipAnonymous)),
			zap.String("run_id", plan.RunID))
		return Result{Skipped: SkipAnonymous}, nil
	}

	core := t.known(plan.Lessons, plan.RunID)
	if len(core) == 0 {
		t.logger.Warn("completion skipped: no known core lesson",
			zap.String("run_id", plan.RunID),
			zap.String("module_id", string(plan.ModuleID)))
		return Result{Skipped: SkipMalformedPlan}, nil
	}
	electives := t.known(plan.Electives, plan.RunID)

	leader := false
	v, err, _ := t.group.Do(userID+"\x00"+plan.RunID, func() (any, error) {
		leader = true
		return t.apply(ctx, userID, plan.RunID, plan.ModuleID, core, electives)
	})
	if err != nil {
		return Result{}, err
	}
	res := v.(Result)
	if !leader && res.Applied {
		// Another caller completed this run while we waited.
		return Result{AlreadyCompleted: true, Metrics: cloneMetrics(res.Metrics)}, nil
	}
	return res, nil
}

// apply writes one completion. When the run store implements Atomic every
// write shares one transaction. Otherwise the run is marked last, so a
// failed lesson or metrics write leaves the run open for a retry.
func (t *Tracker) apply(ctx context.Context, userID, runID string, moduleID content.ModuleID, core, electives []content.LessonID) (Result, error) {
	atomic, ok := t.runs.(Atomic)
	if !ok {
		return t.write(ctx, Stores{Lessons: t.lessons, Runs: t.runs, Metrics: t.metrics}, userID, runID, moduleID, core, electives)
	}

	var res Result
	err := atomic.InTx(ctx, func(tx Stores) error {
		if t.metrics == nil {
			tx.Metrics = nil
		}
		r, err := t.write(ctx, tx, userID, runID, moduleID, core, electives)
		res = r
		return err
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func (t *Tracker) write(ctx context.Context, st Stores, userID, runID string, moduleID content.ModuleID, core, electives []content.LessonID) (Result, error) {
	log := t.logger.With(zap.String("user_id", userID), zap.String("run_id", runID))

	done, err := st.Runs.HasRunCompleted(ctx, userID, runID)
	if err != nil {
		return Result{}, fmt.Errorf("check run %s: %w", runID, err)
	}
	if done {
		log.Info("run already completed")
		return Result{AlreadyCompleted: true}, nil
	}

	ids := make([]content.LessonID, 0, len(core)+len(electives))
	ids = append(ids, core...)
	ids = append(ids, electives...)
	if err := st.Lessons.MarkLessonsCompleted(ctx, userID, moduleID, ids); err != nil {
		return Result{}, fmt.Errorf("mark lessons completed: %w", err)
	}

	res := Result{Applied: true}
	if st.Metrics != nil {
		m, err := st.Metrics.GetMetrics(ctx, userID)
		if err != nil {
			return Result{}, fmt.Errorf("get metrics: %w", err)
		}
		next, change := AdvanceStreak(m, calendar.DayOf(t.now(), t.loc))
		milestone := change != StreakHeld && IsStreakMilestone(next.StreakDays)
		xp := t.xp.Award(len(core), len(electives), milestone)
		next.TotalXP += xp
		if err := st.Metrics.SetMetrics(ctx, userID, next); err != nil {
			return Result{}, fmt.Errorf("set metrics: %w", err)
		}

		res.XPAwarded = xp
		res.Streak = change
		res.Metrics = &next
		if milestone {
			res.Milestone = next.StreakDays
		}
	}

	if err := st.Runs.MarkRunCompleted(ctx, userID, runID); err != nil {
		return Result{}, fmt.Errorf("mark run %s completed: %w", runID, err)
	}

	log.Info("run completed",
		zap.String("module_id", string(moduleID)),
		zap.Int("lessons", len(ids)),
		zap.Int("xp", res.XPAwarded),
		zap.String("streak", string(res.Streak)))
	return res, nil
}

// known filters out lesson IDs the registry does not define.
func (t *Tracker) known(ids []content.LessonID, runID string) []content.LessonID {
	if t.registry == nil {
		return ids
	}
	out := make([]content.LessonID, 0, len(ids))
	for _, id := range ids {
		if _, ok := t.registry.Lesson(id); !ok {
			t.logger.Warn("dropping unknown lesson from completion",
				zap.String("run_id", runID),
				zap.String("lesson_id", string(id)))
			continue
		}
		out = append(out, id)
	}
	return out
}

func cloneMetrics(m *Metrics) *Metrics {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}
