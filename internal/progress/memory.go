package progress

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/mindquest/coach/internal/content"
	"github.com/mindquest/coach/internal/session"
)

type userModule struct {
	user   string
	module content.ModuleID
}

type completedRun struct {
	seq int64
	at  time.Time
}

// MemoryStore keeps progress in process memory. It implements every store
// interface in this package and is safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	now     func() time.Time
	lessons map[userModule][]content.LessonID
	runs    map[string]map[string]completedRun
	metrics map[string]Metrics
	seq     int64
}

var (
	_ LessonStore  = (*MemoryStore)(nil)
	_ RunStore     = (*MemoryStore)(nil)
	_ MetricsStore = (*MemoryStore)(nil)
	_ RunHistory   = (*MemoryStore)(nil)
)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:     time.Now,
		lessons: make(map[userModule][]content.LessonID),
		runs:    make(map[string]map[string]completedRun),
		metrics: make(map[string]Metrics),
	}
}

func (s *MemoryStore) MarkLessonsCompleted(_ context.Context, userID string, moduleID content.ModuleID, lessonIDs []content.LessonID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := userModule{userID, moduleID}
	set := s.lessons[key]
	for _, id := range lessonIDs {
		if !slices.Contains(set, id) {
			set = append(set, id)
		}
	}
	s.lessons[key] = set
	return nil
}

// CompletedLessons returns the set in the order lessons were first completed.
func (s *MemoryStore) CompletedLessons(_ context.Context, userID string, moduleID content.ModuleID) ([]content.LessonID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.lessons[userModule{userID, moduleID}]), nil
}

func (s *MemoryStore) ResetModule(_ context.Context, userID string, moduleID content.ModuleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lessons, userModule{userID, moduleID})
	return nil
}

func (s *MemoryStore) HasRunCompleted(_ context.Context, userID, runID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.runs[userID][runID]
	return ok, nil
}

func (s *MemoryStore) MarkRunCompleted(_ context.Context, userID, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	runs, ok := s.runs[userID]
	if !ok {
		runs = make(map[string]completedRun)
		s.runs[userID] = runs
	}
	if _, done := runs[runID]; done {
		return nil
	}
	s.seq++
	runs[runID] = completedRun{seq: s.seq, at: s.now().UTC()}
	return nil
}

func (s *MemoryStore) GetMetrics(_ context.Context, userID string) (Metrics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metrics[userID], nil
}

func (s *MemoryStore) SetMetrics(_ context.Context, userID string, m Metrics) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics[userID] = m
	return nil
}

func (s *MemoryStore) RecentRuns(_ context.Context, userID string, limit int) ([]RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []RunRecord
	for runID, r := range s.runs[userID] {
		rec := RunRecord{Sequence: r.seq, RunID: runID, CompletedAt: r.at}
		if _, module, err := session.ParseRunID(runID); err == nil {
			rec.ModuleID = module
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence > out[j].Sequence })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
