package session

import (
	"errors"
	"testing"

	"github.com/mindquest/coach/internal/content"
)

func TestSelectElective(t *testing.T) {
	reg := testRegistry(t)

	tests := []struct {
		name       string
		req        ElectiveRequest
		wantLesson content.LessonID
		wantReason ElectiveReason
	}{
		{
			name:       "first module elective",
			req:        ElectiveRequest{ModuleID: modX},
			wantLesson: "E1",
			wantReason: ElectiveModulePool,
		},
		{
			name:       "completed module elective skipped",
			req:        ElectiveRequest{ModuleID: modX, Completed: ids("E1")},
			wantLesson: "E2",
			wantReason: ElectiveModulePool,
		},
		{
			name:       "module pool exhausted falls back to generic",
			req:        ElectiveRequest{ModuleID: modX, Completed: ids("E1"), Planned: ids("E2")},
			wantLesson: "G1",
			wantReason: ElectiveGenericPool,
		},
		{
			name:       "core lesson excluded",
			req:        ElectiveRequest{ModuleID: modX, Completed: ids("E1", "E2"), CoreLessonID: "G1"},
			wantLesson: "G2",
			wantReason: ElectiveGenericPool,
		},
		{
			name:       "everything excluded",
			req:        ElectiveRequest{ModuleID: modX, Completed: ids("E1", "E2", "G1", "G2"), Planned: ids("G3")},
			wantReason: ElectiveNoneAvailable,
		},
		{
			name:       "axis filter skips mismatched tag",
			req:        ElectiveRequest{ModuleID: modClarity, CoreLessonID: "L1", CoreAxis: content.AxisFocus},
			wantLesson: "C2",
			wantReason: ElectiveModulePool,
		},
		{
			name:       "axis filter matches tag",
			req:        ElectiveRequest{ModuleID: modClarity, CoreAxis: content.AxisEnergy},
			wantLesson: "C1",
			wantReason: ElectiveModulePool,
		},
		{
			name:       "axis filter admits untagged generic",
			req:        ElectiveRequest{ModuleID: modClarity, CoreAxis: content.AxisComposure},
			wantLesson: "G1",
			wantReason: ElectiveGenericPool,
		},
		{
			name:       "untagged module elective passes any axis",
			req:        ElectiveRequest{ModuleID: modX, Completed: ids("E1"), CoreAxis: content.AxisFocus},
			wantLesson: "E2",
			wantReason: ElectiveModulePool,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectElective(reg, tt.req)
			if err != nil {
				t.Fatalf("SelectElective: %v", err)
			}
			if got.LessonID != tt.wantLesson || got.Reason != tt.wantReason {
				t.Errorf("got (%q, %q), want (%q, %q)", got.LessonID, got.Reason, tt.wantLesson, tt.wantReason)
			}
			if got.Found() != (tt.wantLesson != "") {
				t.Errorf("Found() = %v", got.Found())
			}
		})
	}
}

func TestSelectElective_NeverReturnsExcluded(t *testing.T) {
	reg := testRegistry(t)
	pool := ids("E1", "E2", "G1", "G2", "G3")

	// Every subset of the combined pool, split across completed and planned.
	for mask := 0; mask < 1<<len(pool); mask++ {
		var completed, planned []content.LessonID
		excluded := map[content.LessonID]bool{}
		for i, id := range pool {
			if mask&(1<<i) == 0 {
				continue
			}
			excluded[id] = true
			if i%2 == 0 {
				completed = append(completed, id)
			} else {
				planned = append(planned, id)
			}
		}
		got, err := SelectElective(reg, ElectiveRequest{ModuleID: modX, Completed: completed, Planned: planned})
		if err != nil {
			t.Fatalf("mask %b: %v", mask, err)
		}
		if excluded[got.LessonID] {
			t.Errorf("mask %b: selected excluded lesson %q", mask, got.LessonID)
		}
		if len(excluded) == len(pool) && got.Reason != ElectiveNoneAvailable {
			t.Errorf("mask %b: reason = %q, want none_available", mask, got.Reason)
		}
	}
}

func TestSelectElective_Deterministic(t *testing.T) {
	reg := testRegistry(t)
	req := ElectiveRequest{ModuleID: modX, Completed: ids("E1"), CoreAxis: content.AxisEnergy}
	first, _ := SelectElective(reg, req)
	for i := 0; i < 20; i++ {
		got, _ := SelectElective(reg, req)
		if got != first {
			t.Fatalf("run %d: got %+v, want %+v", i, got, first)
		}
	}
}

func TestSelectElective_UnknownModule(t *testing.T) {
	reg := testRegistry(t)
	_, err := SelectElective(reg, ElectiveRequest{ModuleID: "nope"})
	var unknown *content.UnknownModuleError
	if !errors.As(err, &unknown) {
		t.Fatalf("err = %v, want UnknownModuleError", err)
	}
	if !errors.Is(err, content.ErrUnknownContent) {
		t.Error("expected errors.Is(err, ErrUnknownContent)")
	}
}
