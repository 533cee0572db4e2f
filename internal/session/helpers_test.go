package session

import (
	"testing"

	"github.com/mindquest/coach/internal/content"
)

const (
	modClarity content.ModuleID = "clarity_foundations"
	modX       content.ModuleID = "x"
	modGeneric content.ModuleID = "gen"
)

func lesson(id string, mod content.ModuleID, a content.Axis, recall ...string) content.Lesson {
	return content.Lesson{
		ID:     content.LessonID(id),
		Module: mod,
		Title:  id,
		Axis:   a,
		Source: content.SourceCore,
		Recall: recall,
	}
}

func testRegistry(t *testing.T) *content.Registry {
	t.Helper()
	data := content.Data{
		Version:       1,
		DefaultModule: modClarity,
		Modules: []content.Module{
			{ID: modClarity, Name: "Clarity", Cluster: content.ClusterClarity, Lessons: []content.LessonID{"L1", "L2", "L3", "L4", "L5"}},
			{ID: modX, Name: "X", Cluster: content.ClusterEnergy, Lessons: []content.LessonID{"X1", "X2"}},
			{ID: modGeneric, Name: "Generic", Lessons: []content.LessonID{"G1", "G2", "G3"}},
		},
		Lessons: []content.Lesson{
			lesson("L1", modClarity, content.AxisFocus, "What was your single target?"),
			lesson("L2", modClarity, content.AxisFocus, "Name one distraction you parked."),
			lesson("L3", modClarity, content.AxisFocus, "How long did the block hold?"),
			lesson("L4", modClarity, content.AxisFocus),
			lesson("L5", modClarity, content.AxisFocus, "What ended the deep block?"),
			lesson("C1", modClarity, content.AxisEnergy),
			lesson("C2", modClarity, content.AxisFocus),
			lesson("X1", modX, content.AxisEnergy, "Rate your energy."),
			lesson("X2", modX, content.AxisEnergy),
			lesson("E1", modX, content.AxisEnergy),
			lesson("E2", modX, ""),
			lesson("G1", modGeneric, ""),
			lesson("G2", modGeneric, ""),
			lesson("G3", modGeneric, ""),
		},
		Electives: map[content.ModuleID][]content.LessonID{
			modClarity: {"C1", "C2"},
			modX:       {"E1", "E2"},
		},
		GenericElectives: []content.LessonID{"G1", "G2", "G3"},
		Templates: []content.Template{
			{ID: content.TemplateQuick, Name: "Quick", ExpectedDurationMinutes: 5,
				Blocks: []content.BlockKind{content.BlockCheckIn, content.BlockLesson, content.BlockCommit}},
			{ID: content.TemplateStandard, Name: "Standard", ExpectedDurationMinutes: 12,
				Blocks: []content.BlockKind{content.BlockCheckIn, content.BlockLesson, content.BlockElective, content.BlockRecall, content.BlockCommit}},
			{ID: content.TemplateDeep, Name: "Deep", ExpectedDurationMinutes: 20,
				Blocks: []content.BlockKind{content.BlockCheckIn, content.BlockLesson, content.BlockLesson, content.BlockElective, content.BlockRecall, content.BlockCommit}},
		},
		Tags: content.TagTables{
			Vocabulary: map[string]content.ModuleID{"drained": modX, "scattered": modClarity},
			Signals:    map[string]content.ModuleID{"focus": modClarity, "energy": modX},
		},
	}
	reg, err := content.New(data)
	if err != nil {
		t.Fatalf("content.New: %v", err)
	}
	return reg
}

func ids(s ...string) []content.LessonID {
	out := make([]content.LessonID, len(s))
	for i, v := range s {
		out[i] = content.LessonID(v)
	}
	return out
}
