package content

import (
	"errors"
	"strings"
	"testing"
)

func TestDefault_SeedValidates(t *testing.T) {
	reg, err := Load(seedJSON)
	if err != nil {
		t.Fatalf("seed registry failed to load: %v", err)
	}
	if reg.DefaultModule() != ModuleClarityFoundations {
		t.Errorf("DefaultModule() = %q, want %q", reg.DefaultModule(), ModuleClarityFoundations)
	}
	if Default() == nil {
		t.Fatal("Default() returned nil")
	}
}

func TestDefault_BuiltInIDsExist(t *testing.T) {
	reg := Default()
	for _, id := range []ModuleID{ModuleClarityFoundations, ModuleEnergyFoundations, ModuleComposureFoundations, ModuleCrossTraining} {
		if !reg.HasModule(id) {
			t.Errorf("built-in module %q missing from seed", id)
		}
	}
	for _, id := range []TemplateID{TemplateQuick, TemplateStandard, TemplateDeep} {
		if _, err := reg.Template(id); err != nil {
			t.Errorf("built-in template %q: %v", id, err)
		}
	}
}

func TestDefault_ClusterModulesHaveFiveLessons(t *testing.T) {
	reg := Default()
	for _, m := range reg.Modules() {
		if m.Cluster == "" {
			continue
		}
		if len(m.Lessons) != 5 {
			t.Errorf("module %q has %d lessons, want 5", m.ID, len(m.Lessons))
		}
	}
}

func TestTemplate_Unknown(t *testing.T) {
	_, err := Default().Template("marathon")
	var ute *UnknownTemplateError
	if !errors.As(err, &ute) {
		t.Fatalf("expected *UnknownTemplateError, got %T (%v)", err, err)
	}
	if ute.TemplateID != "marathon" {
		t.Errorf("TemplateID = %q, want marathon", ute.TemplateID)
	}
	if !errors.Is(err, ErrUnknownContent) {
		t.Error("UnknownTemplateError should match ErrUnknownContent")
	}
}

func TestModule_Unknown(t *testing.T) {
	_, err := Default().Module("ghost")
	var ume *UnknownModuleError
	if !errors.As(err, &ume) {
		t.Fatalf("expected *UnknownModuleError, got %T (%v)", err, err)
	}
	if !errors.Is(err, ErrUnknownContent) {
		t.Error("UnknownModuleError should match ErrUnknownContent")
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	reg := Default()

	m, err := reg.Module(ModuleClarityFoundations)
	if err != nil {
		t.Fatal(err)
	}
	first := m.Lessons[0]
	m.Lessons[0] = "tampered"

	again, _ := reg.Module(ModuleClarityFoundations)
	if again.Lessons[0] != first {
		t.Errorf("mutating a returned module changed the registry: %q", again.Lessons[0])
	}

	pool := reg.GenericElectives()
	pool[0] = "tampered"
	if reg.GenericElectives()[0] == "tampered" {
		t.Error("mutating the generic pool changed the registry")
	}
}

func TestTemplate_LessonBlocks(t *testing.T) {
	reg := Default()
	tests := []struct {
		id   TemplateID
		want int
	}{
		{TemplateQuick, 1},
		{TemplateStandard, 1},
		{TemplateDeep, 2},
	}
	for _, tt := range tests {
		tmpl, err := reg.Template(tt.id)
		if err != nil {
			t.Fatal(err)
		}
		if got := tmpl.LessonBlocks(); got != tt.want {
			t.Errorf("%s.LessonBlocks() = %d, want %d", tt.id, got, tt.want)
		}
	}
}

func TestNextInArc(t *testing.T) {
	reg := Default()
	arc, err := reg.Arc("first_week")
	if err != nil {
		t.Fatal(err)
	}

	next, ok, err := reg.NextInArc("first_week", map[LessonID]bool{arc.Lessons[0]: true})
	if err != nil || !ok {
		t.Fatalf("NextInArc = %q, %v, %v", next, ok, err)
	}
	if next != arc.Lessons[1] {
		t.Errorf("NextInArc = %q, want %q", next, arc.Lessons[1])
	}

	all := make(map[LessonID]bool)
	for _, l := range arc.Lessons {
		all[l] = true
	}
	if _, ok, _ := reg.NextInArc("first_week", all); ok {
		t.Error("expected arc to be complete")
	}

	if _, _, err := reg.NextInArc("ghost", nil); !errors.Is(err, ErrUnknownContent) {
		t.Errorf("unknown arc error = %v", err)
	}
}

func TestLessonsByModule_SequenceFirst(t *testing.T) {
	reg := Default()
	lessons := reg.LessonsByModule(ModuleClarityFoundations)
	m, _ := reg.Module(ModuleClarityFoundations)

	if len(lessons) < len(m.Lessons) {
		t.Fatalf("got %d lessons, want at least %d", len(lessons), len(m.Lessons))
	}
	for i, id := range m.Lessons {
		if lessons[i].ID != id {
			t.Errorf("position %d = %q, want %q", i, lessons[i].ID, id)
		}
	}
}

func TestLoad_RejectsSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{`},
		{"missing templates", `{"version":1,"default_module":"m","modules":[{"id":"m","name":"M","lessons":[]}],"lessons":[],"tags":{"vocabulary":{},"signals":{}}}`},
		{"bad block kind", `{"version":1,"default_module":"m","modules":[{"id":"m","name":"M","lessons":[]}],"lessons":[],"templates":[{"id":"t","name":"T","blocks":["nap"],"expected_duration_minutes":5}],"tags":{"vocabulary":{},"signals":{}}}`},
		{"upper-case id", `{"version":1,"default_module":"M","modules":[{"id":"M","name":"M","lessons":[]}],"lessons":[],"templates":[{"id":"t","name":"T","blocks":["checkin"],"expected_duration_minutes":5}],"tags":{"vocabulary":{},"signals":{}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load([]byte(tt.raw)); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestLoad_StructuralErrorAfterSchema(t *testing.T) {
	raw := `{"version":1,"default_module":"ghost","modules":[{"id":"m","name":"M","lessons":[]}],"lessons":[],"templates":[{"id":"t","name":"T","blocks":["checkin"],"expected_duration_minutes":5}],"tags":{"vocabulary":{},"signals":{}}}`
	_, err := Load([]byte(raw))
	if err == nil {
		t.Fatal("expected structural error")
	}
	if !strings.Contains(err.Error(), "default module") {
		t.Errorf("error should mention default module, got: %v", err)
	}
}
