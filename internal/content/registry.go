package content

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"sync"
)

// Registry is an immutable, validated set of lessons, modules, templates,
// arcs and adaptive tag tables. All accessors return copies.
type Registry struct {
	data Data

	lessons   map[LessonID]*Lesson
	modules   map[ModuleID]*Module
	templates map[TemplateID]*Template
	arcs      map[ArcID]*Arc
	order     map[ModuleID]map[LessonID]int
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry built from the embedded seed.
// It panics if the seed does not validate: that is a broken build, not a runtime condition.
func Default() *Registry {
	defaultOnce.Do(func() {
		reg, err := Load(seedJSON)
		if err != nil {
			panic(fmt.Sprintf("content: embedded seed is invalid: %v", err))
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}

// Load validates raw against the registry JSON schema, decodes it and builds a Registry.
func Load(raw []byte) (*Registry, error) {
	if err := validateDocument(raw); err != nil {
		return nil, err
	}
	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode registry: %w", err)
	}
	return New(data)
}

// New checks data structurally and builds the lookup indices.
// The registry takes ownership of data; callers must not mutate it afterwards.
func New(data Data) (*Registry, error) {
	if err := validateData(data); err != nil {
		return nil, err
	}

	r := &Registry{
		data:      data,
		lessons:   make(map[LessonID]*Lesson, len(data.Lessons)),
		modules:   make(map[ModuleID]*Module, len(data.Modules)),
		templates: make(map[TemplateID]*Template, len(data.Templates)),
		arcs:      make(map[ArcID]*Arc, len(data.Arcs)),
		order:     make(map[ModuleID]map[LessonID]int, len(data.Modules)),
	}
	for i := range r.data.Lessons {
		r.lessons[r.data.Lessons[i].ID] = &r.data.Lessons[i]
	}
	for i := range r.data.Modules {
		m := &r.data.Modules[i]
		r.modules[m.ID] = m
		pos := make(map[LessonID]int, len(m.Lessons))
		for j, id := range m.Lessons {
			pos[id] = j
		}
		r.order[m.ID] = pos
	}
	for i := range r.data.Templates {
		r.templates[r.data.Templates[i].ID] = &r.data.Templates[i]
	}
	for i := range r.data.Arcs {
		r.arcs[r.data.Arcs[i].ID] = &r.data.Arcs[i]
	}
	return r, nil
}

// Template returns a template by ID.
func (r *Registry) Template(id TemplateID) (Template, error) {
	t, ok := r.templates[id]
	if !ok {
		return Template{}, &UnknownTemplateError{TemplateID: id}
	}
	out := *t
	out.Blocks = slices.Clone(t.Blocks)
	return out, nil
}

// Module returns a module by ID.
func (r *Registry) Module(id ModuleID) (Module, error) {
	m, ok := r.modules[id]
	if !ok {
		return Module{}, &UnknownModuleError{ModuleID: id}
	}
	out := *m
	out.Lessons = slices.Clone(m.Lessons)
	return out, nil
}

// HasModule reports whether id is a known module.
func (r *Registry) HasModule(id ModuleID) bool {
	_, ok := r.modules[id]
	return ok
}

// Lesson returns a lesson by ID.
func (r *Registry) Lesson(id LessonID) (Lesson, bool) {
	l, ok := r.lessons[id]
	if !ok {
		return Lesson{}, false
	}
	out := *l
	out.Recall = slices.Clone(l.Recall)
	return out, true
}

// LessonAxis returns the axis tag of a lesson, or "" when the lesson is untagged or unknown.
func (r *Registry) LessonAxis(id LessonID) Axis {
	if l, ok := r.lessons[id]; ok {
		return l.Axis
	}
	return ""
}

// RecallPrompts returns the recall prompts attached to a lesson.
func (r *Registry) RecallPrompts(id LessonID) []string {
	if l, ok := r.lessons[id]; ok {
		return slices.Clone(l.Recall)
	}
	return nil
}

// Electives returns the elective pool of a module in priority order.
func (r *Registry) Electives(id ModuleID) []LessonID {
	return slices.Clone(r.data.Electives[id])
}

// GenericElectives returns the cross-module fallback pool in priority order.
func (r *Registry) GenericElectives() []LessonID {
	return slices.Clone(r.data.GenericElectives)
}

// Arc returns an arc by ID.
func (r *Registry) Arc(id ArcID) (Arc, error) {
	a, ok := r.arcs[id]
	if !ok {
		return Arc{}, &UnknownArcError{ArcID: id}
	}
	out := *a
	out.Lessons = slices.Clone(a.Lessons)
	return out, nil
}

// NextInArc returns the first lesson of the arc not present in completed.
// ok is false when every arc lesson has been completed.
func (r *Registry) NextInArc(id ArcID, completed map[LessonID]bool) (LessonID, bool, error) {
	a, ok := r.arcs[id]
	if !ok {
		return "", false, &UnknownArcError{ArcID: id}
	}
	for _, l := range a.Lessons {
		if !completed[l] {
			return l, true, nil
		}
	}
	return "", false, nil
}

// Modules returns all modules in declaration order.
func (r *Registry) Modules() []Module {
	out := make([]Module, len(r.data.Modules))
	for i, m := range r.data.Modules {
		out[i] = m
		out[i].Lessons = slices.Clone(m.Lessons)
	}
	return out
}

// Templates returns all templates in declaration order.
func (r *Registry) Templates() []Template {
	out := make([]Template, len(r.data.Templates))
	for i, t := range r.data.Templates {
		out[i] = t
		out[i].Blocks = slices.Clone(t.Blocks)
	}
	return out
}

// Arcs returns all arcs in declaration order.
func (r *Registry) Arcs() []Arc {
	out := make([]Arc, len(r.data.Arcs))
	for i, a := range r.data.Arcs {
		out[i] = a
		out[i].Lessons = slices.Clone(a.Lessons)
	}
	return out
}

// LessonsByModule returns every lesson owned by a module (sequence and electives),
// sequence lessons first in progression order, then the rest by ID.
func (r *Registry) LessonsByModule(id ModuleID) []Lesson {
	pos := r.order[id]
	var out []Lesson
	for _, l := range r.data.Lessons {
		if l.Module == id {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, iok := pos[out[i].ID]
		pj, jok := pos[out[j].ID]
		switch {
		case iok && jok:
			return pi < pj
		case iok != jok:
			return iok
		default:
			return out[i].ID < out[j].ID
		}
	})
	return out
}

// VocabularyTags returns a copy of the vocabulary tag table.
func (r *Registry) VocabularyTags() map[string]ModuleID {
	return cloneTable(r.data.Tags.Vocabulary)
}

// SignalTags returns a copy of the coarse signal table.
func (r *Registry) SignalTags() map[string]ModuleID {
	return cloneTable(r.data.Tags.Signals)
}

// DefaultModule is the module used when no adaptive signal resolves.
func (r *Registry) DefaultModule() ModuleID {
	return r.data.DefaultModule
}

// Version returns the content version declared by the registry document.
func (r *Registry) Version() int {
	return r.data.Version
}

func cloneTable(m map[string]ModuleID) map[string]ModuleID {
	out := make(map[string]ModuleID, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
