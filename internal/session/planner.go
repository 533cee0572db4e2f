// Package session turns a template, a module and a learner's completed
// lessons into a concrete, ordered plan for one run.
package session

import (
	"strings"

	"github.com/google/uuid"
	"github.com/mindquest/coach/internal/axis"
	"github.com/mindquest/coach/internal/calendar"
	"github.com/mindquest/coach/internal/content"
)

// planNamespace seeds the name-based plan IDs.
var planNamespace = uuid.MustParse("6f1b8a52-3c4d-4e8f-9a7b-2d5e6c1f0a93")

// PlanRequest holds the inputs of a plan build.
type PlanRequest struct {
	TemplateID content.TemplateID
	ModuleID   content.ModuleID   // used when Tag is empty
	Tag        string             // mindpacing tag; takes precedence over ModuleID
	Completed  []content.LessonID // lessons already completed in the resolved module
	Day        calendar.Day       // run day; zero leaves RunID empty
}

// Planner builds session plans from a content registry.
type Planner struct {
	registry *content.Registry
	mapper   *axis.Mapper
}

// NewPlanner creates a planner. A nil mapper uses the registry's tag tables.
func NewPlanner(reg *content.Registry, mapper *axis.Mapper) *Planner {
	if mapper == nil {
		mapper = axis.FromRegistry(reg)
	}
	return &Planner{registry: reg, mapper: mapper}
}

// Registry returns the content the planner draws from.
func (p *Planner) Registry() *content.Registry {
	return p.registry
}

// ResolveModule reports which module a request would be planned for.
func (p *Planner) ResolveModule(req PlanRequest) (content.ModuleID, ModuleSource, *axis.Resolution) {
	switch {
	case req.Tag != "":
		res := p.mapper.ResolveModuleForTag(req.Tag)
		return res.ModuleID, SourceTag, &res
	case req.ModuleID != "":
		return req.ModuleID, SourceExplicit, nil
	default:
		res := p.mapper.ResolveModuleForTag("")
		return res.ModuleID, SourceDefault, &res
	}
}

// BuildSessionPlan builds the plan for one run. It performs no I/O.
// An exhausted module is reported on the plan, not as an error.
func (p *Planner) BuildSessionPlan(req PlanRequest) (*Plan, error) {
	tmpl, err := p.registry.Template(req.TemplateID)
	if err != nil {
		return nil, err
	}
	moduleID, source, res := p.ResolveModule(req)
	mod, err := p.registry.Module(moduleID)
	if err != nil {
		return nil, err
	}

	completed := make(map[content.LessonID]bool, len(req.Completed))
	for _, id := range req.Completed {
		completed[id] = true
	}

	lessonBlocks := tmpl.LessonBlocks()
	var next []content.LessonID
	skipped := 0
	for _, id := range mod.Lessons {
		if completed[id] {
			skipped++
			continue
		}
		if len(next) < lessonBlocks {
			next = append(next, id)
		}
	}

	plan := &Plan{
		TemplateID:              tmpl.ID,
		ModuleID:                mod.ID,
		Lessons:                 next,
		ExpectedDurationMinutes: tmpl.ExpectedDurationMinutes,
		Exhausted:               lessonBlocks > 0 && len(next) == 0,
		Debug: DebugInfo{
			ModuleSource:     source,
			Resolution:       res,
			SkippedCompleted: skipped,
		},
	}
	if plan.Lessons == nil {
		plan.Lessons = []content.LessonID{}
	}

	var (
		core     content.LessonID
		coreAxis content.Axis
	)
	if len(next) > 0 {
		core = next[0]
		coreAxis = p.registry.LessonAxis(core)
	}

	cursor := 0
	for i, kind := range tmpl.Blocks {
		switch kind {
		case content.BlockLesson:
			if cursor >= len(next) {
				plan.omit(i, kind, OmitModuleExhausted)
				continue
			}
			plan.Blocks = append(plan.Blocks, Block{Kind: kind, LessonID: next[cursor]})
			cursor++

		case content.BlockElective:
			if core == "" {
				plan.omit(i, kind, OmitNoCoreLesson)
				continue
			}
			planned := make([]content.LessonID, 0, len(next)+len(plan.Electives))
			planned = append(planned, next...)
			planned = append(planned, plan.Electives...)
			sel, err := SelectElective(p.registry, ElectiveRequest{
				ModuleID:     mod.ID,
				Completed:    req.Completed,
				Planned:      planned,
				CoreLessonID: core,
				CoreAxis:     coreAxis,
			})
			if err != nil {
				return nil, err
			}
			plan.Debug.ElectiveReasons = append(plan.Debug.ElectiveReasons, sel.Reason)
			if !sel.Found() {
				plan.omit(i, kind, OmitNoneAvailable)
				continue
			}
			plan.Electives = append(plan.Electives, sel.LessonID)
			plan.Blocks = append(plan.Blocks, Block{Kind: kind, LessonID: sel.LessonID})

		case content.BlockRecall:
			if core == "" {
				plan.omit(i, kind, OmitNoCoreLesson)
				continue
			}
			prompts := p.registry.RecallPrompts(core)
			if len(prompts) == 0 {
				plan.omit(i, kind, OmitNoRecallPrompts)
				continue
			}
			plan.Blocks = append(plan.Blocks, Block{Kind: kind, LessonID: core, Prompts: prompts})

		default:
			plan.Blocks = append(plan.Blocks, Block{Kind: kind})
		}
	}

	if !req.Day.IsZero() {
		plan.RunID = RunID(req.Day, mod.ID)
	}
	plan.ID = planID(plan)
	return plan, nil
}

func (p *Plan) omit(index int, kind content.BlockKind, reason OmitReason) {
	p.Debug.Omitted = append(p.Debug.Omitted, OmittedBlock{Index: index, Kind: kind, Reason: reason})
}

func planID(p *Plan) uuid.UUID {
	parts := []string{p.RunID, string(p.TemplateID), string(p.ModuleID)}
	for _, b := range p.Blocks {
		parts = append(parts, string(b.Kind)+"="+string(b.LessonID))
	}
	return uuid.NewSHA1(planNamespace, []byte(strings.Join(parts, "|")))
}
