package session

import (
	"github.com/google/uuid"
	"github.com/mindquest/coach/internal/axis"
	"github.com/mindquest/coach/internal/content"
)

// ModuleSource records how the plan's module was chosen.
type ModuleSource string

const (
	SourceExplicit ModuleSource = "module"  // caller passed a module ID
	SourceTag      ModuleSource = "tag"     // resolved from a mindpacing tag
	SourceDefault  ModuleSource = "default" // neither given; mapper default
)

// OmitReason explains why a template block has no counterpart in the plan.
type OmitReason string

const (
	OmitModuleExhausted OmitReason = "module_exhausted"
	OmitNoCoreLesson    OmitReason = "no_core_lesson"
	OmitNoneAvailable   OmitReason = "none_available"
	OmitNoRecallPrompts OmitReason = "no_recall_prompts"
)

// Block is one rendered step of a plan.
type Block struct {
	Kind     content.BlockKind `json:"kind"`
	LessonID content.LessonID  `json:"lesson_id,omitempty"`
	Prompts  []string          `json:"prompts,omitempty"`
}

// OmittedBlock is a template block that could not be filled.
type OmittedBlock struct {
	Index  int               `json:"index"` // position in the template
	Kind   content.BlockKind `json:"kind"`
	Reason OmitReason        `json:"reason"`
}

// DebugInfo carries the decisions behind a plan for logging and telemetry.
type DebugInfo struct {
	ModuleSource     ModuleSource     `json:"module_source"`
	Resolution       *axis.Resolution `json:"resolution,omitempty"`
	SkippedCompleted int              `json:"skipped_completed"`
	ElectiveReasons  []ElectiveReason `json:"elective_reasons,omitempty"`
	Omitted          []OmittedBlock   `json:"omitted,omitempty"`
}

// Plan is the ephemeral, ordered block sequence for one run.
type Plan struct {
	ID                      uuid.UUID          `json:"id"`
	RunID                   string             `json:"run_id,omitempty"`
	TemplateID              content.TemplateID `json:"template_id"`
	ModuleID                content.ModuleID   `json:"module_id"`
	Blocks                  []Block            `json:"blocks"`
	Lessons                 []content.LessonID `json:"lessons"`
	Electives               []content.LessonID `json:"electives,omitempty"`
	ExpectedDurationMinutes int                `json:"expected_duration_minutes"`
	Exhausted               bool               `json:"exhausted"`
	// AlreadyCompleted is set by callers that found RunID in the run
	// store. The builder never sets it.
	AlreadyCompleted bool      `json:"already_completed,omitempty"`
	Debug            DebugInfo `json:"debug"`
}

// CoreLessonID returns the first lesson of the plan, or "" when the module is exhausted.
func (p *Plan) CoreLessonID() content.LessonID {
	if len(p.Lessons) == 0 {
		return ""
	}
	return p.Lessons[0]
}

// BlockKinds returns the kinds of the plan's blocks in order.
func (p *Plan) BlockKinds() []content.BlockKind {
	kinds := make([]content.BlockKind, len(p.Blocks))
	for i, b := range p.Blocks {
		kinds[i] = b.Kind
	}
	return kinds
}

// ElectiveID returns the first elective of the plan, or "" when none was selected.
func (p *Plan) ElectiveID() content.LessonID {
	if len(p.Electives) == 0 {
		return ""
	}
	return p.Electives[0]
}

// CompletionLessonIDs returns the lessons a completed run marks done:
// the core lessons followed by any electives.
func (p *Plan) CompletionLessonIDs() []content.LessonID {
	out := make([]content.LessonID, 0, len(p.Lessons)+len(p.Electives))
	out = append(out, p.Lessons...)
	return append(out, p.Electives...)
}
