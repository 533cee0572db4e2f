package session

import "github.com/mindquest/coach/internal/content"

// ElectiveReason records which pool an elective came from.
type ElectiveReason string

const (
	ElectiveModulePool    ElectiveReason = "module_pool"
	ElectiveGenericPool   ElectiveReason = "generic_pool"
	ElectiveNoneAvailable ElectiveReason = "none_available"
)

// ElectiveRequest describes the context an elective is chosen for.
type ElectiveRequest struct {
	ModuleID     content.ModuleID
	Completed    []content.LessonID
	Planned      []content.LessonID
	CoreLessonID content.LessonID
	CoreAxis     content.Axis // empty disables axis filtering
}

// ElectiveResult is the selected elective, if any.
type ElectiveResult struct {
	LessonID content.LessonID `json:"lesson_id,omitempty"`
	Reason   ElectiveReason   `json:"reason"`
}

// Found reports whether an elective was selected.
func (r ElectiveResult) Found() bool {
	return r.LessonID != ""
}

// SelectElective picks one supplementary lesson: the module pool first, then
// the generic pool, skipping anything completed, already planned or the core
// lesson itself. When CoreAxis is set, only lessons on that axis or untagged
// lessons qualify.
func SelectElective(reg *content.Registry, req ElectiveRequest) (ElectiveResult, error) {
	if !reg.HasModule(req.ModuleID) {
		return ElectiveResult{}, &content.UnknownModuleError{ModuleID: req.ModuleID}
	}

	excluded := make(map[content.LessonID]bool, len(req.Completed)+len(req.Planned)+1)
	for _, id := range req.Completed {
		excluded[id] = true
	}
	for _, id := range req.Planned {
		excluded[id] = true
	}
	if req.CoreLessonID != "" {
		excluded[req.CoreLessonID] = true
	}

	if id, ok := firstEligible(reg, reg.Electives(req.ModuleID), excluded, req.CoreAxis); ok {
		return ElectiveResult{LessonID: id, Reason: ElectiveModulePool}, nil
	}
	if id, ok := firstEligible(reg, reg.GenericElectives(), excluded, req.CoreAxis); ok {
		return ElectiveResult{LessonID: id, Reason: ElectiveGenericPool}, nil
	}
	return ElectiveResult{Reason: ElectiveNoneAvailable}, nil
}

func firstEligible(reg *content.Registry, pool []content.LessonID, excluded map[content.LessonID]bool, coreAxis content.Axis) (content.LessonID, bool) {
	for _, id := range pool {
		if excluded[id] {
			continue
		}
		if coreAxis != "" {
			if a := reg.LessonAxis(id); a != "" && a != coreAxis {
				continue
			}
		}
		return id, true
	}
	return "", false
}
