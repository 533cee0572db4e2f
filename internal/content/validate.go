package content

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// validateData performs all structural checks on a registry document.
// Returns a combined error describing all problems found, or nil if valid.
func validateData(d Data) error {
	var errs []string

	moduleSet := make(map[ModuleID]bool, len(d.Modules))
	for _, m := range d.Modules {
		if moduleSet[m.ID] {
			errs = append(errs, fmt.Sprintf("duplicate module ID: %q", m.ID))
		}
		moduleSet[m.ID] = true
		if m.Cluster != "" && !slices.Contains(AllClusters(), m.Cluster) {
			errs = append(errs, fmt.Sprintf("module %q has unknown cluster %q", m.ID, m.Cluster))
		}
	}

	lessonModule := make(map[LessonID]ModuleID, len(d.Lessons))
	for _, l := range d.Lessons {
		if _, dup := lessonModule[l.ID]; dup {
			errs = append(errs, fmt.Sprintf("duplicate lesson ID: %q", l.ID))
		}
		lessonModule[l.ID] = l.Module
		if !moduleSet[l.Module] {
			errs = append(errs, fmt.Sprintf("lesson %q references nonexistent module %q", l.ID, l.Module))
		}
		if !slices.Contains(AllSources(), l.Source) {
			errs = append(errs, fmt.Sprintf("lesson %q has unknown source %q", l.ID, l.Source))
		}
		if l.Axis != "" && !slices.Contains(AllAxes(), l.Axis) {
			errs = append(errs, fmt.Sprintf("lesson %q has unknown axis %q", l.ID, l.Axis))
		}
	}

	// Module sequences
	for _, m := range d.Modules {
		seen := make(map[LessonID]bool, len(m.Lessons))
		for _, id := range m.Lessons {
			if seen[id] {
				errs = append(errs, fmt.Sprintf("module %q lists lesson %q twice", m.ID, id))
			}
			seen[id] = true
			owner, ok := lessonModule[id]
			switch {
			case !ok:
				errs = append(errs, fmt.Sprintf("module %q references nonexistent lesson %q", m.ID, id))
			case owner != m.ID:
				errs = append(errs, fmt.Sprintf("module %q sequences lesson %q owned by module %q", m.ID, id, owner))
			}
		}
	}

	// Elective pools, iterated in sorted order so the error text is stable
	poolModules := make([]ModuleID, 0, len(d.Electives))
	for id := range d.Electives {
		poolModules = append(poolModules, id)
	}
	sort.Slice(poolModules, func(i, j int) bool { return poolModules[i] < poolModules[j] })
	for _, mid := range poolModules {
		if !moduleSet[mid] {
			errs = append(errs, fmt.Sprintf("elective pool references nonexistent module %q", mid))
		}
		for _, id := range d.Electives[mid] {
			if _, ok := lessonModule[id]; !ok {
				errs = append(errs, fmt.Sprintf("elective pool %q references nonexistent lesson %q", mid, id))
			}
		}
	}
	for _, id := range d.GenericElectives {
		if _, ok := lessonModule[id]; !ok {
			errs = append(errs, fmt.Sprintf("generic elective pool references nonexistent lesson %q", id))
		}
	}

	// Templates
	templateSet := make(map[TemplateID]bool, len(d.Templates))
	for _, t := range d.Templates {
		if templateSet[t.ID] {
			errs = append(errs, fmt.Sprintf("duplicate template ID: %q", t.ID))
		}
		templateSet[t.ID] = true
		if len(t.Blocks) == 0 {
			errs = append(errs, fmt.Sprintf("template %q declares no blocks", t.ID))
		}
		if t.ExpectedDurationMinutes <= 0 {
			errs = append(errs, fmt.Sprintf("template %q: ExpectedDurationMinutes must be > 0, got %d", t.ID, t.ExpectedDurationMinutes))
		}
		lessons := t.LessonBlocks()
		for _, b := range t.Blocks {
			if !slices.Contains(AllBlockKinds(), b) {
				errs = append(errs, fmt.Sprintf("template %q has unknown block kind %q", t.ID, b))
			}
			if (b == BlockElective || b == BlockRecall) && lessons == 0 {
				errs = append(errs, fmt.Sprintf("template %q has a %s block but no lesson block", t.ID, b))
			}
		}
	}

	// Arcs
	arcSet := make(map[ArcID]bool, len(d.Arcs))
	for _, a := range d.Arcs {
		if arcSet[a.ID] {
			errs = append(errs, fmt.Sprintf("duplicate arc ID: %q", a.ID))
		}
		arcSet[a.ID] = true
		for _, id := range a.Lessons {
			if _, ok := lessonModule[id]; !ok {
				errs = append(errs, fmt.Sprintf("arc %q references nonexistent lesson %q", a.ID, id))
			}
		}
	}

	// Tag tables
	errs = append(errs, validateTagTable("vocabulary", d.Tags.Vocabulary, moduleSet)...)
	errs = append(errs, validateTagTable("signal", d.Tags.Signals, moduleSet)...)

	if !moduleSet[d.DefaultModule] {
		errs = append(errs, fmt.Sprintf("default module %q does not exist", d.DefaultModule))
	}

	if len(errs) > 0 {
		return fmt.Errorf("content registry validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func validateTagTable(name string, table map[string]ModuleID, modules map[ModuleID]bool) []string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []string
	for _, k := range keys {
		if k == "" || k != strings.ToLower(k) {
			errs = append(errs, fmt.Sprintf("%s tag %q must be non-empty lower-case", name, k))
		}
		if !modules[table[k]] {
			errs = append(errs, fmt.Sprintf("%s tag %q maps to nonexistent module %q", name, k, table[k]))
		}
	}
	return errs
}
