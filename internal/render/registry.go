package render

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/mindquest/coach/internal/content"
)

// Modules lists every module and its lesson sequence.
func Modules(w io.Writer, format Format, reg *content.Registry) error {
	if format == FormatJSON {
		return writeJSON(w, reg.Modules())
	}
	var b strings.Builder
	for _, m := range reg.Modules() {
		b.WriteString(titleStyle.Render(m.Name))
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %s", m.ID)))
		if m.Cluster != "" {
			b.WriteString(dimStyle.Render(" · " + string(m.Cluster)))
		}
		b.WriteString("\n")
		for i, id := range m.Lessons {
			fmt.Fprintf(&b, "  %d. %s %s\n", i+1, lessonTitle(reg, id), dimStyle.Render(string(id)))
		}
		if pool := reg.Electives(m.ID); len(pool) > 0 {
			b.WriteString(dimStyle.Render("  electives:"))
			for _, id := range pool {
				b.WriteString(" " + string(id))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	_, err := lipgloss.Fprint(w, b.String())
	return err
}

// Templates lists every session template.
func Templates(w io.Writer, format Format, reg *content.Registry) error {
	if format == FormatJSON {
		return writeJSON(w, reg.Templates())
	}
	var b strings.Builder
	for _, t := range reg.Templates() {
		kinds := make([]string, len(t.Blocks))
		for i, k := range t.Blocks {
			kinds[i] = string(k)
		}
		fmt.Fprintf(&b, "%s %s %s\n",
			titleStyle.Render(fmt.Sprintf("%-10s", t.ID)),
			dimStyle.Render(fmt.Sprintf("%3d min", t.ExpectedDurationMinutes)),
			strings.Join(kinds, " → "))
	}
	_, err := lipgloss.Fprint(w, b.String())
	return err
}

// Arcs lists every arc; completed marks lessons already done.
func Arcs(w io.Writer, format Format, reg *content.Registry, completed map[content.LessonID]bool) error {
	if format == FormatJSON {
		return writeJSON(w, reg.Arcs())
	}
	var b strings.Builder
	for _, a := range reg.Arcs() {
		b.WriteString(titleStyle.Render(a.Name))
		if next, ok, _ := reg.NextInArc(a.ID, completed); ok {
			b.WriteString(dimStyle.Render("  next: " + string(next)))
		} else {
			b.WriteString(goodStyle.Render("  complete"))
		}
		b.WriteString("\n")
		for _, id := range a.Lessons {
			mark := " "
			if completed[id] {
				mark = "✓"
			}
			fmt.Fprintf(&b, "  %s %s\n", mark, lessonTitle(reg, id))
		}
		b.WriteString("\n")
	}
	_, err := lipgloss.Fprint(w, b.String())
	return err
}
