package render

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/mindquest/coach/internal/content"
	"github.com/mindquest/coach/internal/progress"
)

// ModuleProgress is how far a user is through one module.
type ModuleProgress struct {
	ModuleID  content.ModuleID `json:"module_id"`
	Name      string           `json:"name"`
	Completed int              `json:"completed"`
	Total     int              `json:"total"`
}

// Stats is everything the stats command reports for one user.
type Stats struct {
	UserID        string               `json:"user_id"`
	Metrics       progress.Metrics     `json:"metrics"`
	NextMilestone int                  `json:"next_milestone"`
	Modules       []ModuleProgress     `json:"modules"`
	RecentRuns    []progress.RunRecord `json:"recent_runs"`
}

// WriteStats writes s as text or JSON.
func WriteStats(w io.Writer, format Format, s Stats) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, s)
	case FormatText:
		_, err := lipgloss.Fprint(w, StatsText(s))
		return err
	default:
		return fmt.Errorf("format %q is not supported for stats", format)
	}
}

// StatsText renders s as styled terminal text.
func StatsText(s Stats) string {
	var b strings.Builder
	m := s.Metrics

	b.WriteString(titleStyle.Render("Progress for " + s.UserID))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Streak   %s", goodStyle.Render(fmt.Sprintf("%d days", m.StreakDays)))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  (longest %d, next milestone %d)", m.LongestStreakDays, s.NextMilestone)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "XP       %d\n", m.TotalXP)
	last := "never"
	if !m.LastCompletedDate.IsZero() {
		last = m.LastCompletedDate.String()
	}
	fmt.Fprintf(&b, "Last run %s\n", last)

	if len(s.Modules) > 0 {
		b.WriteString("\n")
		for _, mp := range s.Modules {
			fmt.Fprintf(&b, "%-24s %s\n", mp.Name, progressBar(mp.Completed, mp.Total, 10))
		}
	}

	if len(s.RecentRuns) > 0 {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("Recent runs"))
		b.WriteString("\n")
		for _, r := range s.RecentRuns {
			fmt.Fprintf(&b, "  %s %s\n", r.RunID, dimStyle.Render(r.CompletedAt.Format("15:04")))
		}
	}
	return b.String()
}

func progressBar(done, total, width int) string {
	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	if filled > width {
		filled = width
	}
	bar := goodStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %d/%d", bar, done, total)
}
