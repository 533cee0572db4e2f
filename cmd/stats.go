package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mindquest/coach/internal/content"
	"github.com/mindquest/coach/internal/progress"
	"github.com/mindquest/coach/internal/render"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show streak, XP and module progress",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().String("format", "text", "Output format: text or json")
	statsCmd.Flags().Int("recent", 5, "Number of recent runs to list")
}

func runStats(cmd *cobra.Command, args []string) error {
	formatVal, _ := cmd.Flags().GetString("format")
	format, err := render.ParseFormat(formatVal)
	if err != nil {
		return err
	}
	recent, _ := cmd.Flags().GetInt("recent")

	user := resolveUser(cmd)
	if user == "" {
		return fmt.Errorf("no user set: pass --user or set MINDQUEST_USER")
	}

	be, err := openBackend(cmd)
	if err != nil {
		return err
	}
	defer be.close()

	s, err := collectStats(cmd.Context(), registry(), be, user, recent)
	if err != nil {
		return err
	}
	return render.WriteStats(cmd.OutOrStdout(), format, s)
}

func collectStats(ctx context.Context, reg *content.Registry, be *backend, user string, recent int) (render.Stats, error) {
	m, err := be.metrics.GetMetrics(ctx, user)
	if err != nil {
		return render.Stats{}, fmt.Errorf("get metrics: %w", err)
	}
	s := render.Stats{
		UserID:        user,
		Metrics:       m,
		NextMilestone: progress.NextStreakMilestone(m.StreakDays),
	}

	for _, mod := range reg.Modules() {
		done, err := be.lessons.CompletedLessons(ctx, user, mod.ID)
		if err != nil {
			return render.Stats{}, fmt.Errorf("completed lessons for %s: %w", mod.ID, err)
		}
		s.Modules = append(s.Modules, render.ModuleProgress{
			ModuleID:  mod.ID,
			Name:      mod.Name,
			Completed: countIn(mod.Lessons, done),
			Total:     len(mod.Lessons),
		})
	}

	if recent > 0 {
		runs, err := be.history.RecentRuns(ctx, user, recent)
		if err != nil {
			return render.Stats{}, fmt.Errorf("recent runs: %w", err)
		}
		s.RecentRuns = runs
	}
	return s, nil
}

// countIn returns how many of want appear in have.
func countIn(want, have []content.LessonID) int {
	set := make(map[content.LessonID]bool, len(have))
	for _, id := range have {
		set[id] = true
	}
	n := 0
	for _, id := range want {
		if set[id] {
			n++
		}
	}
	return n
}
