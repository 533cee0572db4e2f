package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mindquest/coach/internal/content"
	"github.com/mindquest/coach/internal/progress"
	"github.com/mindquest/coach/internal/render"
	"github.com/mindquest/coach/internal/session"
)

var completeCmd = &cobra.Command{
	Use:   "complete",
	Short: "Mark today's session as completed",
	Long: `Rebuild the day's plan with the same flags used for "plan" and record it
as completed. Completing the same run twice is a no-op.`,
	RunE: runComplete,
}

func init() {
	addPlanFlags(completeCmd)
	completeCmd.Flags().String("format", "text", "Output format: text or json")
}

func runComplete(cmd *cobra.Command, args []string) error {
	formatVal, _ := cmd.Flags().GetString("format")
	format, err := render.ParseFormat(formatVal)
	if err != nil {
		return err
	}
	if format == render.FormatHTML {
		return fmt.Errorf("format %q is not supported for complete", format)
	}
	req, err := planRequest(cmd)
	if err != nil {
		return err
	}

	be, err := openBackend(cmd)
	if err != nil {
		return err
	}
	defer be.close()

	ctx := cmd.Context()
	user := resolveUser(cmd)
	reg := registry()
	plan, err := buildPlan(ctx, session.NewPlanner(reg, nil), be.lessons, be.runs, user, req)
	if err != nil {
		return err
	}

	out := completeOutput{RunID: plan.RunID}
	switch {
	case plan.AlreadyCompleted:
		out.AlreadyCompleted = true
	case plan.Exhausted:
		out.Exhausted = true
	default:
		res, err := newTracker(cmd, reg, be, req).CompleteRun(ctx, plan, user)
		if err != nil {
			return err
		}
		out.Result = res
	}

	w := cmd.OutOrStdout()
	if format == render.FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	printResult(w, reg, plan, out)
	return nil
}

// completeOutput is the JSON shape of the complete command.
type completeOutput struct {
	RunID     string `json:"run_id"`
	Exhausted bool   `json:"exhausted,omitempty"`
	progress.Result
}

func newTracker(cmd *cobra.Command, reg *content.Registry, be *backend, req session.PlanRequest) *progress.Tracker {
	loc := location()
	opts := []progress.Option{
		progress.WithMetrics(be.metrics),
		progress.WithRegistry(reg),
		progress.WithLocation(loc),
		progress.WithXP(cfg.XP),
		progress.WithLogger(logger),
	}
	if date, _ := cmd.Flags().GetString("date"); date != "" {
		at := req.Day.Noon(loc)
		opts = append(opts, progress.WithClock(func() time.Time { return at }))
	}
	return progress.NewTracker(be.lessons, be.runs, opts...)
}

func printResult(w io.Writer, reg *content.Registry, plan *session.Plan, out completeOutput) {
	switch {
	case out.AlreadyCompleted:
		fmt.Fprintf(w, "Run %s was already completed.\n", plan.RunID)
		return
	case out.Exhausted:
		name := string(plan.ModuleID)
		if m, err := reg.Module(plan.ModuleID); err == nil {
			name = m.Name
		}
		fmt.Fprintf(w, "Every lesson in %s is complete; nothing recorded.\n", name)
		fmt.Fprintf(w, "Run \"mindquest reset --module %s\" or pick another module.\n", plan.ModuleID)
		return
	case out.Skipped == progress.SkipAnonymous:
		fmt.Fprintln(w, "No user set; nothing recorded. Pass --user or set MINDQUEST_USER.")
		return
	case out.Skipped == progress.SkipMalformedPlan:
		fmt.Fprintln(w, "Plan has no lessons to record; nothing recorded.")
		return
	}

	res := out.Result
	fmt.Fprintf(w, "Completed %s: %d lesson(s)", plan.RunID, len(plan.CompletionLessonIDs()))
	if res.Metrics == nil {
		fmt.Fprintln(w)
		return
	}
	fmt.Fprintf(w, ", +%d XP\n", res.XPAwarded)
	fmt.Fprintf(w, "Streak %d day(s) (%s), total XP %d\n", res.Metrics.StreakDays, res.Streak, res.Metrics.TotalXP)
	if res.Milestone > 0 {
		fmt.Fprintf(w, "Milestone reached: %d-day streak!\n", res.Milestone)
	}
}
