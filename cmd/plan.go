package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mindquest/coach/internal/calendar"
	"github.com/mindquest/coach/internal/content"
	"github.com/mindquest/coach/internal/progress"
	"github.com/mindquest/coach/internal/render"
	"github.com/mindquest/coach/internal/session"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show today's session plan",
	Long: `Build the session plan for a template and module from the lessons the
learner has already completed. A --tag picks the module from the
mindpacing vocabulary and takes precedence over --module.`,
	RunE: runPlan,
}

func init() {
	addPlanFlags(planCmd)
	planCmd.Flags().String("format", "text", "Output format: text, json or html")
}

func addPlanFlags(cmd *cobra.Command) {
	cmd.Flags().String("template", "", "Session template (default from config)")
	cmd.Flags().String("module", "", "Module ID")
	cmd.Flags().String("tag", "", "Mindpacing tag or axis signal used to pick the module")
	cmd.Flags().String("date", "", "Run day as YYYY-MM-DD (default today)")
}

// planRequest reads the plan flags. Completed is filled in by buildPlan.
func planRequest(cmd *cobra.Command) (session.PlanRequest, error) {
	tmpl, _ := cmd.Flags().GetString("template")
	module, _ := cmd.Flags().GetString("module")
	tag, _ := cmd.Flags().GetString("tag")
	date, _ := cmd.Flags().GetString("date")

	req := session.PlanRequest{
		TemplateID: content.TemplateID(tmpl),
		ModuleID:   content.ModuleID(module),
		Tag:        tag,
	}
	if req.TemplateID == "" {
		req.TemplateID = cfg.DefaultTemplate
	}
	if date == "" {
		req.Day = calendar.DayOf(time.Now(), location())
		return req, nil
	}
	d, err := calendar.ParseDay(date)
	if err != nil {
		return session.PlanRequest{}, fmt.Errorf("invalid --date: %w", err)
	}
	req.Day = d
	return req, nil
}

// buildPlan resolves the module, loads the user's completed lessons for it,
// builds the plan and flags it when the user already completed its run.
func buildPlan(ctx context.Context, planner *session.Planner, lessons progress.LessonStore, runs progress.RunStore, userID string, req session.PlanRequest) (*session.Plan, error) {
	module, _, _ := planner.ResolveModule(req)
	if userID != "" && planner.Registry().HasModule(module) {
		done, err := lessons.CompletedLessons(ctx, userID, module)
		if err != nil {
			return nil, fmt.Errorf("load completed lessons: %w", err)
		}
		req.Completed = done
	}

	plan, err := planner.BuildSessionPlan(req)
	if err != nil {
		return nil, err
	}
	if userID != "" && plan.RunID != "" {
		done, err := runs.HasRunCompleted(ctx, userID, plan.RunID)
		if err != nil {
			return nil, fmt.Errorf("check run %s: %w", plan.RunID, err)
		}
		plan.AlreadyCompleted = done
	}
	logPlanDebug(plan)
	return plan, nil
}

func logPlanDebug(p *session.Plan) {
	fields := []zap.Field{
		zap.String("run_id", p.RunID),
		zap.String("module_id", string(p.ModuleID)),
		zap.String("module_source", string(p.Debug.ModuleSource)),
		zap.Int("skipped_completed", p.Debug.SkippedCompleted),
		zap.Bool("exhausted", p.Exhausted),
		zap.Bool("already_completed", p.AlreadyCompleted),
	}
	if r := p.Debug.Resolution; r != nil && r.IsFallback() {
		fields = append(fields, zap.String("fallback_reason", string(r.FallbackReason)))
	}
	logger.Debug("plan built", fields...)
	for _, o := range p.Debug.Omitted {
		logger.Debug("block omitted",
			zap.Int("index", o.Index),
			zap.String("kind", string(o.Kind)),
			zap.String("reason", string(o.Reason)))
	}
}

func runPlan(cmd *cobra.Command, args []string) error {
	formatVal, _ := cmd.Flags().GetString("format")
	format, err := render.ParseFormat(formatVal)
	if err != nil {
		return err
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

	reg := registry()
	plan, err := buildPlan(cmd.Context(), session.NewPlanner(reg, nil), be.lessons, be.runs, resolveUser(cmd), req)
	if err != nil {
		return err
	}
	return render.Plan(cmd.OutOrStdout(), format, reg, plan)
}
