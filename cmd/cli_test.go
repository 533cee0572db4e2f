package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindquest/coach/internal/content"
	"github.com/mindquest/coach/internal/render"
	"github.com/mindquest/coach/internal/session"
)

// resetFlags restores every flag in the tree to its default so package-level
// commands can be executed repeatedly in one process.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// cli runs the root command against a per-test database.
type cli struct {
	t    *testing.T
	base []string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	t.Setenv("MINDQUEST_DB", "")
	t.Setenv("MINDQUEST_USER", "")
	t.Setenv("MINDQUEST_TIMEZONE", "")
	t.Setenv("MINDQUEST_TEMPLATE", "")
	t.Setenv("MINDQUEST_LOG_LEVEL", "")
	dir := t.TempDir()
	return &cli{t: t, base: []string{
		"--db", filepath.Join(dir, "mindquest.db"),
		"--config", filepath.Join(dir, "missing.yaml"),
		"--env-file", "",
		"--user", "alice",
	}}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append(append([]string{}, args...), c.base...))
	err := rootCmd.Execute()
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "args: %v", args)
	return out
}

func (c *cli) plan(args ...string) session.Plan {
	c.t.Helper()
	out := c.mustRun(append([]string{"plan", "--format", "json"}, args...)...)
	var p session.Plan
	require.NoError(c.t, json.Unmarshal([]byte(out), &p), out)
	return p
}

type completeJSON struct {
	RunID            string `json:"run_id"`
	Exhausted        bool   `json:"exhausted"`
	Applied          bool   `json:"applied"`
	AlreadyCompleted bool   `json:"already_completed"`
	XPAwarded        int    `json:"xp_awarded"`
	Streak           string `json:"streak"`
}

func (c *cli) complete(args ...string) completeJSON {
	c.t.Helper()
	out := c.mustRun(append([]string{"complete", "--format", "json"}, args...)...)
	var res completeJSON
	require.NoError(c.t, json.Unmarshal([]byte(out), &res), out)
	return res
}

func TestCLI_PlanCompleteStats(t *testing.T) {
	c := newCLI(t)
	flags := []string{"--template", "quick", "--module", "clarity_foundations", "--date", "2026-03-01"}

	p := c.plan(flags...)
	assert.Equal(t, "2026-03-01:clarity_foundations", p.RunID)
	assert.Equal(t, []content.LessonID{"clarity_01_single_target"}, p.Lessons)

	res := c.complete(flags...)
	assert.Equal(t, "2026-03-01:clarity_foundations", res.RunID)
	assert.True(t, res.Applied)
	assert.Equal(t, 10, res.XPAwarded)
	assert.Equal(t, "started", res.Streak)

	again := c.complete(flags...)
	assert.True(t, again.AlreadyCompleted)
	assert.Zero(t, again.XPAwarded)

	assert.False(t, p.AlreadyCompleted)
	done := c.plan(flags...)
	assert.Equal(t, p.RunID, done.RunID)
	assert.True(t, done.AlreadyCompleted, "plan for a completed run must be flagged")
	assert.Contains(t, c.mustRun(append([]string{"plan"}, flags...)...), "already complete")

	res = c.complete("--template", "quick", "--module", "clarity_foundations", "--date", "2026-03-02")
	assert.True(t, res.Applied)
	assert.Equal(t, "extended", res.Streak)

	out := c.mustRun("stats", "--format", "json")
	var s render.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &s), out)
	assert.Equal(t, "alice", s.UserID)
	assert.Equal(t, 2, s.Metrics.StreakDays)
	assert.Equal(t, 20, s.Metrics.TotalXP)
	assert.Equal(t, "2026-03-02", s.Metrics.LastCompletedDate.String())
	require.Len(t, s.RecentRuns, 2)
	assert.Equal(t, "2026-03-02:clarity_foundations", s.RecentRuns[0].RunID)
	for _, mp := range s.Modules {
		if mp.ModuleID == content.ModuleClarityFoundations {
			assert.Equal(t, 2, mp.Completed)
			assert.Equal(t, 5, mp.Total)
		}
	}
}

func TestCLI_CompleteExhaustedModule(t *testing.T) {
	c := newCLI(t)
	dayFlags := func(d string) []string {
		return []string{"--template", "quick", "--module", "clarity_foundations", "--date", d}
	}
	for _, d := range []string{"2026-03-01", "2026-03-02", "2026-03-03", "2026-03-04", "2026-03-05"} {
		require.True(t, c.complete(dayFlags(d)...).Applied, d)
	}

	out := c.mustRun(append([]string{"complete"}, dayFlags("2026-03-05")...)...)
	assert.Equal(t, "Run 2026-03-05:clarity_foundations was already completed.\n", out)

	out = c.mustRun(append([]string{"complete"}, dayFlags("2026-03-06")...)...)
	assert.Contains(t, out, "Every lesson in Clarity Foundations is complete; nothing recorded.")
	assert.NotContains(t, out, "Plan has no")

	res := c.complete(dayFlags("2026-03-06")...)
	assert.True(t, res.Exhausted)
	assert.False(t, res.Applied)
	assert.Equal(t, "2026-03-06:clarity_foundations", res.RunID)

	out = c.mustRun("stats", "--format", "json")
	var s render.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &s), out)
	assert.Equal(t, 5, s.Metrics.StreakDays)
	assert.Equal(t, 75, s.Metrics.TotalXP)
}

func TestCLI_Reset(t *testing.T) {
	c := newCLI(t)
	flags := []string{"--template", "quick", "--module", "clarity_foundations", "--date", "2026-03-01"}
	c.complete(flags...)

	out := c.mustRun("reset", "--module", "clarity_foundations")
	assert.Contains(t, out, "Reset clarity_foundations for alice")

	p := c.plan(flags...)
	assert.Equal(t, []content.LessonID{"clarity_01_single_target"}, p.Lessons)

	_, err := c.run("reset", "--module", "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, content.ErrUnknownContent)
}

func TestCLI_TagSelectsModule(t *testing.T) {
	c := newCLI(t)
	p := c.plan("--template", "quick", "--tag", "energy", "--date", "2026-03-01")
	assert.Equal(t, content.ModuleEnergyFoundations, p.ModuleID)
	assert.Equal(t, session.SourceTag, p.Debug.ModuleSource)
}

func TestCLI_UnknownTemplate(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("plan", "--template", "marathon", "--date", "2026-03-01")
	assert.ErrorIs(t, err, content.ErrUnknownContent)
}

func TestCLI_InvalidDate(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("plan", "--date", "03/01/2026")
	assert.ErrorContains(t, err, "invalid --date")
}

func TestCLI_Ephemeral(t *testing.T) {
	c := newCLI(t)
	flags := []string{"--ephemeral", "--template", "quick", "--module", "clarity_foundations", "--date", "2026-03-01"}
	assert.True(t, c.complete(flags...).Applied)
	// Nothing survives the process-local store.
	assert.True(t, c.complete(flags...).Applied)
}

func TestCLI_ContentAndVersion(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("content", "validate")
	assert.Contains(t, out, "built-in library: ok")

	_, err := c.run("content", "validate", "--file", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	out = c.mustRun("content", "templates", "--format", "json")
	var tmpls []content.Template
	require.NoError(t, json.Unmarshal([]byte(out), &tmpls))
	assert.NotEmpty(t, tmpls)

	out = c.mustRun("version")
	assert.Equal(t, "mindquest (devel)\n", out)
}

func TestCountIn(t *testing.T) {
	want := []content.LessonID{"a", "b", "c"}
	assert.Equal(t, 2, countIn(want, []content.LessonID{"c", "a", "z"}))
	assert.Zero(t, countIn(want, nil))
}
