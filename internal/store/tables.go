package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	tableCompletedLessons = "completed_lessons"
	tableRunCompletions   = "run_completions"
	tableUserMetrics      = "user_metrics"
	tableRunSequence      = "run_sequence"
)

var (
	// CompletedLessonsTable holds one row per (user, module, lesson).
	CompletedLessonsTable = schema.NewTable(tableCompletedLessons).
				AddPrimary(&schema.Column{Name: "user_id", Type: field.TypeString}).
				AddPrimary(&schema.Column{Name: "module_id", Type: field.TypeString}).
				AddPrimary(&schema.Column{Name: "lesson_id", Type: field.TypeString}).
				AddColumn(&schema.Column{Name: "completed_at", Type: field.TypeTime})

	// RunCompletionsTable records every completed run, at most once per (user, run).
	RunCompletionsTable = schema.NewTable(tableRunCompletions).
				AddPrimary(&schema.Column{Name: "id", Type: field.TypeString, Size: 26}).
				AddColumn(&schema.Column{Name: "sequence", Type: field.TypeInt64}).
				AddColumn(&schema.Column{Name: "user_id", Type: field.TypeString}).
				AddColumn(&schema.Column{Name: "run_id", Type: field.TypeString}).
				AddColumn(&schema.Column{Name: "module_id", Type: field.TypeString, Default: ""}).
				AddColumn(&schema.Column{Name: "completed_at", Type: field.TypeTime}).
				AddIndex("runcompletion_user_id_run_id", true, []string{"user_id", "run_id"}).
				AddIndex("runcompletion_user_id_sequence", false, []string{"user_id", "sequence"})

	// UserMetricsTable holds streak and XP counters, one row per user.
	UserMetricsTable = schema.NewTable(tableUserMetrics).
				AddPrimary(&schema.Column{Name: "user_id", Type: field.TypeString}).
				AddColumn(&schema.Column{Name: "streak_days", Type: field.TypeInt, Default: 0}).
				AddColumn(&schema.Column{Name: "longest_streak_days", Type: field.TypeInt, Default: 0}).
				AddColumn(&schema.Column{Name: "last_completed_date", Type: field.TypeString, Default: ""}).
				AddColumn(&schema.Column{Name: "total_xp", Type: field.TypeInt, Default: 0}).
				AddColumn(&schema.Column{Name: "updated_at", Type: field.TypeTime})

	// RunSequenceTable is a single-row counter ordering run completions.
	RunSequenceTable = schema.NewTable(tableRunSequence).
				AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt}).
				AddColumn(&schema.Column{Name: "next_val", Type: field.TypeInt64, Default: 1})

	// Tables lists every table the store migrates.
	Tables = []*schema.Table{
		CompletedLessonsTable,
		RunCompletionsTable,
		UserMetricsTable,
		RunSequenceTable,
	}
)
