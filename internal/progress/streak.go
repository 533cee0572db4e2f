package progress

import "github.com/mindquest/coach/internal/calendar"

// StreakChange describes how a completion moved the streak.
type StreakChange string

const (
	StreakStarted  StreakChange = "started"  // first ever completion
	StreakHeld     StreakChange = "held"     // same day, or the clock moved backwards
	StreakExtended StreakChange = "extended" // exactly one day after the last completion
	StreakReset    StreakChange = "reset"    // more than one day missed
)

// AdvanceStreak applies a completion on today to m. Only StreakDays,
// LongestStreakDays and LastCompletedDate change; XP is left to the caller.
func AdvanceStreak(m Metrics, today calendar.Day) (Metrics, StreakChange) {
	var change StreakChange
	if m.LastCompletedDate.IsZero() {
		m.StreakDays = 1
		m.LastCompletedDate = today
		change = StreakStarted
	} else {
		switch gap := calendar.DaysBetween(m.LastCompletedDate, today); {
		case gap == 1:
			m.StreakDays++
			m.LastCompletedDate = today
			change = StreakExtended
		case gap > 1:
			m.StreakDays = 1
			m.LastCompletedDate = today
			change = StreakReset
		default:
			// gap 0 or negative: keep the streak and the later date.
			if m.StreakDays == 0 {
				m.StreakDays = 1
			}
			change = StreakHeld
		}
	}
	if m.StreakDays > m.LongestStreakDays {
		m.LongestStreakDays = m.StreakDays
	}
	return m, change
}

// XPConfig sets how much XP a completed run is worth.
type XPConfig struct {
	PerLesson      int `yaml:"per_lesson" json:"per_lesson"`
	PerElective    int `yaml:"per_elective" json:"per_elective"`
	MilestoneBonus int `yaml:"milestone_bonus" json:"milestone_bonus"`
}

// DefaultXP returns the standard XP values.
func DefaultXP() XPConfig {
	return XPConfig{PerLesson: 10, PerElective: 5, MilestoneBonus: 25}
}

// Award computes the XP for a run with the given lesson counts. milestone is
// true when the run moved the streak onto a milestone.
func (c XPConfig) Award(coreLessons, electives int, milestone bool) int {
	xp := c.PerLesson * coreLessons
	if electives > 0 {
		xp += c.PerElective
	}
	if milestone {
		xp += c.MilestoneBonus
	}
	return xp
}
