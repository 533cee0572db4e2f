package progress

// BaseStreakMilestone is the first streak length that earns a bonus.
const BaseStreakMilestone = 5

// NextStreakMilestone returns the next streak milestone above the current streak length.
func NextStreakMilestone(current int) int {
	thresholds := []int{5, 10, 15, 20}
	for _, t := range thresholds {
		if t > current {
			return t
		}
	}
	// Beyond 20, every 5.
	return ((current / 5) + 1) * 5
}

// IsStreakMilestone reports whether a streak of n days lands exactly on a milestone.
func IsStreakMilestone(n int) bool {
	return n >= BaseStreakMilestone && NextStreakMilestone(n-1) == n
}
