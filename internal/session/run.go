package session

import (
	"fmt"
	"strings"

	"github.com/mindquest/coach/internal/calendar"
	"github.com/mindquest/coach/internal/content"
)

// RunID derives the identifier of the run for a module on a given day.
// One run per module per day: "2006-01-02:<module>".
func RunID(day calendar.Day, module content.ModuleID) string {
	return day.String() + ":" + string(module)
}

// ParseRunID splits a run ID back into its day and module.
func ParseRunID(id string) (calendar.Day, content.ModuleID, error) {
	dayPart, module, ok := strings.Cut(id, ":")
	if !ok || module == "" {
		return calendar.Day{}, "", fmt.Errorf("malformed run ID %q", id)
	}
	day, err := calendar.ParseDay(dayPart)
	if err != nil {
		return calendar.Day{}, "", fmt.Errorf("malformed run ID %q: %w", id, err)
	}
	if day.IsZero() {
		return calendar.Day{}, "", fmt.Errorf("malformed run ID %q: missing day", id)
	}
	return day, content.ModuleID(module), nil
}
