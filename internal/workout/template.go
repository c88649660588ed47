// Package workout turns weekly workout templates into concrete logging
// sessions and owns set-level mutation and volume tracking.
package workout

import (
	"time"

	"github.com/sadopc/lockin/internal/store"
)

// ResolveForDate maps a YYYY-MM-DD date to its weekday name and returns the
// first template in stored order whose day matches, or nil when none does.
// When two templates share a weekday the earlier one wins.
func ResolveForDate(templates []store.WorkoutTemplate, date string) *store.WorkoutTemplate {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil
	}
	weekday := day.Weekday().String()
	for i := range templates {
		if templates[i].DayOfWeek == weekday {
			return &templates[i]
		}
	}
	return nil
}
