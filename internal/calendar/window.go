// Package calendar resolves week and month windows for workload queries.
// Everything here is pure date math; no state and no I/O.
package calendar

import (
	"time"

	"github.com/devopsteamsdb/teamtasks/internal/models"
)

// WeekStart is the fixed system-wide first day of the week. The product runs
// on an Israeli work week, so weeks begin on Sunday.
const WeekStart = time.Sunday

// Window is an inclusive date range.
type Window struct {
	Start models.Date `json:"start"`
	End   models.Date `json:"end"`
}

// Contains reports whether the date falls inside the window.
func (w Window) Contains(d models.Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// WeekWindow returns the seven-day window containing ref, starting at the
// most recent WeekStart on or before ref.
func WeekWindow(ref models.Date) Window {
	offset := (int(ref.Weekday()) - int(WeekStart) + 7) % 7
	start := ref.AddDays(-offset)
	return Window{Start: start, End: start.AddDays(6)}
}

// MonthWindow returns the window spanning the whole month, leap years
// included.
func MonthWindow(year int, month time.Month) Window {
	start := models.NewDate(year, month, 1)
	end := models.DateOf(start.AddDate(0, 1, -1))
	return Window{Start: start, End: end}
}
