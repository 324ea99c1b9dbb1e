package models

// Task is a unit of work attributed to zero or more members by code.
// TeamID is a weak reference: deleting the team leaves it dangling and
// callers must tolerate an id that no longer resolves.
type Task struct {
	BaseModel

	Project  string       `gorm:"not null;index" json:"project"`
	Title    string       `gorm:"not null" json:"title"`
	Members  MemberList   `gorm:"type:text" json:"members"`
	Status   TaskStatus   `gorm:"not null;default:not_started" json:"status"`
	Priority TaskPriority `gorm:"not null;default:none" json:"priority"`
	Notes    string       `json:"notes"`
	TeamID   *string      `gorm:"index" json:"team_id"`

	StartDate      *Date    `json:"start_date"`
	EndDate        *Date    `json:"end_date"`
	EstimatedHours *float64 `json:"estimated_hours"`
	IsArchived     bool     `gorm:"not null;default:false" json:"is_archived"`
}

// Overlaps reports whether the task's scheduled interval intersects the
// inclusive window [start, end]. A task matches when its start date falls
// inside the window, its end date falls inside the window, or it fully spans
// the window. A task with neither date set never matches; with a single date
// set only that date's containment test applies.
func (t *Task) Overlaps(start, end Date) bool {
	if t.StartDate == nil && t.EndDate == nil {
		return false
	}

	if t.StartDate != nil && withinWindow(*t.StartDate, start, end) {
		return true
	}
	if t.EndDate != nil && withinWindow(*t.EndDate, start, end) {
		return true
	}

	return t.StartDate != nil && t.EndDate != nil &&
		!t.StartDate.After(start) && !t.EndDate.Before(end)
}

func withinWindow(d, start, end Date) bool {
	return !d.Before(start) && !d.After(end)
}
