package models

import "strings"

// TaskStatus enumerates the lifecycle states of a task.
type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "not_started"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusDelayed    TaskStatus = "delayed"
	// TaskStatusUnknown absorbs values written by other schema versions.
	TaskStatusUnknown TaskStatus = "unknown"
)

// ParseTaskStatus maps free-form input onto a known status, falling back to
// TaskStatusUnknown so foreign data never aborts a write.
func ParseTaskStatus(value string) TaskStatus {
	switch TaskStatus(strings.ToLower(strings.TrimSpace(value))) {
	case TaskStatusNotStarted:
		return TaskStatusNotStarted
	case TaskStatusInProgress:
		return TaskStatusInProgress
	case TaskStatusDone:
		return TaskStatusDone
	case TaskStatusDelayed:
		return TaskStatusDelayed
	case "":
		return TaskStatusNotStarted
	default:
		return TaskStatusUnknown
	}
}

// TaskPriority enumerates task priorities.
type TaskPriority string

const (
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityNone   TaskPriority = "none"
)

// ParseTaskPriority maps free-form input onto a known priority, defaulting to
// TaskPriorityNone.
func ParseTaskPriority(value string) TaskPriority {
	switch TaskPriority(strings.ToLower(strings.TrimSpace(value))) {
	case TaskPriorityHigh:
		return TaskPriorityHigh
	case TaskPriorityMedium:
		return TaskPriorityMedium
	case TaskPriorityLow:
		return TaskPriorityLow
	default:
		return TaskPriorityNone
	}
}

// SpecialDayType enumerates calendar special-day categories.
type SpecialDayType string

const (
	SpecialDayHoliday      SpecialDayType = "holiday"
	SpecialDayCompanyEvent SpecialDayType = "company_event"
	SpecialDayOther        SpecialDayType = "other"
)

// ParseSpecialDayType maps free-form input onto a known type. Empty input
// keeps the historical default of holiday; anything unrecognised becomes
// SpecialDayOther.
func ParseSpecialDayType(value string) SpecialDayType {
	switch SpecialDayType(strings.ToLower(strings.TrimSpace(value))) {
	case SpecialDayHoliday:
		return SpecialDayHoliday
	case SpecialDayCompanyEvent:
		return SpecialDayCompanyEvent
	case SpecialDayOther:
		return SpecialDayOther
	case "":
		return SpecialDayHoliday
	default:
		return SpecialDayOther
	}
}
