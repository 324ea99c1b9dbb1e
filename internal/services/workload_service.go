package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/devopsteamsdb/teamtasks/internal/calendar"
	"github.com/devopsteamsdb/teamtasks/internal/models"
)

// MemberWorkload pairs a member with the tasks scheduled for them inside a
// window. Members without tasks keep an empty (non-nil) task list.
type MemberWorkload struct {
	Member models.TeamMember `json:"member"`
	Tasks  []models.Task     `json:"tasks"`
}

// WorkloadService aggregates tasks per member for a calendar window.
type WorkloadService struct {
	db *gorm.DB
}

// NewWorkloadService constructs a WorkloadService instance.
func NewWorkloadService(db *gorm.DB) (*WorkloadService, error) {
	if db == nil {
		return nil, errors.New("workload service: db is required")
	}
	return &WorkloadService{db: db}, nil
}

// Workload returns one entry per member with the window's overlapping tasks.
// When teamID is non-empty only that team's members are considered. Archived
// tasks are included so clients can render them distinctly; a task with no
// dates never matches any window.
func (s *WorkloadService) Workload(ctx context.Context, window calendar.Window, teamID string) ([]MemberWorkload, error) {
	ctx = ensureContext(ctx)

	memberQuery := s.db.WithContext(ctx).Order("code")
	if teamID != "" {
		memberQuery = memberQuery.Where("team_id = ?", teamID)
	}

	var members []models.TeamMember
	if err := memberQuery.Find(&members).Error; err != nil {
		return nil, fmt.Errorf("workload service: list members: %w", err)
	}

	var tasks []models.Task
	err := s.db.WithContext(ctx).
		Where("start_date IS NOT NULL OR end_date IS NOT NULL").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("workload service: list tasks: %w", err)
	}

	var matched []models.Task
	for _, task := range tasks {
		if task.Overlaps(window.Start, window.End) {
			matched = append(matched, task)
		}
	}

	workloads := make([]MemberWorkload, 0, len(members))
	for _, member := range members {
		entry := MemberWorkload{Member: member, Tasks: []models.Task{}}
		for _, task := range matched {
			if task.Members.Contains(member.Code) {
				entry.Tasks = append(entry.Tasks, task)
			}
		}
		workloads = append(workloads, entry)
	}

	return workloads, nil
}
