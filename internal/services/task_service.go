package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/devopsteamsdb/teamtasks/internal/models"
	apperrors "github.com/devopsteamsdb/teamtasks/pkg/errors"
)

// ErrTaskNotFound indicates the requested task does not exist.
var ErrTaskNotFound = apperrors.New("TASK_NOT_FOUND", "Task not found", http.StatusNotFound)

// CreateTaskInput captures a new task. Dates arrive as ISO-8601 strings.
type CreateTaskInput struct {
	Project        string
	Title          string
	Members        []string
	Status         string
	Priority       string
	Notes          string
	TeamID         *string
	StartDate      string
	EndDate        string
	EstimatedHours *float64
}

// UpdateTaskInput describes a partial task update. Nil pointers leave the
// field untouched; an empty date or team id string clears the value.
type UpdateTaskInput struct {
	Project        *string
	Title          *string
	Members        *[]string
	Status         *string
	Priority       *string
	Notes          *string
	TeamID         *string
	StartDate      *string
	EndDate        *string
	EstimatedHours *float64
	IsArchived     *bool
}

// ListTasksOptions filters task listings.
type ListTasksOptions struct {
	IncludeArchived bool
	TeamID          string
	Project         string
}

// TaskService handles task lifecycle operations.
type TaskService struct {
	db *gorm.DB
}

// NewTaskService constructs a TaskService instance.
func NewTaskService(db *gorm.DB) (*TaskService, error) {
	if db == nil {
		return nil, errors.New("task service: db is required")
	}
	return &TaskService{db: db}, nil
}

// Create stores a new task. Member codes are lowercased and de-duplicated;
// status and priority fall back to their unknown/none variants.
func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	ctx = ensureContext(ctx)

	project := strings.TrimSpace(input.Project)
	if project == "" {
		return nil, apperrors.NewBadRequest("project is required")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewBadRequest("title is required")
	}
	if input.EstimatedHours != nil && *input.EstimatedHours < 0 {
		return nil, apperrors.NewBadRequest("estimated hours must not be negative")
	}

	startDate, err := parseOptionalDate(input.StartDate)
	if err != nil {
		return nil, apperrors.NewBadRequest("start_date must be an ISO-8601 date")
	}
	endDate, err := parseOptionalDate(input.EndDate)
	if err != nil {
		return nil, apperrors.NewBadRequest("end_date must be an ISO-8601 date")
	}

	task := &models.Task{
		Project:        project,
		Title:          title,
		Members:        models.NormalizeMemberCodes(input.Members),
		Status:         models.ParseTaskStatus(input.Status),
		Priority:       models.ParseTaskPriority(input.Priority),
		Notes:          input.Notes,
		TeamID:         normalizeTeamID(input.TeamID),
		StartDate:      startDate,
		EndDate:        endDate,
		EstimatedHours: input.EstimatedHours,
	}

	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, fmt.Errorf("task service: create task: %w", err)
	}
	return task, nil
}

// Update applies a partial update; only supplied fields change.
func (s *TaskService) Update(ctx context.Context, id string, input UpdateTaskInput) (*models.Task, error) {
	ctx = ensureContext(ctx)

	var task models.Task
	err := s.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("task service: load task: %w", err)
	}

	updates := map[string]any{}
	if input.Project != nil {
		project := strings.TrimSpace(*input.Project)
		if project == "" {
			return nil, apperrors.NewBadRequest("project must not be empty")
		}
		updates["project"] = project
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.NewBadRequest("title must not be empty")
		}
		updates["title"] = title
	}
	if input.Members != nil {
		updates["members"] = models.NormalizeMemberCodes(*input.Members)
	}
	if input.Status != nil {
		updates["status"] = models.ParseTaskStatus(*input.Status)
	}
	if input.Priority != nil {
		updates["priority"] = models.ParseTaskPriority(*input.Priority)
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if input.TeamID != nil {
		updates["team_id"] = normalizeTeamID(input.TeamID)
	}
	if input.StartDate != nil {
		date, err := parseOptionalDate(*input.StartDate)
		if err != nil {
			return nil, apperrors.NewBadRequest("start_date must be an ISO-8601 date")
		}
		updates["start_date"] = date
	}
	if input.EndDate != nil {
		date, err := parseOptionalDate(*input.EndDate)
		if err != nil {
			return nil, apperrors.NewBadRequest("end_date must be an ISO-8601 date")
		}
		updates["end_date"] = date
	}
	if input.EstimatedHours != nil {
		if *input.EstimatedHours < 0 {
			return nil, apperrors.NewBadRequest("estimated hours must not be negative")
		}
		updates["estimated_hours"] = *input.EstimatedHours
	}
	if input.IsArchived != nil {
		updates["is_archived"] = *input.IsArchived
	}

	if len(updates) == 0 {
		return &task, nil
	}

	if err := s.db.WithContext(ctx).Model(&task).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("task service: update task: %w", err)
	}
	if err := s.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("task service: reload task: %w", err)
	}
	return &task, nil
}

// GetByID loads a single task.
func (s *TaskService) GetByID(ctx context.Context, id string) (*models.Task, error) {
	ctx = ensureContext(ctx)

	var task models.Task
	err := s.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("task service: get task: %w", err)
	}
	return &task, nil
}

// List returns tasks matching the options, ordered by project then title.
// Archived tasks are hidden unless explicitly requested.
func (s *TaskService) List(ctx context.Context, opts ListTasksOptions) ([]models.Task, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).Model(&models.Task{})
	if !opts.IncludeArchived {
		query = query.Where("is_archived = ?", false)
	}
	if opts.TeamID != "" {
		query = query.Where("team_id = ?", opts.TeamID)
	}
	if opts.Project != "" {
		query = query.Where("project = ?", opts.Project)
	}

	var tasks []models.Task
	if err := query.Order("project").Order("title").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("task service: list tasks: %w", err)
	}
	return tasks, nil
}

// Search matches the query against project, title, notes and member codes.
func (s *TaskService) Search(ctx context.Context, query string) ([]models.Task, error) {
	ctx = ensureContext(ctx)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewBadRequest("search query is required")
	}

	pattern := "%" + strings.ToLower(query) + "%"
	var tasks []models.Task
	err := s.db.WithContext(ctx).
		Where("is_archived = ?", false).
		Where(
			s.db.Where("LOWER(project) LIKE ?", pattern).
				Or("LOWER(title) LIKE ?", pattern).
				Or("LOWER(notes) LIKE ?", pattern).
				Or("LOWER(members) LIKE ?", pattern),
		).
		Order("project").Order("title").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("task service: search tasks: %w", err)
	}
	return tasks, nil
}

// SetArchived flips the archive flag.
func (s *TaskService) SetArchived(ctx context.Context, id string, archived bool) (*models.Task, error) {
	return s.Update(ctx, id, UpdateTaskInput{IsArchived: &archived})
}

// Delete removes a task permanently.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{})
	if result.Error != nil {
		return fmt.Errorf("task service: delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func parseOptionalDate(value string) (*models.Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	date, err := models.ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

func normalizeTeamID(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
