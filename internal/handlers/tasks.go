package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/devopsteamsdb/teamtasks/internal/services"
	apperrors "github.com/devopsteamsdb/teamtasks/pkg/errors"
	"github.com/devopsteamsdb/teamtasks/pkg/response"
)

// TaskHandler exposes task lifecycle endpoints.
type TaskHandler struct {
	svc *services.TaskService
}

// NewTaskHandler constructs a TaskHandler backed by the given database.
func NewTaskHandler(db *gorm.DB) (*TaskHandler, error) {
	svc, err := services.NewTaskService(db)
	if err != nil {
		return nil, err
	}
	return &TaskHandler{svc: svc}, nil
}

// List handles GET /api/tasks
func (h *TaskHandler) List(c *gin.Context) {
	opts := services.ListTasksOptions{
		IncludeArchived: parseBoolQuery(c, "include_archived"),
		TeamID:          strings.TrimSpace(c.Query("team_id")),
		Project:         strings.TrimSpace(c.Query("project")),
	}

	tasks, err := h.svc.List(requestContext(c), opts)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, tasks)
}

// Get handles GET /api/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		response.Error(c, apperrors.NewBadRequest("task id is required"))
		return
	}

	task, err := h.svc.GetByID(requestContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, task)
}

type createTaskRequest struct {
	Project        string   `json:"project" validate:"required"`
	Title          string   `json:"title" validate:"required"`
	Members        []string `json:"members"`
	Status         string   `json:"status"`
	Priority       string   `json:"priority"`
	Notes          string   `json:"notes"`
	TeamID         *string  `json:"team_id"`
	StartDate      string   `json:"start_date" validate:"omitempty,dateonly"`
	EndDate        string   `json:"end_date" validate:"omitempty,dateonly"`
	EstimatedHours *float64 `json:"estimated_hours"`
}

// Create handles POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var body createTaskRequest
	if !bindAndValidate(c, &body) {
		return
	}

	task, err := h.svc.Create(requestContext(c), services.CreateTaskInput{
		Project:        body.Project,
		Title:          body.Title,
		Members:        body.Members,
		Status:         body.Status,
		Priority:       body.Priority,
		Notes:          body.Notes,
		TeamID:         body.TeamID,
		StartDate:      body.StartDate,
		EndDate:        body.EndDate,
		EstimatedHours: body.EstimatedHours,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, task)
}

type updateTaskRequest struct {
	Project        *string   `json:"project"`
	Title          *string   `json:"title"`
	Members        *[]string `json:"members"`
	Status         *string   `json:"status"`
	Priority       *string   `json:"priority"`
	Notes          *string   `json:"notes"`
	TeamID         *string   `json:"team_id"`
	StartDate      *string   `json:"start_date"`
	EndDate        *string   `json:"end_date"`
	EstimatedHours *float64  `json:"estimated_hours"`
	IsArchived     *bool     `json:"is_archived"`
}

// Update handles PATCH /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		response.Error(c, apperrors.NewBadRequest("task id is required"))
		return
	}

	var body updateTaskRequest
	if !bindAndValidate(c, &body) {
		return
	}

	task, err := h.svc.Update(requestContext(c), id, services.UpdateTaskInput{
		Project:        body.Project,
		Title:          body.Title,
		Members:        body.Members,
		Status:         body.Status,
		Priority:       body.Priority,
		Notes:          body.Notes,
		TeamID:         body.TeamID,
		StartDate:      body.StartDate,
		EndDate:        body.EndDate,
		EstimatedHours: body.EstimatedHours,
		IsArchived:     body.IsArchived,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, task)
}

type archiveTaskRequest struct {
	Archived bool `json:"archived"`
}

// Archive handles POST /api/tasks/:id/archive
func (h *TaskHandler) Archive(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		response.Error(c, apperrors.NewBadRequest("task id is required"))
		return
	}

	body := archiveTaskRequest{Archived: true}
	if c.Request != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			response.Error(c, apperrors.NewBadRequest("invalid JSON payload"))
			return
		}
	}

	task, err := h.svc.SetArchived(requestContext(c), id, body.Archived)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, task)
}

// Delete handles DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		response.Error(c, apperrors.NewBadRequest("task id is required"))
		return
	}

	if err := h.svc.Delete(requestContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// Search handles GET /api/search
func (h *TaskHandler) Search(c *gin.Context) {
	tasks, err := h.svc.Search(requestContext(c), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, tasks)
}
