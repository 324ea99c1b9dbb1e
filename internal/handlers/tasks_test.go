package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devopsteamsdb/teamtasks/internal/models"
)

func TestTaskEndpointsLifecycle(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doRequest(t, r, http.MethodPost, "/api/tasks", map[string]any{
		"project":    "infra",
		"title":      "Upgrade runners",
		"members":    []string{"Elad", "guy", "elad"},
		"status":     "in_progress",
		"start_date": "2025-06-01",
		"end_date":   "2025-06-05",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var task models.Task
	decodeData(t, rec, &task)
	require.Equal(t, models.MemberList{"elad", "guy"}, task.Members)
	require.Equal(t, models.TaskStatusInProgress, task.Status)

	rec = doRequest(t, r, http.MethodPatch, "/api/tasks/"+task.ID, map[string]any{
		"status": "done",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &task)
	require.Equal(t, models.TaskStatusDone, task.Status)

	rec = doRequest(t, r, http.MethodPost, "/api/tasks/"+task.ID+"/archive", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &task)
	require.True(t, task.IsArchived)

	rec = doRequest(t, r, http.MethodGet, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var visible []models.Task
	decodeData(t, rec, &visible)
	require.Empty(t, visible)

	rec = doRequest(t, r, http.MethodGet, "/api/tasks?include_archived=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &visible)
	require.Len(t, visible, 1)

	rec = doRequest(t, r, http.MethodDelete, "/api/tasks/"+task.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, r, http.MethodGet, "/api/tasks/"+task.ID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "TASK_NOT_FOUND", decodeErrorCode(t, rec))
}

func TestTaskEndpointsRejectBadDates(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doRequest(t, r, http.MethodPost, "/api/tasks", map[string]any{
		"project":    "infra",
		"title":      "Bad date",
		"start_date": "06/01/2025",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "BAD_REQUEST", decodeErrorCode(t, rec))
}

func TestSearchEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doRequest(t, r, http.MethodPost, "/api/tasks", map[string]any{
		"project": "infra",
		"title":   "Upgrade Kubernetes",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, r, http.MethodGet, "/api/search?q=kubernetes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var hits []models.Task
	decodeData(t, rec, &hits)
	require.Len(t, hits, 1)

	rec = doRequest(t, r, http.MethodGet, "/api/search", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
