package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

type calendarResponse struct {
	Window struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"window"`
	Workload []struct {
		Member struct {
			Code string `json:"code"`
		} `json:"member"`
		Tasks []struct {
			Title string `json:"title"`
		} `json:"tasks"`
	} `json:"workload"`
	SpecialDays []struct {
		Name string `json:"name"`
	} `json:"special_days"`
}

func TestCalendarWeekEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doRequest(t, r, http.MethodPost, "/api/teams", map[string]string{
		"code": "devops", "display_name": "DevOps",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var team teamDTO
	decodeData(t, rec, &team)

	rec = doRequest(t, r, http.MethodPost, "/api/teams/"+team.ID+"/members", map[string]string{
		"code": "elad", "display_name": "Elad",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, r, http.MethodPost, "/api/tasks", map[string]any{
		"project":    "infra",
		"title":      "Inside window",
		"members":    []string{"elad"},
		"start_date": "2025-03-10",
		"end_date":   "2025-03-12",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, r, http.MethodPost, "/api/special-days", map[string]string{
		"date": "2025-03-11", "name": "Company day",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// A Wednesday snaps back to the preceding Sunday.
	rec = doRequest(t, r, http.MethodGet, "/api/calendar/week?date=2025-03-12", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp calendarResponse
	decodeData(t, rec, &resp)
	require.Equal(t, "2025-03-09", resp.Window.Start)
	require.Equal(t, "2025-03-15", resp.Window.End)
	require.Len(t, resp.Workload, 1)
	require.Equal(t, "elad", resp.Workload[0].Member.Code)
	require.Len(t, resp.Workload[0].Tasks, 1)
	require.Len(t, resp.SpecialDays, 1)
	require.Equal(t, "Company day", resp.SpecialDays[0].Name)

	rec = doRequest(t, r, http.MethodGet, "/api/calendar/week?date=notadate", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalendarMonthEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doRequest(t, r, http.MethodGet, "/api/calendar/month?year=2024&month=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp calendarResponse
	decodeData(t, rec, &resp)
	require.Equal(t, "2024-02-01", resp.Window.Start)
	require.Equal(t, "2024-02-29", resp.Window.End)
	require.Empty(t, resp.Workload)

	rec = doRequest(t, r, http.MethodGet, "/api/calendar/month?year=2024&month=13", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
