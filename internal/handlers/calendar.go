package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/devopsteamsdb/teamtasks/internal/calendar"
	"github.com/devopsteamsdb/teamtasks/internal/models"
	"github.com/devopsteamsdb/teamtasks/internal/services"
	apperrors "github.com/devopsteamsdb/teamtasks/pkg/errors"
	"github.com/devopsteamsdb/teamtasks/pkg/metrics"
	"github.com/devopsteamsdb/teamtasks/pkg/response"
)

// CalendarHandler resolves calendar windows and the workload inside them.
type CalendarHandler struct {
	workload *services.WorkloadService
	days     *services.SpecialDayService
}

// NewCalendarHandler constructs a CalendarHandler backed by the given database.
func NewCalendarHandler(db *gorm.DB) (*CalendarHandler, error) {
	workload, err := services.NewWorkloadService(db)
	if err != nil {
		return nil, err
	}
	days, err := services.NewSpecialDayService(db)
	if err != nil {
		return nil, err
	}
	return &CalendarHandler{workload: workload, days: days}, nil
}

type calendarDTO struct {
	Window      calendar.Window           `json:"window"`
	Workload    []services.MemberWorkload `json:"workload"`
	SpecialDays []models.SpecialDay       `json:"special_days"`
}

// Week handles GET /api/calendar/week
//
// The reference date defaults to today; the window snaps back to the most
// recent week start.
func (h *CalendarHandler) Week(c *gin.Context) {
	ref := models.DateOf(time.Now())
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		parsed, err := models.ParseDate(raw)
		if err != nil {
			response.Error(c, apperrors.NewBadRequest("date must be a date in YYYY-MM-DD form"))
			return
		}
		ref = parsed
	}

	h.respond(c, calendar.WeekWindow(ref), "week")
}

// Month handles GET /api/calendar/month
func (h *CalendarHandler) Month(c *gin.Context) {
	now := time.Now()
	year := parseIntQuery(c, "year", now.Year())
	month := parseIntQuery(c, "month", int(now.Month()))
	if month < 1 || month > 12 {
		response.Error(c, apperrors.NewBadRequest("month must be between 1 and 12"))
		return
	}

	h.respond(c, calendar.MonthWindow(year, time.Month(month)), "month")
}

func (h *CalendarHandler) respond(c *gin.Context, window calendar.Window, kind string) {
	ctx := requestContext(c)
	teamID := strings.TrimSpace(c.Query("team_id"))

	workload, err := h.workload.Workload(ctx, window, teamID)
	if err != nil {
		response.Error(c, err)
		return
	}

	days, err := h.days.ListWindow(ctx, window)
	if err != nil {
		response.Error(c, err)
		return
	}

	metrics.WorkloadQueries.WithLabelValues(kind).Inc()

	response.Success(c, http.StatusOK, calendarDTO{
		Window:      window,
		Workload:    workload,
		SpecialDays: days,
	})
}
