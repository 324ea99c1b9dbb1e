package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/devopsteamsdb/teamtasks/internal/calendar"
	"github.com/devopsteamsdb/teamtasks/internal/models"
	"github.com/devopsteamsdb/teamtasks/internal/services"
	apperrors "github.com/devopsteamsdb/teamtasks/pkg/errors"
	"github.com/devopsteamsdb/teamtasks/pkg/response"
)

// SpecialDayHandler exposes calendar special-day endpoints.
type SpecialDayHandler struct {
	svc *services.SpecialDayService
}

// NewSpecialDayHandler constructs a SpecialDayHandler backed by the given database.
func NewSpecialDayHandler(db *gorm.DB) (*SpecialDayHandler, error) {
	svc, err := services.NewSpecialDayService(db)
	if err != nil {
		return nil, err
	}
	return &SpecialDayHandler{svc: svc}, nil
}

// List handles GET /api/special-days
//
// With both from and to query parameters the listing is limited to that
// inclusive range.
func (h *SpecialDayHandler) List(c *gin.Context) {
	from := strings.TrimSpace(c.Query("from"))
	to := strings.TrimSpace(c.Query("to"))

	if from != "" || to != "" {
		start, err := models.ParseDate(from)
		if err != nil {
			response.Error(c, apperrors.NewBadRequest("from must be a date in YYYY-MM-DD form"))
			return
		}
		end, err := models.ParseDate(to)
		if err != nil {
			response.Error(c, apperrors.NewBadRequest("to must be a date in YYYY-MM-DD form"))
			return
		}

		days, err := h.svc.ListWindow(requestContext(c), calendar.Window{Start: start, End: end})
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, http.StatusOK, days)
		return
	}

	days, err := h.svc.List(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, days)
}

type createSpecialDayRequest struct {
	Date  string  `json:"date" validate:"required,dateonly"`
	Name  string  `json:"name" validate:"required"`
	Type  string  `json:"type"`
	Color *string `json:"color"`
}

// Create handles POST /api/special-days
func (h *SpecialDayHandler) Create(c *gin.Context) {
	var body createSpecialDayRequest
	if !bindAndValidate(c, &body) {
		return
	}

	day, err := h.svc.Create(requestContext(c), services.CreateSpecialDayInput{
		Date:  body.Date,
		Name:  body.Name,
		Type:  body.Type,
		Color: body.Color,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, day)
}

type updateSpecialDayRequest struct {
	Date  *string `json:"date"`
	Name  *string `json:"name"`
	Type  *string `json:"type"`
	Color *string `json:"color"`
}

// Update handles PATCH /api/special-days/:id
func (h *SpecialDayHandler) Update(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		response.Error(c, apperrors.NewBadRequest("special day id is required"))
		return
	}

	var body updateSpecialDayRequest
	if !bindAndValidate(c, &body) {
		return
	}

	day, err := h.svc.Update(requestContext(c), id, services.UpdateSpecialDayInput{
		Date:  body.Date,
		Name:  body.Name,
		Type:  body.Type,
		Color: body.Color,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, day)
}

// Delete handles DELETE /api/special-days/:id
func (h *SpecialDayHandler) Delete(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		response.Error(c, apperrors.NewBadRequest("special day id is required"))
		return
	}

	if err := h.svc.Delete(requestContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
