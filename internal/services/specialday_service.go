package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/devopsteamsdb/teamtasks/internal/calendar"
	"github.com/devopsteamsdb/teamtasks/internal/models"
	apperrors "github.com/devopsteamsdb/teamtasks/pkg/errors"
)

// ErrSpecialDayNotFound indicates the requested special day does not exist.
var ErrSpecialDayNotFound = apperrors.New("SPECIAL_DAY_NOT_FOUND", "Special day not found", http.StatusNotFound)

// CreateSpecialDayInput captures a new calendar special day.
type CreateSpecialDayInput struct {
	Date  string
	Name  string
	Type  string
	Color *string
}

// UpdateSpecialDayInput describes a partial special-day update.
type UpdateSpecialDayInput struct {
	Date  *string
	Name  *string
	Type  *string
	Color *string
}

// SpecialDayService handles calendar special-day operations.
type SpecialDayService struct {
	db *gorm.DB
}

// NewSpecialDayService constructs a SpecialDayService instance.
func NewSpecialDayService(db *gorm.DB) (*SpecialDayService, error) {
	if db == nil {
		return nil, errors.New("special day service: db is required")
	}
	return &SpecialDayService{db: db}, nil
}

// Create stores a new special day. The date is mandatory.
func (s *SpecialDayService) Create(ctx context.Context, input CreateSpecialDayInput) (*models.SpecialDay, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("name is required")
	}
	date, err := models.ParseDate(input.Date)
	if err != nil {
		return nil, apperrors.NewBadRequest("date must be an ISO-8601 date")
	}

	day := &models.SpecialDay{
		Date:  date,
		Name:  name,
		Type:  models.ParseSpecialDayType(input.Type),
		Color: input.Color,
	}

	if err := s.db.WithContext(ctx).Create(day).Error; err != nil {
		return nil, fmt.Errorf("special day service: create: %w", err)
	}
	return day, nil
}

// Update applies a partial update; only supplied fields change.
func (s *SpecialDayService) Update(ctx context.Context, id string, input UpdateSpecialDayInput) (*models.SpecialDay, error) {
	ctx = ensureContext(ctx)

	var day models.SpecialDay
	err := s.db.WithContext(ctx).First(&day, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSpecialDayNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("special day service: load: %w", err)
	}

	updates := map[string]any{}
	if input.Date != nil {
		date, err := models.ParseDate(*input.Date)
		if err != nil {
			return nil, apperrors.NewBadRequest("date must be an ISO-8601 date")
		}
		updates["date"] = date
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewBadRequest("name must not be empty")
		}
		updates["name"] = name
	}
	if input.Type != nil {
		updates["type"] = models.ParseSpecialDayType(*input.Type)
	}
	if input.Color != nil {
		updates["color"] = *input.Color
	}

	if len(updates) == 0 {
		return &day, nil
	}

	if err := s.db.WithContext(ctx).Model(&day).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("special day service: update: %w", err)
	}
	if err := s.db.WithContext(ctx).First(&day, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("special day service: reload: %w", err)
	}
	return &day, nil
}

// List returns all special days ordered by date.
func (s *SpecialDayService) List(ctx context.Context) ([]models.SpecialDay, error) {
	ctx = ensureContext(ctx)

	var days []models.SpecialDay
	if err := s.db.WithContext(ctx).Order("date").Find(&days).Error; err != nil {
		return nil, fmt.Errorf("special day service: list: %w", err)
	}
	return days, nil
}

// ListWindow returns the special days falling inside the window.
func (s *SpecialDayService) ListWindow(ctx context.Context, window calendar.Window) ([]models.SpecialDay, error) {
	ctx = ensureContext(ctx)

	var days []models.SpecialDay
	err := s.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", window.Start, window.End).
		Order("date").
		Find(&days).Error
	if err != nil {
		return nil, fmt.Errorf("special day service: list window: %w", err)
	}
	return days, nil
}

// Delete removes a special day.
func (s *SpecialDayService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.SpecialDay{})
	if result.Error != nil {
		return fmt.Errorf("special day service: delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSpecialDayNotFound
	}
	return nil
}
