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

var (
	// ErrTeamNotFound indicates the requested team does not exist.
	ErrTeamNotFound = apperrors.New("TEAM_NOT_FOUND", "Team not found", http.StatusNotFound)
	// ErrMemberNotFound indicates the requested membership does not exist.
	ErrMemberNotFound = apperrors.New("MEMBER_NOT_FOUND", "Team member not found", http.StatusNotFound)
)

// CreateTeamInput captures new team metadata.
type CreateTeamInput struct {
	Code        string
	DisplayName string
}

// UpdateTeamInput describes mutable team fields.
type UpdateTeamInput struct {
	Code        *string
	DisplayName *string
}

// CreateMemberInput captures a new membership for a team.
type CreateMemberInput struct {
	Code        string
	DisplayName string
	AvatarPath  string
}

// UpdateMemberInput describes mutable member fields.
type UpdateMemberInput struct {
	Code        *string
	DisplayName *string
	AvatarPath  *string
}

// TeamService handles team lifecycle and membership management.
type TeamService struct {
	db *gorm.DB
}

// NewTeamService constructs a TeamService instance.
func NewTeamService(db *gorm.DB) (*TeamService, error) {
	if db == nil {
		return nil, errors.New("team service: db is required")
	}
	return &TeamService{db: db}, nil
}

// Create registers a new team. The code is lowercased before storage.
func (s *TeamService) Create(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	ctx = ensureContext(ctx)

	code := normalizeCode(input.Code)
	if code == "" {
		return nil, apperrors.NewBadRequest("team code is required")
	}
	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		return nil, apperrors.NewBadRequest("team display name is required")
	}

	team := &models.Team{
		Code:        code,
		DisplayName: displayName,
	}

	if err := s.db.WithContext(ctx).Create(team).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewBadRequest("team code already exists")
		}
		return nil, fmt.Errorf("team service: create team: %w", err)
	}

	return team, nil
}

// Update modifies team metadata. Only supplied fields change.
func (s *TeamService) Update(ctx context.Context, id string, input UpdateTeamInput) (*models.Team, error) {
	ctx = ensureContext(ctx)

	var team models.Team
	err := s.db.WithContext(ctx).First(&team, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("team service: load team: %w", err)
	}

	updates := map[string]any{}
	if input.Code != nil {
		code := normalizeCode(*input.Code)
		if code == "" {
			return nil, apperrors.NewBadRequest("team code must not be empty")
		}
		if code != team.Code {
			updates["code"] = code
		}
	}
	if input.DisplayName != nil {
		displayName := strings.TrimSpace(*input.DisplayName)
		if displayName == "" {
			return nil, apperrors.NewBadRequest("team display name must not be empty")
		}
		updates["display_name"] = displayName
	}

	if len(updates) == 0 {
		return &team, nil
	}

	if err := s.db.WithContext(ctx).Model(&team).Updates(updates).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewBadRequest("team code already exists")
		}
		return nil, fmt.Errorf("team service: update team: %w", err)
	}

	if err := s.db.WithContext(ctx).First(&team, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("team service: reload team: %w", err)
	}

	return &team, nil
}

// GetByID loads a team with its members.
func (s *TeamService) GetByID(ctx context.Context, id string) (*models.Team, error) {
	ctx = ensureContext(ctx)

	var team models.Team
	err := s.db.WithContext(ctx).Preload("Members").First(&team, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("team service: get team: %w", err)
	}
	return &team, nil
}

// List returns all teams with members preloaded, ordered by code.
func (s *TeamService) List(ctx context.Context) ([]models.Team, error) {
	ctx = ensureContext(ctx)

	var teams []models.Team
	err := s.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("code") }).
		Order("code").
		Find(&teams).Error
	if err != nil {
		return nil, fmt.Errorf("team service: list teams: %w", err)
	}
	return teams, nil
}

// Delete removes a team and its members. Tasks referencing the team keep
// their dangling team_id; the reference is weak and never cascaded.
func (s *TeamService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var team models.Team
		err := tx.First(&team, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		if err != nil {
			return fmt.Errorf("team service: load team: %w", err)
		}

		if err := tx.Where("team_id = ?", id).Delete(&models.TeamMember{}).Error; err != nil {
			return fmt.Errorf("team service: delete members: %w", err)
		}
		if err := tx.Delete(&team).Error; err != nil {
			return fmt.Errorf("team service: delete team: %w", err)
		}
		return nil
	})
}

// AddMember creates a new membership on the team.
func (s *TeamService) AddMember(ctx context.Context, teamID string, input CreateMemberInput) (*models.TeamMember, error) {
	ctx = ensureContext(ctx)

	code := normalizeCode(input.Code)
	if code == "" {
		return nil, apperrors.NewBadRequest("member code is required")
	}
	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		return nil, apperrors.NewBadRequest("member display name is required")
	}

	var team models.Team
	err := s.db.WithContext(ctx).First(&team, "id = ?", teamID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("team service: load team: %w", err)
	}

	member := &models.TeamMember{
		TeamID:      team.ID,
		Code:        code,
		DisplayName: displayName,
		AvatarPath:  strings.TrimSpace(input.AvatarPath),
	}

	if err := s.db.WithContext(ctx).Create(member).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewBadRequest("member code already exists in this team")
		}
		return nil, fmt.Errorf("team service: create member: %w", err)
	}

	return member, nil
}

// UpdateMember modifies a membership. Only supplied fields change.
func (s *TeamService) UpdateMember(ctx context.Context, teamID, memberID string, input UpdateMemberInput) (*models.TeamMember, error) {
	ctx = ensureContext(ctx)

	var member models.TeamMember
	err := s.db.WithContext(ctx).First(&member, "id = ? AND team_id = ?", memberID, teamID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("team service: load member: %w", err)
	}

	updates := map[string]any{}
	if input.Code != nil {
		code := normalizeCode(*input.Code)
		if code == "" {
			return nil, apperrors.NewBadRequest("member code must not be empty")
		}
		updates["code"] = code
	}
	if input.DisplayName != nil {
		displayName := strings.TrimSpace(*input.DisplayName)
		if displayName == "" {
			return nil, apperrors.NewBadRequest("member display name must not be empty")
		}
		updates["display_name"] = displayName
	}
	if input.AvatarPath != nil {
		avatar := strings.TrimSpace(*input.AvatarPath)
		if avatar == "" {
			avatar = models.DefaultAvatarPath
		}
		updates["avatar_path"] = avatar
	}

	if len(updates) == 0 {
		return &member, nil
	}

	if err := s.db.WithContext(ctx).Model(&member).Updates(updates).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewBadRequest("member code already exists in this team")
		}
		return nil, fmt.Errorf("team service: update member: %w", err)
	}

	if err := s.db.WithContext(ctx).First(&member, "id = ?", memberID).Error; err != nil {
		return nil, fmt.Errorf("team service: reload member: %w", err)
	}

	return &member, nil
}

// RemoveMember deletes a single membership.
func (s *TeamService) RemoveMember(ctx context.Context, teamID, memberID string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).Where("id = ? AND team_id = ?", memberID, teamID).Delete(&models.TeamMember{})
	if result.Error != nil {
		return fmt.Errorf("team service: delete member: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// ListMembers returns every member across all teams, ordered by code.
func (s *TeamService) ListMembers(ctx context.Context) ([]models.TeamMember, error) {
	ctx = ensureContext(ctx)

	var members []models.TeamMember
	if err := s.db.WithContext(ctx).Order("code").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("team service: list members: %w", err)
	}
	return members, nil
}
