package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/devopsteamsdb/teamtasks/internal/models"
	"github.com/devopsteamsdb/teamtasks/internal/services"
	apperrors "github.com/devopsteamsdb/teamtasks/pkg/errors"
	"github.com/devopsteamsdb/teamtasks/pkg/response"
)

// TeamHandler exposes team and membership management endpoints.
type TeamHandler struct {
	svc *services.TeamService
}

// NewTeamHandler constructs a TeamHandler backed by the given database.
func NewTeamHandler(db *gorm.DB) (*TeamHandler, error) {
	svc, err := services.NewTeamService(db)
	if err != nil {
		return nil, err
	}
	return &TeamHandler{svc: svc}, nil
}

type memberDTO struct {
	ID          string `json:"id"`
	TeamID      string `json:"team_id"`
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
	AvatarPath  string `json:"avatar_path"`
}

type teamDTO struct {
	ID          string      `json:"id"`
	Code        string      `json:"code"`
	DisplayName string      `json:"display_name"`
	Members     []memberDTO `json:"members"`
}

func mapMember(member *models.TeamMember) memberDTO {
	return memberDTO{
		ID:          member.ID,
		TeamID:      member.TeamID,
		Code:        member.Code,
		DisplayName: member.DisplayName,
		AvatarPath:  member.AvatarPath,
	}
}

func mapTeam(team *models.Team) teamDTO {
	members := make([]memberDTO, 0, len(team.Members))
	for i := range team.Members {
		members = append(members, mapMember(&team.Members[i]))
	}
	return teamDTO{
		ID:          team.ID,
		Code:        team.Code,
		DisplayName: team.DisplayName,
		Members:     members,
	}
}

// List handles GET /api/teams
func (h *TeamHandler) List(c *gin.Context) {
	teams, err := h.svc.List(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	dtos := make([]teamDTO, 0, len(teams))
	for i := range teams {
		dtos = append(dtos, mapTeam(&teams[i]))
	}
	response.Success(c, http.StatusOK, dtos)
}

// Get handles GET /api/teams/:id
func (h *TeamHandler) Get(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		response.Error(c, apperrors.NewBadRequest("team id is required"))
		return
	}

	team, err := h.svc.GetByID(requestContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, mapTeam(team))
}

type createTeamRequest struct {
	Code        string `json:"code" validate:"required"`
	DisplayName string `json:"display_name" validate:"required"`
}

// Create handles POST /api/teams
func (h *TeamHandler) Create(c *gin.Context) {
	var body createTeamRequest
	if !bindAndValidate(c, &body) {
		return
	}

	team, err := h.svc.Create(requestContext(c), services.CreateTeamInput{
		Code:        body.Code,
		DisplayName: body.DisplayName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, mapTeam(team))
}

type updateTeamRequest struct {
	Code        *string `json:"code"`
	DisplayName *string `json:"display_name"`
}

// Update handles PATCH /api/teams/:id
func (h *TeamHandler) Update(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		response.Error(c, apperrors.NewBadRequest("team id is required"))
		return
	}

	var body updateTeamRequest
	if !bindAndValidate(c, &body) {
		return
	}

	team, err := h.svc.Update(requestContext(c), id, services.UpdateTeamInput{
		Code:        body.Code,
		DisplayName: body.DisplayName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, mapTeam(team))
}

// Delete handles DELETE /api/teams/:id
func (h *TeamHandler) Delete(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		response.Error(c, apperrors.NewBadRequest("team id is required"))
		return
	}

	if err := h.svc.Delete(requestContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

type createMemberRequest struct {
	Code        string `json:"code" validate:"required"`
	DisplayName string `json:"display_name" validate:"required"`
	AvatarPath  string `json:"avatar_path"`
}

// AddMember handles POST /api/teams/:id/members
func (h *TeamHandler) AddMember(c *gin.Context) {
	teamID := strings.TrimSpace(c.Param("id"))
	if teamID == "" {
		response.Error(c, apperrors.NewBadRequest("team id is required"))
		return
	}

	var body createMemberRequest
	if !bindAndValidate(c, &body) {
		return
	}

	member, err := h.svc.AddMember(requestContext(c), teamID, services.CreateMemberInput{
		Code:        body.Code,
		DisplayName: body.DisplayName,
		AvatarPath:  body.AvatarPath,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, mapMember(member))
}

type updateMemberRequest struct {
	Code        *string `json:"code"`
	DisplayName *string `json:"display_name"`
	AvatarPath  *string `json:"avatar_path"`
}

// UpdateMember handles PATCH /api/teams/:id/members/:memberID
func (h *TeamHandler) UpdateMember(c *gin.Context) {
	teamID := strings.TrimSpace(c.Param("id"))
	memberID := strings.TrimSpace(c.Param("memberID"))
	if teamID == "" || memberID == "" {
		response.Error(c, apperrors.NewBadRequest("team id and member id are required"))
		return
	}

	var body updateMemberRequest
	if !bindAndValidate(c, &body) {
		return
	}

	member, err := h.svc.UpdateMember(requestContext(c), teamID, memberID, services.UpdateMemberInput{
		Code:        body.Code,
		DisplayName: body.DisplayName,
		AvatarPath:  body.AvatarPath,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, mapMember(member))
}

// RemoveMember handles DELETE /api/teams/:id/members/:memberID
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	teamID := strings.TrimSpace(c.Param("id"))
	memberID := strings.TrimSpace(c.Param("memberID"))
	if teamID == "" || memberID == "" {
		response.Error(c, apperrors.NewBadRequest("team id and member id are required"))
		return
	}

	if err := h.svc.RemoveMember(requestContext(c), teamID, memberID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ListMembers handles GET /api/members
func (h *TeamHandler) ListMembers(c *gin.Context) {
	members, err := h.svc.ListMembers(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	dtos := make([]memberDTO, 0, len(members))
	for i := range members {
		dtos = append(dtos, mapMember(&members[i]))
	}
	response.Success(c, http.StatusOK, dtos)
}
