package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/devopsteamsdb/teamtasks/internal/services"
	"github.com/devopsteamsdb/teamtasks/pkg/response"
)

// VersionHandler reports the store's latest modification stamp.
type VersionHandler struct {
	svc *services.VersionService
}

// NewVersionHandler constructs a VersionHandler backed by the given database.
func NewVersionHandler(db *gorm.DB) (*VersionHandler, error) {
	svc, err := services.NewVersionService(db)
	if err != nil {
		return nil, err
	}
	return &VersionHandler{svc: svc}, nil
}

// Get handles GET /api/version
//
// Clients poll this endpoint to decide whether to refetch, so the response
// must never be cached.
func (h *VersionHandler) Get(c *gin.Context) {
	latest, err := h.svc.LatestModification(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Cache-Control", "no-store, no-cache, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")

	version := ""
	if !latest.IsZero() {
		version = latest.UTC().Format(time.RFC3339Nano)
	}
	response.Success(c, http.StatusOK, gin.H{"version": version})
}
