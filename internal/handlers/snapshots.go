package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/devopsteamsdb/teamtasks/internal/services"
	apperrors "github.com/devopsteamsdb/teamtasks/pkg/errors"
	"github.com/devopsteamsdb/teamtasks/pkg/metrics"
	"github.com/devopsteamsdb/teamtasks/pkg/response"
)

// maxSnapshotBytes caps uploaded snapshot documents at 32 MiB.
const maxSnapshotBytes = 32 << 20

// SnapshotHandler exposes snapshot export and restore endpoints.
type SnapshotHandler struct {
	svc *services.SnapshotService
}

// NewSnapshotHandler constructs a SnapshotHandler backed by the given database.
func NewSnapshotHandler(db *gorm.DB) (*SnapshotHandler, error) {
	svc, err := services.NewSnapshotService(db)
	if err != nil {
		return nil, err
	}
	return &SnapshotHandler{svc: svc}, nil
}

// Export handles GET /api/export/:scope
//
// The response carries a Content-Disposition header so browsers download the
// document as a dated JSON file.
func (h *SnapshotHandler) Export(c *gin.Context) {
	scope := strings.ToLower(strings.TrimSpace(c.Param("scope")))

	doc, err := h.svc.Export(requestContext(c), scope)
	if err != nil {
		metrics.SnapshotOperations.WithLabelValues("export", scope, "error").Inc()
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("snapshot_%s_%s.json", scope, time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	metrics.SnapshotOperations.WithLabelValues("export", scope, "success").Inc()
	response.Success(c, http.StatusOK, doc)
}

// Restore handles POST /api/restore/:scope
//
// The raw request body is the snapshot document itself; validation failures
// never touch the store.
func (h *SnapshotHandler) Restore(c *gin.Context) {
	scope := strings.ToLower(strings.TrimSpace(c.Param("scope")))

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSnapshotBytes+1))
	if err != nil {
		response.Error(c, apperrors.NewBadRequest("failed to read snapshot document"))
		return
	}
	if len(raw) > maxSnapshotBytes {
		response.Error(c, apperrors.New("MALFORMED_DOCUMENT", "Snapshot document is too large", http.StatusBadRequest))
		return
	}

	counts, err := h.svc.Restore(requestContext(c), raw, scope)
	if err != nil {
		metrics.SnapshotOperations.WithLabelValues("restore", scope, "error").Inc()
		response.Error(c, err)
		return
	}

	total := 0
	for table, count := range counts {
		metrics.RestoredRows.WithLabelValues(table).Add(float64(count))
		total += count
	}
	metrics.SnapshotOperations.WithLabelValues("restore", scope, "success").Inc()

	response.Success(c, http.StatusOK, gin.H{
		"restored": counts,
		"total":    total,
	})
}
