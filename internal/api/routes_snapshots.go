package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/devopsteamsdb/teamtasks/internal/handlers"
)

func registerSnapshotRoutes(api *gin.RouterGroup, db *gorm.DB) error {
	snapshotHandler, err := handlers.NewSnapshotHandler(db)
	if err != nil {
		return err
	}

	api.GET("/export/:scope", snapshotHandler.Export)
	api.POST("/restore/:scope", snapshotHandler.Restore)

	return nil
}
