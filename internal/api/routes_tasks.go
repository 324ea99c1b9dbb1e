package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/devopsteamsdb/teamtasks/internal/handlers"
)

func registerTaskRoutes(api *gin.RouterGroup, db *gorm.DB) error {
	taskHandler, err := handlers.NewTaskHandler(db)
	if err != nil {
		return err
	}

	tasks := api.Group("/tasks")
	{
		tasks.GET("", taskHandler.List)
		tasks.POST("", taskHandler.Create)
		tasks.GET("/:id", taskHandler.Get)
		tasks.PATCH("/:id", taskHandler.Update)
		tasks.DELETE("/:id", taskHandler.Delete)
		tasks.POST("/:id/archive", taskHandler.Archive)
	}
	api.GET("/search", taskHandler.Search)

	return nil
}
