package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/devopsteamsdb/teamtasks/internal/handlers"
)

func registerSpecialDayRoutes(api *gin.RouterGroup, db *gorm.DB) error {
	dayHandler, err := handlers.NewSpecialDayHandler(db)
	if err != nil {
		return err
	}

	days := api.Group("/special-days")
	{
		days.GET("", dayHandler.List)
		days.POST("", dayHandler.Create)
		days.PATCH("/:id", dayHandler.Update)
		days.DELETE("/:id", dayHandler.Delete)
	}

	return nil
}
