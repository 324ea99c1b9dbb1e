package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/devopsteamsdb/teamtasks/internal/handlers"
)

func registerCalendarRoutes(api *gin.RouterGroup, db *gorm.DB) error {
	calendarHandler, err := handlers.NewCalendarHandler(db)
	if err != nil {
		return err
	}

	cal := api.Group("/calendar")
	{
		cal.GET("/week", calendarHandler.Week)
		cal.GET("/month", calendarHandler.Month)
	}

	return nil
}
