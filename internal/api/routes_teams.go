package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/devopsteamsdb/teamtasks/internal/handlers"
)

func registerTeamRoutes(api *gin.RouterGroup, db *gorm.DB) error {
	teamHandler, err := handlers.NewTeamHandler(db)
	if err != nil {
		return err
	}

	teams := api.Group("/teams")
	{
		teams.GET("", teamHandler.List)
		teams.POST("", teamHandler.Create)
		teams.GET("/:id", teamHandler.Get)
		teams.PATCH("/:id", teamHandler.Update)
		teams.DELETE("/:id", teamHandler.Delete)
		teams.POST("/:id/members", teamHandler.AddMember)
		teams.PATCH("/:id/members/:memberID", teamHandler.UpdateMember)
		teams.DELETE("/:id/members/:memberID", teamHandler.RemoveMember)
	}
	api.GET("/members", teamHandler.ListMembers)

	return nil
}
