package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/devopsteamsdb/teamtasks/internal/app"
	"github.com/devopsteamsdb/teamtasks/internal/handlers"
	"github.com/devopsteamsdb/teamtasks/internal/middleware"
)

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(db *gorm.DB, cfg *app.Config) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
	}

	r.GET("/health", handlers.Health(db))

	api := r.Group("/api")

	if err := registerTeamRoutes(api, db); err != nil {
		return nil, err
	}
	if err := registerTaskRoutes(api, db); err != nil {
		return nil, err
	}
	if err := registerSpecialDayRoutes(api, db); err != nil {
		return nil, err
	}
	if err := registerCalendarRoutes(api, db); err != nil {
		return nil, err
	}
	if err := registerSnapshotRoutes(api, db); err != nil {
		return nil, err
	}

	versionHandler, err := handlers.NewVersionHandler(db)
	if err != nil {
		return nil, err
	}
	api.GET("/version", versionHandler.Get)

	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Endpoint, gin.WrapH(promhttp.Handler()))
	}

	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
