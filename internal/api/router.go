package api

import (
	"github.com/gin-gonic/gin"
	"github.com/timmy/astroinsight/internal/api/handler"
	"github.com/timmy/astroinsight/internal/api/middleware"
	"github.com/timmy/astroinsight/internal/config"
	"github.com/timmy/astroinsight/internal/logger"
	"github.com/timmy/astroinsight/internal/service"
)

// Services are the dependencies of the HTTP API. Archive and Publisher are optional.
type Services struct {
	Insights  *service.InsightService
	Archive   *service.ArchiveService
	Publisher *service.PublishService
}

// SetupRouter configures the Gin router with all routes.
func SetupRouter(svc *Services, cfg *config.ServerConfig, log *logger.Logger) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.CORS.AllowAllOrigins,
	}))

	healthHandler := handler.NewHealthHandler()
	insightHandler := handler.NewInsightHandler(svc.Insights)
	cacheHandler := handler.NewCacheHandler(svc.Insights)
	archiveHandler := handler.NewArchiveHandler(svc.Archive)
	adminHandler := handler.NewAdminHandler(svc.Publisher, svc.Insights)

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")
	{
		api.GET("/zodiac", insightHandler.Zodiac)
		api.POST("/insight", insightHandler.Insight)
		api.GET("/signs", insightHandler.Signs)

		api.GET("/cache/stats", cacheHandler.Stats)
		api.DELETE("/cache", cacheHandler.Clear)
		api.POST("/cache/prune", cacheHandler.Prune)

		api.GET("/archive/search", archiveHandler.Search)

		api.POST("/admin/publish", adminHandler.TriggerPublish)
		api.GET("/admin/publish/status", adminHandler.PublishStatus)
	}

	return r
}
