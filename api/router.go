// Package api exposes the research desk services over HTTP.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"research-desk/services"
)

// Services bundles everything the routes call into.
type Services struct {
	Areas       *services.AreaService
	AreaPapers  *services.AreaPaperService
	Search      *services.SearchService
	Download    *services.DownloadService
	Assumptions *services.AssumptionService
	Content     *services.ContentService
	Keywords    *services.KeywordService
	Feed        *services.FeedService
	Saved       *services.SavedService
	Sources     *services.SourceService
}

// NewRouter builds the gin engine with every route mounted under /api.
func NewRouter(svc Services, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestMetrics())
	router.Use(requestLogger(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	setupAreaRoutes(api, svc, log)
	setupAssumptionRoutes(api, svc.Assumptions, log)
	setupContentRoutes(api, svc.Content, log)
	setupFeedRoutes(api, svc.Keywords, svc.Feed, log)
	setupSavedRoutes(api, svc.Saved, log)
	setupSourceRoutes(api, svc.Sources, log)
	return router
}
