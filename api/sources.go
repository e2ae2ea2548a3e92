package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"research-desk/services"
)

func setupSourceRoutes(api *gin.RouterGroup, svc *services.SourceService, log *zap.Logger) {
	log = log.With(zap.String("routes", "sources"))
	rg := api.Group("/sources")

	rg.GET("", func(c *gin.Context) {
		items, filters, err := svc.List(c.Request.Context(), services.SourceQuery{
			Category: c.Query("category"),
			Auth:     c.Query("auth"),
			FreeOnly: c.Query("isFree") == "true",
		})
		if err != nil {
			respondError(c, log, err, "Failed to fetch sources")
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items, "filters": filters})
	})

	rg.POST("", func(c *gin.Context) {
		var body services.SourceInput
		if err := c.ShouldBindJSON(&body); err != nil {
			invalidBody(c)
			return
		}
		id, err := svc.Create(c.Request.Context(), body)
		if err != nil {
			respondError(c, log, err, "Failed to create source")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
	})

	rg.DELETE("", func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Query("id")); err != nil {
			respondError(c, log, err, "Failed to delete source")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
}
