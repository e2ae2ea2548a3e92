package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"research-desk/services"
)

func setupContentRoutes(api *gin.RouterGroup, svc *services.ContentService, log *zap.Logger) {
	log = log.With(zap.String("routes", "content"))
	rg := api.Group("/content")

	rg.GET("", func(c *gin.Context) {
		items, filters, err := svc.List(c.Request.Context(), services.ContentQuery{
			Type:   c.Query("type"),
			Status: c.Query("status"),
			Source: c.Query("source"),
			Search: c.Query("search"),
		})
		if err != nil {
			respondError(c, log, err, "Failed to fetch research results")
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items, "filters": filters})
	})

	rg.POST("", func(c *gin.Context) {
		var body services.ContentInput
		if err := c.ShouldBindJSON(&body); err != nil {
			invalidBody(c)
			return
		}
		id, err := svc.Create(c.Request.Context(), body)
		if err != nil {
			respondError(c, log, err, "Failed to create research result")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
	})

	rg.DELETE("", func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Query("id")); err != nil {
			respondError(c, log, err, "Failed to delete research result")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
}
