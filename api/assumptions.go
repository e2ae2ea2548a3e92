package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"research-desk/services"
)

func setupAssumptionRoutes(api *gin.RouterGroup, svc *services.AssumptionService, log *zap.Logger) {
	log = log.With(zap.String("routes", "assumptions"))
	rg := api.Group("/assumptions")

	rg.GET("", func(c *gin.Context) {
		items, filters, err := svc.List(c.Request.Context(), c.Query("status"), c.Query("confidence"))
		if err != nil {
			respondError(c, log, err, "Failed to fetch assumptions")
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items, "filters": filters})
	})

	rg.POST("", func(c *gin.Context) {
		var body services.AssumptionInput
		if err := c.ShouldBindJSON(&body); err != nil {
			invalidBody(c)
			return
		}
		id, err := svc.Create(c.Request.Context(), body)
		if err != nil {
			respondError(c, log, err, "Failed to create assumption")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
	})

	rg.PATCH("", func(c *gin.Context) {
		var body services.AssumptionUpdate
		if err := c.ShouldBindJSON(&body); err != nil {
			invalidBody(c)
			return
		}
		if err := svc.Update(c.Request.Context(), body); err != nil {
			respondError(c, log, err, "Failed to update assumption")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	rg.DELETE("", func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Query("id")); err != nil {
			respondError(c, log, err, "Failed to delete assumption")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
}
