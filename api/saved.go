package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"research-desk/models"
	"research-desk/services"
)

func setupSavedRoutes(api *gin.RouterGroup, svc *services.SavedService, log *zap.Logger) {
	log = log.With(zap.String("routes", "saved"))
	rg := api.Group("/saved")

	// Listing degrades to an empty list; the dashboard treats it as "nothing saved yet".
	rg.GET("", func(c *gin.Context) {
		papers, err := svc.List(c.Request.Context())
		if err != nil {
			if errors.Is(err, services.ErrNotConfigured) {
				respondError(c, log, err, "Failed to fetch papers")
				return
			}
			log.Error("Failed to fetch saved papers", zap.Error(err))
			papers = []models.Paper{}
		}
		c.JSON(http.StatusOK, gin.H{"papers": papers})
	})

	rg.POST("", func(c *gin.Context) {
		var body models.Paper
		if err := c.ShouldBindJSON(&body); err != nil {
			invalidBody(c)
			return
		}
		res, err := svc.Save(c.Request.Context(), body)
		if err != nil {
			respondError(c, log, err, "Failed to save")
			return
		}
		if res.AlreadySaved {
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Already saved"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "id": res.ID})
	})

	rg.DELETE("", func(c *gin.Context) {
		if err := svc.Remove(c.Request.Context(), c.Query("title")); err != nil {
			respondError(c, log, err, "Failed to delete")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	rg.PATCH("", func(c *gin.Context) {
		res, err := svc.Clear(c.Request.Context())
		if err != nil {
			respondError(c, log, err, "Failed to clear")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "archived": res.Archived, "failed": res.Failed})
	})
}
