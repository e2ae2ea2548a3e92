package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"research-desk/services"
)

func setupAreaRoutes(api *gin.RouterGroup, svc Services, log *zap.Logger) {
	log = log.With(zap.String("routes", "areas"))
	rg := api.Group("/areas")

	rg.GET("", func(c *gin.Context) {
		areas, err := svc.Areas.List(c.Request.Context())
		if err != nil {
			respondError(c, log, err, "Failed to fetch areas")
			return
		}
		c.JSON(http.StatusOK, gin.H{"areas": areas})
	})

	rg.POST("", func(c *gin.Context) {
		var body struct {
			Name string `json:"name"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			invalidBody(c)
			return
		}
		id, err := svc.Areas.Create(c.Request.Context(), body.Name)
		if err != nil {
			respondError(c, log, err, "Failed to create area")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
	})

	rg.PATCH("", func(c *gin.Context) {
		var body services.TopicUpdate
		if err := c.ShouldBindJSON(&body); err != nil {
			invalidBody(c)
			return
		}
		if err := svc.Areas.Update(c.Request.Context(), body); err != nil {
			respondError(c, log, err, "Failed to update area")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	rg.DELETE("", func(c *gin.Context) {
		if err := svc.Areas.Delete(c.Request.Context(), c.Query("id")); err != nil {
			respondError(c, log, err, "Failed to delete area")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	rg.GET("/papers", func(c *gin.Context) {
		papers, err := svc.AreaPapers.Papers(c.Request.Context(), c.Query("tag"), c.Query("from"), c.Query("to"))
		if err != nil {
			respondError(c, log, err, "Failed to fetch papers")
			return
		}
		c.JSON(http.StatusOK, gin.H{"papers": papers})
	})

	rg.GET("/search", func(c *gin.Context) {
		papers, err := svc.Search.Search(c.Request.Context(), services.SearchRequest{
			Query:    c.Query("q"),
			Keywords: c.Query("keywords"),
			Limit:    c.Query("limit"),
		})
		if err != nil {
			respondError(c, log, err, "Failed to search arXiv")
			return
		}
		c.JSON(http.StatusOK, gin.H{"papers": papers})
	})

	rg.GET("/download", func(c *gin.Context) {
		d, err := svc.Download.Fetch(c.Request.Context(), c.Query("url"), c.Query("title"))
		if err != nil {
			respondError(c, log, err, "Failed to download PDF")
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", d.Filename))
		c.Data(http.StatusOK, "application/pdf", d.Data)
	})
}
