package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"research-desk/services"
)

func setupFeedRoutes(api *gin.RouterGroup, keywords *services.KeywordService, feed *services.FeedService, log *zap.Logger) {
	log = log.With(zap.String("routes", "feed"))
	rg := api.Group("/feed")

	rg.GET("/keywords", func(c *gin.Context) {
		list, err := keywords.List(c.Request.Context())
		if err != nil {
			respondError(c, log, err, "Failed to fetch keywords")
			return
		}
		c.JSON(http.StatusOK, gin.H{"keywords": list})
	})

	rg.POST("/keywords", func(c *gin.Context) {
		var body struct {
			Name string `json:"name"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			invalidBody(c)
			return
		}
		id, err := keywords.Create(c.Request.Context(), body.Name)
		if err != nil {
			respondError(c, log, err, "Failed to create topic")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
	})

	rg.PATCH("/keywords", func(c *gin.Context) {
		var body services.TopicUpdate
		if err := c.ShouldBindJSON(&body); err != nil {
			invalidBody(c)
			return
		}
		if err := keywords.Update(c.Request.Context(), body); err != nil {
			respondError(c, log, err, "Failed to update keyword")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	rg.DELETE("/keywords", func(c *gin.Context) {
		if err := keywords.Delete(c.Request.Context(), c.Query("id")); err != nil {
			respondError(c, log, err, "Failed to delete keyword")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	rg.GET("/papers", func(c *gin.Context) {
		papers, err := feed.Papers(c.Request.Context(), c.Query("topic"))
		if err != nil {
			respondError(c, log.With(zap.String("topic", c.Query("topic"))), err, "Failed to fetch papers")
			return
		}
		c.JSON(http.StatusOK, gin.H{"papers": papers})
	})
}
