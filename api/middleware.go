package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"research-desk/services"
)

// RequestDuration tracks handler latency by route template, method and status.
var RequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "research_desk_http_request_duration_seconds",
		Help:    "HTTP request latency, by route, method and status.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"route", "method", "status"},
)

func routeLabel(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return "unmatched"
}

func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		RequestDuration.
			WithLabelValues(routeLabel(c), c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if c.FullPath() == "/metrics" || c.FullPath() == "/health" {
			return
		}
		log.Info("Request handled",
			zap.String("method", c.Request.Method),
			zap.String("route", routeLabel(c)),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// respondError maps a service error onto the JSON error response. fallback is
// returned for failures that carry no client-facing message.
func respondError(c *gin.Context, log *zap.Logger, err error, fallback string) {
	var (
		validation    *services.ValidationError
		notFound      *services.NotFoundError
		notConfigured *services.NotConfiguredError
		upstream      *services.UpstreamError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Message})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Message})
	case errors.As(err, &notConfigured):
		log.Warn("Resource not configured", zap.String("resource", notConfigured.Resource))
		c.JSON(http.StatusInternalServerError, gin.H{"error": notConfigured.Error()})
	case errors.As(err, &upstream):
		log.Error(upstream.Message, zap.Error(upstream.Err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": upstream.Message})
	default:
		log.Error(fallback, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func invalidBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
}
