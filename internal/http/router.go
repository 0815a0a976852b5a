package http

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"go.ngs.io/regrid/internal/adapter/cache"
	"go.ngs.io/regrid/internal/metrics"
	"go.ngs.io/regrid/internal/usecase"
)

// SetupRouter creates and configures the Gin router.
// An empty allowedOrigins list allows all origins.
func SetupRouter(remapUC *usecase.RemapUseCase, results *cache.ResultCache, allowedOrigins []string, l *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), accessLog(l))

	// Setup CORS middleware.
	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) > 0 {
		corsConfig.AllowOrigins = allowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	handler := NewHandler(remapUC, results)

	// API v1 routes.
	v1 := router.Group("/v1")
	v1.GET("/methods", handler.ListMethods)
	v1.POST("/remap", handler.PostRemap)

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	return router
}

// accessLog records request metrics and a debug access line per request.
func accessLog(l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		dur := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
		metrics.RequestDurationMs.WithLabelValues(route).Observe(float64(dur.Milliseconds()))

		l.Debug("http_access",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"bytes", c.Writer.Size(),
			"duration_ms", dur.Milliseconds(),
			"ip", c.ClientIP(),
		)
	}
}
