// Package api exposes the aggregated conference list over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pfrederiksen/conf-events/internal/event"
	"github.com/pfrederiksen/conf-events/internal/logger"
	"github.com/pfrederiksen/conf-events/internal/metrics"
	"github.com/pfrederiksen/conf-events/internal/scraper"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ServiceName     = "conf-events"
	ConferencesPath = "/conferences"
)

// Aggregator runs one aggregate fetch
type Aggregator interface {
	Aggregate(ctx context.Context) ([]*event.Event, error)
}

// NewRouter builds the gin engine with CORS, metrics and the routes
func NewRouter(agg Aggregator) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())
	r.Use(prometheusMiddleware())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "OPTIONS"}
	r.Use(cors.New(config))

	h := &Handler{agg: agg}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": ServiceName,
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET(ConferencesPath, h.ListConferences)

	return r
}

// Handler serves the aggregate endpoint
type Handler struct {
	agg Aggregator
}

// ListConferences runs one aggregate fetch and returns the events as a JSON
// array. Partial or empty results are still a 200; only configuration
// failures surface as errors.
func (h *Handler) ListConferences(c *gin.Context) {
	events, err := h.agg.Aggregate(c.Request.Context())
	if err != nil {
		status := http.StatusInternalServerError
		var cfgErr *scraper.ConfigError
		if !errors.As(err, &cfgErr) {
			status = http.StatusBadGateway
		}
		logger.Error("aggregate failed", logger.Fields{"path": c.FullPath()}, err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	if events == nil {
		events = []*event.Event{}
	}
	c.PureJSON(http.StatusOK, events)
}

func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			path,
		).Observe(time.Since(start).Seconds())
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info("request served", logger.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		})
	}
}
