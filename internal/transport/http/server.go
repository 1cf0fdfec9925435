// Package http exposes the pricing engine over a JSON HTTP API: calendar
// queries, bulk adjustment preview/commit, rule CRUD, and import/export.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/staynest/pricingservice/internal/metrics"
	"github.com/staynest/pricingservice/internal/pricing/usecase"
	"github.com/staynest/pricingservice/internal/ratelimit"
	"github.com/staynest/pricingservice/internal/shared/config"
	"github.com/staynest/pricingservice/internal/shared/log"
)

// Server wraps the HTTP API server
type Server struct {
	server  *http.Server
	logger  *zap.Logger
	service *usecase.Service
	limiter ratelimit.RateLimiter
}

// NewServer creates the API server and wires its routes
func NewServer(cfg *config.Config, service *usecase.Service, limiter ratelimit.RateLimiter, logger *zap.Logger) *Server {
	if cfg.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		logger:  logger,
		service: service,
		limiter: limiter,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestContext())
	router.Use(s.rateLimit())

	router.GET("/health", s.health)

	api := router.Group("/api/v1")
	{
		api.GET("/room-types", s.listRoomTypes)
		api.POST("/room-types", s.upsertRoomType)

		api.GET("/seasons", s.listSeasons)
		api.POST("/seasons", s.upsertSeason)
		api.DELETE("/seasons/:id", s.deleteSeason)

		api.GET("/events", s.listEvents)
		api.POST("/events", s.upsertEvent)
		api.DELETE("/events/:id", s.deleteEvent)

		api.GET("/rules", s.listRules)
		api.POST("/rules", s.createRule)
		api.PUT("/rules/:id", s.updateRule)
		api.DELETE("/rules/:id", s.deleteRule)

		api.GET("/calendar", s.calendar)
		api.POST("/calendar/grid", s.calendarGrid)

		api.POST("/bulk/preview", s.bulkPreview)
		api.POST("/bulk/commit", s.bulkCommit)

		api.POST("/rules/import", s.importRules)
		api.GET("/rules/export", s.exportRules)
		api.GET("/rules/export/snapshot", s.exportSnapshot)
	}

	s.server = &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}
	return s
}

// Serve starts the HTTP server and blocks until ctx is cancelled
func (s *Server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", s.server.Addr))
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown error: %w", err)
		}
		return nil
	}
}

// requestContext tags every request with an ID and records metrics
func (s *Server) requestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-Id")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		ctx := log.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-Id", requestID)

		start := time.Now()
		c.Next()
		metrics.RecordHTTPRequest(c.Request.Method, c.FullPath(),
			fmt.Sprintf("%d", c.Writer.Status()), time.Since(start))
	}
}

// rateLimit throttles clients per remote address
func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "rl:" + c.ClientIP()
		allowed, err := s.limiter.Allow(c.Request.Context(), key)
		if err != nil {
			// Fail open; the limiter logs its own errors.
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
