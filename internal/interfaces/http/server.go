// internal/interfaces/http/server.go
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/shopcart-api/internal/config"
	"github.com/your-org/shopcart-api/internal/domain/cart"
	"github.com/your-org/shopcart-api/internal/domain/catalog"
	"github.com/your-org/shopcart-api/internal/domain/customer"
	"github.com/your-org/shopcart-api/internal/interfaces/http/handlers"
	"github.com/your-org/shopcart-api/internal/interfaces/http/middleware"
	"github.com/your-org/shopcart-api/internal/interfaces/http/routes"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Server represents the HTTP server
type Server struct {
	config      *config.Config
	logger      *logrus.Logger
	gin         *gin.Engine
	httpServer  *http.Server
	db          *gorm.DB
	redisClient *redis.Client
	startedAt   time.Time
}

// NewServer creates a new HTTP server instance with its routes wired
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, logger *logrus.Logger) *Server {
	s := &Server{
		config:      cfg,
		logger:      logger,
		db:          db,
		redisClient: redisClient,
		startedAt:   time.Now(),
	}

	s.gin = gin.New()
	if err := s.gin.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		logger.WithError(err).Warn("Invalid trusted proxies, trusting none")
		_ = s.gin.SetTrustedProxies(nil)
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.WithFields(logrus.Fields{
		"port":     s.config.Server.Port,
		"base_url": fmt.Sprintf("http://localhost:%s/api/v1", s.config.Server.Port),
	}).Info("HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server stopped gracefully")
	return nil
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	// Recovery middleware - recover from panics
	s.gin.Use(gin.Recovery())

	// Logs after the handlers ran, so it sees the request id set below
	s.gin.Use(middleware.Logger(s.logger))

	s.gin.Use(middleware.RequestID())

	s.gin.Use(middleware.CORS(s.config))

	s.gin.Use(middleware.SecurityHeaders(s.config))

	s.gin.Use(middleware.RateLimit(s.config, s.redisClient, s.logger))

	s.gin.Use(middleware.RequestSizeLimit(s.config.Server.MaxBodyBytes))

	s.gin.Use(middleware.Timeout(s.config.Server.RequestTimeout))
}

// setupRoutes configures all routes for the server
func (s *Server) setupRoutes() {
	// Health check endpoints (no auth required)
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)

	s.gin.GET("/", handlers.Home(s.config))

	catalogService := catalog.NewService(s.db, s.logger)
	services := &routes.Services{
		Customers: customer.NewService(s.db, customer.NewTokenBlacklist(s.redisClient), s.config, s.logger),
		Catalog:   catalogService,
		Cart:      cart.NewService(s.db, catalogService, s.logger),
	}

	// API v1 routes
	apiV1 := s.gin.Group("/api/v1")
	routes.SetupRoutes(apiV1, services)
}

// healthCheck pings the database and Redis concurrently
func (s *Server) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sqlDB, err := s.db.DB()
		if err != nil {
			return errors.New("database connection error")
		}
		if err := sqlDB.PingContext(gctx); err != nil {
			return errors.New("database ping failed")
		}
		return nil
	})
	g.Go(func() error {
		if err := s.redisClient.Ping(gctx).Err(); err != nil {
			return errors.New("redis ping failed")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
	})
}

// readinessCheck handles readiness check requests
func (s *Server) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
	})
}
