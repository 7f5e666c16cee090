// cmd/api/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/shopcart-api/internal/config"
	"github.com/your-org/shopcart-api/internal/infrastructure/database/postgres"
	"github.com/your-org/shopcart-api/internal/infrastructure/database/redis"
	"github.com/your-org/shopcart-api/internal/interfaces/http"
	"github.com/your-org/shopcart-api/internal/pkg/auth"
	"github.com/your-org/shopcart-api/internal/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	log := logger.New(cfg.Logging)
	log.WithFields(logrus.Fields{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("Starting")

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Connect to database
	db, err := postgres.NewConnection(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	// Connect to Redis
	redisClient, err := redis.NewConnection(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisClient.Close()

	// Run database migrations
	migration := postgres.NewMigration(db.GetDB(), log)

	if err := migration.RunAutoMigrations(); err != nil {
		log.WithError(err).Fatal("Database migration failed")
	}

	if err := migration.CreateIndexes(); err != nil {
		log.WithError(err).Warn("Index creation failed")
	}

	// Seed initial data in development
	if cfg.IsDevelopment() {
		if err := migration.SeedInitialData(auth.NewPasswordManager(cfg)); err != nil {
			log.WithError(err).Warn("Data seeding failed")
		}
		if err := migration.GetTableInfo(); err != nil {
			log.WithError(err).Warn("Could not read table info")
		}
	}

	server := http.NewServer(cfg, db.GetDB(), redisClient.GetClient(), log)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gracefully")

	// Give server 30 seconds to shutdown gracefully
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	log.Info("Server shutdown completed")
}
