// Package main runs the question bank HTTP API with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tlmvpsc/questionbank/config"
	"github.com/tlmvpsc/questionbank/internal/admins"
	"github.com/tlmvpsc/questionbank/internal/middleware"
	"github.com/tlmvpsc/questionbank/internal/questions"
	"github.com/tlmvpsc/questionbank/pkg/database"
	"github.com/tlmvpsc/questionbank/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	adminRepo := admins.NewRepository(pool)
	questionRepo := questions.NewRepository(pool)
	adminHandler := admins.NewHandler(adminRepo, logger)
	questionHandler := questions.NewHandler(questionRepo, logger)
	guard := middleware.Credentials(adminRepo)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Admin creation is guarded unless OPEN_ADMIN_SIGNUP is set, which
	// restores the historical open signup used to bootstrap the first account.
	if cfg.Server.OpenAdminSignup {
		logger.Warn("admin signup is open: PUT /admins/add requires no authentication")
		router.PUT("/admins/add", adminHandler.Add)
	} else {
		router.PUT("/admins/add", guard, adminHandler.Add)
	}

	api := router.Group("", guard)
	{
		api.DELETE("/admins/delete/:username", adminHandler.Delete)

		api.GET("/questions/get", questionHandler.List)
		api.PUT("/questions/add", questionHandler.Add)
		api.PATCH("/questions/edit/:id", questionHandler.Edit)
		api.DELETE("/questions/delete/:id", questionHandler.Delete)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
