package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"leaseadmin/internal/app"
	"leaseadmin/internal/caching"
	"leaseadmin/internal/config"
	"leaseadmin/internal/handlers"
	"leaseadmin/internal/jobs/background"
	"leaseadmin/internal/leaseapi"
	"leaseadmin/internal/middleware"
	"leaseadmin/internal/repositories"
	"leaseadmin/internal/services"
	"leaseadmin/internal/session"
	"leaseadmin/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis connect failed", zap.Error(err))
	}
	defer redisClient.Close()

	cache := caching.NewRedisCacheService(redisClient, logger)

	apiClient := leaseapi.NewClient(leaseapi.Config{
		BaseURL:      cfg.Upstream.BaseURL,
		APIKey:       cfg.Upstream.APIKey,
		ServiceToken: cfg.Upstream.ServiceToken,
		Timeout:      cfg.Upstream.Timeout,
	}, logger)

	archive, err := services.NewArchiveService(services.ArchiveConfig{
		Endpoint:  cfg.Archive.Endpoint,
		AccessKey: cfg.Archive.AccessKey,
		SecretKey: cfg.Archive.SecretKey,
		Bucket:    cfg.Archive.Bucket,
		UseSSL:    cfg.Archive.UseSSL,
	}, logger)
	if err != nil {
		logger.Fatal("archive storage init failed", zap.Error(err))
	}
	if err := archive.EnsureBucket(ctx); err != nil {
		logger.Fatal("archive bucket init failed", zap.Error(err))
	}

	auditRepo := repositories.NewAuditLogsRepo(pool)

	lookupService := services.NewLookupService(apiClient, cache, cfg.Jobs.LookupRefreshInterval, logger)
	leaseRequestService := services.NewLeaseRequestService(apiClient, lookupService, cache, auditRepo, logger)
	attachmentService := services.NewAttachmentService(apiClient, lookupService, archive, auditRepo, logger)
	propertyService := services.NewPropertyService(apiClient, auditRepo, logger)
	directoryService := services.NewDirectoryService(apiClient)

	sessionManager, err := session.NewManager(apiClient, cache, session.Config{
		Secret:  cfg.Session.Secret,
		JWKSURL: cfg.Session.JWKSURL,
		TTL:     cfg.Session.TTL,
	}, logger)
	if err != nil {
		logger.Fatal("session manager init failed", zap.Error(err))
	}

	scheduler, err := background.NewJobScheduler(lookupService, auditRepo, cfg.Jobs.LookupRefreshInterval, cfg.Jobs.AuditRetentionDays, logger)
	if err != nil {
		logger.Fatal("scheduler init failed", zap.Error(err))
	}
	if err := scheduler.Start(); err != nil {
		logger.Fatal("scheduler start failed", zap.Error(err))
	}
	defer scheduler.Stop()

	authHandler := handlers.NewAuthHandler(sessionManager)
	leaseRequestHandler := handlers.NewLeaseRequestHandler(leaseRequestService, attachmentService)
	propertyHandler := handlers.NewPropertyHandler(propertyService)
	catalogHandler := handlers.NewCatalogHandler(lookupService)
	directoryHandler := handlers.NewDirectoryHandler(directoryService)
	auditHandler := handlers.NewAuditHandler(auditRepo)
	healthHandler := handlers.NewHealthHandler(cache)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.RequestID())

	e.GET("/health", healthHandler.Live)
	e.GET("/health/ready", healthHandler.Ready)

	v1 := e.Group("/v1")
	v1.POST("/auth/login", authHandler.Login)

	auth := v1.Group("", middleware.Auth(sessionManager))
	auth.GET("/me", authHandler.Me)
	auth.POST("/auth/logout", authHandler.Logout)

	requests := auth.Group("/lease-requests", middleware.RequirePermission(middleware.PermLeaseRequestsView))
	requests.GET("", leaseRequestHandler.List)
	requests.GET("/:id", leaseRequestHandler.Get)
	requests.GET("/:id/checking", leaseRequestHandler.Checking)
	requests.GET("/:id/audit", auditHandler.Trail)

	decisions := requests.Group("", middleware.RequirePermission(middleware.PermLeaseRequestsDecide))
	decisions.PUT("/:id/approve", leaseRequestHandler.Approve)
	decisions.PUT("/:id/reject", leaseRequestHandler.Reject)
	decisions.PUT("/:id/status", leaseRequestHandler.SetStatus)
	decisions.PUT("/:id/attachments/:name/approve", leaseRequestHandler.ApproveAttachment)
	decisions.PUT("/:id/attachments/:name/reject", leaseRequestHandler.RejectAttachment)

	auth.GET("/product-types", catalogHandler.ProductTypes)
	auth.GET("/service-categories", catalogHandler.ServiceCategories)
	auth.GET("/properties/blocks", catalogHandler.Blocks)

	properties := auth.Group("/properties", middleware.RequirePermission(middleware.PermPropertiesManage))
	properties.GET("", propertyHandler.List)
	properties.GET("/:id", propertyHandler.Get)
	properties.POST("", propertyHandler.Create)
	properties.PUT("/:id", propertyHandler.Update)
	properties.PUT("/:id/rate", propertyHandler.UpdateRate)
	properties.GET("/:id/annual-rates", propertyHandler.AnnualRates)

	rates := auth.Group("/annual-rates", middleware.RequirePermission(middleware.PermRatesManage))
	rates.GET("", propertyHandler.ListAnnualRates)
	rates.POST("", propertyHandler.CreateAnnualRate)
	rates.PUT("/:id/approve", propertyHandler.ApproveAnnualRate)
	rates.PUT("/:id/reject", propertyHandler.RejectAnnualRate)

	directory := auth.Group("", middleware.RequirePermission(middleware.PermDirectoryManage))
	directory.GET("/users", directoryHandler.Users)
	directory.GET("/users/:id", directoryHandler.User)
	directory.POST("/users", directoryHandler.CreateUser)
	directory.PUT("/users/:id", directoryHandler.UpdateUser)
	directory.DELETE("/users/:id", directoryHandler.DeleteUser)
	directory.GET("/roles", directoryHandler.Roles)
	directory.POST("/roles", directoryHandler.CreateRole)
	directory.PUT("/roles/:id", directoryHandler.UpdateRole)
	directory.GET("/permissions", directoryHandler.Permissions)
	directory.GET("/audit-logs", auditHandler.List)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server start failed", zap.Error(err))
		}
	}()
	logger.Info("server started", zap.String("port", cfg.Port), zap.String("env", cfg.Env))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
