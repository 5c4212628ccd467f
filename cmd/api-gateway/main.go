package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/Jukarena21/EducaSaberLMS-sub000/api/swagger"
	"github.com/Jukarena21/EducaSaberLMS-sub000/internal/handler"
	"github.com/Jukarena21/EducaSaberLMS-sub000/internal/middleware"
	"github.com/Jukarena21/EducaSaberLMS-sub000/internal/repository"
	"github.com/Jukarena21/EducaSaberLMS-sub000/internal/service"
	"github.com/Jukarena21/EducaSaberLMS-sub000/pkg/cache"
	"github.com/Jukarena21/EducaSaberLMS-sub000/pkg/config"
	"github.com/Jukarena21/EducaSaberLMS-sub000/pkg/database"
	"github.com/Jukarena21/EducaSaberLMS-sub000/pkg/logger"
	corsmiddleware "github.com/Jukarena21/EducaSaberLMS-sub000/pkg/middleware/cors"
	reqidmiddleware "github.com/Jukarena21/EducaSaberLMS-sub000/pkg/middleware/requestid"
	"github.com/Jukarena21/EducaSaberLMS-sub000/pkg/storage"
)

// @title EducaSaber Analytics API
// @version 1.0.0
// @description Academic analytics aggregation and reporting engine
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("postgres connection failed", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Analytics.CacheTTL, logr, redisClient != nil)

	recordRepo := repository.NewRecordRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)

	engine := service.NewAggregationService(cfg.Analytics)
	classifier := service.NewRiskClassifier(cfg.Risk)
	resolver := service.NewFilterResolver(catalogRepo)
	analyticsSvc := service.NewAnalyticsService(recordRepo, catalogRepo, engine, cacheSvc, logr)
	studentsSvc := service.NewStudentMetricsService(recordRepo, catalogRepo, engine, classifier, cacheSvc, logr, cfg.Analytics.DefaultPageSize)

	var archive service.ReportArchive
	if cfg.Reports.ArchiveEnabled {
		localStorage, err := storage.NewLocalStorage(cfg.Reports.ArchiveDir)
		if err != nil {
			logr.Sugar().Fatalw("report archive init failed", "error", err)
		}
		archive = localStorage
		go runArchiveCleanup(localStorage, cfg.Reports, logr)
	}
	reportsSvc := service.NewReportService(recordRepo, catalogRepo, engine, classifier, archive, metricsSvc, logr)

	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc, resolver, metricsSvc)
	studentsHandler := handler.NewStudentMetricsHandler(studentsSvc)
	reportsHandler := handler.NewReportHandler(reportsSvc, resolver)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(cfg.JWT.Secret))
	api.Use(middleware.WithResponseMeta())
	{
		analytics := api.Group("/analytics")
		analytics.GET("/overview", analyticsHandler.Overview)
		analytics.GET("/students", studentsHandler.List)
		analytics.GET("/system", analyticsHandler.System)

		reports := api.Group("/reports")
		reports.POST("/bulk", reportsHandler.Bulk)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func runArchiveCleanup(localStorage *storage.LocalStorage, cfg config.ReportsConfig, logr *zap.Logger) {
	interval := cfg.CleanupInterval
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		deleted, err := localStorage.CleanupOlderThan(cfg.ArchiveTTL)
		if err != nil {
			logr.Warn("report archive cleanup failed", zap.Error(err))
			continue
		}
		if len(deleted) > 0 {
			logr.Info("report archive cleanup", zap.Int("deleted", len(deleted)))
		}
	}
}
