package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/vnudocs/hub-api/api/swagger"
	"github.com/vnudocs/hub-api/internal/handler"
	"github.com/vnudocs/hub-api/internal/middleware"
	"github.com/vnudocs/hub-api/internal/repository"
	"github.com/vnudocs/hub-api/internal/service"
	"github.com/vnudocs/hub-api/pkg/cache"
	"github.com/vnudocs/hub-api/pkg/config"
	"github.com/vnudocs/hub-api/pkg/database"
	"github.com/vnudocs/hub-api/pkg/logger"
	corsmiddleware "github.com/vnudocs/hub-api/pkg/middleware/cors"
	reqidmiddleware "github.com/vnudocs/hub-api/pkg/middleware/requestid"
	"github.com/vnudocs/hub-api/pkg/telegram"
)

// @title VNU Docs Hub API
// @version 1.0.0
// @description Document and exam sharing backend relaying files to Telegram
// @BasePath /
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

	ctx := context.Background()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close() //nolint:errcheck
		}
	}

	relay := telegram.NewClient(cfg.Telegram, logr)

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	universityRepo := repository.NewUniversityRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	lecturerRepo := repository.NewLecturerRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	examRepo := repository.NewExamRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	metricsSvc := service.NewMetricsService()
	universitySvc := service.NewUniversityService(universityRepo, cacheRepo, logr, cfg.Cache.UniversityTTL)
	documentSvc := service.NewDocumentService(documentRepo, courseRepo, lecturerRepo, relay, universitySvc, logr, cfg.APIPrefix, cfg.Upload.MaxSections)
	examSvc := service.NewExamService(examRepo, relay, logr)
	reviewSvc := service.NewReviewService(reviewRepo, universitySvc, logr)

	universityHandler := handler.NewUniversityHandler(universitySvc)
	documentHandler := handler.NewDocumentHandler(documentSvc)
	examHandler := handler.NewExamHandler(examSvc)
	reviewHandler := handler.NewReviewHandler(reviewSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.MaxMultipartMemory = cfg.Upload.MaxMultipartMemory
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", readiness(db, redisClient))
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	{
		api.GET("/universities", universityHandler.List)
		api.GET("/documents", documentHandler.List)
		api.GET("/documents/:id", documentHandler.Get)
		api.POST("/documents", documentHandler.Upload)
		api.GET("/download/file/:fileId", documentHandler.DownloadFile)
		api.GET("/reviews", reviewHandler.List)

		// Legacy exam-sharing routes.
		api.GET("/exams", examHandler.List)
		api.POST("/upload", examHandler.Upload)
		api.GET("/download/:id", examHandler.Download)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func readiness(db *sqlx.DB, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": "database unreachable"})
			return
		}
		if redisClient != nil {
			if err := redisClient.Ping(ctx).Err(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": "redis unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}

