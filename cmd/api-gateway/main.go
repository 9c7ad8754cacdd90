package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/task-recommender/api/swagger"
	"github.com/noah-isme/task-recommender/internal/handler"
	internalmiddleware "github.com/noah-isme/task-recommender/internal/middleware"
	"github.com/noah-isme/task-recommender/internal/repository"
	"github.com/noah-isme/task-recommender/internal/service"
	"github.com/noah-isme/task-recommender/pkg/cache"
	"github.com/noah-isme/task-recommender/pkg/config"
	"github.com/noah-isme/task-recommender/pkg/database"
	"github.com/noah-isme/task-recommender/pkg/logger"
	corsmiddleware "github.com/noah-isme/task-recommender/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/task-recommender/pkg/middleware/requestid"
)

// @title Task Recommender API
// @version 1.0.0
// @description Explained practice-task recommendations from interest, mastery and similar students
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		logr.Fatal("failed to open catalog database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()
	cacheSvc := newCacheService(ctx, cfg, metrics, logr)
	catalog := repository.NewCatalogRepository(db)

	validation := service.NewValidationService(catalog, validator.New(), logr)
	if _, err := validation.RunAll(ctx); err != nil {
		logr.Warn("catalog validation could not run", zap.Error(err))
	}

	recommender := service.NewRecommendationService(catalog, cacheSvc, metrics, logr, service.RecommendationServiceConfig{
		ProgressThreshold: cfg.Recommender.ProgressThreshold,
		Neighbors:         cfg.Recommender.Neighbors,
		CacheTTL:          cfg.Recommender.CacheTTL,
	})
	exporter := service.NewExportService(nil, logr, nil, nil, nil)

	r := buildRouter(cfg, logr, db, metrics, recommender, exporter)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "db_driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

func buildRouter(cfg *config.Config, logr *zap.Logger, db *sqlx.DB, metrics *service.MetricsService, recommender *service.RecommendationService, exporter *service.ExportService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))
	r.Use(internalmiddleware.WithResponseMeta())

	var pinger handler.Pinger
	if db != nil {
		pinger = db
	}
	metricsHandler := handler.NewMetricsHandler(metrics, pinger)
	recommendationHandler := handler.NewRecommendationHandler(recommender, exporter)

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	api.GET("/system/metrics", metricsHandler.Summary)
	students := api.Group("/students/:id")
	students.GET("/recommendations", recommendationHandler.Get)
	students.GET("/recommendations/export", recommendationHandler.Export)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	return r
}

// newCacheService connects Redis only when the result cache is switched on.
// An unreachable Redis leaves the cache disabled instead of failing startup.
func newCacheService(ctx context.Context, cfg *config.Config, metrics *service.MetricsService, logr *zap.Logger) *service.CacheService {
	if !cfg.Recommender.CacheEnabled {
		return service.NewCacheService(nil, metrics, cfg.Recommender.CacheTTL, logr, false)
	}
	client, err := cache.NewRedis(ctx, cfg.Redis, 5*time.Second)
	if err != nil {
		logr.Warn("recommendation cache disabled, redis unavailable", zap.Error(err))
		return service.NewCacheService(nil, metrics, cfg.Recommender.CacheTTL, logr, false)
	}
	repo := repository.NewCacheRepository(client, logr)
	return service.NewCacheService(repo, metrics, cfg.Recommender.CacheTTL, logr, true)
}
