package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/smartedudesk/timetable-api/api/swagger"
	"github.com/smartedudesk/timetable-api/internal/handler"
	"github.com/smartedudesk/timetable-api/internal/middleware"
	"github.com/smartedudesk/timetable-api/internal/repository"
	"github.com/smartedudesk/timetable-api/internal/service"
	"github.com/smartedudesk/timetable-api/internal/timetable"
	"github.com/smartedudesk/timetable-api/pkg/cache"
	"github.com/smartedudesk/timetable-api/pkg/config"
	"github.com/smartedudesk/timetable-api/pkg/database"
	"github.com/smartedudesk/timetable-api/pkg/logger"
	corsmiddleware "github.com/smartedudesk/timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/smartedudesk/timetable-api/pkg/middleware/requestid"
)

// @title SmartEduDesk Timetable API
// @version 0.1.0
// @description Scheduling, validation, and substitution engine for the weekly school timetable
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Validation reports just fall through to the engine on every call.
		logr.Sugar().Warnw("redis unavailable, report caching disabled", "error", err)
		redisClient = nil
	}

	teacherRepo := repository.NewTeacherRepository(db)
	boardRepo := repository.NewTimetableRepository(db)
	subRepo := repository.NewSubstitutionRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()

	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	timetableSvc := service.NewTimetableService(boardRepo, teacherRepo, subRepo, cacheRepo, metricsSvc, nil, logr, service.EngineOptions{
		RuleSet:             cfg.Engine.RuleSet,
		TeachStreakSeverity: timetable.Severity(cfg.Engine.TeachStreakSeverity),
		ValidationCacheTTL:  cfg.Engine.ValidationCacheTTL,
	})

	finder := timetable.NewSubstituteFinder(scoreWeights(cfg.Engine))
	substitutionSvc := service.NewSubstitutionService(subRepo, boardRepo, teacherRepo, finder, metricsSvc, nil, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	timetableHandler := handler.NewTimetableHandler(timetableSvc)
	substitutionHandler := handler.NewSubstitutionHandler(substitutionSvc)

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
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	{
		protected.GET("/auth/me", authHandler.Me)

		protected.GET("/timetable", timetableHandler.Get)
		protected.DELETE("/timetable", timetableHandler.Reset)
		protected.POST("/timetable/generate", timetableHandler.Generate)
		protected.POST("/timetable/import", timetableHandler.Import)
		protected.PUT("/timetable/slot", timetableHandler.UpdateSlot)
		protected.GET("/timetable/validation", timetableHandler.Validate)

		protected.POST("/substitutions", substitutionHandler.Create)
		protected.POST("/substitutions/day-absence", substitutionHandler.CreateDayAbsence)
		protected.GET("/substitutions", substitutionHandler.List)
		protected.DELETE("/substitutions", substitutionHandler.ClearDate)
		protected.GET("/substitutions/export", substitutionHandler.Export)
		protected.PUT("/substitutions/:id", substitutionHandler.Reassign)
		protected.DELETE("/substitutions/:id", substitutionHandler.Delete)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func scoreWeights(cfg config.EngineConfig) timetable.ScoreWeights {
	weights := timetable.DefaultScoreWeights()
	if cfg.SubQualifiedBonus > 0 {
		weights.Qualified = cfg.SubQualifiedBonus
	}
	if cfg.SubInChargeBonus > 0 {
		weights.InCharge = cfg.SubInChargeBonus
	}
	if cfg.SubStreakLimitPenalty > 0 {
		weights.AtStreakLimit = cfg.SubStreakLimitPenalty
	}
	if cfg.SubStreakOverPenalty > 0 {
		weights.OverStreakLimit = cfg.SubStreakOverPenalty
	}
	return weights
}
