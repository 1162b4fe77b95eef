package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	internalhandler "github.com/noah-isme/sma-adp-api/internal/handler"
	internalmiddleware "github.com/noah-isme/sma-adp-api/internal/middleware"
	"github.com/noah-isme/sma-adp-api/internal/repository"
	"github.com/noah-isme/sma-adp-api/internal/service"
	"github.com/noah-isme/sma-adp-api/pkg/cache"
	"github.com/noah-isme/sma-adp-api/pkg/config"
	"github.com/noah-isme/sma-adp-api/pkg/database"
	"github.com/noah-isme/sma-adp-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-adp-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-adp-api/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		zapLogger.Warn("redis unavailable, proposal caching disabled", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	metricsSvc := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(redisClient, zapLogger)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.CacheTTL, zapLogger, cfg.Cache.Enabled)

	teacherRepo := repository.NewTeacherRepository(db)
	teacherAssignmentRepo := repository.NewTeacherAssignmentRepository(db)
	teacherPrefRepo := repository.NewTeacherPreferenceRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	classRepo := repository.NewClassRepository(db)
	classSubjectRepo := repository.NewClassSubjectRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	termRepo := repository.NewTermRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	semesterScheduleRepo := repository.NewSemesterScheduleRepository(db)
	semesterScheduleSlotRepo := repository.NewSemesterScheduleSlotRepository(db)

	teacherSvc := service.NewTeacherService(teacherRepo, nil, zapLogger)
	teacherAssignmentSvc := service.NewTeacherAssignmentService(teacherRepo, classRepo, subjectRepo, termRepo, teacherAssignmentRepo, scheduleRepo, teacherPrefRepo, nil, zapLogger)
	teacherPrefSvc := service.NewTeacherPreferenceService(teacherPrefRepo, teacherRepo, nil, zapLogger)
	subjectSvc := service.NewSubjectService(subjectRepo, nil, zapLogger)
	classSvc := service.NewClassService(classRepo, subjectRepo, classSubjectRepo, nil, zapLogger)
	roomSvc := service.NewRoomService(roomRepo, nil, zapLogger)
	termSvc := service.NewTermService(termRepo, nil, zapLogger)
	timetableSvc := service.NewTimetableService(cacheSvc, semesterScheduleRepo, semesterScheduleSlotRepo, db, nil, zapLogger, cfg.Timetable)

	teacherHandler := internalhandler.NewTeacherHandler(teacherSvc, teacherAssignmentSvc, teacherPrefSvc)
	subjectHandler := internalhandler.NewSubjectHandler(subjectSvc)
	classHandler := internalhandler.NewClassHandler(classSvc)
	roomHandler := internalhandler.NewRoomHandler(roomSvc)
	termHandler := internalhandler.NewTermHandler(termSvc)
	timetableHandler := internalhandler.NewTimetableHandler(timetableSvc)
	metricsHandler := internalhandler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(reqidmiddleware.Middleware())
	router.Use(logger.GinMiddleware(zapLogger))
	router.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	router.Use(internalmiddleware.Metrics(metricsSvc))

	router.GET("/healthz", metricsHandler.Health)
	router.GET("/metrics", func(c *gin.Context) { metricsHandler.Prometheus(c) })

	api := router.Group(cfg.APIPrefix)
	{
		teachers := api.Group("/teachers")
		{
			teachers.GET("", teacherHandler.List)
			teachers.GET("/:id", teacherHandler.Get)
			teachers.POST("", teacherHandler.Create)
			teachers.PUT("/:id", teacherHandler.Update)
			teachers.DELETE("/:id", teacherHandler.Delete)
			teachers.GET("/:id/assignments", teacherHandler.ListAssignments)
			teachers.POST("/:id/assignments", teacherHandler.CreateAssignment)
			teachers.DELETE("/:id/assignments/:aid", teacherHandler.DeleteAssignment)
			teachers.GET("/:id/preferences", teacherHandler.GetPreferences)
			teachers.PUT("/:id/preferences", teacherHandler.UpsertPreferences)
		}

		subjects := api.Group("/subjects")
		{
			subjects.GET("", subjectHandler.List)
			subjects.GET("/:id", subjectHandler.Get)
			subjects.POST("", subjectHandler.Create)
			subjects.PUT("/:id", subjectHandler.Update)
			subjects.DELETE("/:id", subjectHandler.Delete)
		}

		classes := api.Group("/classes")
		{
			classes.GET("", classHandler.List)
			classes.GET("/:id", classHandler.Get)
			classes.POST("", classHandler.Create)
			classes.PUT("/:id", classHandler.Update)
			classes.DELETE("/:id", classHandler.Delete)
		}

		rooms := api.Group("/rooms")
		{
			rooms.GET("", roomHandler.List)
			rooms.GET("/:id", roomHandler.Get)
			rooms.POST("", roomHandler.Create)
			rooms.PUT("/:id", roomHandler.Update)
			rooms.DELETE("/:id", roomHandler.Delete)
		}

		terms := api.Group("/terms")
		{
			terms.GET("", termHandler.List)
			terms.GET("/active", termHandler.GetActive)
			terms.PUT("/active", termHandler.SetActive)
			terms.GET("/:id", termHandler.Get)
			terms.POST("", termHandler.Create)
			terms.PUT("/:id", termHandler.Update)
			terms.DELETE("/:id", termHandler.Delete)
		}

		timetable := api.Group("/timetable")
		{
			timetable.POST("/generate", timetableHandler.Generate)
			timetable.POST("/optimize", timetableHandler.Optimize)
			timetable.POST("/analyze", timetableHandler.Analyze)
			timetable.POST("/save", timetableHandler.Save)
			timetable.GET("/proposals/:id/export", timetableHandler.Export)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zapLogger.Info("starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
