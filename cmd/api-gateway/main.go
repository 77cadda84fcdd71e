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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/uni-timetable-api/api/swagger"
	"github.com/noah-isme/uni-timetable-api/internal/handler"
	"github.com/noah-isme/uni-timetable-api/internal/middleware"
	"github.com/noah-isme/uni-timetable-api/internal/models"
	"github.com/noah-isme/uni-timetable-api/internal/repository"
	"github.com/noah-isme/uni-timetable-api/internal/service"
	"github.com/noah-isme/uni-timetable-api/pkg/cache"
	"github.com/noah-isme/uni-timetable-api/pkg/config"
	"github.com/noah-isme/uni-timetable-api/pkg/database"
	"github.com/noah-isme/uni-timetable-api/pkg/jobs"
	"github.com/noah-isme/uni-timetable-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/uni-timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/uni-timetable-api/pkg/middleware/requestid"
)

// @title University Timetable API
// @version 1.0.0
// @description Constraint-based timetable generation and catalog management.
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	cacheRepo := repository.NewCacheRepository(nil, logr)
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, timetable cache disabled", "error", err)
		} else {
			defer redisClient.Close()
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}

	// Repositories.
	courseRepo := repository.NewCourseRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	instructorRepo := repository.NewInstructorRepository(db)
	semesterRepo := repository.NewSemesterRepository(db)
	constraintRepo := repository.NewConstraintRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	jobRepo := repository.NewGenerationJobRepository(db)

	// Services.
	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		Issuer:            cfg.JWT.Issuer,
	})
	courseSvc := service.NewCourseService(courseRepo, nil, logr)
	roomSvc := service.NewRoomService(roomRepo, nil, logr)
	instructorSvc := service.NewInstructorService(instructorRepo, nil, logr)
	semesterSvc := service.NewSemesterService(semesterRepo, nil, logr)
	constraintSvc := service.NewConstraintService(constraintRepo, nil, logr)
	timetableSvc := service.NewTimetableService(timetableRepo, courseRepo, roomRepo, instructorRepo, cacheRepo, nil, logr, cfg.Cache.TTL)

	generatorSvc := service.NewTimetableGeneratorService(
		courseRepo,
		roomRepo,
		instructorRepo,
		timetableRepo,
		constraintRepo,
		logr,
		service.GeneratorConfig{
			MaxIterations: cfg.Generator.MaxIterations,
			TimeLimit:     cfg.Generator.TimeLimit,
		},
	)

	worker := service.NewGenerationWorker(jobRepo, generatorSvc, metricsSvc, logr)
	queue := jobs.NewQueue("generation", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Generator.QueueWorkers,
		BufferSize: cfg.Generator.QueueBuffer,
		MaxRetries: 1,
		Logger:     logr,
	})
	generationSvc := service.NewGenerationService(jobRepo, semesterRepo, queue, nil, logr)

	queueCtx, stopQueue := context.WithCancel(context.Background())
	defer stopQueue()
	queue.Start(queueCtx)
	defer queue.Stop()

	// Jobs left Pending by a previous shutdown are picked up again.
	generationSvc.RecoverPendingJobs(queueCtx)

	// Handlers.
	courseHandler := handler.NewCourseHandler(courseSvc)
	roomHandler := handler.NewRoomHandler(roomSvc)
	instructorHandler := handler.NewInstructorHandler(instructorSvc)
	semesterHandler := handler.NewSemesterHandler(semesterSvc)
	constraintHandler := handler.NewConstraintHandler(constraintSvc)
	timetableHandler := handler.NewTimetableHandler(timetableSvc, generatorSvc)
	generationHandler := handler.NewGenerationHandler(generationSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(authSvc))

	read := middleware.RequireRoles(models.RoleAdmin, models.RoleFaculty, models.RoleStudent)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleFaculty)
	admin := middleware.RequireRoles(models.RoleAdmin)

	api.GET("/metrics/snapshot", admin, metricsHandler.Snapshot)

	courses := api.Group("/courses")
	{
		courses.GET("", read, courseHandler.List)
		courses.GET("/:id", read, courseHandler.Get)
		courses.POST("", admin, courseHandler.Create)
		courses.PUT("/:id", admin, courseHandler.Update)
		courses.DELETE("/:id", admin, courseHandler.Delete)
	}

	rooms := api.Group("/rooms")
	{
		rooms.GET("", read, roomHandler.List)
		rooms.GET("/:id", read, roomHandler.Get)
		rooms.POST("", admin, roomHandler.Create)
		rooms.PUT("/:id", admin, roomHandler.Update)
		rooms.DELETE("/:id", admin, roomHandler.Delete)
	}

	instructors := api.Group("/instructors")
	{
		instructors.GET("", read, instructorHandler.List)
		instructors.GET("/:id", read, instructorHandler.Get)
		instructors.POST("", admin, instructorHandler.Create)
		instructors.PUT("/:id", admin, instructorHandler.Update)
		instructors.DELETE("/:id", admin, instructorHandler.Delete)
		instructors.GET("/:id/availability", read, instructorHandler.ListAvailability)
		instructors.POST("/:id/availability", staff, instructorHandler.AddAvailability)
		instructors.DELETE("/:id/availability/:windowId", staff, instructorHandler.RemoveAvailability)
		instructors.GET("/:id/preferences", read, instructorHandler.ListPreferences)
		instructors.PUT("/:id/preferences", staff, instructorHandler.SetPreference)
	}

	semesters := api.Group("/semesters")
	{
		semesters.GET("", read, semesterHandler.List)
		semesters.GET("/:id", read, semesterHandler.Get)
		semesters.POST("", admin, semesterHandler.Create)
	}

	constraints := api.Group("/constraints")
	{
		constraints.GET("", read, constraintHandler.List)
		constraints.PUT("", admin, constraintHandler.Upsert)
		constraints.DELETE("/:id", admin, constraintHandler.Delete)
	}

	timetable := api.Group("/timetable")
	{
		timetable.GET("", read, timetableHandler.List)
		timetable.GET("/semester/:semesterId", read, timetableHandler.SemesterView)
		timetable.GET("/semester/:semesterId/statistics", read, timetableHandler.Statistics)
		timetable.GET("/semester/:semesterId/export/csv", read, timetableHandler.ExportCSV)
		timetable.GET("/semester/:semesterId/export/pdf", read, timetableHandler.ExportPDF)
		timetable.DELETE("/semester/:semesterId", admin, timetableHandler.ClearSemester)
		timetable.GET("/:id", read, timetableHandler.Get)
		timetable.POST("", admin, timetableHandler.Create)
		timetable.PUT("/:id", admin, timetableHandler.Update)
		timetable.DELETE("/:id", admin, timetableHandler.Delete)
		timetable.POST("/generate", admin, generationHandler.Generate)
	}

	generationJobs := api.Group("/generation-jobs")
	{
		generationJobs.GET("", staff, generationHandler.ListJobs)
		generationJobs.GET("/:id", staff, generationHandler.GetJob)
		generationJobs.GET("/:id/result", staff, generationHandler.GetResult)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Sugar().Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
