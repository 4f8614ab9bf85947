package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/parsuni/exam-portal-api/api/swagger"
	"github.com/parsuni/exam-portal-api/internal/handler"
	"github.com/parsuni/exam-portal-api/internal/middleware"
	"github.com/parsuni/exam-portal-api/internal/models"
	"github.com/parsuni/exam-portal-api/internal/repository"
	"github.com/parsuni/exam-portal-api/internal/reservation"
	"github.com/parsuni/exam-portal-api/internal/service"
	"github.com/parsuni/exam-portal-api/pkg/cache"
	"github.com/parsuni/exam-portal-api/pkg/config"
	"github.com/parsuni/exam-portal-api/pkg/database"
	"github.com/parsuni/exam-portal-api/pkg/logger"
	corsmiddleware "github.com/parsuni/exam-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/parsuni/exam-portal-api/pkg/middleware/requestid"
)

// @title Exam Portal API
// @version 1.0.0
// @description University exam reservation and course portal backend
// @BasePath /api
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

	loc, err := time.LoadLocation(cfg.Reservation.Timezone)
	if err != nil {
		logr.Sugar().Fatalw("invalid reservation timezone", "timezone", cfg.Reservation.Timezone, "error", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	calendar := reservation.NewCalendar(loc)
	engine := reservation.NewEngine(loc)

	userRepo := repository.NewUserRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	examRepo := repository.NewExamRepository(db)
	surveyRepo := repository.NewSurveyRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsService := service.NewMetricsService()
	cacheService := service.NewCacheService(cacheRepo, metricsService, cfg.Analysis.CacheTTL, logr, redisClient != nil)

	authService := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "exam-portal-api",
	})
	analysisService := service.NewAnalysisService(studentRepo, examRepo, cacheService, calendar, service.AnalysisConfig{
		Enabled:     cfg.Analysis.Enabled,
		CacheTTL:    cfg.Analysis.CacheTTL,
		HorizonDays: cfg.Analysis.HorizonDays,
	}, logr)
	reservationService := service.NewReservationService(examRepo, roomRepo, courseRepo, analysisService, calendar, engine, nil, logr)
	courseService := service.NewCourseService(courseRepo, teacherRepo, studentRepo, examRepo, calendar, logr)
	dashboardService := service.NewDashboardService(teacherRepo, studentRepo, courseRepo, examRepo, calendar, logr)
	surveyService := service.NewSurveyService(surveyRepo, courseRepo, studentRepo, teacherRepo, nil, logr)
	exportService := service.NewExportService(courseService, nil, nil, logr)

	authHandler := handler.NewAuthHandler(authService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	courseHandler := handler.NewCourseHandler(courseService, analysisService, exportService)
	reservationHandler := handler.NewReservationHandler(reservationService, metricsService)
	roomHandler := handler.NewRoomHandler(roomRepo)
	surveyHandler := handler.NewSurveyHandler(surveyService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsService.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	protected := api.Group("")
	protected.Use(middleware.JWT(authService))

	protected.POST("/auth/logout", authHandler.Logout)

	protected.GET("/teachers/my-dashboard", middleware.RequireRoles(models.RoleTeacher), dashboardHandler.Teacher)
	protected.GET("/students/my-dashboard", middleware.RequireRoles(models.RoleStudent), dashboardHandler.Student)

	protected.GET("/courses/:id", courseHandler.Details)
	protected.GET("/courses/:id/date-analysis", courseHandler.DateAnalysis)
	if cfg.Exports.Enabled {
		protected.GET("/courses/:id/export-schedule", courseHandler.ExportSchedule)
	}

	protected.GET("/rooms", roomHandler.List)
	protected.GET("/exams", reservationHandler.ListExams)
	protected.POST("/exams", middleware.RequireRoles(models.RoleTeacher, models.RoleAdmin), reservationHandler.CreateExam)
	protected.GET("/reservations/calendar", reservationHandler.Calendar)
	protected.GET("/reservations/availability", reservationHandler.Availability)

	if cfg.Surveys.Enabled {
		protected.POST("/surveys/create", middleware.RequireRoles(models.RoleTeacher), surveyHandler.Create)
		protected.GET("/courses/:id/surveys", surveyHandler.ListByCourse)
		protected.POST("/surveys/:id/vote", middleware.RequireRoles(models.RoleStudent), surveyHandler.Vote)
		protected.GET("/surveys/:id/results", surveyHandler.Results)
	}

	protected.GET("/admin/metrics", middleware.RequireRoles(models.RoleAdmin), metricsHandler.Snapshot)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "timezone", cfg.Reservation.Timezone)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("server shutdown failed", "error", err)
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logr.Sugar().Warnw("redis close failed", "error", err)
		}
	}
	logr.Sugar().Infow("server stopped")
}
