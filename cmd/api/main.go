package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/campusworks/routine-api/api/swagger"
	"github.com/campusworks/routine-api/internal/handler"
	"github.com/campusworks/routine-api/internal/middleware"
	"github.com/campusworks/routine-api/internal/models"
	"github.com/campusworks/routine-api/internal/repository"
	"github.com/campusworks/routine-api/internal/service"
	"github.com/campusworks/routine-api/pkg/cache"
	"github.com/campusworks/routine-api/pkg/config"
	"github.com/campusworks/routine-api/pkg/database"
	"github.com/campusworks/routine-api/pkg/logger"
	corsmiddleware "github.com/campusworks/routine-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campusworks/routine-api/pkg/middleware/requestid"
)

// @title Class Routine API
// @version 1.0.0
// @description Academic class routine management with conflict detection
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
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close()

	routineRepo := repository.NewRoutineRepository(db)
	semesterRepo := repository.NewSemesterRepository(db)
	dayRepo := repository.NewDayRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	batchRepo := repository.NewBatchRepository(db)

	metricsSvc := service.NewMetricsService()

	var cacheRepo *repository.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect redis", "error", err)
		}
		cacheRepo = repository.NewCacheRepository(redisClient, logr, metricsSvc)
		defer cacheRepo.Close() //nolint:errcheck
	}

	validate := validator.New()
	authSvc := service.NewAuthService(cfg.JWT.Secret, logr)

	var routineViewCache service.RoutineCache
	if cacheRepo != nil {
		routineViewCache = cacheRepo
	}

	routineSvc := service.NewRoutineService(
		routineRepo,
		semesterRepo,
		dayRepo,
		courseRepo,
		teacherRepo,
		roomRepo,
		sectionRepo,
		routineViewCache,
		cfg.Cache.RoutineTTL,
		validate,
		logr,
	)
	semesterSvc := service.NewSemesterService(semesterRepo, validate, logr)
	daySvc := service.NewDayService(dayRepo, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, semesterRepo, routineRepo, validate, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, routineRepo, validate, logr)
	roomSvc := service.NewRoomService(roomRepo, routineRepo, validate, logr)
	sectionSvc := service.NewSectionService(sectionRepo, batchRepo, validate, logr)
	batchSvc := service.NewBatchService(batchRepo, validate, logr)

	routineHandler := handler.NewRoutineHandler(routineSvc, metricsSvc, logr)
	semesterHandler := handler.NewSemesterHandler(semesterSvc)
	dayHandler := handler.NewDayHandler(daySvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	teacherHandler := handler.NewTeacherHandler(teacherSvc)
	roomHandler := handler.NewRoomHandler(roomSvc)
	sectionHandler := handler.NewSectionHandler(sectionSvc)
	batchHandler := handler.NewBatchHandler(batchSvc)
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
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	prefix := cfg.APIPrefix
	if prefix == "" {
		prefix = "/api/v1"
	}
	api := r.Group(prefix)

	// read endpoints stay public; every mutation requires a token
	api.GET("/routine", routineHandler.List)
	api.GET("/routine/:id", routineHandler.Get)
	api.GET("/routine/semester/:name", routineHandler.SemesterRoutine)
	api.GET("/routine/teacher/:teacherId", routineHandler.TeacherRoutine)
	api.GET("/semesters", semesterHandler.List)
	api.GET("/semesters/:id", semesterHandler.Get)
	api.GET("/days", dayHandler.List)
	api.GET("/days/:id", dayHandler.Get)
	api.GET("/courses", courseHandler.List)
	api.GET("/courses/:id", courseHandler.Get)
	api.GET("/teachers", teacherHandler.List)
	api.GET("/teachers/:id", teacherHandler.Get)
	api.GET("/rooms", roomHandler.List)
	api.GET("/rooms/:id", roomHandler.Get)
	api.GET("/sections", sectionHandler.List)
	api.GET("/sections/:id", sectionHandler.Get)
	api.GET("/batches", batchHandler.List)
	api.GET("/batches/:id", batchHandler.Get)

	scheduling := []models.UserRole{models.RoleAdmin, models.RoleCoordinator, models.RoleProgramChair}

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc), middleware.RBAC(scheduling...))

	protected.POST("/routine", routineHandler.Create)
	protected.PUT("/routine/:id", routineHandler.Update)
	protected.DELETE("/routine/:id", routineHandler.Delete)
	protected.POST("/routine/check-conflicts", routineHandler.CheckConflicts)

	protected.POST("/semesters", semesterHandler.Create)
	protected.PUT("/semesters/:id", semesterHandler.Update)
	protected.DELETE("/semesters/:id", semesterHandler.Delete)

	protected.POST("/days", dayHandler.Create)
	protected.PUT("/days/:id", dayHandler.Update)
	protected.DELETE("/days/:id", dayHandler.Delete)

	protected.POST("/courses", courseHandler.Create)
	protected.PUT("/courses/:id", courseHandler.Update)
	protected.DELETE("/courses/:id", courseHandler.Delete)

	protected.POST("/teachers", teacherHandler.Create)
	protected.PUT("/teachers/:id", teacherHandler.Update)
	protected.DELETE("/teachers/:id", teacherHandler.Delete)

	protected.POST("/rooms", roomHandler.Create)
	protected.PUT("/rooms/:id", roomHandler.Update)
	protected.DELETE("/rooms/:id", roomHandler.Delete)

	protected.POST("/sections", sectionHandler.Create)
	protected.PUT("/sections/:id", sectionHandler.Update)
	protected.DELETE("/sections/:id", sectionHandler.Delete)

	protected.POST("/batches", batchHandler.Create)
	protected.PUT("/batches/:id", batchHandler.Update)
	protected.DELETE("/batches/:id", batchHandler.Delete)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
