package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"educloud_backend/internal/config"
	"educloud_backend/internal/controller"
	"educloud_backend/internal/repository"
	"educloud_backend/internal/service"
	"educloud_backend/pkg/database"
	"educloud_backend/pkg/logger"
	"educloud_backend/pkg/monitoring"
	"educloud_backend/pkg/security"
	"educloud_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracerProvider  *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	course     *repository.CourseRepository
	lesson     *repository.LessonRepository
	enrollment *repository.EnrollmentRepository
	liveClass  *repository.LiveClassRepository
	assignment *repository.AssignmentRepository
	quiz       *repository.QuizRepository
}

type services struct {
	storage    *service.StorageService
	auth       *service.AuthService
	user       *service.UserService
	course     *service.CourseService
	lesson     *service.LessonService
	enrollment *service.EnrollmentService
	liveClass  *service.LiveClassService
	dashboard  *service.DashboardService
	assignment *service.AssignmentService
	quiz       *service.QuizService
	hub        *service.RealtimeHub
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	course     *controller.CourseController
	lesson     *controller.LessonController
	enrollment *controller.EnrollmentController
	liveClass  *controller.LiveClassController
	dashboard  *controller.DashboardController
	assignment *controller.AssignmentController
	quiz       *controller.QuizController
	realtime   *controller.RealtimeController
	health     *controller.HealthController
}

// RegisterConfigCallback subscribes to hot reloads of the config file.
func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// OnConfigReload is invoked by the config watcher with the freshly parsed
// config.
func (a *App) OnConfigReload(cfg *config.Config) {
	a.Config = cfg
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
	logger.Log.Info("Configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		course:     repository.NewCourseRepository(db),
		lesson:     repository.NewLessonRepository(db),
		enrollment: repository.NewEnrollmentRepository(db),
		liveClass:  repository.NewLiveClassRepository(db),
		assignment: repository.NewAssignmentRepository(db),
		quiz:       repository.NewQuizRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, s.storage)
	s.course = service.NewCourseService(repos.course, repos.user, s.storage)
	s.lesson = service.NewLessonService(repos.lesson, repos.course, s.storage)
	s.enrollment = service.NewEnrollmentService(repos.enrollment, repos.course, repos.lesson)
	s.dashboard = service.NewDashboardService(repos.course, repos.enrollment)
	s.assignment = service.NewAssignmentService(repos.assignment, repos.course, repos.enrollment, s.storage)
	s.quiz = service.NewQuizService(repos.quiz, repos.course, repos.enrollment)

	s.hub = service.NewRealtimeHub(rdb, cfg.Realtime)
	go s.hub.Run()

	s.liveClass = service.NewLiveClassService(repos.liveClass, repos.course, s.storage, s.hub)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		user:       controller.NewUserController(s.user),
		course:     controller.NewCourseController(s.course),
		lesson:     controller.NewLessonController(s.lesson),
		enrollment: controller.NewEnrollmentController(s.enrollment),
		liveClass:  controller.NewLiveClassController(s.liveClass),
		dashboard:  controller.NewDashboardController(s.dashboard),
		assignment: controller.NewAssignmentController(s.assignment),
		quiz:       controller.NewQuizController(s.quiz),
		realtime:   controller.NewRealtimeController(s.hub),
		health:     controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized")

	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// Redis is optional; without it the hub falls back to single-instance
	// delivery and presence is local only.
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, realtime runs single-instance", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	svcs := app.initServices(repos, cfg, rdb)
	app.services = svcs
	ctrls := app.initControllers(svcs, db)

	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("educloud-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, ctrls, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Close websocket sessions and clear presence before the listener goes.
	if a.services != nil && a.services.hub != nil {
		a.services.hub.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
