package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"opoboost_backend/internal/config"
	"opoboost_backend/internal/controller"
	"opoboost_backend/internal/repository"
	"opoboost_backend/internal/service"
	"opoboost_backend/pkg/database"
	"opoboost_backend/pkg/logger"
	"opoboost_backend/pkg/monitoring"
	"opoboost_backend/pkg/security"
	"opoboost_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
	tracerShutdown  func(context.Context) error
}

type repositories struct {
	user     *repository.UserRepository
	category *repository.CategoryRepository
	question *repository.QuestionRepository
	testDef  *repository.TestDefinitionRepository
	attempt  *repository.AttemptRepository
	feedback *repository.FeedbackRepository
	material *repository.MaterialRepository
}

type services struct {
	storage  *service.StorageService
	email    *service.EmailService
	auth     *service.AuthService
	user     *service.UserService
	category *service.CategoryService
	question *service.QuestionService
	pool     *service.PoolService
	test     *service.TestService
	stats    *service.StatsService
	attempt  *service.AttemptService
	feedback *service.FeedbackService
	material *service.MaterialService
}

type controllers struct {
	auth     *controller.AuthController
	user     *controller.UserController
	category *controller.CategoryController
	question *controller.QuestionController
	test     *controller.TestController
	attempt  *controller.AttemptController
	stats    *controller.StatsController
	feedback *controller.FeedbackController
	material *controller.MaterialController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig hot-reloads the settings that are safe to change at runtime.
// Ports, database and storage wiring keep their boot-time values.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config.Simulacro = cfg.Simulacro
	a.Config.Email = cfg.Email
	a.Config.RateLimit = cfg.RateLimit
	a.Config.CORS = cfg.CORS

	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("Configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		category: repository.NewCategoryRepository(db),
		question: repository.NewQuestionRepository(db),
		testDef:  repository.NewTestDefinitionRepository(db),
		attempt:  repository.NewAttemptRepository(db),
		feedback: repository.NewFeedbackRepository(db),
		material: repository.NewMaterialRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.email = service.NewEmailService(cfg)
	s.auth = service.NewAuthService(repos.user, s.email, rdb, cfg)
	s.user = service.NewUserService(repos.user, repos.category)
	s.category = service.NewCategoryService(db, repos.category, s.user)
	s.question = service.NewQuestionService(db, repos.question)
	s.pool = service.NewPoolService(repos.question, repos.testDef, repos.attempt)
	s.test = service.NewTestService(db, repos.testDef, repos.question, repos.category, s.pool, s.user, cfg)
	s.stats = service.NewStatsService(repos.attempt, repos.testDef, repos.category, rdb, cfg)
	s.attempt = service.NewAttemptService(repos.attempt, repos.testDef, s.stats)
	s.feedback = service.NewFeedbackService(repos.feedback, repos.user, s.email)
	s.material = service.NewMaterialService(repos.material, repos.category, s.storage)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		user:     controller.NewUserController(s.user, s.auth),
		category: controller.NewCategoryController(s.category),
		question: controller.NewQuestionController(s.question),
		test:     controller.NewTestController(s.test),
		attempt:  controller.NewAttemptController(s.attempt),
		stats:    controller.NewStatsController(s.stats),
		feedback: controller.NewFeedbackController(s.feedback),
		material: controller.NewMaterialController(s.material),
		health:   controller.NewHealthController(db, rdb),
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

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// The service degrades gracefully without the cache.
		logger.Log.Warn("Redis unavailable, running without cache", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("opoboost-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerShutdown = tp.Shutdown
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
		router.Static("/api/uploads", cfg.Storage.LocalPath)
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
