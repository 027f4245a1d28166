package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"easycare-booking-api/config"
	deliveryHttp "easycare-booking-api/internal/delivery/http"
	"easycare-booking-api/internal/delivery/http/handler"
	"easycare-booking-api/internal/delivery/http/middleware"
	"easycare-booking-api/internal/infrastructure/cache"
	"easycare-booking-api/internal/infrastructure/database"
	"easycare-booking-api/internal/repository"
	"easycare-booking-api/internal/service"
	"easycare-booking-api/internal/usecase"
	"easycare-booking-api/pkg/jwt"
	"easycare-booking-api/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Mailer      *service.Mailer
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	setupLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	app.Server = app.initializeServer(cfg, db, redisClient)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer wires every layer and returns the HTTP server
func (app *App) initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *http.Server {
	log := logrus.StandardLogger()

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()

	// Process-wide singletons: list cache and email queue. Both are pure
	// best-effort layers, nothing durable lives in them.
	appointmentCache := service.NewAppointmentCache(redisClient, log)
	mailer := service.NewMailer(service.NewSendGridSender(cfg.Mail), log, cfg.App.FrontendURL)
	app.Mailer = mailer

	googleAuth := service.NewGoogleAuthService(cfg.Google)

	userRepo := repository.NewUserRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	doctorRepo := repository.NewDoctorRepository()

	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, jwtService, googleAuth)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, appointmentRepo, userRepo, appointmentCache, mailer)
	doctorUsecase := usecase.NewDoctorUsecase(db, log, doctorRepo)

	authHandler := handler.NewAuthHandler(authUsecase, customValidator, cfg.App.FrontendURL)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase)
	doctorHandler := handler.NewDoctorHandler(doctorUsecase)

	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	corsMiddleware := middleware.NewCORSMiddleware()

	router := deliveryHttp.NewRouter(authHandler, appointmentHandler, doctorHandler, authMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	return &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.App.Port),
		Handler: httpRouter,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close stops the mailer and closes all connections
func (app *App) Close() {
	if app.Mailer != nil {
		app.Mailer.Stop()
	}

	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
