package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"emergency-referral/config"
	deliveryHttp "emergency-referral/internal/delivery/http"
	"emergency-referral/internal/delivery/http/handler"
	"emergency-referral/internal/delivery/http/middleware"
	"emergency-referral/internal/infrastructure/cache"
	"emergency-referral/internal/infrastructure/database"
	"emergency-referral/internal/infrastructure/messaging"
	"emergency-referral/internal/repository"
	"emergency-referral/internal/service"
	"emergency-referral/internal/usecase"
	"emergency-referral/pkg/jwt"
	"emergency-referral/pkg/validator"

	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	AMQPConn    *amqp091.Connection
	Publisher   service.EventPublisher
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	SetupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize event publishing (optional)
	publisher, err := app.newPublisher(cfg.RabbitMQ)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Publisher = publisher

	// Initialize all layers
	app.Server = initializeServer(cfg, db, redisClient, publisher)

	return app, nil
}

// SetupLogger configures the logrus logger
func SetupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

func (app *App) newPublisher(cfg config.RabbitMQConfig) (service.EventPublisher, error) {
	if !cfg.Enabled {
		logrus.Info("RabbitMQ disabled, referral events will not be published")
		return service.NewNoopEventPublisher(), nil
	}

	conn, err := messaging.NewRabbitMQConnection(cfg)
	if err != nil {
		return nil, err
	}
	app.AMQPConn = conn

	publisher, err := service.NewRabbitEventPublisher(conn, cfg.QueueName, logrus.StandardLogger())
	if err != nil {
		return nil, fmt.Errorf("failed to create event publisher: %w", err)
	}
	logrus.Infof("Publishing referral events to queue %s", cfg.QueueName)
	return publisher, nil
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, publisher service.EventPublisher) *http.Server {
	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	auditLogRepo := repository.NewAuditLogRepository()
	referralRepo := repository.NewReferralRepository()
	transitInfoRepo := repository.NewTransitInfoRepository()
	statusHistoryRepo := repository.NewStatusHistoryRepository()
	hospitalRepo := repository.NewHospitalRepository()
	specialtyRepo := repository.NewSpecialtyRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	tokenStore := service.NewRedisTokenStore(redisClient)
	sequencer := service.NewRedisReferenceSequencer(db, redisClient, log, referralRepo)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, roleRepo, auditService, jwtService, tokenStore)
	referralUsecase := usecase.NewReferralUsecase(db, log, referralRepo, transitInfoRepo, statusHistoryRepo,
		hospitalRepo, specialtyRepo, auditService, sequencer, publisher)
	referenceUsecase := usecase.NewReferenceUsecase(db, log, hospitalRepo, specialtyRepo, auditService, cfg.App.MetroRegionName)
	reportUsecase := usecase.NewReportUsecase(db, log, referralRepo, statusHistoryRepo)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	referralHandler := handler.NewReferralHandler(referralUsecase, customValidator)
	referenceHandler := handler.NewReferenceHandler(referenceUsecase, customValidator)
	reportHandler := handler.NewReportHandler(reportUsecase)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokenStore)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.CORS.AllowedOrigins)

	// Initialize router
	router := deliveryHttp.NewRouter(cfg.RateLimit, authHandler, referralHandler, referenceHandler,
		reportHandler, auditLogHandler, authMiddleware, corsMiddleware)

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (publisher, broker, database, redis)
func (app *App) Close() {
	if app.Publisher != nil {
		if err := app.Publisher.Close(); err != nil {
			logrus.Warnf("Failed to close event publisher: %v", err)
		}
	}

	if app.AMQPConn != nil {
		app.AMQPConn.Close()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
