package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mediflow/config"
	deliveryHttp "mediflow/internal/delivery/http"
	"mediflow/internal/delivery/http/handler"
	"mediflow/internal/delivery/http/middleware"
	domainRepo "mediflow/internal/domain/repository"
	"mediflow/internal/infrastructure/cache"
	"mediflow/internal/infrastructure/database"
	"mediflow/internal/infrastructure/kvstore"
	"mediflow/internal/repository"
	"mediflow/internal/service"
	"mediflow/internal/usecase"
	"mediflow/pkg/jwt"
	"mediflow/pkg/keylock"
	"mediflow/pkg/validator"

	"github.com/sirupsen/logrus"
)

// App holds all dependencies for the application
type App struct {
	Config *config.Config
	Store  domainRepo.KeyValueStore
	Locks   *keylock.KeyLock
	Sweeper *service.SessionSweeper
	Server  *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	log := setupLogger(cfg.App.LogLevel)
	log.Info("Configuration loaded successfully")

	// Initialize the key-value store behind every collection
	store, err := newKeyValueStore(cfg, log)
	if err != nil {
		return nil, err
	}
	app.Store = store
	log.Infof("Storage driver %s ready", cfg.Storage.Driver)

	app.Locks = keylock.New(log)

	// Purge expired sessions in the background
	sessionRepo := repository.NewSessionRepository(store, log)
	app.Sweeper = service.NewSessionSweeper(log, sessionRepo, cfg.JWT.SweepInterval)
	app.Sweeper.Start()

	// Initialize all layers
	app.Server = initializeServer(cfg, log, store, app.Locks, sessionRepo)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return log
}

// newKeyValueStore connects the configured storage driver
func newKeyValueStore(cfg *config.Config, log *logrus.Logger) (domainRepo.KeyValueStore, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverRedis:
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		return kvstore.NewRedisStore(redisClient, cfg.Storage.KeyPrefix, log), nil

	case config.StorageDriverPostgres:
		db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		return kvstore.NewPostgresStore(db, log), nil

	case config.StorageDriverMemory:
		log.Warn("Using in-memory storage, records are lost on restart")
		return kvstore.NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, log *logrus.Logger, store domainRepo.KeyValueStore, locks *keylock.KeyLock, sessionRepo domainRepo.SessionRepository) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	patientStore := repository.NewPatientRecordStore(store, locks, log, repository.PatientStoreOptions{
		MaxRetries: cfg.Storage.MaxRetries,
		Location:   cfg.Clinic.Location,
	})
	profileRepo := repository.NewProfileRepository(store, locks, log)
	uploadRepo := repository.NewUploadRepository(store, locks, log)
	billRepo := repository.NewBillRepository(store, locks, log)
	auditLogRepo := repository.NewAuditLogRepository(store, locks, log)

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(log, patientStore, profileRepo, sessionRepo, auditService, jwtService)
	patientUsecase := usecase.NewPatientUsecase(log, patientStore, auditService)
	appointmentUsecase := usecase.NewAppointmentUsecase(log, patientStore, auditService, cfg.Clinic.Location)
	visitUsecase := usecase.NewVisitUsecase(log, patientStore, auditService)
	profileUsecase := usecase.NewProfileUsecase(log, profileRepo, auditService)
	uploadUsecase := usecase.NewUploadUsecase(log, uploadRepo, patientStore, auditService)
	billUsecase := usecase.NewBillUsecase(log, billRepo, patientStore, auditService, cfg.Clinic)
	auditLogUsecase := usecase.NewAuditLogUsecase(log, auditService)

	// Initialize handlers
	handlers := deliveryHttp.Handlers{
		Auth:        handler.NewAuthHandler(authUsecase, customValidator, jwtService),
		Patient:     handler.NewPatientHandler(patientUsecase, customValidator),
		Appointment: handler.NewAppointmentHandler(appointmentUsecase, customValidator),
		Visit:       handler.NewVisitHandler(visitUsecase, customValidator),
		Profile:     handler.NewProfileHandler(profileUsecase, customValidator),
		Upload:      handler.NewUploadHandler(uploadUsecase, customValidator),
		Bill:        handler.NewBillHandler(billUsecase, customValidator),
		AuditLog:    handler.NewAuditLogHandler(auditLogUsecase),
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, sessionRepo, log)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(handlers, authMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
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

// Close stops the background loops and closes the storage connection
func (app *App) Close() {
	if app.Sweeper != nil {
		app.Sweeper.Stop()
	}

	if app.Locks != nil {
		app.Locks.Stop()
	}

	if app.Store != nil {
		if err := app.Store.Close(); err != nil {
			logrus.Errorf("Failed to close storage: %v", err)
		}
	}
}
