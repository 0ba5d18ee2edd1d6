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

	"github.com/swiftride/backend/internal/api/handlers"
	"github.com/swiftride/backend/internal/api/routes"
	"github.com/swiftride/backend/internal/config"
	"github.com/swiftride/backend/internal/geo"
	"github.com/swiftride/backend/internal/notify"
	"github.com/swiftride/backend/internal/repository"
	"github.com/swiftride/backend/internal/service/auth"
	"github.com/swiftride/backend/internal/service/fare"
	"github.com/swiftride/backend/internal/service/lifecycle"
	"github.com/swiftride/backend/internal/service/routing"
	"github.com/swiftride/backend/pkg/cache"
	"github.com/swiftride/backend/pkg/database"
	"github.com/swiftride/backend/pkg/logger"
	"github.com/swiftride/backend/pkg/mailer"
	"github.com/swiftride/backend/pkg/monitoring"
	"github.com/swiftride/backend/pkg/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting SwiftRide backend",
		logger.String("env", cfg.Server.Env),
		logger.String("port", cfg.Server.Port),
	)

	// Initialize New Relic
	nrApp, err := monitoring.New(monitoring.Config{
		LicenseKey: cfg.NewRelic.LicenseKey,
		AppName:    cfg.NewRelic.AppName,
		Enabled:    cfg.NewRelic.Enabled,
	})
	if err != nil {
		appLogger.Warn("Failed to initialize New Relic", logger.Err(err))
		nrApp, _ = monitoring.New(monitoring.Config{Enabled: false})
	} else if nrApp.IsEnabled() {
		appLogger.Info("New Relic APM initialized",
			logger.String("app_name", cfg.NewRelic.AppName))
	} else {
		appLogger.Info("New Relic APM disabled")
	}
	defer nrApp.Shutdown(10 * time.Second)

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cache.Config{
		Host:        cfg.Redis.Host,
		Port:        cfg.Redis.Port,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		MaxRetries:  cfg.Redis.MaxRetries,
		PoolSize:    cfg.Redis.PoolSize,
		MinIdleConn: cfg.Redis.MinIdleConn,
		DialTimeout: cfg.Redis.DialTimeout,
		ReadTimeout: cfg.Redis.ReadTimeout,
	})
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", logger.Err(err))
	}
	defer cache.Close(redisClient)

	appLogger.Info("Connected to Redis")

	// Initialize PostgreSQL
	postgresDB, err := database.NewPostgresDB(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
		MaxConns: cfg.Database.MaxConns,
		MaxIdle:  cfg.Database.MaxIdle,
	})
	if err != nil {
		appLogger.Fatal("Failed to connect to PostgreSQL", logger.Err(err))
	}
	defer postgresDB.Close()

	if err := database.Migrate(postgresDB); err != nil {
		appLogger.Fatal("Failed to apply database schema", logger.Err(err))
	}

	appLogger.Info("Connected to PostgreSQL")

	// Initialize WebSocket hub
	wsHub := websocket.NewHub(appLogger)
	go wsHub.Run()

	// Repositories
	userRepo := repository.NewUserRepository(postgresDB)
	driverRepo := repository.NewDriverRepository(postgresDB)
	rideStore := repository.NewRideStore(postgresDB)

	// Services
	smtpMailer, err := mailer.NewSMTPMailer(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	if err != nil {
		appLogger.Fatal("Failed to configure mailer", logger.Err(err))
	}

	authService := auth.NewService(
		userRepo,
		smtpMailer,
		auth.NewRedisLimiter(redisClient, cfg.OTP.ResendCooldown),
		auth.Config{JWTSecret: cfg.JWT.Secret, JWTExpiry: cfg.JWT.Expiry},
		appLogger,
	)

	routeProvider := routing.NewGoogleClient(routing.Config{
		APIKey:        cfg.Maps.APIKey,
		DirectionsURL: cfg.Maps.DirectionsURL,
		Timeout:       cfg.Maps.Timeout,
	}, appLogger)

	fareEstimator := fare.NewEstimator(routeProvider, cfg.FareRates(), appLogger)

	lifecycleService := lifecycle.NewService(rideStore, notify.NewWSNotifier(wsHub), appLogger)

	geoIndex := geo.NewIndex(redisClient)

	// Initialize handlers with dependencies
	h := &handlers.Handlers{
		Auth:                authService,
		Routing:             routeProvider,
		Fare:                fareEstimator,
		Lifecycle:           lifecycleService,
		Drivers:             driverRepo,
		Geo:                 geoIndex,
		Hub:                 wsHub,
		Monitoring:          nrApp,
		Logger:              appLogger,
		DefaultRadiusMeters: cfg.Geo.DefaultRadiusMeters,
		MaxNearbyDrivers:    cfg.Geo.MaxNearbyDrivers,
	}

	// Initialize Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	routes.SetupRoutes(router, h, nrApp.Application)

	appLogger.Info("Routes configured")

	// Create HTTP server
	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// Start server in a goroutine
	go func() {
		appLogger.Info("Server starting", logger.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", logger.Err(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", logger.Err(err))
	}

	appLogger.Info("Server stopped gracefully")
}
