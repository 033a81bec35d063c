package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"teamboard-api/internal/logger"
	"teamboard-api/internal/models"
	"teamboard-api/internal/user"
	"teamboard-api/pkg/config"
	"teamboard-api/pkg/db"
	"teamboard-api/pkg/redis"
	"teamboard-api/pkg/s3"
	"teamboard-api/router"

	"github.com/getsentry/sentry-go"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	appConfig := config.LoadConfig()
	if err := appConfig.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLogger, err := logger.NewFromOptions(logger.Options{
		Level:       appConfig.LogLevel,
		SentryDSN:   appConfig.SentryDSN,
		Environment: appConfig.Environment,
		Release:     appConfig.AppVersion,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if err := run(appConfig, appLogger); err != nil {
		appLogger.WithError(err).Error("Server exited with error")
		sentry.Flush(2 * time.Second)
		os.Exit(1)
	}
	sentry.Flush(2 * time.Second)
}

func run(appConfig *config.AppConfig, appLogger *logger.Logger) error {
	// Cancelled on SIGINT or SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := appLogger.Logrus()

	log.Info("Initializing database connection...")
	database, err := db.Connect(ctx, appConfig.Database, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if err := db.Close(database); err != nil {
			log.WithError(err).Warn("Error closing database connection")
		}
	}()

	if appConfig.Database.MigrateOnBoot {
		if err := migrate(database, appConfig, appLogger); err != nil {
			return err
		}
	}

	log.Info("Initializing Redis connection...")
	redisClient, err := redis.Connect(ctx, appConfig.Redis, log)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.WithError(err).Warn("Error closing Redis connection")
		}
	}()

	var storage *s3.Client
	if appConfig.S3 != nil {
		storage, err = s3.NewClient(appConfig.S3)
		if err != nil {
			return fmt.Errorf("init s3: %w", err)
		}
		log.WithField("bucket", appConfig.S3.BucketName).Info("S3 client initialized")
	} else {
		log.Warn("S3 is not configured, avatar uploads are disabled")
	}

	app, err := router.SetupRouter(ctx, router.Dependencies{
		Config: appConfig,
		Logger: appLogger,
		DB:     database,
		Redis:  redisClient,
		S3:     storage,
	})
	if err != nil {
		return fmt.Errorf("setup router: %w", err)
	}

	if err := bootstrapAdmin(ctx, app.Users, appLogger); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              appConfig.Host + ":" + appConfig.Port,
		Handler:           app.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", srv.Addr).Info("Server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownTimeout := time.Duration(appConfig.ShutdownTimeout) * time.Second
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// hijacked websocket connections are not tracked by Shutdown
		app.Hub.Shutdown()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	err = g.Wait()
	log.Info("Shutdown complete")
	return err
}

// migrate auto-migrates models in development and applies the SQL files elsewhere
func migrate(database *gorm.DB, appConfig *config.AppConfig, appLogger *logger.Logger) error {
	appLogger.Info("Running database migrations...")
	migrationCfg := db.NewMigrationConfig(appConfig.Database.MigrationsPath)

	var err error
	if appConfig.IsDevelopment() {
		migrationCfg.AutoMigrateModels = true
		err = db.RunMigrations(database, migrationCfg, appLogger.Logrus(), &models.User{})
	} else {
		err = db.RunMigrations(database, migrationCfg, appLogger.Logrus())
	}
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// bootstrapAdmin creates the first admin from ADMIN_EMAIL and ADMIN_PASSWORD when both are set
func bootstrapAdmin(ctx context.Context, users *user.Service, appLogger *logger.Logger) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	_, err := users.GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return fmt.Errorf("lookup admin: %w", err)
	}

	admin, err := users.CreateUser(ctx, email, password, "Administrator", models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	appLogger.WithField("userID", admin.ID).Info("Bootstrap admin created")
	return nil
}
