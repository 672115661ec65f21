package main

import (
	"alcyxob/runrep/internal/api"
	"alcyxob/runrep/internal/config"
	"alcyxob/runrep/internal/domain"
	"alcyxob/runrep/internal/persist"
	"alcyxob/runrep/internal/repository"
	"alcyxob/runrep/internal/repository/file"
	"alcyxob/runrep/internal/repository/memory"
	"alcyxob/runrep/internal/repository/mongo"
	"alcyxob/runrep/internal/repository/sqlite"
	"alcyxob/runrep/internal/service"
	"alcyxob/runrep/internal/storage"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// @title RunRep API
// @version 1.0
// @description Weekly hybrid training plan with workout logging and progression tracking.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting RunRep Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	log.Printf("Configuration loaded (storage: %s, timezone: %s).", cfg.Storage.Driver, loc)

	// --- Storage Backend ---
	backend, closeBackend, err := openBackend(cfg)
	if err != nil {
		log.Fatalf("FATAL: Could not open %s storage: %v", cfg.Storage.Driver, err)
	}
	defer closeBackend()

	// --- Persisted Stores ---
	bus := persist.NewBus()
	defaults := domain.DefaultAppState(service.SystemClock())
	stateStore := service.NewAppStateStore(backend, bus, defaults)
	defer stateStore.Close()
	themeStore := service.NewThemeStore(backend, bus)
	defer themeStore.Close()

	if cfg.Storage.AsyncLoad {
		// State routes answer 503 until this finishes.
		stateStore.LoadAsync(context.Background())
		themeStore.LoadAsync(context.Background())
	} else {
		loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
		stateStore.Load(loadCtx)
		themeStore.Load(loadCtx)
		cancelLoad()
	}

	watchCtx, stopWatching := context.WithCancel(context.Background())
	defer stopWatching()
	if cfg.Storage.Watch {
		for key, watch := range map[string]func(context.Context) error{
			stateStore.Key(): stateStore.Watch,
			themeStore.Key(): themeStore.Watch,
		} {
			if err := watch(watchCtx); err != nil {
				if errors.Is(err, persist.ErrWatchUnsupported) {
					log.Printf("INFO: %s storage does not report external changes; not watching '%s'", cfg.Storage.Driver, key)
				} else {
					log.Printf("WARN: Could not watch '%s': %v", key, err)
				}
			}
		}
	}

	// --- Initialize File Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.Enabled() {
		s3Ctx, cancelS3 := context.WithTimeout(context.Background(), 30*time.Second)
		fileStorage, err = storage.NewS3Storage(s3Ctx, cfg.S3)
		cancelS3()
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
		}
	} else {
		log.Println("INFO: s3.bucket_name not set; export sharing disabled.")
	}

	// --- Initialize Services ---
	clock := service.SystemClock
	authService := service.NewAuthService(cfg.Auth.PasscodeHash, cfg.JWT.Secret, cfg.JWT.Expiration)
	if !authService.Enabled() {
		log.Println("WARN: auth.passcode_hash not set; the API is open.")
	}
	appStateService := service.NewAppStateService(stateStore, defaults, clock, loc)
	progressService := service.NewProgressService(appStateService, clock, loc)
	themeService := service.NewThemeService(themeStore)
	exportService := service.NewExportService(appStateService, fileStorage, cfg.S3.LinkExpiry, clock, loc)

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware
	api.SetupRoutes(router, api.Services{
		Auth:     authService,
		AppState: appStateService,
		Progress: progressService,
		Theme:    themeService,
		Export:   exportService,
		Clock:    clock,
		Location: loc,
	})

	// --- Start HTTP Server ---
	// No WriteTimeout: /events responses stay open.
	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	stopWatching()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("ERROR: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}

// openBackend opens the configured key-value storage. The returned func
// releases it.
func openBackend(cfg config.Config) (repository.KeyValueRepository, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		log.Println("WARN: Using in-memory storage; data is lost on exit.")
		return memory.NewKeyValueRepository(), func() {}, nil

	case config.DriverFile:
		repo, err := file.NewKeyValueRepository(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("INFO: Storing data in directory %s", cfg.Storage.Path)
		return repo, func() {}, nil

	case config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create database directory: %w", err)
		}
		repo, err := sqlite.Open(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("INFO: Storing data in SQLite database %s", cfg.Storage.Path)
		return repo, func() {
			if err := repo.Close(); err != nil {
				log.Printf("ERROR: Failed to close SQLite database: %v", err)
			}
		}, nil

	case config.DriverMongo:
		dbClient, err := mongo.ConnectDB(cfg.Database.URI)
		if err != nil {
			return nil, nil, err
		}
		appDB := dbClient.Database(cfg.Database.Name)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			mongo.EnsureKeyValueIndexes(ctx, mongo.KeyValueCollection(appDB))
		}()
		log.Println("Database connection established.")
		return mongo.NewMongoKeyValueRepository(appDB), func() {
			log.Println("Disconnecting MongoDB...")
			if err := mongo.DisconnectDB(dbClient); err != nil {
				log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
			}
		}, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
