package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/juniu86/rr-guanabara/internal/app/routes"
	"github.com/juniu86/rr-guanabara/internal/domain/models"
	"github.com/juniu86/rr-guanabara/internal/domain/repository"
	"github.com/juniu86/rr-guanabara/internal/domain/services"
	"github.com/juniu86/rr-guanabara/internal/domain/services/container"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/cache"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/config"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/database"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/messaging"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/metrics"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/storage"
	"github.com/juniu86/rr-guanabara/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("no .env file loaded: %v\n", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.SetupLogger(logger.Options{Dir: cfg.LogDir, Level: cfg.LogLevel}); err != nil {
		fmt.Printf("failed to set up logger: %v\n", err)
		os.Exit(1)
	}

	pool, err := database.NewConnectionPool(cfg)
	if err != nil {
		logger.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	if err := pool.Migrate(cfg.DBMigrationMode); err != nil {
		logger.Error("migration failed: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := ensureAdminExists(ctx, pool, cfg); err != nil {
		logger.Error("failed to create default admin: %v", err)
		os.Exit(1)
	}

	redisClient := cache.NewRedisClient(cfg)
	if err := cache.Ping(ctx, redisClient, 3*time.Second); err != nil {
		logger.Warning("redis at %s not reachable, drafts will fail until it is: %v", cfg.GetRedisAddr(), err)
	}

	serviceContainer, err := container.NewServiceContainer(container.Dependencies{
		Pool:    pool,
		Config:  cfg,
		Redis:   redisClient,
		Store:   newObjectStore(ctx, cfg),
		Events:  newPublisher(cfg),
		Metrics: metrics.NewCollector(),
	})
	if err != nil {
		logger.Error("failed to build services: %v", err)
		os.Exit(1)
	}

	printSystemInfo(pool)

	server := &http.Server{
		Addr:              "0.0.0.0:" + cfg.ServerPort,
		Handler:           routes.SetupRouter(serviceContainer),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error: %v", err)
		}
	}()

	logger.Info("server listening on http://0.0.0.0:%s", cfg.ServerPort)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error: %v", err)
		os.Exit(1)
	}

	serviceContainer.Close()
	if err := pool.Close(); err != nil {
		logger.Warning("close database: %v", err)
	}
	logger.Info("server stopped")
}

// newObjectStore connects to the S3-compatible store, or keeps objects in memory when none is configured.
func newObjectStore(ctx context.Context, cfg *config.Config) storage.ObjectStore {
	if !cfg.StorageEnabled() {
		logger.Warning("STORAGE_ENDPOINT not set, photos and reports are kept in memory")
		return storage.NewMemoryStore()
	}
	store, err := storage.NewMinioStore(cfg)
	if err != nil {
		logger.Error("failed to create object store client: %v", err)
		os.Exit(1)
	}
	if err := store.EnsureBucket(ctx); err != nil {
		logger.Warning("bucket %s not ready: %v", cfg.StorageBucket, err)
	}
	return store
}

// newPublisher connects to the MQTT broker when one is configured.
func newPublisher(cfg *config.Config) messaging.Publisher {
	if cfg.MQTTBrokerURL == "" {
		return messaging.NoopPublisher{}
	}
	publisher, err := messaging.NewMQTTPublisher(cfg)
	if err != nil {
		logger.Warning("MQTT broker %s not reachable, events disabled: %v", cfg.MQTTBrokerURL, err)
		return messaging.NoopPublisher{}
	}
	return publisher
}

// ensureAdminExists creates the admin account on an empty database.
func ensureAdminExists(ctx context.Context, pool *database.ConnectionPool, cfg *config.Config) error {
	repo := repository.New(pool.GetDB())
	count, err := repo.CountUsersByRole(ctx, models.RoleAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if cfg.DefaultAdminPassword == "" {
		logger.Warning("no admin account and DEFAULT_ADMIN_PASSWORD is empty; run the importer to create users")
		return nil
	}

	auth := services.NewAuthService(repo, cfg)
	if _, _, err := auth.EnsureUser(ctx, "admin", "Administrador", cfg.DefaultAdminPassword, models.RoleAdmin); err != nil {
		return err
	}
	logger.Info("default admin account created")
	return nil
}

func printSystemInfo(pool *database.ConnectionPool) {
	if stats, err := pool.Stats(); err == nil {
		logger.Info("database pool: %+v", stats)
	}
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	logger.Info("cpus=%d goroutines=%d alloc=%dMiB sys=%dMiB",
		runtime.NumCPU(), runtime.NumGoroutine(), m.Alloc/1024/1024, m.Sys/1024/1024)
}
