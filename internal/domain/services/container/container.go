package container

import (
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/juniu86/rr-guanabara/internal/domain/report"
	"github.com/juniu86/rr-guanabara/internal/domain/repository"
	"github.com/juniu86/rr-guanabara/internal/domain/services"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/config"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/database"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/messaging"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/metrics"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/storage"
	"github.com/juniu86/rr-guanabara/pkg/logger"
)

// Dependencies are the infrastructure handles the services are built on.
// Redis may be nil; drafts are then unavailable.
type Dependencies struct {
	Pool    *database.ConnectionPool
	Config  *config.Config
	Redis   *redis.Client
	Store   storage.ObjectStore
	Events  messaging.Publisher
	Metrics *metrics.Collector
}

// ServiceContainer wires every service once and hands them to the controllers.
type ServiceContainer struct {
	pool    *database.ConnectionPool
	config  *config.Config
	redis   *redis.Client
	store   storage.ObjectStore
	events  messaging.Publisher
	metrics *metrics.Collector
	repo    *repository.Repository
	started time.Time

	authService        services.InterfaceAuthService
	stationService     services.InterfaceStationService
	maintenanceService services.InterfaceMaintenanceService
	checklistService   services.InterfaceChecklistService
	photoService       services.InterfacePhotoService
	reportService      services.InterfaceReportService
	dashboardService   services.InterfaceDashboardService
	draftService       services.InterfaceDraftService

	mu sync.RWMutex
}

// NewServiceContainer builds the container. Pool and Config are required.
func NewServiceContainer(deps Dependencies) (*ServiceContainer, error) {
	if deps.Pool == nil {
		panic("container: database pool is nil")
	}
	if deps.Config == nil {
		panic("container: config is nil")
	}
	if deps.Store == nil {
		deps.Store = storage.NewMemoryStore()
	}
	if deps.Events == nil {
		deps.Events = messaging.NoopPublisher{}
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewCollector()
	}

	c := &ServiceContainer{
		pool:    deps.Pool,
		config:  deps.Config,
		redis:   deps.Redis,
		store:   deps.Store,
		events:  deps.Events,
		metrics: deps.Metrics,
		repo:    repository.New(deps.Pool.GetDB()),
		started: time.Now(),
	}
	if err := c.initializeServices(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *ServiceContainer) initializeServices() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	confirmation, err := services.NewDeleteConfirmation(c.config)
	if err != nil {
		return err
	}

	c.authService = services.NewAuthService(c.repo, c.config)
	c.stationService = services.NewStationService(c.repo)
	c.maintenanceService = services.NewMaintenanceService(c.repo, c.store, c.events, c.metrics, confirmation)
	c.checklistService = services.NewChecklistService(c.repo)
	c.photoService = services.NewPhotoService(c.repo, c.config, c.store, c.metrics)
	c.reportService = services.NewReportService(c.repo, c.store, c.events, c.metrics,
		report.NewGenerator(c.config.ReportLocation()))
	c.dashboardService = services.NewDashboardService(c.repo)

	if c.redis != nil {
		c.draftService = services.NewDraftService(c.redis)
	} else {
		logger.Warning("redis not configured, draft autosave disabled")
		c.draftService = services.NewDraftService(nil)
	}
	return nil
}

// GetService returns the named service, or nil for an unknown name.
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.pool.GetDB()
	case "pool":
		return c.pool
	case "redis":
		return c.redis
	case "metrics":
		return c.metrics
	case "auth":
		return c.authService
	case "station":
		return c.stationService
	case "maintenance":
		return c.maintenanceService
	case "checklist":
		return c.checklistService
	case "photo":
		return c.photoService
	case "report":
		return c.reportService
	case "dashboard":
		return c.dashboardService
	case "draft":
		return c.draftService
	default:
		return nil
	}
}

// GetDB returns the database handle.
func (c *ServiceContainer) GetDB() *gorm.DB {
	return c.pool.GetDB()
}

// GetConfig returns the configuration.
func (c *ServiceContainer) GetConfig() *config.Config {
	return c.config
}

// GetMetrics returns the metrics collector.
func (c *ServiceContainer) GetMetrics() *metrics.Collector {
	return c.metrics
}

// GetPool returns the connection pool.
func (c *ServiceContainer) GetPool() *database.ConnectionPool {
	return c.pool
}

// GetRedis returns the Redis client, nil when not configured.
func (c *ServiceContainer) GetRedis() *redis.Client {
	return c.redis
}

// Uptime is how long the container has existed.
func (c *ServiceContainer) Uptime() time.Duration {
	return time.Since(c.started)
}

// Close releases the event publisher and the Redis client.
func (c *ServiceContainer) Close() {
	c.events.Close()
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			logger.Warning("close redis: %v", err)
		}
	}
}
