package services

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/juniu86/rr-guanabara/internal/domain/models"
	"github.com/juniu86/rr-guanabara/internal/domain/report"
	"github.com/juniu86/rr-guanabara/internal/domain/repository"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/config"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/messaging"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/metrics"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/storage"
	"github.com/juniu86/rr-guanabara/internal/test/testdb"
)

const testDeletePassword = "apagar123"

var fixedNow = time.Date(2026, 1, 27, 15, 0, 0, 0, time.UTC)

type env struct {
	db      *gorm.DB
	repo    *repository.Repository
	fx      *testdb.Fixture
	store   *storage.MemoryStore
	events  *messaging.Recorder
	metrics *metrics.Collector
	cfg     *config.Config
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testdb.New(t)
	return &env{
		db:      db,
		repo:    repository.New(db),
		fx:      testdb.Seed(t, db),
		store:   storage.NewMemoryStore(),
		events:  &messaging.Recorder{},
		metrics: metrics.NewCollector(),
		cfg: &config.Config{
			DeletePassword: testDeletePassword,
			MaxPhotoBytes:  1024,
			JWTSecretKey:   "test-secret",
			JWTExpiry:      time.Hour,
		},
	}
}

func (e *env) maintenanceService(t *testing.T) *MaintenanceService {
	t.Helper()
	confirmation, err := NewDeleteConfirmation(e.cfg)
	require.NoError(t, err)
	s := NewMaintenanceService(e.repo, e.store, e.events, e.metrics, confirmation).(*MaintenanceService)
	s.now = func() time.Time { return fixedNow }
	return s
}

func (e *env) reportService() *ReportService {
	s := NewReportService(e.repo, e.store, e.events, e.metrics, report.NewGenerator(time.UTC)).(*ReportService)
	s.now = func() time.Time { return fixedNow }
	return s
}

func actorOf(u models.User) Actor {
	return Actor{UserID: u.ID, Role: u.Role, Name: u.Name}
}

func strPtr(s string) *string { return &s }

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	return v, ok && v != ""
}

func copyWithSecret(e *env, secret string) *config.Config {
	cfg := *e.cfg
	cfg.JWTSecretKey = secret
	return &cfg
}
