// Package testdb opens migrated in-memory sqlite databases for tests.
package testdb

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/juniu86/rr-guanabara/internal/domain/models"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/database"
)

// New returns a fresh, migrated database private to t.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig("silent"))
	require.NoError(t, err)

	// Shared-cache sqlite reports "table is locked" under concurrent writers.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	pool := database.NewPoolFromDB(db)
	require.NoError(t, pool.Migrate("auto"))
	t.Cleanup(func() { _ = pool.Close() })
	return db
}

// Fixture holds the rows most tests start from.
type Fixture struct {
	Admin     models.User
	RRAdmin   models.User
	Tecnico   models.User
	Guanabara models.User
	Station   models.Station
}

// Seed inserts one user per role and one station.
func Seed(t testing.TB, db *gorm.DB) *Fixture {
	t.Helper()
	f := &Fixture{
		Admin:     models.User{Username: "admin", Name: "Administrador", Role: models.RoleAdmin, PasswordHash: "x"},
		RRAdmin:   models.User{Username: "gestor", Name: "Gestor RR", Role: models.RoleRRAdmin, PasswordHash: "x"},
		Tecnico:   models.User{Username: "tecnico", Name: "João Técnico", Role: models.RoleTecnico, PasswordHash: "x"},
		Guanabara: models.User{Username: "guanabara", Name: "Cliente", Role: models.RoleGuanabara, PasswordHash: "x"},
		Station:   models.Station{Name: "Padre Miguel", Address: "Av. Brasil, 1000 - Rio de Janeiro"},
	}
	for _, u := range []*models.User{&f.Admin, &f.RRAdmin, &f.Tecnico, &f.Guanabara} {
		require.NoError(t, db.Create(u).Error)
	}
	require.NoError(t, db.Create(&f.Station).Error)
	return f
}

// Maintenance inserts a draft maintenance with n items and photosPerItem photos on each item.
func Maintenance(t testing.TB, db *gorm.DB, stationID, technicianID uint, n, photosPerItem int) *models.Maintenance {
	t.Helper()
	m := &models.Maintenance{
		StationID:        stationID,
		TechnicianID:     technicianID,
		PreventiveNumber: "PM-001",
		Date:             time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
		Status:           models.MaintenanceDraft,
	}
	require.NoError(t, db.Create(m).Error)

	for i := 1; i <= n; i++ {
		item := models.ChecklistItem{
			MaintenanceID: m.ID,
			ItemNumber:    i,
			EquipmentName: fmt.Sprintf("Equipamento %d", i),
			Status:        models.ItemConfere,
		}
		require.NoError(t, db.Create(&item).Error)
		for j := 0; j < photosPerItem; j++ {
			photo := models.Photo{
				ChecklistItemID: item.ID,
				FileKey:         fmt.Sprintf("maintenance-photos/%d/%d.jpg", item.ID, j),
				URL:             fmt.Sprintf("https://files.example/%d/%d.jpg", item.ID, j),
			}
			require.NoError(t, db.Create(&photo).Error)
		}
	}
	return m
}
