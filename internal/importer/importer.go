// Package importer seeds users and stations and loads the historical reports
// that predate the system.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/juniu86/rr-guanabara/internal/domain/catalog"
	"github.com/juniu86/rr-guanabara/internal/domain/models"
	"github.com/juniu86/rr-guanabara/internal/domain/repository"
	"github.com/juniu86/rr-guanabara/internal/domain/services"
	"github.com/juniu86/rr-guanabara/pkg/logger"
)

// UserSeed is an account created when its username is free.
type UserSeed struct {
	Username string
	Name     string
	Password string
	Role     models.Role
}

// Summary counts what a run changed.
type Summary struct {
	UsersCreated    int
	StationsCreated int
	Maintenances    int
	Items           int
	Skipped         int
}

type Importer struct {
	Repo     *repository.Repository
	Auth     services.InterfaceAuthService
	Location *time.Location
}

func New(repo *repository.Repository, auth services.InterfaceAuthService, loc *time.Location) *Importer {
	if loc == nil {
		loc = time.UTC
	}
	return &Importer{Repo: repo, Auth: auth, Location: loc}
}

// SeedUsers creates the missing accounts. Seeds without a password are skipped.
func (im *Importer) SeedUsers(ctx context.Context, seeds []UserSeed, summary *Summary) error {
	for _, seed := range seeds {
		if seed.Password == "" {
			continue
		}
		_, created, err := im.Auth.EnsureUser(ctx, seed.Username, seed.Name, seed.Password, seed.Role)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", seed.Username, err)
		}
		if created {
			summary.UsersCreated++
			logger.Info("user %s (%s) created", seed.Username, seed.Role)
		}
	}
	return nil
}

// ImportReports loads every report of doc. A report whose station already has a
// maintenance with the same preventive number is skipped, so runs are repeatable.
func (im *Importer) ImportReports(ctx context.Context, doc *catalog.LegacyReports, summary *Summary) error {
	technician, err := im.Repo.GetUserByUsername(ctx, doc.Technician)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("technician %q does not exist; seed it first", doc.Technician)
	}
	if err != nil {
		return err
	}

	for _, rep := range doc.Reports {
		station, created, err := im.Repo.FindOrCreateStation(ctx, rep.Station, rep.Address)
		if err != nil {
			return fmt.Errorf("station %s: %w", rep.Station, err)
		}
		if created {
			summary.StationsCreated++
		}

		exists, err := im.Repo.HasMaintenance(ctx, station.ID, rep.PreventiveNumber)
		if err != nil {
			return err
		}
		if exists {
			summary.Skipped++
			logger.Info("%s %s already imported, skipping", rep.Station, rep.PreventiveNumber)
			continue
		}

		n, err := im.importReport(ctx, station.ID, technician.ID, rep)
		if err != nil {
			return fmt.Errorf("report %s %s: %w", rep.Station, rep.PreventiveNumber, err)
		}
		summary.Maintenances++
		summary.Items += n
		logger.Info("%s %s imported with %d items", rep.Station, rep.PreventiveNumber, n)
	}
	return nil
}

func (im *Importer) importReport(ctx context.Context, stationID, technicianID uint, rep catalog.LegacyReport) (int, error) {
	date, err := rep.ParsedDate(im.Location)
	if err != nil {
		return 0, err
	}

	m := &models.Maintenance{
		StationID:           stationID,
		TechnicianID:        technicianID,
		PreventiveNumber:    rep.PreventiveNumber,
		Date:                date,
		Status:              models.MaintenanceDraft,
		Observations:        optional(rep.Observations),
		TechnicianSignature: optional(rep.TechnicianSignature),
		ClientSignature:     optional(rep.ClientSignature),
	}
	if m.TechnicianSignature != nil {
		m.TechnicianSignatureDate = &date
	}
	if m.ClientSignature != nil {
		m.ClientSignatureDate = &date
	}
	if m.Signed() {
		m.Status = models.MaintenanceCompleted
	}

	items := make([]models.ChecklistItem, 0, len(rep.Items))
	for _, it := range rep.Items {
		items = append(items, models.ChecklistItem{
			ItemNumber:    it.Number,
			EquipmentName: strings.TrimSpace(it.Equipment),
			Status:        catalog.MapLegacyStatus(it.Status),
			Observations:  optional(it.Observations),
		})
	}

	err = im.Repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.CreateMaintenance(ctx, m); err != nil {
			return err
		}
		for i := range items {
			items[i].MaintenanceID = m.ID
		}
		return tx.CreateChecklistItems(ctx, items)
	})
	return len(items), err
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
