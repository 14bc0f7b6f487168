package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/juniu86/rr-guanabara/internal/domain/models"
	"github.com/juniu86/rr-guanabara/internal/domain/repository"
	"github.com/juniu86/rr-guanabara/internal/domain/workflow"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/messaging"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/metrics"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/storage"
	"github.com/juniu86/rr-guanabara/pkg/logger"
)

// InterfaceMaintenanceService is the maintenance lifecycle.
type InterfaceMaintenanceService interface {
	Create(ctx context.Context, actor Actor, in CreateMaintenanceInput) (uint, error)
	ListAll(ctx context.Context) ([]models.Maintenance, error)
	ListByStation(ctx context.Context, stationID uint) ([]models.Maintenance, error)
	Get(ctx context.Context, id uint) (*models.Maintenance, error)
	UpdateStatus(ctx context.Context, actor Actor, id uint, status models.MaintenanceStatus) (*models.Maintenance, error)
	DeleteWithPassword(ctx context.Context, actor Actor, id uint, password string) error
}

// CreateMaintenanceInput is a new preventive visit.
type CreateMaintenanceInput struct {
	StationID           uint
	PreventiveNumber    string
	Date                time.Time
	Observations        *string
	TechnicianSignature *string
	ClientSignature     *string
	Status              models.MaintenanceStatus
}

type MaintenanceService struct {
	Repo         *repository.Repository
	Store        storage.ObjectStore
	Events       messaging.Publisher
	Metrics      *metrics.Collector
	Confirmation *DeleteConfirmation
	now          func() time.Time
}

func NewMaintenanceService(repo *repository.Repository, store storage.ObjectStore, events messaging.Publisher,
	collector *metrics.Collector, confirmation *DeleteConfirmation) InterfaceMaintenanceService {
	return &MaintenanceService{
		Repo:         repo,
		Store:        store,
		Events:       events,
		Metrics:      collector,
		Confirmation: confirmation,
		now:          time.Now,
	}
}

// 1 Create records a maintenance for the calling technician
func (s *MaintenanceService) Create(ctx context.Context, actor Actor, in CreateMaintenanceInput) (uint, error) {
	if !workflow.CanFillChecklist(actor.Role) {
		return 0, ErrForbidden
	}
	in.PreventiveNumber = strings.TrimSpace(in.PreventiveNumber)
	if in.PreventiveNumber == "" || len(in.PreventiveNumber) > 50 {
		return 0, invalid("preventiveNumber must have 1 to 50 characters")
	}
	if in.Date.IsZero() {
		return 0, invalid("date is required")
	}

	m := &models.Maintenance{
		StationID:           in.StationID,
		TechnicianID:        actor.UserID,
		PreventiveNumber:    in.PreventiveNumber,
		Date:                in.Date,
		Observations:        nonEmpty(in.Observations),
		TechnicianSignature: nonEmpty(in.TechnicianSignature),
		ClientSignature:     nonEmpty(in.ClientSignature),
	}

	status, err := workflow.InitialStatus(actor.Role, in.Status, m.Signed())
	if err != nil {
		return 0, err
	}
	m.Status = status

	now := s.now()
	if m.TechnicianSignature != nil {
		m.TechnicianSignatureDate = &now
	}
	if m.ClientSignature != nil {
		m.ClientSignatureDate = &now
	}

	if _, err := s.Repo.GetStation(ctx, in.StationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrStationNotFound
		}
		return 0, err
	}
	if err := s.Repo.CreateMaintenance(ctx, m); err != nil {
		return 0, fmt.Errorf("create maintenance: %w", err)
	}

	s.publish(ctx, messaging.EventCreated, m.ID, actor, map[string]interface{}{
		"stationId": m.StationID,
		"status":    m.Status,
	})
	return m.ID, nil
}

// 2 ListAll returns every maintenance
func (s *MaintenanceService) ListAll(ctx context.Context) ([]models.Maintenance, error) {
	return s.Repo.ListMaintenances(ctx)
}

// 3 ListByStation returns the maintenances of one station
func (s *MaintenanceService) ListByStation(ctx context.Context, stationID uint) ([]models.Maintenance, error) {
	return s.Repo.ListMaintenancesByStation(ctx, stationID)
}

// 4 Get returns the maintenance with its checklist and photos
func (s *MaintenanceService) Get(ctx context.Context, id uint) (*models.Maintenance, error) {
	m, err := s.Repo.GetMaintenanceAggregate(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrMaintenanceNotFound
	}
	return m, err
}

// 5 UpdateStatus applies a transition from the status table
func (s *MaintenanceService) UpdateStatus(ctx context.Context, actor Actor, id uint, status models.MaintenanceStatus) (*models.Maintenance, error) {
	if !workflow.CanUpdateStatus(actor.Role) {
		return nil, ErrForbidden
	}

	m, err := s.Repo.GetMaintenance(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMaintenanceNotFound
		}
		return nil, err
	}

	from := m.Status
	if err := workflow.CheckTransition(actor.Role, from, status); err != nil {
		return nil, err
	}
	if from == status {
		return m, nil
	}

	if err := s.Repo.UpdateMaintenanceStatus(ctx, id, status); err != nil {
		return nil, err
	}
	m.Status = status

	s.Metrics.StatusChanged(string(from), string(status))
	s.publish(ctx, messaging.EventStatusChanged, id, actor, map[string]interface{}{
		"from": from,
		"to":   status,
	})
	return m, nil
}

// 6 DeleteWithPassword removes the maintenance, its checklist and photos
func (s *MaintenanceService) DeleteWithPassword(ctx context.Context, actor Actor, id uint, password string) error {
	if !s.Confirmation.Verify(password) {
		return ErrWrongPassword
	}

	m, err := s.Repo.GetMaintenance(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMaintenanceNotFound
		}
		return err
	}
	if s.Confirmation.RequireOwnership {
		if err := workflow.CanDelete(actor.Role, actor.UserID, m); err != nil {
			return err
		}
	}

	keys, err := s.Repo.DeleteMaintenanceCascade(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMaintenanceNotFound
		}
		return fmt.Errorf("delete maintenance %d: %w", id, err)
	}

	// Rows are gone; blob cleanup failures only leave unreachable objects behind.
	for _, key := range keys {
		if err := s.Store.Remove(ctx, key); err != nil {
			logger.WithFields(logger.Fields{"maintenance_id": id, "key": key}).Warnf("failed to remove photo object: %v", err)
		}
	}

	s.Metrics.MaintenanceDeleted()
	s.publish(ctx, messaging.EventDeleted, id, actor, map[string]interface{}{"photos": len(keys)})
	logger.WithFields(logger.Fields{"maintenance_id": id, "user_id": actor.UserID, "photos": len(keys)}).Info("maintenance deleted")
	return nil
}

func (s *MaintenanceService) publish(ctx context.Context, eventType string, id uint, actor Actor, data map[string]interface{}) {
	publishEvent(ctx, s.Events, messaging.Event{
		Type:          eventType,
		MaintenanceID: id,
		ActorID:       actor.UserID,
		OccurredAt:    s.now().UTC(),
		Data:          data,
	})
}

// publishEvent never fails the caller; delivery problems are logged.
func publishEvent(ctx context.Context, p messaging.Publisher, event messaging.Event) {
	if err := p.Publish(ctx, event); err != nil {
		logger.WithFields(logger.Fields{"event": event.Type, "maintenance_id": event.MaintenanceID}).Warnf("publish event: %v", err)
	}
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
