package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/juniu86/rr-guanabara/internal/domain/models"
	"github.com/juniu86/rr-guanabara/internal/domain/repository"
	"github.com/juniu86/rr-guanabara/internal/domain/workflow"
)

// InterfaceChecklistService writes and lists checklist items.
type InterfaceChecklistService interface {
	Create(ctx context.Context, actor Actor, in ChecklistItemInput) (uint, error)
	CreateBatch(ctx context.Context, actor Actor, maintenanceID uint, in []ChecklistItemInput) ([]uint, error)
	ListByMaintenance(ctx context.Context, maintenanceID uint) ([]models.ChecklistItem, error)
}

// ChecklistItemInput is one filled checklist line.
type ChecklistItemInput struct {
	MaintenanceID    uint
	ItemNumber       int
	EquipmentName    string
	Status           models.ItemStatus
	Value            *string
	CorrectiveAction *string
	Observations     *string
}

type ChecklistService struct {
	Repo *repository.Repository
}

func NewChecklistService(repo *repository.Repository) InterfaceChecklistService {
	return &ChecklistService{Repo: repo}
}

// 1 Create adds one item to an existing maintenance
func (s *ChecklistService) Create(ctx context.Context, actor Actor, in ChecklistItemInput) (uint, error) {
	if !workflow.CanFillChecklist(actor.Role) {
		return 0, ErrForbidden
	}
	item, err := in.toModel(in.MaintenanceID)
	if err != nil {
		return 0, err
	}
	if err := s.requireMaintenance(ctx, in.MaintenanceID); err != nil {
		return 0, err
	}
	if err := s.Repo.CreateChecklistItem(ctx, item); err != nil {
		return 0, fmt.Errorf("create checklist item: %w", err)
	}
	return item.ID, nil
}

// 2 CreateBatch adds a whole checklist in one transaction
func (s *ChecklistService) CreateBatch(ctx context.Context, actor Actor, maintenanceID uint, in []ChecklistItemInput) ([]uint, error) {
	if !workflow.CanFillChecklist(actor.Role) {
		return nil, ErrForbidden
	}
	if len(in) == 0 {
		return nil, invalid("items must not be empty")
	}

	items := make([]models.ChecklistItem, 0, len(in))
	for i, input := range in {
		item, err := input.toModel(maintenanceID)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		items = append(items, *item)
	}
	if err := s.requireMaintenance(ctx, maintenanceID); err != nil {
		return nil, err
	}
	if err := s.Repo.CreateChecklistItems(ctx, items); err != nil {
		return nil, fmt.Errorf("create checklist items: %w", err)
	}

	ids := make([]uint, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	return ids, nil
}

// 3 ListByMaintenance returns the items in insertion order
func (s *ChecklistService) ListByMaintenance(ctx context.Context, maintenanceID uint) ([]models.ChecklistItem, error) {
	return s.Repo.ListChecklistItems(ctx, maintenanceID)
}

func (s *ChecklistService) requireMaintenance(ctx context.Context, id uint) error {
	if _, err := s.Repo.GetMaintenance(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMaintenanceNotFound
		}
		return err
	}
	return nil
}

func (in ChecklistItemInput) toModel(maintenanceID uint) (*models.ChecklistItem, error) {
	name := strings.TrimSpace(in.EquipmentName)
	if name == "" || len(name) > 255 {
		return nil, invalid("equipmentName must have 1 to 255 characters")
	}
	if !in.Status.Valid() {
		return nil, invalid("unknown status %q", in.Status)
	}
	value := nonEmpty(in.Value)
	if value != nil && len(*value) > 100 {
		return nil, invalid("value is longer than 100 characters")
	}
	return &models.ChecklistItem{
		MaintenanceID:    maintenanceID,
		ItemNumber:       in.ItemNumber,
		EquipmentName:    name,
		Status:           in.Status,
		Value:            value,
		CorrectiveAction: nonEmpty(in.CorrectiveAction),
		Observations:     nonEmpty(in.Observations),
	}, nil
}
