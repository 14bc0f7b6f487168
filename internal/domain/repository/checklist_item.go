package repository

import (
	"context"

	"github.com/juniu86/rr-guanabara/internal/domain/models"
)

func (r *Repository) CreateChecklistItem(ctx context.Context, item *models.ChecklistItem) error {
	return r.conn(ctx).Create(item).Error
}

// CreateChecklistItems inserts items in one transaction; either all rows land or none.
func (r *Repository) CreateChecklistItems(ctx context.Context, items []models.ChecklistItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.Transaction(ctx, func(tx *Repository) error {
		return tx.conn(ctx).CreateInBatches(&items, 100).Error
	})
}

func (r *Repository) GetChecklistItem(ctx context.Context, id uint) (*models.ChecklistItem, error) {
	var item models.ChecklistItem
	if err := r.conn(ctx).First(&item, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

// ListChecklistItems returns the items of a maintenance in insertion order.
func (r *Repository) ListChecklistItems(ctx context.Context, maintenanceID uint) ([]models.ChecklistItem, error) {
	var items []models.ChecklistItem
	err := r.conn(ctx).Where("maintenance_id = ?", maintenanceID).Order("id ASC").Find(&items).Error
	return items, err
}

// ListChecklistItemsForStation returns the items of every maintenance, or only of
// one station's maintenances when stationID is non-nil, grouped by maintenance.
func (r *Repository) ListChecklistItemsForStation(ctx context.Context, stationID *uint) ([]models.ChecklistItem, error) {
	var items []models.ChecklistItem
	q := r.conn(ctx).Model(&models.ChecklistItem{})
	if stationID != nil {
		q = q.Joins("JOIN maintenances ON maintenances.id = checklist_items.maintenance_id").
			Where("maintenances.station_id = ?", *stationID)
	}
	err := q.Order("checklist_items.maintenance_id ASC, checklist_items.id ASC").Find(&items).Error
	return items, err
}
