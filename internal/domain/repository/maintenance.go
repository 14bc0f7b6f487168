package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/juniu86/rr-guanabara/internal/domain/models"
)

func (r *Repository) CreateMaintenance(ctx context.Context, m *models.Maintenance) error {
	return r.conn(ctx).Create(m).Error
}

// ListMaintenances returns every maintenance, most recent visit first.
func (r *Repository) ListMaintenances(ctx context.Context) ([]models.Maintenance, error) {
	var list []models.Maintenance
	err := r.conn(ctx).Order("date DESC, id DESC").Find(&list).Error
	return list, err
}

func (r *Repository) ListMaintenancesByStation(ctx context.Context, stationID uint) ([]models.Maintenance, error) {
	var list []models.Maintenance
	err := r.conn(ctx).Where("station_id = ?", stationID).Order("date DESC, id DESC").Find(&list).Error
	return list, err
}

// HasMaintenance reports whether the station already has a maintenance with this preventive number.
func (r *Repository) HasMaintenance(ctx context.Context, stationID uint, preventiveNumber string) (bool, error) {
	var count int64
	err := r.conn(ctx).Model(&models.Maintenance{}).
		Where("station_id = ? AND preventive_number = ?", stationID, preventiveNumber).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) GetMaintenance(ctx context.Context, id uint) (*models.Maintenance, error) {
	var m models.Maintenance
	if err := r.conn(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

// GetMaintenanceAggregate loads the maintenance with its items and their photos.
// Items and photos come back in insertion order; photos are fetched with one IN query.
func (r *Repository) GetMaintenanceAggregate(ctx context.Context, id uint) (*models.Maintenance, error) {
	byID := func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }

	var m models.Maintenance
	err := r.conn(ctx).
		Preload("ChecklistItems", byID).
		Preload("ChecklistItems.Photos", byID).
		First(&m, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	if m.ChecklistItems == nil {
		m.ChecklistItems = []models.ChecklistItem{}
	}
	return &m, nil
}

func (r *Repository) UpdateMaintenanceStatus(ctx context.Context, id uint, status models.MaintenanceStatus) error {
	res := r.conn(ctx).Model(&models.Maintenance{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMaintenanceCascade removes the photos of every item, then the items,
// then the maintenance, in one transaction. It returns the object keys of the
// removed photos so the caller can clean up the blob store.
func (r *Repository) DeleteMaintenanceCascade(ctx context.Context, id uint) ([]string, error) {
	var keys []string
	err := r.Transaction(ctx, func(tx *Repository) error {
		db := tx.conn(ctx)

		var itemIDs []uint
		if err := db.Model(&models.ChecklistItem{}).Where("maintenance_id = ?", id).Pluck("id", &itemIDs).Error; err != nil {
			return err
		}

		if len(itemIDs) > 0 {
			if err := db.Model(&models.Photo{}).Where("checklist_item_id IN ?", itemIDs).Pluck("file_key", &keys).Error; err != nil {
				return err
			}
			if err := db.Where("checklist_item_id IN ?", itemIDs).Delete(&models.Photo{}).Error; err != nil {
				return err
			}
		}

		if err := db.Where("maintenance_id = ?", id).Delete(&models.ChecklistItem{}).Error; err != nil {
			return err
		}

		res := db.Delete(&models.Maintenance{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}
