package repository

import (
	"context"

	"github.com/juniu86/rr-guanabara/internal/domain/models"
)

func (r *Repository) CreatePhoto(ctx context.Context, photo *models.Photo) error {
	return r.conn(ctx).Create(photo).Error
}

func (r *Repository) ListPhotos(ctx context.Context, checklistItemID uint) ([]models.Photo, error) {
	var photos []models.Photo
	err := r.conn(ctx).Where("checklist_item_id = ?", checklistItemID).Order("id ASC").Find(&photos).Error
	return photos, err
}
