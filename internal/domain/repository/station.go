package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/juniu86/rr-guanabara/internal/domain/models"
)

func (r *Repository) ListStations(ctx context.Context) ([]models.Station, error) {
	var stations []models.Station
	err := r.conn(ctx).Order("id ASC").Find(&stations).Error
	return stations, err
}

func (r *Repository) GetStation(ctx context.Context, id uint) (*models.Station, error) {
	var station models.Station
	if err := r.conn(ctx).First(&station, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &station, nil
}

// FindOrCreateStation returns the station with this name, creating it when absent.
func (r *Repository) FindOrCreateStation(ctx context.Context, name, address string) (*models.Station, bool, error) {
	var station models.Station
	err := r.conn(ctx).Where("name = ?", name).First(&station).Error
	if err == nil {
		return &station, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	station = models.Station{Name: name, Address: address}
	if err := r.conn(ctx).Create(&station).Error; err != nil {
		return nil, false, err
	}
	return &station, true, nil
}
