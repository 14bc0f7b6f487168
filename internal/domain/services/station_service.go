package services

import (
	"context"
	"errors"

	"github.com/juniu86/rr-guanabara/internal/domain/models"
	"github.com/juniu86/rr-guanabara/internal/domain/repository"
)

// InterfaceStationService reads station reference data.
type InterfaceStationService interface {
	List(ctx context.Context) ([]models.Station, error)
	Get(ctx context.Context, id uint) (*models.Station, error)
}

type StationService struct {
	Repo *repository.Repository
}

func NewStationService(repo *repository.Repository) InterfaceStationService {
	return &StationService{Repo: repo}
}

func (s *StationService) List(ctx context.Context) ([]models.Station, error) {
	return s.Repo.ListStations(ctx)
}

func (s *StationService) Get(ctx context.Context, id uint) (*models.Station, error) {
	station, err := s.Repo.GetStation(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrStationNotFound
	}
	return station, err
}
