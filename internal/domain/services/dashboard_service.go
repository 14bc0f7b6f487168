package services

import (
	"context"

	"github.com/juniu86/rr-guanabara/internal/domain/insights"
	"github.com/juniu86/rr-guanabara/internal/domain/models"
	"github.com/juniu86/rr-guanabara/internal/domain/repository"
)

// InterfaceDashboardService aggregates checklist results for the dashboard.
// A nil stationID covers every station.
type InterfaceDashboardService interface {
	Radar(ctx context.Context, stationID *uint) ([]insights.RadarPoint, error)
	QuestLog(ctx context.Context, stationID *uint) ([]insights.Quest, error)
	Stats(ctx context.Context, stationID *uint) (*insights.DashboardStats, error)
}

type DashboardService struct {
	Repo *repository.Repository
}

func NewDashboardService(repo *repository.Repository) InterfaceDashboardService {
	return &DashboardService{Repo: repo}
}

// 1 Radar scores conformity per category
func (s *DashboardService) Radar(ctx context.Context, stationID *uint) ([]insights.RadarPoint, error) {
	items, err := s.Repo.ListChecklistItemsForStation(ctx, stationID)
	if err != nil {
		return nil, err
	}
	return insights.ConformityRadar(items), nil
}

// 2 QuestLog lists the pending corrective work
func (s *DashboardService) QuestLog(ctx context.Context, stationID *uint) ([]insights.Quest, error) {
	items, err := s.Repo.ListChecklistItemsForStation(ctx, stationID)
	if err != nil {
		return nil, err
	}
	return insights.QuestLog(items), nil
}

// 3 Stats feeds the summary cards
func (s *DashboardService) Stats(ctx context.Context, stationID *uint) (*insights.DashboardStats, error) {
	var (
		maintenances []models.Maintenance
		err          error
	)
	if stationID != nil {
		maintenances, err = s.Repo.ListMaintenancesByStation(ctx, *stationID)
	} else {
		maintenances, err = s.Repo.ListMaintenances(ctx)
	}
	if err != nil {
		return nil, err
	}

	items, err := s.Repo.ListChecklistItemsForStation(ctx, stationID)
	if err != nil {
		return nil, err
	}
	stats := insights.Stats(maintenances, items)
	return &stats, nil
}
