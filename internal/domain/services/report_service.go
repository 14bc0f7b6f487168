package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/juniu86/rr-guanabara/internal/domain/models"
	"github.com/juniu86/rr-guanabara/internal/domain/report"
	"github.com/juniu86/rr-guanabara/internal/domain/repository"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/messaging"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/metrics"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/storage"
	"github.com/juniu86/rr-guanabara/pkg/logger"
)

// InterfaceReportService renders maintenance reports.
type InterfaceReportService interface {
	Generate(ctx context.Context, actor Actor, maintenanceID uint) (*ReportResult, error)
	Render(ctx context.Context, actor Actor, maintenanceID uint) (*RenderedReport, error)
}

// ReportResult points at a stored report.
type ReportResult struct {
	URL     string `json:"url"`
	FileKey string `json:"fileKey"`
	Pages   int    `json:"pages"`
}

// RenderedReport is a report kept in memory for direct download.
type RenderedReport struct {
	FileName string
	Bytes    []byte
	Pages    int
}

type ReportService struct {
	Repo      *repository.Repository
	Store     storage.ObjectStore
	Events    messaging.Publisher
	Metrics   *metrics.Collector
	Generator *report.Generator
	now       func() time.Time
}

func NewReportService(repo *repository.Repository, store storage.ObjectStore, events messaging.Publisher,
	collector *metrics.Collector, generator *report.Generator) InterfaceReportService {
	return &ReportService{
		Repo:      repo,
		Store:     store,
		Events:    events,
		Metrics:   collector,
		Generator: generator,
		now:       time.Now,
	}
}

// 1 Generate renders the report and stores it in the object store
func (s *ReportService) Generate(ctx context.Context, actor Actor, maintenanceID uint) (*ReportResult, error) {
	m, doc, err := s.render(ctx, actor, maintenanceID)
	if err != nil {
		return nil, err
	}

	key := storage.ReportKey(maintenanceID)
	url, err := s.Store.Put(ctx, key, doc.Bytes, "application/pdf")
	if err != nil {
		s.Metrics.ReportFailed()
		return nil, fmt.Errorf("%w: store report: %v", ErrUnavailable, err)
	}

	s.Metrics.ReportGenerated(doc.Pages)
	publishEvent(ctx, s.Events, messaging.Event{
		Type:          messaging.EventReportGenerated,
		MaintenanceID: m.ID,
		ActorID:       actor.UserID,
		OccurredAt:    s.now().UTC(),
		Data:          map[string]interface{}{"fileKey": key, "pages": doc.Pages},
	})
	logger.WithFields(logger.Fields{"maintenance_id": m.ID, "pages": doc.Pages, "key": key}).Info("report generated")

	return &ReportResult{URL: url, FileKey: key, Pages: doc.Pages}, nil
}

// 2 Render returns the report bytes without storing them
func (s *ReportService) Render(ctx context.Context, actor Actor, maintenanceID uint) (*RenderedReport, error) {
	m, doc, err := s.render(ctx, actor, maintenanceID)
	if err != nil {
		return nil, err
	}
	s.Metrics.ReportGenerated(doc.Pages)
	return &RenderedReport{
		FileName: fmt.Sprintf("relatorio-%s.pdf", m.PreventiveNumber),
		Bytes:    doc.Bytes,
		Pages:    doc.Pages,
	}, nil
}

func (s *ReportService) render(ctx context.Context, actor Actor, maintenanceID uint) (*models.Maintenance, *report.Document, error) {
	m, err := s.Repo.GetMaintenanceAggregate(ctx, maintenanceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrMaintenanceNotFound
		}
		return nil, nil, err
	}
	station, err := s.Repo.GetStation(ctx, m.StationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrStationNotFound
		}
		return nil, nil, err
	}

	doc, err := s.Generator.Generate(report.Input{
		Maintenance:    m,
		Station:        station,
		TechnicianName: s.technicianName(ctx, m.TechnicianID, actor),
		Now:            s.now(),
	})
	if err != nil {
		s.Metrics.ReportFailed()
		return nil, nil, err
	}
	return m, doc, nil
}

// technicianName prefers the technician who filled the form over the caller.
func (s *ReportService) technicianName(ctx context.Context, technicianID uint, actor Actor) string {
	if user, err := s.Repo.GetUser(ctx, technicianID); err == nil && user.Name != "" {
		return user.Name
	}
	if actor.Name != "" {
		return actor.Name
	}
	return "Técnico"
}
