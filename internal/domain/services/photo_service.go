package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"

	"github.com/juniu86/rr-guanabara/internal/domain/models"
	"github.com/juniu86/rr-guanabara/internal/domain/repository"
	"github.com/juniu86/rr-guanabara/internal/domain/workflow"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/config"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/metrics"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/storage"
	"github.com/juniu86/rr-guanabara/pkg/logger"
)

// InterfacePhotoService uploads and lists checklist photos.
type InterfacePhotoService interface {
	Upload(ctx context.Context, actor Actor, checklistItemID uint, in PhotoPayload) (*PhotoUploadResult, error)
	UploadBatch(ctx context.Context, actor Actor, checklistItemID uint, in []PhotoPayload) ([]BatchUploadResult, error)
	ListByChecklistItem(ctx context.Context, checklistItemID uint) ([]models.Photo, error)
}

// PhotoPayload is a base64-encoded image as sent by the form.
type PhotoPayload struct {
	FileData    string
	FileName    string
	Description *string
}

type PhotoUploadResult struct {
	PhotoID uint   `json:"photoId"`
	URL     string `json:"url"`
}

// BatchUploadResult is the outcome of one photo of a batch.
type BatchUploadResult struct {
	Index   int    `json:"index"`
	PhotoID uint   `json:"photoId,omitempty"`
	URL     string `json:"url,omitempty"`
	Error   string `json:"error,omitempty"`
}

type PhotoService struct {
	Repo     *repository.Repository
	Store    storage.ObjectStore
	Metrics  *metrics.Collector
	MaxBytes int
}

func NewPhotoService(repo *repository.Repository, cfg *config.Config, store storage.ObjectStore, collector *metrics.Collector) InterfacePhotoService {
	return &PhotoService{
		Repo:     repo,
		Store:    store,
		Metrics:  collector,
		MaxBytes: cfg.MaxPhotoBytes,
	}
}

// 1 Upload stores one photo and records it on the item
func (s *PhotoService) Upload(ctx context.Context, actor Actor, checklistItemID uint, in PhotoPayload) (*PhotoUploadResult, error) {
	if !workflow.CanFillChecklist(actor.Role) {
		return nil, ErrForbidden
	}
	if err := s.requireItem(ctx, checklistItemID); err != nil {
		return nil, err
	}
	res, err := s.upload(ctx, checklistItemID, in)
	s.Metrics.PhotoUploaded(err == nil)
	return res, err
}

// 2 UploadBatch uploads every photo concurrently; one failure does not stop the others
func (s *PhotoService) UploadBatch(ctx context.Context, actor Actor, checklistItemID uint, in []PhotoPayload) ([]BatchUploadResult, error) {
	if !workflow.CanFillChecklist(actor.Role) {
		return nil, ErrForbidden
	}
	if len(in) == 0 {
		return nil, invalid("photos must not be empty")
	}
	if err := s.requireItem(ctx, checklistItemID); err != nil {
		return nil, err
	}

	results := make([]BatchUploadResult, len(in))
	var wg sync.WaitGroup
	for i := range in {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i].Index = i
			res, err := s.upload(ctx, checklistItemID, in[i])
			s.Metrics.PhotoUploaded(err == nil)
			if err != nil {
				results[i].Error = err.Error()
				logger.WithFields(logger.Fields{"checklist_item_id": checklistItemID, "index": i}).Warnf("photo upload failed: %v", err)
				return
			}
			results[i].PhotoID = res.PhotoID
			results[i].URL = res.URL
		}(i)
	}
	wg.Wait()
	return results, nil
}

// 3 ListByChecklistItem returns the photos of an item
func (s *PhotoService) ListByChecklistItem(ctx context.Context, checklistItemID uint) ([]models.Photo, error) {
	return s.Repo.ListPhotos(ctx, checklistItemID)
}

func (s *PhotoService) upload(ctx context.Context, checklistItemID uint, in PhotoPayload) (*PhotoUploadResult, error) {
	data, err := decodeBase64(in.FileData)
	if err != nil {
		return nil, invalid("fileData is not valid base64")
	}
	if len(data) == 0 {
		return nil, invalid("fileData is empty")
	}
	if len(data) > s.MaxBytes {
		return nil, invalid("photo has %d bytes, limit is %d", len(data), s.MaxBytes)
	}

	key := storage.PhotoKey(checklistItemID, in.FileName)
	url, err := s.Store.Put(ctx, key, data, mimetype.Detect(data).String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	photo := &models.Photo{
		ChecklistItemID: checklistItemID,
		FileKey:         key,
		URL:             url,
		Description:     nonEmpty(in.Description),
	}
	if err := s.Repo.CreatePhoto(ctx, photo); err != nil {
		return nil, fmt.Errorf("save photo: %w", err)
	}
	return &PhotoUploadResult{PhotoID: photo.ID, URL: url}, nil
}

func (s *PhotoService) requireItem(ctx context.Context, id uint) error {
	if _, err := s.Repo.GetChecklistItem(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrChecklistItemNotFound
		}
		return err
	}
	return nil
}

// decodeBase64 accepts plain base64 or a data URL.
func decodeBase64(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			s = s[i+1:]
		}
	}
	return base64.StdEncoding.DecodeString(strings.TrimSpace(s))
}
