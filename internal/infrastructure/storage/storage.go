// Package storage keeps photos and generated reports in an S3-compatible object store.
package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ObjectStore writes and removes blobs by key.
type ObjectStore interface {
	// Put stores data under key and returns a URL clients can fetch it from.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
}

// PhotoKey returns a fresh key for a photo of a checklist item.
// Only the base name of fileName is kept.
func PhotoKey(checklistItemID uint, fileName string) string {
	name := filepath.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "foto"
	}
	return fmt.Sprintf("maintenance-photos/%d/%s-%s", checklistItemID, uuid.NewString(), name)
}

// ReportKey returns a fresh key for a maintenance report.
func ReportKey(maintenanceID uint) string {
	return fmt.Sprintf("maintenance-reports/%d/%s-relatorio.pdf", maintenanceID, uuid.NewString())
}
