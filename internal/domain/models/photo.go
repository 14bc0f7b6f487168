package models

import "time"

// Photo is a picture attached to a checklist item. The binary lives in the object store.
type Photo struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ChecklistItemID uint      `gorm:"not null;index" json:"checklistItemId"`
	FileKey         string    `gorm:"type:varchar(500);not null" json:"fileKey"`
	URL             string    `gorm:"type:text;not null" json:"url"`
	Description     *string   `gorm:"type:text" json:"description,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}
