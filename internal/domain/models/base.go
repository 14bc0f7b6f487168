package models

import "time"

// BaseModel carries the columns shared by the mutable tables.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// All lists every model for AutoMigrate, parents first.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Station{},
		&Maintenance{},
		&ChecklistItem{},
		&Photo{},
	}
}
