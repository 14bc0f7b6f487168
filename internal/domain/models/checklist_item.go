package models

import "time"

// ItemStatus is the inspection outcome of one checklist item.
type ItemStatus string

const (
	ItemConfere         ItemStatus = "confere"
	ItemNaoConferido    ItemStatus = "nao_conferido"
	ItemRealizarLimpeza ItemStatus = "realizar_limpeza"
	ItemRealizarReparo  ItemStatus = "realizar_reparo"
	ItemRealizarTroca   ItemStatus = "realizar_troca"
)

// Valid reports whether s is a known item status.
func (s ItemStatus) Valid() bool {
	switch s {
	case ItemConfere, ItemNaoConferido, ItemRealizarLimpeza, ItemRealizarReparo, ItemRealizarTroca:
		return true
	}
	return false
}

// NeedsAction reports whether the item calls for follow-up work.
func (s ItemStatus) NeedsAction() bool {
	return s == ItemRealizarLimpeza || s == ItemRealizarReparo || s == ItemRealizarTroca
}

// ChecklistItem is one inspected equipment unit of a maintenance.
type ChecklistItem struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	MaintenanceID    uint       `gorm:"not null;index" json:"maintenanceId"`
	ItemNumber       int        `gorm:"not null" json:"itemNumber"`
	EquipmentName    string     `gorm:"type:varchar(255);not null" json:"equipmentName"`
	Status           ItemStatus `gorm:"type:varchar(30);default:'nao_conferido';not null" json:"status"`
	Value            *string    `gorm:"type:varchar(100)" json:"value,omitempty"`
	CorrectiveAction *string    `gorm:"type:text" json:"correctiveAction,omitempty"`
	Observations     *string    `gorm:"type:text" json:"observations,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`

	Photos []Photo `gorm:"foreignKey:ChecklistItemID" json:"photos,omitempty"`
}
