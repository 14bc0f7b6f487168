package models

import "time"

// MaintenanceStatus is the lifecycle state of a preventive visit.
type MaintenanceStatus string

const (
	MaintenanceDraft     MaintenanceStatus = "draft"
	MaintenanceCompleted MaintenanceStatus = "completed"
	MaintenanceApproved  MaintenanceStatus = "approved"
)

// Valid reports whether s is a known status.
func (s MaintenanceStatus) Valid() bool {
	switch s {
	case MaintenanceDraft, MaintenanceCompleted, MaintenanceApproved:
		return true
	}
	return false
}

// Maintenance is one preventive visit to a station.
type Maintenance struct {
	BaseModel
	StationID               uint              `gorm:"not null;index" json:"stationId"`
	TechnicianID            uint              `gorm:"not null;index" json:"technicianId"`
	PreventiveNumber        string            `gorm:"type:varchar(50);not null" json:"preventiveNumber"`
	Date                    time.Time         `gorm:"not null" json:"date"`
	Status                  MaintenanceStatus `gorm:"type:varchar(20);default:'draft';not null" json:"status"`
	Observations            *string           `gorm:"type:text" json:"observations,omitempty"`
	TechnicianSignature     *string           `gorm:"type:text" json:"technicianSignature,omitempty"`
	TechnicianSignatureDate *time.Time        `json:"technicianSignatureDate,omitempty"`
	ClientSignature         *string           `gorm:"type:text" json:"clientSignature,omitempty"`
	ClientSignatureDate     *time.Time        `json:"clientSignatureDate,omitempty"`

	Station        *Station        `gorm:"foreignKey:StationID" json:"station,omitempty"`
	Technician     *User           `gorm:"foreignKey:TechnicianID" json:"technician,omitempty"`
	ChecklistItems []ChecklistItem `gorm:"foreignKey:MaintenanceID" json:"checklistItems,omitempty"`
}

// Signed reports whether either party has signed.
func (m *Maintenance) Signed() bool {
	return (m.TechnicianSignature != nil && *m.TechnicianSignature != "") ||
		(m.ClientSignature != nil && *m.ClientSignature != "")
}
