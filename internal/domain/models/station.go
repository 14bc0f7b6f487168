package models

// Station is a fuel station visited for preventive maintenance.
type Station struct {
	BaseModel
	Name    string `gorm:"type:varchar(255);not null" json:"name"`
	Address string `gorm:"type:text;not null" json:"address"`

	Maintenances []Maintenance `gorm:"foreignKey:StationID" json:"maintenances,omitempty"`
}
