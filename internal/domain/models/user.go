package models

import "time"

// Role is a user's authorization role.
type Role string

const (
	RoleTecnico   Role = "tecnico"
	RoleRRAdmin   Role = "rr_admin"
	RoleGuanabara Role = "guanabara"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleTecnico, RoleRRAdmin, RoleGuanabara, RoleAdmin:
		return true
	}
	return false
}

// User is anyone who can sign in: RR technicians and admins, and Guanabara staff.
type User struct {
	BaseModel
	Username     string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	Name         string     `gorm:"type:varchar(255)" json:"name"`
	Email        string     `gorm:"type:varchar(320)" json:"email,omitempty"`
	PasswordHash string     `gorm:"type:varchar(100);not null" json:"-"`
	Role         Role       `gorm:"type:varchar(20);default:'tecnico';not null" json:"role"`
	LastSignedIn *time.Time `json:"lastSignedIn,omitempty"`
}
