package services

import "github.com/juniu86/rr-guanabara/internal/domain/models"

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID uint
	Role   models.Role
	Name   string
}
