// Package workflow holds the role rules and the maintenance status machine.
package workflow

import (
	"errors"
	"fmt"

	"github.com/juniu86/rr-guanabara/internal/domain/models"
)

var (
	// ErrForbidden means the role may not perform the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidTransition means the status edge is not in the transition table.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// IsRRAdmin reports whether role administers RR data.
func IsRRAdmin(role models.Role) bool {
	return role == models.RoleRRAdmin || role == models.RoleAdmin
}

// CanFillChecklist reports whether role may create maintenances, items and photos.
func CanFillChecklist(role models.Role) bool {
	return role == models.RoleTecnico || IsRRAdmin(role)
}

// CanUpdateStatus reports whether role may change a maintenance status.
func CanUpdateStatus(role models.Role) bool {
	return IsRRAdmin(role)
}

type edge struct {
	from, to models.MaintenanceStatus
}

var statusEditors = []models.Role{models.RoleRRAdmin, models.RoleAdmin}

// transitions maps each allowed edge to the roles that may take it.
// Every status may overwrite every other, re-opening included.
var transitions = map[edge][]models.Role{
	{models.MaintenanceDraft, models.MaintenanceCompleted}:    statusEditors,
	{models.MaintenanceDraft, models.MaintenanceApproved}:     statusEditors,
	{models.MaintenanceCompleted, models.MaintenanceApproved}: statusEditors,
	{models.MaintenanceCompleted, models.MaintenanceDraft}:    statusEditors,
	{models.MaintenanceApproved, models.MaintenanceCompleted}: statusEditors,
	{models.MaintenanceApproved, models.MaintenanceDraft}:     statusEditors,
}

// CheckTransition validates a status change by role. Same-state updates are allowed.
func CheckTransition(role models.Role, from, to models.MaintenanceStatus) error {
	if !CanUpdateStatus(role) {
		return ErrForbidden
	}
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if from == to {
		return nil
	}
	roles, ok := transitions[edge{from, to}]
	if !ok {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	for _, r := range roles {
		if r == role {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s not allowed for %s", ErrInvalidTransition, from, to, role)
}

// InitialStatus resolves the status of a new maintenance.
// Any signature forces completed. Approved may only be requested by RR admins.
func InitialStatus(role models.Role, requested models.MaintenanceStatus, signed bool) (models.MaintenanceStatus, error) {
	if !CanFillChecklist(role) {
		return "", ErrForbidden
	}
	if signed {
		return models.MaintenanceCompleted, nil
	}
	switch requested {
	case "":
		return models.MaintenanceDraft, nil
	case models.MaintenanceApproved:
		if !IsRRAdmin(role) {
			return "", ErrForbidden
		}
		return requested, nil
	case models.MaintenanceDraft, models.MaintenanceCompleted:
		return requested, nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, requested)
	}
}

// CanDelete applies the optional ownership rule for deleting a maintenance.
func CanDelete(role models.Role, userID uint, m *models.Maintenance) error {
	switch {
	case IsRRAdmin(role):
		return nil
	case role == models.RoleTecnico && m.TechnicianID == userID:
		return nil
	default:
		return ErrForbidden
	}
}
