package services

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/juniu86/rr-guanabara/internal/infrastructure/config"
)

// DeleteConfirmation checks the password that gates maintenance deletion.
// Only a bcrypt hash is kept in memory.
type DeleteConfirmation struct {
	hash []byte
	// RequireOwnership limits deletion to RR admins and the owning technician.
	RequireOwnership bool
}

// NewDeleteConfirmation uses DELETE_PASSWORD_HASH when set, otherwise hashes DELETE_PASSWORD.
func NewDeleteConfirmation(cfg *config.Config) (*DeleteConfirmation, error) {
	if cfg.DeletePasswordHash != "" {
		if _, err := bcrypt.Cost([]byte(cfg.DeletePasswordHash)); err != nil {
			return nil, fmt.Errorf("DELETE_PASSWORD_HASH is not a bcrypt hash: %w", err)
		}
		return &DeleteConfirmation{hash: []byte(cfg.DeletePasswordHash), RequireOwnership: cfg.DeleteRequiresOwnership}, nil
	}
	if cfg.DeletePassword == "" {
		return nil, errors.New("no deletion password configured")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.DeletePassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash deletion password: %w", err)
	}
	return &DeleteConfirmation{hash: hash, RequireOwnership: cfg.DeleteRequiresOwnership}, nil
}

// Verify reports whether password matches.
func (d *DeleteConfirmation) Verify(password string) bool {
	return bcrypt.CompareHashAndPassword(d.hash, []byte(password)) == nil
}
