// Package repository is the access layer over the relational schema.
// Every function takes the request context and works on an injected gorm handle.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a single-row lookup matches nothing.
var ErrNotFound = errors.New("record not found")

// Repository groups the typed queries for all tables.
type Repository struct {
	db *gorm.DB
}

// New returns a Repository over db.
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Transaction runs fn with a Repository bound to a single transaction.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) conn(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
