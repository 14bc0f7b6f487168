package repository

import (
	"context"
	"time"

	"github.com/juniu86/rr-guanabara/internal/domain/models"
)

func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	return r.conn(ctx).Create(user).Error
}

func (r *Repository) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.conn(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.conn(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *Repository) CountUsersByRole(ctx context.Context, role models.Role) (int64, error) {
	var count int64
	err := r.conn(ctx).Model(&models.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

// TouchLastSignedIn records a successful login.
func (r *Repository) TouchLastSignedIn(ctx context.Context, id uint, at time.Time) error {
	return r.conn(ctx).Model(&models.User{}).Where("id = ?", id).Update("last_signed_in", at).Error
}
