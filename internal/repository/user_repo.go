package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/gheider394-beep/2-sub000/internal/db"
)

// UserRepository is the read-only profile lookup used to build denormalized
// participant entries.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// Get fetches a user's profile fields by id.
func (r *UserRepository) Get(ctx context.Context, id uint64) (*db.User, error) {
	var user db.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
