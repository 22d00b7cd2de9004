package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a referenced user does not exist
var ErrNotFound = errors.New("user not found")

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	UpdateLanguage(ctx context.Context, id uuid.UUID, language string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a user repository backed by gorm
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

func (r *repository) UpdateLanguage(ctx context.Context, id uuid.UUID, language string) error {
	result := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("language", language)
	if result.Error != nil {
		return fmt.Errorf("update language: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
