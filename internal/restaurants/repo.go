package restaurants

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/menuorders-backend/pkg/db/models"
)

// Repository loads restaurant rows.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	var row models.Restaurant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
