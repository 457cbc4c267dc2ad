package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/menuorders-backend/pkg/db/models"
)

// Repository reads the active catalogs of a restaurant.
type Repository interface {
	ListActiveAddons(ctx context.Context, restaurantID uuid.UUID) ([]models.Addon, error)
	ListActiveZones(ctx context.Context, restaurantID uuid.UUID) ([]models.DeliveryZone, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) ListActiveAddons(ctx context.Context, restaurantID uuid.UUID) ([]models.Addon, error) {
	var rows []models.Addon
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND active = ?", restaurantID, true).
		Order("sort_order ASC").
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *gormRepository) ListActiveZones(ctx context.Context, restaurantID uuid.UUID) ([]models.DeliveryZone, error) {
	var rows []models.DeliveryZone
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND active = ?", restaurantID, true).
		Order("sort_order ASC").
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
