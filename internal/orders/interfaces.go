package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/menuorders-backend/pkg/db/models"
)

// Repository defines persistence operations for orders and their line items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	NextOrderNumber(ctx context.Context, restaurantID uuid.UUID) (int64, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	FindByNumber(ctx context.Context, restaurantID uuid.UUID, number int64) (*models.Order, error)
	FindBySession(ctx context.Context, sessionID uuid.UUID) (*models.Order, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
