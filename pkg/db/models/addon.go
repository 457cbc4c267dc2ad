package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/menuorders-backend/pkg/enums"
	"github.com/angelmondragon/menuorders-backend/pkg/types"
)

// Addon is an optional extra a customer can attach to a cart line.
type Addon struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	RestaurantID uuid.UUID           `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Name         types.LocalizedText `gorm:"column:name;type:jsonb;not null"`
	Price        decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	Type         enums.AddonType     `gorm:"column:type;type:text;not null"`
	Active       bool                `gorm:"column:active;not null;default:true"`
	SortOrder    int                 `gorm:"column:sort_order;not null;default:0"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Addon) TableName() string { return "addons" }

func (a *Addon) BeforeCreate(*gorm.DB) error {
	assignID(&a.ID)
	return nil
}
