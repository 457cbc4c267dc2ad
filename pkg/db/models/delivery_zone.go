package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/menuorders-backend/pkg/types"
)

// DeliveryZone prices delivery to an area of the city.
type DeliveryZone struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	RestaurantID  uuid.UUID           `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Name          types.LocalizedText `gorm:"column:name;type:jsonb;not null"`
	Fee           decimal.Decimal     `gorm:"column:fee;type:numeric(12,2);not null"`
	MinimumOrder  decimal.Decimal     `gorm:"column:minimum_order;type:numeric(12,2);not null;default:0"`
	EstimatedTime string              `gorm:"column:estimated_time;not null;default:''"`
	Active        bool                `gorm:"column:active;not null;default:true"`
	SortOrder     int                 `gorm:"column:sort_order;not null;default:0"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (DeliveryZone) TableName() string { return "delivery_zones" }

func (z *DeliveryZone) BeforeCreate(*gorm.DB) error {
	assignID(&z.ID)
	return nil
}
