package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/menuorders-backend/pkg/types"
)

// OrderLineItem is the snapshot of one cart line, with its extras, at submit time.
type OrderLineItem struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	OrderID     uuid.UUID             `gorm:"column:order_id;type:uuid;not null;index"`
	Position    int                   `gorm:"column:position;not null"`
	LineRef     string                `gorm:"column:line_ref;not null"`
	ItemID      string                `gorm:"column:item_id;not null"`
	Title       types.LocalizedText   `gorm:"column:title;type:jsonb;not null"`
	Size        *string               `gorm:"column:size"`
	Category    *string               `gorm:"column:category"`
	UnitPrice   decimal.Decimal       `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Quantity    int                   `gorm:"column:quantity;not null"`
	LineTotal   decimal.Decimal       `gorm:"column:line_total;type:numeric(12,2);not null"`
	ExtrasTotal decimal.Decimal       `gorm:"column:extras_total;type:numeric(12,2);not null;default:0"`
	Extras      types.OrderItemExtras `gorm:"column:extras;type:jsonb;not null"`
	Notes       *string               `gorm:"column:notes"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
}

func (OrderLineItem) TableName() string { return "order_line_items" }

func (l *OrderLineItem) BeforeCreate(*gorm.DB) error {
	assignID(&l.ID)
	return nil
}
