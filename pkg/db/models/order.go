package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/menuorders-backend/pkg/enums"
	"github.com/angelmondragon/menuorders-backend/pkg/types"
)

// Order is an immutable record of a submitted checkout.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	RestaurantID    uuid.UUID           `gorm:"column:restaurant_id;type:uuid;not null;uniqueIndex:orders_restaurant_number_key,priority:1"`
	OrderNumber     int64               `gorm:"column:order_number;not null;uniqueIndex:orders_restaurant_number_key,priority:2"`
	SessionID       *uuid.UUID          `gorm:"column:checkout_session_id;type:uuid;uniqueIndex:orders_checkout_session_key"`
	RestaurantName  types.LocalizedText `gorm:"column:restaurant_name;type:jsonb;not null"`
	CustomerName    string              `gorm:"column:customer_name;not null"`
	CustomerPhone   string              `gorm:"column:customer_phone;not null"`
	CustomerAddress *string             `gorm:"column:customer_address"`
	OrderType       enums.OrderType     `gorm:"column:order_type;type:text;not null"`
	ZoneID          *uuid.UUID          `gorm:"column:zone_id;type:uuid"`
	ZoneName        types.LocalizedText `gorm:"column:zone_name;type:jsonb"`
	DeliveryFee     decimal.Decimal     `gorm:"column:delivery_fee;type:numeric(12,2);not null;default:0"`
	Subtotal        decimal.Decimal     `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Total           decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null"`
	Notes           *string             `gorm:"column:notes"`
	Locale          enums.Locale        `gorm:"column:locale;type:text;not null;default:'en'"`
	CurrencyLabel   string              `gorm:"column:currency_label;not null;default:''"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`

	LineItems []OrderLineItem `gorm:"foreignKey:OrderID;references:ID"`
}

func (Order) TableName() string { return "orders" }

func (o *Order) BeforeCreate(*gorm.DB) error {
	assignID(&o.ID)
	return nil
}
