package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/menuorders-backend/pkg/types"
)

// Restaurant is the tenant a menu and its checkout belong to.
type Restaurant struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Slug          string              `gorm:"column:slug;not null;uniqueIndex"`
	Name          types.LocalizedText `gorm:"column:name;type:jsonb;not null"`
	WhatsAppPhone string              `gorm:"column:whatsapp_phone;not null"`
	CurrencyLabel string              `gorm:"column:currency_label;not null;default:'SAR'"`
	DefaultLocale string              `gorm:"column:default_locale;not null;default:'en'"`
	OrdersEnabled bool                `gorm:"column:orders_enabled;not null;default:true"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Restaurant) TableName() string { return "restaurants" }

func (r *Restaurant) BeforeCreate(*gorm.DB) error {
	assignID(&r.ID)
	return nil
}
