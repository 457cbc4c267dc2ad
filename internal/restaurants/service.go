package restaurants

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/menuorders-backend/pkg/db"
	"github.com/angelmondragon/menuorders-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/menuorders-backend/pkg/errors"
	"github.com/angelmondragon/menuorders-backend/pkg/types"
)

// Restaurant is the subset of restaurant settings checkout depends on.
type Restaurant struct {
	ID            uuid.UUID           `json:"id"`
	Slug          string              `json:"slug"`
	Name          types.LocalizedText `json:"name"`
	WhatsAppPhone string              `json:"whatsapp_phone"`
	CurrencyLabel string              `json:"currency_label"`
	DefaultLocale enums.Locale        `json:"default_locale"`
	OrdersEnabled bool                `json:"orders_enabled"`
}

// Service resolves restaurants for checkout.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*Restaurant, error)
	// ForOrdering returns the restaurant only when it accepts orders.
	ForOrdering(ctx context.Context, id uuid.UUID) (*Restaurant, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("restaurant repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Restaurant, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id is required")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "restaurant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant")
	}

	locale, err := enums.ParseLocale(row.DefaultLocale)
	if err != nil {
		locale = enums.LocaleEN
	}
	return &Restaurant{
		ID:            row.ID,
		Slug:          row.Slug,
		Name:          row.Name,
		WhatsAppPhone: strings.TrimSpace(row.WhatsAppPhone),
		CurrencyLabel: strings.TrimSpace(row.CurrencyLabel),
		DefaultLocale: locale,
		OrdersEnabled: row.OrdersEnabled,
	}, nil
}

func (s *service) ForOrdering(ctx context.Context, id uuid.UUID) (*Restaurant, error) {
	restaurant, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !restaurant.OrdersEnabled {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "ordering disabled")
	}
	return restaurant, nil
}
