package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/menuorders-backend/pkg/db"
	"github.com/angelmondragon/menuorders-backend/pkg/db/models"
	"github.com/angelmondragon/menuorders-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/menuorders-backend/pkg/errors"
	"github.com/angelmondragon/menuorders-backend/pkg/logger"
	"github.com/angelmondragon/menuorders-backend/pkg/money"
)

const (
	orderNumberConstraint = "orders_restaurant_number_key"
	sessionConstraint     = "orders_checkout_session_key"
	maxPlaceAttempts      = 3
)

var (
	errNumberTaken   = errors.New("order number already taken")
	errSessionPlaced = errors.New("checkout session already has an order")
)

// Service persists orders and hands out per-restaurant order numbers.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error)
	FindByNumber(ctx context.Context, restaurantID uuid.UUID, number int64) (*models.Order, error)
	FindBySession(ctx context.Context, sessionID uuid.UUID) (*models.Order, error)
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService builds the order store.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

// PlaceOrder inserts the order under the next free number. Two concurrent
// submissions for the same restaurant can compute the same number; the loser
// hits the unique constraint and retries with a fresh number. An input with a
// SessionID that already has an order returns that order unchanged.
func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	if err := validatePlaceOrder(input); err != nil {
		return nil, err
	}
	if existing, err := s.placedForSession(ctx, input.SessionID); err != nil || existing != nil {
		return existing, err
	}

	for attempt := 1; attempt <= maxPlaceAttempts; attempt++ {
		order := buildOrder(input)
		err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)
			number, err := repo.NextOrderNumber(ctx, input.RestaurantID)
			if err != nil {
				return fmt.Errorf("next order number: %w", err)
			}
			order.OrderNumber = number
			if err := repo.CreateOrder(ctx, order); err != nil {
				if db.IsUniqueViolation(err, sessionConstraint) || db.IsUniqueViolation(err, "orders.checkout_session_id") {
					return errSessionPlaced
				}
				if db.IsUniqueViolation(err, orderNumberConstraint) || db.IsUniqueViolation(err, "orders.order_number") {
					return errNumberTaken
				}
				return fmt.Errorf("insert order: %w", err)
			}
			return nil
		})
		if err == nil {
			return order, nil
		}
		if errors.Is(err, errSessionPlaced) {
			s.logg.Warn(s.logg.WithSessionID(ctx, input.SessionID.String()), "order already stored for session")
			return s.FindBySession(ctx, input.SessionID)
		}
		if !errors.Is(err, errNumberTaken) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not save order")
		}
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"restaurant_id": input.RestaurantID.String(),
			"attempt":       attempt,
		})
		s.logg.Warn(logCtx, "order number collision, retrying")
	}
	return nil, pkgerrors.New(pkgerrors.CodeConflict, "could not allocate an order number, please retry")
}

func (s *service) FindByNumber(ctx context.Context, restaurantID uuid.UUID, number int64) (*models.Order, error) {
	if restaurantID == uuid.Nil || number <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant id and a positive order number are required")
	}
	order, err := s.repo.FindByNumber(ctx, restaurantID, number)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// FindBySession returns the order stored by a checkout session.
func (s *service) FindBySession(ctx context.Context, sessionID uuid.UUID) (*models.Order, error) {
	if sessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	order, err := s.repo.FindBySession(ctx, sessionID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) placedForSession(ctx context.Context, sessionID uuid.UUID) (*models.Order, error) {
	if sessionID == uuid.Nil {
		return nil, nil
	}
	order, err := s.FindBySession(ctx, sessionID)
	if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		return nil, nil
	}
	return order, err
}

func validatePlaceOrder(input PlaceOrderInput) error {
	switch {
	case input.RestaurantID == uuid.Nil:
		return pkgerrors.New(pkgerrors.CodeValidation, "restaurant id is required")
	case strings.TrimSpace(input.CustomerName) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	case strings.TrimSpace(input.CustomerPhone) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "customer phone is required")
	case !input.OrderType.IsValid():
		return pkgerrors.New(pkgerrors.CodeValidation, "order type is invalid")
	case len(input.Lines) == 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one line")
	}
	if input.OrderType == enums.OrderTypeDelivery {
		if input.ZoneID == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "delivery orders require a zone")
		}
		if strings.TrimSpace(input.CustomerAddress) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "delivery orders require an address")
		}
	}
	for i, line := range input.Lines {
		if line.Quantity < 1 {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "lines[%d]: quantity must be at least 1", i)
		}
		for _, extra := range line.Extras {
			if extra.Quantity < 1 {
				return pkgerrors.Newf(pkgerrors.CodeValidation, "lines[%d]: extra quantity must be at least 1", i)
			}
		}
	}
	if !input.Total.Equal(input.Subtotal.Add(input.DeliveryFee)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "total must equal subtotal plus delivery fee")
	}
	return nil
}

func buildOrder(input PlaceOrderInput) *models.Order {
	order := &models.Order{
		RestaurantID:   input.RestaurantID,
		RestaurantName: input.RestaurantName,
		CustomerName:   strings.TrimSpace(input.CustomerName),
		CustomerPhone:  strings.TrimSpace(input.CustomerPhone),
		OrderType:      input.OrderType,
		DeliveryFee:    decimal.Zero,
		Subtotal:       input.Subtotal,
		Total:          input.Total,
		Notes:          optional(input.Notes),
		Locale:         input.Locale,
		CurrencyLabel:  input.CurrencyLabel,
	}
	if order.Locale == "" {
		order.Locale = enums.LocaleEN
	}
	if input.SessionID != uuid.Nil {
		sessionID := input.SessionID
		order.SessionID = &sessionID
	}
	if input.OrderType == enums.OrderTypeDelivery {
		zoneID := *input.ZoneID
		order.ZoneID = &zoneID
		order.ZoneName = input.ZoneName
		order.DeliveryFee = input.DeliveryFee
		order.CustomerAddress = optional(input.CustomerAddress)
	}

	order.LineItems = make([]models.OrderLineItem, 0, len(input.Lines))
	for i, line := range input.Lines {
		order.LineItems = append(order.LineItems, models.OrderLineItem{
			Position:    i + 1,
			LineRef:     line.LineRef,
			ItemID:      line.ItemID,
			Title:       line.Title,
			Size:        optional(line.Size),
			Category:    optional(line.Category),
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			LineTotal:   money.Times(line.UnitPrice, line.Quantity),
			ExtrasTotal: line.ExtrasTotal(),
			Extras:      line.Extras,
			Notes:       optional(line.Notes),
		})
	}
	return order
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
