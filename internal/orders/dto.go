package orders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/menuorders-backend/pkg/enums"
	"github.com/angelmondragon/menuorders-backend/pkg/money"
	"github.com/angelmondragon/menuorders-backend/pkg/types"
)

// PlaceOrderInput is everything the store needs to persist a checkout.
type PlaceOrderInput struct {
	// SessionID makes the write idempotent: a session stores at most one order.
	SessionID       uuid.UUID
	RestaurantID    uuid.UUID
	RestaurantName  types.LocalizedText
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	OrderType       enums.OrderType
	ZoneID          *uuid.UUID
	ZoneName        types.LocalizedText
	DeliveryFee     decimal.Decimal
	Lines           []LineInput
	// Subtotal is the cart subtotal plus extras.
	Subtotal      decimal.Decimal
	Total         decimal.Decimal
	Notes         string
	Locale        enums.Locale
	CurrencyLabel string
}

// LineInput is one cart line and the extras chosen for it.
type LineInput struct {
	LineRef   string
	ItemID    string
	Title     types.LocalizedText
	Size      string
	Category  string
	UnitPrice decimal.Decimal
	Quantity  int
	Notes     string
	Extras    types.OrderItemExtras
}

// ExtrasTotal is the extras cost for the whole line (per-unit extras times line quantity).
func (l LineInput) ExtrasTotal() decimal.Decimal {
	total := decimal.Zero
	for _, extra := range l.Extras {
		total = total.Add(extra.Cost())
	}
	return money.Times(total, l.Quantity)
}
