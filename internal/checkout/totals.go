package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/menuorders-backend/internal/cart"
	"github.com/angelmondragon/menuorders-backend/internal/catalog"
	"github.com/angelmondragon/menuorders-backend/pkg/enums"
	"github.com/angelmondragon/menuorders-backend/pkg/money"
)

// Totals are derived from the session on every read and never stored.
type Totals struct {
	CartSubtotal decimal.Decimal `json:"cart_subtotal"`
	ExtrasTotal  decimal.Decimal `json:"extras_total"`
	// Subtotal is CartSubtotal + ExtrasTotal.
	Subtotal        decimal.Decimal `json:"subtotal"`
	DeliveryFee     decimal.Decimal `json:"delivery_fee"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
	MinimumOrder    decimal.Decimal `json:"minimum_order"`
	MinimumOrderMet bool            `json:"minimum_order_met"`
}

// ComputeTotals prices the cart, the selected extras and the delivery fee.
// The fee only applies to delivery orders with a zone selected.
func ComputeTotals(c cart.Cart, addons []catalog.Addon, zones []catalog.Zone, state State) Totals {
	t := Totals{
		CartSubtotal:    c.Subtotal(),
		ExtrasTotal:     decimal.Zero,
		DeliveryFee:     decimal.Zero,
		MinimumOrder:    decimal.Zero,
		MinimumOrderMet: true,
	}
	for _, line := range c.Lines {
		t.ExtrasTotal = t.ExtrasTotal.Add(lineExtrasTotal(line, addons, state.Extras))
	}
	t.Subtotal = t.CartSubtotal.Add(t.ExtrasTotal)

	if state.OrderType == enums.OrderTypeDelivery && state.ZoneID != nil {
		if zone, ok := catalog.FindZone(zones, *state.ZoneID); ok {
			t.DeliveryFee = zone.Fee
			t.MinimumOrder = zone.MinimumOrder
			t.MinimumOrderMet = t.Subtotal.GreaterThanOrEqual(zone.MinimumOrder)
		}
	}
	t.GrandTotal = t.Subtotal.Add(t.DeliveryFee)
	return t
}

// lineExtrasTotal is sum(addon price x qty) x line quantity.
func lineExtrasTotal(line cart.Line, addons []catalog.Addon, extras ExtrasSelection) decimal.Decimal {
	perUnit := decimal.Zero
	for _, addon := range addons {
		qty := extras.Quantity(line.ID, addon.ID)
		if qty <= 0 {
			continue
		}
		perUnit = perUnit.Add(money.Times(addon.Price, qty))
	}
	return money.Times(perUnit, line.Quantity)
}

// Totals computes the current totals of the session.
func (s *Session) Totals() Totals {
	return ComputeTotals(s.Cart, s.Catalog.Addons, s.Catalog.Zones, s.State)
}
