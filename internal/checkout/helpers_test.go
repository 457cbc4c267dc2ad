package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/menuorders-backend/internal/orders"
	"github.com/angelmondragon/menuorders-backend/pkg/db/models"
)

func mustDecimal(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// buildTestOrder mirrors what the order store persists for an input.
func buildTestOrder(input orders.PlaceOrderInput, number int64) *models.Order {
	order := &models.Order{
		RestaurantID:    input.RestaurantID,
		OrderNumber:     number,
		RestaurantName:  input.RestaurantName,
		CustomerName:    input.CustomerName,
		CustomerPhone:   input.CustomerPhone,
		CustomerAddress: optionalString(input.CustomerAddress),
		OrderType:       input.OrderType,
		ZoneID:          input.ZoneID,
		ZoneName:        input.ZoneName,
		DeliveryFee:     input.DeliveryFee,
		Subtotal:        input.Subtotal,
		Total:           input.Total,
		Notes:           optionalString(input.Notes),
		Locale:          input.Locale,
		CurrencyLabel:   input.CurrencyLabel,
		CreatedAt:       fixedNow,
	}
	for i, line := range input.Lines {
		order.LineItems = append(order.LineItems, models.OrderLineItem{
			Position:    i + 1,
			LineRef:     line.LineRef,
			ItemID:      line.ItemID,
			Title:       line.Title,
			Size:        optionalString(line.Size),
			Category:    optionalString(line.Category),
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			LineTotal:   line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
			ExtrasTotal: line.ExtrasTotal(),
			Extras:      line.Extras,
			Notes:       optionalString(line.Notes),
		})
	}
	return order
}
