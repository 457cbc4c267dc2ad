package checkout

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/menuorders-backend/internal/catalog"
	"github.com/angelmondragon/menuorders-backend/internal/orders"
	"github.com/angelmondragon/menuorders-backend/pkg/db/models"
	"github.com/angelmondragon/menuorders-backend/pkg/enums"
	"github.com/angelmondragon/menuorders-backend/pkg/money"
	"github.com/angelmondragon/menuorders-backend/pkg/types"
)

// Receipt is the locale-resolved content of an order, shared by the chat
// message and the printable invoice.
type Receipt struct {
	Locale         enums.Locale
	RestaurantName string
	OrderNumber    int64
	PlacedAt       time.Time
	CustomerName   string
	CustomerPhone  string
	OrderType      enums.OrderType
	ZoneName       string
	Address        string
	Lines          []ReceiptLine
	Subtotal       decimal.Decimal
	DeliveryFee    decimal.Decimal
	Total          decimal.Decimal
	Notes          string
	CurrencyLabel  string
}

type ReceiptLine struct {
	Title     string
	Size      string
	UnitPrice decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
	Notes     string
	Extras    []ReceiptExtra
}

// ReceiptExtra is an addon across the whole line: Quantity is the per-unit
// quantity times the line quantity.
type ReceiptExtra struct {
	Name     string
	Quantity int
	Cost     decimal.Decimal
}

// orderLines flattens the cart and the extras selection into store lines.
// Extras follow catalog order and only positive quantities are kept.
func orderLines(s *Session) []orders.LineInput {
	lines := make([]orders.LineInput, 0, len(s.Cart.Lines))
	for _, line := range s.Cart.Lines {
		var extras types.OrderItemExtras
		for _, addon := range catalog.EligibleAddons(s.Catalog.Addons, line.CategoryType) {
			qty := s.State.Extras.Quantity(line.ID, addon.ID)
			if qty <= 0 {
				continue
			}
			extras = append(extras, types.OrderItemExtra{
				AddonID:   addon.ID,
				Name:      addon.Name,
				Quantity:  qty,
				UnitPrice: addon.Price,
			})
		}
		lines = append(lines, orders.LineInput{
			LineRef:   line.ID,
			ItemID:    line.ItemID,
			Title:     line.Title,
			Size:      line.Size,
			Category:  line.Category,
			UnitPrice: line.Price,
			Quantity:  line.Quantity,
			Notes:     line.Notes,
			Extras:    extras,
		})
	}
	return lines
}

// placeOrderInput is the store request for a session ready to submit.
func placeOrderInput(s *Session, currencyLabel string) orders.PlaceOrderInput {
	totals := s.Totals()
	input := orders.PlaceOrderInput{
		SessionID:      s.ID,
		RestaurantID:   s.Restaurant.ID,
		RestaurantName: s.Restaurant.Name,
		CustomerName:   strings.TrimSpace(s.State.CustomerName),
		CustomerPhone:  strings.TrimSpace(s.State.Phone),
		OrderType:      s.State.OrderType,
		DeliveryFee:    totals.DeliveryFee,
		Lines:          orderLines(s),
		Subtotal:       totals.Subtotal,
		Total:          totals.GrandTotal,
		Notes:          strings.TrimSpace(s.State.Notes),
		Locale:         s.Locale,
		CurrencyLabel:  currencyLabel,
	}
	if s.State.OrderType == enums.OrderTypeDelivery {
		if zone, ok := s.selectedZone(); ok {
			zoneID := zone.ID
			input.ZoneID = &zoneID
			input.ZoneName = zone.Name
		}
		input.CustomerAddress = strings.TrimSpace(s.State.Address)
	}
	return input
}

// SessionReceipt builds the receipt of a submitted session.
func SessionReceipt(s *Session, currencyLabel string) Receipt {
	input := placeOrderInput(s, currencyLabel)
	r := Receipt{
		Locale:         s.Locale,
		RestaurantName: input.RestaurantName.Resolve(s.Locale),
		OrderNumber:    s.State.OrderNumber,
		CustomerName:   input.CustomerName,
		CustomerPhone:  input.CustomerPhone,
		OrderType:      input.OrderType,
		ZoneName:       input.ZoneName.Resolve(s.Locale),
		Address:        input.CustomerAddress,
		Subtotal:       input.Subtotal,
		DeliveryFee:    input.DeliveryFee,
		Total:          input.Total,
		Notes:          input.Notes,
		CurrencyLabel:  currencyLabel,
	}
	if s.State.SubmittedAt != nil {
		r.PlacedAt = *s.State.SubmittedAt
	}
	for _, line := range input.Lines {
		r.Lines = append(r.Lines, receiptLine(s.Locale, line.Title, line.Size, line.UnitPrice, line.Quantity, line.Notes, line.Extras))
	}
	return r
}

// OrderReceipt rebuilds the receipt from a persisted order, in the locale it
// was placed with.
func OrderReceipt(order *models.Order) Receipt {
	locale := order.Locale
	if !locale.IsValid() {
		locale = enums.LocaleEN
	}
	r := Receipt{
		Locale:         locale,
		RestaurantName: order.RestaurantName.Resolve(locale),
		OrderNumber:    order.OrderNumber,
		PlacedAt:       order.CreatedAt.UTC(),
		CustomerName:   order.CustomerName,
		CustomerPhone:  order.CustomerPhone,
		OrderType:      order.OrderType,
		Subtotal:       order.Subtotal,
		DeliveryFee:    order.DeliveryFee,
		Total:          order.Total,
		Notes:          deref(order.Notes),
		CurrencyLabel:  order.CurrencyLabel,
	}
	if order.OrderType == enums.OrderTypeDelivery {
		r.ZoneName = order.ZoneName.Resolve(locale)
		r.Address = deref(order.CustomerAddress)
	}
	for _, item := range order.LineItems {
		r.Lines = append(r.Lines, receiptLine(locale, item.Title, deref(item.Size), item.UnitPrice, item.Quantity, deref(item.Notes), item.Extras))
	}
	return r
}

func receiptLine(locale enums.Locale, title types.LocalizedText, size string, unit decimal.Decimal, qty int, notes string, extras types.OrderItemExtras) ReceiptLine {
	line := ReceiptLine{
		Title:     title.Resolve(locale),
		Size:      strings.TrimSpace(size),
		UnitPrice: unit,
		Quantity:  qty,
		LineTotal: money.Times(unit, qty),
		Notes:     strings.TrimSpace(notes),
	}
	for _, extra := range extras {
		if extra.Quantity <= 0 {
			continue
		}
		total := extra.Quantity * qty
		line.Extras = append(line.Extras, ReceiptExtra{
			Name:     extra.Name.Resolve(locale),
			Quantity: total,
			Cost:     money.Times(extra.UnitPrice, total),
		})
	}
	return line
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
