package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/menuorders-backend/internal/cart"
	"github.com/angelmondragon/menuorders-backend/internal/catalog"
	"github.com/angelmondragon/menuorders-backend/pkg/enums"
)

// View is what clients render for a session.
type View struct {
	SessionID         uuid.UUID              `json:"session_id"`
	RestaurantID      uuid.UUID              `json:"restaurant_id"`
	RestaurantName    string                 `json:"restaurant_name"`
	Locale            enums.Locale           `json:"locale"`
	CurrencyLabel     string                 `json:"currency_label"`
	Step              enums.CheckoutStep     `json:"step"`
	Sequence          StepSequence           `json:"sequence"`
	Position          int                    `json:"position"`
	StepCount         int                    `json:"step_count"`
	CanGoBack         bool                   `json:"can_go_back"`
	Lines             []LineView             `json:"lines"`
	Zones             []catalog.Zone         `json:"zones"`
	DeliveryAvailable bool                   `json:"delivery_available"`
	CatalogDegraded   bool                   `json:"catalog_degraded,omitempty"`
	Customer          CustomerView           `json:"customer"`
	Fulfillment       FulfillmentView        `json:"fulfillment"`
	Totals            Totals                 `json:"totals"`
	Problems          []Problem              `json:"problems"`
	Status            enums.SubmissionStatus `json:"status"`
	LastError         string                 `json:"last_error,omitempty"`
	OrderNumber       int64                  `json:"order_number,omitempty"`
	SubmittedAt       *time.Time             `json:"submitted_at,omitempty"`
	Message           string                 `json:"message,omitempty"`
	WhatsAppURL       string                 `json:"whatsapp_url,omitempty"`
}

type LineView struct {
	cart.Line
	ExtrasTotal decimal.Decimal `json:"extras_total"`
	Addons      []AddonChoice   `json:"addons"`
}

// AddonChoice is an eligible addon and how many the customer picked.
type AddonChoice struct {
	catalog.Addon
	Quantity int `json:"quantity"`
}

type CustomerView struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

type FulfillmentView struct {
	OrderType enums.OrderType `json:"order_type,omitempty"`
	ZoneID    *uuid.UUID      `json:"zone_id,omitempty"`
	Address   string          `json:"address"`
}

// MessageResult is the order message and the chat link that sends it.
type MessageResult struct {
	Text        string `json:"text"`
	WhatsAppURL string `json:"whatsapp_url,omitempty"`
}

// CloseResult tells the caller whether to empty its cart.
type CloseResult struct {
	ClearCart bool `json:"clear_cart"`
}

func buildView(s *Session, rules Rules, currencyLabel string) *View {
	v := &View{
		SessionID:         s.ID,
		RestaurantID:      s.Restaurant.ID,
		RestaurantName:    s.Restaurant.Name.Resolve(s.Locale),
		Locale:            s.Locale,
		CurrencyLabel:     currencyLabel,
		Step:              s.State.Step,
		Sequence:          s.Sequence,
		Position:          s.Sequence.Index(s.State.Step) + 1,
		StepCount:         len(s.Sequence),
		CanGoBack:         s.CanGoBack(),
		Zones:             s.Catalog.Zones,
		DeliveryAvailable: len(s.Catalog.Zones) > 0,
		CatalogDegraded:   s.Catalog.Degraded,
		Customer: CustomerView{
			Name:  s.State.CustomerName,
			Phone: s.State.Phone,
			Notes: s.State.Notes,
		},
		Fulfillment: FulfillmentView{
			OrderType: s.State.OrderType,
			ZoneID:    s.State.ZoneID,
			Address:   s.State.Address,
		},
		Totals:      s.Totals(),
		Problems:    s.Problems(rules),
		Status:      s.State.Status,
		LastError:   s.State.LastError,
		OrderNumber: s.State.OrderNumber,
		SubmittedAt: s.State.SubmittedAt,
	}
	if v.Zones == nil {
		v.Zones = []catalog.Zone{}
	}
	if v.Problems == nil {
		v.Problems = []Problem{}
	}
	v.Lines = make([]LineView, 0, len(s.Cart.Lines))
	for _, line := range s.Cart.Lines {
		lv := LineView{
			Line:        line,
			ExtrasTotal: lineExtrasTotal(line, s.Catalog.Addons, s.State.Extras),
			Addons:      []AddonChoice{},
		}
		for _, addon := range catalog.EligibleAddons(s.Catalog.Addons, line.CategoryType) {
			lv.Addons = append(lv.Addons, AddonChoice{Addon: addon, Quantity: s.State.Extras.Quantity(line.ID, addon.ID)})
		}
		v.Lines = append(v.Lines, lv)
	}
	return v
}
