package checkout

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/menuorders-backend/pkg/enums"
	"github.com/angelmondragon/menuorders-backend/pkg/money"
)

// Labels are the fixed strings of a message in one locale.
type Labels struct {
	Order       string
	Name        string
	Phone       string
	OrderType   string
	Delivery    string
	Pickup      string
	Zone        string
	Address     string
	Items       string
	Note        string
	Subtotal    string
	DeliveryFee string
	Total       string
	Notes       string
}

var labels = map[enums.Locale]Labels{
	enums.LocaleEN: {
		Order:       "Order",
		Name:        "Name",
		Phone:       "Phone",
		OrderType:   "Order type",
		Delivery:    "Delivery",
		Pickup:      "Pickup",
		Zone:        "Zone",
		Address:     "Address",
		Items:       "Items",
		Note:        "Note",
		Subtotal:    "Subtotal",
		DeliveryFee: "Delivery fee",
		Total:       "Total",
		Notes:       "Notes",
	},
	enums.LocaleAR: {
		Order:       "طلب",
		Name:        "الاسم",
		Phone:       "الجوال",
		OrderType:   "نوع الطلب",
		Delivery:    "توصيل",
		Pickup:      "استلام",
		Zone:        "المنطقة",
		Address:     "العنوان",
		Items:       "الطلبات",
		Note:        "ملاحظة",
		Subtotal:    "المجموع الفرعي",
		DeliveryFee: "رسوم التوصيل",
		Total:       "الإجمالي",
		Notes:       "ملاحظات",
	},
}

// LabelsFor returns the labels of the locale, English when unknown.
func LabelsFor(locale enums.Locale) Labels {
	if l, ok := labels[locale]; ok {
		return l
	}
	return labels[enums.LocaleEN]
}

func (l Labels) orderType(t enums.OrderType) string {
	if t == enums.OrderTypeDelivery {
		return l.Delivery
	}
	return l.Pickup
}

// FormatMessage renders the plain-text order message sent to the restaurant.
// The output depends only on the receipt.
func FormatMessage(r Receipt) string {
	l := LabelsFor(r.Locale)
	var b strings.Builder
	if r.RestaurantName != "" {
		fmt.Fprintf(&b, "*%s*\n", r.RestaurantName)
	}
	fmt.Fprintf(&b, "%s #%d\n\n", l.Order, r.OrderNumber)

	fmt.Fprintf(&b, "%s: %s\n", l.Name, r.CustomerName)
	fmt.Fprintf(&b, "%s: %s\n", l.Phone, r.CustomerPhone)
	fmt.Fprintf(&b, "%s: %s\n", l.OrderType, l.orderType(r.OrderType))
	if r.OrderType == enums.OrderTypeDelivery {
		if r.ZoneName != "" {
			fmt.Fprintf(&b, "%s: %s\n", l.Zone, r.ZoneName)
		}
		if r.Address != "" {
			fmt.Fprintf(&b, "%s: %s\n", l.Address, r.Address)
		}
	}

	fmt.Fprintf(&b, "\n%s:\n", l.Items)
	for i, line := range r.Lines {
		title := line.Title
		if line.Size != "" {
			title += " (" + line.Size + ")"
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, title)
		fmt.Fprintf(&b, "   %s × %d = %s\n",
			money.Format(line.UnitPrice), line.Quantity, money.FormatWithLabel(line.LineTotal, r.CurrencyLabel))
		for _, extra := range line.Extras {
			fmt.Fprintf(&b, "   + %s × %d = %s\n",
				extra.Name, extra.Quantity, money.FormatWithLabel(extra.Cost, r.CurrencyLabel))
		}
		if line.Notes != "" {
			fmt.Fprintf(&b, "   %s: %s\n", l.Note, line.Notes)
		}
	}

	fmt.Fprintf(&b, "\n%s: %s\n", l.Subtotal, money.FormatWithLabel(r.Subtotal, r.CurrencyLabel))
	if r.DeliveryFee.IsPositive() {
		fmt.Fprintf(&b, "%s: %s\n", l.DeliveryFee, money.FormatWithLabel(r.DeliveryFee, r.CurrencyLabel))
	}
	fmt.Fprintf(&b, "%s: %s", l.Total, money.FormatWithLabel(r.Total, r.CurrencyLabel))
	if r.Notes != "" {
		fmt.Fprintf(&b, "\n\n%s: %s", l.Notes, r.Notes)
	}
	return b.String()
}
