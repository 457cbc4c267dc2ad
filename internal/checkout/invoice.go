package checkout

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/angelmondragon/menuorders-backend/pkg/enums"
	"github.com/angelmondragon/menuorders-backend/pkg/money"
)

//go:embed templates/invoice.gohtml
var templateFS embed.FS

const invoiceTimeLayout = "2006-01-02 15:04 UTC"

// InvoiceRenderer turns a receipt into a printable document.
type InvoiceRenderer interface {
	Render(r Receipt) (string, error)
}

// HTMLInvoice renders receipts with the embedded invoice template.
type HTMLInvoice struct {
	tmpl *template.Template
}

func NewHTMLInvoice() (*HTMLInvoice, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/invoice.gohtml")
	if err != nil {
		return nil, fmt.Errorf("parse invoice template: %w", err)
	}
	return &HTMLInvoice{tmpl: tmpl}, nil
}

type invoiceLine struct {
	Position  int
	Title     string
	Quantity  int
	UnitPrice string
	LineTotal string
	Notes     string
	Extras    []invoiceExtra
}

type invoiceExtra struct {
	Name     string
	Quantity int
	Cost     string
}

type invoiceData struct {
	Receipt        Receipt
	Labels         Labels
	Lang           string
	Dir            string
	PlacedAt       string
	OrderTypeLabel string
	IsDelivery     bool
	Lines          []invoiceLine
	Subtotal       string
	DeliveryFee    string
	Total          string
}

func (h *HTMLInvoice) Render(r Receipt) (string, error) {
	l := LabelsFor(r.Locale)
	data := invoiceData{
		Receipt:        r,
		Labels:         l,
		Lang:           "en",
		Dir:            "ltr",
		OrderTypeLabel: l.orderType(r.OrderType),
		IsDelivery:     r.OrderType == enums.OrderTypeDelivery,
		Subtotal:       money.FormatWithLabel(r.Subtotal, r.CurrencyLabel),
		Total:          money.FormatWithLabel(r.Total, r.CurrencyLabel),
	}
	if r.Locale == enums.LocaleAR {
		data.Lang, data.Dir = "ar", "rtl"
	}
	if !r.PlacedAt.IsZero() {
		data.PlacedAt = r.PlacedAt.UTC().Format(invoiceTimeLayout)
	}
	if r.DeliveryFee.IsPositive() {
		data.DeliveryFee = money.FormatWithLabel(r.DeliveryFee, r.CurrencyLabel)
	}
	for i, line := range r.Lines {
		title := line.Title
		if line.Size != "" {
			title += " (" + line.Size + ")"
		}
		il := invoiceLine{
			Position:  i + 1,
			Title:     title,
			Quantity:  line.Quantity,
			UnitPrice: money.Format(line.UnitPrice),
			LineTotal: money.FormatWithLabel(line.LineTotal, r.CurrencyLabel),
			Notes:     line.Notes,
		}
		for _, extra := range line.Extras {
			il.Extras = append(il.Extras, invoiceExtra{
				Name:     extra.Name,
				Quantity: extra.Quantity,
				Cost:     money.FormatWithLabel(extra.Cost, r.CurrencyLabel),
			})
		}
		data.Lines = append(data.Lines, il)
	}

	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render invoice: %w", err)
	}
	return buf.String(), nil
}
