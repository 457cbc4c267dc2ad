package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/menuorders-backend/api/responses"
	"github.com/angelmondragon/menuorders-backend/api/validators"
	"github.com/angelmondragon/menuorders-backend/internal/cart"
	checkoutsvc "github.com/angelmondragon/menuorders-backend/internal/checkout"
	"github.com/angelmondragon/menuorders-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/menuorders-backend/pkg/errors"
	"github.com/angelmondragon/menuorders-backend/pkg/logger"
	"github.com/angelmondragon/menuorders-backend/pkg/types"
)

const (
	maxNameLength    = 120
	maxPhoneLength   = 32
	maxNotesLength   = 500
	maxAddressLength = 300
	maxLineNotes     = 200
)

type openSessionRequest struct {
	RestaurantID uuid.UUID         `json:"restaurant_id" validate:"required"`
	Locale       string            `json:"locale,omitempty" validate:"omitempty,locale"`
	Lines        []cartLineRequest `json:"lines" validate:"required,min=1,max=100,dive"`
}

type cartLineRequest struct {
	ItemID       string              `json:"item_id" validate:"required,max=100"`
	Title        types.LocalizedText `json:"title"`
	Price        decimal.Decimal     `json:"price"`
	Size         string              `json:"size,omitempty" validate:"max=60"`
	Quantity     int                 `json:"quantity" validate:"required,min=1,max=99"`
	Notes        string              `json:"notes,omitempty"`
	Category     string              `json:"category,omitempty" validate:"max=100"`
	CategoryType enums.AddonType     `json:"category_type,omitempty" validate:"omitempty,addon_type"`
	OptionIDs    []string            `json:"option_ids,omitempty" validate:"max=20"`
}

func (r cartLineRequest) toLine() cart.Line {
	return cart.Line{
		ItemID:       r.ItemID,
		Title:        r.Title,
		Price:        r.Price,
		Size:         validators.SanitizeString(r.Size, 0),
		Quantity:     r.Quantity,
		Notes:        validators.SanitizeString(r.Notes, maxLineNotes),
		Category:     r.Category,
		CategoryType: r.CategoryType,
		OptionIDs:    r.OptionIDs,
	}
}

type extrasRequest struct {
	LineID  string    `json:"line_id" validate:"required"`
	AddonID uuid.UUID `json:"addon_id" validate:"required"`
	Delta   int       `json:"delta" validate:"required,min=-99,max=99"`
}

type customerRequest struct {
	Name  *string              `json:"name,omitempty"`
	Phone *string              `json:"phone,omitempty"`
	Notes types.NullableString `json:"notes"`
}

type fulfillmentRequest struct {
	OrderType *enums.OrderType     `json:"order_type,omitempty" validate:"omitempty,oneof=delivery pickup"`
	ZoneID    types.NullableUUID   `json:"zone_id"`
	Address   types.NullableString `json:"address"`
}

// OpenCheckoutSession starts checkout for the posted cart.
func OpenCheckoutSession(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload openSessionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines := make([]cart.Line, 0, len(payload.Lines))
		for _, line := range payload.Lines {
			lines = append(lines, line.toLine())
		}

		view, err := svc.Open(r.Context(), checkoutsvc.OpenInput{
			RestaurantID: payload.RestaurantID,
			Locale:       payload.Locale,
			Lines:        lines,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

func GetCheckoutSession(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionHandler(svc, logg, func(r *http.Request, id uuid.UUID) (any, error) {
		return svc.Get(r.Context(), id)
	})
}

// UpdateCheckoutExtras changes one addon quantity on one cart line.
func UpdateCheckoutExtras(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionHandler(svc, logg, func(r *http.Request, id uuid.UUID) (any, error) {
		var payload extrasRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.SetAddonQuantity(r.Context(), id, payload.LineID, payload.AddonID, payload.Delta)
	})
}

func UpdateCheckoutCustomer(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionHandler(svc, logg, func(r *http.Request, id uuid.UUID) (any, error) {
		var payload customerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.UpdateCustomer(r.Context(), id, checkoutsvc.CustomerUpdate{
			Name:  sanitized(payload.Name, maxNameLength),
			Phone: sanitized(payload.Phone, maxPhoneLength),
			Notes: sanitizedNullable(payload.Notes, maxNotesLength),
		})
	})
}

// UpdateCheckoutFulfillment sets order type, zone and address. An explicit
// null zone_id clears the selected zone.
func UpdateCheckoutFulfillment(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionHandler(svc, logg, func(r *http.Request, id uuid.UUID) (any, error) {
		var payload fulfillmentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		update := checkoutsvc.FulfillmentUpdate{
			OrderType: payload.OrderType,
			Address:   sanitizedNullable(payload.Address, maxAddressLength),
		}
		if payload.ZoneID.Valid {
			if payload.ZoneID.Value == nil {
				update.ClearZone = true
			} else {
				update.ZoneID = payload.ZoneID.Value
			}
		}
		return svc.UpdateFulfillment(r.Context(), id, update)
	})
}

func AdvanceCheckout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionHandler(svc, logg, func(r *http.Request, id uuid.UUID) (any, error) {
		return svc.Advance(r.Context(), id)
	})
}

func BackCheckout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionHandler(svc, logg, func(r *http.Request, id uuid.UUID) (any, error) {
		return svc.Back(r.Context(), id)
	})
}

// SubmitCheckout persists the order. The route is guarded by the
// idempotency middleware.
func SubmitCheckout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionHandler(svc, logg, func(r *http.Request, id uuid.UUID) (any, error) {
		return svc.Submit(r.Context(), id)
	})
}

// CheckoutMessage returns the order text and chat link for a resend.
func CheckoutMessage(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionHandler(svc, logg, func(r *http.Request, id uuid.UUID) (any, error) {
		return svc.Message(r.Context(), id)
	})
}

func CloseCheckoutSession(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return sessionHandler(svc, logg, func(r *http.Request, id uuid.UUID) (any, error) {
		return svc.Close(r.Context(), id)
	})
}

// CheckoutInvoice renders the printable invoice of a submitted session.
func CheckoutInvoice(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "sessionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		doc, err := svc.Invoice(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteHTML(w, http.StatusOK, doc)
	}
}

func sessionHandler(svc checkoutsvc.Service, logg *logger.Logger, fn func(r *http.Request, id uuid.UUID) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "sessionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithSessionID(ctx, id.String())
		}
		result, err := fn(r.WithContext(ctx), id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func sanitized(value *string, maxLen int) *string {
	if value == nil {
		return nil
	}
	clean := validators.SanitizeString(*value, maxLen)
	return &clean
}

// sanitizedNullable maps an absent field to nil and a null to an empty value.
func sanitizedNullable(value types.NullableString, maxLen int) *string {
	if !value.Valid {
		return nil
	}
	var current string
	value.Apply(&current)
	return sanitized(&current, maxLen)
}
