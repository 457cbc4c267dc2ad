package controllers

import (
	"net/http"

	"github.com/angelmondragon/menuorders-backend/api/responses"
	"github.com/angelmondragon/menuorders-backend/api/validators"
	"github.com/angelmondragon/menuorders-backend/internal/catalog"
	checkoutsvc "github.com/angelmondragon/menuorders-backend/internal/checkout"
	pkgerrors "github.com/angelmondragon/menuorders-backend/pkg/errors"
	"github.com/angelmondragon/menuorders-backend/pkg/logger"
)

// RestaurantAddons lists the active addons of a restaurant.
func RestaurantAddons(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		restaurantID, err := validators.ParseUUIDParam(r, "restaurantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		addons, err := svc.Addons(r.Context(), restaurantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if addons == nil {
			addons = []catalog.Addon{}
		}
		responses.WriteSuccess(w, addons)
	}
}

// RestaurantZones lists the active delivery zones of a restaurant.
func RestaurantZones(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		restaurantID, err := validators.ParseUUIDParam(r, "restaurantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		zones, err := svc.Zones(r.Context(), restaurantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if zones == nil {
			zones = []catalog.Zone{}
		}
		responses.WriteSuccess(w, zones)
	}
}

// OrderInvoice re-renders the printable invoice of a stored order.
func OrderInvoice(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		restaurantID, err := validators.ParseUUIDParam(r, "restaurantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		number, err := validators.ParsePositiveIntParam(r, "orderNumber")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOrderNumber(logg.WithRestaurantID(ctx, restaurantID.String()), number)
		}
		doc, err := svc.OrderInvoice(ctx, restaurantID, number)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteHTML(w, http.StatusOK, doc)
	}
}
