package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/anandkrishnan/mealdash-backend/api/responses"
	"github.com/anandkrishnan/mealdash-backend/api/validators"
	"github.com/anandkrishnan/mealdash-backend/internal/catalog"
	pkgerrors "github.com/anandkrishnan/mealdash-backend/pkg/errors"
	"github.com/anandkrishnan/mealdash-backend/pkg/logger"
)

type menuItemCreateRequest struct {
	Name         string          `json:"name" validate:"required,min=1,max=120"`
	Category     string          `json:"category" validate:"required,min=1,max=60"`
	Price        decimal.Decimal `json:"price" validate:"required"`
	AvailableQty int             `json:"available_qty" validate:"gte=0"`
}

type menuItemUpdateRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=120"`
	Category     *string          `json:"category" validate:"omitempty,min=1,max=60"`
	Price        *decimal.Decimal `json:"price"`
	AvailableQty *int             `json:"available_qty" validate:"omitempty,gte=0"`
	IsAvailable  *bool            `json:"is_available"`
}

// MenuCreate adds a menu item to the operator's hotel.
func MenuCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		hotelID, err := hotelUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body menuItemCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.CreateItem(r.Context(), catalog.CreateItemInput{
			HotelID:      hotelID,
			Name:         body.Name,
			Category:     body.Category,
			Price:        body.Price,
			AvailableQty: body.AvailableQty,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// MenuUpdate patches fields of a menu item.
func MenuUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		hotelID, err := hotelUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := validators.PathUUID(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body menuItemUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err = svc.UpdateItem(r.Context(), catalog.UpdateItemInput{
			HotelID:      hotelID,
			ItemID:       itemID,
			Name:         body.Name,
			Category:     body.Category,
			Price:        body.Price,
			AvailableQty: body.AvailableQty,
			IsAvailable:  body.IsAvailable,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"updated": true})
	}
}

// MenuDelete removes a menu item from the operator's hotel.
func MenuDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		hotelID, err := hotelUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := validators.PathUUID(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteItem(r.Context(), hotelID, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

// MenuList returns the operator's own menu including unavailable items.
func MenuList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		hotelID, err := hotelUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		menu, err := svc.ListMenu(r.Context(), hotelID, false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, menu)
	}
}
