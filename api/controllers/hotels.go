package controllers

import (
	"net/http"

	"github.com/anandkrishnan/mealdash-backend/api/responses"
	"github.com/anandkrishnan/mealdash-backend/api/validators"
	"github.com/anandkrishnan/mealdash-backend/internal/catalog"
	"github.com/anandkrishnan/mealdash-backend/internal/hotels"
	pkgerrors "github.com/anandkrishnan/mealdash-backend/pkg/errors"
	"github.com/anandkrishnan/mealdash-backend/pkg/logger"
)

// HotelsList returns hotels that are approved and currently open to orders.
func HotelsList(svc hotels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "hotels service unavailable"))
			return
		}

		list, err := svc.ListOpenHotels(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// HotelMenu lists a hotel's menu for browsing. Items with zero stock are
// included so the client can grey them out; pass available_only=true to
// filter them.
func HotelMenu(hotelsSvc hotels.Service, catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if hotelsSvc == nil || catalogSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		hotelID, err := validators.PathUUID(r, "hotelID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		availableOnly, err := validators.ParseQueryBool(r, "available_only", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// browsing is limited to hotels visible to customers
		if _, err := hotelsSvc.GetHotel(r.Context(), hotelID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		menu, err := catalogSvc.ListMenu(r.Context(), hotelID, availableOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, menu)
	}
}

// HotelRegister creates the operator's hotel in pending status.
func HotelRegister(svc hotels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "hotels service unavailable"))
			return
		}

		ownerID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body hotels.RegisterInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		hotel, err := svc.Register(r.Context(), ownerID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, hotel)
	}
}

// HotelOwn returns the operator's hotel profile.
func HotelOwn(svc hotels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "hotels service unavailable"))
			return
		}

		ownerID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		hotel, err := svc.GetOwnHotel(r.Context(), ownerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, hotel)
	}
}

type hotelOpenRequest struct {
	Open bool `json:"open"`
}

// HotelSetOpen toggles whether the operator's hotel accepts new orders.
func HotelSetOpen(svc hotels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "hotels service unavailable"))
			return
		}

		ownerID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		hotelID, err := hotelUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body hotelOpenRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		hotel, err := svc.SetOpen(r.Context(), hotelID, ownerID, body.Open)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, hotel)
	}
}

// AdminPendingHotels lists hotels awaiting review.
func AdminPendingHotels(svc hotels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "hotels service unavailable"))
			return
		}

		list, err := svc.ListPendingHotels(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

type hotelReviewRequest struct {
	Approve bool `json:"approve"`
}

// AdminReviewHotel approves or rejects a pending hotel.
func AdminReviewHotel(svc hotels.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "hotels service unavailable"))
			return
		}

		hotelID, err := validators.PathUUID(r, "hotelID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body hotelReviewRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		hotel, err := svc.Review(r.Context(), hotelID, body.Approve)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, hotel)
	}
}
