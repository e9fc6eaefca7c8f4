package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anandkrishnan/mealdash-backend/api/responses"
	"github.com/anandkrishnan/mealdash-backend/api/validators"
	"github.com/anandkrishnan/mealdash-backend/internal/feedback"
	"github.com/anandkrishnan/mealdash-backend/internal/fulfillment"
	"github.com/anandkrishnan/mealdash-backend/internal/orders"
	"github.com/anandkrishnan/mealdash-backend/internal/placement"
	"github.com/anandkrishnan/mealdash-backend/pkg/enums"
	pkgerrors "github.com/anandkrishnan/mealdash-backend/pkg/errors"
	"github.com/anandkrishnan/mealdash-backend/pkg/logger"
	"github.com/anandkrishnan/mealdash-backend/pkg/pagination"
)

type placeOrderItemRequest struct {
	MenuItemID uuid.UUID `json:"menu_item_id" validate:"required"`
	Quantity   int       `json:"quantity" validate:"required,gt=0"`
}

type placeOrderRequest struct {
	HotelID       uuid.UUID               `json:"hotel_id" validate:"required"`
	Items         []placeOrderItemRequest `json:"items" validate:"required,min=1,dive"`
	TotalPeople   int                     `json:"total_people" validate:"required,gt=0"`
	ScheduledTime *time.Time              `json:"scheduled_time"`
	PaymentMode   string                  `json:"payment_mode" validate:"required,oneof=online cod"`
}

type placeOrderResponse struct {
	OrderID            uuid.UUID         `json:"order_id"`
	Status             enums.OrderStatus `json:"status"`
	TotalAmount        decimal.Decimal   `json:"total_amount"`
	PickupCode         string            `json:"pickup_code,omitempty"`
	PickupCodeImageURL string            `json:"pickup_code_image_url,omitempty"`
	Warning            string            `json:"warning,omitempty"`
}

// OrderPlace creates an order against an open hotel. Cash orders are
// confirmed in the same request, so the response already carries the pickup
// credential; online orders stay pending until their payment signal.
func OrderPlace(svc placement.Service, fulfillmentSvc fulfillment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || fulfillmentSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "placement service unavailable"))
			return
		}

		userID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body placeOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mode, err := enums.ParsePaymentMode(body.PaymentMode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment mode"))
			return
		}

		items := make([]placement.RequestedItem, 0, len(body.Items))
		for _, item := range body.Items {
			items = append(items, placement.RequestedItem{MenuItemID: item.MenuItemID, Quantity: item.Quantity})
		}

		result, err := svc.PlaceOrder(r.Context(), placement.PlaceOrderInput{
			UserID:        userID,
			HotelID:       body.HotelID,
			Items:         items,
			TotalPeople:   body.TotalPeople,
			ScheduledTime: body.ScheduledTime,
			PaymentMode:   mode,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload := placeOrderResponse{
			OrderID:     result.OrderID,
			Status:      result.Status,
			TotalAmount: result.TotalAmount,
		}

		if mode == enums.PaymentModeCOD {
			confirmed, err := fulfillmentSvc.ConfirmPlacedOrder(r.Context(), result.OrderID)
			if err != nil {
				// The order stands; it surfaces in the hotel queue for a
				// manual confirm once stock allows.
				lctx := logg.WithOrderID(r.Context(), result.OrderID.String())
				logg.Warn(lctx, "cash order placed but confirmation failed: "+err.Error())
				payload.Warning = "order placed but not yet confirmed; the hotel will confirm it manually"
			} else {
				payload.Status = confirmed.Status
				payload.PickupCode = confirmed.PickupCode
				payload.PickupCodeImageURL = confirmed.PickupCodeImageURL
			}
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, payload)
	}
}

// OrderPaymentSuccess is the simulated gateway callback for online orders.
func OrderPaymentSuccess(svc fulfillment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "fulfillment service unavailable"))
			return
		}

		userID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := validators.PathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ConfirmOnlinePayment(r.Context(), orderID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// OrdersList returns the customer's order history, newest first.
func OrdersList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		userID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.UserOrders(r.Context(), userID, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// OrderGet returns one of the customer's own orders with its lines.
func OrderGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		userID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := validators.PathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), orderID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

type feedbackRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty,max=1000"`
}

// OrderFeedback records post-completion feedback, once per order.
func OrderFeedback(svc feedback.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "feedback service unavailable"))
			return
		}

		userID, err := actorUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := validators.PathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body feedbackRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SubmitFeedback(r.Context(), feedback.SubmitInput{
			OrderID: orderID,
			UserID:  userID,
			Rating:  body.Rating,
			Comment: body.Comment,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
