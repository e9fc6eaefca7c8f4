package fulfillment

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anandkrishnan/mealdash-backend/internal/catalog"
	"github.com/anandkrishnan/mealdash-backend/internal/orders"
	"github.com/anandkrishnan/mealdash-backend/pkg/db/models"
	"github.com/anandkrishnan/mealdash-backend/pkg/enums"
	pkgerrors "github.com/anandkrishnan/mealdash-backend/pkg/errors"
	"github.com/anandkrishnan/mealdash-backend/pkg/logger"
	"github.com/anandkrishnan/mealdash-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type hotelOwnership interface {
	IsOwner(ctx context.Context, hotelID, userID uuid.UUID) (bool, error)
}

// ConfirmResult is returned once an order is confirmed and carries the
// freshly issued pickup credential.
type ConfirmResult struct {
	OrderID            uuid.UUID         `json:"order_id"`
	Status             enums.OrderStatus `json:"status"`
	PickupCode         string            `json:"pickup_code"`
	PickupCodeImageURL string            `json:"pickup_code_image_url"`
}

// CompleteInput carries a pickup verification attempt by a hotel operator.
type CompleteInput struct {
	OrderID     uuid.UUID
	ActorUserID uuid.UUID
	EnteredCode string
}

// CompleteResult reports the completion outcome. SkippedItems lists line
// items whose stock was already too low to decrement at pickup time.
type CompleteResult struct {
	OrderID      uuid.UUID `json:"order_id"`
	Completed    bool      `json:"completed"`
	Late         bool      `json:"late"`
	SkippedItems []string  `json:"skipped_items,omitempty"`
}

// Service drives the order state machine from confirmation through pickup.
type Service interface {
	Confirm(ctx context.Context, orderID, actorUserID uuid.UUID) (*ConfirmResult, error)
	ConfirmPlacedOrder(ctx context.Context, orderID uuid.UUID) (*ConfirmResult, error)
	ConfirmOnlinePayment(ctx context.Context, orderID, userID uuid.UUID) (*ConfirmResult, error)
	Complete(ctx context.Context, input CompleteInput) (*CompleteResult, error)
}

type service struct {
	ordersRepo  orders.Repository
	catalogRepo catalog.Repository
	hotels      hotelOwnership
	tx          txRunner
	logg        *logger.Logger
	metrics     *metrics.OrderMetrics
	now         func() time.Time
}

// NewService builds a fulfillment service with the required dependencies.
func NewService(ordersRepo orders.Repository, catalogRepo catalog.Repository, hotels hotelOwnership, tx txRunner, logg *logger.Logger, orderMetrics *metrics.OrderMetrics) (Service, error) {
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if hotels == nil {
		return nil, fmt.Errorf("hotel ownership checker required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		ordersRepo:  ordersRepo,
		catalogRepo: catalogRepo,
		hotels:      hotels,
		tx:          tx,
		logg:        logg,
		metrics:     orderMetrics,
		now:         time.Now,
	}, nil
}

// Confirm moves a pending order into its confirmed state, decrements stock
// for every line under the non-negative guard, and issues the pickup
// credential. Only the operator of the order's hotel may confirm. The
// status gate makes re-invocation fail instead of re-decrementing.
func (s *service) Confirm(ctx context.Context, orderID, actorUserID uuid.UUID) (*ConfirmResult, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if actorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var result *ConfirmResult
	var mode enums.PaymentMode
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.ordersRepo.WithTx(tx)

		order, err := ordersRepo.FindOrder(ctx, orderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		mode = order.PaymentMode

		owns, err := s.hotels.IsOwner(ctx, order.HotelID, actorUserID)
		if err != nil {
			return err
		}
		if !owns {
			return pkgerrors.New(pkgerrors.CodeOrderNotEligible, "order does not belong to operator's hotel")
		}

		confirmed, err := s.confirmInTx(ctx, tx, order)
		if err != nil {
			return err
		}
		result = confirmed
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncConfirmed(mode.String())
	return result, nil
}

// ConfirmPlacedOrder runs confirmation right after placement for
// cash-on-pickup orders. It is invoked by the placement flow, not by an
// operator, so there is no ownership check; the payment-mode gate keeps
// online orders waiting for their payment signal.
func (s *service) ConfirmPlacedOrder(ctx context.Context, orderID uuid.UUID) (*ConfirmResult, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var result *ConfirmResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.ordersRepo.WithTx(tx)

		order, err := ordersRepo.FindOrder(ctx, orderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.PaymentMode != enums.PaymentModeCOD {
			return pkgerrors.New(pkgerrors.CodeOrderNotEligible, "order awaits payment before confirmation")
		}

		confirmed, err := s.confirmInTx(ctx, tx, order)
		if err != nil {
			return err
		}
		result = confirmed
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncConfirmed(enums.PaymentModeCOD.String())
	return result, nil
}

// ConfirmOnlinePayment is the simulated payment-success trigger. Only the
// ordering customer can fire it, and only for online orders.
func (s *service) ConfirmOnlinePayment(ctx context.Context, orderID, userID uuid.UUID) (*ConfirmResult, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var result *ConfirmResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.ordersRepo.WithTx(tx)

		order, err := ordersRepo.FindOrder(ctx, orderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.UserID != userID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to user")
		}
		if order.PaymentMode != enums.PaymentModeOnline {
			return pkgerrors.New(pkgerrors.CodeOrderNotEligible, "order is not an online payment order")
		}

		confirmed, err := s.confirmInTx(ctx, tx, order)
		if err != nil {
			return err
		}
		result = confirmed
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncConfirmed(enums.PaymentModeOnline.String())
	return result, nil
}

func (s *service) confirmInTx(ctx context.Context, tx *gorm.DB, order *models.Order) (*ConfirmResult, error) {
	ordersRepo := s.ordersRepo.WithTx(tx)
	catalogRepo := s.catalogRepo.WithTx(tx)

	target := enums.OrderStatusPreparing
	if order.PaymentMode == enums.PaymentModeOnline {
		target = enums.OrderStatusPaid
	}

	ok, err := ordersRepo.UpdateOrderStatusIf(ctx, order.ID,
		[]enums.OrderStatus{enums.OrderStatusPendingConfirmation}, target)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "transition order status")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeOrderNotEligible, "order is not awaiting confirmation")
	}

	for _, item := range order.Items {
		ok, err := catalogRepo.AdjustQuantity(ctx, order.HotelID, catalog.NormalizeName(item.ItemName), -item.Quantity)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeItemUnavailable, "stock ran out before confirmation").
				WithDetails(map[string]any{"item": item.ItemName, "requested_qty": item.Quantity})
		}
	}

	code := PickupCode(order.ID)
	imageURL := PickupCodeImageURL(order.ID)
	if err := ordersRepo.SetPickupCredential(ctx, order.ID, code, imageURL); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist pickup credential")
	}

	return &ConfirmResult{
		OrderID:            order.ID,
		Status:             target,
		PickupCode:         code,
		PickupCodeImageURL: imageURL,
	}, nil
}

// Complete runs pickup verification. A missed pickup window overrides the
// credential check entirely; otherwise the operator-entered code must match
// the stored credential after trimming.
func (s *service) Complete(ctx context.Context, input CompleteInput) (*CompleteResult, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var result *CompleteResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.ordersRepo.WithTx(tx)
		catalogRepo := s.catalogRepo.WithTx(tx)

		order, err := ordersRepo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeOrderNotEligible, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		owns, err := s.hotels.IsOwner(ctx, order.HotelID, input.ActorUserID)
		if err != nil {
			return err
		}
		if !owns {
			return pkgerrors.New(pkgerrors.CodeOrderNotEligible, "order does not belong to operator's hotel")
		}
		if order.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeOrderNotEligible, "order is already closed")
		}

		now := s.now()
		late := order.ScheduledTime != nil && now.After(*order.ScheduledTime)

		if !late {
			entered := strings.TrimSpace(input.EnteredCode)
			if entered == "" {
				return pkgerrors.New(pkgerrors.CodeCredentialRequired, "pickup code required")
			}
			if order.PickupCode == nil || entered != strings.TrimSpace(*order.PickupCode) {
				return pkgerrors.New(pkgerrors.CodeCredentialMismatch, "pickup code does not match")
			}
		}

		var skipped []string
		for _, item := range order.Items {
			ok, err := catalogRepo.AdjustQuantity(ctx, order.HotelID, catalog.NormalizeName(item.ItemName), -item.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock at pickup")
			}
			if !ok {
				skipped = append(skipped, item.ItemName)
				if s.logg != nil {
					lctx := s.logg.WithOrderID(ctx, order.ID.String())
					s.logg.Warn(s.logg.WithField(lctx, "item", item.ItemName), "stock too low at pickup, decrement skipped")
				}
			}
		}

		if err := ordersRepo.MarkCompleted(ctx, order.ID, &late); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order completed")
		}

		result = &CompleteResult{
			OrderID:      order.ID,
			Completed:    true,
			Late:         late,
			SkippedItems: skipped,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncCompleted(strconv.FormatBool(result.Late))
	return result, nil
}
