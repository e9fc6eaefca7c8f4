package placement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/anandkrishnan/mealdash-backend/internal/catalog"
	"github.com/anandkrishnan/mealdash-backend/internal/orders"
	"github.com/anandkrishnan/mealdash-backend/pkg/db/models"
	"github.com/anandkrishnan/mealdash-backend/pkg/enums"
	pkgerrors "github.com/anandkrishnan/mealdash-backend/pkg/errors"
	"github.com/anandkrishnan/mealdash-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type hotelGate interface {
	IsOpenForOrders(ctx context.Context, hotelID uuid.UUID) (bool, error)
}

// RequestedItem is one (item, quantity) pair of a placement request.
type RequestedItem struct {
	MenuItemID uuid.UUID
	Quantity   int
}

// PlaceOrderInput carries the full placement request.
type PlaceOrderInput struct {
	UserID        uuid.UUID
	HotelID       uuid.UUID
	Items         []RequestedItem
	TotalPeople   int
	ScheduledTime *time.Time
	PaymentMode   enums.PaymentMode
}

// PlaceOrderResult is returned on a successful placement.
type PlaceOrderResult struct {
	OrderID     uuid.UUID         `json:"order_id"`
	Status      enums.OrderStatus `json:"status"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
}

// Service validates a requested basket against the live catalog and creates
// the order aggregate atomically.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*PlaceOrderResult, error)
}

type service struct {
	catalogRepo catalog.Repository
	ordersRepo  orders.Repository
	hotels      hotelGate
	tx          txRunner
	metrics     *metrics.OrderMetrics
	now         func() time.Time
}

// NewService builds a placement service with the required dependencies.
func NewService(catalogRepo catalog.Repository, ordersRepo orders.Repository, hotels hotelGate, tx txRunner, orderMetrics *metrics.OrderMetrics) (Service, error) {
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if hotels == nil {
		return nil, fmt.Errorf("hotel gate required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		catalogRepo: catalogRepo,
		ordersRepo:  ordersRepo,
		hotels:      hotels,
		tx:          tx,
		metrics:     orderMetrics,
		now:         time.Now,
	}, nil
}

func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*PlaceOrderResult, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.HotelID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "hotel id required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item required")
	}
	if !input.PaymentMode.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment mode must be cod or online")
	}
	if input.TotalPeople < 1 {
		input.TotalPeople = 1
	}
	seen := map[uuid.UUID]bool{}
	for _, req := range input.Items {
		if req.MenuItemID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
		}
		if req.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be at least 1")
		}
		if seen[req.MenuItemID] {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate item in request")
		}
		seen[req.MenuItemID] = true
	}
	if input.ScheduledTime != nil && input.ScheduledTime.Before(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "scheduled time is in the past")
	}

	open, err := s.hotels.IsOpenForOrders(ctx, input.HotelID)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "hotel is not accepting orders")
	}

	var result *PlaceOrderResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		catalogRepo := s.catalogRepo.WithTx(tx)
		ordersRepo := s.ordersRepo.WithTx(tx)

		// Whole placement fails on the first missing or short item; prices
		// are re-read from the catalog, never trusted from the client.
		total := decimal.Zero
		lines := make([]models.OrderLineItem, 0, len(input.Items))
		for _, req := range input.Items {
			item, err := catalogRepo.FindMenuItem(ctx, input.HotelID, req.MenuItemID)
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					return pkgerrors.New(pkgerrors.CodeItemUnavailable, "item is not on the menu").
						WithDetails(map[string]any{"menu_item_id": req.MenuItemID})
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu item")
			}
			if !item.IsAvailable || item.AvailableQty < req.Quantity {
				return pkgerrors.New(pkgerrors.CodeItemUnavailable, "requested quantity exceeds available stock").
					WithDetails(map[string]any{
						"item":          item.Name,
						"available_qty": item.AvailableQty,
						"requested_qty": req.Quantity,
					})
			}

			lineTotal := item.Price.Mul(decimal.NewFromInt(int64(req.Quantity)))
			total = total.Add(lineTotal)
			lines = append(lines, models.OrderLineItem{
				ItemName:  item.Name,
				UnitPrice: item.Price,
				Quantity:  req.Quantity,
			})
		}

		order := &models.Order{
			UserID:        input.UserID,
			HotelID:       input.HotelID,
			TotalPeople:   input.TotalPeople,
			TotalAmount:   total,
			PaymentMode:   input.PaymentMode,
			Status:        enums.OrderStatusPendingConfirmation,
			ScheduledTime: input.ScheduledTime,
			OrderTime:     s.now(),
		}
		created, err := ordersRepo.CreateOrder(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		for i := range lines {
			lines[i].OrderID = created.ID
		}
		if err := ordersRepo.CreateLineItems(ctx, lines); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order line items")
		}

		result = &PlaceOrderResult{
			OrderID:     created.ID,
			Status:      created.Status,
			TotalAmount: total,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncPlaced()
	return result, nil
}
