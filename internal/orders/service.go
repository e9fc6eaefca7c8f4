package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/anandkrishnan/mealdash-backend/pkg/errors"
	"github.com/anandkrishnan/mealdash-backend/pkg/pagination"
)

// Service is the read side of the order pipeline: the operator queue and
// the customer's order history.
type Service interface {
	HotelQueue(ctx context.Context, hotelID uuid.UUID, phoneQuery string) ([]HotelQueueEntry, error)
	LookupByPickupCode(ctx context.Context, hotelID uuid.UUID, code string) (*OrderView, error)
	GetOrder(ctx context.Context, orderID, userID uuid.UUID) (*OrderView, error)
	UserOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*UserOrderList, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) HotelQueue(ctx context.Context, hotelID uuid.UUID, phoneQuery string) ([]HotelQueueEntry, error) {
	if hotelID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "hotel id required")
	}

	entries, err := s.repo.ListActiveForHotel(ctx, hotelID, strings.TrimSpace(phoneQuery))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list hotel queue")
	}
	return entries, nil
}

// LookupByPickupCode resolves a scanned credential to the hotel's order, so
// the operator lands on the right row without typing anything.
func (s *service) LookupByPickupCode(ctx context.Context, hotelID uuid.UUID, code string) (*OrderView, error) {
	if hotelID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "hotel id required")
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeCredentialRequired, "pickup code required")
	}

	order, err := s.repo.FindOrderByPickupCode(ctx, hotelID, code)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no order matches this pickup code")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find order by pickup code")
	}

	view := ToOrderView(*order)
	return &view, nil
}

func (s *service) GetOrder(ctx context.Context, orderID, userID uuid.UUID) (*OrderView, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	view := ToOrderView(*order)
	return &view, nil
}

// UserOrders returns the customer's attention view: everything still in
// flight plus completed orders awaiting feedback, newest first.
func (s *service) UserOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*UserOrderList, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListForUser(ctx, userID, cursor, pagination.LimitWithBuffer(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list user orders")
	}

	nextCursor := ""
	if len(rows) > limit {
		last := rows[limit-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		rows = rows[:limit]
	}

	views := make([]OrderView, 0, len(rows))
	for _, row := range rows {
		views = append(views, ToOrderView(row))
	}
	return &UserOrderList{Orders: views, NextCursor: nextCursor}, nil
}
