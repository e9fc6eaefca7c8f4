package hotels

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anandkrishnan/mealdash-backend/pkg/db"
	"github.com/anandkrishnan/mealdash-backend/pkg/db/models"
	"github.com/anandkrishnan/mealdash-backend/pkg/enums"
	pkgerrors "github.com/anandkrishnan/mealdash-backend/pkg/errors"
)

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("hotels repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Register(ctx context.Context, ownerUserID uuid.UUID, input RegisterInput) (*HotelView, error) {
	if ownerUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	name := strings.TrimSpace(input.Name)
	location := strings.TrimSpace(input.Location)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "hotel name is required")
	}
	if location == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "hotel location is required")
	}

	hotel := &models.Hotel{
		ID:          uuid.New(),
		OwnerUserID: ownerUserID,
		Name:        name,
		Location:    location,
		Phone:       input.Phone,
		Status:      enums.HotelStatusPending,
		IsActive:    true,
	}

	created, err := s.repo.Create(ctx, hotel)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "user already operates a hotel")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "register hotel")
	}
	return toHotelView(created), nil
}

func (s *service) Review(ctx context.Context, hotelID uuid.UUID, approve bool) (*HotelView, error) {
	if hotelID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "hotel id required")
	}

	status := enums.HotelStatusRejected
	if approve {
		status = enums.HotelStatusApproved
	}

	if err := s.repo.UpdateStatus(ctx, hotelID, status); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "hotel not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update hotel status")
	}
	return s.GetHotel(ctx, hotelID)
}

func (s *service) SetOpen(ctx context.Context, hotelID, ownerUserID uuid.UUID, open bool) (*HotelView, error) {
	if ownerUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if hotelID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "hotel id required")
	}

	ok, err := s.repo.SetOpen(ctx, hotelID, ownerUserID, open)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "toggle hotel")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "hotel does not belong to user")
	}
	return s.GetHotel(ctx, hotelID)
}

func (s *service) GetHotel(ctx context.Context, hotelID uuid.UUID) (*HotelView, error) {
	hotel, err := s.repo.FindByID(ctx, hotelID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "hotel not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load hotel")
	}
	return toHotelView(hotel), nil
}

func (s *service) GetOwnHotel(ctx context.Context, ownerUserID uuid.UUID) (*HotelView, error) {
	if ownerUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	hotel, err := s.repo.FindByOwner(ctx, ownerUserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no hotel registered for user")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load hotel")
	}
	return toHotelView(hotel), nil
}

func (s *service) ListOpenHotels(ctx context.Context) ([]HotelView, error) {
	rows, err := s.repo.ListByStatus(ctx, enums.HotelStatusApproved)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list hotels")
	}

	views := make([]HotelView, 0, len(rows))
	for i := range rows {
		if !rows[i].IsOpen {
			continue
		}
		views = append(views, *toHotelView(&rows[i]))
	}
	return views, nil
}

func (s *service) ListPendingHotels(ctx context.Context) ([]HotelView, error) {
	rows, err := s.repo.ListByStatus(ctx, enums.HotelStatusPending)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list hotels")
	}

	views := make([]HotelView, 0, len(rows))
	for i := range rows {
		views = append(views, *toHotelView(&rows[i]))
	}
	return views, nil
}

func (s *service) IsOpenForOrders(ctx context.Context, hotelID uuid.UUID) (bool, error) {
	hotel, err := s.repo.FindByID(ctx, hotelID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load hotel")
	}
	return hotel.Status == enums.HotelStatusApproved && hotel.IsOpen && hotel.IsActive, nil
}

func (s *service) IsOwner(ctx context.Context, hotelID, userID uuid.UUID) (bool, error) {
	hotel, err := s.repo.FindByID(ctx, hotelID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load hotel")
	}
	return hotel.OwnerUserID == userID, nil
}
