package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anandkrishnan/mealdash-backend/pkg/db"
	"github.com/anandkrishnan/mealdash-backend/pkg/db/models"
	pkgerrors "github.com/anandkrishnan/mealdash-backend/pkg/errors"
)

// Service defines the menu management surface for hotel operators.
type Service interface {
	CreateItem(ctx context.Context, input CreateItemInput) (*ItemView, error)
	UpdateItem(ctx context.Context, input UpdateItemInput) error
	DeleteItem(ctx context.Context, hotelID, itemID uuid.UUID) error
	ListMenu(ctx context.Context, hotelID uuid.UUID, availableOnly bool) ([]ItemView, error)
}

type service struct {
	repo Repository
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateItem(ctx context.Context, input CreateItemInput) (*ItemView, error) {
	if input.HotelID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "hotel id required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.AvailableQty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "available quantity cannot be negative")
	}

	item := &models.MenuItem{
		HotelID:      input.HotelID,
		Name:         strings.TrimSpace(input.Name),
		Category:     strings.TrimSpace(input.Category),
		Price:        input.Price,
		AvailableQty: input.AvailableQty,
		IsAvailable:  input.AvailableQty > 0,
	}

	created, err := s.repo.CreateMenuItem(ctx, item)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an item with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create menu item")
	}

	view := toItemView(*created)
	return &view, nil
}

func (s *service) UpdateItem(ctx context.Context, input UpdateItemInput) error {
	if input.HotelID == uuid.Nil || input.ItemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "hotel id and item id required")
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "item name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Category != nil {
		updates["category"] = strings.TrimSpace(*input.Category)
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		updates["price"] = *input.Price
	}
	if input.AvailableQty != nil {
		if *input.AvailableQty < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "available quantity cannot be negative")
		}
		updates["available_qty"] = *input.AvailableQty
	}
	if input.IsAvailable != nil {
		updates["is_available"] = *input.IsAvailable
	}
	if len(updates) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if err := s.repo.UpdateMenuItem(ctx, input.HotelID, input.ItemID, updates); err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		if db.IsUniqueViolation(err, "") {
			return pkgerrors.New(pkgerrors.CodeConflict, "an item with this name already exists")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update menu item")
	}
	return nil
}

func (s *service) DeleteItem(ctx context.Context, hotelID, itemID uuid.UUID) error {
	if hotelID == uuid.Nil || itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "hotel id and item id required")
	}
	if err := s.repo.DeleteMenuItem(ctx, hotelID, itemID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete menu item")
	}
	return nil
}

func (s *service) ListMenu(ctx context.Context, hotelID uuid.UUID, availableOnly bool) ([]ItemView, error) {
	if hotelID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "hotel id required")
	}
	items, err := s.repo.ListMenu(ctx, hotelID, availableOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list menu")
	}
	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, toItemView(item))
	}
	return views, nil
}
