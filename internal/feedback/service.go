package feedback

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anandkrishnan/mealdash-backend/internal/orders"
	"github.com/anandkrishnan/mealdash-backend/pkg/db/models"
	"github.com/anandkrishnan/mealdash-backend/pkg/enums"
	pkgerrors "github.com/anandkrishnan/mealdash-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Repository persists feedback entries. The one-entry-per-order rule is
// backed by a unique index on order_id.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.Feedback) (*models.Feedback, error)
	ListForHotel(ctx context.Context, hotelID uuid.UUID) ([]models.Feedback, error)
}

type SubmitInput struct {
	OrderID uuid.UUID
	UserID  uuid.UUID
	Rating  int
	Comment string
}

type FeedbackView struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	HotelID   uuid.UUID `json:"hotel_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Service interface {
	SubmitFeedback(ctx context.Context, input SubmitInput) (*FeedbackView, error)
	ListHotelFeedback(ctx context.Context, hotelID uuid.UUID) ([]FeedbackView, error)
}

type service struct {
	repo       Repository
	ordersRepo orders.Repository
	tx         txRunner
}

func NewService(repo Repository, ordersRepo orders.Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("feedback repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, ordersRepo: ordersRepo, tx: tx}, nil
}

// SubmitFeedback records a rating against the order's hotel and flips the
// order's feedback flag. Only completed orders are eligible. The user and
// hotel come from the order row, never from the client. The flag update is
// guarded so a second submission loses.
func (s *service) SubmitFeedback(ctx context.Context, input SubmitInput) (*FeedbackView, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.Rating == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	var view *FeedbackView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ordersRepo := s.ordersRepo.WithTx(tx)

		order, err := ordersRepo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.UserID != input.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to user")
		}
		if order.Status != enums.OrderStatusCompleted {
			return pkgerrors.New(pkgerrors.CodeOrderNotEligible, "feedback is only accepted once the order is completed")
		}

		ok, err := ordersRepo.MarkFeedbackGiven(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark feedback given")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeConflict, "feedback already submitted for this order")
		}

		entry := &models.Feedback{
			ID:      uuid.New(),
			OrderID: order.ID,
			UserID:  order.UserID,
			HotelID: order.HotelID,
			Rating:  input.Rating,
		}
		if comment := strings.TrimSpace(input.Comment); comment != "" {
			entry.Comment = &comment
		}

		created, err := repo.Create(ctx, entry)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store feedback")
		}
		view = toFeedbackView(created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *service) ListHotelFeedback(ctx context.Context, hotelID uuid.UUID) ([]FeedbackView, error) {
	if hotelID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "hotel id required")
	}

	entries, err := s.repo.ListForHotel(ctx, hotelID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list feedback")
	}

	views := make([]FeedbackView, 0, len(entries))
	for i := range entries {
		views = append(views, *toFeedbackView(&entries[i]))
	}
	return views, nil
}

func toFeedbackView(entry *models.Feedback) *FeedbackView {
	return &FeedbackView{
		ID:        entry.ID,
		OrderID:   entry.OrderID,
		HotelID:   entry.HotelID,
		Rating:    entry.Rating,
		Comment:   entry.Comment,
		CreatedAt: entry.CreatedAt,
	}
}
