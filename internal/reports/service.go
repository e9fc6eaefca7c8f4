package reports

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anandkrishnan/mealdash-backend/internal/orders"
	"github.com/anandkrishnan/mealdash-backend/internal/users"
	"github.com/anandkrishnan/mealdash-backend/pkg/enums"
	pkgerrors "github.com/anandkrishnan/mealdash-backend/pkg/errors"
	"github.com/anandkrishnan/mealdash-backend/pkg/logger"
	"github.com/anandkrishnan/mealdash-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ReportInput identifies the customer being reported and the order that
// prompted the report. Any hotel operator may report any customer.
type ReportInput struct {
	ReportedUserID uuid.UUID
	OrderID        uuid.UUID
	ReporterUserID uuid.UUID
}

// ReportResult describes what the report did to the customer's standing.
type ReportResult struct {
	ReportedUserID uuid.UUID `json:"reported_user_id"`
	ReportCount    int       `json:"report_count"`
	PremiumRevoked bool      `json:"premium_revoked"`
	OrderClosed    bool      `json:"order_closed"`
}

type Service interface {
	ReportCustomer(ctx context.Context, input ReportInput) (*ReportResult, error)
}

type service struct {
	usersRepo  users.Repository
	ordersRepo orders.Repository
	tx         txRunner
	threshold  int
	logg       *logger.Logger
	metrics    *metrics.OrderMetrics
}

func NewService(usersRepo users.Repository, ordersRepo orders.Repository, tx txRunner, threshold int, logg *logger.Logger, orderMetrics *metrics.OrderMetrics) (Service, error) {
	if usersRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if threshold < 1 {
		return nil, fmt.Errorf("report threshold must be at least 1, got %d", threshold)
	}
	return &service{
		usersRepo:  usersRepo,
		ordersRepo: ordersRepo,
		tx:         tx,
		threshold:  threshold,
		logg:       logg,
		metrics:    orderMetrics,
	}, nil
}

// ReportCustomer bumps the customer's report counter, strips the premium
// flag once the counter reaches the threshold, and force-closes the
// referenced order so it drops out of the operator's queue. The whole step
// runs in one transaction.
func (s *service) ReportCustomer(ctx context.Context, input ReportInput) (*ReportResult, error) {
	if input.ReporterUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "reporter identity missing")
	}
	if input.ReportedUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reported user id required")
	}
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var result *ReportResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		usersRepo := s.usersRepo.WithTx(tx)
		ordersRepo := s.ordersRepo.WithTx(tx)

		count, err := usersRepo.IncrementReportCount(ctx, input.ReportedUserID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "reported user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment report count")
		}

		revoked := false
		if count >= s.threshold {
			revoked, err = usersRepo.ResetReportsIfThreshold(ctx, input.ReportedUserID, s.threshold)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset report count")
			}
			if revoked {
				count = 0
			}
		}

		// Close the order no matter where the counter landed. A report about
		// an already closed order is still a valid report.
		closed, err := ordersRepo.UpdateOrderStatusIf(ctx, input.OrderID,
			[]enums.OrderStatus{
				enums.OrderStatusPendingConfirmation,
				enums.OrderStatusPreparing,
				enums.OrderStatusPaid,
			}, enums.OrderStatusCompleted)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close reported order")
		}

		result = &ReportResult{
			ReportedUserID: input.ReportedUserID,
			ReportCount:    count,
			PremiumRevoked: revoked,
			OrderClosed:    closed,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		lctx := s.logg.WithUserID(ctx, input.ReportedUserID.String())
		s.logg.Warn(s.logg.WithField(lctx, "order_id", input.OrderID.String()), "customer reported by hotel operator")
	}
	s.metrics.IncReport()
	return result, nil
}
