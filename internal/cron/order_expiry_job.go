package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/anandkrishnan/mealdash-backend/internal/orders"
	"github.com/anandkrishnan/mealdash-backend/pkg/enums"
	"github.com/anandkrishnan/mealdash-backend/pkg/logger"
	"github.com/anandkrishnan/mealdash-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// OrderExpiryJobParams configure the stale pending order sweeper.
type OrderExpiryJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	OrdersRepo orders.Repository
	PendingTTL time.Duration
	Metrics    *metrics.OrderMetrics
}

// NewOrderExpiryJob builds the job that expires orders the hotel never
// confirmed. Expiry never touches stock: nothing was decremented for a
// pending order.
func NewOrderExpiryJob(params OrderExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.OrdersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.PendingTTL <= 0 {
		return nil, fmt.Errorf("pending ttl must be positive")
	}
	return &orderExpiryJob{
		logg:       params.Logger,
		db:         params.DB,
		ordersRepo: params.OrdersRepo,
		pendingTTL: params.PendingTTL,
		metrics:    params.Metrics,
		now:        time.Now,
	}, nil
}

type orderExpiryJob struct {
	logg       *logger.Logger
	db         txRunner
	ordersRepo orders.Repository
	pendingTTL time.Duration
	metrics    *metrics.OrderMetrics
	now        func() time.Time
}

func (j *orderExpiryJob) Name() string { return "order-expiry" }

func (j *orderExpiryJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.pendingTTL)
	stale, err := j.ordersRepo.FindPendingBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("query stale pending orders: %w", err)
	}

	var errs []error
	expired := 0
	for _, order := range stale {
		err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
			repo := j.ordersRepo.WithTx(tx)
			ok, err := repo.UpdateOrderStatusIf(ctx, order.ID,
				[]enums.OrderStatus{enums.OrderStatusPendingConfirmation},
				enums.OrderStatusExpired)
			if err != nil {
				return err
			}
			if !ok {
				// confirmed or reported between the query and this update
				return nil
			}
			expired++
			return nil
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("expire order %s: %w", order.ID, err))
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{"scanned": len(stale), "expired": expired})
	j.logg.Info(logCtx, "order expiry sweep complete")
	if j.metrics != nil {
		for i := 0; i < expired; i++ {
			j.metrics.IncExpired()
		}
	}
	return multierr.Combine(errs...)
}
