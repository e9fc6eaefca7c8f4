package cron

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/anandkrishnan/mealdash-backend/internal/orders"
	"github.com/anandkrishnan/mealdash-backend/pkg/db/models"
	"github.com/anandkrishnan/mealdash-backend/pkg/enums"
	"github.com/anandkrishnan/mealdash-backend/pkg/logger"
	"github.com/anandkrishnan/mealdash-backend/pkg/pagination"
)

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type memOrdersRepo struct {
	statuses  map[uuid.UUID]enums.OrderStatus
	createdAt map[uuid.UUID]time.Time

	// scanOverride forces FindPendingBefore to return a fixed result set,
	// simulating a scan that went stale before the guarded update ran.
	scanOverride []models.Order
}

func newMemOrdersRepo() *memOrdersRepo {
	return &memOrdersRepo{
		statuses:  map[uuid.UUID]enums.OrderStatus{},
		createdAt: map[uuid.UUID]time.Time{},
	}
}

func (m *memOrdersRepo) addOrder(status enums.OrderStatus, createdAt time.Time) uuid.UUID {
	id := uuid.New()
	m.statuses[id] = status
	m.createdAt[id] = createdAt
	return id
}

func (m *memOrdersRepo) WithTx(tx *gorm.DB) orders.Repository { return m }

func (m *memOrdersRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	return order, nil
}

func (m *memOrdersRepo) CreateLineItems(ctx context.Context, items []models.OrderLineItem) error {
	return nil
}

func (m *memOrdersRepo) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *memOrdersRepo) FindOrderByPickupCode(ctx context.Context, hotelID uuid.UUID, code string) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *memOrdersRepo) ListActiveForHotel(ctx context.Context, hotelID uuid.UUID, phoneQuery string) ([]orders.HotelQueueEntry, error) {
	return nil, nil
}

func (m *memOrdersRepo) ListForUser(ctx context.Context, userID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Order, error) {
	return nil, nil
}

func (m *memOrdersRepo) UpdateOrderStatusIf(ctx context.Context, orderID uuid.UUID, from []enums.OrderStatus, to enums.OrderStatus) (bool, error) {
	current, ok := m.statuses[orderID]
	if !ok {
		return false, nil
	}
	for _, status := range from {
		if current == status {
			m.statuses[orderID] = to
			return true, nil
		}
	}
	return false, nil
}

func (m *memOrdersRepo) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	return nil
}

func (m *memOrdersRepo) SetPickupCredential(ctx context.Context, orderID uuid.UUID, code, imageURL string) error {
	return nil
}

func (m *memOrdersRepo) MarkCompleted(ctx context.Context, orderID uuid.UUID, late *bool) error {
	return nil
}

func (m *memOrdersRepo) MarkFeedbackGiven(ctx context.Context, orderID uuid.UUID) (bool, error) {
	return false, nil
}

func (m *memOrdersRepo) FindPendingBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error) {
	if m.scanOverride != nil {
		return m.scanOverride, nil
	}
	var rows []models.Order
	for id, status := range m.statuses {
		if status != enums.OrderStatusPendingConfirmation {
			continue
		}
		if m.createdAt[id].Before(cutoff) {
			rows = append(rows, models.Order{ID: id, Status: status, CreatedAt: m.createdAt[id]})
		}
	}
	return rows, nil
}

func newExpiryJob(t *testing.T, repo orders.Repository) *orderExpiryJob {
	t.Helper()
	job, err := NewOrderExpiryJob(OrderExpiryJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "test"}),
		DB:         stubTx{},
		OrdersRepo: repo,
		PendingTTL: 30 * time.Minute,
	})
	require.NoError(t, err)
	return job.(*orderExpiryJob)
}

func TestOrderExpiryJob(t *testing.T) {
	repo := newMemOrdersRepo()
	now := time.Now().UTC()

	stale := repo.addOrder(enums.OrderStatusPendingConfirmation, now.Add(-time.Hour))
	fresh := repo.addOrder(enums.OrderStatusPendingConfirmation, now.Add(-time.Minute))
	confirmed := repo.addOrder(enums.OrderStatusPreparing, now.Add(-time.Hour))

	job := newExpiryJob(t, repo)
	require.NoError(t, job.Run(context.Background()))

	assert.Equal(t, enums.OrderStatusExpired, repo.statuses[stale])
	assert.Equal(t, enums.OrderStatusPendingConfirmation, repo.statuses[fresh])
	assert.Equal(t, enums.OrderStatusPreparing, repo.statuses[confirmed])
}

func TestOrderExpiryJobSkipsRacedOrders(t *testing.T) {
	repo := newMemOrdersRepo()
	now := time.Now().UTC()
	// a hotel confirmed this order between the scan and the guarded update
	raced := repo.addOrder(enums.OrderStatusPreparing, now.Add(-time.Hour))
	repo.scanOverride = []models.Order{{ID: raced, Status: enums.OrderStatusPendingConfirmation}}

	job := newExpiryJob(t, repo)
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, enums.OrderStatusPreparing, repo.statuses[raced])
}

func TestRegistryOrderAndNilJobs(t *testing.T) {
	registry := NewRegistry(nil)
	assert.Empty(t, registry.Jobs())

	repo := newMemOrdersRepo()
	job := newExpiryJob(t, repo)
	registry.Register(job)
	registry.Register(nil)

	jobs := registry.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "order-expiry", jobs[0].Name())
}
