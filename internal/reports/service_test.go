package reports

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/anandkrishnan/mealdash-backend/internal/orders"
	"github.com/anandkrishnan/mealdash-backend/internal/users"
	"github.com/anandkrishnan/mealdash-backend/pkg/db/models"
	"github.com/anandkrishnan/mealdash-backend/pkg/enums"
	pkgerrors "github.com/anandkrishnan/mealdash-backend/pkg/errors"
	"github.com/anandkrishnan/mealdash-backend/pkg/pagination"
)

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type memUsersRepo struct {
	counts  map[uuid.UUID]int
	premium map[uuid.UUID]bool
}

func newMemUsersRepo() *memUsersRepo {
	return &memUsersRepo{counts: map[uuid.UUID]int{}, premium: map[uuid.UUID]bool{}}
}

func (m *memUsersRepo) addUser(premium bool) uuid.UUID {
	id := uuid.New()
	m.counts[id] = 0
	m.premium[id] = premium
	return id
}

func (m *memUsersRepo) WithTx(tx *gorm.DB) users.Repository { return m }

func (m *memUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	return user, nil
}

func (m *memUsersRepo) FindByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *memUsersRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *memUsersRepo) UpdateProfile(ctx context.Context, userID uuid.UUID, updates map[string]any) error {
	return nil
}

func (m *memUsersRepo) TouchLastLogin(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func (m *memUsersRepo) IncrementReportCount(ctx context.Context, userID uuid.UUID) (int, error) {
	if _, ok := m.counts[userID]; !ok {
		return 0, gorm.ErrRecordNotFound
	}
	m.counts[userID]++
	return m.counts[userID], nil
}

func (m *memUsersRepo) ResetReportsIfThreshold(ctx context.Context, userID uuid.UUID, threshold int) (bool, error) {
	if m.counts[userID] < threshold {
		return false, nil
	}
	m.counts[userID] = 0
	m.premium[userID] = false
	return true, nil
}

type memOrdersRepo struct {
	statuses map[uuid.UUID]enums.OrderStatus
}

func newMemOrdersRepo() *memOrdersRepo {
	return &memOrdersRepo{statuses: map[uuid.UUID]enums.OrderStatus{}}
}

func (m *memOrdersRepo) addOrder(status enums.OrderStatus) uuid.UUID {
	id := uuid.New()
	m.statuses[id] = status
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
	return true, nil
}

func (m *memOrdersRepo) FindPendingBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error) {
	return nil, nil
}

func newReportsService(t *testing.T, usersRepo *memUsersRepo, ordersRepo *memOrdersRepo) Service {
	t.Helper()
	svc, err := NewService(usersRepo, ordersRepo, stubTx{}, 3, nil, nil)
	require.NoError(t, err)
	return svc
}

func TestReportBelowThreshold(t *testing.T) {
	usersRepo := newMemUsersRepo()
	ordersRepo := newMemOrdersRepo()
	customer := usersRepo.addUser(true)
	order := ordersRepo.addOrder(enums.OrderStatusPreparing)
	svc := newReportsService(t, usersRepo, ordersRepo)

	result, err := svc.ReportCustomer(context.Background(), ReportInput{
		ReportedUserID: customer,
		OrderID:        order,
		ReporterUserID: uuid.New(),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.ReportCount)
	assert.False(t, result.PremiumRevoked)
	assert.True(t, result.OrderClosed)
	assert.True(t, usersRepo.premium[customer], "premium untouched below the threshold")
	assert.Equal(t, enums.OrderStatusCompleted, ordersRepo.statuses[order])
}

func TestThirdReportRevokesPremium(t *testing.T) {
	usersRepo := newMemUsersRepo()
	ordersRepo := newMemOrdersRepo()
	customer := usersRepo.addUser(true)
	svc := newReportsService(t, usersRepo, ordersRepo)
	ctx := context.Background()

	orderIDs := make([]uuid.UUID, 0, 3)
	var last *ReportResult
	for i := 0; i < 3; i++ {
		order := ordersRepo.addOrder(enums.OrderStatusPreparing)
		orderIDs = append(orderIDs, order)

		result, err := svc.ReportCustomer(ctx, ReportInput{
			ReportedUserID: customer,
			OrderID:        order,
			ReporterUserID: uuid.New(),
		})
		require.NoError(t, err)
		last = result
	}

	assert.True(t, last.PremiumRevoked)
	assert.Equal(t, 0, last.ReportCount)
	assert.False(t, usersRepo.premium[customer])
	assert.Equal(t, 0, usersRepo.counts[customer])
	for _, orderID := range orderIDs {
		assert.Equal(t, enums.OrderStatusCompleted, ordersRepo.statuses[orderID])
	}
}

func TestReportUnknownUser(t *testing.T) {
	usersRepo := newMemUsersRepo()
	ordersRepo := newMemOrdersRepo()
	order := ordersRepo.addOrder(enums.OrderStatusPreparing)
	svc := newReportsService(t, usersRepo, ordersRepo)

	_, err := svc.ReportCustomer(context.Background(), ReportInput{
		ReportedUserID: uuid.New(),
		OrderID:        order,
		ReporterUserID: uuid.New(),
	})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, enums.OrderStatusPreparing, ordersRepo.statuses[order], "order untouched when the user lookup fails")
}

func TestReportClosedOrderStillCounts(t *testing.T) {
	usersRepo := newMemUsersRepo()
	ordersRepo := newMemOrdersRepo()
	customer := usersRepo.addUser(false)
	order := ordersRepo.addOrder(enums.OrderStatusCompleted)
	svc := newReportsService(t, usersRepo, ordersRepo)

	result, err := svc.ReportCustomer(context.Background(), ReportInput{
		ReportedUserID: customer,
		OrderID:        order,
		ReporterUserID: uuid.New(),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.ReportCount)
	assert.False(t, result.OrderClosed)
}

func TestReportValidation(t *testing.T) {
	svc := newReportsService(t, newMemUsersRepo(), newMemOrdersRepo())
	ctx := context.Background()

	_, err := svc.ReportCustomer(ctx, ReportInput{OrderID: uuid.New(), ReporterUserID: uuid.New()})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = svc.ReportCustomer(ctx, ReportInput{ReportedUserID: uuid.New(), ReporterUserID: uuid.New()})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = svc.ReportCustomer(ctx, ReportInput{ReportedUserID: uuid.New(), OrderID: uuid.New()})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized))
}
