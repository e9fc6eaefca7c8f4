package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/anandkrishnan/mealdash-backend/pkg/db/models"
	"github.com/anandkrishnan/mealdash-backend/pkg/enums"
	"github.com/anandkrishnan/mealdash-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  full_name TEXT NOT NULL,
  phone TEXT,
  address TEXT,
  role TEXT NOT NULL DEFAULT 'customer',
  is_premium INTEGER NOT NULL DEFAULT 0,
  report_count INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  hotel_id TEXT NOT NULL,
  total_people INTEGER NOT NULL DEFAULT 1,
  total_amount TEXT NOT NULL,
  payment_mode TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending_confirmation',
  scheduled_time DATETIME,
  pickup_code TEXT,
  pickup_code_image_url TEXT,
  feedback_given INTEGER NOT NULL DEFAULT 0,
  is_late INTEGER,
  order_time DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	lineItems := `
CREATE TABLE IF NOT EXISTS order_line_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  item_name TEXT NOT NULL,
  unit_price TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(lineItems).Error)
	return db
}

func newUser(t *testing.T, db *gorm.DB, name string, phone string) *models.User {
	t.Helper()

	user := &models.User{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		FullName:     name,
		Role:         enums.UserRoleCustomer,
		IsActive:     true,
	}
	if phone != "" {
		user.Phone = &phone
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newOrder(t *testing.T, db *gorm.DB, userID, hotelID uuid.UUID, status enums.OrderStatus, createdAt time.Time) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:          uuid.New(),
		UserID:      userID,
		HotelID:     hotelID,
		TotalPeople: 2,
		TotalAmount: decimal.RequireFromString("360.00"),
		PaymentMode: enums.PaymentModeCOD,
		Status:      status,
		OrderTime:   createdAt,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestUpdateOrderStatusIfGate(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := newUser(t, db, "Ravi", "")
	order := newOrder(t, db, user.ID, uuid.New(), enums.OrderStatusPendingConfirmation, time.Now())

	ok, err := repo.UpdateOrderStatusIf(ctx, order.ID,
		[]enums.OrderStatus{enums.OrderStatusPendingConfirmation}, enums.OrderStatusPreparing)
	require.NoError(t, err)
	assert.True(t, ok)

	// second invocation is rejected by the status gate
	ok, err = repo.UpdateOrderStatusIf(ctx, order.ID,
		[]enums.OrderStatus{enums.OrderStatusPendingConfirmation}, enums.OrderStatusPreparing)
	require.NoError(t, err)
	assert.False(t, ok)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, "id = ?", order.ID).Error)
	assert.Equal(t, enums.OrderStatusPreparing, reloaded.Status)
}

func TestMarkFeedbackGivenOnce(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := newUser(t, db, "Ravi", "")
	order := newOrder(t, db, user.ID, uuid.New(), enums.OrderStatusCompleted, time.Now())

	ok, err := repo.MarkFeedbackGiven(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkFeedbackGiven(ctx, order.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListActiveForHotelFiltersAndJoins(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	hotelID := uuid.New()
	ravi := newUser(t, db, "Ravi", "9876543210")
	meera := newUser(t, db, "Meera", "9123456780")

	newOrder(t, db, ravi.ID, hotelID, enums.OrderStatusPreparing, time.Now().Add(-2*time.Hour))
	newOrder(t, db, meera.ID, hotelID, enums.OrderStatusPaid, time.Now().Add(-time.Hour))
	newOrder(t, db, ravi.ID, hotelID, enums.OrderStatusCompleted, time.Now())
	newOrder(t, db, ravi.ID, uuid.New(), enums.OrderStatusPreparing, time.Now())

	entries, err := repo.ListActiveForHotel(ctx, hotelID, "")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Ravi", entries[0].CustomerName)
	assert.Equal(t, "Meera", entries[1].CustomerName)

	filtered, err := repo.ListActiveForHotel(ctx, hotelID, "912345")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Meera", filtered[0].CustomerName)
}

func TestListForUserAttentionView(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := newUser(t, db, "Ravi", "")
	hotelID := uuid.New()
	base := time.Now().Add(-24 * time.Hour)

	active := newOrder(t, db, user.ID, hotelID, enums.OrderStatusPreparing, base.Add(time.Hour))
	awaiting := newOrder(t, db, user.ID, hotelID, enums.OrderStatusCompleted, base.Add(2*time.Hour))
	done := newOrder(t, db, user.ID, hotelID, enums.OrderStatusCompleted, base.Add(3*time.Hour))
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", done.ID).Update("feedback_given", true).Error)
	newOrder(t, db, user.ID, hotelID, enums.OrderStatusExpired, base.Add(4*time.Hour))

	rows, err := repo.ListForUser(ctx, user.ID, nil, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, awaiting.ID, rows[0].ID)
	assert.Equal(t, active.ID, rows[1].ID)
}

func TestListForUserCursor(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := newUser(t, db, "Ravi", "")
	hotelID := uuid.New()
	base := time.Now().Add(-24 * time.Hour)

	var created []*models.Order
	for i := 0; i < 3; i++ {
		created = append(created, newOrder(t, db, user.ID, hotelID, enums.OrderStatusPreparing, base.Add(time.Duration(i)*time.Hour)))
	}

	first, err := repo.ListForUser(ctx, user.ID, nil, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, created[2].ID, first[0].ID)

	cursor := &pagination.Cursor{CreatedAt: first[1].CreatedAt, ID: first[1].ID}
	second, err := repo.ListForUser(ctx, user.ID, cursor, 2)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, created[0].ID, second[0].ID)
}

func TestFindPendingBefore(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := newUser(t, db, "Ravi", "")
	hotelID := uuid.New()

	stale := newOrder(t, db, user.ID, hotelID, enums.OrderStatusPendingConfirmation, time.Now().Add(-2*time.Hour))
	newOrder(t, db, user.ID, hotelID, enums.OrderStatusPendingConfirmation, time.Now())
	newOrder(t, db, user.ID, hotelID, enums.OrderStatusPreparing, time.Now().Add(-2*time.Hour))

	rows, err := repo.FindPendingBefore(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, stale.ID, rows[0].ID)
}

func TestFindOrderPreloadsItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := newUser(t, db, "Ravi", "")
	order := newOrder(t, db, user.ID, uuid.New(), enums.OrderStatusPendingConfirmation, time.Now())

	items := []models.OrderLineItem{
		{ID: uuid.New(), OrderID: order.ID, ItemName: "Dosa", UnitPrice: decimal.RequireFromString("60.00"), Quantity: 2},
		{ID: uuid.New(), OrderID: order.ID, ItemName: "Idli", UnitPrice: decimal.RequireFromString("40.00"), Quantity: 1},
	}
	require.NoError(t, repo.CreateLineItems(ctx, items))

	found, err := repo.FindOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, found.Items, 2)
}
