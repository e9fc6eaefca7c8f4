package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	authsvc "github.com/anandkrishnan/mealdash-backend/internal/auth"
	"github.com/anandkrishnan/mealdash-backend/internal/catalog"
	"github.com/anandkrishnan/mealdash-backend/internal/feedback"
	"github.com/anandkrishnan/mealdash-backend/internal/fulfillment"
	"github.com/anandkrishnan/mealdash-backend/internal/hotels"
	"github.com/anandkrishnan/mealdash-backend/internal/orders"
	"github.com/anandkrishnan/mealdash-backend/internal/placement"
	"github.com/anandkrishnan/mealdash-backend/internal/reports"
	"github.com/anandkrishnan/mealdash-backend/internal/users"
	pkgauth "github.com/anandkrishnan/mealdash-backend/pkg/auth"
	"github.com/anandkrishnan/mealdash-backend/pkg/auth/session"
	"github.com/anandkrishnan/mealdash-backend/pkg/config"
	"github.com/anandkrishnan/mealdash-backend/pkg/enums"
	"github.com/anandkrishnan/mealdash-backend/pkg/logger"
	"github.com/anandkrishnan/mealdash-backend/pkg/pagination"
	pkgredis "github.com/anandkrishnan/mealdash-backend/pkg/redis"
)

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Register(ctx context.Context, input authsvc.RegisterInput) (*authsvc.RegisterResult, error) {
	return &authsvc.RegisterResult{UserID: uuid.New(), Email: input.Email}, nil
}

func (stubAuthService) Login(ctx context.Context, input authsvc.LoginInput) (*authsvc.LoginResult, error) {
	return &authsvc.LoginResult{}, nil
}

func (stubAuthService) Refresh(ctx context.Context, input authsvc.RefreshInput) (*authsvc.TokenPair, error) {
	return &authsvc.TokenPair{}, nil
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

type stubUsersService struct{}

func (stubUsersService) GetProfile(ctx context.Context, userID uuid.UUID) (*users.ProfileView, error) {
	return &users.ProfileView{ID: userID}, nil
}

func (stubUsersService) UpdateProfile(ctx context.Context, userID uuid.UUID, input users.UpdateProfileInput) (*users.ProfileView, error) {
	return &users.ProfileView{ID: userID}, nil
}

type stubHotelsService struct{}

func (stubHotelsService) Register(ctx context.Context, ownerUserID uuid.UUID, input hotels.RegisterInput) (*hotels.HotelView, error) {
	return &hotels.HotelView{ID: uuid.New(), Name: input.Name}, nil
}

func (stubHotelsService) Review(ctx context.Context, hotelID uuid.UUID, approve bool) (*hotels.HotelView, error) {
	return &hotels.HotelView{ID: hotelID}, nil
}

func (stubHotelsService) SetOpen(ctx context.Context, hotelID, ownerUserID uuid.UUID, open bool) (*hotels.HotelView, error) {
	return &hotels.HotelView{ID: hotelID, IsOpen: open}, nil
}

func (stubHotelsService) GetHotel(ctx context.Context, hotelID uuid.UUID) (*hotels.HotelView, error) {
	return &hotels.HotelView{ID: hotelID}, nil
}

func (stubHotelsService) GetOwnHotel(ctx context.Context, ownerUserID uuid.UUID) (*hotels.HotelView, error) {
	return &hotels.HotelView{}, nil
}

func (stubHotelsService) ListOpenHotels(ctx context.Context) ([]hotels.HotelView, error) {
	return nil, nil
}

func (stubHotelsService) ListPendingHotels(ctx context.Context) ([]hotels.HotelView, error) {
	return nil, nil
}

func (stubHotelsService) IsOpenForOrders(ctx context.Context, hotelID uuid.UUID) (bool, error) {
	return true, nil
}

func (stubHotelsService) IsOwner(ctx context.Context, hotelID, userID uuid.UUID) (bool, error) {
	return true, nil
}

type stubCatalogService struct{}

func (stubCatalogService) CreateItem(ctx context.Context, input catalog.CreateItemInput) (*catalog.ItemView, error) {
	return &catalog.ItemView{ID: uuid.New()}, nil
}

func (stubCatalogService) UpdateItem(ctx context.Context, input catalog.UpdateItemInput) error {
	return nil
}

func (stubCatalogService) DeleteItem(ctx context.Context, hotelID, itemID uuid.UUID) error {
	return nil
}

func (stubCatalogService) ListMenu(ctx context.Context, hotelID uuid.UUID, availableOnly bool) ([]catalog.ItemView, error) {
	return nil, nil
}

type stubPlacementService struct{}

func (stubPlacementService) PlaceOrder(ctx context.Context, input placement.PlaceOrderInput) (*placement.PlaceOrderResult, error) {
	return &placement.PlaceOrderResult{OrderID: uuid.New()}, nil
}

type stubFulfillmentService struct{}

func (stubFulfillmentService) Confirm(ctx context.Context, orderID, actorUserID uuid.UUID) (*fulfillment.ConfirmResult, error) {
	return &fulfillment.ConfirmResult{OrderID: orderID}, nil
}

func (stubFulfillmentService) ConfirmPlacedOrder(ctx context.Context, orderID uuid.UUID) (*fulfillment.ConfirmResult, error) {
	return &fulfillment.ConfirmResult{OrderID: orderID}, nil
}

func (stubFulfillmentService) ConfirmOnlinePayment(ctx context.Context, orderID, userID uuid.UUID) (*fulfillment.ConfirmResult, error) {
	return &fulfillment.ConfirmResult{OrderID: orderID}, nil
}

func (stubFulfillmentService) Complete(ctx context.Context, input fulfillment.CompleteInput) (*fulfillment.CompleteResult, error) {
	return &fulfillment.CompleteResult{OrderID: input.OrderID, Completed: true}, nil
}

type stubOrdersService struct{}

func (stubOrdersService) HotelQueue(ctx context.Context, hotelID uuid.UUID, phoneQuery string) ([]orders.HotelQueueEntry, error) {
	return nil, nil
}

func (stubOrdersService) LookupByPickupCode(ctx context.Context, hotelID uuid.UUID, code string) (*orders.OrderView, error) {
	return &orders.OrderView{HotelID: hotelID}, nil
}

func (stubOrdersService) GetOrder(ctx context.Context, orderID, userID uuid.UUID) (*orders.OrderView, error) {
	return &orders.OrderView{ID: orderID}, nil
}

func (stubOrdersService) UserOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*orders.UserOrderList, error) {
	return &orders.UserOrderList{}, nil
}

type stubFeedbackService struct{}

func (stubFeedbackService) SubmitFeedback(ctx context.Context, input feedback.SubmitInput) (*feedback.FeedbackView, error) {
	return &feedback.FeedbackView{ID: uuid.New()}, nil
}

func (stubFeedbackService) ListHotelFeedback(ctx context.Context, hotelID uuid.UUID) ([]feedback.FeedbackView, error) {
	return nil, nil
}

type memoryIdemStore struct {
	records map[string]string
}

func newMemoryIdemStore() *memoryIdemStore {
	return &memoryIdemStore{records: map[string]string{}}
}

func (s *memoryIdemStore) Get(ctx context.Context, key string) (string, error) {
	value, ok := s.records[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (s *memoryIdemStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := s.records[key]; ok {
		return false, nil
	}
	s.records[key] = fmt.Sprint(value)
	return true, nil
}

func (s *memoryIdemStore) IdempotencyKey(scope, id string) string {
	return "idem:" + scope + ":" + id
}

func (s *memoryIdemStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.records, key)
	}
	return nil
}

type countingPlacementService struct {
	calls int
}

func (s *countingPlacementService) PlaceOrder(ctx context.Context, input placement.PlaceOrderInput) (*placement.PlaceOrderResult, error) {
	s.calls++
	return &placement.PlaceOrderResult{OrderID: uuid.New()}, nil
}

type stubReportsService struct{}

func (stubReportsService) ReportCustomer(ctx context.Context, input reports.ReportInput) (*reports.ReportResult, error) {
	return &reports.ReportResult{ReportedUserID: input.ReportedUserID}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:       cfg,
		Logger:       logg,
		Sessions:     stubSessionChecker{},
		AuthService:  stubAuthService{},
		UsersService: stubUsersService{},
		Hotels:       stubHotelsService{},
		Catalog:      stubCatalogService{},
		Placement:    stubPlacementService{},
		Fulfillment:  stubFulfillmentService{},
		Orders:       stubOrdersService{},
		Feedback:     stubFeedbackService{},
		Reports:      stubReportsService{},
	})
}

func newReplayTestRouter(cfg *config.Config, store pkgredis.IdempotencyStore, svc placement.Service) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:           cfg,
		Logger:           logg,
		IdempotencyStore: store,
		Sessions:         stubSessionChecker{},
		AuthService:      stubAuthService{},
		UsersService:     stubUsersService{},
		Hotels:           stubHotelsService{},
		Catalog:          stubCatalogService{},
		Placement:        svc,
		Fulfillment:      stubFulfillmentService{},
		Orders:           stubOrdersService{},
		Feedback:         stubFeedbackService{},
		Reports:          stubReportsService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole, hotelID *uuid.UUID) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID:  uuid.New(),
		Role:    role,
		HotelID: hotelID,
		JTI:     session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestPublicBrowsingNeedsNoToken(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/hotels", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCustomerGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestCustomerGroupRejectsHotelRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	hotelID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleHotel, &hotelID))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for hotel role got %d", resp.Code)
	}
}

func TestCustomerOrdersSucceedWithToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestHotelGroupRequiresHotelContext(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	// hotel role but no registered hotel yet
	req := httptest.NewRequest(http.MethodGet, "/api/v1/hotel/orders", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleHotel, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without hotel claim got %d", resp.Code)
	}

	hotelID := uuid.New()
	withHotel := httptest.NewRequest(http.MethodGet, "/api/v1/hotel/orders", nil)
	withHotel.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleHotel, &hotelID))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, withHotel)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with hotel claim got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	nonAdmin := httptest.NewRequest(http.MethodGet, "/api/v1/admin/hotels/pending", nil)
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/v1/admin/hotels/pending", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin, nil))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestOrderPlacementRequiresIdempotencyKey(t *testing.T) {
	cfg := testConfig()
	store := newMemoryIdemStore()
	placed := &countingPlacementService{}
	router := newReplayTestRouter(cfg, store, placed)

	body := fmt.Sprintf(`{"hotel_id":%q,"items":[{"menu_item_id":%q,"quantity":1}],"total_people":2,"payment_mode":"online"}`,
		uuid.New(), uuid.New())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without Idempotency-Key got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Idempotency-Key") {
		t.Fatalf("expected header complaint, got body %s", resp.Body.String())
	}
	if placed.calls != 0 {
		t.Fatalf("placement ran %d times before key validation", placed.calls)
	}
}

func TestOrderPlacementReplaysDuplicateKey(t *testing.T) {
	cfg := testConfig()
	store := newMemoryIdemStore()
	placed := &countingPlacementService{}
	router := newReplayTestRouter(cfg, store, placed)
	token := buildToken(t, cfg, enums.UserRoleCustomer, nil)

	body := fmt.Sprintf(`{"hotel_id":%q,"items":[{"menu_item_id":%q,"quantity":1}],"total_people":2,"payment_mode":"online"}`,
		uuid.New(), uuid.New())
	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Idempotency-Key", "place-once")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		return resp
	}

	first := send()
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201 on first attempt got %d", first.Code)
	}
	second := send()
	if second.Code != http.StatusCreated {
		t.Fatalf("expected 201 on replay got %d", second.Code)
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("replay body %s differs from original %s", second.Body.String(), first.Body.String())
	}
	if placed.calls != 1 {
		t.Fatalf("placement ran %d times, want 1", placed.calls)
	}
	if len(store.records) != 1 {
		t.Fatalf("expected one stored record, got %d", len(store.records))
	}
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(testConfig())

	live := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, live)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for live got %d", resp.Code)
	}

	ready := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, ready)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for ready got %d", resp.Code)
	}
}
