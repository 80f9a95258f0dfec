package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/repository"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/middleware"
)

// =============================================================================
// Mock repositories
// =============================================================================

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *mockProductRepo) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockCategoryRepo struct {
	mock.Mock
}

func (m *mockCategoryRepo) Create(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *mockCategoryRepo) ListAll(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *mockCategoryRepo) ListByNames(ctx context.Context, names []string) ([]domain.Category, error) {
	args := m.Called(ctx, names)
	return args.Get(0).([]domain.Category), args.Error(1)
}

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) CreateAndUpdateRating(ctx context.Context, review *domain.Review) (float64, error) {
	args := m.Called(ctx, review)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockReviewRepo) ListByProductID(ctx context.Context, productID string, page, perPage int) ([]domain.Review, int, error) {
	args := m.Called(ctx, productID, page, perPage)
	return args.Get(0).([]domain.Review), args.Int(1), args.Error(2)
}

func (m *mockReviewRepo) GetSummary(ctx context.Context, productID string) (*domain.ReviewSummary, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewSummary), args.Error(1)
}

type mockProfileRepo struct {
	mock.Mock
}

func (m *mockProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

func (m *mockProfileRepo) Update(ctx context.Context, profile *domain.UserProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

type mockWishlistRepo struct {
	mock.Mock
}

func (m *mockWishlistRepo) Add(ctx context.Context, profileID, productID string) error {
	args := m.Called(ctx, profileID, productID)
	return args.Error(0)
}

func (m *mockWishlistRepo) Remove(ctx context.Context, profileID, productID string) error {
	args := m.Called(ctx, profileID, productID)
	return args.Error(0)
}

func (m *mockWishlistRepo) List(ctx context.Context, profileID string, page, perPage int) ([]domain.Product, int, error) {
	args := m.Called(ctx, profileID, page, perPage)
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *mockWishlistRepo) Exists(ctx context.Context, profileID, productID string) (bool, error) {
	args := m.Called(ctx, profileID, productID)
	return args.Bool(0), args.Error(1)
}

type mockContactRepo struct {
	mock.Mock
}

func (m *mockContactRepo) Create(ctx context.Context, contact *domain.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

type mockSubscriberRepo struct {
	mock.Mock
}

func (m *mockSubscriberRepo) Create(ctx context.Context, subscriber *domain.Subscriber) error {
	args := m.Called(ctx, subscriber)
	return args.Error(0)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User, profile *domain.UserProfile) error {
	args := m.Called(ctx, user, profile)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) SetSuperuser(ctx context.Context, id string, isSuperuser bool) error {
	args := m.Called(ctx, id, isSuperuser)
	return args.Error(0)
}

// =============================================================================
// Test harness
// =============================================================================

const (
	shopperToken = "shopper-token"
	ownerToken   = "owner-token"
	shopperID    = "0d7c2b1e-5f7a-4a8e-9c1d-2b3e4f5a6b7c"
	ownerID      = "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"
)

type testEnv struct {
	router      http.Handler
	products    *mockProductRepo
	categories  *mockCategoryRepo
	reviews     *mockReviewRepo
	profiles    *mockProfileRepo
	wishlist    *mockWishlistRepo
	contacts    *mockContactRepo
	subscribers *mockSubscriberRepo
	users       *mockUserRepo
}

type tokenIssuer struct{}

func (tokenIssuer) GenerateAccessToken(userID, _ string, _ bool) (string, time.Time, error) {
	return "token-for-" + userID, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), nil
}

func staticValidator(token string) (*middleware.Claims, error) {
	switch token {
	case shopperToken:
		return &middleware.Claims{UserID: shopperID, Email: "shopper@example.com"}, nil
	case ownerToken:
		return &middleware.Claims{UserID: ownerID, Email: "owner@example.com", IsSuperuser: true}, nil
	}
	return nil, errors.New("invalid token")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T, limiter *middleware.RateLimiter) *testEnv {
	t.Helper()
	env := &testEnv{
		products:    new(mockProductRepo),
		categories:  new(mockCategoryRepo),
		reviews:     new(mockReviewRepo),
		profiles:    new(mockProfileRepo),
		wishlist:    new(mockWishlistRepo),
		contacts:    new(mockContactRepo),
		subscribers: new(mockSubscriberRepo),
		users:       new(mockUserRepo),
	}

	logger := testLogger()
	producer := event.NewProducer(nil, logger)
	svcs := Services{
		Products: service.NewProductService(env.products, env.categories, env.reviews, env.profiles, env.wishlist, producer, logger),
		Reviews:  service.NewReviewService(env.reviews, env.profiles, producer, logger),
		Contact:  service.NewContactService(env.contacts, env.subscribers, nil, producer, logger),
		Accounts: service.NewAccountService(env.users, env.profiles, tokenIssuer{}, logger),
		Wishlist: service.NewWishlistService(env.wishlist, env.products, env.profiles, logger),
	}

	env.router = NewRouter(svcs, staticValidator, limiter, health.NewHandler(), RouterConfig{
		CORS:               middleware.DefaultCORSConfig(),
		CatalogCacheMaxAge: 60,
	}, logger)
	return env
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		if s, ok := body.(string); ok {
			r = bytes.NewBufferString(s)
		} else {
			b, _ := json.Marshal(body)
			r = bytes.NewReader(b)
		}
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// envelope mirrors httputil.Response with Data left raw for typed decoding.
type envelope struct {
	Data     json.RawMessage         `json:"data"`
	Messages []httputil.Message      `json:"messages"`
	Redirect string                  `json:"redirect"`
	Error    *httputil.ErrorResponse `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

func decodeData(t *testing.T, env envelope, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dst))
}
