package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/chargemap/chargemap/backend-go/internal/account"
	"github.com/chargemap/chargemap/backend-go/internal/auth"
	"github.com/chargemap/chargemap/backend-go/internal/models"
	"github.com/chargemap/chargemap/backend-go/internal/station"
	"github.com/chargemap/chargemap/backend-go/internal/store"
)

type mockAccountService struct {
	registerFn func(ctx context.Context, req account.RegisterRequest) (*account.AuthResult, error)
	loginFn    func(ctx context.Context, req account.LoginRequest) (*account.AuthResult, error)
}

func (m *mockAccountService) Register(ctx context.Context, req account.RegisterRequest) (*account.AuthResult, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAccountService) Login(ctx context.Context, req account.LoginRequest) (*account.AuthResult, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

type mockStationService struct {
	listFn   func(ctx context.Context, q station.ListQuery) ([]models.Station, error)
	getFn    func(ctx context.Context, id int64) (*models.Station, error)
	createFn func(ctx context.Context, userID int64, in models.StationInput) (*models.Station, error)
	updateFn func(ctx context.Context, id int64, patch models.StationPatch) (*models.Station, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (m *mockStationService) List(ctx context.Context, q station.ListQuery) ([]models.Station, error) {
	if m.listFn != nil {
		return m.listFn(ctx, q)
	}
	return nil, nil
}

func (m *mockStationService) Get(ctx context.Context, id int64) (*models.Station, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *mockStationService) Create(ctx context.Context, userID int64, in models.StationInput) (*models.Station, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, in)
	}
	return nil, errors.New("not implemented")
}

func (m *mockStationService) Update(ctx context.Context, id int64, patch models.StationPatch) (*models.Station, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, patch)
	}
	return nil, errors.New("not implemented")
}

func (m *mockStationService) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockPlaceLookup struct {
	lookupFn func(ctx context.Context, query string) (*models.Place, error)
}

func (m *mockPlaceLookup) Lookup(ctx context.Context, query string) (*models.Place, error) {
	return m.lookupFn(ctx, query)
}

type mockVerifier struct {
	verifyFn func(token string) (*auth.Claims, error)
}

func (m *mockVerifier) Verify(token string) (*auth.Claims, error) {
	if m.verifyFn != nil {
		return m.verifyFn(token)
	}
	if token == "good-token" {
		return &auth.Claims{UserID: 7, Email: "ada@example.com", Username: "ada"}, nil
	}
	return nil, auth.ErrInvalidToken
}

type mockAdmin struct {
	pingFn    func(ctx context.Context) error
	migrateFn func(ctx context.Context) error
	statsFn   func(ctx context.Context) (*store.Stats, error)
}

func (m *mockAdmin) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

func (m *mockAdmin) Migrate(ctx context.Context) error {
	if m.migrateFn != nil {
		return m.migrateFn(ctx)
	}
	return nil
}

func (m *mockAdmin) Stats(ctx context.Context) (*store.Stats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return &store.Stats{Tables: []string{}}, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

// setupRouter mounts a handler's routes under /api as if userID had already
// been authenticated.
func setupRouter(userID int64, register func(r *gin.RouterGroup)) *gin.Engine {
	r := gin.New()
	register(r.Group("/api", func(c *gin.Context) {
		c.Set(userIDKey, userID)
		c.Next()
	}))
	return r
}

func newRequest(method, target, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func authedRequest(method, target, body string) *http.Request {
	req := newRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer good-token")
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func withQuery(path string, params map[string]string) string {
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
