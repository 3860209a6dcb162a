package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/chargemap/chargemap/backend-go/internal/geocode"
	"github.com/chargemap/chargemap/backend-go/internal/models"
	"github.com/chargemap/chargemap/backend-go/internal/store"
)

var fixedNow = time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

func newSystemHandler(admin *mockAdmin) *SystemHandler {
	h := NewSystemHandler(admin)
	h.now = func() time.Time { return fixedNow }
	return h
}

func TestSystemHandler_Health(t *testing.T) {
	tests := []struct {
		name     string
		pingErr  error
		wantCode int
		wantBody string
	}{
		{
			name:     "database reachable",
			wantCode: http.StatusOK,
			wantBody: `{"status":"healthy","timestamp":"2024-05-01T10:30:00Z","database":"connected"}`,
		},
		{
			name:     "database down",
			pingErr:  errors.New("dial tcp: connection refused"),
			wantCode: http.StatusServiceUnavailable,
			wantBody: `{"status":"unhealthy","timestamp":"2024-05-01T10:30:00Z","database":"disconnected","error":"Database connection failed"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newSystemHandler(&mockAdmin{
				pingFn: func(ctx context.Context) error {
					_, hasDeadline := ctx.Deadline()
					assert.True(t, hasDeadline)
					return tt.pingErr
				},
			})

			rec := serve(setupRouter(0, h.RegisterRoutes), newRequest(http.MethodGet, "/api/health", ""))
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestSystemHandler_CheckDatabase(t *testing.T) {
	h := newSystemHandler(&mockAdmin{
		statsFn: func(context.Context) (*store.Stats, error) {
			return &store.Stats{Tables: []string{"charging_stations", "users"}, Users: 2, Stations: 5}, nil
		},
	})

	rec := serve(setupRouter(0, h.RegisterRoutes), newRequest(http.MethodGet, "/api/init-db", ""))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"collections": ["charging_stations", "users"],
		"counts": {"users": 2, "chargingStations": 5},
		"timestamp": "2024-05-01T10:30:00Z"
	}`, rec.Body.String())

	failing := newSystemHandler(&mockAdmin{
		statsFn: func(context.Context) (*store.Stats, error) { return nil, errors.New("relation does not exist") },
	})
	rec = serve(setupRouter(0, failing.RegisterRoutes), newRequest(http.MethodGet, "/api/init-db", ""))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to check database"}`, rec.Body.String())
}

func TestSystemHandler_InitDatabase(t *testing.T) {
	migrated := false
	h := newSystemHandler(&mockAdmin{
		migrateFn: func(context.Context) error {
			migrated = true
			return nil
		},
	})

	rec := serve(setupRouter(0, h.RegisterRoutes), newRequest(http.MethodPost, "/api/init-db", ""))
	assert.True(t, migrated)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Database initialized successfully")

	failing := newSystemHandler(&mockAdmin{
		migrateFn: func(context.Context) error { return errors.New("permission denied") },
	})
	rec = serve(setupRouter(0, failing.RegisterRoutes), newRequest(http.MethodPost, "/api/init-db", ""))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to initialize database"}`, rec.Body.String())
}

func TestGeocodeHandler_Lookup(t *testing.T) {
	lookup := &mockPlaceLookup{
		lookupFn: func(_ context.Context, query string) (*models.Place, error) {
			switch query {
			case "":
				return nil, geocode.ErrEmptyQuery
			case "atlantis":
				return nil, geocode.ErrPlaceNotFound
			case "timeout":
				return nil, geocode.NewProviderError("request failed", context.DeadlineExceeded)
			}
			return &models.Place{Query: "lyon", Latitude: 45.76, Longitude: 4.83, DisplayName: "Lyon, France"}, nil
		},
	}
	r := setupRouter(1, NewGeocodeHandler(lookup).RegisterRoutes)

	tests := []struct {
		query    string
		wantCode int
		wantBody string
	}{
		{
			query:    "Lyon",
			wantCode: http.StatusOK,
			wantBody: `{"query":"lyon","latitude":45.76,"longitude":4.83,"displayName":"Lyon, France"}`,
		},
		{query: "", wantCode: http.StatusBadRequest, wantBody: `{"error":"Query parameter q is required"}`},
		{query: "atlantis", wantCode: http.StatusNotFound, wantBody: `{"error":"Location not found"}`},
		{query: "timeout", wantCode: http.StatusBadGateway, wantBody: `{"error":"Geocoding service unavailable"}`},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := serve(r, newRequest(http.MethodGet, withQuery("/api/geocode", map[string]string{"q": tt.query}), ""))
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
