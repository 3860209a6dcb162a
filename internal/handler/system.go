package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/chargemap/chargemap/backend-go/internal/api"
	"github.com/chargemap/chargemap/backend-go/internal/store"
)

type DatabaseAdmin interface {
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Stats(ctx context.Context) (*store.Stats, error)
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database"`
	Error     string    `json:"error,omitempty"`
}

type DatabaseCounts struct {
	Users            int64 `json:"users"`
	ChargingStations int64 `json:"chargingStations"`
}

type DatabaseStatusResponse struct {
	Collections []string       `json:"collections"`
	Counts      DatabaseCounts `json:"counts"`
	Timestamp   time.Time      `json:"timestamp"`
}

type DatabaseInitResponse struct {
	Message     string    `json:"message"`
	Collections []string  `json:"collections"`
	Timestamp   time.Time `json:"timestamp"`
}

type SystemHandler struct {
	admin       DatabaseAdmin
	now         func() time.Time
	pingTimeout time.Duration
}

func NewSystemHandler(admin DatabaseAdmin) *SystemHandler {
	return &SystemHandler{
		admin:       admin,
		now:         time.Now,
		pingTimeout: 3 * time.Second,
	}
}

func (h *SystemHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/health", h.Health)
	r.GET("/init-db", h.CheckDatabase)
	r.POST("/init-db", h.InitDatabase)
}

func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.pingTimeout)
	defer cancel()

	if err := h.admin.Ping(ctx); err != nil {
		log.Error().Err(err).Msg("Health check failed")
		api.JSON(c, http.StatusServiceUnavailable, HealthResponse{
			Status:    "unhealthy",
			Timestamp: h.now().UTC(),
			Database:  "disconnected",
			Error:     "Database connection failed",
		})
		return
	}

	api.Success(c, HealthResponse{
		Status:    "healthy",
		Timestamp: h.now().UTC(),
		Database:  "connected",
	})
}

func (h *SystemHandler) CheckDatabase(c *gin.Context) {
	stats, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Database check failed")
		api.Error(c, http.StatusInternalServerError, "Failed to check database")
		return
	}

	api.Success(c, DatabaseStatusResponse{
		Collections: stats.Tables,
		Counts: DatabaseCounts{
			Users:            stats.Users,
			ChargingStations: stats.Stations,
		},
		Timestamp: h.now().UTC(),
	})
}

func (h *SystemHandler) InitDatabase(c *gin.Context) {
	if err := h.admin.Migrate(c.Request.Context()); err != nil {
		log.Error().Err(err).Msg("Database initialization failed")
		api.Error(c, http.StatusInternalServerError, "Failed to initialize database")
		return
	}

	api.Success(c, DatabaseInitResponse{
		Message:     "Database initialized successfully",
		Collections: []string{"users", "charging_stations"},
		Timestamp:   h.now().UTC(),
	})
}
