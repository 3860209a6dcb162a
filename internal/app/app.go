package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/chargemap/chargemap/backend-go/internal/account"
	"github.com/chargemap/chargemap/backend-go/internal/auth"
	"github.com/chargemap/chargemap/backend-go/internal/cache"
	"github.com/chargemap/chargemap/backend-go/internal/config"
	"github.com/chargemap/chargemap/backend-go/internal/events"
	"github.com/chargemap/chargemap/backend-go/internal/geocode"
	"github.com/chargemap/chargemap/backend-go/internal/handler"
	"github.com/chargemap/chargemap/backend-go/internal/station"
	"github.com/chargemap/chargemap/backend-go/internal/store"
	"github.com/chargemap/chargemap/backend-go/pkg/http/client"
)

// App holds the wired services shared by the Lambda and HTTP server binaries
type App struct {
	DB       *sql.DB
	Stations *station.Service
	Engine   *gin.Engine

	closers []func() error
}

// Open connects to PostgreSQL and the optional brokers and caches named in cfg,
// then wires the services. Call Close when done.
func Open(ctx context.Context, cfg *config.Config, cacheCfg *config.CacheConfig) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := store.Open(ctx, cfg.DatabaseURL, store.Options{})
	if err != nil {
		return nil, err
	}
	closers := []func() error{db.Close}

	var publisher station.EventPublisher = events.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		conn, err := events.DialRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			_ = closeAll(closers)
			return nil, err
		}
		closers = append(closers, conn.Close)

		rabbit, err := events.NewRabbitPublisher(conn)
		if err != nil {
			_ = closeAll(closers)
			return nil, err
		}
		closers = append(closers, rabbit.Close)
		publisher = rabbit
	} else {
		log.Info().Msg("RABBITMQ_URL not set, station events are not published")
	}

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpire)
	if err != nil {
		_ = closeAll(closers)
		return nil, err
	}

	a := New(db, tokens, publisher, newPlaces(ctx, cfg, cacheCfg))
	a.closers = closers
	return a, nil
}

func newPlaces(ctx context.Context, cfg *config.Config, cacheCfg *config.CacheConfig) *geocode.Service {
	httpClient := client.New(client.Options{
		BaseURL:    cfg.NominatimBaseURL,
		UserAgent:  cfg.UserAgent,
		Timeout:    cfg.HTTPTimeout,
		MaxRetries: cfg.MaxRetries,
	})
	nominatim := geocode.NewNominatimClient(httpClient)

	placeCache, err := cache.NewGeocodeCacheFromEnv(ctx, cacheCfg)
	if err != nil {
		log.Warn().Err(err).Msg("Geocode cache unavailable, lookups go straight to Nominatim")
		return geocode.NewService(nominatim, nil)
	}
	return geocode.NewService(nominatim, placeCache)
}

// New wires services over already opened resources.
func New(db *sql.DB, tokens *auth.TokenIssuer, publisher station.EventPublisher, places handler.PlaceLookup) *App {
	users := store.NewUserRepo(db)
	stations := station.NewService(store.NewStationRepo(db), publisher)

	engine := handler.NewEngine(handler.Dependencies{
		Accounts: account.NewService(users, tokens),
		Stations: stations,
		Places:   places,
		Tokens:   tokens,
		Admin:    store.NewAdmin(db),
	})

	return &App{
		DB:       db,
		Stations: stations,
		Engine:   engine,
	}
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	return closeAll(a.closers)
}

func closeAll(closers []func() error) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
