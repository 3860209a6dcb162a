package geocode

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/chargemap/chargemap/backend-go/internal/models"
)

type Searcher interface {
	Search(ctx context.Context, query string) (*models.Place, error)
}

// PlaceCache is satisfied by cache.GeocodeCache
type PlaceCache interface {
	GetPlace(ctx context.Context, query string) (*models.Place, error)
	SavePlace(ctx context.Context, place models.Place) error
}

type Service struct {
	searcher Searcher
	cache    PlaceCache
}

// NewService builds a lookup service. cache may be nil.
func NewService(searcher Searcher, cache PlaceCache) *Service {
	return &Service{searcher: searcher, cache: cache}
}

// Lookup resolves query to a place, serving repeated queries from the cache.
// Cache failures are logged and never fail the lookup.
func (s *Service) Lookup(ctx context.Context, query string) (*models.Place, error) {
	key := NormalizeQuery(query)
	if key == "" {
		return nil, ErrEmptyQuery
	}

	if s.cache != nil {
		place, err := s.cache.GetPlace(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("query", key).Msg("Geocode cache read failed")
		} else if place != nil {
			return place, nil
		}
	}

	place, err := s.searcher.Search(ctx, key)
	if err != nil {
		return nil, err
	}
	place.Query = key

	if s.cache != nil {
		if err := s.cache.SavePlace(ctx, *place); err != nil {
			log.Warn().Err(err).Str("query", key).Msg("Geocode cache write failed")
		}
	}
	return place, nil
}

// NormalizeQuery trims, lower-cases and collapses whitespace so equivalent
// queries share a cache entry.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
