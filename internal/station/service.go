package station

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chargemap/chargemap/backend-go/internal/geo"
	"github.com/chargemap/chargemap/backend-go/internal/models"
)

var ErrRadiusWithoutReference = errors.New("radius requires a reference point")

// EventPublisher receives station changes after they are persisted
type EventPublisher interface {
	Publish(ctx context.Context, event models.StationEvent) error
}

// ListQuery combines the attribute filters with an optional proximity search
type ListQuery struct {
	models.StationFilter
	Reference *geo.Coordinate
	RadiusKm  *float64
	Limit     int
}

type Service struct {
	repo      models.StationRepository
	publisher EventPublisher
	now       func() time.Time
}

func NewService(repo models.StationRepository, publisher EventPublisher) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
	}
}

// List returns stations matching q. With a reference and radius the result is
// limited to the circle and ordered nearest first; with a reference alone
// distances are attached and the store order is kept.
func (s *Service) List(ctx context.Context, q ListQuery) ([]models.Station, error) {
	if q.RadiusKm != nil && q.Reference == nil {
		return nil, ErrRadiusWithoutReference
	}

	filter := q.StationFilter
	if q.Reference != nil {
		if err := q.Reference.Validate(); err != nil {
			return nil, err
		}
		if q.RadiusKm != nil {
			if err := geo.ValidateRadius(*q.RadiusKm); err != nil {
				return nil, err
			}
			box := geo.BoundingBox(*q.Reference, *q.RadiusKm)
			filter.Box = &box
		}
	}

	stations, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing stations: %w", err)
	}

	if q.Reference != nil {
		stations, err = withDistances(*q.Reference, stations, q.RadiusKm)
		if err != nil {
			return nil, err
		}
	}

	if q.Limit > 0 && len(stations) > q.Limit {
		stations = stations[:q.Limit]
	}

	log.Debug().
		Int("count", len(stations)).
		Bool("proximity", q.Reference != nil).
		Msg("Listed stations")
	return stations, nil
}

func withDistances(ref geo.Coordinate, stations []models.Station, radiusKm *float64) ([]models.Station, error) {
	points := make([]geo.Point[int], len(stations))
	for i, st := range stations {
		points[i] = geo.Point[int]{ID: i, Coordinate: st.Coordinate()}
	}

	results, err := geo.Nearby(ref, points, radiusKm)
	if err != nil {
		return nil, fmt.Errorf("computing distances: %w", err)
	}

	out := make([]models.Station, len(results))
	for i, r := range results {
		st := stations[r.ID]
		d := r.DistanceKm
		st.Distance = &d
		out[i] = st
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Station, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, userID int64, in models.StationInput) (*models.Station, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	st, err := s.repo.Create(ctx, userID, in)
	if err != nil {
		return nil, fmt.Errorf("creating station: %w", err)
	}

	log.Info().Int64("station_id", st.ID).Int64("user_id", userID).Msg("Created station")
	s.publish(ctx, models.EventStationCreated, st.ID, st.Status)
	return st, nil
}

func (s *Service) Update(ctx context.Context, id int64, patch models.StationPatch) (*models.Station, error) {
	patch.Normalize()
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	st, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	if !patch.Empty() {
		s.publish(ctx, models.EventStationUpdated, st.ID, st.Status)
	}
	return st, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status models.StationStatus) error {
	if !status.Valid() {
		return models.NewValidationError(stationStatusMessage)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	s.publish(ctx, models.EventStationStatusChanged, id, status)
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Int64("station_id", id).Msg("Deleted station")
	s.publish(ctx, models.EventStationDeleted, id, "")
	return nil
}

// Snapshot returns every station, newest first.
func (s *Service) Snapshot(ctx context.Context) ([]models.Station, error) {
	stations, err := s.repo.List(ctx, models.StationFilter{})
	if err != nil {
		return nil, fmt.Errorf("reading stations for snapshot: %w", err)
	}
	return stations, nil
}

const stationStatusMessage = "Status must be one of: available, occupied, maintenance"

// publish never fails the caller; the write has already been committed.
func (s *Service) publish(ctx context.Context, typ models.StationEventType, id int64, status models.StationStatus) {
	if s.publisher == nil {
		return
	}
	event := models.StationEvent{Type: typ, StationID: id, Status: status, Timestamp: s.now().UTC()}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Error().Err(err).
			Str("event", string(typ)).
			Int64("station_id", id).
			Msg("Failed to publish station event")
	}
}
