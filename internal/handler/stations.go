package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/chargemap/chargemap/backend-go/internal/api"
	"github.com/chargemap/chargemap/backend-go/internal/geo"
	"github.com/chargemap/chargemap/backend-go/internal/models"
	"github.com/chargemap/chargemap/backend-go/internal/station"
)

const stationNotFound = "Charging station not found"

type StationService interface {
	List(ctx context.Context, q station.ListQuery) ([]models.Station, error)
	Get(ctx context.Context, id int64) (*models.Station, error)
	Create(ctx context.Context, userID int64, in models.StationInput) (*models.Station, error)
	Update(ctx context.Context, id int64, patch models.StationPatch) (*models.Station, error)
	Delete(ctx context.Context, id int64) error
}

type PlaceLookup interface {
	Lookup(ctx context.Context, query string) (*models.Place, error)
}

type StationsHandler struct {
	stations StationService
	places   PlaceLookup
}

// NewStationsHandler builds the station endpoints. places may be nil, which
// disables the location query parameter.
func NewStationsHandler(stations StationService, places PlaceLookup) *StationsHandler {
	return &StationsHandler{
		stations: stations,
		places:   places,
	}
}

func (h *StationsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/charging-stations", h.List)
	r.POST("/charging-stations", h.Create)
	r.GET("/charging-stations/:id", h.Get)
	r.PUT("/charging-stations/:id", h.Update)
	r.DELETE("/charging-stations/:id", h.Delete)
}

func (h *StationsHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	q, err := h.listQuery(ctx, c)
	if err != nil {
		errorResponse(c, err, "Location not found")
		return
	}

	stations, err := h.stations.List(ctx, q)
	if err != nil {
		errorResponse(c, err, stationNotFound)
		return
	}
	if stations == nil {
		stations = []models.Station{}
	}
	api.Success(c, stations)
}

// listQuery turns query string parameters into a station.ListQuery. Explicit
// lat and lng take precedence over a location name.
func (h *StationsHandler) listQuery(ctx context.Context, c *gin.Context) (station.ListQuery, error) {
	var q station.ListQuery

	if s := strings.TrimSpace(c.Query("status")); s != "" && s != "all" {
		status := models.StationStatus(s)
		if !status.Valid() {
			return q, models.NewValidationError("Status must be one of: available, occupied, maintenance")
		}
		q.Status = status
	}

	if ct := strings.TrimSpace(c.Query("connectorType")); ct != "" && ct != "all" {
		connector := models.ConnectorType(ct)
		if !connector.Valid() {
			return q, models.NewValidationError("Connector type must be one of: Type 1, Type 2, CCS, CHAdeMO, Tesla")
		}
		q.ConnectorType = connector
	}

	var err error
	if q.MaxPrice, err = api.ParseOptionalFloat(c, "maxPrice"); err != nil {
		return q, err
	}
	if q.MaxPrice != nil && *q.MaxPrice < 0 {
		return q, api.InvalidParameterError{Name: "maxPrice", Err: fmt.Errorf("negative price %v", *q.MaxPrice)}
	}
	if q.MinPower, err = api.ParseOptionalInt(c, "minPower"); err != nil {
		return q, err
	}
	if q.MinPower != nil && *q.MinPower < 0 {
		return q, api.InvalidParameterError{Name: "minPower", Err: fmt.Errorf("negative power %d", *q.MinPower)}
	}
	if q.RadiusKm, err = api.ParseOptionalFloat(c, "radius"); err != nil {
		return q, err
	}

	limit, err := api.ParseOptionalInt(c, "limit")
	if err != nil {
		return q, err
	}
	if limit != nil {
		if *limit < 0 {
			return q, api.InvalidParameterError{Name: "limit", Err: fmt.Errorf("negative limit %d", *limit)}
		}
		q.Limit = *limit
	}

	if q.Reference, err = api.ParseCoordinates(c); err != nil {
		return q, err
	}

	location := strings.TrimSpace(c.Query("location"))
	if q.Reference == nil && location != "" {
		if h.places == nil {
			return q, api.InvalidParameterError{Name: "location", Err: fmt.Errorf("geocoding is not configured")}
		}
		place, err := h.places.Lookup(ctx, location)
		if err != nil {
			return q, err
		}
		ref := geo.Coordinate{Latitude: place.Latitude, Longitude: place.Longitude}
		q.Reference = &ref
		log.Debug().Str("location", location).Str("reference", ref.String()).Msg("Resolved location")
	}

	return q, nil
}

// stationID parses the :id path parameter, answering 400 when it is not a
// positive integer.
func stationID(c *gin.Context) (int64, bool) {
	id, ok := api.ParseStationID(c.Param("id"))
	if !ok {
		api.Error(c, http.StatusBadRequest, "Invalid station ID")
	}
	return id, ok
}

func (h *StationsHandler) Get(c *gin.Context) {
	id, ok := stationID(c)
	if !ok {
		return
	}

	st, err := h.stations.Get(c.Request.Context(), id)
	if err != nil {
		errorResponse(c, err, stationNotFound)
		return
	}
	api.Success(c, st)
}

func (h *StationsHandler) Create(c *gin.Context) {
	var in models.StationInput
	if !bindJSON(c, &in) {
		return
	}

	st, err := h.stations.Create(c.Request.Context(), c.GetInt64(userIDKey), in)
	if err != nil {
		errorResponse(c, err, stationNotFound)
		return
	}

	api.Created(c, api.StationResponse{
		Message: "Charging station created successfully",
		Station: st,
	})
}

func (h *StationsHandler) Update(c *gin.Context) {
	id, ok := stationID(c)
	if !ok {
		return
	}

	var patch models.StationPatch
	if !bindJSON(c, &patch) {
		return
	}

	st, err := h.stations.Update(c.Request.Context(), id, patch)
	if err != nil {
		errorResponse(c, err, stationNotFound)
		return
	}

	api.Success(c, api.StationResponse{
		Message: "Charging station updated successfully",
		Station: st,
	})
}

func (h *StationsHandler) Delete(c *gin.Context) {
	id, ok := stationID(c)
	if !ok {
		return
	}

	if err := h.stations.Delete(c.Request.Context(), id); err != nil {
		errorResponse(c, err, stationNotFound)
		return
	}

	api.Success(c, api.MessageResponse{Message: "Charging station deleted successfully"})
}
