package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/chargemap/chargemap/backend-go/internal/account"
	"github.com/chargemap/chargemap/backend-go/internal/api"
	"github.com/chargemap/chargemap/backend-go/internal/geo"
	"github.com/chargemap/chargemap/backend-go/internal/geocode"
	"github.com/chargemap/chargemap/backend-go/internal/models"
	"github.com/chargemap/chargemap/backend-go/internal/station"
)

// errorResponse maps service errors to HTTP responses. notFound is the
// message used for models.ErrNotFound.
func errorResponse(c *gin.Context, err error, notFound string) {
	var (
		validationErr *models.ValidationError
		coordErr      api.InvalidCoordinatesError
		paramErr      api.InvalidParameterError
		providerErr   *geocode.ProviderError
	)

	switch {
	case errors.As(err, &validationErr):
		api.Error(c, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &coordErr):
		api.Error(c, http.StatusBadRequest, coordErr.Error())
	case errors.As(err, &paramErr):
		api.Error(c, http.StatusBadRequest, paramErr.Error())
	case errors.Is(err, geo.ErrInvalidLatitude), errors.Is(err, geo.ErrInvalidLongitude):
		api.Error(c, http.StatusBadRequest, "Invalid coordinates: "+err.Error())
	case errors.Is(err, geo.ErrInvalidRadius):
		api.Error(c, http.StatusBadRequest, "Radius must be a non-negative number")
	case errors.Is(err, station.ErrRadiusWithoutReference):
		api.Error(c, http.StatusBadRequest, "Radius requires lat and lng or a location")
	case errors.Is(err, models.ErrDuplicateEmail), errors.Is(err, models.ErrDuplicateUsername):
		api.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, account.ErrInvalidCredentials):
		api.Error(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, models.ErrNotFound):
		api.Error(c, http.StatusNotFound, notFound)
	case errors.Is(err, geocode.ErrEmptyQuery):
		api.Error(c, http.StatusBadRequest, "Query parameter q is required")
	case errors.Is(err, geocode.ErrPlaceNotFound):
		api.Error(c, http.StatusNotFound, "Location not found")
	case errors.As(err, &providerErr):
		log.Error().Err(err).Msg("Geocoding provider failed")
		api.Error(c, http.StatusBadGateway, "Geocoding service unavailable")
	default:
		log.Error().Err(err).Msg("Request failed")
		api.Error(c, http.StatusInternalServerError, "Internal server error")
	}
}
