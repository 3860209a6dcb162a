package api

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/chargemap/chargemap/backend-go/internal/geo"
)

// InvalidCoordinatesError is returned for a reference point that cannot be used
type InvalidCoordinatesError struct {
	Reason string
}

func (e InvalidCoordinatesError) Error() string {
	if e.Reason == "" {
		return "Invalid coordinates"
	}
	return "Invalid coordinates: " + e.Reason
}

// InvalidParameterError reports a query parameter that failed to parse
type InvalidParameterError struct {
	Name string
	Err  error
}

func (e InvalidParameterError) Error() string {
	return "Invalid " + e.Name + " parameter"
}

func (e InvalidParameterError) Unwrap() error {
	return e.Err
}

var errNotFinite = errors.New("value must be a finite number")

// Parameter parsing helpers

// ParseCoordinates reads lat and lng. Both absent yields nil; only one of them
// present is an error.
func ParseCoordinates(c *gin.Context) (*geo.Coordinate, error) {
	latStr := strings.TrimSpace(c.Query("lat"))
	lngStr := strings.TrimSpace(c.Query("lng"))

	if latStr == "" && lngStr == "" {
		return nil, nil
	}
	if latStr == "" || lngStr == "" {
		return nil, InvalidCoordinatesError{Reason: "lat and lng must be provided together"}
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, InvalidCoordinatesError{Reason: "lat is not a number"}
	}

	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return nil, InvalidCoordinatesError{Reason: "lng is not a number"}
	}

	coord, err := geo.NewCoordinate(lat, lng)
	if err != nil {
		return nil, InvalidCoordinatesError{Reason: err.Error()}
	}
	return &coord, nil
}

// ParseStationID accepts positive integer ids only.
func ParseStationID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ParseOptionalFloat reads a finite number; NaN and infinities are rejected.
func ParseOptionalFloat(c *gin.Context, name string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, InvalidParameterError{Name: name, Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, InvalidParameterError{Name: name, Err: errNotFinite}
	}
	return &v, nil
}

func ParseOptionalInt(c *gin.Context, name string) (*int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, InvalidParameterError{Name: name, Err: err}
	}
	return &v, nil
}
