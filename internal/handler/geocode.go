package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chargemap/chargemap/backend-go/internal/api"
)

type GeocodeHandler struct {
	places PlaceLookup
}

func NewGeocodeHandler(places PlaceLookup) *GeocodeHandler {
	return &GeocodeHandler{places: places}
}

func (h *GeocodeHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/geocode", h.Lookup)
}

func (h *GeocodeHandler) Lookup(c *gin.Context) {
	if h.places == nil {
		api.Error(c, http.StatusServiceUnavailable, "Geocoding service unavailable")
		return
	}

	place, err := h.places.Lookup(c.Request.Context(), c.Query("q"))
	if err != nil {
		errorResponse(c, err, "Location not found")
		return
	}
	api.Success(c, api.NewPlaceResponse(place))
}
