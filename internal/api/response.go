package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/chargemap/chargemap/backend-go/internal/models"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type AuthResponse struct {
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    models.PublicUser `json:"user"`
}

type StationResponse struct {
	Message string          `json:"message"`
	Station *models.Station `json:"station"`
}

type PlaceResponse struct {
	Query       string  `json:"query"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"displayName"`
}

func NewPlaceResponse(p *models.Place) *PlaceResponse {
	return &PlaceResponse{
		Query:       p.Query,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		DisplayName: p.DisplayName,
	}
}

const jsonContentType = "application/json; charset=utf-8"

func Success(c *gin.Context, body interface{}) {
	JSON(c, http.StatusOK, body)
}

func Created(c *gin.Context, body interface{}) {
	JSON(c, http.StatusCreated, body)
}

// JSON encodes body before writing anything, so an unencodable body still
// turns into a clean 500.
func JSON(c *gin.Context, status int, body interface{}) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode response body")
		Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	c.Data(status, jsonContentType, jsonBody)
}

// Error writes {"error": message} and stops the handler chain.
func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}
