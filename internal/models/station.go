package models

import (
	"strings"
	"time"

	"github.com/chargemap/chargemap/backend-go/internal/geo"
)

type StationStatus string

const (
	StatusAvailable   StationStatus = "available"
	StatusOccupied    StationStatus = "occupied"
	StatusMaintenance StationStatus = "maintenance"
)

// Valid reports whether s is one of the known statuses.
func (s StationStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusOccupied, StatusMaintenance:
		return true
	}
	return false
}

type ConnectorType string

const (
	ConnectorType1   ConnectorType = "Type 1"
	ConnectorType2   ConnectorType = "Type 2"
	ConnectorCCS     ConnectorType = "CCS"
	ConnectorCHAdeMO ConnectorType = "CHAdeMO"
	ConnectorTesla   ConnectorType = "Tesla"
)

func (c ConnectorType) Valid() bool {
	switch c {
	case ConnectorType1, ConnectorType2, ConnectorCCS, ConnectorCHAdeMO, ConnectorTesla:
		return true
	}
	return false
}

// Station is a charging station as stored and returned by the API
type Station struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Latitude      float64        `json:"latitude"`
	Longitude     float64        `json:"longitude"`
	Address       *string        `json:"address,omitempty"`
	ConnectorType *ConnectorType `json:"connectorType,omitempty"`
	PowerOutput   *int           `json:"powerOutput,omitempty"`
	Status        StationStatus  `json:"status"`
	PricePerKwh   *float64       `json:"pricePerKwh,omitempty"`
	CreatedBy     PublicUser     `json:"createdBy"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	// Distance from the requested reference point in km, set on proximity reads only
	Distance *float64 `json:"distance,omitempty"`
}

func (s Station) Coordinate() geo.Coordinate {
	return geo.Coordinate{Latitude: s.Latitude, Longitude: s.Longitude}
}

// StationInput is the payload for creating a station
type StationInput struct {
	Name          string         `json:"name" validate:"required,max=100"`
	Latitude      *float64       `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude     *float64       `json:"longitude" validate:"required,min=-180,max=180"`
	Address       *string        `json:"address" validate:"omitempty,max=500"`
	ConnectorType *ConnectorType `json:"connectorType" validate:"omitempty,oneof='Type 1' 'Type 2' CCS CHAdeMO Tesla"`
	PowerOutput   *int           `json:"powerOutput" validate:"omitempty,min=1,max=1000"`
	Status        StationStatus  `json:"status" validate:"omitempty,oneof=available occupied maintenance"`
	PricePerKwh   *float64       `json:"pricePerKwh" validate:"omitempty,min=0,max=10"`
}

// Normalize trims text fields and applies defaults.
func (in *StationInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = trimOptional(in.Address)
	if in.Status == "" {
		in.Status = StatusAvailable
	}
}

func (in *StationInput) Validate() error {
	return ValidateStruct(in, stationMessages)
}

// StationPatch is a partial update; nil fields are left unchanged
type StationPatch struct {
	Name          *string        `json:"name" validate:"omitempty,min=1,max=100"`
	Latitude      *float64       `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude     *float64       `json:"longitude" validate:"omitempty,min=-180,max=180"`
	Address       *string        `json:"address" validate:"omitempty,max=500"`
	ConnectorType *ConnectorType `json:"connectorType" validate:"omitempty,oneof='Type 1' 'Type 2' CCS CHAdeMO Tesla"`
	PowerOutput   *int           `json:"powerOutput" validate:"omitempty,min=1,max=1000"`
	Status        *StationStatus `json:"status" validate:"omitempty,oneof=available occupied maintenance"`
	PricePerKwh   *float64       `json:"pricePerKwh" validate:"omitempty,min=0,max=10"`
}

func (p *StationPatch) Normalize() {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		p.Name = &name
	}
	p.Address = trimOptional(p.Address)
}

func (p *StationPatch) Validate() error {
	return ValidateStruct(p, stationMessages)
}

// Empty reports whether the patch changes nothing.
func (p *StationPatch) Empty() bool {
	return p.Name == nil && p.Latitude == nil && p.Longitude == nil && p.Address == nil &&
		p.ConnectorType == nil && p.PowerOutput == nil && p.Status == nil && p.PricePerKwh == nil
}

// StationFilter narrows a station listing in the store
type StationFilter struct {
	Status        StationStatus
	ConnectorType ConnectorType
	MaxPrice      *float64
	MinPower      *int
	// Box is an optional coarse location pre-filter
	Box *geo.Box
}

var stationMessages = map[string]string{
	"name.required":       "Station name is required",
	"name.min":            "Station name is required",
	"name.max":            "Station name cannot exceed 100 characters",
	"latitude.required":   "Latitude is required",
	"latitude.min":        "Latitude must be between -90 and 90",
	"latitude.max":        "Latitude must be between -90 and 90",
	"longitude.required":  "Longitude is required",
	"longitude.min":       "Longitude must be between -180 and 180",
	"longitude.max":       "Longitude must be between -180 and 180",
	"address.max":         "Address cannot exceed 500 characters",
	"connectorType.oneof": "Connector type must be one of: Type 1, Type 2, CCS, CHAdeMO, Tesla",
	"powerOutput.min":     "Power output must be at least 1 kW",
	"powerOutput.max":     "Power output cannot exceed 1000 kW",
	"status.oneof":        "Status must be one of: available, occupied, maintenance",
	"pricePerKwh.min":     "Price per kWh cannot be negative",
	"pricePerKwh.max":     "Price per kWh cannot exceed $10",
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}
