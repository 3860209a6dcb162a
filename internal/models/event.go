package models

import "time"

type StationEventType string

const (
	EventStationCreated       StationEventType = "created"
	EventStationUpdated       StationEventType = "updated"
	EventStationDeleted       StationEventType = "deleted"
	EventStationStatusChanged StationEventType = "status_changed"
)

// StationEvent announces a change to a station after it has been stored
type StationEvent struct {
	Type      StationEventType `json:"type"`
	StationID int64            `json:"stationId"`
	Status    StationStatus    `json:"status,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// StatusReport is a charger telemetry message carrying its current status
type StatusReport struct {
	StationID int64         `json:"stationId"`
	Status    StationStatus `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
}
