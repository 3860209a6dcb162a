package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/chargemap/chargemap/backend-go/internal/models"
)

const statusTopic = "/ev/station/+/status"

type statusUpdater interface {
	UpdateStatus(ctx context.Context, id int64, status models.StationStatus) error
}

type statusMessage struct {
	StationID int64  `json:"stationId"`
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

// StatusSubscriber applies charger status telemetry received over MQTT
type StatusSubscriber struct {
	client  mqtt.Client
	updater statusUpdater
	timeout time.Duration
}

func ConnectMQTT(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return client, nil
}

func NewStatusSubscriber(client mqtt.Client, updater statusUpdater) *StatusSubscriber {
	return &StatusSubscriber{
		client:  client,
		updater: updater,
		timeout: 5 * time.Second,
	}
}

func (s *StatusSubscriber) Start() error {
	token := s.client.Subscribe(statusTopic, 1, s.handleMessage)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe %s: %w", statusTopic, err)
	}
	log.Info().Str("topic", statusTopic).Msg("Subscribed to station status telemetry")
	return nil
}

func (s *StatusSubscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	report, err := parseStatusMessage(msg.Topic(), msg.Payload())
	if err != nil {
		log.Warn().Err(err).Str("topic", msg.Topic()).Msg("Dropping invalid status message")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.updater.UpdateStatus(ctx, report.StationID, report.Status); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Warn().Int64("station_id", report.StationID).Msg("Status report for unknown station")
			return
		}
		log.Error().Err(err).Int64("station_id", report.StationID).Msg("Failed to apply status report")
		return
	}

	log.Debug().
		Int64("station_id", report.StationID).
		Str("status", string(report.Status)).
		Time("reported_at", report.Timestamp).
		Msg("Applied status report")
}

// parseStatusMessage decodes and validates a payload received on topic.
// The station id in the topic is authoritative; a payload id must agree with it.
func parseStatusMessage(topic string, payload []byte) (*models.StatusReport, error) {
	parts := strings.Split(strings.Trim(topic, "/"), "/")
	if len(parts) != 4 || parts[0] != "ev" || parts[1] != "station" || parts[3] != "status" {
		return nil, fmt.Errorf("unexpected topic %q", topic)
	}
	topicID, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || topicID <= 0 {
		return nil, fmt.Errorf("invalid station id in topic %q", topic)
	}

	var raw statusMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}

	if raw.StationID != 0 && raw.StationID != topicID {
		return nil, fmt.Errorf("stationId: %d does not match topic id %d", raw.StationID, topicID)
	}
	status := models.StationStatus(raw.Status)
	if !status.Valid() {
		return nil, fmt.Errorf("status: %q is not a known status", raw.Status)
	}
	if raw.Timestamp <= 0 {
		return nil, fmt.Errorf("timestamp: must be positive")
	}

	return &models.StatusReport{
		StationID: topicID,
		Status:    status,
		Timestamp: time.Unix(raw.Timestamp, 0).UTC(),
	}, nil
}
