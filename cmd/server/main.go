package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/chargemap/chargemap/backend-go/internal/app"
	"github.com/chargemap/chargemap/backend-go/internal/config"
	"github.com/chargemap/chargemap/backend-go/internal/events"
	"github.com/chargemap/chargemap/backend-go/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Could not read .env file")
	}

	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !cfg.IsLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := app.Open(ctx, cfg, config.GetCacheConfig())
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn().Err(err).Msg("Error releasing resources")
		}
	}()

	if cfg.MQTTBroker != "" {
		mqttClient, err := events.ConnectMQTT(cfg.MQTTBroker, cfg.MQTTClientID)
		if err != nil {
			return err
		}
		defer mqttClient.Disconnect(250)

		if err := events.NewStatusSubscriber(mqttClient, a.Stations).Start(); err != nil {
			return err
		}
	} else {
		log.Info().Msg("MQTT_BROKER not set, status telemetry is disabled")
	}

	return server.Run(ctx, ":"+cfg.Port, a.Engine, 10*time.Second)
}
