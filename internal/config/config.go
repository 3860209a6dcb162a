package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Environment string
	LogLevel    zerolog.Level
	HTTPTimeout time.Duration
	MaxRetries  int
	Port        string

	DatabaseURL string

	JWTSecret string
	JWTExpire time.Duration

	NominatimBaseURL string
	UserAgent        string

	RabbitMQURL    string
	MQTTBroker     string
	MQTTClientID   string
	SnapshotBucket string
}

type Option func(*Config)

// WithEnvironment allows setting the environment
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithLogLevel allows setting the log level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		parsedLevel, err := zerolog.ParseLevel(level)
		if err != nil {
			parsedLevel = zerolog.InfoLevel
		}
		c.LogLevel = parsedLevel
	}
}

// WithHTTPTimeout allows setting the HTTP timeout
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.HTTPTimeout = timeout
	}
}

func WithPort(port string) Option {
	return func(c *Config) {
		c.Port = port
	}
}

func WithDatabaseURL(url string) Option {
	return func(c *Config) {
		c.DatabaseURL = url
	}
}

// WithJWT sets the token signing secret and lifetime. A zero expiry keeps the default.
func WithJWT(secret string, expire time.Duration) Option {
	return func(c *Config) {
		c.JWTSecret = secret
		if expire > 0 {
			c.JWTExpire = expire
		}
	}
}

func WithNominatimBaseURL(url string) Option {
	return func(c *Config) {
		c.NominatimBaseURL = strings.TrimRight(url, "/")
	}
}

// WithMessaging sets the broker endpoints. Empty values disable the matching integration.
func WithMessaging(rabbitURL, mqttBroker, mqttClientID string) Option {
	return func(c *Config) {
		c.RabbitMQURL = rabbitURL
		c.MQTTBroker = mqttBroker
		if mqttClientID != "" {
			c.MQTTClientID = mqttClientID
		}
	}
}

func WithSnapshotBucket(bucket string) Option {
	return func(c *Config) {
		c.SnapshotBucket = bucket
	}
}

// New creates a new configuration with default values
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment:      "production",
		LogLevel:         zerolog.InfoLevel,
		HTTPTimeout:      10 * time.Second,
		MaxRetries:       3,
		Port:             "5000",
		JWTExpire:        30 * 24 * time.Hour,
		NominatimBaseURL: "https://nominatim.openstreetmap.org",
		UserAgent:        "chargemap-backend/1.0",
		MQTTClientID:     "chargemap-backend",
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// Validate reports settings the services cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	return errors.Join(errs...)
}

// IsLocal reports whether the process runs on a developer machine.
func (c *Config) IsLocal() bool {
	return c.Environment == "local" || c.Environment == "development"
}

// InitializeLogging sets up logging based on the configuration
func (c *Config) InitializeLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	// Setup console logger for development environments
	if c.IsLocal() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	return New(
		WithEnvironment(getEnvOrDefault("ENV", "production")),
		WithLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
		WithHTTPTimeout(getDurationEnvOrDefault("HTTP_TIMEOUT", 10*time.Second)),
		WithPort(getEnvOrDefault("PORT", "5000")),
		WithDatabaseURL(os.Getenv("DATABASE_URL")),
		WithJWT(os.Getenv("JWT_SECRET"), getDurationEnvOrDefault("JWT_EXPIRE", 0)),
		WithNominatimBaseURL(getEnvOrDefault("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org")),
		WithMessaging(os.Getenv("RABBITMQ_URL"), os.Getenv("MQTT_BROKER"), os.Getenv("MQTT_CLIENT_ID")),
		WithSnapshotBucket(os.Getenv("SNAPSHOT_BUCKET")),
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid duration in environment variable, using default")
	}
	return defaultValue
}
