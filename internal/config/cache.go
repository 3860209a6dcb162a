package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// CacheConfig holds all cache-related configuration
type CacheConfig struct {
	// LRU Cache settings
	GeocodeLRUSize       int
	GeocodeLRUTTLMinutes int

	// DynamoDB Cache settings
	GeocodeDynamoTTLDays int
	GeocodeTableName     string

	// S3 snapshot settings
	SnapshotTTLMinutes int

	// General settings
	EnableLRUCache    bool
	EnableDynamoCache bool
}

const (
	// Default values
	defaultGeocodeLRUSize       = 1000
	defaultGeocodeLRUTTLMinutes = 60
	defaultGeocodeDynamoTTLDays = 30
	defaultGeocodeTableName     = "geocode-cache"
	defaultSnapshotTTLMinutes   = 15
)

// GetCacheConfig returns the cache configuration from environment variables or defaults
func GetCacheConfig() *CacheConfig {
	config := &CacheConfig{
		GeocodeLRUSize:       getEnvInt("CACHE_GEOCODE_LRU_SIZE", defaultGeocodeLRUSize),
		GeocodeLRUTTLMinutes: getEnvInt("CACHE_GEOCODE_LRU_TTL_MINUTES", defaultGeocodeLRUTTLMinutes),
		GeocodeDynamoTTLDays: getEnvInt("CACHE_DYNAMO_TTL_DAYS", defaultGeocodeDynamoTTLDays),
		GeocodeTableName:     getEnvOrDefault("CACHE_GEOCODE_TABLE", defaultGeocodeTableName),
		SnapshotTTLMinutes:   getEnvInt("CACHE_SNAPSHOT_TTL_MINUTES", defaultSnapshotTTLMinutes),
		EnableLRUCache:       getEnvBool("CACHE_ENABLE_LRU", true),
		EnableDynamoCache:    getEnvBool("CACHE_ENABLE_DYNAMO", true),
	}

	log.Debug().
		Int("GeocodeLRUSize", config.GeocodeLRUSize).
		Int("GeocodeLRUTTLMinutes", config.GeocodeLRUTTLMinutes).
		Int("GeocodeDynamoTTLDays", config.GeocodeDynamoTTLDays).
		Str("GeocodeTableName", config.GeocodeTableName).
		Int("SnapshotTTLMinutes", config.SnapshotTTLMinutes).
		Bool("EnableLRUCache", config.EnableLRUCache).
		Bool("EnableDynamoCache", config.EnableDynamoCache).
		Msg("Cache configuration loaded")

	return config
}

func (c *CacheConfig) GetGeocodeLRUTTL() time.Duration {
	return time.Duration(c.GeocodeLRUTTLMinutes) * time.Minute
}

func (c *CacheConfig) GetDynamoTTL() time.Duration {
	return time.Duration(c.GeocodeDynamoTTLDays) * 24 * time.Hour
}

func (c *CacheConfig) GetSnapshotTTL() time.Duration {
	return time.Duration(c.SnapshotTTLMinutes) * time.Minute
}

// Helper functions to get environment variables with defaults
func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Msg("Invalid integer value in environment variable, using default")
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, exists := os.LookupEnv(key); exists {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
