package cache

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"

	"github.com/chargemap/chargemap/backend-go/internal/config"
	"github.com/chargemap/chargemap/backend-go/internal/models"
)

// GeocodeRecord is the DynamoDB item for one cached lookup
type GeocodeRecord struct {
	models.Place
	LastUpdated int64 `dynamodbav:"lastUpdated"`
	// TTL doubles as the table's expiry attribute
	TTL int64 `dynamodbav:"ttl"`
}

// DynamoGeocodeCache persists geocoding results across processes
type DynamoGeocodeCache struct {
	client DynamoDBClient
	config *config.CacheConfig
	clock  clock
}

func NewDynamoGeocodeCache(client DynamoDBClient, cacheConfig *config.CacheConfig) *DynamoGeocodeCache {
	if cacheConfig == nil {
		cacheConfig = config.GetCacheConfig()
	}
	return &DynamoGeocodeCache{
		client: client,
		config: cacheConfig,
		clock:  systemClock{},
	}
}

// GetPlace returns the cached place for query, or nil when absent or expired.
func (c *DynamoGeocodeCache) GetPlace(ctx context.Context, query string) (*models.Place, error) {
	result, err := c.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.config.GeocodeTableName),
		Key: map[string]types.AttributeValue{
			"query": &types.AttributeValueMemberS{Value: query},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting place from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, nil
	}

	var record GeocodeRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, fmt.Errorf("unmarshaling geocode record: %w", err)
	}

	// DynamoDB deletes expired items lazily, so they can still be read
	if c.clock.Now().Unix() >= record.TTL {
		log.Debug().Str("query", query).Msg("Geocode cache entry expired")
		return nil, nil
	}

	return &record.Place, nil
}

func (c *DynamoGeocodeCache) SavePlace(ctx context.Context, place models.Place) error {
	if place.Query == "" {
		return fmt.Errorf("geocode record has empty query")
	}

	now := c.clock.Now().Unix()
	record := GeocodeRecord{
		Place:       place,
		LastUpdated: now,
		TTL:         now + int64(c.config.GetDynamoTTL().Seconds()),
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshaling geocode record: %w", err)
	}

	if _, err := c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.config.GeocodeTableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("putting place in DynamoDB: %w", err)
	}

	log.Debug().Str("query", place.Query).Msg("Saved place to DynamoDB cache")
	return nil
}
