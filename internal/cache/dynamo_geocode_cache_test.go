package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chargemap/chargemap/backend-go/internal/config"
	"github.com/chargemap/chargemap/backend-go/internal/models"
)

var testPlace = models.Place{
	Query:       "seattle, wa",
	Latitude:    47.6038321,
	Longitude:   -122.330062,
	DisplayName: "Seattle, King County, Washington, United States",
}

func testCacheConfig() *config.CacheConfig {
	return &config.CacheConfig{
		GeocodeLRUSize:       10,
		GeocodeLRUTTLMinutes: 60,
		GeocodeDynamoTTLDays: 30,
		GeocodeTableName:     "geocode-cache",
		EnableLRUCache:       true,
		EnableDynamoCache:    true,
	}
}

func TestDynamoGeocodeCache_SaveThenGet(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clk := &fakeClock{now: now}

	var stored map[string]types.AttributeValue
	client := &mockDynamoDBClient{
		putItemFunc: func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
			assert.Equal(t, "geocode-cache", *params.TableName)
			stored = params.Item
			return &dynamodb.PutItemOutput{}, nil
		},
		getItemFunc: func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
			key := params.Key["query"].(*types.AttributeValueMemberS).Value
			if stored == nil || key != testPlace.Query {
				return &dynamodb.GetItemOutput{}, nil
			}
			return &dynamodb.GetItemOutput{Item: stored}, nil
		},
	}

	c := NewDynamoGeocodeCache(client, testCacheConfig())
	c.clock = clk

	require.NoError(t, c.SavePlace(context.Background(), testPlace))

	var record GeocodeRecord
	require.NoError(t, attributevalue.UnmarshalMap(stored, &record))
	assert.Equal(t, now.Unix(), record.LastUpdated)
	assert.Equal(t, now.Add(30*24*time.Hour).Unix(), record.TTL)

	got, err := c.GetPlace(context.Background(), testPlace.Query)
	require.NoError(t, err)
	assert.Equal(t, &testPlace, got)

	missing, err := c.GetPlace(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.Nil(t, missing)

	clk.Advance(31 * 24 * time.Hour)
	expired, err := c.GetPlace(context.Background(), testPlace.Query)
	require.NoError(t, err)
	assert.Nil(t, expired)
}

func TestDynamoGeocodeCache_Errors(t *testing.T) {
	client := &mockDynamoDBClient{
		getItemFunc: func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
			return nil, errors.New("throttled")
		},
		putItemFunc: func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
			return nil, errors.New("throttled")
		},
	}
	c := NewDynamoGeocodeCache(client, testCacheConfig())

	_, err := c.GetPlace(context.Background(), "x")
	assert.ErrorContains(t, err, "throttled")

	err = c.SavePlace(context.Background(), testPlace)
	assert.ErrorContains(t, err, "putting place in DynamoDB")

	err = c.SavePlace(context.Background(), models.Place{})
	assert.ErrorContains(t, err, "empty query")
}
