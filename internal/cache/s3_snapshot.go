package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog/log"

	"github.com/chargemap/chargemap/backend-go/internal/models"
)

// S3Client defines the interface for S3 operations we need
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

const snapshotKey = "stations.json"

var ErrEmptyBucket = errors.New("empty bucket name")

// SnapshotRecord is the published station list with metadata
type SnapshotRecord struct {
	Stations    []models.Station `json:"stations"`
	LastUpdated int64            `json:"lastUpdated"`
	TTL         int64            `json:"ttl"`
}

// S3Snapshot publishes the full station list as a JSON object in S3
type S3Snapshot struct {
	client     S3Client
	bucketName string
	ttl        time.Duration
	clock      clock
}

func NewS3Snapshot(client S3Client, bucketName string, ttl time.Duration) *S3Snapshot {
	return &S3Snapshot{
		client:     client,
		bucketName: bucketName,
		ttl:        ttl,
		clock:      systemClock{},
	}
}

// NewS3Client loads the default AWS configuration for the S3 client.
func NewS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// Load returns the stored snapshot, or nil when none exists.
func (c *S3Snapshot) Load(ctx context.Context) (*SnapshotRecord, error) {
	if c.bucketName == "" {
		return nil, ErrEmptyBucket
	}

	result, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(snapshotKey),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting snapshot from S3: %w", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			log.Error().Err(err).Msg("Error closing S3 object body")
		}
	}(result.Body)

	var record SnapshotRecord
	if err := json.NewDecoder(result.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &record, nil
}

// Fresh reports whether a stored snapshot exists and is still within its TTL.
func (c *S3Snapshot) Fresh(ctx context.Context) (bool, error) {
	record, err := c.Load(ctx)
	if err != nil || record == nil {
		return false, err
	}
	if c.clock.Now().Unix() > record.TTL {
		log.Debug().Int64("ttl", record.TTL).Msg("Station snapshot expired")
		return false, nil
	}
	return true, nil
}

func (c *S3Snapshot) Save(ctx context.Context, stations []models.Station) error {
	if c.bucketName == "" {
		return ErrEmptyBucket
	}
	if stations == nil {
		stations = []models.Station{}
	}

	now := c.clock.Now().Unix()
	record := SnapshotRecord{
		Stations:    stations,
		LastUpdated: now,
		TTL:         now + int64(c.ttl.Seconds()),
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(record); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(snapshotKey),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("saving snapshot to S3: %w", err)
	}

	log.Info().Int("station_count", len(stations)).Str("bucket", c.bucketName).Msg("Saved station snapshot to S3")
	return nil
}
