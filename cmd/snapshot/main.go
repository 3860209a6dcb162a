package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chargemap/chargemap/backend-go/internal/cache"
	"github.com/chargemap/chargemap/backend-go/internal/config"
	"github.com/chargemap/chargemap/backend-go/internal/models"
	"github.com/chargemap/chargemap/backend-go/internal/station"
	"github.com/chargemap/chargemap/backend-go/internal/store"
)

type stationSource interface {
	Snapshot(ctx context.Context) ([]models.Station, error)
}

type snapshotStore interface {
	Fresh(ctx context.Context) (bool, error)
	Save(ctx context.Context, stations []models.Station) error
}

func main() {
	force := flag.Bool("force", false, "export even when the stored snapshot is still fresh")
	flag.Parse()

	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	if err := run(cfg, *force); err != nil {
		log.Fatal().Err(err).Msg("Snapshot export failed")
	}
}

func run(cfg *config.Config, force bool) error {
	if cfg.SnapshotBucket == "" {
		return errors.New("SNAPSHOT_BUCKET is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := store.Open(ctx, cfg.DatabaseURL, store.Options{MaxOpenConns: 2})
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	s3Client, err := cache.NewS3Client(ctx)
	if err != nil {
		return err
	}

	snapshots := cache.NewS3Snapshot(s3Client, cfg.SnapshotBucket, config.GetCacheConfig().GetSnapshotTTL())
	stations := station.NewService(store.NewStationRepo(db), nil)
	return export(ctx, stations, snapshots, force)
}

// export writes the station list unless the stored snapshot is still fresh.
func export(ctx context.Context, source stationSource, snapshots snapshotStore, force bool) error {
	if !force {
		fresh, err := snapshots.Fresh(ctx)
		if err != nil {
			return err
		}
		if fresh {
			log.Info().Msg("Snapshot is still fresh, skipping export")
			return nil
		}
	}

	stations, err := source.Snapshot(ctx)
	if err != nil {
		return err
	}

	if err := snapshots.Save(ctx, stations); err != nil {
		return err
	}
	log.Info().Int("stations", len(stations)).Msg("Exported station snapshot")
	return nil
}
