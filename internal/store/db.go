package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
)

type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open connects to PostgreSQL through the pgx database/sql driver and verifies the connection.
func Open(ctx context.Context, dsn string, opts Options) (*sql.DB, error) {
	if opts.MaxOpenConns == 0 {
		opts.MaxOpenConns = 10
	}
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = opts.MaxOpenConns
	}
	if opts.ConnMaxLifetime == 0 {
		opts.ConnMaxLifetime = 30 * time.Minute
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres database: %w", err)
	}

	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("verifying postgres connection: %w", err)
	}

	log.Debug().Int("max_open_conns", opts.MaxOpenConns).Msg("Connected to PostgreSQL")
	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(50) UNIQUE NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS charging_stations (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		address VARCHAR(500),
		connector_type VARCHAR(20),
		power_output INTEGER,
		status VARCHAR(20) NOT NULL DEFAULT 'available',
		price_per_kwh DOUBLE PRECISION,
		created_by BIGINT REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_charging_stations_location ON charging_stations (latitude, longitude)`,
	`CREATE INDEX IF NOT EXISTS idx_charging_stations_status ON charging_stations (status)`,
	`CREATE INDEX IF NOT EXISTS idx_charging_stations_created_by ON charging_stations (created_by)`,
	`CREATE INDEX IF NOT EXISTS idx_charging_stations_connector_type ON charging_stations (connector_type)`,
	`CREATE INDEX IF NOT EXISTS idx_charging_stations_price ON charging_stations (price_per_kwh)`,
}

// Migrate creates the tables and indexes if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema statement %d: %w", i+1, err)
		}
	}
	log.Info().Int("statements", len(schema)).Msg("Database schema is up to date")
	return nil
}

type Stats struct {
	Tables   []string
	Users    int64
	Stations int64
}

// CollectStats lists the public tables and counts users and stations.
func CollectStats(ctx context.Context, db *sql.DB) (*Stats, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	stats := &Stats{Tables: []string{}}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		stats.Tables = append(stats.Tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}

	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&stats.Users); err != nil {
		return nil, fmt.Errorf("counting users: %w", err)
	}
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM charging_stations`).Scan(&stats.Stations); err != nil {
		return nil, fmt.Errorf("counting stations: %w", err)
	}
	return stats, nil
}

const uniqueViolation = "23505"

// uniqueConstraint returns the violated constraint name when err is a unique violation.
func uniqueConstraint(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// Admin exposes the maintenance operations used by the health and init endpoints
type Admin struct {
	db *sql.DB
}

func NewAdmin(db *sql.DB) *Admin {
	return &Admin{db: db}
}

func (a *Admin) Ping(ctx context.Context) error {
	return a.db.PingContext(ctx)
}

func (a *Admin) Migrate(ctx context.Context) error {
	return Migrate(ctx, a.db)
}

func (a *Admin) Stats(ctx context.Context) (*Stats, error) {
	return CollectStats(ctx, a.db)
}
