package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/chargemap/chargemap/backend-go/internal/models"
)

var _ models.StationRepository = (*StationRepo)(nil)

type StationRepo struct {
	db *sql.DB
}

func NewStationRepo(db *sql.DB) *StationRepo {
	return &StationRepo{db: db}
}

const stationSelect = `SELECT s.id, s.name, s.latitude, s.longitude, s.address, s.connector_type,
	s.power_output, s.status, s.price_per_kwh, s.created_at, s.updated_at,
	u.id, u.username, u.email`

// args collects positional parameters while a statement is being assembled.
type args []any

func (a *args) next(v any) string {
	*a = append(*a, v)
	return fmt.Sprintf("$%d", len(*a))
}

func (r *StationRepo) List(ctx context.Context, filter models.StationFilter) ([]models.Station, error) {
	var params args
	var where []string

	if filter.Status != "" {
		where = append(where, "s.status = "+params.next(string(filter.Status)))
	}
	if filter.ConnectorType != "" {
		where = append(where, "s.connector_type = "+params.next(string(filter.ConnectorType)))
	}
	if filter.MaxPrice != nil {
		where = append(where, "s.price_per_kwh <= "+params.next(*filter.MaxPrice))
	}
	if filter.MinPower != nil {
		where = append(where, "s.power_output >= "+params.next(*filter.MinPower))
	}
	if box := filter.Box; box != nil {
		where = append(where, fmt.Sprintf("s.latitude BETWEEN %s AND %s", params.next(box.MinLat), params.next(box.MaxLat)))
		if !box.AllLongitudes {
			where = append(where, fmt.Sprintf("s.longitude BETWEEN %s AND %s", params.next(box.MinLon), params.next(box.MaxLon)))
		}
	}

	query := stationSelect + ` FROM charging_stations s LEFT JOIN users u ON u.id = s.created_by`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY s.created_at DESC, s.id DESC"

	rows, err := r.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("listing stations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	stations := []models.Station{}
	for rows.Next() {
		st, err := scanStation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning station: %w", err)
		}
		stations = append(stations, *st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing stations: %w", err)
	}
	return stations, nil
}

func (r *StationRepo) Get(ctx context.Context, id int64) (*models.Station, error) {
	row := r.db.QueryRowContext(ctx,
		stationSelect+` FROM charging_stations s LEFT JOIN users u ON u.id = s.created_by WHERE s.id = $1`,
		id,
	)
	return stationOrNotFound(row, "getting station")
}

func (r *StationRepo) Create(ctx context.Context, createdBy int64, in models.StationInput) (*models.Station, error) {
	var params args
	values := []string{
		params.next(in.Name),
		params.next(*in.Latitude),
		params.next(*in.Longitude),
		params.next(nullable(in.Address)),
		params.next(nullableConnector(in.ConnectorType)),
		params.next(nullable(in.PowerOutput)),
		params.next(string(in.Status)),
		params.next(nullable(in.PricePerKwh)),
		params.next(createdBy),
	}

	query := `WITH s AS (
		INSERT INTO charging_stations
			(name, latitude, longitude, address, connector_type, power_output, status, price_per_kwh, created_by)
		VALUES (` + strings.Join(values, ", ") + `)
		RETURNING *
	) ` + stationSelect + ` FROM s LEFT JOIN users u ON u.id = s.created_by`

	st, err := scanStation(r.db.QueryRowContext(ctx, query, params...))
	if err != nil {
		return nil, fmt.Errorf("inserting station: %w", err)
	}
	return st, nil
}

// Update writes the supplied patch fields and bumps updated_at.
func (r *StationRepo) Update(ctx context.Context, id int64, patch models.StationPatch) (*models.Station, error) {
	if patch.Empty() {
		return r.Get(ctx, id)
	}

	var params args
	var set []string
	if patch.Name != nil {
		set = append(set, "name = "+params.next(*patch.Name))
	}
	if patch.Latitude != nil {
		set = append(set, "latitude = "+params.next(*patch.Latitude))
	}
	if patch.Longitude != nil {
		set = append(set, "longitude = "+params.next(*patch.Longitude))
	}
	if patch.Address != nil {
		set = append(set, "address = "+params.next(*patch.Address))
	}
	if patch.ConnectorType != nil {
		set = append(set, "connector_type = "+params.next(string(*patch.ConnectorType)))
	}
	if patch.PowerOutput != nil {
		set = append(set, "power_output = "+params.next(*patch.PowerOutput))
	}
	if patch.Status != nil {
		set = append(set, "status = "+params.next(string(*patch.Status)))
	}
	if patch.PricePerKwh != nil {
		set = append(set, "price_per_kwh = "+params.next(*patch.PricePerKwh))
	}
	set = append(set, "updated_at = NOW()")

	query := `WITH s AS (
		UPDATE charging_stations SET ` + strings.Join(set, ", ") + `
		WHERE id = ` + params.next(id) + `
		RETURNING *
	) ` + stationSelect + ` FROM s LEFT JOIN users u ON u.id = s.created_by`

	return stationOrNotFound(r.db.QueryRowContext(ctx, query, params...), "updating station")
}

func (r *StationRepo) UpdateStatus(ctx context.Context, id int64, status models.StationStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE charging_stations SET status = $1, updated_at = NOW() WHERE id = $2`,
		string(status), id,
	)
	return affectedOrNotFound(res, err, "updating station status")
}

func (r *StationRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM charging_stations WHERE id = $1`, id)
	return affectedOrNotFound(res, err, "deleting station")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStation(row scanner) (*models.Station, error) {
	var (
		st        models.Station
		address   sql.NullString
		connector sql.NullString
		power     sql.NullInt64
		status    string
		price     sql.NullFloat64
		userID    sql.NullInt64
		username  sql.NullString
		email     sql.NullString
	)
	if err := row.Scan(
		&st.ID, &st.Name, &st.Latitude, &st.Longitude, &address, &connector,
		&power, &status, &price, &st.CreatedAt, &st.UpdatedAt,
		&userID, &username, &email,
	); err != nil {
		return nil, err
	}

	st.Status = models.StationStatus(status)
	if address.Valid {
		st.Address = &address.String
	}
	if connector.Valid {
		ct := models.ConnectorType(connector.String)
		st.ConnectorType = &ct
	}
	if power.Valid {
		p := int(power.Int64)
		st.PowerOutput = &p
	}
	if price.Valid {
		st.PricePerKwh = &price.Float64
	}
	st.CreatedBy = models.PublicUser{ID: userID.Int64, Username: username.String, Email: email.String}
	return &st, nil
}

func stationOrNotFound(row *sql.Row, action string) (*models.Station, error) {
	st, err := scanStation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	return st, nil
}

func affectedOrNotFound(res sql.Result, err error, action string) error {
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func nullable[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableConnector(c *models.ConnectorType) any {
	if c == nil {
		return nil
	}
	return string(*c)
}
