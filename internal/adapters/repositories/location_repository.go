package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"freight-tracking-service/internal/domain"
)

// Postgres-backed implementation of the LocationRepository port.
type PostgresLocationRepository struct{ DB *sql.DB }

func NewPostgresLocationRepository(db *sql.DB) *PostgresLocationRepository {
	return &PostgresLocationRepository{DB: db}
}

const locationColumns = `
	id, name, address_line1, COALESCE(address_line2, ''), city, state,
	postal_code, country, latitude, longitude, created_at, updated_at`

func scanLocation(row interface{ Scan(...any) error }) (*domain.Location, error) {
	var l domain.Location
	err := row.Scan(
		&l.ID, &l.Name, &l.AddressLine1, &l.AddressLine2, &l.City, &l.State,
		&l.PostalCode, &l.Country, &l.Latitude, &l.Longitude, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *PostgresLocationRepository) CreateLocation(ctx context.Context, loc *domain.Location) error {
	query := `
	INSERT INTO locations (name, address_line1, address_line2, city, state, postal_code, country, latitude, longitude)
	VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9)
	RETURNING id, created_at, updated_at;
	`
	err := r.DB.QueryRowContext(ctx, query,
		loc.Name, loc.AddressLine1, loc.AddressLine2, loc.City, loc.State,
		loc.PostalCode, loc.Country, loc.Latitude, loc.Longitude,
	).Scan(&loc.ID, &loc.CreatedAt, &loc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create location: %w", err)
	}
	return nil
}

func (r *PostgresLocationRepository) ListLocations(ctx context.Context) ([]*domain.Location, error) {
	query := `SELECT` + locationColumns + `
	FROM locations
	ORDER BY name;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list locations: query locations table: %w", err)
	}
	defer rows.Close()

	locations := make([]*domain.Location, 0, 16)
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("list locations: scan row: %w", err)
		}
		locations = append(locations, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list locations: row iteration: %w", err)
	}

	return locations, nil
}

func (r *PostgresLocationRepository) GetLocation(ctx context.Context, id int64) (*domain.Location, error) {
	query := `SELECT` + locationColumns + `
	FROM locations
	WHERE id = $1;
	`
	l, err := scanLocation(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get location id=%d: %w", id, err)
	}
	return l, nil
}

func (r *PostgresLocationRepository) UpdateLocation(ctx context.Context, loc *domain.Location) error {
	query := `
	UPDATE locations
	SET name = $2, address_line1 = $3, address_line2 = NULLIF($4, ''), city = $5,
		state = $6, postal_code = $7, country = $8, latitude = $9, longitude = $10,
		updated_at = now()
	WHERE id = $1
	RETURNING updated_at;
	`
	err := r.DB.QueryRowContext(ctx, query,
		loc.ID, loc.Name, loc.AddressLine1, loc.AddressLine2, loc.City,
		loc.State, loc.PostalCode, loc.Country, loc.Latitude, loc.Longitude,
	).Scan(&loc.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update location id=%d: %w", loc.ID, err)
	}
	return nil
}

func (r *PostgresLocationRepository) DeleteLocation(ctx context.Context, id int64) error {
	var shipments int
	countQuery := `
	SELECT COUNT(*) FROM shipments
	WHERE origin_id = $1 OR destination_id = $1;
	`
	if err := r.DB.QueryRowContext(ctx, countQuery, id).Scan(&shipments); err != nil {
		return fmt.Errorf("delete location id=%d: count shipments: %w", id, err)
	}
	if shipments > 0 {
		return &domain.DeleteBlockedError{
			Resource: "location",
			Counts:   map[string]int{"shipments": shipments},
		}
	}

	res, err := r.DB.ExecContext(ctx, `DELETE FROM locations WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete location id=%d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete location id=%d: rows affected: %w", id, err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
