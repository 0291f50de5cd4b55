package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"freight-tracking-service/internal/domain"
	"freight-tracking-service/internal/ports"
)

// Postgres-backed implementation of the CarrierRepository port.
type PostgresCarrierRepository struct{ DB *sql.DB }

func NewPostgresCarrierRepository(db *sql.DB) *PostgresCarrierRepository {
	return &PostgresCarrierRepository{DB: db}
}

func (r *PostgresCarrierRepository) CreateCarrier(ctx context.Context, c *domain.Carrier) error {
	query := `
	INSERT INTO carriers (name, mc_number)
	VALUES ($1, $2)
	RETURNING id, created_at, updated_at;
	`
	err := r.DB.QueryRowContext(ctx, query, c.Name, c.MCNumber).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create carrier: %w", translateConflict(err))
	}
	return nil
}

func (r *PostgresCarrierRepository) ListCarriers(ctx context.Context) ([]*domain.Carrier, error) {
	query := `
	SELECT id, name, mc_number, created_at, updated_at
	FROM carriers
	ORDER BY name;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list carriers: query carriers table: %w", err)
	}
	defer rows.Close()

	carriers := make([]*domain.Carrier, 0, 16)
	for rows.Next() {
		var c domain.Carrier
		if err := rows.Scan(&c.ID, &c.Name, &c.MCNumber, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("list carriers: scan row: %w", err)
		}
		carriers = append(carriers, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list carriers: row iteration: %w", err)
	}

	return carriers, nil
}

func (r *PostgresCarrierRepository) GetCarrier(ctx context.Context, id int64) (*domain.Carrier, error) {
	query := `
	SELECT id, name, mc_number, created_at, updated_at
	FROM carriers
	WHERE id = $1;
	`
	var c domain.Carrier
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&c.ID, &c.Name, &c.MCNumber, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get carrier id=%d: %w", id, err)
	}
	return &c, nil
}

func (r *PostgresCarrierRepository) UpdateCarrier(ctx context.Context, c *domain.Carrier) error {
	query := `
	UPDATE carriers
	SET name = $2, mc_number = $3, updated_at = now()
	WHERE id = $1
	RETURNING updated_at;
	`
	err := r.DB.QueryRowContext(ctx, query, c.ID, c.Name, c.MCNumber).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update carrier id=%d: %w", c.ID, translateConflict(err))
	}
	return nil
}

func (r *PostgresCarrierRepository) DeleteCarrier(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM carriers WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete carrier id=%d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete carrier id=%d: rows affected: %w", id, err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresCarrierRepository) CountDependents(ctx context.Context, carrierID int64) (ports.DependentCounts, error) {
	query := `
	SELECT
		(SELECT COUNT(*) FROM carrier_contacts WHERE carrier_id = $1),
		(SELECT COUNT(*) FROM drivers WHERE carrier_id = $1),
		(SELECT COUNT(*) FROM vehicles WHERE carrier_id = $1);
	`
	var counts ports.DependentCounts
	err := r.DB.QueryRowContext(ctx, query, carrierID).
		Scan(&counts.Contacts, &counts.Drivers, &counts.Vehicles)
	if err != nil {
		return ports.DependentCounts{}, fmt.Errorf("count carrier dependents id=%d: %w", carrierID, err)
	}
	return counts, nil
}
