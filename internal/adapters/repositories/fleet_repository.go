package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"freight-tracking-service/internal/domain"
)

// Postgres-backed implementation of the ContactRepository port.
type PostgresContactRepository struct{ DB *sql.DB }

func NewPostgresContactRepository(db *sql.DB) *PostgresContactRepository {
	return &PostgresContactRepository{DB: db}
}

const contactColumns = `
	id, carrier_id, first_name, last_name, email, COALESCE(phone_number, ''),
	role, is_primary, created_at, updated_at`

func scanContact(row interface{ Scan(...any) error }) (*domain.CarrierContact, error) {
	var c domain.CarrierContact
	err := row.Scan(
		&c.ID, &c.CarrierID, &c.FirstName, &c.LastName, &c.Email, &c.PhoneNumber,
		&c.Role, &c.IsPrimary, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresContactRepository) CreateContact(ctx context.Context, c *domain.CarrierContact) error {
	query := `
	INSERT INTO carrier_contacts (carrier_id, first_name, last_name, email, phone_number, role, is_primary)
	VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
	RETURNING id, created_at, updated_at;
	`
	err := r.DB.QueryRowContext(ctx, query,
		c.CarrierID, c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.Role, c.IsPrimary,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create contact: %w", translateConflict(err))
	}
	return nil
}

func (r *PostgresContactRepository) ListContacts(ctx context.Context) ([]*domain.CarrierContact, error) {
	query := `SELECT` + contactColumns + `
	FROM carrier_contacts
	ORDER BY last_name, first_name;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list contacts: query carrier_contacts table: %w", err)
	}
	defer rows.Close()

	contacts := make([]*domain.CarrierContact, 0, 16)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("list contacts: scan row: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list contacts: row iteration: %w", err)
	}

	return contacts, nil
}

func (r *PostgresContactRepository) GetContact(ctx context.Context, id int64) (*domain.CarrierContact, error) {
	query := `SELECT` + contactColumns + `
	FROM carrier_contacts
	WHERE id = $1;
	`
	c, err := scanContact(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get contact id=%d: %w", id, err)
	}
	return c, nil
}

func (r *PostgresContactRepository) UpdateContact(ctx context.Context, c *domain.CarrierContact) error {
	query := `
	UPDATE carrier_contacts
	SET carrier_id = $2, first_name = $3, last_name = $4, email = $5,
		phone_number = NULLIF($6, ''), role = $7, is_primary = $8, updated_at = now()
	WHERE id = $1
	RETURNING updated_at;
	`
	err := r.DB.QueryRowContext(ctx, query,
		c.ID, c.CarrierID, c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.Role, c.IsPrimary,
	).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update contact id=%d: %w", c.ID, translateConflict(err))
	}
	return nil
}

func (r *PostgresContactRepository) DeleteContact(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM carrier_contacts WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete contact id=%d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete contact id=%d: rows affected: %w", id, err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresContactRepository) HasPrimaryContact(ctx context.Context, carrierID, excludeID int64) (bool, error) {
	query := `
	SELECT EXISTS (
		SELECT 1 FROM carrier_contacts
		WHERE carrier_id = $1 AND is_primary AND id <> $2
	);
	`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, carrierID, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("has primary contact carrier_id=%d: %w", carrierID, err)
	}
	return exists, nil
}

// Postgres-backed implementation of the DriverRepository port.
type PostgresDriverRepository struct{ DB *sql.DB }

func NewPostgresDriverRepository(db *sql.DB) *PostgresDriverRepository {
	return &PostgresDriverRepository{DB: db}
}

const driverColumns = `
	id, carrier_id, first_name, last_name, email, COALESCE(phone_number, ''),
	created_at, updated_at`

func scanDriver(row interface{ Scan(...any) error }) (*domain.Driver, error) {
	var d domain.Driver
	err := row.Scan(
		&d.ID, &d.CarrierID, &d.FirstName, &d.LastName, &d.Email, &d.PhoneNumber,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PostgresDriverRepository) CreateDriver(ctx context.Context, d *domain.Driver) error {
	query := `
	INSERT INTO drivers (carrier_id, first_name, last_name, email, phone_number)
	VALUES ($1, $2, $3, $4, NULLIF($5, ''))
	RETURNING id, created_at, updated_at;
	`
	err := r.DB.QueryRowContext(ctx, query,
		d.CarrierID, d.FirstName, d.LastName, d.Email, d.PhoneNumber,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create driver: %w", translateConflict(err))
	}
	return nil
}

func (r *PostgresDriverRepository) ListDrivers(ctx context.Context) ([]*domain.Driver, error) {
	query := `SELECT` + driverColumns + `
	FROM drivers
	ORDER BY last_name, first_name;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list drivers: query drivers table: %w", err)
	}
	defer rows.Close()

	drivers := make([]*domain.Driver, 0, 16)
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("list drivers: scan row: %w", err)
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list drivers: row iteration: %w", err)
	}

	return drivers, nil
}

func (r *PostgresDriverRepository) GetDriver(ctx context.Context, id int64) (*domain.Driver, error) {
	query := `SELECT` + driverColumns + `
	FROM drivers
	WHERE id = $1;
	`
	d, err := scanDriver(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get driver id=%d: %w", id, err)
	}
	return d, nil
}

func (r *PostgresDriverRepository) UpdateDriver(ctx context.Context, d *domain.Driver) error {
	query := `
	UPDATE drivers
	SET carrier_id = $2, first_name = $3, last_name = $4, email = $5,
		phone_number = NULLIF($6, ''), updated_at = now()
	WHERE id = $1
	RETURNING updated_at;
	`
	err := r.DB.QueryRowContext(ctx, query,
		d.ID, d.CarrierID, d.FirstName, d.LastName, d.Email, d.PhoneNumber,
	).Scan(&d.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update driver id=%d: %w", d.ID, translateConflict(err))
	}
	return nil
}

func (r *PostgresDriverRepository) DeleteDriver(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM drivers WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete driver id=%d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete driver id=%d: rows affected: %w", id, err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Postgres-backed implementation of the VehicleRepository port.
type PostgresVehicleRepository struct{ DB *sql.DB }

func NewPostgresVehicleRepository(db *sql.DB) *PostgresVehicleRepository {
	return &PostgresVehicleRepository{DB: db}
}

func (r *PostgresVehicleRepository) CreateVehicle(ctx context.Context, v *domain.Vehicle) error {
	query := `
	INSERT INTO vehicles (carrier_id, plate_number)
	VALUES ($1, $2)
	RETURNING id, created_at, updated_at;
	`
	err := r.DB.QueryRowContext(ctx, query, v.CarrierID, v.PlateNumber).
		Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create vehicle: %w", translateConflict(err))
	}
	return nil
}

func (r *PostgresVehicleRepository) ListVehicles(ctx context.Context) ([]*domain.Vehicle, error) {
	query := `
	SELECT id, carrier_id, plate_number, created_at, updated_at
	FROM vehicles
	ORDER BY plate_number;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: query vehicles table: %w", err)
	}
	defer rows.Close()

	vehicles := make([]*domain.Vehicle, 0, 16)
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(&v.ID, &v.CarrierID, &v.PlateNumber, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("list vehicles: scan row: %w", err)
		}
		vehicles = append(vehicles, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vehicles: row iteration: %w", err)
	}

	return vehicles, nil
}

func (r *PostgresVehicleRepository) GetVehicle(ctx context.Context, id int64) (*domain.Vehicle, error) {
	query := `
	SELECT id, carrier_id, plate_number, created_at, updated_at
	FROM vehicles
	WHERE id = $1;
	`
	var v domain.Vehicle
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&v.ID, &v.CarrierID, &v.PlateNumber, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get vehicle id=%d: %w", id, err)
	}
	return &v, nil
}

func (r *PostgresVehicleRepository) UpdateVehicle(ctx context.Context, v *domain.Vehicle) error {
	query := `
	UPDATE vehicles
	SET carrier_id = $2, plate_number = $3, updated_at = now()
	WHERE id = $1
	RETURNING updated_at;
	`
	err := r.DB.QueryRowContext(ctx, query, v.ID, v.CarrierID, v.PlateNumber).Scan(&v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update vehicle id=%d: %w", v.ID, translateConflict(err))
	}
	return nil
}

func (r *PostgresVehicleRepository) DeleteVehicle(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete vehicle id=%d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete vehicle id=%d: rows affected: %w", id, err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
