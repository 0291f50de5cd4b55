package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"freight-tracking-service/internal/domain"
	"freight-tracking-service/internal/ports"
)

// Postgres-backed implementation of the TrackingRepository port.
type PostgresTrackingRepository struct{ DB *sql.DB }

func NewPostgresTrackingRepository(db *sql.DB) *PostgresTrackingRepository {
	return &PostgresTrackingRepository{DB: db}
}

const deviceColumns = `
	id, device_id, assigned_vehicle_id, is_active, last_seen, created_at`

func scanDevice(row interface{ Scan(...any) error }) (*domain.GPSDevice, error) {
	var d domain.GPSDevice
	err := row.Scan(&d.ID, &d.DeviceID, &d.AssignedVehicleID, &d.IsActive, &d.LastSeen, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PostgresTrackingRepository) CreateDevice(ctx context.Context, d *domain.GPSDevice) error {
	query := `
	INSERT INTO gps_devices (device_id, assigned_vehicle_id, is_active)
	VALUES ($1, $2, $3)
	RETURNING id, created_at;
	`
	err := r.DB.QueryRowContext(ctx, query, d.DeviceID, d.AssignedVehicleID, d.IsActive).
		Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("create gps device: %w", translateConflict(err))
	}
	return nil
}

func (r *PostgresTrackingRepository) ListDevices(ctx context.Context) ([]*domain.GPSDevice, error) {
	query := `SELECT` + deviceColumns + `
	FROM gps_devices
	ORDER BY device_id;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list gps devices: query gps_devices table: %w", err)
	}
	defer rows.Close()

	devices := make([]*domain.GPSDevice, 0, 16)
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("list gps devices: scan row: %w", err)
		}
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list gps devices: row iteration: %w", err)
	}

	return devices, nil
}

func (r *PostgresTrackingRepository) GetDevice(ctx context.Context, id int64) (*domain.GPSDevice, error) {
	query := `SELECT` + deviceColumns + `
	FROM gps_devices
	WHERE id = $1;
	`
	d, err := scanDevice(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get gps device id=%d: %w", id, err)
	}
	return d, nil
}

func (r *PostgresTrackingRepository) UpdateDevice(ctx context.Context, d *domain.GPSDevice) error {
	query := `
	UPDATE gps_devices
	SET device_id = $2, assigned_vehicle_id = $3, is_active = $4
	WHERE id = $1;
	`
	res, err := r.DB.ExecContext(ctx, query, d.ID, d.DeviceID, d.AssignedVehicleID, d.IsActive)
	if err != nil {
		return fmt.Errorf("update gps device id=%d: %w", d.ID, translateConflict(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update gps device id=%d: rows affected: %w", d.ID, err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// InsertPing stores the ping and advances last_seen in one transaction.
// GREATEST keeps last_seen monotonic when pings arrive out of order.
func (r *PostgresTrackingRepository) InsertPing(ctx context.Context, p *domain.GPSTrackingPing) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert ping: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insertQuery := `
	INSERT INTO gps_tracking_pings (gps_device_id, latitude, longitude, recorded_at, speed_mph, heading)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, created_at;
	`
	err = tx.QueryRowContext(ctx, insertQuery,
		p.DeviceID, p.Latitude, p.Longitude, p.Timestamp, p.SpeedMph, p.Heading,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert ping: %w", err)
	}

	touchQuery := `
	UPDATE gps_devices
	SET last_seen = GREATEST(COALESCE(last_seen, $2), $2)
	WHERE id = $1;
	`
	if _, err := tx.ExecContext(ctx, touchQuery, p.DeviceID, p.Timestamp); err != nil {
		return fmt.Errorf("insert ping: touch last_seen: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert ping: commit tx: %w", err)
	}
	return nil
}

func (r *PostgresTrackingRepository) ListPings(ctx context.Context, deviceID int64, limit int) ([]*domain.GPSTrackingPing, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
	SELECT id, gps_device_id, latitude, longitude, recorded_at, speed_mph, heading, created_at
	FROM gps_tracking_pings
	WHERE gps_device_id = $1
	ORDER BY recorded_at DESC
	LIMIT $2;
	`
	rows, err := r.DB.QueryContext(ctx, query, deviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("list pings device_id=%d: %w", deviceID, err)
	}
	defer rows.Close()

	pings := make([]*domain.GPSTrackingPing, 0, limit)
	for rows.Next() {
		var p domain.GPSTrackingPing
		err := rows.Scan(&p.ID, &p.DeviceID, &p.Latitude, &p.Longitude,
			&p.Timestamp, &p.SpeedMph, &p.Heading, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("list pings: scan row: %w", err)
		}
		pings = append(pings, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pings: row iteration: %w", err)
	}

	return pings, nil
}

func (r *PostgresTrackingRepository) ListEvents(ctx context.Context, deviceID int64) ([]*domain.GPSTrackingEvent, error) {
	query := `
	SELECT id, gps_device_id, vehicle_id, shipment_id, location_id, event_type, event_timestamp, note, created_at
	FROM gps_tracking_events
	WHERE gps_device_id = $1
	ORDER BY event_timestamp, id;
	`
	rows, err := r.DB.QueryContext(ctx, query, deviceID)
	if err != nil {
		return nil, fmt.Errorf("list tracking events device_id=%d: %w", deviceID, err)
	}
	defer rows.Close()

	events := make([]*domain.GPSTrackingEvent, 0, 8)
	for rows.Next() {
		var e domain.GPSTrackingEvent
		err := rows.Scan(&e.ID, &e.DeviceID, &e.VehicleID, &e.ShipmentID, &e.LocationID,
			&e.EventType, &e.EventTimestamp, &e.Note, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("list tracking events: scan row: %w", err)
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tracking events: row iteration: %w", err)
	}

	return events, nil
}

func (r *PostgresTrackingRepository) InDeviceTx(ctx context.Context, fn func(tx ports.DeviceTx) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("device tx: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&deviceTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("device tx: commit: %w", err)
	}
	return nil
}

// deviceTx runs against one open transaction.
type deviceTx struct{ tx *sql.Tx }

func (t *deviceTx) LockDevice(ctx context.Context, id int64) (*domain.GPSDevice, error) {
	query := `SELECT` + deviceColumns + `
	FROM gps_devices
	WHERE id = $1
	FOR UPDATE;
	`
	d, err := scanDevice(t.tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("lock gps device id=%d: %w", id, err)
	}
	return d, nil
}

func (t *deviceTx) LatestEvent(ctx context.Context, deviceID int64) (*domain.GPSTrackingEvent, error) {
	query := `
	SELECT id, gps_device_id, vehicle_id, shipment_id, location_id, event_type, event_timestamp, note, created_at
	FROM gps_tracking_events
	WHERE gps_device_id = $1
	ORDER BY event_timestamp DESC, id DESC
	LIMIT 1;
	`
	var e domain.GPSTrackingEvent
	err := t.tx.QueryRowContext(ctx, query, deviceID).
		Scan(&e.ID, &e.DeviceID, &e.VehicleID, &e.ShipmentID, &e.LocationID,
			&e.EventType, &e.EventTimestamp, &e.Note, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest tracking event device_id=%d: %w", deviceID, err)
	}
	return &e, nil
}

func (t *deviceTx) EventExists(ctx context.Context, deviceID int64, eventType domain.TrackingEventType, ts time.Time) (bool, error) {
	query := `
	SELECT EXISTS (
		SELECT 1 FROM gps_tracking_events
		WHERE gps_device_id = $1 AND event_type = $2 AND event_timestamp = $3
	);
	`
	var exists bool
	if err := t.tx.QueryRowContext(ctx, query, deviceID, eventType, ts).Scan(&exists); err != nil {
		return false, fmt.Errorf("tracking event exists device_id=%d: %w", deviceID, err)
	}
	return exists, nil
}

func (t *deviceTx) InsertEvent(ctx context.Context, ev *domain.GPSTrackingEvent) error {
	query := `
	INSERT INTO gps_tracking_events (gps_device_id, vehicle_id, shipment_id, location_id, event_type, event_timestamp, note)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, created_at;
	`
	err := t.tx.QueryRowContext(ctx, query,
		ev.DeviceID, ev.VehicleID, ev.ShipmentID, ev.LocationID,
		ev.EventType, ev.EventTimestamp, ev.Note,
	).Scan(&ev.ID, &ev.CreatedAt)
	if err != nil {
		return translateConflict(err)
	}
	return nil
}
