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

// Postgres-backed implementation of the ShipmentRepository port.
type PostgresShipmentRepository struct{ DB *sql.DB }

func NewPostgresShipmentRepository(db *sql.DB) *PostgresShipmentRepository {
	return &PostgresShipmentRepository{DB: db}
}

const shipmentColumns = `
	id, origin_id, destination_id, scheduled_pickup, scheduled_delivery,
	actual_pickup, actual_delivery, carrier_id, driver_id, vehicle_id,
	current_status, created_at, updated_at`

func scanShipment(row interface{ Scan(...any) error }) (*domain.Shipment, error) {
	var s domain.Shipment
	err := row.Scan(
		&s.ID, &s.OriginID, &s.DestinationID, &s.ScheduledPickup, &s.ScheduledDelivery,
		&s.ActualPickup, &s.ActualDelivery, &s.CarrierID, &s.DriverID, &s.VehicleID,
		&s.CurrentStatus, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PostgresShipmentRepository) CreateShipment(ctx context.Context, s *domain.Shipment) error {
	query := `
	INSERT INTO shipments (origin_id, destination_id, scheduled_pickup, scheduled_delivery,
		actual_pickup, actual_delivery, carrier_id, driver_id, vehicle_id, current_status)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING id, created_at, updated_at;
	`
	err := r.DB.QueryRowContext(ctx, query,
		s.OriginID, s.DestinationID, s.ScheduledPickup, s.ScheduledDelivery,
		s.ActualPickup, s.ActualDelivery, s.CarrierID, s.DriverID, s.VehicleID, s.CurrentStatus,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create shipment: %w", err)
	}
	return nil
}

func (r *PostgresShipmentRepository) ListShipments(ctx context.Context) ([]*domain.Shipment, error) {
	query := `SELECT` + shipmentColumns + `
	FROM shipments
	ORDER BY scheduled_pickup;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list shipments: query shipments table: %w", err)
	}
	defer rows.Close()

	shipments := make([]*domain.Shipment, 0, 32)
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, fmt.Errorf("list shipments: scan row: %w", err)
		}
		shipments = append(shipments, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list shipments: row iteration: %w", err)
	}

	return shipments, nil
}

func (r *PostgresShipmentRepository) GetShipment(ctx context.Context, id int64) (*domain.Shipment, error) {
	query := `SELECT` + shipmentColumns + `
	FROM shipments
	WHERE id = $1;
	`
	s, err := scanShipment(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get shipment id=%d: %w", id, err)
	}
	return s, nil
}

func (r *PostgresShipmentRepository) UpdateShipment(ctx context.Context, s *domain.Shipment) error {
	// current_status, actual_pickup, and actual_delivery change only through
	// the event-recording transaction, never through a plain update.
	query := `
	UPDATE shipments
	SET origin_id = $2, destination_id = $3, scheduled_pickup = $4,
		scheduled_delivery = $5, carrier_id = $6, driver_id = $7, vehicle_id = $8,
		updated_at = now()
	WHERE id = $1
	RETURNING actual_pickup, actual_delivery, current_status, updated_at;
	`
	err := r.DB.QueryRowContext(ctx, query,
		s.ID, s.OriginID, s.DestinationID, s.ScheduledPickup, s.ScheduledDelivery,
		s.CarrierID, s.DriverID, s.VehicleID,
	).Scan(&s.ActualPickup, &s.ActualDelivery, &s.CurrentStatus, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update shipment id=%d: %w", s.ID, err)
	}
	return nil
}

func (r *PostgresShipmentRepository) DeleteShipment(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM shipments WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete shipment id=%d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete shipment id=%d: rows affected: %w", id, err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresShipmentRepository) ListEvents(ctx context.Context, shipmentID int64) ([]*domain.ShipmentStatusEvent, error) {
	query := `
	SELECT id, shipment_id, status, event_timestamp, COALESCE(source, ''), COALESCE(notes, ''), created_at
	FROM shipment_status_events
	WHERE shipment_id = $1
	ORDER BY event_timestamp, id;
	`
	rows, err := r.DB.QueryContext(ctx, query, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("list status events shipment_id=%d: %w", shipmentID, err)
	}
	defer rows.Close()

	events := make([]*domain.ShipmentStatusEvent, 0, 8)
	for rows.Next() {
		var e domain.ShipmentStatusEvent
		err := rows.Scan(&e.ID, &e.ShipmentID, &e.Status, &e.EventTimestamp, &e.Source, &e.Notes, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("list status events: scan row: %w", err)
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list status events: row iteration: %w", err)
	}

	return events, nil
}

func (r *PostgresShipmentRepository) InTx(ctx context.Context, fn func(tx ports.ShipmentTx) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("shipment tx: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&shipmentTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("shipment tx: commit: %w", err)
	}
	return nil
}

// shipmentTx runs against one open transaction.
type shipmentTx struct{ tx *sql.Tx }

func (t *shipmentTx) LockShipment(ctx context.Context, id int64) (*domain.Shipment, error) {
	query := `SELECT` + shipmentColumns + `
	FROM shipments
	WHERE id = $1
	FOR UPDATE;
	`
	s, err := scanShipment(t.tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("lock shipment id=%d: %w", id, err)
	}
	return s, nil
}

func (t *shipmentTx) LatestEvent(ctx context.Context, shipmentID int64) (*domain.ShipmentStatusEvent, error) {
	// Ties on event_timestamp break on id, so the latest event is stable.
	query := `
	SELECT id, shipment_id, status, event_timestamp, COALESCE(source, ''), COALESCE(notes, ''), created_at
	FROM shipment_status_events
	WHERE shipment_id = $1
	ORDER BY event_timestamp DESC, id DESC
	LIMIT 1;
	`
	var e domain.ShipmentStatusEvent
	err := t.tx.QueryRowContext(ctx, query, shipmentID).
		Scan(&e.ID, &e.ShipmentID, &e.Status, &e.EventTimestamp, &e.Source, &e.Notes, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest event shipment_id=%d: %w", shipmentID, err)
	}
	return &e, nil
}

func (t *shipmentTx) EventExists(ctx context.Context, shipmentID int64, status domain.ShipmentStatus, ts time.Time) (bool, error) {
	query := `
	SELECT EXISTS (
		SELECT 1 FROM shipment_status_events
		WHERE shipment_id = $1 AND status = $2 AND event_timestamp = $3
	);
	`
	var exists bool
	if err := t.tx.QueryRowContext(ctx, query, shipmentID, status, ts).Scan(&exists); err != nil {
		return false, fmt.Errorf("event exists shipment_id=%d: %w", shipmentID, err)
	}
	return exists, nil
}

func (t *shipmentTx) InsertEvent(ctx context.Context, ev *domain.ShipmentStatusEvent) error {
	query := `
	INSERT INTO shipment_status_events (shipment_id, status, event_timestamp, source, notes)
	VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
	RETURNING id, created_at;
	`
	err := t.tx.QueryRowContext(ctx, query,
		ev.ShipmentID, ev.Status, ev.EventTimestamp, ev.Source, ev.Notes,
	).Scan(&ev.ID, &ev.CreatedAt)
	if err != nil {
		return translateConflict(err)
	}
	return nil
}

func (t *shipmentTx) UpdateShipmentStatus(ctx context.Context, s *domain.Shipment) error {
	query := `
	UPDATE shipments
	SET current_status = $2, actual_pickup = $3, actual_delivery = $4, updated_at = now()
	WHERE id = $1
	RETURNING updated_at;
	`
	err := t.tx.QueryRowContext(ctx, query,
		s.ID, s.CurrentStatus, s.ActualPickup, s.ActualDelivery,
	).Scan(&s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update shipment status id=%d: %w", s.ID, err)
	}
	return nil
}

func (r *PostgresShipmentRepository) CreateItem(ctx context.Context, item *domain.ShipmentItem) error {
	query := `
	INSERT INTO shipment_items (shipment_id, asset_id, quantity, unit_weight_lb, notes)
	VALUES ($1, $2, $3, $4, NULLIF($5, ''))
	RETURNING id, created_at, updated_at;
	`
	err := r.DB.QueryRowContext(ctx, query,
		item.ShipmentID, item.AssetID, item.Quantity, item.UnitWeightLb, item.Notes,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create shipment item: %w", err)
	}
	return nil
}

func (r *PostgresShipmentRepository) ListItems(ctx context.Context, shipmentID int64) ([]*domain.ShipmentItem, error) {
	query := `
	SELECT id, shipment_id, asset_id, quantity, unit_weight_lb, COALESCE(notes, ''), created_at, updated_at
	FROM shipment_items
	WHERE shipment_id = $1
	ORDER BY id;
	`
	rows, err := r.DB.QueryContext(ctx, query, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("list shipment items shipment_id=%d: %w", shipmentID, err)
	}
	defer rows.Close()

	items := make([]*domain.ShipmentItem, 0, 8)
	for rows.Next() {
		var it domain.ShipmentItem
		err := rows.Scan(&it.ID, &it.ShipmentID, &it.AssetID, &it.Quantity,
			&it.UnitWeightLb, &it.Notes, &it.CreatedAt, &it.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("list shipment items: scan row: %w", err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list shipment items: row iteration: %w", err)
	}

	return items, nil
}

func (r *PostgresShipmentRepository) DeleteItem(ctx context.Context, shipmentID, itemID int64) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM shipment_items WHERE id = $1 AND shipment_id = $2;`, itemID, shipmentID)
	if err != nil {
		return fmt.Errorf("delete shipment item id=%d: %w", itemID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete shipment item id=%d: rows affected: %w", itemID, err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
