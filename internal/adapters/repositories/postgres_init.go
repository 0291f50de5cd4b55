package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"freight-tracking-service/internal/domain"
)

// Initialize the Postgres schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS locations (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			address_line1 TEXT NOT NULL,
			address_line2 TEXT,
			city TEXT NOT NULL,
			state TEXT NOT NULL,
			postal_code TEXT NOT NULL,
			country CHAR(2) NOT NULL DEFAULT 'US',
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,

		`CREATE TABLE IF NOT EXISTS carriers (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			mc_number TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_carriers_mc_number
			ON carriers (UPPER(mc_number));`,

		`CREATE TABLE IF NOT EXISTS carrier_contacts (
			id BIGSERIAL PRIMARY KEY,
			carrier_id BIGINT NOT NULL REFERENCES carriers(id),
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone_number TEXT,
			role TEXT NOT NULL DEFAULT 'DISPATCH',
			is_primary BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_contacts_email
			ON carrier_contacts (LOWER(email));`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_primary_contact_per_carrier
			ON carrier_contacts (carrier_id) WHERE is_primary;`,

		`CREATE TABLE IF NOT EXISTS drivers (
			id BIGSERIAL PRIMARY KEY,
			carrier_id BIGINT NOT NULL REFERENCES carriers(id),
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone_number TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_drivers_email
			ON drivers (LOWER(email));`,

		`CREATE TABLE IF NOT EXISTS vehicles (
			id BIGSERIAL PRIMARY KEY,
			carrier_id BIGINT NOT NULL REFERENCES carriers(id),
			plate_number TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_vehicles_plate
			ON vehicles (UPPER(plate_number));`,

		`CREATE TABLE IF NOT EXISTS assets (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			sku TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			slug TEXT NOT NULL,
			weight_lb DOUBLE PRECISION NOT NULL CHECK (weight_lb > 0),
			length_in DOUBLE PRECISION NOT NULL CHECK (length_in > 0),
			width_in DOUBLE PRECISION NOT NULL CHECK (width_in > 0),
			height_in DOUBLE PRECISION NOT NULL CHECK (height_in > 0),
			is_fragile BOOLEAN NOT NULL DEFAULT FALSE,
			is_hazardous BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_assets_sku
			ON assets (UPPER(sku));`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_assets_slug
			ON assets (slug);`,

		`CREATE TABLE IF NOT EXISTS shipments (
			id BIGSERIAL PRIMARY KEY,
			origin_id BIGINT NOT NULL REFERENCES locations(id),
			destination_id BIGINT NOT NULL REFERENCES locations(id),
			scheduled_pickup TIMESTAMPTZ NOT NULL,
			scheduled_delivery TIMESTAMPTZ NOT NULL,
			actual_pickup TIMESTAMPTZ,
			actual_delivery TIMESTAMPTZ,
			carrier_id BIGINT REFERENCES carriers(id) ON DELETE SET NULL,
			driver_id BIGINT REFERENCES drivers(id) ON DELETE SET NULL,
			vehicle_id BIGINT REFERENCES vehicles(id) ON DELETE SET NULL,
			current_status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			CHECK (origin_id <> destination_id),
			CHECK (scheduled_delivery >= scheduled_pickup)
		);`,

		`CREATE TABLE IF NOT EXISTS shipment_status_events (
			id BIGSERIAL PRIMARY KEY,
			shipment_id BIGINT NOT NULL REFERENCES shipments(id) ON DELETE CASCADE,
			status TEXT NOT NULL,
			event_timestamp TIMESTAMPTZ NOT NULL,
			source TEXT,
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			CONSTRAINT uq_status_event_per_timestamp
				UNIQUE (shipment_id, status, event_timestamp)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_status_events_shipment_ts
			ON shipment_status_events (shipment_id, event_timestamp DESC, id DESC);`,

		`CREATE TABLE IF NOT EXISTS shipment_items (
			id BIGSERIAL PRIMARY KEY,
			shipment_id BIGINT NOT NULL REFERENCES shipments(id) ON DELETE CASCADE,
			asset_id BIGINT NOT NULL REFERENCES assets(id),
			quantity INTEGER NOT NULL CHECK (quantity >= 1),
			unit_weight_lb DOUBLE PRECISION NOT NULL CHECK (unit_weight_lb > 0),
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,

		`CREATE TABLE IF NOT EXISTS gps_devices (
			id BIGSERIAL PRIMARY KEY,
			device_id TEXT NOT NULL,
			assigned_vehicle_id BIGINT REFERENCES vehicles(id) ON DELETE SET NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			last_seen TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_gps_devices_device_id
			ON gps_devices (device_id);`,

		`CREATE TABLE IF NOT EXISTS gps_tracking_pings (
			id BIGSERIAL PRIMARY KEY,
			gps_device_id BIGINT NOT NULL REFERENCES gps_devices(id) ON DELETE CASCADE,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			recorded_at TIMESTAMPTZ NOT NULL,
			speed_mph DOUBLE PRECISION,
			heading DOUBLE PRECISION,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_pings_device_recorded_at
			ON gps_tracking_pings (gps_device_id, recorded_at DESC);`,

		`CREATE TABLE IF NOT EXISTS gps_tracking_events (
			id BIGSERIAL PRIMARY KEY,
			gps_device_id BIGINT NOT NULL REFERENCES gps_devices(id) ON DELETE CASCADE,
			vehicle_id BIGINT REFERENCES vehicles(id) ON DELETE SET NULL,
			shipment_id BIGINT REFERENCES shipments(id) ON DELETE SET NULL,
			location_id BIGINT REFERENCES locations(id) ON DELETE SET NULL,
			event_type TEXT NOT NULL,
			event_timestamp TIMESTAMPTZ NOT NULL,
			note TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			CONSTRAINT uq_tracking_event_per_timestamp
				UNIQUE (gps_device_id, event_type, event_timestamp)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tracking_events_device_ts
			ON gps_tracking_events (gps_device_id, event_timestamp DESC, id DESC);`,

		`CREATE TABLE IF NOT EXISTS notes (
			id BIGSERIAL PRIMARY KEY,
			entity_kind TEXT NOT NULL,
			entity_id BIGINT NOT NULL,
			body VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_notes_entity
			ON notes (entity_kind, entity_id);`,

		`CREATE TABLE IF NOT EXISTS attachments (
			id BIGSERIAL PRIMARY KEY,
			entity_kind TEXT NOT NULL,
			entity_id BIGINT NOT NULL,
			file_name TEXT NOT NULL,
			content_type TEXT NOT NULL DEFAULT 'application/octet-stream',
			size_bytes BIGINT NOT NULL,
			storage_path TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			uploaded_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_attachments_entity
			ON attachments (entity_kind, entity_id);`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type LocationSeed struct {
	Name         string   `json:"name"`
	AddressLine1 string   `json:"address_line1"`
	AddressLine2 string   `json:"address_line2"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	PostalCode   string   `json:"postal_code"`
	Country      string   `json:"country"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}

type CarrierSeed struct {
	Name     string `json:"name"`
	MCNumber string `json:"mc_number"`
}

type Seed struct {
	Locations []LocationSeed `json:"locations"`
	Carriers  []CarrierSeed  `json:"carriers"`
}

// Populate the database with demo locations and carriers from a JSON file.
// Seeding is idempotent: rows that already exist are left alone.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed: read %q: %w", jsonPath, err)
	}

	var seed Seed
	if err := json.Unmarshal(bytes, &seed); err != nil {
		return fmt.Errorf("seed: parse json: %w", err)
	}

	for i, c := range seed.Carriers {
		if !domain.ValidMCNumber(c.MCNumber) {
			return fmt.Errorf("seed: carrier at index %d: invalid mc_number %q", i+1, c.MCNumber)
		}
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("seed: carrier at index %d: name cannot be empty", i+1)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	locStmt, err := tx.Prepare(`
	INSERT INTO locations (name, address_line1, address_line2, city, state, postal_code, country, latitude, longitude)
	SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9
	WHERE NOT EXISTS (SELECT 1 FROM locations WHERE name = $1);
	`)
	if err != nil {
		return fmt.Errorf("seed: prepare location insert: %w", err)
	}
	defer locStmt.Close()

	for _, l := range seed.Locations {
		country := strings.ToUpper(strings.TrimSpace(l.Country))
		if country == "" {
			country = "US"
		}
		var line2 *string
		if strings.TrimSpace(l.AddressLine2) != "" {
			line2 = &l.AddressLine2
		}
		if _, err := locStmt.Exec(
			l.Name, l.AddressLine1, line2, l.City, l.State, l.PostalCode, country, l.Latitude, l.Longitude,
		); err != nil {
			return fmt.Errorf("seed: insert location %q: %w", l.Name, err)
		}
	}

	carrierStmt, err := tx.Prepare(`
	INSERT INTO carriers (name, mc_number)
	SELECT $1, $2
	WHERE NOT EXISTS (SELECT 1 FROM carriers WHERE UPPER(mc_number) = $2);
	`)
	if err != nil {
		return fmt.Errorf("seed: prepare carrier insert: %w", err)
	}
	defer carrierStmt.Close()

	for _, c := range seed.Carriers {
		if _, err := carrierStmt.Exec(strings.TrimSpace(c.Name), domain.NormalizeMCNumber(c.MCNumber)); err != nil {
			return fmt.Errorf("seed: insert carrier mc_number=%q: %w", c.MCNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit tx: %w", err)
	}

	return nil
}
