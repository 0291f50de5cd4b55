package ports

import (
	"context"
	"freight-tracking-service/internal/domain"
	"time"
)

// DeviceTx exposes the operations available inside a tracking-event
// transaction, with the device row locked for its duration.
type DeviceTx interface {
	LockDevice(ctx context.Context, id int64) (*domain.GPSDevice, error)
	// LatestEvent returns the device's tracking event with the greatest
	// (event_timestamp, id), or nil when no events exist.
	LatestEvent(ctx context.Context, deviceID int64) (*domain.GPSTrackingEvent, error)
	EventExists(ctx context.Context, deviceID int64, eventType domain.TrackingEventType, ts time.Time) (bool, error)
	InsertEvent(ctx context.Context, ev *domain.GPSTrackingEvent) error
}

// Port: boundary for persisting GPS devices, raw pings, and derived
// tracking events. Device ID conflicts surface as *domain.ConflictError.
type TrackingRepository interface {
	CreateDevice(ctx context.Context, d *domain.GPSDevice) error
	ListDevices(ctx context.Context) ([]*domain.GPSDevice, error)
	GetDevice(ctx context.Context, id int64) (*domain.GPSDevice, error)
	UpdateDevice(ctx context.Context, d *domain.GPSDevice) error

	// InsertPing stores a ping and advances the device's last_seen in the
	// same transaction; last_seen never moves backwards.
	InsertPing(ctx context.Context, p *domain.GPSTrackingPing) error
	// ListPings returns the device's pings newest first, at most limit.
	ListPings(ctx context.Context, deviceID int64, limit int) ([]*domain.GPSTrackingPing, error)

	// ListEvents returns the device's tracking events in chronological
	// order (event_timestamp, then id).
	ListEvents(ctx context.Context, deviceID int64) ([]*domain.GPSTrackingEvent, error)

	// InDeviceTx runs fn inside one transaction; a non-nil error rolls back.
	InDeviceTx(ctx context.Context, fn func(tx DeviceTx) error) error
}

// Port: fan-out of freshly recorded pings to live subscribers. Publishing
// must never block the ingest path.
type PingStream interface {
	PublishPing(p *domain.GPSTrackingPing)
}
