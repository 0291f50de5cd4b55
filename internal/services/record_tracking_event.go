package services

import (
	"context"
	"fmt"
	"time"

	"freight-tracking-service/internal/domain"
	"freight-tracking-service/internal/platform/obs"
	"freight-tracking-service/internal/ports"
)

type RecordTrackingEventRequest struct {
	DeviceID       int64
	EventType      domain.TrackingEventType
	EventTimestamp *time.Time
	VehicleID      *int64
	ShipmentID     *int64
	LocationID     *int64
	Note           string
}

// RecordTrackingEvent appends one derived movement event to a device's
// history. It carries the same contract as shipment status recording,
// applied per device: the device row is locked, an out-of-order timestamp
// fails with domain.ErrEventOutOfOrder, and an exact (device, type,
// timestamp) duplicate fails with domain.ErrDuplicateEvent — in either case
// nothing is inserted.
func RecordTrackingEvent(
	ctx context.Context,
	req RecordTrackingEventRequest,
	repo ports.TrackingRepository,
) (_ *domain.GPSTrackingEvent, err error) {
	defer obs.Time(ctx, "services.record_tracking_event")(&err)

	ts := time.Now().UTC()
	if req.EventTimestamp != nil {
		ts = *req.EventTimestamp
	}

	ev := &domain.GPSTrackingEvent{
		DeviceID:       req.DeviceID,
		VehicleID:      req.VehicleID,
		ShipmentID:     req.ShipmentID,
		LocationID:     req.LocationID,
		EventType:      req.EventType,
		EventTimestamp: ts,
		Note:           req.Note,
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}

	err = repo.InDeviceTx(ctx, func(tx ports.DeviceTx) error {
		device, err := tx.LockDevice(ctx, req.DeviceID)
		if err != nil {
			return fmt.Errorf("lock device %d: %w", req.DeviceID, err)
		}

		latest, err := tx.LatestEvent(ctx, device.ID)
		if err != nil {
			return fmt.Errorf("load latest event: %w", err)
		}
		if latest != nil && latest.EventTimestamp.After(ev.EventTimestamp) {
			return domain.ErrEventOutOfOrder
		}

		exists, err := tx.EventExists(ctx, device.ID, ev.EventType, ev.EventTimestamp)
		if err != nil {
			return fmt.Errorf("check duplicate event: %w", err)
		}
		if exists {
			return domain.ErrDuplicateEvent
		}

		if err := tx.InsertEvent(ctx, ev); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("record tracking event: %w", err)
	}

	return ev, nil
}

type RecordPingRequest struct {
	DeviceID  int64
	Latitude  float64
	Longitude float64
	Timestamp *time.Time
	SpeedMph  *float64
	Heading   *float64
}

// RecordPing stores one raw telemetry reading and fans it out to live
// subscribers. The device's last_seen advances with the ping inside the
// insert transaction. Pings for inactive devices are rejected.
func RecordPing(
	ctx context.Context,
	req RecordPingRequest,
	repo ports.TrackingRepository,
	stream ports.PingStream,
) (_ *domain.GPSTrackingPing, err error) {
	defer obs.Time(ctx, "services.record_ping")(&err)

	device, err := repo.GetDevice(ctx, req.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("record ping: %w", err)
	}
	if !device.IsActive {
		return nil, domain.FieldErrors{"device_id": "Device is not active."}
	}

	ts := time.Now().UTC()
	if req.Timestamp != nil {
		ts = *req.Timestamp
	}

	ping := &domain.GPSTrackingPing{
		DeviceID:  req.DeviceID,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Timestamp: ts,
		SpeedMph:  req.SpeedMph,
		Heading:   req.Heading,
	}
	if err := ping.Validate(); err != nil {
		return nil, err
	}

	if err := repo.InsertPing(ctx, ping); err != nil {
		return nil, fmt.Errorf("record ping: %w", err)
	}

	if stream != nil {
		stream.PublishPing(ping)
	}

	return ping, nil
}
