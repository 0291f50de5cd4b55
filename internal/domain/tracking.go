package domain

import (
	"strings"
	"time"
)

// GPSDevice is a physical tracker installed on a vehicle. LastSeen advances
// as pings arrive and is never moved backwards.
type GPSDevice struct {
	ID                int64
	DeviceID          string
	AssignedVehicleID *int64
	IsActive          bool
	LastSeen          *time.Time
	CreatedAt         time.Time
}

func (d *GPSDevice) Normalize() {
	d.DeviceID = strings.TrimSpace(d.DeviceID)
}

func (d *GPSDevice) Validate() error {
	errs := FieldErrors{}

	if d.DeviceID == "" {
		errs["device_id"] = "Device ID is required."
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// GPSTrackingPing is one raw telemetry reading reported by a device.
type GPSTrackingPing struct {
	ID        int64
	DeviceID  int64
	Latitude  float64
	Longitude float64
	Timestamp time.Time
	SpeedMph  *float64
	Heading   *float64
	CreatedAt time.Time
}

func (p *GPSTrackingPing) Validate() error {
	errs := FieldErrors{}

	if p.DeviceID == 0 {
		errs["device_id"] = "Device is required."
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		errs["latitude"] = "Latitude must be between -90 and 90."
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		errs["longitude"] = "Longitude must be between -180 and 180."
	}
	if p.Timestamp.IsZero() {
		errs["timestamp"] = "Timestamp is required."
	}
	if p.SpeedMph != nil && *p.SpeedMph < 0 {
		errs["speed_mph"] = "Speed cannot be negative."
	}
	if p.Heading != nil && (*p.Heading < 0 || *p.Heading >= 360) {
		errs["heading"] = "Heading must be between 0 and 360 degrees."
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// TrackingEventType classifies a derived movement event.
type TrackingEventType string

const (
	EventArrived   TrackingEventType = "arrived"
	EventDeparted  TrackingEventType = "departed"
	EventStopped   TrackingEventType = "stopped"
	EventInTransit TrackingEventType = "in_transit"
	EventCustom    TrackingEventType = "custom"
)

func ValidTrackingEventType(t TrackingEventType) bool {
	switch t {
	case EventArrived, EventDeparted, EventStopped, EventInTransit, EventCustom:
		return true
	}
	return false
}

// GPSTrackingEvent is a movement event derived from device telemetry. It
// carries the same chronology contract as shipment status events, scoped to
// the device: unique on (device, event type, timestamp) and monotonic per
// device.
type GPSTrackingEvent struct {
	ID             int64
	DeviceID       int64
	VehicleID      *int64
	ShipmentID     *int64
	LocationID     *int64
	EventType      TrackingEventType
	EventTimestamp time.Time
	Note           string
	CreatedAt      time.Time
}

func (e *GPSTrackingEvent) Validate() error {
	errs := FieldErrors{}

	if e.DeviceID == 0 {
		errs["device_id"] = "Device is required."
	}
	if !ValidTrackingEventType(e.EventType) {
		errs["event_type"] = "Event type must be one of arrived, departed, stopped, in_transit, custom."
	}
	if e.EventTimestamp.IsZero() {
		errs["event_timestamp"] = "Event timestamp is required."
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
