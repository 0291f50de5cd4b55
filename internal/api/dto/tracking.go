package dto

import "time"

type DeviceRequest struct {
	DeviceID          string `json:"device_id"`
	AssignedVehicleID *int64 `json:"assigned_vehicle_id,omitempty"`
	IsActive          *bool  `json:"is_active,omitempty"`
}

type DeviceResponse struct {
	ID                int64      `json:"id"`
	DeviceID          string     `json:"device_id"`
	AssignedVehicleID *int64     `json:"assigned_vehicle_id,omitempty"`
	IsActive          bool       `json:"is_active"`
	LastSeen          *time.Time `json:"last_seen,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

type ListDevicesResponse struct {
	Devices []DeviceResponse `json:"devices"`
}

type PingRequest struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	SpeedMph  *float64   `json:"speed_mph,omitempty"`
	Heading   *float64   `json:"heading,omitempty"`
}

type PingResponse struct {
	ID        int64     `json:"id"`
	DeviceID  int64     `json:"device_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
	SpeedMph  *float64  `json:"speed_mph,omitempty"`
	Heading   *float64  `json:"heading,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ListPingsResponse struct {
	Pings []PingResponse `json:"pings"`
}

type TrackingEventRequest struct {
	EventType      string     `json:"event_type"`
	EventTimestamp *time.Time `json:"event_timestamp,omitempty"`
	VehicleID      *int64     `json:"vehicle_id,omitempty"`
	ShipmentID     *int64     `json:"shipment_id,omitempty"`
	LocationID     *int64     `json:"location_id,omitempty"`
	Note           string     `json:"note,omitempty"`
}

type TrackingEventResponse struct {
	ID             int64      `json:"id"`
	DeviceID       int64      `json:"device_id"`
	VehicleID      *int64     `json:"vehicle_id,omitempty"`
	ShipmentID     *int64     `json:"shipment_id,omitempty"`
	LocationID     *int64     `json:"location_id,omitempty"`
	EventType      string     `json:"event_type"`
	EventTimestamp time.Time  `json:"event_timestamp"`
	Note           string     `json:"note,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type ListTrackingEventsResponse struct {
	Events []TrackingEventResponse `json:"events"`
}
