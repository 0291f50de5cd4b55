package dto

import "time"

type ShipmentRequest struct {
	OriginID          int64     `json:"origin_id"`
	DestinationID     int64     `json:"destination_id"`
	ScheduledPickup   time.Time `json:"scheduled_pickup"`
	ScheduledDelivery time.Time `json:"scheduled_delivery"`
	CarrierID         *int64    `json:"carrier_id,omitempty"`
	DriverID          *int64    `json:"driver_id,omitempty"`
	VehicleID         *int64    `json:"vehicle_id,omitempty"`
}

type ShipmentResponse struct {
	ID                int64      `json:"id"`
	OriginID          int64      `json:"origin_id"`
	DestinationID     int64      `json:"destination_id"`
	ScheduledPickup   time.Time  `json:"scheduled_pickup"`
	ScheduledDelivery time.Time  `json:"scheduled_delivery"`
	ActualPickup      *time.Time `json:"actual_pickup,omitempty"`
	ActualDelivery    *time.Time `json:"actual_delivery,omitempty"`
	CarrierID         *int64     `json:"carrier_id,omitempty"`
	DriverID          *int64     `json:"driver_id,omitempty"`
	VehicleID         *int64     `json:"vehicle_id,omitempty"`
	CurrentStatus     string     `json:"current_status"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type ListShipmentsResponse struct {
	Shipments []ShipmentResponse `json:"shipments"`
}

type StatusEventRequest struct {
	Status         string     `json:"status"`
	EventTimestamp *time.Time `json:"event_timestamp,omitempty"`
	Source         string     `json:"source,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

type StatusEventResponse struct {
	ID             int64     `json:"id"`
	ShipmentID     int64     `json:"shipment_id"`
	Status         string    `json:"status"`
	EventTimestamp time.Time `json:"event_timestamp"`
	Source         string    `json:"source,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type ListStatusEventsResponse struct {
	Events []StatusEventResponse `json:"events"`
}

type CurrentStatusResponse struct {
	ShipmentID int64  `json:"shipment_id"`
	Status     string `json:"status"`
}

type ShipmentItemRequest struct {
	AssetID      int64   `json:"asset_id"`
	Quantity     int     `json:"quantity"`
	UnitWeightLb float64 `json:"unit_weight_lb,omitempty"`
	Notes        string  `json:"notes,omitempty"`
}

type ShipmentItemResponse struct {
	ID            int64     `json:"id"`
	ShipmentID    int64     `json:"shipment_id"`
	AssetID       int64     `json:"asset_id"`
	Quantity      int       `json:"quantity"`
	UnitWeightLb  float64   `json:"unit_weight_lb"`
	TotalWeightLb float64   `json:"total_weight_lb"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ListShipmentItemsResponse struct {
	Items []ShipmentItemResponse `json:"items"`
}
