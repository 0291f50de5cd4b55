package domain

import (
	"strings"
	"time"
)

// ShipmentStatus is a lifecycle state recorded in the status-event log.
type ShipmentStatus string

const (
	StatusPending   ShipmentStatus = "pending"
	StatusInTransit ShipmentStatus = "in_transit"
	StatusDelivered ShipmentStatus = "delivered"
	StatusDelayed   ShipmentStatus = "delayed"
	StatusCancelled ShipmentStatus = "cancelled"
)

func ValidShipmentStatus(s ShipmentStatus) bool {
	switch s {
	case StatusPending, StatusInTransit, StatusDelivered, StatusDelayed, StatusCancelled:
		return true
	}
	return false
}

// Shipment moves goods from an origin location to a destination location.
// Carrier, driver, and vehicle may be assigned after creation.
//
// CurrentStatus is denormalized from the status-event log: it is written in
// the same transaction as the triggering event insert and never computed
// independently elsewhere.
type Shipment struct {
	ID                int64
	OriginID          int64
	DestinationID     int64
	ScheduledPickup   time.Time
	ScheduledDelivery time.Time
	ActualPickup      *time.Time
	ActualDelivery    *time.Time
	CarrierID         *int64
	DriverID          *int64
	VehicleID         *int64
	CurrentStatus     ShipmentStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (s *Shipment) Validate() error {
	errs := FieldErrors{}

	if s.OriginID == 0 {
		errs["origin_id"] = "Origin is required."
	}
	if s.DestinationID == 0 {
		errs["destination_id"] = "Destination is required."
	}
	if s.OriginID != 0 && s.OriginID == s.DestinationID {
		errs["destination_id"] = "Origin and destination cannot be the same."
	}

	if s.ScheduledPickup.IsZero() {
		errs["scheduled_pickup"] = "Scheduled pickup is required."
	}
	if s.ScheduledDelivery.IsZero() {
		errs["scheduled_delivery"] = "Scheduled delivery is required."
	}
	if !s.ScheduledPickup.IsZero() && !s.ScheduledDelivery.IsZero() &&
		s.ScheduledDelivery.Before(s.ScheduledPickup) {
		errs["scheduled_delivery"] = "Scheduled delivery cannot be before scheduled pickup."
	}

	if s.ActualPickup != nil && s.ActualDelivery != nil &&
		s.ActualDelivery.Before(*s.ActualPickup) {
		errs["actual_delivery"] = "Actual delivery cannot be before actual pickup."
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateAssignment checks that an assigned driver and vehicle belong to the
// assigned carrier. The loaded rows are passed in; nil means unassigned.
func (s *Shipment) ValidateAssignment(driver *Driver, vehicle *Vehicle) error {
	if s.CarrierID == nil {
		return nil
	}

	errs := FieldErrors{}
	if driver != nil && driver.CarrierID != *s.CarrierID {
		errs["driver_id"] = "Selected driver does not belong to the assigned carrier."
	}
	if vehicle != nil && vehicle.CarrierID != *s.CarrierID {
		errs["vehicle_id"] = "Selected vehicle does not belong to the assigned carrier."
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ApplyStatusEvent folds a newly recorded event into the shipment's
// denormalized fields. ActualPickup is set by the first in_transit event and
// ActualDelivery by the first delivered event; both are write-once.
func (s *Shipment) ApplyStatusEvent(ev *ShipmentStatusEvent) {
	s.CurrentStatus = ev.Status

	if ev.Status == StatusInTransit && s.ActualPickup == nil {
		ts := ev.EventTimestamp
		s.ActualPickup = &ts
	}
	if ev.Status == StatusDelivered && s.ActualDelivery == nil {
		ts := ev.EventTimestamp
		s.ActualDelivery = &ts
	}
}

// ShipmentStatusEvent is an immutable fact in a shipment's status history.
// Events are unique on (shipment, status, event timestamp) and must not be
// recorded earlier than the shipment's latest known event.
type ShipmentStatusEvent struct {
	ID             int64
	ShipmentID     int64
	Status         ShipmentStatus
	EventTimestamp time.Time
	Source         string
	Notes          string
	CreatedAt      time.Time
}

func (e *ShipmentStatusEvent) Validate() error {
	errs := FieldErrors{}

	if e.ShipmentID == 0 {
		errs["shipment_id"] = "Shipment is required."
	}
	if !ValidShipmentStatus(e.Status) {
		errs["status"] = "Status must be one of pending, in_transit, delivered, delayed, cancelled."
	}
	if e.EventTimestamp.IsZero() {
		errs["event_timestamp"] = "Event timestamp is required."
	}
	if len(e.Notes) > 500 {
		errs["notes"] = "Notes must be 500 characters or fewer."
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ShipmentItem includes a quantity of an asset in a shipment. UnitWeightLb is
// a snapshot of the asset's weight at inclusion time so later asset edits do
// not rewrite shipment history.
type ShipmentItem struct {
	ID           int64
	ShipmentID   int64
	AssetID      int64
	Quantity     int
	UnitWeightLb float64
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (i *ShipmentItem) Normalize() {
	i.Notes = strings.TrimSpace(i.Notes)
}

func (i *ShipmentItem) Validate() error {
	errs := FieldErrors{}

	if i.ShipmentID == 0 {
		errs["shipment_id"] = "Shipment is required."
	}
	if i.AssetID == 0 {
		errs["asset_id"] = "Asset is required."
	}
	if i.Quantity < 1 {
		errs["quantity"] = "Quantity must be at least 1."
	}
	if i.UnitWeightLb <= 0 {
		errs["unit_weight_lb"] = "Unit weight must be a positive value."
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// TotalWeightLb is the line-item weight (quantity times unit weight).
func (i *ShipmentItem) TotalWeightLb() float64 {
	return float64(i.Quantity) * i.UnitWeightLb
}
