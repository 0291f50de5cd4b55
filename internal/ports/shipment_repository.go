package ports

import (
	"context"
	"freight-tracking-service/internal/domain"
	"time"
)

// ShipmentTx exposes the operations available inside a status-recording
// transaction. The shipment row stays locked until the transaction ends, so
// the chronology check and the event insert are serialized per shipment.
type ShipmentTx interface {
	// LockShipment loads the shipment row for update.
	LockShipment(ctx context.Context, id int64) (*domain.Shipment, error)
	// LatestEvent returns the shipment's event with the greatest
	// (event_timestamp, id), or nil when no events exist.
	LatestEvent(ctx context.Context, shipmentID int64) (*domain.ShipmentStatusEvent, error)
	EventExists(ctx context.Context, shipmentID int64, status domain.ShipmentStatus, ts time.Time) (bool, error)
	InsertEvent(ctx context.Context, ev *domain.ShipmentStatusEvent) error
	// UpdateShipmentStatus persists the denormalized status and the
	// actual pickup/delivery fields.
	UpdateShipmentStatus(ctx context.Context, s *domain.Shipment) error
}

// Port: boundary for persisting Shipment aggregates and their status events.
type ShipmentRepository interface {
	CreateShipment(ctx context.Context, s *domain.Shipment) error
	ListShipments(ctx context.Context) ([]*domain.Shipment, error)
	GetShipment(ctx context.Context, id int64) (*domain.Shipment, error)
	UpdateShipment(ctx context.Context, s *domain.Shipment) error
	// DeleteShipment cascades to the shipment's status events and items.
	DeleteShipment(ctx context.Context, id int64) error

	// ListEvents returns the shipment's status events in chronological
	// order (event_timestamp, then id).
	ListEvents(ctx context.Context, shipmentID int64) ([]*domain.ShipmentStatusEvent, error)

	// InTx runs fn inside one transaction; a non-nil error rolls back.
	InTx(ctx context.Context, fn func(tx ShipmentTx) error) error

	CreateItem(ctx context.Context, item *domain.ShipmentItem) error
	ListItems(ctx context.Context, shipmentID int64) ([]*domain.ShipmentItem, error)
	DeleteItem(ctx context.Context, shipmentID, itemID int64) error
}
