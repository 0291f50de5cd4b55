package ports

import (
	"context"
	"freight-tracking-service/internal/domain"
)

// Port: read cache for the denormalized shipment status. Misses are normal;
// the caller falls through to the store and writes the result back.
type StatusCache interface {
	// GetStatus returns (status, true) on a hit, ("", false) on a miss.
	GetStatus(ctx context.Context, shipmentID int64) (domain.ShipmentStatus, bool, error)
	SetStatus(ctx context.Context, shipmentID int64, status domain.ShipmentStatus) error
	DeleteStatus(ctx context.Context, shipmentID int64) error
}
