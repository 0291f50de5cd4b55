package ports

import (
	"context"
	"time"

	"freight-tracking-service/internal/domain"
)

// StatusUpdate is the message published when a shipment status event is
// recorded.
type StatusUpdate struct {
	ShipmentID     int64                 `json:"shipment_id"`
	OldStatus      domain.ShipmentStatus `json:"old_status"`
	NewStatus      domain.ShipmentStatus `json:"new_status"`
	EventTimestamp time.Time             `json:"event_timestamp"`
	Source         string                `json:"source,omitempty"`
}

// Port: downstream notification of status changes. Implementations must be
// safe for concurrent use; publish failures are logged, never surfaced to
// the API caller.
type StatusPublisher interface {
	PublishStatusUpdate(ctx context.Context, update StatusUpdate) error
}
