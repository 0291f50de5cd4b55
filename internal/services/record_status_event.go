package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"freight-tracking-service/internal/domain"
	"freight-tracking-service/internal/platform/obs"
	"freight-tracking-service/internal/ports"
)

type RecordStatusEventRequest struct {
	ShipmentID     int64
	Status         domain.ShipmentStatus
	Source         string
	Notes          string
	EventTimestamp *time.Time
}

// RecordStatusEvent appends one status event to a shipment's history and
// keeps the shipment's denormalized fields in step, all in one transaction:
//
//   - the shipment row is locked, so concurrent recordings for the same
//     shipment serialize on the chronology check;
//   - a timestamp earlier than the latest recorded event fails with
//     domain.ErrEventOutOfOrder and inserts nothing;
//   - an exact (shipment, status, timestamp) duplicate fails with
//     domain.ErrDuplicateEvent and inserts nothing;
//   - the first in_transit event sets actual_pickup, the first delivered
//     event sets actual_delivery, and current_status always follows the
//     event — written atomically with the insert.
//
// No transition graph is enforced beyond chronology: any status may follow
// any other.
//
// After commit the status cache is refreshed and the update is published to
// the configured broker; both are best-effort. cache and pub may be nil.
func RecordStatusEvent(
	ctx context.Context,
	req RecordStatusEventRequest,
	repo ports.ShipmentRepository,
	cache ports.StatusCache,
	pub ports.StatusPublisher,
) (_ *domain.ShipmentStatusEvent, err error) {
	defer obs.Time(ctx, "services.record_status_event")(&err)

	ts := time.Now().UTC()
	if req.EventTimestamp != nil {
		ts = *req.EventTimestamp
	}

	ev := &domain.ShipmentStatusEvent{
		ShipmentID:     req.ShipmentID,
		Status:         req.Status,
		EventTimestamp: ts,
		Source:         req.Source,
		Notes:          req.Notes,
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}

	var oldStatus domain.ShipmentStatus

	err = repo.InTx(ctx, func(tx ports.ShipmentTx) error {
		shipment, err := tx.LockShipment(ctx, req.ShipmentID)
		if err != nil {
			return fmt.Errorf("lock shipment %d: %w", req.ShipmentID, err)
		}
		oldStatus = shipment.CurrentStatus

		latest, err := tx.LatestEvent(ctx, shipment.ID)
		if err != nil {
			return fmt.Errorf("load latest event: %w", err)
		}
		if latest != nil && latest.EventTimestamp.After(ev.EventTimestamp) {
			return domain.ErrEventOutOfOrder
		}

		exists, err := tx.EventExists(ctx, shipment.ID, ev.Status, ev.EventTimestamp)
		if err != nil {
			return fmt.Errorf("check duplicate event: %w", err)
		}
		if exists {
			return domain.ErrDuplicateEvent
		}

		if err := tx.InsertEvent(ctx, ev); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}

		shipment.ApplyStatusEvent(ev)
		if err := tx.UpdateShipmentStatus(ctx, shipment); err != nil {
			return fmt.Errorf("update shipment status: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("record status event: %w", err)
	}

	if cache != nil {
		if err := cache.SetStatus(ctx, ev.ShipmentID, ev.Status); err != nil {
			log.Printf("status cache write failed: shipment_id=%d err=%v", ev.ShipmentID, err)
		}
	}

	if pub != nil {
		update := ports.StatusUpdate{
			ShipmentID:     ev.ShipmentID,
			OldStatus:      oldStatus,
			NewStatus:      ev.Status,
			EventTimestamp: ev.EventTimestamp,
			Source:         ev.Source,
		}
		if err := pub.PublishStatusUpdate(ctx, update); err != nil {
			log.Printf("status update publish failed: shipment_id=%d err=%v", ev.ShipmentID, err)
		}
	}

	return ev, nil
}

// CurrentStatus returns the shipment's denormalized status, reading through
// the cache when one is configured.
func CurrentStatus(
	ctx context.Context,
	shipmentID int64,
	repo ports.ShipmentRepository,
	cache ports.StatusCache,
) (domain.ShipmentStatus, error) {
	if cache != nil {
		status, ok, err := cache.GetStatus(ctx, shipmentID)
		if err != nil {
			log.Printf("status cache read failed: shipment_id=%d err=%v", shipmentID, err)
		} else if ok {
			return status, nil
		}
	}

	shipment, err := repo.GetShipment(ctx, shipmentID)
	if err != nil {
		return "", fmt.Errorf("current status: %w", err)
	}

	if cache != nil {
		if err := cache.SetStatus(ctx, shipmentID, shipment.CurrentStatus); err != nil {
			log.Printf("status cache write failed: shipment_id=%d err=%v", shipmentID, err)
		}
	}

	return shipment.CurrentStatus, nil
}
