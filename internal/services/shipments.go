package services

import (
	"context"
	"fmt"

	"freight-tracking-service/internal/domain"
	"freight-tracking-service/internal/ports"
)

// ShipmentStores bundles the repositories a shipment write has to consult:
// referenced locations must exist, and assigned drivers/vehicles must belong
// to the assigned carrier.
type ShipmentStores struct {
	Shipments ports.ShipmentRepository
	Locations ports.LocationRepository
	Carriers  ports.CarrierRepository
	Drivers   ports.DriverRepository
	Vehicles  ports.VehicleRepository
}

// SaveShipment validates and persists a shipment. A zero ID means create;
// new shipments start out pending with no recorded events.
func SaveShipment(ctx context.Context, s *domain.Shipment, st ShipmentStores) error {
	if s.CurrentStatus == "" {
		s.CurrentStatus = domain.StatusPending
	}

	if err := s.Validate(); err != nil {
		return err
	}
	if err := checkShipmentRefs(ctx, s, st); err != nil {
		return err
	}

	if s.ID == 0 {
		if err := st.Shipments.CreateShipment(ctx, s); err != nil {
			return fmt.Errorf("save shipment: %w", err)
		}
		return nil
	}
	if err := st.Shipments.UpdateShipment(ctx, s); err != nil {
		return fmt.Errorf("save shipment: %w", err)
	}
	return nil
}

func checkShipmentRefs(ctx context.Context, s *domain.Shipment, st ShipmentStores) error {
	errs := domain.FieldErrors{}

	if _, err := st.Locations.GetLocation(ctx, s.OriginID); err != nil {
		if err != domain.ErrNotFound {
			return fmt.Errorf("check shipment refs: origin: %w", err)
		}
		errs["origin_id"] = "Origin location does not exist."
	}
	if _, err := st.Locations.GetLocation(ctx, s.DestinationID); err != nil {
		if err != domain.ErrNotFound {
			return fmt.Errorf("check shipment refs: destination: %w", err)
		}
		errs["destination_id"] = "Destination location does not exist."
	}

	if s.CarrierID != nil {
		if _, err := st.Carriers.GetCarrier(ctx, *s.CarrierID); err != nil {
			if err != domain.ErrNotFound {
				return fmt.Errorf("check shipment refs: carrier: %w", err)
			}
			errs["carrier_id"] = "Carrier does not exist."
		}
	}

	var driver *domain.Driver
	if s.DriverID != nil {
		d, err := st.Drivers.GetDriver(ctx, *s.DriverID)
		switch {
		case err == domain.ErrNotFound:
			errs["driver_id"] = "Driver does not exist."
		case err != nil:
			return fmt.Errorf("check shipment refs: driver: %w", err)
		default:
			driver = d
		}
	}

	var vehicle *domain.Vehicle
	if s.VehicleID != nil {
		v, err := st.Vehicles.GetVehicle(ctx, *s.VehicleID)
		switch {
		case err == domain.ErrNotFound:
			errs["vehicle_id"] = "Vehicle does not exist."
		case err != nil:
			return fmt.Errorf("check shipment refs: vehicle: %w", err)
		default:
			vehicle = v
		}
	}

	if err := s.ValidateAssignment(driver, vehicle); err != nil {
		if fe, ok := err.(domain.FieldErrors); ok {
			for k, v := range fe {
				errs[k] = v
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// AddShipmentItem includes an asset in a shipment. When no unit weight is
// given the asset's current weight is snapshotted so later asset edits do
// not rewrite shipment history.
func AddShipmentItem(
	ctx context.Context,
	item *domain.ShipmentItem,
	shipments ports.ShipmentRepository,
	assets ports.AssetRepository,
) error {
	item.Normalize()

	if _, err := shipments.GetShipment(ctx, item.ShipmentID); err != nil {
		return fmt.Errorf("add shipment item: %w", err)
	}

	asset, err := assets.GetAsset(ctx, item.AssetID)
	switch {
	case err == domain.ErrNotFound:
		return domain.FieldErrors{"asset_id": "Asset does not exist."}
	case err != nil:
		return fmt.Errorf("add shipment item: %w", err)
	}

	if item.UnitWeightLb == 0 {
		item.UnitWeightLb = asset.WeightLb
	}

	if err := item.Validate(); err != nil {
		return err
	}

	if err := shipments.CreateItem(ctx, item); err != nil {
		return fmt.Errorf("add shipment item: %w", err)
	}
	return nil
}
