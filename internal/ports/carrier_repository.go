package ports

import (
	"context"
	"freight-tracking-service/internal/domain"
)

// DependentCounts breaks down the rows that block a carrier delete.
type DependentCounts struct {
	Contacts int
	Drivers  int
	Vehicles int
}

func (c DependentCounts) Total() int { return c.Contacts + c.Drivers + c.Vehicles }

// Port: boundary for persisting Carrier entities. Uniqueness violations on
// the normalized MC number surface as *domain.ConflictError.
type CarrierRepository interface {
	CreateCarrier(ctx context.Context, c *domain.Carrier) error
	ListCarriers(ctx context.Context) ([]*domain.Carrier, error)
	GetCarrier(ctx context.Context, id int64) (*domain.Carrier, error)
	UpdateCarrier(ctx context.Context, c *domain.Carrier) error
	DeleteCarrier(ctx context.Context, id int64) error
	// CountDependents returns the contacts, drivers, and vehicles that
	// currently reference the carrier.
	CountDependents(ctx context.Context, carrierID int64) (DependentCounts, error)
}

// Port: boundary for persisting CarrierContact entities. Email conflicts
// surface as *domain.ConflictError.
type ContactRepository interface {
	CreateContact(ctx context.Context, c *domain.CarrierContact) error
	ListContacts(ctx context.Context) ([]*domain.CarrierContact, error)
	GetContact(ctx context.Context, id int64) (*domain.CarrierContact, error)
	UpdateContact(ctx context.Context, c *domain.CarrierContact) error
	DeleteContact(ctx context.Context, id int64) error
	// HasPrimaryContact reports whether the carrier already has a primary
	// contact other than excludeID (0 to exclude nothing).
	HasPrimaryContact(ctx context.Context, carrierID, excludeID int64) (bool, error)
}

// Port: boundary for persisting Driver entities.
type DriverRepository interface {
	CreateDriver(ctx context.Context, d *domain.Driver) error
	ListDrivers(ctx context.Context) ([]*domain.Driver, error)
	GetDriver(ctx context.Context, id int64) (*domain.Driver, error)
	UpdateDriver(ctx context.Context, d *domain.Driver) error
	DeleteDriver(ctx context.Context, id int64) error
}

// Port: boundary for persisting Vehicle entities.
type VehicleRepository interface {
	CreateVehicle(ctx context.Context, v *domain.Vehicle) error
	ListVehicles(ctx context.Context) ([]*domain.Vehicle, error)
	GetVehicle(ctx context.Context, id int64) (*domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, v *domain.Vehicle) error
	DeleteVehicle(ctx context.Context, id int64) error
}
