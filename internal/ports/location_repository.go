package ports

import (
	"context"
	"freight-tracking-service/internal/domain"
)

// Port: boundary for persisting Location entities.
type LocationRepository interface {
	CreateLocation(ctx context.Context, loc *domain.Location) error
	ListLocations(ctx context.Context) ([]*domain.Location, error)
	GetLocation(ctx context.Context, id int64) (*domain.Location, error)
	UpdateLocation(ctx context.Context, loc *domain.Location) error
	// DeleteLocation refuses with DeleteBlockedError while shipments
	// reference the location as origin or destination.
	DeleteLocation(ctx context.Context, id int64) error
}
