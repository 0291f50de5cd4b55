package ports

import (
	"context"
	"freight-tracking-service/internal/domain"
)

// Port: boundary for persisting Asset entities. SKU conflicts surface as
// *domain.ConflictError.
type AssetRepository interface {
	CreateAsset(ctx context.Context, a *domain.Asset) error
	ListAssets(ctx context.Context) ([]*domain.Asset, error)
	GetAsset(ctx context.Context, id int64) (*domain.Asset, error)
	UpdateAsset(ctx context.Context, a *domain.Asset) error
	// DeleteAsset refuses with DeleteBlockedError while shipment items
	// reference the asset.
	DeleteAsset(ctx context.Context, id int64) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}
