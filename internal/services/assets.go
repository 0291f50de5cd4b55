package services

import (
	"context"
	"fmt"

	"freight-tracking-service/internal/domain"
	"freight-tracking-service/internal/ports"
)

// CreateAsset validates and persists a new asset, generating a unique slug
// from the name. The slug is set once here and never regenerated on rename.
func CreateAsset(ctx context.Context, a *domain.Asset, repo ports.AssetRepository) error {
	a.Normalize()
	if err := a.Validate(); err != nil {
		return err
	}

	slug, err := uniqueSlug(ctx, domain.Slugify(a.Name), repo)
	if err != nil {
		return fmt.Errorf("create asset: %w", err)
	}
	a.Slug = slug

	if err := repo.CreateAsset(ctx, a); err != nil {
		return fmt.Errorf("create asset: %w", err)
	}
	return nil
}

// UpdateAsset validates and persists changes to an existing asset, keeping
// its original slug.
func UpdateAsset(ctx context.Context, a *domain.Asset, repo ports.AssetRepository) error {
	a.Normalize()
	if err := a.Validate(); err != nil {
		return err
	}

	existing, err := repo.GetAsset(ctx, a.ID)
	if err != nil {
		return fmt.Errorf("update asset: %w", err)
	}
	a.Slug = existing.Slug

	if err := repo.UpdateAsset(ctx, a); err != nil {
		return fmt.Errorf("update asset: %w", err)
	}
	return nil
}

// uniqueSlug probes base, base-2, base-3, ... until a free slug is found.
func uniqueSlug(ctx context.Context, base string, repo ports.AssetRepository) (string, error) {
	if base == "" {
		base = "asset"
	}

	candidate := base
	for i := 2; ; i++ {
		taken, err := repo.SlugExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("unique slug: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
