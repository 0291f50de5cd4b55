package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"freight-tracking-service/internal/domain"
)

// Postgres-backed implementation of the AssetRepository port.
type PostgresAssetRepository struct{ DB *sql.DB }

func NewPostgresAssetRepository(db *sql.DB) *PostgresAssetRepository {
	return &PostgresAssetRepository{DB: db}
}

const assetColumns = `
	id, name, sku, description, slug, weight_lb, length_in, width_in,
	height_in, is_fragile, is_hazardous, created_at, updated_at`

func scanAsset(row interface{ Scan(...any) error }) (*domain.Asset, error) {
	var a domain.Asset
	err := row.Scan(
		&a.ID, &a.Name, &a.SKU, &a.Description, &a.Slug, &a.WeightLb, &a.LengthIn,
		&a.WidthIn, &a.HeightIn, &a.IsFragile, &a.IsHazardous, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PostgresAssetRepository) CreateAsset(ctx context.Context, a *domain.Asset) error {
	query := `
	INSERT INTO assets (name, sku, description, slug, weight_lb, length_in, width_in, height_in, is_fragile, is_hazardous)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING id, created_at, updated_at;
	`
	err := r.DB.QueryRowContext(ctx, query,
		a.Name, a.SKU, a.Description, a.Slug, a.WeightLb, a.LengthIn,
		a.WidthIn, a.HeightIn, a.IsFragile, a.IsHazardous,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create asset: %w", translateConflict(err))
	}
	return nil
}

func (r *PostgresAssetRepository) ListAssets(ctx context.Context) ([]*domain.Asset, error) {
	query := `SELECT` + assetColumns + `
	FROM assets
	ORDER BY name;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list assets: query assets table: %w", err)
	}
	defer rows.Close()

	assets := make([]*domain.Asset, 0, 32)
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("list assets: scan row: %w", err)
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list assets: row iteration: %w", err)
	}

	return assets, nil
}

func (r *PostgresAssetRepository) GetAsset(ctx context.Context, id int64) (*domain.Asset, error) {
	query := `SELECT` + assetColumns + `
	FROM assets
	WHERE id = $1;
	`
	a, err := scanAsset(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get asset id=%d: %w", id, err)
	}
	return a, nil
}

func (r *PostgresAssetRepository) UpdateAsset(ctx context.Context, a *domain.Asset) error {
	query := `
	UPDATE assets
	SET name = $2, sku = $3, description = $4, weight_lb = $5, length_in = $6,
		width_in = $7, height_in = $8, is_fragile = $9, is_hazardous = $10,
		updated_at = now()
	WHERE id = $1
	RETURNING updated_at;
	`
	err := r.DB.QueryRowContext(ctx, query,
		a.ID, a.Name, a.SKU, a.Description, a.WeightLb, a.LengthIn,
		a.WidthIn, a.HeightIn, a.IsFragile, a.IsHazardous,
	).Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update asset id=%d: %w", a.ID, translateConflict(err))
	}
	return nil
}

func (r *PostgresAssetRepository) DeleteAsset(ctx context.Context, id int64) error {
	var items int
	countQuery := `SELECT COUNT(*) FROM shipment_items WHERE asset_id = $1;`
	if err := r.DB.QueryRowContext(ctx, countQuery, id).Scan(&items); err != nil {
		return fmt.Errorf("delete asset id=%d: count shipment items: %w", id, err)
	}
	if items > 0 {
		return &domain.DeleteBlockedError{
			Resource: "asset",
			Counts:   map[string]int{"shipment_items": items},
		}
	}

	res, err := r.DB.ExecContext(ctx, `DELETE FROM assets WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete asset id=%d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete asset id=%d: rows affected: %w", id, err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresAssetRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM assets WHERE slug = $1);`
	if err := r.DB.QueryRowContext(ctx, query, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("slug exists %q: %w", slug, err)
	}
	return exists, nil
}
