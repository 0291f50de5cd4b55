package dto

import "time"

type AssetRequest struct {
	Name        string  `json:"name"`
	SKU         string  `json:"sku"`
	Description string  `json:"description,omitempty"`
	WeightLb    float64 `json:"weight_lb"`
	LengthIn    float64 `json:"length_in"`
	WidthIn     float64 `json:"width_in"`
	HeightIn    float64 `json:"height_in"`
	IsFragile   bool    `json:"is_fragile,omitempty"`
	IsHazardous bool    `json:"is_hazardous,omitempty"`
}

type AssetResponse struct {
	ID                   int64     `json:"id"`
	Name                 string    `json:"name"`
	SKU                  string    `json:"sku"`
	Description          string    `json:"description,omitempty"`
	Slug                 string    `json:"slug"`
	WeightLb             float64   `json:"weight_lb"`
	LengthIn             float64   `json:"length_in"`
	WidthIn              float64   `json:"width_in"`
	HeightIn             float64   `json:"height_in"`
	IsFragile            bool      `json:"is_fragile"`
	IsHazardous          bool      `json:"is_hazardous"`
	VolumeCubicIn        float64   `json:"volume_cubic_in"`
	NeedsSpecialHandling bool      `json:"needs_special_handling"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type ListAssetsResponse struct {
	Assets []AssetResponse `json:"assets"`
}
