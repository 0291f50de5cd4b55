package domain

import (
	"strings"
	"time"
)

// Asset is a physical good that can be shipped. The stored SKU is the
// normalized (upper-cased, trimmed) form; the slug is generated from the
// name once on create and never regenerated.
type Asset struct {
	ID          int64
	Name        string
	SKU         string
	Description string
	Slug        string
	WeightLb    float64
	LengthIn    float64
	WidthIn     float64
	HeightIn    float64
	IsFragile   bool
	IsHazardous bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (a *Asset) Normalize() {
	a.Name = strings.TrimSpace(a.Name)
	a.SKU = NormalizeSKU(a.SKU)
	a.Description = strings.TrimSpace(a.Description)
}

func (a *Asset) Validate() error {
	errs := FieldErrors{}

	if a.Name == "" {
		errs["name"] = "Name is required."
	}
	if !ValidSKU(a.SKU) {
		errs["sku"] = "SKU must be in the format 'AST' followed by 4 digits (e.g., AST0001)."
	}
	if a.WeightLb <= 0 {
		errs["weight_lb"] = "Weight must be greater than 0."
	}
	if a.LengthIn <= 0 {
		errs["length_in"] = "Length must be greater than 0."
	}
	if a.WidthIn <= 0 {
		errs["width_in"] = "Width must be greater than 0."
	}
	if a.HeightIn <= 0 {
		errs["height_in"] = "Height must be greater than 0."
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// VolumeCubicIn is the volume of a single unit in cubic inches.
func (a *Asset) VolumeCubicIn() float64 {
	return a.LengthIn * a.WidthIn * a.HeightIn
}

// NeedsSpecialHandling reports whether the asset is both fragile and
// hazardous, which may require extra compliance or packaging steps.
func (a *Asset) NeedsSpecialHandling() bool {
	return a.IsFragile && a.IsHazardous
}
