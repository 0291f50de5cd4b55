package handlers

import (
	"net/http"

	"freight-tracking-service/internal/api/dto"
	"freight-tracking-service/internal/domain"
	"freight-tracking-service/internal/ports"
	"freight-tracking-service/internal/services"
)

// AssetHandler exposes CRUD endpoints for shippable assets. Slug generation
// happens once on create, inside the asset service.
type AssetHandler struct {
	Repo ports.AssetRepository
}

func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.AssetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	a := assetFromRequest(req)
	if err := services.CreateAsset(r.Context(), a, h.Repo); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, assetResponse(a))
}

func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	assets, err := h.Repo.ListAssets(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ListAssetsResponse{Assets: make([]dto.AssetResponse, 0, len(assets))}
	for _, a := range assets {
		res.Assets = append(res.Assets, assetResponse(a))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	a, err := h.Repo.GetAsset(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, assetResponse(a))
}

func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.AssetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	a := assetFromRequest(req)
	a.ID = id
	if err := services.UpdateAsset(r.Context(), a, h.Repo); err != nil {
		writeDomainError(w, r, err)
		return
	}

	updated, err := h.Repo.GetAsset(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, assetResponse(updated))
}

func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Repo.DeleteAsset(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func assetFromRequest(req dto.AssetRequest) *domain.Asset {
	return &domain.Asset{
		Name:        req.Name,
		SKU:         req.SKU,
		Description: req.Description,
		WeightLb:    req.WeightLb,
		LengthIn:    req.LengthIn,
		WidthIn:     req.WidthIn,
		HeightIn:    req.HeightIn,
		IsFragile:   req.IsFragile,
		IsHazardous: req.IsHazardous,
	}
}

func assetResponse(a *domain.Asset) dto.AssetResponse {
	return dto.AssetResponse{
		ID:                   a.ID,
		Name:                 a.Name,
		SKU:                  a.SKU,
		Description:          a.Description,
		Slug:                 a.Slug,
		WeightLb:             a.WeightLb,
		LengthIn:             a.LengthIn,
		WidthIn:              a.WidthIn,
		HeightIn:             a.HeightIn,
		IsFragile:            a.IsFragile,
		IsHazardous:          a.IsHazardous,
		VolumeCubicIn:        a.VolumeCubicIn(),
		NeedsSpecialHandling: a.NeedsSpecialHandling(),
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}
}
