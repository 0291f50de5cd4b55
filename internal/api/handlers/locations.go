package handlers

import (
	"net/http"

	"freight-tracking-service/internal/api/dto"
	"freight-tracking-service/internal/domain"
	"freight-tracking-service/internal/ports"
)

// LocationHandler exposes CRUD endpoints for shipment origins and
// destinations.
type LocationHandler struct {
	Repo ports.LocationRepository
}

func (h *LocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.LocationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	loc := locationFromRequest(req)
	loc.Normalize()
	if err := loc.Validate(); err != nil {
		writeDomainError(w, r, err)
		return
	}

	if err := h.Repo.CreateLocation(r.Context(), loc); err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, locationResponse(loc))
}

func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	locs, err := h.Repo.ListLocations(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ListLocationsResponse{Locations: make([]dto.LocationResponse, 0, len(locs))}
	for _, l := range locs {
		res.Locations = append(res.Locations, locationResponse(l))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *LocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	loc, err := h.Repo.GetLocation(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, locationResponse(loc))
}

func (h *LocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.LocationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	loc := locationFromRequest(req)
	loc.ID = id
	loc.Normalize()
	if err := loc.Validate(); err != nil {
		writeDomainError(w, r, err)
		return
	}

	if err := h.Repo.UpdateLocation(r.Context(), loc); err != nil {
		writeDomainError(w, r, err)
		return
	}

	updated, err := h.Repo.GetLocation(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, locationResponse(updated))
}

func (h *LocationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Repo.DeleteLocation(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func locationFromRequest(req dto.LocationRequest) *domain.Location {
	return &domain.Location{
		Name:         req.Name,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
	}
}

func locationResponse(l *domain.Location) dto.LocationResponse {
	return dto.LocationResponse{
		ID:           l.ID,
		Name:         l.Name,
		AddressLine1: l.AddressLine1,
		AddressLine2: l.AddressLine2,
		City:         l.City,
		State:        l.State,
		PostalCode:   l.PostalCode,
		Country:      l.Country,
		Latitude:     l.Latitude,
		Longitude:    l.Longitude,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}
