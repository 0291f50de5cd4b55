package handlers

import (
	"net/http"

	"freight-tracking-service/internal/api/dto"
	"freight-tracking-service/internal/domain"
	"freight-tracking-service/internal/ports"
	"freight-tracking-service/internal/services"
)

// CarrierHandler exposes CRUD endpoints for carriers. Responses carry the
// derived driver count and capacity bucket.
type CarrierHandler struct {
	Repo ports.CarrierRepository
}

func (h *CarrierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CarrierRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c := &domain.Carrier{Name: req.Name, MCNumber: req.MCNumber}
	c.Normalize()
	if err := c.Validate(); err != nil {
		writeDomainError(w, r, err)
		return
	}

	if err := h.Repo.CreateCarrier(r.Context(), c); err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, carrierResponse(c, 0))
}

func (h *CarrierHandler) List(w http.ResponseWriter, r *http.Request) {
	carriers, err := h.Repo.ListCarriers(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ListCarriersResponse{Carriers: make([]dto.CarrierResponse, 0, len(carriers))}
	for _, c := range carriers {
		counts, err := h.Repo.CountDependents(r.Context(), c.ID)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		res.Carriers = append(res.Carriers, carrierResponse(c, counts.Drivers))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *CarrierHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	c, err := h.Repo.GetCarrier(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	counts, err := h.Repo.CountDependents(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, carrierResponse(c, counts.Drivers))
}

func (h *CarrierHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.CarrierRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c := &domain.Carrier{ID: id, Name: req.Name, MCNumber: req.MCNumber}
	c.Normalize()
	if err := c.Validate(); err != nil {
		writeDomainError(w, r, err)
		return
	}

	if err := h.Repo.UpdateCarrier(r.Context(), c); err != nil {
		writeDomainError(w, r, err)
		return
	}

	updated, err := h.Repo.GetCarrier(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	counts, err := h.Repo.CountDependents(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, carrierResponse(updated, counts.Drivers))
}

func (h *CarrierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := services.DeleteCarrier(r.Context(), id, h.Repo); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func carrierResponse(c *domain.Carrier, driverCount int) dto.CarrierResponse {
	return dto.CarrierResponse{
		ID:               c.ID,
		Name:             c.Name,
		MCNumber:         c.MCNumber,
		AvailableDrivers: driverCount,
		CapacityStatus:   string(domain.CapacityFor(driverCount)),
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}
