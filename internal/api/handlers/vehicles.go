package handlers

import (
	"net/http"

	"freight-tracking-service/internal/api/dto"
	"freight-tracking-service/internal/domain"
	"freight-tracking-service/internal/ports"
)

// VehicleHandler exposes CRUD endpoints for vehicles.
type VehicleHandler struct {
	Vehicles ports.VehicleRepository
	Carriers ports.CarrierRepository
}

func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.VehicleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	v := &domain.Vehicle{CarrierID: req.CarrierID, PlateNumber: req.PlateNumber}
	if !h.prepare(w, r, v) {
		return
	}

	if err := h.Vehicles.CreateVehicle(r.Context(), v); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, vehicleResponse(v))
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.Vehicles.ListVehicles(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ListVehiclesResponse{Vehicles: make([]dto.VehicleResponse, 0, len(vehicles))}
	for _, v := range vehicles {
		res.Vehicles = append(res.Vehicles, vehicleResponse(v))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	v, err := h.Vehicles.GetVehicle(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, vehicleResponse(v))
}

func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if _, err := h.Vehicles.GetVehicle(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}

	var req dto.VehicleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	v := &domain.Vehicle{ID: id, CarrierID: req.CarrierID, PlateNumber: req.PlateNumber}
	if !h.prepare(w, r, v) {
		return
	}

	if err := h.Vehicles.UpdateVehicle(r.Context(), v); err != nil {
		writeDomainError(w, r, err)
		return
	}

	updated, err := h.Vehicles.GetVehicle(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, vehicleResponse(updated))
}

func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Vehicles.DeleteVehicle(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *VehicleHandler) prepare(w http.ResponseWriter, r *http.Request, v *domain.Vehicle) bool {
	v.Normalize()
	if err := v.Validate(); err != nil {
		writeDomainError(w, r, err)
		return false
	}

	if _, err := h.Carriers.GetCarrier(r.Context(), v.CarrierID); err != nil {
		if err == domain.ErrNotFound {
			writeDomainError(w, r, domain.FieldErrors{"carrier_id": "Carrier does not exist."})
		} else {
			writeDomainError(w, r, err)
		}
		return false
	}
	return true
}

func vehicleResponse(v *domain.Vehicle) dto.VehicleResponse {
	return dto.VehicleResponse{
		ID:          v.ID,
		CarrierID:   v.CarrierID,
		PlateNumber: v.PlateNumber,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}
