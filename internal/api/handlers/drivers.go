package handlers

import (
	"net/http"

	"freight-tracking-service/internal/api/dto"
	"freight-tracking-service/internal/domain"
	"freight-tracking-service/internal/ports"
)

// DriverHandler exposes CRUD endpoints for drivers.
type DriverHandler struct {
	Drivers  ports.DriverRepository
	Carriers ports.CarrierRepository
}

func (h *DriverHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.DriverRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	d := driverFromRequest(req)
	if !h.prepare(w, r, d) {
		return
	}

	if err := h.Drivers.CreateDriver(r.Context(), d); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, driverResponse(d))
}

func (h *DriverHandler) List(w http.ResponseWriter, r *http.Request) {
	drivers, err := h.Drivers.ListDrivers(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ListDriversResponse{Drivers: make([]dto.DriverResponse, 0, len(drivers))}
	for _, d := range drivers {
		res.Drivers = append(res.Drivers, driverResponse(d))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *DriverHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	d, err := h.Drivers.GetDriver(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, driverResponse(d))
}

func (h *DriverHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if _, err := h.Drivers.GetDriver(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}

	var req dto.DriverRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	d := driverFromRequest(req)
	d.ID = id
	if !h.prepare(w, r, d) {
		return
	}

	if err := h.Drivers.UpdateDriver(r.Context(), d); err != nil {
		writeDomainError(w, r, err)
		return
	}

	updated, err := h.Drivers.GetDriver(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, driverResponse(updated))
}

func (h *DriverHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Drivers.DeleteDriver(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// prepare normalizes, validates, and checks the carrier reference, writing
// the error response on failure.
func (h *DriverHandler) prepare(w http.ResponseWriter, r *http.Request, d *domain.Driver) bool {
	d.Normalize()
	if err := d.Validate(); err != nil {
		writeDomainError(w, r, err)
		return false
	}

	if _, err := h.Carriers.GetCarrier(r.Context(), d.CarrierID); err != nil {
		if err == domain.ErrNotFound {
			writeDomainError(w, r, domain.FieldErrors{"carrier_id": "Carrier does not exist."})
		} else {
			writeDomainError(w, r, err)
		}
		return false
	}
	return true
}

func driverFromRequest(req dto.DriverRequest) *domain.Driver {
	return &domain.Driver{
		CarrierID:   req.CarrierID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	}
}

func driverResponse(d *domain.Driver) dto.DriverResponse {
	return dto.DriverResponse{
		ID:          d.ID,
		CarrierID:   d.CarrierID,
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		Email:       d.Email,
		PhoneNumber: d.PhoneNumber,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
