package handlers

import (
	"net/http"

	"freight-tracking-service/internal/api/dto"
	"freight-tracking-service/internal/domain"
	"freight-tracking-service/internal/ports"
	"freight-tracking-service/internal/services"
)

// ContactHandler exposes CRUD endpoints for carrier contacts, delegating the
// one-primary-per-carrier rule to the contact service.
type ContactHandler struct {
	Contacts ports.ContactRepository
	Carriers ports.CarrierRepository
}

func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c := contactFromRequest(req)
	if err := services.SaveContact(r.Context(), c, h.Contacts, h.Carriers); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, contactResponse(c))
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.Contacts.ListContacts(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ListContactsResponse{Contacts: make([]dto.ContactResponse, 0, len(contacts))}
	for _, c := range contacts {
		res.Contacts = append(res.Contacts, contactResponse(c))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	c, err := h.Contacts.GetContact(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, contactResponse(c))
}

func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if _, err := h.Contacts.GetContact(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}

	var req dto.ContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c := contactFromRequest(req)
	c.ID = id
	if err := services.SaveContact(r.Context(), c, h.Contacts, h.Carriers); err != nil {
		writeDomainError(w, r, err)
		return
	}

	updated, err := h.Contacts.GetContact(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, contactResponse(updated))
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := services.DeleteContact(r.Context(), id, h.Contacts); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func contactFromRequest(req dto.ContactRequest) *domain.CarrierContact {
	return &domain.CarrierContact{
		CarrierID:   req.CarrierID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Role:        domain.ContactRole(req.Role),
		IsPrimary:   req.IsPrimary,
	}
}

func contactResponse(c *domain.CarrierContact) dto.ContactResponse {
	return dto.ContactResponse{
		ID:          c.ID,
		CarrierID:   c.CarrierID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
		Role:        string(c.Role),
		IsPrimary:   c.IsPrimary,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
