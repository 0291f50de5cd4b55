package handlers

import (
	"log"
	"net/http"

	"freight-tracking-service/internal/api/dto"
	"freight-tracking-service/internal/domain"
	"freight-tracking-service/internal/ports"
	"freight-tracking-service/internal/services"
)

// ShipmentHandler exposes shipment CRUD, the append-only status log, and
// line items.
type ShipmentHandler struct {
	Stores services.ShipmentStores
	Assets ports.AssetRepository
	Cache  ports.StatusCache
	Pub    ports.StatusPublisher
}

func (h *ShipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ShipmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	s := shipmentFromRequest(req)
	if err := services.SaveShipment(r.Context(), s, h.Stores); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, shipmentResponse(s))
}

func (h *ShipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	shipments, err := h.Stores.Shipments.ListShipments(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ListShipmentsResponse{Shipments: make([]dto.ShipmentResponse, 0, len(shipments))}
	for _, s := range shipments {
		res.Shipments = append(res.Shipments, shipmentResponse(s))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *ShipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	s, err := h.Stores.Shipments.GetShipment(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, shipmentResponse(s))
}

func (h *ShipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	existing, err := h.Stores.Shipments.GetShipment(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	var req dto.ShipmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	s := shipmentFromRequest(req)
	s.ID = id
	s.CurrentStatus = existing.CurrentStatus
	s.ActualPickup = existing.ActualPickup
	s.ActualDelivery = existing.ActualDelivery
	if err := services.SaveShipment(r.Context(), s, h.Stores); err != nil {
		writeDomainError(w, r, err)
		return
	}

	updated, err := h.Stores.Shipments.GetShipment(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, shipmentResponse(updated))
}

func (h *ShipmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Stores.Shipments.DeleteShipment(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	// The row is gone; a stale cache entry only lives until its TTL.
	if h.Cache != nil {
		if err := h.Cache.DeleteStatus(r.Context(), id); err != nil {
			log.Printf("status cache delete failed: shipment_id=%d err=%v", id, err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ShipmentHandler) RecordStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.StatusEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ev, err := services.RecordStatusEvent(r.Context(), services.RecordStatusEventRequest{
		ShipmentID:     id,
		Status:         domain.ShipmentStatus(req.Status),
		Source:         req.Source,
		Notes:          req.Notes,
		EventTimestamp: req.EventTimestamp,
	}, h.Stores.Shipments, h.Cache, h.Pub)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, statusEventResponse(ev))
}

func (h *ShipmentHandler) CurrentStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	status, err := services.CurrentStatus(r.Context(), id, h.Stores.Shipments, h.Cache)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.CurrentStatusResponse{ShipmentID: id, Status: string(status)})
}

func (h *ShipmentHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if _, err := h.Stores.Shipments.GetShipment(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}

	events, err := h.Stores.Shipments.ListEvents(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ListStatusEventsResponse{Events: make([]dto.StatusEventResponse, 0, len(events))}
	for _, ev := range events {
		res.Events = append(res.Events, statusEventResponse(ev))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *ShipmentHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.ShipmentItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item := &domain.ShipmentItem{
		ShipmentID:   id,
		AssetID:      req.AssetID,
		Quantity:     req.Quantity,
		UnitWeightLb: req.UnitWeightLb,
		Notes:        req.Notes,
	}
	if err := services.AddShipmentItem(r.Context(), item, h.Stores.Shipments, h.Assets); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, itemResponse(item))
}

func (h *ShipmentHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if _, err := h.Stores.Shipments.GetShipment(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}

	items, err := h.Stores.Shipments.ListItems(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ListShipmentItemsResponse{Items: make([]dto.ShipmentItemResponse, 0, len(items))}
	for _, item := range items {
		res.Items = append(res.Items, itemResponse(item))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *ShipmentHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}

	if err := h.Stores.Shipments.DeleteItem(r.Context(), id, itemID); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func shipmentFromRequest(req dto.ShipmentRequest) *domain.Shipment {
	return &domain.Shipment{
		OriginID:          req.OriginID,
		DestinationID:     req.DestinationID,
		ScheduledPickup:   req.ScheduledPickup,
		ScheduledDelivery: req.ScheduledDelivery,
		CarrierID:         req.CarrierID,
		DriverID:          req.DriverID,
		VehicleID:         req.VehicleID,
	}
}

func shipmentResponse(s *domain.Shipment) dto.ShipmentResponse {
	return dto.ShipmentResponse{
		ID:                s.ID,
		OriginID:          s.OriginID,
		DestinationID:     s.DestinationID,
		ScheduledPickup:   s.ScheduledPickup,
		ScheduledDelivery: s.ScheduledDelivery,
		ActualPickup:      s.ActualPickup,
		ActualDelivery:    s.ActualDelivery,
		CarrierID:         s.CarrierID,
		DriverID:          s.DriverID,
		VehicleID:         s.VehicleID,
		CurrentStatus:     string(s.CurrentStatus),
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

func statusEventResponse(ev *domain.ShipmentStatusEvent) dto.StatusEventResponse {
	return dto.StatusEventResponse{
		ID:             ev.ID,
		ShipmentID:     ev.ShipmentID,
		Status:         string(ev.Status),
		EventTimestamp: ev.EventTimestamp,
		Source:         ev.Source,
		Notes:          ev.Notes,
		CreatedAt:      ev.CreatedAt,
	}
}

func itemResponse(item *domain.ShipmentItem) dto.ShipmentItemResponse {
	return dto.ShipmentItemResponse{
		ID:            item.ID,
		ShipmentID:    item.ShipmentID,
		AssetID:       item.AssetID,
		Quantity:      item.Quantity,
		UnitWeightLb:  item.UnitWeightLb,
		TotalWeightLb: item.TotalWeightLb(),
		Notes:         item.Notes,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}
