package handlers

import (
	"net/http"
	"strconv"

	"freight-tracking-service/internal/api/dto"
	"freight-tracking-service/internal/domain"
	"freight-tracking-service/internal/ports"
	"freight-tracking-service/internal/services"
)

const defaultPingLimit = 100

// TrackingHandler exposes GPS devices, raw pings, and derived movement
// events.
type TrackingHandler struct {
	Repo   ports.TrackingRepository
	Stream ports.PingStream
}

func (h *TrackingHandler) CreateDevice(w http.ResponseWriter, r *http.Request) {
	var req dto.DeviceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	d := &domain.GPSDevice{
		DeviceID:          req.DeviceID,
		AssignedVehicleID: req.AssignedVehicleID,
		IsActive:          true,
	}
	if req.IsActive != nil {
		d.IsActive = *req.IsActive
	}
	d.Normalize()
	if err := d.Validate(); err != nil {
		writeDomainError(w, r, err)
		return
	}

	if err := h.Repo.CreateDevice(r.Context(), d); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, deviceResponse(d))
}

func (h *TrackingHandler) ListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := h.Repo.ListDevices(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ListDevicesResponse{Devices: make([]dto.DeviceResponse, 0, len(devices))}
	for _, d := range devices {
		res.Devices = append(res.Devices, deviceResponse(d))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *TrackingHandler) GetDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	d, err := h.Repo.GetDevice(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, deviceResponse(d))
}

func (h *TrackingHandler) UpdateDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	existing, err := h.Repo.GetDevice(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	var req dto.DeviceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	d := &domain.GPSDevice{
		ID:                id,
		DeviceID:          req.DeviceID,
		AssignedVehicleID: req.AssignedVehicleID,
		IsActive:          existing.IsActive,
	}
	if req.IsActive != nil {
		d.IsActive = *req.IsActive
	}
	d.Normalize()
	if err := d.Validate(); err != nil {
		writeDomainError(w, r, err)
		return
	}

	if err := h.Repo.UpdateDevice(r.Context(), d); err != nil {
		writeDomainError(w, r, err)
		return
	}

	updated, err := h.Repo.GetDevice(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, deviceResponse(updated))
}

func (h *TrackingHandler) RecordPing(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.PingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ping, err := services.RecordPing(r.Context(), services.RecordPingRequest{
		DeviceID:  id,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Timestamp: req.Timestamp,
		SpeedMph:  req.SpeedMph,
		Heading:   req.Heading,
	}, h.Repo, h.Stream)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, pingResponse(ping))
}

func (h *TrackingHandler) ListPings(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if _, err := h.Repo.GetDevice(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}

	limit := defaultPingLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 1000 {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 1000")
			return
		}
		limit = n
	}

	pings, err := h.Repo.ListPings(r.Context(), id, limit)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ListPingsResponse{Pings: make([]dto.PingResponse, 0, len(pings))}
	for _, p := range pings {
		res.Pings = append(res.Pings, pingResponse(p))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *TrackingHandler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.TrackingEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ev, err := services.RecordTrackingEvent(r.Context(), services.RecordTrackingEventRequest{
		DeviceID:       id,
		EventType:      domain.TrackingEventType(req.EventType),
		EventTimestamp: req.EventTimestamp,
		VehicleID:      req.VehicleID,
		ShipmentID:     req.ShipmentID,
		LocationID:     req.LocationID,
		Note:           req.Note,
	}, h.Repo)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, trackingEventResponse(ev))
}

func (h *TrackingHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if _, err := h.Repo.GetDevice(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}

	events, err := h.Repo.ListEvents(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ListTrackingEventsResponse{Events: make([]dto.TrackingEventResponse, 0, len(events))}
	for _, ev := range events {
		res.Events = append(res.Events, trackingEventResponse(ev))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func deviceResponse(d *domain.GPSDevice) dto.DeviceResponse {
	return dto.DeviceResponse{
		ID:                d.ID,
		DeviceID:          d.DeviceID,
		AssignedVehicleID: d.AssignedVehicleID,
		IsActive:          d.IsActive,
		LastSeen:          d.LastSeen,
		CreatedAt:         d.CreatedAt,
	}
}

func pingResponse(p *domain.GPSTrackingPing) dto.PingResponse {
	return dto.PingResponse{
		ID:        p.ID,
		DeviceID:  p.DeviceID,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Timestamp: p.Timestamp,
		SpeedMph:  p.SpeedMph,
		Heading:   p.Heading,
		CreatedAt: p.CreatedAt,
	}
}

func trackingEventResponse(ev *domain.GPSTrackingEvent) dto.TrackingEventResponse {
	return dto.TrackingEventResponse{
		ID:             ev.ID,
		DeviceID:       ev.DeviceID,
		VehicleID:      ev.VehicleID,
		ShipmentID:     ev.ShipmentID,
		LocationID:     ev.LocationID,
		EventType:      string(ev.EventType),
		EventTimestamp: ev.EventTimestamp,
		Note:           ev.Note,
		CreatedAt:      ev.CreatedAt,
	}
}
