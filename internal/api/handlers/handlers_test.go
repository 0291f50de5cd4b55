package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight-tracking-service/internal/domain"
	"freight-tracking-service/internal/ports"
	"freight-tracking-service/internal/services"
)

type stubCarrierRepo struct {
	carriers   map[int64]*domain.Carrier
	dependents ports.DependentCounts
	createErr  error
	nextID     int64
}

func (s *stubCarrierRepo) CreateCarrier(_ context.Context, c *domain.Carrier) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.nextID++
	c.ID = s.nextID
	s.carriers[c.ID] = c
	return nil
}

func (s *stubCarrierRepo) ListCarriers(context.Context) ([]*domain.Carrier, error) {
	out := make([]*domain.Carrier, 0, len(s.carriers))
	for _, c := range s.carriers {
		out = append(out, c)
	}
	return out, nil
}

func (s *stubCarrierRepo) GetCarrier(_ context.Context, id int64) (*domain.Carrier, error) {
	c, ok := s.carriers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (s *stubCarrierRepo) UpdateCarrier(_ context.Context, c *domain.Carrier) error {
	s.carriers[c.ID] = c
	return nil
}

func (s *stubCarrierRepo) DeleteCarrier(_ context.Context, id int64) error {
	delete(s.carriers, id)
	return nil
}

func (s *stubCarrierRepo) CountDependents(context.Context, int64) (ports.DependentCounts, error) {
	return s.dependents, nil
}

func newCarrierMux(repo ports.CarrierRepository) *http.ServeMux {
	h := &CarrierHandler{Repo: repo}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /carriers", h.Create)
	mux.HandleFunc("GET /carriers/{id}", h.Get)
	mux.HandleFunc("DELETE /carriers/{id}", h.Delete)
	return mux
}

func TestCreateCarrier(t *testing.T) {
	repo := &stubCarrierRepo{carriers: make(map[int64]*domain.Carrier)}
	mux := newCarrierMux(repo)

	req := httptest.NewRequest(http.MethodPost, "/carriers",
		strings.NewReader(`{"name":"Sunline Freight","mc_number":"mc104233"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "MC104233", body["mc_number"], "MC number should be normalized")
	assert.Equal(t, "Under Capacity", body["capacity_status"])
}

func TestCreateCarrierValidation(t *testing.T) {
	repo := &stubCarrierRepo{carriers: make(map[int64]*domain.Carrier)}
	mux := newCarrierMux(repo)

	req := httptest.NewRequest(http.MethodPost, "/carriers",
		strings.NewReader(`{"name":"","mc_number":"104233"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Errors, "name")
	assert.Contains(t, body.Errors, "mc_number")
	assert.Empty(t, repo.carriers, "invalid carrier must not be stored")
}

func TestCreateCarrierConflict(t *testing.T) {
	repo := &stubCarrierRepo{
		carriers:  make(map[int64]*domain.Carrier),
		createErr: &domain.ConflictError{Field: "mc_number", Message: "A carrier with this MC number already exists."},
	}
	mux := newCarrierMux(repo)

	req := httptest.NewRequest(http.MethodPost, "/carriers",
		strings.NewReader(`{"name":"Sunline Freight","mc_number":"MC104233"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Errors, "mc_number")
}

func TestGetCarrierNotFound(t *testing.T) {
	repo := &stubCarrierRepo{carriers: make(map[int64]*domain.Carrier)}
	mux := newCarrierMux(repo)

	req := httptest.NewRequest(http.MethodGet, "/carriers/99", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteCarrierBlocked(t *testing.T) {
	repo := &stubCarrierRepo{
		carriers: map[int64]*domain.Carrier{
			1: {ID: 1, Name: "Sunline", MCNumber: "MC104233"},
		},
		dependents: ports.DependentCounts{Contacts: 1, Drivers: 2, Vehicles: 3},
	}
	mux := newCarrierMux(repo)

	req := httptest.NewRequest(http.MethodDelete, "/carriers/1", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)

	var body struct {
		Counts map[string]int `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]int{"contacts": 1, "drivers": 2, "vehicles": 3}, body.Counts)
	assert.Contains(t, repo.carriers, int64(1), "blocked delete must keep the carrier")
}

// minimal in-memory shipment store for the status endpoints

type stubShipmentRepo struct {
	shipments map[int64]*domain.Shipment
	events    []*domain.ShipmentStatusEvent
	nextID    int64
}

func (s *stubShipmentRepo) CreateShipment(_ context.Context, sh *domain.Shipment) error {
	s.nextID++
	sh.ID = s.nextID
	s.shipments[sh.ID] = sh
	return nil
}

func (s *stubShipmentRepo) ListShipments(context.Context) ([]*domain.Shipment, error) {
	out := make([]*domain.Shipment, 0, len(s.shipments))
	for _, sh := range s.shipments {
		out = append(out, sh)
	}
	return out, nil
}

func (s *stubShipmentRepo) GetShipment(_ context.Context, id int64) (*domain.Shipment, error) {
	sh, ok := s.shipments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *sh
	return &cp, nil
}

func (s *stubShipmentRepo) UpdateShipment(_ context.Context, sh *domain.Shipment) error {
	s.shipments[sh.ID] = sh
	return nil
}

func (s *stubShipmentRepo) DeleteShipment(_ context.Context, id int64) error {
	delete(s.shipments, id)
	return nil
}

func (s *stubShipmentRepo) ListEvents(_ context.Context, shipmentID int64) ([]*domain.ShipmentStatusEvent, error) {
	var out []*domain.ShipmentStatusEvent
	for _, ev := range s.events {
		if ev.ShipmentID == shipmentID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (s *stubShipmentRepo) InTx(_ context.Context, fn func(tx ports.ShipmentTx) error) error {
	return fn(&stubShipmentTx{repo: s})
}

func (s *stubShipmentRepo) CreateItem(context.Context, *domain.ShipmentItem) error { return nil }
func (s *stubShipmentRepo) ListItems(context.Context, int64) ([]*domain.ShipmentItem, error) {
	return nil, nil
}
func (s *stubShipmentRepo) DeleteItem(context.Context, int64, int64) error { return nil }

type stubShipmentTx struct {
	repo *stubShipmentRepo
}

func (t *stubShipmentTx) LockShipment(_ context.Context, id int64) (*domain.Shipment, error) {
	sh, ok := t.repo.shipments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *sh
	return &cp, nil
}

func (t *stubShipmentTx) LatestEvent(_ context.Context, shipmentID int64) (*domain.ShipmentStatusEvent, error) {
	var latest *domain.ShipmentStatusEvent
	for _, ev := range t.repo.events {
		if ev.ShipmentID != shipmentID {
			continue
		}
		if latest == nil || ev.EventTimestamp.After(latest.EventTimestamp) ||
			(ev.EventTimestamp.Equal(latest.EventTimestamp) && ev.ID > latest.ID) {
			latest = ev
		}
	}
	return latest, nil
}

func (t *stubShipmentTx) EventExists(_ context.Context, shipmentID int64, status domain.ShipmentStatus, ts time.Time) (bool, error) {
	for _, ev := range t.repo.events {
		if ev.ShipmentID == shipmentID && ev.Status == status && ev.EventTimestamp.Equal(ts) {
			return true, nil
		}
	}
	return false, nil
}

func (t *stubShipmentTx) InsertEvent(_ context.Context, ev *domain.ShipmentStatusEvent) error {
	t.repo.nextID++
	ev.ID = t.repo.nextID
	t.repo.events = append(t.repo.events, ev)
	return nil
}

func (t *stubShipmentTx) UpdateShipmentStatus(_ context.Context, sh *domain.Shipment) error {
	stored := t.repo.shipments[sh.ID]
	stored.CurrentStatus = sh.CurrentStatus
	stored.ActualPickup = sh.ActualPickup
	stored.ActualDelivery = sh.ActualDelivery
	return nil
}

func newShipmentStatusMux(repo *stubShipmentRepo) *http.ServeMux {
	h := &ShipmentHandler{Stores: services.ShipmentStores{Shipments: repo}}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /shipments/{id}/status", h.RecordStatus)
	mux.HandleFunc("GET /shipments/{id}/status", h.CurrentStatus)
	mux.HandleFunc("GET /shipments/{id}/events", h.ListEvents)
	return mux
}

func seedShipment() *stubShipmentRepo {
	return &stubShipmentRepo{
		shipments: map[int64]*domain.Shipment{
			1: {
				ID:            1,
				OriginID:      1,
				DestinationID: 2,
				CurrentStatus: domain.StatusPending,
			},
		},
	}
}

func TestRecordStatusEndpoint(t *testing.T) {
	repo := seedShipment()
	mux := newShipmentStatusMux(repo)

	req := httptest.NewRequest(http.MethodPost, "/shipments/1/status",
		strings.NewReader(`{"status":"in_transit","event_timestamp":"2026-03-01T09:30:00Z","source":"driver_app"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, domain.StatusInTransit, repo.shipments[1].CurrentStatus)
	require.NotNil(t, repo.shipments[1].ActualPickup)
}

func TestRecordStatusEndpointOutOfOrder(t *testing.T) {
	repo := seedShipment()
	repo.events = []*domain.ShipmentStatusEvent{{
		ID:             1,
		ShipmentID:     1,
		Status:         domain.StatusInTransit,
		EventTimestamp: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}}
	mux := newShipmentStatusMux(repo)

	req := httptest.NewRequest(http.MethodPost, "/shipments/1/status",
		strings.NewReader(`{"status":"delayed","event_timestamp":"2026-03-01T09:00:00Z"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Len(t, repo.events, 1, "rejected event must not append")
}

func TestCurrentStatusEndpoint(t *testing.T) {
	repo := seedShipment()
	mux := newShipmentStatusMux(repo)

	req := httptest.NewRequest(http.MethodGet, "/shipments/1/status", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "pending", body["status"])
}

type failingStatusCache struct{}

func (failingStatusCache) GetStatus(context.Context, int64) (domain.ShipmentStatus, bool, error) {
	return "", false, errors.New("redis gone")
}

func (failingStatusCache) SetStatus(context.Context, int64, domain.ShipmentStatus) error {
	return errors.New("redis gone")
}

func (failingStatusCache) DeleteStatus(context.Context, int64) error {
	return errors.New("redis gone")
}

func TestDeleteShipmentSurvivesCacheFailure(t *testing.T) {
	repo := seedShipment()
	h := &ShipmentHandler{
		Stores: services.ShipmentStores{Shipments: repo},
		Cache:  failingStatusCache{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /shipments/{id}", h.Delete)

	req := httptest.NewRequest(http.MethodDelete, "/shipments/1", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code, "a committed delete must not fail on cache eviction")
	assert.NotContains(t, repo.shipments, int64(1))
}

func TestListEventsEndpointUnknownShipment(t *testing.T) {
	repo := seedShipment()
	mux := newShipmentStatusMux(repo)

	req := httptest.NewRequest(http.MethodGet, "/shipments/42/events", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
