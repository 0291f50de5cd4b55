package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"freight-tracking-service/internal/domain"
	"freight-tracking-service/internal/ports"
)

// fakeShipmentRepo keeps shipments and events in memory. InTx runs the
// callback against the same state; there is no rollback, so tests assert
// that failing paths never reach the insert.
type fakeShipmentRepo struct {
	shipments map[int64]*domain.Shipment
	events    []*domain.ShipmentStatusEvent
	items     []*domain.ShipmentItem
	nextID    int64
}

func newFakeShipmentRepo(shipments ...*domain.Shipment) *fakeShipmentRepo {
	repo := &fakeShipmentRepo{shipments: make(map[int64]*domain.Shipment)}
	for _, s := range shipments {
		repo.shipments[s.ID] = s
	}
	return repo
}

func (f *fakeShipmentRepo) CreateShipment(_ context.Context, s *domain.Shipment) error {
	f.nextID++
	s.ID = f.nextID
	f.shipments[s.ID] = s
	return nil
}

func (f *fakeShipmentRepo) ListShipments(context.Context) ([]*domain.Shipment, error) {
	out := make([]*domain.Shipment, 0, len(f.shipments))
	for _, s := range f.shipments {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeShipmentRepo) GetShipment(_ context.Context, id int64) (*domain.Shipment, error) {
	s, ok := f.shipments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeShipmentRepo) UpdateShipment(_ context.Context, s *domain.Shipment) error {
	if _, ok := f.shipments[s.ID]; !ok {
		return domain.ErrNotFound
	}
	f.shipments[s.ID] = s
	return nil
}

func (f *fakeShipmentRepo) DeleteShipment(_ context.Context, id int64) error {
	delete(f.shipments, id)
	return nil
}

func (f *fakeShipmentRepo) ListEvents(_ context.Context, shipmentID int64) ([]*domain.ShipmentStatusEvent, error) {
	var out []*domain.ShipmentStatusEvent
	for _, ev := range f.events {
		if ev.ShipmentID == shipmentID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeShipmentRepo) InTx(_ context.Context, fn func(tx ports.ShipmentTx) error) error {
	return fn(&fakeShipmentTx{repo: f})
}

func (f *fakeShipmentRepo) CreateItem(_ context.Context, item *domain.ShipmentItem) error {
	f.nextID++
	item.ID = f.nextID
	f.items = append(f.items, item)
	return nil
}

func (f *fakeShipmentRepo) ListItems(_ context.Context, shipmentID int64) ([]*domain.ShipmentItem, error) {
	var out []*domain.ShipmentItem
	for _, item := range f.items {
		if item.ShipmentID == shipmentID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeShipmentRepo) DeleteItem(_ context.Context, shipmentID, itemID int64) error {
	for i, item := range f.items {
		if item.ShipmentID == shipmentID && item.ID == itemID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeShipmentTx struct {
	repo *fakeShipmentRepo
}

func (t *fakeShipmentTx) LockShipment(_ context.Context, id int64) (*domain.Shipment, error) {
	s, ok := t.repo.shipments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (t *fakeShipmentTx) LatestEvent(_ context.Context, shipmentID int64) (*domain.ShipmentStatusEvent, error) {
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

func (t *fakeShipmentTx) EventExists(_ context.Context, shipmentID int64, status domain.ShipmentStatus, ts time.Time) (bool, error) {
	for _, ev := range t.repo.events {
		if ev.ShipmentID == shipmentID && ev.Status == status && ev.EventTimestamp.Equal(ts) {
			return true, nil
		}
	}
	return false, nil
}

func (t *fakeShipmentTx) InsertEvent(_ context.Context, ev *domain.ShipmentStatusEvent) error {
	t.repo.nextID++
	ev.ID = t.repo.nextID
	ev.CreatedAt = time.Now()
	t.repo.events = append(t.repo.events, ev)
	return nil
}

func (t *fakeShipmentTx) UpdateShipmentStatus(_ context.Context, s *domain.Shipment) error {
	stored, ok := t.repo.shipments[s.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.CurrentStatus = s.CurrentStatus
	stored.ActualPickup = s.ActualPickup
	stored.ActualDelivery = s.ActualDelivery
	return nil
}

type fakeStatusCache struct {
	values map[int64]domain.ShipmentStatus
	sets   int
}

func newFakeStatusCache() *fakeStatusCache {
	return &fakeStatusCache{values: make(map[int64]domain.ShipmentStatus)}
}

func (c *fakeStatusCache) GetStatus(_ context.Context, shipmentID int64) (domain.ShipmentStatus, bool, error) {
	status, ok := c.values[shipmentID]
	return status, ok, nil
}

func (c *fakeStatusCache) SetStatus(_ context.Context, shipmentID int64, status domain.ShipmentStatus) error {
	c.values[shipmentID] = status
	c.sets++
	return nil
}

func (c *fakeStatusCache) DeleteStatus(_ context.Context, shipmentID int64) error {
	delete(c.values, shipmentID)
	return nil
}

type fakePublisher struct {
	updates []ports.StatusUpdate
}

func (p *fakePublisher) PublishStatusUpdate(_ context.Context, update ports.StatusUpdate) error {
	p.updates = append(p.updates, update)
	return nil
}

func pendingShipment(id int64) *domain.Shipment {
	return &domain.Shipment{
		ID:                id,
		OriginID:          1,
		DestinationID:     2,
		ScheduledPickup:   time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
		ScheduledDelivery: time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC),
		CurrentStatus:     domain.StatusPending,
	}
}

func TestRecordStatusEventAppendsAndDenormalizes(t *testing.T) {
	repo := newFakeShipmentRepo(pendingShipment(1))
	cache := newFakeStatusCache()
	pub := &fakePublisher{}
	ts := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	ev, err := RecordStatusEvent(context.Background(), RecordStatusEventRequest{
		ShipmentID:     1,
		Status:         domain.StatusInTransit,
		Source:         "driver_app",
		EventTimestamp: &ts,
	}, repo, cache, pub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.ID == 0 {
		t.Error("event ID not assigned")
	}

	s := repo.shipments[1]
	if s.CurrentStatus != domain.StatusInTransit {
		t.Errorf("CurrentStatus = %s, want in_transit", s.CurrentStatus)
	}
	if s.ActualPickup == nil || !s.ActualPickup.Equal(ts) {
		t.Errorf("ActualPickup = %v, want %v", s.ActualPickup, ts)
	}

	if got := cache.values[1]; got != domain.StatusInTransit {
		t.Errorf("cache value = %s, want in_transit", got)
	}

	if len(pub.updates) != 1 {
		t.Fatalf("published %d updates, want 1", len(pub.updates))
	}
	update := pub.updates[0]
	if update.OldStatus != domain.StatusPending || update.NewStatus != domain.StatusInTransit {
		t.Errorf("update statuses = %s -> %s, want pending -> in_transit", update.OldStatus, update.NewStatus)
	}
}

func TestRecordStatusEventOutOfOrder(t *testing.T) {
	repo := newFakeShipmentRepo(pendingShipment(1))
	later := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	if _, err := RecordStatusEvent(context.Background(), RecordStatusEventRequest{
		ShipmentID:     1,
		Status:         domain.StatusInTransit,
		EventTimestamp: &later,
	}, repo, nil, nil); err != nil {
		t.Fatalf("seed event failed: %v", err)
	}

	earlier := later.Add(-time.Hour)
	_, err := RecordStatusEvent(context.Background(), RecordStatusEventRequest{
		ShipmentID:     1,
		Status:         domain.StatusDelayed,
		EventTimestamp: &earlier,
	}, repo, nil, nil)
	if !errors.Is(err, domain.ErrEventOutOfOrder) {
		t.Fatalf("err = %v, want ErrEventOutOfOrder", err)
	}

	if len(repo.events) != 1 {
		t.Errorf("event log has %d entries, want 1 (rejected event must not append)", len(repo.events))
	}
	if repo.shipments[1].CurrentStatus != domain.StatusInTransit {
		t.Errorf("CurrentStatus changed to %s on rejected event", repo.shipments[1].CurrentStatus)
	}
}

func TestRecordStatusEventDuplicate(t *testing.T) {
	repo := newFakeShipmentRepo(pendingShipment(1))
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	req := RecordStatusEventRequest{ShipmentID: 1, Status: domain.StatusDelayed, EventTimestamp: &ts}

	if _, err := RecordStatusEvent(context.Background(), req, repo, nil, nil); err != nil {
		t.Fatalf("first event failed: %v", err)
	}

	_, err := RecordStatusEvent(context.Background(), req, repo, nil, nil)
	if !errors.Is(err, domain.ErrDuplicateEvent) {
		t.Fatalf("err = %v, want ErrDuplicateEvent", err)
	}
	if len(repo.events) != 1 {
		t.Errorf("event log has %d entries, want 1", len(repo.events))
	}
}

func TestRecordStatusEventEqualTimestampDifferentStatus(t *testing.T) {
	repo := newFakeShipmentRepo(pendingShipment(1))
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	if _, err := RecordStatusEvent(context.Background(), RecordStatusEventRequest{
		ShipmentID: 1, Status: domain.StatusInTransit, EventTimestamp: &ts,
	}, repo, nil, nil); err != nil {
		t.Fatalf("first event failed: %v", err)
	}

	// same timestamp is allowed as long as the status differs
	if _, err := RecordStatusEvent(context.Background(), RecordStatusEventRequest{
		ShipmentID: 1, Status: domain.StatusDelayed, EventTimestamp: &ts,
	}, repo, nil, nil); err != nil {
		t.Fatalf("equal-timestamp event failed: %v", err)
	}

	if len(repo.events) != 2 {
		t.Errorf("event log has %d entries, want 2", len(repo.events))
	}
}

func TestRecordStatusEventPickupWriteOnce(t *testing.T) {
	repo := newFakeShipmentRepo(pendingShipment(1))
	first := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	second := first.Add(3 * time.Hour)

	for _, ts := range []time.Time{first, second} {
		ts := ts
		if _, err := RecordStatusEvent(context.Background(), RecordStatusEventRequest{
			ShipmentID: 1, Status: domain.StatusInTransit, EventTimestamp: &ts,
		}, repo, nil, nil); err != nil {
			t.Fatalf("event at %v failed: %v", ts, err)
		}
	}

	s := repo.shipments[1]
	if s.ActualPickup == nil || !s.ActualPickup.Equal(first) {
		t.Errorf("ActualPickup = %v, want first in_transit timestamp %v", s.ActualPickup, first)
	}
}

func TestRecordStatusEventInvalidStatus(t *testing.T) {
	repo := newFakeShipmentRepo(pendingShipment(1))

	_, err := RecordStatusEvent(context.Background(), RecordStatusEventRequest{
		ShipmentID: 1,
		Status:     "teleported",
	}, repo, nil, nil)

	var fe domain.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want FieldErrors", err)
	}
	if _, ok := fe["status"]; !ok {
		t.Errorf("expected status field error, got %v", fe)
	}
	if len(repo.events) != 0 {
		t.Errorf("invalid event reached the log: %d entries", len(repo.events))
	}
}

func TestCurrentStatusReadsThroughCache(t *testing.T) {
	repo := newFakeShipmentRepo(pendingShipment(1))
	cache := newFakeStatusCache()

	status, err := CurrentStatus(context.Background(), 1, repo, cache)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != domain.StatusPending {
		t.Fatalf("status = %s, want pending", status)
	}
	if cache.sets != 1 {
		t.Errorf("cache sets = %d, want 1 (miss writes back)", cache.sets)
	}

	// the store changes behind the cache; a warm cache answers without it
	repo.shipments[1].CurrentStatus = domain.StatusDelivered
	status, err = CurrentStatus(context.Background(), 1, repo, cache)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != domain.StatusPending {
		t.Errorf("status = %s, want cached pending", status)
	}
}
