package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"freight-tracking-service/internal/domain"
	"freight-tracking-service/internal/ports"
)

type fakeTrackingRepo struct {
	devices map[int64]*domain.GPSDevice
	pings   []*domain.GPSTrackingPing
	events  []*domain.GPSTrackingEvent
	nextID  int64
}

func newFakeTrackingRepo(devices ...*domain.GPSDevice) *fakeTrackingRepo {
	repo := &fakeTrackingRepo{devices: make(map[int64]*domain.GPSDevice)}
	for _, d := range devices {
		repo.devices[d.ID] = d
	}
	return repo
}

func (f *fakeTrackingRepo) CreateDevice(_ context.Context, d *domain.GPSDevice) error {
	f.nextID++
	d.ID = f.nextID
	f.devices[d.ID] = d
	return nil
}

func (f *fakeTrackingRepo) ListDevices(context.Context) ([]*domain.GPSDevice, error) {
	out := make([]*domain.GPSDevice, 0, len(f.devices))
	for _, d := range f.devices {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeTrackingRepo) GetDevice(_ context.Context, id int64) (*domain.GPSDevice, error) {
	d, ok := f.devices[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeTrackingRepo) UpdateDevice(_ context.Context, d *domain.GPSDevice) error {
	if _, ok := f.devices[d.ID]; !ok {
		return domain.ErrNotFound
	}
	f.devices[d.ID] = d
	return nil
}

func (f *fakeTrackingRepo) InsertPing(_ context.Context, p *domain.GPSTrackingPing) error {
	f.nextID++
	p.ID = f.nextID
	f.pings = append(f.pings, p)

	d := f.devices[p.DeviceID]
	if d.LastSeen == nil || d.LastSeen.Before(p.Timestamp) {
		ts := p.Timestamp
		d.LastSeen = &ts
	}
	return nil
}

func (f *fakeTrackingRepo) ListPings(_ context.Context, deviceID int64, limit int) ([]*domain.GPSTrackingPing, error) {
	var out []*domain.GPSTrackingPing
	for i := len(f.pings) - 1; i >= 0 && len(out) < limit; i-- {
		if f.pings[i].DeviceID == deviceID {
			out = append(out, f.pings[i])
		}
	}
	return out, nil
}

func (f *fakeTrackingRepo) ListEvents(_ context.Context, deviceID int64) ([]*domain.GPSTrackingEvent, error) {
	var out []*domain.GPSTrackingEvent
	for _, ev := range f.events {
		if ev.DeviceID == deviceID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeTrackingRepo) InDeviceTx(_ context.Context, fn func(tx ports.DeviceTx) error) error {
	return fn(&fakeDeviceTx{repo: f})
}

type fakeDeviceTx struct {
	repo *fakeTrackingRepo
}

func (t *fakeDeviceTx) LockDevice(_ context.Context, id int64) (*domain.GPSDevice, error) {
	d, ok := t.repo.devices[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (t *fakeDeviceTx) LatestEvent(_ context.Context, deviceID int64) (*domain.GPSTrackingEvent, error) {
	var latest *domain.GPSTrackingEvent
	for _, ev := range t.repo.events {
		if ev.DeviceID != deviceID {
			continue
		}
		if latest == nil || ev.EventTimestamp.After(latest.EventTimestamp) ||
			(ev.EventTimestamp.Equal(latest.EventTimestamp) && ev.ID > latest.ID) {
			latest = ev
		}
	}
	return latest, nil
}

func (t *fakeDeviceTx) EventExists(_ context.Context, deviceID int64, eventType domain.TrackingEventType, ts time.Time) (bool, error) {
	for _, ev := range t.repo.events {
		if ev.DeviceID == deviceID && ev.EventType == eventType && ev.EventTimestamp.Equal(ts) {
			return true, nil
		}
	}
	return false, nil
}

func (t *fakeDeviceTx) InsertEvent(_ context.Context, ev *domain.GPSTrackingEvent) error {
	t.repo.nextID++
	ev.ID = t.repo.nextID
	t.repo.events = append(t.repo.events, ev)
	return nil
}

type fakeStream struct {
	pings []*domain.GPSTrackingPing
}

func (s *fakeStream) PublishPing(p *domain.GPSTrackingPing) {
	s.pings = append(s.pings, p)
}

func activeDevice(id int64) *domain.GPSDevice {
	return &domain.GPSDevice{ID: id, DeviceID: "TRK-001", IsActive: true}
}

func TestRecordTrackingEventChronology(t *testing.T) {
	repo := newFakeTrackingRepo(activeDevice(1))
	later := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)

	if _, err := RecordTrackingEvent(context.Background(), RecordTrackingEventRequest{
		DeviceID: 1, EventType: domain.EventDeparted, EventTimestamp: &later,
	}, repo); err != nil {
		t.Fatalf("seed event failed: %v", err)
	}

	earlier := later.Add(-30 * time.Minute)
	_, err := RecordTrackingEvent(context.Background(), RecordTrackingEventRequest{
		DeviceID: 1, EventType: domain.EventArrived, EventTimestamp: &earlier,
	}, repo)
	if !errors.Is(err, domain.ErrEventOutOfOrder) {
		t.Fatalf("err = %v, want ErrEventOutOfOrder", err)
	}
	if len(repo.events) != 1 {
		t.Errorf("event log has %d entries, want 1", len(repo.events))
	}
}

func TestRecordTrackingEventDuplicate(t *testing.T) {
	repo := newFakeTrackingRepo(activeDevice(1))
	ts := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)
	req := RecordTrackingEventRequest{DeviceID: 1, EventType: domain.EventStopped, EventTimestamp: &ts}

	if _, err := RecordTrackingEvent(context.Background(), req, repo); err != nil {
		t.Fatalf("first event failed: %v", err)
	}
	_, err := RecordTrackingEvent(context.Background(), req, repo)
	if !errors.Is(err, domain.ErrDuplicateEvent) {
		t.Fatalf("err = %v, want ErrDuplicateEvent", err)
	}
}

func TestRecordTrackingEventUnknownType(t *testing.T) {
	repo := newFakeTrackingRepo(activeDevice(1))

	_, err := RecordTrackingEvent(context.Background(), RecordTrackingEventRequest{
		DeviceID:  1,
		EventType: "warp",
	}, repo)

	var fe domain.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want FieldErrors", err)
	}
	if _, ok := fe["event_type"]; !ok {
		t.Errorf("expected event_type field error, got %v", fe)
	}
}

func TestRecordPingAdvancesLastSeenAndStreams(t *testing.T) {
	repo := newFakeTrackingRepo(activeDevice(1))
	stream := &fakeStream{}
	ts := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)

	ping, err := RecordPing(context.Background(), RecordPingRequest{
		DeviceID:  1,
		Latitude:  33.4455,
		Longitude: -112.0901,
		Timestamp: &ts,
	}, repo, stream)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ping.ID == 0 {
		t.Error("ping ID not assigned")
	}

	d := repo.devices[1]
	if d.LastSeen == nil || !d.LastSeen.Equal(ts) {
		t.Errorf("LastSeen = %v, want %v", d.LastSeen, ts)
	}

	if len(stream.pings) != 1 {
		t.Fatalf("streamed %d pings, want 1", len(stream.pings))
	}

	// an older ping is stored but must not move last_seen backwards
	older := ts.Add(-time.Hour)
	if _, err := RecordPing(context.Background(), RecordPingRequest{
		DeviceID:  1,
		Latitude:  33.0,
		Longitude: -112.0,
		Timestamp: &older,
	}, repo, stream); err != nil {
		t.Fatalf("older ping failed: %v", err)
	}
	if !d.LastSeen.Equal(ts) {
		t.Errorf("LastSeen moved backwards to %v", d.LastSeen)
	}
}

func TestRecordPingInactiveDevice(t *testing.T) {
	device := activeDevice(1)
	device.IsActive = false
	repo := newFakeTrackingRepo(device)

	_, err := RecordPing(context.Background(), RecordPingRequest{
		DeviceID:  1,
		Latitude:  33.0,
		Longitude: -112.0,
	}, repo, nil)

	var fe domain.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want FieldErrors", err)
	}
	if len(repo.pings) != 0 {
		t.Errorf("inactive device stored %d pings", len(repo.pings))
	}
}

func TestRecordPingRejectsBadCoordinates(t *testing.T) {
	repo := newFakeTrackingRepo(activeDevice(1))

	_, err := RecordPing(context.Background(), RecordPingRequest{
		DeviceID:  1,
		Latitude:  91,
		Longitude: 0,
	}, repo, nil)

	var fe domain.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want FieldErrors", err)
	}
	if _, ok := fe["latitude"]; !ok {
		t.Errorf("expected latitude field error, got %v", fe)
	}
}
