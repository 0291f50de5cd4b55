package api

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"freight-tracking-service/internal/api/live"
	"freight-tracking-service/internal/domain"
	"freight-tracking-service/internal/ports"
)

type stubTrackingRepo struct {
	devices map[int64]*domain.GPSDevice
}

func (s *stubTrackingRepo) CreateDevice(context.Context, *domain.GPSDevice) error { return nil }
func (s *stubTrackingRepo) ListDevices(context.Context) ([]*domain.GPSDevice, error) {
	return nil, nil
}

func (s *stubTrackingRepo) GetDevice(_ context.Context, id int64) (*domain.GPSDevice, error) {
	d, ok := s.devices[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

func (s *stubTrackingRepo) UpdateDevice(context.Context, *domain.GPSDevice) error { return nil }
func (s *stubTrackingRepo) InsertPing(context.Context, *domain.GPSTrackingPing) error {
	return nil
}
func (s *stubTrackingRepo) ListPings(context.Context, int64, int) ([]*domain.GPSTrackingPing, error) {
	return nil, nil
}
func (s *stubTrackingRepo) ListEvents(context.Context, int64) ([]*domain.GPSTrackingEvent, error) {
	return nil, nil
}
func (s *stubTrackingRepo) InDeviceTx(context.Context, func(tx ports.DeviceTx) error) error {
	return nil
}

// TestLiveStreamThroughRouter dials the websocket endpoint through the full
// middleware chain, not the handler in isolation. The logging wrapper sits
// between the server and the upgrader, so the upgrade exercises the
// wrapper's hijack path.
func TestLiveStreamThroughRouter(t *testing.T) {
	hub := live.NewHub()
	repo := &stubTrackingRepo{devices: map[int64]*domain.GPSDevice{
		7: {ID: 7, DeviceID: "TRK-0007", IsActive: true},
	}}

	srv := httptest.NewServer(NewRouter(Deps{Tracking: repo, Hub: hub}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/tracking/devices/7/live"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial: %v (status %v)", err, resp)
	}
	defer conn.Close()

	speed := 54.0
	ping := &domain.GPSTrackingPing{
		ID:        1,
		DeviceID:  7,
		Latitude:  33.4484,
		Longitude: -112.0740,
		SpeedMph:  &speed,
		Timestamp: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}

	// The handler subscribes just after the handshake; republish until the
	// read below observes a delivery.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			hub.PublishPing(ping)
			select {
			case <-stop:
				return
			case <-ticker.C:
			}
		}
	}()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Type      string  `json:"type"`
		DeviceID  int64   `json:"device_id"`
		Latitude  float64 `json:"latitude"`
		SpeedMph  float64 `json:"speed_mph"`
		Timestamp string  `json:"timestamp"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	if msg.Type != "ping" {
		t.Errorf("type = %q, want ping", msg.Type)
	}
	if msg.DeviceID != 7 {
		t.Errorf("device_id = %d, want 7", msg.DeviceID)
	}
	if msg.Latitude != 33.4484 {
		t.Errorf("latitude = %v", msg.Latitude)
	}
	if msg.SpeedMph != 54.0 {
		t.Errorf("speed_mph = %v", msg.SpeedMph)
	}
}

func TestLiveStreamUnknownDevice(t *testing.T) {
	hub := live.NewHub()
	repo := &stubTrackingRepo{devices: map[int64]*domain.GPSDevice{}}

	srv := httptest.NewServer(NewRouter(Deps{Tracking: repo, Hub: hub}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/tracking/devices/99/live"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		conn.Close()
		t.Fatal("Dial should fail for an unknown device")
	}
	if resp == nil || resp.StatusCode != 404 {
		t.Fatalf("status = %v, want 404", resp)
	}
}
