package live

import (
	"testing"
	"time"

	"freight-tracking-service/internal/domain"
)

func ping(deviceID int64, seq int) *domain.GPSTrackingPing {
	return &domain.GPSTrackingPing{
		ID:        int64(seq),
		DeviceID:  deviceID,
		Latitude:  33.4,
		Longitude: -112.1,
		Timestamp: time.Date(2026, 3, 1, 12, 0, seq, 0, time.UTC),
	}
}

func TestHubDeliversToDeviceSubscribers(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(1)
	defer sub.Close()

	other := hub.Subscribe(2)
	defer other.Close()

	hub.PublishPing(ping(1, 1))

	select {
	case p := <-sub.C:
		if p.DeviceID != 1 {
			t.Errorf("got ping for device %d, want 1", p.DeviceID)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive ping")
	}

	select {
	case p := <-other.C:
		t.Fatalf("device 2 subscriber received ping for device %d", p.DeviceID)
	default:
	}
}

func TestHubDropsOldestWhenSubscriberLags(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(1)
	defer sub.Close()

	// overflow the buffer; publishing must never block
	total := subscriberBuffer + 5
	done := make(chan struct{})
	go func() {
		for i := 1; i <= total; i++ {
			hub.PublishPing(ping(1, i))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	received := 0
	for {
		select {
		case <-sub.C:
			received++
		default:
			if received == 0 {
				t.Fatal("lagging subscriber received nothing")
			}
			if received > subscriberBuffer {
				t.Errorf("received %d pings, buffer holds %d", received, subscriberBuffer)
			}
			return
		}
	}
}

func TestHubUnsubscribeOnClose(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(1)
	sub.Close()

	// publishing after close must not panic or deliver
	hub.PublishPing(ping(1, 1))

	if _, open := <-sub.C; open {
		t.Error("channel still open after Close")
	}
}
