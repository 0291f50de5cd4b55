package live

import (
	"sync"

	"freight-tracking-service/internal/domain"
)

const subscriberBuffer = 16

// Hub fans freshly recorded GPS pings out to websocket subscribers, keyed by
// device. Publishing never blocks: a subscriber that cannot keep up has its
// oldest pings dropped.
type Hub struct {
	mu   sync.Mutex
	subs map[int64]map[*Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int64]map[*Subscriber]struct{})}
}

// Subscriber receives pings for a single device over C until Close.
type Subscriber struct {
	C        chan *domain.GPSTrackingPing
	deviceID int64
	hub      *Hub
	once     sync.Once
}

func (s *Subscriber) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
		close(s.C)
	})
}

// Subscribe registers interest in one device's pings.
func (h *Hub) Subscribe(deviceID int64) *Subscriber {
	sub := &Subscriber{
		C:        make(chan *domain.GPSTrackingPing, subscriberBuffer),
		deviceID: deviceID,
		hub:      h,
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[deviceID] == nil {
		h.subs[deviceID] = make(map[*Subscriber]struct{})
	}
	h.subs[deviceID][sub] = struct{}{}
	return sub
}

func (h *Hub) remove(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set := h.subs[sub.deviceID]
	delete(set, sub)
	if len(set) == 0 {
		delete(h.subs, sub.deviceID)
	}
}

// PublishPing implements ports.PingStream. The ingest path must never stall
// behind a slow websocket, so a full subscriber loses its oldest ping.
func (h *Hub) PublishPing(p *domain.GPSTrackingPing) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs[p.DeviceID] {
		select {
		case sub.C <- p:
		default:
			select {
			case <-sub.C:
			default:
			}
			select {
			case sub.C <- p:
			default:
			}
		}
	}
}
