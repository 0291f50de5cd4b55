package live

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"freight-tracking-service/internal/domain"
	"freight-tracking-service/internal/ports"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

type pingMessage struct {
	Type      string    `json:"type"`
	DeviceID  int64     `json:"device_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	SpeedMph  *float64  `json:"speed_mph,omitempty"`
	Heading   *float64  `json:"heading,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// StreamHandler upgrades GET /tracking/devices/{id}/live to a websocket and
// relays every ping recorded for that device until the client disconnects.
type StreamHandler struct {
	hub      *Hub
	devices  ports.TrackingRepository
	upgrader websocket.Upgrader
}

func NewStreamHandler(hub *Hub, devices ports.TrackingRepository) *StreamHandler {
	return &StreamHandler{
		hub:     hub,
		devices: devices,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	deviceID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid device id", http.StatusBadRequest)
		return
	}
	if _, err := h.devices.GetDevice(r.Context(), deviceID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "device not found", http.StatusNotFound)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("msg=\"websocket upgrade failed\" device_id=%d error=%q", deviceID, err)
		return
	}
	defer conn.Close()

	sub := h.hub.Subscribe(deviceID)
	defer sub.Close()

	done := make(chan struct{})
	go readUntilClose(conn, done)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case p, ok := <-sub.C:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(toPingMessage(p)); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}

// readUntilClose drains the client side so close frames and pongs are
// processed, closing done when the peer goes away.
func readUntilClose(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func toPingMessage(p *domain.GPSTrackingPing) pingMessage {
	return pingMessage{
		Type:      "ping",
		DeviceID:  p.DeviceID,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		SpeedMph:  p.SpeedMph,
		Heading:   p.Heading,
		Timestamp: p.Timestamp,
	}
}
