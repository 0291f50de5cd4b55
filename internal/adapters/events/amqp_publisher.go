package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"freight-tracking-service/internal/platform/obs"
	"freight-tracking-service/internal/ports"
)

const (
	exchangeName = "freight.status"
	exchangeKind = "topic"
)

// AMQPStatusPublisher publishes shipment status updates to a topic exchange.
// Routing keys take the form "shipment.status.<new_status>" so consumers can
// bind to individual statuses or the whole stream.
type AMQPStatusPublisher struct {
	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
	url  string
}

// NewAMQPStatusPublisher dials the broker and declares the status exchange.
func NewAMQPStatusPublisher(url string) (*AMQPStatusPublisher, error) {
	p := &AMQPStatusPublisher{url: url}
	if err := p.connect(); err != nil {
		return nil, fmt.Errorf("amqp status publisher: %w", err)
	}
	return p, nil
}

func (p *AMQPStatusPublisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(exchangeName, exchangeKind, true, false, false, false, nil)
	if err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("declare exchange %q: %w", exchangeName, err)
	}

	p.conn = conn
	p.ch = ch
	return nil
}

func (p *AMQPStatusPublisher) PublishStatusUpdate(ctx context.Context, update ports.StatusUpdate) (err error) {
	defer obs.Time(ctx, "events.publish_status_update")(&err)

	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("publish status update: marshal: %w", err)
	}

	routingKey := "shipment.status." + string(update.NewStatus)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() {
		log.Printf("amqp connection lost, reconnecting url=%s", p.url)
		if err := p.connect(); err != nil {
			return fmt.Errorf("publish status update: reconnect: %w", err)
		}
	}

	err = p.ch.PublishWithContext(ctx, exchangeName, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish status update shipment_id=%d: %w", update.ShipmentID, err)
	}

	return nil
}

func (p *AMQPStatusPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
