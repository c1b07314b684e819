package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"hourmeter-backend/internal/alarm"
)

// Publisher forwards threshold crossings to an external consumer.
type Publisher interface {
	Publish(ctx context.Context, c alarm.Crossing) error
}

// AlarmEvent is the message body published for a crossing.
type AlarmEvent struct {
	Brand      string    `json:"brand"`
	Model      string    `json:"model"`
	RecordID   int64     `json:"record_id"`
	Before     float64   `json:"hours_before"`
	After      float64   `json:"hours_after"`
	Thresholds []float64 `json:"thresholds"`
	OccurredAt time.Time `json:"occurred_at"`
}

func newAlarmEvent(c alarm.Crossing, at time.Time) AlarmEvent {
	return AlarmEvent{
		Brand:      c.Brand,
		Model:      c.Model,
		RecordID:   c.RecordID,
		Before:     c.Before,
		After:      c.After,
		Thresholds: c.Thresholds,
		OccurredAt: at.UTC(),
	}
}

// DefaultDialTimeout bounds how long a publish waits for the broker.
const DefaultDialTimeout = 5 * time.Second

// AMQPPublisher publishes alarm events to a durable RabbitMQ queue through the
// default exchange. A connection is opened per message; crossings are rare.
type AMQPPublisher struct {
	URL         string
	Queue       string
	DialTimeout time.Duration
}

// NewAMQPPublisher creates a publisher for the given broker URL and queue.
func NewAMQPPublisher(url, queue string) *AMQPPublisher {
	return &AMQPPublisher{URL: url, Queue: queue, DialTimeout: DefaultDialTimeout}
}

func (p *AMQPPublisher) dial() (*amqp.Connection, error) {
	timeout := p.DialTimeout
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}
	return amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
}

// Publish sends c as a persistent JSON message.
func (p *AMQPPublisher) Publish(ctx context.Context, c alarm.Crossing) error {
	conn, err := p.dial()
	if err != nil {
		return fmt.Errorf("rabbitmq: dial failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq: channel open failed: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		p.Queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		return fmt.Errorf("rabbitmq: queue declare failed: %w", err)
	}

	now := time.Now()
	body, err := json.Marshal(newAlarmEvent(c, now))
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal event failed: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    now.UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq: publish failed: %w", err)
	}
	return nil
}
