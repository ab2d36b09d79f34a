package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"havenly/models"
	"havenly/utils"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

const (
	PropertyCreated  = "property.created"
	PropertyUpdated  = "property.updated"
	PropertyDeleted  = "property.deleted"
	PropertyApproved = "property.approved"
	PropertyRejected = "property.rejected"
)

// Publisher emits property change events for downstream consumers.
type Publisher interface {
	PublishProperty(ctx context.Context, action string, property *models.Property) error
	Close() error
}

// RabbitPublisher publishes JSON events to a durable queue.
type RabbitPublisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

// NewRabbitPublisher dials the broker and declares the queue.
func NewRabbitPublisher(url, queue string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	_, err = channel.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	return &RabbitPublisher{conn: conn, channel: channel, queue: queue}, nil
}

func (p *RabbitPublisher) PublishProperty(_ context.Context, action string, property *models.Property) error {
	body, err := json.Marshal(models.PropertyEvent{
		Action:     action,
		PropertyID: property.ID,
		HostID:     property.HostID,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	// amqp channels are not safe for concurrent publishing.
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.channel.Publish("", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
}

func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.channel.Close(); err != nil {
		utils.GetLogger().Warn("Failed to close AMQP channel", zap.Error(err))
	}
	return p.conn.Close()
}

// NoopPublisher drops events when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishProperty(context.Context, string, *models.Property) error { return nil }
func (NoopPublisher) Close() error                                                     { return nil }

// NewPublisher returns a RabbitMQ publisher, or a no-op when url is empty or
// the broker cannot be reached.
func NewPublisher(url, queue string) Publisher {
	if url == "" {
		return NoopPublisher{}
	}
	p, err := NewRabbitPublisher(url, queue)
	if err != nil {
		utils.GetLogger().Error("Property events disabled", zap.Error(err))
		return NoopPublisher{}
	}
	utils.GetLogger().Info("Publishing property events", zap.String("queue", queue))
	return p
}
