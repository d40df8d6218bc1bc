package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

type Publisher interface {
	Publish(ctx context.Context, key string, msg Envelope) error
	Close() error
}

type rmqPublisher struct {
	conn     *amqp.Connection
	exchange string
}

// NewRabbitMQ dials the broker and declares a durable topic exchange.
func NewRabbitMQ(url, exchange string) (Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp exchange declare: %w", err)
	}

	return &rmqPublisher{conn: conn, exchange: exchange}, nil
}

func (r *rmqPublisher) Publish(ctx context.Context, key string, msg Envelope) error {
	ch, err := r.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	msgID := msg.Meta.ID
	if msgID == "" {
		msgID = uuid.NewString()
	}
	cid := msgID
	if msg.Meta.CorrelationID != nil {
		cid = *msg.Meta.CorrelationID
	}

	err = ch.PublishWithContext(ctx, r.exchange, key, false, false, amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		MessageId:     msgID,
		CorrelationId: cid,
		Timestamp:     time.Now(),
		Body:          body,
	})
	if err == nil {
		log.Debug().Str("key", key).Str("exchange", r.exchange).Msg("📤 event published")
	}
	return err
}

func (r *rmqPublisher) Close() error {
	return r.conn.Close()
}

// FallbackPublisher drops events. Used when AMQP_URL is unset or the broker
// is unreachable at startup.
type FallbackPublisher struct{}

func NewFallback() Publisher {
	return &FallbackPublisher{}
}

func (p *FallbackPublisher) Publish(ctx context.Context, key string, msg Envelope) error {
	log.Debug().Str("key", key).Msg("FallbackPublisher: skipped publish")
	return nil
}

func (p *FallbackPublisher) Close() error {
	return nil
}

// Connect returns a RabbitMQ publisher, or the fallback when url is empty
// or the broker cannot be reached.
func Connect(url, exchange string) Publisher {
	if url == "" {
		log.Info().Msg("📭 AMQP_URL not set, domain events disabled")
		return NewFallback()
	}
	pub, err := NewRabbitMQ(url, exchange)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️ RabbitMQ unavailable, domain events disabled")
		return NewFallback()
	}
	log.Info().Str("exchange", exchange).Msg("✅ RabbitMQ connected")
	return pub
}
