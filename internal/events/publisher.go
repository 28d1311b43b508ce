// internal/events/publisher.go
package events

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/streadway/amqp"
)

// Event names published on the feed.
const (
	CampaignStarted   = "campaign.started"
	CampaignStopped   = "campaign.stopped"
	CampaignCompleted = "campaign.completed"
	CampaignFailed    = "campaign.failed"
	MessageStatus     = "message.status"
	ReplyReceived     = "reply.received"
)

// Publisher emits campaign lifecycle and message status events for
// downstream consumers. Publishing is best-effort: a lost event never blocks
// or fails the dispatch path.
type Publisher interface {
	Publish(event string, payload any)
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(string, any) {}

// AMQPPublisher pushes events onto a durable RabbitMQ queue as JSON.
type AMQPPublisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

func NewAMQPPublisher(url, queueName string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &AMQPPublisher{conn: conn, ch: ch, queue: queueName}, nil
}

func (p *AMQPPublisher) Publish(event string, payload any) {
	body, err := json.Marshal(map[string]any{
		"event":     event,
		"payload":   payload,
		"timestamp": time.Now().UTC(),
	})
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("failed to encode event")
		return
	}
	err = p.ch.Publish(
		"",      // exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("failed to publish event")
	}
}

func (p *AMQPPublisher) Close() {
	p.ch.Close()
	p.conn.Close()
}
