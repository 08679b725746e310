package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Job kinds the worker knows how to route.
const (
	KindScan     = "scan"     // walk a target's followings for new leads
	KindSync     = "sync"     // re-scrape known leads for changes
	KindClassify = "classify" // DACH language classification
)

// JobPayload is the message published for every background run.
type JobPayload struct {
	JobID     string   `json:"job_id"`
	Kind      string   `json:"kind"`
	Username  string   `json:"username,omitempty"`
	Usernames []string `json:"usernames,omitempty"`
}

type ProducerInterface interface {
	PublishJob(ctx context.Context, payload JobPayload) error
}

type Producer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *Producer {
	return &Producer{Conn: conn, Ch: ch}
}

func (p *Producer) PublishJob(ctx context.Context, payload JobPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal job payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish job: %w", err)
	}
	return nil
}
