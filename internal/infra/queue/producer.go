package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/xavierca1/ligue-prospect/internal/entity"
)

// ImportBatchMessage é o que o scraper publica: candidatos de um território
// para um dono.
type ImportBatchMessage struct {
	OwnerID   string             `json:"owner_id"`
	Territory string             `json:"territory"`
	Leads     []entity.LeadInput `json:"leads"`
}

type QueueProducerInterface interface {
	PublishImportBatch(ctx context.Context, msg ImportBatchMessage) error
}

// publisher is the slice of *amqp.Channel the producer needs.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch publisher
}

func NewProducer(ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishImportBatch(ctx context.Context, msg ImportBatchMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}
	return nil
}
