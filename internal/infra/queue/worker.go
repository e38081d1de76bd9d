package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/xavierca1/ligue-prospect/internal/entity"
	"github.com/xavierca1/ligue-prospect/internal/usecase"
)

// Importer is satisfied by *usecase.ImportLeadsUseCase.
type Importer interface {
	Execute(ctx context.Context, p entity.Principal, input usecase.ImportLeadsInput) (int, error)
}

type Worker struct {
	Channel  *amqp.Channel
	Importer Importer
}

func NewWorker(ch *amqp.Channel, importer Importer) *Worker {
	return &Worker{Channel: ch, Importer: importer}
}

// Start consome a fila até ctx ser cancelado ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",
		false, // auto-ack desligado: ack/nack manual
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	log.Printf(" [*] Worker rodando e aguardando na fila '%s'", queueName)
	for {
		select {
		case <-ctx.Done():
			log.Printf("🛑 [WORKER] Encerrando consumo de '%s'", queueName)
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("canal do RabbitMQ fechado")
			}
			w.HandleDelivery(ctx, d)
		}
	}
}

// HandleDelivery importa uma mensagem e confirma. JSON inválido ou falha de
// importação vão para a DLQ sem requeue.
func (w *Worker) HandleDelivery(ctx context.Context, d amqp.Delivery) {
	log.Printf("📥 [WORKER] Mensagem Recebida do RabbitMQ")

	var msg ImportBatchMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		log.Printf("❌ [WORKER] JSON Inválido: %s", err)
		d.Nack(false, false)
		return
	}

	n, err := w.Importer.Execute(ctx, entity.Principal{ID: msg.OwnerID}, usecase.ImportLeadsInput{
		Territory:  msg.Territory,
		Candidates: msg.Leads,
		Channel:    usecase.ChannelQueue,
	})
	if err != nil {
		log.Printf("❌ [WORKER] Erro na importação para %s (%d gravados): %s", msg.OwnerID, n, err)
		d.Nack(false, false)
		return
	}

	log.Printf("✅ [WORKER] %d leads importados para %s em %q", n, msg.OwnerID, msg.Territory)
	d.Ack(false)
}
