package queue_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-prospect/internal/entity"
	"github.com/xavierca1/ligue-prospect/internal/infra/memory"
	"github.com/xavierca1/ligue-prospect/internal/infra/queue"
	"github.com/xavierca1/ligue-prospect/internal/usecase"
)

// fakeAcknowledger registra o que o worker fez com a entrega.
type fakeAcknowledger struct {
	acked, nacked, requeued bool
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error { f.acked = true; return nil }
func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.nacked, f.requeued = true, requeue
	return nil
}
func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error { f.nacked = true; return nil }

type MockImporter struct {
	mock.Mock
}

func (m *MockImporter) Execute(ctx context.Context, p entity.Principal, input usecase.ImportLeadsInput) (int, error) {
	args := m.Called(ctx, p, input)
	return args.Int(0), args.Error(1)
}

func delivery(t *testing.T, ack amqp.Acknowledger, v any) amqp.Delivery {
	t.Helper()
	var body []byte
	switch b := v.(type) {
	case string:
		body = []byte(b)
	default:
		var err error
		body, err = json.Marshal(v)
		require.NoError(t, err)
	}
	return amqp.Delivery{Acknowledger: ack, Body: body}
}

func TestWorkerImportsAndAcks(t *testing.T) {
	repo := memory.NewLeadRepository()
	w := queue.NewWorker(nil, usecase.NewImportLeadsUseCase(repo, nil))
	company := "Acme Co"

	ack := &fakeAcknowledger{}
	w.HandleDelivery(context.Background(), delivery(t, ack, queue.ImportBatchMessage{
		OwnerID:   "alice",
		Territory: "SP",
		Leads:     []entity.LeadInput{{CompanyName: &company}},
	}))

	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
	lead, err := repo.FindByID(context.Background(), "alice", "acmecosp")
	require.NoError(t, err)
	assert.Equal(t, entity.SourceScraper, lead.Source)
}

func TestWorkerNacksMalformedJSON(t *testing.T) {
	importer := new(MockImporter)
	w := queue.NewWorker(nil, importer)

	ack := &fakeAcknowledger{}
	w.HandleDelivery(context.Background(), delivery(t, ack, "{not json"))

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeued)
	importer.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything, mock.Anything)
}

func TestWorkerNacksFailedImport(t *testing.T) {
	importer := new(MockImporter)
	importer.On("Execute", mock.Anything, entity.Principal{ID: ""}, mock.MatchedBy(func(in usecase.ImportLeadsInput) bool {
		return in.Channel == usecase.ChannelQueue
	})).Return(0, usecase.ErrUnauthenticated)
	w := queue.NewWorker(nil, importer)

	ack := &fakeAcknowledger{}
	w.HandleDelivery(context.Background(), delivery(t, ack, queue.ImportBatchMessage{Territory: "SP"}))

	assert.True(t, ack.nacked)
	assert.False(t, ack.acked)
	importer.AssertExpectations(t)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(ctx, exchange, key, mandatory, immediate, msg).Error(0)
}

func TestProducerPublishesPersistentJSON(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("PublishWithContext", mock.Anything, queue.ExchangeName, queue.RoutingKey, false, false,
		mock.MatchedBy(func(msg amqp.Publishing) bool {
			var decoded queue.ImportBatchMessage
			return msg.DeliveryMode == amqp.Persistent &&
				msg.ContentType == "application/json" &&
				json.Unmarshal(msg.Body, &decoded) == nil &&
				decoded.OwnerID == "alice"
		})).Return(nil).Once()
	pub.On("PublishWithContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("channel closed")).Once()

	producer := &queue.RabbitMQProducer{Ch: pub}
	require.NoError(t, producer.PublishImportBatch(context.Background(), queue.ImportBatchMessage{OwnerID: "alice", Territory: "SP"}))
	assert.Error(t, producer.PublishImportBatch(context.Background(), queue.ImportBatchMessage{OwnerID: "bob"}))
	pub.AssertExpectations(t)
}
