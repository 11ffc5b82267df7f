package kafka

import (
	"context"
	"errors"
	"log/slog"
	"nexus-gateway/internal/models"
	"os"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testEvent() models.PaymentEvent {
	return models.PaymentEvent{
		EventID:    "2d4f7c38-6a51-4e2b-9c0e-1f4e5d6c7b8a",
		UETR:       "91398cbd-0838-453f-b2c7-536e829f2b8e",
		Type:       models.EventPaymentAccepted,
		Actor:      models.ActorNexus,
		OccurredAt: time.Now(),
	}
}

func TestKafkaProducer_PublishPaymentEvent(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	mock := mocks.NewSyncProducer(t, cfg)

	mock.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "91398cbd-0838-453f-b2c7-536e829f2b8e" {
			return errors.New("message must be keyed by uetr")
		}
		return nil
	})

	p := NewKafkaProducerWithClient(mock, "payment-events", testLogger())

	err := p.PublishPaymentEvent(context.Background(), testEvent())
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestKafkaProducer_PublishPaymentEvent_Error(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	mock := mocks.NewSyncProducer(t, cfg)
	mock.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewKafkaProducerWithClient(mock, "payment-events", testLogger())

	err := p.PublishPaymentEvent(context.Background(), testEvent())
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func TestNoOpProducer(t *testing.T) {
	p := NewNoOpProducer(testLogger())

	assert.NoError(t, p.PublishPaymentEvent(context.Background(), testEvent()))
	assert.NoError(t, p.Close())
}
