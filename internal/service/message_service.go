package service

import (
	"context"
	"fmt"
	"log/slog"
	"nexus-gateway/internal/custom_err"
	"nexus-gateway/internal/iso20022"
	"nexus-gateway/internal/models"
	"nexus-gateway/internal/storage/postgres"
	"time"

	"github.com/google/uuid"
)

type Messages interface {
	Acknowledge(ctx context.Context, body []byte, mt models.MessageType, actor string) (*models.MessageAck, error)
}

type ackTemplate struct {
	status  string
	message string
}

var acknowledgements = map[models.MessageType]ackTemplate{
	models.MsgAcmt023: {"ACCEPTED", "Resolution request accepted, acmt.024 will be delivered to the callback endpoint"},
	models.MsgAcmt024: {"RECEIVED", "Resolution report received"},
	models.MsgPain001: {"ACCEPTED", "pain.001 accepted - forwarding to SAP corporate channel"},
	models.MsgCamt103: {"CREATED", "Liquidity reservation created at SAP"},
}

// MessageService прием сообщений без бизнес-обработки: только строгая
// структурная проверка и квитанция
type MessageService struct {
	guard *schemaGuard
	log   *slog.Logger
	now   func() time.Time
}

func NewMessageService(eventRepo postgres.EventRepository, validator iso20022.SchemaValidator, log *slog.Logger) *MessageService {
	return &MessageService{
		guard: &schemaGuard{validator: validator, events: eventRepo, log: log},
		log:   log,
		now:   time.Now,
	}
}

func (s *MessageService) Acknowledge(ctx context.Context, body []byte, mt models.MessageType, actor string) (*models.MessageAck, error) {
	const op = "service.Acknowledge"

	tmpl, ok := acknowledgements[mt]
	if !ok {
		return nil, fmt.Errorf("%s: message type %s: %w", op, mt, custom_err.ErrInvalidInput)
	}

	if _, err := s.guard.check(ctx, body, mt, actor); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ack := &models.MessageAck{
		RequestID:   uuid.NewString(),
		MessageType: mt,
		Status:      tmpl.status,
		Message:     tmpl.message,
		ProcessedAt: s.now().UTC(),
	}

	s.log.Info("сообщение принято",
		slog.String("message_type", string(mt)),
		slog.String("request_id", ack.RequestID),
		slog.String("uetr", iso20022.ExtractUETR(body)))

	return ack, nil
}
