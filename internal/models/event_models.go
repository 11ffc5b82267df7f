package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventPaymentAccepted         EventType = "PAYMENT_ACCEPTED"
	EventPaymentRejected         EventType = "PAYMENT_REJECTED"
	EventPaymentCompleted        EventType = "PAYMENT_COMPLETED"
	EventPaymentReturned         EventType = "PAYMENT_RETURNED"
	EventStatusReportReceived    EventType = "STATUS_REPORT_RECEIVED"
	EventSchemaValidationWarning EventType = "SCHEMA_VALIDATION_WARNING"
	EventSchemaValidationFailed  EventType = "SCHEMA_VALIDATION_FAILED"
	EventTransformFailed         EventType = "TRANSFORM_FAILED"
	EventReturnLinked            EventType = "RETURN_LINKED"
	EventRecallRequested         EventType = "RECALL_REQUESTED"
	EventRecallResponded         EventType = "RECALL_RESPONDED"
	EventRecallResolution        EventType = "RECALL_RESOLUTION_RECEIVED"
	EventReturnReceived          EventType = "RETURN_RECEIVED"
	EventStatusQueried           EventType = "STATUS_QUERIED"
	EventCallbackDelivered       EventType = "CALLBACK_DELIVERED"
	EventCallbackFailed          EventType = "CALLBACK_DELIVERY_FAILED"
)

// ActorNexus действующая сторона по умолчанию
const ActorNexus = "NEXUS"

// MessageType тип сообщения ISO 20022
type MessageType string

const (
	MsgPacs008 MessageType = "pacs.008"
	MsgPacs002 MessageType = "pacs.002"
	MsgPacs004 MessageType = "pacs.004"
	MsgPacs028 MessageType = "pacs.028"
	MsgCamt054 MessageType = "camt.054"
	MsgCamt056 MessageType = "camt.056"
	MsgCamt029 MessageType = "camt.029"
	MsgCamt103 MessageType = "camt.103"
	MsgPain001 MessageType = "pain.001"
	MsgAcmt023 MessageType = "acmt.023"
	MsgAcmt024 MessageType = "acmt.024"
)

// StrictStructure типы, для которых структурная ошибка фатальна
func (m MessageType) StrictStructure() bool {
	switch m {
	case MsgAcmt023, MsgAcmt024, MsgPain001, MsgCamt103, MsgPacs004, MsgPacs028, MsgCamt056, MsgCamt029:
		return true
	}
	return false
}

// PaymentEvent запись аудита, не изменяется после вставки
type PaymentEvent struct {
	ID          int64                  `json:"id"`
	EventID     string                 `json:"eventId"`
	UETR        string                 `json:"uetr"`
	Type        EventType              `json:"eventType"`
	Actor       string                 `json:"actor"`
	Data        json.RawMessage        `json:"data,omitempty"`
	Messages    map[MessageType]string `json:"messages,omitempty"`
	OccurredAt  time.Time              `json:"occurredAt"`
	PublishedAt *time.Time             `json:"-"`
}

// NewPaymentEvent событие с новым EventID; data сериализуется в JSON
func NewPaymentEvent(uetr string, t EventType, actor string, data map[string]any) *PaymentEvent {
	if actor == "" {
		actor = ActorNexus
	}
	raw, err := json.Marshal(data)
	if err != nil || data == nil {
		raw = []byte(`{}`)
	}
	return &PaymentEvent{
		EventID:    uuid.NewString(),
		UETR:       uetr,
		Type:       t,
		Actor:      actor,
		Data:       raw,
		OccurredAt: time.Now().UTC(),
	}
}

// WithMessage добавляет тело сообщения в слот его типа
func (e *PaymentEvent) WithMessage(t MessageType, body string) *PaymentEvent {
	if body == "" {
		return e
	}
	if e.Messages == nil {
		e.Messages = make(map[MessageType]string)
	}
	e.Messages[t] = body
	return e
}

type EventsResponse struct {
	UETR   string         `json:"uetr"`
	Count  int            `json:"count"`
	Events []PaymentEvent `json:"events"`
}
