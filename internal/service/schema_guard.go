package service

import (
	"context"
	"log/slog"
	"nexus-gateway/internal/custom_err"
	"nexus-gateway/internal/iso20022"
	"nexus-gateway/internal/models"
	"nexus-gateway/internal/storage/postgres"
	"strings"

	"github.com/google/uuid"
)

// schemaGuard структурная проверка входящего XML до бизнес-правил
type schemaGuard struct {
	validator iso20022.SchemaValidator
	events    postgres.EventRepository
	log       *slog.Logger
}

// check для строгих типов структурная ошибка фатальна, для остальных
// возвращаются предупреждения и пишется SCHEMA_VALIDATION_WARNING
func (g *schemaGuard) check(ctx context.Context, body []byte, mt models.MessageType, actor string) ([]string, error) {
	if g.validator == nil {
		return nil, nil
	}

	res := g.validator.Validate(body, mt)
	if res.Valid {
		return nil, nil
	}

	uetr := iso20022.ExtractUETR(body)
	data := map[string]any{
		"messageType": mt,
		"errors":      res.Errors,
	}

	if mt.StrictStructure() {
		if uetr == "" {
			uetr = unknownUETR()
		}
		g.log.Warn("структурная проверка не пройдена",
			slog.String("message_type", string(mt)),
			slog.String("uetr", uetr),
			slog.String("errors", strings.Join(res.Errors, "; ")))
		g.record(ctx, uetr, models.NewPaymentEvent(uetr, models.EventSchemaValidationFailed, actor, data).
			WithMessage(mt, string(body)))
		return nil, &custom_err.StructuralError{MessageType: mt, Errors: res.Errors}
	}

	g.log.Info("schema warnings, processing continues",
		slog.String("message_type", string(mt)),
		slog.String("uetr", uetr),
		slog.Int("count", len(res.Errors)))
	g.record(ctx, uetr, models.NewPaymentEvent(uetr, models.EventSchemaValidationWarning, actor, data))

	warnings := make([]string, 0, len(res.Errors))
	for _, e := range res.Errors {
		warnings = append(warnings, "schema: "+e)
	}
	return warnings, nil
}

// record без UETR событие привязать не к чему, остается только лог
func (g *schemaGuard) record(ctx context.Context, uetr string, event *models.PaymentEvent) {
	if uetr == "" || g.events == nil {
		return
	}
	if err := g.events.Append(ctx, event); err != nil {
		g.log.Error("failed to record schema event",
			slog.String("uetr", uetr),
			slog.String("error", err.Error()))
	}
}

// unknownUETR ключ журнала для отвергнутого сообщения без UETR
func unknownUETR() string {
	return "UNKNOWN-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// newMessageID идентификатор исходящего сообщения
func newMessageID(prefix string) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return prefix + "-" + id[:20]
}
