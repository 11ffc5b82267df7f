package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"nexus-gateway/internal/models"
	"nexus-gateway/internal/storage"
	"time"

	"github.com/jackc/pgx/v5"
)

// EventRepository журнал PaymentEvent, он же outbox для kafka
type EventRepository interface {
	AppendTx(ctx context.Context, tx pgx.Tx, event *models.PaymentEvent) error
	FetchUnpublishedTx(ctx context.Context, tx pgx.Tx, limit int) ([]models.PaymentEvent, error)
	MarkPublishedTx(ctx context.Context, tx pgx.Tx, id int64, at time.Time) error

	Append(ctx context.Context, event *models.PaymentEvent) error
	ListByUETR(ctx context.Context, uetr string) ([]models.PaymentEvent, error)
}

type PgEventRepository struct {
	db DBTX
}

func NewEventRepository(db DBTX) EventRepository {
	return &PgEventRepository{db: db}
}

func (r *PgEventRepository) Append(ctx context.Context, event *models.PaymentEvent) error {
	return r.execAppend(ctx, r.db, event)
}

func (r *PgEventRepository) AppendTx(ctx context.Context, tx pgx.Tx, event *models.PaymentEvent) error {
	return r.execAppend(ctx, tx, event)
}

func (r *PgEventRepository) execAppend(ctx context.Context, q pgxQueryer, e *models.PaymentEvent) error {
	const op = "storage.AppendEvent"

	data := e.Data
	if len(data) == 0 {
		data = json.RawMessage(`{}`)
	}
	messages, err := json.Marshal(e.Messages)
	if err != nil {
		return fmt.Errorf("%s: marshal messages: %w", op, err)
	}
	if e.Messages == nil {
		messages = []byte(`{}`)
	}

	err = q.QueryRow(ctx, storage.InsertEventQuery,
		e.EventID, e.UETR, e.Type, e.Actor, []byte(data), messages, e.OccurredAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *PgEventRepository) ListByUETR(ctx context.Context, uetr string) ([]models.PaymentEvent, error) {
	const op = "storage.ListEventsByUETR"

	rows, err := r.db.Query(ctx, storage.ListEventsByUETRQuery, uetr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	events, err := scanEvents(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return events, nil
}

func (r *PgEventRepository) FetchUnpublishedTx(ctx context.Context, tx pgx.Tx, limit int) ([]models.PaymentEvent, error) {
	const op = "storage.FetchUnpublishedEvents"

	rows, err := tx.Query(ctx, storage.FetchUnpublishedEventsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	events, err := scanEvents(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return events, nil
}

func (r *PgEventRepository) MarkPublishedTx(ctx context.Context, tx pgx.Tx, id int64, at time.Time) error {
	const op = "storage.MarkEventPublished"

	if _, err := tx.Exec(ctx, storage.MarkEventPublishedQuery, at, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func scanEvents(rows pgx.Rows) ([]models.PaymentEvent, error) {
	var events []models.PaymentEvent
	for rows.Next() {
		var (
			e        models.PaymentEvent
			data     []byte
			messages []byte
		)
		if err := rows.Scan(&e.ID, &e.EventID, &e.UETR, &e.Type, &e.Actor, &data, &messages, &e.OccurredAt, &e.PublishedAt); err != nil {
			return nil, err
		}
		e.Data = json.RawMessage(data)
		if len(messages) > 0 {
			if err := json.Unmarshal(messages, &e.Messages); err != nil {
				return nil, fmt.Errorf("unmarshal messages: %w", err)
			}
			if len(e.Messages) == 0 {
				e.Messages = nil
			}
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
