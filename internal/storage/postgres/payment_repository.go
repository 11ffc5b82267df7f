package postgres

import (
	"context"
	"errors"
	"fmt"
	"nexus-gateway/internal/custom_err"
	"nexus-gateway/internal/models"
	"nexus-gateway/internal/storage"
	"time"

	"github.com/jackc/pgx/v5"
)

type PaymentRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, payment *models.Payment) error
	TransitionTx(ctx context.Context, tx pgx.Tx, uetr string, from, to models.PaymentStatus, at time.Time) error
	GetActiveStatusForUpdateTx(ctx context.Context, tx pgx.Tx, uetr string) (models.PaymentStatus, error)

	ActiveExists(ctx context.Context, uetr string) (bool, error)
	GetByUETR(ctx context.Context, uetr string) (*models.Payment, error)
}

type PgPaymentRepository struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) PaymentRepository {
	return &PgPaymentRepository{db: db}
}

func (r *PgPaymentRepository) ActiveExists(ctx context.Context, uetr string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, storage.ActivePaymentExistsQuery, uetr).Scan(&exists)
	return exists, err
}

// GetByUETR отдает активную запись, если она есть, иначе последнюю отклоненную
func (r *PgPaymentRepository) GetByUETR(ctx context.Context, uetr string) (*models.Payment, error) {
	const op = "storage.GetPaymentByUETR"

	var p models.Payment
	err := r.db.QueryRow(ctx, storage.GetPaymentByUETRQuery, uetr).Scan(
		&p.ID,
		&p.UETR,
		&p.MessageID,
		&p.EndToEndID,
		&p.QuoteID,
		&p.SourcePSPBIC,
		&p.DestinationPSPBIC,
		&p.DebtorName,
		&p.DebtorAccount,
		&p.CreditorName,
		&p.CreditorAccount,
		&p.SourceAmount,
		&p.SourceCurrency,
		&p.DestinationAmount,
		&p.DestinationCurrency,
		&p.ExchangeRate,
		&p.Status,
		&p.StatusReasonCode,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}
