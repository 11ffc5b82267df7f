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

// CreateTx вставка идет через ON CONFLICT DO NOTHING по частичному индексу,
// поэтому пустой RETURNING означает активный платеж с тем же UETR.
func (r *PgPaymentRepository) CreateTx(ctx context.Context, tx pgx.Tx, p *models.Payment) error {
	const op = "storage.CreatePayment"

	err := tx.QueryRow(ctx, storage.CreatePaymentQuery,
		p.UETR, p.MessageID, p.EndToEndID, p.QuoteID, p.SourcePSPBIC, p.DestinationPSPBIC,
		p.DebtorName, p.DebtorAccount, p.CreditorName, p.CreditorAccount,
		p.SourceAmount, p.SourceCurrency, p.DestinationAmount, p.DestinationCurrency,
		p.ExchangeRate, p.Status, p.StatusReasonCode, p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isUniqueViolation(err) {
			return custom_err.ErrDuplicatePayment
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	p.UpdatedAt = p.CreatedAt
	return nil
}

func (r *PgPaymentRepository) TransitionTx(ctx context.Context, tx pgx.Tx, uetr string, from, to models.PaymentStatus, at time.Time) error {
	const op = "storage.TransitionPayment"

	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%s: %s -> %s: %w", op, from, to, custom_err.ErrTransitionDenied)
	}

	res, err := tx.Exec(ctx, storage.TransitionPaymentQuery, uetr, to, from, at)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("%s: %s not in %s: %w", op, uetr, from, custom_err.ErrTransitionDenied)
	}
	return nil
}

// GetActiveStatusForUpdateTx статус неотклоненного платежа с блокировкой строки до конца транзакции
func (r *PgPaymentRepository) GetActiveStatusForUpdateTx(ctx context.Context, tx pgx.Tx, uetr string) (models.PaymentStatus, error) {
	const op = "storage.GetActivePaymentStatusForUpdate"

	var status models.PaymentStatus
	if err := tx.QueryRow(ctx, storage.GetActivePaymentStatusForUpdateQuery, uetr).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", custom_err.ErrNotFound
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return status, nil
}
