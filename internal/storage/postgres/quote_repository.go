package postgres

import (
	"context"
	"errors"
	"fmt"
	"nexus-gateway/internal/custom_err"
	"nexus-gateway/internal/models"
	"nexus-gateway/internal/storage"

	"github.com/jackc/pgx/v5"
)

type QuoteRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, quote *models.Quote) error
	ConsumeTx(ctx context.Context, tx pgx.Tx, quoteID string) error

	GetByID(ctx context.Context, id string) (*models.Quote, error)
}

type PgQuoteRepository struct {
	db DBTX
}

func NewQuoteRepository(db DBTX) QuoteRepository {
	return &PgQuoteRepository{db: db}
}

func (r *PgQuoteRepository) CreateTx(ctx context.Context, tx pgx.Tx, q *models.Quote) error {
	const op = "storage.CreateQuote"

	_, err := tx.Exec(ctx, storage.CreateQuoteQuery,
		q.ID, q.FXPID, q.RequestingPSPBIC, q.SourceCountry, q.SourceCurrency,
		q.DestinationCountry, q.DestinationCurrency, q.RateKind, q.BaseRate, q.BaseSpreadBps,
		q.TierImprovementBps, q.PSPImprovementBps, q.FinalRate, q.RequestedAmount, q.AmountType,
		q.SourceInterbankAmount, q.DestInterbankAmount, q.CreditorAmount,
		q.DestinationPSPFee, q.CappedToMaxAmount, q.Status, q.CreatedAt, q.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ConsumeTx не считается ошибкой, если котировка уже использована
func (r *PgQuoteRepository) ConsumeTx(ctx context.Context, tx pgx.Tx, quoteID string) error {
	const op = "storage.ConsumeQuote"

	if _, err := tx.Exec(ctx, storage.ConsumeQuoteQuery, quoteID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *PgQuoteRepository) GetByID(ctx context.Context, id string) (*models.Quote, error) {
	const op = "storage.GetQuoteByID"

	var q models.Quote
	err := r.db.QueryRow(ctx, storage.GetQuoteByIDQuery, id).Scan(
		&q.ID,
		&q.FXPID,
		&q.FXPBIC,
		&q.FXPName,
		&q.RequestingPSPBIC,
		&q.SourceCountry,
		&q.SourceCurrency,
		&q.DestinationCountry,
		&q.DestinationCurrency,
		&q.RateKind,
		&q.BaseRate,
		&q.BaseSpreadBps,
		&q.TierImprovementBps,
		&q.PSPImprovementBps,
		&q.FinalRate,
		&q.RequestedAmount,
		&q.AmountType,
		&q.SourceInterbankAmount,
		&q.DestInterbankAmount,
		&q.CreditorAmount,
		&q.DestinationPSPFee,
		&q.CappedToMaxAmount,
		&q.Status,
		&q.CreatedAt,
		&q.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &q, nil
}
