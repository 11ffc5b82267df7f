package postgres

import (
	"context"
	"errors"
	"fmt"
	"nexus-gateway/internal/custom_err"
	"nexus-gateway/internal/models"
	"nexus-gateway/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type RecallRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, recall *models.RecallCase) error
	GetLatestByUETRForUpdateTx(ctx context.Context, tx pgx.Tx, uetr string) (*models.RecallCase, error)
	UpdateStatusTx(ctx context.Context, tx pgx.Tx, recall *models.RecallCase, viaResolution bool) error
	CompleteTx(ctx context.Context, tx pgx.Tx, recall *models.RecallCase) error
	CreateReturnTx(ctx context.Context, tx pgx.Tx, ret *models.ReturnPayment) error

	GetLatestByUETR(ctx context.Context, uetr string) (*models.RecallCase, error)
	List(ctx context.Context, status models.RecallStatus, limit int) ([]models.RecallCase, error)
	ListReturns(ctx context.Context, limit int) ([]models.ReturnPayment, error)
}

type PgRecallRepository struct {
	db DBTX
}

func NewRecallRepository(db DBTX) RecallRepository {
	return &PgRecallRepository{db: db}
}

func (r *PgRecallRepository) GetLatestByUETR(ctx context.Context, uetr string) (*models.RecallCase, error) {
	const op = "storage.GetLatestRecallByUETR"

	recall, err := scanRecall(r.db.QueryRow(ctx, storage.GetLatestRecallByUETRQuery, uetr))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return recall, nil
}

func (r *PgRecallRepository) List(ctx context.Context, status models.RecallStatus, limit int) ([]models.RecallCase, error) {
	const op = "storage.ListRecalls"

	rows, err := r.db.Query(ctx, storage.ListRecallsQuery, string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	recalls := make([]models.RecallCase, 0)
	for rows.Next() {
		recall, err := scanRecall(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		recalls = append(recalls, *recall)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return recalls, nil
}

func (r *PgRecallRepository) ListReturns(ctx context.Context, limit int) ([]models.ReturnPayment, error) {
	const op = "storage.ListReturns"

	rows, err := r.db.Query(ctx, storage.ListReturnsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	returns := make([]models.ReturnPayment, 0)
	for rows.Next() {
		var ret models.ReturnPayment
		if err := rows.Scan(
			&ret.ReturnUETR,
			&ret.OriginalUETR,
			&ret.ReturnReasonCode,
			&ret.ReturnReasonText,
			&ret.ReturnAmount,
			&ret.ReturnCurrency,
			&ret.InstructionPriority,
			&ret.RecallID,
			&ret.ReceivedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		returns = append(returns, ret)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return returns, nil
}

func scanRecall(row pgx.Row) (*models.RecallCase, error) {
	var (
		rc     models.RecallCase
		amount decimal.NullDecimal
	)
	err := row.Scan(
		&rc.RecallID,
		&rc.OriginalUETR,
		&rc.ReasonCode,
		&rc.ReasonText,
		&rc.RecallType,
		&amount,
		&rc.RequestedBy,
		&rc.RespondedBy,
		&rc.Status,
		&rc.ResponseReason,
		&rc.SubmittedAt,
		&rc.RespondedAt,
		&rc.ResolutionAt,
		&rc.CompletedAt,
		&rc.ReturnUETR,
	)
	if err != nil {
		return nil, err
	}
	if amount.Valid {
		rc.OriginalAmount = &amount.Decimal
	}
	return &rc, nil
}
