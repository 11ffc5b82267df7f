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

// CreateTx второй PENDING отзыв по тому же UETR упирается в уникальный индекс
func (r *PgRecallRepository) CreateTx(ctx context.Context, tx pgx.Tx, rc *models.RecallCase) error {
	const op = "storage.CreateRecall"

	var amount decimal.NullDecimal
	if rc.OriginalAmount != nil {
		amount = decimal.NewNullDecimal(*rc.OriginalAmount)
	}

	_, err := tx.Exec(ctx, storage.CreateRecallQuery,
		rc.RecallID, rc.OriginalUETR, rc.ReasonCode, rc.ReasonText, rc.RecallType,
		amount, rc.RequestedBy, rc.Status, rc.SubmittedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: pending recall exists for %s: %w", op, rc.OriginalUETR, custom_err.ErrStateConflict)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *PgRecallRepository) GetLatestByUETRForUpdateTx(ctx context.Context, tx pgx.Tx, uetr string) (*models.RecallCase, error) {
	const op = "storage.GetLatestRecallForUpdate"

	recall, err := scanRecall(tx.QueryRow(ctx, storage.GetLatestRecallByUETRForUpdateQuery, uetr))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return recall, nil
}

// UpdateStatusTx ответ на отзыв: прямой (respond) или через camt.029
func (r *PgRecallRepository) UpdateStatusTx(ctx context.Context, tx pgx.Tx, rc *models.RecallCase, viaResolution bool) error {
	const op = "storage.UpdateRecallStatus"

	at := rc.RespondedAt
	if viaResolution {
		at = rc.ResolutionAt
	}
	if at == nil {
		return fmt.Errorf("%s: response timestamp missing: %w", op, custom_err.ErrInvalidInput)
	}

	res, err := tx.Exec(ctx, storage.UpdateRecallStatusQuery,
		rc.RecallID, rc.Status, rc.RespondedBy, rc.ResponseReason, *at, viaResolution,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("%s: recall %s is closed: %w", op, rc.RecallID, custom_err.ErrStateConflict)
	}
	return nil
}

func (r *PgRecallRepository) CompleteTx(ctx context.Context, tx pgx.Tx, rc *models.RecallCase) error {
	const op = "storage.CompleteRecall"

	res, err := tx.Exec(ctx, storage.CompleteRecallQuery, rc.RecallID, rc.CompletedAt, rc.ReturnUETR)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("%s: recall %s not accepted: %w", op, rc.RecallID, custom_err.ErrStateConflict)
	}
	return nil
}

func (r *PgRecallRepository) CreateReturnTx(ctx context.Context, tx pgx.Tx, ret *models.ReturnPayment) error {
	const op = "storage.CreateReturn"

	_, err := tx.Exec(ctx, storage.CreateReturnQuery,
		ret.ReturnUETR, ret.OriginalUETR, ret.ReturnReasonCode, ret.ReturnReasonText,
		ret.ReturnAmount, ret.ReturnCurrency, ret.InstructionPriority, ret.RecallID, ret.ReceivedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: return %s already recorded: %w", op, ret.ReturnUETR, custom_err.ErrDuplicateRequest)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
