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

// ReferenceRepository справочники стран, FXP, курсов и SAP
type ReferenceRepository interface {
	GetCountry(ctx context.Context, code string) (*models.Country, error)
	GetFXP(ctx context.Context, id string) (*models.FXP, error)
	ListRatesForPair(ctx context.Context, source, destination models.Currency) ([]models.ProvidedRate, error)
	ListPivotLegs(ctx context.Context, pivot models.Currency, currencies []models.Currency) ([]models.ProvidedRate, error)
	ListTiers(ctx context.Context, fxpID string, source, destination models.Currency) ([]models.Tier, error)
	GetPSPImprovement(ctx context.Context, fxpID, pspBIC string) (int, error)
	GetSAPAccount(ctx context.Context, fxpID string, currency models.Currency) (*models.SAPAccount, error)
	GetFeeFormula(ctx context.Context, currency models.Currency) (*models.FeeFormula, error)
}

type PgReferenceRepository struct {
	db DBTX
}

func NewReferenceRepository(db DBTX) ReferenceRepository {
	return &PgReferenceRepository{db: db}
}

func (r *PgReferenceRepository) GetCountry(ctx context.Context, code string) (*models.Country, error) {
	const op = "storage.GetCountry"

	var c models.Country
	err := r.db.QueryRow(ctx, storage.GetCountryQuery, code).Scan(&c.Code, &c.Currency, &c.MaxAmount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}

func (r *PgReferenceRepository) GetFXP(ctx context.Context, id string) (*models.FXP, error) {
	const op = "storage.GetFXP"

	var f models.FXP
	err := r.db.QueryRow(ctx, storage.GetFXPByIDQuery, id).Scan(&f.ID, &f.BIC, &f.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &f, nil
}

func (r *PgReferenceRepository) ListRatesForPair(ctx context.Context, source, destination models.Currency) ([]models.ProvidedRate, error) {
	const op = "storage.ListRatesForPair"

	rows, err := r.db.Query(ctx, storage.ListRatesForPairQuery, source, destination)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var rates []models.ProvidedRate
	for rows.Next() {
		rate := models.ProvidedRate{SourceCurrency: source, DestinationCurrency: destination}
		if err := rows.Scan(&rate.FXP.ID, &rate.FXP.BIC, &rate.FXP.Name, &rate.BaseRate, &rate.BaseSpreadBps); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rates, nil
}

func (r *PgReferenceRepository) ListPivotLegs(ctx context.Context, pivot models.Currency, currencies []models.Currency) ([]models.ProvidedRate, error) {
	const op = "storage.ListPivotLegs"

	codes := make([]string, 0, len(currencies))
	for _, c := range currencies {
		codes = append(codes, string(c))
	}

	rows, err := r.db.Query(ctx, storage.ListPivotLegsQuery, pivot, codes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var legs []models.ProvidedRate
	for rows.Next() {
		leg := models.ProvidedRate{SourceCurrency: pivot}
		if err := rows.Scan(&leg.FXP.ID, &leg.FXP.BIC, &leg.FXP.Name, &leg.DestinationCurrency, &leg.BaseRate, &leg.BaseSpreadBps); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		legs = append(legs, leg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return legs, nil
}

func (r *PgReferenceRepository) ListTiers(ctx context.Context, fxpID string, source, destination models.Currency) ([]models.Tier, error) {
	const op = "storage.ListTiers"

	rows, err := r.db.Query(ctx, storage.ListTiersQuery, fxpID, source, destination)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var tiers []models.Tier
	for rows.Next() {
		var (
			t         models.Tier
			maxAmount decimal.NullDecimal
		)
		if err := rows.Scan(&t.MinAmount, &maxAmount, &t.ImprovementBps); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if maxAmount.Valid {
			t.MaxAmount = &maxAmount.Decimal
		}
		tiers = append(tiers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tiers, nil
}

// GetPSPImprovement 0, если для PSP нет договоренности
func (r *PgReferenceRepository) GetPSPImprovement(ctx context.Context, fxpID, pspBIC string) (int, error) {
	const op = "storage.GetPSPImprovement"

	var bps int
	err := r.db.QueryRow(ctx, storage.GetPSPImprovementQuery, fxpID, pspBIC).Scan(&bps)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return bps, nil
}

func (r *PgReferenceRepository) GetSAPAccount(ctx context.Context, fxpID string, currency models.Currency) (*models.SAPAccount, error) {
	const op = "storage.GetSAPAccount"

	var a models.SAPAccount
	err := r.db.QueryRow(ctx, storage.GetSAPAccountQuery, fxpID, currency).Scan(
		&a.FXPID,
		&a.Currency,
		&a.SAPBIC,
		&a.SAPName,
		&a.AccountID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &a, nil
}

func (r *PgReferenceRepository) GetFeeFormula(ctx context.Context, currency models.Currency) (*models.FeeFormula, error) {
	const op = "storage.GetFeeFormula"

	var f models.FeeFormula
	err := r.db.QueryRow(ctx, storage.GetFeeFormulaQuery, currency).Scan(&f.Currency, &f.Fixed, &f.Percent, &f.Min, &f.Max)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &f, nil
}
