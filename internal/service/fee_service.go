package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"nexus-gateway/internal/custom_err"
	"nexus-gateway/internal/models"
	"nexus-gateway/internal/storage/postgres"

	"github.com/shopspring/decimal"
)

var (
	sourceFeeFixed   = decimal.RequireFromString("1.00")
	sourceFeePercent = decimal.RequireFromString("0.001")

	schemeFeeFixed   = decimal.RequireFromString("0.50")
	schemeFeePercent = decimal.RequireFromString("0.0005")
	schemeFeeMin     = decimal.RequireFromString("0.50")
	schemeFeeMax     = decimal.RequireFromString("10.00")

	hundred = decimal.NewFromInt(100)
)

// defaultFeeFormula формула PSP получателя для валют без записи в справочнике
func defaultFeeFormula(currency models.Currency) models.FeeFormula {
	return models.FeeFormula{
		Currency: currency,
		Fixed:    decimal.RequireFromString("1.00"),
		Percent:  decimal.RequireFromString("0.001"),
		Min:      decimal.RequireFromString("1.00"),
		Max:      decimal.RequireFromString("10.00"),
	}
}

// SourcePSPFee 1.00 + 0.1% от суммы в валюте отправителя
func SourcePSPFee(principal decimal.Decimal) decimal.Decimal {
	return sourceFeeFixed.Add(principal.Mul(sourceFeePercent))
}

// SchemeFee сбор схемы, всегда выставляется счетом в валюте отправителя
func SchemeFee(sourceAmount decimal.Decimal) decimal.Decimal {
	return models.Clamp(schemeFeeFixed.Add(sourceAmount.Mul(schemeFeePercent)), schemeFeeMin, schemeFeeMax)
}

type Fees interface {
	PreTransactionDisclosure(ctx context.Context, quoteID string, opts models.DisclosureOptions) (*models.Disclosure, error)
	FeesAndAmounts(ctx context.Context, quoteID string) (*models.FeeBreakdown, error)
}

type FeeService struct {
	quotes  Quotes
	refRepo postgres.ReferenceRepository
	log     *slog.Logger
}

func NewFeeService(quotes Quotes, refRepo postgres.ReferenceRepository, log *slog.Logger) *FeeService {
	return &FeeService{
		quotes:  quotes,
		refRepo: refRepo,
		log:     log,
	}
}

// lookupFeeFormula формула из справочника или значение по умолчанию
func lookupFeeFormula(ctx context.Context, refRepo postgres.ReferenceRepository, currency models.Currency) (models.FeeFormula, error) {
	f, err := refRepo.GetFeeFormula(ctx, currency)
	if err != nil {
		if errors.Is(err, custom_err.ErrNotFound) {
			return defaultFeeFormula(currency), nil
		}
		return models.FeeFormula{}, err
	}
	return *f, nil
}

func (s *FeeService) PreTransactionDisclosure(ctx context.Context, quoteID string, opts models.DisclosureOptions) (*models.Disclosure, error) {
	const op = "service.PreTransactionDisclosure"

	if opts.FeeType == "" {
		opts.FeeType = models.FeeTypeDeducted
	}
	if !opts.FeeType.IsValid() {
		return nil, fmt.Errorf("%s: fee type %q: %w", op, opts.FeeType, custom_err.ErrInvalidInput)
	}
	if opts.SourcePSPFee != nil && opts.SourcePSPFee.IsNegative() {
		return nil, fmt.Errorf("%s: source psp fee %s: %w", op, opts.SourcePSPFee, custom_err.ErrInvalidAmount)
	}

	q, err := s.quotes.GetQuote(ctx, quoteID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	formula, err := lookupFeeFormula(ctx, s.refRepo, q.DestinationCurrency)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	d := ComputeDisclosure(q, formula, opts)

	s.log.Debug("раскрытие комиссий",
		slog.String("op", op),
		slog.String("quote_id", q.ID),
		slog.String("amount_type", string(q.AmountType)),
		slog.String("fee_type", string(opts.FeeType)),
		slog.Bool("fee_override", opts.SourcePSPFee != nil),
		slog.String("debit", d.AmountToDebit.String()),
		slog.String("credit", d.AmountToCredit.String()))

	return d, nil
}

// ComputeDisclosure база комиссии PSP получателя зависит от направления котировки:
// DESTINATION - сумма зачисления, межбанковская сумма пересчитывается вверх;
// SOURCE - межбанковская сумма получателя, комиссия из нее вычитается.
// Тип комиссии в opts должен быть уже проверен.
func ComputeDisclosure(q *models.Quote, destFormula models.FeeFormula, opts models.DisclosureOptions) *models.Disclosure {
	var (
		sourceInterbank decimal.Decimal
		destInterbank   decimal.Decimal
		destFee         decimal.Decimal
		credit          decimal.Decimal
	)

	if q.AmountType == models.AmountTypeDestination {
		credit = q.DestInterbankAmount
		destFee = models.RoundAmount(destFormula.Apply(credit))
		destInterbank = credit.Add(destFee)
		sourceInterbank = models.RoundAmount(destInterbank.DivRound(q.FinalRate, 16))
	} else {
		sourceInterbank = q.SourceInterbankAmount
		destInterbank = q.DestInterbankAmount
		destFee = models.RoundAmount(destFormula.Apply(destInterbank))
		credit = destInterbank.Sub(destFee)
	}

	sourceFee := models.RoundAmount(SourcePSPFee(sourceInterbank))
	if opts.SourcePSPFee != nil {
		sourceFee = models.RoundAmount(*opts.SourcePSPFee)
	}
	debit := sourceInterbank
	if opts.FeeType == models.FeeTypeDeducted {
		debit = sourceInterbank.Add(sourceFee)
	}

	effective := q.FinalRate
	if debit.IsPositive() {
		effective = credit.DivRound(debit, 16)
	}

	return &models.Disclosure{
		QuoteID:                    q.ID,
		AmountType:                 q.AmountType,
		ExchangeRate:               q.FinalRate,
		QuoteValidUntil:            q.ExpiresAt,
		SourceInterbankAmount:      models.RoundAmount(sourceInterbank),
		DestinationInterbankAmount: models.RoundAmount(destInterbank),
		AmountToDebit:              models.RoundAmount(debit),
		AmountToDebitCurrency:      q.SourceCurrency,
		AmountToCredit:             models.RoundAmount(credit),
		AmountToCreditCurrency:     q.DestinationCurrency,
		SourcePSPFee:               sourceFee,
		SourcePSPFeeCurrency:       q.SourceCurrency,
		SourcePSPFeeType:           opts.FeeType,
		DestinationPSPFee:          destFee,
		DestinationPSPFeeCurrency:  q.DestinationCurrency,
		FXSpreadBps:                q.TierImprovementBps + q.PSPImprovementBps,
		NexusSchemeFee:             models.RoundAmount(SchemeFee(sourceInterbank)),
		NexusSchemeFeeCurrency:     q.SourceCurrency,
		EffectiveExchangeRate:      effective.RoundBank(models.EffectiveRatePlaces),
		DefinedExchangeRate:        q.FinalRate,
	}
}

func (s *FeeService) FeesAndAmounts(ctx context.Context, quoteID string) (*models.FeeBreakdown, error) {
	const op = "service.FeesAndAmounts"

	q, err := s.quotes.GetQuote(ctx, quoteID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	source := q.SourceInterbankAmount
	dest := q.DestInterbankAmount

	sourceFee := models.RoundAmount(SourcePSPFee(source))
	destFee := q.DestinationPSPFee
	fxSpread := models.RoundAmount(source.Mul(models.BpsToFraction(q.BaseSpreadBps)))

	return &models.FeeBreakdown{
		QuoteID:                  q.ID,
		SourceAmount:             source,
		SourceCurrency:           q.SourceCurrency,
		DestinationAmount:        dest,
		DestinationCurrency:      q.DestinationCurrency,
		ExchangeRate:             q.FinalRate,
		SourcePSPFee:             sourceFee,
		SourcePSPFeePercent:      percentOf(sourceFee, source),
		DestinationPSPFee:        destFee,
		DestinationPSPFeePercent: percentOf(destFee, dest),
		FXSpread:                 fxSpread,
		FXSpreadBps:              q.BaseSpreadBps,
		NexusSchemeFee:           models.RoundAmount(SchemeFee(source)),
		TotalFees:                sourceFee.Add(fxSpread),
		TotalFeesCurrency:        q.SourceCurrency,
	}, nil
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Mul(hundred).DivRound(whole, 4)
}
