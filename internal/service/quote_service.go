package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"nexus-gateway/internal/config"
	"nexus-gateway/internal/custom_err"
	"nexus-gateway/internal/metrics"
	"nexus-gateway/internal/models"
	"nexus-gateway/internal/storage/postgres"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type Quotes interface {
	GetQuotes(ctx context.Context, req models.QuoteRequest) ([]models.Quote, error)
	GetQuote(ctx context.Context, id string) (*models.Quote, error)
	GetIntermediaryAgents(ctx context.Context, id string) (*models.IntermediaryAgentsResponse, error)
}

type QuoteService struct {
	refRepo   postgres.ReferenceRepository
	quoteRepo postgres.QuoteRepository
	txManager TxManager
	cfg       config.QuoteConfig
	metrics   *metrics.Metrics
	log       *slog.Logger
	now       func() time.Time
}

func NewQuoteService(
	refRepo postgres.ReferenceRepository,
	quoteRepo postgres.QuoteRepository,
	txManager TxManager,
	cfg config.QuoteConfig,
	m *metrics.Metrics,
	log *slog.Logger,
) *QuoteService {
	return &QuoteService{
		refRepo:   refRepo,
		quoteRepo: quoteRepo,
		txManager: txManager,
		cfg:       cfg,
		metrics:   m,
		log:       log,
		now:       time.Now,
	}
}

func (s *QuoteService) GetQuotes(ctx context.Context, req models.QuoteRequest) ([]models.Quote, error) {
	const op = "service.GetQuotes"

	if req.SourceCountry == "" || req.DestinationCountry == "" {
		return nil, fmt.Errorf("%s: countries are required: %w", op, custom_err.ErrInvalidInput)
	}
	if !req.Amount.IsPositive() {
		return nil, custom_err.ErrInvalidAmount
	}
	if !req.AmountType.IsValid() {
		return nil, fmt.Errorf("%s: amount type %q: %w", op, req.AmountType, custom_err.ErrInvalidInput)
	}

	src, err := s.country(ctx, req.SourceCountry)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	dst, err := s.country(ctx, req.DestinationCountry)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if src.Currency == dst.Currency {
		return nil, custom_err.ErrSameCurrency
	}

	rates, err := s.resolveRates(ctx, src.Currency, dst.Currency)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("%s: %s/%s: %w", op, src.Currency, dst.Currency, custom_err.ErrNoRateAvailable)
	}

	destFormula, err := lookupFeeFormula(ctx, s.refRepo, dst.Currency)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now().UTC()
	quotes := make([]models.Quote, 0, len(rates))
	for _, rate := range rates {
		q, err := s.price(ctx, rate, req, src, dst, destFormula, now)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		quotes = append(quotes, *q)
	}

	err = s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		for i := range quotes {
			if err := s.quoteRepo.CreateTx(ctx, tx, &quotes[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error("failed to store quotes", slog.String("op", op), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	corridor := string(src.Currency) + "-" + string(dst.Currency)
	for _, q := range quotes {
		s.metrics.QuoteIssued(corridor, string(q.RateKind))
	}

	s.log.Info("котировки выданы",
		slog.String("corridor", corridor),
		slog.String("amount", req.Amount.String()),
		slog.String("amount_type", string(req.AmountType)),
		slog.Int("count", len(quotes)))

	return quotes, nil
}

func (s *QuoteService) country(ctx context.Context, code string) (*models.Country, error) {
	c, err := s.refRepo.GetCountry(ctx, strings.ToUpper(code))
	if err != nil {
		if errors.Is(err, custom_err.ErrNotFound) {
			return nil, fmt.Errorf("unknown country %s: %w", code, custom_err.ErrInvalidInput)
		}
		return nil, err
	}
	return c, nil
}

// resolveRates прямые курсы FXP; кросс-курс через pivot только если включен
func (s *QuoteService) resolveRates(ctx context.Context, source, destination models.Currency) ([]models.Rate, error) {
	provided, err := s.refRepo.ListRatesForPair(ctx, source, destination)
	if err != nil {
		return nil, err
	}

	rates := make([]models.Rate, 0, len(provided))
	for _, r := range provided {
		rates = append(rates, r)
	}
	if len(rates) > 0 || !s.cfg.SyntheticRates {
		return rates, nil
	}

	pivot := models.Currency(s.cfg.PivotCurrency)
	legs, err := s.refRepo.ListPivotLegs(ctx, pivot, []models.Currency{source, destination})
	if err != nil {
		return nil, err
	}

	type pair struct {
		fxp      models.FXP
		src, dst *models.ProvidedRate
	}
	byFXP := make(map[string]*pair)
	var order []string
	for i := range legs {
		leg := &legs[i]
		p, ok := byFXP[leg.FXP.ID]
		if !ok {
			p = &pair{fxp: leg.FXP}
			byFXP[leg.FXP.ID] = p
			order = append(order, leg.FXP.ID)
		}
		switch leg.DestinationCurrency {
		case source:
			p.src = leg
		case destination:
			p.dst = leg
		}
	}

	for _, id := range order {
		p := byFXP[id]
		srcLeg, ok := pivotLeg(p.src, pivot, source)
		if !ok {
			continue
		}
		dstLeg, ok := pivotLeg(p.dst, pivot, destination)
		if !ok {
			continue
		}
		rates = append(rates, models.SyntheticRate{
			FXP:                 p.fxp,
			SourceCurrency:      source,
			DestinationCurrency: destination,
			Pivot:               pivot,
			PivotToSource:       srcLeg.BaseRate,
			PivotToDestination:  dstLeg.BaseRate,
			SourceLegSpreadBps:  srcLeg.BaseSpreadBps,
			DestLegSpreadBps:    dstLeg.BaseSpreadBps,
		})
	}
	return rates, nil
}

// pivotLeg плечо pivot -> currency; для самой pivot валюты курс 1
func pivotLeg(leg *models.ProvidedRate, pivot, currency models.Currency) (models.ProvidedRate, bool) {
	if currency == pivot {
		return models.ProvidedRate{SourceCurrency: pivot, DestinationCurrency: pivot, BaseRate: decimal.NewFromInt(1)}, true
	}
	if leg == nil || !leg.BaseRate.IsPositive() {
		return models.ProvidedRate{}, false
	}
	return *leg, true
}

func (s *QuoteService) price(
	ctx context.Context,
	rate models.Rate,
	req models.QuoteRequest,
	src, dst *models.Country,
	destFormula models.FeeFormula,
	now time.Time,
) (*models.Quote, error) {
	fxp := rate.Provider()

	tiers, err := s.refRepo.ListTiers(ctx, fxp.ID, src.Currency, dst.Currency)
	if err != nil {
		return nil, err
	}
	tierBps := selectTier(tiers, req.Amount)

	pspBps := 0
	if req.RequestingPSPBIC != "" {
		pspBps, err = s.refRepo.GetPSPImprovement(ctx, fxp.ID, strings.ToUpper(req.RequestingPSPBIC))
		if err != nil {
			return nil, err
		}
	}

	q := &models.Quote{
		ID:                  uuid.NewString(),
		FXPID:               fxp.ID,
		FXPBIC:              fxp.BIC,
		FXPName:             fxp.Name,
		RequestingPSPBIC:    strings.ToUpper(req.RequestingPSPBIC),
		SourceCountry:       src.Code,
		SourceCurrency:      src.Currency,
		DestinationCountry:  dst.Code,
		DestinationCurrency: dst.Currency,
		RateKind:            rate.Kind(),
		BaseRate:            rate.Base(),
		BaseSpreadBps:       rate.SpreadBps(),
		TierImprovementBps:  tierBps,
		PSPImprovementBps:   pspBps,
		RequestedAmount:     req.Amount,
		AmountType:          req.AmountType,
		Status:              models.QuoteStatusActive,
		CreatedAt:           now,
		ExpiresAt:           now.Add(s.cfg.Validity),
	}
	q.FinalRate = FinalRate(q.BaseRate, q.FinalSpreadBps())
	if !q.FinalRate.IsPositive() {
		return nil, fmt.Errorf("fxp %s: non-positive rate: %w", fxp.ID, custom_err.ErrNoRateAvailable)
	}

	sourceAmount, destAmount, capped := ApplyAmounts(req.Amount, req.AmountType, q.FinalRate, src.MaxAmount, dst.MaxAmount)
	q.SourceInterbankAmount = models.RoundAmount(sourceAmount)
	q.DestInterbankAmount = models.RoundAmount(destAmount)
	q.CappedToMaxAmount = capped

	if req.AmountType == models.AmountTypeSource {
		q.DestinationPSPFee = models.RoundAmount(destFormula.Apply(q.DestInterbankAmount))
		q.CreditorAmount = q.DestInterbankAmount.Sub(q.DestinationPSPFee)
	} else {
		q.CreditorAmount = q.DestInterbankAmount
		q.DestinationPSPFee = models.RoundAmount(destFormula.Apply(q.CreditorAmount))
	}

	return q, nil
}

// FinalRate base * (1 - spread/10000), 8 знаков; spread может быть отрицательным
func FinalRate(base decimal.Decimal, spreadBps int) decimal.Decimal {
	return models.RoundRate(base.Mul(decimal.NewFromInt(1).Sub(models.BpsToFraction(spreadBps))))
}

// ApplyAmounts считает встречную сумму и ограничивает обе стороны максимумами стран.
// После ограничения встречная сумма пересчитывается из ограниченной.
func ApplyAmounts(
	amount decimal.Decimal,
	amountType models.AmountType,
	rate decimal.Decimal,
	sourceMax, destMax decimal.Decimal,
) (source, dest decimal.Decimal, capped bool) {
	if amountType == models.AmountTypeSource {
		source = amount
		dest = amount.Mul(rate)
	} else {
		dest = amount
		source = amount.DivRound(rate, 16)
	}

	if sourceMax.IsPositive() && source.GreaterThan(sourceMax) {
		source = sourceMax
		dest = source.Mul(rate)
		capped = true
	}
	if destMax.IsPositive() && dest.GreaterThan(destMax) {
		dest = destMax
		source = dest.DivRound(rate, 16)
		capped = true
	}
	return source, dest, capped
}

// selectTier tiers отсортированы по MinAmount по убыванию
func selectTier(tiers []models.Tier, amount decimal.Decimal) int {
	for _, t := range tiers {
		if amount.LessThan(t.MinAmount) {
			continue
		}
		if t.MaxAmount != nil && amount.GreaterThan(*t.MaxAmount) {
			continue
		}
		return t.ImprovementBps
	}
	return 0
}

func (s *QuoteService) GetQuote(ctx context.Context, id string) (*models.Quote, error) {
	const op = "service.GetQuote"

	q, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if q.IsExpiredAt(s.now()) {
		return nil, fmt.Errorf("%s: quote %s expired at %s: %w", op, id, q.ExpiresAt.Format(time.RFC3339), custom_err.ErrExpired)
	}
	return q, nil
}

func (s *QuoteService) GetIntermediaryAgents(ctx context.Context, id string) (*models.IntermediaryAgentsResponse, error) {
	const op = "service.GetIntermediaryAgents"

	q, err := s.GetQuote(ctx, id)
	if err != nil {
		return nil, err
	}

	srcSAP, err := s.refRepo.GetSAPAccount(ctx, q.FXPID, q.SourceCurrency)
	if err != nil {
		return nil, fmt.Errorf("%s: source SAP for %s: %w", op, q.FXPID, err)
	}
	dstSAP, err := s.refRepo.GetSAPAccount(ctx, q.FXPID, q.DestinationCurrency)
	if err != nil {
		return nil, fmt.Errorf("%s: destination SAP for %s: %w", op, q.FXPID, err)
	}

	return &models.IntermediaryAgentsResponse{
		QuoteID:            q.ID,
		IntermediaryAgent1: sapAgent(models.RoleSourceSAP, srcSAP),
		IntermediaryAgent2: sapAgent(models.RoleDestinationSAP, dstSAP),
	}, nil
}

func sapAgent(role models.IntermediaryAgentRole, a *models.SAPAccount) models.IntermediaryAgent {
	return models.IntermediaryAgent{
		Role:      role,
		BIC:       a.SAPBIC,
		Name:      a.SAPName,
		Currency:  a.Currency,
		AccountID: a.AccountID,
	}
}
