package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"nexus-gateway/internal/callback"
	"nexus-gateway/internal/config"
	"nexus-gateway/internal/custom_err"
	"nexus-gateway/internal/iso20022"
	"nexus-gateway/internal/metrics"
	"nexus-gateway/internal/models"
	"nexus-gateway/internal/storage/postgres"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var rateTolerance = decimal.RequireFromString("0.000001")

type Payments interface {
	Validate(ctx context.Context, instr *models.Pacs008) (*models.Verdict, error)
	ProcessPacs008(ctx context.Context, body []byte, callbackURL, actor string) (*models.ProcessResult, error)
	ProcessStatusReport(ctx context.Context, body []byte, actor string) (*models.Payment, error)
	ListEvents(ctx context.Context, uetr string) ([]models.PaymentEvent, error)
}

type PaymentService struct {
	quoteRepo   postgres.QuoteRepository
	paymentRepo postgres.PaymentRepository
	eventRepo   postgres.EventRepository
	refRepo     postgres.ReferenceRepository
	txManager   TxManager
	guard       *schemaGuard
	transformer *iso20022.Transformer
	rules       []SchemeRule
	scheduler   callback.Scheduler
	cfg         config.SchemeConfig
	metrics     *metrics.Metrics
	log         *slog.Logger
	now         func() time.Time
}

func NewPaymentService(
	quoteRepo postgres.QuoteRepository,
	paymentRepo postgres.PaymentRepository,
	eventRepo postgres.EventRepository,
	refRepo postgres.ReferenceRepository,
	txManager TxManager,
	validator iso20022.SchemaValidator,
	scheduler callback.Scheduler,
	cfg config.SchemeConfig,
	m *metrics.Metrics,
	log *slog.Logger,
) *PaymentService {
	return &PaymentService{
		quoteRepo:   quoteRepo,
		paymentRepo: paymentRepo,
		eventRepo:   eventRepo,
		refRepo:     refRepo,
		txManager:   txManager,
		guard:       &schemaGuard{validator: validator, events: eventRepo, log: log},
		transformer: iso20022.NewTransformer(),
		rules:       NewSchemeRules(cfg),
		scheduler:   scheduler,
		cfg:         cfg,
		metrics:     m,
		log:         log,
		now:         time.Now,
	}
}

// Validate прогоняет все проверки без остановки на первой ошибке.
// Код причины берется у последней сработавшей проверки.
func (s *PaymentService) Validate(ctx context.Context, instr *models.Pacs008) (*models.Verdict, error) {
	const op = "service.Validate"

	v := &models.Verdict{UETR: instr.UETR}
	reject := func(code models.ReasonCode, msg string) {
		v.Errors = append(v.Errors, msg)
		if code != models.ReasonCodeNone {
			v.StatusReasonCode = code
		}
	}

	// 1. UETR
	if v.UETR == "" {
		v.UETR = uuid.NewString()
		v.UETRGenerated = true
		v.Warnings = append(v.Warnings, "UETR was not provided - generated for sandbox demo")
	}

	// 2. котировка, курс и SAP
	if instr.QuoteID != "" {
		q, err := s.quoteRepo.GetByID(ctx, instr.QuoteID)
		switch {
		case errors.Is(err, custom_err.ErrNotFound):
			reject(models.ReasonQuoteExpired, fmt.Sprintf("Quote %s not found", instr.QuoteID))
		case err != nil:
			return nil, fmt.Errorf("%s: %w", op, err)
		default:
			v.Quote = q
			if err := s.checkQuote(ctx, instr, q, reject); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}
	}

	// 3-4. правила схемы
	for _, rule := range s.rules {
		if violation := rule.Check(instr); violation != nil {
			reject(violation.ReasonCode, violation.Message)
		}
	}

	// 5. дубликат UETR среди неотклоненных
	exists, err := s.paymentRepo.ActiveExists(ctx, v.UETR)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		reject(models.ReasonDuplicatePayment, fmt.Sprintf("Duplicate UETR: %s already exists", v.UETR))
	}

	v.Valid = len(v.Errors) == 0
	if !v.Valid && v.StatusReasonCode == models.ReasonCodeNone {
		v.StatusReasonCode = models.ReasonNarrative
	}
	return v, nil
}

func (s *PaymentService) checkQuote(
	ctx context.Context,
	instr *models.Pacs008,
	q *models.Quote,
	reject func(models.ReasonCode, string),
) error {
	if q.IsExpiredAt(s.now()) {
		reject(models.ReasonQuoteExpired, fmt.Sprintf("Quote %s has expired (valid until %s)", q.ID, q.ExpiresAt.UTC().Format(time.RFC3339)))
	}

	if instr.ExchangeRate != nil && instr.ExchangeRate.Sub(q.FinalRate).Abs().GreaterThan(rateTolerance) {
		reject(models.ReasonRateMismatch, fmt.Sprintf("Exchange rate mismatch: submitted %s, expected %s",
			instr.ExchangeRate.String(), q.FinalRate.String()))
	}

	if instr.IntermediaryAgent1BIC != "" {
		sap, err := s.sapBIC(ctx, q.FXPID, q.SourceCurrency)
		if err != nil {
			return err
		}
		if !strings.EqualFold(instr.IntermediaryAgent1BIC, sap) {
			reject(models.ReasonInvalidIntermediary, fmt.Sprintf(
				"Intermediary Agent 1 mismatch: %s not a registered SAP for this corridor/FXP", instr.IntermediaryAgent1BIC))
		}
	}
	if instr.IntermediaryAgent2BIC != "" {
		sap, err := s.sapBIC(ctx, q.FXPID, q.DestinationCurrency)
		if err != nil {
			return err
		}
		if !strings.EqualFold(instr.IntermediaryAgent2BIC, sap) {
			reject(models.ReasonInvalidIntermediary, fmt.Sprintf(
				"Intermediary Agent 2 mismatch: %s not a registered SAP for this corridor/FXP", instr.IntermediaryAgent2BIC))
		}
	}
	return nil
}

func (s *PaymentService) sapBIC(ctx context.Context, fxpID string, currency models.Currency) (string, error) {
	acc, err := s.refRepo.GetSAPAccount(ctx, fxpID, currency)
	if err != nil {
		if errors.Is(err, custom_err.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return acc.SAPBIC, nil
}

func (s *PaymentService) ProcessPacs008(ctx context.Context, body []byte, callbackURL, actor string) (*models.ProcessResult, error) {
	const op = "service.ProcessPacs008"

	warnings, err := s.guard.check(ctx, body, models.MsgPacs008, actor)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	instr, err := iso20022.ParsePacs008(body)
	if err != nil {
		s.rejectUnparsed(ctx, body, err, actor)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	verdict, err := s.Validate(ctx, instr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	verdict.Warnings = append(verdict.Warnings, warnings...)

	result, err := s.persist(ctx, instr, verdict, body, actor)
	if errors.Is(err, custom_err.ErrDuplicatePayment) {
		// параллельный запрос с тем же UETR успел первым
		verdict.Valid = false
		verdict.StatusReasonCode = models.ReasonDuplicatePayment
		verdict.Errors = append(verdict.Errors, fmt.Sprintf("Duplicate UETR: %s already exists", verdict.UETR))
		result, err = s.persist(ctx, instr, verdict, body, actor)
	}
	if err != nil {
		s.log.Error("failed to persist payment",
			slog.String("op", op),
			slog.String("uetr", verdict.UETR),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	status := models.PaymentStatusRejected
	if verdict.Valid {
		status = models.PaymentStatusAccepted
	}
	s.metrics.Verdict(string(status), string(verdict.StatusReasonCode))

	if !verdict.Valid {
		s.log.Info("платеж отклонен",
			slog.String("uetr", verdict.UETR),
			slog.String("reason_code", string(verdict.StatusReasonCode)),
			slog.String("errors", strings.Join(verdict.Errors, "; ")))
		return result, nil
	}

	result.ForwardedPacs008 = s.forward(ctx, body, instr, verdict, actor)

	if callbackURL != "" {
		result.CallbackURL = callbackURL
		s.scheduler.Schedule(callback.Delivery{
			URL:         callbackURL,
			UETR:        verdict.UETR,
			MessageType: models.MsgPacs002,
			Status:      models.TxStatusAccepted,
			Body:        result.StatusReportXML,
		})
	}

	s.log.Info("платеж принят",
		slog.String("uetr", verdict.UETR),
		slog.String("quote_id", instr.QuoteID),
		slog.Bool("callback", callbackURL != ""))

	return result, nil
}

// rejectUnparsed инструкция не разобрана (битая сумма или курс): строку платежа
// собрать не из чего, но отказ с NARR попадает в журнал, если UETR найден
func (s *PaymentService) rejectUnparsed(ctx context.Context, body []byte, cause error, actor string) {
	uetr := iso20022.ExtractUETR(body)
	if uetr == "" {
		return
	}
	s.metrics.Verdict(string(models.PaymentStatusRejected), string(models.ReasonNarrative))

	event := models.NewPaymentEvent(uetr, models.EventPaymentRejected, actor, map[string]any{
		"statusReasonCode": models.ReasonNarrative,
		"errors":           []string{cause.Error()},
	}).WithMessage(models.MsgPacs008, string(body))

	pacs002, err := iso20022.RenderPacs002(iso20022.StatusReportParams{
		MessageID:      newMessageID("NEXUS"),
		CreatedAt:      s.now().UTC(),
		UETR:           uetr,
		Status:         models.TxStatusRejected,
		ReasonCode:     models.ReasonNarrative,
		AdditionalInfo: cause.Error(),
	})
	if err == nil {
		event.WithMessage(models.MsgPacs002, pacs002)
	}

	s.log.Info("платеж отклонен: инструкция не разобрана",
		slog.String("uetr", uetr),
		slog.String("error", cause.Error()))
	s.guard.record(ctx, uetr, event)
}

// persist сохраняет платеж с итоговым статусом и события в одной транзакции
func (s *PaymentService) persist(
	ctx context.Context,
	instr *models.Pacs008,
	verdict *models.Verdict,
	body []byte,
	actor string,
) (*models.ProcessResult, error) {
	now := s.now().UTC()
	payment := paymentFromInstruction(instr, verdict, now)

	report := iso20022.StatusReportParams{
		MessageID:  newMessageID("NEXUS"),
		CreatedAt:  now,
		UETR:       verdict.UETR,
		EndToEndID: instr.EndToEndID,
		Status:     models.TxStatusAccepted,
	}
	if verdict.Valid {
		amount := payment.DestinationAmount
		report.SettlementAmount = &amount
		report.SettlementCurrency = payment.DestinationCurrency
	} else {
		report.Status = models.TxStatusRejected
		report.ReasonCode = verdict.StatusReasonCode
		report.AdditionalInfo = strings.Join(verdict.Errors, "; ")
	}
	pacs002, err := iso20022.RenderPacs002(report)
	if err != nil {
		return nil, err
	}

	var event *models.PaymentEvent
	if verdict.Valid {
		camt054, err := iso20022.RenderCamt054(iso20022.NotificationParams{
			MessageID:    newMessageID("NTFCTN"),
			CreatedAt:    now,
			UETR:         verdict.UETR,
			Amount:       payment.DestinationAmount,
			Currency:     payment.DestinationCurrency,
			DebtorName:   instr.DebtorName,
			CreditorName: instr.CreditorName,
		})
		if err != nil {
			return nil, err
		}
		event = models.NewPaymentEvent(verdict.UETR, models.EventPaymentAccepted, actor, map[string]any{
			"quoteId":  instr.QuoteID,
			"warnings": verdict.Warnings,
		}).WithMessage(models.MsgPacs008, string(body)).
			WithMessage(models.MsgPacs002, pacs002).
			WithMessage(models.MsgCamt054, camt054)
	} else {
		event = models.NewPaymentEvent(verdict.UETR, models.EventPaymentRejected, actor, map[string]any{
			"quoteId":          instr.QuoteID,
			"statusReasonCode": verdict.StatusReasonCode,
			"errors":           verdict.Errors,
			"warnings":         verdict.Warnings,
		}).WithMessage(models.MsgPacs008, string(body)).
			WithMessage(models.MsgPacs002, pacs002)
	}

	err = s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.paymentRepo.CreateTx(ctx, tx, payment); err != nil {
			return err
		}
		if verdict.Valid && instr.QuoteID != "" {
			if err := s.quoteRepo.ConsumeTx(ctx, tx, instr.QuoteID); err != nil {
				return err
			}
		}
		if err := s.eventRepo.AppendTx(ctx, tx, event); err != nil {
			return err
		}

		if original := iso20022.ExtractReturnLink(instr.RemittanceInfo); original != "" {
			link := models.NewPaymentEvent(original, models.EventReturnLinked, actor, map[string]any{
				"returnUetr": verdict.UETR,
				"accepted":   verdict.Valid,
			})
			if err := s.eventRepo.AppendTx(ctx, tx, link); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &models.ProcessResult{
		Verdict:         *verdict,
		StatusReportXML: pacs002,
	}, nil
}

func paymentFromInstruction(instr *models.Pacs008, verdict *models.Verdict, now time.Time) *models.Payment {
	p := &models.Payment{
		UETR:                verdict.UETR,
		MessageID:           instr.MessageID,
		EndToEndID:          instr.EndToEndID,
		QuoteID:             instr.QuoteID,
		SourcePSPBIC:        instr.DebtorAgentBIC,
		DestinationPSPBIC:   instr.CreditorAgentBIC,
		DebtorName:          instr.DebtorName,
		DebtorAccount:       instr.DebtorAccount,
		CreditorName:        instr.CreditorName,
		CreditorAccount:     instr.CreditorAccount,
		SourceAmount:        instr.Amount(),
		SourceCurrency:      instr.SettlementCurrency,
		DestinationAmount:   instr.Amount(),
		DestinationCurrency: instr.SettlementCurrency,
		Status:              models.PaymentStatusAccepted,
		CreatedAt:           now,
	}
	if instr.InstructedAmount != nil && instr.InstructedCurrency != "" {
		p.SourceCurrency = instr.InstructedCurrency
	}
	if instr.ExchangeRate != nil {
		p.ExchangeRate = *instr.ExchangeRate
	}

	if q := verdict.Quote; q != nil {
		p.SourceAmount = q.SourceInterbankAmount
		p.SourceCurrency = q.SourceCurrency
		p.DestinationAmount = q.DestInterbankAmount
		p.DestinationCurrency = q.DestinationCurrency
		if instr.ExchangeRate == nil {
			p.ExchangeRate = q.FinalRate
		}
	}

	if !verdict.Valid {
		p.Status = models.PaymentStatusRejected
		p.StatusReasonCode = verdict.StatusReasonCode
	}
	return p
}

// forward переписывает pacs.008 для стороны получателя. Ошибка преобразования
// фиксируется событием, дальше уходит исходное тело.
func (s *PaymentService) forward(ctx context.Context, body []byte, instr *models.Pacs008, verdict *models.Verdict, actor string) string {
	route := iso20022.RoutingData{
		DestinationPSPBIC:  instr.CreditorAgentBIC,
		ClearingSystemCode: s.cfg.ClearingSystemCode,
	}
	if q := verdict.Quote; q != nil {
		route.DestinationAmount = q.DestInterbankAmount
		route.DestinationCurrency = q.DestinationCurrency
		route.SourceCurrency = q.SourceCurrency

		acc, err := s.refRepo.GetSAPAccount(ctx, q.FXPID, q.DestinationCurrency)
		if err != nil && !errors.Is(err, custom_err.ErrNotFound) {
			s.log.Warn("destination SAP lookup failed",
				slog.String("uetr", verdict.UETR),
				slog.String("error", err.Error()))
		}
		if acc != nil {
			route.DestinationSAPBIC = acc.SAPBIC
			route.FXPAccountID = acc.AccountID
		}
	}

	res, err := s.transformer.Transform(body, route)
	if err != nil {
		s.log.Warn("transform failed, forwarding original",
			slog.String("uetr", verdict.UETR),
			slog.String("error", err.Error()))
		event := models.NewPaymentEvent(verdict.UETR, models.EventTransformFailed, actor, map[string]any{
			"error": err.Error(),
		})
		if err := s.eventRepo.Append(ctx, event); err != nil {
			s.log.Error("failed to record transform event",
				slog.String("uetr", verdict.UETR),
				slog.String("error", err.Error()))
		}
		return string(body)
	}
	return res.Body
}

// ProcessStatusReport pacs.002 от стороны получателя; ACCC завершает принятый платеж
func (s *PaymentService) ProcessStatusReport(ctx context.Context, body []byte, actor string) (*models.Payment, error) {
	const op = "service.ProcessStatusReport"

	if _, err := s.guard.check(ctx, body, models.MsgPacs002, actor); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	report, err := iso20022.ParseStatusReport(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if report.OriginalUETR == "" {
		return nil, fmt.Errorf("%s: %w", op, &custom_err.StructuralError{
			MessageType: models.MsgPacs002,
			Errors:      []string{"OrgnlUETR is required"},
		})
	}

	payment, err := s.paymentRepo.GetByUETR(ctx, report.OriginalUETR)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now().UTC()
	complete := report.TransactionStatus == models.TxStatusAccepted && payment.Status == models.PaymentStatusAccepted

	err = s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		received := models.NewPaymentEvent(payment.UETR, models.EventStatusReportReceived, actor, map[string]any{
			"transactionStatus": report.TransactionStatus,
			"reasonCode":        report.ReasonCode,
			"additionalInfo":    report.AdditionalInfo,
		}).WithMessage(models.MsgPacs002, string(body))
		if err := s.eventRepo.AppendTx(ctx, tx, received); err != nil {
			return err
		}

		if !complete {
			return nil
		}
		if err := s.paymentRepo.TransitionTx(ctx, tx, payment.UETR, models.PaymentStatusAccepted, models.PaymentStatusCompleted, now); err != nil {
			return err
		}
		return s.eventRepo.AppendTx(ctx, tx, models.NewPaymentEvent(payment.UETR, models.EventPaymentCompleted, actor, nil))
	})
	if err != nil {
		if errors.Is(err, custom_err.ErrTransitionDenied) {
			return nil, fmt.Errorf("%s: %w: %w", op, custom_err.ErrStateConflict, err)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if complete {
		payment.Status = models.PaymentStatusCompleted
		payment.CompletedAt = &now
		payment.UpdatedAt = now
		s.log.Info("платеж завершен", slog.String("uetr", payment.UETR))
	}

	return payment, nil
}

func (s *PaymentService) ListEvents(ctx context.Context, uetr string) ([]models.PaymentEvent, error) {
	const op = "service.ListEvents"

	events, err := s.eventRepo.ListByUETR(ctx, uetr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("%s: %s: %w", op, uetr, custom_err.ErrNotFound)
	}
	return events, nil
}
