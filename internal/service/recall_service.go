package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"nexus-gateway/internal/custom_err"
	"nexus-gateway/internal/iso20022"
	"nexus-gateway/internal/metrics"
	"nexus-gateway/internal/models"
	"nexus-gateway/internal/storage/postgres"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

const (
	adviceFound    = "Payment found. This is the current database status."
	adviceNotFound = "Payment not found. Per Nexus Release 1 behavior: re-send the original pacs.008. " +
		"Downstream systems will check for duplicates and respond with stored pacs.002 if already processed."
)

// resolutionOutcome переход и подсказка для кода camt.029
type resolutionOutcome struct {
	status   models.RecallStatus
	nextStep string
}

var resolutionOutcomes = map[models.InvestigationStatus]resolutionOutcome{
	models.InvestigationAccepted:        {models.RecallStatusAccepted, "Submit pacs.004 PaymentReturn to complete the recall."},
	models.InvestigationRejected:        {models.RecallStatusRejected, "Recall rejected. Original payment remains with recipient."},
	models.InvestigationPendingInfo:     {models.RecallStatusPendingInfo, "Provide additional information requested by D-PSP."},
	models.InvestigationUnableToForward: {models.RecallStatusRoutingError, "Check routing and resubmit camt.056."},
}

type Recalls interface {
	SubmitRecall(ctx context.Context, req models.RecallRequest, actor string) (*models.RecallResponse, error)
	SubmitRecallXML(ctx context.Context, body []byte, actor string) (*models.RecallResponse, error)
	Respond(ctx context.Context, uetr string, req models.RecallRespondRequest, actor string) (*models.RecallRespondResponse, error)
	Resolve(ctx context.Context, res models.InvestigationResolution, actor string) (*models.InvestigationResolutionResponse, error)
	ResolveXML(ctx context.Context, body []byte, actor string) (*models.InvestigationResolutionResponse, error)
	ProcessReturn(ctx context.Context, ret models.ReturnPayment, actor string) (*models.ReturnResponse, error)
	ProcessReturnXML(ctx context.Context, body []byte, actor string) (*models.ReturnResponse, error)
	QueryStatus(ctx context.Context, q models.StatusQuery, actor string) (*models.StatusQueryResponse, error)
	QueryStatusXML(ctx context.Context, body []byte, actor string) (*models.StatusQueryResponse, error)
	GetRecall(ctx context.Context, uetr string) (*models.RecallCase, error)
	ListRecalls(ctx context.Context, status models.RecallStatus, limit int) ([]models.RecallCase, error)
	ListReturns(ctx context.Context, limit int) ([]models.ReturnPayment, error)
}

type RecallService struct {
	recallRepo  postgres.RecallRepository
	paymentRepo postgres.PaymentRepository
	eventRepo   postgres.EventRepository
	txManager   TxManager
	guard       *schemaGuard
	metrics     *metrics.Metrics
	log         *slog.Logger
	now         func() time.Time
}

func NewRecallService(
	recallRepo postgres.RecallRepository,
	paymentRepo postgres.PaymentRepository,
	eventRepo postgres.EventRepository,
	txManager TxManager,
	validator iso20022.SchemaValidator,
	m *metrics.Metrics,
	log *slog.Logger,
) *RecallService {
	return &RecallService{
		recallRepo:  recallRepo,
		paymentRepo: paymentRepo,
		eventRepo:   eventRepo,
		txManager:   txManager,
		guard:       &schemaGuard{validator: validator, events: eventRepo, log: log},
		metrics:     m,
		log:         log,
		now:         time.Now,
	}
}

func newRecallID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *RecallService) SubmitRecall(ctx context.Context, req models.RecallRequest, actor string) (*models.RecallResponse, error) {
	return s.submit(ctx, req, actor, "")
}

func (s *RecallService) SubmitRecallXML(ctx context.Context, body []byte, actor string) (*models.RecallResponse, error) {
	const op = "service.SubmitRecallXML"

	if _, err := s.guard.check(ctx, body, models.MsgCamt056, actor); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req, err := iso20022.ParseCamt056(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.submit(ctx, *req, actor, string(body))
}

// submit отзыв допускается только для завершенного платежа
func (s *RecallService) submit(ctx context.Context, req models.RecallRequest, actor, rawXML string) (*models.RecallResponse, error) {
	const op = "service.SubmitRecall"

	if !iso20022.IsUETR(req.OriginalUETR) {
		return nil, fmt.Errorf("%s: original UETR %q: %w", op, req.OriginalUETR, custom_err.ErrInvalidInput)
	}
	if !req.CancellationReasonCode.IsValid() {
		return nil, fmt.Errorf("%s: cancellation reason %q: %w", op, req.CancellationReasonCode, custom_err.ErrInvalidInput)
	}
	if req.RecallType == "" {
		req.RecallType = models.RecallTypeFull
	}
	if req.RecallType != models.RecallTypeFull && req.RecallType != models.RecallTypePartial {
		return nil, fmt.Errorf("%s: recall type %q: %w", op, req.RecallType, custom_err.ErrInvalidInput)
	}
	if req.RequestedBy == "" {
		req.RequestedBy = actor
	}

	payment, err := s.paymentRepo.GetByUETR(ctx, req.OriginalUETR)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if payment.Status != models.PaymentStatusCompleted {
		return nil, fmt.Errorf("%s: payment status %s not eligible for recall, only COMPLETED payments can be recalled: %w",
			op, payment.Status, custom_err.ErrStateConflict)
	}

	now := s.now().UTC()
	rc := &models.RecallCase{
		RecallID:       newRecallID(),
		OriginalUETR:   req.OriginalUETR,
		ReasonCode:     req.CancellationReasonCode,
		ReasonText:     req.CancellationReasonText,
		RecallType:     req.RecallType,
		OriginalAmount: req.OriginalAmount,
		RequestedBy:    req.RequestedBy,
		Status:         models.RecallStatusPending,
		SubmittedAt:    now,
	}
	if rc.OriginalAmount == nil {
		amount := payment.SourceAmount
		rc.OriginalAmount = &amount
	}

	if rawXML == "" {
		rawXML, err = iso20022.RenderCamt056(iso20022.CancellationParams{
			MessageID:    newMessageID("CXLREQ"),
			CreatedAt:    now,
			CaseID:       rc.RecallID,
			OriginalUETR: rc.OriginalUETR,
			RequestedBy:  rc.RequestedBy,
			ReasonCode:   string(rc.ReasonCode),
			ReasonText:   rc.ReasonText,
			Amount:       rc.OriginalAmount,
			Currency:     payment.SourceCurrency,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	err = s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		if err := s.recallRepo.CreateTx(ctx, tx, rc); err != nil {
			return err
		}
		event := models.NewPaymentEvent(rc.OriginalUETR, models.EventRecallRequested, actor, map[string]any{
			"recallId":   rc.RecallID,
			"reasonCode": rc.ReasonCode,
			"recallType": rc.RecallType,
		}).WithMessage(models.MsgCamt056, rawXML)
		return s.eventRepo.AppendTx(ctx, tx, event)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.RecallTransition(string(rc.Status))
	s.log.Info("отзыв создан",
		slog.String("uetr", rc.OriginalUETR),
		slog.String("recall_id", rc.RecallID),
		slog.String("reason", string(rc.ReasonCode)))

	return &models.RecallResponse{
		OriginalUETR: rc.OriginalUETR,
		RecallID:     rc.RecallID,
		Status:       rc.Status,
		RecallType:   rc.RecallType,
		Message:      "Recall request submitted. Awaiting Destination PSP review.",
		SubmittedAt:  rc.SubmittedAt,
	}, nil
}

func canRespond(status models.RecallStatus) bool {
	return status == models.RecallStatusPending || status == models.RecallStatusPendingInfo
}

// Respond прямое решение PSP получателя
func (s *RecallService) Respond(ctx context.Context, uetr string, req models.RecallRespondRequest, actor string) (*models.RecallRespondResponse, error) {
	const op = "service.RespondRecall"

	if req.RespondedBy == "" {
		req.RespondedBy = actor
	}

	var rc *models.RecallCase
	err := s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		var err error
		rc, err = s.recallRepo.GetLatestByUETRForUpdateTx(ctx, tx, uetr)
		if err != nil {
			return err
		}
		if !canRespond(rc.Status) {
			return fmt.Errorf("recall %s is %s: %w", rc.RecallID, rc.Status, custom_err.ErrStateConflict)
		}

		now := s.now().UTC()
		investigation := models.InvestigationRejected
		rc.Status = models.RecallStatusRejected
		if req.Accept {
			investigation = models.InvestigationAccepted
			rc.Status = models.RecallStatusAccepted
		}
		rc.RespondedBy = req.RespondedBy
		rc.ResponseReason = req.Reason
		rc.RespondedAt = &now

		if err := s.recallRepo.UpdateStatusTx(ctx, tx, rc, false); err != nil {
			return err
		}

		camt029, err := iso20022.RenderCamt029(iso20022.ResolutionParams{
			MessageID:    newMessageID("RSLTN"),
			CreatedAt:    now,
			CaseID:       rc.RecallID,
			OriginalUETR: rc.OriginalUETR,
			Status:       investigation,
			Reason:       req.Reason,
			RespondedBy:  rc.RespondedBy,
		})
		if err != nil {
			return err
		}
		event := models.NewPaymentEvent(rc.OriginalUETR, models.EventRecallResponded, actor, map[string]any{
			"recallId": rc.RecallID,
			"accepted": req.Accept,
			"reason":   req.Reason,
		}).WithMessage(models.MsgCamt029, camt029)
		return s.eventRepo.AppendTx(ctx, tx, event)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.RecallTransition(string(rc.Status))
	s.log.Info("ответ на отзыв",
		slog.String("uetr", rc.OriginalUETR),
		slog.String("recall_id", rc.RecallID),
		slog.String("status", string(rc.Status)))

	message := "Recall accepted. Submit pacs.004 to return funds."
	if !req.Accept {
		reason := req.Reason
		if reason == "" {
			reason = "Not specified"
		}
		message = "Recall rejected. Reason: " + reason
	}

	return &models.RecallRespondResponse{
		OriginalUETR: rc.OriginalUETR,
		RecallID:     rc.RecallID,
		Status:       rc.Status,
		Message:      message,
	}, nil
}

func (s *RecallService) Resolve(ctx context.Context, res models.InvestigationResolution, actor string) (*models.InvestigationResolutionResponse, error) {
	return s.resolve(ctx, res, actor, "")
}

func (s *RecallService) ResolveXML(ctx context.Context, body []byte, actor string) (*models.InvestigationResolutionResponse, error) {
	const op = "service.ResolveXML"

	if _, err := s.guard.check(ctx, body, models.MsgCamt029, actor); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	res, err := iso20022.ParseCamt029(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.resolve(ctx, *res, actor, string(body))
}

// resolve camt.029 по отзыву; recallId в сообщении должен совпадать с открытым делом
func (s *RecallService) resolve(ctx context.Context, res models.InvestigationResolution, actor, rawXML string) (*models.InvestigationResolutionResponse, error) {
	const op = "service.ResolveRecall"

	outcome, ok := resolutionOutcomes[res.InvestigationStatus]
	if !ok {
		return nil, fmt.Errorf("%s: investigation status %q: %w", op, res.InvestigationStatus, custom_err.ErrInvalidInput)
	}
	if res.OriginalUETR == "" {
		return nil, fmt.Errorf("%s: original UETR is required: %w", op, custom_err.ErrInvalidInput)
	}
	if res.RespondedBy == "" {
		res.RespondedBy = actor
	}

	now := s.now().UTC()
	var rc *models.RecallCase
	err := s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		var err error
		rc, err = s.recallRepo.GetLatestByUETRForUpdateTx(ctx, tx, res.OriginalUETR)
		if err != nil {
			return err
		}
		if res.RecallID != "" && res.RecallID != rc.RecallID {
			return fmt.Errorf("recall %s, got %s: %w", rc.RecallID, res.RecallID, custom_err.ErrRecallMismatch)
		}
		if !canRespond(rc.Status) {
			return fmt.Errorf("recall %s is %s: %w", rc.RecallID, rc.Status, custom_err.ErrStateConflict)
		}

		rc.Status = outcome.status
		rc.RespondedBy = res.RespondedBy
		rc.ResponseReason = res.StatusReasonText
		rc.ResolutionAt = &now
		if err := s.recallRepo.UpdateStatusTx(ctx, tx, rc, true); err != nil {
			return err
		}

		body := rawXML
		if body == "" {
			body, err = iso20022.RenderCamt029(iso20022.ResolutionParams{
				MessageID:    newMessageID("RSLTN"),
				CreatedAt:    now,
				CaseID:       rc.RecallID,
				OriginalUETR: rc.OriginalUETR,
				Status:       res.InvestigationStatus,
				Reason:       res.StatusReasonText,
				RespondedBy:  rc.RespondedBy,
			})
			if err != nil {
				return err
			}
		}
		event := models.NewPaymentEvent(rc.OriginalUETR, models.EventRecallResolution, actor, map[string]any{
			"recallId":            rc.RecallID,
			"investigationStatus": res.InvestigationStatus,
			"status":              rc.Status,
		}).WithMessage(models.MsgCamt029, body)
		return s.eventRepo.AppendTx(ctx, tx, event)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.RecallTransition(string(rc.Status))
	s.log.Info("получено решение по отзыву",
		slog.String("uetr", rc.OriginalUETR),
		slog.String("recall_id", rc.RecallID),
		slog.String("investigation_status", string(res.InvestigationStatus)),
		slog.String("status", string(rc.Status)))

	return &models.InvestigationResolutionResponse{
		OriginalUETR:        rc.OriginalUETR,
		RecallID:            rc.RecallID,
		InvestigationStatus: res.InvestigationStatus,
		Status:              rc.Status,
		Message:             "Resolution received: " + string(res.InvestigationStatus),
		NextStep:            outcome.nextStep,
		ProcessedAt:         now,
	}, nil
}

func (s *RecallService) ProcessReturn(ctx context.Context, ret models.ReturnPayment, actor string) (*models.ReturnResponse, error) {
	return s.processReturn(ctx, ret, actor, "")
}

func (s *RecallService) ProcessReturnXML(ctx context.Context, body []byte, actor string) (*models.ReturnResponse, error) {
	const op = "service.ProcessReturnXML"

	if _, err := s.guard.check(ctx, body, models.MsgPacs004, actor); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ret, err := iso20022.ParsePacs004(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.processReturn(ctx, *ret, actor, string(body))
}

// processReturn возврат принимается всегда. Если по UETR есть принятый отзыв,
// он закрывается, а завершенный платеж переходит в RETURNED.
func (s *RecallService) processReturn(ctx context.Context, ret models.ReturnPayment, actor, rawXML string) (*models.ReturnResponse, error) {
	const op = "service.ProcessReturn"

	if ret.OriginalUETR == "" {
		return nil, fmt.Errorf("%s: original UETR is required: %w", op, custom_err.ErrInvalidInput)
	}
	if !ret.ReturnReasonCode.IsValid() {
		return nil, fmt.Errorf("%s: return reason %q: %w", op, ret.ReturnReasonCode, custom_err.ErrInvalidInput)
	}
	if !ret.ReturnAmount.IsPositive() {
		return nil, custom_err.ErrInvalidAmount
	}
	if !ret.ReturnCurrency.IsValid() {
		return nil, custom_err.ErrInvalidCurrency
	}
	if ret.ReturnUETR == "" {
		ret.ReturnUETR = uuid.NewString()
	}

	now := s.now().UTC()
	ret.ReceivedAt = now

	if rawXML == "" {
		var err error
		rawXML, err = iso20022.RenderPacs004(iso20022.ReturnParams{
			MessageID:    newMessageID("RTR"),
			CreatedAt:    now,
			ReturnUETR:   ret.ReturnUETR,
			OriginalUETR: ret.OriginalUETR,
			Amount:       ret.ReturnAmount,
			Currency:     ret.ReturnCurrency,
			ReasonCode:   string(ret.ReturnReasonCode),
			ReasonText:   ret.ReturnReasonText,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	var linked *models.RecallCase
	returned := false
	err := s.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		rc, err := s.recallRepo.GetLatestByUETRForUpdateTx(ctx, tx, ret.OriginalUETR)
		switch {
		case errors.Is(err, custom_err.ErrNotFound):
		case err != nil:
			return err
		default:
			if ret.RecallID != "" && ret.RecallID != rc.RecallID {
				return fmt.Errorf("recall %s, got %s: %w", rc.RecallID, ret.RecallID, custom_err.ErrRecallMismatch)
			}
			if rc.Status == models.RecallStatusAccepted {
				linked = rc
				ret.RecallID = rc.RecallID
			}
		}

		if err := s.recallRepo.CreateReturnTx(ctx, tx, &ret); err != nil {
			return err
		}

		if linked != nil {
			linked.Status = models.RecallStatusCompleted
			linked.CompletedAt = &now
			linked.ReturnUETR = ret.ReturnUETR
			if err := s.recallRepo.CompleteTx(ctx, tx, linked); err != nil {
				return err
			}
		}

		event := models.NewPaymentEvent(ret.OriginalUETR, models.EventReturnReceived, actor, map[string]any{
			"returnUetr": ret.ReturnUETR,
			"reasonCode": ret.ReturnReasonCode,
			"amount":     ret.ReturnAmount.String(),
			"currency":   ret.ReturnCurrency,
			"recallId":   ret.RecallID,
		}).WithMessage(models.MsgPacs004, rawXML)
		if err := s.eventRepo.AppendTx(ctx, tx, event); err != nil {
			return err
		}

		// статус читается под блокировкой: повторный или параллельный возврат
		// видит RETURNED и только записывается
		status, err := s.paymentRepo.GetActiveStatusForUpdateTx(ctx, tx, ret.OriginalUETR)
		switch {
		case errors.Is(err, custom_err.ErrNotFound):
			return nil
		case err != nil:
			return err
		case status != models.PaymentStatusCompleted:
			return nil
		}
		if err := s.paymentRepo.TransitionTx(ctx, tx, ret.OriginalUETR, models.PaymentStatusCompleted, models.PaymentStatusReturned, now); err != nil {
			return err
		}
		returned = true
		return s.eventRepo.AppendTx(ctx, tx, models.NewPaymentEvent(ret.OriginalUETR, models.EventPaymentReturned, actor, map[string]any{
			"returnUetr": ret.ReturnUETR,
		}))
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp := &models.ReturnResponse{
		OriginalUETR:     ret.OriginalUETR,
		ReturnUETR:       ret.ReturnUETR,
		Status:           "RETURN_INITIATED",
		ReturnReasonCode: ret.ReturnReasonCode,
		Message:          fmt.Sprintf("Payment return initiated for %s %s", ret.ReturnAmount.String(), ret.ReturnCurrency),
		ProcessedAt:      now,
	}
	if linked != nil {
		resp.RecallID = linked.RecallID
		resp.RecallStatus = linked.Status
		s.metrics.RecallTransition(string(linked.Status))
	}

	s.log.Info("возврат получен",
		slog.String("uetr", ret.OriginalUETR),
		slog.String("return_uetr", ret.ReturnUETR),
		slog.String("recall_id", resp.RecallID),
		slog.Bool("payment_returned", returned))

	return resp, nil
}

func (s *RecallService) QueryStatus(ctx context.Context, q models.StatusQuery, actor string) (*models.StatusQueryResponse, error) {
	return s.queryStatus(ctx, q, actor, "")
}

func (s *RecallService) QueryStatusXML(ctx context.Context, body []byte, actor string) (*models.StatusQueryResponse, error) {
	const op = "service.QueryStatusXML"

	if _, err := s.guard.check(ctx, body, models.MsgPacs028, actor); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	q, err := iso20022.ParsePacs028(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.queryStatus(ctx, *q, actor, string(body))
}

// queryStatus неизвестный UETR не ошибка: участнику советуют переотправить pacs.008
func (s *RecallService) queryStatus(ctx context.Context, q models.StatusQuery, actor, rawXML string) (*models.StatusQueryResponse, error) {
	const op = "service.QueryStatus"

	if q.OriginalUETR == "" {
		return nil, fmt.Errorf("%s: original UETR is required: %w", op, custom_err.ErrInvalidInput)
	}
	if q.QueryingPSP == "" {
		q.QueryingPSP = actor
	}

	now := s.now().UTC()
	resp := &models.StatusQueryResponse{
		OriginalUETR: q.OriginalUETR,
		Advice:       adviceNotFound,
		RespondedAt:  now,
	}

	payment, err := s.paymentRepo.GetByUETR(ctx, q.OriginalUETR)
	switch {
	case errors.Is(err, custom_err.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, err)
	default:
		resp.PaymentFound = true
		resp.CurrentStatus = payment.Status
		resp.StatusReasonCode = payment.StatusReasonCode
		updated := payment.UpdatedAt
		resp.LastStatusUpdateAt = &updated
		resp.Advice = adviceFound
	}

	if rawXML == "" {
		rawXML, err = iso20022.RenderPacs028(iso20022.StatusRequestParams{
			MessageID:    newMessageID("STSREQ"),
			CreatedAt:    now,
			RequestID:    newMessageID("REQ"),
			OriginalUETR: q.OriginalUETR,
			QueryingPSP:  q.QueryingPSP,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	event := models.NewPaymentEvent(q.OriginalUETR, models.EventStatusQueried, actor, map[string]any{
		"queryingPsp":  q.QueryingPSP,
		"queryReason":  q.QueryReason,
		"paymentFound": resp.PaymentFound,
	}).WithMessage(models.MsgPacs028, rawXML)
	if err := s.eventRepo.Append(ctx, event); err != nil {
		s.log.Error("failed to record status query",
			slog.String("uetr", q.OriginalUETR),
			slog.String("error", err.Error()))
	}

	return resp, nil
}

func (s *RecallService) GetRecall(ctx context.Context, uetr string) (*models.RecallCase, error) {
	const op = "service.GetRecall"

	rc, err := s.recallRepo.GetLatestByUETR(ctx, uetr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rc, nil
}

func (s *RecallService) ListRecalls(ctx context.Context, status models.RecallStatus, limit int) ([]models.RecallCase, error) {
	const op = "service.ListRecalls"

	if status != "" && !status.IsValid() {
		return nil, fmt.Errorf("%s: status %q: %w", op, status, custom_err.ErrInvalidInput)
	}
	limit, err := normalizeLimit(limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	recalls, err := s.recallRepo.List(ctx, status, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return recalls, nil
}

func (s *RecallService) ListReturns(ctx context.Context, limit int) ([]models.ReturnPayment, error) {
	const op = "service.ListReturns"

	limit, err := normalizeLimit(limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	returns, err := s.recallRepo.ListReturns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return returns, nil
}

// normalizeLimit 0 означает значение по умолчанию
func normalizeLimit(limit int) (int, error) {
	if limit == 0 {
		return defaultListLimit, nil
	}
	if limit < 1 || limit > maxListLimit {
		return 0, fmt.Errorf("limit %d out of range 1..%d: %w", limit, maxListLimit, custom_err.ErrInvalidInput)
	}
	return limit, nil
}
