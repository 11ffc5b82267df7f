package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nexus-gateway/internal/api/middlew"
	"nexus-gateway/internal/custom_err"
	"nexus-gateway/internal/iso20022"
	"nexus-gateway/internal/models"
	"nexus-gateway/internal/service"
	"nexus-gateway/internal/storage/postgres"
	"nexus-gateway/pkg/response"
)

const testUETR = "91398cbd-0838-453f-b2c7-536e829f2b8e"

type handlerMocks struct {
	quotes   *MockQuotes
	payments *MockPayments
	recalls  *MockRecalls
	fees     *MockFees
	messages *MockMessages
}

func setupRouter() (*chi.Mux, *handlerMocks) {
	m := &handlerMocks{
		quotes:   new(MockQuotes),
		payments: new(MockPayments),
		recalls:  new(MockRecalls),
		fees:     new(MockFees),
		messages: new(MockMessages),
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	quoteHandler := NewQuoteHandler(m.quotes)
	feeHandler := NewFeeHandler(m.fees)
	paymentHandler := NewPaymentHandler(m.payments)
	recallHandler := NewRecallHandler(m.recalls)
	isoHandler := NewISO20022Handler(m.payments, m.recalls, m.messages)

	r := chi.NewRouter()
	r.Use(middlew.WithLogger(log))
	r.Use(middlew.WithParticipant)

	r.Get("/quotes", quoteHandler.GetQuotes)
	r.Get("/quotes/{quoteId}", quoteHandler.GetQuote)
	r.Get("/quotes/{quoteId}/intermediary-agents", quoteHandler.GetIntermediaryAgents)
	r.Get("/fees-and-amounts", feeHandler.FeesAndAmounts)
	r.Get("/pre-transaction-disclosure", feeHandler.PreTransactionDisclosure)
	r.Get("/payments/{uetr}/events", paymentHandler.ListEvents)
	r.Post("/recall", recallHandler.SubmitRecall)
	r.Post("/recall/{uetr}/respond", recallHandler.RespondRecall)
	r.Post("/investigation-resolution", recallHandler.ResolveInvestigation)
	r.Post("/payment-return", recallHandler.ReturnPayment)
	r.Post("/payment-status-query", recallHandler.QueryStatus)
	r.Get("/recalls", recallHandler.ListRecalls)
	r.Get("/recalls/{uetr}", recallHandler.GetRecall)
	r.Get("/returns", recallHandler.ListReturns)
	r.Post("/iso20022/pacs008", isoHandler.Pacs008)
	r.Post("/iso20022/pacs002", isoHandler.Pacs002)
	r.Post("/iso20022/camt056", isoHandler.Camt056)
	r.Post("/iso20022/camt029", isoHandler.Camt029)
	r.Post("/iso20022/pacs004", isoHandler.Pacs004)
	r.Post("/iso20022/pacs028", isoHandler.Pacs028)
	r.Post("/iso20022/acmt023", isoHandler.Acmt023)
	r.Post("/iso20022/acmt024", isoHandler.Acmt024)
	r.Post("/iso20022/pain001", isoHandler.Pain001)
	r.Post("/iso20022/camt103", isoHandler.Camt103)

	return r, m
}

func do(t *testing.T, r http.Handler, method, target string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()
	var resp response.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", fmt.Errorf("op: %w", custom_err.ErrNotFound), http.StatusNotFound, "not_found"},
		{"no rate", custom_err.ErrNoRateAvailable, http.StatusNotFound, "no_rate_available"},
		{"expired", fmt.Errorf("op: %w", custom_err.ErrExpired), http.StatusGone, "expired"},
		{"invalid input", fmt.Errorf("op: bad: %w", custom_err.ErrInvalidInput), http.StatusBadRequest, "invalid_input"},
		{"invalid amount", custom_err.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
		{"same currency", custom_err.ErrSameCurrency, http.StatusBadRequest, "same_currency"},
		{"state conflict", fmt.Errorf("op: %w", custom_err.ErrStateConflict), http.StatusConflict, "state_conflict"},
		{"duplicate request", custom_err.ErrDuplicateRequest, http.StatusConflict, "state_conflict"},
		{"recall mismatch", custom_err.ErrRecallMismatch, http.StatusConflict, "recall_mismatch"},
		{"malformed", fmt.Errorf("op: %w", custom_err.ErrStructuralInvalid), http.StatusBadRequest, "malformed_message"},
		{"unknown", fmt.Errorf("db down"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, m := setupRouter()
			m.quotes.On("GetQuote", mock.Anything, "q-1").Return(nil, tt.err)

			rec := do(t, r, http.MethodGet, "/quotes/q-1", nil, nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Error)
		})
	}
}

func TestServiceErrorMapping_StructuralDetails(t *testing.T) {
	r, m := setupRouter()
	structural := &custom_err.StructuralError{
		MessageType: models.MsgCamt056,
		Errors:      []string{"missing OrgnlUETR", "missing Case/Id"},
	}
	m.recalls.On("SubmitRecallXML", mock.Anything, mock.Anything, models.ActorNexus).
		Return(nil, fmt.Errorf("service.SubmitRecallXML: %w", structural))

	rec := do(t, r, http.MethodPost, "/iso20022/camt056", strings.NewReader("<Document/>"), nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "schema_validation_failed", resp.Error)
	assert.Equal(t, structural.Errors, resp.Details)
}

func TestGetQuotes(t *testing.T) {
	r, m := setupRouter()

	quotes := []models.Quote{{ID: "q-1", FXPID: "fxp-a", FinalRate: decimal.RequireFromString("25.37365")}}
	m.quotes.On("GetQuotes", mock.Anything, mock.MatchedBy(func(req models.QuoteRequest) bool {
		return req.SourceCountry == "SG" &&
			req.DestinationCountry == "TH" &&
			req.Amount.Equal(decimal.NewFromInt(1000)) &&
			req.AmountType == models.AmountTypeSource &&
			req.RequestingPSPBIC == "DBSSSGSG"
	})).Return(quotes, nil)

	rec := do(t, r, http.MethodGet, "/quotes?sourceCountry=SG&destinationCountry=TH&amount=1000", nil,
		map[string]string{middlew.ParticipantHeader: "dbsssgsg"})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.QuotesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Quotes, 1)
	assert.Equal(t, "q-1", resp.Quotes[0].ID)
	assert.True(t, resp.Quotes[0].FinalRate.Equal(decimal.RequireFromString("25.37365")))
	m.quotes.AssertExpectations(t)
}

func TestGetQuotes_DestinationAmountTypeAndPspParam(t *testing.T) {
	r, m := setupRouter()

	m.quotes.On("GetQuotes", mock.Anything, mock.MatchedBy(func(req models.QuoteRequest) bool {
		return req.AmountType == models.AmountTypeDestination && req.RequestingPSPBIC == "OCBCSGSG"
	})).Return([]models.Quote{}, nil)

	rec := do(t, r, http.MethodGet,
		"/quotes?sourceCountry=SG&destinationCountry=TH&amount=500&amountType=destination&pspBic=ocbcsgsg", nil,
		map[string]string{middlew.ParticipantHeader: "DBSSSGSG"})

	assert.Equal(t, http.StatusOK, rec.Code)
	m.quotes.AssertExpectations(t)
}

func TestGetQuotes_InvalidAmount(t *testing.T) {
	r, m := setupRouter()

	rec := do(t, r, http.MethodGet, "/quotes?sourceCountry=SG&destinationCountry=TH&amount=abc", nil, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_amount", decodeError(t, rec).Error)
	m.quotes.AssertNotCalled(t, "GetQuotes", mock.Anything, mock.Anything)
}

func TestGetIntermediaryAgents(t *testing.T) {
	r, m := setupRouter()

	agents := &models.IntermediaryAgentsResponse{
		QuoteID:            "q-1",
		IntermediaryAgent1: models.IntermediaryAgent{Role: models.RoleSourceSAP, BIC: "SAPASGSG"},
		IntermediaryAgent2: models.IntermediaryAgent{Role: models.RoleDestinationSAP, BIC: "SAPBTHBK"},
	}
	m.quotes.On("GetIntermediaryAgents", mock.Anything, "q-1").Return(agents, nil)

	rec := do(t, r, http.MethodGet, "/quotes/q-1/intermediary-agents", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.IntermediaryAgentsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "SAPASGSG", resp.IntermediaryAgent1.BIC)
	assert.Equal(t, models.RoleDestinationSAP, resp.IntermediaryAgent2.Role)
}

func TestInvalidParticipantHeader(t *testing.T) {
	r, m := setupRouter()

	rec := do(t, r, http.MethodGet, "/quotes/q-1", nil, map[string]string{middlew.ParticipantHeader: "not a bic"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_participant", decodeError(t, rec).Error)
	m.quotes.AssertNotCalled(t, "GetQuote", mock.Anything, mock.Anything)
}

func TestFees(t *testing.T) {
	t.Run("disclosure upper-cases fee type", func(t *testing.T) {
		r, m := setupRouter()
		m.fees.On("PreTransactionDisclosure", mock.Anything, "q-1", models.DisclosureOptions{FeeType: models.FeeTypeDeducted}).
			Return(&models.Disclosure{QuoteID: "q-1"}, nil)

		rec := do(t, r, http.MethodGet, "/pre-transaction-disclosure?quoteId=q-1&sourceFeeType=deducted", nil, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		m.fees.AssertExpectations(t)
	})

	t.Run("disclosure passes source psp fee", func(t *testing.T) {
		r, m := setupRouter()
		m.fees.On("PreTransactionDisclosure", mock.Anything, "q-1", mock.MatchedBy(func(opts models.DisclosureOptions) bool {
			return opts.FeeType == models.FeeTypeInvoiced && opts.SourcePSPFee != nil && opts.SourcePSPFee.String() == "2.75"
		})).Return(&models.Disclosure{QuoteID: "q-1"}, nil)

		rec := do(t, r, http.MethodGet, "/pre-transaction-disclosure?quoteId=q-1&sourceFeeType=INVOICED&sourcePspFee=2.75", nil, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		m.fees.AssertExpectations(t)
	})

	t.Run("disclosure with malformed source psp fee", func(t *testing.T) {
		r, m := setupRouter()

		rec := do(t, r, http.MethodGet, "/pre-transaction-disclosure?quoteId=q-1&sourcePspFee=two", nil, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid_amount", decodeError(t, rec).Error)
		m.fees.AssertNotCalled(t, "PreTransactionDisclosure", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("disclosure without quote id", func(t *testing.T) {
		r, m := setupRouter()

		rec := do(t, r, http.MethodGet, "/pre-transaction-disclosure", nil, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		m.fees.AssertNotCalled(t, "PreTransactionDisclosure", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("fees and amounts on expired quote", func(t *testing.T) {
		r, m := setupRouter()
		m.fees.On("FeesAndAmounts", mock.Anything, "q-1").Return(nil, custom_err.ErrExpired)

		rec := do(t, r, http.MethodGet, "/fees-and-amounts?quoteId=q-1", nil, nil)

		assert.Equal(t, http.StatusGone, rec.Code)
	})

	t.Run("fees and amounts", func(t *testing.T) {
		r, m := setupRouter()
		m.fees.On("FeesAndAmounts", mock.Anything, "q-1").Return(&models.FeeBreakdown{
			QuoteID:        "q-1",
			SourceAmount:   decimal.NewFromInt(1000),
			SourceCurrency: "SGD",
		}, nil)

		rec := do(t, r, http.MethodGet, "/fees-and-amounts?quoteId=q-1", nil, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp models.FeeBreakdown
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.True(t, resp.SourceAmount.Equal(decimal.NewFromInt(1000)))
	})
}

func TestListEvents(t *testing.T) {
	r, m := setupRouter()

	events := []models.PaymentEvent{
		{ID: 1, UETR: testUETR, Type: models.EventPaymentAccepted, Actor: "DBSSSGSG"},
		{ID: 2, UETR: testUETR, Type: models.EventCallbackDelivered, Actor: models.ActorNexus},
	}
	m.payments.On("ListEvents", mock.Anything, testUETR).Return(events, nil)

	rec := do(t, r, http.MethodGet, "/payments/"+testUETR+"/events", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.EventsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, testUETR, resp.UETR)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, models.EventCallbackDelivered, resp.Events[1].Type)
}

func TestPacs008_Accepted(t *testing.T) {
	r, m := setupRouter()

	body := "<Document>pacs008</Document>"
	result := &models.ProcessResult{
		Verdict:          models.Verdict{UETR: testUETR, Valid: true, Warnings: []string{"w"}},
		StatusReportXML:  "<Document>pacs002</Document>",
		ForwardedPacs008: "<Document>forwarded</Document>",
		CallbackURL:      "https://psp.example/cb",
	}
	m.payments.On("ProcessPacs008", mock.Anything, []byte(body), "https://psp.example/cb", "DBSSSGSG").Return(result, nil)

	rec := do(t, r, http.MethodPost, "/iso20022/pacs008?callback=https://psp.example/cb", strings.NewReader(body),
		map[string]string{middlew.ParticipantHeader: "DBSSSGSG"})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.PaymentAcceptedResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, testUETR, resp.UETR)
	assert.Equal(t, models.TxStatusAccepted, resp.Status)
	assert.Equal(t, "https://psp.example/cb", resp.CallbackEndpoint)
	assert.Contains(t, resp.Message, "callback")
	assert.Equal(t, result.ForwardedPacs008, resp.ForwardedMessage)
	assert.Equal(t, []string{"w"}, resp.Warnings)
	assert.WithinDuration(t, time.Now(), resp.ProcessedAt, time.Minute)
}

func TestPacs008_Rejected(t *testing.T) {
	r, m := setupRouter()

	result := &models.ProcessResult{
		Verdict: models.Verdict{
			UETR:             testUETR,
			StatusReasonCode: models.ReasonAmountLimitExceeded,
			Errors:           []string{"Amount exceeds scheme limit"},
		},
		StatusReportXML: "<Document>RJCT</Document>",
	}
	m.payments.On("ProcessPacs008", mock.Anything, mock.Anything, "", models.ActorNexus).Return(result, nil)

	t.Run("json", func(t *testing.T) {
		rec := do(t, r, http.MethodPost, "/iso20022/pacs008", strings.NewReader("<Document/>"), nil)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		var resp models.PaymentRejectedResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, models.TxStatusRejected, resp.Status)
		assert.Equal(t, models.ReasonAmountLimitExceeded, resp.StatusReasonCode)
		assert.Equal(t, result.Verdict.Errors, resp.Errors)
	})

	t.Run("xml", func(t *testing.T) {
		rec := do(t, r, http.MethodPost, "/iso20022/pacs008", strings.NewReader("<Document/>"),
			map[string]string{"Accept": "application/xml"})

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/xml")
		assert.Equal(t, result.StatusReportXML, rec.Body.String())
	})
}

func TestPacs008_BadRequests(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		body     string
		wantCode string
	}{
		{"relative callback", "/iso20022/pacs008?callback=/cb", "<Document/>", "invalid_callback"},
		{"ftp callback", "/iso20022/pacs008?callback=ftp://psp.example/cb", "<Document/>", "invalid_callback"},
		{"empty body", "/iso20022/pacs008", "", "invalid_body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, m := setupRouter()

			rec := do(t, r, http.MethodPost, tt.target, strings.NewReader(tt.body), nil)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Error)
			m.payments.AssertNotCalled(t, "ProcessPacs008", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestPacs002(t *testing.T) {
	r, m := setupRouter()

	m.payments.On("ProcessStatusReport", mock.Anything, []byte("<ok/>"), models.ActorNexus).
		Return(&models.Payment{UETR: testUETR, Status: models.PaymentStatusCompleted}, nil)
	m.payments.On("ProcessStatusReport", mock.Anything, []byte("<late/>"), models.ActorNexus).
		Return(nil, fmt.Errorf("service.ProcessStatusReport: %w", custom_err.ErrStateConflict))

	rec := do(t, r, http.MethodPost, "/iso20022/pacs002", strings.NewReader("<ok/>"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var payment models.Payment
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payment))
	assert.Equal(t, models.PaymentStatusCompleted, payment.Status)

	rec = do(t, r, http.MethodPost, "/iso20022/pacs002", strings.NewReader("<late/>"), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestISO20022RecallMessages(t *testing.T) {
	r, m := setupRouter()

	m.recalls.On("SubmitRecallXML", mock.Anything, mock.Anything, models.ActorNexus).
		Return(&models.RecallResponse{OriginalUETR: testUETR, RecallID: "AB12CD34", Status: models.RecallStatusPending}, nil)
	m.recalls.On("ResolveXML", mock.Anything, mock.Anything, models.ActorNexus).
		Return(nil, fmt.Errorf("service.Resolve: %w", custom_err.ErrRecallMismatch))
	m.recalls.On("ProcessReturnXML", mock.Anything, mock.Anything, models.ActorNexus).
		Return(&models.ReturnResponse{OriginalUETR: testUETR, Status: "RETURNED"}, nil)
	m.recalls.On("QueryStatusXML", mock.Anything, mock.Anything, models.ActorNexus).
		Return(&models.StatusQueryResponse{OriginalUETR: testUETR, PaymentFound: true}, nil)

	rec := do(t, r, http.MethodPost, "/iso20022/camt056", strings.NewReader("<camt056/>"), nil)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, r, http.MethodPost, "/iso20022/camt029", strings.NewReader("<camt029/>"), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "recall_mismatch", decodeError(t, rec).Error)

	rec = do(t, r, http.MethodPost, "/iso20022/pacs004", strings.NewReader("<pacs004/>"), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodPost, "/iso20022/pacs028", strings.NewReader("<pacs028/>"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var status models.StatusQueryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	assert.True(t, status.PaymentFound)

	m.recalls.AssertExpectations(t)
}

func TestISO20022Acknowledgements(t *testing.T) {
	tests := []struct {
		path   string
		mt     models.MessageType
		status string
	}{
		{"/iso20022/acmt023?acmt024Endpoint=https://pdo.example/acmt024", models.MsgAcmt023, "ACCEPTED"},
		{"/iso20022/acmt024", models.MsgAcmt024, "RECEIVED"},
		{"/iso20022/pain001", models.MsgPain001, "ACCEPTED"},
		{"/iso20022/camt103", models.MsgCamt103, "CREATED"},
	}

	for _, tt := range tests {
		t.Run(string(tt.mt), func(t *testing.T) {
			r, m := setupRouter()
			m.messages.On("Acknowledge", mock.Anything, []byte("<msg/>"), tt.mt, "DBSSSGSG").
				Return(&models.MessageAck{RequestID: "req-1", MessageType: tt.mt, Status: tt.status}, nil)

			rec := do(t, r, http.MethodPost, tt.path, strings.NewReader("<msg/>"),
				map[string]string{middlew.ParticipantHeader: "DBSSSGSG"})

			require.Equal(t, http.StatusOK, rec.Code)
			var ack models.MessageAck
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&ack))
			assert.Equal(t, "req-1", ack.RequestID)
			assert.Equal(t, tt.status, ack.Status)
			if tt.mt == models.MsgAcmt023 {
				assert.Equal(t, "https://pdo.example/acmt024", ack.CallbackEndpoint)
			} else {
				assert.Empty(t, ack.CallbackEndpoint)
			}
		})
	}
}

func TestAcmt023_RequiresCallbackEndpoint(t *testing.T) {
	r, m := setupRouter()

	for _, target := range []string{
		"/iso20022/acmt023",
		"/iso20022/acmt023?acmt024Endpoint=ftp://pdo.example/acmt024",
		"/iso20022/acmt023?acmt024Endpoint=not-a-url",
	} {
		rec := do(t, r, http.MethodPost, target, strings.NewReader("<msg/>"), nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Equal(t, "invalid_callback", decodeError(t, rec).Error)
	}
	m.messages.AssertNotCalled(t, "Acknowledge", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// eventRecorder сохраняет только Append, остальные методы журналу здесь не нужны
type eventRecorder struct {
	postgres.EventRepository
	events []*models.PaymentEvent
}

func (e *eventRecorder) Append(_ context.Context, event *models.PaymentEvent) error {
	e.events = append(e.events, event)
	return nil
}

func TestISO20022Acknowledgements_StructuralFailureRecorded(t *testing.T) {
	recorder := &eventRecorder{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewISO20022Handler(nil, nil, service.NewMessageService(recorder, iso20022.NewBasicValidator(), log))

	r := chi.NewRouter()
	r.Use(middlew.WithLogger(log))
	r.Use(middlew.WithParticipant)
	r.Post("/iso20022/pain001", h.Pain001)
	r.Post("/iso20022/camt103", h.Camt103)

	const uetrBody = `<Document xmlns="urn:iso:std:iso:20022:tech:xsd:pain.001.001.12"><CstmrCdtTrfInitn>` +
		`<PmtInf><CdtTrfTxInf><PmtId><UETR>` + testUETR + `</UETR></PmtId></CdtTrfTxInf></PmtInf>` +
		`</CstmrCdtTrfInitn></Document>`

	rec := do(t, r, http.MethodPost, "/iso20022/pain001", strings.NewReader(uetrBody), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "schema_validation_failed", decodeError(t, rec).Error)

	rec = do(t, r, http.MethodPost, "/iso20022/camt103", strings.NewReader("<Document><broken>"), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	require.Len(t, recorder.events, 2)
	assert.Equal(t, testUETR, recorder.events[0].UETR)
	assert.Equal(t, models.EventSchemaValidationFailed, recorder.events[0].Type)
	assert.Equal(t, uetrBody, recorder.events[0].Messages[models.MsgPain001])
	assert.True(t, strings.HasPrefix(recorder.events[1].UETR, "UNKNOWN-"))
	assert.Equal(t, models.EventSchemaValidationFailed, recorder.events[1].Type)
}

func TestSubmitRecall(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		r, m := setupRouter()
		m.recalls.On("SubmitRecall", mock.Anything, mock.MatchedBy(func(req models.RecallRequest) bool {
			return req.OriginalUETR == testUETR && req.CancellationReasonCode == models.CancelFraud
		}), "DBSSSGSG").Return(&models.RecallResponse{
			OriginalUETR: testUETR,
			RecallID:     "AB12CD34",
			Status:       models.RecallStatusPending,
		}, nil)

		body := `{"originalUetr":"` + testUETR + `","cancellationReasonCode":"FRAD","requestedBy":"DBSSSGSG"}`
		rec := do(t, r, http.MethodPost, "/recall", strings.NewReader(body),
			map[string]string{middlew.ParticipantHeader: "DBSSSGSG"})

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp models.RecallResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "AB12CD34", resp.RecallID)
		assert.Equal(t, models.RecallStatusPending, resp.Status)
	})

	t.Run("invalid json", func(t *testing.T) {
		r, m := setupRouter()

		rec := do(t, r, http.MethodPost, "/recall", strings.NewReader("{"), nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid_json", decodeError(t, rec).Error)
		m.recalls.AssertNotCalled(t, "SubmitRecall", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("open recall exists", func(t *testing.T) {
		r, m := setupRouter()
		m.recalls.On("SubmitRecall", mock.Anything, mock.Anything, models.ActorNexus).
			Return(nil, fmt.Errorf("service.SubmitRecall: %w", custom_err.ErrStateConflict))

		rec := do(t, r, http.MethodPost, "/recall", strings.NewReader(`{"originalUetr":"x"}`), nil)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestRespondRecall(t *testing.T) {
	r, m := setupRouter()

	m.recalls.On("Respond", mock.Anything, testUETR, models.RecallRespondRequest{Accept: true, Reason: "ok"}, "KASITHBK").
		Return(&models.RecallRespondResponse{OriginalUETR: testUETR, Status: models.RecallStatusAccepted}, nil)

	rec := do(t, r, http.MethodPost, "/recall/"+testUETR+"/respond", strings.NewReader(`{"accept":true,"reason":"ok"}`),
		map[string]string{middlew.ParticipantHeader: "KASITHBK"})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.RecallRespondResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, models.RecallStatusAccepted, resp.Status)
}

func TestResolveInvestigation_UpperCasesStatus(t *testing.T) {
	r, m := setupRouter()

	m.recalls.On("Resolve", mock.Anything, mock.MatchedBy(func(res models.InvestigationResolution) bool {
		return res.InvestigationStatus == models.InvestigationRejected && res.RecallID == "AB12CD34"
	}), models.ActorNexus).Return(&models.InvestigationResolutionResponse{
		OriginalUETR:        testUETR,
		InvestigationStatus: models.InvestigationRejected,
		Status:              models.RecallStatusRejected,
	}, nil)

	body := `{"originalUetr":"` + testUETR + `","recallId":"AB12CD34","investigationStatus":"rjcr"}`
	rec := do(t, r, http.MethodPost, "/investigation-resolution", strings.NewReader(body), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	m.recalls.AssertExpectations(t)
}

func TestReturnAndStatusQuery(t *testing.T) {
	r, m := setupRouter()

	m.recalls.On("ProcessReturn", mock.Anything, mock.MatchedBy(func(ret models.ReturnPayment) bool {
		return ret.OriginalUETR == testUETR && ret.ReturnAmount.Equal(decimal.RequireFromString("120.5"))
	}), models.ActorNexus).Return(&models.ReturnResponse{OriginalUETR: testUETR, Status: "RETURNED"}, nil)
	m.recalls.On("QueryStatus", mock.Anything, models.StatusQuery{OriginalUETR: testUETR, QueryingPSP: "DBSSSGSG"}, models.ActorNexus).
		Return(&models.StatusQueryResponse{OriginalUETR: testUETR, PaymentFound: false, Advice: "unknown"}, nil)

	body := `{"originalUetr":"` + testUETR + `","returnReasonCode":"CUST","returnAmount":"120.5","returnCurrency":"SGD"}`
	rec := do(t, r, http.MethodPost, "/payment-return", strings.NewReader(body), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodPost, "/payment-status-query",
		strings.NewReader(`{"originalUetr":"`+testUETR+`","queryingPsp":"DBSSSGSG"}`), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.StatusQueryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.PaymentFound)

	m.recalls.AssertExpectations(t)
}

func TestListRecallsAndReturns(t *testing.T) {
	t.Run("recalls filtered by status", func(t *testing.T) {
		r, m := setupRouter()
		m.recalls.On("ListRecalls", mock.Anything, models.RecallStatusPending, 10).
			Return([]models.RecallCase{{RecallID: "A"}, {RecallID: "B"}}, nil)

		rec := do(t, r, http.MethodGet, "/recalls?status=pending&limit=10", nil, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp models.RecallListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, 2, resp.Count)
	})

	t.Run("bad limit", func(t *testing.T) {
		r, m := setupRouter()

		rec := do(t, r, http.MethodGet, "/recalls?limit=ten", nil, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid_limit", decodeError(t, rec).Error)
		m.recalls.AssertNotCalled(t, "ListRecalls", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("returns with default limit", func(t *testing.T) {
		r, m := setupRouter()
		m.recalls.On("ListReturns", mock.Anything, 0).
			Return([]models.ReturnPayment{{OriginalUETR: testUETR}}, nil)

		rec := do(t, r, http.MethodGet, "/returns", nil, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp models.ReturnListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, 1, resp.Count)
	})

	t.Run("recall by uetr not found", func(t *testing.T) {
		r, m := setupRouter()
		m.recalls.On("GetRecall", mock.Anything, testUETR).Return(nil, custom_err.ErrNotFound)

		rec := do(t, r, http.MethodGet, "/recalls/"+testUETR, nil, nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
