package handlers

import (
	"log/slog"
	"net/http"
	"nexus-gateway/internal/api/middlew"
	"nexus-gateway/internal/models"
	"nexus-gateway/internal/service"
	"nexus-gateway/pkg/response"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type QuoteHandler struct {
	service service.Quotes
}

func NewQuoteHandler(service service.Quotes) *QuoteHandler {
	return &QuoteHandler{
		service: service,
	}
}

// GetQuotes godoc
// @Summary      Запросить котировки
// @Description  Котировки всех FXP для коридора. amountType=SOURCE фиксирует сумму списания, DESTINATION сумму зачисления.
// @Tags         quotes
// @Produce      json
// @Param        sourceCountry       query string true  "Страна отправителя"  example(SG)
// @Param        destinationCountry  query string true  "Страна получателя"   example(TH)
// @Param        amount              query string true  "Сумма"               example(1000)
// @Param        amountType          query string false "SOURCE или DESTINATION" default(SOURCE)
// @Param        pspBic              query string false "BIC PSP отправителя"
// @Success      200 {object} models.QuotesResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /quotes [get]
func (h *QuoteHandler) GetQuotes(w http.ResponseWriter, r *http.Request) {
	const op = "handler.GetQuotes"
	log := middlew.GetLogger(r.Context())

	q := r.URL.Query()

	amount, err := decimal.NewFromString(q.Get("amount"))
	if err != nil {
		log.Warn("invalid amount", slog.String("op", op), slog.String("amount", q.Get("amount")))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_amount", "amount must be a decimal number")
		return
	}

	amountType := models.AmountType(strings.ToUpper(q.Get("amountType")))
	if amountType == "" {
		amountType = models.AmountTypeSource
	}

	pspBIC := q.Get("pspBic")
	if pspBIC == "" {
		if p := middlew.GetParticipant(r.Context()); p != models.ActorNexus {
			pspBIC = p
		}
	}

	req := models.QuoteRequest{
		SourceCountry:      q.Get("sourceCountry"),
		DestinationCountry: q.Get("destinationCountry"),
		Amount:             amount,
		AmountType:         amountType,
		RequestingPSPBIC:   strings.ToUpper(pspBIC),
	}

	quotes, err := h.service.GetQuotes(r.Context(), req)
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, models.QuotesResponse{Quotes: quotes})
}

// GetQuote godoc
// @Summary      Котировка по id
// @Tags         quotes
// @Produce      json
// @Param        quoteId path string true "ID котировки"
// @Success      200 {object} models.Quote
// @Failure      404 {object} response.ErrorResponse
// @Failure      410 {object} response.ErrorResponse
// @Router       /quotes/{quoteId} [get]
func (h *QuoteHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	const op = "handler.GetQuote"
	log := middlew.GetLogger(r.Context())

	quote, err := h.service.GetQuote(r.Context(), chi.URLParam(r, "quoteId"))
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, quote)
}

// GetIntermediaryAgents godoc
// @Summary      Посредники для pacs.008
// @Description  SAP исходного и целевого плеча (IntrmyAgt1 и IntrmyAgt2) для выбранной котировки
// @Tags         quotes
// @Produce      json
// @Param        quoteId path string true "ID котировки"
// @Success      200 {object} models.IntermediaryAgentsResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      410 {object} response.ErrorResponse
// @Router       /quotes/{quoteId}/intermediary-agents [get]
func (h *QuoteHandler) GetIntermediaryAgents(w http.ResponseWriter, r *http.Request) {
	const op = "handler.GetIntermediaryAgents"
	log := middlew.GetLogger(r.Context())

	agents, err := h.service.GetIntermediaryAgents(r.Context(), chi.URLParam(r, "quoteId"))
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, agents)
}
