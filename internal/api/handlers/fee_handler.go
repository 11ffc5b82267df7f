package handlers

import (
	"net/http"
	"nexus-gateway/internal/api/middlew"
	"nexus-gateway/internal/models"
	"nexus-gateway/internal/service"
	"nexus-gateway/pkg/response"
	"strings"

	"github.com/shopspring/decimal"
)

type FeeHandler struct {
	service service.Fees
}

func NewFeeHandler(service service.Fees) *FeeHandler {
	return &FeeHandler{
		service: service,
	}
}

// FeesAndAmounts godoc
// @Summary      Комиссии и суммы по котировке
// @Tags         fees
// @Produce      json
// @Param        quoteId query string true "ID котировки"
// @Success      200 {object} models.FeeBreakdown
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      410 {object} response.ErrorResponse
// @Router       /fees-and-amounts [get]
func (h *FeeHandler) FeesAndAmounts(w http.ResponseWriter, r *http.Request) {
	const op = "handler.FeesAndAmounts"
	log := middlew.GetLogger(r.Context())

	quoteID := r.URL.Query().Get("quoteId")
	if quoteID == "" {
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_input", "quoteId is required")
		return
	}

	breakdown, err := h.service.FeesAndAmounts(r.Context(), quoteID)
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, breakdown)
}

// PreTransactionDisclosure godoc
// @Summary      Раскрытие условий до платежа
// @Description  Суммы списания и зачисления, комиссии и эффективный курс для отправителя
// @Tags         fees
// @Produce      json
// @Param        quoteId       query string true  "ID котировки"
// @Param        sourceFeeType query string false "INVOICED или DEDUCTED" default(DEDUCTED)
// @Param        sourcePspFee  query string false "Собственная комиссия PSP отправителя"
// @Success      200 {object} models.Disclosure
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      410 {object} response.ErrorResponse
// @Router       /pre-transaction-disclosure [get]
func (h *FeeHandler) PreTransactionDisclosure(w http.ResponseWriter, r *http.Request) {
	const op = "handler.PreTransactionDisclosure"
	log := middlew.GetLogger(r.Context())

	q := r.URL.Query()
	quoteID := q.Get("quoteId")
	if quoteID == "" {
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_input", "quoteId is required")
		return
	}
	opts := models.DisclosureOptions{
		FeeType: models.FeeType(strings.ToUpper(q.Get("sourceFeeType"))),
	}
	if raw := q.Get("sourcePspFee"); raw != "" {
		fee, err := decimal.NewFromString(raw)
		if err != nil {
			response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_amount", "sourcePspFee must be a decimal number")
			return
		}
		opts.SourcePSPFee = &fee
	}

	disclosure, err := h.service.PreTransactionDisclosure(r.Context(), quoteID, opts)
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, disclosure)
}
