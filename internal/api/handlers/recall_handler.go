package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"nexus-gateway/internal/api/middlew"
	"nexus-gateway/internal/models"
	"nexus-gateway/internal/service"
	"nexus-gateway/pkg/response"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

type RecallHandler struct {
	service service.Recalls
}

func NewRecallHandler(service service.Recalls) *RecallHandler {
	return &RecallHandler{
		service: service,
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string, dst any) bool {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Warn("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_json", "Invalid JSON body")
		return false
	}
	return true
}

// queryLimit пустой limit означает значение по умолчанию сервиса
func queryLimit(w http.ResponseWriter, r *http.Request, log *slog.Logger) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
		return 0, false
	}
	return limit, true
}

// SubmitRecall godoc
// @Summary      Запросить отзыв платежа
// @Description  Отзыв возможен только для COMPLETED платежа, по одному UETR одновременно открыт один отзыв
// @Tags         recalls
// @Accept       json
// @Produce      json
// @Param        request body models.RecallRequest true "Запрос на отзыв"
// @Success      201 {object} models.RecallResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /recall [post]
func (h *RecallHandler) SubmitRecall(w http.ResponseWriter, r *http.Request) {
	const op = "handler.SubmitRecall"
	log := middlew.GetLogger(r.Context())

	var req models.RecallRequest
	if !decodeJSON(w, r, log, op, &req) {
		return
	}

	resp, err := h.service.SubmitRecall(r.Context(), req, middlew.GetParticipant(r.Context()))
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusCreated, resp)
}

// RespondRecall godoc
// @Summary      Ответ PSP получателя на отзыв
// @Tags         recalls
// @Accept       json
// @Produce      json
// @Param        uetr    path string                      true "UETR исходного платежа"
// @Param        request body models.RecallRespondRequest true "Решение"
// @Success      200 {object} models.RecallRespondResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /recall/{uetr}/respond [post]
func (h *RecallHandler) RespondRecall(w http.ResponseWriter, r *http.Request) {
	const op = "handler.RespondRecall"
	log := middlew.GetLogger(r.Context())

	var req models.RecallRespondRequest
	if !decodeJSON(w, r, log, op, &req) {
		return
	}

	resp, err := h.service.Respond(r.Context(), chi.URLParam(r, "uetr"), req, middlew.GetParticipant(r.Context()))
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, resp)
}

// ResolveInvestigation godoc
// @Summary      Решение по расследованию
// @Description  ACCP, RJCR, PDCR или UWFW по открытому отзыву
// @Tags         recalls
// @Accept       json
// @Produce      json
// @Param        request body models.InvestigationResolution true "Решение"
// @Success      200 {object} models.InvestigationResolutionResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /investigation-resolution [post]
func (h *RecallHandler) ResolveInvestigation(w http.ResponseWriter, r *http.Request) {
	const op = "handler.ResolveInvestigation"
	log := middlew.GetLogger(r.Context())

	var req models.InvestigationResolution
	if !decodeJSON(w, r, log, op, &req) {
		return
	}
	req.InvestigationStatus = models.InvestigationStatus(strings.ToUpper(string(req.InvestigationStatus)))

	resp, err := h.service.Resolve(r.Context(), req, middlew.GetParticipant(r.Context()))
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, resp)
}

// ReturnPayment godoc
// @Summary      Возврат средств
// @Tags         recalls
// @Accept       json
// @Produce      json
// @Param        request body models.ReturnPayment true "Возврат"
// @Success      200 {object} models.ReturnResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /payment-return [post]
func (h *RecallHandler) ReturnPayment(w http.ResponseWriter, r *http.Request) {
	const op = "handler.ReturnPayment"
	log := middlew.GetLogger(r.Context())

	var req models.ReturnPayment
	if !decodeJSON(w, r, log, op, &req) {
		return
	}

	resp, err := h.service.ProcessReturn(r.Context(), req, middlew.GetParticipant(r.Context()))
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, resp)
}

// QueryStatus godoc
// @Summary      Статус платежа по UETR
// @Tags         recalls
// @Accept       json
// @Produce      json
// @Param        request body models.StatusQuery true "Запрос"
// @Success      200 {object} models.StatusQueryResponse
// @Failure      400 {object} response.ErrorResponse
// @Router       /payment-status-query [post]
func (h *RecallHandler) QueryStatus(w http.ResponseWriter, r *http.Request) {
	const op = "handler.QueryStatus"
	log := middlew.GetLogger(r.Context())

	var req models.StatusQuery
	if !decodeJSON(w, r, log, op, &req) {
		return
	}

	resp, err := h.service.QueryStatus(r.Context(), req, middlew.GetParticipant(r.Context()))
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, resp)
}

// GetRecall godoc
// @Summary      Последний отзыв по UETR
// @Tags         recalls
// @Produce      json
// @Param        uetr path string true "UETR исходного платежа"
// @Success      200 {object} models.RecallCase
// @Failure      404 {object} response.ErrorResponse
// @Router       /recalls/{uetr} [get]
func (h *RecallHandler) GetRecall(w http.ResponseWriter, r *http.Request) {
	const op = "handler.GetRecall"
	log := middlew.GetLogger(r.Context())

	rc, err := h.service.GetRecall(r.Context(), chi.URLParam(r, "uetr"))
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, rc)
}

// ListRecalls godoc
// @Summary      Список отзывов
// @Tags         recalls
// @Produce      json
// @Param        status query string false "Фильтр по статусу" Enums(PENDING, ACCEPTED, REJECTED, PENDING_INFO, ROUTING_ERROR, COMPLETED)
// @Param        limit  query int    false "1..100" default(50)
// @Success      200 {object} models.RecallListResponse
// @Failure      400 {object} response.ErrorResponse
// @Router       /recalls [get]
func (h *RecallHandler) ListRecalls(w http.ResponseWriter, r *http.Request) {
	const op = "handler.ListRecalls"
	log := middlew.GetLogger(r.Context())

	limit, ok := queryLimit(w, r, log)
	if !ok {
		return
	}
	status := models.RecallStatus(strings.ToUpper(r.URL.Query().Get("status")))

	recalls, err := h.service.ListRecalls(r.Context(), status, limit)
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, models.RecallListResponse{Count: len(recalls), Recalls: recalls})
}

// ListReturns godoc
// @Summary      Список возвратов
// @Tags         recalls
// @Produce      json
// @Param        limit query int false "1..100" default(50)
// @Success      200 {object} models.ReturnListResponse
// @Failure      400 {object} response.ErrorResponse
// @Router       /returns [get]
func (h *RecallHandler) ListReturns(w http.ResponseWriter, r *http.Request) {
	const op = "handler.ListReturns"
	log := middlew.GetLogger(r.Context())

	limit, ok := queryLimit(w, r, log)
	if !ok {
		return
	}

	returns, err := h.service.ListReturns(r.Context(), limit)
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, models.ReturnListResponse{Count: len(returns), Returns: returns})
}
