package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"nexus-gateway/internal/api/middlew"
	"nexus-gateway/internal/models"
	"nexus-gateway/internal/service"
	"nexus-gateway/pkg/response"
	"strings"
	"time"
)

const maxMessageBytes = 1 << 20

type ISO20022Handler struct {
	payments service.Payments
	recalls  service.Recalls
	messages service.Messages
}

func NewISO20022Handler(payments service.Payments, recalls service.Recalls, messages service.Messages) *ISO20022Handler {
	return &ISO20022Handler{
		payments: payments,
		recalls:  recalls,
		messages: messages,
	}
}

// readMessage тело запроса как есть; false, если ответ уже записан
func readMessage(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string) ([]byte, bool) {
	defer r.Body.Close()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxMessageBytes))
	if err != nil {
		log.Warn("failed to read message", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_body", "Failed to read request body")
		return nil, false
	}
	if len(body) == 0 {
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_body", "Request body is empty")
		return nil, false
	}
	return body, true
}

func validCallbackURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// wantsXML клиент просит сам pacs.002 вместо JSON-конверта
func wantsXML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/xml") || strings.Contains(accept, "text/xml")
}

// Pacs008 godoc
// @Summary      Отправить pacs.008
// @Description  Принимает платежную инструкцию. При ACCC статус-отчет pacs.002 доставляется на callback асинхронно.
// @Tags         iso20022
// @Accept       xml
// @Produce      json,xml
// @Param        callback query string false "URL для pacs.002"
// @Param        X-Participant-BIC header string false "BIC отправителя"
// @Param        message body string true "pacs.008 Document"
// @Success      200 {object} models.PaymentAcceptedResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      422 {object} models.PaymentRejectedResponse
// @Router       /iso20022/pacs008 [post]
func (h *ISO20022Handler) Pacs008(w http.ResponseWriter, r *http.Request) {
	const op = "handler.Pacs008"
	log := middlew.GetLogger(r.Context())

	callbackURL := r.URL.Query().Get("callback")
	if callbackURL != "" && !validCallbackURL(callbackURL) {
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_callback", "callback must be an absolute http(s) URL")
		return
	}

	body, ok := readMessage(w, r, log, op)
	if !ok {
		return
	}

	result, err := h.payments.ProcessPacs008(r.Context(), body, callbackURL, middlew.GetParticipant(r.Context()))
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	v := result.Verdict
	if wantsXML(r) {
		status := http.StatusOK
		if !v.Valid {
			status = http.StatusUnprocessableEntity
		}
		response.WriteXML(w, log, status, result.StatusReportXML)
		return
	}

	if !v.Valid {
		response.WriteJSONSuccess(w, log, http.StatusUnprocessableEntity, models.PaymentRejectedResponse{
			UETR:             v.UETR,
			Status:           models.TxStatusRejected,
			StatusReasonCode: v.StatusReasonCode,
			Errors:           v.Errors,
		})
		return
	}

	message := "Payment accepted and forwarded to destination"
	if result.CallbackURL != "" {
		message += "; pacs.002 will be delivered to callback"
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, models.PaymentAcceptedResponse{
		UETR:             v.UETR,
		Status:           models.TxStatusAccepted,
		Message:          message,
		CallbackEndpoint: result.CallbackURL,
		ProcessedAt:      time.Now().UTC(),
		Warnings:         v.Warnings,
		ForwardedMessage: result.ForwardedPacs008,
	})
}

// Pacs002 godoc
// @Summary      Статус-отчет от стороны получателя
// @Description  ACCC переводит принятый платеж в COMPLETED, остальные статусы только записываются
// @Tags         iso20022
// @Accept       xml
// @Produce      json
// @Param        message body string true "pacs.002 Document"
// @Success      200 {object} models.Payment
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /iso20022/pacs002 [post]
func (h *ISO20022Handler) Pacs002(w http.ResponseWriter, r *http.Request) {
	const op = "handler.Pacs002"
	log := middlew.GetLogger(r.Context())

	body, ok := readMessage(w, r, log, op)
	if !ok {
		return
	}

	payment, err := h.payments.ProcessStatusReport(r.Context(), body, middlew.GetParticipant(r.Context()))
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, payment)
}

// Camt056 godoc
// @Summary      Запрос на отзыв (camt.056)
// @Tags         iso20022
// @Accept       xml
// @Produce      json
// @Param        message body string true "camt.056 Document"
// @Success      201 {object} models.RecallResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /iso20022/camt056 [post]
func (h *ISO20022Handler) Camt056(w http.ResponseWriter, r *http.Request) {
	const op = "handler.Camt056"
	log := middlew.GetLogger(r.Context())

	body, ok := readMessage(w, r, log, op)
	if !ok {
		return
	}

	resp, err := h.recalls.SubmitRecallXML(r.Context(), body, middlew.GetParticipant(r.Context()))
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusCreated, resp)
}

// Camt029 godoc
// @Summary      Решение по расследованию (camt.029)
// @Tags         iso20022
// @Accept       xml
// @Produce      json
// @Param        message body string true "camt.029 Document"
// @Success      200 {object} models.InvestigationResolutionResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /iso20022/camt029 [post]
func (h *ISO20022Handler) Camt029(w http.ResponseWriter, r *http.Request) {
	const op = "handler.Camt029"
	log := middlew.GetLogger(r.Context())

	body, ok := readMessage(w, r, log, op)
	if !ok {
		return
	}

	resp, err := h.recalls.ResolveXML(r.Context(), body, middlew.GetParticipant(r.Context()))
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, resp)
}

// Pacs004 godoc
// @Summary      Возврат платежа (pacs.004)
// @Tags         iso20022
// @Accept       xml
// @Produce      json
// @Param        message body string true "pacs.004 Document"
// @Success      200 {object} models.ReturnResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /iso20022/pacs004 [post]
func (h *ISO20022Handler) Pacs004(w http.ResponseWriter, r *http.Request) {
	const op = "handler.Pacs004"
	log := middlew.GetLogger(r.Context())

	body, ok := readMessage(w, r, log, op)
	if !ok {
		return
	}

	resp, err := h.recalls.ProcessReturnXML(r.Context(), body, middlew.GetParticipant(r.Context()))
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, resp)
}

// Pacs028 godoc
// @Summary      Запрос статуса платежа (pacs.028)
// @Tags         iso20022
// @Accept       xml
// @Produce      json
// @Param        message body string true "pacs.028 Document"
// @Success      200 {object} models.StatusQueryResponse
// @Failure      400 {object} response.ErrorResponse
// @Router       /iso20022/pacs028 [post]
func (h *ISO20022Handler) Pacs028(w http.ResponseWriter, r *http.Request) {
	const op = "handler.Pacs028"
	log := middlew.GetLogger(r.Context())

	body, ok := readMessage(w, r, log, op)
	if !ok {
		return
	}

	resp, err := h.recalls.QueryStatusXML(r.Context(), body, middlew.GetParticipant(r.Context()))
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, resp)
}

func (h *ISO20022Handler) acknowledge(w http.ResponseWriter, r *http.Request, op string, mt models.MessageType, callbackURL string) {
	log := middlew.GetLogger(r.Context())

	body, ok := readMessage(w, r, log, op)
	if !ok {
		return
	}

	ack, err := h.messages.Acknowledge(r.Context(), body, mt, middlew.GetParticipant(r.Context()))
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}
	ack.CallbackEndpoint = callbackURL

	response.WriteJSONSuccess(w, log, http.StatusOK, ack)
}

// Acmt023 godoc
// @Summary      Запрос на разрешение прокси/счета (acmt.023)
// @Description  Строгая структурная проверка; ответ acmt.024 уходит на acmt024Endpoint
// @Tags         iso20022
// @Accept       xml
// @Produce      json
// @Param        acmt024Endpoint query string true "URL для acmt.024"
// @Param        message body string true "acmt.023 Document"
// @Success      200 {object} models.MessageAck
// @Failure      400 {object} response.ErrorResponse
// @Router       /iso20022/acmt023 [post]
func (h *ISO20022Handler) Acmt023(w http.ResponseWriter, r *http.Request) {
	const op = "handler.Acmt023"

	endpoint := r.URL.Query().Get("acmt024Endpoint")
	if !validCallbackURL(endpoint) {
		response.WriteJSONError(w, middlew.GetLogger(r.Context()), http.StatusBadRequest, "invalid_callback",
			"acmt024Endpoint must be an absolute http(s) URL")
		return
	}

	h.acknowledge(w, r, op, models.MsgAcmt023, endpoint)
}

// Acmt024 godoc
// @Summary      Отчет о разрешении прокси/счета (acmt.024)
// @Tags         iso20022
// @Accept       xml
// @Produce      json
// @Param        message body string true "acmt.024 Document"
// @Success      200 {object} models.MessageAck
// @Failure      400 {object} response.ErrorResponse
// @Router       /iso20022/acmt024 [post]
func (h *ISO20022Handler) Acmt024(w http.ResponseWriter, r *http.Request) {
	h.acknowledge(w, r, "handler.Acmt024", models.MsgAcmt024, "")
}

// Pain001 godoc
// @Summary      Инициация перевода клиентом SAP (pain.001)
// @Tags         iso20022
// @Accept       xml
// @Produce      json
// @Param        message body string true "pain.001 Document"
// @Success      200 {object} models.MessageAck
// @Failure      400 {object} response.ErrorResponse
// @Router       /iso20022/pain001 [post]
func (h *ISO20022Handler) Pain001(w http.ResponseWriter, r *http.Request) {
	h.acknowledge(w, r, "handler.Pain001", models.MsgPain001, "")
}

// Camt103 godoc
// @Summary      Резервирование ликвидности у SAP (camt.103)
// @Tags         iso20022
// @Accept       xml
// @Produce      json
// @Param        message body string true "camt.103 Document"
// @Success      200 {object} models.MessageAck
// @Failure      400 {object} response.ErrorResponse
// @Router       /iso20022/camt103 [post]
func (h *ISO20022Handler) Camt103(w http.ResponseWriter, r *http.Request) {
	h.acknowledge(w, r, "handler.Camt103", models.MsgCamt103, "")
}
