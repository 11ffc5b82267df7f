package handlers

import (
	"net/http"
	"nexus-gateway/internal/api/middlew"
	"nexus-gateway/internal/models"
	"nexus-gateway/internal/service"
	"nexus-gateway/pkg/response"

	"github.com/go-chi/chi/v5"
)

type PaymentHandler struct {
	service service.Payments
}

func NewPaymentHandler(service service.Payments) *PaymentHandler {
	return &PaymentHandler{
		service: service,
	}
}

// ListEvents godoc
// @Summary      Журнал событий платежа
// @Description  События по UETR в порядке появления, с исходными и сформированными ISO 20022 сообщениями
// @Tags         payments
// @Produce      json
// @Param        uetr path string true "UETR"
// @Success      200 {object} models.EventsResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /payments/{uetr}/events [get]
func (h *PaymentHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	const op = "handler.ListEvents"
	log := middlew.GetLogger(r.Context())

	uetr := chi.URLParam(r, "uetr")

	events, err := h.service.ListEvents(r.Context(), uetr)
	if err != nil {
		writeServiceError(w, log, op, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, models.EventsResponse{
		UETR:   uetr,
		Count:  len(events),
		Events: events,
	})
}
