package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"nexus-gateway/internal/custom_err"
	"nexus-gateway/pkg/response"
)

// writeServiceError общая таблица ошибок сервисов -> HTTP статус
func writeServiceError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	var structural *custom_err.StructuralError
	if errors.As(err, &structural) {
		log.Warn("structural validation failed", slog.String("op", op), slog.String("message_type", string(structural.MessageType)))
		response.WriteJSONErrorDetails(w, log, http.StatusBadRequest, "schema_validation_failed",
			"Message failed structural validation for "+string(structural.MessageType), structural.Errors)
		return
	}

	switch {
	case errors.Is(err, custom_err.ErrStructuralInvalid):
		log.Warn("malformed message", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, "malformed_message", err.Error())
	case errors.Is(err, custom_err.ErrInvalidAmount):
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_amount", "Amount must be a positive decimal")
	case errors.Is(err, custom_err.ErrInvalidCurrency):
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_currency", "Invalid currency code")
	case errors.Is(err, custom_err.ErrSameCurrency):
		response.WriteJSONError(w, log, http.StatusBadRequest, "same_currency", "Source and destination currency are the same")
	case errors.Is(err, custom_err.ErrInvalidInput):
		log.Info("invalid input", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, custom_err.ErrNoRateAvailable):
		response.WriteJSONError(w, log, http.StatusNotFound, "no_rate_available", "No FX rate available for this corridor")
	case errors.Is(err, custom_err.ErrNotFound):
		response.WriteJSONError(w, log, http.StatusNotFound, "not_found", "Resource not found")
	case errors.Is(err, custom_err.ErrExpired):
		response.WriteJSONError(w, log, http.StatusGone, "expired", "Quote has expired")
	case errors.Is(err, custom_err.ErrRecallMismatch):
		log.Warn("recall id mismatch", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusConflict, "recall_mismatch", "Recall id does not match the open recall for this payment")
	case errors.Is(err, custom_err.ErrStateConflict), errors.Is(err, custom_err.ErrDuplicateRequest):
		log.Info("state conflict", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusConflict, "state_conflict", err.Error())
	default:
		log.Error("request failed", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "An internal error occurred")
	}
}
