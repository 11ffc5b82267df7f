package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type ErrorResponse struct {
	Error   string   `json:"error" example:"invalid_input"`
	Message string   `json:"message,omitempty"`
	Details []string `json:"details,omitempty"`
}

func WriteJSONError(w http.ResponseWriter, log *slog.Logger, status int, errCode, message string) {
	WriteJSONErrorDetails(w, log, status, errCode, message, nil)
}

// WriteJSONErrorDetails ошибка со списком частных ошибок, например структурной проверки XML
func WriteJSONErrorDetails(w http.ResponseWriter, log *slog.Logger, status int, errCode, message string, details []string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: errCode, Message: message, Details: details}); err != nil {
		log.Error("ошибка при кодировании JSON-ошибки", slog.String("error", err.Error()))
	}
}

func WriteJSONSuccess(w http.ResponseWriter, log *slog.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Error("ошибка при кодировании JSON-ответа", slog.String("error", err.Error()))
		}
	}
}

// WriteXML готовый ISO 20022 документ
func WriteXML(w http.ResponseWriter, log *slog.Logger, status int, body string) {
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		log.Error("ошибка при записи XML-ответа", slog.String("error", err.Error()))
	}
}
