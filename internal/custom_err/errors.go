package custom_err

import (
	"errors"
	"fmt"
	"nexus-gateway/internal/models"
)

var (
	// Lookup errors
	ErrNotFound        = errors.New("resource not found")
	ErrExpired         = errors.New("resource expired")
	ErrNoRateAvailable = errors.New("no rate available for corridor")

	// State errors
	ErrStateConflict    = errors.New("state conflict")
	ErrDuplicatePayment = errors.New("duplicate payment")
	ErrRecallMismatch   = errors.New("recall id mismatch")
	ErrTransitionDenied = errors.New("status transition not allowed")
	ErrDuplicateRequest = errors.New("duplicate request")

	// Message errors
	ErrStructuralInvalid = errors.New("structurally invalid message")
	ErrTransportFailure  = errors.New("callback transport failure")
	ErrTransformFailed   = errors.New("message transformation failed")

	// Validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidCurrency = errors.New("invalid currency")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrSameCurrency    = errors.New("source and destination currency are the same")
)

// SchemeViolation нарушение бизнес-правила схемы с кодом причины
type SchemeViolation struct {
	ReasonCode models.ReasonCode
	Message    string
}

func (e *SchemeViolation) Error() string {
	if e.ReasonCode == models.ReasonCodeNone {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.ReasonCode, e.Message)
}

// StructuralError ошибки структурной проверки сообщения
type StructuralError struct {
	MessageType models.MessageType
	Errors      []string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: %d structural error(s)", e.MessageType, len(e.Errors))
}

func (e *StructuralError) Unwrap() error {
	return ErrStructuralInvalid
}
