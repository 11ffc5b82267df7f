package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusAccepted  PaymentStatus = "ACCEPTED"
	PaymentStatusRejected  PaymentStatus = "REJECTED"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusReturned  PaymentStatus = "RETURNED"
)

// CanTransitionTo статусы меняются только вперед, кроме COMPLETED -> RETURNED
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	switch s {
	case PaymentStatusPending:
		return next == PaymentStatusAccepted || next == PaymentStatusRejected
	case PaymentStatusAccepted:
		return next == PaymentStatusCompleted
	case PaymentStatusCompleted:
		return next == PaymentStatusReturned
	default:
		return false
	}
}

// Payment одна попытка трансграничного платежа
type Payment struct {
	ID                  int64           `json:"-"`
	UETR                string          `json:"uetr"`
	MessageID           string          `json:"messageId,omitempty"`
	EndToEndID          string          `json:"endToEndId,omitempty"`
	QuoteID             string          `json:"quoteId,omitempty"`
	SourcePSPBIC        string          `json:"sourcePspBic,omitempty"`
	DestinationPSPBIC   string          `json:"destinationPspBic,omitempty"`
	DebtorName          string          `json:"debtorName,omitempty"`
	DebtorAccount       string          `json:"debtorAccount,omitempty"`
	CreditorName        string          `json:"creditorName,omitempty"`
	CreditorAccount     string          `json:"creditorAccount,omitempty"`
	SourceAmount        decimal.Decimal `json:"sourceAmount"`
	SourceCurrency      Currency        `json:"sourceCurrency,omitempty"`
	DestinationAmount   decimal.Decimal `json:"destinationAmount"`
	DestinationCurrency Currency        `json:"destinationCurrency,omitempty"`
	ExchangeRate        decimal.Decimal `json:"exchangeRate"`
	Status              PaymentStatus   `json:"status"`
	StatusReasonCode    ReasonCode      `json:"statusReasonCode,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
	CompletedAt         *time.Time      `json:"completedAt,omitempty"`
}

// Pacs008 поля pacs.008, которые нужны схеме
type Pacs008 struct {
	UETR                  string
	MessageID             string
	EndToEndID            string
	QuoteID               string
	ExchangeRate          *decimal.Decimal
	SettlementAmount      *decimal.Decimal
	SettlementCurrency    Currency
	InstructedAmount      *decimal.Decimal
	InstructedCurrency    Currency
	AcceptanceDateTime    string
	DebtorName            string
	DebtorAccount         string
	DebtorAgentBIC        string
	CreditorName          string
	CreditorAccount       string
	CreditorAgentBIC      string
	IntermediaryAgent1BIC string
	IntermediaryAgent2BIC string
	ChargeBearer          string
	RemittanceInfo        string
}

// Amount сумма, по которой проверяются лимиты схемы
func (p *Pacs008) Amount() decimal.Decimal {
	if p.SettlementAmount != nil {
		return *p.SettlementAmount
	}
	if p.InstructedAmount != nil {
		return *p.InstructedAmount
	}
	return decimal.Zero
}

// Verdict результат проверки инструкции
type Verdict struct {
	UETR             string
	UETRGenerated    bool
	Valid            bool
	StatusReasonCode ReasonCode
	Errors           []string
	Warnings         []string
	Quote            *Quote
}

type PaymentAcceptedResponse struct {
	UETR             string    `json:"uetr"`
	Status           string    `json:"status"`
	Message          string    `json:"message"`
	CallbackEndpoint string    `json:"callbackEndpoint,omitempty"`
	ProcessedAt      time.Time `json:"processedAt"`
	Warnings         []string  `json:"warnings,omitempty"`
	// ForwardedMessage pacs.008 в виде, в котором он уходит стороне получателя
	ForwardedMessage string    `json:"forwardedMessage,omitempty"`
}

type PaymentRejectedResponse struct {
	UETR             string     `json:"uetr"`
	Status           string     `json:"status"`
	StatusReasonCode ReasonCode `json:"statusReasonCode"`
	Errors           []string   `json:"errors"`
}

// StatusReport входящий pacs.002 от стороны получателя
type StatusReport struct {
	MessageID         string
	OriginalUETR      string
	TransactionStatus string
	ReasonCode        ReasonCode
	AdditionalInfo    string
}

// ProcessResult итог обработки pacs.008
type ProcessResult struct {
	Verdict          Verdict
	StatusReportXML  string
	ForwardedPacs008 string
	CallbackURL      string
}
