package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AmountType string

const (
	AmountTypeSource      AmountType = "SOURCE"
	AmountTypeDestination AmountType = "DESTINATION"
)

func (a AmountType) IsValid() bool {
	return a == AmountTypeSource || a == AmountTypeDestination
}

type QuoteStatus string

const (
	QuoteStatusActive   QuoteStatus = "ACTIVE"
	QuoteStatusExpired  QuoteStatus = "EXPIRED"
	QuoteStatusConsumed QuoteStatus = "CONSUMED"
)

// Quote котировка FX провайдера с ограниченным сроком действия
type Quote struct {
	ID                    string          `json:"quoteId"`
	FXPID                 string          `json:"fxpId"`
	FXPBIC                string          `json:"fxpBic"`
	FXPName               string          `json:"fxpName,omitempty"`
	RequestingPSPBIC      string          `json:"requestingPspBic,omitempty"`
	SourceCountry         string          `json:"sourceCountry"`
	SourceCurrency        Currency        `json:"sourceCurrency"`
	DestinationCountry    string          `json:"destinationCountry"`
	DestinationCurrency   Currency        `json:"destinationCurrency"`
	RateKind              RateKind        `json:"rateKind"`
	BaseRate              decimal.Decimal `json:"baseRate"`
	BaseSpreadBps         int             `json:"baseSpreadBps"`
	TierImprovementBps    int             `json:"tierImprovementBps"`
	PSPImprovementBps     int             `json:"pspImprovementBps"`
	FinalRate             decimal.Decimal `json:"exchangeRate"`
	RequestedAmount       decimal.Decimal `json:"requestedAmount"`
	AmountType            AmountType      `json:"amountType"`
	SourceInterbankAmount decimal.Decimal `json:"sourceInterbankAmount"`
	DestInterbankAmount   decimal.Decimal `json:"destinationInterbankAmount"`
	CreditorAmount        decimal.Decimal `json:"creditorAccountAmount"`
	DestinationPSPFee     decimal.Decimal `json:"destinationPspFee"`
	CappedToMaxAmount     bool            `json:"cappedToMaxAmount"`
	Status                QuoteStatus     `json:"status"`
	CreatedAt             time.Time       `json:"createdAt"`
	ExpiresAt             time.Time       `json:"expiresAt"`
}

// FinalSpreadBps может быть отрицательным: улучшения не ограничиваются спредом
func (q *Quote) FinalSpreadBps() int {
	return q.BaseSpreadBps - q.TierImprovementBps - q.PSPImprovementBps
}

func (q *Quote) IsExpiredAt(now time.Time) bool {
	return now.After(q.ExpiresAt)
}

type QuoteRequest struct {
	SourceCountry      string
	DestinationCountry string
	Amount             decimal.Decimal
	AmountType         AmountType
	RequestingPSPBIC   string
}

type QuotesResponse struct {
	Quotes []Quote `json:"quotes"`
}

type IntermediaryAgentRole string

const (
	RoleSourceSAP      IntermediaryAgentRole = "SOURCE_SAP"
	RoleDestinationSAP IntermediaryAgentRole = "DESTINATION_SAP"
)

// IntermediaryAgent SAP, у которого FXP держит расчетный счет в валюте плеча
type IntermediaryAgent struct {
	Role      IntermediaryAgentRole `json:"role"`
	BIC       string                `json:"bic"`
	Name      string                `json:"name,omitempty"`
	Currency  Currency              `json:"currency"`
	AccountID string                `json:"accountId"`
}

type IntermediaryAgentsResponse struct {
	QuoteID            string            `json:"quoteId"`
	IntermediaryAgent1 IntermediaryAgent `json:"intermediaryAgent1"`
	IntermediaryAgent2 IntermediaryAgent `json:"intermediaryAgent2"`
}

// Reference data

type Country struct {
	Code      string          `json:"countryCode"`
	Currency  Currency        `json:"currency"`
	MaxAmount decimal.Decimal `json:"maxAmount"`
}

type FXP struct {
	ID   string `json:"fxpId"`
	BIC  string `json:"bic"`
	Name string `json:"name"`
}

type Tier struct {
	MinAmount      decimal.Decimal
	MaxAmount      *decimal.Decimal
	ImprovementBps int
}

type SAPAccount struct {
	FXPID     string
	Currency  Currency
	SAPBIC    string
	SAPName   string
	AccountID string
}
