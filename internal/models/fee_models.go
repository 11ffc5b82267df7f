package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeType способ взимания комиссии PSP отправителя
type FeeType string

const (
	FeeTypeDeducted FeeType = "DEDUCTED"
	FeeTypeInvoiced FeeType = "INVOICED"
)

func (f FeeType) IsValid() bool {
	return f == FeeTypeDeducted || f == FeeTypeInvoiced
}

// DisclosureOptions параметры раскрытия со стороны PSP отправителя.
// SourcePSPFee заменяет стандартную комиссию, если PSP задает свою.
type DisclosureOptions struct {
	FeeType      FeeType
	SourcePSPFee *decimal.Decimal
}

// FeeFormula fee = clamp(Fixed + principal*Percent, Min, Max)
type FeeFormula struct {
	Currency Currency        `json:"currency"`
	Fixed    decimal.Decimal `json:"fixed"`
	Percent  decimal.Decimal `json:"percent"`
	Min      decimal.Decimal `json:"min"`
	Max      decimal.Decimal `json:"max"`
}

func (f FeeFormula) Apply(principal decimal.Decimal) decimal.Decimal {
	return Clamp(f.Fixed.Add(principal.Mul(f.Percent)), f.Min, f.Max)
}

// Disclosure раскрытие сумм и комиссий до авторизации платежа
type Disclosure struct {
	QuoteID                    string          `json:"quoteId"`
	AmountType                 AmountType      `json:"amountType"`
	ExchangeRate               decimal.Decimal `json:"exchangeRate"`
	QuoteValidUntil            time.Time       `json:"quoteValidUntil"`
	SourceInterbankAmount      decimal.Decimal `json:"sourceInterbankAmount"`
	DestinationInterbankAmount decimal.Decimal `json:"destinationInterbankAmount"`
	AmountToDebit              decimal.Decimal `json:"amountToDebit"`
	AmountToDebitCurrency      Currency        `json:"amountToDebitCurrency"`
	AmountToCredit             decimal.Decimal `json:"amountToCredit"`
	AmountToCreditCurrency     Currency        `json:"amountToCreditCurrency"`
	SourcePSPFee               decimal.Decimal `json:"sourcePspFee"`
	SourcePSPFeeCurrency       Currency        `json:"sourcePspFeeCurrency"`
	SourcePSPFeeType           FeeType         `json:"sourcePspFeeType"`
	DestinationPSPFee          decimal.Decimal `json:"destinationPspFee"`
	DestinationPSPFeeCurrency  Currency        `json:"destinationPspFeeCurrency"`
	FXSpreadBps                int             `json:"fxSpreadBps"`
	NexusSchemeFee             decimal.Decimal `json:"nexusSchemeFee"`
	NexusSchemeFeeCurrency     Currency        `json:"nexusSchemeFeeCurrency"`
	EffectiveExchangeRate      decimal.Decimal `json:"effectiveExchangeRate"`
	DefinedExchangeRate        decimal.Decimal `json:"definedExchangeRate"`
}

// FeeBreakdown разбивка комиссий по существующей котировке
type FeeBreakdown struct {
	QuoteID                  string          `json:"quoteId"`
	SourceAmount             decimal.Decimal `json:"sourceAmount"`
	SourceCurrency           Currency        `json:"sourceCurrency"`
	DestinationAmount        decimal.Decimal `json:"destinationAmount"`
	DestinationCurrency      Currency        `json:"destinationCurrency"`
	ExchangeRate             decimal.Decimal `json:"exchangeRate"`
	SourcePSPFee             decimal.Decimal `json:"sourcePspFee"`
	SourcePSPFeePercent      decimal.Decimal `json:"sourcePspFeePercent"`
	DestinationPSPFee        decimal.Decimal `json:"destinationPspFee"`
	DestinationPSPFeePercent decimal.Decimal `json:"destinationPspFeePercent"`
	FXSpread                 decimal.Decimal `json:"fxSpread"`
	FXSpreadBps              int             `json:"fxSpreadBps"`
	NexusSchemeFee           decimal.Decimal `json:"nexusSchemeFee"`
	TotalFees                decimal.Decimal `json:"totalFees"`
	TotalFeesCurrency        Currency        `json:"totalFeesCurrency"`
}
