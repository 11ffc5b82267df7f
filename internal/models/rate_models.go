package models

import "github.com/shopspring/decimal"

type RateKind string

const (
	RateKindProvided  RateKind = "PROVIDED"
	RateKindSynthetic RateKind = "SYNTHETIC"
)

// Rate is either a ProvidedRate or a SyntheticRate.
type Rate interface {
	Kind() RateKind
	Provider() FXP
	Base() decimal.Decimal
	SpreadBps() int
	isRate()
}

// ProvidedRate is quoted by the FXP for the pair directly.
type ProvidedRate struct {
	FXP                 FXP
	SourceCurrency      Currency
	DestinationCurrency Currency
	BaseRate            decimal.Decimal
	BaseSpreadBps       int
}

func (r ProvidedRate) Kind() RateKind        { return RateKindProvided }
func (r ProvidedRate) Provider() FXP         { return r.FXP }
func (r ProvidedRate) Base() decimal.Decimal { return r.BaseRate }
func (r ProvidedRate) SpreadBps() int        { return r.BaseSpreadBps }
func (ProvidedRate) isRate()                 {}

// SyntheticRate is crossed through a pivot currency both legs of which the FXP quotes.
type SyntheticRate struct {
	FXP                 FXP
	SourceCurrency      Currency
	DestinationCurrency Currency
	Pivot               Currency
	PivotToSource       decimal.Decimal
	PivotToDestination  decimal.Decimal
	SourceLegSpreadBps  int
	DestLegSpreadBps    int
}

func (r SyntheticRate) Kind() RateKind { return RateKindSynthetic }
func (r SyntheticRate) Provider() FXP  { return r.FXP }

func (r SyntheticRate) Base() decimal.Decimal {
	if r.PivotToSource.IsZero() {
		return decimal.Zero
	}
	return r.PivotToDestination.DivRound(r.PivotToSource, 16)
}

// SpreadBps берет больший из спредов двух плеч
func (r SyntheticRate) SpreadBps() int {
	if r.SourceLegSpreadBps > r.DestLegSpreadBps {
		return r.SourceLegSpreadBps
	}
	return r.DestLegSpreadBps
}

func (SyntheticRate) isRate() {}
