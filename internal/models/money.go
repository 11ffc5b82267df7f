package models

import (
	"regexp"

	"github.com/shopspring/decimal"
)

const (
	// AmountPlaces точность сумм во всех текущих коридорах
	AmountPlaces int32 = 2
	// RatePlaces точность хранения курса
	RatePlaces int32 = 8
	// EffectiveRatePlaces точность эффективного курса в раскрытии комиссий
	EffectiveRatePlaces int32 = 6
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Currency ISO 4217 код валюты
type Currency string

func (c Currency) IsValid() bool {
	return currencyPattern.MatchString(string(c))
}

// RoundAmount округляет сумму до минорных единиц валюты, половина к четному
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(AmountPlaces)
}

func RoundRate(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(RatePlaces)
}

// BpsToFraction переводит базисные пункты в долю: 30 -> 0.003
func BpsToFraction(bps int) decimal.Decimal {
	return decimal.NewFromInt(int64(bps)).Div(decimal.NewFromInt(10000))
}

// Clamp ограничивает значение диапазоном [lo, hi]
func Clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
