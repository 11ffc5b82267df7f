package service

import (
	"fmt"
	"nexus-gateway/internal/config"
	"nexus-gateway/internal/custom_err"
	"nexus-gateway/internal/models"
	"strings"

	"github.com/shopspring/decimal"
)

// SchemeRule бизнес-правило схемы над разобранным pacs.008.
// nil означает, что правило выполнено.
type SchemeRule interface {
	Check(instr *models.Pacs008) *custom_err.SchemeViolation
}

// ChargeBearerRule ChrgBr, если указан, должен совпадать с кодом схемы
type ChargeBearerRule struct {
	Code string
}

func (r ChargeBearerRule) Check(instr *models.Pacs008) *custom_err.SchemeViolation {
	if instr.ChargeBearer == "" || instr.ChargeBearer == r.Code {
		return nil
	}
	return &custom_err.SchemeViolation{
		Message: fmt.Sprintf("Charge Bearer must be %s (Shared) for Nexus payments", r.Code),
	}
}

type AmountLimitRule struct {
	Limit decimal.Decimal
}

func (r AmountLimitRule) Check(instr *models.Pacs008) *custom_err.SchemeViolation {
	amount := instr.Amount()
	if !r.Limit.IsPositive() || !amount.GreaterThan(r.Limit) {
		return nil
	}
	return &custom_err.SchemeViolation{
		ReasonCode: models.ReasonAmountLimitExceeded,
		Message:    fmt.Sprintf("Amount %s exceeds IPS transaction limit (%s)", amount.String(), r.Limit.String()),
	}
}

// InsufficientFundsRule тестовый триггер: целая часть суммы оканчивается на Suffix
type InsufficientFundsRule struct {
	Suffix string
}

func (r InsufficientFundsRule) Check(instr *models.Pacs008) *custom_err.SchemeViolation {
	if r.Suffix == "" {
		return nil
	}
	amount := instr.Amount()
	if !strings.HasSuffix(amount.Truncate(0).String(), r.Suffix) {
		return nil
	}
	return &custom_err.SchemeViolation{
		ReasonCode: models.ReasonInsufficientFunds,
		Message:    fmt.Sprintf("Insufficient funds in source account for amount %s", amount.String()),
	}
}

// FirstViolation группа правил, срабатывает только первое нарушение
type FirstViolation []SchemeRule

func (g FirstViolation) Check(instr *models.Pacs008) *custom_err.SchemeViolation {
	for _, rule := range g {
		if v := rule.Check(instr); v != nil {
			return v
		}
	}
	return nil
}

// NewSchemeRules набор правил из конфигурации. Проверки лимитов сумм
// идут одной группой: превышение лимита перекрывает триггер AM04.
func NewSchemeRules(cfg config.SchemeConfig) []SchemeRule {
	amountRules := FirstViolation{AmountLimitRule{Limit: cfg.AmountLimit}}
	if cfg.DemoTriggers {
		amountRules = append(amountRules, InsufficientFundsRule{Suffix: cfg.InsufficientFundsSuffix})
	}

	return []SchemeRule{
		ChargeBearerRule{Code: cfg.ChargeBearer},
		amountRules,
	}
}
