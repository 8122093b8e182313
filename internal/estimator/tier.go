package estimator

import "strings"

// BudgetTier identifica a faixa de orçamento escolhida pelo cliente
type BudgetTier string

const (
	TierLow    BudgetTier = "low"
	TierMedium BudgetTier = "medium"
	TierHigh   BudgetTier = "high"
)

// AllTiers retorna as três faixas em ordem crescente de custo
func AllTiers() []BudgetTier {
	return []BudgetTier{TierLow, TierMedium, TierHigh}
}

// ParseBudgetTier normaliza o valor informado. Valores desconhecidos
// (inclusive vazio) caem em medium, sem erro.
func ParseBudgetTier(s string) BudgetTier {
	switch BudgetTier(strings.ToLower(strings.TrimSpace(s))) {
	case TierLow:
		return TierLow
	case TierHigh:
		return TierHigh
	default:
		return TierMedium
	}
}

// IsKnown indica se o valor é uma das três faixas reconhecidas
func (t BudgetTier) IsKnown() bool {
	return t == TierLow || t == TierMedium || t == TierHigh
}

// QualityFactor retorna o multiplicador de qualidade aplicado às quantidades
func (t BudgetTier) QualityFactor() float64 {
	switch t {
	case TierLow:
		return 0.40
	case TierHigh:
		return 0.60
	default:
		return 0.50
	}
}
