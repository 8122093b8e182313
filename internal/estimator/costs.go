package estimator

import "github.com/shopspring/decimal"

// CostBreakdown é o orçamento de uma faixa
type CostBreakdown struct {
	StageBreakdown map[Stage]float64 `json:"stage_breakdown"`
	MaterialCost   float64           `json:"material_cost"`
	LaborCost      float64           `json:"labor_cost"`
	OtherCost      float64           `json:"other_cost"`
	TotalCost      float64           `json:"total_cost"`
}

// Costs contém sempre as três faixas, independente da faixa escolhida
type Costs struct {
	Low    CostBreakdown `json:"low"`
	Medium CostBreakdown `json:"medium"`
	High   CostBreakdown `json:"high"`
}

// For retorna o orçamento da faixa; desconhecidas retornam medium
func (c Costs) For(tier BudgetTier) CostBreakdown {
	switch tier {
	case TierLow:
		return c.Low
	case TierHigh:
		return c.High
	default:
		return c.Medium
	}
}

// computeCosts precifica etapas diretamente pela tabela de preços, sem
// relação com as quantidades de material calculadas.
func computeCosts(squareFeet float64, floors int) Costs {
	base := decimal.NewFromFloat(squareFeet).Mul(decimal.NewFromInt(int64(floors)))
	return Costs{
		Low:    tierCosts(base, TierLow),
		Medium: tierCosts(base, TierMedium),
		High:   tierCosts(base, TierHigh),
	}
}

func tierCosts(base decimal.Decimal, tier BudgetTier) CostBreakdown {
	breakdown := make(map[Stage]float64, 10)
	material := decimal.Zero

	for _, stage := range Stages() {
		subtotal := base.Mul(decimal.NewFromInt(StageRate(tier, stage)))
		breakdown[stage] = decimalToFloat(subtotal.RoundBank(2))
		material = material.Add(subtotal)
	}

	labor := material.Mul(laborRate)
	other := material.Mul(otherRate)
	total := material.Add(labor).Add(other)

	return CostBreakdown{
		StageBreakdown: breakdown,
		MaterialCost:   decimalToFloat(material.RoundBank(2)),
		LaborCost:      decimalToFloat(labor.RoundBank(2)),
		OtherCost:      decimalToFloat(other.RoundBank(2)),
		TotalCost:      decimalToFloat(total.RoundBank(2)),
	}
}
