package estimator

import "github.com/shopspring/decimal"

// ModelVersion identifica a geração das tabelas de coeficientes e preços.
// Deve ser incrementado sempre que qualquer tabela abaixo mudar, para que
// estimativas já persistidas possam ser distinguidas das novas.
const ModelVersion = "2024.3"

// Preço por (pé² × pavimento) de cada etapa, por faixa de orçamento.
// Somente leitura.
var stageRates = map[BudgetTier]map[Stage]int64{
	TierLow: {
		StageFoundation: 82, StageWalls: 67, StageFlooring: 101,
		StageRoofing: 118, StagePlumbing: 61, StageElectrical: 51,
		StageFinishing: 74, StageCarpentry: 135, StageExterior: 51,
		StageMiscellaneous: 34,
	},
	TierMedium: {
		StageFoundation: 120, StageWalls: 94, StageFlooring: 152,
		StageRoofing: 171, StagePlumbing: 94, StageElectrical: 85,
		StageFinishing: 118, StageCarpentry: 220, StageExterior: 85,
		StageMiscellaneous: 51,
	},
	TierHigh: {
		StageFoundation: 172, StageWalls: 138, StageFlooring: 220,
		StageRoofing: 242, StagePlumbing: 145, StageElectrical: 138,
		StageFinishing: 190, StageCarpentry: 321, StageExterior: 138,
		StageMiscellaneous: 85,
	},
}

// StageRate retorna o preço unitário de uma etapa. Faixas desconhecidas
// usam a tabela medium.
func StageRate(tier BudgetTier, stage Stage) int64 {
	rates, ok := stageRates[tier]
	if !ok {
		rates = stageRates[TierMedium]
	}
	return rates[stage]
}

var (
	// mão de obra: 18% do custo de material
	laborRate = decimal.RequireFromString("0.18")
	// licenças e vistorias: 2,5% do custo de material
	otherRate = decimal.RequireFromString("0.025")
)

// Divisores de área (pé² por dia) das etapas cuja duração depende da área
var timelineDivisors = map[Stage]int64{
	StageFoundation: 44,
	StageWalls:      36,
	StageFlooring:   57,
	StageRoofing:    67,
	StagePlumbing:   100,
	StageElectrical: 100,
	StageFinishing:  44,
	StageExterior:   167,
}

// dias de marcenaria por cômodo
const carpentryDaysPerRoom = 7
