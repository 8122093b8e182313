// Package estimator calcula materiais, custos e cronograma de uma obra a
// partir de cinco parâmetros. É uma função pura: não faz I/O, não lê o
// relógio e não guarda estado, podendo ser chamada concorrentemente.
package estimator

import (
	"math"
	"strings"
)

// Input são os parâmetros físicos da obra
type Input struct {
	SquareFeet float64 `json:"square_feet"`
	Rooms      int     `json:"rooms"`
	Floors     int     `json:"floors"`
	Bathrooms  int     `json:"bathrooms"`
	BudgetTier string  `json:"budget_tier"`
}

// Limites superiores das entradas. Com eles o maior custo possível
// (MaxSquareFeet × MaxFloors na faixa alta) cabe em NUMERIC(16,2) e nenhuma
// contagem inteira transborda.
const (
	MaxSquareFeet = 1_000_000
	MaxFloors     = 200
	MaxRooms      = 1_000
	MaxBathrooms  = 1_000
)

// Validate rejeita entradas que produziriam quantidades nulas, negativas ou
// fora da faixa representável
func (in Input) Validate() error {
	if math.IsNaN(in.SquareFeet) || math.IsInf(in.SquareFeet, 0) {
		return invalid("square_feet", "deve ser um número finito")
	}
	if in.SquareFeet <= 0 {
		return invalid("square_feet", "deve ser maior que zero, recebido: %g", in.SquareFeet)
	}
	if in.SquareFeet > MaxSquareFeet {
		return invalid("square_feet", "deve ser no máximo %d, recebido: %g", MaxSquareFeet, in.SquareFeet)
	}
	if in.Floors < 1 {
		return invalid("floors", "deve ser pelo menos 1, recebido: %d", in.Floors)
	}
	if in.Floors > MaxFloors {
		return invalid("floors", "deve ser no máximo %d, recebido: %d", MaxFloors, in.Floors)
	}
	if in.Rooms < 0 {
		return invalid("rooms", "não pode ser negativo, recebido: %d", in.Rooms)
	}
	if in.Rooms > MaxRooms {
		return invalid("rooms", "deve ser no máximo %d, recebido: %d", MaxRooms, in.Rooms)
	}
	if in.Bathrooms < 0 {
		return invalid("bathrooms", "não pode ser negativo, recebido: %d", in.Bathrooms)
	}
	if in.Bathrooms > MaxBathrooms {
		return invalid("bathrooms", "deve ser no máximo %d, recebido: %d", MaxBathrooms, in.Bathrooms)
	}
	return nil
}

// Result é o resultado completo de uma estimativa. É gerado uma vez e
// persistido pelo chamador; recalcular significa chamar Estimate de novo.
// SelectedBudgetTier é a faixa resolvida; RequestedBudgetTier guarda o texto
// recebido, mesmo quando desconhecido ou vazio.
type Result struct {
	Materials              Materials  `json:"materials"`
	Costs                  Costs      `json:"costs"`
	Timeline               Timeline   `json:"timeline"`
	SelectedBudgetTier     BudgetTier `json:"selected_budget_tier"`
	RequestedBudgetTier    string     `json:"requested_budget_tier"`
	TotalDistinctMaterials int        `json:"total_distinct_materials"`
	ModelVersion           string     `json:"model_version"`
}

// Selected retorna o orçamento da faixa escolhida
func (r Result) Selected() CostBreakdown {
	return r.Costs.For(r.SelectedBudgetTier)
}

// Estimate calcula materiais, custos das três faixas e cronograma.
// Retorna *ValidationError (errors.Is ErrInvalidInput) para entradas inválidas.
func Estimate(in Input) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}

	tier := ParseBudgetTier(in.BudgetTier)
	materials := computeMaterials(in, tier)

	return Result{
		Materials:              materials,
		Costs:                  computeCosts(in.SquareFeet, in.Floors),
		Timeline:               computeTimeline(in.SquareFeet, in.Rooms),
		SelectedBudgetTier:     tier,
		RequestedBudgetTier:    strings.TrimSpace(in.BudgetTier),
		TotalDistinctMaterials: materials.DistinctCount(),
		ModelVersion:           ModelVersion,
	}, nil
}
