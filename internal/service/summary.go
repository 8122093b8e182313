package service

import (
	"github.com/cleberrangel/houseforge-api/internal/estimator"
	"github.com/shopspring/decimal"
)

// StageDays é a duração de uma etapa do cronograma
type StageDays struct {
	Stage estimator.Stage `json:"stage"`
	Days  int             `json:"days"`
}

// Summary é o resumo de uma estimativa na faixa selecionada
type Summary struct {
	BudgetTier        estimator.BudgetTier `json:"budget_tier"`
	MaterialCost      float64              `json:"material_cost"`
	LaborCost         float64              `json:"labor_cost"`
	OtherCost         float64              `json:"other_cost"`
	TotalCost         float64              `json:"total_cost"`
	TotalDays         int                  `json:"total_days"`
	Months            float64              `json:"months"`
	DistinctMaterials int                  `json:"distinct_materials"`
	Stages            []StageDays          `json:"stages"`
	ModelVersion      string               `json:"model_version"`
}

var daysPerMonth = decimal.NewFromInt(30)

// Summarize resume a estimativa; meses = total_days/30 com uma casa decimal
func Summarize(r estimator.Result) Summary {
	selected := r.Selected()

	stages := make([]StageDays, 0, len(estimator.TimelineStages()))
	for _, stage := range estimator.TimelineStages() {
		days, _ := r.Timeline.Days(stage)
		stages = append(stages, StageDays{Stage: stage, Days: days})
	}

	months, _ := decimal.NewFromInt(int64(r.Timeline.TotalDays)).
		Div(daysPerMonth).
		RoundBank(1).
		Float64()

	return Summary{
		BudgetTier:        r.SelectedBudgetTier,
		MaterialCost:      selected.MaterialCost,
		LaborCost:         selected.LaborCost,
		OtherCost:         selected.OtherCost,
		TotalCost:         selected.TotalCost,
		TotalDays:         r.Timeline.TotalDays,
		Months:            months,
		DistinctMaterials: r.TotalDistinctMaterials,
		Stages:            stages,
		ModelVersion:      r.ModelVersion,
	}
}
