package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/cleberrangel/houseforge-api/internal/estimator"
	"github.com/cleberrangel/houseforge-api/internal/service"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const lineWidth = 72

var printer = message.NewPrinter(language.BrazilianPortuguese)

func money(v float64) string {
	return printer.Sprintf("%.2f", v)
}

func rule(w io.Writer, ch string) {
	fmt.Fprintln(w, strings.Repeat(ch, lineWidth))
}

// writeSummary imprime o resumo da faixa selecionada
func writeSummary(w io.Writer, in estimator.Input, r estimator.Result) error {
	s := service.Summarize(r)

	rule(w, "=")
	fmt.Fprintf(w, "ESTIMATIVA DE OBRA - ORÇAMENTO %s\n", strings.ToUpper(service.TierLabel(s.BudgetTier)))
	rule(w, "=")
	fmt.Fprintf(w, "Obra: %g pés² | %d cômodos | %d andares | %d banheiros\n\n",
		in.SquareFeet, in.Rooms, in.Floors, in.Bathrooms)

	fmt.Fprintf(w, "%-40s %20s\n", "CUSTOS", "Valor")
	rule(w, "-")
	fmt.Fprintf(w, "%-40s %20s\n", "Materiais:", money(s.MaterialCost))
	fmt.Fprintf(w, "%-40s %20s\n", "Mão de obra:", money(s.LaborCost))
	fmt.Fprintf(w, "%-40s %20s\n", "Outros:", money(s.OtherCost))
	rule(w, "-")
	fmt.Fprintf(w, "%-40s %20s\n", "CUSTO TOTAL:", money(s.TotalCost))
	rule(w, "=")

	fmt.Fprintf(w, "\nCronograma: %d dias (~%.1f meses)\n", s.TotalDays, s.Months)
	fmt.Fprintf(w, "Tipos de material: %d\n\n", s.DistinctMaterials)

	fmt.Fprintln(w, "ETAPAS:")
	for _, st := range s.Stages {
		fmt.Fprintf(w, "  %-20s %4d dias\n", service.StageLabel(st.Stage), st.Days)
	}

	f := r.Materials.Foundation
	fmt.Fprintln(w, "\nFUNDAÇÃO:")
	fmt.Fprintf(w, "  %-20s %g\n", "Sacos de cimento", f.CementBags)
	fmt.Fprintf(w, "  %-20s %g\n", "Areia (pés³)", f.SandCuft)
	fmt.Fprintf(w, "  %-20s %g\n", "Aço (kg)", f.SteelKg)
	fmt.Fprintf(w, "  %-20s %d\n", "Blocos de concreto", f.ConcreteBlocks)
	rule(w, "=")
	return nil
}

// writeComparison imprime as três faixas lado a lado
func writeComparison(w io.Writer, in estimator.Input, r estimator.Result) error {
	tiers := estimator.AllTiers()

	fmt.Fprintf(w, "Obra: %g pés² | %d cômodos | %d andares | %d banheiros\n",
		in.SquareFeet, in.Rooms, in.Floors, in.Bathrooms)
	rule(w, "=")

	fmt.Fprintf(w, "%-14s", "")
	for _, t := range tiers {
		label := service.TierLabel(t)
		if t == r.SelectedBudgetTier {
			label += " *"
		}
		fmt.Fprintf(w, " %18s", label)
	}
	fmt.Fprintln(w)
	rule(w, "-")

	rows := []struct {
		label string
		value func(estimator.CostBreakdown) float64
	}{
		{"Materiais", func(b estimator.CostBreakdown) float64 { return b.MaterialCost }},
		{"Mão de obra", func(b estimator.CostBreakdown) float64 { return b.LaborCost }},
		{"Outros", func(b estimator.CostBreakdown) float64 { return b.OtherCost }},
		{"Total", func(b estimator.CostBreakdown) float64 { return b.TotalCost }},
	}
	for i, row := range rows {
		if i == len(rows)-1 {
			rule(w, "-")
		}
		fmt.Fprintf(w, "%-14s", row.label)
		for _, t := range tiers {
			fmt.Fprintf(w, " %18s", money(row.value(r.Costs.For(t))))
		}
		fmt.Fprintln(w)
	}
	rule(w, "=")
	fmt.Fprintf(w, "Cronograma: %d dias em todas as faixas\n", r.Timeline.TotalDays)
	return nil
}
