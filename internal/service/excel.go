package service

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/cleberrangel/houseforge-api/internal/estimator"
	"github.com/xuri/excelize/v2"
)

// Nomes das abas da planilha de estimativa
const (
	SheetSummary   = "Resumo"
	SheetMaterials = "Materiais"
	SheetCosts     = "Custos"
	SheetTimeline  = "Cronograma"
)

var stageLabels = map[estimator.Stage]string{
	estimator.StageFoundation:    "Fundação",
	estimator.StageWalls:         "Alvenaria",
	estimator.StageFlooring:      "Pisos e lajes",
	estimator.StageRoofing:       "Cobertura",
	estimator.StagePlumbing:      "Hidráulica",
	estimator.StageElectrical:    "Elétrica",
	estimator.StageFinishing:     "Acabamento",
	estimator.StageCarpentry:     "Marcenaria",
	estimator.StageExterior:      "Área externa",
	estimator.StageMiscellaneous: "Diversos",
}

var tierLabels = map[estimator.BudgetTier]string{
	estimator.TierLow:    "Econômico",
	estimator.TierMedium: "Padrão",
	estimator.TierHigh:   "Alto padrão",
}

// StageLabel retorna o nome de exibição da etapa
func StageLabel(s estimator.Stage) string {
	if label, ok := stageLabels[s]; ok {
		return label
	}
	return string(s)
}

// TierLabel retorna o nome de exibição da faixa
func TierLabel(t estimator.BudgetTier) string {
	if label, ok := tierLabels[t]; ok {
		return label
	}
	return string(t)
}

type workbookStyles struct {
	header int
	odd    int
	even   int
	money  int
}

// EstimateWorkbook gera a planilha da estimativa com as abas de resumo,
// materiais, custos por faixa e cronograma
func EstimateWorkbook(title string, in estimator.Input, r estimator.Result) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return nil, fmt.Errorf("renomear sheet: %w", err)
	}
	for _, name := range []string{SheetMaterials, SheetCosts, SheetTimeline} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("criar sheet %s: %w", name, err)
		}
	}

	styles, err := newWorkbookStyles(f)
	if err != nil {
		return nil, fmt.Errorf("criar estilos: %w", err)
	}

	if err := writeSummarySheet(f, styles, title, in, r); err != nil {
		return nil, fmt.Errorf("escrever resumo: %w", err)
	}
	if err := writeMaterialsSheet(f, styles, r.Materials); err != nil {
		return nil, fmt.Errorf("escrever materiais: %w", err)
	}
	if err := writeCostsSheet(f, styles, r.Costs); err != nil {
		return nil, fmt.Errorf("escrever custos: %w", err)
	}
	if err := writeTimelineSheet(f, styles, r.Timeline); err != nil {
		return nil, fmt.Errorf("escrever cronograma: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("escrever buffer: %w", err)
	}
	return buf, nil
}

func newWorkbookStyles(f *excelize.File) (workbookStyles, error) {
	var s workbookStyles
	var err error

	s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Size:  11,
			Color: "FFFFFF",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"4472C4"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: cellBorder("000000"),
	})
	if err != nil {
		return s, err
	}

	s.odd, err = f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"F2F2F2"},
			Pattern: 1,
		},
		Border: cellBorder("D9D9D9"),
	})
	if err != nil {
		return s, err
	}

	s.even, err = f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"FFFFFF"},
			Pattern: 1,
		},
		Border: cellBorder("D9D9D9"),
	})
	if err != nil {
		return s, err
	}

	numFmt := "#,##0.00"
	s.money, err = f.NewStyle(&excelize.Style{
		CustomNumFmt: &numFmt,
		Border:       cellBorder("D9D9D9"),
	})
	return s, err
}

func cellBorder(color string) []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: color, Style: 1},
		{Type: "top", Color: color, Style: 1},
		{Type: "bottom", Color: color, Style: 1},
		{Type: "right", Color: color, Style: 1},
	}
}

// writeRow escreve uma linha a partir da coluna A
func writeRow(f *excelize.File, sheet string, row int, style int, values ...interface{}) error {
	for col, value := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}

func rowStyle(s workbookStyles, i int) int {
	if i%2 == 1 {
		return s.odd
	}
	return s.even
}

func setWidths(f *excelize.File, sheet string, widths ...float64) error {
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, s workbookStyles, title string, in estimator.Input, r estimator.Result) error {
	sum := Summarize(r)
	// títulos são gravados com HTML escapado; a planilha mostra o texto original
	title = html.UnescapeString(title)
	if strings.TrimSpace(title) == "" {
		title = "Estimativa de obra"
	}

	if err := writeRow(f, SheetSummary, 1, s.header, "Item", "Valor"); err != nil {
		return err
	}

	rows := [][2]interface{}{
		{"Obra", title},
		{"Área (sq ft)", in.SquareFeet},
		{"Cômodos", in.Rooms},
		{"Pavimentos", in.Floors},
		{"Banheiros", in.Bathrooms},
		{"Faixa de orçamento", TierLabel(sum.BudgetTier)},
		{"Custo de materiais", sum.MaterialCost},
		{"Mão de obra", sum.LaborCost},
		{"Outros custos", sum.OtherCost},
		{"Custo total", sum.TotalCost},
		{"Prazo (dias)", sum.TotalDays},
		{"Prazo (meses)", sum.Months},
		{"Materiais distintos", sum.DistinctMaterials},
		{"Versão do modelo", sum.ModelVersion},
	}
	for i, row := range rows {
		if err := writeRow(f, SheetSummary, i+2, rowStyle(s, i), row[0], row[1]); err != nil {
			return err
		}
	}
	return setWidths(f, SheetSummary, 24, 30)
}

func writeMaterialsSheet(f *excelize.File, s workbookStyles, m estimator.Materials) error {
	if err := writeRow(f, SheetMaterials, 1, s.header, "Etapa", "Material", "Quantidade", "Tipo"); err != nil {
		return err
	}

	row := 2
	for _, stage := range estimator.Stages() {
		for _, item := range m.Stage(stage).Items() {
			kind := "medida"
			if item.Count {
				kind = "unidades"
			}
			if err := writeRow(f, SheetMaterials, row, rowStyle(s, row), StageLabel(stage), item.Name, item.Quantity, kind); err != nil {
				return err
			}
			row++
		}
	}
	return setWidths(f, SheetMaterials, 18, 26, 14, 12)
}

func writeCostsSheet(f *excelize.File, s workbookStyles, c estimator.Costs) error {
	header := []interface{}{"Etapa"}
	for _, tier := range estimator.AllTiers() {
		header = append(header, TierLabel(tier))
	}
	if err := writeRow(f, SheetCosts, 1, s.header, header...); err != nil {
		return err
	}

	row := 2
	write := func(label string, value func(estimator.CostBreakdown) float64) error {
		values := []interface{}{label}
		for _, tier := range estimator.AllTiers() {
			values = append(values, value(c.For(tier)))
		}
		if err := writeRow(f, SheetCosts, row, s.money, values...); err != nil {
			return err
		}
		row++
		return nil
	}

	for _, stage := range estimator.Stages() {
		stage := stage
		if err := write(StageLabel(stage), func(b estimator.CostBreakdown) float64 { return b.StageBreakdown[stage] }); err != nil {
			return err
		}
	}
	totals := []struct {
		label string
		value func(estimator.CostBreakdown) float64
	}{
		{"Materiais", func(b estimator.CostBreakdown) float64 { return b.MaterialCost }},
		{"Mão de obra", func(b estimator.CostBreakdown) float64 { return b.LaborCost }},
		{"Outros", func(b estimator.CostBreakdown) float64 { return b.OtherCost }},
		{"Total", func(b estimator.CostBreakdown) float64 { return b.TotalCost }},
	}
	for _, t := range totals {
		if err := write(t.label, t.value); err != nil {
			return err
		}
	}
	return setWidths(f, SheetCosts, 18, 18, 18, 18)
}

func writeTimelineSheet(f *excelize.File, s workbookStyles, t estimator.Timeline) error {
	if err := writeRow(f, SheetTimeline, 1, s.header, "Etapa", "Dias", "Início (dia)", "Fim (dia)"); err != nil {
		return err
	}

	// etapas sequenciais: cada uma começa no dia seguinte ao fim da anterior
	elapsed := 0
	row := 2
	for _, stage := range estimator.TimelineStages() {
		days, _ := t.Days(stage)
		start := elapsed + 1
		elapsed += days
		if err := writeRow(f, SheetTimeline, row, rowStyle(s, row), StageLabel(stage), days, start, elapsed); err != nil {
			return err
		}
		row++
	}
	if err := writeRow(f, SheetTimeline, row, s.header, "Total", t.TotalDays, "", ""); err != nil {
		return err
	}
	return setWidths(f, SheetTimeline, 18, 10, 14, 14)
}
