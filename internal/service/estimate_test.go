package service

import (
	"context"
	"errors"
	"testing"

	"github.com/cleberrangel/houseforge-api/internal/estimator"
	"github.com/cleberrangel/houseforge-api/internal/metrics"
	"github.com/xuri/excelize/v2"
)

var goldenInput = estimator.Input{SquareFeet: 2000, Rooms: 4, Floors: 2, Bathrooms: 3, BudgetTier: "low"}

func TestSummarizeGoldenScenario(t *testing.T) {
	result, err := estimator.Estimate(goldenInput)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}

	sum := Summarize(result)
	if sum.BudgetTier != estimator.TierLow {
		t.Errorf("tier: got %q", sum.BudgetTier)
	}
	if sum.TotalCost != 3730680 || sum.LaborCost != 557280 || sum.OtherCost != 77400 {
		t.Errorf("costs: %+v", sum)
	}
	if sum.TotalDays != 291 || sum.Months != 9.7 {
		t.Errorf("duration: %d days, %v months", sum.TotalDays, sum.Months)
	}
	if sum.DistinctMaterials != 68 {
		t.Errorf("distinct materials: got %d", sum.DistinctMaterials)
	}
	if len(sum.Stages) != 9 || sum.Stages[0].Stage != estimator.StageFoundation || sum.Stages[0].Days != 45 {
		t.Errorf("stages: %+v", sum.Stages)
	}

	total := 0
	for _, s := range sum.Stages {
		total += s.Days
	}
	if total != sum.TotalDays {
		t.Errorf("stage days sum %d != total %d", total, sum.TotalDays)
	}
}

func TestEstimateServiceRecordsMetrics(t *testing.T) {
	svc := NewEstimateService()
	ctx := context.Background()
	before := metrics.Get().Snapshot().Estimates

	if _, err := svc.Estimate(ctx, "", goldenInput); err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	_, err := svc.Estimate(ctx, "", estimator.Input{SquareFeet: -1, Floors: 1})
	var verr *estimator.ValidationError
	if !errors.As(err, &verr) || verr.Field != "square_feet" {
		t.Fatalf("expected square_feet validation error, got %v", err)
	}

	after := metrics.Get().Snapshot().Estimates
	if after.Run-before.Run != 1 || after.Rejected-before.Rejected != 1 {
		t.Errorf("estimate counters: before %+v after %+v", before, after)
	}
}

func TestEstimateWorkbookSheets(t *testing.T) {
	svc := NewEstimateService()
	buf, err := svc.Export(context.Background(), "Casa da Serra", goldenInput)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := []string{SheetSummary, SheetMaterials, SheetCosts, SheetTimeline}
	if len(sheets) != len(want) {
		t.Fatalf("sheets: got %v", sheets)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Errorf("sheet %d: got %q, want %q", i, sheets[i], want[i])
		}
	}

	materials, err := f.GetRows(SheetMaterials)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(materials) != 69 {
		t.Errorf("materials rows: got %d, want header + 68", len(materials))
	}
	if materials[1][0] != StageLabel(estimator.StageFoundation) || materials[1][1] != "cement_bags" || materials[1][2] != "280" {
		t.Errorf("first material row: %v", materials[1])
	}

	costs, _ := f.GetRows(SheetCosts)
	last := costs[len(costs)-1]
	if last[0] != "Total" || len(last) != 4 {
		t.Fatalf("costs total row: %v", last)
	}

	timeline, _ := f.GetRows(SheetTimeline)
	total := timeline[len(timeline)-1]
	if total[0] != "Total" || total[1] != "291" {
		t.Errorf("timeline total row: %v", total)
	}
	// fundação vai do dia 1 ao 45
	if timeline[1][2] != "1" || timeline[1][3] != "45" {
		t.Errorf("foundation row: %v", timeline[1])
	}

	title, _ := f.GetCellValue(SheetSummary, "B2")
	if title != "Casa da Serra" {
		t.Errorf("summary title: got %q", title)
	}
}
