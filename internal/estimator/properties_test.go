package estimator

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

var tierInputs = []string{"low", "medium", "high", "", "premium"}

// área em centésimos de pé² para manter o valor exato em decimal
func areaFromCents(n int) float64 {
	return float64(n) / 100
}

// **Feature: house-estimator, Property 1: Determinism**
// For any valid input, two calls produce byte-identical serialized results
func TestEstimateDeterminism(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("same input yields identical JSON", prop.ForAll(
		func(cents, rooms, floors, bathrooms, tierIdx int) bool {
			in := Input{
				SquareFeet: areaFromCents(cents),
				Rooms:      rooms,
				Floors:     floors,
				Bathrooms:  bathrooms,
				BudgetTier: tierInputs[tierIdx],
			}
			first, err := Estimate(in)
			if err != nil {
				t.Logf("Estimate failed: %v", err)
				return false
			}
			second, _ := Estimate(in)

			a, _ := json.Marshal(first)
			b, _ := json.Marshal(second)
			return string(a) == string(b)
		},
		gen.IntRange(1, 2000000),
		gen.IntRange(0, 12),
		gen.IntRange(1, 5),
		gen.IntRange(0, 8),
		gen.IntRange(0, len(tierInputs)-1),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// **Feature: house-estimator, Property 2: Monotonicity in area**
// Growing the area never shrinks any material quantity, cost or duration
func TestEstimateMonotonicInArea(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("larger area never lowers outputs", prop.ForAll(
		func(cents, extra, rooms, floors, tierIdx int) bool {
			base := Input{
				SquareFeet: areaFromCents(cents),
				Rooms:      rooms,
				Floors:     floors,
				Bathrooms:  1,
				BudgetTier: tierInputs[tierIdx],
			}
			bigger := base
			bigger.SquareFeet = areaFromCents(cents + extra)

			small, err1 := Estimate(base)
			large, err2 := Estimate(bigger)
			if err1 != nil || err2 != nil {
				return false
			}

			sm, lg := small.Materials.Map(), large.Materials.Map()
			for _, s := range Stages() {
				for name, q := range sm[s] {
					if lg[s][name] < q {
						t.Logf("%s.%s decreased: %v -> %v", s, name, q, lg[s][name])
						return false
					}
				}
			}

			for _, tier := range AllTiers() {
				sc, lc := small.Costs.For(tier), large.Costs.For(tier)
				if lc.MaterialCost < sc.MaterialCost || lc.LaborCost < sc.LaborCost ||
					lc.OtherCost < sc.OtherCost || lc.TotalCost < sc.TotalCost {
					t.Logf("%s costs decreased: %+v -> %+v", tier, sc, lc)
					return false
				}
				for _, s := range Stages() {
					if lc.StageBreakdown[s] < sc.StageBreakdown[s] {
						t.Logf("%s %s subtotal decreased: %v -> %v", tier, s, sc.StageBreakdown[s], lc.StageBreakdown[s])
						return false
					}
				}
			}

			for _, s := range TimelineStages() {
				sd, _ := small.Timeline.Days(s)
				ld, _ := large.Timeline.Days(s)
				if ld < sd {
					t.Logf("%s days decreased: %d -> %d", s, sd, ld)
					return false
				}
			}
			return large.Timeline.TotalDays >= small.Timeline.TotalDays
		},
		gen.IntRange(1, 1000000),
		gen.IntRange(0, 500000),
		gen.IntRange(0, 10),
		gen.IntRange(1, 4),
		gen.IntRange(0, len(tierInputs)-1),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// **Feature: house-estimator, Property 3: Tier ordering**
// For any input, low < medium < high on every cost figure
func TestCostTierOrdering(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("cost tiers are strictly ordered", prop.ForAll(
		func(cents, floors int) bool {
			costs := computeCosts(areaFromCents(cents), floors)

			low, med, high := costs.Low, costs.Medium, costs.High
			if !(low.MaterialCost < med.MaterialCost && med.MaterialCost < high.MaterialCost) {
				return false
			}
			if !(low.TotalCost < med.TotalCost && med.TotalCost < high.TotalCost) {
				return false
			}
			for _, s := range Stages() {
				if !(low.StageBreakdown[s] < med.StageBreakdown[s] && med.StageBreakdown[s] < high.StageBreakdown[s]) {
					t.Logf("stage %s out of order", s)
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 2000000),
		gen.IntRange(1, 5),
	))

	properties.Property("material quantities follow the quality factor", prop.ForAll(
		func(cents, rooms, floors, bathrooms int) bool {
			in := Input{SquareFeet: areaFromCents(cents), Rooms: rooms, Floors: floors, Bathrooms: bathrooms}

			var views []map[Stage]map[string]float64
			for _, tier := range AllTiers() {
				views = append(views, computeMaterials(in, tier).Map())
			}
			for i := 1; i < len(views); i++ {
				for _, s := range Stages() {
					for name, q := range views[i-1][s] {
						if views[i][s][name] < q {
							t.Logf("%s.%s: tier %d has %v, previous tier %v", s, name, i, views[i][s][name], q)
							return false
						}
					}
				}
			}
			return true
		},
		gen.IntRange(1, 2000000),
		gen.IntRange(0, 12),
		gen.IntRange(1, 5),
		gen.IntRange(0, 8),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// **Feature: house-estimator, Property 4: Cost aggregation identity**
// Material cost is the sum of the stage subtotals and labor/other are fixed
// fractions of it
func TestCostAggregationIdentity(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("labor and other derive from material cost", prop.ForAll(
		func(cents, floors int) bool {
			costs := computeCosts(areaFromCents(cents), floors)

			for _, tier := range AllTiers() {
				c := costs.For(tier)
				material := decimal.NewFromFloat(c.MaterialCost)

				sum := decimal.Zero
				for _, s := range Stages() {
					sum = sum.Add(decimal.NewFromFloat(c.StageBreakdown[s]))
				}
				if !sum.Equal(material) {
					t.Logf("%s: stage sum %s != material %s", tier, sum, material)
					return false
				}

				labor := decimalToFloat(material.Mul(laborRate).RoundBank(2))
				if labor != c.LaborCost {
					t.Logf("%s: labor %v, want %v", tier, c.LaborCost, labor)
					return false
				}
				other := decimalToFloat(material.Mul(otherRate).RoundBank(2))
				if other != c.OtherCost {
					t.Logf("%s: other %v, want %v", tier, c.OtherCost, other)
					return false
				}

				if math.Abs(c.TotalCost-(c.MaterialCost+c.LaborCost+c.OtherCost)) > 0.011 {
					t.Logf("%s: total %v far from parts", tier, c.TotalCost)
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 1000000),
		gen.IntRange(1, 5),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// **Feature: house-estimator, Property 5: Timeline additivity**
// Total days equals the sum of the nine scheduled stages
func TestTimelineAdditivity(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("total_days is the sum of stage durations", prop.ForAll(
		func(cents, rooms int) bool {
			tl := computeTimeline(areaFromCents(cents), rooms)

			sum := 0
			for _, s := range TimelineStages() {
				d, ok := tl.Days(s)
				if !ok || d < 0 {
					return false
				}
				sum += d
			}
			return sum == tl.TotalDays && tl.Carpentry == rooms*carpentryDaysPerRoom
		},
		gen.IntRange(1, 2000000),
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// **Feature: house-estimator, Property 6: Export view completeness**
// The export view always has the ten stages and the same key set
func TestMaterialsViewShape(t *testing.T) {
	reference := computeMaterials(Input{SquareFeet: 1000, Rooms: 1, Floors: 1}, TierMedium).Map()

	properties := gopter.NewProperties(nil)

	properties.Property("key set does not depend on input", prop.ForAll(
		func(cents, rooms, floors, tierIdx int) bool {
			in := Input{SquareFeet: areaFromCents(cents), Rooms: rooms, Floors: floors}
			view := computeMaterials(in, ParseBudgetTier(tierInputs[tierIdx])).Map()
			if len(view) != len(reference) {
				return false
			}
			for s, bundle := range reference {
				keys := make(map[string]bool)
				for k := range view[s] {
					keys[k] = true
				}
				want := make(map[string]bool)
				for k := range bundle {
					want[k] = true
				}
				if !reflect.DeepEqual(keys, want) {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 2000000),
		gen.IntRange(0, 12),
		gen.IntRange(1, 5),
		gen.IntRange(0, len(tierInputs)-1),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
