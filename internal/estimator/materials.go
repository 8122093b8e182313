package estimator

import "math"

// Item é uma linha da lista de materiais de uma etapa
type Item struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	// Count indica unidades discretas (tijolos, portas, louças)
	Count bool `json:"count"`
}

func quantity(name string, v float64) Item { return Item{Name: name, Quantity: v} }
func units(name string, v int) Item { return Item{Name: name, Quantity: float64(v), Count: true} }

// Bundle é a visão exportável de uma etapa de materiais
type Bundle interface {
	Items() []Item
}

// BundleMap converte uma etapa no formato {material: quantidade}
func BundleMap(b Bundle) map[string]float64 {
	items := b.Items()
	m := make(map[string]float64, len(items))
	for _, it := range items {
		m[it.Name] = it.Quantity
	}
	return m
}

// Foundation: fundação
type Foundation struct {
	CementBags      float64 `json:"cement_bags"`
	SandCuft        float64 `json:"sand_cuft"`
	AggregateCuft   float64 `json:"aggregate_cuft"`
	SteelKg         float64 `json:"steel_kg"`
	ConcreteBlocks  int     `json:"concrete_blocks"`
	WaterLiters     float64 `json:"water_liters"`
	WaterproofingKg float64 `json:"waterproofing_kg"`
}

func (f Foundation) Items() []Item {
	return []Item{
		quantity("cement_bags", f.CementBags),
		quantity("sand_cuft", f.SandCuft),
		quantity("aggregate_cuft", f.AggregateCuft),
		quantity("steel_kg", f.SteelKg),
		units("concrete_blocks", f.ConcreteBlocks),
		quantity("water_liters", f.WaterLiters),
		quantity("waterproofing_kg", f.WaterproofingKg),
	}
}

// Walls: alvenaria
type Walls struct {
	Bricks      int     `json:"bricks"`
	CementBags  float64 `json:"cement_bags"`
	SandCuft    float64 `json:"sand_cuft"`
	AACBlocks   int     `json:"aac_blocks"`
	SteelMeshKg float64 `json:"steel_mesh_kg"`
}

func (w Walls) Items() []Item {
	return []Item{
		units("bricks", w.Bricks),
		quantity("cement_bags", w.CementBags),
		quantity("sand_cuft", w.SandCuft),
		units("aac_blocks", w.AACBlocks),
		quantity("steel_mesh_kg", w.SteelMeshKg),
	}
}

// Flooring: lajes e pisos
type Flooring struct {
	CementBags     float64 `json:"cement_bags"`
	SandCuft       float64 `json:"sand_cuft"`
	SteelKg        float64 `json:"steel_kg"`
	AggregateCuft  float64 `json:"aggregate_cuft"`
	TilesSqft      float64 `json:"tiles_sqft"`
	MarbleSqft     float64 `json:"marble_sqft"`
	ShutteringSqft float64 `json:"shuttering_sqft"`
}

func (f Flooring) Items() []Item {
	return []Item{
		quantity("cement_bags", f.CementBags),
		quantity("sand_cuft", f.SandCuft),
		quantity("steel_kg", f.SteelKg),
		quantity("aggregate_cuft", f.AggregateCuft),
		quantity("tiles_sqft", f.TilesSqft),
		quantity("marble_sqft", f.MarbleSqft),
		quantity("shuttering_sqft", f.ShutteringSqft),
	}
}

// Roofing: cobertura
type Roofing struct {
	SteelKg           float64 `json:"steel_kg"`
	CementBags        float64 `json:"cement_bags"`
	SandCuft          float64 `json:"sand_cuft"`
	AggregateCuft     float64 `json:"aggregate_cuft"`
	WaterproofingKg   float64 `json:"waterproofing_kg"`
	RoofingSheetsSqft float64 `json:"roofing_sheets_sqft"`
	ClayTiles         int     `json:"clay_tiles"`
}

func (r Roofing) Items() []Item {
	return []Item{
		quantity("steel_kg", r.SteelKg),
		quantity("cement_bags", r.CementBags),
		quantity("sand_cuft", r.SandCuft),
		quantity("aggregate_cuft", r.AggregateCuft),
		quantity("waterproofing_kg", r.WaterproofingKg),
		quantity("roofing_sheets_sqft", r.RoofingSheetsSqft),
		units("clay_tiles", r.ClayTiles),
	}
}

// Plumbing: hidráulica
type Plumbing struct {
	PVCPipesMeters  float64 `json:"pvc_pipes_meters"`
	CPVCPipesMeters float64 `json:"cpvc_pipes_meters"`
	GIPipesMeters   float64 `json:"gi_pipes_meters"`
	WaterTankLiters int     `json:"water_tank_liters"`
	Taps            int     `json:"taps"`
	Washbasin       int     `json:"washbasin"`
	Toilets         int     `json:"toilets"`
	KitchenSink     int     `json:"kitchen_sink"`
	Valves          int     `json:"valves"`
	SepticTank      int     `json:"septic_tank"`
}

func (p Plumbing) Items() []Item {
	return []Item{
		quantity("pvc_pipes_meters", p.PVCPipesMeters),
		quantity("cpvc_pipes_meters", p.CPVCPipesMeters),
		quantity("gi_pipes_meters", p.GIPipesMeters),
		units("water_tank_liters", p.WaterTankLiters),
		units("taps", p.Taps),
		units("washbasin", p.Washbasin),
		units("toilets", p.Toilets),
		units("kitchen_sink", p.KitchenSink),
		units("valves", p.Valves),
		units("septic_tank", p.SepticTank),
	}
}

// Electrical: elétrica
type Electrical struct {
	WiringMeters    float64 `json:"wiring_meters"`
	Switches        int     `json:"switches"`
	Sockets         int     `json:"sockets"`
	Fans            int     `json:"fans"`
	Lights          int     `json:"lights"`
	MCBBreakers     int     `json:"mcb_breakers"`
	DistributionBox int     `json:"distribution_box"`
	ConduitsMeters  float64 `json:"conduits_meters"`
}

func (e Electrical) Items() []Item {
	return []Item{
		quantity("wiring_meters", e.WiringMeters),
		units("switches", e.Switches),
		units("sockets", e.Sockets),
		units("fans", e.Fans),
		units("lights", e.Lights),
		units("mcb_breakers", e.MCBBreakers),
		units("distribution_box", e.DistributionBox),
		quantity("conduits_meters", e.ConduitsMeters),
	}
}

// Finishing: acabamento
type Finishing struct {
	PuttyKg        float64 `json:"putty_kg"`
	PrimerLiters   float64 `json:"primer_liters"`
	PaintLiters    float64 `json:"paint_liters"`
	WallTilesSqft  float64 `json:"wall_tiles_sqft"`
	FloorTilesSqft float64 `json:"floor_tiles_sqft"`
	Doors          int     `json:"doors"`
	Windows        int     `json:"windows"`
}

func (f Finishing) Items() []Item {
	return []Item{
		quantity("putty_kg", f.PuttyKg),
		quantity("primer_liters", f.PrimerLiters),
		quantity("paint_liters", f.PaintLiters),
		quantity("wall_tiles_sqft", f.WallTilesSqft),
		quantity("floor_tiles_sqft", f.FloorTilesSqft),
		units("doors", f.Doors),
		units("windows", f.Windows),
	}
}

// Carpentry: marcenaria e interiores
type Carpentry struct {
	PlywoodSheets    float64 `json:"plywood_sheets"`
	LaminateSqft     float64 `json:"laminate_sqft"`
	MDFSheets        float64 `json:"mdf_sheets"`
	ModularKitchenFt int     `json:"modular_kitchen_ft"`
	Wardrobes        int     `json:"wardrobes"`
	Hinges           int     `json:"hinges"`
	Handles          int     `json:"handles"`
}

func (c Carpentry) Items() []Item {
	return []Item{
		quantity("plywood_sheets", c.PlywoodSheets),
		quantity("laminate_sqft", c.LaminateSqft),
		quantity("mdf_sheets", c.MDFSheets),
		units("modular_kitchen_ft", c.ModularKitchenFt),
		units("wardrobes", c.Wardrobes),
		units("hinges", c.Hinges),
		units("handles", c.Handles),
	}
}

// Exterior: área externa e paisagismo
type Exterior struct {
	PavingBlocksSqft float64 `json:"paving_blocks_sqft"`
	GardenSoilCuft   float64 `json:"garden_soil_cuft"`
	BoundaryWallFt   float64 `json:"boundary_wall_ft"`
	Gate             int     `json:"gate"`
	GrillsKg         float64 `json:"grills_kg"`
}

func (e Exterior) Items() []Item {
	return []Item{
		quantity("paving_blocks_sqft", e.PavingBlocksSqft),
		quantity("garden_soil_cuft", e.GardenSoilCuft),
		quantity("boundary_wall_ft", e.BoundaryWallFt),
		units("gate", e.Gate),
		quantity("grills_kg", e.GrillsKg),
	}
}

// Miscellaneous: diversos
type Miscellaneous struct {
	WaterproofingChemKg float64 `json:"waterproofing_chem_kg"`
	InsulationSqft      float64 `json:"insulation_sqft"`
	NailsKg             float64 `json:"nails_kg"`
	BindingWireKg       float64 `json:"binding_wire_kg"`
	SafetyEquipmentSets int     `json:"safety_equipment_sets"`
}

func (m Miscellaneous) Items() []Item {
	return []Item{
		quantity("waterproofing_chem_kg", m.WaterproofingChemKg),
		quantity("insulation_sqft", m.InsulationSqft),
		quantity("nails_kg", m.NailsKg),
		quantity("binding_wire_kg", m.BindingWireKg),
		units("safety_equipment_sets", m.SafetyEquipmentSets),
	}
}

// Materials agrupa as dez etapas
type Materials struct {
	Foundation    Foundation    `json:"foundation"`
	Walls         Walls         `json:"walls"`
	Flooring      Flooring      `json:"flooring"`
	Roofing       Roofing       `json:"roofing"`
	Plumbing      Plumbing      `json:"plumbing"`
	Electrical    Electrical    `json:"electrical"`
	Finishing     Finishing     `json:"finishing"`
	Carpentry     Carpentry     `json:"carpentry"`
	Exterior      Exterior      `json:"exterior"`
	Miscellaneous Miscellaneous `json:"miscellaneous"`
}

// Stage retorna a etapa pedida; nil para nomes desconhecidos
func (m Materials) Stage(s Stage) Bundle {
	switch s {
	case StageFoundation:
		return m.Foundation
	case StageWalls:
		return m.Walls
	case StageFlooring:
		return m.Flooring
	case StageRoofing:
		return m.Roofing
	case StagePlumbing:
		return m.Plumbing
	case StageElectrical:
		return m.Electrical
	case StageFinishing:
		return m.Finishing
	case StageCarpentry:
		return m.Carpentry
	case StageExterior:
		return m.Exterior
	case StageMiscellaneous:
		return m.Miscellaneous
	}
	return nil
}

// Map retorna a visão {etapa: {material: quantidade}}
func (m Materials) Map() map[Stage]map[string]float64 {
	out := make(map[Stage]map[string]float64, 10)
	for _, s := range Stages() {
		out[s] = BundleMap(m.Stage(s))
	}
	return out
}

// DistinctCount soma a quantidade de chaves de material de todas as etapas
func (m Materials) DistinctCount() int {
	total := 0
	for _, s := range Stages() {
		total += len(m.Stage(s).Items())
	}
	return total
}

// computeMaterials aplica as fórmulas de cada etapa. A ordem das
// multiplicações é fixa: alterar a ordem muda o último bit do float e,
// com isso, truncamentos e arredondamentos.
func computeMaterials(in Input, tier BudgetTier) Materials {
	sf := in.SquareFeet
	fl := float64(in.Floors)
	rooms := float64(in.Rooms)
	q := tier.QualityFactor()

	var m Materials

	m.Foundation = Foundation{
		CementBags:      round2(sf * 0.175 * fl * q),
		SandCuft:        round2(sf * 0.525 * fl * q),
		AggregateCuft:   round2(sf * 0.70 * fl * q),
		SteelKg:         round2(sf * 3.5 * fl * q),
		ConcreteBlocks:  truncCount(sf * 2.8 * q),
		WaterLiters:     round2(sf * 18 * fl),
		WaterproofingKg: round2(sf * 0.175),
	}

	m.Walls = Walls{
		Bricks:      truncCount(sf * 20 * fl * q),
		CementBags:  round2(sf * 0.12 * fl * q),
		SandCuft:    round2(sf * 0.32 * fl * q),
		SteelMeshKg: round2(sf * 0.8 * fl * q),
	}
	if tier != TierLow {
		m.Walls.AACBlocks = truncCount(sf * 6 * q)
	}

	m.Flooring = Flooring{
		CementBags:     round2(sf * 0.152 * fl * q),
		SandCuft:       round2(sf * 0.38 * fl * q),
		SteelKg:        round2(sf * 3.04 * fl * q),
		AggregateCuft:  round2(sf * 0.57 * fl * q),
		TilesSqft:      round2(sf * fl * 0.70),
		ShutteringSqft: round2(sf * fl * 0.48),
	}
	if tier == TierHigh {
		m.Flooring.MarbleSqft = round2(sf * 0.08)
	}

	m.Roofing = Roofing{
		SteelKg:           round2(sf * 4.44 * q),
		CementBags:        round2(sf * 0.222 * q),
		SandCuft:          round2(sf * 0.444 * q),
		AggregateCuft:     round2(sf * 0.666 * q),
		WaterproofingKg:   round2(sf * 0.296),
		RoofingSheetsSqft: round2(sf * 0.407),
	}
	if tier == TierHigh {
		m.Roofing.ClayTiles = truncCount(sf * 4.2)
	}

	// hidráulica, elétrica e marcenaria escalam por cômodos e banheiros
	b := in.Bathrooms
	r := in.Rooms

	m.Plumbing = Plumbing{
		PVCPipesMeters:  round2(float64(b)*22.5 + float64(in.Floors*45)),
		CPVCPipesMeters: round2(float64(b) * 13.5),
		GIPipesMeters:   round2(fl * 9),
		WaterTankLiters: 500 * in.Floors,
		Taps:            b*2 + r,
		Washbasin:       b,
		Toilets:         b,
		KitchenSink:     1,
		Valves:          b*3 + 3,
		SepticTank:      1,
	}

	m.Electrical = Electrical{
		WiringMeters:    round2(sf * fl * 2.5),
		Switches:        r*3 + b*2,
		Sockets:         r*4 + b*2,
		Fans:            r + 1,
		Lights:          r*2 + b + 3,
		MCBBreakers:     6 + in.Floors*2,
		DistributionBox: in.Floors,
		ConduitsMeters:  round2(sf * 1.5),
	}

	m.Finishing = Finishing{
		PuttyKg:        round2(sf * 2 * 0.21),
		PrimerLiters:   round2(sf * 2 * 0.063),
		PaintLiters:    round2(sf * 2 * 0.084),
		WallTilesSqft:  round2(float64(b*42 + 34)),
		FloorTilesSqft: round2(sf * fl * 0.462),
		Doors:          r + b + 1,
		Windows:        r*2 + b,
	}

	kitchen := 6
	if r >= 3 {
		kitchen = 10
	}
	wardrobes := r - 2
	if wardrobes < 1 {
		wardrobes = 1
	}
	m.Carpentry = Carpentry{
		PlywoodSheets:    round2(rooms * 3.2 * q),
		LaminateSqft:     round2(rooms * 20 * q),
		MDFSheets:        round2(rooms * 1.6 * q),
		ModularKitchenFt: kitchen,
		Wardrobes:        wardrobes,
		Hinges:           r*6 + b*3,
		Handles:          r*4 + b*2,
	}

	m.Exterior = Exterior{
		PavingBlocksSqft: round2(sf * 0.105),
		GardenSoilCuft:   round2(sf * 0.07),
		BoundaryWallFt:   round2(math.Sqrt(sf) * 1.4),
		Gate:             1,
		GrillsKg:         round2(fl * 17.5),
	}

	safety := in.Floors
	if safety < 1 {
		safety = 1
	}
	m.Miscellaneous = Miscellaneous{
		WaterproofingChemKg: round2(sf * 0.12),
		InsulationSqft:      round2(sf * 0.20),
		NailsKg:             round2(sf * 0.02),
		BindingWireKg:       round2(sf * 0.04),
		SafetyEquipmentSets: safety,
	}

	return m
}
