package estimator

// Timeline é o cronograma em dias. As etapas são sequenciais: TotalDays é a
// soma simples, sem paralelismo nem caminho crítico.
type Timeline struct {
	Foundation int `json:"foundation"`
	Walls      int `json:"walls"`
	Flooring   int `json:"flooring"`
	Roofing    int `json:"roofing"`
	Plumbing   int `json:"plumbing"`
	Electrical int `json:"electrical"`
	Finishing  int `json:"finishing"`
	Carpentry  int `json:"carpentry"`
	Exterior   int `json:"exterior"`
	TotalDays  int `json:"total_days"`
}

// Days retorna a duração de uma etapa. ok é false para miscellaneous e
// nomes desconhecidos.
func (t Timeline) Days(s Stage) (days int, ok bool) {
	switch s {
	case StageFoundation:
		return t.Foundation, true
	case StageWalls:
		return t.Walls, true
	case StageFlooring:
		return t.Flooring, true
	case StageRoofing:
		return t.Roofing, true
	case StagePlumbing:
		return t.Plumbing, true
	case StageElectrical:
		return t.Electrical, true
	case StageFinishing:
		return t.Finishing, true
	case StageCarpentry:
		return t.Carpentry, true
	case StageExterior:
		return t.Exterior, true
	}
	return 0, false
}

func computeTimeline(squareFeet float64, rooms int) Timeline {
	areaDays := func(s Stage) int {
		return roundDays(squareFeet / float64(timelineDivisors[s]))
	}

	t := Timeline{
		Foundation: areaDays(StageFoundation),
		Walls:      areaDays(StageWalls),
		Flooring:   areaDays(StageFlooring),
		Roofing:    areaDays(StageRoofing),
		Plumbing:   areaDays(StagePlumbing),
		Electrical: areaDays(StageElectrical),
		Finishing:  areaDays(StageFinishing),
		Carpentry:  rooms * carpentryDaysPerRoom,
		Exterior:   areaDays(StageExterior),
	}
	for _, s := range TimelineStages() {
		d, _ := t.Days(s)
		t.TotalDays += d
	}
	return t
}
