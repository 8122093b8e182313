package estimator

// Stage é uma das dez etapas da obra
type Stage string

const (
	StageFoundation    Stage = "foundation"
	StageWalls         Stage = "walls"
	StageFlooring      Stage = "flooring"
	StageRoofing       Stage = "roofing"
	StagePlumbing      Stage = "plumbing"
	StageElectrical    Stage = "electrical"
	StageFinishing     Stage = "finishing"
	StageCarpentry     Stage = "carpentry"
	StageExterior      Stage = "exterior"
	StageMiscellaneous Stage = "miscellaneous"
)

// Stages retorna as etapas na ordem de execução da obra
func Stages() []Stage {
	return []Stage{
		StageFoundation,
		StageWalls,
		StageFlooring,
		StageRoofing,
		StagePlumbing,
		StageElectrical,
		StageFinishing,
		StageCarpentry,
		StageExterior,
		StageMiscellaneous,
	}
}

// TimelineStages retorna as nove etapas que possuem duração.
// Miscellaneous não entra no cronograma.
func TimelineStages() []Stage {
	return Stages()[:9]
}
