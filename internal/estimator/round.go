package estimator

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// round2 arredonda o valor binário exato para duas casas. Empates exatos vão
// para o par. Não passar pela representação decimal mais curta: 176.575 em
// float64 fica abaixo do meio e precisa resultar em 176.57.
func round2(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// roundDays arredonda para o inteiro mais próximo, empates para o par
func roundDays(v float64) int {
	return int(math.RoundToEven(v))
}

// truncCount converte uma quantidade contínua em unidades inteiras, por truncamento
func truncCount(v float64) int {
	return int(v)
}

func decimalToFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
