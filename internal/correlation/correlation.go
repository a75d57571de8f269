// Package correlation measures how same-day sentiment lines up with forward returns.
package correlation

import (
	"math"

	"stocksage/internal/frame"
	"stocksage/internal/ta"
	"stocksage/internal/types"
)

const Label = "Sentiment vs Returns"

// Correlate computes the Pearson correlation between avg_sent and each horizon's forward
// return. Only rows where avg_sent and all three returns are present take part, so every
// coefficient is computed over the same rows. No such rows, or an absent column, gives an
// empty result.
func Correlate(joined *frame.Frame) types.CorrelationResult {
	res := types.CorrelationResult{Label: Label}
	if joined == nil || !joined.Has("avg_sent") {
		return res
	}
	for _, h := range types.Horizons {
		if !joined.Has(h.Column()) {
			return res
		}
	}

	sents := joined.Col("avg_sent")
	var x []float64
	ys := make(map[types.Horizon][]float64, len(types.Horizons))
	for i := 0; i < joined.Len(); i++ {
		s := sents[i].FloatOrNaN()
		if math.IsNaN(s) {
			continue
		}
		complete := true
		vals := make([]float64, len(types.Horizons))
		for j, h := range types.Horizons {
			vals[j] = joined.Col(h.Column())[i].FloatOrNaN()
			if math.IsNaN(vals[j]) {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		x = append(x, s)
		for j, h := range types.Horizons {
			ys[h] = append(ys[h], vals[j])
		}
	}

	if len(x) == 0 {
		return res
	}
	res.Observations = len(x)
	for _, h := range types.Horizons {
		res.Coefficients = append(res.Coefficients, types.Coefficient{Horizon: h, Value: ta.Pearson(x, ys[h])})
	}
	return res
}
