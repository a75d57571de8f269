package ta

import "math"

// Mean of vals, NaN when empty.
func Mean(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// NanMean is Mean over the non-NaN entries.
func NanMean(vals []float64) float64 {
	sum, n := 0.0, 0
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// Pearson correlation of two equally long series. NaN when fewer than two points or when
// either series is constant.
func Pearson(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 || constant(x) || constant(y) {
		return math.NaN()
	}
	mx, my := Mean(x), Mean(y)
	var sxy, sxx, syy float64
	for i := range x {
		dx, dy := x[i]-mx, y[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return math.NaN()
	}
	r := sxy / math.Sqrt(sxx*syy)
	return math.Max(-1, math.Min(1, r))
}

func constant(vals []float64) bool {
	for _, v := range vals[1:] {
		if v != vals[0] {
			return false
		}
	}
	return true
}

// ForwardReturns returns closes[i+h]/closes[i]-1 at i. The last h entries, and pairs with a
// missing or non-positive close, are NaN.
func ForwardReturns(closes []float64, h int) []float64 {
	out := make([]float64, len(closes))
	for i := range closes {
		out[i] = math.NaN()
		if h <= 0 || i+h >= len(closes) {
			continue
		}
		c0, c1 := closes[i], closes[i+h]
		if math.IsNaN(c0) || math.IsNaN(c1) || c0 <= 0 || c1 <= 0 {
			continue
		}
		out[i] = c1/c0 - 1
	}
	return out
}

// Equity compounds daily returns starting from 1.
func Equity(returns []float64) []float64 {
	out := make([]float64, len(returns))
	eq := 1.0
	for i, r := range returns {
		eq *= 1 + r
		out[i] = eq
	}
	return out
}

// ZeroIfNaN substitutes 0 for an undefined statistic.
func ZeroIfNaN(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
