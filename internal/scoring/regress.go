package scoring

import (
	"math"

	"github.com/quantlab/rotor/internal/core"
)

// tradingDaysPerYear is the annualization convention for daily log slopes.
const tradingDaysPerYear = 250

// logPrices extracts ln(price) from a window in chronological order.
func logPrices(points []core.PricePoint) []float64 {
	y := make([]float64, len(points))
	for i, p := range points {
		y[i] = math.Log(p.Price)
	}
	return y
}

// linearWeights returns n weights evenly spaced from 1.0 to 2.0 inclusive,
// giving recent observations up to twice the influence of old ones.
func linearWeights(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	step := 1.0 / float64(n-1)
	for i := range w {
		w[i] = 1 + float64(i)*step
	}
	return w
}

// fitLine fits y = slope*x + intercept over x = 0..n-1, minimizing the
// weighted squared residuals sum(w_i * (y_i - yhat_i)^2). A nil weight
// slice means uniform weights.
func fitLine(y, w []float64) (slope, intercept float64) {
	n := len(y)
	var sw, sx, sy float64
	for i := 0; i < n; i++ {
		wi := 1.0
		if w != nil {
			wi = w[i]
		}
		sw += wi
		sx += wi * float64(i)
		sy += wi * y[i]
	}
	meanX := sx / sw
	meanY := sy / sw

	var num, den float64
	for i := 0; i < n; i++ {
		wi := 1.0
		if w != nil {
			wi = w[i]
		}
		dx := float64(i) - meanX
		num += wi * dx * (y[i] - meanY)
		den += wi * dx * dx
	}
	if den == 0 {
		return 0, meanY
	}
	slope = num / den
	intercept = meanY - slope*meanX
	return slope, intercept
}

// rSquared computes the goodness of fit 1 - sum(w*res^2)/sum(w*(y-mean)^2)
// with the plain (unweighted) mean of y. A zero denominator, e.g. a window
// of identical prices, yields 0 by convention so scores stay orderable.
func rSquared(y, w []float64, slope, intercept float64) float64 {
	n := len(y)
	var mean float64
	for _, v := range y {
		mean += v
	}
	mean /= float64(n)

	var ssRes, ssTot float64
	for i := 0; i < n; i++ {
		wi := 1.0
		if w != nil {
			wi = w[i]
		}
		res := y[i] - (slope*float64(i) + intercept)
		ssRes += wi * res * res
		dev := y[i] - mean
		ssTot += wi * dev * dev
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

// annualize converts a daily log-price slope into an annualized return.
func annualize(slope float64) float64 {
	return math.Pow(math.Exp(slope), tradingDaysPerYear) - 1
}

// sigmoid maps a raw score into (0, 1).
func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
