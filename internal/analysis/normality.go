package analysis

import (
	"errors"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var errTooFewValues = errors.New("at least 3 values are required")

// Royston (1995) approximation coefficients, algorithm AS R94
var (
	swC1 = []float64{0, 0.221157, -0.147981, -2.071190, 4.434685, -2.706056}
	swC2 = []float64{0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
	swC3 = []float64{0.5440, -0.39978, 0.025054, -6.714e-4}
	swC4 = []float64{1.3822, -0.77857, 0.062767, -0.0020322}
	swC5 = []float64{-1.5861, -0.31082, -0.083751, 0.0038915}
	swC6 = []float64{-0.4803, -0.082676, 0.0030302}
	swG  = []float64{-2.273, 0.459}
)

// ShapiroWilk tests x for normality and returns the W statistic and its
// p-value. Constant input is reported as W = 1, p = 1.
func ShapiroWilk(x []float64) (w, p float64, err error) {
	n := len(x)
	if n < 3 {
		return 0, 0, errTooFewValues
	}
	sorted := slices.Clone(x)
	slices.Sort(sorted)
	if sorted[n-1]-sorted[0] == 0 {
		return 1, 1, nil
	}

	a := swilkCoefficients(n)
	mean := stat.Mean(sorted, nil)

	var sax, ssa, ssx float64
	for i, ai := range a {
		sax += ai * (sorted[n-1-i] - sorted[i])
		ssa += 2 * ai * ai
	}
	for _, v := range sorted {
		ssx += (v - mean) * (v - mean)
	}
	w = sax * sax / (ssa * ssx)
	w = math.Min(w, 1)
	return w, swilkPValue(w, n), nil
}

// swilkCoefficients returns the upper half of the antisymmetric weights,
// largest first
func swilkCoefficients(n int) []float64 {
	half := n / 2
	a := make([]float64, half)
	if n == 3 {
		a[0] = math.Sqrt2 / 2
		return a
	}

	an25 := float64(n) + 0.25
	m := make([]float64, half)
	var summ2 float64
	for i := range m {
		m[i] = distuv.UnitNormal.Quantile((float64(i+1) - 0.375) / an25)
		summ2 += m[i] * m[i]
	}
	summ2 *= 2
	ssumm2 := math.Sqrt(summ2)
	rsn := 1 / math.Sqrt(float64(n))

	a1 := poly(swC1, rsn) - m[0]/ssumm2
	first := 1
	var fac float64
	if n > 5 {
		first = 2
		a2 := -m[1]/ssumm2 + poly(swC2, rsn)
		fac = math.Sqrt((summ2 - 2*m[0]*m[0] - 2*m[1]*m[1]) / (1 - 2*a1*a1 - 2*a2*a2))
		a[1] = a2
	} else {
		fac = math.Sqrt((summ2 - 2*m[0]*m[0]) / (1 - 2*a1*a1))
	}
	a[0] = a1
	for i := first; i < half; i++ {
		a[i] = -m[i] / fac
	}
	return a
}

func swilkPValue(w float64, n int) float64 {
	if n == 3 {
		p := 6 / math.Pi * (math.Asin(math.Sqrt(w)) - math.Pi/3)
		return math.Max(0, math.Min(p, 1))
	}

	an := float64(n)
	w1 := math.Log(1 - w)
	var m, s float64
	if n <= 11 {
		gamma := poly(swG, an)
		if w1 >= gamma {
			return 0
		}
		w1 = -math.Log(gamma - w1)
		m = poly(swC3, an)
		s = math.Exp(poly(swC4, an))
	} else {
		ln := math.Log(an)
		m = poly(swC5, ln)
		s = math.Exp(poly(swC6, ln))
	}
	return distuv.UnitNormal.Survival((w1 - m) / s)
}

// poly evaluates c[0] + c[1]x + c[2]x² + ...
func poly(c []float64, x float64) float64 {
	var r float64
	for i := len(c) - 1; i >= 0; i-- {
		r = r*x + c[i]
	}
	return r
}
