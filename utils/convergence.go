package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ConvergenceOrder fits log(err) = a + p*log(h) over a refinement study and
// returns the fitted order p and the pairwise orders between successive
// levels.
func ConvergenceOrder(h, errs []float64) (order float64, pairwise []float64, err error) {
	if len(h) != len(errs) || len(h) < 2 {
		err = NewValidationError("convergence", "need at least two matching levels, have %d spacings and %d errors",
			len(h), len(errs))
		return
	}
	logH := make([]float64, len(h))
	logE := make([]float64, len(h))
	for i := range h {
		if !(h[i] > 0) || !(errs[i] > 0) {
			err = fmt.Errorf("%w: level %d has h=%v err=%v", ErrValidation, i, h[i], errs[i])
			return
		}
		logH[i], logE[i] = math.Log(h[i]), math.Log(errs[i])
	}
	_, order = stat.LinearRegression(logH, logE, nil, false)
	pairwise = make([]float64, len(h)-1)
	for i := range pairwise {
		pairwise[i] = (logE[i+1] - logE[i]) / (logH[i+1] - logH[i])
	}
	return
}

// ErrorNorms returns the max and RMS norms of a-b.
func ErrorNorms(a, b []float64) (maxErr, rmsErr float64) {
	diff := make([]float64, len(a))
	floats.SubTo(diff, a, b)
	if len(diff) == 0 {
		return
	}
	maxErr = floats.Norm(diff, math.Inf(1))
	rmsErr = floats.Norm(diff, 2) / math.Sqrt(float64(len(diff)))
	return
}
