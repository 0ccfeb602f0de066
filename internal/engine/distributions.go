package engine

import "math"

const (
	// logitClamp keeps logit inputs away from exactly 0 or 1
	logitClamp = 1e-6
	// modelWeight is the model's share in the logit-space prior blend
	modelWeight = 0.6
)

// normalCDF evaluates the normal CDF at x for the given mean and sd
func normalCDF(x, mu, sigma float64) float64 {
	z := (x - mu) / math.Max(1e-9, sigma)
	return 0.5 * (1.0 + math.Erf(z/math.Sqrt2))
}

// poissonSurvival computes P(X > kMinusOne) for a Poisson with the
// given rate, by cumulative summation of the mass function. The
// argument may be fractional (lines like 0.5 or 1.5).
func poissonSurvival(kMinusOne, lambda float64) float64 {
	k := int(math.Floor(kMinusOne))
	term := math.Exp(-lambda)
	cdf := term
	for i := 1; i <= k; i++ {
		term *= lambda / float64(i)
		cdf += term
	}
	return math.Max(0.0, 1.0-cdf)
}

func logit(p float64) float64 {
	p = math.Max(logitClamp, p)
	q := math.Max(logitClamp, 1-p)
	return math.Log(p / q)
}

func invLogit(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// blendWithPrior combines a model probability with the market-implied
// prior by weighted averaging in log-odds space. The prior anchors the
// model when its underlying data is thin.
func blendWithPrior(pModel, pPrior, weight float64) float64 {
	z := weight*logit(pModel) + (1-weight)*logit(pPrior)
	return invLogit(z)
}
