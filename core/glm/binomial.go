package glm

import (
	"math"

	"gonum.org/v1/gonum/optimize"
)

const epsilonClamp = 2.220446049250313e-16 // machine epsilon, per the clamp guard

// fitBinomial minimizes the negative log-likelihood of the current
// feature subset by L-BFGS, starting from beta = 0. It returns false
// (never panics) when the optimizer fails outright, or when it reports
// non-convergence and cfg.AcceptNonConvergedFiniteNLL is false.
func (m *Model) fitBinomial() bool {
	design := m.buildDesign(m.ds.XTrain)
	n, _ := design.Dims()

	y := make([]float64, n)
	for i := 0; i < n; i++ {
		y[i] = m.ds.YTrain.At(i, 0)
	}

	problem := optimize.Problem{
		Func: func(beta []float64) float64 {
			var nll float64
			for i := 0; i < n; i++ {
				eta := 0.0
				for j := 0; j < m.m; j++ {
					eta += beta[j] * design.At(i, j)
				}
				p := clampProbability(stableSigmoid(eta))
				nll += -y[i]*math.Log(p) - (1-y[i])*math.Log(1-p)
			}
			return nll
		},
		Grad: func(grad, beta []float64) {
			for j := range grad {
				grad[j] = 0
			}
			for i := 0; i < n; i++ {
				eta := 0.0
				for j := 0; j < m.m; j++ {
					eta += beta[j] * design.At(i, j)
				}
				diff := stableSigmoid(eta) - y[i]
				for j := 0; j < m.m; j++ {
					grad[j] += diff * design.At(i, j)
				}
			}
		},
	}

	x0 := make([]float64, m.m)
	settings := &optimize.Settings{
		MajorIterations: 200,
	}
	result, err := optimize.Minimize(problem, x0, settings, &optimize.LBFGS{})
	if result == nil {
		return false
	}

	converged := err == nil && result.Status.Err() == nil
	nll := result.F
	if converged {
		copy(m.coef, result.X)
		m.nll = nll
		return !invalidFloat(m.nll)
	}

	// Non-convergence: accept only when explicitly configured to and the
	// optimizer still produced a usable (finite, positive) nll.
	if m.cfg.AcceptNonConvergedFiniteNLL && !invalidFloat(nll) && nll > 0 {
		copy(m.coef, result.X)
		m.nll = nll
		return true
	}
	return false
}

// clampProbability keeps sigmoid output away from {0,1} so log() never
// sees zero.
func clampProbability(p float64) float64 {
	if p < epsilonClamp {
		return epsilonClamp
	}
	if p > 1-epsilonClamp {
		return 1 - epsilonClamp
	}
	return p
}
