package glm

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// fitGaussian solves the normal equations X^T X beta = X^T y for the
// current feature subset and sets nll from the residual sum of squares.
// It returns false (never panics) when X^T X is singular.
func (m *Model) fitGaussian() bool {
	design := m.buildDesign(m.ds.XTrain)
	n, _ := design.Dims()

	var xt mat.Dense
	xt.CloneFrom(design.T())

	var xtx mat.Dense
	xtx.Mul(&xt, design)

	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return false
	}

	yVec := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		yVec.SetVec(i, m.ds.YTrain.At(i, 0))
	}

	var xty mat.VecDense
	xty.MulVec(&xt, yVec)

	beta := mat.NewVecDense(m.m, nil)
	beta.MulVec(&xtxInv, &xty)

	var sse float64
	for i := 0; i < n; i++ {
		var fitted float64
		for j := 0; j < m.m; j++ {
			fitted += beta.AtVec(j) * design.At(i, j)
		}
		resid := m.ds.YTrain.At(i, 0) - fitted
		sse += resid * resid
	}
	if sse < 0 || invalidFloat(sse) {
		return false
	}

	copy(m.coef, beta.RawVector().Data)

	nf := float64(n)
	m.nll = (nf / 2) * (math.Log(2*math.Pi*sse/nf) + 1)
	return !invalidFloat(m.nll)
}
