package glm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/tanaka-yuki/glmsubset/pkg/log"
)

const errValue = math.MaxFloat64

func TestGaussianRankDeficientYieldsErrValue(t *testing.T) {
	// Two identical columns make X^T X singular regardless of subset size.
	x := mat.NewDense(4, 2, []float64{
		1, 1,
		2, 2,
		3, 3,
		4, 4,
	})
	y := mat.NewVecDense(4, []float64{1, 2, 3, 4})

	ds, err := NewDataSet(x, y, nil, nil)
	require.NoError(t, err)

	m := New(ds, Config{Family: Gaussian, Performance: AIC, Intercept: false, ErrValue: errValue}, log.Discard)
	m.SetFeatureCombination([]int{0, 1})
	m.Fit()

	assert.Equal(t, errValue, m.Score())
}

func TestGaussianRecoversKnownCoefficients(t *testing.T) {
	// y = 2*x0 - 3*x1 + 1 plus a small fixed perturbation, so OLS
	// recovers beta close to (but not exactly, avoiding the SSE=0 edge
	// case) the generating coefficients.
	xData := []float64{
		1, 0,
		0, 1,
		2, 1,
		1, 3,
		4, 2,
		3, 0,
	}
	noise := []float64{0.01, -0.02, 0.015, -0.01, 0.02, -0.015}
	x := mat.NewDense(6, 2, xData)
	yData := make([]float64, 6)
	for i := 0; i < 6; i++ {
		yData[i] = 2*xData[2*i] - 3*xData[2*i+1] + 1 + noise[i]
	}
	y := mat.NewVecDense(6, yData)

	ds, err := NewDataSet(x, y, nil, nil)
	require.NoError(t, err)

	m := New(ds, Config{Family: Gaussian, Performance: AIC, Intercept: true, ErrValue: errValue}, log.Discard)
	m.SetFeatureCombination([]int{0, 1})
	m.Fit()

	require.NotEqual(t, errValue, m.Score())
	require.InDelta(t, 1.0, m.coef[0], 0.05)
	require.InDelta(t, 2.0, m.coef[1], 0.05)
	require.InDelta(t, -3.0, m.coef[2], 0.05)

	wantAIC := 2 * (m.nll + float64(m.m) + 1)
	assert.InDelta(t, wantAIC, m.Score(), 1e-9)
}

func TestBinomialSeparableCaseStaysFinite(t *testing.T) {
	x := mat.NewDense(4, 2, []float64{
		0, 0,
		0, 1,
		1, 0,
		1, 1,
	})
	y := mat.NewVecDense(4, []float64{0, 0, 1, 1})

	ds, err := NewDataSet(x, y, nil, nil)
	require.NoError(t, err)

	m := New(ds, Config{Family: Binomial, Performance: AIC, Intercept: true, ErrValue: errValue}, log.Discard)
	m.SetFeatureCombination([]int{0, 1})
	m.Fit()

	score := m.Score()
	require.False(t, math.IsNaN(score))
	require.False(t, math.IsInf(score, 0))
}

func TestMSEWithHeldOutSetUsesTestMatrix(t *testing.T) {
	xTrain := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	yTrain := mat.NewVecDense(4, []float64{2.1, 3.9, 6.2, 7.8})
	xTest := mat.NewDense(2, 1, []float64{5, 6})
	yTest := mat.NewVecDense(2, []float64{10, 13})

	ds, err := NewDataSet(xTrain, yTrain, xTest, yTest)
	require.NoError(t, err)

	m := New(ds, Config{Family: Gaussian, Performance: MSE, Intercept: false, ErrValue: errValue}, log.Discard)
	m.SetFeatureCombination([]int{0})
	m.Fit()
	require.NotEqual(t, errValue, m.Score())

	// The MSE path must read XTest/YTest, not XTrain/YTrain: scoring
	// against the training set directly would give a different number.
	onTest := m.directMSE(ds.XTest, ds.YTest)
	onTrain := m.directMSE(ds.XTrain, ds.YTrain)
	assert.InDelta(t, onTest, m.Score(), 1e-9)
	assert.NotEqual(t, onTrain, onTest)
}

func TestMSENoTestSetMatchesShortcutFormula(t *testing.T) {
	x := mat.NewDense(5, 1, []float64{1, 2, 3, 4, 5})
	y := mat.NewVecDense(5, []float64{2.1, 3.9, 6.2, 7.8, 10.1})

	ds, err := NewDataSet(x, y, nil, nil)
	require.NoError(t, err)

	m := New(ds, Config{Family: Gaussian, Performance: MSE, Intercept: true, ErrValue: errValue}, log.Discard)
	m.SetFeatureCombination([]int{0})
	m.Fit()
	require.True(t, m.fitted)

	direct := m.directMSE(ds.XTrain, ds.YTrain)
	assert.InDelta(t, direct, m.Score(), 1e-9)
}

func TestPredictRecoversFittedValuesOnTrainingData(t *testing.T) {
	x := mat.NewDense(5, 1, []float64{1, 2, 3, 4, 5})
	y := mat.NewVecDense(5, []float64{2.1, 3.9, 6.2, 7.8, 10.1})

	ds, err := NewDataSet(x, y, nil, nil)
	require.NoError(t, err)

	m := New(ds, Config{Family: Gaussian, Performance: AIC, Intercept: true, ErrValue: errValue}, log.Discard)
	m.SetFeatureCombination([]int{0})
	m.Fit()
	require.NotEqual(t, errValue, m.Score())

	pred, err := m.Predict(x)
	require.NoError(t, err)
	require.Equal(t, 5, pred.Len())

	// The fitted residual sum of squares should match directMSE*n exactly,
	// since Predict and directMSE compute the same linear predictor.
	var sse float64
	for i := 0; i < 5; i++ {
		diff := y.AtVec(i) - pred.AtVec(i)
		sse += diff * diff
	}
	assert.InDelta(t, sse/5, m.directMSE(x, y), 1e-9)
}

func TestPredictRejectsUnfittedModel(t *testing.T) {
	x := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewVecDense(3, []float64{1, 2, 3})
	ds, err := NewDataSet(x, y, nil, nil)
	require.NoError(t, err)

	m := New(ds, Config{Family: Gaussian, ErrValue: errValue}, log.Discard)
	_, err = m.Predict(x)
	assert.Error(t, err)
}

func TestPredictRejectsFailedFit(t *testing.T) {
	x := mat.NewDense(4, 2, []float64{
		1, 1,
		2, 2,
		3, 3,
		4, 4,
	})
	y := mat.NewVecDense(4, []float64{1, 2, 3, 4})
	ds, err := NewDataSet(x, y, nil, nil)
	require.NoError(t, err)

	m := New(ds, Config{Family: Gaussian, Intercept: false, ErrValue: errValue}, log.Discard)
	m.SetFeatureCombination([]int{0, 1})
	m.Fit()
	require.Equal(t, errValue, m.Score())

	_, err = m.Predict(x)
	assert.Error(t, err)
}

func TestCloneHasIndependentState(t *testing.T) {
	x := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewVecDense(3, []float64{1, 2, 3})
	ds, err := NewDataSet(x, y, nil, nil)
	require.NoError(t, err)

	base := New(ds, Config{Family: Gaussian, Performance: AIC, ErrValue: errValue}, log.Discard)
	clone := base.Clone()

	clone.SetFeatureCombination([]int{0})
	clone.Fit()

	assert.Nil(t, base.coef)
	assert.NotNil(t, clone.coef)
}
