package preprocessing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/tanaka-yuki/glmsubset/preprocessing"
)

func TestStandardScalerRecoversMeanAndStd(t *testing.T) {
	x := mat.NewDense(3, 2, []float64{
		1.0, 4.0,
		2.0, 5.0,
		3.0, 6.0,
	})

	scaler := preprocessing.NewStandardScaler(true, true)
	require.NoError(t, scaler.Fit(x))

	assert.InDelta(t, 2.0, scaler.Mean[0], 1e-9)
	assert.InDelta(t, 5.0, scaler.Mean[1], 1e-9)
	assert.InDelta(t, 0.816496580927726, scaler.Scale[0], 1e-9)
	assert.InDelta(t, 0.816496580927726, scaler.Scale[1], 1e-9)
}

func TestStandardScalerTransformIsZeroMeanUnitVariance(t *testing.T) {
	x := mat.NewDense(3, 2, []float64{
		1.0, 4.0,
		2.0, 5.0,
		3.0, 6.0,
	})

	scaler := preprocessing.NewStandardScaler(true, true)
	scaled, err := scaler.FitTransform(x)
	require.NoError(t, err)

	r, c := scaled.Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 2, c)
	assert.InDelta(t, -1.224744871391589, scaled.At(0, 0), 1e-9)
	assert.InDelta(t, 0.0, scaled.At(1, 0), 1e-9)
	assert.InDelta(t, 1.224744871391589, scaled.At(2, 0), 1e-9)
}

func TestStandardScalerWithoutMeanOrStdIsIdentity(t *testing.T) {
	x := mat.NewDense(2, 1, []float64{10, 20})

	scaler := preprocessing.NewStandardScaler(false, false)
	scaled, err := scaler.FitTransform(x)
	require.NoError(t, err)

	assert.Equal(t, 10.0, scaled.At(0, 0))
	assert.Equal(t, 20.0, scaled.At(1, 0))
}

func TestStandardScalerConstantColumnAvoidsDivideByZero(t *testing.T) {
	x := mat.NewDense(3, 1, []float64{5, 5, 5})

	scaler := preprocessing.NewStandardScaler(true, true)
	scaled, err := scaler.FitTransform(x)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.Equal(t, 0.0, scaled.At(i, 0))
	}
}

func TestStandardScalerTransformRejectsUnfitted(t *testing.T) {
	scaler := preprocessing.NewStandardScaler(true, true)
	_, err := scaler.Transform(mat.NewDense(2, 1, []float64{1, 2}))
	assert.Error(t, err)
}

func TestStandardScalerTransformRejectsColumnMismatch(t *testing.T) {
	scaler := preprocessing.NewStandardScaler(true, true)
	require.NoError(t, scaler.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})))

	_, err := scaler.Transform(mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6}))
	assert.Error(t, err)
}

func TestStandardScalerAppliesTrainingStatisticsToHeldOutData(t *testing.T) {
	train := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	test := mat.NewDense(1, 1, []float64{5})

	scaler := preprocessing.NewStandardScaler(true, true)
	require.NoError(t, scaler.Fit(train))

	scaled, err := scaler.Transform(test)
	require.NoError(t, err)

	want := (5.0 - scaler.Mean[0]) / scaler.Scale[0]
	assert.InDelta(t, want, scaled.At(0, 0), 1e-9)
}
