// Package metrics provides the post-search diagnostic scores the CLI
// reports for the winning subset: MSE/RMSE/MAE/R2Score for a Gaussian
// fit, Accuracy/AUC/BinaryLogLoss for a Binomial one. These are reported
// alongside the AIC/MSE ranking score, never used to rank subsets
// themselves.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/tanaka-yuki/glmsubset/pkg/errors"
)

// MSE is the mean squared error between yTrue and yPred.
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("metrics.MSE", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("metrics.MSE", n, yPred.Len(), 0)
	}
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}
	return sum / float64(n), nil
}

// RMSE is the square root of MSE.
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE is the mean absolute error between yTrue and yPred.
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("metrics.MAE", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("metrics.MAE", n, yPred.Len(), 0)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}

// R2Score is the coefficient of determination: 1 - RSS/TSS.
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("metrics.R2Score", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("metrics.R2Score", n, yPred.Len(), 0)
	}

	var yMean float64
	for i := 0; i < n; i++ {
		yMean += yTrue.AtVec(i)
	}
	yMean /= float64(n)

	var tss, rss float64
	for i := 0; i < n; i++ {
		yt, yp := yTrue.AtVec(i), yPred.AtVec(i)
		tss += (yt - yMean) * (yt - yMean)
		rss += (yt - yp) * (yt - yp)
	}
	if tss == 0 {
		return 0, errors.NewValueError("metrics.R2Score", "yTrue has no variance")
	}
	return 1 - rss/tss, nil
}
