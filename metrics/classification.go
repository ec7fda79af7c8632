package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/tanaka-yuki/glmsubset/pkg/errors"
)

// Accuracy is the fraction of predictions where round(yPred) == yTrue,
// for binary labels.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("metrics.Accuracy", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("metrics.Accuracy", n, yPred.Len(), 0)
	}
	correct := 0
	for i := 0; i < n; i++ {
		predicted := 0.0
		if yPred.AtVec(i) >= 0.5 {
			predicted = 1.0
		}
		if predicted == yTrue.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// AUC is the area under the ROC curve for binary labels yTrue scored by
// yPred, computed via the trapezoid rule over score-sorted thresholds.
func AUC(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("metrics.AUC", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("metrics.AUC", n, yPred.Len(), 0)
	}

	type pair struct{ score, label float64 }
	pairs := make([]pair, n)
	var totalPos, totalNeg float64
	for i := 0; i < n; i++ {
		pairs[i] = pair{score: yPred.AtVec(i), label: yTrue.AtVec(i)}
		if yTrue.AtVec(i) == 1 {
			totalPos++
		} else {
			totalNeg++
		}
	}
	if totalPos == 0 || totalNeg == 0 {
		return 0.5, nil
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].score > pairs[j].score })

	tprs := []float64{0}
	fprs := []float64{0}
	var tp, fp float64
	prevScore := pairs[0].score + 1
	for _, pr := range pairs {
		if pr.score != prevScore {
			tprs = append(tprs, tp/totalPos)
			fprs = append(fprs, fp/totalNeg)
			prevScore = pr.score
		}
		if pr.label == 1 {
			tp++
		} else {
			fp++
		}
	}
	tprs = append(tprs, 1)
	fprs = append(fprs, 1)

	var auc float64
	for i := 1; i < len(fprs); i++ {
		width := fprs[i] - fprs[i-1]
		height := (tprs[i] + tprs[i-1]) / 2
		auc += width * height
	}
	return auc, nil
}

// BinaryLogLoss is the average binary cross-entropy between yTrue labels
// and yPred probabilities, clamped away from 0/1 to avoid log(0).
func BinaryLogLoss(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("metrics.BinaryLogLoss", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("metrics.BinaryLogLoss", n, yPred.Len(), 0)
	}
	const epsilon = 1e-15
	var loss float64
	for i := 0; i < n; i++ {
		y := yTrue.AtVec(i)
		p := yPred.AtVec(i)
		if p < epsilon {
			p = epsilon
		} else if p > 1-epsilon {
			p = 1 - epsilon
		}
		if y == 1 {
			loss -= math.Log(p)
		} else {
			loss -= math.Log(1 - p)
		}
	}
	return loss / float64(n), nil
}
