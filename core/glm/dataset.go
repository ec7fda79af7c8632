package glm

import (
	"gonum.org/v1/gonum/mat"

	"github.com/tanaka-yuki/glmsubset/pkg/errors"
)

// DataSet is a read-only, borrowed view over the training data and an
// optional held-out set. It never copies XTrain/YTrain/XTest/YTest: every
// worker's private Model shares the same underlying matrices and only
// ever reads from them, so DataSet itself carries no mutable state.
type DataSet struct {
	XTrain, YTrain mat.Matrix
	XTest, YTest   mat.Matrix
}

// NewDataSet validates shapes and returns a DataSet. XTest/YTest may both
// be nil, meaning "score against the training set." Supplying one
// without the other is a configuration error.
func NewDataSet(xTrain, yTrain, xTest, yTest mat.Matrix) (*DataSet, error) {
	if xTrain == nil || yTrain == nil {
		return nil, errors.NewConfigError("glm.NewDataSet", "XTrain/YTrain", "training data must not be nil")
	}

	rTrain, cTrain := xTrain.Dims()
	if rTrain == 0 || cTrain == 0 {
		return nil, errors.NewModelError("glm.NewDataSet", "empty training data", errors.ErrEmptyData)
	}
	yRows, yCols := yTrain.Dims()
	if yRows != rTrain {
		return nil, errors.NewDimensionError("glm.NewDataSet", rTrain, yRows, 0)
	}
	if yCols != 1 {
		return nil, errors.NewValueError("glm.NewDataSet", "YTrain must be a column vector")
	}

	if (xTest == nil) != (yTest == nil) {
		return nil, errors.NewConfigError("glm.NewDataSet", "XTest/YTest", "must both be supplied or both be absent")
	}

	ds := &DataSet{XTrain: xTrain, YTrain: yTrain}
	if xTest != nil {
		rTest, cTest := xTest.Dims()
		if rTest == 0 {
			return nil, errors.NewModelError("glm.NewDataSet", "empty test data", errors.ErrEmptyData)
		}
		if cTest != cTrain {
			return nil, errors.NewDimensionError("glm.NewDataSet", cTrain, cTest, 1)
		}
		yTestRows, yTestCols := yTest.Dims()
		if yTestRows != rTest {
			return nil, errors.NewDimensionError("glm.NewDataSet", rTest, yTestRows, 0)
		}
		if yTestCols != 1 {
			return nil, errors.NewValueError("glm.NewDataSet", "YTest must be a column vector")
		}
		ds.XTest, ds.YTest = xTest, yTest
	}

	return ds, nil
}

// NFeatures returns the number of candidate predictor columns (p).
func (ds *DataSet) NFeatures() int {
	_, c := ds.XTrain.Dims()
	return c
}

// NTrain returns the number of training samples.
func (ds *DataSet) NTrain() int {
	r, _ := ds.XTrain.Dims()
	return r
}

// NoTestSet reports whether no held-out set was supplied.
func (ds *DataSet) NoTestSet() bool {
	return ds.XTest == nil
}

// ScoreSet returns the matrix/vector pair that MSE is computed against:
// the held-out set when present, otherwise the training set.
func (ds *DataSet) ScoreSet() (mat.Matrix, mat.Matrix) {
	if ds.NoTestSet() {
		return ds.XTrain, ds.YTrain
	}
	return ds.XTest, ds.YTest
}
