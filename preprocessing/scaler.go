// Package preprocessing provides the optional predictor standardization
// cmd/bestsubset applies before handing a design matrix to core/search:
// centering and scaling predictors to comparable ranges, the usual
// practice before an L-BFGS logistic fit or a numerically sensitive
// normal-equations solve.
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/tanaka-yuki/glmsubset/pkg/errors"
)

// StandardScaler removes the mean and scales each feature to unit
// variance, fitted once on the training design matrix and then applied
// identically to any held-out set.
type StandardScaler struct {
	fitted bool

	Mean      []float64
	Scale     []float64
	NFeatures int

	WithMean bool
	WithStd  bool
}

// NewStandardScaler creates a scaler with the given centering/scaling
// toggles.
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{WithMean: withMean, WithStd: withStd}
}

// Fit computes per-feature mean and standard deviation from X.
func (s *StandardScaler) Fit(x mat.Matrix) error {
	r, c := x.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.NFeatures = c
	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	for j := 0; j < c; j++ {
		if !s.WithMean {
			s.Mean[j] = 0
			continue
		}
		var sum float64
		for i := 0; i < r; i++ {
			sum += x.At(i, j)
		}
		s.Mean[j] = sum / float64(r)
	}

	for j := 0; j < c; j++ {
		if !s.WithStd {
			s.Scale[j] = 1
			continue
		}
		var sumSquares float64
		for i := 0; i < r; i++ {
			diff := x.At(i, j) - s.Mean[j]
			sumSquares += diff * diff
		}
		scale := math.Sqrt(sumSquares / float64(r))
		if math.Abs(scale) < 1e-8 {
			scale = 1
		}
		s.Scale[j] = scale
	}

	s.fitted = true
	return nil
}

// Transform applies (X - mean) / scale using the fitted statistics.
func (s *StandardScaler) Transform(x mat.Matrix) (*mat.Dense, error) {
	if !s.fitted {
		return nil, errors.NewNotFittedError("StandardScaler", "Transform")
	}
	r, c := x.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.Transform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, (x.At(i, j)-s.Mean[j])/s.Scale[j])
		}
	}
	return result, nil
}

// FitTransform fits on X and immediately transforms it.
func (s *StandardScaler) FitTransform(x mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(x); err != nil {
		return nil, err
	}
	return s.Transform(x)
}

func (s *StandardScaler) String() string {
	if !s.fitted {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)", s.WithMean, s.WithStd, s.NFeatures)
}
