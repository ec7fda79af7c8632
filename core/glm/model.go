package glm

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/tanaka-yuki/glmsubset/internal/parallel"
	"github.com/tanaka-yuki/glmsubset/pkg/errors"
	"github.com/tanaka-yuki/glmsubset/pkg/log"
)

// parallelRowThreshold is the row count above which buildDesign and
// directMSE split their row loop across goroutines instead of running it
// synchronously; below it the fan-out overhead isn't worth paying.
const parallelRowThreshold = 1000

// Config holds the fit-kernel settings shared by every Model cloned from
// the same DataSet: the GLM family, how fits are scored, whether an
// intercept column is prepended to every subset, and the sentinel score
// assigned when a fit fails numerically.
type Config struct {
	Family      Family
	Performance Performance
	Intercept   bool
	ErrValue    float64

	// AcceptNonConvergedFiniteNLL controls the documented L-BFGS
	// ambiguity: when the optimizer reports non-convergence but still
	// wrote a finite, positive nll, should that nll be trusted? Default
	// false rejects it (ErrValue wins); set true to accept it.
	AcceptNonConvergedFiniteNLL bool
}

// Model is a single worker's private, mutable fit state: one DataSet view
// shared read-only across every worker, plus per-worker feature subset,
// coefficients, and latest negative log-likelihood. It is not safe for
// concurrent use; each search worker owns exactly one Model.
type Model struct {
	ds     *DataSet
	cfg    Config
	logger log.Logger

	combination []int // 0-based indices into the DataSet's columns, no intercept
	m           int    // len(combination) + (Intercept ? 1 : 0)
	coef        []float64
	nll         float64
	fitted      bool
}

// New constructs a Model bound to ds under cfg. Pass log.Discard to
// silence fit-kernel logging.
func New(ds *DataSet, cfg Config, logger log.Logger) *Model {
	if logger == nil {
		logger = log.Discard
	}
	return &Model{ds: ds, cfg: cfg, logger: logger}
}

// Clone returns an independent Model sharing the same read-only DataSet
// and Config but with its own coefficient/nll state, for handing one
// clone to each search worker.
func (m *Model) Clone() *Model {
	return New(m.ds, m.cfg, m.logger)
}

// SetFeatureCombination replaces the current subset, 0-based indices into
// the DataSet's feature columns. It allocates a fresh coefficient buffer
// and resets nll; it does not fit.
func (m *Model) SetFeatureCombination(combination []int) {
	m.combination = combination
	m.m = len(combination)
	if m.cfg.Intercept {
		m.m++
	}
	m.coef = make([]float64, m.m)
	m.nll = 0
	m.fitted = false
}

// M returns the number of coefficients for the current subset (feature
// count plus one if Intercept is set).
func (m *Model) M() int { return m.m }

// Fit attempts to fit the current subset against the training data. It
// never panics and never returns an error: on any numerical failure it
// sets nll to cfg.ErrValue so the caller's enumeration can continue
// uninterrupted.
func (m *Model) Fit() {
	defer func() {
		if r := recover(); r != nil {
			m.nll = m.cfg.ErrValue
			m.fitted = true
			m.logger.Warn("fit panicked, recovered",
				log.OperationKey, log.OperationFit,
				"combination", m.combination,
				"panic", r,
			)
		}
	}()

	var ok bool
	switch m.cfg.Family {
	case Gaussian:
		ok = m.fitGaussian()
	case Binomial:
		ok = m.fitBinomial()
	}

	if !ok {
		m.nll = m.cfg.ErrValue
	}
	m.fitted = true
}

// Score returns AIC or MSE per cfg.Performance. Any NaN, infinite, or
// ErrValue-equal result collapses to cfg.ErrValue.
func (m *Model) Score() float64 {
	if !m.fitted || m.nll == m.cfg.ErrValue || invalidFloat(m.nll) {
		return m.cfg.ErrValue
	}

	var score float64
	switch m.cfg.Performance {
	case AIC:
		delta := 0.0
		if m.cfg.Family == Gaussian {
			delta = 1
		}
		score = 2 * (m.nll + float64(m.m) + delta)
	case MSE:
		score = m.mse()
	}

	if invalidFloat(score) {
		return m.cfg.ErrValue
	}
	return score
}

// Predict returns the fitted subset's response on x: the linear
// predictor for Gaussian, the sigmoid-transformed probability for
// Binomial. x must have the same number of columns as the DataSet this
// Model was built from. Call only after a successful Fit.
func (m *Model) Predict(x mat.Matrix) (*mat.VecDense, error) {
	if !m.fitted || m.nll == m.cfg.ErrValue || invalidFloat(m.nll) {
		return nil, errors.NewNotFittedError("glm.Model", "Predict")
	}
	design := m.buildDesign(x)
	rows, _ := design.Dims()
	out := mat.NewVecDense(rows, nil)
	parallel.ParallelizeWithThreshold(rows, parallelRowThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			eta := 0.0
			for j := 0; j < m.m; j++ {
				eta += m.coef[j] * design.At(i, j)
			}
			if m.cfg.Family == Binomial {
				out.SetVec(i, stableSigmoid(eta))
			} else {
				out.SetVec(i, eta)
			}
		}
	})
	return out, nil
}

// mse dispatches to the closed-form Gaussian/no-test shortcut or to a
// direct prediction-residual computation otherwise.
func (m *Model) mse() float64 {
	if m.cfg.Family == Gaussian && m.ds.NoTestSet() {
		n := float64(m.ds.NTrain())
		return math.Exp(2*m.nll/n-1) / (2 * math.Pi)
	}
	x, y := m.ds.ScoreSet()
	return m.directMSE(x, y)
}

func (m *Model) directMSE(x, y mat.Matrix) float64 {
	design := m.buildDesign(x)
	rows, _ := design.Dims()

	var mu sync.Mutex
	var sse float64
	parallel.ParallelizeWithThreshold(rows, parallelRowThreshold, func(start, end int) {
		var partial float64
		for i := start; i < end; i++ {
			eta := 0.0
			for j := 0; j < m.m; j++ {
				eta += m.coef[j] * design.At(i, j)
			}
			pred := eta
			if m.cfg.Family == Binomial {
				pred = stableSigmoid(eta)
			}
			diff := y.At(i, 0) - pred
			partial += diff * diff
		}
		mu.Lock()
		sse += partial
		mu.Unlock()
	})
	return sse / float64(rows)
}

// buildDesign selects the current subset's columns from x (optionally
// prepending an intercept column of ones), returning an n x m matrix.
// Row assembly is independent per row, so rows above parallelRowThreshold
// are assembled across goroutines via ParallelizeWithThreshold.
func (m *Model) buildDesign(x mat.Matrix) *mat.Dense {
	rows, _ := x.Dims()
	design := mat.NewDense(rows, m.m, nil)
	offset := 0
	if m.cfg.Intercept {
		offset = 1
	}
	parallel.ParallelizeWithThreshold(rows, parallelRowThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			if m.cfg.Intercept {
				design.Set(i, 0, 1.0)
			}
			for j, col := range m.combination {
				design.Set(i, offset+j, x.At(i, col))
			}
		}
	})
	return design
}

func invalidFloat(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// stableSigmoid computes sigmoid(z) without overflowing exp for large |z|.
func stableSigmoid(z float64) float64 {
	if z >= 0 {
		return 1.0 / (1.0 + math.Exp(-z))
	}
	ez := math.Exp(z)
	return ez / (1.0 + ez)
}
