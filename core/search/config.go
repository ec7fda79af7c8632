package search

import (
	"gonum.org/v1/gonum/mat"

	"github.com/tanaka-yuki/glmsubset/core/glm"
	"github.com/tanaka-yuki/glmsubset/pkg/errors"
	"github.com/tanaka-yuki/glmsubset/pkg/log"
)

// Config is the single entry point for an exhaustive best-subset search.
type Config struct {
	XTrain, YTrain mat.Matrix
	XTest, YTest   mat.Matrix // both nil means "score against the training set"

	Family      glm.Family
	Performance glm.Performance
	Intercept   bool

	KMax     int
	NResults int // R, the number of top combinations to retain
	NThreads int // requested batch/goroutine count
	ErrValue float64

	// AcceptNonConvergedFiniteNLL forwards to glm.Config; see its doc.
	AcceptNonConvergedFiniteNLL bool

	Quietly bool

	// ShouldCancel is polled at coarse-grained checkpoints so a host
	// process can request early termination (e.g. on SIGINT). May be nil.
	ShouldCancel func() bool

	// Logger overrides the package-level default. Nil uses log.Discard.
	Logger log.Logger
}

func (c *Config) validate() error {
	if c.XTrain == nil || c.YTrain == nil {
		return errors.NewConfigError("search.Config", "XTrain/YTrain", "training data must not be nil")
	}
	_, p := c.XTrain.Dims()
	if c.KMax < 1 || c.KMax > p {
		return errors.NewConfigError("search.Config", "KMax", "must be between 1 and the number of candidate predictors")
	}
	if c.NResults < 1 {
		return errors.NewConfigError("search.Config", "NResults", "must be at least 1")
	}
	if c.NThreads < 1 {
		return errors.NewConfigError("search.Config", "NThreads", "must be at least 1")
	}
	if c.Performance == glm.MSE && (c.XTest == nil) != (c.YTest == nil) {
		return errors.NewConfigError("search.Config", "XTest/YTest", "must both be supplied or both be absent")
	}
	return nil
}

func (c *Config) logger() log.Logger {
	if c.Logger == nil {
		return log.Discard
	}
	return c.Logger
}
