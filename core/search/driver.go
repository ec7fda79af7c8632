// Package search implements the parallel best-subset driver: it derives
// batches from an enumerator, runs one worker goroutine per batch (each
// holding a private GLM model clone and a private bounded ranking),
// reports progress from a separate status goroutine, and merges the per-worker
// rankings into a single top-R result.
package search

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tanaka-yuki/glmsubset/core/enumerator"
	"github.com/tanaka-yuki/glmsubset/core/glm"
	"github.com/tanaka-yuki/glmsubset/core/ranking"
	"github.com/tanaka-yuki/glmsubset/pkg/errors"
)

// gaussianCheckpoint and binomialCheckpoint are the coarse-grained fit
// counts between progress/cancel checkpoints: binomial fits are
// expensive enough (an L-BFGS run each) to check far more often than the
// closed-form Gaussian fit.
const (
	gaussianCheckpoint = 50000
	binomialCheckpoint = 500
)

// Result is what a completed (non-cancelled) search returns.
type Result struct {
	RuntimeS  float64
	TopR      []ranking.ScoredCombination
	Evaluated uint64
	NThreads  int
	NBatches  int

	BatchSizes  []int
	BatchStarts []enumerator.Combination
}

// Run validates cfg, derives batches, and drives the parallel search to
// completion. It returns pkg/errors.ErrInterrupted (via errors.Is) if
// cfg.ShouldCancel ever reports true before the search finishes; no
// partial ranking is returned on cancellation.
func Run(cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	logger := cfg.logger()

	ds, err := glm.NewDataSet(cfg.XTrain, cfg.YTrain, cfg.XTest, cfg.YTest)
	if err != nil {
		return nil, err
	}

	enum, err := enumerator.New(ds.NFeatures(), cfg.KMax)
	if err != nil {
		return nil, err
	}

	batches := enum.Batches(cfg.NThreads)
	nBatches := len(batches)

	glmCfg := glm.Config{
		Family:                      cfg.Family,
		Performance:                 cfg.Performance,
		Intercept:                   cfg.Intercept,
		ErrValue:                    cfg.ErrValue,
		AcceptNonConvergedFiniteNLL: cfg.AcceptNonConvergedFiniteNLL,
	}
	baseModel := glm.New(ds, glmCfg, logger)

	progress := newProgressState(uint64(enum.Total()))
	reporter := newStatusReporter(progress, cfg.Quietly, logger)
	reporter.shouldCancel = cfg.ShouldCancel
	go reporter.run()

	checkpoint := gaussianCheckpoint
	if cfg.Family == glm.Binomial {
		checkpoint = binomialCheckpoint
	}

	localRankings := make([]*ranking.Ranking, nBatches)
	batchSizes := make([]int, nBatches)
	batchStarts := make([]enumerator.Combination, nBatches)
	for i, b := range batches {
		batchSizes[i] = b.Size
		batchStarts[i] = b.Start
	}

	startedAt := time.Now()
	g, _ := errgroup.WithContext(context.Background())
	for i, b := range batches {
		i, b := i, b
		g.Go(func() error {
			local := runBatch(enum, b, baseModel.Clone(), cfg.NResults, progress, reporter, checkpoint)
			localRankings[i] = local
			return nil
		})
	}
	_ = g.Wait()

	reporter.Stop()

	if progress.Cancelled() {
		return nil, errors.Wrap(errors.ErrInterrupted, "search")
	}

	merged := ranking.Merge(cfg.NResults, localRankings, batchSizes)

	return &Result{
		RuntimeS:    time.Since(startedAt).Seconds(),
		TopR:        merged,
		Evaluated:   progress.Completed(),
		NThreads:    nBatches,
		NBatches:    nBatches,
		BatchSizes:  batchSizes,
		BatchStarts: batchStarts,
	}, nil
}

// runBatch walks one batch's combinations in canonical order, fitting
// and scoring each into a private ranking, and returns that ranking once
// the batch is exhausted or cancellation is observed.
func runBatch(
	enum *enumerator.Enumerator,
	b enumerator.Batch,
	model *glm.Model,
	capacity int,
	progress *ProgressState,
	reporter *statusReporter,
	checkpoint int,
) *ranking.Ranking {
	local := ranking.New(capacity)
	cursor := b.Start.Clone()

	sinceCheckpoint := 0
	for !cursor.Equal(b.Stop) {
		if err := enum.Next(&cursor); err != nil {
			break
		}

		model.SetFeatureCombination(toZeroBased(cursor))
		model.Fit()
		score := model.Score()
		local.Push(ranking.ScoredCombination{Score: score, Combination: cursor.Clone()})

		sinceCheckpoint++
		if sinceCheckpoint >= checkpoint {
			progress.Add(uint64(sinceCheckpoint))
			sinceCheckpoint = 0
			reporter.Notify()
			if progress.Cancelled() {
				return local
			}
		}
	}
	if sinceCheckpoint > 0 {
		progress.Add(uint64(sinceCheckpoint))
	}
	return local
}

// toZeroBased converts a 1-based Combination to the 0-based column
// indices glm.Model.SetFeatureCombination expects.
func toZeroBased(c enumerator.Combination) []int {
	out := make([]int, len(c))
	for i, v := range c {
		out[i] = v - 1
	}
	return out
}
