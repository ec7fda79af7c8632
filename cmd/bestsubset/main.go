// Command bestsubset runs an exhaustive best-subset GLM search over a CSV
// design matrix and prints the top-R scoring feature combinations. It is
// the thin external glue around core/search: CSV ingestion, flag parsing,
// and formatted ranking output live here; the algorithm does not.
package main

import (
	stderrors "errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	"gonum.org/v1/gonum/mat"

	"github.com/tanaka-yuki/glmsubset/core/glm"
	"github.com/tanaka-yuki/glmsubset/core/ranking"
	"github.com/tanaka-yuki/glmsubset/core/search"
	"github.com/tanaka-yuki/glmsubset/metrics"
	"github.com/tanaka-yuki/glmsubset/pkg/errors"
	"github.com/tanaka-yuki/glmsubset/pkg/log"
	"github.com/tanaka-yuki/glmsubset/preprocessing"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("bestsubset", flag.ContinueOnError)
	var (
		trainPath   = fs.String("train", "", "path to the training CSV (required)")
		testPath    = fs.String("test", "", "path to a held-out CSV for MSE scoring (optional)")
		responseCol = fs.Int("response-col", -1, "0-based response column index (default: last column)")
		family      = fs.String("family", "gaussian", "GLM family: gaussian or binomial")
		performance = fs.String("performance", "aic", "scoring rule: aic or mse")
		intercept   = fs.Bool("intercept", true, "fit an intercept term")
		standardize = fs.Bool("standardize", false, "center and scale predictors before searching")
		kMax        = fs.Int("k-max", 0, "largest subset size to search (default: all predictors)")
		nResults    = fs.Int("n-results", 10, "number of top combinations to retain (R)")
		nThreads    = fs.Int("n-threads", 4, "number of worker goroutines")
		errValue    = fs.Float64("err-value", 1e300, "score assigned to a subset whose fit fails")
		quiet       = fs.Bool("quiet", false, "suppress progress logging")
		verbose     = fs.Bool("verbose", false, "print per-batch diagnostics after the search completes")
		logLevel    = fs.String("log-level", "info", "log level: debug, info, warn, error")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	log.SetGlobalProvider(log.NewConsoleZerologProvider(log.ToLogLevel(*logLevel)))
	logger := log.GetLoggerWithName("bestsubset")

	if *trainPath == "" {
		logger.Error("missing required flag", "flag", "-train")
		return 2
	}

	fam, err := parseFamily(*family)
	if err != nil {
		logger.Error("invalid -family", "err", err)
		return 2
	}
	perf, err := parsePerformance(*performance)
	if err != nil {
		logger.Error("invalid -performance", "err", err)
		return 2
	}

	trainCSV, err := readCSV(*trainPath)
	if err != nil {
		logger.Error("failed to read training data", "err", err)
		return 1
	}
	xTrain, yTrain, names, err := splitDesignResponse(trainCSV, *responseCol)
	if err != nil {
		logger.Error("failed to parse training data", "err", err)
		return 1
	}

	var xTest *mat.Dense
	var yTest *mat.VecDense
	if *testPath != "" {
		testCSV, err := readCSV(*testPath)
		if err != nil {
			logger.Error("failed to read test data", "err", err)
			return 1
		}
		xt, yt, _, err := splitDesignResponse(testCSV, *responseCol)
		if err != nil {
			logger.Error("failed to parse test data", "err", err)
			return 1
		}
		xTest, yTest = xt, yt
	}

	if *standardize {
		scaler := preprocessing.NewStandardScaler(true, true)
		scaledTrain, err := scaler.FitTransform(xTrain)
		if err != nil {
			logger.Error("failed to standardize training data", "err", err)
			return 1
		}
		xTrain = scaledTrain
		if xTest != nil {
			scaledTest, err := scaler.Transform(xTest)
			if err != nil {
				logger.Error("failed to standardize test data", "err", err)
				return 1
			}
			xTest = scaledTest
		}
	}

	_, p := xTrain.Dims()
	effectiveKMax := *kMax
	if effectiveKMax <= 0 {
		effectiveKMax = p
	}

	var cancelled atomic.Bool
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		if _, ok := <-sigCh; ok {
			logger.Warn("interrupt received, requesting cancellation")
			cancelled.Store(true)
		}
	}()
	defer signal.Stop(sigCh)

	cfg := search.Config{
		XTrain: xTrain, YTrain: yTrain,
		Family:      fam,
		Performance: perf,
		Intercept:   *intercept,
		KMax:        effectiveKMax,
		NResults:    *nResults,
		NThreads:    *nThreads,
		ErrValue:    *errValue,
		Quietly:     *quiet,
		ShouldCancel: func() bool {
			return cancelled.Load()
		},
		Logger: logger,
	}
	if xTest != nil {
		cfg.XTest, cfg.YTest = xTest, yTest
	}

	result, err := search.Run(cfg)
	if err != nil {
		if stderrors.Is(err, errors.ErrInterrupted) {
			logger.Warn("search interrupted before completion")
			return 130
		}
		logger.Error("search failed", "err", err)
		return 1
	}

	printResult(result, names, perf)
	if len(result.TopR) > 0 {
		printBestModelDiagnostics(result.TopR[0], xTrain, yTrain, fam, *intercept, logger)
	}
	if *verbose {
		printDiagnostics(result)
	}
	return 0
}

// printBestModelDiagnostics refits the winning subset on the full
// training data and reports the family-appropriate scores a GLM summary
// would show alongside AIC/MSE: MSE/RMSE/MAE/R2 for Gaussian,
// Accuracy/AUC/BinaryLogLoss for Binomial.
func printBestModelDiagnostics(best ranking.ScoredCombination, xTrain *mat.Dense, yTrain *mat.VecDense, fam glm.Family, intercept bool, logger log.Logger) {
	ds, err := glm.NewDataSet(xTrain, yTrain, nil, nil)
	if err != nil {
		logger.Warn("diagnostics skipped", "err", err)
		return
	}
	model := glm.New(ds, glm.Config{Family: fam, Intercept: intercept, ErrValue: 1e300}, log.Discard)
	zeroBased := make([]int, best.Combination.Len())
	for i, idx := range best.Combination {
		zeroBased[i] = idx - 1
	}
	model.SetFeatureCombination(zeroBased)
	model.Fit()

	pred, err := model.Predict(xTrain)
	if err != nil {
		logger.Warn("diagnostics skipped", "err", err)
		return
	}

	fmt.Println()
	fmt.Println("best model diagnostics (refit on training data):")
	switch fam {
	case glm.Gaussian:
		mse, _ := metrics.MSE(yTrain, pred)
		rmse, _ := metrics.RMSE(yTrain, pred)
		mae, _ := metrics.MAE(yTrain, pred)
		r2, _ := metrics.R2Score(yTrain, pred)
		fmt.Printf("  mse=%.4f rmse=%.4f mae=%.4f r2=%.4f\n", mse, rmse, mae, r2)
	case glm.Binomial:
		acc, _ := metrics.Accuracy(yTrain, pred)
		auc, _ := metrics.AUC(yTrain, pred)
		logLoss, _ := metrics.BinaryLogLoss(yTrain, pred)
		fmt.Printf("  accuracy=%.4f auc=%.4f log_loss=%.4f\n", acc, auc, logLoss)
	}
}

func parseFamily(s string) (glm.Family, error) {
	switch strings.ToLower(s) {
	case "gaussian":
		return glm.Gaussian, nil
	case "binomial":
		return glm.Binomial, nil
	default:
		return 0, errors.NewValueError("parseFamily", fmt.Sprintf("unknown family %q", s))
	}
}

func parsePerformance(s string) (glm.Performance, error) {
	switch strings.ToLower(s) {
	case "aic":
		return glm.AIC, nil
	case "mse":
		return glm.MSE, nil
	default:
		return 0, errors.NewValueError("parsePerformance", fmt.Sprintf("unknown performance rule %q", s))
	}
}

func printResult(result *search.Result, names []string, perf glm.Performance) {
	fmt.Printf("evaluated %d combinations in %.2fs\n\n", result.Evaluated, result.RuntimeS)
	fmt.Printf("%-6s %-10s %s\n", "rank", perf.String(), "features")
	fmt.Println(strings.Repeat("-", 60))
	for i, c := range result.TopR {
		fmt.Printf("%-6d %-10.4f %s\n", i+1, c.Score, featureLabels(c, names))
	}
}

func featureLabels(c ranking.ScoredCombination, names []string) string {
	labels := make([]string, c.Combination.Len())
	for i, idx := range c.Combination {
		if idx-1 < len(names) {
			labels[i] = names[idx-1]
		} else {
			labels[i] = fmt.Sprintf("x%d", idx)
		}
	}
	return strings.Join(labels, ", ")
}

func printDiagnostics(result *search.Result) {
	fmt.Println()
	fmt.Printf("%d batches across %d threads\n", result.NBatches, result.NThreads)
	for i, size := range result.BatchSizes {
		fmt.Printf("  batch %d: size=%d start=%s\n", i, size, result.BatchStarts[i])
	}
}
