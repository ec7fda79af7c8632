// Package log provides structured logging for glmsubset, backed by
// zerolog. Components obtain a named Logger through GetLoggerWithName and
// attach structured key/value pairs through With.
package log

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Well-known structured field keys, reused across the search driver, the
// GLM kernel, and the CLI so log lines stay greppable.
const (
	ComponentKey  = "component"
	ModelNameKey  = "model"
	OperationKey  = "op"
	PhaseKey      = "phase"
	SamplesKey    = "n_samples"
	FeaturesKey   = "n_features"
	PredsKey      = "n_preds"
	DurationMsKey = "duration_ms"
	WorkerKey     = "worker"
	BatchKey      = "batch"
	ProgressKey   = "progress"
	TotalKey      = "total"
	ScoreKey      = "score"
)

// Operation and phase values, for consistency across call sites.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationSearch  = "search"
	PhaseTraining    = "training"
	PhaseInference   = "inference"
	PhaseEnumeration = "enumeration"
	PhaseMerge       = "merge"
)

// Level mirrors zerolog's level type without forcing callers to import it.
type Level = zerolog.Level

// ToLogLevel parses a level name ("debug", "info", "warn", "error") into a
// Level, defaulting to InfoLevel for unrecognized input.
func ToLogLevel(name string) Level {
	lvl, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// Logger is the structured logging surface used throughout the module.
// Field arguments are variadic key/value pairs, e.g.:
//
//	logger.Info("fit completed", log.DurationMsKey, 12, log.SamplesKey, 500)
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	With(fields ...interface{}) Logger
}

// Provider constructs named Loggers. Swappable so tests can inject a
// discard provider or capture output.
type Provider interface {
	GetLoggerWithName(name string) Logger
}

type zerologLogger struct {
	logger zerolog.Logger
}

func (l *zerologLogger) event(level zerolog.Level) *zerolog.Event {
	switch level {
	case zerolog.DebugLevel:
		return l.logger.Debug()
	case zerolog.WarnLevel:
		return l.logger.Warn()
	case zerolog.ErrorLevel:
		return l.logger.Error()
	default:
		return l.logger.Info()
	}
}

func (l *zerologLogger) log(level zerolog.Level, msg string, fields []interface{}) {
	ev := l.event(level)
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ev = addField(ev, key, fields[i+1])
	}
	ev.Msg(msg)
}

func addField(ev *zerolog.Event, key string, value interface{}) *zerolog.Event {
	switch v := value.(type) {
	case string:
		return ev.Str(key, v)
	case int:
		return ev.Int(key, v)
	case int64:
		return ev.Int64(key, v)
	case uint64:
		return ev.Uint64(key, v)
	case float64:
		return ev.Float64(key, v)
	case bool:
		return ev.Bool(key, v)
	case error:
		return ev.AnErr(key, v)
	default:
		return ev.Interface(key, v)
	}
}

func (l *zerologLogger) Debug(msg string, fields ...interface{}) { l.log(zerolog.DebugLevel, msg, fields) }
func (l *zerologLogger) Info(msg string, fields ...interface{})  { l.log(zerolog.InfoLevel, msg, fields) }
func (l *zerologLogger) Warn(msg string, fields ...interface{})  { l.log(zerolog.WarnLevel, msg, fields) }
func (l *zerologLogger) Error(msg string, fields ...interface{}) { l.log(zerolog.ErrorLevel, msg, fields) }

func (l *zerologLogger) With(fields ...interface{}) Logger {
	ctx := l.logger.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ctx = withField(ctx, key, fields[i+1])
	}
	return &zerologLogger{logger: ctx.Logger()}
}

func withField(ctx zerolog.Context, key string, value interface{}) zerolog.Context {
	switch v := value.(type) {
	case string:
		return ctx.Str(key, v)
	case int:
		return ctx.Int(key, v)
	case int64:
		return ctx.Int64(key, v)
	case uint64:
		return ctx.Uint64(key, v)
	case float64:
		return ctx.Float64(key, v)
	case bool:
		return ctx.Bool(key, v)
	default:
		return ctx.Interface(key, v)
	}
}

// ZerologProvider is the default Provider, writing structured JSON (or, if
// configured with NewConsoleZerologProvider, human-readable console lines)
// to an underlying writer.
type ZerologProvider struct {
	base zerolog.Logger
}

// NewZerologProvider creates a Provider writing JSON lines to stderr at the
// given level.
func NewZerologProvider(level Level) *ZerologProvider {
	return NewZerologProviderWithWriter(os.Stderr, level)
}

// NewZerologProviderWithWriter creates a Provider writing to an arbitrary
// writer, primarily for tests that want to capture log output.
func NewZerologProviderWithWriter(w io.Writer, level Level) *ZerologProvider {
	base := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &ZerologProvider{base: base}
}

// NewConsoleZerologProvider creates a Provider writing human-readable
// console lines to stdout, used by the cmd/bestsubset CLI.
func NewConsoleZerologProvider(level Level) *ZerologProvider {
	writer := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	base := zerolog.New(writer).Level(level).With().Timestamp().Logger()
	return &ZerologProvider{base: base}
}

// GetLoggerWithName returns a Logger tagged with a "logger" field set to name.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	return &zerologLogger{logger: p.base.With().Str("logger", name).Logger()}
}

var (
	globalMu       sync.Mutex
	globalProvider Provider = NewZerologProvider(zerolog.InfoLevel)
)

// SetGlobalProvider replaces the package-level default provider. Intended
// for process startup (e.g. the CLI wiring a console provider) and tests.
func SetGlobalProvider(p Provider) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalProvider = p
}

// GetLoggerWithName returns a Logger from the current global Provider.
func GetLoggerWithName(name string) Logger {
	globalMu.Lock()
	p := globalProvider
	globalMu.Unlock()
	return p.GetLoggerWithName(name)
}

// discardLogger implements Logger by discarding everything; used as the
// default when a component is constructed without an explicit logger and
// tests that want zero log noise.
type discardLogger struct{}

func (discardLogger) Debug(string, ...interface{}) {}
func (discardLogger) Info(string, ...interface{})  {}
func (discardLogger) Warn(string, ...interface{})  {}
func (discardLogger) Error(string, ...interface{}) {}
func (d discardLogger) With(...interface{}) Logger { return d }

// Discard is a Logger that drops every message.
var Discard Logger = discardLogger{}
