package telemetry

import (
	"log"
	"strings"

	"game-interactor/logging"
)

// Logger is the process log used for operator-facing text lines. Structured
// interaction events go through logging.Publisher instead.
type Logger interface {
	Printf(format string, args ...any)
}

// LoggerFunc adapts functions into the Logger interface.
type LoggerFunc func(format string, args ...any)

// Printf implements Logger for LoggerFunc.
func (f LoggerFunc) Printf(format string, args ...any) {
	if f == nil {
		return
	}
	f(format, args...)
}

// WrapLogger adapts a standard library logger to the Logger interface.
func WrapLogger(logger *log.Logger) Logger {
	return LoggerFunc(func(format string, args ...any) {
		if logger != nil {
			logger.Printf(format, args...)
		}
	})
}

// WithComponent prefixes every line with "[component] ".
func WithComponent(logger Logger, component string) Logger {
	component = strings.TrimSpace(component)
	if logger == nil || component == "" {
		return logger
	}
	prefix := "[" + component + "] "
	return LoggerFunc(func(format string, args ...any) {
		logger.Printf(prefix+format, args...)
	})
}

// Metrics is the counter and gauge surface shared by the loop, the
// interactor and the transports.
type Metrics interface {
	Add(key string, delta uint64)
	Store(key string, value uint64)
}

// WrapMetrics exposes the router's telemetry map as Metrics.
func WrapMetrics(metrics *logging.Metrics) Metrics {
	return routerMetrics{metrics: metrics}
}

type routerMetrics struct {
	metrics *logging.Metrics
}

func (m routerMetrics) Add(key string, delta uint64) {
	if m.metrics != nil {
		m.metrics.TelemetryAdd(key, delta)
	}
}

func (m routerMetrics) Store(key string, value uint64) {
	if m.metrics != nil {
		m.metrics.TelemetryStore(key, value)
	}
}

// CountKind bumps the base counter and its per-kind child.
func CountKind(metrics Metrics, base, kind string) {
	if metrics == nil {
		return
	}
	metrics.Add(base, 1)
	if key := KindKey(base, kind); key != base {
		metrics.Add(key, 1)
	}
}
