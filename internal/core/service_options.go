package core

import (
	"context"
	"math/rand"
	"time"
)

// Logger is the minimal structured logging interface consumed by the service.
// Arguments are alternating key/value pairs in the slog convention.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// MetricsRecorder aggregates operation outcomes for export.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// TraceSpan terminates a single traced operation.
type TraceSpan interface {
	End(err error)
}

// Tracer starts spans around service operations.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

type noopSpan struct{}

func (noopSpan) End(error) {}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, TraceSpan) {
	return ctx, noopSpan{}
}

// ServiceOption customises service construction.
type ServiceOption func(*Service)

// WithLogger installs a structured logger. Nil restores the no-op logger.
func WithLogger(logger Logger) ServiceOption {
	return func(s *Service) {
		if logger == nil {
			logger = noopLogger{}
		}
		s.logger = logger
	}
}

// WithMetricsRecorder installs a metrics sink for operation outcomes.
func WithMetricsRecorder(recorder MetricsRecorder) ServiceOption {
	return func(s *Service) {
		s.metrics = recorder
	}
}

// WithTracer installs a tracer around service operations.
func WithTracer(tracer Tracer) ServiceOption {
	return func(s *Service) {
		if tracer == nil {
			tracer = noopTracer{}
		}
		s.tracer = tracer
	}
}

// WithRandSource fixes the random source used for layer-count and sampling
// draws, primarily for deterministic tests.
func WithRandSource(src rand.Source) ServiceOption {
	return func(s *Service) {
		if src == nil {
			return
		}
		s.rng = rand.New(src)
	}
}

// WithClock overrides the service clock, primarily for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.nowFn = now
		}
	}
}

// observe finishes the bookkeeping for one operation: metrics, trace span and
// failure logging.
func (s *Service) observe(ctx context.Context, span TraceSpan, operation string, started time.Time, err error) {
	span.End(err)
	if s.metrics != nil {
		s.metrics.Observe(ctx, operation, err == nil, s.nowFn().Sub(started))
	}
	if err != nil {
		s.logger.Error(operation+" failed", "error", err)
	}
}
