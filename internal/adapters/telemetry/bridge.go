package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/lantern/internal/core/ports"
)

// LogBridge implements sdktrace.SpanProcessor to surface failed and slow spans in the log.
type LogBridge struct {
	logger ports.Logger
	slow   time.Duration
}

// NewLogBridge returns a LogBridge. Spans lasting at least slow are logged as warnings;
// slow <= 0 disables the slow-span warning.
func NewLogBridge(logger ports.Logger, slow time.Duration) *LogBridge {
	return &LogBridge{
		logger: logger,
		slow:   slow,
	}
}

// OnStart does nothing.
func (b *LogBridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd is called when a span ends.
func (b *LogBridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.logger == nil || !s.SpanContext().IsValid() {
		return
	}

	elapsed := s.EndTime().Sub(s.StartTime())
	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "operation failed"
		}
		b.logger.Warn("span failed", "span", s.Name(), "error", desc, "elapsed", elapsed.Round(time.Millisecond))
		return
	}

	if b.slow > 0 && elapsed >= b.slow {
		b.logger.Warn("slow operation", "span", s.Name(), "elapsed", elapsed.Round(time.Millisecond))
	}
}

// ForceFlush does nothing.
func (b *LogBridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *LogBridge) Shutdown(_ context.Context) error {
	return nil
}
