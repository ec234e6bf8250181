package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/mbuild/internal/core/domain"
	"go.trai.ch/mbuild/internal/core/ports"
)

// Bridge implements sdktrace.SpanProcessor and reports finished spans to a
// Notifier as debug events, so phase timings show up in verbose output.
type Bridge struct {
	notifier ports.Notifier
}

// NewBridge returns a new Bridge.
func NewBridge(notifier ports.Notifier) *Bridge {
	return &Bridge{notifier: notifier}
}

// OnStart does nothing; spans are reported once they end.
func (b *Bridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd is called when a span ends.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.notifier == nil || !s.SpanContext().IsValid() {
		return
	}

	elapsed := s.EndTime().Sub(s.StartTime()).Round(time.Millisecond)
	msg := fmt.Sprintf("%s took %s", s.Name(), elapsed)
	if st := s.Status(); st.Code == codes.Error {
		desc := st.Description
		if desc == "" {
			desc = "failed"
		}
		msg = fmt.Sprintf("%s (%s)", msg, desc)
	}
	b.notifier.Notify(domain.DebugEvent(msg))
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}

// NewProvider returns an SDK tracer provider whose spans are forwarded to
// notifier. Bridge runs synchronously, so nothing needs flushing on exit.
func NewProvider(notifier ports.Notifier) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(NewBridge(notifier)))
}
