package trace

import "context"

type ctxKey uint8

const (
	tracerKey ctxKey = iota
	spanKey
	docKey
)

// FromContext returns the Tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// WithTracer attaches t to ctx. A nil t attaches Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey, t)
}

// SpanContext identifies the active span for child spans and points.
type SpanContext struct {
	SpanID uint64
	GID    uint64
}

// CurrentSpan returns the active span context, zero if none.
func CurrentSpan(ctx context.Context) SpanContext {
	if ctx != nil {
		if sc, ok := ctx.Value(spanKey).(SpanContext); ok {
			return sc
		}
	}
	return SpanContext{}
}

func WithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	return context.WithValue(ctx, spanKey, sc)
}

// WithDoc records the document key that spans and points started from
// the returned context are about.
func WithDoc(ctx context.Context, doc string) context.Context {
	return context.WithValue(ctx, docKey, doc)
}

// DocFrom returns the document key recorded by WithDoc, or "".
func DocFrom(ctx context.Context) string {
	if ctx != nil {
		if doc, ok := ctx.Value(docKey).(string); ok {
			return doc
		}
	}
	return ""
}
