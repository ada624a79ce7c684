package trace

import (
	"bytes"
	"context"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns the next global event sequence number.
func NextSeq() uint64 { return seqCounter.Add(1) }

// NextSpanID returns a process-unique span id.
func NextSpanID() uint64 { return spanCounter.Add(1) }

// goroutineID reads the id from the "goroutine N [...]" stack header. Parallel
// workers of the driver are told apart by it.
func goroutineID() uint64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b, ok := bytes.CutPrefix(b, []byte("goroutine "))
	if !ok {
		return 0
	}
	if end := bytes.IndexByte(b, ' '); end >= 0 {
		b = b[:end]
	}
	gid, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0
	}
	return gid
}

// Span is an open begin/end pair. Methods on an inert span (disabled
// tracer, filtered scope, or nil) do nothing.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	gid     uint64
	scope   Scope
	name    string
	doc     string
	started time.Time
	extra   map[string]string
}

func (s *Span) live() bool {
	return s != nil && s.id != 0
}

// Begin opens a span and emits its begin event. doc names the document the
// span is about and may be empty; parent is 0 for roots.
func Begin(t Tracer, scope Scope, name, doc string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{}
	}
	s := &Span{
		tracer:  t,
		id:      NextSpanID(),
		parent:  parent,
		gid:     goroutineID(),
		scope:   scope,
		name:    name,
		doc:     doc,
		started: time.Now(),
	}
	s.emit(KindSpanBegin, s.started, "", nil)
	return s
}

// Start opens a span under the span and document recorded in ctx and
// returns a context carrying the new span.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	sp := Begin(FromContext(ctx), scope, name, DocFrom(ctx), CurrentSpan(ctx).SpanID)
	if !sp.live() {
		return ctx, sp
	}
	return WithSpanContext(ctx, SpanContext{SpanID: sp.id, GID: sp.gid}), sp
}

func (s *Span) emit(kind Kind, at time.Time, detail string, extra map[string]string) {
	s.tracer.Emit(&Event{
		Time:     at,
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		GID:      s.gid,
		Name:     s.name,
		Doc:      s.doc,
		Detail:   detail,
		Extra:    extra,
	})
}

// End emits the end event, carrying detail and any extras, and returns
// the span's duration.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	now := time.Now()
	s.emit(KindSpanEnd, now, detail, s.extra)
	return now.Sub(s.started)
}

// WithExtra attaches a key/value pair to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if !s.live() {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// ID returns the span id, 0 for inert spans.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event parented to s, about the same document.
// Code without a context, like the transformer, traces through this.
func (s *Span) Point(scope Scope, name, detail string) {
	if !s.live() || !s.tracer.Level().ShouldEmit(scope) {
		return
	}
	s.tracer.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: s.id,
		GID:      s.gid,
		Name:     name,
		Doc:      s.doc,
		Detail:   detail,
	})
}

// Point emits an instant event under the span and document recorded in ctx.
func Point(ctx context.Context, scope Scope, name, detail string) {
	t := FromContext(ctx)
	if !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: CurrentSpan(ctx).SpanID,
		GID:      goroutineID(),
		Name:     name,
		Doc:      DocFrom(ctx),
		Detail:   detail,
	})
}
