package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the most recent events in memory so a failed run can
// dump what led up to it.
type RingTracer struct {
	mu      sync.Mutex
	buf     []Event
	written uint64 // total events ever stored
	level   Level
}

// NewRingTracer creates a RingTracer holding at most capacity events.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &RingTracer{buf: make([]Event, capacity), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	slot := &t.buf[t.written%uint64(len(t.buf))]
	*slot = *ev
	slot.Seq = NextSeq()
	t.written++
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := uint64(len(t.buf))
	first := uint64(0)
	if t.written > n {
		first = t.written - n
	}
	out := make([]Event, 0, t.written-first)
	for i := first; i < t.written; i++ {
		out = append(out, t.buf[i%n])
	}
	return out
}

// Dump writes the snapshot to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }

// RingOf returns the ring buffer behind t: t itself, or the ring child of
// a MultiTracer. It returns nil when t keeps no ring.
func RingOf(t Tracer) *RingTracer {
	switch t := t.(type) {
	case *RingTracer:
		return t
	case *MultiTracer:
		return t.Ring()
	}
	return nil
}
