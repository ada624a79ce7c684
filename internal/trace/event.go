package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint // instant event
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event. Lower values are coarser.
type Scope uint8

const (
	// ScopeDriver covers a whole CLI command or driver call.
	ScopeDriver Scope = iota + 1
	// ScopeWorkspace covers one pass over every document of a basket.
	ScopeWorkspace
	// ScopeDocument covers one basket item: an update or a transform.
	ScopeDocument
	// ScopeDecl covers one top-level assignment inside a module.
	ScopeDecl
)

var scopeNames = [...]string{
	ScopeDriver:    "driver",
	ScopeWorkspace: "wspace",
	ScopeDocument:  "doc",
	ScopeDecl:      "decl",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is a single trace record. Doc is the document key the event is
// about, empty for events above document scope.
type Event struct {
	Time     time.Time
	Seq      uint64 // global, monotonic
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	GID      uint64
	Name     string // "basket.update", "transform.decl", ...
	Doc      string
	Detail   string
	Extra    map[string]string
}
