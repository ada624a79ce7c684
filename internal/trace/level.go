package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // ring buffer only, dumped when a command fails
	LevelPhase        // driver and workspace passes
	LevelDetail       // plus every document update and transform
	LevelDebug        // plus every lowered assignment
)

// levels lists each level's name and the finest scope it lets through.
// The error level keeps documents so a failure dump names the culprit.
var levels = [...]struct {
	name  string
	depth Scope
}{
	LevelOff:    {"off", 0},
	LevelError:  {"error", ScopeDocument},
	LevelPhase:  {"phase", ScopeWorkspace},
	LevelDetail: {"detail", ScopeDocument},
	LevelDebug:  {"debug", ScopeDecl},
}

func (l Level) String() string {
	if int(l) < len(levels) {
		return levels[l].name
	}
	return "unknown"
}

// ParseLevel converts a --trace-level value. The empty string is off.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LevelOff, nil
	}
	for l, info := range levels {
		if info.name == s {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|phase|detail|debug)", s)
}

// ShouldEmit reports whether events of scope pass at level l.
func (l Level) ShouldEmit(scope Scope) bool {
	return int(l) < len(levels) && scope <= levels[l].depth
}
