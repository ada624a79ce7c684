package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode is the --ui setting of transform.
type uiMode uint8

const (
	uiModeAuto uiMode = iota
	uiModeOn
	uiModeOff
)

var uiModeNames = map[string]uiMode{"": uiModeAuto, "auto": uiModeAuto, "on": uiModeOn, "off": uiModeOff}

func readUIMode(value string) (uiMode, error) {
	mode, ok := uiModeNames[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return uiModeAuto, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
	return mode, nil
}

// shouldUseTUI decides on the progress view. Auto wants stdout and stderr
// both on a terminal: the view draws on stderr and the lowered trees
// follow on stdout once it closes.
func shouldUseTUI(mode uiMode) bool {
	if mode != uiModeAuto {
		return mode == uiModeOn
	}
	return isTerminal(os.Stdout) && isTerminal(os.Stderr)
}
