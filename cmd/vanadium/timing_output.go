package main

import (
	"fmt"
	"io"

	"vanadium/internal/observ"
)

func printTimings(out io.Writer, timer *observ.Timer) {
	if out == nil || timer.Len() == 0 {
		return
	}
	if _, err := fmt.Fprint(out, timer.Summary()); err != nil {
		panic(err)
	}
}
