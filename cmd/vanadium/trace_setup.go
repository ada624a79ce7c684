package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vanadium/internal/project"
	"vanadium/internal/trace"
)

// setupTracing reads the --trace* flags, falling back to the manifest's
// [trace] table for flags left unset, and attaches the tracer to the
// command context. The returned cleanup flushes and closes it, dumping the
// ring first when the command failed.
func setupTracing(cmd *cobra.Command, m *project.Manifest) (func(failed bool), error) {
	pf := cmd.Root().PersistentFlags()

	traceOutput, err := pf.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := pf.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := pf.GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	formatStr, err := pf.GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	ringSize, err := pf.GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	if m != nil {
		tc := m.Config.Trace
		if !pf.Changed("trace") && tc.Output != "" {
			traceOutput = m.Resolve(tc.Output)
		}
		if !pf.Changed("trace-level") && tc.Level != "" {
			levelStr = tc.Level
		}
		if !pf.Changed("trace-mode") && tc.Mode != "" {
			modeStr = tc.Mode
		}
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}
	if level == trace.LevelOff && traceOutput == "" {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func(bool) {}, nil
	}
	if level == trace.LevelOff {
		// an output without a level means "trace the phases"
		level = trace.LevelPhase
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace format: %w", err)
	}

	cfg := trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: traceOutput,
		RingSize:   ringSize,
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	return func(failed bool) {
		if failed {
			if err := trace.DumpRing(tracer, cfg); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}, nil
}
