package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"strata/internal/config"
	"strata/internal/trace"
)

// setupTracing builds the tracer from [trace] in cfg, overridden by any
// trace flag the user set, and attaches it to the command context. The
// returned cleanup flushes and closes it.
func setupTracing(cmd *cobra.Command, cfg config.Config) (trace.Tracer, func(), error) {
	tc, err := cfg.TracerConfig()
	if err != nil {
		return nil, nil, err
	}
	flags := cmd.Flags()

	if flags.Changed("trace") {
		if tc.OutputPath, err = flags.GetString("trace"); err != nil {
			return nil, nil, fmt.Errorf("failed to get trace flag: %w", err)
		}
		// an explicit output with tracing off means "trace sites"
		if tc.Level == trace.LevelOff && !flags.Changed("trace-level") {
			tc.Level = trace.LevelSite
		}
	}
	if flags.Changed("trace-level") {
		levelStr, err := flags.GetString("trace-level")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get trace-level flag: %w", err)
		}
		if tc.Level, err = trace.ParseLevel(levelStr); err != nil {
			return nil, nil, err
		}
	}
	if flags.Changed("trace-mode") {
		modeStr, err := flags.GetString("trace-mode")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
		}
		if tc.Mode, err = trace.ParseMode(modeStr); err != nil {
			return nil, nil, err
		}
	}
	if flags.Changed("trace-heartbeat") {
		if tc.Heartbeat, err = flags.GetDuration("trace-heartbeat"); err != nil {
			return nil, nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
		}
	}

	if tc.Level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return trace.Nop, func() {}, nil
	}

	tracer, err := trace.New(tc)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	heartbeat := trace.StartHeartbeat(tracer, tc.Heartbeat)

	cleanup := func() {
		heartbeat.Stop()
		if tc.Mode == trace.ModeRing {
			if ring := trace.FindRing(tracer); ring != nil {
				if err := ring.Dump(os.Stderr, trace.FormatText); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
				}
			}
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return tracer, cleanup, nil
}
