package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"strata/internal/bench"
	"strata/internal/observ"
	"strata/internal/prof"
	"strata/internal/snapshot"
	"strata/internal/storage"
	"strata/internal/ui"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run array workloads and report storage work",
	Long: `Run the built-in array workloads in parallel. Each workload builds arrays
through its own call sites; the report lists the final representation, the
element copies, allocations and representation transitions it caused.

Workloads: ` + strings.Join(bench.Names(), ", "),
	Args: cobra.NoArgs,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().Int("jobs", 0, "max parallel workloads (0 = GOMAXPROCS)")
	benchCmd.Flags().Int("size", bench.DefaultSize, "elements built per workload")
	benchCmd.Flags().StringSlice("workload", nil, "workload to run (repeatable; default all)")
	benchCmd.Flags().String("profile-in", "", "warm-start sites from a profile file")
	benchCmd.Flags().String("profile-out", "", "write the settled site profile to a file")
	benchCmd.Flags().String("snapshot-dir", "", "store every workload's final array in this directory")
	benchCmd.Flags().Bool("snapshot", false, "store final arrays under the configured snapshot dir")
	benchCmd.Flags().String("trace", "", "trace output file (\"-\" for stderr)")
	benchCmd.Flags().String("trace-level", "off", "trace level (off|error|site|debug)")
	benchCmd.Flags().String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	benchCmd.Flags().Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0 = off)")
	benchCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	benchCmd.Flags().Bool("timings", false, "print per-workload timings")
	benchCmd.Flags().String("lang", "en", "BCP 47 tag used to format report numbers")
	benchCmd.Flags().String("cpuprofile", "", "write a CPU profile to file")
	benchCmd.Flags().String("memprofile", "", "write a heap profile to file")
	benchCmd.Flags().String("exectrace", "", "write a runtime execution trace to file")
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	jobs, _ := flags.GetInt("jobs")
	size, _ := flags.GetInt("size")
	names, _ := flags.GetStringSlice("workload")
	profileIn, _ := flags.GetString("profile-in")
	profileOut, _ := flags.GetString("profile-out")
	snapshotDir, _ := flags.GetString("snapshot-dir")
	useSnapshots, _ := flags.GetBool("snapshot")
	uiValue, _ := flags.GetString("ui")
	showTimings, _ := flags.GetBool("timings")
	langValue, _ := flags.GetString("lang")

	out := cmd.OutOrStdout()
	withUI, err := progressUI(uiValue, out)
	if err != nil {
		return err
	}
	tag, err := language.Parse(langValue)
	if err != nil {
		return fmt.Errorf("invalid --lang value %q: %w", langValue, err)
	}
	selected, err := bench.Lookup(names)
	if err != nil {
		return err
	}

	tracer, stopTracing, err := setupTracing(cmd, cfg)
	if err != nil {
		return err
	}
	defer stopTracing()

	session, err := startProfiling(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profiling: %v\n", err)
		}
	}()

	opts := cfg.StorageOptions()
	reg := storage.NewRegistry(storage.SiteConfig{Options: &opts, Tracer: tracer})
	if profileIn != "" {
		profiles, err := snapshot.ReadProfileFile(profileIn)
		if err != nil {
			return fmt.Errorf("failed to read profile: %w", err)
		}
		reg.Preload(profiles)
	}

	var snaps *snapshot.Store
	if snapshotDir == "" && useSnapshots {
		snapshotDir = cfg.Snapshot.Dir
	}
	if snapshotDir != "" {
		if snaps, err = snapshot.Open(snapshotDir); err != nil {
			return fmt.Errorf("failed to open snapshot dir: %w", err)
		}
	}

	timer := observ.NewTimer()
	runOpts := bench.Options{
		Jobs:      jobs,
		Size:      size,
		Workloads: names,
		Registry:  reg,
		Snapshots: snaps,
		Timer:     timer,
	}

	var results []bench.Result
	if withUI {
		workloadNames := make([]string, len(selected))
		for i, w := range selected {
			workloadNames[i] = w.Name
		}
		results, err = runBenchWithUI(cmd.Context(), out, "strata bench", workloadNames, runOpts)
	} else {
		results, err = bench.Run(cmd.Context(), runOpts)
	}
	if err != nil {
		return err
	}

	if err := bench.WriteReport(out, results, tag); err != nil {
		return err
	}
	if showTimings {
		fmt.Fprint(out, timer.Summary())
	}
	if profileOut != "" {
		if err := snapshot.WriteProfileFile(profileOut, reg.Profile()); err != nil {
			return fmt.Errorf("failed to write profile: %w", err)
		}
	}
	return nil
}

// progressUI resolves the --ui flag. Under auto the progress view is used
// only when the report goes straight to a terminal.
func progressUI(mode string, out io.Writer) (bool, error) {
	switch strings.TrimSpace(strings.ToLower(mode)) {
	case "", "auto":
		f, ok := out.(*os.File)
		return ok && isTerminal(f), nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", mode)
	}
}

func startProfiling(cmd *cobra.Command) (*prof.Session, error) {
	flags := cmd.Flags()
	var p prof.Paths
	p.CPU, _ = flags.GetString("cpuprofile")
	p.Mem, _ = flags.GetString("memprofile")
	p.ExecTrace, _ = flags.GetString("exectrace")
	return prof.Start(p)
}

type benchOutcome struct {
	results []bench.Result
	err     error
}

func runBenchWithUI(ctx context.Context, out io.Writer, title string, workloads []string, opts bench.Options) ([]bench.Result, error) {
	events := make(chan bench.Event, 256)
	outcomeCh := make(chan benchOutcome, 1)

	go func() {
		opts.Sink = bench.ChannelSink{Ch: events}
		res, err := bench.Run(ctx, opts)
		outcomeCh <- benchOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, workloads, events)
	program := tea.NewProgram(model, tea.WithOutput(out))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
