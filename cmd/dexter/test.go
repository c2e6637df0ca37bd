package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Melamoto/dexter/internal/debugger"
	"github.com/Melamoto/dexter/internal/driver"
	"github.com/Melamoto/dexter/internal/heuristic"
	"github.com/Melamoto/dexter/internal/options"
	"github.com/Melamoto/dexter/internal/output"
	"github.com/Melamoto/dexter/internal/store"
	"github.com/Melamoto/dexter/internal/trace"
)

var (
	flagDebugger  string
	flagBinary    string
	flagMaxSteps  int
	flagPause     time.Duration
	flagArch      string
	flagLLDB      string
	flagShowDbg   bool
	flagFailLt    float64
	flagReplayLog string
	flagKeepTmp   bool
	flagHistoryDB string
)

var testCmd = &cobra.Command{
	Use:   "test --binary <executable> [flags] <source file>...",
	Short: "Run a debugger over a test program and score the experience",
	Long:  "Scans the source files for embedded Dex commands, drives the chosen debugger over the binary in a child process, and scores the recorded step trace against the expectations.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTest,
}

func init() {
	testCmd.Flags().StringVar(&flagDebugger, "debugger", "lldb", "debugger backend to drive")
	testCmd.Flags().StringVar(&flagBinary, "binary", "", "debuggee executable (required)")
	testCmd.Flags().IntVar(&flagMaxSteps, "max-steps", 1000, "upper bound on recorded program steps")
	testCmd.Flags().DurationVar(&flagPause, "pause-between-steps", 0, "delay between debugger steps")
	testCmd.Flags().StringVar(&flagArch, "arch", "x86_64", "target architecture")
	testCmd.Flags().StringVar(&flagLLDB, "lldb-executable", "lldb", "path to the lldb binary")
	testCmd.Flags().BoolVar(&flagShowDbg, "show-debugger", false, "print the recorded step trace after the run")
	testCmd.Flags().Float64Var(&flagFailLt, "fail-lt", 0, "fail the run when the score drops below this value")
	testCmd.Flags().StringVar(&flagReplayLog, "replay-steps", "", "recorded step log for the replay backend")
	testCmd.Flags().BoolVar(&flagKeepTmp, "save-temps", false, "keep the working directory after the run")
	testCmd.Flags().StringVar(&flagHistoryDB, "history", defaultHistoryPath(), "run-history database path (empty to disable)")
}

func runTest(cmd *cobra.Command, args []string) error {
	opts, err := buildOptions(args)
	if err != nil {
		return err
	}

	wd, err := driver.NewWorkDir("")
	if err != nil {
		return err
	}
	if flagKeepTmp {
		wd.Keep()
	}
	defer wd.Close()
	opts.WorkingDirectory = wd.Path

	dctx := &debugger.Context{Options: opts, Version: version}
	t, err := driver.New(dctx).Run(cmd.Context())
	if err != nil {
		if flagKeepTmp {
			fmt.Fprintf(os.Stderr, "working directory kept: %s\n", wd.Path)
		}
		return err
	}

	result, err := heuristic.Score(t)
	if err != nil {
		return err
	}

	printer := output.NewPrinter(os.Stdout, !flagNoColor)
	if flagShowDbg || flagVerbose {
		printer.Print(t.Render())
	}
	printer.Print(result.Summary())

	if flagHistoryDB != "" {
		if err := recordHistory(flagHistoryDB, t, result); err != nil {
			fmt.Fprintf(os.Stderr, "warning: recording run history: %s\n", err)
		}
	}

	if result.Score < opts.FailLt {
		return fmt.Errorf("score %.4f is below the failure threshold %.4f", result.Score, opts.FailLt)
	}
	return nil
}

// buildOptions validates the command line and assembles the run options.
func buildOptions(sources []string) (*options.Options, error) {
	if flagBinary == "" {
		return nil, fmt.Errorf("configuration error: --binary is required")
	}
	binary, err := filepath.Abs(flagBinary)
	if err != nil {
		return nil, fmt.Errorf("configuration error: resolving %q: %w", flagBinary, err)
	}
	if _, err := os.Stat(binary); err != nil {
		return nil, fmt.Errorf("configuration error: executable not found: %s", binary)
	}
	for i, src := range sources {
		abs, err := filepath.Abs(src)
		if err != nil {
			return nil, fmt.Errorf("configuration error: resolving %q: %w", src, err)
		}
		if _, err := os.Stat(abs); err != nil {
			return nil, fmt.Errorf("configuration error: source file not found: %s", abs)
		}
		sources[i] = abs
	}

	opts := options.Defaults()
	opts.Debugger = flagDebugger
	opts.Executable = binary
	opts.SourceFiles = sources
	opts.MaxSteps = flagMaxSteps
	opts.PauseBetweenSteps = flagPause
	opts.Arch = flagArch
	opts.LLDBExecutable = flagLLDB
	opts.ShowDebugger = flagShowDbg
	opts.Verbose = flagVerbose
	opts.NoColor = flagNoColor
	opts.TimeReport = flagTimeReport
	opts.FailLt = flagFailLt
	opts.ReplaySteps = flagReplayLog
	return opts, nil
}

func recordHistory(dbPath string, t *trace.Trace, result *heuristic.Result) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return err
	}
	s, err := store.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.Migrate(); err != nil {
		return err
	}
	_, err = s.RecordRun(time.Now(), t, result)
	return err
}

// defaultHistoryPath keeps run history under .dexter/ in the current
// directory.
func defaultHistoryPath() string {
	return filepath.Join(".dexter", "history.db")
}
