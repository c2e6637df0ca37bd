package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Melamoto/dexter/internal/debugger"
	"github.com/Melamoto/dexter/internal/options"
	"github.com/Melamoto/dexter/internal/output"
	"github.com/Melamoto/dexter/internal/runtime"
	"github.com/Melamoto/dexter/internal/store"
	"github.com/Melamoto/dexter/internal/trace"
)

var listDebuggersCmd = &cobra.Command{
	Use:   "list-debuggers",
	Short: "List the known debugger backends and their availability",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := &debugger.Context{Options: options.Defaults(), Version: version}
		snaps := debugger.ListSnapshots(ctx)
		output.NewPrinter(os.Stdout, !flagNoColor).Print(debugger.FormatSnapshots(snaps, flagVerbose))
		return nil
	},
}

var viewCmd = &cobra.Command{
	Use:   "view <trace file>",
	Short: "Render a recorded trace envelope",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := trace.ReadFile(args[0])
		if err != nil {
			return err
		}
		output.NewPrinter(os.Stdout, !flagNoColor).Print(t.Render())
		return nil
	},
}

var flagAnalyzeDB string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <script.risor>",
	Short: "Run an analysis script over the run history",
	Long:  "Executes a Risor script with host functions over the run-history database: runs(), run_steps(id), and best_run(executable).",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(flagAnalyzeDB); err != nil {
			return fmt.Errorf("run-history database not found: %s", flagAnalyzeDB)
		}
		s, err := store.NewStore(flagAnalyzeDB)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.Migrate(); err != nil {
			return err
		}
		return runtime.NewRuntime(s).RunScript(cmd.Context(), args[0])
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&flagAnalyzeDB, "history", defaultHistoryPath(), "run-history database path")
}
