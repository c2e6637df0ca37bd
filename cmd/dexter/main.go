package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Melamoto/dexter"
	"github.com/Melamoto/dexter/internal/timer"

	// Debugger backends register themselves at import time.
	_ "github.com/Melamoto/dexter/internal/debugger/lldb"
	_ "github.com/Melamoto/dexter/internal/debugger/replay"
)

// version is stamped into trace envelopes and run history.
const version = dexter.Version

var (
	flagNoColor    bool
	flagVerbose    bool
	flagTimeReport bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "dexter",
	Short:         "Debugging Experience Tester",
	Long:          "Dexter drives real debuggers over instrumented test programs, records the observed step trace, and scores it against embedded expectation commands.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		timer.SetEnabled(flagTimeReport)
	},
	// No Run; prints help by default.
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color tags in console output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "print extra detail")
	rootCmd.PersistentFlags().BoolVar(&flagTimeReport, "time-report", false, "print diagnostic timings")

	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(listDebuggersCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(internalCmd)
}
