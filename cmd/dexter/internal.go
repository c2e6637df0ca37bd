package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Melamoto/dexter/internal/driver"
)

// Flags mirrored from the parent invocation in driver.Coordinator. The
// unittest and lint switches exist for command-line compatibility and only
// accept "off"; the child never re-runs those phases.
var (
	flagChildWorkDir string
	flagChildUnit    string
	flagChildLint    string
	flagChildIndent  int
)

var internalCmd = &cobra.Command{
	Use:    driver.InternalRunMode + " <trace file> <options file>",
	Short:  "Drive the debugger against a prepared trace envelope",
	Hidden: true,
	Args:   cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagChildUnit != "off" {
			return fmt.Errorf("unsupported --unittest value %q", flagChildUnit)
		}
		if flagChildLint != "off" {
			return fmt.Errorf("unsupported --lint value %q", flagChildLint)
		}
		// The indent level also travels in the options blob, which
		// RunInternal applies; the flag exists for argv compatibility.
		return driver.RunInternal(cmd.Context(), args[0], args[1])
	},
}

func init() {
	internalCmd.Flags().StringVar(&flagChildWorkDir, "working-directory", "", "working directory holding the run files")
	internalCmd.Flags().StringVar(&flagChildUnit, "unittest", "off", "must be off")
	internalCmd.Flags().StringVar(&flagChildLint, "lint", "off", "must be off")
	internalCmd.Flags().IntVar(&flagChildIndent, "indent-timer-level", 0, "timer nesting level inherited from the parent")
}
