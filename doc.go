// Package dexter measures the quality of the debugging experience a
// toolchain produces. It steps a real debugger through a compiled test
// program, records what the debugger reports at each stop, and scores that
// record against expectations embedded in the program's source comments.
//
// # Pipeline
//
// A test run operates in three phases:
//
//  1. Parse: the source files are scanned with tree-sitter and embedded Dex
//     commands (DexLabel, DexExpectWatchValue, DexExpectStepKind,
//     DexUnreachable, DexWatch) are extracted from comments into a trace
//     envelope.
//
//  2. Drive: the harness re-invokes its own binary as a child process. The
//     child loads the envelope, drives the requested debugger backend over
//     the debuggee, classifies each observed stop relative to the previous
//     one, and writes the finished trace back.
//
//  3. Score: the recorded steps are checked against the commands and a
//     score in [0, 1] is computed, 1.0 meaning every expectation held.
//
// # Usage
//
// Assemble Options, then run and score a session:
//
//	opts := dexter.DefaultOptions()
//	opts.Debugger = "lldb"
//	opts.Executable = "./a.out"
//	opts.SourceFiles = []string{"main.c"}
//
//	t, result, err := dexter.Run(ctx, opts)
//	if err != nil { ... }
//	fmt.Printf("score: %.4f over %d steps\n", result.Score, t.NumSteps())
//
// Recorded traces can be reloaded with [ReadTrace] and re-scored with
// [ScoreTrace]. The cmd/dexter command wraps this API and additionally
// keeps a SQLite run history for the analyze subcommand.
package dexter
