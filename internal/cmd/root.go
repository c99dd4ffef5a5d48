package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes. A run that completes exits 0 even when individual file moves
// failed; only configuration problems and user aborts are fatal.
const (
	exitUsage     = 1
	exitDirectory = 2
	exitAborted   = 3
)

// exitError carries a process exit code through cobra's error return.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func directoryError(format string, args ...any) error {
	return &exitError{code: exitDirectory, err: fmt.Errorf(format, args...)}
}

func abortError(format string, args ...any) error {
	return &exitError{code: exitAborted, err: fmt.Errorf(format, args...)}
}

var rootCmd = &cobra.Command{
	Use:   "episync",
	Short: "Reconcile episode files between two library trees",
	Long: `episync compares two directory trees of TV episode files by a composite
identity: the top-level show folder, the SxxExx episode code, and the media
type (video or subtitle). Source files whose identity is missing from the
target are moved there, preserving the subfolder structure; everything else
stays put.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and maps errors to exit codes.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(exitUsage)
	}
}
