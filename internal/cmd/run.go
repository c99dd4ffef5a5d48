package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"episync/internal/config"
	"episync/internal/core"
	"episync/internal/index"
	"episync/internal/log"
	"episync/internal/match"
	"episync/internal/media"
	"episync/internal/tui/progress"
	"episync/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	dryRun    bool
	debugMode bool
	assumeYes bool
)

var runCmd = &cobra.Command{
	Use:   "run <source> <target>",
	Short: "Move missing episode files from source to target",
	Long: `Index both directory trees, then move each source file whose identity
(show folder, SxxExx code, media type) is absent from the target. The
relative subfolder structure is preserved. Every proposed move is confirmed
interactively unless --yes is given.`,
	Args: cobra.ExactArgs(2),
	RunE: runReconcile,
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute and print every decision without moving any file")
	runCmd.Flags().BoolVar(&debugMode, "debug", false, "Print per-directory indexing diagnostics")
	runCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Assume yes for every prompt")
	rootCmd.AddCommand(runCmd)
}

// runStats accumulates per-file outcomes for the final summary.
type runStats struct {
	moved      int
	copied     int // moves that fell back to cross-device copy
	dupSource  int
	inTarget   int
	collisions int
	declined   int
	ignored    int
	failed     int
}

func runReconcile(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	th := theme.Default()
	prompter := newConfirmer(cmd.InOrStdin(), cmd.OutOrStdout(), assumeYes)

	sourceRoot, err := validateRoot(args[0], "source", prompter)
	if err != nil {
		return err
	}
	targetRoot, err := validateRoot(args[1], "target", prompter)
	if err != nil {
		return err
	}
	if sourceRoot == targetRoot {
		return directoryError("source and target are the same directory: %s", sourceRoot)
	}

	log.Initialize(cfg.EnableLogging && !dryRun, cfg.LogRetentionDays)
	if !dryRun {
		if err := log.StartSession("run", args); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: operation logging disabled: %v\n", err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Processing files from %s to %s...\n", sourceRoot, targetRoot)

	sourceIdx, err := buildIndex(sourceRoot, "source", cfg, th)
	if err != nil {
		return indexError("source", err)
	}
	targetIdx, err := buildIndex(targetRoot, "target", cfg, th)
	if err != nil {
		return indexError("target", err)
	}

	reportDiagnostics(cmd, th, sourceIdx, targetIdx)

	plans := match.Decide(sourceIdx.Index, targetIdx.Index)

	stats := runStats{ignored: sourceIdx.Ignored}
	executePlans(cmd, th, plans, sourceRoot, targetRoot, prompter, &stats)

	printSummary(cmd, th, &stats)

	if !dryRun {
		if err := log.EndSession(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to write operation log: %v\n", err)
		}
	}
	return nil
}

// validateRoot checks that path is an existing directory and warns when it
// is empty. Returns the absolute path.
func validateRoot(path, role string, prompter *confirmer) (string, error) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return "", directoryError("the %s directory %q does not exist or is not a directory", role, path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", directoryError("resolve %s directory %q: %v", role, path, err)
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return "", directoryError("the %s directory %q is not readable: %v", role, path, err)
	}
	if len(entries) == 0 {
		fmt.Fprintf(os.Stderr, "Warning: the %s directory %q exists but is empty.\n", role, path)
		if !prompter.ConfirmYesNo("Continue anyway?") {
			return "", abortError("aborted: empty %s directory declined", role)
		}
	}
	return abs, nil
}

// buildIndex walks one root into a file index, with a progress screen when
// stdout is a terminal. Debug mode always takes the plain path so that
// diagnostics and the progress screen don't fight over the terminal.
func buildIndex(root, label string, cfg *config.Config, th theme.Theme) (*index.Result, error) {
	if !debugMode && isatty.IsTerminal(os.Stdout.Fd()) {
		model := progress.NewIndexProgressModel(root, label, th)
		finalModel, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
		if err != nil {
			return nil, err
		}
		pm, ok := finalModel.(*progress.IndexProgressModel)
		if !ok {
			return nil, fmt.Errorf("unexpected model type %T after indexing", finalModel)
		}
		return resultFromProgressModel(pm, cfg)
	}
	return index.Build(context.Background(), root, cfg.Tags)
}

// resultFromProgressModel keys the tree a finished indexing screen built.
// A screen dismissed before the walk completed is a user abort, not a
// directory problem.
func resultFromProgressModel(pm *progress.IndexProgressModel, cfg *config.Config) (*index.Result, error) {
	if pm.Err() != nil {
		return nil, pm.Err()
	}
	if !pm.Done() {
		return nil, abortError("indexing of %s canceled", pm.Root())
	}
	if pm.Tree() == nil {
		return nil, fmt.Errorf("indexing %s produced no tree", pm.Root())
	}
	res := index.FromTree(pm.Tree(), pm.Root())
	res.ApplyScores(cfg.Tags)
	return res, nil
}

// indexError wraps an indexing failure for one root, preserving the exit
// code of a user abort.
func indexError(role string, err error) error {
	var ee *exitError
	if errors.As(err, &ee) {
		return err
	}
	return directoryError("failed to index %s: %v", role, err)
}

// reportDiagnostics prints indexing warnings and, in debug mode, the full
// per-directory report for both roots.
func reportDiagnostics(cmd *cobra.Command, th theme.Theme, source, target *index.Result) {
	errStyle := th.ErrorStyle()
	for _, res := range []*index.Result{source, target} {
		for _, w := range res.Warnings {
			fmt.Fprintln(os.Stderr, errStyle.Render("Warning: "+w))
		}
	}

	if !debugMode {
		return
	}
	debug := th.DebugStyle()
	out := cmd.OutOrStdout()
	for _, res := range []*index.Result{source, target} {
		for _, report := range res.Reports {
			fmt.Fprintln(out, debug.Render(fmt.Sprintf("[DEBUG] directory %s (%d files)", report.Dir, len(report.Files))))
			for _, f := range report.Files {
				if f.Reason == media.OK {
					fmt.Fprintln(out, debug.Render(fmt.Sprintf("[DEBUG]   %s => %s", f.Name, f.Key)))
				} else {
					fmt.Fprintln(out, debug.Render(fmt.Sprintf("[DEBUG]   %s => ignored: %s", f.Name, f.Reason)))
				}
			}
		}
	}
}

// executePlans walks the decided plans in order, prompting and moving.
func executePlans(cmd *cobra.Command, th theme.Theme, plans []match.Plan, sourceRoot, targetRoot string, prompter *confirmer, stats *runStats) {
	out := cmd.OutOrStdout()
	moveStyle := th.MoveStyle()
	skipStyle := th.SkipStyle()
	errStyle := th.ErrorStyle()

	for _, plan := range plans {
		switch plan.Decision {
		case match.SkipDuplicateInSource:
			stats.dupSource++
			fmt.Fprintln(out, skipStyle.Render(fmt.Sprintf("SKIP: %s => %s", plan.Path, plan.Decision)))
		case match.SkipExistsInTarget:
			stats.inTarget++
			fmt.Fprintln(out, skipStyle.Render(fmt.Sprintf("SKIP: %s => %s", plan.Path, plan.Decision)))
		case match.Move:
			dest, err := core.DestinationPath(plan.Path, sourceRoot, targetRoot)
			if err != nil {
				stats.failed++
				fmt.Fprintln(out, errStyle.Render(fmt.Sprintf("ERROR: %s => %v", plan.Path, err)))
				continue
			}
			if _, err := os.Stat(dest); err == nil {
				// Same relative path occupied by a file with a different key.
				stats.collisions++
				fmt.Fprintln(out, skipStyle.Render(fmt.Sprintf("SKIP: %s => collision in target", plan.Path)))
				continue
			}
			if !prompter.Confirm(plan.Path, dest) {
				stats.declined++
				fmt.Fprintln(out, skipStyle.Render(fmt.Sprintf("SKIP: %s => user canceled", plan.Path)))
				continue
			}
			if dryRun {
				stats.moved++
				fmt.Fprintln(out, moveStyle.Render(fmt.Sprintf("DRY-RUN: %s => %s", plan.Path, dest)))
				continue
			}
			result, err := core.MoveFile(plan.Path, dest)
			if err != nil {
				stats.failed++
				fmt.Fprintln(out, errStyle.Render(fmt.Sprintf("ERROR: %s => %v", plan.Path, err)))
				continue
			}
			stats.moved++
			if result.FellBackToCopy {
				stats.copied++
			}
			fmt.Fprintln(out, moveStyle.Render(fmt.Sprintf("MOVE: %s => %s", plan.Path, dest)))
		}
	}
}
