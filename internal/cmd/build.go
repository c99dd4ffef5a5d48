package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Create a synthetic scenario for manual testing",
	Long: `Create ./fake_scenario/shows (source) and ./fake_scenario/shows2 (target)
populated with files named after their expected outcome:

  expected_move    - no match in the target, the file should move
  expected_stay    - an equivalent key exists in the target, the file stays
  destination_has  - target-side file that blocks a source file

The scenario includes long episode numbers (S01E100, S01E1000) and subtitle
files alongside videos.`,
	Args: cobra.NoArgs,
	RunE: runBuildScenario,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuildScenario(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	baseDir := filepath.Join(wd, "fake_scenario")
	if err := os.RemoveAll(baseDir); err != nil {
		return fmt.Errorf("clear previous scenario: %w", err)
	}

	sourceDir := filepath.Join(baseDir, "shows")
	targetDir := filepath.Join(baseDir, "shows2")

	sourceFiles := map[string]string{
		"show_a/season_01/expected_stay - S01E01.file":   "Video content A S01E01 (blocked by target's S01E01 video)",
		"show_a/season_01/expected_move - S01E01.sub":    "Subtitle content A S01E01 [1080p]",
		"show_a/season_01/expected_move - S01E02.file":   "Video content A S01E02 [4k]",
		"show_a/season_01/expected_move - S01E100.file":  "Video content A S01E100 [4k]",
		"show_a/season_01/expected_move - S01E1000.file": "Video content A S01E1000 [1080p]",
		"show_a/season_02/expected_move - S01E04.file":   "Extra video content A S01E04 [720p]",
		"show_b/season_01/expected_stay - S01E05.file":   "Video B S01E05 (blocked by target S01E05)",
		"show_b/season_02/expected_stay - S02E01.file":   "Video B S02E01 (blocked by target S02E01)",
		"show_b/season_02/expected_move - S02E02.sub":    "Subtitle B S02E02 [1080p]",
		"show_c/season_01/expected_move - S01E01.file":   "Unique video content C S01E01 [4k]",
		"show_x/season_01/expected_stay - S01E01.file":   "X S01E01 video (blocked by target S01E01) [720p]",
		"show_y/season_01/expected_move - S01E01.file":   "Y S01E01 video [1080p]",
	}
	targetFiles := map[string]string{
		"show_a/season_01/destination_has - S01E01.file": "Video A S01E01 blocking source S01E01",
		"show_b/season_01/destination_has - S01E05.file": "Video B S01E05 blocking source S01E05",
		"show_b/season_02/destination_has - S02E01.file": "Video B S02E01 blocking source S02E01",
		"show_d/season_01/uniqueD - S01E01.file":         "Unique video D S01E01",
		"show_x/season_01/destination_has - S01E01.file": "X S01E01 existing in target",
	}

	for rel, content := range sourceFiles {
		if err := writeScenarioFile(filepath.Join(sourceDir, filepath.FromSlash(rel)), content); err != nil {
			return err
		}
	}
	for rel, content := range targetFiles {
		if err := writeScenarioFile(filepath.Join(targetDir, filepath.FromSlash(rel)), content); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Fake scenario built successfully.")
	fmt.Fprintf(out, "Source Directory: %s\n", sourceDir)
	fmt.Fprintf(out, "Destination Directory: %s\n", targetDir)
	fmt.Fprintln(out, "\nFor example, run:")
	fmt.Fprintf(out, "  episync run %q %q [--dry-run]\n", sourceDir, targetDir)
	return nil
}

func writeScenarioFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
