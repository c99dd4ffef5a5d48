package cmd

import (
	"fmt"

	"episync/internal/log"

	"github.com/spf13/cobra"
)

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Reverse the most recent move session",
	Long: `Read the most recent operation log and move every file it recorded back
to where it came from, newest operation first. Destination directories
created by the run are removed when left empty.`,
	Args: cobra.NoArgs,
	RunE: runUndo,
}

func init() {
	undoCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Assume yes for every prompt")
	rootCmd.AddCommand(undoCmd)
}

func runUndo(cmd *cobra.Command, args []string) error {
	session, logPath, err := log.FindLatestSession()
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No operation sessions found to undo.")
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Last session: %s (%d operations, %d successful)\n",
		session.Metadata.Timestamp.Format("2006-01-02 15:04:05"),
		session.Metadata.TotalOps, session.Metadata.SuccessfulOps)

	prompter := newConfirmer(cmd.InOrStdin(), out, assumeYes)
	if !prompter.ConfirmYesNo("Undo this session?") {
		return abortError("undo canceled")
	}

	successful, failed, errs := log.UndoSession(session)
	for _, e := range errs {
		fmt.Fprintf(out, "ERROR: %v\n", e)
	}
	fmt.Fprintf(out, "Undo complete: %d reversed, %d failed (log: %s)\n", successful, failed, logPath)
	return nil
}
