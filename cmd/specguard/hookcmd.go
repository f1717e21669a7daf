package main

import (
	"github.com/spf13/cobra"

	"specguard/internal/hook"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Git lifecycle entry points",
}

var preCommitCmd = &cobra.Command{
	Use:   "pre-commit",
	Short: "Verify staged assertion sets; non-zero exit blocks the commit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		code := hook.PreCommit(cmd.Context(), hook.Options{
			Stdout: cmd.OutOrStdout(),
			Stderr: cmd.ErrOrStderr(),
			Log:    newLogger(),
		})
		if code != 0 {
			return errBlocked
		}
		return nil
	},
}

var postCommitCmd = &cobra.Command{
	Use:   "post-commit",
	Short: "Record finalized fingerprints in the ledger; always exits 0",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// The commit is already final: failures are logged, never
		// surfaced as an exit code.
		hook.PostCommit(cmd.Context(), hook.Options{
			Stdout: cmd.OutOrStdout(),
			Stderr: cmd.ErrOrStderr(),
			Log:    newLogger(),
		})
		return nil
	},
}

func init() {
	hookCmd.AddCommand(preCommitCmd)
	hookCmd.AddCommand(postCommitCmd)
	rootCmd.AddCommand(hookCmd)
}
