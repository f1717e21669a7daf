// specguard — assertion integrity verification for spec-driven
// workflows. It fingerprints locked behavioral test scenarios and
// cross-checks them against two channels (the tracked context record
// and a git-notes ledger) so silent edits are caught before commit.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.3.0"

// errBlocked maps a failed verification to exit code 1 without the
// usage spam cobra prints for real argument errors.
var errBlocked = errors.New("verification failed")

var rootCmd = &cobra.Command{
	Use:   "specguard",
	Short: "Tamper evidence for locked assertion sets",
	Long: `specguard guards the promise of a test-first workflow: that passing
tests still reflect the originally locked behavior. It hashes assertion
sets, records the fingerprint in a context record and a git-notes
ledger, and verifies both channels from the pre-commit hook.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	os.Exit(execute())
}

func execute() int {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errBlocked) {
			return 1
		}
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		return 2
	}
	return 0
}

// newLogger builds the hook diagnostic logger: warn-level text on
// stderr, lowered to debug by SPECGUARD_DEBUG=1.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if os.Getenv("SPECGUARD_DEBUG") == "1" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the specguard version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "specguard "+version)
		},
	})
}
