package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"specguard/internal/fingerprint"
)

var hashCmd = &cobra.Command{
	Use:   "hash <location>",
	Short: "Fingerprint an assertion set from the working tree",
	Long: `Prints the deterministic fingerprint of a features directory or a
single legacy document, or NO_ASSERTIONS when the set contains no
Given/When/Then steps. Both outcomes exit 0: absence of assertions is
not an error.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := fingerprint.Collect(fingerprint.OSLoader{}, filepath.ToSlash(args[0]))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), fingerprint.Compute(set))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashCmd)
}
