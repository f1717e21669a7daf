package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"specguard/internal/gitx"
	"specguard/internal/ledger"
	"specguard/internal/policy"
)

var (
	ledgerJSON  bool
	ledgerDepth int
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect the side-channel fingerprint ledger",
}

type ledgerEntryOutput struct {
	Found         bool   `json:"found"`
	Commit        string `json:"commit,omitempty"`
	AssertionHash string `json:"assertion_hash,omitempty"`
	GeneratedAt   string `json:"generated_at,omitempty"`
	Location      string `json:"location,omitempty"`
}

var ledgerFindCmd = &cobra.Command{
	Use:   "find <location>",
	Short: "Locate the ledger entry governing an assertion set",
	Long: `Checks the tip's note first, then walks backward through the search
window of recent commits. Absence is reported, not an error: a set may
legitimately have no baseline yet.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		repo, err := gitx.Open(ctx, ".", nil)
		if err != nil {
			return err
		}
		pol, err := policy.Load(repo.Root)
		if err != nil {
			return err
		}
		depth := ledgerDepth
		if depth <= 0 {
			depth = pol.SearchDepth
		}
		loc, err := repo.Rel(args[0])
		if err != nil {
			return err
		}

		led := ledger.New(repo, pol.NotesRef)
		entry, commit, err := led.Find(ctx, loc, depth)
		if err != nil {
			return err
		}

		out := ledgerEntryOutput{Found: entry != nil}
		if entry != nil {
			out.Commit = commit
			out.AssertionHash = entry.AssertionHash
			out.GeneratedAt = entry.GeneratedAt
			out.Location = entry.Location()
		}
		if ledgerJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}
		if entry == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "no ledger entry for %s within %d commit(s)\n", loc, depth)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "commit=%s location=%s assertion-hash=%s generated-at=%s\n",
			commit, out.Location, out.AssertionHash, out.GeneratedAt)
		return nil
	},
}

var ledgerShowCmd = &cobra.Command{
	Use:   "show [<commit>]",
	Short: "Print the parsed note entries on a commit",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		repo, err := gitx.Open(ctx, ".", nil)
		if err != nil {
			return err
		}
		pol, err := policy.Load(repo.Root)
		if err != nil {
			return err
		}
		commit := "HEAD"
		if len(args) == 1 {
			commit = args[0]
		}

		body, err := repo.NoteShow(ctx, pol.NotesRef, commit)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "no note on %s in ref %s\n", commit, pol.NotesRef)
			return nil
		}
		entries := ledger.ParseNote(body)
		if ledgerJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}
		for _, e := range entries {
			fmt.Fprintf(cmd.OutOrStdout(), "location=%s assertion-hash=%s generated-at=%s\n",
				e.Location(), e.AssertionHash, e.GeneratedAt)
		}
		return nil
	},
}

func init() {
	ledgerFindCmd.Flags().IntVar(&ledgerDepth, "depth", 0, "backward search window (default: policy search_depth)")
	ledgerCmd.PersistentFlags().BoolVar(&ledgerJSON, "json", false, "emit JSON output")
	ledgerCmd.AddCommand(ledgerFindCmd)
	ledgerCmd.AddCommand(ledgerShowCmd)
	rootCmd.AddCommand(ledgerCmd)
}
