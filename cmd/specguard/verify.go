package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"specguard/internal/gitx"
	"specguard/internal/hook"
	"specguard/internal/policy"
	"specguard/internal/verify"
)

var verifyJSON bool

type verifyOutput struct {
	Location        string `json:"location"`
	Verdict         string `json:"verdict"`
	Fingerprint     string `json:"fingerprint,omitempty"`
	Context         string `json:"context"`
	ContextHash     string `json:"context_hash,omitempty"`
	Ledger          string `json:"ledger"`
	LedgerHash      string `json:"ledger_hash,omitempty"`
	LedgerCommit    string `json:"ledger_commit,omitempty"`
	FreshGeneration bool   `json:"fresh_generation,omitempty"`
	Detail          string `json:"detail,omitempty"`
}

var verifyCmd = &cobra.Command{
	Use:   "verify [<location>...]",
	Short: "Verify assertion sets against both evidence channels",
	Long: `Recomputes each set's fingerprint from the staged index snapshot and
cross-checks it against the context record and the git-notes ledger.
With no arguments every set certified by a context record is verified.
Exits 1 when any verdict is invalid.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := newLogger()

		repo, err := gitx.Open(ctx, ".", nil)
		if err != nil {
			return err
		}
		pol, err := policy.Load(repo.Root)
		if err != nil {
			return err
		}

		locations := make([]string, 0, len(args))
		for _, a := range args {
			loc, err := repo.Rel(a)
			if err != nil {
				return err
			}
			locations = append(locations, loc)
		}
		if len(locations) == 0 {
			locations, err = hook.KnownSets(ctx, repo, log)
			if err != nil {
				return err
			}
		}
		staged, err := repo.StagedPaths(ctx)
		if err != nil {
			return err
		}

		engine := verify.New(repo, pol.NotesRef, pol.SearchDepth, log)
		anyInvalid := false
		var outputs []verifyOutput
		for _, loc := range locations {
			res := engine.Verify(ctx, loc, staged)
			if res.Verdict == verify.VerdictInvalid {
				anyInvalid = true
			}
			outputs = append(outputs, verifyOutput{
				Location:        res.Location,
				Verdict:         res.Verdict.String(),
				Fingerprint:     res.Fingerprint,
				Context:         res.Context.String(),
				ContextHash:     res.ContextHash,
				Ledger:          res.Ledger.String(),
				LedgerHash:      res.LedgerHash,
				LedgerCommit:    res.LedgerCommit,
				FreshGeneration: res.FreshGeneration,
				Detail:          res.Detail,
			})
		}

		if verifyJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(outputs); err != nil {
				return err
			}
		} else {
			for _, o := range outputs {
				fmt.Fprintf(cmd.OutOrStdout(), "verdict=%s location=%s fingerprint=%s context=%s ledger=%s\n",
					o.Verdict, o.Location, o.Fingerprint, o.Context, o.Ledger)
			}
		}

		if anyInvalid {
			return errBlocked
		}
		return nil
	},
}

func init() {
	verifyCmd.Flags().BoolVar(&verifyJSON, "json", false, "emit JSON output")
	rootCmd.AddCommand(verifyCmd)
}
