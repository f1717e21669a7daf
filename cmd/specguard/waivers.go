package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"specguard/internal/gitx"
	"specguard/internal/waiver"
)

var (
	waiversJSON   bool
	waiversStatus string
)

var waiversCmd = &cobra.Command{
	Use:   "waivers",
	Short: "Inspect the integrity waiver registry",
}

type waiverOutput struct {
	ID        string `json:"id"`
	Location  string `json:"location"`
	Status    string `json:"status"`
	Owner     string `json:"owner,omitempty"`
	Reason    string `json:"reason,omitempty"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

var waiversListCmd = &cobra.Command{
	Use:   "list",
	Short: "List waivers with their computed statuses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if repo, err := gitx.Open(cmd.Context(), ".", nil); err == nil {
			root = repo.Root
		}

		reg, err := waiver.Load(root, time.Now().UTC())
		if err != nil {
			return err
		}
		for _, verr := range waiver.Validate(reg) {
			fmt.Fprintf(cmd.ErrOrStderr(), "WARN: waiver registry: %s\n", verr.Error())
		}

		var outputs []waiverOutput
		for _, w := range reg.Waivers {
			if waiversStatus != "" && string(w.Status) != waiversStatus {
				continue
			}
			outputs = append(outputs, waiverOutput{
				ID:        w.ID,
				Location:  w.Location,
				Status:    string(w.Status),
				Owner:     w.Owner,
				Reason:    w.Reason,
				ExpiresAt: w.ExpiresAt,
			})
		}

		if waiversJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(outputs)
		}
		if len(outputs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no waivers")
			return nil
		}
		for _, o := range outputs {
			fmt.Fprintf(cmd.OutOrStdout(), "id=%s location=%s status=%s owner=%s expires=%s\n",
				o.ID, o.Location, o.Status, o.Owner, orNone(o.ExpiresAt))
		}
		return nil
	},
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func init() {
	waiversListCmd.Flags().StringVar(&waiversStatus, "status", "", "filter by status (active|expiring_soon|expired)")
	waiversCmd.PersistentFlags().BoolVar(&waiversJSON, "json", false, "emit JSON output")
	waiversCmd.AddCommand(waiversListCmd)
	rootCmd.AddCommand(waiversCmd)
}
