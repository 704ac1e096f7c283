package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/lantern/internal/build"
	"go.trai.ch/lantern/internal/ui/style"
)

func (c *CLI) newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Summarize connectivity, pending sync items and cache usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := c.app.Status(cmd.Context(), build.Version)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON, _ := cmd.Flags().GetBool("json-output"); asJSON {
				return writeJSON(out, status)
			}

			_, _ = fmt.Fprintf(out, "%s %s\n", style.Heading.Render("lantern "+status.Version), style.Connectivity(status.Online))
			_, _ = fmt.Fprintf(out, "origin  %s\n", status.Origin)
			_, _ = fmt.Fprintf(out, "caches  %s\n", status.CacheVersion)
			_, _ = fmt.Fprintf(out, "pending %d\n", status.Pending)
			for _, t := range status.Tiers {
				_, _ = fmt.Fprintf(out, "  %s %-7s %d entries, %s\n",
					style.Muted.Render(style.Arrow), t.Tier, t.Entries, formatBytes(t.Bytes))
			}
			return nil
		},
	}
	cmd.Flags().BoolP("json-output", "j", false, "Print the status as JSON")
	return cmd
}
