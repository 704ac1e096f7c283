package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/ui/style"
)

func (c *CLI) newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clear the offline caches",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(c.newCacheListCmd(), c.newCacheClearCmd())
	return cmd
}

func parseTiers(args []string) ([]domain.Tier, error) {
	tiers := make([]domain.Tier, 0, len(args))
	for _, arg := range args {
		tier, err := domain.ParseTier(arg)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, tier)
	}
	return tiers, nil
}

func (c *CLI) newCacheListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [tier...]",
		Short: "Show entries and size per tier (shell, content, model)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tiers, err := parseTiers(args)
			if err != nil {
				return err
			}
			withKeys, _ := cmd.Flags().GetBool("keys")

			usage, err := c.app.CacheUsage(cmd.Context(), tiers, withKeys)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, u := range usage {
				_, _ = fmt.Fprintf(out, "%s %s %d entries, %s\n",
					style.Heading.Render(u.Tier),
					style.Muted.Render(u.Namespace),
					u.Entries,
					formatBytes(u.Bytes),
				)
				for _, key := range u.Keys {
					_, _ = fmt.Fprintf(out, "  %s %s\n", style.Muted.Render(style.Arrow), key)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolP("keys", "k", false, "List the cached URLs")
	return cmd
}

func (c *CLI) newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [tier...]",
		Short: "Remove cached tiers, or every cache namespace when no tier is given",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tiers, err := parseTiers(args)
			if err != nil {
				return err
			}
			return c.app.ClearCache(cmd.Context(), tiers)
		},
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
