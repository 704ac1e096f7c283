package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/lantern/internal/core/domain"
)

func (c *CLI) newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change stored settings",
		Args:  cobra.NoArgs,
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.app.Settings(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), s)
		},
	}

	set := &cobra.Command{
		Use:       "set <name> <value>",
		Short:     "Change a setting",
		Args:      cobra.ExactArgs(2),
		ValidArgs: domain.SettingNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.app.SetSetting(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), s)
		},
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Restore the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.ResetSettings(cmd.Context())
		},
	}

	cmd.AddCommand(show, set, reset)
	return cmd
}
