package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newDeviceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "device",
		Short: "Print the device profile used for sizing decisions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := c.app.Device(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), profile)
		},
	}
}
