// Package commands implements the CLI commands for lantern.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/lantern/internal/app"
	"go.trai.ch/lantern/internal/build"
	"go.trai.ch/lantern/internal/core/domain"
)

// CLI represents the command line interface for lantern.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	SetJSONLogs(enable bool)
	Serve(ctx context.Context, opts app.ServeOptions) error
	QueueItems(ctx context.Context) []domain.QueueItem
	Enqueue(ctx context.Context, id string, payload json.RawMessage) error
	Flush(ctx context.Context) (domain.SyncResult, error)
	CacheUsage(ctx context.Context, tiers []domain.Tier, withKeys bool) ([]app.TierUsage, error)
	ClearCache(ctx context.Context, tiers []domain.Tier) error
	Device(ctx context.Context) (domain.DeviceProfile, error)
	Settings(ctx context.Context) (domain.Settings, error)
	SetSetting(ctx context.Context, name, value string) (domain.Settings, error)
	ResetSettings(ctx context.Context) error
	Status(ctx context.Context, version string) (app.Status, error)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "lantern",
		Short:         "An offline-first cache and sync edge for web apps",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().Bool("json", false, "Write logs as JSON")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if enable, _ := cmd.Flags().GetBool("json"); enable {
			a.SetJSONLogs(true)
		}
	}

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newServeCmd())
	rootCmd.AddCommand(c.newQueueCmd())
	rootCmd.AddCommand(c.newCacheCmd())
	rootCmd.AddCommand(c.newDeviceCmd())
	rootCmd.AddCommand(c.newSettingsCmd())
	rootCmd.AddCommand(c.newStatusCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
