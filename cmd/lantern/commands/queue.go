package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/ui/style"
	"go.trai.ch/zerr"
)

func (c *CLI) newQueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and replay queued offline changes",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(c.newQueueListCmd(), c.newQueueAddCmd(), c.newQueueFlushCmd())
	return cmd
}

func (c *CLI) newQueueListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pending items in flush order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items := c.app.QueueItems(cmd.Context())
			out := cmd.OutOrStdout()

			if asJSON, _ := cmd.Flags().GetBool("json-output"); asJSON {
				if items == nil {
					items = []domain.QueueItem{}
				}
				return writeJSON(out, items)
			}

			if len(items) == 0 {
				_, _ = fmt.Fprintln(out, style.Muted.Render("queue is empty"))
				return nil
			}
			for _, item := range items {
				_, _ = fmt.Fprintf(out, "%s %s %s\n",
					style.Heading.Render(item.ID),
					style.Muted.Render(item.EnqueuedAt.UTC().Format("2006-01-02T15:04:05Z")),
					string(item.Payload),
				)
			}
			return nil
		},
	}
	cmd.Flags().BoolP("json-output", "j", false, "Print items as a JSON array")
	return cmd
}

func (c *CLI) newQueueAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <id> <payload|->",
		Short: "Queue a JSON payload under id, replacing any pending item with that id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := []byte(args[1])
			if args[1] == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return zerr.Wrap(err, "failed to read payload")
				}
				payload = data
			}
			if err := c.app.Enqueue(cmd.Context(), args[0], json.RawMessage(payload)); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s queued %s\n", style.Good.Render(style.Check), args[0])
			return nil
		},
	}
}

func (c *CLI) newQueueFlushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flush",
		Short: "Deliver pending items now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := c.app.Flush(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case !result.Attempted && result.Remaining > 0:
				_, _ = fmt.Fprintf(out, "%s %d item(s) will sync when you're back online\n",
					style.Connectivity(false), result.Remaining)
			case !result.Attempted:
				_, _ = fmt.Fprintln(out, style.Muted.Render("nothing to sync"))
			default:
				_, _ = fmt.Fprintf(out, "%s delivered %d item(s), %d remaining\n",
					style.Good.Render(style.Check), result.Delivered, result.Remaining)
			}
			return nil
		},
	}
}
