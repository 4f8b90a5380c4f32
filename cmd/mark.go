package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/cristianoliveira/inboxkit/internal/colors"
	"github.com/spf13/cobra"
)

type markClient interface {
	MarkRead(ctx context.Context, id string, read bool) error
	Archive(ctx context.Context, id string, archived bool) error
	Delete(ctx context.Context, id string) error
}

// markAction applies one state change to a notification.
type markAction func(ctx context.Context, client markClient, id string) error

// newMarkCmd builds a command that applies action to every ID argument.
// All IDs are attempted; the errors are joined.
func newMarkCmd(name string, client markClient, use, short, past string, action markAction) *cobra.Command {
	if client == nil {
		panic(fmt.Sprintf("New%sCmd: client dependency cannot be nil", name))
	}

	return &cobra.Command{
		Use:          use + " <id>...",
		Short:        short,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var errs []error
			for _, id := range args {
				if err := action(cmd.Context(), client, id); err != nil {
					errs = append(errs, fmt.Errorf("%s %s: %w", use, id, err))
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", past, id)
			}
			if err := errors.Join(errs...); err != nil {
				return err
			}
			colors.Debug(fmt.Sprintf("%s %d notification(s)", past, len(args)))
			return nil
		},
	}
}

// NewReadCmd creates the read command with explicit dependencies.
func NewReadCmd(client markClient) *cobra.Command {
	return newMarkCmd("Read", client, "read", "Mark notifications as read", "read",
		func(ctx context.Context, c markClient, id string) error { return c.MarkRead(ctx, id, true) })
}

// NewUnreadCmd creates the unread command with explicit dependencies.
func NewUnreadCmd(client markClient) *cobra.Command {
	return newMarkCmd("Unread", client, "unread", "Mark notifications as unread", "unread",
		func(ctx context.Context, c markClient, id string) error { return c.MarkRead(ctx, id, false) })
}

// NewArchiveCmd creates the archive command with explicit dependencies.
func NewArchiveCmd(client markClient) *cobra.Command {
	return newMarkCmd("Archive", client, "archive", "Archive notifications", "archived",
		func(ctx context.Context, c markClient, id string) error { return c.Archive(ctx, id, true) })
}

// NewUnarchiveCmd creates the unarchive command with explicit dependencies.
func NewUnarchiveCmd(client markClient) *cobra.Command {
	return newMarkCmd("Unarchive", client, "unarchive", "Move notifications back to the inbox", "unarchived",
		func(ctx context.Context, c markClient, id string) error { return c.Archive(ctx, id, false) })
}

// NewDeleteCmd creates the delete command with explicit dependencies.
func NewDeleteCmd(client markClient) *cobra.Command {
	return newMarkCmd("Delete", client, "delete", "Delete notifications", "deleted",
		func(ctx context.Context, c markClient, id string) error { return c.Delete(ctx, id) })
}
