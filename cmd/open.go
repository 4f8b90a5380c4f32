package cmd

import (
	"context"
	"fmt"

	"github.com/cristianoliveira/inboxkit/internal/domain"
	"github.com/cristianoliveira/inboxkit/internal/inbox"
	"github.com/cristianoliveira/inboxkit/internal/tabs"
	"github.com/spf13/cobra"
)

// recordingOpener keeps the outcome of the last Open so commands can report it;
// the controller itself only logs opener failures.
type recordingOpener struct {
	next   inbox.Opener
	url    string
	target string
	err    error
}

func (o *recordingOpener) Open(url, target, features string) error {
	o.url, o.target = url, target
	o.err = o.next.Open(url, target, features)
	return o.err
}

// navigate runs the navigation policy for url and reports where it went.
func navigate(cmd *cobra.Command, client navClient, url, target string) error {
	opener := &recordingOpener{next: client.Opener()}
	s, err := mountSession(cmd.Context(), client, tabs.Default(), inbox.WithOpener(opener))
	if err != nil {
		return err
	}
	defer s.close()

	before := s.history.Len()
	s.ctrl.Navigate(url, target)

	switch {
	case opener.url != "":
		if opener.err != nil {
			return fmt.Errorf("open %s: %w", url, opener.err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "opened %s (%s)\n", opener.url, opener.target)
	case s.history.Len() > before:
		fmt.Fprintf(cmd.OutOrStdout(), "navigated to %s\n", s.history.Href())
	default:
		return fmt.Errorf("could not navigate to %q", url)
	}
	return nil
}

// NewOpenCmd creates the open command with explicit dependencies.
func NewOpenCmd(client navClient) *cobra.Command {
	if client == nil {
		panic("NewOpenCmd: client dependency cannot be nil")
	}

	var targetFlag string

	openCmd := &cobra.Command{
		Use:   "open <url>",
		Short: "Navigate to a URL the way a notification link would",
		Long: `inboxkit open - Navigate to a URL the way a notification link would

URLs starting with "/" are resolved against base_url and pushed onto the
in-app history. Anything else opens in the system browser.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return navigate(cmd, client, args[0], targetFlag)
		},
	}

	openCmd.Flags().StringVar(&targetFlag, "target", "", "Browsing context for external URLs (default: default_target config value)")

	return openCmd
}

type followClient interface {
	navClient
	Get(ctx context.Context, id string) (*domain.Notification, error)
	MarkRead(ctx context.Context, id string, read bool) error
}

// NewFollowCmd creates the follow command with explicit dependencies.
func NewFollowCmd(client followClient) *cobra.Command {
	if client == nil {
		panic("NewFollowCmd: client dependency cannot be nil")
	}

	var keepUnreadFlag bool

	followCmd := &cobra.Command{
		Use:   "follow <id>",
		Short: "Follow a notification's link and mark it read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := client.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("follow: %w", err)
			}
			url, target, ok := n.RedirectURL()
			if !ok {
				return fmt.Errorf("follow: notification %s has no link", n.ID)
			}
			if err := navigate(cmd, client, url, target); err != nil {
				return err
			}
			if keepUnreadFlag || n.Read {
				return nil
			}
			if err := client.MarkRead(cmd.Context(), n.ID, true); err != nil {
				return fmt.Errorf("follow: mark read: %w", err)
			}
			return nil
		},
	}

	followCmd.Flags().BoolVar(&keepUnreadFlag, "keep-unread", false, "Do not mark the notification as read")

	return followCmd
}
