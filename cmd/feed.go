package cmd

import (
	"context"
	"fmt"

	"github.com/cristianoliveira/inboxkit/internal/config"
	"github.com/cristianoliveira/inboxkit/internal/domain"
	"github.com/cristianoliveira/inboxkit/internal/format"
	"github.com/cristianoliveira/inboxkit/internal/inbox"
	"github.com/cristianoliveira/inboxkit/internal/tabs"
	"github.com/spf13/cobra"
)

const (
	formatText = "text"
	formatJSON = "json"
)

type feedClient interface {
	navClient
	LoadTabs() ([]inbox.Tab, error)
	Fetch(ctx context.Context, f inbox.Filter, page, limit int) (domain.FeedResponse, error)
	TabCounts(ctx context.Context, status inbox.Status, set []inbox.Tab) (map[string]int, error)
}

const feedCommandLong = `inboxkit feed - Show one page of the notification feed

USAGE:
    inboxkit feed [OPTIONS]

OPTIONS:
    --status <status>    unreadRead (default), unread, archived
    --tab <label>        Tab whose tags filter the feed (default: first tab)
    --limit <n>          Page size (default: default_limit config value)
    --page <n>           Zero-based page number
    --counts             Print the per-tab counts before the page
    --format <format>    Output format: table (default), simple, compact, json
    -h, --help           Show this help

The status selects read/archived state; the tab adds its tags. Changing one
never resets the other.`

// NewFeedCmd creates the feed command with explicit dependencies.
func NewFeedCmd(client feedClient) *cobra.Command {
	if client == nil {
		panic("NewFeedCmd: client dependency cannot be nil")
	}

	var statusFlag string
	var tabFlag string
	var limitFlag int
	var pageFlag int
	var countsFlag bool
	var formatFlag string

	feedCmd := &cobra.Command{
		Use:   "feed",
		Short: "Show one page of the notification feed",
		Long:  feedCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatName := formatFlag
			if formatName == "" {
				formatName = config.Get("feed_format", string(format.FormatterTypeTable))
			}
			formatterType, err := format.ParseFormatterType(formatName)
			if err != nil {
				return err
			}

			set, err := client.LoadTabs()
			if err != nil {
				return err
			}
			s, err := mountSession(cmd.Context(), client, set)
			if err != nil {
				return err
			}
			defer s.close()

			if err := applyFeedFlags(cmd, s.ctrl, statusFlag, tabFlag, limitFlag); err != nil {
				return err
			}

			snap := s.ctrl.Snapshot()
			if countsFlag {
				counts, err := client.TabCounts(s.ctx, snap.Status, snap.Tabs)
				if err != nil {
					return fmt.Errorf("count tabs: %w", err)
				}
				printCounts(cmd, snap, counts)
			}

			resp, err := client.Fetch(s.ctx, snap.Filter, pageFlag, snap.Limit)
			if err != nil {
				return fmt.Errorf("fetch feed: %w", err)
			}
			return format.NewFormatter(formatterType).FormatFeed(resp, cmd.OutOrStdout())
		},
	}

	feedCmd.Flags().StringVar(&statusFlag, "status", "", "Status: unreadRead, unread, archived")
	feedCmd.Flags().StringVar(&tabFlag, "tab", "", "Tab whose tags filter the feed")
	feedCmd.Flags().IntVar(&limitFlag, "limit", 0, "Page size (default: default_limit config value)")
	feedCmd.Flags().IntVar(&pageFlag, "page", 0, "Zero-based page number")
	feedCmd.Flags().BoolVar(&countsFlag, "counts", false, "Print the per-tab counts before the page")
	feedCmd.Flags().StringVar(&formatFlag, "format", "", "Output format: table, simple, compact, json")

	return feedCmd
}

// applyFeedFlags moves the controller to the state selected on the command line.
func applyFeedFlags(cmd *cobra.Command, ctrl *inbox.Controller, status, tab string, limit int) error {
	if status != "" {
		if err := ctrl.SetStatus(inbox.Status(status)); err != nil {
			return err
		}
	}
	if tab != "" {
		selected, err := tabs.Resolve(tab, ctrl.Tabs())
		if err != nil {
			return err
		}
		ctrl.SetActiveTab(selected.Label)
	}
	if cmd.Flags().Changed("limit") {
		ctrl.SetLimit(limit)
	}
	return nil
}

func printCounts(cmd *cobra.Command, snap inbox.Snapshot, counts map[string]int) {
	for _, tab := range snap.Tabs {
		marker := " "
		if tab.Label == snap.ActiveTab {
			marker = "*"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d)\n", marker, tab.Label, counts[tab.Label])
	}
}
