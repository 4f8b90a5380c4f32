package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/cristianoliveira/inboxkit/internal/activity"
	"github.com/cristianoliveira/inboxkit/internal/domain"
	"github.com/cristianoliveira/inboxkit/internal/format"
	"github.com/cristianoliveira/inboxkit/internal/search"
	"github.com/spf13/cobra"
)

// now is the clock used for date range filters.
var now = time.Now

type activityClient interface {
	List(ctx context.Context, q domain.Query) ([]domain.Notification, error)
}

// activityState is what parse prints for a query.
type activityState struct {
	Filters        activity.Filters      `json:"filters"`
	Values         activity.FilterValues `json:"values"`
	ActivityItemID string                `json:"activityItemId,omitempty"`
}

func parseQuery(raw string) (url.Values, error) {
	q, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return nil, fmt.Errorf("invalid query %q: %w", raw, err)
	}
	return q, nil
}

// NewActivityCmd creates the activity command with explicit dependencies.
func NewActivityCmd(client activityClient) *cobra.Command {
	if client == nil {
		panic("NewActivityCmd: client dependency cannot be nil")
	}

	activityCmd := &cobra.Command{
		Use:   "activity",
		Short: "Work with activity log filters",
		Long: `inboxkit activity - Work with activity log filters

Activity filters live in a URL query string so a copied link restores the
same view. Keys: channels, templates, transactionId, subscriberId,
dateRange (24h, 7d, 30d) and activityItemId.`,
	}

	parseCmd := &cobra.Command{
		Use:   "parse <query>",
		Short: "Show the filters a query selects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := parseQuery(args[0])
			if err != nil {
				return err
			}
			state := activityState{
				Filters: activity.ParseFilters(q, now()),
				Values:  activity.ParseFilterValues(q),
			}
			state.ActivityItemID, _ = activity.ActivityItemID(q)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(state)
		},
	}

	var (
		queryFlag       string
		dateRangeFlag   string
		channelFlags    []string
		templateFlags   []string
		transactionFlag string
		subscriberFlag  string
	)
	encodeCmd := &cobra.Command{
		Use:   "encode",
		Short: "Write filter values into a query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := parseQuery(queryFlag)
			if err != nil {
				return err
			}
			values := activity.FilterValues{
				DateRange:     dateRangeFlag,
				Templates:     cleanTags(templateFlags),
				TransactionID: transactionFlag,
				SubscriberID:  subscriberFlag,
			}
			for _, c := range cleanTags(channelFlags) {
				channel, err := domain.ParseChannelType(c)
				if err != nil {
					return err
				}
				values.Channels = append(values.Channels, channel)
			}
			fmt.Fprintln(cmd.OutOrStdout(), activity.ApplyFilterValues(q, values).Encode())
			return nil
		},
	}
	encodeCmd.Flags().StringVar(&queryFlag, "query", "", "Existing query; keys other than the filters are kept")
	encodeCmd.Flags().StringVar(&dateRangeFlag, "date-range", activity.DefaultDateRange, "Date range: 24h, 7d, 30d")
	encodeCmd.Flags().StringArrayVar(&channelFlags, "channel", nil, "Channel to include (repeatable)")
	encodeCmd.Flags().StringArrayVar(&templateFlags, "template", nil, "Template identifier to include (repeatable)")
	encodeCmd.Flags().StringVar(&transactionFlag, "transaction", "", "Transaction ID")
	encodeCmd.Flags().StringVar(&subscriberFlag, "subscriber", "", "Subscriber ID")

	toggleCmd := &cobra.Command{
		Use:   "toggle <query> <activity-id>",
		Short: "Select an activity item, or deselect it when already selected",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := parseQuery(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), activity.ToggleActivity(q, args[1]).Encode())
			return nil
		},
	}

	var listFormatFlag string
	var searchFlag string
	var regexFlag bool
	var ignoreCaseFlag bool
	listCmd := &cobra.Command{
		Use:   "list [query]",
		Short: "List notifications matching activity filters",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := ""
			if len(args) == 1 {
				raw = args[0]
			}
			q, err := parseQuery(raw)
			if err != nil {
				return err
			}
			formatterType, err := format.ParseFormatterType(listFormatFlag)
			if err != nil {
				return err
			}

			provider := search.New(regexFlag, search.WithCaseInsensitive(ignoreCaseFlag))
			if rp, ok := provider.(*search.RegexProvider); ok && searchFlag != "" {
				if err := rp.Compile(searchFlag); err != nil {
					return fmt.Errorf("invalid search pattern: %w", err)
				}
			}

			filters := activity.ParseFilters(q, now())
			all, err := client.List(cmd.Context(), domain.Query{})
			if err != nil {
				return fmt.Errorf("list activity: %w", err)
			}
			matched := []domain.Notification{}
			for _, n := range all {
				if filters.Matches(n) && provider.Match(n, searchFlag) {
					matched = append(matched, n)
				}
			}
			total := len(matched)
			resp := domain.FeedResponse{TotalCount: &total, Data: matched, PageSize: total}
			return format.NewFormatter(formatterType).FormatFeed(resp, cmd.OutOrStdout())
		},
	}
	listCmd.Flags().StringVar(&listFormatFlag, "format", string(format.FormatterTypeSimple), "Output format: table, simple, compact, json")
	listCmd.Flags().StringVar(&searchFlag, "search", "", "Only show notifications whose content, subject or tags contain this text")
	listCmd.Flags().BoolVar(&regexFlag, "regex", false, "Treat --search as a regular expression")
	listCmd.Flags().BoolVar(&ignoreCaseFlag, "ignore-case", false, "Ignore case when searching")

	activityCmd.AddCommand(parseCmd, encodeCmd, toggleCmd, listCmd)
	return activityCmd
}
