package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/cristianoliveira/inboxkit/internal/colors"
	"github.com/cristianoliveira/inboxkit/internal/domain"
	"github.com/spf13/cobra"
)

type addClient interface {
	Add(ctx context.Context, n domain.Notification) (string, error)
}

// NewAddCmd creates the add command with explicit dependencies.
func NewAddCmd(client addClient) *cobra.Command {
	if client == nil {
		panic("NewAddCmd: client dependency cannot be nil")
	}

	var subjectFlag string
	var tagFlags []string
	var urlFlag string
	var targetFlag string
	var channelFlag string
	var subscriberFlag string
	var transactionFlag string
	var templateFlag string

	addCmd := &cobra.Command{
		Use:   "add [OPTIONS] <content>",
		Short: "Add a notification to the inbox",
		Long: `inboxkit add - Add a notification to the inbox

USAGE:
    inboxkit add [OPTIONS] <content>

OPTIONS:
    --subject <text>        Subject shown before the content
    --tag <tag>             Tag used by tabs (repeatable)
    --url <url>             Link followed when the notification is opened
    --target <target>       Browsing context for external links (default: _blank)
    --channel <channel>     Channel: in_app, email, sms, chat, push (default: in_app)
    --subscriber <id>       Subscriber the notification belongs to
    --transaction <id>      Transaction that triggered the notification
    --template <id>         Template identifier used by activity filters
    -h, --help              Show this help`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content := strings.TrimSpace(strings.Join(args, " "))
			channel, err := domain.ParseChannelType(channelFlag)
			if err != nil {
				return err
			}

			n := domain.Notification{
				Content:       content,
				Channel:       channel,
				Status:        domain.DeliverySent,
				Tags:          cleanTags(tagFlags),
				SubscriberID:  strings.TrimSpace(subscriberFlag),
				TransactionID: strings.TrimSpace(transactionFlag),
			}
			if s := strings.TrimSpace(subjectFlag); s != "" {
				n.Subject = &s
			}
			if t := strings.TrimSpace(templateFlag); t != "" {
				n.TemplateIdentifier = &t
			}
			if u := strings.TrimSpace(urlFlag); u != "" {
				n.CTA = domain.MessageCTA{Type: domain.CTARedirect, Data: domain.CTAData{URL: u, Target: targetFlag}}
			}

			id, err := client.Add(cmd.Context(), n)
			if err != nil {
				return fmt.Errorf("add: %w", err)
			}
			colors.Success("notification added")
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}

	addCmd.Flags().StringVar(&subjectFlag, "subject", "", "Subject shown before the content")
	addCmd.Flags().StringArrayVar(&tagFlags, "tag", nil, "Tag used by tabs (repeatable)")
	addCmd.Flags().StringVar(&urlFlag, "url", "", "Link followed when the notification is opened")
	addCmd.Flags().StringVar(&targetFlag, "target", "", "Browsing context for external links")
	addCmd.Flags().StringVar(&channelFlag, "channel", string(domain.ChannelInApp), "Channel: in_app, email, sms, chat, push")
	addCmd.Flags().StringVar(&subscriberFlag, "subscriber", "", "Subscriber the notification belongs to")
	addCmd.Flags().StringVar(&transactionFlag, "transaction", "", "Transaction that triggered the notification")
	addCmd.Flags().StringVar(&templateFlag, "template", "", "Template identifier used by activity filters")

	return addCmd
}

// cleanTags trims tags and accepts comma separated lists.
func cleanTags(raw []string) []string {
	tags := []string{}
	for _, r := range raw {
		for _, tag := range strings.Split(r, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}
