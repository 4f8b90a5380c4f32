package cmd

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/cristianoliveira/inboxkit/internal/colors"
	"github.com/cristianoliveira/inboxkit/internal/inbox"
	"github.com/cristianoliveira/inboxkit/internal/tabs"
	"github.com/spf13/cobra"
)

type tabsClient interface {
	TabsPath() string
	LoadTabs() ([]inbox.Tab, error)
	SaveTabs(set []inbox.Tab) error
}

// NewTabsCmd creates the tabs command with explicit dependencies.
func NewTabsCmd(client tabsClient) *cobra.Command {
	if client == nil {
		panic("NewTabsCmd: client dependency cannot be nil")
	}

	var formatFlag string

	tabsCmd := &cobra.Command{
		Use:   "tabs",
		Short: "List or edit the inbox tabs",
		Long: `inboxkit tabs - List or edit the inbox tabs

Each tab has a label and the tags it filters by. A tab without tags shows
every notification. Tabs are stored in the tabs_file (TOML).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := client.LoadTabs()
			if err != nil {
				return err
			}
			switch formatFlag {
			case formatJSON:
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(set)
			case formatText:
				for _, tab := range set {
					tags := "(all)"
					if len(tab.Value) > 0 {
						tags = strings.Join(tab.Value, ", ")
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", tab.Label, tags)
				}
				return nil
			default:
				return fmt.Errorf("invalid format: %s (must be text or json)", formatFlag)
			}
		},
	}
	tabsCmd.Flags().StringVar(&formatFlag, "format", formatText, "Output format: text or json")

	setCmd := &cobra.Command{
		Use:   "set <label> [tag...]",
		Short: "Add a tab or replace its tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := client.LoadTabs()
			if err != nil {
				return err
			}
			tab := inbox.Tab{Label: strings.TrimSpace(args[0]), Value: cleanTags(args[1:])}
			i := slices.IndexFunc(set, func(t inbox.Tab) bool { return t.Label == tab.Label })
			if i >= 0 {
				set[i] = tab
			} else {
				set = append(set, tab)
			}
			if err := client.SaveTabs(set); err != nil {
				return err
			}
			colors.Success(fmt.Sprintf("tab %q saved to %s", tab.Label, client.TabsPath()))
			return nil
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove <label>",
		Short: "Remove a tab",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := client.LoadTabs()
			if err != nil {
				return err
			}
			tab, err := tabs.Resolve(args[0], set)
			if err != nil {
				return err
			}
			set = slices.DeleteFunc(set, func(t inbox.Tab) bool { return t.Label == tab.Label })
			if len(set) == 0 {
				return fmt.Errorf("cannot remove the last tab")
			}
			if err := client.SaveTabs(set); err != nil {
				return err
			}
			colors.Success(fmt.Sprintf("tab %q removed", tab.Label))
			return nil
		},
	}

	tabsCmd.AddCommand(setCmd, removeCmd)
	return tabsCmd
}
