// Package cmd implements the inboxkit command line.
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/cristianoliveira/inboxkit/internal/colors"
	"github.com/cristianoliveira/inboxkit/internal/config"
	"github.com/cristianoliveira/inboxkit/internal/logging"
	"github.com/cristianoliveira/inboxkit/internal/version"
	"github.com/spf13/cobra"
)

var defaultApp = newApp()

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "inboxkit",
	Short: "A notification inbox for the terminal.",
	Long: `A notification inbox for the terminal.

Notifications are stored locally and browsed through tabs, a status filter
and a page size. Links on notifications open in the browser.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		colors.SetDebug(config.GetBool("debug", false))
		if err := logging.InitGlobal(); err != nil {
			colors.Warning(fmt.Sprintf("file logging disabled: %v", err))
		}
		logging.Debug("command started", "command", cmd.CommandPath())
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if err := defaultApp.close(); err != nil {
			return fmt.Errorf("close storage: %w", err)
		}
		return logging.ShutdownGlobal()
	},
}

// Execute adds all child commands to the root command and runs it.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.Version = version.String()

	// Hide the completion command
	RootCmd.CompletionOptions.HiddenDefaultCmd = true

	RootCmd.AddCommand(
		NewAddCmd(defaultApp),
		NewFeedCmd(defaultApp),
		NewReadCmd(defaultApp),
		NewUnreadCmd(defaultApp),
		NewArchiveCmd(defaultApp),
		NewUnarchiveCmd(defaultApp),
		NewDeleteCmd(defaultApp),
		NewOpenCmd(defaultApp),
		NewFollowCmd(defaultApp),
		NewTabsCmd(defaultApp),
		NewActivityCmd(defaultApp),
		NewCleanupCmd(defaultApp),
		NewTUICmd(defaultApp),
		NewVersionCmd(defaultApp),
	)

	defaultHelp := RootCmd.HelpFunc()
	RootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != RootCmd {
			defaultHelp(cmd, args)
			return
		}
		printHelpText(cmd.OutOrStdout(), cmd)
	})
}

// commandOrder is the order commands are listed in the root help.
var commandOrder = []string{
	"tui",
	"feed",
	"add",
	"read",
	"unread",
	"archive",
	"unarchive",
	"delete",
	"open",
	"follow",
	"tabs",
	"activity",
	"cleanup",
	"version",
}

func printHelpText(w io.Writer, cmd *cobra.Command) {
	var cmdLines []string
	for _, name := range commandOrder {
		var found *cobra.Command
		for _, c := range cmd.Commands() {
			if c.Name() == name {
				found = c
				break
			}
		}
		if found == nil {
			continue
		}
		cmdLines = append(cmdLines, fmt.Sprintf("    %-16s %s", found.Name(), found.Short))
	}

	fmt.Fprintf(w, `inboxkit %s

%s

USAGE:
    inboxkit [COMMAND] [OPTIONS]

COMMANDS:
%s

OPTIONS:
    -h, --help      Show help message
    -v, --version   Show version

Run 'inboxkit <command> --help' for command options.
`, version.String(), cmd.Short, strings.Join(cmdLines, "\n"))
}
