package cmd

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/inboxkit/internal/browser"
	"github.com/cristianoliveira/inboxkit/internal/config"
	"github.com/cristianoliveira/inboxkit/internal/inbox"
	"github.com/cristianoliveira/inboxkit/internal/logging"
	"github.com/cristianoliveira/inboxkit/internal/tabs"
	"github.com/cristianoliveira/inboxkit/internal/tui/state"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type tuiClient interface {
	navClient
	state.Feed
	state.Actions
	TabsPath() string
	LoadTabs() ([]inbox.Tab, error)
}

// NewTUICmd creates the tui command with explicit dependencies.
func NewTUICmd(client tuiClient) *cobra.Command {
	if client == nil {
		panic("NewTUICmd: client dependency cannot be nil")
	}

	var inlineFlag bool
	var openFlag bool

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse the inbox interactively",
		Long: `inboxkit tui - Browse the inbox interactively

Press space to open the inbox, tab to switch tabs and 1/2/3 to choose
unread & read, unread or archived. Enter follows a notification's link.
Edits to the tabs file are picked up while the inbox is running.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := client.LoadTabs()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			s, err := mountSession(ctx, client, set)
			if err != nil {
				return err
			}
			defer s.close()
			if openFlag {
				s.ctrl.SetOpened(true)
			}

			model, err := state.NewModel(s.ctx, client, client, state.WithLocation(s.history))
			if err != nil {
				return err
			}
			defer model.Close()

			opts := []tea.ProgramOption{tea.WithContext(ctx)}
			if !inlineFlag {
				opts = append(opts, tea.WithAltScreen())
			}
			program := tea.NewProgram(model, opts...)
			s.history.OnPush(pushNotices(program))

			logger := logging.With("component", "tui")
			watcher := tabs.NewWatcher(client.TabsPath(),
				config.GetDuration("tabs_poll_interval", tabs.DefaultPollInterval),
				func(next []inbox.Tab) {
					logger.Info("tabs reloaded", "count", len(next))
					s.ctrl.SetTabs(next)
				})

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return watcher.Run(gctx)
			})
			g.Go(func() error {
				defer cancel()
				if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
					return fmt.Errorf("run tui: %w", err)
				}
				return nil
			})
			return g.Wait()
		},
	}

	tuiCmd.Flags().BoolVar(&inlineFlag, "inline", false, "Render inline instead of using the alternate screen")
	tuiCmd.Flags().BoolVar(&openFlag, "open", false, "Start with the inbox open")

	return tuiCmd
}

// pushNotices reports history pushes in the TUI. Pushes happen inside
// Update, so the send must not wait on the event loop.
func pushNotices(program *tea.Program) func(browser.Entry) {
	return func(e browser.Entry) {
		go program.Send(state.Notice("navigated to " + e.URL.String()))
	}
}
