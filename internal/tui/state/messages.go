// Package state provides the bubbletea model of the inbox TUI.
package state

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/inboxkit/internal/domain"
	"github.com/cristianoliveira/inboxkit/internal/inbox"
)

// snapshotMsg carries controller state published by a Subscribe listener.
type snapshotMsg struct {
	snapshot inbox.Snapshot
}

// feedLoadedMsg is the result of a feed fetch. seq identifies the request so
// stale responses can be dropped.
type feedLoadedMsg struct {
	seq    int
	resp   domain.FeedResponse
	counts map[string]int
	err    error
}

// actionDoneMsg reports a finished read/archive mutation.
type actionDoneMsg struct {
	verb string
	id   string
	err  error
}

// statusMsg shows a message in the status bar.
type statusMsg struct {
	text    string
	isError bool
}

// clearStatusMsg clears the status message if it is still the one with seq.
type clearStatusMsg struct {
	seq int
}

func clearStatusAfter(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// waitForSnapshot blocks until the controller publishes a change.
func waitForSnapshot(ch <-chan inbox.Snapshot) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return snapshotMsg{snapshot: s}
	}
}

// Notice returns a message that shows text in the status bar. Hosts send it
// with tea.Program.Send to surface events from outside the model.
func Notice(text string) tea.Msg {
	return statusMsg{text: text}
}
