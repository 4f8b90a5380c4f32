package state

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/inboxkit/internal/inbox"
)

// handleKeyMsg processes keyboard input for the TUI. Controller mutations do
// not touch the model directly; the resulting snapshot arrives via Subscribe.
// Keys that step from the current state read it from the controller, since
// the model's snapshot may lag behind.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.ToggleOpen):
		m.ctrl.SetOpened(!m.ctrl.IsOpened())
		return m, nil
	}

	if !m.ctrl.IsOpened() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.NextTab):
		m.cycleTab(1)
	case key.Matches(msg, m.keys.PrevTab):
		m.cycleTab(-1)
	case key.Matches(msg, m.keys.StatusAll):
		return m, m.selectStatus(inbox.StatusUnreadRead)
	case key.Matches(msg, m.keys.StatusUnread):
		return m, m.selectStatus(inbox.StatusUnread)
	case key.Matches(msg, m.keys.StatusArchived):
		return m, m.selectStatus(inbox.StatusArchived)
	case key.Matches(msg, m.keys.MoreItems):
		m.ctrl.SetLimit(m.ctrl.Limit() + limitStep)
	case key.Matches(msg, m.keys.FewerItems):
		m.ctrl.SetLimit(m.ctrl.Limit() - limitStep)
	case key.Matches(msg, m.keys.NextPage):
		if m.resp.HasMore {
			m.page++
			m.cursor = 0
			return m, m.fetch()
		}
	case key.Matches(msg, m.keys.PrevPage):
		if m.page > 0 {
			m.page--
			m.cursor = 0
			return m, m.fetch()
		}
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.refreshViewport()
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.resp.Data)-1 {
			m.cursor++
			m.refreshViewport()
		}
	case key.Matches(msg, m.keys.Follow):
		return m, m.follow()
	case key.Matches(msg, m.keys.ToggleRead):
		return m, m.toggleRead()
	case key.Matches(msg, m.keys.ToggleArchive):
		return m, m.toggleArchive()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.fetch()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) cycleTab(step int) {
	tabs := m.ctrl.Tabs()
	if len(tabs) == 0 {
		return
	}
	active := m.ctrl.ActiveTab()
	current := 0
	for i, tab := range tabs {
		if tab.Label == active {
			current = i
			break
		}
	}
	next := (current + step + len(tabs)) % len(tabs)
	m.ctrl.SetActiveTab(tabs[next].Label)
}

func (m *Model) selectStatus(status inbox.Status) tea.Cmd {
	if err := m.ctrl.SetStatus(status); err != nil {
		return m.setStatus(err.Error(), true)
	}
	return nil
}

// follow navigates to the selected notification's link and marks it read.
func (m *Model) follow() tea.Cmd {
	n, ok := m.selected()
	if !ok {
		return nil
	}
	target, linkTarget, ok := n.RedirectURL()
	if !ok {
		return m.setStatus("no link on this notification", false)
	}
	m.ctrl.Navigate(target, linkTarget)
	m.logger.Info("followed notification link", "id", n.ID, "url", target)

	cmds := []tea.Cmd{m.setStatus("opened "+target, false)}
	if !n.Read {
		cmds = append(cmds, m.markRead(n.ID, true))
	}
	return tea.Batch(cmds...)
}

func (m *Model) toggleRead() tea.Cmd {
	n, ok := m.selected()
	if !ok {
		return nil
	}
	return m.markRead(n.ID, !n.Read)
}

func (m *Model) markRead(id string, read bool) tea.Cmd {
	verb := "marked read"
	if !read {
		verb = "marked unread"
	}
	return m.act(verb, id, func(ctx context.Context) error {
		return m.actions.MarkRead(ctx, id, read)
	})
}

func (m *Model) toggleArchive() tea.Cmd {
	n, ok := m.selected()
	if !ok {
		return nil
	}
	archived := !n.Archived
	verb := "archived"
	if !archived {
		verb = "unarchived"
	}
	return m.act(verb, n.ID, func(ctx context.Context) error {
		return m.actions.Archive(ctx, n.ID, archived)
	})
}

func (m *Model) act(verb, id string, fn func(ctx context.Context) error) tea.Cmd {
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, requestTimeout)
		defer cancel()
		return actionDoneMsg{verb: verb, id: id, err: fn(ctx)}
	}
}
