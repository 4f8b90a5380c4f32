// Package render draws the inbox TUI pieces as plain strings.
package render

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/inboxkit/internal/domain"
	"github.com/cristianoliveira/inboxkit/internal/inbox"
)

const (
	markWidth           = 2
	channelWidth        = 6
	ageWidth            = 4
	spacesBetweenCols   = 6
	defaultContentWidth = 50
	ellipsis            = "..."
)

const (
	colorAccent = lipgloss.Color("4")
	colorMuted  = lipgloss.Color("241")
	colorError  = lipgloss.Color("1")
	colorInk    = lipgloss.Color("0")
)

var (
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorInk).Background(colorAccent).Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)
	statusBarStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle       = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	selectedRowStyle = lipgloss.NewStyle().Background(colorAccent).Foreground(colorInk)
	unreadRowStyle   = lipgloss.NewStyle().Bold(true)
	emptyStyle       = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
	bellStyle        = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
)

// TabState defines the inputs needed to render one tab.
type TabState struct {
	Label  string
	Count  int
	Counts bool
	Active bool
}

// StatusState defines the inputs needed to render the status bar.
type StatusState struct {
	Status   inbox.Status
	Limit    int
	Page     int
	Total    *int
	HasMore  bool
	Loading  bool
	Location string
	Message  string
	IsError  bool
}

// RowState defines the inputs needed to render a notification row.
type RowState struct {
	Notification domain.Notification
	Width        int
	Selected     bool
	Now          time.Time
}

// Tabs builds tab states from a controller snapshot and optional counts.
func Tabs(s inbox.Snapshot, counts map[string]int) []TabState {
	out := make([]TabState, len(s.Tabs))
	for i, tab := range s.Tabs {
		n, ok := counts[tab.Label]
		out[i] = TabState{Label: tab.Label, Count: n, Counts: ok, Active: tab.Label == s.ActiveTab}
	}
	return out
}

// TabBar renders the tab strip, truncated to width.
func TabBar(tabs []TabState, width int) string {
	if len(tabs) == 0 {
		return emptyStyle.Render("no tabs")
	}
	parts := make([]string, len(tabs))
	for i, tab := range tabs {
		label := tab.Label
		if tab.Counts {
			label = fmt.Sprintf("%s (%d)", label, tab.Count)
		}
		if tab.Active {
			parts[i] = activeTabStyle.Render(label)
		} else {
			parts[i] = inactiveTabStyle.Render(label)
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	if width > 0 {
		bar = lipgloss.NewStyle().MaxWidth(width).Render(bar)
	}
	return bar
}

// StatusLabel is the human name of a status.
func StatusLabel(s inbox.Status) string {
	switch s {
	case inbox.StatusUnreadRead:
		return "unread & read"
	case inbox.StatusUnread:
		return "unread"
	case inbox.StatusArchived:
		return "archived"
	default:
		return string(s)
	}
}

// StatusBar renders the status line under the tabs.
func StatusBar(state StatusState, width int) string {
	parts := []string{
		"status: " + StatusLabel(state.Status),
		fmt.Sprintf("page %d", state.Page+1),
		fmt.Sprintf("limit %d", state.Limit),
	}
	if state.Total != nil {
		parts = append(parts, fmt.Sprintf("%d total", *state.Total))
	}
	if state.HasMore {
		parts = append(parts, "more")
	}
	if state.Loading {
		parts = append(parts, "loading…")
	}
	if state.Location != "" {
		parts = append(parts, state.Location)
	}
	line := statusBarStyle.Render(strings.Join(parts, "  |  "))
	if state.Message != "" {
		style := statusBarStyle
		if state.IsError {
			style = errorStyle
		}
		line += "  " + style.Render(state.Message)
	}
	if width > 0 {
		line = lipgloss.NewStyle().MaxWidth(width).Render(line)
	}
	return line
}

// Row renders a single notification row.
func Row(state RowState) string {
	n := state.Notification

	mark := "●"
	if n.Read {
		mark = "○"
	}
	if n.Archived {
		mark = "▪"
	}

	content := n.Content
	if n.Subject != nil && *n.Subject != "" {
		content = *n.Subject + ": " + content
	}
	if _, _, ok := n.RedirectURL(); ok {
		content += " ↗"
	}
	content = strings.ReplaceAll(content, "\n", " ")

	contentWidth := calculateContentWidth(state.Width)
	if state.Width == 0 || contentWidth < 10 {
		contentWidth = defaultContentWidth
	}
	content = truncate(content, contentWidth)

	row := fmt.Sprintf("%-*s  %-*s  %s  %*s",
		markWidth, mark,
		channelWidth, truncate(string(n.Channel), channelWidth),
		padRight(content, contentWidth),
		ageWidth, Age(n.CreatedAt, state.Now),
	)

	switch {
	case state.Selected:
		return selectedRowStyle.Render(row)
	case !n.Read:
		return unreadRowStyle.Render(row)
	default:
		return row
	}
}

// List renders all rows, one per line.
func List(items []domain.Notification, cursor, width int, now time.Time) string {
	lines := make([]string, len(items))
	for i, n := range items {
		lines[i] = Row(RowState{Notification: n, Width: width, Selected: i == cursor, Now: now})
	}
	return strings.Join(lines, "\n")
}

// Empty renders the placeholder shown when a feed page has no items.
func Empty(status inbox.Status, tab string) string {
	msg := fmt.Sprintf("No %s notifications", StatusLabel(status))
	if tab != "" {
		msg += " in " + tab
	}
	return emptyStyle.Render(msg)
}

// Collapsed renders the closed inbox bell.
func Collapsed(unread *int) string {
	label := "🔔 inbox"
	if unread != nil {
		label = fmt.Sprintf("%s (%d)", label, *unread)
	}
	return bellStyle.Render(label) + statusBarStyle.Render("  space: open  q: quit")
}

// Age formats how long ago t was, using the largest whole unit.
func Age(t *time.Time, now time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	if now.IsZero() {
		now = time.Now()
	}

	duration := now.Sub(*t)
	if duration < 0 {
		duration = 0
	}

	if duration < time.Minute {
		return fmt.Sprintf("%ds", int(duration.Seconds()))
	} else if duration < time.Hour {
		return fmt.Sprintf("%dm", int(duration.Minutes()))
	} else if duration < 24*time.Hour {
		return fmt.Sprintf("%dh", int(duration.Hours()))
	}
	return fmt.Sprintf("%dd", int(duration.Hours()/24))
}

func calculateContentWidth(width int) int {
	return width - markWidth - channelWidth - ageWidth - spacesBetweenCols
}

func truncate(value string, width int) string {
	if width <= 0 || utf8.RuneCountInString(value) <= width {
		return value
	}
	if width <= len(ellipsis) {
		return string([]rune(value)[:width])
	}
	return string([]rune(value)[:width-len(ellipsis)]) + ellipsis
}

func padRight(value string, width int) string {
	if n := utf8.RuneCountInString(value); n < width {
		return value + strings.Repeat(" ", width-n)
	}
	return value
}
