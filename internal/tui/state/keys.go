package state

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextTab        key.Binding
	PrevTab        key.Binding
	StatusAll      key.Binding
	StatusUnread   key.Binding
	StatusArchived key.Binding
	MoreItems      key.Binding
	FewerItems     key.Binding
	NextPage       key.Binding
	PrevPage       key.Binding
	Up             key.Binding
	Down           key.Binding
	ToggleOpen     key.Binding
	Follow         key.Binding
	ToggleRead     key.Binding
	ToggleArchive  key.Binding
	Refresh        key.Binding
	Help           key.Binding
	Quit           key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextTab:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:        key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		StatusAll:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "unread & read")),
		StatusUnread:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "unread")),
		StatusArchived: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "archived")),
		MoreItems:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "bigger page")),
		FewerItems:     key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "smaller page")),
		NextPage:       key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n", "next page")),
		PrevPage:       key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p", "prev page")),
		Up:             key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
		Down:           key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		ToggleOpen:     key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "open/close")),
		Follow:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "follow link")),
		ToggleRead:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "read/unread")),
		ToggleArchive:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "archive")),
		Refresh:        key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
		Help:           key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.StatusAll, k.StatusUnread, k.StatusArchived, k.Follow, k.ToggleRead, k.ToggleArchive, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.StatusAll, k.StatusUnread, k.StatusArchived},
		{k.Up, k.Down, k.NextPage, k.PrevPage, k.MoreItems, k.FewerItems},
		{k.ToggleOpen, k.Follow, k.ToggleRead, k.ToggleArchive, k.Refresh, k.Help, k.Quit},
	}
}
