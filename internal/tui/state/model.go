package state

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/inboxkit/internal/domain"
	"github.com/cristianoliveira/inboxkit/internal/inbox"
	"github.com/cristianoliveira/inboxkit/internal/logging"
	"github.com/cristianoliveira/inboxkit/internal/tui/render"
)

const (
	headerFooterLines     = 3
	defaultViewportWidth  = 80
	defaultViewportHeight = 20
	statusClearDuration   = 5 * time.Second
	requestTimeout        = 5 * time.Second
	limitStep             = 5
)

// Feed fetches feed pages and per-tab counts.
type Feed interface {
	Fetch(ctx context.Context, f inbox.Filter, page, limit int) (domain.FeedResponse, error)
	TabCounts(ctx context.Context, status inbox.Status, tabs []inbox.Tab) (map[string]int, error)
}

// Actions mutates notifications on behalf of the user.
type Actions interface {
	MarkRead(ctx context.Context, id string, read bool) error
	Archive(ctx context.Context, id string, archived bool) error
}

// Location reports the current in-app location shown in the status bar.
type Location interface {
	Href() string
}

// Model represents the TUI model for bubbletea.
type Model struct {
	ctx      context.Context
	ctrl     *inbox.Controller
	feed     Feed
	actions  Actions
	location Location
	logger   logging.Logger
	now      func() time.Time

	keys     keyMap
	help     help.Model
	viewport viewport.Model
	width    int

	snapshot    inbox.Snapshot
	changes     chan inbox.Snapshot
	unsubscribe func()

	resp    domain.FeedResponse
	counts  map[string]int
	page    int
	cursor  int
	loading bool
	fetchID int

	statusMessage string
	statusIsError bool
	statusID      int
}

// Option configures a Model.
type Option func(*Model)

// WithLocation shows the current in-app location in the status bar.
func WithLocation(location Location) Option {
	return func(m *Model) {
		m.location = location
	}
}

// WithClock overrides the clock used for relative ages.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		m.now = now
	}
}

// NewModel creates the TUI model for the controller mounted in ctx.
// It returns inbox.ErrNoProvider when no controller is mounted.
func NewModel(ctx context.Context, feed Feed, actions Actions, opts ...Option) (*Model, error) {
	ctrl, err := inbox.Use(ctx)
	if err != nil {
		return nil, err
	}

	m := &Model{
		ctx:      ctx,
		ctrl:     ctrl,
		feed:     feed,
		actions:  actions,
		logger:   logging.With("component", "tui"),
		now:      time.Now,
		keys:     defaultKeyMap(),
		help:     help.New(),
		viewport: viewport.New(defaultViewportWidth, defaultViewportHeight),
		width:    defaultViewportWidth,
		snapshot: ctrl.Snapshot(),
		changes:  make(chan inbox.Snapshot, 1),
	}
	for _, opt := range opts {
		opt(m)
	}

	changes := m.changes
	m.unsubscribe = ctrl.Subscribe(func(s inbox.Snapshot) {
		// Latest snapshot wins; the model never needs intermediate states.
		select {
		case changes <- s:
		default:
			select {
			case <-changes:
			default:
			}
			select {
			case changes <- s:
			default:
			}
		}
	})
	return m, nil
}

// Init starts listening for controller changes and loads the first page.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(waitForSnapshot(m.changes), m.fetch())
}

// Close releases the controller subscription.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		return m.handleWindowSizeMsg(msg)
	case snapshotMsg:
		return m, tea.Batch(m.applySnapshot(msg.snapshot), waitForSnapshot(m.changes))
	case feedLoadedMsg:
		return m, m.handleFeedLoaded(msg)
	case actionDoneMsg:
		return m, m.handleActionDone(msg)
	case statusMsg:
		return m, m.setStatus(msg.text, msg.isError)
	case clearStatusMsg:
		if msg.seq == m.statusID {
			m.statusMessage = ""
			m.statusIsError = false
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleWindowSizeMsg(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.help.Width = msg.Width
	m.viewport.Width = msg.Width
	height := msg.Height - headerFooterLines
	if height < 1 {
		height = 1
	}
	m.viewport.Height = height
	m.refreshViewport()
	return m, nil
}

// applySnapshot takes a new controller state. A changed filter or page size
// restarts paging; any change that affects what is listed or counted refetches.
func (m *Model) applySnapshot(s inbox.Snapshot) tea.Cmd {
	prev := m.snapshot
	m.snapshot = s

	filterChanged := !filterEqual(prev.Filter, s.Filter) || prev.Limit != s.Limit
	opened := s.IsOpened && !prev.IsOpened
	if filterChanged {
		m.page = 0
		m.cursor = 0
	}
	if filterChanged || opened || !tabsEqual(prev.Tabs, s.Tabs) {
		return m.fetch()
	}
	m.refreshViewport()
	return nil
}

func (m *Model) fetch() tea.Cmd {
	m.fetchID++
	m.loading = true

	seq := m.fetchID
	ctx := m.ctx
	feed := m.feed
	s := m.snapshot
	page := m.page

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()

		resp, err := feed.Fetch(ctx, s.Filter, page, s.Limit)
		if err != nil {
			return feedLoadedMsg{seq: seq, err: err}
		}
		counts, err := feed.TabCounts(ctx, s.Status, s.Tabs)
		return feedLoadedMsg{seq: seq, resp: resp, counts: counts, err: err}
	}
}

func (m *Model) handleFeedLoaded(msg feedLoadedMsg) tea.Cmd {
	if msg.seq != m.fetchID {
		return nil
	}
	m.loading = false
	if msg.err != nil {
		m.logger.Error("load feed failed", "error", msg.err)
		return m.setStatus(fmt.Sprintf("load failed: %v", msg.err), true)
	}
	m.resp = msg.resp
	if msg.counts != nil {
		m.counts = msg.counts
	}
	if m.cursor >= len(m.resp.Data) {
		m.cursor = max(len(m.resp.Data)-1, 0)
	}
	m.refreshViewport()
	return nil
}

func (m *Model) handleActionDone(msg actionDoneMsg) tea.Cmd {
	if msg.err != nil {
		m.logger.Error("notification action failed", "action", msg.verb, "id", msg.id, "error", msg.err)
		return m.setStatus(fmt.Sprintf("%s failed: %v", msg.verb, msg.err), true)
	}
	return tea.Batch(m.setStatus(msg.verb, false), m.fetch())
}

func (m *Model) setStatus(text string, isError bool) tea.Cmd {
	m.statusID++
	m.statusMessage = text
	m.statusIsError = isError
	return clearStatusAfter(m.statusID, statusClearDuration)
}

func (m *Model) selected() (domain.Notification, bool) {
	if m.cursor < 0 || m.cursor >= len(m.resp.Data) {
		return domain.Notification{}, false
	}
	return m.resp.Data[m.cursor], true
}

func (m *Model) refreshViewport() {
	if len(m.resp.Data) == 0 {
		m.viewport.SetContent(render.Empty(m.snapshot.Status, m.snapshot.ActiveTab))
		m.viewport.GotoTop()
		return
	}
	m.viewport.SetContent(render.List(m.resp.Data, m.cursor, m.width, m.now()))
	if m.cursor < m.viewport.YOffset {
		m.viewport.SetYOffset(m.cursor)
	} else if m.cursor >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

// View renders the model.
func (m *Model) View() string {
	if !m.snapshot.IsOpened {
		var unread *int
		if n, ok := m.counts[m.snapshot.ActiveTab]; ok {
			unread = &n
		}
		return render.Collapsed(unread)
	}

	status := render.StatusState{
		Status:  m.snapshot.Status,
		Limit:   m.snapshot.Limit,
		Page:    m.page,
		Total:   m.resp.TotalCount,
		HasMore: m.resp.HasMore,
		Loading: m.loading,
		Message: m.statusMessage,
		IsError: m.statusIsError,
	}
	if m.location != nil {
		status.Location = m.location.Href()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		render.TabBar(render.Tabs(m.snapshot, m.counts), m.width),
		render.StatusBar(status, m.width),
		m.viewport.View(),
		m.help.View(m.keys),
	)
}

func filterEqual(a, b inbox.Filter) bool {
	return boolPtrEqual(a.Archived, b.Archived) && boolPtrEqual(a.Read, b.Read) && slices.Equal(a.Tags, b.Tags)
}

func tabsEqual(a, b []inbox.Tab) bool {
	return slices.EqualFunc(a, b, func(x, y inbox.Tab) bool {
		return x.Label == y.Label && slices.Equal(x.Value, y.Value)
	})
}

func boolPtrEqual(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
