package cmd

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/inboxkit/internal/domain"
	"github.com/cristianoliveira/inboxkit/internal/inbox"
	"github.com/cristianoliveira/inboxkit/internal/tui/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lockedClient serialises access to the fake, which the TUI calls from
// command goroutines.
type lockedClient struct {
	mu sync.Mutex
	*fakeClient
}

func (c *lockedClient) Fetch(ctx context.Context, f inbox.Filter, page, limit int) (domain.FeedResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fakeClient.Fetch(ctx, f, page, limit)
}

func (c *lockedClient) TabCounts(ctx context.Context, status inbox.Status, set []inbox.Tab) (map[string]int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fakeClient.TabCounts(ctx, status, set)
}

func (c *lockedClient) MarkRead(ctx context.Context, id string, read bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fakeClient.MarkRead(ctx, id, read)
}

func (c *lockedClient) Archive(ctx context.Context, id string, archived bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fakeClient.Archive(ctx, id, archived)
}

func TestTUIFollowRelativeLinkKeepsEventLoopRunning(t *testing.T) {
	fake := newFakeClient()
	fake.seed(domain.Notification{
		Content: "password changed",
		CTA:     domain.MessageCTA{Type: domain.CTARedirect, Data: domain.CTAData{URL: "/settings"}},
	})
	client := &lockedClient{fakeClient: fake}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := mountSession(ctx, client, fake.tabs)
	require.NoError(t, err)
	defer s.close()
	s.ctrl.SetOpened(true)

	model, err := state.NewModel(s.ctx, client, client, state.WithLocation(s.history))
	require.NoError(t, err)
	defer model.Close()

	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
	)
	s.history.OnPush(pushNotices(program))

	done := make(chan error, 1)
	go func() {
		_, err := program.Run()
		done <- err
	}()

	require.Eventually(t, func() bool {
		program.Send(tea.KeyMsg{Type: tea.KeyEnter})
		return s.history.Len() > 0
	}, 3*time.Second, 20*time.Millisecond)
	assert.Equal(t, "https://app.example.com/settings", s.history.Href())

	go program.Quit()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("tui did not exit after following a relative link")
	}
}
