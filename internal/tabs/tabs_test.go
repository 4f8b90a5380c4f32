package tabs

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cristianoliveira/inboxkit/internal/inbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTabs = `
[[tabs]]
label = "All"

[[tabs]]
label = " Security "
value = ["security", "auth"]

[[tabs]]
label = "Billing"
value = ["billing"]
`

func TestParse(t *testing.T) {
	tabs, err := Parse([]byte(sampleTabs))
	require.NoError(t, err)
	require.Equal(t, []inbox.Tab{
		{Label: "All", Value: []string{}},
		{Label: "Security", Value: []string{"security", "auth"}},
		{Label: "Billing", Value: []string{"billing"}},
	}, tabs)

	tabs, err = Parse(nil)
	require.NoError(t, err)
	require.Equal(t, []inbox.Tab{}, tabs)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"empty label", "[[tabs]]\nlabel = \"  \"\n", ErrEmptyLabel},
		{"duplicate label", "[[tabs]]\nlabel = \"A\"\n[[tabs]]\nlabel = \"A\"\n", ErrDuplicateLabel},
		{"empty tag", "[[tabs]]\nlabel = \"A\"\nvalue = [\"\"]\n", ErrEmptyTag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Parse([]byte("[[tabs]\n"))
	require.Error(t, err)
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	tabs, err := Load(filepath.Join(t.TempDir(), "tabs.toml"))
	require.NoError(t, err)
	require.Equal(t, Default(), tabs)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tabs.toml")
	want := []inbox.Tab{
		{Label: "All", Value: []string{}},
		{Label: "Security", Value: []string{"security"}},
	}
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, want, got)

	require.ErrorIs(t, Save(path, []inbox.Tab{{Label: ""}}), ErrEmptyLabel)
}

func TestResolve(t *testing.T) {
	tabs, err := Parse([]byte(sampleTabs))
	require.NoError(t, err)

	tab, err := Resolve("security", tabs)
	require.NoError(t, err)
	require.Equal(t, "Security", tab.Label)

	_, err = Resolve("Biling", tabs)
	require.ErrorIs(t, err, ErrUnknownTab)
	require.Contains(t, err.Error(), `did you mean "Billing"`)

	_, err = Resolve("marketing", tabs)
	require.ErrorIs(t, err, ErrUnknownTab)
	require.NotContains(t, err.Error(), "did you mean")
}

func TestSuggest(t *testing.T) {
	tabs := []inbox.Tab{{Label: "Security"}, {Label: "Billing"}, {Label: "All"}}

	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"secuirty", "Security", true},
		{"BILLNG", "Billing", true},
		{"al", "All", true},
		{"newsletter", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := Suggest(tt.input, tabs)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := Suggest("x", nil)
	require.False(t, ok)
}

type recordingSink struct {
	mu    sync.Mutex
	calls [][]inbox.Tab
}

func (r *recordingSink) set(tabs []inbox.Tab) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, tabs)
}

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func TestWatcherPoll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabs.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleTabs), FileModeFile))

	sink := &recordingSink{}
	w := NewWatcher(path, time.Second, sink.set)

	require.False(t, w.Poll(), "baseline content must not be forwarded")

	require.NoError(t, os.WriteFile(path, []byte("[[tabs]]\nlabel = \"Only\"\n"), FileModeFile))
	require.True(t, w.Poll())
	require.False(t, w.Poll(), "unchanged content is forwarded once")
	require.Equal(t, []inbox.Tab{{Label: "Only", Value: []string{}}}, sink.calls[0])

	require.NoError(t, os.WriteFile(path, []byte("[[tabs]]\nlabel = \"\"\n"), FileModeFile))
	require.False(t, w.Poll(), "invalid content is skipped")

	require.NoError(t, os.Remove(path))
	require.True(t, w.Poll())
	require.Equal(t, Default(), sink.calls[1])
	require.False(t, w.Poll())

	require.NoError(t, os.WriteFile(path, []byte(sampleTabs), FileModeFile))
	require.True(t, w.Poll())
	require.Equal(t, 3, sink.count())
}

func TestWatcherDrivesController(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabs.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleTabs), FileModeFile))
	initial, err := Load(path)
	require.NoError(t, err)

	ctrl, err := inbox.NewController(initial, inbox.WithRouterPush(func(string) {}), inbox.WithOpener(noopOpener{}))
	require.NoError(t, err)
	ctrl.SetActiveTab("Billing")

	ctx, cancel := context.WithCancel(context.Background())
	w := NewWatcher(path, 10*time.Millisecond, ctrl.SetTabs)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(path, []byte("[[tabs]]\nlabel = \"Ops\"\nvalue = [\"ops\"]\n"), FileModeFile))
	require.Eventually(t, func() bool {
		return len(ctrl.Tabs()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	require.Equal(t, "Ops", ctrl.ActiveTab())
	require.Equal(t, []string{"ops"}, ctrl.Filter().Tags)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}
}

type noopOpener struct{}

func (noopOpener) Open(string, string, string) error { return nil }
