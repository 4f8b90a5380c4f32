package inbox

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type openCall struct {
	url      string
	target   string
	features string
}

type fakeOpener struct {
	calls []openCall
	err   error
}

func (f *fakeOpener) Open(u, target, features string) error {
	f.calls = append(f.calls, openCall{url: u, target: target, features: features})
	return f.err
}

type fakeHistory struct {
	pushed []string
}

func (f *fakeHistory) PushState(_ any, _ string, u *url.URL) error {
	f.pushed = append(f.pushed, u.String())
	return nil
}

type staticLocation string

func (l staticLocation) Href() string { return string(l) }

var testTabs = []Tab{
	{Label: "All", Value: []string{}},
	{Label: "Security", Value: []string{"security", "auth"}},
	{Label: "Billing", Value: []string{"billing"}},
}

func newTestController(t *testing.T, tabs []Tab, opts ...Option) (*Controller, *fakeOpener, *fakeHistory) {
	t.Helper()
	opener := &fakeOpener{}
	history := &fakeHistory{}
	base := []Option{
		WithOpener(opener),
		WithHistory(history),
		WithLocation(staticLocation("https://app.example.com/inbox/feed")),
	}
	c, err := NewController(tabs, append(base, opts...)...)
	require.NoError(t, err)
	return c, opener, history
}

func TestNewControllerDefaults(t *testing.T) {
	c, _, _ := newTestController(t, testTabs)

	require.False(t, c.IsOpened())
	require.Equal(t, StatusUnreadRead, c.Status())
	require.Equal(t, DefaultLimit, c.Limit())
	require.Equal(t, "All", c.ActiveTab())
	require.Equal(t, testTabs, c.Tabs())

	f := c.Filter()
	require.NotNil(t, f.Archived)
	require.False(t, *f.Archived)
	require.Nil(t, f.Read)
	require.Equal(t, []string{}, f.Tags)
}

func TestNewControllerWithoutTabs(t *testing.T) {
	c, _, _ := newTestController(t, nil)

	require.Equal(t, "", c.ActiveTab())
	require.NotNil(t, c.Filter().Tags)
	require.Empty(t, c.Filter().Tags)
}

func TestNewControllerValidatesCapabilities(t *testing.T) {
	_, err := NewController(testTabs)
	require.ErrorIs(t, err, ErrMissingCapability)

	_, err = NewController(testTabs, WithOpener(&fakeOpener{}))
	require.ErrorIs(t, err, ErrMissingCapability)

	_, err = NewController(testTabs, WithOpener(&fakeOpener{}), WithHistory(&fakeHistory{}))
	require.ErrorIs(t, err, ErrMissingCapability)

	// A router makes history and location optional.
	_, err = NewController(testTabs, WithOpener(&fakeOpener{}), WithRouterPush(func(string) {}))
	require.NoError(t, err)
}

func TestNewControllerRejectsInvalidStatus(t *testing.T) {
	_, err := NewController(testTabs, WithOpener(&fakeOpener{}), WithRouterPush(func(string) {}), WithStatus("bogus"))
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestStatusMappingTable(t *testing.T) {
	c, _, _ := newTestController(t, testTabs)

	require.NoError(t, c.SetStatus(StatusUnreadRead))
	f := c.Filter()
	require.NotNil(t, f.Archived)
	require.False(t, *f.Archived)
	require.Nil(t, f.Read)

	require.NoError(t, c.SetStatus(StatusUnread))
	f = c.Filter()
	require.NotNil(t, f.Read)
	require.False(t, *f.Read)
	require.Nil(t, f.Archived)

	require.NoError(t, c.SetStatus(StatusArchived))
	f = c.Filter()
	require.NotNil(t, f.Archived)
	require.True(t, *f.Archived)
	require.Nil(t, f.Read)
}

func TestSetStatusKeepsTags(t *testing.T) {
	c, _, _ := newTestController(t, testTabs)
	c.SetActiveTab("Security")

	for _, from := range Statuses() {
		for _, to := range Statuses() {
			require.NoError(t, c.SetStatus(from))
			before := c.Filter().Tags
			require.NoError(t, c.SetStatus(to))
			require.Equal(t, before, c.Filter().Tags, "%s -> %s", from, to)
		}
	}
}

func TestSetStatusRejectsUnknownValue(t *testing.T) {
	c, _, _ := newTestController(t, testTabs)
	before := c.Snapshot()

	err := c.SetStatus(Status("deleted"))
	require.ErrorIs(t, err, ErrInvalidStatus)
	require.Equal(t, before, c.Snapshot())
}

func TestSetActiveTab(t *testing.T) {
	for _, tab := range testTabs {
		t.Run(tab.Label, func(t *testing.T) {
			c, _, _ := newTestController(t, testTabs)
			require.NoError(t, c.SetStatus(StatusUnread))

			c.SetActiveTab(tab.Label)

			require.Equal(t, tab.Label, c.ActiveTab())
			require.Equal(t, tab.Value, c.Filter().Tags)
			require.NotNil(t, c.Filter().Read)
			require.Nil(t, c.Filter().Archived)
		})
	}
}

func TestSetActiveTabUnknownLabelIsNoop(t *testing.T) {
	c, _, _ := newTestController(t, testTabs)
	c.SetActiveTab("Billing")
	before := c.Snapshot()

	notified := 0
	c.Subscribe(func(Snapshot) { notified++ })
	c.SetActiveTab("Marketing")

	require.Equal(t, before, c.Snapshot())
	require.Zero(t, notified)
}

func TestSetTabsResetsActiveTab(t *testing.T) {
	tests := []struct {
		name     string
		next     []Tab
		wantTab  string
		wantTags []string
	}{
		{
			name:     "new tabs",
			next:     []Tab{{Label: "Mentions", Value: []string{"mention"}}, {Label: "Other", Value: []string{"x"}}},
			wantTab:  "Mentions",
			wantTags: []string{"mention"},
		},
		{
			name:     "same labels",
			next:     testTabs,
			wantTab:  "All",
			wantTags: []string{},
		},
		{
			name:     "empty",
			next:     nil,
			wantTab:  "",
			wantTags: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newTestController(t, testTabs)
			c.SetActiveTab("Billing")
			require.NoError(t, c.SetStatus(StatusArchived))

			c.SetTabs(tt.next)

			require.Equal(t, tt.wantTab, c.ActiveTab())
			require.Equal(t, tt.wantTags, c.Filter().Tags)
			require.Equal(t, StatusArchived, c.Status())
			require.True(t, *c.Filter().Archived)
		})
	}
}

func TestSetTabsCopiesInput(t *testing.T) {
	c, _, _ := newTestController(t, testTabs)
	tabs := []Tab{{Label: "Mine", Value: []string{"a"}}}

	c.SetTabs(tabs)
	tabs[0].Value[0] = "mutated"

	require.Equal(t, []string{"a"}, c.Filter().Tags)
}

func TestSetLimitClampsToOne(t *testing.T) {
	c, _, _ := newTestController(t, testTabs)

	c.SetLimit(25)
	require.Equal(t, 25, c.Limit())

	c.SetLimit(0)
	require.Equal(t, 1, c.Limit())

	c.SetLimit(-4)
	require.Equal(t, 1, c.Limit())
}

func TestSetOpened(t *testing.T) {
	c, _, _ := newTestController(t, testTabs)

	c.SetOpened(true)
	require.True(t, c.IsOpened())
	c.SetOpened(false)
	require.False(t, c.IsOpened())
}

func TestSubscribeReceivesConsistentSnapshots(t *testing.T) {
	c, _, _ := newTestController(t, testTabs)

	var got []Snapshot
	unsubscribe := c.Subscribe(func(s Snapshot) {
		got = append(got, s)
		// The derived filter always matches the primary fields.
		require.Equal(t, DeriveFilter(s.Status, s.ActiveTab, s.Tabs), s.Filter)
	})

	c.SetActiveTab("Security")
	require.NoError(t, c.SetStatus(StatusUnread))
	c.SetTabs([]Tab{{Label: "New", Value: []string{"n"}}})
	c.SetLimit(3)
	c.SetOpened(true)

	require.Len(t, got, 5)
	require.Equal(t, "Security", got[0].ActiveTab)
	require.Equal(t, StatusUnread, got[1].Status)
	require.Equal(t, []string{"security", "auth"}, got[1].Filter.Tags)
	require.Equal(t, "New", got[2].ActiveTab)
	require.Equal(t, 3, got[3].Limit)
	require.True(t, got[4].IsOpened)

	unsubscribe()
	c.SetOpened(false)
	require.Len(t, got, 5)
}

func TestSubscribeAllowsReentrantReads(t *testing.T) {
	c, _, _ := newTestController(t, testTabs)

	var seen string
	c.Subscribe(func(Snapshot) {
		seen = c.ActiveTab()
	})
	c.SetActiveTab("Billing")

	require.Equal(t, "Billing", seen)
}

func TestConcurrentMutationsKeepFilterDerived(t *testing.T) {
	c, _, _ := newTestController(t, testTabs)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c.SetActiveTab(testTabs[(i+j)%len(testTabs)].Label)
				_ = c.SetStatus(Statuses()[(i+j)%3])
				s := c.Snapshot()
				if !equalFilter(DeriveFilter(s.Status, s.ActiveTab, s.Tabs), s.Filter) {
					t.Errorf("torn snapshot: %+v", s)
				}
			}
		}(i)
	}
	wg.Wait()
}

func equalFilter(a, b Filter) bool {
	if (a.Archived == nil) != (b.Archived == nil) || (a.Read == nil) != (b.Read == nil) {
		return false
	}
	if a.Archived != nil && *a.Archived != *b.Archived {
		return false
	}
	if a.Read != nil && *a.Read != *b.Read {
		return false
	}
	if len(a.Tags) != len(b.Tags) {
		return false
	}
	for i := range a.Tags {
		if a.Tags[i] != b.Tags[i] {
			return false
		}
	}
	return true
}

func TestNavigateExternalURL(t *testing.T) {
	routed := 0
	c, opener, history := newTestController(t, testTabs, WithRouterPush(func(string) { routed++ }))

	c.Navigate("https://example.com", "_blank")

	require.Equal(t, []openCall{{url: "https://example.com", target: "_blank", features: DefaultReferrer}}, opener.calls)
	require.Empty(t, history.pushed)
	require.Zero(t, routed)
}

func TestNavigateExternalURLDefaultTarget(t *testing.T) {
	c, opener, _ := newTestController(t, testTabs)
	c.Navigate("mailto:team@example.com", "")
	require.Equal(t, DefaultTarget, opener.calls[0].target)

	c2, opener2, _ := newTestController(t, testTabs, WithDefaultTarget("_self"))
	c2.Navigate("https://example.com/a", "")
	require.Equal(t, "_self", opener2.calls[0].target)
}

func TestNavigateExternalOpenFailureIsSwallowed(t *testing.T) {
	c, opener, _ := newTestController(t, testTabs)
	opener.err = errors.New("no browser")

	require.NotPanics(t, func() { c.Navigate("https://example.com", "") })
	require.Len(t, opener.calls, 1)
}

func TestNavigateRelativeWithRouter(t *testing.T) {
	var routed []string
	c, opener, history := newTestController(t, testTabs, WithRouterPush(func(u string) { routed = append(routed, u) }))

	c.Navigate("/settings", "")

	require.Equal(t, []string{"/settings"}, routed)
	require.Empty(t, history.pushed)
	require.Empty(t, opener.calls)
}

func TestNavigateRelativeWithoutRouter(t *testing.T) {
	c, opener, history := newTestController(t, testTabs)

	c.Navigate("/settings?tab=2", "")

	require.Equal(t, []string{"https://app.example.com/settings?tab=2"}, history.pushed)
	require.Empty(t, opener.calls)
}

func TestNavigateEmptyURLIsNoop(t *testing.T) {
	routed := 0
	c, opener, history := newTestController(t, testTabs, WithRouterPush(func(string) { routed++ }))

	c.Navigate("", "")
	c.Navigate("", "_blank")

	require.Empty(t, opener.calls)
	require.Empty(t, history.pushed)
	require.Zero(t, routed)
}

func TestIsExternal(t *testing.T) {
	require.True(t, IsExternal("https://example.com"))
	require.True(t, IsExternal("example.com/path"))
	require.False(t, IsExternal("/path"))
	require.False(t, IsExternal("//cdn.example.com"))
	require.False(t, IsExternal(""))
}

func TestUseOutsideProvider(t *testing.T) {
	_, err := Use(context.Background())
	require.ErrorIs(t, err, ErrNoProvider)
	require.EqualError(t, err, "inbox: controller used outside of an inbox provider")

	require.PanicsWithError(t, ErrNoProvider.Error(), func() {
		MustUse(context.Background())
	})
}

func TestProviderMountAndUnmount(t *testing.T) {
	p := NewProvider()
	_, err := p.Controller()
	require.ErrorIs(t, err, ErrNoProvider)

	ctx, ctrl, err := p.Mount(context.Background(), testTabs,
		WithOpener(&fakeOpener{}), WithRouterPush(func(string) {}))
	require.NoError(t, err)

	got, err := Use(ctx)
	require.NoError(t, err)
	require.Same(t, ctrl, got)

	p.Unmount()

	_, err = Use(ctx)
	require.ErrorIs(t, err, ErrNoProvider)
	_, err = p.Controller()
	require.ErrorIs(t, err, ErrNoProvider)

	require.PanicsWithError(t, ErrNoProvider.Error(), func() { ctrl.ActiveTab() })
	require.PanicsWithError(t, ErrNoProvider.Error(), func() { ctrl.SetOpened(true) })
	require.PanicsWithError(t, ErrNoProvider.Error(), func() { _ = ctrl.SetStatus("bogus") })
	require.PanicsWithError(t, ErrNoProvider.Error(), func() { ctrl.Navigate("/x", "") })
	require.PanicsWithError(t, ErrNoProvider.Error(), func() { ctrl.Subscribe(func(Snapshot) {}) })
}

func TestProviderRemountClosesPreviousController(t *testing.T) {
	p := NewProvider()
	opts := []Option{WithOpener(&fakeOpener{}), WithRouterPush(func(string) {})}

	ctx1, first, err := p.Mount(context.Background(), testTabs, opts...)
	require.NoError(t, err)
	ctx2, second, err := p.Mount(context.Background(), testTabs, opts...)
	require.NoError(t, err)

	_, err = Use(ctx1)
	require.ErrorIs(t, err, ErrNoProvider)
	got, err := Use(ctx2)
	require.NoError(t, err)
	require.Same(t, second, got)
	require.NotSame(t, first, second)
}

func TestProviderMountPropagatesValidationError(t *testing.T) {
	p := NewProvider()
	_, ctrl, err := p.Mount(context.Background(), testTabs)
	require.ErrorIs(t, err, ErrMissingCapability)
	require.Nil(t, ctrl)
}
