package inbox

import (
	"fmt"
	"sync"

	"github.com/cristianoliveira/inboxkit/internal/logging"
)

// Snapshot is an immutable view of the controller state.
type Snapshot struct {
	IsOpened  bool
	Tabs      []Tab
	ActiveTab string
	Status    Status
	Limit     int
	Filter    Filter
}

// Listener receives a snapshot after every effective state change.
type Listener func(Snapshot)

// state holds the primary fields; filter is always derived from it.
type state struct {
	isOpened  bool
	tabs      []Tab
	activeTab string
	status    Status
	limit     int
}

// Controller owns the inbox filter state for one mounted widget.
type Controller struct {
	mu        sync.RWMutex
	st        state
	filter    Filter
	listeners []*subscription
	closed    bool
	nav       navigator
	logger    logging.Logger
}

type subscription struct {
	fn Listener
}

// Option configures a Controller.
type Option func(*Controller)

// WithRouterPush injects the host application's router-integrated push function.
func WithRouterPush(push RouterPush) Option {
	return func(c *Controller) {
		c.nav.routerPush = push
	}
}

// WithOpener sets the capability used to open external URLs.
func WithOpener(opener Opener) Option {
	return func(c *Controller) {
		c.nav.opener = opener
	}
}

// WithHistory sets the history stack used for relative URLs when no router is injected.
func WithHistory(history History) Option {
	return func(c *Controller) {
		c.nav.history = history
	}
}

// WithLocation sets the accessor for the current document location.
func WithLocation(location Location) Option {
	return func(c *Controller) {
		c.nav.location = location
	}
}

// WithDefaultTarget overrides the browsing context used when Navigate gets no target.
func WithDefaultTarget(target string) Option {
	return func(c *Controller) {
		if target != "" {
			c.nav.defaultTarget = target
		}
	}
}

// WithLimit sets the initial page size.
func WithLimit(limit int) Option {
	return func(c *Controller) {
		c.st.limit = clampLimit(limit)
	}
}

// WithStatus sets the initial status. Invalid values are rejected by NewController.
func WithStatus(status Status) Option {
	return func(c *Controller) {
		c.st.status = status
	}
}

// WithLogger sets the logger used for navigation failures.
func WithLogger(logger logging.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewController creates a controller for the given tab set.
// Navigation capabilities are validated here rather than on first use.
func NewController(tabs []Tab, opts ...Option) (*Controller, error) {
	c := &Controller{
		st: state{
			tabs:   cloneTabs(tabs),
			status: StatusUnreadRead,
			limit:  DefaultLimit,
		},
		nav: navigator{
			defaultTarget: DefaultTarget,
		},
		logger: logging.GetGlobal(),
	}
	c.st.activeTab = firstLabel(c.st.tabs)
	for _, opt := range opts {
		opt(c)
	}
	if !c.st.status.IsValid() {
		return nil, fmt.Errorf("new controller: %w: %q", ErrInvalidStatus, c.st.status)
	}
	if err := c.nav.validate(); err != nil {
		return nil, fmt.Errorf("new controller: %w", err)
	}
	c.nav.logger = c.logger.With("component", "inbox")
	c.filter = DeriveFilter(c.st.status, c.st.activeTab, c.st.tabs)
	return c, nil
}

func clampLimit(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// mustBeLive panics when the controller has been unmounted.
// Caller must hold c.mu.
func (c *Controller) mustBeLive() {
	if c.closed {
		panic(ErrNoProvider)
	}
}

func (c *Controller) ensureLive() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	c.mustBeLive()
}

// IsOpened reports whether the inbox popover is open.
func (c *Controller) IsOpened() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	c.mustBeLive()
	return c.st.isOpened
}

// Status returns the selected status.
func (c *Controller) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	c.mustBeLive()
	return c.st.status
}

// Filter returns a copy of the derived filter.
func (c *Controller) Filter() Filter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	c.mustBeLive()
	return c.filter.Clone()
}

// Tabs returns a copy of the current tab set.
func (c *Controller) Tabs() []Tab {
	c.mu.RLock()
	defer c.mu.RUnlock()
	c.mustBeLive()
	return cloneTabs(c.st.tabs)
}

// ActiveTab returns the label of the active tab.
func (c *Controller) ActiveTab() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	c.mustBeLive()
	return c.st.activeTab
}

// Limit returns the page size hint.
func (c *Controller) Limit() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	c.mustBeLive()
	return c.st.limit
}

// Snapshot returns the complete current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	c.mustBeLive()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		IsOpened:  c.st.isOpened,
		Tabs:      cloneTabs(c.st.tabs),
		ActiveTab: c.st.activeTab,
		Status:    c.st.status,
		Limit:     c.st.limit,
		Filter:    c.filter.Clone(),
	}
}

// SetOpened sets the open/closed flag.
func (c *Controller) SetOpened(opened bool) {
	c.update(func(st *state) bool {
		st.isOpened = opened
		return true
	})
}

// SetStatus selects a status. The current tag selection is kept.
func (c *Controller) SetStatus(status Status) error {
	if !status.IsValid() {
		c.ensureLive()
		return fmt.Errorf("set status: %w: %q", ErrInvalidStatus, status)
	}
	c.update(func(st *state) bool {
		st.status = status
		return true
	})
	return nil
}

// SetActiveTab activates the tab with the given label.
// Unknown labels are ignored.
func (c *Controller) SetActiveTab(label string) {
	c.update(func(st *state) bool {
		if _, ok := findTab(label, st.tabs); !ok {
			return false
		}
		st.activeTab = label
		return true
	})
}

// SetLimit sets the page size hint, clamped to at least 1.
func (c *Controller) SetLimit(limit int) {
	c.update(func(st *state) bool {
		st.limit = clampLimit(limit)
		return true
	})
}

// SetTabs replaces the tab set and resets the active tab to the first tab.
func (c *Controller) SetTabs(tabs []Tab) {
	next := cloneTabs(tabs)
	c.update(func(st *state) bool {
		st.tabs = next
		st.activeTab = firstLabel(next)
		return true
	})
}

// Subscribe registers a listener called synchronously after each state change.
// The returned function removes the listener.
func (c *Controller) Subscribe(fn Listener) func() {
	sub := &subscription{fn: fn}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		panic(ErrNoProvider)
	}
	c.listeners = append(c.listeners, sub)
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.listeners {
			if s == sub {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// update applies mutate and re-derives the filter under one lock, then
// notifies listeners with the resulting snapshot.
func (c *Controller) update(mutate func(*state) bool) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		panic(ErrNoProvider)
	}
	next := c.st
	if !mutate(&next) {
		c.mu.Unlock()
		return
	}
	c.st = next
	c.filter = DeriveFilter(c.st.status, c.st.activeTab, c.st.tabs)
	snap := c.snapshotLocked()
	listeners := make([]*subscription, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	for _, sub := range listeners {
		sub.fn(snap)
	}
}

// Navigate resolves url according to the navigation policy.
// External URLs open in a new browsing context, relative URLs go to the
// injected router or, without one, onto the history stack.
func (c *Controller) Navigate(url, target string) {
	c.ensureLive()
	c.mu.RLock()
	nav := c.nav
	c.mu.RUnlock()
	nav.navigate(url, target)
}

// close discards the state and listeners.
func (c *Controller) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.listeners = nil
	c.st = state{}
	c.filter = Filter{}
}

// live reports whether the controller is still mounted.
func (c *Controller) live() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed
}
