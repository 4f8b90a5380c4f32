package browser

import (
	"fmt"
	"net/url"
	"sync"
)

// Entry is one pushed history state.
type Entry struct {
	State any
	Title string
	URL   *url.URL
}

// History is an in-memory history stack. Href reports the URL of the most
// recent entry, or the base URL when nothing has been pushed.
type History struct {
	mu      sync.RWMutex
	base    string
	entries []Entry
	onPush  func(Entry)
}

// NewHistory creates a history rooted at base.
func NewHistory(base string) (*History, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", base, err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("invalid base url %q: must be absolute", base)
	}
	return &History{base: u.String()}, nil
}

// OnPush registers a callback invoked after every PushState.
func (h *History) OnPush(fn func(Entry)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onPush = fn
}

// PushState appends an entry without any navigation side effects.
func (h *History) PushState(state any, title string, u *url.URL) error {
	if u == nil {
		return fmt.Errorf("history: nil url")
	}
	copied := *u
	entry := Entry{State: state, Title: title, URL: &copied}

	h.mu.Lock()
	h.entries = append(h.entries, entry)
	onPush := h.onPush
	h.mu.Unlock()

	if onPush != nil {
		onPush(entry)
	}
	return nil
}

// Href returns the current document location.
func (h *History) Href() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if n := len(h.entries); n > 0 {
		return h.entries[n-1].URL.String()
	}
	return h.base
}

// Entries returns a copy of the pushed entries, oldest first.
func (h *History) Entries() []Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]Entry(nil), h.entries...)
}

// Len returns the number of pushed entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// StaticLocation is a location that never changes.
type StaticLocation string

// Href returns the location.
func (l StaticLocation) Href() string {
	return string(l)
}
