// Package inbox provides the filter state controller behind the inbox widget.
// It owns the open/closed flag, the active tab, the notification status and the
// page size, and derives the notification filter sent to the feed layer.
package inbox

import (
	"errors"
	"fmt"
)

// DefaultLimit is the page size used until a consumer calls SetLimit.
const DefaultLimit = 10

var (
	// ErrInvalidStatus indicates a status outside the supported set.
	ErrInvalidStatus = errors.New("invalid notification status")
	// ErrNoProvider indicates controller state was used outside of a mounted provider.
	ErrNoProvider = errors.New("inbox: controller used outside of an inbox provider")
)

// Tab is a named group of tags used to scope the feed query.
type Tab struct {
	Label string   `json:"label" toml:"label"`
	Value []string `json:"value" toml:"value"`
}

// Status is the coarse read/archive view selected by the user.
type Status string

const (
	// StatusUnreadRead shows every notification that is not archived.
	StatusUnreadRead Status = "unreadRead"
	// StatusUnread shows unread notifications only.
	StatusUnread Status = "unread"
	// StatusArchived shows archived notifications only.
	StatusArchived Status = "archived"
)

// IsValid reports whether the status is one of the supported values.
func (s Status) IsValid() bool {
	switch s {
	case StatusUnreadRead, StatusUnread, StatusArchived:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ParseStatus converts user input into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// Statuses returns the supported statuses in display order.
func Statuses() []Status {
	return []Status{StatusUnreadRead, StatusUnread, StatusArchived}
}

// Filter is the query predicate handed to the feed layer.
// A nil Archived or Read means the field does not constrain the query.
type Filter struct {
	Archived *bool    `json:"archived,omitempty"`
	Read     *bool    `json:"read,omitempty"`
	Tags     []string `json:"tags"`
}

// statusPredicate holds the fixed archived/read projection of a status.
type statusPredicate struct {
	archived *bool
	read     *bool
}

func boolPtr(v bool) *bool { return &v }

var statusToFilter = map[Status]statusPredicate{
	StatusUnreadRead: {archived: boolPtr(false)},
	StatusUnread:     {read: boolPtr(false)},
	StatusArchived:   {archived: boolPtr(true)},
}

// DeriveFilter computes the filter for a status and active tab.
// Tags come from the tab labelled activeTab, falling back to the first tab,
// and are never nil.
func DeriveFilter(status Status, activeTab string, tabs []Tab) Filter {
	pred := statusToFilter[status]
	f := Filter{Tags: tagsFor(activeTab, tabs)}
	if pred.archived != nil {
		f.Archived = boolPtr(*pred.archived)
	}
	if pred.read != nil {
		f.Read = boolPtr(*pred.read)
	}
	return f
}

func tagsFor(label string, tabs []Tab) []string {
	if tab, ok := findTab(label, tabs); ok {
		return cloneStrings(tab.Value)
	}
	if len(tabs) > 0 {
		return cloneStrings(tabs[0].Value)
	}
	return []string{}
}

func findTab(label string, tabs []Tab) (Tab, bool) {
	for _, tab := range tabs {
		if tab.Label == label {
			return tab, true
		}
	}
	return Tab{}, false
}

func firstLabel(tabs []Tab) string {
	if len(tabs) == 0 {
		return ""
	}
	return tabs[0].Label
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneTabs(in []Tab) []Tab {
	out := make([]Tab, len(in))
	for i, tab := range in {
		out[i] = Tab{Label: tab.Label, Value: cloneStrings(tab.Value)}
	}
	return out
}

// Clone returns a deep copy of the filter.
func (f Filter) Clone() Filter {
	out := Filter{Tags: cloneStrings(f.Tags)}
	if f.Archived != nil {
		out.Archived = boolPtr(*f.Archived)
	}
	if f.Read != nil {
		out.Read = boolPtr(*f.Read)
	}
	return out
}
