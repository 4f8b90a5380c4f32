// Package activity maps the activity log filters to and from URL query values.
//
// The query is the single source of truth: filters are parsed from it on every
// read and written back as a whole on every change, so a copied link restores
// the same view.
package activity

import (
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/cristianoliveira/inboxkit/internal/domain"
)

// Query keys.
const (
	KeyChannels       = "channels"
	KeyTemplates      = "templates"
	KeyTransactionID  = "transactionId"
	KeySubscriberID   = "subscriberId"
	KeyDateRange      = "dateRange"
	KeyActivityItemID = "activityItemId"
)

// Date ranges.
const (
	Range24h = "24h"
	Range7d  = "7d"
	Range30d = "30d"

	// DefaultDateRange is implied when the query has no dateRange and is never written.
	DefaultDateRange = Range30d
)

var filterKeys = []string{KeyChannels, KeyTemplates, KeyTransactionID, KeySubscriberID, KeyDateRange}

// Filters is the query sent to the activity feed.
type Filters struct {
	Channels      []domain.ChannelType `json:"channels,omitempty"`
	Templates     []string             `json:"templates,omitempty"`
	TransactionID string               `json:"transactionId,omitempty"`
	SubscriberID  string               `json:"subscriberId,omitempty"`

	// EndDate is the oldest creation time included.
	EndDate time.Time `json:"endDate"`
}

// FilterValues is the state of the filter form.
type FilterValues struct {
	DateRange     string               `json:"dateRange"`
	Channels      []domain.ChannelType `json:"channels"`
	Templates     []string             `json:"templates"`
	TransactionID string               `json:"transactionId"`
	SubscriberID  string               `json:"subscriberId"`
}

// DateRangeDays returns the number of days covered by a date range.
// Unknown ranges count as the default.
func DateRangeDays(r string) int {
	switch r {
	case Range24h:
		return 1
	case Range7d:
		return 7
	default:
		return 30
	}
}

// ParseFilters builds feed filters from q. EndDate is now minus the selected range.
func ParseFilters(q url.Values, now time.Time) Filters {
	f := Filters{
		Channels:      channels(q),
		Templates:     splitList(q.Get(KeyTemplates)),
		TransactionID: q.Get(KeyTransactionID),
		SubscriberID:  q.Get(KeySubscriberID),
	}
	dateRange := q.Get(KeyDateRange)
	if dateRange == "" {
		dateRange = DefaultDateRange
	}
	f.EndDate = now.UTC().Add(-time.Duration(DateRangeDays(dateRange)) * 24 * time.Hour)
	return f
}

// ParseFilterValues reads the filter form state from q. Lists are never nil.
func ParseFilterValues(q url.Values) FilterValues {
	v := FilterValues{
		DateRange:     q.Get(KeyDateRange),
		Channels:      channels(q),
		Templates:     splitList(q.Get(KeyTemplates)),
		TransactionID: q.Get(KeyTransactionID),
		SubscriberID:  q.Get(KeySubscriberID),
	}
	if v.DateRange == "" {
		v.DateRange = DefaultDateRange
	}
	if v.Channels == nil {
		v.Channels = []domain.ChannelType{}
	}
	if v.Templates == nil {
		v.Templates = []string{}
	}
	return v
}

// ApplyFilterValues returns a copy of q with every filter key replaced by v.
// Empty values and the default date range are omitted; other keys are kept.
func ApplyFilterValues(q url.Values, v FilterValues) url.Values {
	out := clone(q)
	for _, key := range filterKeys {
		out.Del(key)
	}
	if len(v.Channels) > 0 {
		names := make([]string, len(v.Channels))
		for i, c := range v.Channels {
			names[i] = string(c)
		}
		out.Set(KeyChannels, strings.Join(names, ","))
	}
	if len(v.Templates) > 0 {
		out.Set(KeyTemplates, strings.Join(v.Templates, ","))
	}
	if v.TransactionID != "" {
		out.Set(KeyTransactionID, v.TransactionID)
	}
	if v.SubscriberID != "" {
		out.Set(KeySubscriberID, v.SubscriberID)
	}
	if v.DateRange != "" && v.DateRange != DefaultDateRange {
		out.Set(KeyDateRange, v.DateRange)
	}
	return out
}

// ActivityItemID returns the selected activity, if any.
func ActivityItemID(q url.Values) (string, bool) {
	id := q.Get(KeyActivityItemID)
	return id, id != ""
}

// ToggleActivity returns a copy of q with id selected, or deselected when it
// already is.
func ToggleActivity(q url.Values, id string) url.Values {
	out := clone(q)
	if current, ok := ActivityItemID(q); ok && current == id {
		out.Del(KeyActivityItemID)
	} else {
		out.Set(KeyActivityItemID, id)
	}
	return out
}

// Matches reports whether n falls inside the filters.
func (f Filters) Matches(n domain.Notification) bool {
	if n.Deleted {
		return false
	}
	if len(f.Channels) > 0 && !slices.Contains(f.Channels, n.Channel) {
		return false
	}
	if len(f.Templates) > 0 {
		if n.TemplateIdentifier == nil || !slices.Contains(f.Templates, *n.TemplateIdentifier) {
			return false
		}
	}
	if f.TransactionID != "" && n.TransactionID != f.TransactionID {
		return false
	}
	if f.SubscriberID != "" && n.SubscriberID != f.SubscriberID {
		return false
	}
	if !f.EndDate.IsZero() && n.CreatedAt != nil && n.CreatedAt.Before(f.EndDate) {
		return false
	}
	return true
}

func channels(q url.Values) []domain.ChannelType {
	raw := splitList(q.Get(KeyChannels))
	if raw == nil {
		return nil
	}
	out := make([]domain.ChannelType, len(raw))
	for i, c := range raw {
		out[i] = domain.ChannelType(c)
	}
	return out
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func clone(q url.Values) url.Values {
	out := make(url.Values, len(q))
	for k, v := range q {
		out[k] = append([]string(nil), v...)
	}
	return out
}
