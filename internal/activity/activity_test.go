package activity

import (
	"net/url"
	"testing"
	"time"

	"github.com/cristianoliveira/inboxkit/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 31, 12, 0, 0, 0, time.UTC)

func mustQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	q, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return q
}

func TestParseFilters(t *testing.T) {
	q := mustQuery(t, "channels=email,,sms&templates=welcome&transactionId=tx&subscriberId=sub&dateRange=7d")

	f := ParseFilters(q, now)
	require.Equal(t, []domain.ChannelType{domain.ChannelEmail, domain.ChannelSMS}, f.Channels)
	require.Equal(t, []string{"welcome"}, f.Templates)
	require.Equal(t, "tx", f.TransactionID)
	require.Equal(t, "sub", f.SubscriberID)
	require.Equal(t, now.Add(-7*24*time.Hour), f.EndDate)
}

func TestParseFiltersDefaults(t *testing.T) {
	f := ParseFilters(url.Values{}, now)
	require.Nil(t, f.Channels)
	require.Nil(t, f.Templates)
	require.Empty(t, f.TransactionID)
	require.Equal(t, now.Add(-30*24*time.Hour), f.EndDate)

	f = ParseFilters(mustQuery(t, "dateRange=90d&channels=,"), now)
	require.Nil(t, f.Channels)
	require.Equal(t, now.Add(-30*24*time.Hour), f.EndDate)
}

func TestDateRangeDays(t *testing.T) {
	assert.Equal(t, 1, DateRangeDays(Range24h))
	assert.Equal(t, 7, DateRangeDays(Range7d))
	assert.Equal(t, 30, DateRangeDays(Range30d))
	assert.Equal(t, 30, DateRangeDays("bogus"))
}

func TestParseFilterValues(t *testing.T) {
	v := ParseFilterValues(url.Values{})
	require.Equal(t, FilterValues{
		DateRange: DefaultDateRange,
		Channels:  []domain.ChannelType{},
		Templates: []string{},
	}, v)

	v = ParseFilterValues(mustQuery(t, "dateRange=24h&templates=a,b&subscriberId=s"))
	require.Equal(t, Range24h, v.DateRange)
	require.Equal(t, []string{"a", "b"}, v.Templates)
	require.Equal(t, "s", v.SubscriberID)
}

func TestApplyFilterValues(t *testing.T) {
	q := mustQuery(t, "activityItemId=42&channels=push&dateRange=7d&page=3")

	out := ApplyFilterValues(q, FilterValues{
		DateRange:     Range30d,
		Channels:      []domain.ChannelType{domain.ChannelEmail, domain.ChannelChat},
		TransactionID: "tx",
	})
	require.Equal(t, "activityItemId=42&channels=email%2Cchat&page=3&transactionId=tx", out.Encode())
	require.Equal(t, "push", q.Get(KeyChannels), "input must not be modified")

	out = ApplyFilterValues(out, FilterValues{DateRange: Range24h})
	require.Equal(t, "activityItemId=42&dateRange=24h&page=3", out.Encode())
}

func TestApplyThenParseRoundTrip(t *testing.T) {
	want := FilterValues{
		DateRange:     Range7d,
		Channels:      []domain.ChannelType{domain.ChannelInApp},
		Templates:     []string{"welcome", "digest"},
		TransactionID: "tx",
		SubscriberID:  "sub",
	}
	require.Equal(t, want, ParseFilterValues(ApplyFilterValues(url.Values{}, want)))
}

func TestToggleActivity(t *testing.T) {
	q := mustQuery(t, "channels=email")

	_, ok := ActivityItemID(q)
	require.False(t, ok)

	selected := ToggleActivity(q, "a1")
	id, ok := ActivityItemID(selected)
	require.True(t, ok)
	require.Equal(t, "a1", id)
	require.Equal(t, "email", selected.Get(KeyChannels))

	switched := ToggleActivity(selected, "a2")
	id, _ = ActivityItemID(switched)
	require.Equal(t, "a2", id)

	cleared := ToggleActivity(switched, "a2")
	_, ok = ActivityItemID(cleared)
	require.False(t, ok)
	require.Equal(t, "channels=email", cleared.Encode())
}

func TestFiltersMatches(t *testing.T) {
	tmpl := "welcome"
	recent := now.Add(-time.Hour)
	old := now.Add(-40 * 24 * time.Hour)
	n := domain.Notification{
		Channel:            domain.ChannelEmail,
		TemplateIdentifier: &tmpl,
		TransactionID:      "tx",
		SubscriberID:       "sub",
		CreatedAt:          &recent,
	}

	tests := []struct {
		name  string
		query string
		n     domain.Notification
		want  bool
	}{
		{"no filters", "", n, true},
		{"channel hit", "channels=sms,email", n, true},
		{"channel miss", "channels=sms", n, false},
		{"template hit", "templates=welcome", n, true},
		{"template miss", "templates=digest", n, false},
		{"transaction miss", "transactionId=other", n, false},
		{"subscriber hit", "subscriberId=sub", n, true},
		{"too old", "", func() domain.Notification { c := n; c.CreatedAt = &old; return c }(), false},
		{"deleted", "", func() domain.Notification { c := n; c.Deleted = true; return c }(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ParseFilters(mustQuery(t, tt.query), now)
			assert.Equal(t, tt.want, f.Matches(tt.n))
		})
	}
}
