package search

import (
	"testing"

	"github.com/cristianoliveira/inboxkit/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() domain.Notification {
	subject := "Weekly Report"
	return domain.Notification{
		ID:            "n1",
		Content:       "Build finished in 42s",
		Subject:       &subject,
		Tags:          []string{"ci", "Deploys"},
		Channel:       domain.ChannelEmail,
		TransactionID: "tx-991",
	}
}

func TestSubstringProvider(t *testing.T) {
	n := sample()
	tests := []struct {
		name  string
		opts  []Option
		query string
		want  bool
	}{
		{"empty query matches", nil, "", true},
		{"content", nil, "finished", true},
		{"subject", nil, "Report", true},
		{"tag", nil, "Deploys", true},
		{"case sensitive by default", nil, "weekly", false},
		{"case insensitive", []Option{WithCaseInsensitive(true)}, "weekly", true},
		{"channel not searched by default", nil, "email", false},
		{"channel when requested", []Option{WithFields([]string{FieldChannel})}, "email", true},
		{"transaction when requested", []Option{WithFields([]string{FieldTransaction})}, "tx-9", true},
		{"field restriction", []Option{WithFields([]string{FieldTags})}, "finished", false},
		{"no match", nil, "nothing here", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewSubstringProvider(tt.opts...)
			assert.Equal(t, tt.want, p.Match(n, tt.query))
		})
	}
}

func TestSubstringProviderNilSubject(t *testing.T) {
	n := sample()
	n.Subject = nil
	p := NewSubstringProvider(WithFields([]string{FieldSubject}))
	assert.False(t, p.Match(n, "Report"))
}

func TestRegexProvider(t *testing.T) {
	n := sample()
	tests := []struct {
		name  string
		opts  []Option
		query string
		want  bool
	}{
		{"empty query matches", nil, "", true},
		{"anchored content", nil, "^Build", true},
		{"digits", nil, `\d+s$`, true},
		{"tag alternation", nil, "^(ops|ci)$", true},
		{"case sensitive by default", nil, "^weekly", false},
		{"case insensitive", []Option{WithCaseInsensitive(true)}, "^weekly", true},
		{"invalid pattern matches nothing", nil, "(", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewRegexProvider(tt.opts...)
			assert.Equal(t, tt.want, p.Match(n, tt.query))
		})
	}
}

func TestRegexProviderCompile(t *testing.T) {
	p := NewRegexProvider().(*RegexProvider)
	require.NoError(t, p.Compile("^ok$"))
	require.Error(t, p.Compile("[a-"))

	assert.True(t, p.Match(domain.Notification{Content: "ok"}, "^ok$"))
	assert.Len(t, p.cache, 1)
}

func TestNew(t *testing.T) {
	assert.Equal(t, "substring", New(false).Name())
	assert.Equal(t, "regex", New(true).Name())
}
