// Package search provides a search abstraction for filtering notifications.
// Substring and regex strategies share the Provider interface so callers can
// switch between them with a flag.
package search

import (
	"strings"

	"github.com/cristianoliveira/inboxkit/internal/domain"
)

// Searchable fields.
const (
	FieldContent     = "content"
	FieldSubject     = "subject"
	FieldTags        = "tags"
	FieldChannel     = "channel"
	FieldTransaction = "transaction"
)

// Provider defines the interface for search providers.
type Provider interface {
	// Match returns true if the notification matches the search query.
	Match(n domain.Notification, query string) bool

	// Name returns the provider name for identification and debugging.
	Name() string
}

// Options holds configuration options for creating search providers.
type Options struct {
	CaseInsensitive bool     // If true, searches ignore case sensitivity
	Fields          []string // Fields to search in
}

// DefaultOptions returns the default search options.
func DefaultOptions() Options {
	return Options{
		CaseInsensitive: false,
		Fields:          []string{FieldContent, FieldSubject, FieldTags},
	}
}

// Option is a function that modifies search options.
type Option func(*Options)

// WithCaseInsensitive sets case-insensitive search.
func WithCaseInsensitive(enabled bool) Option {
	return func(o *Options) {
		o.CaseInsensitive = enabled
	}
}

// WithFields sets the fields to search in.
func WithFields(fields []string) Option {
	return func(o *Options) {
		o.Fields = fields
	}
}

// New returns the regex provider when regex is set, the substring provider otherwise.
func New(regex bool, opts ...Option) Provider {
	if regex {
		return NewRegexProvider(opts...)
	}
	return NewSubstringProvider(opts...)
}

func applyOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// fieldValues returns the non-empty values of field on n.
func fieldValues(n domain.Notification, field string) []string {
	var values []string
	switch field {
	case FieldContent:
		values = []string{n.Content}
	case FieldSubject:
		if n.Subject != nil {
			values = []string{*n.Subject}
		}
	case FieldTags:
		values = n.Tags
	case FieldChannel:
		values = []string{string(n.Channel)}
	case FieldTransaction:
		values = []string{n.TransactionID}
	}
	out := values[:0:0]
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
