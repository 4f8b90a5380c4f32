// Package format provides output formatting functionality for CLI commands.
// It renders feed pages in the styles selectable with --format.
package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/cristianoliveira/inboxkit/internal/domain"
)

// Formatter defines the interface for output formatters.
type Formatter interface {
	// FormatFeed formats one feed page and writes it to the writer.
	FormatFeed(resp domain.FeedResponse, writer io.Writer) error
}

// FormatterType represents the type of formatter to use.
type FormatterType string

const (
	// FormatterTypeTable displays notifications in a table format with headers.
	FormatterTypeTable FormatterType = "table"

	// FormatterTypeSimple displays notifications one per line with ID and state.
	FormatterTypeSimple FormatterType = "simple"

	// FormatterTypeCompact displays only the notification content.
	FormatterTypeCompact FormatterType = "compact"

	// FormatterTypeJSON displays the feed response as JSON.
	FormatterTypeJSON FormatterType = "json"
)

// Types lists the selectable formatter types.
func Types() []FormatterType {
	return []FormatterType{FormatterTypeTable, FormatterTypeSimple, FormatterTypeCompact, FormatterTypeJSON}
}

// ParseFormatterType converts user input into a FormatterType.
func ParseFormatterType(raw string) (FormatterType, error) {
	t := FormatterType(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Types() {
		if t == known {
			return t, nil
		}
	}
	names := make([]string, len(Types()))
	for i, known := range Types() {
		names[i] = string(known)
	}
	return "", fmt.Errorf("invalid format: %s (must be %s)", raw, strings.Join(names, ", "))
}

// NewFormatter creates a new formatter of the specified type.
func NewFormatter(formatterType FormatterType) Formatter {
	switch formatterType {
	case FormatterTypeSimple:
		return NewSimpleFormatter()
	case FormatterTypeCompact:
		return NewCompactFormatter()
	case FormatterTypeJSON:
		return NewJSONFormatter()
	default:
		return NewTableFormatter()
	}
}

// stateMark is a one character read/archived indicator.
func stateMark(n domain.Notification) string {
	switch {
	case n.Archived:
		return "a"
	case n.Read:
		return " "
	default:
		return "*"
	}
}

// displayContent joins the subject and content on one line.
func displayContent(n domain.Notification) string {
	content := n.Content
	if n.Subject != nil && *n.Subject != "" {
		content = *n.Subject + ": " + content
	}
	return strings.Join(strings.Fields(content), " ")
}

// truncate shortens s to width runes, adding "..." if truncated.
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width < 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// pageFooter summarises paging below a listing.
func pageFooter(resp domain.FeedResponse) string {
	parts := []string{fmt.Sprintf("page %d", resp.Page+1)}
	if resp.TotalCount != nil {
		parts = append(parts, fmt.Sprintf("%d total", *resp.TotalCount))
	}
	if resp.HasMore {
		parts = append(parts, "more available")
	}
	return strings.Join(parts, ", ")
}
