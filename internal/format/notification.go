package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/cristianoliveira/inboxkit/internal/domain"
)

const (
	tableContentWidth   = 48
	compactContentWidth = 72
)

// TableFormatter formats notifications in a table format with headers.
type TableFormatter struct{}

// NewTableFormatter creates a new TableFormatter.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

// FormatFeed formats notifications in table format.
func (f *TableFormatter) FormatFeed(resp domain.FeedResponse, writer io.Writer) error {
	if len(resp.Data) == 0 {
		_, err := fmt.Fprintln(writer, "No notifications")
		return err
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("", "ID", "CREATED", "CHANNEL", "TAGS", "CONTENT")
	for _, n := range resp.Data {
		created := ""
		if n.CreatedAt != nil {
			created = n.CreatedAt.UTC().Format(time.RFC3339)
		}
		t.Row(stateMark(n), n.ID, created, string(n.Channel),
			strings.Join(n.Tags, ","),
			truncate(displayContent(n), tableContentWidth))
	}
	_, err := fmt.Fprintf(writer, "%s\n%s\n", t.String(), pageFooter(resp))
	return err
}

// SimpleFormatter formats notifications one per line with state mark and ID.
type SimpleFormatter struct{}

// NewSimpleFormatter creates a new SimpleFormatter.
func NewSimpleFormatter() *SimpleFormatter {
	return &SimpleFormatter{}
}

// FormatFeed formats notifications in simple format.
func (f *SimpleFormatter) FormatFeed(resp domain.FeedResponse, writer io.Writer) error {
	for _, n := range resp.Data {
		line := fmt.Sprintf("%s %s  %s", stateMark(n), n.ID, displayContent(n))
		if url, _, ok := n.RedirectURL(); ok {
			line += "  -> " + url
		}
		if _, err := fmt.Fprintln(writer, line); err != nil {
			return err
		}
	}
	return nil
}

// CompactFormatter formats notifications with content only.
type CompactFormatter struct{}

// NewCompactFormatter creates a new CompactFormatter.
func NewCompactFormatter() *CompactFormatter {
	return &CompactFormatter{}
}

// FormatFeed formats notifications in compact format.
func (f *CompactFormatter) FormatFeed(resp domain.FeedResponse, writer io.Writer) error {
	for _, n := range resp.Data {
		if _, err := fmt.Fprintln(writer, truncate(displayContent(n), compactContentWidth)); err != nil {
			return err
		}
	}
	return nil
}

// JSONFormatter formats the feed response as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// FormatFeed writes resp as indented JSON.
func (f *JSONFormatter) FormatFeed(resp domain.FeedResponse, writer io.Writer) error {
	if resp.Data == nil {
		resp.Data = []domain.Notification{}
	}
	enc := json.NewEncoder(writer)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
