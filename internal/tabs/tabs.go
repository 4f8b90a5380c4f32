// Package tabs loads, validates and watches the inbox tab set.
//
// Tabs are configured in a TOML file:
//
//	[[tabs]]
//	label = "Security"
//	value = ["security", "auth"]
package tabs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cristianoliveira/inboxkit/internal/inbox"
	"github.com/pelletier/go-toml/v2"
)

// File permission constants
const (
	// FileModeDir is the permission for directories (rwxr-xr-x)
	FileModeDir os.FileMode = 0755
	// FileModeFile is the permission for data files (rw-r--r--)
	FileModeFile os.FileMode = 0644
)

// DefaultLabel is the label of the catch-all tab used when no tabs file exists.
const DefaultLabel = "All"

var (
	// ErrEmptyLabel is returned when a tab has a blank label.
	ErrEmptyLabel = errors.New("tab label cannot be empty")
	// ErrDuplicateLabel is returned when two tabs share a label.
	ErrDuplicateLabel = errors.New("duplicate tab label")
	// ErrEmptyTag is returned when a tab lists a blank tag.
	ErrEmptyTag = errors.New("tab tag cannot be empty")
	// ErrUnknownTab is returned when a label does not name any tab.
	ErrUnknownTab = errors.New("unknown tab")
)

type file struct {
	Tabs []inbox.Tab `toml:"tabs"`
}

// Default returns the tab set used when none is configured.
func Default() []inbox.Tab {
	return []inbox.Tab{{Label: DefaultLabel, Value: []string{}}}
}

// Parse decodes and validates a TOML tab set.
func Parse(data []byte) ([]inbox.Tab, error) {
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse tabs: %w", err)
	}
	for i := range f.Tabs {
		f.Tabs[i].Label = strings.TrimSpace(f.Tabs[i].Label)
		if f.Tabs[i].Value == nil {
			f.Tabs[i].Value = []string{}
		}
	}
	if err := Validate(f.Tabs); err != nil {
		return nil, err
	}
	if f.Tabs == nil {
		f.Tabs = []inbox.Tab{}
	}
	return f.Tabs, nil
}

// Validate checks that labels are non-empty and unique and tags are non-empty.
func Validate(tabs []inbox.Tab) error {
	seen := make(map[string]bool, len(tabs))
	for i, tab := range tabs {
		if strings.TrimSpace(tab.Label) == "" {
			return fmt.Errorf("tab %d: %w", i, ErrEmptyLabel)
		}
		if seen[tab.Label] {
			return fmt.Errorf("%w: %q", ErrDuplicateLabel, tab.Label)
		}
		seen[tab.Label] = true
		for _, tag := range tab.Value {
			if strings.TrimSpace(tag) == "" {
				return fmt.Errorf("tab %q: %w", tab.Label, ErrEmptyTag)
			}
		}
	}
	return nil
}

// Load reads the tab set at path. A missing file yields Default().
func Load(path string) ([]inbox.Tab, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read tabs file: %w", err)
	}
	tabs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tabs, nil
}

// Save validates tabs and writes them to path.
func Save(path string, tabs []inbox.Tab) error {
	if err := Validate(tabs); err != nil {
		return fmt.Errorf("invalid tabs: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), FileModeDir); err != nil {
		return fmt.Errorf("failed to create tabs directory: %w", err)
	}
	data, err := toml.Marshal(file{Tabs: tabs})
	if err != nil {
		return fmt.Errorf("failed to marshal tabs: %w", err)
	}
	if err := os.WriteFile(path, data, FileModeFile); err != nil {
		return fmt.Errorf("failed to write tabs file: %w", err)
	}
	return nil
}

// Resolve finds the tab with label, ignoring case. Unknown labels produce an
// error carrying the closest known label when there is one.
func Resolve(label string, tabs []inbox.Tab) (inbox.Tab, error) {
	for _, tab := range tabs {
		if tab.Label == label {
			return tab, nil
		}
	}
	for _, tab := range tabs {
		if strings.EqualFold(tab.Label, label) {
			return tab, nil
		}
	}
	if suggestion, ok := Suggest(label, tabs); ok {
		return inbox.Tab{}, fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownTab, label, suggestion)
	}
	return inbox.Tab{}, fmt.Errorf("%w %q", ErrUnknownTab, label)
}
