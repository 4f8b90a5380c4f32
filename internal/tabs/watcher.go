package tabs

import (
	"bytes"
	"context"
	"os"
	"time"

	"github.com/cristianoliveira/inboxkit/internal/inbox"
	"github.com/cristianoliveira/inboxkit/internal/logging"
)

// DefaultPollInterval is used when a watcher is created with a non-positive interval.
const DefaultPollInterval = 2 * time.Second

// Sink receives a new tab set. The inbox controller's SetTabs satisfies it.
type Sink func(tabs []inbox.Tab)

// Watcher polls a tabs file and forwards each distinct valid content to a sink.
type Watcher struct {
	path     string
	interval time.Duration
	sink     Sink
	logger   logging.Logger

	last    []byte
	missing bool
}

// NewWatcher creates a watcher for path. The current content is taken as the
// baseline, so only later changes reach the sink.
func NewWatcher(path string, interval time.Duration, sink Sink) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	w := &Watcher{
		path:     path,
		interval: interval,
		sink:     sink,
		logger:   logging.With("component", "tabs", "path", path),
	}
	data, err := os.ReadFile(path)
	w.missing = err != nil
	w.last = data
	return w
}

// Run polls until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.Poll()
		}
	}
}

// Poll checks the file once and reports whether the sink was called.
// Invalid content is logged and skipped until the file changes again.
// A removed file reverts to Default().
func (w *Watcher) Poll() bool {
	data, err := os.ReadFile(w.path)
	if err != nil {
		if !os.IsNotExist(err) {
			w.logger.Warn("read tabs file failed", "error", err)
			return false
		}
		if w.missing {
			return false
		}
		w.missing, w.last = true, nil
		w.logger.Info("tabs file removed, using defaults")
		w.sink(Default())
		return true
	}

	if !w.missing && bytes.Equal(data, w.last) {
		return false
	}
	w.missing, w.last = false, data

	tabs, err := Parse(data)
	if err != nil {
		w.logger.Warn("ignoring invalid tabs file", "error", err)
		return false
	}
	w.logger.Info("tabs reloaded", "count", len(tabs))
	w.sink(tabs)
	return true
}
