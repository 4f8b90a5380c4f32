// Package hooks runs user scripts when notifications change.
//
// Scripts live in <dir>/<hook point>/ and run in name order. Each receives
// HOOK_POINT, HOOK_TIMESTAMP and the notification fields as environment
// variables. A failing script stops Run with an error only in abort mode.
package hooks

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cristianoliveira/inboxkit/internal/config"
	"github.com/cristianoliveira/inboxkit/internal/domain"
	"github.com/cristianoliveira/inboxkit/internal/logging"
)

// Hook points.
const (
	PreAdd      = "pre-add"
	PostAdd     = "post-add"
	PostRead    = "post-read"
	PostUnread  = "post-unread"
	PostArchive = "post-archive"
	PostRestore = "post-unarchive"
	PostDelete  = "post-delete"
)

// FailureMode decides what a failing script does to the operation.
type FailureMode string

// Failure modes.
const (
	FailureAbort  FailureMode = "abort"
	FailureWarn   FailureMode = "warn"
	FailureIgnore FailureMode = "ignore"
)

// DefaultTimeout bounds a single script run.
const DefaultTimeout = 30 * time.Second

// Runner executes hook scripts.
type Runner struct {
	dir     string
	mode    FailureMode
	timeout time.Duration
	logger  logging.Logger
	now     func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithFailureMode sets the failure mode.
func WithFailureMode(mode FailureMode) Option {
	return func(r *Runner) { r.mode = mode }
}

// WithTimeout sets the per-script timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// NewRunner returns a Runner for scripts under dir.
func NewRunner(dir string, opts ...Option) *Runner {
	r := &Runner{
		dir:     dir,
		mode:    FailureWarn,
		timeout: DefaultTimeout,
		logger:  logging.With("component", "hooks"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewFromConfig builds a Runner from hooks_dir, hooks_failure_mode and hooks_timeout.
func NewFromConfig() *Runner {
	return NewRunner(config.Get("hooks_dir", ""),
		WithFailureMode(FailureMode(config.Get("hooks_failure_mode", string(FailureWarn)))),
		WithTimeout(config.GetDuration("hooks_timeout", DefaultTimeout)),
	)
}

// Env returns the variables describing n to a script.
func Env(n domain.Notification) map[string]string {
	env := map[string]string{
		"NOTIFICATION_ID":      n.ID,
		"NOTIFICATION_CONTENT": n.Content,
		"NOTIFICATION_CHANNEL": string(n.Channel),
		"NOTIFICATION_TAGS":    strings.Join(n.Tags, ","),
		"NOTIFICATION_READ":    fmt.Sprint(n.Read),
		"NOTIFICATION_URL":     n.CTA.Data.URL,
	}
	if n.Subject != nil {
		env["NOTIFICATION_SUBJECT"] = *n.Subject
	}
	return env
}

type script struct {
	path string
	name string
}

// scripts lists the executable files for point, sorted by name.
func (r *Runner) scripts(point string) []script {
	if r.dir == "" {
		return nil
	}
	dir := filepath.Join(r.dir, point)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []script
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.Mode()&0111 == 0 {
			continue
		}
		out = append(out, script{path: filepath.Join(dir, e.Name()), name: e.Name()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Run executes the scripts for point. It returns an error only when a
// script fails in abort mode.
func (r *Runner) Run(ctx context.Context, point string, env map[string]string) error {
	scripts := r.scripts(point)
	if len(scripts) == 0 {
		return nil
	}
	r.logger.Debug("running hooks", "point", point, "count", len(scripts))

	vars := os.Environ()
	vars = append(vars, "HOOK_POINT="+point, "HOOK_TIMESTAMP="+r.now().Format(time.RFC3339))
	if exe, err := os.Executable(); err == nil {
		vars = append(vars, "INBOXKIT_BINARY="+exe)
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		vars = append(vars, k+"="+env[k])
	}

	for _, s := range scripts {
		if err := r.runScript(ctx, s, vars); err != nil {
			switch r.mode {
			case FailureAbort:
				return err
			case FailureIgnore:
			default:
				r.logger.Warn("hook failed", "point", point, "script", s.name, "error", err)
			}
		}
	}
	return nil
}

func (r *Runner) runScript(ctx context.Context, s script, vars []string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := r.now()
	cmd := exec.CommandContext(ctx, s.path)
	cmd.Env = vars
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	cmd.WaitDelay = time.Second
	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("hook %s timed out after %s", s.name, r.timeout)
	}
	if err != nil {
		return fmt.Errorf("hook %s failed: %w, output: %s", s.name, err, strings.TrimSpace(output.String()))
	}
	r.logger.Debug("hook completed", "script", s.name, "duration", time.Since(start))
	return nil
}
