package cmd

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cristianoliveira/inboxkit/internal/browser"
	"github.com/cristianoliveira/inboxkit/internal/config"
	"github.com/cristianoliveira/inboxkit/internal/domain"
	"github.com/cristianoliveira/inboxkit/internal/feed"
	"github.com/cristianoliveira/inboxkit/internal/hooks"
	"github.com/cristianoliveira/inboxkit/internal/inbox"
	"github.com/cristianoliveira/inboxkit/internal/logging"
	"github.com/cristianoliveira/inboxkit/internal/storage"
	"github.com/cristianoliveira/inboxkit/internal/storage/sqlite"
	"github.com/cristianoliveira/inboxkit/internal/tabs"
	"github.com/cristianoliveira/inboxkit/internal/version"
)

// app is the production client shared by every command. The repository is
// opened on first use, after the root command has loaded the configuration.
type app struct {
	once  sync.Once
	repo  *sqlite.SQLiteStorage
	err   error
	hooks *hooks.Runner
}

func newApp() *app {
	return &app{}
}

func (a *app) repository() (*sqlite.SQLiteStorage, error) {
	a.once.Do(func() {
		a.repo, a.err = storage.NewFromConfig()
		a.hooks = hooks.NewFromConfig()
	})
	return a.repo, a.err
}

func (a *app) close() error {
	if a.repo == nil {
		return nil
	}
	return a.repo.Close()
}

func (a *app) Version() version.Info {
	return version.Current()
}

func (a *app) Add(ctx context.Context, n domain.Notification) (string, error) {
	repo, err := a.repository()
	if err != nil {
		return "", err
	}
	if err := a.hooks.Run(ctx, hooks.PreAdd, hooks.Env(n)); err != nil {
		return "", fmt.Errorf("pre-add hook: %w", err)
	}
	id, err := repo.Add(ctx, n)
	if err != nil {
		return "", err
	}
	n.ID = id
	a.runPostHook(ctx, hooks.PostAdd, n)
	return id, nil
}

// runPostHook runs point for n. The change is already stored, so failures
// are logged instead of returned.
func (a *app) runPostHook(ctx context.Context, point string, n domain.Notification) {
	if err := a.hooks.Run(ctx, point, hooks.Env(n)); err != nil {
		logging.Warn("hook failed after change was stored", "point", point, "id", n.ID, "error", err)
	}
}

// runPostHookFor loads id and runs point for it.
func (a *app) runPostHookFor(ctx context.Context, repo *sqlite.SQLiteStorage, point, id string) {
	n, err := repo.Get(ctx, id)
	if err != nil {
		logging.Debug("skipping hook", "point", point, "id", id, "error", err)
		return
	}
	a.runPostHook(ctx, point, *n)
}

func (a *app) Get(ctx context.Context, id string) (*domain.Notification, error) {
	repo, err := a.repository()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, id)
}

func (a *app) List(ctx context.Context, q domain.Query) ([]domain.Notification, error) {
	repo, err := a.repository()
	if err != nil {
		return nil, err
	}
	return repo.List(ctx, q)
}

func (a *app) MarkRead(ctx context.Context, id string, read bool) error {
	repo, err := a.repository()
	if err != nil {
		return err
	}
	if err := repo.MarkRead(ctx, id, read); err != nil {
		return err
	}
	point := hooks.PostRead
	if !read {
		point = hooks.PostUnread
	}
	a.runPostHookFor(ctx, repo, point, id)
	return nil
}

func (a *app) Archive(ctx context.Context, id string, archived bool) error {
	repo, err := a.repository()
	if err != nil {
		return err
	}
	if err := repo.Archive(ctx, id, archived); err != nil {
		return err
	}
	point := hooks.PostArchive
	if !archived {
		point = hooks.PostRestore
	}
	a.runPostHookFor(ctx, repo, point, id)
	return nil
}

func (a *app) Delete(ctx context.Context, id string) error {
	repo, err := a.repository()
	if err != nil {
		return err
	}
	n, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := repo.Delete(ctx, id); err != nil {
		return err
	}
	a.runPostHook(ctx, hooks.PostDelete, *n)
	return nil
}

func (a *app) Cleanup(ctx context.Context, olderThan time.Duration, dryRun bool) (int, error) {
	repo, err := a.repository()
	if err != nil {
		return 0, err
	}
	return repo.Cleanup(ctx, olderThan, dryRun)
}

func (a *app) Feed() (*feed.Service, error) {
	repo, err := a.repository()
	if err != nil {
		return nil, err
	}
	return feed.NewService(repo), nil
}

func (a *app) Fetch(ctx context.Context, f inbox.Filter, page, limit int) (domain.FeedResponse, error) {
	svc, err := a.Feed()
	if err != nil {
		return domain.FeedResponse{}, err
	}
	return svc.Fetch(ctx, f, page, limit)
}

func (a *app) TabCounts(ctx context.Context, status inbox.Status, set []inbox.Tab) (map[string]int, error) {
	svc, err := a.Feed()
	if err != nil {
		return nil, err
	}
	return svc.TabCounts(ctx, status, set)
}

func (a *app) TabsPath() string {
	return config.Get("tabs_file", "")
}

func (a *app) LoadTabs() ([]inbox.Tab, error) {
	path := a.TabsPath()
	if path == "" {
		return tabs.Default(), nil
	}
	return tabs.Load(path)
}

func (a *app) SaveTabs(set []inbox.Tab) error {
	path := a.TabsPath()
	if path == "" {
		return fmt.Errorf("tabs_file not configured")
	}
	return tabs.Save(path, set)
}

func (a *app) Opener() inbox.Opener {
	return browser.NewSystemOpener()
}

func (a *app) BaseURL() string {
	return config.Get("base_url", "http://localhost/")
}

// controllerOptions are the controller defaults taken from configuration.
func controllerOptions() []inbox.Option {
	opts := []inbox.Option{
		inbox.WithLimit(config.GetInt("default_limit", inbox.DefaultLimit)),
		inbox.WithDefaultTarget(config.Get("default_target", inbox.DefaultTarget)),
	}
	if status, err := inbox.ParseStatus(config.Get("default_status", "")); err == nil {
		opts = append(opts, inbox.WithStatus(status))
	}
	return opts
}
