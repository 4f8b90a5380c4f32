package cmd

import (
	"context"
	"fmt"

	"github.com/cristianoliveira/inboxkit/internal/browser"
	"github.com/cristianoliveira/inboxkit/internal/inbox"
)

type navClient interface {
	Opener() inbox.Opener
	BaseURL() string
}

// session is an inbox controller mounted for one command run. Relative links
// are pushed onto an in-process history rooted at the configured base URL.
type session struct {
	ctx      context.Context
	ctrl     *inbox.Controller
	history  *browser.History
	provider *inbox.Provider
}

func mountSession(ctx context.Context, client navClient, set []inbox.Tab, opts ...inbox.Option) (*session, error) {
	history, err := browser.NewHistory(client.BaseURL())
	if err != nil {
		return nil, fmt.Errorf("base_url: %w", err)
	}

	all := append(controllerOptions(),
		inbox.WithOpener(client.Opener()),
		inbox.WithHistory(history),
		inbox.WithLocation(history),
	)
	all = append(all, opts...)

	provider := inbox.NewProvider()
	ctx, ctrl, err := provider.Mount(ctx, set, all...)
	if err != nil {
		return nil, err
	}
	return &session{ctx: ctx, ctrl: ctrl, history: history, provider: provider}, nil
}

func (s *session) close() {
	s.provider.Unmount()
}
