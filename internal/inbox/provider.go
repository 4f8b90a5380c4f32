package inbox

import (
	"context"
	"sync"
)

type contextKey struct{}

// Provider scopes one controller to the lifetime of a mounted widget.
type Provider struct {
	mu   sync.Mutex
	ctrl *Controller
}

// NewProvider returns an unmounted provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Mount creates the controller and returns a context carrying it.
// Mounting an already mounted provider discards the previous controller.
func (p *Provider) Mount(ctx context.Context, tabs []Tab, opts ...Option) (context.Context, *Controller, error) {
	ctrl, err := NewController(tabs, opts...)
	if err != nil {
		return ctx, nil, err
	}

	p.mu.Lock()
	prev := p.ctrl
	p.ctrl = ctrl
	p.mu.Unlock()
	if prev != nil {
		prev.close()
	}

	return context.WithValue(ctx, contextKey{}, ctrl), ctrl, nil
}

// Unmount discards the controller state. Further use of the controller panics
// with ErrNoProvider and Use reports ErrNoProvider.
func (p *Provider) Unmount() {
	p.mu.Lock()
	ctrl := p.ctrl
	p.ctrl = nil
	p.mu.Unlock()
	if ctrl != nil {
		ctrl.close()
	}
}

// Controller returns the mounted controller or ErrNoProvider.
func (p *Provider) Controller() (*Controller, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctrl == nil {
		return nil, ErrNoProvider
	}
	return p.ctrl, nil
}

// Use returns the controller carried by ctx.
func Use(ctx context.Context) (*Controller, error) {
	if ctx == nil {
		return nil, ErrNoProvider
	}
	ctrl, ok := ctx.Value(contextKey{}).(*Controller)
	if !ok || ctrl == nil || !ctrl.live() {
		return nil, ErrNoProvider
	}
	return ctrl, nil
}

// MustUse is like Use but panics when no live controller is in scope.
func MustUse(ctx context.Context) *Controller {
	ctrl, err := Use(ctx)
	if err != nil {
		panic(err)
	}
	return ctrl
}
