package inbox

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/cristianoliveira/inboxkit/internal/logging"
)

const (
	// DefaultTarget is the browsing context used for external URLs without a target.
	DefaultTarget = "_blank"
	// DefaultReferrer keeps the opened context from seeing the referrer or the opener.
	DefaultReferrer = "noopener noreferrer"
)

// ErrMissingCapability indicates a navigation capability was not injected.
var ErrMissingCapability = errors.New("missing navigation capability")

// RouterPush performs single-page navigation inside the host application.
type RouterPush func(url string)

// Opener opens a URL in a new browsing context.
type Opener interface {
	Open(url, target, features string) error
}

// History pushes entries onto the host's history stack without reloading.
type History interface {
	PushState(state any, title string, u *url.URL) error
}

// Location exposes the current document location.
type Location interface {
	Href() string
}

type navigator struct {
	routerPush    RouterPush
	opener        Opener
	history       History
	location      Location
	defaultTarget string
	logger        logging.Logger
}

func (n navigator) validate() error {
	if n.opener == nil {
		return fmt.Errorf("%w: opener", ErrMissingCapability)
	}
	if n.routerPush != nil {
		return nil
	}
	if n.history == nil {
		return fmt.Errorf("%w: history", ErrMissingCapability)
	}
	if n.location == nil {
		return fmt.Errorf("%w: location", ErrMissingCapability)
	}
	return nil
}

// IsExternal reports whether Navigate treats raw as an external URL.
// Anything not rooted at "/" is external.
func IsExternal(raw string) bool {
	return raw != "" && !strings.HasPrefix(raw, "/")
}

func (n navigator) navigate(raw, target string) {
	if raw == "" {
		return
	}

	if IsExternal(raw) {
		if target == "" {
			target = n.defaultTarget
		}
		if err := n.opener.Open(raw, target, DefaultReferrer); err != nil {
			n.logger.Warn("open external url failed", "url", raw, "target", target, "error", err)
		}
		return
	}

	if n.routerPush != nil {
		n.routerPush(raw)
		return
	}

	full, err := resolve(n.location.Href(), raw)
	if err != nil {
		n.logger.Warn("resolve url failed", "url", raw, "error", err)
		return
	}
	if err := n.history.PushState(nil, "", full); err != nil {
		n.logger.Warn("history push failed", "url", full.String(), "error", err)
	}
}

func resolve(base, ref string) (*url.URL, error) {
	b, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse location %q: %w", base, err)
	}
	r, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", ref, err)
	}
	return b.ResolveReference(r), nil
}
