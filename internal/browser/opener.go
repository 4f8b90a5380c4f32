// Package browser provides the navigation capabilities the inbox controller
// needs when it runs outside a web page: an external URL opener, an in-memory
// history stack and a fixed document location.
package browser

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/cristianoliveira/inboxkit/internal/logging"
)

var (
	// ErrNoOpener is returned when no command is available to open URLs.
	ErrNoOpener = errors.New("no browser command available")
	// ErrUnsafeURL is returned for URLs the opener command would read as an option.
	ErrUnsafeURL = errors.New("refusing to open url")
)

// SystemOpener opens external URLs with $BROWSER or the platform opener.
// Commands are started without waiting for them to exit.
type SystemOpener struct {
	goos   string
	getenv func(string) string
	start  func(name string, args ...string) error
	logger logging.Logger
}

// OpenerOption configures a SystemOpener.
type OpenerOption func(*SystemOpener)

// WithStarter replaces the function that launches the opener command.
func WithStarter(start func(name string, args ...string) error) OpenerOption {
	return func(o *SystemOpener) {
		o.start = start
	}
}

// WithGOOS overrides the platform used to pick the opener command.
func WithGOOS(goos string) OpenerOption {
	return func(o *SystemOpener) {
		o.goos = goos
	}
}

// WithGetenv overrides environment lookup.
func WithGetenv(getenv func(string) string) OpenerOption {
	return func(o *SystemOpener) {
		o.getenv = getenv
	}
}

// NewSystemOpener creates an opener for the current platform.
func NewSystemOpener(opts ...OpenerOption) *SystemOpener {
	o := &SystemOpener{
		goos:   runtime.GOOS,
		getenv: os.Getenv,
		start:  startDetached,
		logger: logging.With("component", "browser"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Open launches the browser for url. A terminal has a single browsing
// context, so target and features are only recorded.
func (o *SystemOpener) Open(url, target, features string) error {
	if strings.HasPrefix(strings.TrimSpace(url), "-") {
		return fmt.Errorf("%w %q: starts with '-'", ErrUnsafeURL, url)
	}
	name, args, err := o.command(url)
	if err != nil {
		return err
	}
	o.logger.Debug("open url", "url", url, "target", target, "features", features, "command", name)
	if err := o.start(name, args...); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}

func (o *SystemOpener) command(url string) (string, []string, error) {
	// $BROWSER may hold a colon separated list; the first entry wins.
	if env := strings.TrimSpace(o.getenv("BROWSER")); env != "" {
		first, _, _ := strings.Cut(env, string(os.PathListSeparator))
		fields := strings.Fields(first)
		if len(fields) > 0 {
			return fields[0], append(fields[1:], url), nil
		}
	}
	switch o.goos {
	case "darwin":
		return "open", []string{url}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		return "xdg-open", []string{url}, nil
	default:
		return "", nil, fmt.Errorf("%w on %s", ErrNoOpener, o.goos)
	}
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
