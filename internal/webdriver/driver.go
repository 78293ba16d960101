// Package webdriver is the facade over a remote browser session. It hands out
// typed element wrappers, cookie values and normalized log entries, and
// guarantees the session is terminated exactly once.
package webdriver

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pagewrap/api/schemas"
	"github.com/xkilldash9x/pagewrap/internal/browser/cdp"
	"github.com/xkilldash9x/pagewrap/internal/browser/gecko"
	"github.com/xkilldash9x/pagewrap/internal/config"
	"github.com/xkilldash9x/pagewrap/internal/cookie"
	"github.com/xkilldash9x/pagewrap/internal/dom"
	"github.com/xkilldash9x/pagewrap/internal/weblog"
)

// Driver owns one remote browser session.
type Driver struct {
	id     string
	remote schemas.RemoteDriver
	logger *zap.Logger

	quitOnce sync.Once
	quitErr  error
}

// New starts the backend selected by cfg.Backend.
func New(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (*Driver, error) {
	backend, err := cfg.BackendKind()
	if err != nil {
		return nil, err
	}

	var remote schemas.RemoteDriver
	switch backend {
	case schemas.Chrome:
		remote, err = cdp.New(ctx, cfg, logger)
	case schemas.Firefox:
		remote, err = gecko.New(ctx, cfg, logger)
	default:
		return nil, schemas.NewInvalidArgumentError("unsupported backend %s", backend)
	}
	if err != nil {
		return nil, err
	}

	d := NewWithRemote(remote, logger)
	d.logger.Info("Browser session started.", zap.Stringer("backend", backend))
	return d, nil
}

// NewWithRemote wraps an already started session.
func NewWithRemote(remote schemas.RemoteDriver, logger *zap.Logger) *Driver {
	id := uuid.NewString()
	return &Driver{
		id:     id,
		remote: remote,
		logger: logger.Named("webdriver").With(zap.String("session_id", id)),
	}
}

// ID returns the session identifier used in log output.
func (d *Driver) ID() string { return d.id }

func (d *Driver) Navigate(ctx context.Context, url string) error {
	d.logger.Debug("Navigating.", zap.String("url", url))
	return d.remote.Navigate(ctx, url)
}

// HasElement reports whether any element matches the selector.
func (d *Driver) HasElement(ctx context.Context, selector string) (bool, error) {
	found, err := d.remote.FindElements(ctx, selector)
	if err != nil {
		return false, err
	}
	return len(found) > 0, nil
}

// FindElement returns the first match, wrapped in its variant. No match is ErrNotFound.
func (d *Driver) FindElement(ctx context.Context, selector string) (dom.Node, error) {
	h, err := d.remote.FindElement(ctx, selector)
	if err != nil {
		return nil, err
	}
	return dom.Wrap(ctx, h)
}

// FindElements returns every match, wrapped. No match is an empty slice.
func (d *Driver) FindElements(ctx context.Context, selector string) ([]dom.Node, error) {
	hs, err := d.remote.FindElements(ctx, selector)
	if err != nil {
		return nil, err
	}
	return dom.WrapAll(ctx, hs)
}

// ExecuteScript runs script in the page with args available as `arguments`.
// Wrapped elements may be passed as arguments; a returned element is wrapped.
func (d *Driver) ExecuteScript(ctx context.Context, script string, args ...interface{}) (interface{}, error) {
	raw := make([]interface{}, len(args))
	for i, a := range args {
		if n, ok := a.(dom.Node); ok {
			raw[i] = n.Base().Handle()
			continue
		}
		raw[i] = a
	}

	res, err := d.remote.ExecuteScript(ctx, script, raw)
	if err != nil {
		return nil, err
	}
	if h, ok := res.(schemas.RemoteElement); ok {
		return dom.Wrap(ctx, h)
	}
	return res, nil
}

// SetCookie submits a cookie record. name and value must be present and non-null;
// otherwise nothing is sent and ErrInvalidArgument is returned.
func (d *Driver) SetCookie(ctx context.Context, rec schemas.CookieRecord) error {
	for _, key := range []string{schemas.CookieName, schemas.CookieValue} {
		if v, ok := rec[key]; !ok || v == nil {
			return schemas.NewInvalidArgumentError("cookie requires %q", key)
		}
	}
	return d.remote.AddCookie(ctx, rec)
}

// AddCookie submits a Cookie value.
func (d *Driver) AddCookie(ctx context.Context, c *cookie.Cookie) error {
	return d.SetCookie(ctx, c.Record())
}

// DeleteCookie removes the named cookie. Deleting an absent cookie is not an error.
func (d *Driver) DeleteCookie(ctx context.Context, name string) error {
	return d.remote.DeleteCookie(ctx, name)
}

func (d *Driver) DeleteAllCookies(ctx context.Context) error {
	return d.remote.DeleteAllCookies(ctx)
}

// Cookie returns the named cookie's record and whether it exists.
func (d *Driver) Cookie(ctx context.Context, name string) (schemas.CookieRecord, bool, error) {
	return d.remote.Cookie(ctx, name)
}

func (d *Driver) Cookies(ctx context.Context) ([]schemas.CookieRecord, error) {
	return d.remote.Cookies(ctx)
}

// ParsedCookies returns every visible cookie as a Cookie value.
func (d *Driver) ParsedCookies(ctx context.Context) ([]*cookie.Cookie, error) {
	recs, err := d.remote.Cookies(ctx)
	if err != nil {
		return nil, err
	}
	return cookie.FromRecords(recs)
}

// Logs fetches and normalizes the log of the given type.
func (d *Driver) Logs(ctx context.Context, logType string) ([]weblog.Entry, error) {
	recs, err := d.remote.Logs(ctx, logType)
	if err != nil {
		return nil, err
	}
	entries, err := weblog.FromRecords(recs)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize %s log: %w", logType, err)
	}
	return entries, nil
}

// Quit terminates the session. Only the first call reaches the backend; later
// calls return its result.
func (d *Driver) Quit(ctx context.Context) error {
	d.quitOnce.Do(func() {
		d.quitErr = d.remote.Quit(ctx)
		if d.quitErr != nil {
			d.logger.Warn("Session did not terminate cleanly.", zap.Error(d.quitErr))
			return
		}
		d.logger.Info("Browser session terminated.")
	})
	return d.quitErr
}
