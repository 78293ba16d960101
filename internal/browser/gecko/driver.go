// Package gecko drives Firefox through geckodriver with the tebeka/selenium client.
package gecko

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/firefox"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pagewrap/api/schemas"
	"github.com/xkilldash9x/pagewrap/internal/config"
)

// Driver owns one WebDriver session against a running geckodriver.
type Driver struct {
	wd      selenium.WebDriver
	logger  *zap.Logger
	// console enables the in-page hook that feeds the "browser" log.
	console bool

	mu     sync.Mutex
	closed bool
}

var _ schemas.RemoteDriver = (*Driver)(nil)

// Capabilities builds the session capabilities for a browser config.
func Capabilities(cfg config.BrowserConfig) selenium.Capabilities {
	caps := selenium.Capabilities{"browserName": "firefox"}

	ff := firefox.Capabilities{Binary: cfg.FirefoxBinary}
	if cfg.Headless {
		ff.Args = append(ff.Args, "-headless")
	}
	if cfg.WindowWidth > 0 && cfg.WindowHeight > 0 {
		ff.Args = append(ff.Args,
			"--width="+strconv.Itoa(cfg.WindowWidth),
			"--height="+strconv.Itoa(cfg.WindowHeight))
	}
	ff.Args = append(ff.Args, cfg.Args...)
	caps.AddFirefox(ff)
	return caps
}

// New opens a Firefox session on the geckodriver at cfg.GeckoDriverURL.
func New(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (*Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	wd, err := selenium.NewRemote(Capabilities(cfg), cfg.GeckoDriverURL)
	if err != nil {
		return nil, fmt.Errorf("failed to start firefox session at %s: %w", cfg.GeckoDriverURL, err)
	}
	d := NewWithSession(wd, logger)
	d.console = slices.Contains(cfg.LogTypes, schemas.LogTypeBrowser)
	d.logger.Debug("Firefox session started.", zap.String("geckodriver", cfg.GeckoDriverURL))
	return d, nil
}

// NewWithSession adapts an already open WebDriver session with console capture on.
func NewWithSession(wd selenium.WebDriver, logger *zap.Logger) *Driver {
	return &Driver{wd: wd, logger: logger.Named("gecko"), console: true}
}

func (d *Driver) wrap(we selenium.WebElement) *Element {
	return &Element{d: d, we: we}
}

func (d *Driver) wrapAll(wes []selenium.WebElement) []schemas.RemoteElement {
	out := make([]schemas.RemoteElement, len(wes))
	for i, we := range wes {
		out[i] = d.wrap(we)
	}
	return out
}

func (d *Driver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.wd.Get(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if d.console {
		if _, err := d.wd.ExecuteScript(consoleHook, nil); err != nil {
			d.logger.Debug("Failed to install console hook.", zap.String("url", url), zap.Error(err))
		}
	}
	return nil
}

func (d *Driver) FindElement(ctx context.Context, selector string) (schemas.RemoteElement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	we, err := d.wd.FindElement(selenium.ByCSSSelector, selector)
	if err != nil {
		return nil, classify("findElement", selector, err)
	}
	return d.wrap(we), nil
}

func (d *Driver) FindElements(ctx context.Context, selector string) ([]schemas.RemoteElement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	wes, err := d.wd.FindElements(selenium.ByCSSSelector, selector)
	if err != nil {
		return nil, classify("findElements", selector, err)
	}
	return d.wrapAll(wes), nil
}

func (d *Driver) ExecuteScript(ctx context.Context, script string, args []interface{}) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := d.wd.ExecuteScript(script, scriptArgs(args))
	if err != nil {
		return nil, fmt.Errorf("failed to execute script: %w", err)
	}
	return d.scriptResult(res)
}

func (d *Driver) AddCookie(ctx context.Context, rec schemas.CookieRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c, err := toSeleniumCookie(rec)
	if err != nil {
		return err
	}
	return classify("addCookie", "", d.wd.AddCookie(c))
}

// DeleteCookie does nothing when the cookie does not exist.
func (d *Driver) DeleteCookie(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.wd.DeleteCookie(name); err != nil && !isNoSuchCookie(err) {
		return classify("deleteCookie", "", err)
	}
	return nil
}

func (d *Driver) DeleteAllCookies(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return classify("deleteAllCookies", "", d.wd.DeleteAllCookies())
}

func (d *Driver) Cookie(ctx context.Context, name string) (schemas.CookieRecord, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	c, err := d.wd.GetCookie(name)
	if isNoSuchCookie(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, classify("cookie", "", err)
	}
	return cookieRecord(c), true, nil
}

func (d *Driver) Cookies(ctx context.Context) ([]schemas.CookieRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cookies, err := d.wd.GetCookies()
	if err != nil {
		return nil, classify("cookies", "", err)
	}
	out := make([]schemas.CookieRecord, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, cookieRecord(c))
	}
	return out, nil
}

// Logs drains console output captured since the last call. Only the "browser"
// type exists, and only when it was requested at session start. Output logged
// before the hook is installed by Navigate is not seen.
func (d *Driver) Logs(ctx context.Context, logType string) ([]schemas.LogRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if logType != schemas.LogTypeBrowser || !d.console {
		return nil, schemas.NewInvalidArgumentError("unsupported log type %q", logType)
	}
	res, err := d.wd.ExecuteScript(consoleDrain, nil)
	if err != nil {
		return nil, classify("logs", "", err)
	}
	return decodeConsole(res)
}

// Quit ends the session. Later calls do nothing.
func (d *Driver) Quit(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	if err := d.wd.Quit(); err != nil {
		return fmt.Errorf("failed to quit firefox session: %w", err)
	}
	d.logger.Debug("Firefox session closed.")
	return nil
}
