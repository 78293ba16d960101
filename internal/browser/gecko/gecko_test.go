package gecko

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tebeka/selenium"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/pagewrap/api/schemas"
	"github.com/xkilldash9x/pagewrap/internal/config"
)

// fakeWebDriver overrides the few session calls under test. Anything else panics
// through the nil embedded interface.
type fakeWebDriver struct {
	selenium.WebDriver

	found      []selenium.WebElement
	findErr    error
	cookies    map[string]selenium.Cookie
	added      []*selenium.Cookie
	visited    []string
	scripts    []string
	scriptArgs []interface{}
	// script answers ExecuteScript when set; otherwise it returns 3.
	script func(body string) (interface{}, error)
	quits  int
}

func (f *fakeWebDriver) Get(url string) error {
	f.visited = append(f.visited, url)
	return nil
}

func (f *fakeWebDriver) FindElement(by, value string) (selenium.WebElement, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if len(f.found) == 0 {
		return nil, &selenium.Error{Err: codeNoSuchElement, Message: "Unable to locate element: " + value}
	}
	return f.found[0], nil
}

func (f *fakeWebDriver) FindElements(by, value string) ([]selenium.WebElement, error) {
	return f.found, f.findErr
}

func (f *fakeWebDriver) ExecuteScript(script string, args []interface{}) (interface{}, error) {
	f.scripts = append(f.scripts, script)
	f.scriptArgs = args
	if f.script != nil {
		return f.script(script)
	}
	return float64(3), nil
}

// DecodeElement accepts the {"value": {...}} envelope a remote end sends.
func (f *fakeWebDriver) DecodeElement(data []byte) (selenium.WebElement, error) {
	var reply struct{ Value map[string]string }
	if err := json.Unmarshal(data, &reply); err != nil {
		return nil, err
	}
	id := reply.Value[elementKey]
	if id == "" {
		id = reply.Value[legacyElementKey]
	}
	return &fakeWebElement{id: id}, nil
}

func (f *fakeWebDriver) AddCookie(c *selenium.Cookie) error {
	f.added = append(f.added, c)
	return nil
}

func (f *fakeWebDriver) GetCookie(name string) (selenium.Cookie, error) {
	c, ok := f.cookies[name]
	if !ok {
		return selenium.Cookie{}, &selenium.Error{Err: codeNoSuchCookie}
	}
	return c, nil
}

func (f *fakeWebDriver) DeleteCookie(name string) error {
	if _, ok := f.cookies[name]; !ok {
		return &selenium.Error{Err: codeNoSuchCookie}
	}
	delete(f.cookies, name)
	return nil
}

func (f *fakeWebDriver) Quit() error { f.quits++; return nil }

type fakeWebElement struct {
	selenium.WebElement

	id    string
	tag   string
	attrs map[string]string
	err   error
}

func (e *fakeWebElement) TagName() (string, error) { return e.tag, e.err }
func (e *fakeWebElement) GetAttribute(name string) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	v, ok := e.attrs[name]
	if !ok {
		return "", errors.New(nilReturnValue)
	}
	return v, nil
}

func newFakeDriver(t *testing.T, wd *fakeWebDriver) *Driver {
	return NewWithSession(wd, zaptest.NewLogger(t))
}

func TestClassify(t *testing.T) {
	notFound := classify("findElement", "#x", &selenium.Error{Err: codeNoSuchElement})
	assert.ErrorIs(t, notFound, schemas.ErrNotFound)
	var nf *schemas.ElementNotFoundError
	require.True(t, errors.As(notFound, &nf))
	assert.Equal(t, "#x", nf.Selector)

	assert.ErrorIs(t, classify("click", "", &selenium.Error{Err: codeStaleElement}), schemas.ErrStale)
	assert.ErrorIs(t, classify("find", "##", &selenium.Error{Err: codeInvalidSelector}), schemas.ErrInvalidArgument)
	assert.ErrorIs(t, classify("addCookie", "", &selenium.Error{Err: codeInvalidArgument}), schemas.ErrInvalidArgument)

	other := errors.New("connection refused")
	got := classify("text", "", other)
	assert.ErrorIs(t, got, other)
	assert.NotErrorIs(t, got, schemas.ErrStale)

	assert.NoError(t, classify("x", "", nil))
}

func TestCookieConversion(t *testing.T) {
	c, err := toSeleniumCookie(schemas.CookieRecord{
		"name": "sid", "value": "abc", "path": "/", "domain": "example.test",
		"secure": true, "expiry": int64(1900000000),
	})
	require.NoError(t, err)
	want := &selenium.Cookie{Name: "sid", Value: "abc", Path: "/", Domain: "example.test", Secure: true, Expiry: 1900000000}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("cookie mismatch (-want +got):\n%s", diff)
	}

	session, err := toSeleniumCookie(schemas.CookieRecord{"name": "a", "value": "b", "expiry": nil})
	require.NoError(t, err)
	assert.Zero(t, session.Expiry)

	_, err = toSeleniumCookie(schemas.CookieRecord{"value": "b"})
	assert.ErrorIs(t, err, schemas.ErrMissingField)

}

func TestCookieRecord_KeySet(t *testing.T) {
	tests := []struct {
		name string
		in   selenium.Cookie
		want schemas.CookieRecord
	}{
		{
			name: "session cookie",
			in:   selenium.Cookie{Name: "tmp", Value: "1"},
			want: schemas.CookieRecord{
				"name": "tmp", "value": "1", "path": "", "domain": "", "secure": false, "expiry": nil,
			},
		},
		{
			name: "dated cookie",
			in:   selenium.Cookie{Name: "sid", Value: "abc", Path: "/", Domain: "example.test", Secure: true, Expiry: 1900000000},
			want: schemas.CookieRecord{
				"name": "sid", "value": "abc", "path": "/", "domain": "example.test", "secure": true, "expiry": int64(1900000000),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, cookieRecord(tt.in)); diff != "" {
				t.Errorf("cookie record mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeConsole(t *testing.T) {
	recs, err := decodeConsole(`[
		{"method":"error","message":"boom","timestamp":1700000000123},
		{"method":"warn","message":"careful","timestamp":5},
		{"method":"log","message":"hi {\"a\":1}","timestamp":6},
		{"method":"debug","message":"dbg","timestamp":7}
	]`)
	require.NoError(t, err)
	assert.Equal(t, []schemas.LogRecord{
		{"message": "boom", "level": "SEVERE", "type": "browser", "timestamp": int64(1700000000123)},
		{"message": "careful", "level": "WARNING", "type": "browser", "timestamp": int64(5)},
		{"message": `hi {"a":1}`, "level": "INFO", "type": "browser", "timestamp": int64(6)},
		{"message": "dbg", "level": "DEBUG", "type": "browser", "timestamp": int64(7)},
	}, recs)
	for _, r := range recs {
		assert.NoError(t, schemas.Require("log", r, schemas.LogMessage, schemas.LogLevel, schemas.LogType, schemas.LogTimestamp))
	}

	empty, err := decodeConsole("[]")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = decodeConsole(nil)
	assert.Error(t, err)
	_, err = decodeConsole("not json")
	assert.Error(t, err)
}

func TestCapabilities(t *testing.T) {
	cfg := config.BrowserConfig{
		Headless:      true,
		FirefoxBinary: "/opt/firefox/firefox",
		WindowWidth:   800,
		WindowHeight:  600,
		Args:          []string{"-private"},
		LogTypes:      []string{"browser"},
	}
	caps := Capabilities(cfg)
	assert.Equal(t, "firefox", caps["browserName"])
	assert.NotNil(t, caps["moz:firefoxOptions"])
	// geckodriver rejects the legacy logging capability.
	assert.NotContains(t, caps, "loggingPrefs")
	assert.NotContains(t, caps, "goog:loggingPrefs")
}

func TestDriver_Lookups(t *testing.T) {
	ctx := context.Background()
	li := &fakeWebElement{tag: "li"}
	wd := &fakeWebDriver{found: []selenium.WebElement{li}}
	d := newFakeDriver(t, wd)

	el, err := d.FindElement(ctx, "li")
	require.NoError(t, err)
	tag, err := el.TagName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "li", tag)

	all, err := d.FindElements(ctx, "li")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	wd.found = nil
	_, err = d.FindElement(ctx, ".missing")
	assert.ErrorIs(t, err, schemas.ErrNotFound)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = d.FindElement(cancelled, "li")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestElement_AttributePresence(t *testing.T) {
	ctx := context.Background()
	d := newFakeDriver(t, &fakeWebDriver{})
	el := d.wrap(&fakeWebElement{attrs: map[string]string{"rows": ""}})

	v, present, err := el.Attribute(ctx, "rows")
	require.NoError(t, err)
	assert.True(t, present)
	assert.Empty(t, v)

	_, present, err = el.Attribute(ctx, "cols")
	require.NoError(t, err)
	assert.False(t, present)

	stale := d.wrap(&fakeWebElement{err: &selenium.Error{Err: codeStaleElement}})
	_, _, err = stale.Attribute(ctx, "rows")
	assert.ErrorIs(t, err, schemas.ErrStale)
}

func TestElement_DoubleClick(t *testing.T) {
	wd := &fakeWebDriver{script: func(string) (interface{}, error) { return nil, nil }}
	d := newFakeDriver(t, wd)
	we := &fakeWebElement{id: "e1"}

	require.NoError(t, d.wrap(we).DoubleClick(context.Background()))
	require.Len(t, wd.scripts, 1)
	assert.Contains(t, wd.scripts[0], `"dblclick"`)
	require.Len(t, wd.scriptArgs, 1)
	assert.Same(t, we, wd.scriptArgs[0])

	wd.script = func(string) (interface{}, error) { return nil, &selenium.Error{Err: codeStaleElement} }
	err := d.wrap(we).DoubleClick(context.Background())
	assert.ErrorIs(t, err, schemas.ErrStale)
}

func TestDriver_Cookies(t *testing.T) {
	ctx := context.Background()
	wd := &fakeWebDriver{cookies: map[string]selenium.Cookie{"sid": {Name: "sid", Value: "abc"}}}
	d := newFakeDriver(t, wd)

	rec, ok, err := d.Cookie(ctx, "sid")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", rec["value"])

	_, ok, err = d.Cookie(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, d.DeleteCookie(ctx, "nope"), "deleting an absent cookie is a no-op")
	require.NoError(t, d.DeleteCookie(ctx, "sid"))
	assert.Empty(t, wd.cookies)

	require.NoError(t, d.AddCookie(ctx, schemas.CookieRecord{"name": "n", "value": "v"}))
	require.Len(t, wd.added, 1)
	assert.Equal(t, "n", wd.added[0].Name)
}

func TestDriver_ScriptArgs(t *testing.T) {
	ctx := context.Background()
	we := &fakeWebElement{}
	wd := &fakeWebDriver{}
	d := newFakeDriver(t, wd)

	res, err := d.ExecuteScript(ctx, "return 3", []interface{}{d.wrap(we), "s"})
	require.NoError(t, err)
	assert.Equal(t, float64(3), res)
	require.Len(t, wd.scriptArgs, 2)
	assert.Same(t, we, wd.scriptArgs[0])
}

func TestDriver_ScriptResultElements(t *testing.T) {
	ctx := context.Background()
	wd := &fakeWebDriver{script: func(string) (interface{}, error) {
		return map[string]interface{}{
			"one":  map[string]interface{}{elementKey: "e1"},
			"many": []interface{}{map[string]interface{}{legacyElementKey: "e2"}, "x"},
			"obj":  map[string]interface{}{"ELEMENT": 1},
		}, nil
	}}
	d := newFakeDriver(t, wd)

	res, err := d.ExecuteScript(ctx, "return stuff", nil)
	require.NoError(t, err)
	m, ok := res.(map[string]interface{})
	require.True(t, ok)

	one, ok := m["one"].(*Element)
	require.True(t, ok, "element reference is wrapped")
	assert.Equal(t, "e1", one.we.(*fakeWebElement).id)

	many := m["many"].([]interface{})
	two, ok := many[0].(*Element)
	require.True(t, ok)
	assert.Equal(t, "e2", two.we.(*fakeWebElement).id)
	assert.Equal(t, "x", many[1])

	assert.Equal(t, map[string]interface{}{"ELEMENT": 1}, m["obj"], "non-string id is plain data")
}

func TestDriver_ConsoleLogs(t *testing.T) {
	ctx := context.Background()
	wd := &fakeWebDriver{script: func(body string) (interface{}, error) {
		if body == consoleDrain {
			return `[{"method":"error","message":"x","timestamp":5}]`, nil
		}
		return nil, nil
	}}
	d := newFakeDriver(t, wd)

	require.NoError(t, d.Navigate(ctx, "http://example.test"))
	assert.Equal(t, []string{"http://example.test"}, wd.visited)
	require.Len(t, wd.scripts, 1)
	assert.Equal(t, consoleHook, wd.scripts[0], "navigation installs the console hook")

	logs, err := d.Logs(ctx, schemas.LogTypeBrowser)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "SEVERE", logs[0]["level"])
	assert.Equal(t, int64(5), logs[0]["timestamp"])
	assert.Equal(t, consoleDrain, wd.scripts[1])

	_, err = d.Logs(ctx, "driver")
	assert.ErrorIs(t, err, schemas.ErrInvalidArgument)
}

func TestDriver_ConsoleCaptureOff(t *testing.T) {
	ctx := context.Background()
	wd := &fakeWebDriver{}
	d := newFakeDriver(t, wd)
	d.console = false

	require.NoError(t, d.Navigate(ctx, "http://example.test"))
	assert.Empty(t, wd.scripts, "no hook without a browser log type")

	_, err := d.Logs(ctx, schemas.LogTypeBrowser)
	assert.ErrorIs(t, err, schemas.ErrInvalidArgument)
}

func TestDriver_QuitOnce(t *testing.T) {
	wd := &fakeWebDriver{}
	d := newFakeDriver(t, wd)
	require.NoError(t, d.Quit(context.Background()))
	require.NoError(t, d.Quit(context.Background()))
	assert.Equal(t, 1, wd.quits)
}
