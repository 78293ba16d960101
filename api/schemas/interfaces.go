package schemas

import (
	"context"
)

// -- Remote Session Interfaces --

// RemoteElement is a handle to an element living in a remote page. The handle is
// shared, not owned: its lifetime is controlled by the remote session, and calls
// against an element that has left the page fail with ErrStale.
//
//go:generate mockery --name RemoteElement --output ../../internal/mocks --outpkg mocks
type RemoteElement interface {
	// FindElement returns the single first descendant matching a CSS selector, or an
	// ErrNotFound error when nothing matches.
	FindElement(ctx context.Context, selector string) (RemoteElement, error)
	// FindElements returns every descendant matching a CSS selector. No match is not
	// an error.
	FindElements(ctx context.Context, selector string) ([]RemoteElement, error)
	// Parent returns the element's parent element.
	Parent(ctx context.Context) (RemoteElement, error)

	Click(ctx context.Context) error
	DoubleClick(ctx context.Context) error
	Clear(ctx context.Context) error
	SendKeys(ctx context.Context, keys string) error

	// TagName returns the lower-case tag name.
	TagName(ctx context.Context) (string, error)
	// Text returns the rendered (visible) text.
	Text(ctx context.Context) (string, error)
	// Attribute returns the attribute value and whether the attribute exists.
	Attribute(ctx context.Context, name string) (string, bool, error)
	// CSSValue returns the computed value of a style property.
	CSSValue(ctx context.Context, property string) (string, error)
	// IsSelected reports the selection/checked state of options, checkboxes and radios.
	IsSelected(ctx context.Context) (bool, error)
}

// RemoteDriver is one exclusively owned remote browser session. Every call blocks
// until the remote side answers.
//
//go:generate mockery --name RemoteDriver --output ../../internal/mocks --outpkg mocks
type RemoteDriver interface {
	Navigate(ctx context.Context, url string) error
	FindElement(ctx context.Context, selector string) (RemoteElement, error)
	FindElements(ctx context.Context, selector string) ([]RemoteElement, error)
	// ExecuteScript runs a script body in the page; args are exposed as `arguments`.
	ExecuteScript(ctx context.Context, script string, args []interface{}) (interface{}, error)

	AddCookie(ctx context.Context, cookie CookieRecord) error
	// DeleteCookie removes a cookie by name. Deleting an unknown cookie is not an error.
	DeleteCookie(ctx context.Context, name string) error
	DeleteAllCookies(ctx context.Context) error
	// Cookie returns the named cookie and whether it exists.
	Cookie(ctx context.Context, name string) (CookieRecord, bool, error)
	Cookies(ctx context.Context) ([]CookieRecord, error)

	// Logs returns the raw log records of the given type collected since the last call.
	Logs(ctx context.Context, logType string) ([]LogRecord, error)

	// Quit terminates the remote session.
	Quit(ctx context.Context) error
}
