package cdp

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/xkilldash9x/pagewrap/api/schemas"
)

// setCookieParams builds the CDP request for a cookie record. Without a domain the
// cookie is scoped to pageURL.
func setCookieParams(rec schemas.CookieRecord, pageURL string) (*network.SetCookieParams, error) {
	if err := schemas.Require("cookie", rec, schemas.CookieName, schemas.CookieValue); err != nil {
		return nil, err
	}
	name, _, err := schemas.AsString(rec[schemas.CookieName])
	if err != nil {
		return nil, err
	}
	value, _, err := schemas.AsString(rec[schemas.CookieValue])
	if err != nil {
		return nil, err
	}

	p := network.SetCookie(name, value)

	domain, hasDomain, err := schemas.AsString(rec[schemas.CookieDomain])
	if err != nil {
		return nil, err
	}
	if hasDomain && domain != "" {
		p = p.WithDomain(domain)
	} else {
		p = p.WithURL(pageURL)
	}

	path, hasPath, err := schemas.AsString(rec[schemas.CookiePath])
	if err != nil {
		return nil, err
	}
	if hasPath && path != "" {
		p = p.WithPath(path)
	} else if hasDomain {
		p = p.WithPath("/")
	}

	secure, hasSecure, err := schemas.AsBool(rec[schemas.CookieSecure])
	if err != nil {
		return nil, err
	}
	if hasSecure {
		p = p.WithSecure(secure)
	}

	expiry, hasExpiry, err := schemas.AsInt64(rec[schemas.CookieExpiry])
	if err != nil {
		return nil, err
	}
	if hasExpiry {
		at := cdp.TimeSinceEpoch(time.Unix(expiry, 0))
		p = p.WithExpires(&at)
	}
	return p, nil
}

// cookieRecord converts a CDP cookie. Session cookies carry a nil expiry.
func cookieRecord(c *network.Cookie) schemas.CookieRecord {
	var expiry interface{}
	if !c.Session && c.Expires > 0 {
		expiry = int64(c.Expires)
	}
	return schemas.CookieRecord{
		schemas.CookieName:   c.Name,
		schemas.CookieValue:  c.Value,
		schemas.CookiePath:   c.Path,
		schemas.CookieDomain: c.Domain,
		schemas.CookieSecure: c.Secure,
		schemas.CookieExpiry: expiry,
		"httpOnly":           c.HTTPOnly,
	}
}

func (d *Driver) currentURL(ctx context.Context) (string, error) {
	var u string
	if err := d.run(ctx, chromedp.Location(&u)); err != nil {
		return "", classify("location", err)
	}
	return u, nil
}

func (d *Driver) AddCookie(ctx context.Context, rec schemas.CookieRecord) error {
	pageURL, err := d.currentURL(ctx)
	if err != nil {
		return err
	}
	params, err := setCookieParams(rec, pageURL)
	if err != nil {
		return err
	}
	if err := d.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return params.Do(ctx)
	})); err != nil {
		return &schemas.InvalidArgumentError{Reason: fmt.Sprintf("unable to set cookie %q", params.Name), Err: err}
	}
	return nil
}

// pageCookies returns the cookies visible to the current page.
func (d *Driver) pageCookies(ctx context.Context) ([]*network.Cookie, error) {
	pageURL, err := d.currentURL(ctx)
	if err != nil {
		return nil, err
	}
	var cookies []*network.Cookie
	err = d.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = network.GetCookies().WithURLs([]string{pageURL}).Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to get cookies: %w", err)
	}
	return cookies, nil
}

func (d *Driver) Cookies(ctx context.Context) ([]schemas.CookieRecord, error) {
	cookies, err := d.pageCookies(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]schemas.CookieRecord, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, cookieRecord(c))
	}
	return out, nil
}

func (d *Driver) Cookie(ctx context.Context, name string) (schemas.CookieRecord, bool, error) {
	cookies, err := d.pageCookies(ctx)
	if err != nil {
		return nil, false, err
	}
	for _, c := range cookies {
		if c.Name == name {
			return cookieRecord(c), true, nil
		}
	}
	return nil, false, nil
}

func (d *Driver) DeleteCookie(ctx context.Context, name string) error {
	pageURL, err := d.currentURL(ctx)
	if err != nil {
		return err
	}
	err = d.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return network.DeleteCookies(name).WithURL(pageURL).Do(ctx)
	}))
	if err != nil {
		return fmt.Errorf("failed to delete cookie %q: %w", name, err)
	}
	return nil
}

func (d *Driver) DeleteAllCookies(ctx context.Context) error {
	err := d.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return network.ClearBrowserCookies().Do(ctx)
	}))
	if err != nil {
		return fmt.Errorf("failed to clear cookies: %w", err)
	}
	return nil
}
