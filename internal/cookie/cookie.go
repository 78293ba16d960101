// Package cookie provides the Cookie value object exchanged with a remote browser
// session and its conversion to and from raw cookie records.
package cookie

import (
	"time"

	"github.com/xkilldash9x/pagewrap/api/schemas"
)

// Cookie is a browser cookie. The name is fixed at construction; every other field is
// optional and only serialized once set.
type Cookie struct {
	name   string
	value  string
	path   *string
	domain *string
	secure *bool
	expiry *int64 // epoch seconds
}

// New creates a cookie with an empty value and no optional fields.
func New(name string) *Cookie {
	return &Cookie{name: name}
}

// WithValue sets the value and returns the cookie for chaining.
func (c *Cookie) WithValue(value string) *Cookie {
	c.value = value
	return c
}

// WithPath sets the path.
func (c *Cookie) WithPath(path string) *Cookie {
	c.path = &path
	return c
}

// WithDomain sets the domain.
func (c *Cookie) WithDomain(domain string) *Cookie {
	c.domain = &domain
	return c
}

// WithSecure sets the secure flag.
func (c *Cookie) WithSecure(secure bool) *Cookie {
	c.secure = &secure
	return c
}

// WithExpiry sets the expiry in epoch seconds.
func (c *Cookie) WithExpiry(epochSeconds int64) *Cookie {
	c.expiry = &epochSeconds
	return c
}

// WithExpiryTime sets the expiry from a time, dropping sub-second precision.
func (c *Cookie) WithExpiryTime(t time.Time) *Cookie {
	return c.WithExpiry(t.Unix())
}

func (c *Cookie) Name() string  { return c.name }
func (c *Cookie) Value() string { return c.value }

func (c *Cookie) Path() (string, bool) {
	if c.path == nil {
		return "", false
	}
	return *c.path, true
}

func (c *Cookie) Domain() (string, bool) {
	if c.domain == nil {
		return "", false
	}
	return *c.domain, true
}

func (c *Cookie) Secure() (bool, bool) {
	if c.secure == nil {
		return false, false
	}
	return *c.secure, true
}

// ExpiryUnix returns the raw expiry in epoch seconds.
func (c *Cookie) ExpiryUnix() (int64, bool) {
	if c.expiry == nil {
		return 0, false
	}
	return *c.expiry, true
}

// ExpiryTime returns the expiry as a local time. It is absent whenever ExpiryUnix is.
func (c *Cookie) ExpiryTime() (time.Time, bool) {
	if c.expiry == nil {
		return time.Time{}, false
	}
	return time.Unix(*c.expiry, 0), true
}

// Record serializes the cookie for submission to a remote session. Name and value are
// always present; optional fields appear only when set.
func (c *Cookie) Record() schemas.CookieRecord {
	rec := schemas.CookieRecord{
		schemas.CookieName:  c.name,
		schemas.CookieValue: c.value,
	}
	if c.path != nil {
		rec[schemas.CookiePath] = *c.path
	}
	if c.domain != nil {
		rec[schemas.CookieDomain] = *c.domain
	}
	if c.secure != nil {
		rec[schemas.CookieSecure] = *c.secure
	}
	if c.expiry != nil {
		rec[schemas.CookieExpiry] = *c.expiry
	}
	return rec
}
