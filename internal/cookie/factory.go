package cookie

import (
	"fmt"

	"github.com/xkilldash9x/pagewrap/api/schemas"
)

const recordKind = "cookie"

// requiredKeys must all be present in a record read back from a session. secure is
// required even though Cookie treats it as optional.
var requiredKeys = []string{
	schemas.CookieName,
	schemas.CookieDomain,
	schemas.CookieValue,
	schemas.CookieSecure,
	schemas.CookieExpiry,
}

// FromRecord builds a Cookie from a raw record. A key that is present with a nil value
// leaves the corresponding optional field unset.
func FromRecord(rec schemas.CookieRecord) (*Cookie, error) {
	if err := schemas.Require(recordKind, rec, requiredKeys...); err != nil {
		return nil, err
	}

	name, ok, err := schemas.AsString(rec[schemas.CookieName])
	if err != nil {
		return nil, fmt.Errorf("cookie name: %w", err)
	}
	if !ok {
		return nil, schemas.NewInvalidArgumentError("cookie name must not be null")
	}
	c := New(name)

	if v, ok, err := schemas.AsString(rec[schemas.CookieValue]); err != nil {
		return nil, fmt.Errorf("cookie %q value: %w", name, err)
	} else if ok {
		c.WithValue(v)
	}

	if d, ok, err := schemas.AsString(rec[schemas.CookieDomain]); err != nil {
		return nil, fmt.Errorf("cookie %q domain: %w", name, err)
	} else if ok {
		c.WithDomain(d)
	}

	if s, ok, err := schemas.AsBool(rec[schemas.CookieSecure]); err != nil {
		return nil, fmt.Errorf("cookie %q secure: %w", name, err)
	} else if ok {
		c.WithSecure(s)
	}

	if e, ok, err := schemas.AsInt64(rec[schemas.CookieExpiry]); err != nil {
		return nil, fmt.Errorf("cookie %q expiry: %w", name, err)
	} else if ok {
		c.WithExpiry(e)
	}

	// path is optional on read.
	if raw, present := rec[schemas.CookiePath]; present {
		p, ok, err := schemas.AsString(raw)
		if err != nil {
			return nil, fmt.Errorf("cookie %q path: %w", name, err)
		}
		if ok {
			c.WithPath(p)
		}
	}

	return c, nil
}

// FromRecords converts a list of records, failing on the first invalid one.
func FromRecords(recs []schemas.CookieRecord) ([]*Cookie, error) {
	cookies := make([]*Cookie, 0, len(recs))
	for i, rec := range recs {
		c, err := FromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("cookie record %d: %w", i, err)
		}
		cookies = append(cookies, c)
	}
	return cookies, nil
}
