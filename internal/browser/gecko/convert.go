package gecko

import (
	"encoding/json"
	"fmt"

	"github.com/tebeka/selenium"

	"github.com/xkilldash9x/pagewrap/api/schemas"
)

// toSeleniumCookie converts a cookie record. name and value are required; an
// absent or non-positive expiry leaves a session cookie.
func toSeleniumCookie(rec schemas.CookieRecord) (*selenium.Cookie, error) {
	if err := schemas.Require("cookie", rec, schemas.CookieName, schemas.CookieValue); err != nil {
		return nil, err
	}
	c := &selenium.Cookie{}
	var err error
	if c.Name, _, err = schemas.AsString(rec[schemas.CookieName]); err != nil {
		return nil, err
	}
	if c.Value, _, err = schemas.AsString(rec[schemas.CookieValue]); err != nil {
		return nil, err
	}
	if c.Path, _, err = schemas.AsString(rec[schemas.CookiePath]); err != nil {
		return nil, err
	}
	if c.Domain, _, err = schemas.AsString(rec[schemas.CookieDomain]); err != nil {
		return nil, err
	}
	if c.Secure, _, err = schemas.AsBool(rec[schemas.CookieSecure]); err != nil {
		return nil, err
	}
	expiry, _, err := schemas.AsInt64(rec[schemas.CookieExpiry])
	if err != nil {
		return nil, err
	}
	if expiry > 0 {
		c.Expiry = uint(expiry)
	}
	return c, nil
}

// cookieRecord converts a client cookie. Expiry 0 is a session cookie and maps to nil.
func cookieRecord(c selenium.Cookie) schemas.CookieRecord {
	var expiry interface{}
	if c.Expiry > 0 {
		expiry = int64(c.Expiry)
	}
	return schemas.CookieRecord{
		schemas.CookieName:   c.Name,
		schemas.CookieValue:  c.Value,
		schemas.CookiePath:   c.Path,
		schemas.CookieDomain: c.Domain,
		schemas.CookieSecure: c.Secure,
		schemas.CookieExpiry: expiry,
	}
}

// scriptArgs swaps this package's elements for the client elements they wrap.
func scriptArgs(args []interface{}) []interface{} {
	out := make([]interface{}, len(args))
	for i, a := range args {
		if el, ok := a.(*Element); ok {
			out[i] = el.we
			continue
		}
		out[i] = a
	}
	return out
}

// Keys under which a remote end serializes an element reference.
const (
	elementKey       = "element-6066-11e4-a52e-4f735466cecf"
	legacyElementKey = "ELEMENT"
)

// scriptResult replaces serialized element references in a script result with
// elements, descending into arrays and objects.
func (d *Driver) scriptResult(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case []interface{}:
		for i := range t {
			r, err := d.scriptResult(t[i])
			if err != nil {
				return nil, err
			}
			t[i] = r
		}
		return t, nil
	case map[string]interface{}:
		if isElementReference(t) {
			data, err := json.Marshal(map[string]interface{}{"value": t})
			if err != nil {
				return nil, err
			}
			we, err := d.wd.DecodeElement(data)
			if err != nil {
				return nil, fmt.Errorf("failed to decode element in script result: %w", err)
			}
			return d.wrap(we), nil
		}
		for k := range t {
			r, err := d.scriptResult(t[k])
			if err != nil {
				return nil, err
			}
			t[k] = r
		}
		return t, nil
	default:
		return v, nil
	}
}

func isElementReference(m map[string]interface{}) bool {
	for k, v := range m {
		if k != elementKey && k != legacyElementKey {
			return false
		}
		if _, ok := v.(string); !ok {
			return false
		}
	}
	return len(m) > 0
}
