package cookie_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	fuzz "github.com/AdaLogics/go-fuzz-headers"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/pagewrap/api/schemas"
	"github.com/xkilldash9x/pagewrap/internal/cookie"
)

func TestNew_Defaults(t *testing.T) {
	c := cookie.New("sid")

	assert.Equal(t, "sid", c.Name())
	assert.Equal(t, "", c.Value())

	_, ok := c.Path()
	assert.False(t, ok)
	_, ok = c.Domain()
	assert.False(t, ok)
	_, ok = c.Secure()
	assert.False(t, ok)
	_, ok = c.ExpiryUnix()
	assert.False(t, ok)
	_, ok = c.ExpiryTime()
	assert.False(t, ok, "date form must be absent when the integer is absent")

	assert.Equal(t, schemas.CookieRecord{"name": "sid", "value": ""}, c.Record())
}

func TestBuilder_ChainsOnSameInstance(t *testing.T) {
	c := cookie.New("sid")
	same := c.WithValue("abc").WithPath("/").WithDomain("example.com").WithSecure(false).WithExpiry(1700000000)
	require.Same(t, c, same)

	want := schemas.CookieRecord{
		"name":   "sid",
		"value":  "abc",
		"path":   "/",
		"domain": "example.com",
		"secure": false,
		"expiry": int64(1700000000),
	}
	if diff := cmp.Diff(want, c.Record()); diff != "" {
		t.Errorf("Record() mismatch (-want +got):\n%s", diff)
	}
}

func TestRecord_OmitsUnsetOptionalFields(t *testing.T) {
	rec := cookie.New("a").WithValue("1").WithDomain("example.com").Record()

	assert.Len(t, rec, 3)
	assert.Contains(t, rec, "domain")
	assert.NotContains(t, rec, "path")
	assert.NotContains(t, rec, "secure")
	assert.NotContains(t, rec, "expiry")
}

func TestExpiry_DateConversionIsLossless(t *testing.T) {
	at := time.Date(2024, time.March, 5, 10, 30, 0, 0, time.UTC)
	c := cookie.New("a").WithExpiryTime(at.Add(750 * time.Millisecond))

	unix, ok := c.ExpiryUnix()
	require.True(t, ok)
	assert.Equal(t, at.Unix(), unix)

	tm, ok := c.ExpiryTime()
	require.True(t, ok)
	assert.True(t, tm.Equal(at))
	assert.Equal(t, unix, cookie.New("b").WithExpiryTime(tm).Record()["expiry"])
}

func TestFromRecord_RoundTrip(t *testing.T) {
	full := schemas.CookieRecord{
		"name":   "sid",
		"value":  "abc",
		"path":   "/app",
		"domain": ".example.com",
		"secure": true,
		"expiry": int64(1700000000),
	}

	c, err := cookie.FromRecord(full)
	require.NoError(t, err)

	if diff := cmp.Diff(full, c.Record()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFromRecord_NullValuesStayAbsent(t *testing.T) {
	c, err := cookie.FromRecord(schemas.CookieRecord{
		"name":   "session",
		"value":  "v",
		"domain": "example.com",
		"secure": nil,
		"expiry": nil,
	})
	require.NoError(t, err)

	assert.Equal(t, schemas.CookieRecord{"name": "session", "value": "v", "domain": "example.com"}, c.Record())
}

func TestFromRecord_NumericKinds(t *testing.T) {
	tests := []struct {
		name   string
		expiry interface{}
	}{
		{"int", int(1700000000)},
		{"uint", uint(1700000000)},
		{"float64 from JSON", float64(1700000000)},
		{"json.Number", json.Number("1700000000")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := cookie.FromRecord(schemas.CookieRecord{
				"name": "a", "value": "", "domain": "d", "secure": false, "expiry": tt.expiry,
			})
			require.NoError(t, err)
			exp, ok := c.ExpiryUnix()
			require.True(t, ok)
			assert.Equal(t, int64(1700000000), exp)
		})
	}
}

func TestFromRecord_MissingField(t *testing.T) {
	base := func() schemas.CookieRecord {
		return schemas.CookieRecord{
			"name": "a", "value": "b", "domain": "d", "secure": true, "expiry": 1,
		}
	}

	for _, key := range []string{"name", "domain", "value", "secure", "expiry"} {
		t.Run(key, func(t *testing.T) {
			rec := base()
			delete(rec, key)

			c, err := cookie.FromRecord(rec)
			require.Error(t, err)
			assert.Nil(t, c)
			assert.ErrorIs(t, err, schemas.ErrMissingField)

			var mf *schemas.MissingFieldError
			require.True(t, errors.As(err, &mf))
			assert.Equal(t, key, mf.Field)
		})
	}
}

func TestFromRecord_PathIsOptional(t *testing.T) {
	c, err := cookie.FromRecord(schemas.CookieRecord{
		"name": "a", "value": "b", "domain": "d", "secure": true, "expiry": 1,
	})
	require.NoError(t, err)
	_, ok := c.Path()
	assert.False(t, ok)
}

func TestFromRecord_WrongTypes(t *testing.T) {
	_, err := cookie.FromRecord(schemas.CookieRecord{
		"name": "a", "value": "b", "domain": "d", "secure": "yes", "expiry": 1,
	})
	assert.ErrorIs(t, err, schemas.ErrInvalidArgument)

	_, err = cookie.FromRecord(schemas.CookieRecord{
		"name": nil, "value": "b", "domain": "d", "secure": true, "expiry": 1,
	})
	assert.ErrorIs(t, err, schemas.ErrInvalidArgument)
}

func TestFromRecords(t *testing.T) {
	cookies, err := cookie.FromRecords([]schemas.CookieRecord{
		{"name": "a", "value": "1", "domain": "d", "secure": false, "expiry": nil},
		{"name": "b", "value": "2", "domain": "d", "secure": true, "expiry": 10},
	})
	require.NoError(t, err)
	require.Len(t, cookies, 2)
	assert.Equal(t, "b", cookies[1].Name())

	_, err = cookie.FromRecords([]schemas.CookieRecord{{"name": "broken"}})
	assert.ErrorIs(t, err, schemas.ErrMissingField)
}

// FuzzFromRecord checks that any record either parses into a cookie whose
// serialization parses back to the same record, or fails with a classified error.
func FuzzFromRecord(f *testing.F) {
	f.Add([]byte("seed-cookie-data"))
	f.Fuzz(func(t *testing.T, data []byte) {
		c := fuzz.NewConsumer(data)
		rec := schemas.CookieRecord{}
		for _, key := range []string{"name", "value", "path", "domain", "secure", "expiry"} {
			include, err := c.GetBool()
			if err != nil {
				return
			}
			if !include {
				continue
			}
			switch key {
			case "secure":
				b, err := c.GetBool()
				if err != nil {
					return
				}
				rec[key] = b
			case "expiry":
				n, err := c.GetInt()
				if err != nil {
					return
				}
				rec[key] = n
			default:
				s, err := c.GetString()
				if err != nil {
					return
				}
				rec[key] = s
			}
		}

		parsed, err := cookie.FromRecord(rec)
		if err != nil {
			if !errors.Is(err, schemas.ErrMissingField) && !errors.Is(err, schemas.ErrInvalidArgument) {
				t.Fatalf("unclassified error: %v", err)
			}
			return
		}
		again, err := cookie.FromRecord(withRequired(parsed.Record()))
		require.NoError(t, err)
		assert.Equal(t, parsed.Record(), again.Record())
	})
}

// withRequired fills the keys a serialized cookie may omit with nil so it can be parsed.
func withRequired(rec schemas.CookieRecord) schemas.CookieRecord {
	for _, k := range []string{"domain", "secure", "expiry"} {
		if _, ok := rec[k]; !ok {
			rec[k] = nil
		}
	}
	return rec
}
