package schemas_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/pagewrap/api/schemas"
)

// -- Backend --

func TestParseBackend(t *testing.T) {
	tests := []struct {
		in   string
		want schemas.Backend
	}{
		{"firefox", schemas.Firefox},
		{"Gecko", schemas.Firefox},
		{" chrome ", schemas.Chrome},
		{"CHROMIUM", schemas.Chrome},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := schemas.ParseBackend(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := schemas.ParseBackend("safari")
	assert.ErrorIs(t, err, schemas.ErrInvalidArgument)
}

func TestBackend_String(t *testing.T) {
	assert.Equal(t, "firefox", schemas.Firefox.String())
	assert.Equal(t, "chrome", schemas.Chrome.String())
	assert.Equal(t, "unknown", schemas.Backend(9).String())
	// Numeric values are part of the configuration surface.
	assert.Equal(t, 0, int(schemas.Firefox))
	assert.Equal(t, 1, int(schemas.Chrome))
}

// -- Errors --

func TestErrorKinds(t *testing.T) {
	cause := errors.New("backend said no")
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"not found", schemas.NewElementNotFoundError("#x", cause), schemas.ErrNotFound},
		{"stale", schemas.NewStaleElementError("click", cause), schemas.ErrStale},
		{"missing field", &schemas.MissingFieldError{Record: "cookie", Field: "name"}, schemas.ErrMissingField},
		{"invalid argument", schemas.NewInvalidArgumentError("bad %d", 1), schemas.ErrInvalidArgument},
	}

	all := []error{schemas.ErrNotFound, schemas.ErrStale, schemas.ErrMissingField, schemas.ErrInvalidArgument}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			for _, k := range all {
				assert.Equal(t, k == tt.kind, errors.Is(wrapped, k), "kind %v", k)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "element not found matching selector '#x'", schemas.NewElementNotFoundError("#x", nil).Error())
	assert.Equal(t, "click: stale element reference", schemas.NewStaleElementError("click", nil).Error())
	assert.Equal(t, "stale element reference", (&schemas.StaleElementError{}).Error())
	assert.Equal(t, `log record: missing required field "level"`, (&schemas.MissingFieldError{Record: "log", Field: "level"}).Error())
	assert.Equal(t, "invalid argument: bad 1", schemas.NewInvalidArgumentError("bad %d", 1).Error())
}

func TestErrorsUnwrapCause(t *testing.T) {
	cause := errors.New("root")
	assert.ErrorIs(t, schemas.NewElementNotFoundError("#x", cause), cause)
	assert.ErrorIs(t, schemas.NewStaleElementError("text", cause), cause)
	assert.ErrorIs(t, &schemas.InvalidArgumentError{Reason: "r", Err: cause}, cause)
}

// -- Records --

func TestRequire(t *testing.T) {
	rec := map[string]interface{}{"a": 1, "b": nil}
	assert.NoError(t, schemas.Require("thing", rec, "a", "b"))

	err := schemas.Require("thing", rec, "a", "c", "d")
	var mf *schemas.MissingFieldError
	require.ErrorAs(t, err, &mf)
	assert.Equal(t, "thing", mf.Record)
	assert.Equal(t, "c", mf.Field)
}

func TestAsString(t *testing.T) {
	s, ok, err := schemas.AsString("v")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", s)

	_, ok, err = schemas.AsString(nil)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = schemas.AsString(42)
	assert.ErrorIs(t, err, schemas.ErrInvalidArgument)
}

func TestAsBool(t *testing.T) {
	b, ok, err := schemas.AsBool(true)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, b)

	_, ok, err = schemas.AsBool(nil)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = schemas.AsBool("true")
	assert.ErrorIs(t, err, schemas.ErrInvalidArgument)
}

func TestAsInt64(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want int64
	}{
		{"int", 7, 7},
		{"int32", int32(-3), -3},
		{"uint16", uint16(9), 9},
		{"float truncates", 1700000000.9, 1700000000},
		{"json integer", json.Number("1712345678901"), 1712345678901},
		{"json float", json.Number("12.75"), 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := schemas.AsInt64(tt.in)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok, err := schemas.AsInt64(nil)
	require.NoError(t, err)
	assert.False(t, ok)

	for _, bad := range []interface{}{"12", math.NaN(), math.Inf(1), uint64(math.MaxUint64), json.Number("x")} {
		_, _, err := schemas.AsInt64(bad)
		assert.ErrorIs(t, err, schemas.ErrInvalidArgument, "%v", bad)
	}
}
