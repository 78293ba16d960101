package schemas

import (
	"encoding/json"
	"fmt"
	"math"
)

// Require checks that every key is present in rec (a nil value still counts as present)
// and returns a MissingFieldError for the first one that is not.
func Require(kind string, rec map[string]interface{}, keys ...string) error {
	for _, k := range keys {
		if _, ok := rec[k]; !ok {
			return &MissingFieldError{Record: kind, Field: k}
		}
	}
	return nil
}

// AsString converts a record value to a string. ok is false for nil.
func AsString(v interface{}) (s string, ok bool, err error) {
	switch t := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return t, true, nil
	case fmt.Stringer:
		return t.String(), true, nil
	default:
		return "", false, NewInvalidArgumentError("expected string, got %T", v)
	}
}

// AsBool converts a record value to a bool. ok is false for nil.
func AsBool(v interface{}) (b bool, ok bool, err error) {
	switch t := v.(type) {
	case nil:
		return false, false, nil
	case bool:
		return t, true, nil
	default:
		return false, false, NewInvalidArgumentError("expected bool, got %T", v)
	}
}

// AsInt64 converts any integer or float kind (including json.Number) to an int64,
// truncating fractions. ok is false for nil.
func AsInt64(v interface{}) (n int64, ok bool, err error) {
	switch t := v.(type) {
	case nil:
		return 0, false, nil
	case int:
		return int64(t), true, nil
	case int8:
		return int64(t), true, nil
	case int16:
		return int64(t), true, nil
	case int32:
		return int64(t), true, nil
	case int64:
		return t, true, nil
	case uint:
		return int64(t), true, nil
	case uint8:
		return int64(t), true, nil
	case uint16:
		return int64(t), true, nil
	case uint32:
		return int64(t), true, nil
	case uint64:
		if t > math.MaxInt64 {
			return 0, false, NewInvalidArgumentError("integer %d overflows int64", t)
		}
		return int64(t), true, nil
	case float32:
		return int64(t), true, nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false, NewInvalidArgumentError("non-finite number %v", t)
		}
		return int64(t), true, nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, true, nil
		}
		f, err := t.Float64()
		if err != nil {
			return 0, false, NewInvalidArgumentError("malformed number %q", t.String())
		}
		return int64(f), true, nil
	default:
		return 0, false, NewInvalidArgumentError("expected number, got %T", v)
	}
}
