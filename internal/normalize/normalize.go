// Package normalize maps between remote rows and the canonical in-memory
// entities. Every function is pure and total: missing or malformed input
// degrades to defaults rather than an error.
package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// TimeLayout is the ISO-8601 form used for every timestamp string.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// FormatTime renders t in TimeLayout (UTC).
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// String coerces a row value to a string. Nil and unsupported values yield
// the empty string.
func String(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case [16]byte:
		return uuid.UUID(x).String()
	case uuid.UUID:
		return x.String()
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return FormatTime(x)
	case int:
		return strconv.Itoa(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		if x == math.Trunc(x) && !math.IsInf(x, 0) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case fmt.Stringer:
		return x.String()
	default:
		return ""
	}
}

// Truthy coerces v with double-negation rules: nil, false, zero numbers,
// NaN and the empty string are false; everything else is true, including
// the strings "false" and "0".
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case int16:
		return x != 0
	case int32:
		return x != 0
	case int64:
		return x != 0
	case float32:
		return x != 0 && !math.IsNaN(float64(x))
	case float64:
		return x != 0 && !math.IsNaN(x)
	default:
		return true
	}
}

// Strings coerces a list-valued column to a string slice. It accepts
// []string, []any, and JSON text or bytes. The result is never nil.
func Strings(v any) []string {
	out := []string{}
	switch x := v.(type) {
	case []string:
		out = append(out, x...)
	case []any:
		for _, item := range x {
			if s := String(item); s != "" {
				out = append(out, s)
			}
		}
	case string, []byte:
		var decoded []any
		if err := json.Unmarshal(rawJSON(x), &decoded); err == nil {
			return Strings(decoded)
		}
	}
	return out
}

// first returns the first present key of row, in order.
func first(row map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := row[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// text returns the first present key coerced to a string, or def.
func text(row map[string]any, def string, keys ...string) string {
	v, ok := first(row, keys...)
	if !ok {
		return def
	}
	s := String(v)
	if s == "" {
		return def
	}
	return s
}

func rawJSON(v any) []byte {
	switch x := v.(type) {
	case string:
		return []byte(x)
	case []byte:
		return x
	default:
		return nil
	}
}
