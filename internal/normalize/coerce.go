package normalize

import (
	"math"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nhle/content-hub/internal/model"
)

// isoLayout matches JavaScript's Date.toISOString output.
const isoLayout = "2006-01-02T15:04:05.000Z"

// FormatTime renders t the way timestamps are stored on documents.
func FormatTime(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case primitive.ObjectID:
		return s.Hex()
	default:
		return ""
	}
}

// asStringPtr returns nil when v is absent or not a string.
func asStringPtr(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

// asFloat returns v as a finite number. NaN and infinities are rejected.
func asFloat(v any) (float64, bool) {
	f, ok := asNumber(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

// asSlice returns v as a slice, or an empty slice if v is not one.
func asSlice(v any) []any {
	switch s := v.(type) {
	case []any:
		return s
	case primitive.A:
		return []any(s)
	case []map[string]any:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out
	case []string:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out
	default:
		return []any{}
	}
}

// asMap returns v as a map, or nil if v is not one.
func asMap(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	case model.Document:
		return m
	case primitive.M:
		return m
	case primitive.D:
		out := make(map[string]any, len(m))
		for _, e := range m {
			out[e.Key] = e.Value
		}
		return out
	default:
		return nil
	}
}

func asStrings(v any) []string {
	items := asSlice(v)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// asTime accepts an ISO string, a {seconds, nanoseconds} map, a native
// timestamp or epoch milliseconds.
func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, !t.IsZero()
	case primitive.DateTime:
		return t.Time(), true
	case primitive.Timestamp:
		return time.Unix(int64(t.T), 0), true
	case string:
		if t == "" {
			return time.Time{}, false
		}
		return parseISO(t)
	}

	if m := asMap(v); m != nil {
		secs, ok := asFloat(m["seconds"])
		if !ok {
			secs, ok = asFloat(m["_seconds"])
		}
		if !ok {
			return time.Time{}, false
		}
		nanos, _ := asFloat(m["nanoseconds"])
		if nanos == 0 {
			nanos, _ = asFloat(m["_nanoseconds"])
		}
		return time.Unix(int64(secs), int64(nanos)), true
	}

	if ms, ok := asFloat(v); ok {
		return time.UnixMilli(int64(ms)), true
	}
	return time.Time{}, false
}

// isoLayouts are tried in order. Strings without a zone are read as UTC.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	time.DateTime,
	time.DateOnly,
}

func parseISO(s string) (time.Time, bool) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// timestamp normalizes v to an ISO-8601 string. Unparseable strings are kept
// as they are; absent values become now, so a document without timestamps
// looks freshly created on every read.
func timestamp(v any, now func() time.Time) string {
	if t, ok := asTime(v); ok {
		return FormatTime(t)
	}
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return FormatTime(now())
}

func round(f float64) int {
	return int(math.Round(f))
}
