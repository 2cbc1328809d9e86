package store

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"google.golang.org/genproto/googleapis/type/latlng"
)

// AsNumber coerces numeric store values. Strings are parsed the way a
// lenient client would; anything else is not a number.
func AsNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Number returns the numeric value of v, or 0 when absent or non-numeric
func Number(v any) float64 {
	f, _ := AsNumber(v)
	return f
}

// FirstNumber returns the first present numeric value among keys
func FirstNumber(data map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		v, ok := data[k]
		if !ok || v == nil {
			continue
		}
		if f, ok := AsNumber(v); ok {
			return f, true
		}
	}
	return 0, false
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// AsTime coerces timestamp-like store values: time.Time, ISO strings,
// unix-millisecond numbers, and {seconds, nanoseconds} maps.
func AsTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return t, true
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timeLayouts {
			var parsed time.Time
			var err error
			if layout == time.RFC3339Nano {
				parsed, err = time.Parse(layout, s)
			} else {
				parsed, err = time.ParseInLocation(layout, s, time.Local)
			}
			if err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	case map[string]any:
		secs, ok := FirstNumber(t, "seconds", "_seconds")
		if !ok {
			return time.Time{}, false
		}
		nanos, _ := FirstNumber(t, "nanoseconds", "_nanoseconds", "nanos")
		return time.Unix(int64(secs), int64(nanos)), true
	default:
		if ms, ok := AsNumber(v); ok && ms > 0 {
			return time.UnixMilli(int64(ms)), true
		}
	}
	return time.Time{}, false
}

// String returns v when it is a string, or "" otherwise
func String(v any) string {
	s, _ := v.(string)
	return s
}

// FirstString returns the first non-empty string value among keys
func FirstString(data map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := data[k].(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// AsGeoPoint reads a coordinate pair from a Firestore GeoPoint or a
// {lat,lng} / {latitude,longitude} map.
func AsGeoPoint(v any) (lat, lon float64, ok bool) {
	switch p := v.(type) {
	case *latlng.LatLng:
		if p == nil {
			return 0, 0, false
		}
		return p.GetLatitude(), p.GetLongitude(), true
	case map[string]any:
		la, okLat := FirstNumber(p, "lat", "latitude", "_latitude")
		lo, okLon := FirstNumber(p, "lng", "lon", "longitude", "_longitude")
		if okLat || okLon {
			return la, lo, true
		}
	}
	return 0, 0, false
}
