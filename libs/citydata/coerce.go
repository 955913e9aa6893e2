package citydata

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/golang/geo/s2"
)

func asObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asArray(v any) ([]any, bool) {
	a, ok := v.([]any)
	return a, ok
}

// field returns the first of keys that is present and not JSON null.
func field(obj map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func isNumber(v any) bool {
	switch n := v.(type) {
	case float64:
		return !math.IsNaN(n) && !math.IsInf(n, 0)
	case json.Number:
		_, err := n.Float64()
		return err == nil
	case int, int64:
		return true
	}
	return false
}

// numberOf coerces decoded JSON into a finite float. Numeric strings parse;
// booleans count as 1 and 0. Everything else fails.
func numberOf(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func numberOr(v any, def float64) float64 {
	if f, ok := numberOf(v); ok {
		return f
	}
	return def
}

// stringOf renders scalars as text. Objects, arrays and null become "".
func stringOf(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case json.Number:
		return s.String()
	case int:
		return strconv.Itoa(s)
	case bool:
		return strconv.FormatBool(s)
	}
	return ""
}

func stringField(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := strings.TrimSpace(stringOf(obj[k])); s != "" {
			return s
		}
	}
	return ""
}

func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(strings.TrimSpace(b), "true")
	}
	f, ok := numberOf(v)
	return ok && f != 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// roundHalfUp rounds .5 towards positive infinity, the way dashboard
// counters have always been rounded.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ValidCoordinates reports whether lat/lon form a plottable point: both
// finite and inside the WGS84 range.
func ValidCoordinates(lat, lon float64) bool {
	return s2.LatLngFromDegrees(lat, lon).IsValid()
}

// coordinatesOf extracts a coordinate pair from the shapes the backend has
// used over time: a two-element coordinates array, latitude/longitude, or
// lat with lon or lng. A missing or invalid pair yields nil.
func coordinatesOf(obj map[string]any) *Coordinates {
	if pair, ok := asArray(obj["coordinates"]); ok && len(pair) == 2 {
		return pointOf(pair[0], pair[1])
	}
	if loc, ok := asObject(obj["location"]); ok {
		if c := coordinatesOf(loc); c != nil {
			return c
		}
	}
	latRaw, ok := field(obj, "latitude", "lat")
	if !ok {
		return nil
	}
	lonRaw, ok := field(obj, "longitude", "lon", "lng")
	if !ok {
		return nil
	}
	return pointOf(latRaw, lonRaw)
}

func pointOf(latRaw, lonRaw any) *Coordinates {
	lat, ok := numberOf(latRaw)
	if !ok {
		return nil
	}
	lon, ok := numberOf(lonRaw)
	if !ok {
		return nil
	}
	if !ValidCoordinates(lat, lon) {
		return nil
	}
	return &Coordinates{Lat: lat, Lon: lon}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// timeOf parses backend timestamps. Zone-less values are read as UTC and
// bare numbers as Unix milliseconds. Failure yields the zero time.
func timeOf(v any) time.Time {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC()
			}
		}
		return time.Time{}
	}
	if isNumber(v) {
		ms, _ := numberOf(v)
		return time.UnixMilli(int64(ms)).UTC()
	}
	return time.Time{}
}

// idSequence numbers the id-less records of one batch: the third record
// without an id gets PREFIX-003 however many identified records precede it.
type idSequence struct {
	prefix string
	next   int
}

func newIDSequence(prefix string) *idSequence {
	return &idSequence{prefix: prefix}
}

// or returns id when set, else the next synthesized id.
func (s *idSequence) or(id string) string {
	if id != "" {
		return id
	}
	s.next++
	return s.prefix + "-" + leftPad(strconv.Itoa(s.next), 3)
}

func leftPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
