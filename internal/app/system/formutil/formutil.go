// Package formutil coerces loosely-typed client input (multipart form values
// and JSON scalars) into the types stored in MongoDB.
//
// Coercion never fails: unparseable numbers become 0 and unparseable dates
// become the zero time, so callers store a value instead of rejecting the
// request. Use the Parse* variants where a caller must reject bad input.
package formutil

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order by Date.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

// Float converts s to float64, or 0 when s is not a number.
func Float(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// Int converts s to int, or 0 when s is not an integer. Decimal input is
// truncated ("3.7" -> 3).
func Int(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// Date parses s as an ISO date or timestamp, or returns the zero time.
func Date(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Or returns v when it is non-blank, otherwise fallback.
func Or(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// Bool reads common truthy spellings ("true", "1", "yes", "on").
func Bool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

// PositiveInt parses an optional positive integer. An empty string yields def.
// It reports false for non-numeric input or values below 1.
func PositiveInt(s string, def int) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Number is a JSON scalar that accepts either a number or a numeric string.
// Anything else decodes to 0 without error.
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*n = Number(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*n = Number(Float(s))
		return nil
	}
	*n = 0
	return nil
}

// Float64 returns n as float64.
func (n Number) Float64() float64 { return float64(n) }

// Int returns n truncated to int.
func (n Number) Int() int { return int(n) }
