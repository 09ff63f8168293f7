package payload

import (
	"encoding/json"
	"strconv"
	"time"
)

// Helpers for decoding tri-state DTO payloads. Fields may arrive under a
// snake_case or camelCase key; the first listed key (snake_case) wins when
// both are present. A missing key or an explicit null both decode to nil.

func pickRaw(raw map[string]json.RawMessage, keys ...string) (json.RawMessage, bool) {
	for _, key := range keys {
		if v, ok := raw[key]; ok && string(v) != "null" {
			return v, true
		}
	}
	return nil, false
}

func PickString(raw map[string]json.RawMessage, keys ...string) (*string, error) {
	v, ok := pickRaw(raw, keys...)
	if !ok {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// PickInt64 coerces numeric strings to integers, matching the historical
// wire format.
func PickInt64(raw map[string]json.RawMessage, keys ...string) (*int64, error) {
	v, ok := pickRaw(raw, keys...)
	if !ok {
		return nil, nil
	}
	var n int64
	if err := json.Unmarshal(v, &n); err == nil {
		return &n, nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return nil, err
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func PickFloat64(raw map[string]json.RawMessage, keys ...string) (*float64, error) {
	v, ok := pickRaw(raw, keys...)
	if !ok {
		return nil, nil
	}
	var f float64
	if err := json.Unmarshal(v, &f); err == nil {
		return &f, nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return nil, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// PickDate accepts YYYY-MM-DD and RFC 3339 strings.
func PickDate(raw map[string]json.RawMessage, keys ...string) (*time.Time, error) {
	v, ok := pickRaw(raw, keys...)
	if !ok {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return nil, err
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseDate parses the date formats the API accepts.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
