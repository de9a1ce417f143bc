package subscribers

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// coerceCount turns whatever the API put under the count key into an integer.
// Numbers truncate toward zero, strings use their leading numeric part,
// booleans are 1 or 0, and anything else that is empty or null is 0.
func coerceCount(raw json.RawMessage) int64 {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return 0
	}

	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if f, err := t.Float64(); err == nil {
			return truncate(f)
		}
		return 0
	case string:
		return coerceString(t)
	case bool:
		if t {
			return 1
		}
		return 0
	case []any:
		if len(t) > 0 {
			return 1
		}
		return 0
	case map[string]any:
		if len(t) > 0 {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func coerceString(s string) int64 {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	if trimmed := strings.TrimRightFunc(s, unicode.IsSpace); isDecimal(trimmed) {
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return truncate(f)
		}
	}

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}

	// out of range values come back saturated, which is what we want
	n, _ := strconv.ParseInt(s[:end], 10, 64)
	return n
}

// isDecimal reports whether s only holds characters of a plain decimal number.
func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789+-.eE", r) {
			return false
		}
	}
	return true
}

func truncate(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}
