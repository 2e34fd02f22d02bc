package query

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"taskboard/internal/apperrors"
)

var deadlineLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// CoerceCompleted normalizes a completed flag from a request body. Booleans
// pass through, the text "true"/"false" is folded, and anything else,
// including absence, yields fallback. Deliberately lenient: a garbage value
// never fails the request.
func CoerceCompleted(raw json.RawMessage, fallback bool) bool {
	if len(raw) == 0 {
		return fallback
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fallback
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		if strings.EqualFold(t, "true") {
			return true
		}
		if strings.EqualFold(t, "false") {
			return false
		}
	}
	return fallback
}

// CoerceDeadline normalizes a deadline from a request body. The value is
// interpreted as epoch milliseconds first (a JSON number, or a numeric
// string), then as date text. Anything else fails with ErrInvalidDeadline.
func CoerceDeadline(raw json.RawMessage) (time.Time, error) {
	if len(raw) == 0 {
		return time.Time{}, apperrors.ErrInvalidDeadline
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return time.Time{}, apperrors.ErrInvalidDeadline
	}
	switch t := v.(type) {
	case float64:
		return time.UnixMilli(int64(t)).UTC(), nil
	case string:
		if ms, err := strconv.ParseInt(t, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC(), nil
		}
		for _, layout := range deadlineLayouts {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts.UTC(), nil
			}
		}
	}
	return time.Time{}, apperrors.ErrInvalidDeadline
}
