package verbiage

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/spf13/cast"
)

// maxEpochMillis is the widest instant a JavaScript Date can hold.
const maxEpochMillis = 8.64e15

// Timestamp is a remote change marker. The service sends either an ISO-8601
// string or epoch milliseconds; the literal is kept as received so a stored
// baseline is written back exactly as it came in.
type Timestamp struct {
	raw json.RawMessage
}

// NewTimestamp returns an RFC 3339 string timestamp for t.
func NewTimestamp(t time.Time) Timestamp {
	raw, _ := json.Marshal(t.UTC().Format(time.RFC3339Nano))
	return Timestamp{raw: raw}
}

// EpochTimestamp returns a numeric timestamp of ms milliseconds since the epoch.
func EpochTimestamp(ms int64) Timestamp {
	return Timestamp{raw: json.RawMessage(strconv.FormatInt(ms, 10))}
}

// IsZero reports whether the timestamp was absent or null.
func (t Timestamp) IsZero() bool {
	return len(t.raw) == 0
}

// Time parses the timestamp. The second result is false for absent or
// unparseable values.
func (t Timestamp) Time() (time.Time, bool) {
	if t.IsZero() {
		return time.Time{}, false
	}

	if t.raw[0] == '"' {
		var s string
		if err := json.Unmarshal(t.raw, &s); err != nil {
			return time.Time{}, false
		}
		parsed, err := cast.ToTimeE(s)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	}

	ms, err := strconv.ParseFloat(string(t.raw), 64)
	if err != nil || math.IsNaN(ms) || math.Abs(ms) > maxEpochMillis {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)), true
}

// After reports whether t is chronologically later than u. Unparseable
// values are never after anything, nor is anything after them.
func (t Timestamp) After(u Timestamp) bool {
	a, ok := t.Time()
	if !ok {
		return false
	}
	b, ok := u.Time()
	if !ok {
		return false
	}
	return a.After(b)
}

// String returns the raw literal.
func (t Timestamp) String() string {
	return string(t.raw)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return t.raw, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	*t = rawTimestamp(data)
	return nil
}

// rawTimestamp keeps a copy of data; empty and null literals are absent.
func rawTimestamp(data []byte) Timestamp {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Timestamp{}
	}
	return Timestamp{raw: append(json.RawMessage(nil), trimmed...)}
}
