package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO 8601 calendar date layout used on the wire.
const DateLayout = "2006-01-02"

// Date is a calendar date or timestamp as sent by the API. The zero value
// means the field was absent.
type Date struct {
	time.Time
}

// NewDate returns the UTC midnight of the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts a plain calendar date or an RFC 3339 timestamp.
func ParseDate(raw string) (Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Date{}, nil
	}
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", raw)
	}
	return Date{Time: t.UTC()}, nil
}

// MustParseDate is ParseDate for literals known to be valid.
func MustParseDate(raw string) Date {
	d, err := ParseDate(raw)
	if err != nil {
		panic(err)
	}
	return d
}

// IsSet reports whether the date was present.
func (d Date) IsSet() bool {
	return !d.IsZero()
}

// String formats the date as YYYY-MM-DD, or "" when unset.
func (d Date) String() string {
	if !d.IsSet() {
		return ""
	}
	return d.Format(DateLayout)
}

// UnmarshalJSON accepts a date string, an RFC 3339 timestamp, "" or null.
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON writes the date as YYYY-MM-DD, or null when unset.
func (d Date) MarshalJSON() ([]byte, error) {
	if !d.IsSet() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}
