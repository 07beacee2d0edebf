package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// legacyTimestampLayouts are the naive ISO layouts written by older data files.
// They carry no zone and are read as UTC.
var legacyTimestampLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Timestamp is a UTC instant persisted as an ISO string. Unix epoch numbers
// are accepted on read; an epoch of 0 decodes to the zero Timestamp.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t as a UTC Timestamp pointer
func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Time: t.UTC()}
}

// ParseTimestamp parses RFC3339 or the legacy naive ISO layouts
func ParseTimestamp(value string) (Timestamp, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return Timestamp{Time: t.UTC()}, nil
	}
	for _, layout := range legacyTimestampLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// FromEpoch converts unix seconds to a Timestamp. Zero and negative values
// mean "never" and give the zero Timestamp.
func FromEpoch(seconds float64) Timestamp {
	if seconds <= 0 {
		return Timestamp{}
	}
	whole := math.Floor(seconds)
	return Timestamp{Time: time.Unix(int64(whole), int64((seconds-whole)*1e9)).UTC()}
}

// OrNil returns nil for a nil or zero Timestamp
func (t *Timestamp) OrNil() *Timestamp {
	if t == nil || t.IsZero() {
		return nil
	}
	return t
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.UTC().Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] != '"' {
		var epoch float64
		if err := json.Unmarshal(data, &epoch); err != nil {
			return fmt.Errorf("timestamp must be a string or unix epoch: %w", err)
		}
		*t = FromEpoch(epoch)
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string or unix epoch: %w", err)
	}

	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Since returns the time elapsed from t to now, or zero for a nil timestamp
func (t *Timestamp) Since(now time.Time) time.Duration {
	if t == nil {
		return 0
	}
	return now.Sub(t.Time)
}
