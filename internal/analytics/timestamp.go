package analytics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// Timestamp decodes the backend's ISO-8601 datetimes. Values without a zone
// are wall-clock times of the backend and are marked as naive until pinned
// to a location with In.
type Timestamp struct {
	time.Time
	naive bool
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*t = Timestamp{}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("decoding timestamp: %w", err)
	}

	if s == "" {
		*t = Timestamp{}
		return nil
	}

	if v, err := time.Parse(time.RFC3339Nano, s); err == nil {
		*t = Timestamp{Time: v}
		return nil
	}

	for _, layout := range timestampLayouts[1:] {
		if v, err := time.Parse(layout, s); err == nil {
			*t = Timestamp{Time: v, naive: true}
			return nil
		}
	}

	return fmt.Errorf("unrecognised timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// In returns t in loc. Naive values keep their wall clock.
func (t Timestamp) In(loc *time.Location) Timestamp {
	if t.IsZero() {
		return t
	}

	if t.naive {
		return Timestamp{Time: time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)}
	}
	return Timestamp{Time: t.Time.In(loc)}
}

func (e *Event) localize(loc *time.Location) {
	e.Timestamp = e.Timestamp.In(loc)
	e.EntryTime = e.EntryTime.In(loc)
	if e.ExitTime != nil {
		exit := e.ExitTime.In(loc)
		e.ExitTime = &exit
	}
}
