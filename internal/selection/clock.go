package selection

import "time"

// Clock supplies "now" and the location day boundaries are computed in.
type Clock struct {
	Location *time.Location
	Now      func() time.Time
}

func SystemClock(loc *time.Location) Clock {
	return Clock{Location: loc, Now: time.Now}
}

func (c Clock) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// Time returns the current instant in the clock's location.
func (c Clock) Time() time.Time {
	if c.Now == nil {
		return time.Now().In(c.location())
	}
	return c.Now().In(c.location())
}

// Today returns midnight of the current day in the clock's location.
func (c Clock) Today() time.Time {
	t := c.Time()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// In pins the calendar date of t to midnight in the clock's location.
func (c Clock) In(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.location())
}
